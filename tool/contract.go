package tool

import (
	"context"
	"fmt"

	"github.com/lexroom/contractagent/contract"
	"github.com/lexroom/contractagent/internal/util"
)

// ContractCapabilities bundles the dependencies the contract tools need.
// Injecting them explicitly keeps the tools free of ambient globals.
type ContractCapabilities struct {
	Contracts contract.Store
	Validator contract.Validator
}

// NewContractRegistry builds the tool set for a conversation scoped to a
// single contract. Every tool closes over the contract id it was granted, so
// the model never supplies or sees identifiers.
func NewContractRegistry(contractID string, caps ContractCapabilities) *Registry {
	return NewRegistry(
		newGetContractDataTool(contractID, caps.Contracts),
		newFetchValidationReportTool(contractID, caps.Contracts),
		newValidateContractTool(contractID, caps),
	)
}

func newGetContractDataTool(contractID string, store contract.Store) *FunctionTool {
	return NewFunctionTool(
		"get_contract_data",
		"Fetch the structured data of the contract under discussion: parties, dates, term, payment or compensation details and governing laws.",
		util.EmptyObjectSchema(),
		func(ctx context.Context, _ map[string]any) (any, error) {
			c, err := store.Get(ctx, contractID)
			if err != nil {
				return nil, fmt.Errorf("get contract %s: %w", contractID, err)
			}
			return c.PublicFields(), nil
		},
	)
}

func newFetchValidationReportTool(contractID string, store contract.Store) *FunctionTool {
	return NewFunctionTool(
		"fetch_validation_report",
		"Fetch the stored validation report for the contract under discussion, if one has been produced.",
		util.EmptyObjectSchema(),
		func(ctx context.Context, _ map[string]any) (any, error) {
			report, err := store.Report(ctx, contractID)
			if err != nil {
				return nil, fmt.Errorf("fetch report for contract %s: %w", contractID, err)
			}
			return report, nil
		},
	)
}

func newValidateContractTool(contractID string, caps ContractCapabilities) *FunctionTool {
	return NewFunctionTool(
		"validate_contract",
		"Run a fresh validation of the contract under discussion, checking dates, missing clauses, spelling and ambiguous language. The report is stored and returned.",
		util.EmptyObjectSchema(),
		func(ctx context.Context, _ map[string]any) (any, error) {
			if caps.Validator == nil {
				return nil, NewToolError("validate_contract", "no validator is configured", "EXECUTION_ERROR")
			}
			report, err := caps.Validator.Validate(ctx, contractID)
			if err != nil {
				return nil, fmt.Errorf("validate contract %s: %w", contractID, err)
			}
			if err := caps.Contracts.SaveReport(ctx, contractID, report); err != nil {
				return nil, fmt.Errorf("save report for contract %s: %w", contractID, err)
			}
			return report, nil
		},
	)
}
