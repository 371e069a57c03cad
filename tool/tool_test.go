package tool

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/lexroom/contractagent/contract"
	"github.com/lexroom/contractagent/core"
	"github.com/lexroom/contractagent/internal/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// -------------------- FunctionTool Tests --------------------

func TestFunctionToolValidation(t *testing.T) {
	ft := NewFunctionTool(
		"add",
		"Add two numbers",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"a": map[string]any{"type": "number"},
				"b": map[string]any{"type": "number"},
			},
			"required": []string{"a", "b"},
		},
		func(_ context.Context, args map[string]any) (any, error) {
			return args["a"].(float64) + args["b"].(float64), nil
		},
	)

	result, err := ft.Call(context.Background(), map[string]any{"a": 1.5, "b": 2.5})
	require.NoError(t, err)
	assert.Equal(t, 4.0, result)

	_, err = ft.Call(context.Background(), map[string]any{"a": 1.5})
	var toolErr *ToolError
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, "VALIDATION_ERROR", toolErr.Code)
	assert.Equal(t, "add", toolErr.Tool)
}

func TestFunctionToolWrapsExecutionError(t *testing.T) {
	ft := NewFunctionTool("boom", "Always fails", util.EmptyObjectSchema(),
		func(context.Context, map[string]any) (any, error) {
			return nil, errors.New("kaboom")
		})

	_, err := ft.Call(context.Background(), map[string]any{})
	var toolErr *ToolError
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, "EXECUTION_ERROR", toolErr.Code)
	assert.Equal(t, "kaboom", toolErr.Message)
}

func TestFunctionToolPreservesToolError(t *testing.T) {
	custom := NewToolError("custom", "rate limited upstream", "UPSTREAM_429")
	ft := NewFunctionTool("custom", "Fails with custom code", util.EmptyObjectSchema(),
		func(context.Context, map[string]any) (any, error) {
			return nil, custom
		})

	_, err := ft.Call(context.Background(), map[string]any{})
	var toolErr *ToolError
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, "UPSTREAM_429", toolErr.Code)
}

// -------------------- Registry Tests --------------------

func TestRegistryLookupUnknown(t *testing.T) {
	r := NewRegistry()
	_, err := r.Lookup("nope")
	assert.ErrorIs(t, err, core.ErrUnknownTool)
}

func TestRegistryRejectsDuplicate(t *testing.T) {
	ft := NewFunctionTool("dup", "d", util.EmptyObjectSchema(),
		func(context.Context, map[string]any) (any, error) { return nil, nil })
	r := NewRegistry(ft)
	assert.Error(t, r.Register(ft))
}

func TestRegistryDefinitionsSorted(t *testing.T) {
	mk := func(name string) *FunctionTool {
		return NewFunctionTool(name, name, util.EmptyObjectSchema(),
			func(context.Context, map[string]any) (any, error) { return nil, nil })
	}
	r := NewRegistry(mk("zeta"), mk("alpha"), mk("mid"))

	defs := r.Definitions()
	require.Len(t, defs, 3)
	assert.Equal(t, "alpha", defs[0].Function.Name)
	assert.Equal(t, "mid", defs[1].Function.Name)
	assert.Equal(t, "zeta", defs[2].Function.Name)
	assert.Equal(t, "function", defs[0].Type)
}

// -------------------- Contract Tool Tests --------------------

type stubValidator struct {
	report *contract.ValidationReport
	err    error
	calls  int
}

func (s *stubValidator) Validate(context.Context, string) (*contract.ValidationReport, error) {
	s.calls++
	return s.report, s.err
}

func seedContractStore(t *testing.T) *contract.InMemoryStore {
	t.Helper()
	cs := contract.NewInMemoryStore()
	c := &contract.Contract{
		ID:      "c-1",
		OwnerID: "owner-1",
		Type:    contract.TypeEmployment,
		Parties: []contract.Party{{LegalName: "Acme Corp"}},
		Compensation: &contract.Compensation{
			Currency:   "USD",
			BaseSalary: 50000,
		},
	}
	cs.Put(c, "Employment agreement. Base salary: $50,000 per year.")
	return cs
}

func TestGetContractDataStripsPrivateFields(t *testing.T) {
	cs := seedContractStore(t)
	r := NewContractRegistry("c-1", ContractCapabilities{Contracts: cs})

	tl, err := r.Lookup("get_contract_data")
	require.NoError(t, err)
	result, err := tl.Call(context.Background(), map[string]any{})
	require.NoError(t, err)

	encoded, err := json.Marshal(result)
	require.NoError(t, err)
	assert.Contains(t, string(encoded), "50000")
	assert.Contains(t, string(encoded), "Acme Corp")
	assert.NotContains(t, string(encoded), "c-1")
	assert.NotContains(t, string(encoded), "owner-1")
}

func TestGetContractDataUnknownContract(t *testing.T) {
	r := NewContractRegistry("missing", ContractCapabilities{Contracts: contract.NewInMemoryStore()})

	tl, err := r.Lookup("get_contract_data")
	require.NoError(t, err)
	_, err = tl.Call(context.Background(), map[string]any{})
	var toolErr *ToolError
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, "EXECUTION_ERROR", toolErr.Code)
}

func TestFetchValidationReportMissing(t *testing.T) {
	cs := seedContractStore(t)
	r := NewContractRegistry("c-1", ContractCapabilities{Contracts: cs})

	tl, err := r.Lookup("fetch_validation_report")
	require.NoError(t, err)
	_, err = tl.Call(context.Background(), map[string]any{})
	assert.Error(t, err)
}

func TestValidateContractWithoutValidator(t *testing.T) {
	cs := seedContractStore(t)
	r := NewContractRegistry("c-1", ContractCapabilities{Contracts: cs})

	tl, err := r.Lookup("validate_contract")
	require.NoError(t, err)
	_, err = tl.Call(context.Background(), map[string]any{})
	var toolErr *ToolError
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, "EXECUTION_ERROR", toolErr.Code)
	assert.Contains(t, toolErr.Message, "no validator")
}

func TestValidateContractPersistsReport(t *testing.T) {
	cs := seedContractStore(t)
	report := &contract.ValidationReport{
		DateVerification: contract.ValidationCheck{Score: 9},
	}
	v := &stubValidator{report: report}
	r := NewContractRegistry("c-1", ContractCapabilities{Contracts: cs, Validator: v})

	tl, err := r.Lookup("validate_contract")
	require.NoError(t, err)
	result, err := tl.Call(context.Background(), map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, report, result)
	assert.Equal(t, 1, v.calls)

	stored, err := cs.Report(context.Background(), "c-1")
	require.NoError(t, err)
	assert.Equal(t, 9, stored.DateVerification.Score)
}
