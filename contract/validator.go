package contract

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/lexroom/contractagent/core"
	"github.com/lexroom/contractagent/model"
)

// ModelValidator runs legal validation by prompting a model gateway with the
// contract text plus its structured record and decoding the JSON report. It
// never persists anything; saving the report is the caller's side effect.
type ModelValidator struct {
	llm       model.Model
	contracts Store
}

// NewModelValidator constructs a validator over the given gateway and
// contract store.
func NewModelValidator(llm model.Model, contracts Store) *ModelValidator {
	return &ModelValidator{llm: llm, contracts: contracts}
}

const validatorInstruction = `You are a legal expert assistant. Validate the contract text below against the schema requirements and general legal standards.

Perform the following checks:
1. date_verification: dates are correct, consistent and logical (e.g. expiration after effective date).
2. missing_clauses_compliance: clauses required by the schema are present; specific laws mentioned or implied are complied with.
3. spelling_mistakes: important headings and subheadings are spelled correctly.
4. language_ambiguities: no misleading or unclear contract language.

For each check provide a score from 1 to 10 (10 being perfect) and list any validation errors found. Answer with a single JSON object of the shape:
{"date_verification":{"score":0,"errors":[]},"missing_clauses_compliance":{"score":0,"errors":[]},"spelling_mistakes":{"score":0,"errors":[]},"language_ambiguities":{"score":0,"errors":[]}}
No prose outside the JSON object.`

// Validate implements Validator.
func (v *ModelValidator) Validate(ctx context.Context, contractID string) (*ValidationReport, error) {
	record, err := v.contracts.Get(ctx, contractID)
	if err != nil {
		return nil, err
	}
	text, err := v.contracts.Content(ctx, contractID)
	if err != nil {
		return nil, err
	}
	schema, err := json.Marshal(record.PublicFields())
	if err != nil {
		return nil, fmt.Errorf("failed to encode contract record: %w", err)
	}

	req := model.Request{Messages: buildValidationMessages(text, string(schema))}
	resp, err := v.llm.Invoke(ctx, req)
	if err != nil {
		return nil, err
	}

	var report ValidationReport
	if err := json.Unmarshal([]byte(stripFences(resp.Content)), &report); err != nil {
		return nil, fmt.Errorf("failed to decode validation report: %w", err)
	}
	return &report, nil
}

func buildValidationMessages(text, schema string) []core.Message {
	prompt := fmt.Sprintf("Contract Text:\n%s\n\nContract Schema Requirements:\n%s", text, schema)
	return []core.Message{
		core.NewSystemMessage(validatorInstruction),
		core.NewHumanMessage(prompt),
	}
}

// stripFences removes a markdown code fence if the model wrapped its JSON
// answer in one.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
