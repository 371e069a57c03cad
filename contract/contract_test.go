package contract

import (
	"context"
	"testing"
	"time"

	"github.com/lexroom/contractagent/core"
	"github.com/lexroom/contractagent/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedStore() *InMemoryStore {
	s := NewInMemoryStore()
	expires := time.Date(2027, 3, 1, 0, 0, 0, 0, time.UTC)
	s.Put(&Contract{
		ID:             "c-1",
		OwnerID:        "owner-1",
		Type:           TypeSupplier,
		Parties:        []Party{{LegalName: "Acme Corp"}, {LegalName: "Supplies GmbH"}},
		EffectiveDate:  time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		ExpirationDate: &expires,
		TermMonths:     12,
		Payment:        &PaymentTerms{Currency: "EUR", DuePeriodDays: 30},
		GoverningLaws:  []string{"Germany"},
		PDFURI:         "gs://bucket/c-1.pdf",
		MarkdownURI:    "gs://bucket/c-1.md",
	}, "Supply agreement between Acme Corp and Supplies GmbH.")
	return s
}

func TestPublicFieldsStripInternals(t *testing.T) {
	s := seedStore()
	c, err := s.Get(context.Background(), "c-1")
	require.NoError(t, err)

	fields := c.PublicFields()
	assert.Equal(t, "SUPPLIER_CONTRACT", fields["contract_type"])
	assert.Equal(t, "2026-03-01", fields["effective_date"])
	assert.Equal(t, "2027-03-01", fields["expiration_date"])
	assert.Equal(t, 12, fields["contract_term"])
	assert.NotContains(t, fields, "contract_id")
	assert.NotContains(t, fields, "owner_id")
	assert.NotContains(t, fields, "pdf_uri")
	assert.NotContains(t, fields, "md_uri")
}

func TestTypeLabel(t *testing.T) {
	assert.Equal(t, "supplier", TypeSupplier.Label())
	assert.Equal(t, "non-disclosure", TypeNDA.Label())
	assert.Equal(t, "employment", TypeEmployment.Label())
	assert.Equal(t, "OTHER", Type("OTHER").Label())
}

func TestInMemoryStoreNotFound(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()

	_, err := s.Get(ctx, "missing")
	assert.ErrorIs(t, err, core.ErrNotFound)
	_, err = s.Content(ctx, "missing")
	assert.ErrorIs(t, err, core.ErrNotFound)
	_, err = s.Report(ctx, "missing")
	assert.ErrorIs(t, err, core.ErrNotFound)
	assert.ErrorIs(t, s.SaveReport(ctx, "missing", &ValidationReport{}), core.ErrNotFound)
}

func TestSaveAndFetchReport(t *testing.T) {
	s := seedStore()
	ctx := context.Background()

	report := &ValidationReport{
		DateVerification:         ValidationCheck{Score: 10},
		MissingClausesCompliance: ValidationCheck{Score: 6, Errors: []string{"no liability cap"}},
	}
	require.NoError(t, s.SaveReport(ctx, "c-1", report))

	got, err := s.Report(ctx, "c-1")
	require.NoError(t, err)
	assert.Equal(t, 10, got.DateVerification.Score)
	assert.Equal(t, []string{"no liability cap"}, got.MissingClausesCompliance.Errors)
}

func TestModelValidatorDecodesReport(t *testing.T) {
	s := seedStore()
	llm := model.NewMockModel().QueueFinal("```json\n" + `{
		"date_verification": {"score": 9, "errors": []},
		"missing_clauses_compliance": {"score": 5, "errors": ["termination clause missing"]},
		"spelling_mistakes": {"score": 10, "errors": []},
		"language_ambiguities": {"score": 7, "errors": ["'reasonable efforts' undefined"]}
	}` + "\n```")

	v := NewModelValidator(llm, s)
	report, err := v.Validate(context.Background(), "c-1")
	require.NoError(t, err)
	assert.Equal(t, 9, report.DateVerification.Score)
	assert.Equal(t, []string{"termination clause missing"}, report.MissingClausesCompliance.Errors)
	assert.Equal(t, 7, report.LanguageAmbiguities.Score)

	// Nothing persisted by the validator itself.
	_, err = s.Report(context.Background(), "c-1")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestModelValidatorPromptCarriesContract(t *testing.T) {
	s := seedStore()
	var captured model.Request
	llm := model.NewMockModel().QueueFinal(`{"date_verification":{"score":10}}`)
	v := NewModelValidator(capturingModel{llm, &captured}, s)

	_, err := v.Validate(context.Background(), "c-1")
	require.NoError(t, err)

	require.Len(t, captured.Messages, 2)
	assert.Equal(t, core.RoleSystem, captured.Messages[0].Role())
	prompt := core.MessageContent(captured.Messages[1])
	assert.Contains(t, prompt, "Supply agreement between Acme Corp")
	assert.Contains(t, prompt, "SUPPLIER_CONTRACT")
	assert.NotContains(t, prompt, "gs://bucket")
}

func TestModelValidatorUnknownContract(t *testing.T) {
	v := NewModelValidator(model.NewMockModel(), NewInMemoryStore())
	_, err := v.Validate(context.Background(), "missing")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestStripFences(t *testing.T) {
	assert.Equal(t, `{"a":1}`, stripFences("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripFences("```\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripFences(`{"a":1}`))
}

// capturingModel records the request before delegating to the wrapped mock.
type capturingModel struct {
	model.Model
	captured *model.Request
}

func (c capturingModel) Invoke(ctx context.Context, req model.Request) (*model.Response, error) {
	*c.captured = req
	return c.Model.Invoke(ctx, req)
}
