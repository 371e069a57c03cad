package contract

import (
	"context"
	"time"
)

// Type enumerates the supported contract categories.
type Type string

const (
	// TypeSupplier is a supplier / procurement contract.
	TypeSupplier Type = "SUPPLIER_CONTRACT"
	// TypeNDA is a non-disclosure agreement.
	TypeNDA Type = "NDA_CONTRACT"
	// TypeEmployment is an employment contract.
	TypeEmployment Type = "EMPLOYMENT_CONTRACT"
)

// Label returns a human-readable form of the category for use in prose.
func (t Type) Label() string {
	switch t {
	case TypeSupplier:
		return "supplier"
	case TypeNDA:
		return "non-disclosure"
	case TypeEmployment:
		return "employment"
	default:
		return string(t)
	}
}

// Party is one side of a contract.
type Party struct {
	LegalName string `json:"legal_name"`
	Address   string `json:"address,omitempty"`
	Contact   string `json:"contact,omitempty"`
	// DisclosingParty is set on NDA parties: true for the disclosing side,
	// false for the receiving side.
	DisclosingParty *bool `json:"disclosing_party,omitempty"`
}

// PaymentTerms captures the agreed payment arrangement.
type PaymentTerms struct {
	Currency      string `json:"currency"`
	DuePeriodDays int    `json:"due_period_days"`
	Mode          string `json:"payment_mode,omitempty"`
	Frequency     string `json:"payment_freq,omitempty"`
}

// Compensation captures employment contract pay details.
type Compensation struct {
	Currency       string  `json:"currency"`
	BaseSalary     float64 `json:"base_salary"`
	HouseAllowance float64 `json:"house_allowance,omitempty"`
}

// Contract is the structured record produced by the extraction pipeline.
// ID, OwnerID and the storage URIs are internal; PublicFields strips them
// before anything reaches a model.
type Contract struct {
	ID             string        `json:"contract_id"`
	OwnerID        string        `json:"owner_id"`
	Type           Type          `json:"contract_type"`
	Parties        []Party       `json:"parties,omitempty"`
	EffectiveDate  time.Time     `json:"effective_date"`
	ExpirationDate *time.Time    `json:"expiration_date,omitempty"`
	TermMonths     int           `json:"contract_term,omitempty"`
	RenewalType    string        `json:"renewal_type,omitempty"`
	Payment        *PaymentTerms `json:"payment_term,omitempty"`
	Compensation   *Compensation `json:"compensation,omitempty"`
	GoverningLaws  []string      `json:"governing_laws,omitempty"`
	PDFURI         string        `json:"pdf_uri,omitempty"`
	MarkdownURI    string        `json:"md_uri,omitempty"`
}

// PublicFields returns the model-facing view of the record: structured
// fields only, with internal identifiers and storage locations removed.
func (c *Contract) PublicFields() map[string]any {
	fields := map[string]any{
		"contract_type":  string(c.Type),
		"effective_date": c.EffectiveDate.Format("2006-01-02"),
	}
	if len(c.Parties) > 0 {
		fields["parties"] = c.Parties
	}
	if c.ExpirationDate != nil {
		fields["expiration_date"] = c.ExpirationDate.Format("2006-01-02")
	}
	if c.TermMonths > 0 {
		fields["contract_term"] = c.TermMonths
	}
	if c.RenewalType != "" {
		fields["renewal_type"] = c.RenewalType
	}
	if c.Payment != nil {
		fields["payment_term"] = c.Payment
	}
	if c.Compensation != nil {
		fields["compensation"] = c.Compensation
	}
	if len(c.GoverningLaws) > 0 {
		fields["governing_laws"] = c.GoverningLaws
	}
	return fields
}

// ValidationCheck is one scored validation dimension. Score runs 1..10 with
// 10 meaning no findings.
type ValidationCheck struct {
	Score  int      `json:"score"`
	Errors []string `json:"errors,omitempty"`
}

// ValidationReport is the outcome of validating a contract: four fixed
// checks mirroring what the validation pipeline examines.
type ValidationReport struct {
	DateVerification         ValidationCheck `json:"date_verification"`
	MissingClausesCompliance ValidationCheck `json:"missing_clauses_compliance"`
	SpellingMistakes         ValidationCheck `json:"spelling_mistakes"`
	LanguageAmbiguities      ValidationCheck `json:"language_ambiguities"`
}

// Store is the narrow read boundary the engine uses for contracts, plus the
// single report write performed by the validate_contract tool.
type Store interface {
	// Get returns the structured record or core.ErrNotFound.
	Get(ctx context.Context, contractID string) (*Contract, error)

	// Content returns the full document text or core.ErrNotFound. The
	// engine reads it exactly once per agent, at bootstrap.
	Content(ctx context.Context, contractID string) (string, error)

	// Report returns the stored validation report or core.ErrNotFound if
	// none has been computed yet.
	Report(ctx context.Context, contractID string) (*ValidationReport, error)

	// SaveReport stores (or replaces) the validation report.
	SaveReport(ctx context.Context, contractID string, report *ValidationReport) error
}

// Validator runs the external validation pipeline for one contract.
type Validator interface {
	Validate(ctx context.Context, contractID string) (*ValidationReport, error)
}
