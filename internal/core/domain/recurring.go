package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Frequency defines how often a recurring template runs.
type Frequency string

const (
	Weekly      Frequency = "WEEKLY"
	Fortnightly Frequency = "FORTNIGHTLY"
	Monthly     Frequency = "MONTHLY"
	Quarterly   Frequency = "QUARTERLY"
	Yearly      Frequency = "YEARLY"
)

// IsValid reports whether f is one of the known frequencies.
func (f Frequency) IsValid() bool {
	switch f {
	case Weekly, Fortnightly, Monthly, Quarterly, Yearly:
		return true
	default:
		return false
	}
}

// NextAfter returns the run date that follows from for this frequency.
// Month-based frequencies use calendar arithmetic, so Jan 31 + MONTHLY
// normalizes per time.AddDate rules.
func (f Frequency) NextAfter(from time.Time) time.Time {
	switch f {
	case Weekly:
		return from.AddDate(0, 0, 7)
	case Fortnightly:
		return from.AddDate(0, 0, 14)
	case Monthly:
		return from.AddDate(0, 1, 0)
	case Quarterly:
		return from.AddDate(0, 3, 0)
	case Yearly:
		return from.AddDate(1, 0, 0)
	default:
		return from
	}
}

// RecurringTemplate is a saved transaction shape materialized on a schedule.
// Materialization is caller-driven (the run-due endpoint); there is no
// in-process scheduler.
type RecurringTemplate struct {
	TemplateID      string          `json:"templateID"` // Primary Key (UUID)
	CompanyID       string          `json:"companyID"`  // FK -> companies.company_id
	Name            string          `json:"name"`
	TransactionType TransactionType `json:"transactionType"`
	Description     string          `json:"description"` // Description stamped onto generated transactions
	Frequency       Frequency       `json:"frequency"`
	NextRunDate     time.Time       `json:"nextRunDate"` // Date-only; also the generated transaction date
	IsActive        bool            `json:"isActive"`
	Lines           []TemplateLine  `json:"lines"`
	AuditFields
}

// TemplateLine mirrors TransactionLine for the template's stored shape.
type TemplateLine struct {
	LineID       string          `json:"lineID"`     // Primary Key (UUID)
	TemplateID   string          `json:"templateID"` // FK -> recurring_templates.template_id
	AccountID    string          `json:"accountID"`
	Amount       decimal.Decimal `json:"amount"` // Strictly positive, max 2dp
	Direction    Direction       `json:"direction"`
	TaxCodeID    *string         `json:"taxCodeID"`
	DepartmentID *string         `json:"departmentID"`
}

// TemplateRunResult reports the outcome of materializing one due template.
// A failed template does not abort the run; the error is carried per-result.
type TemplateRunResult struct {
	TemplateID    string `json:"templateID"`
	TransactionID string `json:"transactionID,omitempty"` // Set on success
	Error         string `json:"error,omitempty"`         // Set on failure
}
