package models

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

// RecurringTemplate is a saved transaction shape materialized on a schedule.
// Lines are loaded separately.
type RecurringTemplate struct {
	TemplateID      string          `json:"templateID"` // Primary Key (UUID)
	CompanyID       string          `json:"companyID"`  // FK -> Company.companyID (Not Null)
	Name            string          `json:"name"`
	TransactionType TransactionType `json:"transactionType"`
	Description     string          `json:"description"` // Stamped onto generated transactions
	Frequency       Frequency       `json:"frequency"`
	NextRunDate     time.Time       `json:"nextRunDate"` // Also the generated transaction date
	IsActive        bool            `json:"isActive"`
	AuditFields
}

// TemplateLine mirrors TransactionLine for the template's stored shape.
type TemplateLine struct {
	LineID       string          `json:"lineID"`     // Primary Key (UUID)
	TemplateID   string          `json:"templateID"` // FK -> RecurringTemplate.templateID (Not Null)
	AccountID    string          `json:"accountID"`  // FK -> Account.accountID (Not Null)
	Amount       decimal.Decimal `json:"amount"`     // Positive value; precise decimal type
	Direction    Direction       `json:"direction"`  // DEBIT or CREDIT (Not Null)
	TaxCodeID    *string         `json:"taxCodeID"`  // Nullable
	DepartmentID *string         `json:"departmentID"` // Nullable
}
