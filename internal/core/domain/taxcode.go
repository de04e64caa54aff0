package domain

import "github.com/shopspring/decimal"

// TaxCode defines a tax treatment that transaction lines may reference.
// Rate and reporting fields are snapshotted onto tax lines at posting time,
// so later edits to a code never rewrite history.
type TaxCode struct {
	TaxCodeID    string          `json:"taxCodeID"` // Primary Key (UUID)
	CompanyID    string          `json:"companyID"` // FK -> companies.company_id
	Code         string          `json:"code"`      // Short code, e.g. "GST15"
	Name         string          `json:"name"`
	Rate         decimal.Decimal `json:"rate"`         // Fractional rate, e.g. 0.15 for 15%
	ReportingBox string          `json:"reportingBox"` // Tax return box this code reports into
	Jurisdiction string          `json:"jurisdiction"` // e.g. "NZ"
	Inclusive    bool            `json:"inclusive"`    // True when line amounts are tax-inclusive
	IsActive     bool            `json:"isActive"`
	AuditFields
}
