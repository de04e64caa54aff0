package models

import "github.com/shopspring/decimal"

// TaxCode defines a tax treatment that transaction lines may reference.
// Note: Rate uses a precise decimal type; posting snapshots it onto tax lines.
type TaxCode struct {
	TaxCodeID    string          `json:"taxCodeID"` // Primary Key (UUID)
	CompanyID    string          `json:"companyID"` // FK -> Company.companyID (Not Null)
	Code         string          `json:"code"`      // Short code, e.g. "GST15", unique per company
	Name         string          `json:"name"`
	Rate         decimal.Decimal `json:"rate"`         // Fractional rate, e.g. 0.15 for 15%
	ReportingBox string          `json:"reportingBox"` // Tax return box this code reports into
	Jurisdiction string          `json:"jurisdiction"` // e.g. "NZ"
	Inclusive    bool            `json:"inclusive"`    // Line amounts are tax-inclusive when true
	IsActive     bool            `json:"isActive"`
	AuditFields
}
