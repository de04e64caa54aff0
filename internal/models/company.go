package models

// Company represents an isolated set of books.
type Company struct {
	CompanyID    string `json:"companyID"` // Primary Key (UUID)
	Name         string `json:"name"`
	CurrencyCode string `json:"currencyCode"` // Display currency, e.g. "NZD"
	IsActive     bool   `json:"isActive"`
	AuditFields
}
