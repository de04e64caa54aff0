package domain

// Company represents an isolated set of books: accounts, periods, transactions
// and documents all hang off a single company.
type Company struct {
	CompanyID    string `json:"companyID"`    // Primary Key (UUID)
	Name         string `json:"name"`         // Legal or trading name
	CurrencyCode string `json:"currencyCode"` // Display currency, e.g. "NZD"; the books are single-currency
	IsActive     bool   `json:"isActive"`
	AuditFields
}
