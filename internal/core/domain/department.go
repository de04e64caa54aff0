package domain

// Department is an optional reporting dimension carried on transaction lines
// and ledger entries.
type Department struct {
	DepartmentID string `json:"departmentID"` // Primary Key (UUID)
	CompanyID    string `json:"companyID"`    // FK -> companies.company_id
	Name         string `json:"name"`
	IsActive     bool   `json:"isActive"`
	AuditFields
}
