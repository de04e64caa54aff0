package models

// Department is an optional reporting dimension carried on transaction lines.
type Department struct {
	DepartmentID string `json:"departmentID"` // Primary Key (UUID)
	CompanyID    string `json:"companyID"`    // FK -> Company.companyID (Not Null)
	Name         string `json:"name"`
	IsActive     bool   `json:"isActive"`
	AuditFields
}
