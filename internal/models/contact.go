package models

// ContactType classifies a contact by which document sides it can appear on.
type ContactType string

const (
	ContactCustomer ContactType = "CUSTOMER"
	ContactSupplier ContactType = "SUPPLIER"
	ContactBoth     ContactType = "BOTH"
)

// Contact is a customer or supplier that invoices and bills are raised against.
type Contact struct {
	ContactID   string      `json:"contactID"` // Primary Key (UUID)
	CompanyID   string      `json:"companyID"` // FK -> Company.companyID (Not Null)
	Name        string      `json:"name"`
	ContactType ContactType `json:"contactType"` // CUSTOMER, SUPPLIER or BOTH
	Email       string      `json:"email"`       // Nullable
	IsActive    bool        `json:"isActive"`
	AuditFields
}
