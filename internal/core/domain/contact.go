package domain

// ContactType classifies a contact by which document sides it can appear on.
type ContactType string

const (
	ContactCustomer ContactType = "CUSTOMER"
	ContactSupplier ContactType = "SUPPLIER"
	ContactBoth     ContactType = "BOTH"
)

// IsValid reports whether t is one of the known contact types.
func (t ContactType) IsValid() bool {
	switch t {
	case ContactCustomer, ContactSupplier, ContactBoth:
		return true
	default:
		return false
	}
}

// CanReceiveInvoices reports whether invoices may be raised against this contact.
func (t ContactType) CanReceiveInvoices() bool {
	return t == ContactCustomer || t == ContactBoth
}

// CanReceiveBills reports whether bills may be recorded against this contact.
func (t ContactType) CanReceiveBills() bool {
	return t == ContactSupplier || t == ContactBoth
}

// Contact is a customer or supplier that invoices and bills are raised against.
type Contact struct {
	ContactID   string      `json:"contactID"` // Primary Key (UUID)
	CompanyID   string      `json:"companyID"` // FK -> companies.company_id
	Name        string      `json:"name"`
	ContactType ContactType `json:"contactType"`
	Email       string      `json:"email"`
	IsActive    bool        `json:"isActive"`
	AuditFields
}
