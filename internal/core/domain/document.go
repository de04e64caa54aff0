package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DocumentStatus indicates where an invoice or bill sits in its lifecycle.
// Issued documents are corrected by reversing their transaction, not edited.
type DocumentStatus string

const (
	DocDraft  DocumentStatus = "DRAFT"
	DocIssued DocumentStatus = "ISSUED"
	DocVoid   DocumentStatus = "VOID"
)

// IsValid reports whether s is one of the known document statuses.
func (s DocumentStatus) IsValid() bool {
	switch s {
	case DocDraft, DocIssued, DocVoid:
		return true
	default:
		return false
	}
}

// DocumentLine is one revenue or expense line on an invoice or bill. Amount
// follows the referenced tax code's basis: gross when the code is inclusive,
// net otherwise.
type DocumentLine struct {
	LineID       string          `json:"lineID"`     // Primary Key (UUID)
	DocumentID   string          `json:"documentID"` // FK -> invoices.invoice_id / bills.bill_id
	AccountID    string          `json:"accountID"`  // Revenue/expense account for this line
	Description  string          `json:"description"`
	Amount       decimal.Decimal `json:"amount"` // Strictly positive, max 2dp
	TaxCodeID    *string         `json:"taxCodeID"`
	DepartmentID *string         `json:"departmentID"`
}

// Invoice is an accounts-receivable document. Issuing it posts the backing
// transaction; AmountPaid is a cache maintained by the allocation subsystem.
type Invoice struct {
	InvoiceID     string          `json:"invoiceID"` // Primary Key (UUID)
	CompanyID     string          `json:"companyID"` // FK -> companies.company_id
	ContactID     string          `json:"contactID"` // FK -> contacts.contact_id
	Number        string          `json:"number"`    // User-facing number, unique per company
	IssueDate     time.Time       `json:"issueDate"`
	DueDate       time.Time       `json:"dueDate"`
	Status        DocumentStatus  `json:"status"`
	Lines         []DocumentLine  `json:"lines"`
	Total         decimal.Decimal `json:"total"`      // Gross total, set at issuance
	TaxTotal      decimal.Decimal `json:"taxTotal"`   // Set at issuance
	AmountPaid    decimal.Decimal `json:"amountPaid"` // Allocation cache
	TransactionID *string         `json:"transactionID"` // Set when issued
	AuditFields
}

// Balance returns the unpaid remainder. Negative means overpaid (a credit).
func (i Invoice) Balance() decimal.Decimal {
	return i.Total.Sub(i.AmountPaid)
}

// Bill is an accounts-payable document, the mirror image of Invoice.
type Bill struct {
	BillID        string          `json:"billID"`    // Primary Key (UUID)
	CompanyID     string          `json:"companyID"` // FK -> companies.company_id
	ContactID     string          `json:"contactID"` // FK -> contacts.contact_id
	Number        string          `json:"number"`    // Supplier reference, unique per company
	IssueDate     time.Time       `json:"issueDate"`
	DueDate       time.Time       `json:"dueDate"`
	Status        DocumentStatus  `json:"status"`
	Lines         []DocumentLine  `json:"lines"`
	Total         decimal.Decimal `json:"total"`
	TaxTotal      decimal.Decimal `json:"taxTotal"`
	AmountPaid    decimal.Decimal `json:"amountPaid"`
	TransactionID *string         `json:"transactionID"`
	AuditFields
}

// Balance returns the unpaid remainder. Negative means overpaid.
func (b Bill) Balance() decimal.Decimal {
	return b.Total.Sub(b.AmountPaid)
}
