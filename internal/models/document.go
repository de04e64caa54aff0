package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DocumentStatus indicates where an invoice or bill sits in its lifecycle.
type DocumentStatus string

const (
	DocDraft  DocumentStatus = "DRAFT"
	DocIssued DocumentStatus = "ISSUED"
	DocVoid   DocumentStatus = "VOID"
)

// Invoice is an accounts-receivable document row. Totals and the transaction
// link are set at issuance; AmountPaid is maintained by allocations.
type Invoice struct {
	InvoiceID     string          `json:"invoiceID"` // Primary Key (UUID)
	CompanyID     string          `json:"companyID"` // FK -> Company.companyID (Not Null)
	ContactID     string          `json:"contactID"` // FK -> Contact.contactID (Not Null)
	Number        string          `json:"number"`    // User-facing number, unique per company
	IssueDate     time.Time       `json:"issueDate"`
	DueDate       time.Time       `json:"dueDate"`
	Status        DocumentStatus  `json:"status"` // Default: DRAFT
	Total         decimal.Decimal `json:"total"`
	TaxTotal      decimal.Decimal `json:"taxTotal"`
	AmountPaid    decimal.Decimal `json:"amountPaid"`
	TransactionID *string         `json:"transactionID"` // Nullable FK, set when issued
	AuditFields
}

// Bill is an accounts-payable document row, the mirror image of Invoice.
type Bill struct {
	BillID        string          `json:"billID"`    // Primary Key (UUID)
	CompanyID     string          `json:"companyID"` // FK -> Company.companyID (Not Null)
	ContactID     string          `json:"contactID"` // FK -> Contact.contactID (Not Null)
	Number        string          `json:"number"`    // Supplier reference, unique per company
	IssueDate     time.Time       `json:"issueDate"`
	DueDate       time.Time       `json:"dueDate"`
	Status        DocumentStatus  `json:"status"`
	Total         decimal.Decimal `json:"total"`
	TaxTotal      decimal.Decimal `json:"taxTotal"`
	AmountPaid    decimal.Decimal `json:"amountPaid"`
	TransactionID *string         `json:"transactionID"` // Nullable FK, set when issued
	AuditFields
}

// DocumentLine is one revenue or expense line on an invoice or bill.
// Shared by both document kinds; DocumentID points at whichever parent owns it.
type DocumentLine struct {
	LineID       string          `json:"lineID"`     // Primary Key (UUID)
	DocumentID   string          `json:"documentID"` // FK -> Invoice.invoiceID / Bill.billID (Not Null)
	AccountID    string          `json:"accountID"`  // FK -> Account.accountID (Not Null)
	Description  string          `json:"description"`
	Amount       decimal.Decimal `json:"amount"`       // Positive value; precise decimal type
	TaxCodeID    *string         `json:"taxCodeID"`    // Nullable
	DepartmentID *string         `json:"departmentID"` // Nullable
}
