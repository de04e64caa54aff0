package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType classifies the business meaning of a transaction.
type TransactionType string

const (
	TxnPayment TransactionType = "PAYMENT" // Money out
	TxnReceipt TransactionType = "RECEIPT" // Money in
	TxnJournal TransactionType = "JOURNAL" // Manual adjustment
	TxnInvoice TransactionType = "INVOICE" // Raised by invoice issuance
	TxnBill    TransactionType = "BILL"    // Raised by bill issuance
)

// IsValid reports whether t is one of the known transaction types.
func (t TransactionType) IsValid() bool {
	switch t {
	case TxnPayment, TxnReceipt, TxnJournal, TxnInvoice, TxnBill:
		return true
	default:
		return false
	}
}

// TransactionStatus indicates where a transaction sits in its lifecycle.
// DRAFT is freely editable; POSTED is immutable (corrections happen via
// reversal); VOID is a discarded draft.
type TransactionStatus string

const (
	StatusDraft  TransactionStatus = "DRAFT"
	StatusPosted TransactionStatus = "POSTED"
	StatusVoid   TransactionStatus = "VOID"
)

// IsValid reports whether s is one of the known transaction statuses.
func (s TransactionStatus) IsValid() bool {
	switch s {
	case StatusDraft, StatusPosted, StatusVoid:
		return true
	default:
		return false
	}
}

// Direction indicates whether a transaction line debits or credits its account.
type Direction string

const (
	Debit  Direction = "DEBIT"
	Credit Direction = "CREDIT"
)

// IsValid reports whether d is a known direction.
func (d Direction) IsValid() bool {
	switch d {
	case Debit, Credit:
		return true
	default:
		return false
	}
}

// Invert returns the opposite direction. Used by the reversal engine.
func (d Direction) Invert() Direction {
	switch d {
	case Debit:
		return Credit
	case Credit:
		return Debit
	default:
		return d
	}
}

// Transaction is the unit of entry: a dated, described set of lines that must
// balance before it can be posted. The parent owns its lines outright; lines
// refer back by ID only.
type Transaction struct {
	TransactionID   string            `json:"transactionID"` // Primary Key (UUID)
	CompanyID       string            `json:"companyID"`     // FK -> companies.company_id (NON-NULL)
	TransactionType TransactionType   `json:"transactionType"`
	TransactionDate time.Time         `json:"transactionDate"` // Date-only; decides the accounting period
	Description     string            `json:"description"`
	Status          TransactionStatus `json:"status"`
	PostedAt        *time.Time        `json:"postedAt"` // Set exactly once, by the posting engine
	Lines           []TransactionLine `json:"lines"`
	AuditFields
}

// IsDraft reports whether the transaction can still be edited.
func (t Transaction) IsDraft() bool {
	return t.Status == StatusDraft
}

// TransactionLine is one side-entry within a transaction: a positive amount
// applied to an account as either a debit or a credit.
type TransactionLine struct {
	LineID        string          `json:"lineID"`        // Primary Key (UUID)
	TransactionID string          `json:"transactionID"` // FK -> transactions.transaction_id
	AccountID     string          `json:"accountID"`     // FK -> accounts.account_id
	Amount        decimal.Decimal `json:"amount"`        // Strictly positive, max 2dp
	Direction     Direction       `json:"direction"`
	TaxCodeID     *string         `json:"taxCodeID"`    // Optional FK -> tax_codes.tax_code_id
	DepartmentID  *string         `json:"departmentID"` // Optional FK -> departments.department_id
	Notes         string          `json:"notes"`
}
