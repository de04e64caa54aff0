package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType classifies the business meaning of a transaction.
type TransactionType string

const (
	TxnPayment TransactionType = "PAYMENT"
	TxnReceipt TransactionType = "RECEIPT"
	TxnJournal TransactionType = "JOURNAL"
	TxnInvoice TransactionType = "INVOICE"
	TxnBill    TransactionType = "BILL"
)

// TransactionStatus indicates where a transaction sits in its lifecycle.
type TransactionStatus string

const (
	StatusDraft  TransactionStatus = "DRAFT"
	StatusPosted TransactionStatus = "POSTED"
	StatusVoid   TransactionStatus = "VOID"
)

// Direction indicates whether a transaction line is a Debit or a Credit.
type Direction string

const (
	Debit  Direction = "DEBIT"
	Credit Direction = "CREDIT"
)

// Transaction represents a dated, described set of lines that must balance
// before it can be posted. Lines are loaded separately.
type Transaction struct {
	TransactionID   string            `json:"transactionID"` // Primary Key (UUID)
	CompanyID       string            `json:"companyID"`     // FK -> Company.companyID (Not Null)
	TransactionType TransactionType   `json:"transactionType"`
	TransactionDate time.Time         `json:"transactionDate"` // Decides the accounting period
	Description     string            `json:"description"`     // Nullable user description
	Status          TransactionStatus `json:"status"`          // Default: DRAFT
	PostedAt        *time.Time        `json:"postedAt"`        // Set once by the posting engine
	AuditFields
}

// TransactionLine is one side-entry within a transaction, affecting one account.
// Note: Amount should use a precise decimal type like github.com/shopspring/decimal
type TransactionLine struct {
	LineID        string          `json:"lineID"`        // Primary Key (UUID)
	TransactionID string          `json:"transactionID"` // FK -> Transaction.transactionID (Not Null)
	AccountID     string          `json:"accountID"`     // FK -> Account.accountID (Not Null)
	Amount        decimal.Decimal `json:"amount"`        // Positive value; precise decimal type
	Direction     Direction       `json:"direction"`     // DEBIT or CREDIT (Not Null)
	TaxCodeID     *string         `json:"taxCodeID"`     // Nullable FK -> TaxCode.taxCodeID
	DepartmentID  *string         `json:"departmentID"`  // Nullable FK -> Department.departmentID
	Notes         string          `json:"notes"`         // Nullable
}
