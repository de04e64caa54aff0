package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReconciliationStatus tracks the bank-reconciliation sub-state of an entry.
type ReconciliationStatus string

const (
	ReconUnreconciled  ReconciliationStatus = "UNRECONCILED"
	ReconReconciled    ReconciliationStatus = "RECONCILED"
	ReconManualCleared ReconciliationStatus = "MANUAL_CLEARED"
)

// LedgerEntry is the immutable accounting record produced from one transaction
// line at posting time. Exactly one of AmountDr / AmountCr is nonzero; the
// accounting columns are never updated after insert, only the reconciliation
// sub-state may change.
type LedgerEntry struct {
	EntryID       string          `json:"entryID"`       // Primary Key (UUID)
	CompanyID     string          `json:"companyID"`     // FK -> Company.companyID (Not Null)
	TransactionID string          `json:"transactionID"` // FK -> Transaction.transactionID (Not Null)
	LineID        string          `json:"lineID"`        // FK -> TransactionLine.lineID (Not Null)
	AccountID     string          `json:"accountID"`     // FK -> Account.accountID (Not Null)
	EntryDate     time.Time       `json:"entryDate"`     // Copied from the transaction date
	AmountDr      decimal.Decimal `json:"amountDr"`
	AmountCr      decimal.Decimal `json:"amountCr"`
	TaxCodeID     *string         `json:"taxCodeID"`    // Nullable
	DepartmentID  *string         `json:"departmentID"` // Nullable

	Reconciled           bool                 `json:"reconciled"`
	ReconciliationStatus ReconciliationStatus `json:"reconciliationStatus"`
	BankFeedItemID       *string              `json:"bankFeedItemID"` // Nullable, set while matched
	ReconciledBy         *string              `json:"reconciledBy"`   // Nullable
	ReconciledAt         *time.Time           `json:"reconciledAt"`   // Nullable

	CreatedAt time.Time `json:"createdAt"`
	CreatedBy string    `json:"createdBy"`
}

// TaxLine is the immutable tax record derived from a ledger entry at posting
// time. Rate and reporting fields are snapshots.
type TaxLine struct {
	TaxLineID     string          `json:"taxLineID"` // Primary Key (UUID)
	CompanyID     string          `json:"companyID"` // FK -> Company.companyID (Not Null)
	EntryID       string          `json:"entryID"`   // FK -> LedgerEntry.entryID (Not Null)
	TaxCodeID     string          `json:"taxCodeID"` // FK -> TaxCode.taxCodeID (Not Null)
	RateSnapshot  decimal.Decimal `json:"rateSnapshot"`
	TaxableAmount decimal.Decimal `json:"taxableAmount"`
	TaxAmount     decimal.Decimal `json:"taxAmount"`
	ReportingBox  string          `json:"reportingBox"`
	Jurisdiction  string          `json:"jurisdiction"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// ReversalLink records that one posted transaction reverses another.
// original_transaction_id carries a unique constraint.
type ReversalLink struct {
	LinkID                 string    `json:"linkID"`                 // Primary Key (UUID)
	CompanyID              string    `json:"companyID"`              // FK -> Company.companyID (Not Null)
	OriginalTransactionID  string    `json:"originalTransactionID"`  // Unique FK -> Transaction.transactionID
	ReversingTransactionID string    `json:"reversingTransactionID"` // FK -> Transaction.transactionID
	Reason                 string    `json:"reason"`
	CreatedAt              time.Time `json:"createdAt"`
	CreatedBy              string    `json:"createdBy"`
}
