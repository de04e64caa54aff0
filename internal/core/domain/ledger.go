package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReconciliationStatus tracks the bank-reconciliation sub-state of a ledger
// entry. It is operational bookkeeping owned by the reconciliation workflow
// and never affects accounting math.
type ReconciliationStatus string

const (
	ReconUnreconciled  ReconciliationStatus = "UNRECONCILED"
	ReconReconciled    ReconciliationStatus = "RECONCILED"     // Matched to a bank feed item
	ReconManualCleared ReconciliationStatus = "MANUAL_CLEARED" // Cleared by hand, no feed item
)

// IsValid reports whether s is one of the known reconciliation statuses.
func (s ReconciliationStatus) IsValid() bool {
	switch s {
	case ReconUnreconciled, ReconReconciled, ReconManualCleared:
		return true
	default:
		return false
	}
}

// LedgerEntry is the immutable accounting record produced from one transaction
// line at posting time. Exactly one of AmountDr / AmountCr is nonzero. The
// accounting columns are never updated or deleted once written; only the
// reconciliation sub-state below may change, and only through the
// reconciliation workflow.
type LedgerEntry struct {
	EntryID       string          `json:"entryID"`       // Primary Key (UUID)
	CompanyID     string          `json:"companyID"`     // FK -> companies.company_id
	TransactionID string          `json:"transactionID"` // FK -> transactions.transaction_id
	LineID        string          `json:"lineID"`        // FK -> transaction_lines.line_id
	AccountID     string          `json:"accountID"`     // FK -> accounts.account_id
	EntryDate     time.Time       `json:"entryDate"`     // Copied from the transaction date
	AmountDr      decimal.Decimal `json:"amountDr"`
	AmountCr      decimal.Decimal `json:"amountCr"`
	TaxCodeID     *string         `json:"taxCodeID"`
	DepartmentID  *string         `json:"departmentID"`

	// Reconciliation sub-state, owned by the reconciliation workflow.
	Reconciled           bool                 `json:"reconciled"`
	ReconciliationStatus ReconciliationStatus `json:"reconciliationStatus"`
	BankFeedItemID       *string              `json:"bankFeedItemID"`
	ReconciledBy         *string              `json:"reconciledBy"`
	ReconciledAt         *time.Time           `json:"reconciledAt"`

	CreatedAt time.Time `json:"createdAt"`
	CreatedBy string    `json:"createdBy"`
}

// IsDebit reports which side of the ledger the entry sits on.
func (e LedgerEntry) IsDebit() bool {
	return e.AmountDr.IsPositive()
}

// Amount returns the entry's magnitude regardless of side.
func (e LedgerEntry) Amount() decimal.Decimal {
	if e.IsDebit() {
		return e.AmountDr
	}
	return e.AmountCr
}

// TaxLine is the immutable tax record derived from a ledger entry at posting
// time. Rate and reporting fields are snapshots; editing the tax code later
// does not touch existing tax lines.
type TaxLine struct {
	TaxLineID     string          `json:"taxLineID"` // Primary Key (UUID)
	CompanyID     string          `json:"companyID"`
	EntryID       string          `json:"entryID"`   // FK -> ledger_entries.entry_id
	TaxCodeID     string          `json:"taxCodeID"` // FK -> tax_codes.tax_code_id
	RateSnapshot  decimal.Decimal `json:"rateSnapshot"`
	TaxableAmount decimal.Decimal `json:"taxableAmount"`
	TaxAmount     decimal.Decimal `json:"taxAmount"`
	ReportingBox  string          `json:"reportingBox"`
	Jurisdiction  string          `json:"jurisdiction"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// ReversalLink records that one posted transaction reverses another. At most
// one link may exist per original transaction.
type ReversalLink struct {
	LinkID                 string    `json:"linkID"` // Primary Key (UUID)
	CompanyID              string    `json:"companyID"`
	OriginalTransactionID  string    `json:"originalTransactionID"`  // Unique FK -> transactions
	ReversingTransactionID string    `json:"reversingTransactionID"` // FK -> transactions
	Reason                 string    `json:"reason"`
	CreatedAt              time.Time `json:"createdAt"`
	CreatedBy              string    `json:"createdBy"`
}
