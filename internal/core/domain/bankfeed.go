package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// FeedItemStatus indicates whether a bank feed item has been matched to a
// ledger entry.
type FeedItemStatus string

const (
	FeedUnmatched FeedItemStatus = "UNMATCHED"
	FeedMatched   FeedItemStatus = "MATCHED"
)

// IsValid reports whether s is one of the known feed item statuses.
func (s FeedItemStatus) IsValid() bool {
	switch s {
	case FeedUnmatched, FeedMatched:
		return true
	default:
		return false
	}
}

// BankFeedItem is one statement line pushed in from a bank feed. Amount is
// signed from the bank's point of view: positive is money in, negative is
// money out.
type BankFeedItem struct {
	ItemID         string          `json:"itemID"`        // Primary Key (UUID)
	CompanyID      string          `json:"companyID"`     // FK -> companies.company_id
	BankAccountID  string          `json:"bankAccountID"` // FK -> accounts (ControlRole BANK)
	ItemDate       time.Time       `json:"itemDate"`
	Amount         decimal.Decimal `json:"amount"` // Signed; positive = money in
	Payee          string          `json:"payee"`
	Reference      string          `json:"reference"`
	Status         FeedItemStatus  `json:"status"`
	MatchedEntryID *string         `json:"matchedEntryID"` // Set while matched
	AuditFields
}

// MatchCandidate is one scored reconciliation candidate for a feed item.
type MatchCandidate struct {
	Entry       LedgerEntry `json:"entry"`
	Description string      `json:"description"` // Parent transaction description
	Score       float64     `json:"score"`       // Higher is better; amount always matches exactly
}
