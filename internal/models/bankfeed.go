package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// FeedItemStatus indicates whether a bank feed item has been matched.
type FeedItemStatus string

const (
	FeedUnmatched FeedItemStatus = "UNMATCHED"
	FeedMatched   FeedItemStatus = "MATCHED"
)

// BankFeedItem is one statement line pushed in from a bank feed. Amount is
// signed from the bank's point of view: positive is money in.
type BankFeedItem struct {
	ItemID         string          `json:"itemID"`        // Primary Key (UUID)
	CompanyID      string          `json:"companyID"`     // FK -> Company.companyID (Not Null)
	BankAccountID  string          `json:"bankAccountID"` // FK -> Account.accountID (ControlRole BANK)
	ItemDate       time.Time       `json:"itemDate"`
	Amount         decimal.Decimal `json:"amount"` // Signed; positive = money in
	Payee          string          `json:"payee"`
	Reference      string          `json:"reference"`
	Status         FeedItemStatus  `json:"status"`         // Default: UNMATCHED
	MatchedEntryID *string         `json:"matchedEntryID"` // Nullable FK -> LedgerEntry.entryID
	AuditFields
}
