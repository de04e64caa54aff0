package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/keabooks/kea_books_app/internal/core/domain"
)

// ImportFeedItemRequest defines one bank statement line pushed in from a
// feed. Amount is signed from the bank's point of view: positive is money
// in, negative is money out.
type ImportFeedItemRequest struct {
	BankAccountID string          `json:"bankAccountID" binding:"required,uuid"`
	ItemDate      string          `json:"itemDate" binding:"required,datetime=2006-01-02"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	Payee         string          `json:"payee" binding:"omitempty,max=255"`
	Reference     string          `json:"reference" binding:"omitempty,max=255"`
}

// ImportFeedItemsRequest defines a batch of statement lines to import.
type ImportFeedItemsRequest struct {
	Items []ImportFeedItemRequest `json:"items" binding:"required,min=1,dive"`
}

// MatchEntryRequest links a feed item with a ledger entry.
type MatchEntryRequest struct {
	EntryID string `json:"entryID" binding:"required,uuid"`
}

// ListFeedItemsParams defines the filters accepted by the feed item list
// endpoint.
type ListFeedItemsParams struct {
	BankAccountID *string `form:"bankAccountID" binding:"omitempty,uuid"`
	Status        *string `form:"status" binding:"omitempty,oneof=UNMATCHED MATCHED"`
	Limit         int     `form:"limit,default=20" binding:"omitempty,min=1,max=100"`
	NextToken     string  `form:"nextToken"`
}

// FeedItemResponse defines the feed item payload returned by the API.
type FeedItemResponse struct {
	ItemID         string          `json:"itemID"`
	CompanyID      string          `json:"companyID"`
	BankAccountID  string          `json:"bankAccountID"`
	ItemDate       string          `json:"itemDate"`
	Amount         decimal.Decimal `json:"amount"`
	Payee          string          `json:"payee,omitempty"`
	Reference      string          `json:"reference,omitempty"`
	Status         string          `json:"status"`
	MatchedEntryID *string         `json:"matchedEntryID,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
	LastUpdatedAt  time.Time       `json:"lastUpdatedAt"`
}

// ListFeedItemsResponse wraps a page of feed items.
type ListFeedItemsResponse struct {
	Items         []FeedItemResponse `json:"items"`
	NextPageToken string             `json:"nextPageToken,omitempty"`
}

// ToFeedItemResponse converts a domain feed item to its response shape.
func ToFeedItemResponse(item domain.BankFeedItem) FeedItemResponse {
	return FeedItemResponse{
		ItemID:         item.ItemID,
		CompanyID:      item.CompanyID,
		BankAccountID:  item.BankAccountID,
		ItemDate:       item.ItemDate.Format("2006-01-02"),
		Amount:         item.Amount,
		Payee:          item.Payee,
		Reference:      item.Reference,
		Status:         string(item.Status),
		MatchedEntryID: item.MatchedEntryID,
		CreatedAt:      item.CreatedAt,
		LastUpdatedAt:  item.LastUpdatedAt,
	}
}

// ToFeedItemResponses converts a slice of domain feed items.
func ToFeedItemResponses(items []domain.BankFeedItem) []FeedItemResponse {
	responses := make([]FeedItemResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, ToFeedItemResponse(item))
	}
	return responses
}
