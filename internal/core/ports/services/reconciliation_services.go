package services

import (
	"context"

	"github.com/keabooks/kea_books_app/internal/core/domain"
	"github.com/keabooks/kea_books_app/internal/dto"
)

// ReconciliationSvcFacade owns the bank feed and the reconciliation sub-state
// of ledger entries. It never touches accounting columns.
type ReconciliationSvcFacade interface {
	// ImportFeedItems persists a batch of pushed-in bank statement lines.
	ImportFeedItems(ctx context.Context, companyID string, req dto.ImportFeedItemsRequest, actorID string) ([]domain.BankFeedItem, error)

	// GetFeedItemByID retrieves a specific feed item.
	GetFeedItemByID(ctx context.Context, companyID string, itemID string) (*domain.BankFeedItem, error)

	// ListFeedItems retrieves a paginated list of feed items.
	ListFeedItems(ctx context.Context, companyID string, params dto.ListFeedItemsParams) (*dto.ListFeedItemsResponse, error)

	// MatchEntry links a feed item with a ledger entry whose amount
	// corresponds, marking the entry RECONCILED.
	MatchEntry(ctx context.Context, companyID string, itemID string, req dto.MatchEntryRequest, actorID string) error

	// UnmatchItem severs a feed item's link, returning both sides to their
	// unmatched states.
	UnmatchItem(ctx context.Context, companyID string, itemID string, actorID string) error

	// ManualClearEntry marks an entry MANUAL_CLEARED without a feed item.
	ManualClearEntry(ctx context.Context, companyID string, entryID string, actorID string) error

	// SuggestMatches scores unreconciled candidate entries for a feed item.
	SuggestMatches(ctx context.Context, companyID string, itemID string, limit int) ([]domain.MatchCandidate, error)
}
