package repositories

import (
	"context"
	"time"

	"github.com/keabooks/kea_books_app/internal/core/domain"
)

// BankFeedReader defines read operations for bank feed items
type BankFeedReader interface {
	// FindFeedItemByID retrieves a specific feed item within a company.
	FindFeedItemByID(ctx context.Context, companyID string, itemID string) (*domain.BankFeedItem, error)

	// ListFeedItems retrieves a paginated list of feed items using token-based
	// pagination, newest first. Bank account and status filters are optional.
	ListFeedItems(ctx context.Context, companyID string, limit int, nextToken *string, bankAccountID *string, status *domain.FeedItemStatus) ([]domain.BankFeedItem, *string, error)
}

// BankFeedWriter defines write operations for bank feed items
type BankFeedWriter interface {
	// SaveFeedItems persists a batch of new feed items in a single transaction.
	SaveFeedItems(ctx context.Context, items []domain.BankFeedItem) error
}

// ReconciliationWriter mutates the reconciliation sub-state of ledger entries
// and the matched state of feed items. Each method runs both sides' updates
// and the audit event in one database transaction; a compare-and-swap guard
// on each side returns apperrors.ErrConflict if either is no longer in the
// expected state.
type ReconciliationWriter interface {
	// MatchEntryToFeedItem links an unmatched feed item with an unreconciled
	// ledger entry, setting the entry to RECONCILED.
	MatchEntryToFeedItem(ctx context.Context, companyID string, entryID string, itemID string, actorID string, now time.Time, audit domain.AuditEvent) error

	// UnmatchFeedItem severs an existing link, returning the feed item to
	// UNMATCHED and the entry to UNRECONCILED.
	UnmatchFeedItem(ctx context.Context, companyID string, itemID string, actorID string, now time.Time, audit domain.AuditEvent) error

	// ManualClearEntry sets an unreconciled entry to MANUAL_CLEARED without a
	// feed item.
	ManualClearEntry(ctx context.Context, companyID string, entryID string, actorID string, now time.Time, audit domain.AuditEvent) error
}

// BankFeedRepositoryFacade combines all bank-feed-related repository interfaces
type BankFeedRepositoryFacade interface {
	BankFeedReader
	BankFeedWriter
	ReconciliationWriter
}
