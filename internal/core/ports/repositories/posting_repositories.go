package repositories

import (
	"context"
	"time"

	"github.com/keabooks/kea_books_app/internal/core/domain"
)

// PostingReader defines read operations for reversal linkage
type PostingReader interface {
	// FindReversalLinkByOriginal retrieves the link where the given transaction
	// is the original. Returns apperrors.ErrNotFound when it has no reversal.
	FindReversalLinkByOriginal(ctx context.Context, companyID string, originalTransactionID string) (*domain.ReversalLink, error)

	// FindReversalLinkByReversing retrieves the link where the given transaction
	// is the reversing side. Returns apperrors.ErrNotFound when it is not one.
	FindReversalLinkByReversing(ctx context.Context, companyID string, reversingTransactionID string) (*domain.ReversalLink, error)
}

// PostingWriter persists posting units of work. Each method runs in a single
// database transaction: everything commits or nothing does.
type PostingWriter interface {
	// SavePosting flips the transaction DRAFT -> POSTED and persists its
	// ledger entries, tax lines and audit event atomically. The status flip
	// is a compare-and-swap on status DRAFT; if another caller has already
	// posted the transaction, no rows change and apperrors.ErrConflict is
	// returned with nothing written.
	SavePosting(ctx context.Context, companyID string, transactionID string, postedAt time.Time, actorID string, entries []domain.LedgerEntry, taxLines []domain.TaxLine, audit domain.AuditEvent) error

	// SaveReversal persists a reversing transaction already in POSTED state
	// together with its lines, ledger entries, tax lines, the reversal link
	// and audit event, atomically. A second reversal of the same original
	// violates the link's uniqueness and returns apperrors.ErrDuplicate.
	SaveReversal(ctx context.Context, reversing domain.Transaction, postedAt time.Time, entries []domain.LedgerEntry, taxLines []domain.TaxLine, link domain.ReversalLink, audit domain.AuditEvent) error
}

// PostingRepositoryFacade combines the posting unit-of-work interfaces
type PostingRepositoryFacade interface {
	PostingReader
	PostingWriter
}

// PostingRepositoryWithTx extends PostingRepositoryFacade with transaction capabilities
type PostingRepositoryWithTx interface {
	PostingRepositoryFacade
	TransactionManager
}
