package repositories

import (
	"context"
	"time"

	"github.com/keabooks/kea_books_app/internal/core/domain"
)

// TransactionReader defines read operations for transaction data
type TransactionReader interface {
	// FindTransactionByID retrieves a transaction with its lines.
	FindTransactionByID(ctx context.Context, companyID string, transactionID string) (*domain.Transaction, error)

	// ListTransactions retrieves a paginated list of transaction headers
	// (lines omitted) using token-based pagination, newest first. Status and
	// type filters are optional.
	ListTransactions(ctx context.Context, companyID string, limit int, nextToken *string, status *domain.TransactionStatus, txnType *domain.TransactionType) ([]domain.Transaction, *string, error)
}

// TransactionWriter defines write operations for draft transactions. Posted
// transactions are immutable; the posting engine owns the status flip.
type TransactionWriter interface {
	// SaveTransaction persists a new draft transaction and its lines atomically.
	SaveTransaction(ctx context.Context, txn domain.Transaction) error

	// UpdateDraftTransaction replaces a draft's header fields and lines.
	// The update is guarded on status DRAFT; a posted or void transaction
	// returns apperrors.ErrConflict.
	UpdateDraftTransaction(ctx context.Context, txn domain.Transaction) error

	// VoidDraftTransaction flips a draft to VOID. Guarded on status DRAFT.
	VoidDraftTransaction(ctx context.Context, companyID string, transactionID string, actorID string, now time.Time) error

	// DeleteDraftTransaction removes a draft and its lines. Guarded on status DRAFT.
	DeleteDraftTransaction(ctx context.Context, companyID string, transactionID string) error
}

// TransactionRepositoryFacade combines all transaction-related repository interfaces
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
}

// TransactionRepositoryWithTx extends TransactionRepositoryFacade with transaction capabilities
type TransactionRepositoryWithTx interface {
	TransactionRepositoryFacade
	TransactionManager
}
