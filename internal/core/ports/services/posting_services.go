package services

import (
	"context"

	"github.com/keabooks/kea_books_app/internal/core/domain"
	"github.com/keabooks/kea_books_app/internal/dto"
)

// TaxLineGeneratorSvc is the collaborator the posting engine hands fresh
// ledger entries to. It derives tax lines from entries that carry a tax code,
// snapshotting the code's rate and reporting fields. It performs no writes;
// the posting unit of work persists whatever it returns.
type TaxLineGeneratorSvc interface {
	// BuildTaxLines derives tax lines for the given entries.
	BuildTaxLines(ctx context.Context, companyID string, entries []domain.LedgerEntry) ([]domain.TaxLine, error)
}

// PostingSvcFacade is the posting engine: validation, the irreversible flip
// to POSTED, and reversal-based correction.
type PostingSvcFacade interface {
	// ValidateTransaction runs the full set of posting preconditions against a
	// draft without writing anything. A nil error means the transaction would
	// currently post (the period gate is checked separately at posting time).
	ValidateTransaction(ctx context.Context, companyID string, transactionID string) error

	// PostTransaction validates the draft, resolves the period gate, builds
	// ledger entries and tax lines, and commits the posting unit of work.
	// Exactly one concurrent caller can succeed; the rest get ErrAlreadyPosted.
	PostTransaction(ctx context.Context, companyID string, transactionID string, actorID string) (*domain.Transaction, error)

	// ReverseTransaction posts a new transaction mirroring the original with
	// inverted line directions and records the reversal link. One reversal is
	// allowed per original.
	ReverseTransaction(ctx context.Context, companyID string, transactionID string, req dto.ReverseTransactionRequest, actorID string) (*domain.Transaction, error)
}
