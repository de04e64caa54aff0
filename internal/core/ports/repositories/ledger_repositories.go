package repositories

import (
	"context"
	"time"

	"github.com/keabooks/kea_books_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LedgerReader defines read operations for ledger entries and tax lines.
// There is deliberately no general ledger writer: entries and tax lines are
// written only by the posting unit of work, and only their reconciliation
// sub-state may change afterwards (see ReconciliationWriter).
type LedgerReader interface {
	// FindEntryByID retrieves a single ledger entry.
	FindEntryByID(ctx context.Context, companyID string, entryID string) (*domain.LedgerEntry, error)

	// FindEntriesByTransactionID retrieves all entries produced by one transaction.
	FindEntriesByTransactionID(ctx context.Context, companyID string, transactionID string) ([]domain.LedgerEntry, error)

	// ListEntriesByAccount retrieves a paginated list of entries for an
	// account using token-based pagination, newest first.
	ListEntriesByAccount(ctx context.Context, companyID string, accountID string, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error)

	// FindTaxLinesByEntryIDs retrieves tax lines for the given entries, keyed
	// by entry ID.
	FindTaxLinesByEntryIDs(ctx context.Context, companyID string, entryIDs []string) (map[string][]domain.TaxLine, error)

	// FindMatchCandidates retrieves unreconciled entries on a bank control
	// account whose amount equals the given magnitude on the given side,
	// dated within windowDays of around. Candidates carry the parent
	// transaction's description for scoring; Score is left zero.
	FindMatchCandidates(ctx context.Context, companyID string, bankAccountID string, amount decimal.Decimal, debitSide bool, around time.Time, windowDays int) ([]domain.MatchCandidate, error)
}

// LedgerRepositoryFacade combines ledger read interfaces
type LedgerRepositoryFacade interface {
	LedgerReader
}
