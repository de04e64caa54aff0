package repositories

import (
	"context"
	"time"

	"github.com/keabooks/kea_books_app/internal/core/domain"
)

// BillReader defines read operations for bill data
type BillReader interface {
	// FindBillByID retrieves a bill with its lines.
	FindBillByID(ctx context.Context, companyID string, billID string) (*domain.Bill, error)

	// ListBills retrieves a paginated list of bill headers (lines omitted)
	// using token-based pagination, newest first. Status and contact filters
	// are optional.
	ListBills(ctx context.Context, companyID string, limit int, nextToken *string, status *domain.DocumentStatus, contactID *string) ([]domain.Bill, *string, error)

	// FindOutstandingBillsByContact retrieves the contact's issued bills with
	// a positive balance, oldest due date first. Used by allocation
	// suggestions.
	FindOutstandingBillsByContact(ctx context.Context, companyID string, contactID string) ([]domain.Bill, error)
}

// BillWriter defines write operations for bill data
type BillWriter interface {
	// SaveBill persists a new draft bill and its lines atomically.
	SaveBill(ctx context.Context, bill domain.Bill) error

	// UpdateDraftBill replaces a draft bill's fields and lines.
	// Guarded on status DRAFT; otherwise apperrors.ErrConflict.
	UpdateDraftBill(ctx context.Context, bill domain.Bill) error

	// VoidDraftBill flips a draft bill to VOID. Guarded on status DRAFT.
	VoidDraftBill(ctx context.Context, companyID string, billID string, actorID string, now time.Time) error

	// SaveBillIssuance persists the issuance unit of work atomically, the
	// mirror of SaveInvoiceIssuance.
	SaveBillIssuance(ctx context.Context, bill domain.Bill, txn domain.Transaction, postedAt time.Time, entries []domain.LedgerEntry, taxLines []domain.TaxLine, audit domain.AuditEvent) error
}

// BillRepositoryFacade combines all bill-related repository interfaces
type BillRepositoryFacade interface {
	BillReader
	BillWriter
}
