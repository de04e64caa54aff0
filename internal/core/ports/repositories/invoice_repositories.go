package repositories

import (
	"context"
	"time"

	"github.com/keabooks/kea_books_app/internal/core/domain"
)

// InvoiceReader defines read operations for invoice data
type InvoiceReader interface {
	// FindInvoiceByID retrieves an invoice with its lines.
	FindInvoiceByID(ctx context.Context, companyID string, invoiceID string) (*domain.Invoice, error)

	// ListInvoices retrieves a paginated list of invoice headers (lines
	// omitted) using token-based pagination, newest first. Status and contact
	// filters are optional.
	ListInvoices(ctx context.Context, companyID string, limit int, nextToken *string, status *domain.DocumentStatus, contactID *string) ([]domain.Invoice, *string, error)

	// FindOutstandingInvoicesByContact retrieves the contact's issued invoices
	// with a positive balance, oldest due date first. Used by allocation
	// suggestions.
	FindOutstandingInvoicesByContact(ctx context.Context, companyID string, contactID string) ([]domain.Invoice, error)
}

// InvoiceWriter defines write operations for invoice data
type InvoiceWriter interface {
	// SaveInvoice persists a new draft invoice and its lines atomically.
	SaveInvoice(ctx context.Context, invoice domain.Invoice) error

	// UpdateDraftInvoice replaces a draft invoice's fields and lines.
	// Guarded on status DRAFT; otherwise apperrors.ErrConflict.
	UpdateDraftInvoice(ctx context.Context, invoice domain.Invoice) error

	// VoidDraftInvoice flips a draft invoice to VOID. Guarded on status DRAFT.
	VoidDraftInvoice(ctx context.Context, companyID string, invoiceID string, actorID string, now time.Time) error

	// SaveInvoiceIssuance persists the issuance unit of work atomically: the
	// backing transaction already in POSTED state with its lines, the ledger
	// entries and tax lines, the invoice's flip DRAFT -> ISSUED with totals
	// and transaction linkage, and the audit event. The invoice flip is
	// guarded on status DRAFT; a concurrent issuance returns
	// apperrors.ErrConflict with nothing written.
	SaveInvoiceIssuance(ctx context.Context, invoice domain.Invoice, txn domain.Transaction, postedAt time.Time, entries []domain.LedgerEntry, taxLines []domain.TaxLine, audit domain.AuditEvent) error
}

// InvoiceRepositoryFacade combines all invoice-related repository interfaces
type InvoiceRepositoryFacade interface {
	InvoiceReader
	InvoiceWriter
}
