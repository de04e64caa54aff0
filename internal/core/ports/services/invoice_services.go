package services

import (
	"context"

	"github.com/keabooks/kea_books_app/internal/core/domain"
	"github.com/keabooks/kea_books_app/internal/dto"
)

// InvoiceSvcFacade defines the accounts-receivable document lifecycle.
type InvoiceSvcFacade interface {
	// GetInvoiceByID retrieves an invoice with its lines.
	GetInvoiceByID(ctx context.Context, companyID string, invoiceID string) (*domain.Invoice, error)

	// ListInvoices retrieves a paginated list of invoices in a company.
	ListInvoices(ctx context.Context, companyID string, params dto.ListDocumentsParams) (*dto.ListInvoicesResponse, error)

	// CreateInvoice persists a new draft invoice.
	CreateInvoice(ctx context.Context, companyID string, req dto.CreateInvoiceRequest, actorID string) (*domain.Invoice, error)

	// UpdateDraftInvoice replaces a draft invoice's fields and lines.
	UpdateDraftInvoice(ctx context.Context, companyID string, invoiceID string, req dto.UpdateInvoiceRequest, actorID string) (*domain.Invoice, error)

	// VoidDraftInvoice discards a draft invoice.
	VoidDraftInvoice(ctx context.Context, companyID string, invoiceID string, actorID string) error

	// IssueInvoice computes totals, builds the backing INVOICE transaction,
	// posts it through the posting engine's rules and flips the document to
	// ISSUED, all in one unit of work.
	IssueInvoice(ctx context.Context, companyID string, invoiceID string, actorID string) (*domain.Invoice, error)
}
