package services

import (
	"context"

	"github.com/keabooks/kea_books_app/internal/core/domain"
	"github.com/keabooks/kea_books_app/internal/dto"
)

// BillSvcFacade defines the accounts-payable document lifecycle, the mirror
// of InvoiceSvcFacade.
type BillSvcFacade interface {
	// GetBillByID retrieves a bill with its lines.
	GetBillByID(ctx context.Context, companyID string, billID string) (*domain.Bill, error)

	// ListBills retrieves a paginated list of bills in a company.
	ListBills(ctx context.Context, companyID string, params dto.ListDocumentsParams) (*dto.ListBillsResponse, error)

	// CreateBill persists a new draft bill.
	CreateBill(ctx context.Context, companyID string, req dto.CreateBillRequest, actorID string) (*domain.Bill, error)

	// UpdateDraftBill replaces a draft bill's fields and lines.
	UpdateDraftBill(ctx context.Context, companyID string, billID string, req dto.UpdateBillRequest, actorID string) (*domain.Bill, error)

	// VoidDraftBill discards a draft bill.
	VoidDraftBill(ctx context.Context, companyID string, billID string, actorID string) error

	// IssueBill computes totals, builds the backing BILL transaction, posts it
	// and flips the document to ISSUED, all in one unit of work.
	IssueBill(ctx context.Context, companyID string, billID string, actorID string) (*domain.Bill, error)
}
