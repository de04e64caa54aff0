package services

import (
	"context"

	"github.com/keabooks/kea_books_app/internal/core/domain"
	"github.com/keabooks/kea_books_app/internal/dto"
)

// AllocationSvcFacade applies posted receipts and payments to issued
// documents and suggests how to.
type AllocationSvcFacade interface {
	// AllocateReceipt applies part of a posted receipt to an issued invoice.
	AllocateReceipt(ctx context.Context, companyID string, receiptTransactionID string, req dto.CreateAllocationRequest, actorID string) (*domain.ReceivableAllocation, error)

	// AllocatePayment applies part of a posted payment to an issued bill.
	AllocatePayment(ctx context.Context, companyID string, paymentTransactionID string, req dto.CreateAllocationRequest, actorID string) (*domain.PayableAllocation, error)

	// GetReceiptAllocationState reports a receipt's allocatable total, the sum
	// already allocated and the remainder.
	GetReceiptAllocationState(ctx context.Context, companyID string, receiptTransactionID string) (*dto.AllocationStateResponse, error)

	// GetPaymentAllocationState is the payable-side mirror.
	GetPaymentAllocationState(ctx context.Context, companyID string, paymentTransactionID string) (*dto.AllocationStateResponse, error)

	// ListInvoiceAllocations retrieves the allocations applied to an invoice.
	ListInvoiceAllocations(ctx context.Context, companyID string, invoiceID string) ([]domain.ReceivableAllocation, error)

	// ListBillAllocations retrieves the allocations applied to a bill.
	ListBillAllocations(ctx context.Context, companyID string, billID string) ([]domain.PayableAllocation, error)

	// SuggestReceiptAllocations proposes applications of an available amount
	// across a customer's outstanding invoices, oldest due first.
	SuggestReceiptAllocations(ctx context.Context, companyID string, req dto.SuggestAllocationsRequest) ([]domain.AllocationSuggestion, error)

	// SuggestPaymentAllocations proposes applications across a supplier's
	// outstanding bills, oldest due first.
	SuggestPaymentAllocations(ctx context.Context, companyID string, req dto.SuggestAllocationsRequest) ([]domain.AllocationSuggestion, error)
}
