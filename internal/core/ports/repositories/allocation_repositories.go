package repositories

import (
	"context"

	"github.com/keabooks/kea_books_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AllocationReader defines read operations for allocation data
type AllocationReader interface {
	// ListReceivableAllocationsByInvoice retrieves all allocations applied to an invoice.
	ListReceivableAllocationsByInvoice(ctx context.Context, companyID string, invoiceID string) ([]domain.ReceivableAllocation, error)

	// ListReceivableAllocationsByTransaction retrieves all allocations drawn from a receipt.
	ListReceivableAllocationsByTransaction(ctx context.Context, companyID string, receiptTransactionID string) ([]domain.ReceivableAllocation, error)

	// SumReceivableAllocationsByTransaction totals the allocations drawn from a receipt.
	SumReceivableAllocationsByTransaction(ctx context.Context, companyID string, receiptTransactionID string) (decimal.Decimal, error)

	// ListPayableAllocationsByBill retrieves all allocations applied to a bill.
	ListPayableAllocationsByBill(ctx context.Context, companyID string, billID string) ([]domain.PayableAllocation, error)

	// ListPayableAllocationsByTransaction retrieves all allocations drawn from a payment.
	ListPayableAllocationsByTransaction(ctx context.Context, companyID string, paymentTransactionID string) ([]domain.PayableAllocation, error)

	// SumPayableAllocationsByTransaction totals the allocations drawn from a payment.
	SumPayableAllocationsByTransaction(ctx context.Context, companyID string, paymentTransactionID string) (decimal.Decimal, error)
}

// AllocationWriter persists allocations under the source transaction's row
// lock so concurrent allocations cannot oversubscribe a receipt or payment.
type AllocationWriter interface {
	// SaveReceivableAllocation locks the receipt transaction row, re-reads the
	// sum of its prior allocations and, if prior + alloc.Amount stays within
	// allocatable, inserts the allocation, bumps the invoice's amount paid and
	// records the audit event, all in one database transaction. When the sum
	// would exceed allocatable it returns apperrors.ErrConflict and the room
	// that was actually available; on success it returns the room remaining
	// after this allocation.
	SaveReceivableAllocation(ctx context.Context, alloc domain.ReceivableAllocation, allocatable decimal.Decimal, audit domain.AuditEvent) (decimal.Decimal, error)

	// SavePayableAllocation is the payable-side mirror of SaveReceivableAllocation.
	SavePayableAllocation(ctx context.Context, alloc domain.PayableAllocation, allocatable decimal.Decimal, audit domain.AuditEvent) (decimal.Decimal, error)
}

// AllocationRepositoryFacade combines all allocation-related repository interfaces
type AllocationRepositoryFacade interface {
	AllocationReader
	AllocationWriter
}
