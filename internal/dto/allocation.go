package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/keabooks/kea_books_app/internal/core/domain"
)

// CreateAllocationRequest applies part of a posted receipt or payment to an
// issued document: an invoice for receipts, a bill for payments.
type CreateAllocationRequest struct {
	DocumentID string          `json:"documentID" binding:"required,uuid"`
	Amount     decimal.Decimal `json:"amount" binding:"required"`
}

// SuggestAllocationsRequest asks for a proposed spread of an available amount
// across a contact's outstanding documents.
type SuggestAllocationsRequest struct {
	ContactID string          `json:"contactID" binding:"required,uuid"`
	Amount    decimal.Decimal `json:"amount" binding:"required"`
}

// AllocationStateResponse reports how much of a receipt or payment has been
// applied to documents and how much room remains.
type AllocationStateResponse struct {
	TransactionID string          `json:"transactionID"`
	Allocatable   decimal.Decimal `json:"allocatable"` // Control-account total of the transaction
	Allocated     decimal.Decimal `json:"allocated"`
	Remaining     decimal.Decimal `json:"remaining"`
}

// AllocationResponse defines the allocation payload returned by the API. The
// transaction is the receipt or payment side; the document is the invoice or
// bill it pays down.
type AllocationResponse struct {
	AllocationID  string          `json:"allocationID"`
	CompanyID     string          `json:"companyID"`
	TransactionID string          `json:"transactionID"`
	DocumentID    string          `json:"documentID"`
	Amount        decimal.Decimal `json:"amount"`
	CreatedAt     time.Time       `json:"createdAt"`
	CreatedBy     string          `json:"createdBy"`
}

// ToReceivableAllocationResponse converts a receivable allocation.
func ToReceivableAllocationResponse(allocation domain.ReceivableAllocation) AllocationResponse {
	return AllocationResponse{
		AllocationID:  allocation.AllocationID,
		CompanyID:     allocation.CompanyID,
		TransactionID: allocation.ReceiptTransactionID,
		DocumentID:    allocation.InvoiceID,
		Amount:        allocation.Amount,
		CreatedAt:     allocation.CreatedAt,
		CreatedBy:     allocation.CreatedBy,
	}
}

// ToReceivableAllocationResponses converts a slice of receivable allocations.
func ToReceivableAllocationResponses(allocations []domain.ReceivableAllocation) []AllocationResponse {
	responses := make([]AllocationResponse, 0, len(allocations))
	for _, allocation := range allocations {
		responses = append(responses, ToReceivableAllocationResponse(allocation))
	}
	return responses
}

// ToPayableAllocationResponse converts a payable allocation.
func ToPayableAllocationResponse(allocation domain.PayableAllocation) AllocationResponse {
	return AllocationResponse{
		AllocationID:  allocation.AllocationID,
		CompanyID:     allocation.CompanyID,
		TransactionID: allocation.PaymentTransactionID,
		DocumentID:    allocation.BillID,
		Amount:        allocation.Amount,
		CreatedAt:     allocation.CreatedAt,
		CreatedBy:     allocation.CreatedBy,
	}
}

// ToPayableAllocationResponses converts a slice of payable allocations.
func ToPayableAllocationResponses(allocations []domain.PayableAllocation) []AllocationResponse {
	responses := make([]AllocationResponse, 0, len(allocations))
	for _, allocation := range allocations {
		responses = append(responses, ToPayableAllocationResponse(allocation))
	}
	return responses
}
