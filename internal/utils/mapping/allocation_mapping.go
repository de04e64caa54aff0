package mapping

import (
	"github.com/keabooks/kea_books_app/internal/core/domain"
	"github.com/keabooks/kea_books_app/internal/models"
)

// ToModelReceivableAllocation converts a domain ReceivableAllocation to a model ReceivableAllocation
func ToModelReceivableAllocation(d domain.ReceivableAllocation) models.ReceivableAllocation {
	return models.ReceivableAllocation{
		AllocationID:         d.AllocationID,
		CompanyID:            d.CompanyID,
		ReceiptTransactionID: d.ReceiptTransactionID,
		InvoiceID:            d.InvoiceID,
		Amount:               d.Amount,
		CreatedAt:            d.CreatedAt,
		CreatedBy:            d.CreatedBy,
	}
}

// ToDomainReceivableAllocation converts a model ReceivableAllocation to a domain ReceivableAllocation
func ToDomainReceivableAllocation(m models.ReceivableAllocation) domain.ReceivableAllocation {
	return domain.ReceivableAllocation{
		AllocationID:         m.AllocationID,
		CompanyID:            m.CompanyID,
		ReceiptTransactionID: m.ReceiptTransactionID,
		InvoiceID:            m.InvoiceID,
		Amount:               m.Amount,
		CreatedAt:            m.CreatedAt,
		CreatedBy:            m.CreatedBy,
	}
}

// ToDomainReceivableAllocationSlice converts a slice of model ReceivableAllocations to domain
func ToDomainReceivableAllocationSlice(ms []models.ReceivableAllocation) []domain.ReceivableAllocation {
	ds := make([]domain.ReceivableAllocation, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainReceivableAllocation(m)
	}
	return ds
}

// ToModelPayableAllocation converts a domain PayableAllocation to a model PayableAllocation
func ToModelPayableAllocation(d domain.PayableAllocation) models.PayableAllocation {
	return models.PayableAllocation{
		AllocationID:         d.AllocationID,
		CompanyID:            d.CompanyID,
		PaymentTransactionID: d.PaymentTransactionID,
		BillID:               d.BillID,
		Amount:               d.Amount,
		CreatedAt:            d.CreatedAt,
		CreatedBy:            d.CreatedBy,
	}
}

// ToDomainPayableAllocation converts a model PayableAllocation to a domain PayableAllocation
func ToDomainPayableAllocation(m models.PayableAllocation) domain.PayableAllocation {
	return domain.PayableAllocation{
		AllocationID:         m.AllocationID,
		CompanyID:            m.CompanyID,
		PaymentTransactionID: m.PaymentTransactionID,
		BillID:               m.BillID,
		Amount:               m.Amount,
		CreatedAt:            m.CreatedAt,
		CreatedBy:            m.CreatedBy,
	}
}

// ToDomainPayableAllocationSlice converts a slice of model PayableAllocations to domain
func ToDomainPayableAllocationSlice(ms []models.PayableAllocation) []domain.PayableAllocation {
	ds := make([]domain.PayableAllocation, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainPayableAllocation(m)
	}
	return ds
}
