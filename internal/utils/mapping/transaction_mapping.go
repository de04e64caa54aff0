package mapping

import (
	"github.com/keabooks/kea_books_app/internal/core/domain"
	"github.com/keabooks/kea_books_app/internal/models"
)

// ToModelTransaction converts a domain Transaction to a model Transaction.
// Lines are mapped separately via ToModelTransactionLine.
func ToModelTransaction(d domain.Transaction) models.Transaction {
	return models.Transaction{
		TransactionID:   d.TransactionID,
		CompanyID:       d.CompanyID,
		TransactionType: models.TransactionType(d.TransactionType),
		TransactionDate: d.TransactionDate,
		Description:     d.Description,
		Status:          models.TransactionStatus(d.Status),
		PostedAt:        d.PostedAt,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainTransaction converts a model Transaction to a domain Transaction.
// Lines are attached separately by the caller.
func ToDomainTransaction(m models.Transaction) domain.Transaction {
	return domain.Transaction{
		TransactionID:   m.TransactionID,
		CompanyID:       m.CompanyID,
		TransactionType: domain.TransactionType(m.TransactionType),
		TransactionDate: m.TransactionDate,
		Description:     m.Description,
		Status:          domain.TransactionStatus(m.Status),
		PostedAt:        m.PostedAt,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainTransactionSlice converts a slice of model Transactions to a slice of domain Transactions
func ToDomainTransactionSlice(ms []models.Transaction) []domain.Transaction {
	ds := make([]domain.Transaction, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainTransaction(m)
	}
	return ds
}

// ToModelTransactionLine converts a domain TransactionLine to a model TransactionLine
func ToModelTransactionLine(d domain.TransactionLine) models.TransactionLine {
	return models.TransactionLine{
		LineID:        d.LineID,
		TransactionID: d.TransactionID,
		AccountID:     d.AccountID,
		Amount:        d.Amount,
		Direction:     models.Direction(d.Direction),
		TaxCodeID:     d.TaxCodeID,
		DepartmentID:  d.DepartmentID,
		Notes:         d.Notes,
	}
}

// ToDomainTransactionLine converts a model TransactionLine to a domain TransactionLine
func ToDomainTransactionLine(m models.TransactionLine) domain.TransactionLine {
	return domain.TransactionLine{
		LineID:        m.LineID,
		TransactionID: m.TransactionID,
		AccountID:     m.AccountID,
		Amount:        m.Amount,
		Direction:     domain.Direction(m.Direction),
		TaxCodeID:     m.TaxCodeID,
		DepartmentID:  m.DepartmentID,
		Notes:         m.Notes,
	}
}

// ToDomainTransactionLineSlice converts a slice of model TransactionLines to a slice of domain TransactionLines
func ToDomainTransactionLineSlice(ms []models.TransactionLine) []domain.TransactionLine {
	ds := make([]domain.TransactionLine, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainTransactionLine(m)
	}
	return ds
}
