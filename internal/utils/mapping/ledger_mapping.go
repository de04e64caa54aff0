package mapping

import (
	"github.com/keabooks/kea_books_app/internal/core/domain"
	"github.com/keabooks/kea_books_app/internal/models"
)

// ToModelLedgerEntry converts a domain LedgerEntry to a model LedgerEntry
func ToModelLedgerEntry(d domain.LedgerEntry) models.LedgerEntry {
	return models.LedgerEntry{
		EntryID:              d.EntryID,
		CompanyID:            d.CompanyID,
		TransactionID:        d.TransactionID,
		LineID:               d.LineID,
		AccountID:            d.AccountID,
		EntryDate:            d.EntryDate,
		AmountDr:             d.AmountDr,
		AmountCr:             d.AmountCr,
		TaxCodeID:            d.TaxCodeID,
		DepartmentID:         d.DepartmentID,
		Reconciled:           d.Reconciled,
		ReconciliationStatus: models.ReconciliationStatus(d.ReconciliationStatus),
		BankFeedItemID:       d.BankFeedItemID,
		ReconciledBy:         d.ReconciledBy,
		ReconciledAt:         d.ReconciledAt,
		CreatedAt:            d.CreatedAt,
		CreatedBy:            d.CreatedBy,
	}
}

// ToDomainLedgerEntry converts a model LedgerEntry to a domain LedgerEntry
func ToDomainLedgerEntry(m models.LedgerEntry) domain.LedgerEntry {
	return domain.LedgerEntry{
		EntryID:              m.EntryID,
		CompanyID:            m.CompanyID,
		TransactionID:        m.TransactionID,
		LineID:               m.LineID,
		AccountID:            m.AccountID,
		EntryDate:            m.EntryDate,
		AmountDr:             m.AmountDr,
		AmountCr:             m.AmountCr,
		TaxCodeID:            m.TaxCodeID,
		DepartmentID:         m.DepartmentID,
		Reconciled:           m.Reconciled,
		ReconciliationStatus: domain.ReconciliationStatus(m.ReconciliationStatus),
		BankFeedItemID:       m.BankFeedItemID,
		ReconciledBy:         m.ReconciledBy,
		ReconciledAt:         m.ReconciledAt,
		CreatedAt:            m.CreatedAt,
		CreatedBy:            m.CreatedBy,
	}
}

// ToDomainLedgerEntrySlice converts a slice of model LedgerEntries to a slice of domain LedgerEntries
func ToDomainLedgerEntrySlice(ms []models.LedgerEntry) []domain.LedgerEntry {
	ds := make([]domain.LedgerEntry, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainLedgerEntry(m)
	}
	return ds
}

// ToModelTaxLine converts a domain TaxLine to a model TaxLine
func ToModelTaxLine(d domain.TaxLine) models.TaxLine {
	return models.TaxLine{
		TaxLineID:     d.TaxLineID,
		CompanyID:     d.CompanyID,
		EntryID:       d.EntryID,
		TaxCodeID:     d.TaxCodeID,
		RateSnapshot:  d.RateSnapshot,
		TaxableAmount: d.TaxableAmount,
		TaxAmount:     d.TaxAmount,
		ReportingBox:  d.ReportingBox,
		Jurisdiction:  d.Jurisdiction,
		CreatedAt:     d.CreatedAt,
	}
}

// ToDomainTaxLine converts a model TaxLine to a domain TaxLine
func ToDomainTaxLine(m models.TaxLine) domain.TaxLine {
	return domain.TaxLine{
		TaxLineID:     m.TaxLineID,
		CompanyID:     m.CompanyID,
		EntryID:       m.EntryID,
		TaxCodeID:     m.TaxCodeID,
		RateSnapshot:  m.RateSnapshot,
		TaxableAmount: m.TaxableAmount,
		TaxAmount:     m.TaxAmount,
		ReportingBox:  m.ReportingBox,
		Jurisdiction:  m.Jurisdiction,
		CreatedAt:     m.CreatedAt,
	}
}

// ToModelReversalLink converts a domain ReversalLink to a model ReversalLink
func ToModelReversalLink(d domain.ReversalLink) models.ReversalLink {
	return models.ReversalLink{
		LinkID:                 d.LinkID,
		CompanyID:              d.CompanyID,
		OriginalTransactionID:  d.OriginalTransactionID,
		ReversingTransactionID: d.ReversingTransactionID,
		Reason:                 d.Reason,
		CreatedAt:              d.CreatedAt,
		CreatedBy:              d.CreatedBy,
	}
}

// ToDomainReversalLink converts a model ReversalLink to a domain ReversalLink
func ToDomainReversalLink(m models.ReversalLink) domain.ReversalLink {
	return domain.ReversalLink{
		LinkID:                 m.LinkID,
		CompanyID:              m.CompanyID,
		OriginalTransactionID:  m.OriginalTransactionID,
		ReversingTransactionID: m.ReversingTransactionID,
		Reason:                 m.Reason,
		CreatedAt:              m.CreatedAt,
		CreatedBy:              m.CreatedBy,
	}
}
