package mapping

import (
	"github.com/keabooks/kea_books_app/internal/core/domain"
	"github.com/keabooks/kea_books_app/internal/models"
)

// ToModelInvoice converts a domain Invoice to a model Invoice.
// Lines are mapped separately via ToModelDocumentLine.
func ToModelInvoice(d domain.Invoice) models.Invoice {
	return models.Invoice{
		InvoiceID:     d.InvoiceID,
		CompanyID:     d.CompanyID,
		ContactID:     d.ContactID,
		Number:        d.Number,
		IssueDate:     d.IssueDate,
		DueDate:       d.DueDate,
		Status:        models.DocumentStatus(d.Status),
		Total:         d.Total,
		TaxTotal:      d.TaxTotal,
		AmountPaid:    d.AmountPaid,
		TransactionID: d.TransactionID,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainInvoice converts a model Invoice to a domain Invoice.
// Lines are attached separately by the caller.
func ToDomainInvoice(m models.Invoice) domain.Invoice {
	return domain.Invoice{
		InvoiceID:     m.InvoiceID,
		CompanyID:     m.CompanyID,
		ContactID:     m.ContactID,
		Number:        m.Number,
		IssueDate:     m.IssueDate,
		DueDate:       m.DueDate,
		Status:        domain.DocumentStatus(m.Status),
		Total:         m.Total,
		TaxTotal:      m.TaxTotal,
		AmountPaid:    m.AmountPaid,
		TransactionID: m.TransactionID,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainInvoiceSlice converts a slice of model Invoices to a slice of domain Invoices
func ToDomainInvoiceSlice(ms []models.Invoice) []domain.Invoice {
	ds := make([]domain.Invoice, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainInvoice(m)
	}
	return ds
}

// ToModelBill converts a domain Bill to a model Bill
func ToModelBill(d domain.Bill) models.Bill {
	return models.Bill{
		BillID:        d.BillID,
		CompanyID:     d.CompanyID,
		ContactID:     d.ContactID,
		Number:        d.Number,
		IssueDate:     d.IssueDate,
		DueDate:       d.DueDate,
		Status:        models.DocumentStatus(d.Status),
		Total:         d.Total,
		TaxTotal:      d.TaxTotal,
		AmountPaid:    d.AmountPaid,
		TransactionID: d.TransactionID,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainBill converts a model Bill to a domain Bill
func ToDomainBill(m models.Bill) domain.Bill {
	return domain.Bill{
		BillID:        m.BillID,
		CompanyID:     m.CompanyID,
		ContactID:     m.ContactID,
		Number:        m.Number,
		IssueDate:     m.IssueDate,
		DueDate:       m.DueDate,
		Status:        domain.DocumentStatus(m.Status),
		Total:         m.Total,
		TaxTotal:      m.TaxTotal,
		AmountPaid:    m.AmountPaid,
		TransactionID: m.TransactionID,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainBillSlice converts a slice of model Bills to a slice of domain Bills
func ToDomainBillSlice(ms []models.Bill) []domain.Bill {
	ds := make([]domain.Bill, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainBill(m)
	}
	return ds
}

// ToModelDocumentLine converts a domain DocumentLine to a model DocumentLine
func ToModelDocumentLine(d domain.DocumentLine) models.DocumentLine {
	return models.DocumentLine{
		LineID:       d.LineID,
		DocumentID:   d.DocumentID,
		AccountID:    d.AccountID,
		Description:  d.Description,
		Amount:       d.Amount,
		TaxCodeID:    d.TaxCodeID,
		DepartmentID: d.DepartmentID,
	}
}

// ToDomainDocumentLine converts a model DocumentLine to a domain DocumentLine
func ToDomainDocumentLine(m models.DocumentLine) domain.DocumentLine {
	return domain.DocumentLine{
		LineID:       m.LineID,
		DocumentID:   m.DocumentID,
		AccountID:    m.AccountID,
		Description:  m.Description,
		Amount:       m.Amount,
		TaxCodeID:    m.TaxCodeID,
		DepartmentID: m.DepartmentID,
	}
}

// ToDomainDocumentLineSlice converts a slice of model DocumentLines to a slice of domain DocumentLines
func ToDomainDocumentLineSlice(ms []models.DocumentLine) []domain.DocumentLine {
	ds := make([]domain.DocumentLine, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainDocumentLine(m)
	}
	return ds
}
