package mapping

import (
	"github.com/keabooks/kea_books_app/internal/core/domain"
	"github.com/keabooks/kea_books_app/internal/models"
)

// ToModelTaxCode converts a domain TaxCode to a model TaxCode
func ToModelTaxCode(d domain.TaxCode) models.TaxCode {
	return models.TaxCode{
		TaxCodeID:    d.TaxCodeID,
		CompanyID:    d.CompanyID,
		Code:         d.Code,
		Name:         d.Name,
		Rate:         d.Rate,
		ReportingBox: d.ReportingBox,
		Jurisdiction: d.Jurisdiction,
		Inclusive:    d.Inclusive,
		IsActive:     d.IsActive,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainTaxCode converts a model TaxCode to a domain TaxCode
func ToDomainTaxCode(m models.TaxCode) domain.TaxCode {
	return domain.TaxCode{
		TaxCodeID:    m.TaxCodeID,
		CompanyID:    m.CompanyID,
		Code:         m.Code,
		Name:         m.Name,
		Rate:         m.Rate,
		ReportingBox: m.ReportingBox,
		Jurisdiction: m.Jurisdiction,
		Inclusive:    m.Inclusive,
		IsActive:     m.IsActive,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainTaxCodeSlice converts a slice of model TaxCodes to a slice of domain TaxCodes
func ToDomainTaxCodeSlice(ms []models.TaxCode) []domain.TaxCode {
	ds := make([]domain.TaxCode, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainTaxCode(m)
	}
	return ds
}
