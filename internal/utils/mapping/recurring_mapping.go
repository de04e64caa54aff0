package mapping

import (
	"github.com/keabooks/kea_books_app/internal/core/domain"
	"github.com/keabooks/kea_books_app/internal/models"
)

// ToModelRecurringTemplate converts a domain RecurringTemplate to a model RecurringTemplate.
// Lines are mapped separately via ToModelTemplateLine.
func ToModelRecurringTemplate(d domain.RecurringTemplate) models.RecurringTemplate {
	return models.RecurringTemplate{
		TemplateID:      d.TemplateID,
		CompanyID:       d.CompanyID,
		Name:            d.Name,
		TransactionType: models.TransactionType(d.TransactionType),
		Description:     d.Description,
		Frequency:       models.Frequency(d.Frequency),
		NextRunDate:     d.NextRunDate,
		IsActive:        d.IsActive,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainRecurringTemplate converts a model RecurringTemplate to a domain RecurringTemplate.
// Lines are attached separately by the caller.
func ToDomainRecurringTemplate(m models.RecurringTemplate) domain.RecurringTemplate {
	return domain.RecurringTemplate{
		TemplateID:      m.TemplateID,
		CompanyID:       m.CompanyID,
		Name:            m.Name,
		TransactionType: domain.TransactionType(m.TransactionType),
		Description:     m.Description,
		Frequency:       domain.Frequency(m.Frequency),
		NextRunDate:     m.NextRunDate,
		IsActive:        m.IsActive,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainRecurringTemplateSlice converts a slice of model RecurringTemplates to domain
func ToDomainRecurringTemplateSlice(ms []models.RecurringTemplate) []domain.RecurringTemplate {
	ds := make([]domain.RecurringTemplate, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainRecurringTemplate(m)
	}
	return ds
}

// ToModelTemplateLine converts a domain TemplateLine to a model TemplateLine
func ToModelTemplateLine(d domain.TemplateLine) models.TemplateLine {
	return models.TemplateLine{
		LineID:       d.LineID,
		TemplateID:   d.TemplateID,
		AccountID:    d.AccountID,
		Amount:       d.Amount,
		Direction:    models.Direction(d.Direction),
		TaxCodeID:    d.TaxCodeID,
		DepartmentID: d.DepartmentID,
	}
}

// ToDomainTemplateLine converts a model TemplateLine to a domain TemplateLine
func ToDomainTemplateLine(m models.TemplateLine) domain.TemplateLine {
	return domain.TemplateLine{
		LineID:       m.LineID,
		TemplateID:   m.TemplateID,
		AccountID:    m.AccountID,
		Amount:       m.Amount,
		Direction:    domain.Direction(m.Direction),
		TaxCodeID:    m.TaxCodeID,
		DepartmentID: m.DepartmentID,
	}
}

// ToDomainTemplateLineSlice converts a slice of model TemplateLines to a slice of domain TemplateLines
func ToDomainTemplateLineSlice(ms []models.TemplateLine) []domain.TemplateLine {
	ds := make([]domain.TemplateLine, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainTemplateLine(m)
	}
	return ds
}
