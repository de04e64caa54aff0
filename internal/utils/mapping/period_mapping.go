package mapping

import (
	"github.com/keabooks/kea_books_app/internal/core/domain"
	"github.com/keabooks/kea_books_app/internal/models"
)

// ToModelPeriod converts a domain Period to a model Period
func ToModelPeriod(d domain.Period) models.Period {
	return models.Period{
		PeriodID:    d.PeriodID,
		CompanyID:   d.CompanyID,
		Name:        d.Name,
		StartDate:   d.StartDate,
		EndDate:     d.EndDate,
		Status:      models.PeriodStatus(d.Status),
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainPeriod converts a model Period to a domain Period
func ToDomainPeriod(m models.Period) domain.Period {
	return domain.Period{
		PeriodID:    m.PeriodID,
		CompanyID:   m.CompanyID,
		Name:        m.Name,
		StartDate:   m.StartDate,
		EndDate:     m.EndDate,
		Status:      domain.PeriodStatus(m.Status),
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainPeriodSlice converts a slice of model Periods to a slice of domain Periods
func ToDomainPeriodSlice(ms []models.Period) []domain.Period {
	ds := make([]domain.Period, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainPeriod(m)
	}
	return ds
}
