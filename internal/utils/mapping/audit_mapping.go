package mapping

import (
	"github.com/keabooks/kea_books_app/internal/core/domain"
	"github.com/keabooks/kea_books_app/internal/models"
)

// ToModelAuditEvent converts a domain AuditEvent to a model AuditEvent
func ToModelAuditEvent(d domain.AuditEvent) models.AuditEvent {
	return models.AuditEvent{
		EventID:    d.EventID,
		CompanyID:  d.CompanyID,
		ActorID:    d.ActorID,
		EventType:  models.AuditEventType(d.EventType),
		EntityType: d.EntityType,
		EntityID:   d.EntityID,
		Summary:    d.Summary,
		CreatedAt:  d.CreatedAt,
	}
}

// ToDomainAuditEvent converts a model AuditEvent to a domain AuditEvent
func ToDomainAuditEvent(m models.AuditEvent) domain.AuditEvent {
	return domain.AuditEvent{
		EventID:    m.EventID,
		CompanyID:  m.CompanyID,
		ActorID:    m.ActorID,
		EventType:  domain.AuditEventType(m.EventType),
		EntityType: m.EntityType,
		EntityID:   m.EntityID,
		Summary:    m.Summary,
		CreatedAt:  m.CreatedAt,
	}
}

// ToDomainAuditEventSlice converts a slice of model AuditEvents to a slice of domain AuditEvents
func ToDomainAuditEventSlice(ms []models.AuditEvent) []domain.AuditEvent {
	ds := make([]domain.AuditEvent, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainAuditEvent(m)
	}
	return ds
}
