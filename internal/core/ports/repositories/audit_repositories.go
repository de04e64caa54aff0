package repositories

import (
	"context"

	"github.com/keabooks/kea_books_app/internal/core/domain"
)

// AuditReader defines read operations for audit events
type AuditReader interface {
	// ListEventsByCompany retrieves a paginated list of events using
	// date-based token pagination, newest first. Event type and entity type
	// filters are optional.
	ListEventsByCompany(ctx context.Context, companyID string, limit int, nextToken *string, eventType *domain.AuditEventType, entityType *string) ([]domain.AuditEvent, *string, error)

	// ListEventsByEntity retrieves all events recorded against one entity,
	// newest first.
	ListEventsByEntity(ctx context.Context, companyID string, entityType string, entityID string) ([]domain.AuditEvent, error)
}

// AuditWriter defines write operations for audit events. Events tied to a
// posting, allocation or reconciliation are written inside those units of
// work by the owning repository; SaveEvent is for standalone events.
type AuditWriter interface {
	// SaveEvent persists a single audit event.
	SaveEvent(ctx context.Context, event domain.AuditEvent) error
}

// AuditRepositoryFacade combines all audit-related repository interfaces
type AuditRepositoryFacade interface {
	AuditReader
	AuditWriter
}
