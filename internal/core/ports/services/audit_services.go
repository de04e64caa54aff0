package services

import (
	"context"

	"github.com/keabooks/kea_books_app/internal/core/domain"
	"github.com/keabooks/kea_books_app/internal/dto"
)

// AuditSvcFacade exposes the append-only audit trail.
type AuditSvcFacade interface {
	// ListEvents retrieves a paginated list of a company's audit events,
	// newest first.
	ListEvents(ctx context.Context, companyID string, params dto.ListAuditEventsParams) (*dto.ListAuditEventsResponse, error)

	// ListEventsByEntity retrieves the events recorded against one entity.
	ListEventsByEntity(ctx context.Context, companyID string, entityType string, entityID string) ([]domain.AuditEvent, error)
}
