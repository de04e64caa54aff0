package services

import (
	"context"
	"log/slog"

	"github.com/keabooks/kea_books_app/internal/core/domain"
	portsrepo "github.com/keabooks/kea_books_app/internal/core/ports/repositories"
	portssvc "github.com/keabooks/kea_books_app/internal/core/ports/services"
	"github.com/keabooks/kea_books_app/internal/dto"
	"github.com/keabooks/kea_books_app/internal/middleware"
)

// AuditService exposes the append-only audit trail. Events are written by the
// units of work that produce them; this service only reads.
type AuditService struct {
	auditRepo portsrepo.AuditRepositoryFacade
}

var _ portssvc.AuditSvcFacade = (*AuditService)(nil)

// NewAuditService creates a new AuditService.
func NewAuditService(auditRepo portsrepo.AuditRepositoryFacade) *AuditService {
	return &AuditService{auditRepo: auditRepo}
}

func (s *AuditService) ListEvents(ctx context.Context, companyID string, params dto.ListAuditEventsParams) (*dto.ListAuditEventsResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	var eventType *domain.AuditEventType
	if params.EventType != nil {
		v := domain.AuditEventType(*params.EventType)
		eventType = &v
	}
	var nextToken *string
	if params.NextToken != "" {
		nextToken = &params.NextToken
	}

	events, newToken, err := s.auditRepo.ListEventsByCompany(ctx, companyID, params.Limit, nextToken, eventType, params.EntityType)
	if err != nil {
		logger.Error("Failed to list audit events", slog.String("error", err.Error()), slog.String("company_id", companyID))
		return nil, err
	}

	resp := &dto.ListAuditEventsResponse{Items: events}
	if newToken != nil {
		resp.NextPageToken = *newToken
	}
	return resp, nil
}

func (s *AuditService) ListEventsByEntity(ctx context.Context, companyID string, entityType string, entityID string) ([]domain.AuditEvent, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	events, err := s.auditRepo.ListEventsByEntity(ctx, companyID, entityType, entityID)
	if err != nil {
		logger.Error("Failed to list entity audit events",
			slog.String("error", err.Error()),
			slog.String("entity_type", entityType),
			slog.String("entity_id", entityID),
		)
		return nil, err
	}
	return events, nil
}
