package dto

import "github.com/keabooks/kea_books_app/internal/core/domain"

// ListAuditEventsParams defines the filters accepted by the audit event list
// endpoint.
type ListAuditEventsParams struct {
	EventType  *string `form:"eventType" binding:"omitempty,max=64"`
	EntityType *string `form:"entityType" binding:"omitempty,max=64"`
	Limit      int     `form:"limit,default=50" binding:"omitempty,min=1,max=200"`
	NextToken  string  `form:"nextToken"`
}

// ListAuditEventsResponse wraps a page of audit events, newest first.
type ListAuditEventsResponse struct {
	Items         []domain.AuditEvent `json:"items"`
	NextPageToken string              `json:"nextPageToken,omitempty"`
}
