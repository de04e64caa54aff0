package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/keabooks/kea_books_app/internal/apperrors"
	portssvc "github.com/keabooks/kea_books_app/internal/core/ports/services"
	"github.com/keabooks/kea_books_app/internal/dto"
	"github.com/keabooks/kea_books_app/internal/middleware"
)

// auditHandler handles HTTP requests for the append-only audit trail.
type auditHandler struct {
	auditService portssvc.AuditSvcFacade
}

func newAuditHandler(as portssvc.AuditSvcFacade) *auditHandler {
	return &auditHandler{
		auditService: as,
	}
}

// registerAuditRoutes registers audit trail routes nested under a specific company.
func registerAuditRoutes(rg *gin.RouterGroup, auditService portssvc.AuditSvcFacade) {
	h := newAuditHandler(auditService)

	events := rg.Group("/audit-events")
	{
		events.GET("", h.listAuditEvents)
		events.GET("/:entity_type/:entity_id", h.listEntityAuditEvents)
	}
}

// listAuditEvents godoc
// @Summary List audit events
// @Description Retrieves a paginated list of the company's audit events, newest first.
// @Tags audit
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   eventType query string false "Filter by event type"
// @Param   entityType query string false "Filter by entity type"
// @Param   limit query int false "Max results" default(50)
// @Param   nextToken query string false "Pagination token from a previous page"
// @Success 200 {object} dto.ListAuditEventsResponse
// @Failure 400 {object} map[string]string "Invalid filter or pagination token"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list audit events"
// @Security ActorAuth
// @Router /companies/{company_id}/audit-events [get]
func (h *auditHandler) listAuditEvents(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")

	var params dto.ListAuditEventsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for ListAuditEvents", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	resp, err := h.auditService.ListEvents(c.Request.Context(), companyID, params)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("List audit events failed validation", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to list audit events from service", slog.String("company_id", companyID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list audit events"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// listEntityAuditEvents godoc
// @Summary List one entity's audit events
// @Description Retrieves the audit events recorded against a single entity, newest first.
// @Tags audit
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   entity_type path string true "Entity type, e.g. TRANSACTION"
// @Param   entity_id path string true "Entity ID"
// @Success 200 {array} domain.AuditEvent
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list audit events"
// @Security ActorAuth
// @Router /companies/{company_id}/audit-events/{entity_type}/{entity_id} [get]
func (h *auditHandler) listEntityAuditEvents(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")
	entityType := c.Param("entity_type")
	entityID := c.Param("entity_id")

	events, err := h.auditService.ListEventsByEntity(c.Request.Context(), companyID, entityType, entityID)
	if err != nil {
		logger.Error("Failed to list entity audit events from service",
			slog.String("entity_type", entityType),
			slog.String("entity_id", entityID),
			slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list audit events"})
		return
	}

	c.JSON(http.StatusOK, events)
}
