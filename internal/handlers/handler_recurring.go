package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/keabooks/kea_books_app/internal/apperrors"
	portssvc "github.com/keabooks/kea_books_app/internal/core/ports/services"
	"github.com/keabooks/kea_books_app/internal/dto"
	"github.com/keabooks/kea_books_app/internal/middleware"
)

// recurringHandler handles HTTP requests for recurring templates.
type recurringHandler struct {
	recurringService portssvc.RecurringSvcFacade
}

func newRecurringHandler(rs portssvc.RecurringSvcFacade) *recurringHandler {
	return &recurringHandler{
		recurringService: rs,
	}
}

// registerRecurringRoutes registers recurring template routes nested under a
// specific company.
func registerRecurringRoutes(rg *gin.RouterGroup, recurringService portssvc.RecurringSvcFacade) {
	h := newRecurringHandler(recurringService)

	templates := rg.Group("/recurring-templates")
	{
		templates.POST("", h.createTemplate)
		templates.GET("", h.listTemplates)
		templates.POST("/run-due", h.runDueTemplates)
		templates.GET("/:template_id", h.getTemplate)
		templates.PUT("/:template_id", h.updateTemplate)
		templates.DELETE("/:template_id", h.deactivateTemplate)
	}
}

// createTemplate godoc
// @Summary Create a recurring template
// @Description Creates a template whose lines are materialized into a posted transaction each time it falls due.
// @Tags recurring-templates
// @Accept  json
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   template body dto.CreateTemplateRequest true "Template details"
// @Success 201 {object} dto.TemplateResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Referenced account not found"
// @Failure 500 {object} map[string]string "Failed to create template"
// @Security ActorAuth
// @Router /companies/{company_id}/recurring-templates [post]
func (h *recurringHandler) createTemplate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")

	var req dto.CreateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateTemplate", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := middleware.GetActorIDFromContext(c)
	if !ok {
		logger.Error("Actor ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("actor_id", actorID), slog.String("company_id", companyID))
	logger.Info("Received request to create recurring template", slog.String("template_name", req.Name))

	newTemplate, err := h.recurringService.CreateTemplate(c.Request.Context(), companyID, req, actorID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			logger.Warn("Create template failed validation", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrNotFound):
			logger.Warn("Create template referenced a missing resource", slog.String("error", err.Error()))
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to create template in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create template"})
		}
		return
	}

	logger.Info("Recurring template created successfully", slog.String("template_id", newTemplate.TemplateID))
	c.JSON(http.StatusCreated, dto.ToTemplateResponse(*newTemplate))
}

// listTemplates godoc
// @Summary List recurring templates
// @Description Retrieves a paginated list of the company's recurring templates.
// @Tags recurring-templates
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   limit query int false "Max results" default(20)
// @Param   offset query int false "Results to skip" default(0)
// @Success 200 {array} dto.TemplateResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list templates"
// @Security ActorAuth
// @Router /companies/{company_id}/recurring-templates [get]
func (h *recurringHandler) listTemplates(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit <= 0 {
		limit = 20
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}

	templates, err := h.recurringService.ListTemplates(c.Request.Context(), companyID, limit, offset)
	if err != nil {
		logger.Error("Failed to list templates from service", slog.String("company_id", companyID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list templates"})
		return
	}

	c.JSON(http.StatusOK, dto.ToTemplateResponses(templates))
}

// getTemplate godoc
// @Summary Get a recurring template by ID
// @Description Retrieves a template with its lines.
// @Tags recurring-templates
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   template_id path string true "Template ID"
// @Success 200 {object} dto.TemplateResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Template not found"
// @Failure 500 {object} map[string]string "Failed to get template"
// @Security ActorAuth
// @Router /companies/{company_id}/recurring-templates/{template_id} [get]
func (h *recurringHandler) getTemplate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")
	templateID := c.Param("template_id")

	template, err := h.recurringService.GetTemplateByID(c.Request.Context(), companyID, templateID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Template not found"})
			return
		}
		logger.Error("Failed to get template from service", slog.String("template_id", templateID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get template"})
		return
	}

	c.JSON(http.StatusOK, dto.ToTemplateResponse(*template))
}

// updateTemplate godoc
// @Summary Update a recurring template
// @Description Replaces a template's fields and lines. Transactions already materialized from it are untouched.
// @Tags recurring-templates
// @Accept  json
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   template_id path string true "Template ID"
// @Param   template body dto.UpdateTemplateRequest true "Fields to update"
// @Success 200 {object} dto.TemplateResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Template not found"
// @Failure 500 {object} map[string]string "Failed to update template"
// @Security ActorAuth
// @Router /companies/{company_id}/recurring-templates/{template_id} [put]
func (h *recurringHandler) updateTemplate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")
	templateID := c.Param("template_id")

	var req dto.UpdateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateTemplate", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := middleware.GetActorIDFromContext(c)
	if !ok {
		logger.Error("Actor ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("actor_id", actorID), slog.String("template_id", templateID))

	updated, err := h.recurringService.UpdateTemplate(c.Request.Context(), companyID, templateID, req, actorID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			logger.Warn("Template not found for update")
			c.JSON(http.StatusNotFound, gin.H{"error": "Template not found"})
		case errors.Is(err, apperrors.ErrValidation):
			logger.Warn("Update template failed validation", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to update template in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update template"})
		}
		return
	}

	logger.Info("Recurring template updated successfully")
	c.JSON(http.StatusOK, dto.ToTemplateResponse(*updated))
}

// deactivateTemplate godoc
// @Summary Deactivate a recurring template
// @Description Marks a template as inactive so it is skipped by future due runs.
// @Tags recurring-templates
// @Param   company_id path string true "Company ID"
// @Param   template_id path string true "Template ID"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string "Template is already inactive"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Template not found"
// @Failure 500 {object} map[string]string "Failed to deactivate template"
// @Security ActorAuth
// @Router /companies/{company_id}/recurring-templates/{template_id} [delete]
func (h *recurringHandler) deactivateTemplate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")
	templateID := c.Param("template_id")

	actorID, ok := middleware.GetActorIDFromContext(c)
	if !ok {
		logger.Error("Actor ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("actor_id", actorID), slog.String("template_id", templateID))

	if err := h.recurringService.DeactivateTemplate(c.Request.Context(), companyID, templateID, actorID); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			logger.Warn("Template not found for deactivation")
			c.JSON(http.StatusNotFound, gin.H{"error": "Template not found"})
		case errors.Is(err, apperrors.ErrValidation):
			logger.Warn("Deactivate template rejected", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to deactivate template in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to deactivate template"})
		}
		return
	}

	logger.Info("Recurring template deactivated successfully")
	c.Status(http.StatusNoContent)
}

// runDueTemplates godoc
// @Summary Run due recurring templates
// @Description Materializes every active template due as of the given date into a posted transaction and advances its schedule. One template's failure does not abort the others; the outcome of each is reported.
// @Tags recurring-templates
// @Accept  json
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   request body dto.RunDueRequest true "Run date, defaulting to today"
// @Success 200 {array} domain.TemplateRunResult
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to run due templates"
// @Security ActorAuth
// @Router /companies/{company_id}/recurring-templates/run-due [post]
func (h *recurringHandler) runDueTemplates(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")

	var req dto.RunDueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for RunDueTemplates", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := middleware.GetActorIDFromContext(c)
	if !ok {
		logger.Error("Actor ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("actor_id", actorID), slog.String("company_id", companyID))
	logger.Info("Received request to run due templates")

	results, err := h.recurringService.RunDue(c.Request.Context(), companyID, req, actorID)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Run due templates failed validation", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to run due templates in service", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to run due templates"})
		return
	}

	logger.Info("Due templates run", slog.Int("template_count", len(results)))
	c.JSON(http.StatusOK, results)
}
