package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/keabooks/kea_books_app/internal/apperrors"
	"github.com/keabooks/kea_books_app/internal/core/domain"
	portssvc "github.com/keabooks/kea_books_app/internal/core/ports/services"
	"github.com/keabooks/kea_books_app/internal/core/services"
	"github.com/keabooks/kea_books_app/internal/dto"
	"github.com/keabooks/kea_books_app/internal/middleware"
)

// periodHandler handles HTTP requests related to accounting periods.
type periodHandler struct {
	periodService    portssvc.PeriodSvcFacade
	reportingService portssvc.ReportingSvcFacade
}

func newPeriodHandler(ps portssvc.PeriodSvcFacade, rs portssvc.ReportingSvcFacade) *periodHandler {
	return &periodHandler{
		periodService:    ps,
		reportingService: rs,
	}
}

// registerPeriodRoutes registers period routes nested under a specific
// company. The period tax return is served here since it is addressed by
// period.
func registerPeriodRoutes(rg *gin.RouterGroup, periodService portssvc.PeriodSvcFacade, reportingService portssvc.ReportingSvcFacade) {
	h := newPeriodHandler(periodService, reportingService)

	periods := rg.Group("/periods")
	{
		periods.POST("/fiscal-year", h.createFiscalYear)
		periods.GET("", h.listPeriods)
		periods.GET("/:period_id", h.getPeriod)
		periods.PUT("/:period_id/status", h.updatePeriodStatus)
		periods.GET("/:period_id/tax-return", h.getPeriodTaxReturn)
	}
}

// createFiscalYear godoc
// @Summary Create a fiscal year of periods
// @Description Creates contiguous monthly OPEN periods starting at the given first day.
// @Tags periods
// @Accept  json
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   fiscal_year body dto.CreateFiscalYearRequest true "Start date and month count"
// @Success 201 {array} dto.PeriodResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 409 {object} map[string]string "Overlaps an existing period"
// @Failure 500 {object} map[string]string "Failed to create fiscal year"
// @Security ActorAuth
// @Router /companies/{company_id}/periods/fiscal-year [post]
func (h *periodHandler) createFiscalYear(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")

	var req dto.CreateFiscalYearRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateFiscalYear", slog.String("error", err.Error()))
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
	logger.Info("Received request to create fiscal year", slog.String("start_date", req.StartDate))

	periods, err := h.periodService.CreateFiscalYear(c.Request.Context(), companyID, req, actorID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			logger.Warn("Create fiscal year failed validation", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrConflict):
			logger.Warn("Create fiscal year overlaps existing periods", slog.String("error", err.Error()))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to create fiscal year in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create fiscal year"})
		}
		return
	}

	logger.Info("Fiscal year created successfully", slog.Int("period_count", len(periods)))
	c.JSON(http.StatusCreated, dto.ToPeriodResponses(periods))
}

// listPeriods godoc
// @Summary List periods
// @Description Retrieves a paginated list of the company's periods, oldest first.
// @Tags periods
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   limit query int false "Max results" default(20)
// @Param   offset query int false "Results to skip" default(0)
// @Success 200 {array} dto.PeriodResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list periods"
// @Security ActorAuth
// @Router /companies/{company_id}/periods [get]
func (h *periodHandler) listPeriods(c *gin.Context) {
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

	periods, err := h.periodService.ListPeriods(c.Request.Context(), companyID, limit, offset)
	if err != nil {
		logger.Error("Failed to list periods from service", slog.String("company_id", companyID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list periods"})
		return
	}

	c.JSON(http.StatusOK, dto.ToPeriodResponses(periods))
}

// getPeriod godoc
// @Summary Get a period by ID
// @Description Retrieves details of a specific accounting period.
// @Tags periods
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   period_id path string true "Period ID"
// @Success 200 {object} dto.PeriodResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Period not found"
// @Failure 500 {object} map[string]string "Failed to get period"
// @Security ActorAuth
// @Router /companies/{company_id}/periods/{period_id} [get]
func (h *periodHandler) getPeriod(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")
	periodID := c.Param("period_id")

	period, err := h.periodService.GetPeriodByID(c.Request.Context(), companyID, periodID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Period not found"})
			return
		}
		logger.Error("Failed to get period from service", slog.String("period_id", periodID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get period"})
		return
	}

	c.JSON(http.StatusOK, dto.ToPeriodResponse(*period))
}

// updatePeriodStatus godoc
// @Summary Change a period's status
// @Description Locks, unlocks or closes a period. Closing is terminal; posting into a LOCKED or CLOSED period is rejected.
// @Tags periods
// @Accept  json
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   period_id path string true "Period ID"
// @Param   status body dto.UpdatePeriodStatusRequest true "Target status"
// @Success 200 {object} dto.PeriodResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Period not found"
// @Failure 409 {object} map[string]string "Transition not allowed from current status"
// @Failure 500 {object} map[string]string "Failed to update period status"
// @Security ActorAuth
// @Router /companies/{company_id}/periods/{period_id}/status [put]
func (h *periodHandler) updatePeriodStatus(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")
	periodID := c.Param("period_id")

	var req dto.UpdatePeriodStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdatePeriodStatus", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := middleware.GetActorIDFromContext(c)
	if !ok {
		logger.Error("Actor ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("actor_id", actorID), slog.String("period_id", periodID), slog.String("target_status", req.Status))
	logger.Info("Received request to change period status")

	var period *domain.Period
	var err error
	switch req.Status {
	case "LOCKED":
		period, err = h.periodService.LockPeriod(c.Request.Context(), companyID, periodID, actorID)
	case "OPEN":
		period, err = h.periodService.UnlockPeriod(c.Request.Context(), companyID, periodID, actorID)
	case "CLOSED":
		period, err = h.periodService.ClosePeriod(c.Request.Context(), companyID, periodID, actorID)
	}
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			logger.Warn("Period not found for status change")
			c.JSON(http.StatusNotFound, gin.H{"error": "Period not found"})
		case errors.Is(err, services.ErrInvalidTransition):
			logger.Warn("Period status transition rejected", slog.String("error", err.Error()))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to change period status in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update period status"})
		}
		return
	}

	logger.Info("Period status changed successfully")
	c.JSON(http.StatusOK, dto.ToPeriodResponse(*period))
}

// getPeriodTaxReturn godoc
// @Summary Get a period's tax return draft
// @Description Aggregates the period's posted tax lines by reporting box and jurisdiction.
// @Tags periods
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   period_id path string true "Period ID"
// @Success 200 {object} dto.TaxReturnResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Period not found"
// @Failure 500 {object} map[string]string "Failed to build tax return"
// @Security ActorAuth
// @Router /companies/{company_id}/periods/{period_id}/tax-return [get]
func (h *periodHandler) getPeriodTaxReturn(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")
	periodID := c.Param("period_id")

	taxReturn, err := h.reportingService.GetTaxReturnForPeriod(c.Request.Context(), companyID, periodID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Period not found"})
			return
		}
		logger.Error("Failed to build tax return from service", slog.String("period_id", periodID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build tax return"})
		return
	}

	c.JSON(http.StatusOK, taxReturn)
}
