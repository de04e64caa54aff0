package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/keabooks/kea_books_app/internal/apperrors"
	portssvc "github.com/keabooks/kea_books_app/internal/core/ports/services"
	"github.com/keabooks/kea_books_app/internal/core/services"
	"github.com/keabooks/kea_books_app/internal/dto"
	"github.com/keabooks/kea_books_app/internal/middleware"
)

// taxCodeHandler handles HTTP requests related to tax codes.
type taxCodeHandler struct {
	taxService portssvc.TaxSvcFacade
}

func newTaxCodeHandler(ts portssvc.TaxSvcFacade) *taxCodeHandler {
	return &taxCodeHandler{
		taxService: ts,
	}
}

// registerTaxCodeRoutes registers tax code routes nested under a specific company.
func registerTaxCodeRoutes(rg *gin.RouterGroup, taxService portssvc.TaxSvcFacade) {
	h := newTaxCodeHandler(taxService)

	taxCodes := rg.Group("/tax-codes")
	{
		taxCodes.POST("", h.createTaxCode)
		taxCodes.GET("", h.listTaxCodes)
		taxCodes.GET("/:tax_code_id", h.getTaxCode)
		taxCodes.PUT("/:tax_code_id", h.updateTaxCode)
		taxCodes.DELETE("/:tax_code_id", h.deactivateTaxCode)
	}
}

// createTaxCode godoc
// @Summary Create a new tax code
// @Description Creates a new tax code. Posted tax lines snapshot the rate, so later edits never move history.
// @Tags tax-codes
// @Accept  json
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   tax_code body dto.CreateTaxCodeRequest true "Tax code details"
// @Success 201 {object} dto.TaxCodeResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 409 {object} map[string]string "Tax code already exists"
// @Failure 500 {object} map[string]string "Failed to create tax code"
// @Security ActorAuth
// @Router /companies/{company_id}/tax-codes [post]
func (h *taxCodeHandler) createTaxCode(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")

	var req dto.CreateTaxCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateTaxCode", slog.String("error", err.Error()))
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

	newTaxCode, err := h.taxService.CreateTaxCode(c.Request.Context(), companyID, req, actorID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidTaxRate), errors.Is(err, apperrors.ErrValidation):
			logger.Warn("Create tax code failed validation", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrDuplicate):
			logger.Warn("Create tax code conflicted", slog.String("error", err.Error()))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to create tax code in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create tax code"})
		}
		return
	}

	logger.Info("Tax code created successfully", slog.String("tax_code_id", newTaxCode.TaxCodeID))
	c.JSON(http.StatusCreated, dto.ToTaxCodeResponse(*newTaxCode))
}

// listTaxCodes godoc
// @Summary List tax codes
// @Description Retrieves a paginated list of the company's tax codes.
// @Tags tax-codes
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   limit query int false "Max results" default(20)
// @Param   offset query int false "Results to skip" default(0)
// @Success 200 {array} dto.TaxCodeResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list tax codes"
// @Security ActorAuth
// @Router /companies/{company_id}/tax-codes [get]
func (h *taxCodeHandler) listTaxCodes(c *gin.Context) {
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

	taxCodes, err := h.taxService.ListTaxCodes(c.Request.Context(), companyID, limit, offset)
	if err != nil {
		logger.Error("Failed to list tax codes from service", slog.String("company_id", companyID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list tax codes"})
		return
	}

	c.JSON(http.StatusOK, dto.ToTaxCodeResponses(taxCodes))
}

// getTaxCode godoc
// @Summary Get a tax code by ID
// @Description Retrieves details of a specific tax code.
// @Tags tax-codes
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   tax_code_id path string true "Tax code ID"
// @Success 200 {object} dto.TaxCodeResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Tax code not found"
// @Failure 500 {object} map[string]string "Failed to get tax code"
// @Security ActorAuth
// @Router /companies/{company_id}/tax-codes/{tax_code_id} [get]
func (h *taxCodeHandler) getTaxCode(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")
	taxCodeID := c.Param("tax_code_id")

	taxCode, err := h.taxService.GetTaxCodeByID(c.Request.Context(), companyID, taxCodeID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Tax code not found"})
			return
		}
		logger.Error("Failed to get tax code from service", slog.String("tax_code_id", taxCodeID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get tax code"})
		return
	}

	c.JSON(http.StatusOK, dto.ToTaxCodeResponse(*taxCode))
}

// updateTaxCode godoc
// @Summary Update a tax code
// @Description Updates a tax code's details. Already-posted tax lines keep their snapshotted rate.
// @Tags tax-codes
// @Accept  json
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   tax_code_id path string true "Tax code ID"
// @Param   tax_code body dto.UpdateTaxCodeRequest true "Fields to update"
// @Success 200 {object} dto.TaxCodeResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Tax code not found"
// @Failure 500 {object} map[string]string "Failed to update tax code"
// @Security ActorAuth
// @Router /companies/{company_id}/tax-codes/{tax_code_id} [put]
func (h *taxCodeHandler) updateTaxCode(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")
	taxCodeID := c.Param("tax_code_id")

	var req dto.UpdateTaxCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateTaxCode", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := middleware.GetActorIDFromContext(c)
	if !ok {
		logger.Error("Actor ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	updated, err := h.taxService.UpdateTaxCode(c.Request.Context(), companyID, taxCodeID, req, actorID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Tax code not found"})
		case errors.Is(err, services.ErrInvalidTaxRate), errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to update tax code in service", slog.String("tax_code_id", taxCodeID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update tax code"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToTaxCodeResponse(*updated))
}

// deactivateTaxCode godoc
// @Summary Deactivate a tax code
// @Description Marks a tax code as inactive. New transaction lines may no longer reference it.
// @Tags tax-codes
// @Param   company_id path string true "Company ID"
// @Param   tax_code_id path string true "Tax code ID"
// @Success 204 "No Content"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Tax code not found"
// @Failure 500 {object} map[string]string "Failed to deactivate tax code"
// @Security ActorAuth
// @Router /companies/{company_id}/tax-codes/{tax_code_id} [delete]
func (h *taxCodeHandler) deactivateTaxCode(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")
	taxCodeID := c.Param("tax_code_id")

	actorID, ok := middleware.GetActorIDFromContext(c)
	if !ok {
		logger.Error("Actor ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.taxService.DeactivateTaxCode(c.Request.Context(), companyID, taxCodeID, actorID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Tax code not found"})
			return
		}
		logger.Error("Failed to deactivate tax code in service", slog.String("tax_code_id", taxCodeID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to deactivate tax code"})
		return
	}

	c.Status(http.StatusNoContent)
}
