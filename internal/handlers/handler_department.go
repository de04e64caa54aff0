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

// departmentHandler handles HTTP requests related to departments.
type departmentHandler struct {
	departmentService portssvc.DepartmentSvcFacade
}

func newDepartmentHandler(ds portssvc.DepartmentSvcFacade) *departmentHandler {
	return &departmentHandler{
		departmentService: ds,
	}
}

// registerDepartmentRoutes registers department routes nested under a specific company.
func registerDepartmentRoutes(rg *gin.RouterGroup, departmentService portssvc.DepartmentSvcFacade) {
	h := newDepartmentHandler(departmentService)

	departments := rg.Group("/departments")
	{
		departments.POST("", h.createDepartment)
		departments.GET("", h.listDepartments)
		departments.GET("/:department_id", h.getDepartment)
		departments.PUT("/:department_id", h.updateDepartment)
		departments.DELETE("/:department_id", h.deactivateDepartment)
	}
}

// createDepartment godoc
// @Summary Create a new department
// @Description Creates a new department for tagging transaction lines.
// @Tags departments
// @Accept  json
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   department body dto.CreateDepartmentRequest true "Department details"
// @Success 201 {object} dto.DepartmentResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to create department"
// @Security ActorAuth
// @Router /companies/{company_id}/departments [post]
func (h *departmentHandler) createDepartment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")

	var req dto.CreateDepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateDepartment", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := middleware.GetActorIDFromContext(c)
	if !ok {
		logger.Error("Actor ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	newDepartment, err := h.departmentService.CreateDepartment(c.Request.Context(), companyID, req, actorID)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to create department in service", slog.String("company_id", companyID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create department"})
		return
	}

	c.JSON(http.StatusCreated, dto.ToDepartmentResponse(*newDepartment))
}

// listDepartments godoc
// @Summary List departments
// @Description Retrieves a paginated list of the company's departments.
// @Tags departments
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   limit query int false "Max results" default(20)
// @Param   offset query int false "Results to skip" default(0)
// @Success 200 {array} dto.DepartmentResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list departments"
// @Security ActorAuth
// @Router /companies/{company_id}/departments [get]
func (h *departmentHandler) listDepartments(c *gin.Context) {
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

	departments, err := h.departmentService.ListDepartments(c.Request.Context(), companyID, limit, offset)
	if err != nil {
		logger.Error("Failed to list departments from service", slog.String("company_id", companyID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list departments"})
		return
	}

	c.JSON(http.StatusOK, dto.ToDepartmentResponses(departments))
}

// getDepartment godoc
// @Summary Get a department by ID
// @Description Retrieves details of a specific department.
// @Tags departments
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   department_id path string true "Department ID"
// @Success 200 {object} dto.DepartmentResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Department not found"
// @Failure 500 {object} map[string]string "Failed to get department"
// @Security ActorAuth
// @Router /companies/{company_id}/departments/{department_id} [get]
func (h *departmentHandler) getDepartment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")
	departmentID := c.Param("department_id")

	department, err := h.departmentService.GetDepartmentByID(c.Request.Context(), companyID, departmentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Department not found"})
			return
		}
		logger.Error("Failed to get department from service", slog.String("department_id", departmentID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get department"})
		return
	}

	c.JSON(http.StatusOK, dto.ToDepartmentResponse(*department))
}

// updateDepartment godoc
// @Summary Update a department
// @Description Updates a department's details.
// @Tags departments
// @Accept  json
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   department_id path string true "Department ID"
// @Param   department body dto.UpdateDepartmentRequest true "Fields to update"
// @Success 200 {object} dto.DepartmentResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Department not found"
// @Failure 500 {object} map[string]string "Failed to update department"
// @Security ActorAuth
// @Router /companies/{company_id}/departments/{department_id} [put]
func (h *departmentHandler) updateDepartment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")
	departmentID := c.Param("department_id")

	var req dto.UpdateDepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateDepartment", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := middleware.GetActorIDFromContext(c)
	if !ok {
		logger.Error("Actor ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	updated, err := h.departmentService.UpdateDepartment(c.Request.Context(), companyID, departmentID, req, actorID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Department not found"})
			return
		}
		logger.Error("Failed to update department in service", slog.String("department_id", departmentID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update department"})
		return
	}

	c.JSON(http.StatusOK, dto.ToDepartmentResponse(*updated))
}

// deactivateDepartment godoc
// @Summary Deactivate a department
// @Description Marks a department as inactive. Lines already tagged with it are untouched.
// @Tags departments
// @Param   company_id path string true "Company ID"
// @Param   department_id path string true "Department ID"
// @Success 204 "No Content"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Department not found"
// @Failure 500 {object} map[string]string "Failed to deactivate department"
// @Security ActorAuth
// @Router /companies/{company_id}/departments/{department_id} [delete]
func (h *departmentHandler) deactivateDepartment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")
	departmentID := c.Param("department_id")

	actorID, ok := middleware.GetActorIDFromContext(c)
	if !ok {
		logger.Error("Actor ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.departmentService.DeactivateDepartment(c.Request.Context(), companyID, departmentID, actorID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Department not found"})
			return
		}
		logger.Error("Failed to deactivate department in service", slog.String("department_id", departmentID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to deactivate department"})
		return
	}

	c.Status(http.StatusNoContent)
}
