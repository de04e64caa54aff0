package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/keabooks/kea_books_app/internal/apperrors"
	portssvc "github.com/keabooks/kea_books_app/internal/core/ports/services"
	"github.com/keabooks/kea_books_app/internal/core/services"
	"github.com/keabooks/kea_books_app/internal/dto"
	"github.com/keabooks/kea_books_app/internal/middleware"
)

// billHandler handles HTTP requests for accounts-payable bills.
type billHandler struct {
	billService       portssvc.BillSvcFacade
	allocationService portssvc.AllocationSvcFacade
}

func newBillHandler(bs portssvc.BillSvcFacade, as portssvc.AllocationSvcFacade) *billHandler {
	return &billHandler{
		billService:       bs,
		allocationService: as,
	}
}

// registerBillRoutes registers bill routes nested under a specific company.
// Allocations applied to a bill are listed here since they are addressed by
// bill.
func registerBillRoutes(rg *gin.RouterGroup, billService portssvc.BillSvcFacade, allocationService portssvc.AllocationSvcFacade) {
	h := newBillHandler(billService, allocationService)

	bills := rg.Group("/bills")
	{
		bills.POST("", h.createBill)
		bills.GET("", h.listBills)
		bills.GET("/:bill_id", h.getBill)
		bills.PUT("/:bill_id", h.updateBill)
		bills.POST("/:bill_id/void", h.voidBill)
		bills.POST("/:bill_id/issue", h.issueBill)
		bills.GET("/:bill_id/allocations", h.listBillAllocations)
	}
}

// createBill godoc
// @Summary Create a draft bill
// @Description Creates a new DRAFT bill from a supplier. Drafts carry no accounting effect until issued.
// @Tags bills
// @Accept  json
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   bill body dto.CreateBillRequest true "Bill details"
// @Success 201 {object} dto.BillResponse
// @Failure 400 {object} map[string]string "Invalid input or contact is not a supplier"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Contact not found"
// @Failure 409 {object} map[string]string "Bill number already exists"
// @Failure 500 {object} map[string]string "Failed to create bill"
// @Security ActorAuth
// @Router /companies/{company_id}/bills [post]
func (h *billHandler) createBill(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")

	var req dto.CreateBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateBill", slog.String("error", err.Error()))
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
	logger.Info("Received request to create bill", slog.String("bill_number", req.Number))

	newBill, err := h.billService.CreateBill(c.Request.Context(), companyID, req, actorID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			logger.Warn("Create bill referenced a missing resource", slog.String("error", err.Error()))
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrWrongContactType), errors.Is(err, apperrors.ErrValidation):
			logger.Warn("Create bill failed validation", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrDuplicate):
			logger.Warn("Create bill conflicted", slog.String("error", err.Error()))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to create bill in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create bill"})
		}
		return
	}

	logger.Info("Bill created successfully", slog.String("bill_id", newBill.BillID))
	c.JSON(http.StatusCreated, dto.ToBillResponse(*newBill))
}

// listBills godoc
// @Summary List bills
// @Description Retrieves a paginated list of the company's bills, newest first.
// @Tags bills
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   status query string false "Filter by status" Enums(DRAFT, ISSUED, VOID)
// @Param   contactID query string false "Filter by supplier"
// @Param   limit query int false "Max results" default(20)
// @Param   nextToken query string false "Pagination token from a previous page"
// @Success 200 {object} dto.ListBillsResponse
// @Failure 400 {object} map[string]string "Invalid filter or pagination token"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list bills"
// @Security ActorAuth
// @Router /companies/{company_id}/bills [get]
func (h *billHandler) listBills(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")

	var params dto.ListDocumentsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for ListBills", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	resp, err := h.billService.ListBills(c.Request.Context(), companyID, params)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("List bills failed validation", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to list bills from service", slog.String("company_id", companyID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list bills"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// getBill godoc
// @Summary Get a bill by ID
// @Description Retrieves a bill with its lines.
// @Tags bills
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   bill_id path string true "Bill ID"
// @Success 200 {object} dto.BillResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Bill not found"
// @Failure 500 {object} map[string]string "Failed to get bill"
// @Security ActorAuth
// @Router /companies/{company_id}/bills/{bill_id} [get]
func (h *billHandler) getBill(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")
	billID := c.Param("bill_id")

	bill, err := h.billService.GetBillByID(c.Request.Context(), companyID, billID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Bill not found", slog.String("bill_id", billID))
			c.JSON(http.StatusNotFound, gin.H{"error": "Bill not found"})
			return
		}
		logger.Error("Failed to get bill from service", slog.String("bill_id", billID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get bill"})
		return
	}

	c.JSON(http.StatusOK, dto.ToBillResponse(*bill))
}

// updateBill godoc
// @Summary Update a draft bill
// @Description Updates a DRAFT bill's fields and lines. Issued bills are immutable.
// @Tags bills
// @Accept  json
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   bill_id path string true "Bill ID"
// @Param   bill body dto.UpdateBillRequest true "Fields to update"
// @Success 200 {object} dto.BillResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Bill not found"
// @Failure 409 {object} map[string]string "Bill is not a draft"
// @Failure 500 {object} map[string]string "Failed to update bill"
// @Security ActorAuth
// @Router /companies/{company_id}/bills/{bill_id} [put]
func (h *billHandler) updateBill(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")
	billID := c.Param("bill_id")

	var req dto.UpdateBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateBill", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := middleware.GetActorIDFromContext(c)
	if !ok {
		logger.Error("Actor ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("actor_id", actorID), slog.String("bill_id", billID))

	updated, err := h.billService.UpdateDraftBill(c.Request.Context(), companyID, billID, req, actorID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			logger.Warn("Bill not found for update")
			c.JSON(http.StatusNotFound, gin.H{"error": "Bill not found"})
		case errors.Is(err, services.ErrDocumentNotDraft), errors.Is(err, apperrors.ErrConflict):
			logger.Warn("Update rejected: bill is not a draft", slog.String("error", err.Error()))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrWrongContactType), errors.Is(err, apperrors.ErrValidation):
			logger.Warn("Update bill failed validation", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to update bill in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update bill"})
		}
		return
	}

	logger.Info("Bill updated successfully")
	c.JSON(http.StatusOK, dto.ToBillResponse(*updated))
}

// voidBill godoc
// @Summary Void a draft bill
// @Description Flips a DRAFT bill to VOID. Issued bills are corrected by reversing their backing transaction instead.
// @Tags bills
// @Param   company_id path string true "Company ID"
// @Param   bill_id path string true "Bill ID"
// @Success 204 "No Content"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Bill not found"
// @Failure 409 {object} map[string]string "Bill is not a draft"
// @Failure 500 {object} map[string]string "Failed to void bill"
// @Security ActorAuth
// @Router /companies/{company_id}/bills/{bill_id}/void [post]
func (h *billHandler) voidBill(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")
	billID := c.Param("bill_id")

	actorID, ok := middleware.GetActorIDFromContext(c)
	if !ok {
		logger.Error("Actor ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("actor_id", actorID), slog.String("bill_id", billID))

	if err := h.billService.VoidDraftBill(c.Request.Context(), companyID, billID, actorID); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			logger.Warn("Bill not found for voiding")
			c.JSON(http.StatusNotFound, gin.H{"error": "Bill not found"})
		case errors.Is(err, services.ErrDocumentNotDraft), errors.Is(err, apperrors.ErrConflict):
			logger.Warn("Void rejected: bill is not a draft", slog.String("error", err.Error()))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to void bill in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to void bill"})
		}
		return
	}

	logger.Info("Bill voided successfully")
	c.Status(http.StatusNoContent)
}

// issueBill godoc
// @Summary Issue a draft bill
// @Description Computes totals, posts the backing BILL transaction against the payables control account and flips the bill to ISSUED, atomically.
// @Tags bills
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   bill_id path string true "Bill ID"
// @Success 200 {object} dto.BillResponse
// @Failure 400 {object} map[string]string "A posting precondition failed"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Bill not found"
// @Failure 409 {object} map[string]string "Not a draft, no payables control account, or the period does not admit postings"
// @Failure 500 {object} map[string]string "Failed to issue bill"
// @Security ActorAuth
// @Router /companies/{company_id}/bills/{bill_id}/issue [post]
func (h *billHandler) issueBill(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")
	billID := c.Param("bill_id")

	actorID, ok := middleware.GetActorIDFromContext(c)
	if !ok {
		logger.Error("Actor ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("actor_id", actorID), slog.String("bill_id", billID))
	logger.Info("Received request to issue bill")

	issued, err := h.billService.IssueBill(c.Request.Context(), companyID, billID, actorID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			logger.Warn("Issue failed: resource not found", slog.String("error", err.Error()))
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrDocumentNotDraft),
			errors.Is(err, services.ErrNoControlAccount),
			errors.Is(err, services.ErrNoPeriod),
			errors.Is(err, services.ErrPeriodLocked),
			errors.Is(err, apperrors.ErrConflict):
			logger.Warn("Issue rejected by document or company state", slog.String("error", err.Error()))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrNoLines),
			errors.Is(err, services.ErrAccountInactive),
			errors.Is(err, services.ErrInvalidAmount),
			errors.Is(err, apperrors.ErrValidation):
			logger.Warn("Issue rejected: bill failed validation", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to issue bill in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue bill"})
		}
		return
	}

	logger.Info("Bill issued successfully", slog.String("transaction_id", derefString(issued.TransactionID)))
	c.JSON(http.StatusOK, dto.ToBillResponse(*issued))
}

// listBillAllocations godoc
// @Summary List a bill's allocations
// @Description Retrieves the payment allocations applied to a bill.
// @Tags bills
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   bill_id path string true "Bill ID"
// @Success 200 {array} dto.AllocationResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Bill not found"
// @Failure 500 {object} map[string]string "Failed to list allocations"
// @Security ActorAuth
// @Router /companies/{company_id}/bills/{bill_id}/allocations [get]
func (h *billHandler) listBillAllocations(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")
	billID := c.Param("bill_id")

	allocations, err := h.allocationService.ListBillAllocations(c.Request.Context(), companyID, billID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Bill not found"})
			return
		}
		logger.Error("Failed to list bill allocations from service", slog.String("bill_id", billID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list allocations"})
		return
	}

	c.JSON(http.StatusOK, dto.ToPayableAllocationResponses(allocations))
}
