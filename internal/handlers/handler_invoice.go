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

// invoiceHandler handles HTTP requests for accounts-receivable invoices.
type invoiceHandler struct {
	invoiceService    portssvc.InvoiceSvcFacade
	allocationService portssvc.AllocationSvcFacade
}

func newInvoiceHandler(is portssvc.InvoiceSvcFacade, as portssvc.AllocationSvcFacade) *invoiceHandler {
	return &invoiceHandler{
		invoiceService:    is,
		allocationService: as,
	}
}

// registerInvoiceRoutes registers invoice routes nested under a specific
// company. Allocations applied to an invoice are listed here since they are
// addressed by invoice.
func registerInvoiceRoutes(rg *gin.RouterGroup, invoiceService portssvc.InvoiceSvcFacade, allocationService portssvc.AllocationSvcFacade) {
	h := newInvoiceHandler(invoiceService, allocationService)

	invoices := rg.Group("/invoices")
	{
		invoices.POST("", h.createInvoice)
		invoices.GET("", h.listInvoices)
		invoices.GET("/:invoice_id", h.getInvoice)
		invoices.PUT("/:invoice_id", h.updateInvoice)
		invoices.POST("/:invoice_id/void", h.voidInvoice)
		invoices.POST("/:invoice_id/issue", h.issueInvoice)
		invoices.GET("/:invoice_id/allocations", h.listInvoiceAllocations)
	}
}

// createInvoice godoc
// @Summary Create a draft invoice
// @Description Creates a new DRAFT invoice for a customer. Drafts carry no accounting effect until issued.
// @Tags invoices
// @Accept  json
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   invoice body dto.CreateInvoiceRequest true "Invoice details"
// @Success 201 {object} dto.InvoiceResponse
// @Failure 400 {object} map[string]string "Invalid input or contact is not a customer"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Contact not found"
// @Failure 409 {object} map[string]string "Invoice number already exists"
// @Failure 500 {object} map[string]string "Failed to create invoice"
// @Security ActorAuth
// @Router /companies/{company_id}/invoices [post]
func (h *invoiceHandler) createInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")

	var req dto.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateInvoice", slog.String("error", err.Error()))
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
	logger.Info("Received request to create invoice", slog.String("invoice_number", req.Number))

	newInvoice, err := h.invoiceService.CreateInvoice(c.Request.Context(), companyID, req, actorID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			logger.Warn("Create invoice referenced a missing resource", slog.String("error", err.Error()))
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrWrongContactType), errors.Is(err, apperrors.ErrValidation):
			logger.Warn("Create invoice failed validation", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrDuplicate):
			logger.Warn("Create invoice conflicted", slog.String("error", err.Error()))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to create invoice in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create invoice"})
		}
		return
	}

	logger.Info("Invoice created successfully", slog.String("invoice_id", newInvoice.InvoiceID))
	c.JSON(http.StatusCreated, dto.ToInvoiceResponse(*newInvoice))
}

// listInvoices godoc
// @Summary List invoices
// @Description Retrieves a paginated list of the company's invoices, newest first.
// @Tags invoices
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   status query string false "Filter by status" Enums(DRAFT, ISSUED, VOID)
// @Param   contactID query string false "Filter by customer"
// @Param   limit query int false "Max results" default(20)
// @Param   nextToken query string false "Pagination token from a previous page"
// @Success 200 {object} dto.ListInvoicesResponse
// @Failure 400 {object} map[string]string "Invalid filter or pagination token"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list invoices"
// @Security ActorAuth
// @Router /companies/{company_id}/invoices [get]
func (h *invoiceHandler) listInvoices(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")

	var params dto.ListDocumentsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for ListInvoices", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	resp, err := h.invoiceService.ListInvoices(c.Request.Context(), companyID, params)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("List invoices failed validation", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to list invoices from service", slog.String("company_id", companyID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list invoices"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// getInvoice godoc
// @Summary Get an invoice by ID
// @Description Retrieves an invoice with its lines.
// @Tags invoices
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   invoice_id path string true "Invoice ID"
// @Success 200 {object} dto.InvoiceResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Invoice not found"
// @Failure 500 {object} map[string]string "Failed to get invoice"
// @Security ActorAuth
// @Router /companies/{company_id}/invoices/{invoice_id} [get]
func (h *invoiceHandler) getInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")
	invoiceID := c.Param("invoice_id")

	invoice, err := h.invoiceService.GetInvoiceByID(c.Request.Context(), companyID, invoiceID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Invoice not found", slog.String("invoice_id", invoiceID))
			c.JSON(http.StatusNotFound, gin.H{"error": "Invoice not found"})
			return
		}
		logger.Error("Failed to get invoice from service", slog.String("invoice_id", invoiceID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get invoice"})
		return
	}

	c.JSON(http.StatusOK, dto.ToInvoiceResponse(*invoice))
}

// updateInvoice godoc
// @Summary Update a draft invoice
// @Description Updates a DRAFT invoice's fields and lines. Issued invoices are immutable.
// @Tags invoices
// @Accept  json
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   invoice_id path string true "Invoice ID"
// @Param   invoice body dto.UpdateInvoiceRequest true "Fields to update"
// @Success 200 {object} dto.InvoiceResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Invoice not found"
// @Failure 409 {object} map[string]string "Invoice is not a draft"
// @Failure 500 {object} map[string]string "Failed to update invoice"
// @Security ActorAuth
// @Router /companies/{company_id}/invoices/{invoice_id} [put]
func (h *invoiceHandler) updateInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")
	invoiceID := c.Param("invoice_id")

	var req dto.UpdateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateInvoice", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := middleware.GetActorIDFromContext(c)
	if !ok {
		logger.Error("Actor ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("actor_id", actorID), slog.String("invoice_id", invoiceID))

	updated, err := h.invoiceService.UpdateDraftInvoice(c.Request.Context(), companyID, invoiceID, req, actorID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			logger.Warn("Invoice not found for update")
			c.JSON(http.StatusNotFound, gin.H{"error": "Invoice not found"})
		case errors.Is(err, services.ErrDocumentNotDraft), errors.Is(err, apperrors.ErrConflict):
			logger.Warn("Update rejected: invoice is not a draft", slog.String("error", err.Error()))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrWrongContactType), errors.Is(err, apperrors.ErrValidation):
			logger.Warn("Update invoice failed validation", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to update invoice in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update invoice"})
		}
		return
	}

	logger.Info("Invoice updated successfully")
	c.JSON(http.StatusOK, dto.ToInvoiceResponse(*updated))
}

// voidInvoice godoc
// @Summary Void a draft invoice
// @Description Flips a DRAFT invoice to VOID. Issued invoices are corrected by reversing their backing transaction instead.
// @Tags invoices
// @Param   company_id path string true "Company ID"
// @Param   invoice_id path string true "Invoice ID"
// @Success 204 "No Content"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Invoice not found"
// @Failure 409 {object} map[string]string "Invoice is not a draft"
// @Failure 500 {object} map[string]string "Failed to void invoice"
// @Security ActorAuth
// @Router /companies/{company_id}/invoices/{invoice_id}/void [post]
func (h *invoiceHandler) voidInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")
	invoiceID := c.Param("invoice_id")

	actorID, ok := middleware.GetActorIDFromContext(c)
	if !ok {
		logger.Error("Actor ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("actor_id", actorID), slog.String("invoice_id", invoiceID))

	if err := h.invoiceService.VoidDraftInvoice(c.Request.Context(), companyID, invoiceID, actorID); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			logger.Warn("Invoice not found for voiding")
			c.JSON(http.StatusNotFound, gin.H{"error": "Invoice not found"})
		case errors.Is(err, services.ErrDocumentNotDraft), errors.Is(err, apperrors.ErrConflict):
			logger.Warn("Void rejected: invoice is not a draft", slog.String("error", err.Error()))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to void invoice in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to void invoice"})
		}
		return
	}

	logger.Info("Invoice voided successfully")
	c.Status(http.StatusNoContent)
}

// issueInvoice godoc
// @Summary Issue a draft invoice
// @Description Computes totals, posts the backing INVOICE transaction against the receivables control account and flips the invoice to ISSUED, atomically.
// @Tags invoices
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   invoice_id path string true "Invoice ID"
// @Success 200 {object} dto.InvoiceResponse
// @Failure 400 {object} map[string]string "A posting precondition failed"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Invoice not found"
// @Failure 409 {object} map[string]string "Not a draft, no receivables control account, or the period does not admit postings"
// @Failure 500 {object} map[string]string "Failed to issue invoice"
// @Security ActorAuth
// @Router /companies/{company_id}/invoices/{invoice_id}/issue [post]
func (h *invoiceHandler) issueInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")
	invoiceID := c.Param("invoice_id")

	actorID, ok := middleware.GetActorIDFromContext(c)
	if !ok {
		logger.Error("Actor ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("actor_id", actorID), slog.String("invoice_id", invoiceID))
	logger.Info("Received request to issue invoice")

	issued, err := h.invoiceService.IssueInvoice(c.Request.Context(), companyID, invoiceID, actorID)
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
			logger.Warn("Issue rejected: invoice failed validation", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to issue invoice in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue invoice"})
		}
		return
	}

	logger.Info("Invoice issued successfully", slog.String("transaction_id", derefString(issued.TransactionID)))
	c.JSON(http.StatusOK, dto.ToInvoiceResponse(*issued))
}

// listInvoiceAllocations godoc
// @Summary List an invoice's allocations
// @Description Retrieves the receipt allocations applied to an invoice.
// @Tags invoices
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   invoice_id path string true "Invoice ID"
// @Success 200 {array} dto.AllocationResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Invoice not found"
// @Failure 500 {object} map[string]string "Failed to list allocations"
// @Security ActorAuth
// @Router /companies/{company_id}/invoices/{invoice_id}/allocations [get]
func (h *invoiceHandler) listInvoiceAllocations(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")
	invoiceID := c.Param("invoice_id")

	allocations, err := h.allocationService.ListInvoiceAllocations(c.Request.Context(), companyID, invoiceID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Invoice not found"})
			return
		}
		logger.Error("Failed to list invoice allocations from service", slog.String("invoice_id", invoiceID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list allocations"})
		return
	}

	c.JSON(http.StatusOK, dto.ToReceivableAllocationResponses(allocations))
}

// derefString returns the string behind p, or empty when p is nil.
func derefString(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
