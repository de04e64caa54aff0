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

// allocationHandler handles HTTP requests applying posted receipts and
// payments to issued documents.
type allocationHandler struct {
	allocationService portssvc.AllocationSvcFacade
}

func newAllocationHandler(as portssvc.AllocationSvcFacade) *allocationHandler {
	return &allocationHandler{
		allocationService: as,
	}
}

// registerAllocationRoutes registers allocation routes nested under a
// specific company. Receipt-side and payment-side routes mirror each other.
func registerAllocationRoutes(rg *gin.RouterGroup, allocationService portssvc.AllocationSvcFacade) {
	h := newAllocationHandler(allocationService)

	receipts := rg.Group("/receipts/:transaction_id")
	{
		receipts.POST("/allocations", h.allocateReceipt)
		receipts.GET("/allocation-state", h.getReceiptAllocationState)
	}

	payments := rg.Group("/payments/:transaction_id")
	{
		payments.POST("/allocations", h.allocatePayment)
		payments.GET("/allocation-state", h.getPaymentAllocationState)
	}

	suggestions := rg.Group("/allocations")
	{
		suggestions.POST("/suggest-receipts", h.suggestReceiptAllocations)
		suggestions.POST("/suggest-payments", h.suggestPaymentAllocations)
	}
}

// allocateReceipt godoc
// @Summary Allocate a receipt to an invoice
// @Description Applies part of a posted RECEIPT transaction to an issued invoice. The sum allocated from one receipt can never exceed its allocatable total.
// @Tags allocations
// @Accept  json
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   transaction_id path string true "Receipt transaction ID"
// @Param   allocation body dto.CreateAllocationRequest true "Invoice and amount"
// @Success 201 {object} dto.AllocationResponse
// @Failure 400 {object} map[string]string "Invalid amount or transaction type"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Transaction or invoice not found"
// @Failure 409 {object} map[string]string "Exceeds the unallocated balance, or a party is in the wrong state"
// @Failure 500 {object} map[string]string "Failed to allocate receipt"
// @Security ActorAuth
// @Router /companies/{company_id}/receipts/{transaction_id}/allocations [post]
func (h *allocationHandler) allocateReceipt(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")
	transactionID := c.Param("transaction_id")

	var req dto.CreateAllocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for AllocateReceipt", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := middleware.GetActorIDFromContext(c)
	if !ok {
		logger.Error("Actor ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("actor_id", actorID), slog.String("receipt_transaction_id", transactionID), slog.String("invoice_id", req.DocumentID))
	logger.Info("Received request to allocate receipt", slog.String("amount", req.Amount.String()))

	allocation, err := h.allocationService.AllocateReceipt(c.Request.Context(), companyID, transactionID, req, actorID)
	if err != nil {
		h.respondAllocationError(c, logger, err, "Failed to allocate receipt")
		return
	}

	logger.Info("Receipt allocated successfully", slog.String("allocation_id", allocation.AllocationID))
	c.JSON(http.StatusCreated, dto.ToReceivableAllocationResponse(*allocation))
}

// allocatePayment godoc
// @Summary Allocate a payment to a bill
// @Description Applies part of a posted PAYMENT transaction to an issued bill. The sum allocated from one payment can never exceed its allocatable total.
// @Tags allocations
// @Accept  json
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   transaction_id path string true "Payment transaction ID"
// @Param   allocation body dto.CreateAllocationRequest true "Bill and amount"
// @Success 201 {object} dto.AllocationResponse
// @Failure 400 {object} map[string]string "Invalid amount or transaction type"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Transaction or bill not found"
// @Failure 409 {object} map[string]string "Exceeds the unallocated balance, or a party is in the wrong state"
// @Failure 500 {object} map[string]string "Failed to allocate payment"
// @Security ActorAuth
// @Router /companies/{company_id}/payments/{transaction_id}/allocations [post]
func (h *allocationHandler) allocatePayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")
	transactionID := c.Param("transaction_id")

	var req dto.CreateAllocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for AllocatePayment", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := middleware.GetActorIDFromContext(c)
	if !ok {
		logger.Error("Actor ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("actor_id", actorID), slog.String("payment_transaction_id", transactionID), slog.String("bill_id", req.DocumentID))
	logger.Info("Received request to allocate payment", slog.String("amount", req.Amount.String()))

	allocation, err := h.allocationService.AllocatePayment(c.Request.Context(), companyID, transactionID, req, actorID)
	if err != nil {
		h.respondAllocationError(c, logger, err, "Failed to allocate payment")
		return
	}

	logger.Info("Payment allocated successfully", slog.String("allocation_id", allocation.AllocationID))
	c.JSON(http.StatusCreated, dto.ToPayableAllocationResponse(*allocation))
}

// respondAllocationError maps allocation failures onto HTTP statuses. Both
// sides fail the same ways, so the receipt and payment handlers share it.
func (h *allocationHandler) respondAllocationError(c *gin.Context, logger *slog.Logger, err error, fallback string) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("Allocation failed: resource not found", slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrExceedsUnallocated),
		errors.Is(err, services.ErrNotPosted),
		errors.Is(err, services.ErrDocumentNotIssued),
		errors.Is(err, apperrors.ErrConflict):
		logger.Warn("Allocation rejected by current state", slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrWrongTransactionType),
		errors.Is(err, services.ErrInvalidAmount),
		errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Allocation failed validation", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		logger.Error("Allocation failed in service", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}

// getReceiptAllocationState godoc
// @Summary Get a receipt's allocation state
// @Description Reports a posted receipt's allocatable total, the sum already allocated and the remainder.
// @Tags allocations
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   transaction_id path string true "Receipt transaction ID"
// @Success 200 {object} dto.AllocationStateResponse
// @Failure 400 {object} map[string]string "Transaction is not a receipt"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Failure 409 {object} map[string]string "Transaction is not posted"
// @Failure 500 {object} map[string]string "Failed to get allocation state"
// @Security ActorAuth
// @Router /companies/{company_id}/receipts/{transaction_id}/allocation-state [get]
func (h *allocationHandler) getReceiptAllocationState(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")
	transactionID := c.Param("transaction_id")

	state, err := h.allocationService.GetReceiptAllocationState(c.Request.Context(), companyID, transactionID)
	if err != nil {
		h.respondAllocationError(c, logger.With(slog.String("receipt_transaction_id", transactionID)), err, "Failed to get allocation state")
		return
	}

	c.JSON(http.StatusOK, state)
}

// getPaymentAllocationState godoc
// @Summary Get a payment's allocation state
// @Description Reports a posted payment's allocatable total, the sum already allocated and the remainder.
// @Tags allocations
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   transaction_id path string true "Payment transaction ID"
// @Success 200 {object} dto.AllocationStateResponse
// @Failure 400 {object} map[string]string "Transaction is not a payment"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Failure 409 {object} map[string]string "Transaction is not posted"
// @Failure 500 {object} map[string]string "Failed to get allocation state"
// @Security ActorAuth
// @Router /companies/{company_id}/payments/{transaction_id}/allocation-state [get]
func (h *allocationHandler) getPaymentAllocationState(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")
	transactionID := c.Param("transaction_id")

	state, err := h.allocationService.GetPaymentAllocationState(c.Request.Context(), companyID, transactionID)
	if err != nil {
		h.respondAllocationError(c, logger.With(slog.String("payment_transaction_id", transactionID)), err, "Failed to get allocation state")
		return
	}

	c.JSON(http.StatusOK, state)
}

// suggestReceiptAllocations godoc
// @Summary Suggest receipt allocations
// @Description Proposes applying an available amount across a customer's outstanding invoices, oldest due first. Nothing is written.
// @Tags allocations
// @Accept  json
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   request body dto.SuggestAllocationsRequest true "Customer and available amount"
// @Success 200 {array} domain.AllocationSuggestion
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Contact not found"
// @Failure 500 {object} map[string]string "Failed to suggest allocations"
// @Security ActorAuth
// @Router /companies/{company_id}/allocations/suggest-receipts [post]
func (h *allocationHandler) suggestReceiptAllocations(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")

	var req dto.SuggestAllocationsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for SuggestReceiptAllocations", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	suggestions, err := h.allocationService.SuggestReceiptAllocations(c.Request.Context(), companyID, req)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrInvalidAmount), errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to suggest receipt allocations in service", slog.String("contact_id", req.ContactID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to suggest allocations"})
		}
		return
	}

	c.JSON(http.StatusOK, suggestions)
}

// suggestPaymentAllocations godoc
// @Summary Suggest payment allocations
// @Description Proposes applying an available amount across a supplier's outstanding bills, oldest due first. Nothing is written.
// @Tags allocations
// @Accept  json
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   request body dto.SuggestAllocationsRequest true "Supplier and available amount"
// @Success 200 {array} domain.AllocationSuggestion
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Contact not found"
// @Failure 500 {object} map[string]string "Failed to suggest allocations"
// @Security ActorAuth
// @Router /companies/{company_id}/allocations/suggest-payments [post]
func (h *allocationHandler) suggestPaymentAllocations(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")

	var req dto.SuggestAllocationsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for SuggestPaymentAllocations", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	suggestions, err := h.allocationService.SuggestPaymentAllocations(c.Request.Context(), companyID, req)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrInvalidAmount), errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to suggest payment allocations in service", slog.String("contact_id", req.ContactID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to suggest allocations"})
		}
		return
	}

	c.JSON(http.StatusOK, suggestions)
}
