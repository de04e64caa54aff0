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

// transactionHandler handles HTTP requests for the transaction draft
// lifecycle and the posting engine.
type transactionHandler struct {
	transactionService portssvc.TransactionSvcFacade
	postingService     portssvc.PostingSvcFacade
}

func newTransactionHandler(ts portssvc.TransactionSvcFacade, ps portssvc.PostingSvcFacade) *transactionHandler {
	return &transactionHandler{
		transactionService: ts,
		postingService:     ps,
	}
}

// registerTransactionRoutes registers transaction routes nested under a
// specific company. Draft CRUD goes to the transaction service; validate,
// post and reverse go to the posting engine.
func registerTransactionRoutes(rg *gin.RouterGroup, transactionService portssvc.TransactionSvcFacade, postingService portssvc.PostingSvcFacade) {
	h := newTransactionHandler(transactionService, postingService)

	transactions := rg.Group("/transactions")
	{
		transactions.POST("", h.createTransaction)
		transactions.GET("", h.listTransactions)
		transactions.GET("/:transaction_id", h.getTransaction)
		transactions.PUT("/:transaction_id", h.updateTransaction)
		transactions.DELETE("/:transaction_id", h.deleteTransaction)
		transactions.POST("/:transaction_id/void", h.voidTransaction)
		transactions.POST("/:transaction_id/validate", h.validateTransaction)
		transactions.POST("/:transaction_id/post", h.postTransaction)
		transactions.POST("/:transaction_id/reverse", h.reverseTransaction)
	}
}

// createTransaction godoc
// @Summary Create a draft transaction
// @Description Creates a new DRAFT transaction. Drafts may be incomplete; the posting checks run only when posting is requested.
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   transaction body dto.CreateTransactionRequest true "Transaction details"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to create transaction"
// @Security ActorAuth
// @Router /companies/{company_id}/transactions [post]
func (h *transactionHandler) createTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")

	var req dto.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateTransaction", slog.String("error", err.Error()))
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
	logger.Info("Received request to create transaction", slog.String("transaction_type", req.TransactionType))

	newTransaction, err := h.transactionService.CreateDraft(c.Request.Context(), companyID, req, actorID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			logger.Warn("Create transaction failed validation", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrNotFound):
			logger.Warn("Create transaction referenced a missing resource", slog.String("error", err.Error()))
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to create transaction in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create transaction"})
		}
		return
	}

	logger.Info("Transaction created successfully", slog.String("transaction_id", newTransaction.TransactionID))
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(*newTransaction))
}

// listTransactions godoc
// @Summary List transactions
// @Description Retrieves a paginated list of the company's transactions, newest first.
// @Tags transactions
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   status query string false "Filter by status" Enums(DRAFT, POSTED, VOID)
// @Param   transactionType query string false "Filter by type" Enums(PAYMENT, RECEIPT, JOURNAL, INVOICE, BILL)
// @Param   limit query int false "Max results" default(20)
// @Param   nextToken query string false "Pagination token from a previous page"
// @Success 200 {object} dto.ListTransactionsResponse
// @Failure 400 {object} map[string]string "Invalid filter or pagination token"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list transactions"
// @Security ActorAuth
// @Router /companies/{company_id}/transactions [get]
func (h *transactionHandler) listTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")

	var params dto.ListTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for ListTransactions", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	resp, err := h.transactionService.ListTransactions(c.Request.Context(), companyID, params)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("List transactions failed validation", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to list transactions from service", slog.String("company_id", companyID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list transactions"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// getTransaction godoc
// @Summary Get a transaction by ID
// @Description Retrieves a transaction with its lines and, when posted, its reversal linkage.
// @Tags transactions
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   transaction_id path string true "Transaction ID"
// @Success 200 {object} dto.TransactionResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Failure 500 {object} map[string]string "Failed to get transaction"
// @Security ActorAuth
// @Router /companies/{company_id}/transactions/{transaction_id} [get]
func (h *transactionHandler) getTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")
	transactionID := c.Param("transaction_id")

	transaction, err := h.transactionService.GetTransactionByID(c.Request.Context(), companyID, transactionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Transaction not found", slog.String("transaction_id", transactionID))
			c.JSON(http.StatusNotFound, gin.H{"error": "Transaction not found"})
			return
		}
		logger.Error("Failed to get transaction from service", slog.String("transaction_id", transactionID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get transaction"})
		return
	}

	c.JSON(http.StatusOK, transaction)
}

// updateTransaction godoc
// @Summary Update a draft transaction
// @Description Updates a DRAFT transaction. When lines are present they replace the existing lines wholesale. Posted transactions are immutable.
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   transaction_id path string true "Transaction ID"
// @Param   transaction body dto.UpdateTransactionRequest true "Fields to update"
// @Success 200 {object} dto.TransactionResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Failure 409 {object} map[string]string "Transaction is not a draft"
// @Failure 500 {object} map[string]string "Failed to update transaction"
// @Security ActorAuth
// @Router /companies/{company_id}/transactions/{transaction_id} [put]
func (h *transactionHandler) updateTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")
	transactionID := c.Param("transaction_id")

	var req dto.UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateTransaction", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := middleware.GetActorIDFromContext(c)
	if !ok {
		logger.Error("Actor ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("actor_id", actorID), slog.String("transaction_id", transactionID))

	updated, err := h.transactionService.UpdateDraft(c.Request.Context(), companyID, transactionID, req, actorID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			logger.Warn("Transaction not found for update")
			c.JSON(http.StatusNotFound, gin.H{"error": "Transaction not found"})
		case errors.Is(err, services.ErrNotDraft), errors.Is(err, apperrors.ErrConflict):
			logger.Warn("Update rejected: transaction is not a draft", slog.String("error", err.Error()))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrValidation):
			logger.Warn("Update transaction failed validation", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to update transaction in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update transaction"})
		}
		return
	}

	logger.Info("Transaction updated successfully")
	c.JSON(http.StatusOK, dto.ToTransactionResponse(*updated))
}

// deleteTransaction godoc
// @Summary Delete a draft transaction
// @Description Deletes a DRAFT transaction and its lines entirely. Posted transactions cannot be deleted, only reversed.
// @Tags transactions
// @Param   company_id path string true "Company ID"
// @Param   transaction_id path string true "Transaction ID"
// @Success 204 "No Content"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Failure 409 {object} map[string]string "Transaction is not a draft"
// @Failure 500 {object} map[string]string "Failed to delete transaction"
// @Security ActorAuth
// @Router /companies/{company_id}/transactions/{transaction_id} [delete]
func (h *transactionHandler) deleteTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")
	transactionID := c.Param("transaction_id")

	actorID, ok := middleware.GetActorIDFromContext(c)
	if !ok {
		logger.Error("Actor ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("actor_id", actorID), slog.String("transaction_id", transactionID))

	if err := h.transactionService.DeleteDraft(c.Request.Context(), companyID, transactionID, actorID); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			logger.Warn("Transaction not found for deletion")
			c.JSON(http.StatusNotFound, gin.H{"error": "Transaction not found"})
		case errors.Is(err, services.ErrNotDraft), errors.Is(err, apperrors.ErrConflict):
			logger.Warn("Delete rejected: transaction is not a draft", slog.String("error", err.Error()))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to delete transaction in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete transaction"})
		}
		return
	}

	logger.Info("Transaction deleted successfully")
	c.Status(http.StatusNoContent)
}

// voidTransaction godoc
// @Summary Void a draft transaction
// @Description Flips a DRAFT transaction to VOID, keeping it readable.
// @Tags transactions
// @Param   company_id path string true "Company ID"
// @Param   transaction_id path string true "Transaction ID"
// @Success 204 "No Content"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Failure 409 {object} map[string]string "Transaction is not a draft"
// @Failure 500 {object} map[string]string "Failed to void transaction"
// @Security ActorAuth
// @Router /companies/{company_id}/transactions/{transaction_id}/void [post]
func (h *transactionHandler) voidTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")
	transactionID := c.Param("transaction_id")

	actorID, ok := middleware.GetActorIDFromContext(c)
	if !ok {
		logger.Error("Actor ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("actor_id", actorID), slog.String("transaction_id", transactionID))

	if err := h.transactionService.VoidDraft(c.Request.Context(), companyID, transactionID, actorID); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			logger.Warn("Transaction not found for voiding")
			c.JSON(http.StatusNotFound, gin.H{"error": "Transaction not found"})
		case errors.Is(err, services.ErrNotDraft), errors.Is(err, apperrors.ErrConflict):
			logger.Warn("Void rejected: transaction is not a draft", slog.String("error", err.Error()))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to void transaction in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to void transaction"})
		}
		return
	}

	logger.Info("Transaction voided successfully")
	c.Status(http.StatusNoContent)
}

// validateTransaction godoc
// @Summary Validate a draft transaction
// @Description Runs the posting preconditions against a draft without writing anything. The period gate is checked only at posting time.
// @Tags transactions
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   transaction_id path string true "Transaction ID"
// @Success 200 {object} map[string]bool "Draft would post"
// @Failure 400 {object} map[string]string "A posting precondition failed"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Failure 409 {object} map[string]string "Transaction is not a draft"
// @Failure 500 {object} map[string]string "Failed to validate transaction"
// @Security ActorAuth
// @Router /companies/{company_id}/transactions/{transaction_id}/validate [post]
func (h *transactionHandler) validateTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")
	transactionID := c.Param("transaction_id")

	err := h.postingService.ValidateTransaction(c.Request.Context(), companyID, transactionID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			logger.Warn("Validate failed: resource not found", slog.String("transaction_id", transactionID), slog.String("error", err.Error()))
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrNotDraft):
			logger.Warn("Validate rejected: transaction is not a draft", slog.String("error", err.Error()))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrNoLines),
			errors.Is(err, services.ErrAccountInactive),
			errors.Is(err, services.ErrInvalidAmount),
			errors.Is(err, services.ErrUnbalanced),
			errors.Is(err, apperrors.ErrValidation):
			logger.Info("Validate found the draft unpostable", slog.String("transaction_id", transactionID), slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to validate transaction in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to validate transaction"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"valid": true})
}

// postTransaction godoc
// @Summary Post a draft transaction
// @Description Validates the draft, resolves the period gate, writes the ledger entries and tax lines, and flips the transaction to POSTED. Irreversible.
// @Tags transactions
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   transaction_id path string true "Transaction ID"
// @Success 200 {object} dto.TransactionResponse
// @Failure 400 {object} map[string]string "A posting precondition failed"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Failure 409 {object} map[string]string "Already posted, or the period does not admit postings"
// @Failure 500 {object} map[string]string "Failed to post transaction"
// @Security ActorAuth
// @Router /companies/{company_id}/transactions/{transaction_id}/post [post]
func (h *transactionHandler) postTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")
	transactionID := c.Param("transaction_id")

	actorID, ok := middleware.GetActorIDFromContext(c)
	if !ok {
		logger.Error("Actor ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("actor_id", actorID), slog.String("transaction_id", transactionID))
	logger.Info("Received request to post transaction")

	posted, err := h.postingService.PostTransaction(c.Request.Context(), companyID, transactionID, actorID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			logger.Warn("Post failed: resource not found", slog.String("error", err.Error()))
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrAlreadyPosted),
			errors.Is(err, services.ErrNotDraft),
			errors.Is(err, services.ErrNoPeriod),
			errors.Is(err, services.ErrPeriodLocked),
			errors.Is(err, apperrors.ErrConflict):
			logger.Warn("Post rejected by transaction or period state", slog.String("error", err.Error()))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrNoLines),
			errors.Is(err, services.ErrAccountInactive),
			errors.Is(err, services.ErrInvalidAmount),
			errors.Is(err, services.ErrUnbalanced),
			errors.Is(err, apperrors.ErrValidation):
			logger.Warn("Post rejected: draft failed validation", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to post transaction in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to post transaction"})
		}
		return
	}

	logger.Info("Transaction posted successfully")
	c.JSON(http.StatusOK, dto.ToTransactionResponse(*posted))
}

// reverseTransaction godoc
// @Summary Reverse a posted transaction
// @Description Posts a new transaction mirroring the original with inverted line directions and links the two. One reversal is allowed per original.
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   transaction_id path string true "Transaction ID"
// @Param   reversal body dto.ReverseTransactionRequest true "Reversal reason and optional date"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Failure 409 {object} map[string]string "Not posted, already reversed, itself a reversal, or the period does not admit postings"
// @Failure 500 {object} map[string]string "Failed to reverse transaction"
// @Security ActorAuth
// @Router /companies/{company_id}/transactions/{transaction_id}/reverse [post]
func (h *transactionHandler) reverseTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")
	transactionID := c.Param("transaction_id")

	var req dto.ReverseTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ReverseTransaction", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := middleware.GetActorIDFromContext(c)
	if !ok {
		logger.Error("Actor ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("actor_id", actorID), slog.String("transaction_id", transactionID))
	logger.Info("Received request to reverse transaction")

	reversal, err := h.postingService.ReverseTransaction(c.Request.Context(), companyID, transactionID, req, actorID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			logger.Warn("Reverse failed: transaction not found")
			c.JSON(http.StatusNotFound, gin.H{"error": "Transaction not found"})
		case errors.Is(err, services.ErrNotPosted),
			errors.Is(err, services.ErrAlreadyReversed),
			errors.Is(err, services.ErrIsReversal),
			errors.Is(err, services.ErrNoPeriod),
			errors.Is(err, services.ErrPeriodLocked),
			errors.Is(err, apperrors.ErrConflict):
			logger.Warn("Reverse rejected by transaction or period state", slog.String("error", err.Error()))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrValidation):
			logger.Warn("Reverse transaction failed validation", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to reverse transaction in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reverse transaction"})
		}
		return
	}

	logger.Info("Transaction reversed successfully", slog.String("reversal_transaction_id", reversal.TransactionID))
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(*reversal))
}
