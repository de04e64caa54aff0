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

// bankFeedHandler handles HTTP requests for the bank feed and the
// reconciliation sub-state of ledger entries.
type bankFeedHandler struct {
	reconciliationService portssvc.ReconciliationSvcFacade
}

func newBankFeedHandler(rs portssvc.ReconciliationSvcFacade) *bankFeedHandler {
	return &bankFeedHandler{
		reconciliationService: rs,
	}
}

// registerBankFeedRoutes registers bank feed routes nested under a specific
// company. Manual clearing lives under ledger-entries since it is addressed
// by entry and needs no feed item.
func registerBankFeedRoutes(rg *gin.RouterGroup, reconciliationService portssvc.ReconciliationSvcFacade) {
	h := newBankFeedHandler(reconciliationService)

	items := rg.Group("/bank-feed/items")
	{
		items.POST("", h.importFeedItems)
		items.GET("", h.listFeedItems)
		items.GET("/:item_id", h.getFeedItem)
		items.POST("/:item_id/match", h.matchFeedItem)
		items.POST("/:item_id/unmatch", h.unmatchFeedItem)
		items.GET("/:item_id/match-suggestions", h.suggestMatches)
	}

	rg.POST("/ledger-entries/:entry_id/manual-clear", h.manualClearEntry)
}

// importFeedItems godoc
// @Summary Import bank feed items
// @Description Persists a batch of pushed-in bank statement lines as UNMATCHED feed items.
// @Tags bank-feed
// @Accept  json
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   items body dto.ImportFeedItemsRequest true "Statement lines"
// @Success 201 {array} dto.FeedItemResponse
// @Failure 400 {object} map[string]string "Invalid input or account is not a bank account"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Bank account not found"
// @Failure 500 {object} map[string]string "Failed to import feed items"
// @Security ActorAuth
// @Router /companies/{company_id}/bank-feed/items [post]
func (h *bankFeedHandler) importFeedItems(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")

	var req dto.ImportFeedItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ImportFeedItems", slog.String("error", err.Error()))
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
	logger.Info("Received request to import feed items", slog.Int("item_count", len(req.Items)))

	items, err := h.reconciliationService.ImportFeedItems(c.Request.Context(), companyID, req, actorID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			logger.Warn("Import referenced a missing bank account", slog.String("error", err.Error()))
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrNotBankAccount), errors.Is(err, apperrors.ErrValidation):
			logger.Warn("Import feed items failed validation", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to import feed items in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to import feed items"})
		}
		return
	}

	logger.Info("Feed items imported successfully", slog.Int("imported_count", len(items)))
	c.JSON(http.StatusCreated, dto.ToFeedItemResponses(items))
}

// listFeedItems godoc
// @Summary List bank feed items
// @Description Retrieves a paginated list of the company's feed items, newest first.
// @Tags bank-feed
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   bankAccountID query string false "Filter by bank account"
// @Param   status query string false "Filter by status" Enums(UNMATCHED, MATCHED)
// @Param   limit query int false "Max results" default(20)
// @Param   nextToken query string false "Pagination token from a previous page"
// @Success 200 {object} dto.ListFeedItemsResponse
// @Failure 400 {object} map[string]string "Invalid filter or pagination token"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list feed items"
// @Security ActorAuth
// @Router /companies/{company_id}/bank-feed/items [get]
func (h *bankFeedHandler) listFeedItems(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")

	var params dto.ListFeedItemsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for ListFeedItems", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	resp, err := h.reconciliationService.ListFeedItems(c.Request.Context(), companyID, params)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("List feed items failed validation", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to list feed items from service", slog.String("company_id", companyID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list feed items"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// getFeedItem godoc
// @Summary Get a feed item by ID
// @Description Retrieves details of a specific bank feed item.
// @Tags bank-feed
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   item_id path string true "Feed item ID"
// @Success 200 {object} dto.FeedItemResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Feed item not found"
// @Failure 500 {object} map[string]string "Failed to get feed item"
// @Security ActorAuth
// @Router /companies/{company_id}/bank-feed/items/{item_id} [get]
func (h *bankFeedHandler) getFeedItem(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")
	itemID := c.Param("item_id")

	item, err := h.reconciliationService.GetFeedItemByID(c.Request.Context(), companyID, itemID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Feed item not found"})
			return
		}
		logger.Error("Failed to get feed item from service", slog.String("item_id", itemID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get feed item"})
		return
	}

	c.JSON(http.StatusOK, dto.ToFeedItemResponse(*item))
}

// matchFeedItem godoc
// @Summary Match a feed item with a ledger entry
// @Description Links an UNMATCHED feed item with an unreconciled ledger entry whose amount corresponds, marking the entry RECONCILED. Accounting columns are never touched.
// @Tags bank-feed
// @Accept  json
// @Param   company_id path string true "Company ID"
// @Param   item_id path string true "Feed item ID"
// @Param   match body dto.MatchEntryRequest true "Ledger entry to link"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string "Amounts differ or the entry is on another bank account"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Feed item or entry not found"
// @Failure 409 {object} map[string]string "Item already matched or entry already reconciled"
// @Failure 500 {object} map[string]string "Failed to match feed item"
// @Security ActorAuth
// @Router /companies/{company_id}/bank-feed/items/{item_id}/match [post]
func (h *bankFeedHandler) matchFeedItem(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")
	itemID := c.Param("item_id")

	var req dto.MatchEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for MatchFeedItem", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := middleware.GetActorIDFromContext(c)
	if !ok {
		logger.Error("Actor ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("actor_id", actorID), slog.String("item_id", itemID), slog.String("entry_id", req.EntryID))
	logger.Info("Received request to match feed item")

	if err := h.reconciliationService.MatchEntry(c.Request.Context(), companyID, itemID, req, actorID); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			logger.Warn("Match failed: resource not found", slog.String("error", err.Error()))
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrFeedItemMatched),
			errors.Is(err, services.ErrEntryReconciled),
			errors.Is(err, apperrors.ErrConflict):
			logger.Warn("Match rejected by current state", slog.String("error", err.Error()))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrAmountMismatch),
			errors.Is(err, services.ErrWrongBankAccount),
			errors.Is(err, services.ErrNotBankAccount),
			errors.Is(err, apperrors.ErrValidation):
			logger.Warn("Match failed validation", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to match feed item in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to match feed item"})
		}
		return
	}

	logger.Info("Feed item matched successfully")
	c.Status(http.StatusNoContent)
}

// unmatchFeedItem godoc
// @Summary Unmatch a feed item
// @Description Severs a MATCHED feed item's link, returning the item to UNMATCHED and the entry to UNRECONCILED.
// @Tags bank-feed
// @Param   company_id path string true "Company ID"
// @Param   item_id path string true "Feed item ID"
// @Success 204 "No Content"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Feed item not found"
// @Failure 409 {object} map[string]string "Feed item is not matched"
// @Failure 500 {object} map[string]string "Failed to unmatch feed item"
// @Security ActorAuth
// @Router /companies/{company_id}/bank-feed/items/{item_id}/unmatch [post]
func (h *bankFeedHandler) unmatchFeedItem(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")
	itemID := c.Param("item_id")

	actorID, ok := middleware.GetActorIDFromContext(c)
	if !ok {
		logger.Error("Actor ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("actor_id", actorID), slog.String("item_id", itemID))

	if err := h.reconciliationService.UnmatchItem(c.Request.Context(), companyID, itemID, actorID); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			logger.Warn("Unmatch failed: feed item not found")
			c.JSON(http.StatusNotFound, gin.H{"error": "Feed item not found"})
		case errors.Is(err, services.ErrFeedItemNotMatched), errors.Is(err, apperrors.ErrConflict):
			logger.Warn("Unmatch rejected: feed item is not matched", slog.String("error", err.Error()))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to unmatch feed item in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to unmatch feed item"})
		}
		return
	}

	logger.Info("Feed item unmatched successfully")
	c.Status(http.StatusNoContent)
}

// suggestMatches godoc
// @Summary Suggest matches for a feed item
// @Description Scores unreconciled ledger entries on the item's bank account whose amount corresponds, best first. Nothing is written.
// @Tags bank-feed
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   item_id path string true "Feed item ID"
// @Param   limit query int false "Max candidates" default(5)
// @Success 200 {array} domain.MatchCandidate
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Feed item not found"
// @Failure 409 {object} map[string]string "Feed item is already matched"
// @Failure 500 {object} map[string]string "Failed to suggest matches"
// @Security ActorAuth
// @Router /companies/{company_id}/bank-feed/items/{item_id}/match-suggestions [get]
func (h *bankFeedHandler) suggestMatches(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")
	itemID := c.Param("item_id")

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "5"))
	if err != nil || limit <= 0 {
		limit = 5
	}

	candidates, err := h.reconciliationService.SuggestMatches(c.Request.Context(), companyID, itemID, limit)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Feed item not found"})
		case errors.Is(err, services.ErrFeedItemMatched), errors.Is(err, apperrors.ErrConflict):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to suggest matches in service", slog.String("item_id", itemID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to suggest matches"})
		}
		return
	}

	c.JSON(http.StatusOK, candidates)
}

// manualClearEntry godoc
// @Summary Manually clear a ledger entry
// @Description Marks an unreconciled bank entry MANUAL_CLEARED without a feed item, for statements that never arrive electronically.
// @Tags bank-feed
// @Param   company_id path string true "Company ID"
// @Param   entry_id path string true "Ledger entry ID"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string "Entry is not on a bank account"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Entry not found"
// @Failure 409 {object} map[string]string "Entry is already reconciled"
// @Failure 500 {object} map[string]string "Failed to clear entry"
// @Security ActorAuth
// @Router /companies/{company_id}/ledger-entries/{entry_id}/manual-clear [post]
func (h *bankFeedHandler) manualClearEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")
	entryID := c.Param("entry_id")

	actorID, ok := middleware.GetActorIDFromContext(c)
	if !ok {
		logger.Error("Actor ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("actor_id", actorID), slog.String("entry_id", entryID))

	if err := h.reconciliationService.ManualClearEntry(c.Request.Context(), companyID, entryID, actorID); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			logger.Warn("Manual clear failed: entry not found")
			c.JSON(http.StatusNotFound, gin.H{"error": "Entry not found"})
		case errors.Is(err, services.ErrEntryReconciled), errors.Is(err, apperrors.ErrConflict):
			logger.Warn("Manual clear rejected: entry is already reconciled", slog.String("error", err.Error()))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrNotBankAccount), errors.Is(err, apperrors.ErrValidation):
			logger.Warn("Manual clear failed validation", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to clear entry in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear entry"})
		}
		return
	}

	logger.Info("Entry cleared manually")
	c.Status(http.StatusNoContent)
}
