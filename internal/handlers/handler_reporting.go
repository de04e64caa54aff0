package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	portssvc "github.com/keabooks/kea_books_app/internal/core/ports/services"
	"github.com/keabooks/kea_books_app/internal/middleware"
)

// reportingHandler handles HTTP requests for derived report data.
type reportingHandler struct {
	reportingService portssvc.ReportingSvcFacade
}

func newReportingHandler(rs portssvc.ReportingSvcFacade) *reportingHandler {
	return &reportingHandler{
		reportingService: rs,
	}
}

// registerReportingRoutes registers report routes nested under a specific
// company. Account activity and the period tax return are registered with
// their owning entities instead.
func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingSvcFacade) {
	h := newReportingHandler(reportingService)

	reports := rg.Group("/reports")
	{
		reports.GET("/trial-balance", h.getTrialBalance)
		reports.GET("/profit-and-loss", h.getProfitAndLoss)
		reports.GET("/balance-sheet", h.getBalanceSheet)
	}
}

// getTrialBalance godoc
// @Summary Get the trial balance
// @Description Returns per-account debit and credit totals over all entries dated up to the given date. Total debits always equal total credits.
// @Tags reports
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   asOf query string false "Report date (YYYY-MM-DD), defaulting to today"
// @Success 200 {array} domain.TrialBalanceRow
// @Failure 400 {object} map[string]string "Invalid date"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to build trial balance"
// @Security ActorAuth
// @Router /companies/{company_id}/reports/trial-balance [get]
func (h *reportingHandler) getTrialBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")

	asOfStr := c.DefaultQuery("asOf", time.Now().Format("2006-01-02"))
	asOf, err := time.Parse("2006-01-02", asOfStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid asOf date format, use YYYY-MM-DD"})
		return
	}

	rows, err := h.reportingService.GetTrialBalance(c.Request.Context(), companyID, asOf)
	if err != nil {
		logger.Error("Failed to build trial balance from service", slog.String("company_id", companyID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build trial balance"})
		return
	}

	c.JSON(http.StatusOK, rows)
}

// getProfitAndLoss godoc
// @Summary Get the profit and loss report
// @Description Returns revenue and expense account totals over a date range, with net profit.
// @Tags reports
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   fromDate query string true "Range start (YYYY-MM-DD)"
// @Param   toDate query string true "Range end (YYYY-MM-DD)"
// @Success 200 {object} domain.PAndLReport
// @Failure 400 {object} map[string]string "Invalid or reversed date range"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to build profit and loss"
// @Security ActorAuth
// @Router /companies/{company_id}/reports/profit-and-loss [get]
func (h *reportingHandler) getProfitAndLoss(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")

	from, err := time.Parse("2006-01-02", c.Query("fromDate"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid fromDate format, use YYYY-MM-DD"})
		return
	}
	to, err := time.Parse("2006-01-02", c.Query("toDate"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid toDate format, use YYYY-MM-DD"})
		return
	}
	if from.After(to) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "fromDate must not be after toDate"})
		return
	}

	report, err := h.reportingService.GetProfitAndLoss(c.Request.Context(), companyID, from, to)
	if err != nil {
		logger.Error("Failed to build profit and loss from service", slog.String("company_id", companyID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build profit and loss"})
		return
	}

	c.JSON(http.StatusOK, report)
}

// getBalanceSheet godoc
// @Summary Get the balance sheet
// @Description Returns asset, liability and equity account totals as of a date.
// @Tags reports
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   asOf query string false "Report date (YYYY-MM-DD), defaulting to today"
// @Success 200 {object} domain.BalanceSheetReport
// @Failure 400 {object} map[string]string "Invalid date"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to build balance sheet"
// @Security ActorAuth
// @Router /companies/{company_id}/reports/balance-sheet [get]
func (h *reportingHandler) getBalanceSheet(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")

	asOfStr := c.DefaultQuery("asOf", time.Now().Format("2006-01-02"))
	asOf, err := time.Parse("2006-01-02", asOfStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid asOf date format, use YYYY-MM-DD"})
		return
	}

	report, err := h.reportingService.GetBalanceSheet(c.Request.Context(), companyID, asOf)
	if err != nil {
		logger.Error("Failed to build balance sheet from service", slog.String("company_id", companyID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build balance sheet"})
		return
	}

	c.JSON(http.StatusOK, report)
}
