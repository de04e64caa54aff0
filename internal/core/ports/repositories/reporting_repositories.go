package repositories

import (
	"context"
	"time"

	"github.com/keabooks/kea_books_app/internal/core/domain"
)

// ReportingRepository defines operations for retrieving financial report data
type ReportingRepository interface {
	// GetTrialBalanceData retrieves trial balance data as of a specific date
	GetTrialBalanceData(ctx context.Context, companyID string, asOf time.Time) ([]domain.TrialBalanceRow, error)

	// GetProfitAndLossData retrieves profit and loss data for a specific period
	GetProfitAndLossData(ctx context.Context, companyID string, from, to time.Time) ([]domain.AccountAmount, []domain.AccountAmount, error)

	// GetBalanceSheetData retrieves balance sheet data as of a specific date
	GetBalanceSheetData(ctx context.Context, companyID string, asOf time.Time) ([]domain.AccountAmount, []domain.AccountAmount, []domain.AccountAmount, error)

	// GetTaxReturnData aggregates posted tax lines by reporting box over a date range
	GetTaxReturnData(ctx context.Context, companyID string, from, to time.Time) ([]domain.TaxReturnRow, error)
}
