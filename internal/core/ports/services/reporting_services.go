package services

import (
	"context"
	"time"

	"github.com/keabooks/kea_books_app/internal/core/domain"
	"github.com/keabooks/kea_books_app/internal/dto"
)

// ReportingSvcFacade produces derived report data from the ledger. Reports
// are data endpoints only; formatting is the caller's problem.
type ReportingSvcFacade interface {
	// GetTrialBalance returns per-account debit/credit totals as of a date.
	GetTrialBalance(ctx context.Context, companyID string, asOf time.Time) ([]domain.TrialBalanceRow, error)

	// GetProfitAndLoss returns revenue and expense account totals over a range.
	GetProfitAndLoss(ctx context.Context, companyID string, from, to time.Time) (*domain.PAndLReport, error)

	// GetBalanceSheet returns asset, liability and equity totals as of a date.
	GetBalanceSheet(ctx context.Context, companyID string, asOf time.Time) (*domain.BalanceSheetReport, error)

	// GetTaxReturnForPeriod aggregates the period's tax lines by reporting box.
	GetTaxReturnForPeriod(ctx context.Context, companyID string, periodID string) (*dto.TaxReturnResponse, error)

	// ListAccountActivity retrieves a paginated list of an account's ledger
	// entries, newest first.
	ListAccountActivity(ctx context.Context, companyID string, accountID string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error)
}
