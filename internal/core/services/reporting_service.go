package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/keabooks/kea_books_app/internal/apperrors"
	"github.com/keabooks/kea_books_app/internal/core/domain"
	portsrepo "github.com/keabooks/kea_books_app/internal/core/ports/repositories"
	portssvc "github.com/keabooks/kea_books_app/internal/core/ports/services"
	"github.com/keabooks/kea_books_app/internal/dto"
	"github.com/keabooks/kea_books_app/internal/middleware"
)

// ReportingService produces derived report data from posted ledger entries
// and tax line snapshots. The heavy lifting happens in SQL; this layer adds
// the totals and the period lookup.
type ReportingService struct {
	reportingRepo portsrepo.ReportingRepository
	periodRepo    portsrepo.PeriodRepositoryFacade
	accountRepo   portsrepo.AccountRepositoryFacade
	ledgerRepo    portsrepo.LedgerRepositoryFacade
}

var _ portssvc.ReportingSvcFacade = (*ReportingService)(nil)

// NewReportingService creates a new ReportingService.
func NewReportingService(
	reportingRepo portsrepo.ReportingRepository,
	periodRepo portsrepo.PeriodRepositoryFacade,
	accountRepo portsrepo.AccountRepositoryFacade,
	ledgerRepo portsrepo.LedgerRepositoryFacade,
) *ReportingService {
	return &ReportingService{
		reportingRepo: reportingRepo,
		periodRepo:    periodRepo,
		accountRepo:   accountRepo,
		ledgerRepo:    ledgerRepo,
	}
}

func (s *ReportingService) GetTrialBalance(ctx context.Context, companyID string, asOf time.Time) ([]domain.TrialBalanceRow, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	rows, err := s.reportingRepo.GetTrialBalanceData(ctx, companyID, asOf)
	if err != nil {
		logger.Error("Failed to get trial balance", slog.String("error", err.Error()), slog.String("company_id", companyID))
		return nil, err
	}
	return rows, nil
}

func (s *ReportingService) GetProfitAndLoss(ctx context.Context, companyID string, from, to time.Time) (*domain.PAndLReport, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	revenue, expenses, err := s.reportingRepo.GetProfitAndLossData(ctx, companyID, from, to)
	if err != nil {
		logger.Error("Failed to get profit and loss", slog.String("error", err.Error()), slog.String("company_id", companyID))
		return nil, err
	}

	return &domain.PAndLReport{
		Revenue:   revenue,
		Expenses:  expenses,
		NetProfit: sumNetAmounts(revenue).Sub(sumNetAmounts(expenses)),
	}, nil
}

func (s *ReportingService) GetBalanceSheet(ctx context.Context, companyID string, asOf time.Time) (*domain.BalanceSheetReport, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	assets, liabilities, equity, err := s.reportingRepo.GetBalanceSheetData(ctx, companyID, asOf)
	if err != nil {
		logger.Error("Failed to get balance sheet", slog.String("error", err.Error()), slog.String("company_id", companyID))
		return nil, err
	}

	return &domain.BalanceSheetReport{
		Assets:           assets,
		Liabilities:      liabilities,
		Equity:           equity,
		TotalAssets:      sumNetAmounts(assets),
		TotalLiabilities: sumNetAmounts(liabilities),
		TotalEquity:      sumNetAmounts(equity),
	}, nil
}

// GetTaxReturnForPeriod aggregates the period's posted tax line snapshots by
// reporting box. Snapshots make the return stable against later rate changes.
func (s *ReportingService) GetTaxReturnForPeriod(ctx context.Context, companyID string, periodID string) (*dto.TaxReturnResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	period, err := s.periodRepo.FindPeriodByID(ctx, companyID, periodID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find period", slog.String("error", err.Error()), slog.String("period_id", periodID))
		}
		return nil, err
	}

	rows, err := s.reportingRepo.GetTaxReturnData(ctx, companyID, period.StartDate, period.EndDate)
	if err != nil {
		logger.Error("Failed to get tax return data", slog.String("error", err.Error()), slog.String("period_id", periodID))
		return nil, err
	}

	return &dto.TaxReturnResponse{
		PeriodID:   period.PeriodID,
		PeriodName: period.Name,
		StartDate:  period.StartDate.Format("2006-01-02"),
		EndDate:    period.EndDate.Format("2006-01-02"),
		Rows:       rows,
	}, nil
}

func (s *ReportingService) ListAccountActivity(ctx context.Context, companyID string, accountID string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.accountRepo.FindAccountByID(ctx, companyID, accountID); err != nil {
		return nil, err
	}

	var nextToken *string
	if params.NextToken != "" {
		nextToken = &params.NextToken
	}

	entries, newToken, err := s.ledgerRepo.ListEntriesByAccount(ctx, companyID, accountID, params.Limit, nextToken)
	if err != nil {
		logger.Error("Failed to list account activity", slog.String("error", err.Error()), slog.String("account_id", accountID))
		return nil, err
	}

	resp := &dto.ListEntriesResponse{Items: entries}
	if newToken != nil {
		resp.NextPageToken = *newToken
	}
	return resp, nil
}

func sumNetAmounts(amounts []domain.AccountAmount) decimal.Decimal {
	total := decimal.Zero
	for _, amount := range amounts {
		total = total.Add(amount.NetAmount)
	}
	return total
}
