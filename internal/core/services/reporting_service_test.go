package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/keabooks/kea_books_app/internal/apperrors"
	"github.com/keabooks/kea_books_app/internal/core/domain"
	portsrepo "github.com/keabooks/kea_books_app/internal/core/ports/repositories"
	portssvc "github.com/keabooks/kea_books_app/internal/core/ports/services"
	"github.com/keabooks/kea_books_app/internal/core/services"
	"github.com/keabooks/kea_books_app/internal/dto"
)

// --- Mock ReportingRepository ---
type MockReportingRepository struct {
	mock.Mock
}

var _ portsrepo.ReportingRepository = (*MockReportingRepository)(nil)

func (m *MockReportingRepository) GetTrialBalanceData(ctx context.Context, companyID string, asOf time.Time) ([]domain.TrialBalanceRow, error) {
	args := m.Called(ctx, companyID, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TrialBalanceRow), args.Error(1)
}

func (m *MockReportingRepository) GetProfitAndLossData(ctx context.Context, companyID string, from, to time.Time) ([]domain.AccountAmount, []domain.AccountAmount, error) {
	args := m.Called(ctx, companyID, from, to)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]domain.AccountAmount), args.Get(1).([]domain.AccountAmount), args.Error(2)
}

func (m *MockReportingRepository) GetBalanceSheetData(ctx context.Context, companyID string, asOf time.Time) ([]domain.AccountAmount, []domain.AccountAmount, []domain.AccountAmount, error) {
	args := m.Called(ctx, companyID, asOf)
	if args.Get(0) == nil {
		return nil, nil, nil, args.Error(3)
	}
	return args.Get(0).([]domain.AccountAmount), args.Get(1).([]domain.AccountAmount), args.Get(2).([]domain.AccountAmount), args.Error(3)
}

func (m *MockReportingRepository) GetTaxReturnData(ctx context.Context, companyID string, from, to time.Time) ([]domain.TaxReturnRow, error) {
	args := m.Called(ctx, companyID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TaxReturnRow), args.Error(1)
}

// --- Test Suite Setup ---
type ReportingServiceTestSuite struct {
	suite.Suite
	mockReportingRepo *MockReportingRepository
	mockPeriodRepo    *MockPeriodRepository
	mockAccountRepo   *MockAccountRepository
	mockLedgerRepo    *MockLedgerRepository
	service           portssvc.ReportingSvcFacade
	companyID         string
}

func (suite *ReportingServiceTestSuite) SetupTest() {
	suite.mockReportingRepo = new(MockReportingRepository)
	suite.mockPeriodRepo = new(MockPeriodRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockLedgerRepo = new(MockLedgerRepository)
	suite.service = services.NewReportingService(
		suite.mockReportingRepo,
		suite.mockPeriodRepo,
		suite.mockAccountRepo,
		suite.mockLedgerRepo,
	)
	suite.companyID = uuid.NewString()
}

func (suite *ReportingServiceTestSuite) amount(code string, name string, value string) domain.AccountAmount {
	return domain.AccountAmount{
		AccountID: uuid.NewString(),
		Code:      code,
		Name:      name,
		NetAmount: decimal.RequireFromString(value),
	}
}

// --- GetTrialBalance ---

func (suite *ReportingServiceTestSuite) TestGetTrialBalance() {
	ctx := context.Background()
	asOf := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)
	rows := []domain.TrialBalanceRow{
		{
			AccountID:   uuid.NewString(),
			AccountCode: "100",
			AccountName: "Business Cheque",
			AccountType: domain.Asset,
			Debit:       decimal.RequireFromString("1250.00"),
			Credit:      decimal.Zero,
		},
		{
			AccountID:   uuid.NewString(),
			AccountCode: "200",
			AccountName: "Sales",
			AccountType: domain.Revenue,
			Debit:       decimal.Zero,
			Credit:      decimal.RequireFromString("1250.00"),
		},
	}

	suite.mockReportingRepo.On("GetTrialBalanceData", ctx, suite.companyID, asOf).Return(rows, nil).Once()

	result, err := suite.service.GetTrialBalance(ctx, suite.companyID, asOf)

	suite.Require().NoError(err)
	suite.Require().Len(result, 2)
	suite.Equal("100", result[0].AccountCode)
	suite.True(result[0].Debit.Equal(result[1].Credit))
}

// --- GetProfitAndLoss ---

func (suite *ReportingServiceTestSuite) TestGetProfitAndLoss_NetProfit() {
	ctx := context.Background()
	from := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)

	revenue := []domain.AccountAmount{
		suite.amount("200", "Sales", "5000.00"),
		suite.amount("260", "Interest Income", "12.50"),
	}
	expenses := []domain.AccountAmount{
		suite.amount("610", "Office Expenses", "800.00"),
		suite.amount("620", "Rent", "1500.00"),
	}

	suite.mockReportingRepo.On("GetProfitAndLossData", ctx, suite.companyID, from, to).Return(revenue, expenses, nil).Once()

	report, err := suite.service.GetProfitAndLoss(ctx, suite.companyID, from, to)

	suite.Require().NoError(err)
	suite.Len(report.Revenue, 2)
	suite.Len(report.Expenses, 2)
	suite.True(report.NetProfit.Equal(decimal.RequireFromString("2712.50")),
		"expected 2712.50, got %s", report.NetProfit)
}

func (suite *ReportingServiceTestSuite) TestGetProfitAndLoss_Loss() {
	ctx := context.Background()
	from := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 4, 30, 0, 0, 0, 0, time.UTC)

	revenue := []domain.AccountAmount{suite.amount("200", "Sales", "100.00")}
	expenses := []domain.AccountAmount{suite.amount("620", "Rent", "1500.00")}

	suite.mockReportingRepo.On("GetProfitAndLossData", ctx, suite.companyID, from, to).Return(revenue, expenses, nil).Once()

	report, err := suite.service.GetProfitAndLoss(ctx, suite.companyID, from, to)

	suite.Require().NoError(err)
	suite.True(report.NetProfit.IsNegative())
	suite.True(report.NetProfit.Equal(decimal.RequireFromString("-1400.00")))
}

// --- GetBalanceSheet ---

func (suite *ReportingServiceTestSuite) TestGetBalanceSheet_Totals() {
	ctx := context.Background()
	asOf := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)

	assets := []domain.AccountAmount{
		suite.amount("100", "Business Cheque", "4200.00"),
		suite.amount("120", "Accounts Receivable", "300.00"),
	}
	liabilities := []domain.AccountAmount{suite.amount("800", "GST", "500.00")}
	equity := []domain.AccountAmount{suite.amount("960", "Retained Earnings", "4000.00")}

	suite.mockReportingRepo.On("GetBalanceSheetData", ctx, suite.companyID, asOf).Return(assets, liabilities, equity, nil).Once()

	report, err := suite.service.GetBalanceSheet(ctx, suite.companyID, asOf)

	suite.Require().NoError(err)
	suite.True(report.TotalAssets.Equal(decimal.RequireFromString("4500.00")))
	suite.True(report.TotalLiabilities.Equal(decimal.RequireFromString("500.00")))
	suite.True(report.TotalEquity.Equal(decimal.RequireFromString("4000.00")))
	// The books balance: assets = liabilities + equity.
	suite.True(report.TotalAssets.Equal(report.TotalLiabilities.Add(report.TotalEquity)))
}

// --- GetTaxReturnForPeriod ---

func (suite *ReportingServiceTestSuite) TestGetTaxReturnForPeriod_Success() {
	ctx := context.Background()
	period := &domain.Period{
		PeriodID:  uuid.NewString(),
		CompanyID: suite.companyID,
		Name:      "Jun 2025",
		StartDate: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC),
		Status:    domain.PeriodLocked,
	}
	rows := []domain.TaxReturnRow{
		{
			ReportingBox: "BOX_5",
			Jurisdiction: "NZ",
			TaxableTotal: decimal.RequireFromString("1000.00"),
			TaxTotal:     decimal.RequireFromString("150.00"),
		},
	}

	suite.mockPeriodRepo.On("FindPeriodByID", ctx, suite.companyID, period.PeriodID).Return(period, nil).Once()
	suite.mockReportingRepo.On("GetTaxReturnData", ctx, suite.companyID, period.StartDate, period.EndDate).Return(rows, nil).Once()

	result, err := suite.service.GetTaxReturnForPeriod(ctx, suite.companyID, period.PeriodID)

	suite.Require().NoError(err)
	suite.Equal(period.PeriodID, result.PeriodID)
	suite.Equal("Jun 2025", result.PeriodName)
	suite.Equal("2025-06-01", result.StartDate)
	suite.Equal("2025-06-30", result.EndDate)
	suite.Require().Len(result.Rows, 1)
	suite.Equal("BOX_5", result.Rows[0].ReportingBox)
	suite.mockReportingRepo.AssertExpectations(suite.T())
}

func (suite *ReportingServiceTestSuite) TestGetTaxReturnForPeriod_PeriodNotFound() {
	ctx := context.Background()
	periodID := uuid.NewString()

	suite.mockPeriodRepo.On("FindPeriodByID", ctx, suite.companyID, periodID).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.GetTaxReturnForPeriod(ctx, suite.companyID, periodID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockReportingRepo.AssertNotCalled(suite.T(), "GetTaxReturnData", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// --- ListAccountActivity ---

func (suite *ReportingServiceTestSuite) TestListAccountActivity_Success() {
	ctx := context.Background()
	account := &domain.Account{
		AccountID: uuid.NewString(),
		CompanyID: suite.companyID,
		Code:      "100",
		Name:      "Business Cheque",
		IsActive:  true,
	}
	entries := []domain.LedgerEntry{
		{
			EntryID:   uuid.NewString(),
			CompanyID: suite.companyID,
			AccountID: account.AccountID,
			AmountDr:  decimal.RequireFromString("250.00"),
			AmountCr:  decimal.Zero,
		},
	}

	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.companyID, account.AccountID).Return(account, nil).Once()
	suite.mockLedgerRepo.On("ListEntriesByAccount", ctx, suite.companyID, account.AccountID, 20, (*string)(nil)).Return(entries, "next-page", nil).Once()

	resp, err := suite.service.ListAccountActivity(ctx, suite.companyID, account.AccountID, dto.ListEntriesParams{Limit: 20})

	suite.Require().NoError(err)
	suite.Len(resp.Items, 1)
	suite.Equal("next-page", resp.NextPageToken)
}

func (suite *ReportingServiceTestSuite) TestListAccountActivity_PassesToken() {
	ctx := context.Background()
	account := &domain.Account{AccountID: uuid.NewString(), CompanyID: suite.companyID, IsActive: true}
	token := "opaque-token"

	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.companyID, account.AccountID).Return(account, nil).Once()
	suite.mockLedgerRepo.On("ListEntriesByAccount", ctx, suite.companyID, account.AccountID, 50, &token).Return([]domain.LedgerEntry{}, nil, nil).Once()

	resp, err := suite.service.ListAccountActivity(ctx, suite.companyID, account.AccountID, dto.ListEntriesParams{Limit: 50, NextToken: token})

	suite.Require().NoError(err)
	suite.Empty(resp.Items)
	suite.Empty(resp.NextPageToken)
	suite.mockLedgerRepo.AssertExpectations(suite.T())
}

func (suite *ReportingServiceTestSuite) TestListAccountActivity_AccountNotFound() {
	ctx := context.Background()
	accountID := uuid.NewString()

	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.companyID, accountID).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.ListAccountActivity(ctx, suite.companyID, accountID, dto.ListEntriesParams{Limit: 20})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "ListEntriesByAccount", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestReportingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReportingServiceTestSuite))
}
