package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/keabooks/kea_books_app/internal/apperrors"
	"github.com/keabooks/kea_books_app/internal/core/domain"
	portsrepo "github.com/keabooks/kea_books_app/internal/core/ports/repositories"
	portssvc "github.com/keabooks/kea_books_app/internal/core/ports/services"
	"github.com/keabooks/kea_books_app/internal/core/services"
	"github.com/keabooks/kea_books_app/internal/dto"
)

// --- Mock PeriodRepository ---
type MockPeriodRepository struct {
	mock.Mock
}

var _ portsrepo.PeriodRepositoryFacade = (*MockPeriodRepository)(nil)

func (m *MockPeriodRepository) FindPeriodByID(ctx context.Context, companyID string, periodID string) (*domain.Period, error) {
	args := m.Called(ctx, companyID, periodID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Period), args.Error(1)
}

func (m *MockPeriodRepository) FindPeriodCovering(ctx context.Context, companyID string, date time.Time) (*domain.Period, error) {
	args := m.Called(ctx, companyID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Period), args.Error(1)
}

func (m *MockPeriodRepository) ListPeriods(ctx context.Context, companyID string, limit int, offset int) ([]domain.Period, error) {
	args := m.Called(ctx, companyID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Period), args.Error(1)
}

func (m *MockPeriodRepository) SavePeriods(ctx context.Context, periods []domain.Period) error {
	args := m.Called(ctx, periods)
	return args.Error(0)
}

func (m *MockPeriodRepository) UpdatePeriodStatus(ctx context.Context, companyID string, periodID string, status domain.PeriodStatus, actorID string, now time.Time, audit domain.AuditEvent) error {
	args := m.Called(ctx, companyID, periodID, status, actorID, now, audit)
	return args.Error(0)
}

// --- Test Suite Setup ---
type PeriodServiceTestSuite struct {
	suite.Suite
	mockPeriodRepo *MockPeriodRepository
	service        portssvc.PeriodSvcFacade
	companyID      string
	actorID        string
}

func (suite *PeriodServiceTestSuite) SetupTest() {
	suite.mockPeriodRepo = new(MockPeriodRepository)
	suite.service = services.NewPeriodService(suite.mockPeriodRepo)
	suite.companyID = uuid.NewString()
	suite.actorID = uuid.NewString()
}

func (suite *PeriodServiceTestSuite) newPeriod(status domain.PeriodStatus) *domain.Period {
	return &domain.Period{
		PeriodID:  uuid.NewString(),
		CompanyID: suite.companyID,
		Name:      "Mar 2025",
		StartDate: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC),
		Status:    status,
	}
}

// --- CreateFiscalYear ---

func (suite *PeriodServiceTestSuite) TestCreateFiscalYear_TwelveContiguousMonths() {
	ctx := context.Background()
	req := dto.CreateFiscalYearRequest{StartDate: "2025-03-01"}
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	lastEnd := time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC)

	suite.mockPeriodRepo.On("FindPeriodCovering", ctx, suite.companyID, start).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockPeriodRepo.On("FindPeriodCovering", ctx, suite.companyID, lastEnd).Return(nil, apperrors.ErrNotFound).Once()

	var saved []domain.Period
	suite.mockPeriodRepo.On("SavePeriods", ctx, mock.AnythingOfType("[]domain.Period")).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).([]domain.Period)
		}).
		Return(nil).Once()

	periods, err := suite.service.CreateFiscalYear(ctx, suite.companyID, req, suite.actorID)

	suite.Require().NoError(err)
	suite.Require().Len(periods, 12)
	suite.Require().Len(saved, 12)

	suite.Equal(start, saved[0].StartDate)
	suite.Equal(lastEnd, saved[11].EndDate)
	for i, period := range saved {
		suite.Equal(domain.PeriodOpen, period.Status)
		suite.Equal(suite.companyID, period.CompanyID)
		suite.Equal(suite.actorID, period.CreatedBy)
		if i > 0 {
			// Each period starts the day after the previous one ends.
			suite.Equal(saved[i-1].EndDate.AddDate(0, 0, 1), period.StartDate)
		}
	}
	suite.Equal("Mar 2025", saved[0].Name)
	suite.Equal("Feb 2026", saved[11].Name)
	suite.mockPeriodRepo.AssertExpectations(suite.T())
}

func (suite *PeriodServiceTestSuite) TestCreateFiscalYear_CustomMonthCount() {
	ctx := context.Background()
	req := dto.CreateFiscalYearRequest{StartDate: "2025-01-01", Months: 3}

	suite.mockPeriodRepo.On("FindPeriodCovering", ctx, suite.companyID, mock.AnythingOfType("time.Time")).Return(nil, apperrors.ErrNotFound).Twice()
	suite.mockPeriodRepo.On("SavePeriods", ctx, mock.AnythingOfType("[]domain.Period")).Return(nil).Once()

	periods, err := suite.service.CreateFiscalYear(ctx, suite.companyID, req, suite.actorID)

	suite.Require().NoError(err)
	suite.Len(periods, 3)
	suite.Equal(time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC), periods[2].EndDate)
}

func (suite *PeriodServiceTestSuite) TestCreateFiscalYear_OverlapsExisting() {
	ctx := context.Background()
	req := dto.CreateFiscalYearRequest{StartDate: "2025-03-01"}
	existing := suite.newPeriod(domain.PeriodOpen)

	suite.mockPeriodRepo.On("FindPeriodCovering", ctx, suite.companyID, mock.AnythingOfType("time.Time")).Return(existing, nil).Once()

	_, err := suite.service.CreateFiscalYear(ctx, suite.companyID, req, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockPeriodRepo.AssertNotCalled(suite.T(), "SavePeriods", mock.Anything, mock.Anything)
}

func (suite *PeriodServiceTestSuite) TestCreateFiscalYear_InvalidStartDate() {
	ctx := context.Background()
	req := dto.CreateFiscalYearRequest{StartDate: "01-03-2025"}

	_, err := suite.service.CreateFiscalYear(ctx, suite.companyID, req, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

// --- Status transitions ---

func (suite *PeriodServiceTestSuite) TestLockPeriod_Success() {
	ctx := context.Background()
	period := suite.newPeriod(domain.PeriodOpen)

	suite.mockPeriodRepo.On("FindPeriodByID", ctx, suite.companyID, period.PeriodID).Return(period, nil).Once()

	var savedAudit domain.AuditEvent
	suite.mockPeriodRepo.On("UpdatePeriodStatus", ctx, suite.companyID, period.PeriodID, domain.PeriodLocked, suite.actorID, mock.AnythingOfType("time.Time"), mock.AnythingOfType("domain.AuditEvent")).
		Run(func(args mock.Arguments) {
			savedAudit = args.Get(6).(domain.AuditEvent)
		}).
		Return(nil).Once()

	locked, err := suite.service.LockPeriod(ctx, suite.companyID, period.PeriodID, suite.actorID)

	suite.Require().NoError(err)
	suite.Equal(domain.PeriodLocked, locked.Status)
	suite.Equal(domain.AuditPeriodLocked, savedAudit.EventType)
	suite.Equal(period.PeriodID, savedAudit.EntityID)
	suite.mockPeriodRepo.AssertExpectations(suite.T())
}

func (suite *PeriodServiceTestSuite) TestLockPeriod_AlreadyLocked() {
	ctx := context.Background()
	period := suite.newPeriod(domain.PeriodLocked)

	suite.mockPeriodRepo.On("FindPeriodByID", ctx, suite.companyID, period.PeriodID).Return(period, nil).Once()

	_, err := suite.service.LockPeriod(ctx, suite.companyID, period.PeriodID, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrInvalidTransition)
	suite.mockPeriodRepo.AssertNotCalled(suite.T(), "UpdatePeriodStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PeriodServiceTestSuite) TestUnlockPeriod_Success() {
	ctx := context.Background()
	period := suite.newPeriod(domain.PeriodLocked)

	suite.mockPeriodRepo.On("FindPeriodByID", ctx, suite.companyID, period.PeriodID).Return(period, nil).Once()
	suite.mockPeriodRepo.On("UpdatePeriodStatus", ctx, suite.companyID, period.PeriodID, domain.PeriodOpen, suite.actorID, mock.AnythingOfType("time.Time"), mock.AnythingOfType("domain.AuditEvent")).Return(nil).Once()

	unlocked, err := suite.service.UnlockPeriod(ctx, suite.companyID, period.PeriodID, suite.actorID)

	suite.Require().NoError(err)
	suite.Equal(domain.PeriodOpen, unlocked.Status)
}

func (suite *PeriodServiceTestSuite) TestClosePeriod_FromLocked() {
	ctx := context.Background()
	period := suite.newPeriod(domain.PeriodLocked)

	suite.mockPeriodRepo.On("FindPeriodByID", ctx, suite.companyID, period.PeriodID).Return(period, nil).Once()
	suite.mockPeriodRepo.On("UpdatePeriodStatus", ctx, suite.companyID, period.PeriodID, domain.PeriodClosed, suite.actorID, mock.AnythingOfType("time.Time"), mock.AnythingOfType("domain.AuditEvent")).Return(nil).Once()

	closed, err := suite.service.ClosePeriod(ctx, suite.companyID, period.PeriodID, suite.actorID)

	suite.Require().NoError(err)
	suite.Equal(domain.PeriodClosed, closed.Status)
}

func (suite *PeriodServiceTestSuite) TestClosedPeriodIsTerminal() {
	ctx := context.Background()
	period := suite.newPeriod(domain.PeriodClosed)

	suite.mockPeriodRepo.On("FindPeriodByID", ctx, suite.companyID, period.PeriodID).Return(period, nil)

	_, err := suite.service.UnlockPeriod(ctx, suite.companyID, period.PeriodID, suite.actorID)
	suite.ErrorIs(err, services.ErrInvalidTransition)

	_, err = suite.service.LockPeriod(ctx, suite.companyID, period.PeriodID, suite.actorID)
	suite.ErrorIs(err, services.ErrInvalidTransition)

	suite.mockPeriodRepo.AssertNotCalled(suite.T(), "UpdatePeriodStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// --- ResolveOpenPeriod ---

func (suite *PeriodServiceTestSuite) TestResolveOpenPeriod_Open() {
	ctx := context.Background()
	period := suite.newPeriod(domain.PeriodOpen)
	date := time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC)

	suite.mockPeriodRepo.On("FindPeriodCovering", ctx, suite.companyID, date).Return(period, nil).Once()

	resolved, err := suite.service.ResolveOpenPeriod(ctx, suite.companyID, date)

	suite.Require().NoError(err)
	suite.Equal(period.PeriodID, resolved.PeriodID)
}

func (suite *PeriodServiceTestSuite) TestResolveOpenPeriod_Locked() {
	ctx := context.Background()
	period := suite.newPeriod(domain.PeriodLocked)
	date := time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC)

	suite.mockPeriodRepo.On("FindPeriodCovering", ctx, suite.companyID, date).Return(period, nil).Once()

	_, err := suite.service.ResolveOpenPeriod(ctx, suite.companyID, date)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrPeriodLocked)

	var locked *services.PeriodLockedError
	suite.Require().ErrorAs(err, &locked)
	suite.Equal(period.Name, locked.PeriodName)
	suite.Equal(domain.PeriodLocked, locked.Status)
}

func (suite *PeriodServiceTestSuite) TestResolveOpenPeriod_NoCoveringPeriod() {
	ctx := context.Background()
	date := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)

	suite.mockPeriodRepo.On("FindPeriodCovering", ctx, suite.companyID, date).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.ResolveOpenPeriod(ctx, suite.companyID, date)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrNoPeriod)
	suite.Contains(err.Error(), "2030-01-01")
}

func TestPeriodServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PeriodServiceTestSuite))
}
