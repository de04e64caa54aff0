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
	"github.com/keabooks/kea_books_app/internal/core/services"
	"github.com/keabooks/kea_books_app/internal/dto"
)

// --- Mock TaxCodeRepository ---
type MockTaxCodeRepository struct {
	mock.Mock
}

var _ portsrepo.TaxCodeRepositoryFacade = (*MockTaxCodeRepository)(nil)

func (m *MockTaxCodeRepository) FindTaxCodeByID(ctx context.Context, companyID string, taxCodeID string) (*domain.TaxCode, error) {
	args := m.Called(ctx, companyID, taxCodeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TaxCode), args.Error(1)
}

func (m *MockTaxCodeRepository) FindTaxCodesByIDs(ctx context.Context, companyID string, taxCodeIDs []string) (map[string]domain.TaxCode, error) {
	args := m.Called(ctx, companyID, taxCodeIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.TaxCode), args.Error(1)
}

func (m *MockTaxCodeRepository) ListTaxCodes(ctx context.Context, companyID string, limit int, offset int) ([]domain.TaxCode, error) {
	args := m.Called(ctx, companyID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TaxCode), args.Error(1)
}

func (m *MockTaxCodeRepository) SaveTaxCode(ctx context.Context, taxCode domain.TaxCode) error {
	args := m.Called(ctx, taxCode)
	return args.Error(0)
}

func (m *MockTaxCodeRepository) UpdateTaxCode(ctx context.Context, taxCode domain.TaxCode) error {
	args := m.Called(ctx, taxCode)
	return args.Error(0)
}

func (m *MockTaxCodeRepository) DeactivateTaxCode(ctx context.Context, companyID string, taxCodeID string, actorID string, now time.Time) error {
	args := m.Called(ctx, companyID, taxCodeID, actorID, now)
	return args.Error(0)
}

// --- Test Suite Setup ---
type TaxCodeServiceTestSuite struct {
	suite.Suite
	mockTaxCodeRepo *MockTaxCodeRepository
	service         *services.TaxCodeService
	companyID       string
	actorID         string
	inclusiveVAT    domain.TaxCode
	exclusiveGST    domain.TaxCode
}

func (suite *TaxCodeServiceTestSuite) SetupTest() {
	suite.mockTaxCodeRepo = new(MockTaxCodeRepository)
	suite.service = services.NewTaxCodeService(suite.mockTaxCodeRepo)

	suite.companyID = uuid.NewString()
	suite.actorID = uuid.NewString()

	suite.inclusiveVAT = domain.TaxCode{
		TaxCodeID:    uuid.NewString(),
		CompanyID:    suite.companyID,
		Code:         "VAT15",
		Name:         "VAT 15% inclusive",
		Rate:         decimal.RequireFromString("0.15"),
		ReportingBox: "BOX1",
		Jurisdiction: "ZA",
		Inclusive:    true,
		IsActive:     true,
	}
	suite.exclusiveGST = domain.TaxCode{
		TaxCodeID:    uuid.NewString(),
		CompanyID:    suite.companyID,
		Code:         "GST15",
		Name:         "GST 15% exclusive",
		Rate:         decimal.RequireFromString("0.15"),
		ReportingBox: "BOX2",
		Jurisdiction: "NZ",
		Inclusive:    false,
		IsActive:     true,
	}
}

func (suite *TaxCodeServiceTestSuite) newEntryWithTaxCode(taxCodeID string, amount decimal.Decimal, direction domain.Direction) domain.LedgerEntry {
	entry := domain.LedgerEntry{
		EntryID:              uuid.NewString(),
		CompanyID:            suite.companyID,
		TransactionID:        uuid.NewString(),
		LineID:               uuid.NewString(),
		AccountID:            uuid.NewString(),
		EntryDate:            time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC),
		TaxCodeID:            &taxCodeID,
		ReconciliationStatus: domain.ReconUnreconciled,
		CreatedAt:            time.Now().UTC(),
		CreatedBy:            suite.actorID,
	}
	if direction == domain.Debit {
		entry.AmountDr = amount
		entry.AmountCr = decimal.Zero
	} else {
		entry.AmountDr = decimal.Zero
		entry.AmountCr = amount
	}
	return entry
}

// --- CreateTaxCode ---

func (suite *TaxCodeServiceTestSuite) TestCreateTaxCode_Success() {
	ctx := context.Background()
	req := dto.CreateTaxCodeRequest{
		Code:         "VAT15",
		Name:         "VAT 15%",
		Rate:         decimal.RequireFromString("0.15"),
		ReportingBox: "BOX1",
		Jurisdiction: "ZA",
	}

	var saved domain.TaxCode
	suite.mockTaxCodeRepo.On("SaveTaxCode", ctx, mock.AnythingOfType("domain.TaxCode")).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).(domain.TaxCode)
		}).
		Return(nil).Once()

	created, err := suite.service.CreateTaxCode(ctx, suite.companyID, req, suite.actorID)

	suite.Require().NoError(err)
	suite.Require().NotNil(created)
	suite.NotEmpty(created.TaxCodeID)
	suite.Equal(suite.companyID, created.CompanyID)
	suite.True(created.Rate.Equal(req.Rate))
	// Inclusive defaults to true when the request leaves it unset.
	suite.True(created.Inclusive)
	suite.True(created.IsActive)
	suite.Equal(suite.actorID, saved.CreatedBy)
	suite.mockTaxCodeRepo.AssertExpectations(suite.T())
}

func (suite *TaxCodeServiceTestSuite) TestCreateTaxCode_ExclusiveRequested() {
	ctx := context.Background()
	exclusive := false
	req := dto.CreateTaxCodeRequest{
		Code:      "GST15",
		Name:      "GST 15%",
		Rate:      decimal.RequireFromString("0.15"),
		Inclusive: &exclusive,
	}

	suite.mockTaxCodeRepo.On("SaveTaxCode", ctx, mock.AnythingOfType("domain.TaxCode")).Return(nil).Once()

	created, err := suite.service.CreateTaxCode(ctx, suite.companyID, req, suite.actorID)

	suite.Require().NoError(err)
	suite.False(created.Inclusive)
}

func (suite *TaxCodeServiceTestSuite) TestCreateTaxCode_NegativeRate() {
	ctx := context.Background()
	req := dto.CreateTaxCodeRequest{
		Code: "NEG",
		Name: "Negative rate",
		Rate: decimal.RequireFromString("-0.05"),
	}

	_, err := suite.service.CreateTaxCode(ctx, suite.companyID, req, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrInvalidTaxRate)
	suite.mockTaxCodeRepo.AssertNotCalled(suite.T(), "SaveTaxCode", mock.Anything, mock.Anything)
}

func (suite *TaxCodeServiceTestSuite) TestCreateTaxCode_RateAtOne() {
	ctx := context.Background()
	req := dto.CreateTaxCodeRequest{
		Code: "FULL",
		Name: "Hundred percent",
		Rate: decimal.NewFromInt(1),
	}

	_, err := suite.service.CreateTaxCode(ctx, suite.companyID, req, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrInvalidTaxRate)
}

func (suite *TaxCodeServiceTestSuite) TestCreateTaxCode_DuplicateCode() {
	ctx := context.Background()
	req := dto.CreateTaxCodeRequest{
		Code: "VAT15",
		Name: "VAT 15%",
		Rate: decimal.RequireFromString("0.15"),
	}

	suite.mockTaxCodeRepo.On("SaveTaxCode", ctx, mock.Anything).Return(apperrors.ErrDuplicate).Once()

	_, err := suite.service.CreateTaxCode(ctx, suite.companyID, req, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
}

// --- UpdateTaxCode ---

func (suite *TaxCodeServiceTestSuite) TestUpdateTaxCode_Success() {
	ctx := context.Background()
	existing := suite.inclusiveVAT
	newName := "VAT standard rate"
	newBox := "BOX1A"
	req := dto.UpdateTaxCodeRequest{Name: &newName, ReportingBox: &newBox}

	suite.mockTaxCodeRepo.On("FindTaxCodeByID", ctx, suite.companyID, existing.TaxCodeID).Return(&existing, nil).Once()
	suite.mockTaxCodeRepo.On("UpdateTaxCode", ctx, mock.AnythingOfType("domain.TaxCode")).Return(nil).Once()

	updated, err := suite.service.UpdateTaxCode(ctx, suite.companyID, existing.TaxCodeID, req, suite.actorID)

	suite.Require().NoError(err)
	suite.Equal(newName, updated.Name)
	suite.Equal(newBox, updated.ReportingBox)
	// The rate never changes through update.
	suite.True(updated.Rate.Equal(suite.inclusiveVAT.Rate))
	suite.Equal(suite.actorID, updated.LastUpdatedBy)
	suite.mockTaxCodeRepo.AssertExpectations(suite.T())
}

func (suite *TaxCodeServiceTestSuite) TestUpdateTaxCode_NotFound() {
	ctx := context.Background()
	taxCodeID := uuid.NewString()

	suite.mockTaxCodeRepo.On("FindTaxCodeByID", ctx, suite.companyID, taxCodeID).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.UpdateTaxCode(ctx, suite.companyID, taxCodeID, dto.UpdateTaxCodeRequest{}, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockTaxCodeRepo.AssertNotCalled(suite.T(), "UpdateTaxCode", mock.Anything, mock.Anything)
}

// --- BuildTaxLines ---

func (suite *TaxCodeServiceTestSuite) TestBuildTaxLines_InclusiveSplitsGross() {
	ctx := context.Background()
	entry := suite.newEntryWithTaxCode(suite.inclusiveVAT.TaxCodeID, decimal.RequireFromString("115.00"), domain.Debit)
	taxCodes := map[string]domain.TaxCode{suite.inclusiveVAT.TaxCodeID: suite.inclusiveVAT}

	suite.mockTaxCodeRepo.On("FindTaxCodesByIDs", ctx, suite.companyID, []string{suite.inclusiveVAT.TaxCodeID}).Return(taxCodes, nil).Once()

	taxLines, err := suite.service.BuildTaxLines(ctx, suite.companyID, []domain.LedgerEntry{entry})

	suite.Require().NoError(err)
	suite.Require().Len(taxLines, 1)
	taxLine := taxLines[0]
	suite.Equal(entry.EntryID, taxLine.EntryID)
	suite.Equal(suite.inclusiveVAT.TaxCodeID, taxLine.TaxCodeID)
	suite.True(taxLine.RateSnapshot.Equal(suite.inclusiveVAT.Rate))
	suite.True(taxLine.TaxableAmount.Equal(decimal.NewFromInt(100)), "taxable was %s", taxLine.TaxableAmount)
	suite.True(taxLine.TaxAmount.Equal(decimal.NewFromInt(15)), "tax was %s", taxLine.TaxAmount)
	suite.Equal("BOX1", taxLine.ReportingBox)
	suite.Equal("ZA", taxLine.Jurisdiction)
}

func (suite *TaxCodeServiceTestSuite) TestBuildTaxLines_ExclusiveAddsTax() {
	ctx := context.Background()
	entry := suite.newEntryWithTaxCode(suite.exclusiveGST.TaxCodeID, decimal.NewFromInt(100), domain.Credit)
	taxCodes := map[string]domain.TaxCode{suite.exclusiveGST.TaxCodeID: suite.exclusiveGST}

	suite.mockTaxCodeRepo.On("FindTaxCodesByIDs", ctx, suite.companyID, []string{suite.exclusiveGST.TaxCodeID}).Return(taxCodes, nil).Once()

	taxLines, err := suite.service.BuildTaxLines(ctx, suite.companyID, []domain.LedgerEntry{entry})

	suite.Require().NoError(err)
	suite.Require().Len(taxLines, 1)
	suite.True(taxLines[0].TaxableAmount.Equal(decimal.NewFromInt(100)))
	suite.True(taxLines[0].TaxAmount.Equal(decimal.NewFromInt(15)))
}

func (suite *TaxCodeServiceTestSuite) TestBuildTaxLines_InclusiveRounding() {
	ctx := context.Background()
	vat20 := domain.TaxCode{
		TaxCodeID: uuid.NewString(),
		CompanyID: suite.companyID,
		Code:      "VAT20",
		Rate:      decimal.RequireFromString("0.2"),
		Inclusive: true,
		IsActive:  true,
	}
	entry := suite.newEntryWithTaxCode(vat20.TaxCodeID, decimal.NewFromInt(10), domain.Debit)

	suite.mockTaxCodeRepo.On("FindTaxCodesByIDs", ctx, suite.companyID, []string{vat20.TaxCodeID}).Return(map[string]domain.TaxCode{vat20.TaxCodeID: vat20}, nil).Once()

	taxLines, err := suite.service.BuildTaxLines(ctx, suite.companyID, []domain.LedgerEntry{entry})

	suite.Require().NoError(err)
	suite.Require().Len(taxLines, 1)
	// 10.00 at 20% inclusive: tax rounds to 1.67, taxable carries the rest.
	suite.True(taxLines[0].TaxAmount.Equal(decimal.RequireFromString("1.67")), "tax was %s", taxLines[0].TaxAmount)
	suite.True(taxLines[0].TaxableAmount.Equal(decimal.RequireFromString("8.33")), "taxable was %s", taxLines[0].TaxableAmount)
	suite.True(taxLines[0].TaxableAmount.Add(taxLines[0].TaxAmount).Equal(decimal.NewFromInt(10)))
}

func (suite *TaxCodeServiceTestSuite) TestBuildTaxLines_NoTaxedEntries() {
	ctx := context.Background()
	entry := suite.newEntryWithTaxCode(suite.inclusiveVAT.TaxCodeID, decimal.NewFromInt(50), domain.Debit)
	entry.TaxCodeID = nil

	taxLines, err := suite.service.BuildTaxLines(ctx, suite.companyID, []domain.LedgerEntry{entry})

	suite.Require().NoError(err)
	suite.Nil(taxLines)
	suite.mockTaxCodeRepo.AssertNotCalled(suite.T(), "FindTaxCodesByIDs", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *TaxCodeServiceTestSuite) TestBuildTaxLines_MissingTaxCode() {
	ctx := context.Background()
	unknownID := uuid.NewString()
	entry := suite.newEntryWithTaxCode(unknownID, decimal.NewFromInt(50), domain.Debit)

	suite.mockTaxCodeRepo.On("FindTaxCodesByIDs", ctx, suite.companyID, []string{unknownID}).Return(map[string]domain.TaxCode{}, nil).Once()

	_, err := suite.service.BuildTaxLines(ctx, suite.companyID, []domain.LedgerEntry{entry})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.Contains(err.Error(), unknownID)
}

func TestTaxCodeServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TaxCodeServiceTestSuite))
}
