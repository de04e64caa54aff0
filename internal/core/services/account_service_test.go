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
	portssvc "github.com/keabooks/kea_books_app/internal/core/ports/services"
	"github.com/keabooks/kea_books_app/internal/core/services"
	"github.com/keabooks/kea_books_app/internal/dto"
)

// The account repository mock lives in posting_service_test.go and is shared
// across the package.

type AccountServiceTestSuite struct {
	suite.Suite
	mockAccountRepo *MockAccountRepository
	service         portssvc.AccountSvcFacade
	companyID       string
	actorID         string
}

func (suite *AccountServiceTestSuite) SetupTest() {
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.service = services.NewAccountService(suite.mockAccountRepo)
	suite.companyID = uuid.NewString()
	suite.actorID = uuid.NewString()
}

func (suite *AccountServiceTestSuite) newAccount() *domain.Account {
	return &domain.Account{
		AccountID:   uuid.NewString(),
		CompanyID:   suite.companyID,
		Code:        "200",
		Name:        "Sales",
		AccountType: domain.Revenue,
		ControlRole: domain.ControlNone,
		IsActive:    true,
		AuditFields: domain.NewAuditFields(suite.actorID, time.Now().UTC()),
	}
}

// --- CreateAccount ---

func (suite *AccountServiceTestSuite) TestCreateAccount_Success() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{
		Code:        "610",
		Name:        "Office Expenses",
		AccountType: "EXPENSE",
	}

	var saved domain.Account
	suite.mockAccountRepo.On("SaveAccount", ctx, mock.AnythingOfType("domain.Account")).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).(domain.Account)
		}).
		Return(nil).Once()

	account, err := suite.service.CreateAccount(ctx, suite.companyID, req, suite.actorID)

	suite.Require().NoError(err)
	suite.Equal("610", account.Code)
	suite.Equal(domain.Expense, saved.AccountType)
	// An omitted control role means an ordinary account.
	suite.Equal(domain.ControlNone, saved.ControlRole)
	suite.True(saved.IsActive)
	suite.Equal(suite.companyID, saved.CompanyID)
	suite.Equal(suite.actorID, saved.CreatedBy)
	suite.NotEmpty(saved.AccountID)
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestCreateAccount_ControlRole() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{
		Code:        "800",
		Name:        "GST",
		AccountType: "LIABILITY",
		ControlRole: "TAX",
	}

	var saved domain.Account
	suite.mockAccountRepo.On("SaveAccount", ctx, mock.AnythingOfType("domain.Account")).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).(domain.Account)
		}).
		Return(nil).Once()

	_, err := suite.service.CreateAccount(ctx, suite.companyID, req, suite.actorID)

	suite.Require().NoError(err)
	suite.Equal(domain.ControlTax, saved.ControlRole)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_DuplicateCode() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{
		Code:        "200",
		Name:        "Sales Again",
		AccountType: "REVENUE",
	}

	suite.mockAccountRepo.On("SaveAccount", ctx, mock.AnythingOfType("domain.Account")).
		Return(apperrors.ErrDuplicate).Once()

	_, err := suite.service.CreateAccount(ctx, suite.companyID, req, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
}

// --- GetAccountByID / ListAccounts ---

func (suite *AccountServiceTestSuite) TestGetAccountByID_Success() {
	ctx := context.Background()
	account := suite.newAccount()

	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.companyID, account.AccountID).Return(account, nil).Once()

	found, err := suite.service.GetAccountByID(ctx, suite.companyID, account.AccountID)

	suite.Require().NoError(err)
	suite.Equal(account.AccountID, found.AccountID)
}

func (suite *AccountServiceTestSuite) TestGetAccountByID_NotFound() {
	ctx := context.Background()
	accountID := uuid.NewString()

	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.companyID, accountID).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.GetAccountByID(ctx, suite.companyID, accountID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *AccountServiceTestSuite) TestListAccounts() {
	ctx := context.Background()
	accounts := []domain.Account{*suite.newAccount(), *suite.newAccount()}

	suite.mockAccountRepo.On("ListAccounts", ctx, suite.companyID, 20, 0).Return(accounts, nil).Once()

	listed, err := suite.service.ListAccounts(ctx, suite.companyID, 20, 0)

	suite.Require().NoError(err)
	suite.Len(listed, 2)
}

// --- UpdateAccount ---

func (suite *AccountServiceTestSuite) TestUpdateAccount_PartialFields() {
	ctx := context.Background()
	account := suite.newAccount()
	newName := "Sales (Domestic)"

	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.companyID, account.AccountID).Return(account, nil).Once()

	var updated domain.Account
	suite.mockAccountRepo.On("UpdateAccount", ctx, mock.AnythingOfType("domain.Account")).
		Run(func(args mock.Arguments) {
			updated = args.Get(1).(domain.Account)
		}).
		Return(nil).Once()

	result, err := suite.service.UpdateAccount(ctx, suite.companyID, account.AccountID, dto.UpdateAccountRequest{Name: &newName}, suite.actorID)

	suite.Require().NoError(err)
	suite.Equal(newName, result.Name)
	suite.Equal(newName, updated.Name)
	// Code stays fixed once the account exists.
	suite.Equal("200", updated.Code)
	suite.Equal(suite.actorID, updated.LastUpdatedBy)
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestUpdateAccount_NotFound() {
	ctx := context.Background()
	accountID := uuid.NewString()

	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.companyID, accountID).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.UpdateAccount(ctx, suite.companyID, accountID, dto.UpdateAccountRequest{}, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "UpdateAccount", mock.Anything, mock.Anything)
}

// --- DeactivateAccount ---

func (suite *AccountServiceTestSuite) TestDeactivateAccount_Success() {
	ctx := context.Background()
	accountID := uuid.NewString()

	suite.mockAccountRepo.On("DeactivateAccount", ctx, suite.companyID, accountID, suite.actorID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	err := suite.service.DeactivateAccount(ctx, suite.companyID, accountID, suite.actorID)

	suite.Require().NoError(err)
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestDeactivateAccount_NotFound() {
	ctx := context.Background()
	accountID := uuid.NewString()

	suite.mockAccountRepo.On("DeactivateAccount", ctx, suite.companyID, accountID, suite.actorID, mock.AnythingOfType("time.Time")).Return(apperrors.ErrNotFound).Once()

	err := suite.service.DeactivateAccount(ctx, suite.companyID, accountID, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func TestAccountServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}
