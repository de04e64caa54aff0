package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/keabooks/kea_books_app/internal/apperrors"
	"github.com/keabooks/kea_books_app/internal/core/domain"
	portsrepo "github.com/keabooks/kea_books_app/internal/core/ports/repositories"
	portssvc "github.com/keabooks/kea_books_app/internal/core/ports/services"
	"github.com/keabooks/kea_books_app/internal/core/services"
	"github.com/keabooks/kea_books_app/internal/dto"
)

// --- Mock TransactionRepository ---
type MockTransactionRepository struct {
	mock.Mock
}

// Ensure MockTransactionRepository implements portsrepo.TransactionRepositoryFacade
var _ portsrepo.TransactionRepositoryFacade = (*MockTransactionRepository)(nil)

func (m *MockTransactionRepository) FindTransactionByID(ctx context.Context, companyID string, transactionID string) (*domain.Transaction, error) {
	args := m.Called(ctx, companyID, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) ListTransactions(ctx context.Context, companyID string, limit int, nextToken *string, status *domain.TransactionStatus, txnType *domain.TransactionType) ([]domain.Transaction, *string, error) {
	args := m.Called(ctx, companyID, limit, nextToken, status, txnType)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.Transaction), returnedNextToken, args.Error(2)
}

func (m *MockTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockTransactionRepository) UpdateDraftTransaction(ctx context.Context, txn domain.Transaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockTransactionRepository) VoidDraftTransaction(ctx context.Context, companyID string, transactionID string, actorID string, now time.Time) error {
	args := m.Called(ctx, companyID, transactionID, actorID, now)
	return args.Error(0)
}

func (m *MockTransactionRepository) DeleteDraftTransaction(ctx context.Context, companyID string, transactionID string) error {
	args := m.Called(ctx, companyID, transactionID)
	return args.Error(0)
}

// --- Mock PostingRepository ---
type MockPostingRepository struct {
	mock.Mock
}

var _ portsrepo.PostingRepositoryFacade = (*MockPostingRepository)(nil)

func (m *MockPostingRepository) FindReversalLinkByOriginal(ctx context.Context, companyID string, originalTransactionID string) (*domain.ReversalLink, error) {
	args := m.Called(ctx, companyID, originalTransactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReversalLink), args.Error(1)
}

func (m *MockPostingRepository) FindReversalLinkByReversing(ctx context.Context, companyID string, reversingTransactionID string) (*domain.ReversalLink, error) {
	args := m.Called(ctx, companyID, reversingTransactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReversalLink), args.Error(1)
}

func (m *MockPostingRepository) SavePosting(ctx context.Context, companyID string, transactionID string, postedAt time.Time, actorID string, entries []domain.LedgerEntry, taxLines []domain.TaxLine, audit domain.AuditEvent) error {
	args := m.Called(ctx, companyID, transactionID, postedAt, actorID, entries, taxLines, audit)
	return args.Error(0)
}

func (m *MockPostingRepository) SaveReversal(ctx context.Context, reversing domain.Transaction, postedAt time.Time, entries []domain.LedgerEntry, taxLines []domain.TaxLine, link domain.ReversalLink, audit domain.AuditEvent) error {
	args := m.Called(ctx, reversing, postedAt, entries, taxLines, link, audit)
	return args.Error(0)
}

// --- Mock AccountRepository ---
type MockAccountRepository struct {
	mock.Mock
}

var _ portsrepo.AccountRepositoryFacade = (*MockAccountRepository)(nil)

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, companyID string, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, companyID, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountByCode(ctx context.Context, companyID string, code string) (*domain.Account, error) {
	args := m.Called(ctx, companyID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountByControlRole(ctx context.Context, companyID string, role domain.ControlRole) (*domain.Account, error) {
	args := m.Called(ctx, companyID, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountsByIDs(ctx context.Context, companyID string, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, companyID, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context, companyID string, limit int, offset int) ([]domain.Account, error) {
	args := m.Called(ctx, companyID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) DeactivateAccount(ctx context.Context, companyID string, accountID string, actorID string, now time.Time) error {
	args := m.Called(ctx, companyID, accountID, actorID, now)
	return args.Error(0)
}

// --- Mock PeriodResolver (as used by PostingService) ---
type MockPeriodResolver struct {
	mock.Mock
}

var _ portssvc.PeriodResolverSvc = (*MockPeriodResolver)(nil)

func (m *MockPeriodResolver) ResolveOpenPeriod(ctx context.Context, companyID string, date time.Time) (*domain.Period, error) {
	args := m.Called(ctx, companyID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Period), args.Error(1)
}

// --- Mock TaxLineGenerator ---
type MockTaxLineGenerator struct {
	mock.Mock
}

var _ portssvc.TaxLineGeneratorSvc = (*MockTaxLineGenerator)(nil)

func (m *MockTaxLineGenerator) BuildTaxLines(ctx context.Context, companyID string, entries []domain.LedgerEntry) ([]domain.TaxLine, error) {
	args := m.Called(ctx, companyID, entries)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TaxLine), args.Error(1)
}

// --- Test Suite Setup ---
type PostingServiceTestSuite struct {
	suite.Suite
	mockTransactionRepo *MockTransactionRepository
	mockPostingRepo     *MockPostingRepository
	mockAccountRepo     *MockAccountRepository
	mockPeriodResolver  *MockPeriodResolver
	mockTaxGenerator    *MockTaxLineGenerator
	service             portssvc.PostingSvcFacade
	expenseAccount      domain.Account
	bankAccount         domain.Account
	openPeriod          domain.Period
	companyID           string
	actorID             string
}

func (suite *PostingServiceTestSuite) SetupTest() {
	suite.mockTransactionRepo = new(MockTransactionRepository)
	suite.mockPostingRepo = new(MockPostingRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockPeriodResolver = new(MockPeriodResolver)
	suite.mockTaxGenerator = new(MockTaxLineGenerator)
	suite.service = services.NewPostingService(
		suite.mockTransactionRepo,
		suite.mockPostingRepo,
		suite.mockAccountRepo,
		suite.mockPeriodResolver,
		suite.mockTaxGenerator,
	)

	suite.companyID = uuid.NewString()
	suite.actorID = uuid.NewString()

	suite.expenseAccount = domain.Account{
		AccountID:   uuid.NewString(),
		CompanyID:   suite.companyID,
		Code:        "6000",
		Name:        "Rent",
		AccountType: domain.Expense,
		ControlRole: domain.ControlNone,
		IsActive:    true,
	}
	suite.bankAccount = domain.Account{
		AccountID:   uuid.NewString(),
		CompanyID:   suite.companyID,
		Code:        "1000",
		Name:        "Business Account",
		AccountType: domain.Asset,
		ControlRole: domain.ControlBank,
		IsActive:    true,
	}
	suite.openPeriod = domain.Period{
		PeriodID:  uuid.NewString(),
		CompanyID: suite.companyID,
		Name:      "Mar 2025",
		StartDate: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC),
		Status:    domain.PeriodOpen,
	}
}

// newDraftTransaction builds a balanced two-line draft: debit rent, credit bank.
func (suite *PostingServiceTestSuite) newDraftTransaction() *domain.Transaction {
	txnID := uuid.NewString()
	txn := &domain.Transaction{
		TransactionID:   txnID,
		CompanyID:       suite.companyID,
		TransactionType: domain.TxnJournal,
		TransactionDate: time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC),
		Description:     "Office rent March",
		Status:          domain.StatusDraft,
		Lines: []domain.TransactionLine{
			{LineID: uuid.NewString(), TransactionID: txnID, AccountID: suite.expenseAccount.AccountID, Amount: decimal.NewFromInt(100), Direction: domain.Debit},
			{LineID: uuid.NewString(), TransactionID: txnID, AccountID: suite.bankAccount.AccountID, Amount: decimal.NewFromInt(100), Direction: domain.Credit},
		},
		AuditFields: domain.NewAuditFields(suite.actorID, time.Now().UTC()),
	}
	return txn
}

func (suite *PostingServiceTestSuite) accountsMap() map[string]domain.Account {
	return map[string]domain.Account{
		suite.expenseAccount.AccountID: suite.expenseAccount,
		suite.bankAccount.AccountID:    suite.bankAccount,
	}
}

// --- PostTransaction ---

func (suite *PostingServiceTestSuite) TestPostTransaction_Success() {
	ctx := context.Background()
	txn := suite.newDraftTransaction()

	suite.mockTransactionRepo.On("FindTransactionByID", ctx, suite.companyID, txn.TransactionID).Return(txn, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, suite.companyID, mock.Anything).Return(suite.accountsMap(), nil).Once()
	suite.mockPeriodResolver.On("ResolveOpenPeriod", ctx, suite.companyID, txn.TransactionDate).Return(&suite.openPeriod, nil).Once()
	suite.mockTaxGenerator.On("BuildTaxLines", ctx, suite.companyID, mock.AnythingOfType("[]domain.LedgerEntry")).Return([]domain.TaxLine{}, nil).Once()

	var savedEntries []domain.LedgerEntry
	var savedAudit domain.AuditEvent
	suite.mockPostingRepo.On("SavePosting", ctx, suite.companyID, txn.TransactionID, mock.AnythingOfType("time.Time"), suite.actorID, mock.AnythingOfType("[]domain.LedgerEntry"), mock.AnythingOfType("[]domain.TaxLine"), mock.AnythingOfType("domain.AuditEvent")).
		Run(func(args mock.Arguments) {
			savedEntries = args.Get(5).([]domain.LedgerEntry)
			savedAudit = args.Get(7).(domain.AuditEvent)
		}).
		Return(nil).Once()

	posted, err := suite.service.PostTransaction(ctx, suite.companyID, txn.TransactionID, suite.actorID)

	suite.Require().NoError(err)
	suite.Require().NotNil(posted)
	suite.Equal(domain.StatusPosted, posted.Status)
	suite.Require().NotNil(posted.PostedAt)
	suite.Equal(suite.actorID, posted.LastUpdatedBy)

	suite.Require().Len(savedEntries, 2)
	debitEntry, creditEntry := savedEntries[0], savedEntries[1]
	suite.Equal(suite.expenseAccount.AccountID, debitEntry.AccountID)
	suite.True(debitEntry.AmountDr.Equal(decimal.NewFromInt(100)))
	suite.True(debitEntry.AmountCr.IsZero())
	suite.Equal(suite.bankAccount.AccountID, creditEntry.AccountID)
	suite.True(creditEntry.AmountCr.Equal(decimal.NewFromInt(100)))
	suite.True(creditEntry.AmountDr.IsZero())
	for _, entry := range savedEntries {
		suite.Equal(txn.TransactionDate, entry.EntryDate)
		suite.Equal(domain.ReconUnreconciled, entry.ReconciliationStatus)
		suite.Equal(suite.actorID, entry.CreatedBy)
	}

	suite.Equal(domain.AuditTxnPosted, savedAudit.EventType)
	suite.Equal(txn.TransactionID, savedAudit.EntityID)
	suite.Contains(savedAudit.Summary, suite.openPeriod.Name)

	suite.mockTransactionRepo.AssertExpectations(suite.T())
	suite.mockAccountRepo.AssertExpectations(suite.T())
	suite.mockPeriodResolver.AssertExpectations(suite.T())
	suite.mockTaxGenerator.AssertExpectations(suite.T())
	suite.mockPostingRepo.AssertExpectations(suite.T())
}

func (suite *PostingServiceTestSuite) TestPostTransaction_NoLines() {
	ctx := context.Background()
	txn := suite.newDraftTransaction()
	txn.Lines = nil

	suite.mockTransactionRepo.On("FindTransactionByID", ctx, suite.companyID, txn.TransactionID).Return(txn, nil).Once()

	_, err := suite.service.PostTransaction(ctx, suite.companyID, txn.TransactionID, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrNoLines)
	suite.mockPostingRepo.AssertNotCalled(suite.T(), "SavePosting", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PostingServiceTestSuite) TestPostTransaction_NotDraft() {
	ctx := context.Background()
	txn := suite.newDraftTransaction()
	txn.Status = domain.StatusPosted

	suite.mockTransactionRepo.On("FindTransactionByID", ctx, suite.companyID, txn.TransactionID).Return(txn, nil).Once()

	_, err := suite.service.PostTransaction(ctx, suite.companyID, txn.TransactionID, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrNotDraft)
}

func (suite *PostingServiceTestSuite) TestPostTransaction_AccountMissing() {
	ctx := context.Background()
	txn := suite.newDraftTransaction()
	accounts := map[string]domain.Account{
		suite.expenseAccount.AccountID: suite.expenseAccount,
		// bank account missing
	}

	suite.mockTransactionRepo.On("FindTransactionByID", ctx, suite.companyID, txn.TransactionID).Return(txn, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, suite.companyID, mock.Anything).Return(accounts, nil).Once()

	_, err := suite.service.PostTransaction(ctx, suite.companyID, txn.TransactionID, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *PostingServiceTestSuite) TestPostTransaction_AccountInactive() {
	ctx := context.Background()
	txn := suite.newDraftTransaction()
	inactiveBank := suite.bankAccount
	inactiveBank.IsActive = false
	accounts := map[string]domain.Account{
		suite.expenseAccount.AccountID: suite.expenseAccount,
		suite.bankAccount.AccountID:    inactiveBank,
	}

	suite.mockTransactionRepo.On("FindTransactionByID", ctx, suite.companyID, txn.TransactionID).Return(txn, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, suite.companyID, mock.Anything).Return(accounts, nil).Once()

	_, err := suite.service.PostTransaction(ctx, suite.companyID, txn.TransactionID, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrAccountInactive)
	suite.Contains(err.Error(), suite.bankAccount.Code)
}

func (suite *PostingServiceTestSuite) TestPostTransaction_InvalidAmountScale() {
	ctx := context.Background()
	txn := suite.newDraftTransaction()
	txn.Lines[0].Amount = decimal.RequireFromString("100.005")
	txn.Lines[1].Amount = decimal.RequireFromString("100.005")

	suite.mockTransactionRepo.On("FindTransactionByID", ctx, suite.companyID, txn.TransactionID).Return(txn, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, suite.companyID, mock.Anything).Return(suite.accountsMap(), nil).Once()

	_, err := suite.service.PostTransaction(ctx, suite.companyID, txn.TransactionID, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrInvalidAmount)
}

func (suite *PostingServiceTestSuite) TestPostTransaction_NonPositiveAmount() {
	ctx := context.Background()
	txn := suite.newDraftTransaction()
	txn.Lines[0].Amount = decimal.Zero

	suite.mockTransactionRepo.On("FindTransactionByID", ctx, suite.companyID, txn.TransactionID).Return(txn, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, suite.companyID, mock.Anything).Return(suite.accountsMap(), nil).Once()

	_, err := suite.service.PostTransaction(ctx, suite.companyID, txn.TransactionID, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrInvalidAmount)
}

func (suite *PostingServiceTestSuite) TestPostTransaction_Unbalanced() {
	ctx := context.Background()
	txn := suite.newDraftTransaction()
	txn.Lines[1].Amount = decimal.NewFromInt(90)

	suite.mockTransactionRepo.On("FindTransactionByID", ctx, suite.companyID, txn.TransactionID).Return(txn, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, suite.companyID, mock.Anything).Return(suite.accountsMap(), nil).Once()

	_, err := suite.service.PostTransaction(ctx, suite.companyID, txn.TransactionID, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrUnbalanced)

	var unbalanced *services.UnbalancedError
	suite.Require().ErrorAs(err, &unbalanced)
	suite.True(unbalanced.Debits.Equal(decimal.NewFromInt(100)))
	suite.True(unbalanced.Credits.Equal(decimal.NewFromInt(90)))
	suite.mockPeriodResolver.AssertNotCalled(suite.T(), "ResolveOpenPeriod", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PostingServiceTestSuite) TestPostTransaction_NoPeriod() {
	ctx := context.Background()
	txn := suite.newDraftTransaction()

	suite.mockTransactionRepo.On("FindTransactionByID", ctx, suite.companyID, txn.TransactionID).Return(txn, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, suite.companyID, mock.Anything).Return(suite.accountsMap(), nil).Once()
	suite.mockPeriodResolver.On("ResolveOpenPeriod", ctx, suite.companyID, txn.TransactionDate).Return(nil, services.ErrNoPeriod).Once()

	_, err := suite.service.PostTransaction(ctx, suite.companyID, txn.TransactionID, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrNoPeriod)
	suite.mockPostingRepo.AssertNotCalled(suite.T(), "SavePosting", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PostingServiceTestSuite) TestPostTransaction_PeriodLocked() {
	ctx := context.Background()
	txn := suite.newDraftTransaction()
	lockedErr := &services.PeriodLockedError{PeriodName: "Mar 2025", Status: domain.PeriodLocked}

	suite.mockTransactionRepo.On("FindTransactionByID", ctx, suite.companyID, txn.TransactionID).Return(txn, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, suite.companyID, mock.Anything).Return(suite.accountsMap(), nil).Once()
	suite.mockPeriodResolver.On("ResolveOpenPeriod", ctx, suite.companyID, txn.TransactionDate).Return(nil, lockedErr).Once()

	_, err := suite.service.PostTransaction(ctx, suite.companyID, txn.TransactionID, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrPeriodLocked)
	suite.Contains(err.Error(), "Mar 2025")
}

func (suite *PostingServiceTestSuite) TestPostTransaction_ConcurrentConflict() {
	ctx := context.Background()
	txn := suite.newDraftTransaction()

	suite.mockTransactionRepo.On("FindTransactionByID", ctx, suite.companyID, txn.TransactionID).Return(txn, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, suite.companyID, mock.Anything).Return(suite.accountsMap(), nil).Once()
	suite.mockPeriodResolver.On("ResolveOpenPeriod", ctx, suite.companyID, txn.TransactionDate).Return(&suite.openPeriod, nil).Once()
	suite.mockTaxGenerator.On("BuildTaxLines", ctx, suite.companyID, mock.Anything).Return([]domain.TaxLine{}, nil).Once()
	suite.mockPostingRepo.On("SavePosting", ctx, suite.companyID, txn.TransactionID, mock.Anything, suite.actorID, mock.Anything, mock.Anything, mock.Anything).Return(apperrors.ErrConflict).Once()

	_, err := suite.service.PostTransaction(ctx, suite.companyID, txn.TransactionID, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrAlreadyPosted)
	suite.mockPostingRepo.AssertExpectations(suite.T())
}

func (suite *PostingServiceTestSuite) TestPostTransaction_RepoError() {
	ctx := context.Background()
	txnID := uuid.NewString()
	repoErr := assert.AnError

	suite.mockTransactionRepo.On("FindTransactionByID", ctx, suite.companyID, txnID).Return(nil, repoErr).Once()

	_, err := suite.service.PostTransaction(ctx, suite.companyID, txnID, suite.actorID)

	suite.Require().Error(err)
	suite.Contains(err.Error(), repoErr.Error())
}

func (suite *PostingServiceTestSuite) TestValidateTransaction_Success() {
	ctx := context.Background()
	txn := suite.newDraftTransaction()

	suite.mockTransactionRepo.On("FindTransactionByID", ctx, suite.companyID, txn.TransactionID).Return(txn, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, suite.companyID, mock.Anything).Return(suite.accountsMap(), nil).Once()

	err := suite.service.ValidateTransaction(ctx, suite.companyID, txn.TransactionID)

	suite.Require().NoError(err)
	// Validation never consults the period gate; that happens at posting time.
	suite.mockPeriodResolver.AssertNotCalled(suite.T(), "ResolveOpenPeriod", mock.Anything, mock.Anything, mock.Anything)
	suite.mockPostingRepo.AssertNotCalled(suite.T(), "SavePosting", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// --- ReverseTransaction ---

// newPostedTransaction builds an already-posted original ready for reversal.
func (suite *PostingServiceTestSuite) newPostedTransaction() *domain.Transaction {
	txn := suite.newDraftTransaction()
	postedAt := time.Now().UTC().Add(-24 * time.Hour)
	txn.Status = domain.StatusPosted
	txn.PostedAt = &postedAt
	return txn
}

func (suite *PostingServiceTestSuite) TestReverseTransaction_Success() {
	ctx := context.Background()
	original := suite.newPostedTransaction()
	req := dto.ReverseTransactionRequest{Reason: "Duplicate entry"}

	suite.mockTransactionRepo.On("FindTransactionByID", ctx, suite.companyID, original.TransactionID).Return(original, nil).Once()
	suite.mockPostingRepo.On("FindReversalLinkByReversing", ctx, suite.companyID, original.TransactionID).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockPostingRepo.On("FindReversalLinkByOriginal", ctx, suite.companyID, original.TransactionID).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockPeriodResolver.On("ResolveOpenPeriod", ctx, suite.companyID, original.TransactionDate).Return(&suite.openPeriod, nil).Once()
	suite.mockTaxGenerator.On("BuildTaxLines", ctx, suite.companyID, mock.Anything).Return([]domain.TaxLine{}, nil).Once()

	var savedReversing domain.Transaction
	var savedLink domain.ReversalLink
	var savedAudit domain.AuditEvent
	suite.mockPostingRepo.On("SaveReversal", ctx, mock.AnythingOfType("domain.Transaction"), mock.AnythingOfType("time.Time"), mock.AnythingOfType("[]domain.LedgerEntry"), mock.AnythingOfType("[]domain.TaxLine"), mock.AnythingOfType("domain.ReversalLink"), mock.AnythingOfType("domain.AuditEvent")).
		Run(func(args mock.Arguments) {
			savedReversing = args.Get(1).(domain.Transaction)
			savedLink = args.Get(5).(domain.ReversalLink)
			savedAudit = args.Get(6).(domain.AuditEvent)
		}).
		Return(nil).Once()

	reversing, err := suite.service.ReverseTransaction(ctx, suite.companyID, original.TransactionID, req, suite.actorID)

	suite.Require().NoError(err)
	suite.Require().NotNil(reversing)
	suite.NotEqual(original.TransactionID, reversing.TransactionID)
	suite.Equal(domain.StatusPosted, reversing.Status)
	suite.Equal(original.TransactionDate, reversing.TransactionDate)
	suite.Equal("Reversal of Office rent March", reversing.Description)
	suite.Require().NotNil(reversing.PostedAt)

	suite.Require().Len(savedReversing.Lines, 2)
	suite.Equal(domain.Credit, savedReversing.Lines[0].Direction)
	suite.Equal(domain.Debit, savedReversing.Lines[1].Direction)
	suite.True(savedReversing.Lines[0].Amount.Equal(original.Lines[0].Amount))
	suite.NotEqual(original.Lines[0].LineID, savedReversing.Lines[0].LineID)

	suite.Equal(original.TransactionID, savedLink.OriginalTransactionID)
	suite.Equal(reversing.TransactionID, savedLink.ReversingTransactionID)
	suite.Equal("Duplicate entry", savedLink.Reason)
	suite.Equal(domain.AuditTxnReversed, savedAudit.EventType)
	suite.Equal(original.TransactionID, savedAudit.EntityID)

	suite.mockPostingRepo.AssertExpectations(suite.T())
	suite.mockPeriodResolver.AssertExpectations(suite.T())
}

func (suite *PostingServiceTestSuite) TestReverseTransaction_NotPosted() {
	ctx := context.Background()
	draft := suite.newDraftTransaction()

	suite.mockTransactionRepo.On("FindTransactionByID", ctx, suite.companyID, draft.TransactionID).Return(draft, nil).Once()

	_, err := suite.service.ReverseTransaction(ctx, suite.companyID, draft.TransactionID, dto.ReverseTransactionRequest{}, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrNotPosted)
	suite.mockPostingRepo.AssertNotCalled(suite.T(), "SaveReversal", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PostingServiceTestSuite) TestReverseTransaction_OfReversal() {
	ctx := context.Background()
	original := suite.newPostedTransaction()
	link := &domain.ReversalLink{
		LinkID:                 uuid.NewString(),
		CompanyID:              suite.companyID,
		OriginalTransactionID:  uuid.NewString(),
		ReversingTransactionID: original.TransactionID,
	}

	suite.mockTransactionRepo.On("FindTransactionByID", ctx, suite.companyID, original.TransactionID).Return(original, nil).Once()
	suite.mockPostingRepo.On("FindReversalLinkByReversing", ctx, suite.companyID, original.TransactionID).Return(link, nil).Once()

	_, err := suite.service.ReverseTransaction(ctx, suite.companyID, original.TransactionID, dto.ReverseTransactionRequest{}, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrIsReversal)
	suite.mockPostingRepo.AssertNotCalled(suite.T(), "SaveReversal", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PostingServiceTestSuite) TestReverseTransaction_AlreadyReversed() {
	ctx := context.Background()
	original := suite.newPostedTransaction()
	link := &domain.ReversalLink{
		LinkID:                 uuid.NewString(),
		CompanyID:              suite.companyID,
		OriginalTransactionID:  original.TransactionID,
		ReversingTransactionID: uuid.NewString(),
	}

	suite.mockTransactionRepo.On("FindTransactionByID", ctx, suite.companyID, original.TransactionID).Return(original, nil).Once()
	suite.mockPostingRepo.On("FindReversalLinkByReversing", ctx, suite.companyID, original.TransactionID).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockPostingRepo.On("FindReversalLinkByOriginal", ctx, suite.companyID, original.TransactionID).Return(link, nil).Once()

	_, err := suite.service.ReverseTransaction(ctx, suite.companyID, original.TransactionID, dto.ReverseTransactionRequest{}, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrAlreadyReversed)
	suite.Contains(err.Error(), link.ReversingTransactionID)
}

func (suite *PostingServiceTestSuite) TestReverseTransaction_ConcurrentDuplicate() {
	ctx := context.Background()
	original := suite.newPostedTransaction()

	suite.mockTransactionRepo.On("FindTransactionByID", ctx, suite.companyID, original.TransactionID).Return(original, nil).Once()
	suite.mockPostingRepo.On("FindReversalLinkByReversing", ctx, suite.companyID, original.TransactionID).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockPostingRepo.On("FindReversalLinkByOriginal", ctx, suite.companyID, original.TransactionID).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockPeriodResolver.On("ResolveOpenPeriod", ctx, suite.companyID, original.TransactionDate).Return(&suite.openPeriod, nil).Once()
	suite.mockTaxGenerator.On("BuildTaxLines", ctx, suite.companyID, mock.Anything).Return([]domain.TaxLine{}, nil).Once()
	suite.mockPostingRepo.On("SaveReversal", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(apperrors.ErrDuplicate).Once()

	_, err := suite.service.ReverseTransaction(ctx, suite.companyID, original.TransactionID, dto.ReverseTransactionRequest{}, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrAlreadyReversed)
}

func (suite *PostingServiceTestSuite) TestReverseTransaction_RedirectedDate() {
	ctx := context.Background()
	original := suite.newPostedTransaction()
	redirected := "2025-04-02"
	redirectedDate := time.Date(2025, 4, 2, 0, 0, 0, 0, time.UTC)
	aprilPeriod := domain.Period{
		PeriodID:  uuid.NewString(),
		CompanyID: suite.companyID,
		Name:      "Apr 2025",
		StartDate: time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 4, 30, 0, 0, 0, 0, time.UTC),
		Status:    domain.PeriodOpen,
	}
	req := dto.ReverseTransactionRequest{Reason: "Posted into locked month", Date: &redirected}

	suite.mockTransactionRepo.On("FindTransactionByID", ctx, suite.companyID, original.TransactionID).Return(original, nil).Once()
	suite.mockPostingRepo.On("FindReversalLinkByReversing", ctx, suite.companyID, original.TransactionID).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockPostingRepo.On("FindReversalLinkByOriginal", ctx, suite.companyID, original.TransactionID).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockPeriodResolver.On("ResolveOpenPeriod", ctx, suite.companyID, redirectedDate).Return(&aprilPeriod, nil).Once()
	suite.mockTaxGenerator.On("BuildTaxLines", ctx, suite.companyID, mock.Anything).Return([]domain.TaxLine{}, nil).Once()

	var savedEntries []domain.LedgerEntry
	suite.mockPostingRepo.On("SaveReversal", ctx, mock.Anything, mock.Anything, mock.AnythingOfType("[]domain.LedgerEntry"), mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			savedEntries = args.Get(3).([]domain.LedgerEntry)
		}).
		Return(nil).Once()

	reversing, err := suite.service.ReverseTransaction(ctx, suite.companyID, original.TransactionID, req, suite.actorID)

	suite.Require().NoError(err)
	suite.Equal(redirectedDate, reversing.TransactionDate)
	suite.Require().Len(savedEntries, 2)
	for _, entry := range savedEntries {
		suite.Equal(redirectedDate, entry.EntryDate)
	}
	suite.mockPeriodResolver.AssertExpectations(suite.T())
}

func TestPostingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PostingServiceTestSuite))
}
