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

// --- Mock BankFeedRepository ---
type MockBankFeedRepository struct {
	mock.Mock
}

var _ portsrepo.BankFeedRepositoryFacade = (*MockBankFeedRepository)(nil)

func (m *MockBankFeedRepository) FindFeedItemByID(ctx context.Context, companyID string, itemID string) (*domain.BankFeedItem, error) {
	args := m.Called(ctx, companyID, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BankFeedItem), args.Error(1)
}

func (m *MockBankFeedRepository) ListFeedItems(ctx context.Context, companyID string, limit int, nextToken *string, bankAccountID *string, status *domain.FeedItemStatus) ([]domain.BankFeedItem, *string, error) {
	args := m.Called(ctx, companyID, limit, nextToken, bankAccountID, status)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.BankFeedItem), returnedNextToken, args.Error(2)
}

func (m *MockBankFeedRepository) SaveFeedItems(ctx context.Context, items []domain.BankFeedItem) error {
	args := m.Called(ctx, items)
	return args.Error(0)
}

func (m *MockBankFeedRepository) MatchEntryToFeedItem(ctx context.Context, companyID string, entryID string, itemID string, actorID string, now time.Time, audit domain.AuditEvent) error {
	args := m.Called(ctx, companyID, entryID, itemID, actorID, now, audit)
	return args.Error(0)
}

func (m *MockBankFeedRepository) UnmatchFeedItem(ctx context.Context, companyID string, itemID string, actorID string, now time.Time, audit domain.AuditEvent) error {
	args := m.Called(ctx, companyID, itemID, actorID, now, audit)
	return args.Error(0)
}

func (m *MockBankFeedRepository) ManualClearEntry(ctx context.Context, companyID string, entryID string, actorID string, now time.Time, audit domain.AuditEvent) error {
	args := m.Called(ctx, companyID, entryID, actorID, now, audit)
	return args.Error(0)
}

// --- Test Suite Setup ---
type ReconciliationServiceTestSuite struct {
	suite.Suite
	mockBankFeedRepo *MockBankFeedRepository
	mockLedgerRepo   *MockLedgerRepository
	mockAccountRepo  *MockAccountRepository
	service          *services.ReconciliationService
	companyID        string
	actorID          string
	bankAccount      domain.Account
	expenseAccount   domain.Account
}

func (suite *ReconciliationServiceTestSuite) SetupTest() {
	suite.mockBankFeedRepo = new(MockBankFeedRepository)
	suite.mockLedgerRepo = new(MockLedgerRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.service = services.NewReconciliationService(
		suite.mockBankFeedRepo,
		suite.mockLedgerRepo,
		suite.mockAccountRepo,
	)

	suite.companyID = uuid.NewString()
	suite.actorID = uuid.NewString()

	suite.bankAccount = domain.Account{
		AccountID:   uuid.NewString(),
		CompanyID:   suite.companyID,
		Code:        "1000",
		Name:        "Business Account",
		AccountType: domain.Asset,
		ControlRole: domain.ControlBank,
		IsActive:    true,
	}
	suite.expenseAccount = domain.Account{
		AccountID:   uuid.NewString(),
		CompanyID:   suite.companyID,
		Code:        "6000",
		Name:        "Rent",
		AccountType: domain.Expense,
		ControlRole: domain.ControlNone,
		IsActive:    true,
	}
}

// newFeedItem builds an unmatched statement line on the bank account. Amount
// is signed: positive is money in.
func (suite *ReconciliationServiceTestSuite) newFeedItem(amount string) *domain.BankFeedItem {
	return &domain.BankFeedItem{
		ItemID:        uuid.NewString(),
		CompanyID:     suite.companyID,
		BankAccountID: suite.bankAccount.AccountID,
		ItemDate:      time.Date(2025, 3, 18, 0, 0, 0, 0, time.UTC),
		Amount:        decimal.RequireFromString(amount),
		Payee:         "Acme Ltd",
		Reference:     "INV-0042",
		Status:        domain.FeedUnmatched,
		AuditFields:   domain.NewAuditFields(suite.actorID, time.Now().UTC()),
	}
}

// newBankEntry builds an unreconciled ledger entry on the bank account.
func (suite *ReconciliationServiceTestSuite) newBankEntry(amountDr string, amountCr string) *domain.LedgerEntry {
	return &domain.LedgerEntry{
		EntryID:              uuid.NewString(),
		CompanyID:            suite.companyID,
		TransactionID:        uuid.NewString(),
		LineID:               uuid.NewString(),
		AccountID:            suite.bankAccount.AccountID,
		EntryDate:            time.Date(2025, 3, 18, 0, 0, 0, 0, time.UTC),
		AmountDr:             decimal.RequireFromString(amountDr),
		AmountCr:             decimal.RequireFromString(amountCr),
		ReconciliationStatus: domain.ReconUnreconciled,
		CreatedAt:            time.Now().UTC(),
		CreatedBy:            suite.actorID,
	}
}

// --- ImportFeedItems ---

func (suite *ReconciliationServiceTestSuite) TestImportFeedItems_Success() {
	ctx := context.Background()
	req := dto.ImportFeedItemsRequest{Items: []dto.ImportFeedItemRequest{
		{BankAccountID: suite.bankAccount.AccountID, ItemDate: "2025-03-18", Amount: decimal.RequireFromString("100.00"), Payee: "Acme Ltd", Reference: "INV-0042"},
		{BankAccountID: suite.bankAccount.AccountID, ItemDate: "2025-03-19", Amount: decimal.RequireFromString("-45.50"), Payee: "City Power"},
	}}

	// Both lines reference the same bank account; it is validated once.
	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.companyID, suite.bankAccount.AccountID).Return(&suite.bankAccount, nil).Once()

	var savedItems []domain.BankFeedItem
	suite.mockBankFeedRepo.On("SaveFeedItems", ctx, mock.AnythingOfType("[]domain.BankFeedItem")).
		Run(func(args mock.Arguments) {
			savedItems = args.Get(1).([]domain.BankFeedItem)
		}).
		Return(nil).Once()

	items, err := suite.service.ImportFeedItems(ctx, suite.companyID, req, suite.actorID)

	suite.Require().NoError(err)
	suite.Require().Len(items, 2)
	suite.Require().Len(savedItems, 2)
	suite.NotEmpty(savedItems[0].ItemID)
	suite.Equal(domain.FeedUnmatched, savedItems[0].Status)
	suite.Equal(time.Date(2025, 3, 18, 0, 0, 0, 0, time.UTC), savedItems[0].ItemDate)
	suite.True(savedItems[1].Amount.Equal(decimal.RequireFromString("-45.50")))
	suite.Equal(suite.actorID, savedItems[0].CreatedBy)

	suite.mockAccountRepo.AssertExpectations(suite.T())
	suite.mockBankFeedRepo.AssertExpectations(suite.T())
}

func (suite *ReconciliationServiceTestSuite) TestImportFeedItems_NotBankAccount() {
	ctx := context.Background()
	req := dto.ImportFeedItemsRequest{Items: []dto.ImportFeedItemRequest{
		{BankAccountID: suite.expenseAccount.AccountID, ItemDate: "2025-03-18", Amount: decimal.RequireFromString("100.00")},
	}}

	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.companyID, suite.expenseAccount.AccountID).Return(&suite.expenseAccount, nil).Once()

	items, err := suite.service.ImportFeedItems(ctx, suite.companyID, req, suite.actorID)

	suite.Require().Error(err)
	suite.Nil(items)
	suite.ErrorIs(err, services.ErrNotBankAccount)
	suite.mockBankFeedRepo.AssertNotCalled(suite.T(), "SaveFeedItems", mock.Anything, mock.Anything)
}

func (suite *ReconciliationServiceTestSuite) TestImportFeedItems_InvalidDate() {
	ctx := context.Background()
	req := dto.ImportFeedItemsRequest{Items: []dto.ImportFeedItemRequest{
		{BankAccountID: suite.bankAccount.AccountID, ItemDate: "18/03/2025", Amount: decimal.RequireFromString("100.00")},
	}}

	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.companyID, suite.bankAccount.AccountID).Return(&suite.bankAccount, nil).Once()

	items, err := suite.service.ImportFeedItems(ctx, suite.companyID, req, suite.actorID)

	suite.Require().Error(err)
	suite.Nil(items)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

// --- MatchEntry ---

func (suite *ReconciliationServiceTestSuite) TestMatchEntry_MoneyInMatchesDebit() {
	ctx := context.Background()
	item := suite.newFeedItem("100.00")
	entry := suite.newBankEntry("100.00", "0")

	suite.mockBankFeedRepo.On("FindFeedItemByID", ctx, suite.companyID, item.ItemID).Return(item, nil).Once()
	suite.mockLedgerRepo.On("FindEntryByID", ctx, suite.companyID, entry.EntryID).Return(entry, nil).Once()

	var savedAudit domain.AuditEvent
	suite.mockBankFeedRepo.On("MatchEntryToFeedItem", ctx, suite.companyID, entry.EntryID, item.ItemID, suite.actorID, mock.AnythingOfType("time.Time"), mock.AnythingOfType("domain.AuditEvent")).
		Run(func(args mock.Arguments) {
			savedAudit = args.Get(6).(domain.AuditEvent)
		}).
		Return(nil).Once()

	err := suite.service.MatchEntry(ctx, suite.companyID, item.ItemID, dto.MatchEntryRequest{EntryID: entry.EntryID}, suite.actorID)

	suite.Require().NoError(err)
	suite.Equal(domain.AuditEntryMatched, savedAudit.EventType)
	suite.Equal("LEDGER_ENTRY", savedAudit.EntityType)
	suite.Equal(entry.EntryID, savedAudit.EntityID)
	suite.Contains(savedAudit.Summary, item.ItemID)

	suite.mockBankFeedRepo.AssertExpectations(suite.T())
	suite.mockLedgerRepo.AssertExpectations(suite.T())
}

func (suite *ReconciliationServiceTestSuite) TestMatchEntry_MoneyOutMatchesCredit() {
	ctx := context.Background()
	item := suite.newFeedItem("-80.00")
	entry := suite.newBankEntry("0", "80.00")

	suite.mockBankFeedRepo.On("FindFeedItemByID", ctx, suite.companyID, item.ItemID).Return(item, nil).Once()
	suite.mockLedgerRepo.On("FindEntryByID", ctx, suite.companyID, entry.EntryID).Return(entry, nil).Once()
	suite.mockBankFeedRepo.On("MatchEntryToFeedItem", ctx, suite.companyID, entry.EntryID, item.ItemID, suite.actorID, mock.AnythingOfType("time.Time"), mock.AnythingOfType("domain.AuditEvent")).Return(nil).Once()

	err := suite.service.MatchEntry(ctx, suite.companyID, item.ItemID, dto.MatchEntryRequest{EntryID: entry.EntryID}, suite.actorID)

	suite.Require().NoError(err)
	suite.mockBankFeedRepo.AssertExpectations(suite.T())
}

func (suite *ReconciliationServiceTestSuite) TestMatchEntry_ItemAlreadyMatched() {
	ctx := context.Background()
	item := suite.newFeedItem("100.00")
	matchedEntryID := uuid.NewString()
	item.Status = domain.FeedMatched
	item.MatchedEntryID = &matchedEntryID

	suite.mockBankFeedRepo.On("FindFeedItemByID", ctx, suite.companyID, item.ItemID).Return(item, nil).Once()

	err := suite.service.MatchEntry(ctx, suite.companyID, item.ItemID, dto.MatchEntryRequest{EntryID: uuid.NewString()}, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrFeedItemMatched)
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "FindEntryByID", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ReconciliationServiceTestSuite) TestMatchEntry_EntryReconciled() {
	ctx := context.Background()
	item := suite.newFeedItem("100.00")
	entry := suite.newBankEntry("100.00", "0")
	entry.ReconciliationStatus = domain.ReconReconciled

	suite.mockBankFeedRepo.On("FindFeedItemByID", ctx, suite.companyID, item.ItemID).Return(item, nil).Once()
	suite.mockLedgerRepo.On("FindEntryByID", ctx, suite.companyID, entry.EntryID).Return(entry, nil).Once()

	err := suite.service.MatchEntry(ctx, suite.companyID, item.ItemID, dto.MatchEntryRequest{EntryID: entry.EntryID}, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrEntryReconciled)
}

func (suite *ReconciliationServiceTestSuite) TestMatchEntry_WrongBankAccount() {
	ctx := context.Background()
	item := suite.newFeedItem("100.00")
	entry := suite.newBankEntry("100.00", "0")
	entry.AccountID = suite.expenseAccount.AccountID

	suite.mockBankFeedRepo.On("FindFeedItemByID", ctx, suite.companyID, item.ItemID).Return(item, nil).Once()
	suite.mockLedgerRepo.On("FindEntryByID", ctx, suite.companyID, entry.EntryID).Return(entry, nil).Once()

	err := suite.service.MatchEntry(ctx, suite.companyID, item.ItemID, dto.MatchEntryRequest{EntryID: entry.EntryID}, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrWrongBankAccount)
}

func (suite *ReconciliationServiceTestSuite) TestMatchEntry_MoneyInAgainstCredit() {
	ctx := context.Background()
	item := suite.newFeedItem("100.00")
	entry := suite.newBankEntry("0", "100.00")

	suite.mockBankFeedRepo.On("FindFeedItemByID", ctx, suite.companyID, item.ItemID).Return(item, nil).Once()
	suite.mockLedgerRepo.On("FindEntryByID", ctx, suite.companyID, entry.EntryID).Return(entry, nil).Once()

	err := suite.service.MatchEntry(ctx, suite.companyID, item.ItemID, dto.MatchEntryRequest{EntryID: entry.EntryID}, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrAmountMismatch)
	suite.mockBankFeedRepo.AssertNotCalled(suite.T(), "MatchEntryToFeedItem", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ReconciliationServiceTestSuite) TestMatchEntry_MagnitudeMismatch() {
	ctx := context.Background()
	item := suite.newFeedItem("-80.00")
	entry := suite.newBankEntry("0", "75.00")

	suite.mockBankFeedRepo.On("FindFeedItemByID", ctx, suite.companyID, item.ItemID).Return(item, nil).Once()
	suite.mockLedgerRepo.On("FindEntryByID", ctx, suite.companyID, entry.EntryID).Return(entry, nil).Once()

	err := suite.service.MatchEntry(ctx, suite.companyID, item.ItemID, dto.MatchEntryRequest{EntryID: entry.EntryID}, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrAmountMismatch)
}

func (suite *ReconciliationServiceTestSuite) TestMatchEntry_ConcurrentConflict() {
	ctx := context.Background()
	item := suite.newFeedItem("100.00")
	entry := suite.newBankEntry("100.00", "0")

	suite.mockBankFeedRepo.On("FindFeedItemByID", ctx, suite.companyID, item.ItemID).Return(item, nil).Once()
	suite.mockLedgerRepo.On("FindEntryByID", ctx, suite.companyID, entry.EntryID).Return(entry, nil).Once()
	suite.mockBankFeedRepo.On("MatchEntryToFeedItem", ctx, suite.companyID, entry.EntryID, item.ItemID, suite.actorID, mock.AnythingOfType("time.Time"), mock.AnythingOfType("domain.AuditEvent")).
		Return(apperrors.ErrConflict).Once()

	err := suite.service.MatchEntry(ctx, suite.companyID, item.ItemID, dto.MatchEntryRequest{EntryID: entry.EntryID}, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
}

// --- UnmatchItem ---

func (suite *ReconciliationServiceTestSuite) TestUnmatchItem_Success() {
	ctx := context.Background()
	item := suite.newFeedItem("100.00")
	matchedEntryID := uuid.NewString()
	item.Status = domain.FeedMatched
	item.MatchedEntryID = &matchedEntryID

	suite.mockBankFeedRepo.On("FindFeedItemByID", ctx, suite.companyID, item.ItemID).Return(item, nil).Once()

	var savedAudit domain.AuditEvent
	suite.mockBankFeedRepo.On("UnmatchFeedItem", ctx, suite.companyID, item.ItemID, suite.actorID, mock.AnythingOfType("time.Time"), mock.AnythingOfType("domain.AuditEvent")).
		Run(func(args mock.Arguments) {
			savedAudit = args.Get(5).(domain.AuditEvent)
		}).
		Return(nil).Once()

	err := suite.service.UnmatchItem(ctx, suite.companyID, item.ItemID, suite.actorID)

	suite.Require().NoError(err)
	suite.Equal(domain.AuditEntryUnmatched, savedAudit.EventType)
	suite.Equal(matchedEntryID, savedAudit.EntityID)
	suite.mockBankFeedRepo.AssertExpectations(suite.T())
}

func (suite *ReconciliationServiceTestSuite) TestUnmatchItem_NotMatched() {
	ctx := context.Background()
	item := suite.newFeedItem("100.00")

	suite.mockBankFeedRepo.On("FindFeedItemByID", ctx, suite.companyID, item.ItemID).Return(item, nil).Once()

	err := suite.service.UnmatchItem(ctx, suite.companyID, item.ItemID, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrFeedItemNotMatched)
	suite.mockBankFeedRepo.AssertNotCalled(suite.T(), "UnmatchFeedItem", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// --- ManualClearEntry ---

func (suite *ReconciliationServiceTestSuite) TestManualClearEntry_Success() {
	ctx := context.Background()
	entry := suite.newBankEntry("0", "45.50")

	suite.mockLedgerRepo.On("FindEntryByID", ctx, suite.companyID, entry.EntryID).Return(entry, nil).Once()
	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.companyID, suite.bankAccount.AccountID).Return(&suite.bankAccount, nil).Once()

	var savedAudit domain.AuditEvent
	suite.mockBankFeedRepo.On("ManualClearEntry", ctx, suite.companyID, entry.EntryID, suite.actorID, mock.AnythingOfType("time.Time"), mock.AnythingOfType("domain.AuditEvent")).
		Run(func(args mock.Arguments) {
			savedAudit = args.Get(5).(domain.AuditEvent)
		}).
		Return(nil).Once()

	err := suite.service.ManualClearEntry(ctx, suite.companyID, entry.EntryID, suite.actorID)

	suite.Require().NoError(err)
	suite.Equal(domain.AuditEntryCleared, savedAudit.EventType)
	suite.Equal(entry.EntryID, savedAudit.EntityID)
	suite.mockBankFeedRepo.AssertExpectations(suite.T())
}

func (suite *ReconciliationServiceTestSuite) TestManualClearEntry_NotBankAccount() {
	ctx := context.Background()
	entry := suite.newBankEntry("100.00", "0")
	entry.AccountID = suite.expenseAccount.AccountID

	suite.mockLedgerRepo.On("FindEntryByID", ctx, suite.companyID, entry.EntryID).Return(entry, nil).Once()
	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.companyID, suite.expenseAccount.AccountID).Return(&suite.expenseAccount, nil).Once()

	err := suite.service.ManualClearEntry(ctx, suite.companyID, entry.EntryID, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrNotBankAccount)
	suite.mockBankFeedRepo.AssertNotCalled(suite.T(), "ManualClearEntry", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ReconciliationServiceTestSuite) TestManualClearEntry_AlreadyReconciled() {
	ctx := context.Background()
	entry := suite.newBankEntry("100.00", "0")
	entry.ReconciliationStatus = domain.ReconManualCleared

	suite.mockLedgerRepo.On("FindEntryByID", ctx, suite.companyID, entry.EntryID).Return(entry, nil).Once()

	err := suite.service.ManualClearEntry(ctx, suite.companyID, entry.EntryID, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrEntryReconciled)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "FindAccountByID", mock.Anything, mock.Anything, mock.Anything)
}

// --- SuggestMatches ---

func (suite *ReconciliationServiceTestSuite) TestSuggestMatches_OrdersByScore() {
	ctx := context.Background()
	item := suite.newFeedItem("100.00")

	sameDay := suite.newBankEntry("100.00", "0")
	nearMiss := suite.newBankEntry("100.00", "0")
	nearMiss.EntryDate = time.Date(2025, 3, 17, 0, 0, 0, 0, time.UTC)
	farOff := suite.newBankEntry("100.00", "0")
	farOff.EntryDate = time.Date(2025, 3, 21, 0, 0, 0, 0, time.UTC)

	candidates := []domain.MatchCandidate{
		{Entry: *farOff, Description: "Counter deposit"},
		{Entry: *nearMiss, Description: "Acme refund"},
		{Entry: *sameDay, Description: "Payment from Acme Ltd"},
	}

	suite.mockBankFeedRepo.On("FindFeedItemByID", ctx, suite.companyID, item.ItemID).Return(item, nil).Once()
	suite.mockLedgerRepo.On("FindMatchCandidates", ctx, suite.companyID, suite.bankAccount.AccountID, decimal.RequireFromString("100.00"), true, item.ItemDate, 7).
		Return(candidates, nil).Once()

	result, err := suite.service.SuggestMatches(ctx, suite.companyID, item.ItemID, 10)

	suite.Require().NoError(err)
	suite.Require().Len(result, 3)
	// Same-day entry with full payee overlap first, then the close date with
	// partial overlap, then the distant deposit with none.
	suite.Equal(sameDay.EntryID, result[0].Entry.EntryID)
	suite.Equal(nearMiss.EntryID, result[1].Entry.EntryID)
	suite.Equal(farOff.EntryID, result[2].Entry.EntryID)
	suite.Greater(result[0].Score, result[1].Score)
	suite.Greater(result[1].Score, result[2].Score)
}

func (suite *ReconciliationServiceTestSuite) TestSuggestMatches_AppliesDefaultLimit() {
	ctx := context.Background()
	item := suite.newFeedItem("-20.00")

	candidates := make([]domain.MatchCandidate, 0, 6)
	for i := 0; i < 6; i++ {
		entry := suite.newBankEntry("0", "20.00")
		candidates = append(candidates, domain.MatchCandidate{Entry: *entry})
	}

	suite.mockBankFeedRepo.On("FindFeedItemByID", ctx, suite.companyID, item.ItemID).Return(item, nil).Once()
	suite.mockLedgerRepo.On("FindMatchCandidates", ctx, suite.companyID, suite.bankAccount.AccountID, decimal.RequireFromString("20.00"), false, item.ItemDate, 7).
		Return(candidates, nil).Once()

	result, err := suite.service.SuggestMatches(ctx, suite.companyID, item.ItemID, 0)

	suite.Require().NoError(err)
	suite.Len(result, 5)
	suite.Equal(candidates[0].Entry.EntryID, result[0].Entry.EntryID)
}

func (suite *ReconciliationServiceTestSuite) TestSuggestMatches_ItemAlreadyMatched() {
	ctx := context.Background()
	item := suite.newFeedItem("100.00")
	matchedEntryID := uuid.NewString()
	item.Status = domain.FeedMatched
	item.MatchedEntryID = &matchedEntryID

	suite.mockBankFeedRepo.On("FindFeedItemByID", ctx, suite.companyID, item.ItemID).Return(item, nil).Once()

	result, err := suite.service.SuggestMatches(ctx, suite.companyID, item.ItemID, 5)

	suite.Require().Error(err)
	suite.Nil(result)
	suite.ErrorIs(err, services.ErrFeedItemMatched)
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "FindMatchCandidates", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestReconciliationServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReconciliationServiceTestSuite))
}
