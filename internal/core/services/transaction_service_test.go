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
	portssvc "github.com/keabooks/kea_books_app/internal/core/ports/services"
	"github.com/keabooks/kea_books_app/internal/core/services"
	"github.com/keabooks/kea_books_app/internal/dto"
)

// --- Test Suite Setup ---
type TransactionServiceTestSuite struct {
	suite.Suite
	mockTransactionRepo *MockTransactionRepository
	mockPostingRepo     *MockPostingRepository
	service             portssvc.TransactionSvcFacade
	companyID           string
	actorID             string
}

func (suite *TransactionServiceTestSuite) SetupTest() {
	suite.mockTransactionRepo = new(MockTransactionRepository)
	suite.mockPostingRepo = new(MockPostingRepository)
	suite.service = services.NewTransactionService(suite.mockTransactionRepo, suite.mockPostingRepo)
	suite.companyID = uuid.NewString()
	suite.actorID = uuid.NewString()
}

func (suite *TransactionServiceTestSuite) newDraft() *domain.Transaction {
	txnID := uuid.NewString()
	return &domain.Transaction{
		TransactionID:   txnID,
		CompanyID:       suite.companyID,
		TransactionType: domain.TxnJournal,
		TransactionDate: time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC),
		Description:     "Stationery order",
		Status:          domain.StatusDraft,
		Lines: []domain.TransactionLine{
			{LineID: uuid.NewString(), TransactionID: txnID, AccountID: uuid.NewString(), Amount: decimal.NewFromInt(40), Direction: domain.Debit},
			{LineID: uuid.NewString(), TransactionID: txnID, AccountID: uuid.NewString(), Amount: decimal.NewFromInt(40), Direction: domain.Credit},
		},
		AuditFields: domain.NewAuditFields(suite.actorID, time.Now().UTC()),
	}
}

// --- CreateDraft ---

func (suite *TransactionServiceTestSuite) TestCreateDraft_Success() {
	ctx := context.Background()
	accountID := uuid.NewString()
	req := dto.CreateTransactionRequest{
		TransactionType: "JOURNAL",
		TransactionDate: "2025-03-12",
		Description:     "Stationery order",
		Lines: []dto.CreateTransactionLineRequest{
			{AccountID: accountID, Amount: decimal.NewFromInt(40), Direction: "DEBIT"},
		},
	}

	var saved domain.Transaction
	suite.mockTransactionRepo.On("SaveTransaction", ctx, mock.AnythingOfType("domain.Transaction")).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).(domain.Transaction)
		}).
		Return(nil).Once()

	created, err := suite.service.CreateDraft(ctx, suite.companyID, req, suite.actorID)

	suite.Require().NoError(err)
	suite.Require().NotNil(created)
	suite.NotEmpty(created.TransactionID)
	suite.Equal(domain.StatusDraft, created.Status)
	suite.Equal(domain.TxnJournal, created.TransactionType)
	suite.Equal(time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC), created.TransactionDate)
	suite.Nil(created.PostedAt)

	suite.Require().Len(saved.Lines, 1)
	suite.NotEmpty(saved.Lines[0].LineID)
	suite.Equal(saved.TransactionID, saved.Lines[0].TransactionID)
	suite.Equal(accountID, saved.Lines[0].AccountID)
	suite.Equal(domain.Debit, saved.Lines[0].Direction)
	suite.mockTransactionRepo.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestCreateDraft_AllowsUnbalancedLines() {
	ctx := context.Background()
	req := dto.CreateTransactionRequest{
		TransactionType: "PAYMENT",
		TransactionDate: "2025-03-12",
		Description:     "Incomplete draft",
		Lines: []dto.CreateTransactionLineRequest{
			{AccountID: uuid.NewString(), Amount: decimal.NewFromInt(40), Direction: "DEBIT"},
			{AccountID: uuid.NewString(), Amount: decimal.NewFromInt(25), Direction: "CREDIT"},
		},
	}

	suite.mockTransactionRepo.On("SaveTransaction", ctx, mock.AnythingOfType("domain.Transaction")).Return(nil).Once()

	created, err := suite.service.CreateDraft(ctx, suite.companyID, req, suite.actorID)

	// Balance is enforced at posting time, not while drafting.
	suite.Require().NoError(err)
	suite.Len(created.Lines, 2)
}

func (suite *TransactionServiceTestSuite) TestCreateDraft_InvalidDate() {
	ctx := context.Background()
	req := dto.CreateTransactionRequest{
		TransactionType: "JOURNAL",
		TransactionDate: "12/03/2025",
		Description:     "Bad date",
	}

	_, err := suite.service.CreateDraft(ctx, suite.companyID, req, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockTransactionRepo.AssertNotCalled(suite.T(), "SaveTransaction", mock.Anything, mock.Anything)
}

// --- UpdateDraft ---

func (suite *TransactionServiceTestSuite) TestUpdateDraft_ReplacesLines() {
	ctx := context.Background()
	draft := suite.newDraft()
	newDescription := "Stationery order (corrected)"
	newLines := []dto.CreateTransactionLineRequest{
		{AccountID: uuid.NewString(), Amount: decimal.NewFromInt(55), Direction: "DEBIT"},
		{AccountID: uuid.NewString(), Amount: decimal.NewFromInt(55), Direction: "CREDIT"},
	}
	req := dto.UpdateTransactionRequest{Description: &newDescription, Lines: &newLines}

	suite.mockTransactionRepo.On("FindTransactionByID", ctx, suite.companyID, draft.TransactionID).Return(draft, nil).Once()

	var saved domain.Transaction
	suite.mockTransactionRepo.On("UpdateDraftTransaction", ctx, mock.AnythingOfType("domain.Transaction")).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).(domain.Transaction)
		}).
		Return(nil).Once()

	updated, err := suite.service.UpdateDraft(ctx, suite.companyID, draft.TransactionID, req, suite.actorID)

	suite.Require().NoError(err)
	suite.Equal(newDescription, updated.Description)
	suite.Require().Len(saved.Lines, 2)
	suite.True(saved.Lines[0].Amount.Equal(decimal.NewFromInt(55)))
	suite.Equal(suite.actorID, saved.LastUpdatedBy)
	suite.mockTransactionRepo.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestUpdateDraft_NotDraft() {
	ctx := context.Background()
	posted := suite.newDraft()
	posted.Status = domain.StatusPosted

	suite.mockTransactionRepo.On("FindTransactionByID", ctx, suite.companyID, posted.TransactionID).Return(posted, nil).Once()

	_, err := suite.service.UpdateDraft(ctx, suite.companyID, posted.TransactionID, dto.UpdateTransactionRequest{}, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrNotDraft)
	suite.mockTransactionRepo.AssertNotCalled(suite.T(), "UpdateDraftTransaction", mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestUpdateDraft_PostedInBetween() {
	ctx := context.Background()
	draft := suite.newDraft()

	suite.mockTransactionRepo.On("FindTransactionByID", ctx, suite.companyID, draft.TransactionID).Return(draft, nil).Once()
	// The guarded update loses against a concurrent posting.
	suite.mockTransactionRepo.On("UpdateDraftTransaction", ctx, mock.Anything).Return(apperrors.ErrConflict).Once()

	_, err := suite.service.UpdateDraft(ctx, suite.companyID, draft.TransactionID, dto.UpdateTransactionRequest{}, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrNotDraft)
}

// --- VoidDraft / DeleteDraft ---

func (suite *TransactionServiceTestSuite) TestVoidDraft_Success() {
	ctx := context.Background()
	txnID := uuid.NewString()

	suite.mockTransactionRepo.On("VoidDraftTransaction", ctx, suite.companyID, txnID, suite.actorID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	err := suite.service.VoidDraft(ctx, suite.companyID, txnID, suite.actorID)

	suite.Require().NoError(err)
	suite.mockTransactionRepo.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestVoidDraft_NotDraft() {
	ctx := context.Background()
	txnID := uuid.NewString()

	suite.mockTransactionRepo.On("VoidDraftTransaction", ctx, suite.companyID, txnID, suite.actorID, mock.Anything).Return(apperrors.ErrConflict).Once()

	err := suite.service.VoidDraft(ctx, suite.companyID, txnID, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrNotDraft)
}

func (suite *TransactionServiceTestSuite) TestDeleteDraft_NotDraft() {
	ctx := context.Background()
	txnID := uuid.NewString()

	suite.mockTransactionRepo.On("DeleteDraftTransaction", ctx, suite.companyID, txnID).Return(apperrors.ErrConflict).Once()

	err := suite.service.DeleteDraft(ctx, suite.companyID, txnID, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrNotDraft)
}

// --- GetTransactionByID ---

func (suite *TransactionServiceTestSuite) TestGetTransactionByID_DraftSkipsLinkLookup() {
	ctx := context.Background()
	draft := suite.newDraft()

	suite.mockTransactionRepo.On("FindTransactionByID", ctx, suite.companyID, draft.TransactionID).Return(draft, nil).Once()

	resp, err := suite.service.GetTransactionByID(ctx, suite.companyID, draft.TransactionID)

	suite.Require().NoError(err)
	suite.Equal(draft.TransactionID, resp.TransactionID)
	suite.Equal("2025-03-12", resp.TransactionDate)
	suite.Nil(resp.ReversedByTransactionID)
	suite.Nil(resp.ReversesTransactionID)
	suite.mockPostingRepo.AssertNotCalled(suite.T(), "FindReversalLinkByOriginal", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestGetTransactionByID_ResolvesReversalLinkage() {
	ctx := context.Background()
	posted := suite.newDraft()
	postedAt := time.Now().UTC()
	posted.Status = domain.StatusPosted
	posted.PostedAt = &postedAt
	reversingID := uuid.NewString()
	link := &domain.ReversalLink{
		LinkID:                 uuid.NewString(),
		CompanyID:              suite.companyID,
		OriginalTransactionID:  posted.TransactionID,
		ReversingTransactionID: reversingID,
	}

	suite.mockTransactionRepo.On("FindTransactionByID", ctx, suite.companyID, posted.TransactionID).Return(posted, nil).Once()
	suite.mockPostingRepo.On("FindReversalLinkByOriginal", ctx, suite.companyID, posted.TransactionID).Return(link, nil).Once()
	suite.mockPostingRepo.On("FindReversalLinkByReversing", ctx, suite.companyID, posted.TransactionID).Return(nil, apperrors.ErrNotFound).Once()

	resp, err := suite.service.GetTransactionByID(ctx, suite.companyID, posted.TransactionID)

	suite.Require().NoError(err)
	suite.Require().NotNil(resp.ReversedByTransactionID)
	suite.Equal(reversingID, *resp.ReversedByTransactionID)
	suite.Nil(resp.ReversesTransactionID)
	suite.mockPostingRepo.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestGetTransactionByID_NotFound() {
	ctx := context.Background()
	txnID := uuid.NewString()

	suite.mockTransactionRepo.On("FindTransactionByID", ctx, suite.companyID, txnID).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.GetTransactionByID(ctx, suite.companyID, txnID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

// --- ListTransactions ---

func (suite *TransactionServiceTestSuite) TestListTransactions_ForwardsFiltersAndToken() {
	ctx := context.Background()
	statusFilter := "POSTED"
	typeFilter := "RECEIPT"
	params := dto.ListTransactionsParams{
		Status:          &statusFilter,
		TransactionType: &typeFilter,
		Limit:           10,
		NextToken:       "opaque-token",
	}
	txns := []domain.Transaction{*suite.newDraft()}

	expectedStatus := domain.StatusPosted
	expectedType := domain.TxnReceipt
	suite.mockTransactionRepo.On("ListTransactions", ctx, suite.companyID, 10, &params.NextToken, &expectedStatus, &expectedType).Return(txns, "next-page", nil).Once()

	resp, err := suite.service.ListTransactions(ctx, suite.companyID, params)

	suite.Require().NoError(err)
	suite.Len(resp.Items, 1)
	suite.Equal("next-page", resp.NextPageToken)
	suite.mockTransactionRepo.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestListTransactions_LastPage() {
	ctx := context.Background()
	params := dto.ListTransactionsParams{Limit: 20}

	suite.mockTransactionRepo.On("ListTransactions", ctx, suite.companyID, 20, (*string)(nil), (*domain.TransactionStatus)(nil), (*domain.TransactionType)(nil)).Return([]domain.Transaction{}, nil, nil).Once()

	resp, err := suite.service.ListTransactions(ctx, suite.companyID, params)

	suite.Require().NoError(err)
	suite.Empty(resp.Items)
	suite.Empty(resp.NextPageToken)
}

func TestTransactionServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TransactionServiceTestSuite))
}
