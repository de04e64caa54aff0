package handlers

// Route registration is unexported, so this suite lives inside the handlers
// package. It runs requests through the same group nesting and actor
// middleware main.go sets up.

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/keabooks/kea_books_app/internal/apperrors"
	"github.com/keabooks/kea_books_app/internal/core/domain"
	portssvc "github.com/keabooks/kea_books_app/internal/core/ports/services"
	"github.com/keabooks/kea_books_app/internal/core/services"
	"github.com/keabooks/kea_books_app/internal/dto"
	"github.com/keabooks/kea_books_app/internal/middleware"
)

// --- Mock TransactionService ---
type MockTransactionService struct {
	mock.Mock
}

func (m *MockTransactionService) CreateDraft(ctx context.Context, companyID string, req dto.CreateTransactionRequest, actorID string) (*domain.Transaction, error) {
	args := m.Called(ctx, companyID, req, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionService) UpdateDraft(ctx context.Context, companyID string, transactionID string, req dto.UpdateTransactionRequest, actorID string) (*domain.Transaction, error) {
	args := m.Called(ctx, companyID, transactionID, req, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionService) VoidDraft(ctx context.Context, companyID string, transactionID string, actorID string) error {
	args := m.Called(ctx, companyID, transactionID, actorID)
	return args.Error(0)
}

func (m *MockTransactionService) DeleteDraft(ctx context.Context, companyID string, transactionID string, actorID string) error {
	args := m.Called(ctx, companyID, transactionID, actorID)
	return args.Error(0)
}

func (m *MockTransactionService) GetTransactionByID(ctx context.Context, companyID string, transactionID string) (*dto.TransactionResponse, error) {
	args := m.Called(ctx, companyID, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.TransactionResponse), args.Error(1)
}

func (m *MockTransactionService) ListTransactions(ctx context.Context, companyID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	args := m.Called(ctx, companyID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListTransactionsResponse), args.Error(1)
}

// Ensure mock implements the interface
var _ portssvc.TransactionSvcFacade = (*MockTransactionService)(nil)

// --- Mock PostingService ---
type MockPostingService struct {
	mock.Mock
}

func (m *MockPostingService) ValidateTransaction(ctx context.Context, companyID string, transactionID string) error {
	args := m.Called(ctx, companyID, transactionID)
	return args.Error(0)
}

func (m *MockPostingService) PostTransaction(ctx context.Context, companyID string, transactionID string, actorID string) (*domain.Transaction, error) {
	args := m.Called(ctx, companyID, transactionID, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockPostingService) ReverseTransaction(ctx context.Context, companyID string, transactionID string, req dto.ReverseTransactionRequest, actorID string) (*domain.Transaction, error) {
	args := m.Called(ctx, companyID, transactionID, req, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

// Ensure mock implements the interface
var _ portssvc.PostingSvcFacade = (*MockPostingService)(nil)

// --- Test Suite ---
type TransactionHandlerTestSuite struct {
	suite.Suite
	router                 *gin.Engine
	mockTransactionService *MockTransactionService
	mockPostingService     *MockPostingService
	companyID              string
	actorID                string
}

func (suite *TransactionHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()

	suite.mockTransactionService = new(MockTransactionService)
	suite.mockPostingService = new(MockPostingService)
	suite.companyID = uuid.NewString()
	suite.actorID = uuid.NewString()

	// Mimic the real grouping: actor middleware on the v1 group, transaction
	// routes nested under a company.
	v1 := suite.router.Group("/api/v1", middleware.RequireActor())
	companies := v1.Group("/companies/:company_id")
	registerTransactionRoutes(companies, suite.mockTransactionService, suite.mockPostingService)
}

// serve runs a request through the router with the actor header set and
// returns the recorder.
func (suite *TransactionHandlerTestSuite) serve(method, url string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		suite.Require().NoError(err)
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequest(method, url, reader)
	suite.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.ActorHeader, suite.actorID)

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

// draftTransaction builds a balanced two-line draft as the service would
// return it.
func (suite *TransactionHandlerTestSuite) draftTransaction() *domain.Transaction {
	transactionID := uuid.NewString()
	return &domain.Transaction{
		TransactionID:   transactionID,
		CompanyID:       suite.companyID,
		TransactionType: domain.TxnReceipt,
		TransactionDate: time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC),
		Description:     "Weekly takings",
		Status:          domain.StatusDraft,
		Lines: []domain.TransactionLine{
			{
				LineID:        uuid.NewString(),
				TransactionID: transactionID,
				AccountID:     uuid.NewString(),
				Amount:        decimal.RequireFromString("250.00"),
				Direction:     domain.Debit,
			},
			{
				LineID:        uuid.NewString(),
				TransactionID: transactionID,
				AccountID:     uuid.NewString(),
				Amount:        decimal.RequireFromString("250.00"),
				Direction:     domain.Credit,
			},
		},
		AuditFields: domain.NewAuditFields(suite.actorID, time.Now().UTC()),
	}
}

// --- Test Cases ---

func (suite *TransactionHandlerTestSuite) TestCreateTransaction_Success() {
	draft := suite.draftTransaction()
	reqBody := dto.CreateTransactionRequest{
		TransactionType: "RECEIPT",
		TransactionDate: "2025-07-15",
		Description:     "Weekly takings",
		Lines: []dto.CreateTransactionLineRequest{
			{AccountID: draft.Lines[0].AccountID, Amount: decimal.RequireFromString("250.00"), Direction: "DEBIT"},
			{AccountID: draft.Lines[1].AccountID, Amount: decimal.RequireFromString("250.00"), Direction: "CREDIT"},
		},
	}

	suite.mockTransactionService.On("CreateDraft",
		mock.AnythingOfType("*context.valueCtx"), // Carries the actor ID from middleware
		suite.companyID,
		mock.MatchedBy(func(req dto.CreateTransactionRequest) bool {
			return req.TransactionType == "RECEIPT" && len(req.Lines) == 2
		}),
		suite.actorID,
	).Return(draft, nil).Once()

	url := fmt.Sprintf("/api/v1/companies/%s/transactions", suite.companyID)
	w := suite.serve(http.MethodPost, url, reqBody)

	suite.Equal(http.StatusCreated, w.Code)

	var responseBody dto.TransactionResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &responseBody))
	suite.Equal(draft.TransactionID, responseBody.TransactionID)
	suite.Equal("DRAFT", responseBody.Status)
	suite.Equal("2025-07-15", responseBody.TransactionDate)
	suite.Len(responseBody.Lines, 2)

	suite.mockTransactionService.AssertExpectations(suite.T())
}

func (suite *TransactionHandlerTestSuite) TestCreateTransaction_BadPayload() {
	// transactionType missing entirely
	url := fmt.Sprintf("/api/v1/companies/%s/transactions", suite.companyID)
	w := suite.serve(http.MethodPost, url, gin.H{"transactionDate": "2025-07-15", "description": "Weekly takings"})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockTransactionService.AssertNotCalled(suite.T(), "CreateDraft", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *TransactionHandlerTestSuite) TestCreateTransaction_MissingActorHeader() {
	url := fmt.Sprintf("/api/v1/companies/%s/transactions", suite.companyID)
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader([]byte(`{}`)))
	suite.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")
	// No actor header: the middleware must reject before the handler runs.

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Contains(w.Body.String(), middleware.ActorHeader)
	suite.mockTransactionService.AssertNotCalled(suite.T(), "CreateDraft", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *TransactionHandlerTestSuite) TestGetTransaction_NotFound() {
	transactionID := uuid.NewString()

	suite.mockTransactionService.On("GetTransactionByID",
		mock.AnythingOfType("*context.valueCtx"), suite.companyID, transactionID,
	).Return(nil, apperrors.ErrNotFound).Once()

	url := fmt.Sprintf("/api/v1/companies/%s/transactions/%s", suite.companyID, transactionID)
	w := suite.serve(http.MethodGet, url, nil)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *TransactionHandlerTestSuite) TestListTransactions_ForwardsFilters() {
	expected := &dto.ListTransactionsResponse{
		Items: []dto.TransactionResponse{
			{TransactionID: uuid.NewString(), Status: "POSTED"},
		},
		NextPageToken: "more",
	}

	suite.mockTransactionService.On("ListTransactions",
		mock.AnythingOfType("*context.valueCtx"),
		suite.companyID,
		mock.MatchedBy(func(params dto.ListTransactionsParams) bool {
			return params.Status != nil && *params.Status == "POSTED" && params.Limit == 10
		}),
	).Return(expected, nil).Once()

	url := fmt.Sprintf("/api/v1/companies/%s/transactions?status=POSTED&limit=10", suite.companyID)
	w := suite.serve(http.MethodGet, url, nil)

	suite.Equal(http.StatusOK, w.Code)

	var responseBody dto.ListTransactionsResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &responseBody))
	suite.Len(responseBody.Items, 1)
	suite.Equal("more", responseBody.NextPageToken)

	suite.mockTransactionService.AssertExpectations(suite.T())
}

func (suite *TransactionHandlerTestSuite) TestValidateTransaction_Valid() {
	transactionID := uuid.NewString()

	suite.mockPostingService.On("ValidateTransaction",
		mock.AnythingOfType("*context.valueCtx"), suite.companyID, transactionID,
	).Return(nil).Once()

	url := fmt.Sprintf("/api/v1/companies/%s/transactions/%s/validate", suite.companyID, transactionID)
	w := suite.serve(http.MethodPost, url, nil)

	suite.Equal(http.StatusOK, w.Code)

	var responseBody map[string]bool
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &responseBody))
	suite.True(responseBody["valid"])
}

func (suite *TransactionHandlerTestSuite) TestValidateTransaction_Unbalanced() {
	transactionID := uuid.NewString()
	unbalanced := &services.UnbalancedError{
		Debits:  decimal.RequireFromString("100.00"),
		Credits: decimal.RequireFromString("90.00"),
	}

	suite.mockPostingService.On("ValidateTransaction",
		mock.AnythingOfType("*context.valueCtx"), suite.companyID, transactionID,
	).Return(unbalanced).Once()

	url := fmt.Sprintf("/api/v1/companies/%s/transactions/%s/validate", suite.companyID, transactionID)
	w := suite.serve(http.MethodPost, url, nil)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Contains(w.Body.String(), "100")
	suite.Contains(w.Body.String(), "90")
}

func (suite *TransactionHandlerTestSuite) TestPostTransaction_Success() {
	posted := suite.draftTransaction()
	posted.Status = domain.StatusPosted
	postedAt := time.Now().UTC()
	posted.PostedAt = &postedAt

	suite.mockPostingService.On("PostTransaction",
		mock.AnythingOfType("*context.valueCtx"), suite.companyID, posted.TransactionID, suite.actorID,
	).Return(posted, nil).Once()

	url := fmt.Sprintf("/api/v1/companies/%s/transactions/%s/post", suite.companyID, posted.TransactionID)
	w := suite.serve(http.MethodPost, url, nil)

	suite.Equal(http.StatusOK, w.Code)

	var responseBody dto.TransactionResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &responseBody))
	suite.Equal("POSTED", responseBody.Status)
	suite.NotNil(responseBody.PostedAt)

	suite.mockPostingService.AssertExpectations(suite.T())
}

func (suite *TransactionHandlerTestSuite) TestPostTransaction_PeriodLocked() {
	transactionID := uuid.NewString()

	suite.mockPostingService.On("PostTransaction",
		mock.AnythingOfType("*context.valueCtx"), suite.companyID, transactionID, suite.actorID,
	).Return(nil, services.ErrPeriodLocked).Once()

	url := fmt.Sprintf("/api/v1/companies/%s/transactions/%s/post", suite.companyID, transactionID)
	w := suite.serve(http.MethodPost, url, nil)

	suite.Equal(http.StatusConflict, w.Code)
	suite.Contains(w.Body.String(), "period")
}

func (suite *TransactionHandlerTestSuite) TestReverseTransaction_AlreadyReversed() {
	transactionID := uuid.NewString()

	suite.mockPostingService.On("ReverseTransaction",
		mock.AnythingOfType("*context.valueCtx"),
		suite.companyID,
		transactionID,
		mock.AnythingOfType("dto.ReverseTransactionRequest"),
		suite.actorID,
	).Return(nil, services.ErrAlreadyReversed).Once()

	url := fmt.Sprintf("/api/v1/companies/%s/transactions/%s/reverse", suite.companyID, transactionID)
	w := suite.serve(http.MethodPost, url, dto.ReverseTransactionRequest{Reason: "entered twice"})

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *TransactionHandlerTestSuite) TestReverseTransaction_Success() {
	reversal := suite.draftTransaction()
	reversal.Status = domain.StatusPosted
	postedAt := time.Now().UTC()
	reversal.PostedAt = &postedAt
	originalID := uuid.NewString()

	suite.mockPostingService.On("ReverseTransaction",
		mock.AnythingOfType("*context.valueCtx"),
		suite.companyID,
		originalID,
		mock.MatchedBy(func(req dto.ReverseTransactionRequest) bool {
			return req.Reason == "entered twice"
		}),
		suite.actorID,
	).Return(reversal, nil).Once()

	url := fmt.Sprintf("/api/v1/companies/%s/transactions/%s/reverse", suite.companyID, originalID)
	w := suite.serve(http.MethodPost, url, dto.ReverseTransactionRequest{Reason: "entered twice"})

	suite.Equal(http.StatusCreated, w.Code)

	var responseBody dto.TransactionResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &responseBody))
	suite.Equal(reversal.TransactionID, responseBody.TransactionID)

	suite.mockPostingService.AssertExpectations(suite.T())
	suite.mockTransactionService.AssertNotCalled(suite.T(), "UpdateDraft", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *TransactionHandlerTestSuite) TestDeleteTransaction_NotADraft() {
	transactionID := uuid.NewString()

	suite.mockTransactionService.On("DeleteDraft",
		mock.AnythingOfType("*context.valueCtx"), suite.companyID, transactionID, suite.actorID,
	).Return(services.ErrNotDraft).Once()

	url := fmt.Sprintf("/api/v1/companies/%s/transactions/%s", suite.companyID, transactionID)
	w := suite.serve(http.MethodDelete, url, nil)

	suite.Equal(http.StatusConflict, w.Code)
}

// --- Run Test Suite ---
func TestTransactionHandler(t *testing.T) {
	suite.Run(t, new(TransactionHandlerTestSuite))
}
