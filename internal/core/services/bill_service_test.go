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

// --- Mock BillRepository ---
type MockBillRepository struct {
	mock.Mock
}

var _ portsrepo.BillRepositoryFacade = (*MockBillRepository)(nil)

func (m *MockBillRepository) FindBillByID(ctx context.Context, companyID string, billID string) (*domain.Bill, error) {
	args := m.Called(ctx, companyID, billID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Bill), args.Error(1)
}

func (m *MockBillRepository) ListBills(ctx context.Context, companyID string, limit int, nextToken *string, status *domain.DocumentStatus, contactID *string) ([]domain.Bill, *string, error) {
	args := m.Called(ctx, companyID, limit, nextToken, status, contactID)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.Bill), returnedNextToken, args.Error(2)
}

func (m *MockBillRepository) FindOutstandingBillsByContact(ctx context.Context, companyID string, contactID string) ([]domain.Bill, error) {
	args := m.Called(ctx, companyID, contactID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Bill), args.Error(1)
}

func (m *MockBillRepository) SaveBill(ctx context.Context, bill domain.Bill) error {
	args := m.Called(ctx, bill)
	return args.Error(0)
}

func (m *MockBillRepository) UpdateDraftBill(ctx context.Context, bill domain.Bill) error {
	args := m.Called(ctx, bill)
	return args.Error(0)
}

func (m *MockBillRepository) VoidDraftBill(ctx context.Context, companyID string, billID string, actorID string, now time.Time) error {
	args := m.Called(ctx, companyID, billID, actorID, now)
	return args.Error(0)
}

func (m *MockBillRepository) SaveBillIssuance(ctx context.Context, bill domain.Bill, txn domain.Transaction, postedAt time.Time, entries []domain.LedgerEntry, taxLines []domain.TaxLine, audit domain.AuditEvent) error {
	args := m.Called(ctx, bill, txn, postedAt, entries, taxLines, audit)
	return args.Error(0)
}

// --- Test Suite Setup ---
type BillServiceTestSuite struct {
	suite.Suite
	mockBillRepo       *MockBillRepository
	mockContactRepo    *MockContactRepository
	mockAccountRepo    *MockAccountRepository
	mockTaxCodeRepo    *MockTaxCodeRepository
	mockPeriodResolver *MockPeriodResolver
	service            portssvc.BillSvcFacade
	supplier           domain.Contact
	customer           domain.Contact
	expenseAccount     domain.Account
	payableControl     domain.Account
	taxControl         domain.Account
	vat15              domain.TaxCode
	openPeriod         domain.Period
	companyID          string
	actorID            string
}

func (suite *BillServiceTestSuite) SetupTest() {
	suite.mockBillRepo = new(MockBillRepository)
	suite.mockContactRepo = new(MockContactRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockTaxCodeRepo = new(MockTaxCodeRepository)
	suite.mockPeriodResolver = new(MockPeriodResolver)
	suite.service = services.NewBillService(
		suite.mockBillRepo,
		suite.mockContactRepo,
		suite.mockAccountRepo,
		suite.mockTaxCodeRepo,
		suite.mockPeriodResolver,
	)

	suite.companyID = uuid.NewString()
	suite.actorID = uuid.NewString()

	suite.supplier = domain.Contact{
		ContactID:   uuid.NewString(),
		CompanyID:   suite.companyID,
		Name:        "Paper Supplies",
		ContactType: domain.ContactSupplier,
		IsActive:    true,
	}
	suite.customer = domain.Contact{
		ContactID:   uuid.NewString(),
		CompanyID:   suite.companyID,
		Name:        "Acme Ltd",
		ContactType: domain.ContactCustomer,
		IsActive:    true,
	}
	suite.expenseAccount = domain.Account{
		AccountID:   uuid.NewString(),
		CompanyID:   suite.companyID,
		Code:        "6100",
		Name:        "Office Supplies",
		AccountType: domain.Expense,
		ControlRole: domain.ControlNone,
		IsActive:    true,
	}
	suite.payableControl = domain.Account{
		AccountID:   uuid.NewString(),
		CompanyID:   suite.companyID,
		Code:        "2100",
		Name:        "Accounts Payable",
		AccountType: domain.Liability,
		ControlRole: domain.ControlPayable,
		IsActive:    true,
	}
	suite.taxControl = domain.Account{
		AccountID:   uuid.NewString(),
		CompanyID:   suite.companyID,
		Code:        "2200",
		Name:        "VAT Payable",
		AccountType: domain.Liability,
		ControlRole: domain.ControlTax,
		IsActive:    true,
	}
	suite.vat15 = domain.TaxCode{
		TaxCodeID:    uuid.NewString(),
		CompanyID:    suite.companyID,
		Code:         "VAT15",
		Rate:         decimal.RequireFromString("0.15"),
		ReportingBox: "BOX4",
		Inclusive:    true,
		IsActive:     true,
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

// newDraftBill builds a draft with one taxed line (230 gross at 15% inclusive).
func (suite *BillServiceTestSuite) newDraftBill() *domain.Bill {
	billID := uuid.NewString()
	return &domain.Bill{
		BillID:    billID,
		CompanyID: suite.companyID,
		ContactID: suite.supplier.ContactID,
		Number:    "PS-1877",
		IssueDate: time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC),
		DueDate:   time.Date(2025, 4, 13, 0, 0, 0, 0, time.UTC),
		Status:    domain.DocDraft,
		Lines: []domain.DocumentLine{
			{LineID: uuid.NewString(), DocumentID: billID, AccountID: suite.expenseAccount.AccountID, Description: "Copier paper", Amount: decimal.RequireFromString("230.00"), TaxCodeID: &suite.vat15.TaxCodeID},
		},
		Total:       decimal.Zero,
		TaxTotal:    decimal.Zero,
		AmountPaid:  decimal.Zero,
		AuditFields: domain.NewAuditFields(suite.actorID, time.Now().UTC()),
	}
}

// --- CreateBill ---

func (suite *BillServiceTestSuite) TestCreateBill_Success() {
	ctx := context.Background()
	req := dto.CreateBillRequest{
		ContactID: suite.supplier.ContactID,
		Number:    "PS-1877",
		IssueDate: "2025-03-14",
		DueDate:   "2025-04-13",
		Lines: []dto.DocumentLineRequest{
			{AccountID: suite.expenseAccount.AccountID, Description: "Copier paper", Amount: decimal.RequireFromString("230.00"), TaxCodeID: &suite.vat15.TaxCodeID},
		},
	}

	suite.mockContactRepo.On("FindContactByID", ctx, suite.companyID, suite.supplier.ContactID).Return(&suite.supplier, nil).Once()
	suite.mockBillRepo.On("SaveBill", ctx, mock.AnythingOfType("domain.Bill")).Return(nil).Once()

	created, err := suite.service.CreateBill(ctx, suite.companyID, req, suite.actorID)

	suite.Require().NoError(err)
	suite.Equal(domain.DocDraft, created.Status)
	suite.True(created.Total.IsZero())
	suite.Len(created.Lines, 1)
	suite.mockBillRepo.AssertExpectations(suite.T())
}

func (suite *BillServiceTestSuite) TestCreateBill_CustomerRejected() {
	ctx := context.Background()
	req := dto.CreateBillRequest{
		ContactID: suite.customer.ContactID,
		Number:    "PS-1878",
		IssueDate: "2025-03-14",
		DueDate:   "2025-04-13",
		Lines: []dto.DocumentLineRequest{
			{AccountID: suite.expenseAccount.AccountID, Amount: decimal.NewFromInt(10)},
		},
	}

	suite.mockContactRepo.On("FindContactByID", ctx, suite.companyID, suite.customer.ContactID).Return(&suite.customer, nil).Once()

	_, err := suite.service.CreateBill(ctx, suite.companyID, req, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrWrongContactType)
	suite.mockBillRepo.AssertNotCalled(suite.T(), "SaveBill", mock.Anything, mock.Anything)
}

// --- IssueBill ---

func (suite *BillServiceTestSuite) TestIssueBill_Success() {
	ctx := context.Background()
	bill := suite.newDraftBill()

	suite.mockBillRepo.On("FindBillByID", ctx, suite.companyID, bill.BillID).Return(bill, nil).Once()
	suite.mockContactRepo.On("FindContactByID", ctx, suite.companyID, suite.supplier.ContactID).Return(&suite.supplier, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, suite.companyID, mock.Anything).Return(map[string]domain.Account{suite.expenseAccount.AccountID: suite.expenseAccount}, nil).Once()
	suite.mockTaxCodeRepo.On("FindTaxCodesByIDs", ctx, suite.companyID, []string{suite.vat15.TaxCodeID}).Return(map[string]domain.TaxCode{suite.vat15.TaxCodeID: suite.vat15}, nil).Once()
	suite.mockAccountRepo.On("FindAccountByControlRole", ctx, suite.companyID, domain.ControlPayable).Return(&suite.payableControl, nil).Once()
	suite.mockAccountRepo.On("FindAccountByControlRole", ctx, suite.companyID, domain.ControlTax).Return(&suite.taxControl, nil).Once()
	suite.mockPeriodResolver.On("ResolveOpenPeriod", ctx, suite.companyID, bill.IssueDate).Return(&suite.openPeriod, nil).Once()

	var savedTxn domain.Transaction
	var savedTaxLines []domain.TaxLine
	var savedAudit domain.AuditEvent
	suite.mockBillRepo.On("SaveBillIssuance", ctx, mock.AnythingOfType("domain.Bill"), mock.AnythingOfType("domain.Transaction"), mock.AnythingOfType("time.Time"), mock.AnythingOfType("[]domain.LedgerEntry"), mock.AnythingOfType("[]domain.TaxLine"), mock.AnythingOfType("domain.AuditEvent")).
		Run(func(args mock.Arguments) {
			savedTxn = args.Get(2).(domain.Transaction)
			savedTaxLines = args.Get(5).([]domain.TaxLine)
			savedAudit = args.Get(6).(domain.AuditEvent)
		}).
		Return(nil).Once()

	issued, err := suite.service.IssueBill(ctx, suite.companyID, bill.BillID, suite.actorID)

	suite.Require().NoError(err)
	suite.Equal(domain.DocIssued, issued.Status)
	suite.True(issued.Total.Equal(decimal.NewFromInt(230)), "total was %s", issued.Total)
	suite.True(issued.TaxTotal.Equal(decimal.NewFromInt(30)), "tax total was %s", issued.TaxTotal)
	suite.Require().NotNil(issued.TransactionID)

	suite.Equal(domain.TxnBill, savedTxn.TransactionType)
	suite.Contains(savedTxn.Description, "PS-1877")

	// Debit expense 200 and tax 30; credit payable 230.
	suite.Require().Len(savedTxn.Lines, 3)
	suite.Equal(suite.expenseAccount.AccountID, savedTxn.Lines[0].AccountID)
	suite.Equal(domain.Debit, savedTxn.Lines[0].Direction)
	suite.True(savedTxn.Lines[0].Amount.Equal(decimal.NewFromInt(200)))
	suite.Equal(suite.taxControl.AccountID, savedTxn.Lines[1].AccountID)
	suite.Equal(domain.Debit, savedTxn.Lines[1].Direction)
	suite.True(savedTxn.Lines[1].Amount.Equal(decimal.NewFromInt(30)))
	suite.Equal(suite.payableControl.AccountID, savedTxn.Lines[2].AccountID)
	suite.Equal(domain.Credit, savedTxn.Lines[2].Direction)
	suite.True(savedTxn.Lines[2].Amount.Equal(decimal.NewFromInt(230)))

	suite.Require().Len(savedTaxLines, 1)
	suite.True(savedTaxLines[0].TaxableAmount.Equal(decimal.NewFromInt(200)))
	suite.True(savedTaxLines[0].TaxAmount.Equal(decimal.NewFromInt(30)))

	suite.Equal(domain.AuditDocIssued, savedAudit.EventType)
	suite.Equal("BILL", savedAudit.EntityType)

	suite.mockBillRepo.AssertExpectations(suite.T())
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *BillServiceTestSuite) TestIssueBill_NotDraft() {
	ctx := context.Background()
	bill := suite.newDraftBill()
	bill.Status = domain.DocVoid

	suite.mockBillRepo.On("FindBillByID", ctx, suite.companyID, bill.BillID).Return(bill, nil).Once()

	_, err := suite.service.IssueBill(ctx, suite.companyID, bill.BillID, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrDocumentNotDraft)
	suite.mockBillRepo.AssertNotCalled(suite.T(), "SaveBillIssuance", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *BillServiceTestSuite) TestIssueBill_NoPayableControl() {
	ctx := context.Background()
	bill := suite.newDraftBill()

	suite.mockBillRepo.On("FindBillByID", ctx, suite.companyID, bill.BillID).Return(bill, nil).Once()
	suite.mockContactRepo.On("FindContactByID", ctx, suite.companyID, suite.supplier.ContactID).Return(&suite.supplier, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, suite.companyID, mock.Anything).Return(map[string]domain.Account{suite.expenseAccount.AccountID: suite.expenseAccount}, nil).Once()
	suite.mockTaxCodeRepo.On("FindTaxCodesByIDs", ctx, suite.companyID, mock.Anything).Return(map[string]domain.TaxCode{suite.vat15.TaxCodeID: suite.vat15}, nil).Once()
	suite.mockAccountRepo.On("FindAccountByControlRole", ctx, suite.companyID, domain.ControlPayable).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.IssueBill(ctx, suite.companyID, bill.BillID, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrNoControlAccount)
}

func (suite *BillServiceTestSuite) TestIssueBill_ConcurrentIssuance() {
	ctx := context.Background()
	bill := suite.newDraftBill()

	suite.mockBillRepo.On("FindBillByID", ctx, suite.companyID, bill.BillID).Return(bill, nil).Once()
	suite.mockContactRepo.On("FindContactByID", ctx, suite.companyID, suite.supplier.ContactID).Return(&suite.supplier, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, suite.companyID, mock.Anything).Return(map[string]domain.Account{suite.expenseAccount.AccountID: suite.expenseAccount}, nil).Once()
	suite.mockTaxCodeRepo.On("FindTaxCodesByIDs", ctx, suite.companyID, mock.Anything).Return(map[string]domain.TaxCode{suite.vat15.TaxCodeID: suite.vat15}, nil).Once()
	suite.mockAccountRepo.On("FindAccountByControlRole", ctx, suite.companyID, domain.ControlPayable).Return(&suite.payableControl, nil).Once()
	suite.mockAccountRepo.On("FindAccountByControlRole", ctx, suite.companyID, domain.ControlTax).Return(&suite.taxControl, nil).Once()
	suite.mockPeriodResolver.On("ResolveOpenPeriod", ctx, suite.companyID, bill.IssueDate).Return(&suite.openPeriod, nil).Once()
	suite.mockBillRepo.On("SaveBillIssuance", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(apperrors.ErrConflict).Once()

	_, err := suite.service.IssueBill(ctx, suite.companyID, bill.BillID, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrDocumentNotDraft)
}

func (suite *BillServiceTestSuite) TestUpdateDraftBill_SwitchesContact() {
	ctx := context.Background()
	bill := suite.newDraftBill()
	both := domain.Contact{
		ContactID:   uuid.NewString(),
		CompanyID:   suite.companyID,
		Name:        "Dual Role Ltd",
		ContactType: domain.ContactBoth,
		IsActive:    true,
	}
	req := dto.UpdateBillRequest{ContactID: &both.ContactID}

	suite.mockBillRepo.On("FindBillByID", ctx, suite.companyID, bill.BillID).Return(bill, nil).Once()
	suite.mockContactRepo.On("FindContactByID", ctx, suite.companyID, both.ContactID).Return(&both, nil).Once()
	suite.mockBillRepo.On("UpdateDraftBill", ctx, mock.AnythingOfType("domain.Bill")).Return(nil).Once()

	updated, err := suite.service.UpdateDraftBill(ctx, suite.companyID, bill.BillID, req, suite.actorID)

	suite.Require().NoError(err)
	suite.Equal(both.ContactID, updated.ContactID)
	suite.mockBillRepo.AssertExpectations(suite.T())
}

func TestBillServiceTestSuite(t *testing.T) {
	suite.Run(t, new(BillServiceTestSuite))
}
