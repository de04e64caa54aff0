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

// --- Mock InvoiceRepository ---
type MockInvoiceRepository struct {
	mock.Mock
}

var _ portsrepo.InvoiceRepositoryFacade = (*MockInvoiceRepository)(nil)

func (m *MockInvoiceRepository) FindInvoiceByID(ctx context.Context, companyID string, invoiceID string) (*domain.Invoice, error) {
	args := m.Called(ctx, companyID, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) ListInvoices(ctx context.Context, companyID string, limit int, nextToken *string, status *domain.DocumentStatus, contactID *string) ([]domain.Invoice, *string, error) {
	args := m.Called(ctx, companyID, limit, nextToken, status, contactID)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.Invoice), returnedNextToken, args.Error(2)
}

func (m *MockInvoiceRepository) FindOutstandingInvoicesByContact(ctx context.Context, companyID string, contactID string) ([]domain.Invoice, error) {
	args := m.Called(ctx, companyID, contactID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) SaveInvoice(ctx context.Context, invoice domain.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) UpdateDraftInvoice(ctx context.Context, invoice domain.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) VoidDraftInvoice(ctx context.Context, companyID string, invoiceID string, actorID string, now time.Time) error {
	args := m.Called(ctx, companyID, invoiceID, actorID, now)
	return args.Error(0)
}

func (m *MockInvoiceRepository) SaveInvoiceIssuance(ctx context.Context, invoice domain.Invoice, txn domain.Transaction, postedAt time.Time, entries []domain.LedgerEntry, taxLines []domain.TaxLine, audit domain.AuditEvent) error {
	args := m.Called(ctx, invoice, txn, postedAt, entries, taxLines, audit)
	return args.Error(0)
}

// --- Mock ContactRepository ---
type MockContactRepository struct {
	mock.Mock
}

var _ portsrepo.ContactRepositoryFacade = (*MockContactRepository)(nil)

func (m *MockContactRepository) FindContactByID(ctx context.Context, companyID string, contactID string) (*domain.Contact, error) {
	args := m.Called(ctx, companyID, contactID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Contact), args.Error(1)
}

func (m *MockContactRepository) ListContacts(ctx context.Context, companyID string, limit int, offset int) ([]domain.Contact, error) {
	args := m.Called(ctx, companyID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Contact), args.Error(1)
}

func (m *MockContactRepository) SaveContact(ctx context.Context, contact domain.Contact) error {
	args := m.Called(ctx, contact)
	return args.Error(0)
}

func (m *MockContactRepository) UpdateContact(ctx context.Context, contact domain.Contact) error {
	args := m.Called(ctx, contact)
	return args.Error(0)
}

func (m *MockContactRepository) DeactivateContact(ctx context.Context, companyID string, contactID string, actorID string, now time.Time) error {
	args := m.Called(ctx, companyID, contactID, actorID, now)
	return args.Error(0)
}

// --- Test Suite Setup ---
type InvoiceServiceTestSuite struct {
	suite.Suite
	mockInvoiceRepo    *MockInvoiceRepository
	mockContactRepo    *MockContactRepository
	mockAccountRepo    *MockAccountRepository
	mockTaxCodeRepo    *MockTaxCodeRepository
	mockPeriodResolver *MockPeriodResolver
	service            portssvc.InvoiceSvcFacade
	customer           domain.Contact
	supplier           domain.Contact
	revenueAccount     domain.Account
	receivableControl  domain.Account
	taxControl         domain.Account
	vat15              domain.TaxCode
	openPeriod         domain.Period
	companyID          string
	actorID            string
}

func (suite *InvoiceServiceTestSuite) SetupTest() {
	suite.mockInvoiceRepo = new(MockInvoiceRepository)
	suite.mockContactRepo = new(MockContactRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockTaxCodeRepo = new(MockTaxCodeRepository)
	suite.mockPeriodResolver = new(MockPeriodResolver)
	suite.service = services.NewInvoiceService(
		suite.mockInvoiceRepo,
		suite.mockContactRepo,
		suite.mockAccountRepo,
		suite.mockTaxCodeRepo,
		suite.mockPeriodResolver,
	)

	suite.companyID = uuid.NewString()
	suite.actorID = uuid.NewString()

	suite.customer = domain.Contact{
		ContactID:   uuid.NewString(),
		CompanyID:   suite.companyID,
		Name:        "Acme Ltd",
		ContactType: domain.ContactCustomer,
		IsActive:    true,
	}
	suite.supplier = domain.Contact{
		ContactID:   uuid.NewString(),
		CompanyID:   suite.companyID,
		Name:        "Paper Supplies",
		ContactType: domain.ContactSupplier,
		IsActive:    true,
	}
	suite.revenueAccount = domain.Account{
		AccountID:   uuid.NewString(),
		CompanyID:   suite.companyID,
		Code:        "4000",
		Name:        "Sales",
		AccountType: domain.Revenue,
		ControlRole: domain.ControlNone,
		IsActive:    true,
	}
	suite.receivableControl = domain.Account{
		AccountID:   uuid.NewString(),
		CompanyID:   suite.companyID,
		Code:        "1200",
		Name:        "Accounts Receivable",
		AccountType: domain.Asset,
		ControlRole: domain.ControlReceivable,
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
		ReportingBox: "BOX1",
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

// newDraftInvoice builds a draft with one taxed line (115 gross at 15%
// inclusive) and one untaxed line (50).
func (suite *InvoiceServiceTestSuite) newDraftInvoice() *domain.Invoice {
	invoiceID := uuid.NewString()
	return &domain.Invoice{
		InvoiceID: invoiceID,
		CompanyID: suite.companyID,
		ContactID: suite.customer.ContactID,
		Number:    "INV-0042",
		IssueDate: time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC),
		DueDate:   time.Date(2025, 4, 11, 0, 0, 0, 0, time.UTC),
		Status:    domain.DocDraft,
		Lines: []domain.DocumentLine{
			{LineID: uuid.NewString(), DocumentID: invoiceID, AccountID: suite.revenueAccount.AccountID, Description: "Consulting", Amount: decimal.RequireFromString("115.00"), TaxCodeID: &suite.vat15.TaxCodeID},
			{LineID: uuid.NewString(), DocumentID: invoiceID, AccountID: suite.revenueAccount.AccountID, Description: "Travel recharge", Amount: decimal.NewFromInt(50)},
		},
		Total:       decimal.Zero,
		TaxTotal:    decimal.Zero,
		AmountPaid:  decimal.Zero,
		AuditFields: domain.NewAuditFields(suite.actorID, time.Now().UTC()),
	}
}

// --- CreateInvoice ---

func (suite *InvoiceServiceTestSuite) TestCreateInvoice_Success() {
	ctx := context.Background()
	req := dto.CreateInvoiceRequest{
		ContactID: suite.customer.ContactID,
		Number:    "INV-0042",
		IssueDate: "2025-03-12",
		DueDate:   "2025-04-11",
		Lines: []dto.DocumentLineRequest{
			{AccountID: suite.revenueAccount.AccountID, Description: "Consulting", Amount: decimal.RequireFromString("115.00"), TaxCodeID: &suite.vat15.TaxCodeID},
		},
	}

	suite.mockContactRepo.On("FindContactByID", ctx, suite.companyID, suite.customer.ContactID).Return(&suite.customer, nil).Once()
	suite.mockInvoiceRepo.On("SaveInvoice", ctx, mock.AnythingOfType("domain.Invoice")).Return(nil).Once()

	created, err := suite.service.CreateInvoice(ctx, suite.companyID, req, suite.actorID)

	suite.Require().NoError(err)
	suite.Require().NotNil(created)
	suite.Equal(domain.DocDraft, created.Status)
	// Totals stay zero until issuance computes them.
	suite.True(created.Total.IsZero())
	suite.True(created.TaxTotal.IsZero())
	suite.Nil(created.TransactionID)
	suite.Require().Len(created.Lines, 1)
	suite.NotEmpty(created.Lines[0].LineID)
	suite.Equal(created.InvoiceID, created.Lines[0].DocumentID)
	suite.mockInvoiceRepo.AssertExpectations(suite.T())
}

func (suite *InvoiceServiceTestSuite) TestCreateInvoice_SupplierRejected() {
	ctx := context.Background()
	req := dto.CreateInvoiceRequest{
		ContactID: suite.supplier.ContactID,
		Number:    "INV-0043",
		IssueDate: "2025-03-12",
		DueDate:   "2025-04-11",
		Lines: []dto.DocumentLineRequest{
			{AccountID: suite.revenueAccount.AccountID, Amount: decimal.NewFromInt(10)},
		},
	}

	suite.mockContactRepo.On("FindContactByID", ctx, suite.companyID, suite.supplier.ContactID).Return(&suite.supplier, nil).Once()

	_, err := suite.service.CreateInvoice(ctx, suite.companyID, req, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrWrongContactType)
	suite.mockInvoiceRepo.AssertNotCalled(suite.T(), "SaveInvoice", mock.Anything, mock.Anything)
}

func (suite *InvoiceServiceTestSuite) TestCreateInvoice_DuplicateNumber() {
	ctx := context.Background()
	req := dto.CreateInvoiceRequest{
		ContactID: suite.customer.ContactID,
		Number:    "INV-0042",
		IssueDate: "2025-03-12",
		DueDate:   "2025-04-11",
		Lines: []dto.DocumentLineRequest{
			{AccountID: suite.revenueAccount.AccountID, Amount: decimal.NewFromInt(10)},
		},
	}

	suite.mockContactRepo.On("FindContactByID", ctx, suite.companyID, suite.customer.ContactID).Return(&suite.customer, nil).Once()
	suite.mockInvoiceRepo.On("SaveInvoice", ctx, mock.Anything).Return(apperrors.ErrDuplicate).Once()

	_, err := suite.service.CreateInvoice(ctx, suite.companyID, req, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
}

// --- IssueInvoice ---

func (suite *InvoiceServiceTestSuite) TestIssueInvoice_Success() {
	ctx := context.Background()
	invoice := suite.newDraftInvoice()

	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, suite.companyID, invoice.InvoiceID).Return(invoice, nil).Once()
	suite.mockContactRepo.On("FindContactByID", ctx, suite.companyID, suite.customer.ContactID).Return(&suite.customer, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, suite.companyID, mock.Anything).Return(map[string]domain.Account{suite.revenueAccount.AccountID: suite.revenueAccount}, nil).Once()
	suite.mockTaxCodeRepo.On("FindTaxCodesByIDs", ctx, suite.companyID, []string{suite.vat15.TaxCodeID}).Return(map[string]domain.TaxCode{suite.vat15.TaxCodeID: suite.vat15}, nil).Once()
	suite.mockAccountRepo.On("FindAccountByControlRole", ctx, suite.companyID, domain.ControlReceivable).Return(&suite.receivableControl, nil).Once()
	suite.mockAccountRepo.On("FindAccountByControlRole", ctx, suite.companyID, domain.ControlTax).Return(&suite.taxControl, nil).Once()
	suite.mockPeriodResolver.On("ResolveOpenPeriod", ctx, suite.companyID, invoice.IssueDate).Return(&suite.openPeriod, nil).Once()

	var savedInvoice domain.Invoice
	var savedTxn domain.Transaction
	var savedEntries []domain.LedgerEntry
	var savedTaxLines []domain.TaxLine
	var savedAudit domain.AuditEvent
	suite.mockInvoiceRepo.On("SaveInvoiceIssuance", ctx, mock.AnythingOfType("domain.Invoice"), mock.AnythingOfType("domain.Transaction"), mock.AnythingOfType("time.Time"), mock.AnythingOfType("[]domain.LedgerEntry"), mock.AnythingOfType("[]domain.TaxLine"), mock.AnythingOfType("domain.AuditEvent")).
		Run(func(args mock.Arguments) {
			savedInvoice = args.Get(1).(domain.Invoice)
			savedTxn = args.Get(2).(domain.Transaction)
			savedEntries = args.Get(4).([]domain.LedgerEntry)
			savedTaxLines = args.Get(5).([]domain.TaxLine)
			savedAudit = args.Get(6).(domain.AuditEvent)
		}).
		Return(nil).Once()

	issued, err := suite.service.IssueInvoice(ctx, suite.companyID, invoice.InvoiceID, suite.actorID)

	suite.Require().NoError(err)
	suite.Equal(domain.DocIssued, issued.Status)
	// 115.00 gross + 50.00 untaxed.
	suite.True(issued.Total.Equal(decimal.NewFromInt(165)), "total was %s", issued.Total)
	suite.True(issued.TaxTotal.Equal(decimal.NewFromInt(15)), "tax total was %s", issued.TaxTotal)
	suite.Require().NotNil(issued.TransactionID)
	suite.Equal(savedTxn.TransactionID, *issued.TransactionID)
	suite.Equal(domain.DocIssued, savedInvoice.Status)

	suite.Equal(domain.TxnInvoice, savedTxn.TransactionType)
	suite.Equal(domain.StatusPosted, savedTxn.Status)
	suite.Equal(invoice.IssueDate, savedTxn.TransactionDate)
	suite.Contains(savedTxn.Description, "INV-0042")
	suite.Contains(savedTxn.Description, suite.customer.Name)

	// Debit receivable 165; credit revenue 100 + 50; credit tax 15.
	suite.Require().Len(savedTxn.Lines, 4)
	suite.Equal(suite.receivableControl.AccountID, savedTxn.Lines[0].AccountID)
	suite.Equal(domain.Debit, savedTxn.Lines[0].Direction)
	suite.True(savedTxn.Lines[0].Amount.Equal(decimal.NewFromInt(165)))
	suite.Equal(domain.Credit, savedTxn.Lines[1].Direction)
	suite.True(savedTxn.Lines[1].Amount.Equal(decimal.NewFromInt(100)))
	suite.Equal(domain.Credit, savedTxn.Lines[2].Direction)
	suite.True(savedTxn.Lines[2].Amount.Equal(decimal.NewFromInt(50)))
	suite.Equal(suite.taxControl.AccountID, savedTxn.Lines[3].AccountID)
	suite.Equal(domain.Credit, savedTxn.Lines[3].Direction)
	suite.True(savedTxn.Lines[3].Amount.Equal(decimal.NewFromInt(15)))

	suite.Len(savedEntries, 4)

	// One snapshot for the taxed line, attached to the tax control entry.
	suite.Require().Len(savedTaxLines, 1)
	suite.Equal(suite.vat15.TaxCodeID, savedTaxLines[0].TaxCodeID)
	suite.True(savedTaxLines[0].TaxableAmount.Equal(decimal.NewFromInt(100)))
	suite.True(savedTaxLines[0].TaxAmount.Equal(decimal.NewFromInt(15)))
	var taxEntryID string
	for _, entry := range savedEntries {
		if entry.AccountID == suite.taxControl.AccountID {
			taxEntryID = entry.EntryID
		}
	}
	suite.Equal(taxEntryID, savedTaxLines[0].EntryID)

	suite.Equal(domain.AuditDocIssued, savedAudit.EventType)
	suite.Equal("INVOICE", savedAudit.EntityType)
	suite.Equal(invoice.InvoiceID, savedAudit.EntityID)

	suite.mockInvoiceRepo.AssertExpectations(suite.T())
	suite.mockAccountRepo.AssertExpectations(suite.T())
	suite.mockPeriodResolver.AssertExpectations(suite.T())
}

func (suite *InvoiceServiceTestSuite) TestIssueInvoice_NotDraft() {
	ctx := context.Background()
	invoice := suite.newDraftInvoice()
	invoice.Status = domain.DocIssued

	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, suite.companyID, invoice.InvoiceID).Return(invoice, nil).Once()

	_, err := suite.service.IssueInvoice(ctx, suite.companyID, invoice.InvoiceID, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrDocumentNotDraft)
	suite.mockInvoiceRepo.AssertNotCalled(suite.T(), "SaveInvoiceIssuance", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *InvoiceServiceTestSuite) TestIssueInvoice_NoLines() {
	ctx := context.Background()
	invoice := suite.newDraftInvoice()
	invoice.Lines = nil

	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, suite.companyID, invoice.InvoiceID).Return(invoice, nil).Once()

	_, err := suite.service.IssueInvoice(ctx, suite.companyID, invoice.InvoiceID, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrNoLines)
	suite.mockContactRepo.AssertNotCalled(suite.T(), "FindContactByID", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *InvoiceServiceTestSuite) TestIssueInvoice_NoReceivableControl() {
	ctx := context.Background()
	invoice := suite.newDraftInvoice()

	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, suite.companyID, invoice.InvoiceID).Return(invoice, nil).Once()
	suite.mockContactRepo.On("FindContactByID", ctx, suite.companyID, suite.customer.ContactID).Return(&suite.customer, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, suite.companyID, mock.Anything).Return(map[string]domain.Account{suite.revenueAccount.AccountID: suite.revenueAccount}, nil).Once()
	suite.mockTaxCodeRepo.On("FindTaxCodesByIDs", ctx, suite.companyID, mock.Anything).Return(map[string]domain.TaxCode{suite.vat15.TaxCodeID: suite.vat15}, nil).Once()
	suite.mockAccountRepo.On("FindAccountByControlRole", ctx, suite.companyID, domain.ControlReceivable).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.IssueInvoice(ctx, suite.companyID, invoice.InvoiceID, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrNoControlAccount)
	suite.mockPeriodResolver.AssertNotCalled(suite.T(), "ResolveOpenPeriod", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *InvoiceServiceTestSuite) TestIssueInvoice_PeriodLocked() {
	ctx := context.Background()
	invoice := suite.newDraftInvoice()
	lockedErr := &services.PeriodLockedError{PeriodName: "Mar 2025", Status: domain.PeriodLocked}

	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, suite.companyID, invoice.InvoiceID).Return(invoice, nil).Once()
	suite.mockContactRepo.On("FindContactByID", ctx, suite.companyID, suite.customer.ContactID).Return(&suite.customer, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, suite.companyID, mock.Anything).Return(map[string]domain.Account{suite.revenueAccount.AccountID: suite.revenueAccount}, nil).Once()
	suite.mockTaxCodeRepo.On("FindTaxCodesByIDs", ctx, suite.companyID, mock.Anything).Return(map[string]domain.TaxCode{suite.vat15.TaxCodeID: suite.vat15}, nil).Once()
	suite.mockAccountRepo.On("FindAccountByControlRole", ctx, suite.companyID, domain.ControlReceivable).Return(&suite.receivableControl, nil).Once()
	suite.mockPeriodResolver.On("ResolveOpenPeriod", ctx, suite.companyID, invoice.IssueDate).Return(nil, lockedErr).Once()

	_, err := suite.service.IssueInvoice(ctx, suite.companyID, invoice.InvoiceID, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrPeriodLocked)
	suite.mockInvoiceRepo.AssertNotCalled(suite.T(), "SaveInvoiceIssuance", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *InvoiceServiceTestSuite) TestIssueInvoice_ConcurrentIssuance() {
	ctx := context.Background()
	invoice := suite.newDraftInvoice()

	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, suite.companyID, invoice.InvoiceID).Return(invoice, nil).Once()
	suite.mockContactRepo.On("FindContactByID", ctx, suite.companyID, suite.customer.ContactID).Return(&suite.customer, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, suite.companyID, mock.Anything).Return(map[string]domain.Account{suite.revenueAccount.AccountID: suite.revenueAccount}, nil).Once()
	suite.mockTaxCodeRepo.On("FindTaxCodesByIDs", ctx, suite.companyID, mock.Anything).Return(map[string]domain.TaxCode{suite.vat15.TaxCodeID: suite.vat15}, nil).Once()
	suite.mockAccountRepo.On("FindAccountByControlRole", ctx, suite.companyID, domain.ControlReceivable).Return(&suite.receivableControl, nil).Once()
	suite.mockAccountRepo.On("FindAccountByControlRole", ctx, suite.companyID, domain.ControlTax).Return(&suite.taxControl, nil).Once()
	suite.mockPeriodResolver.On("ResolveOpenPeriod", ctx, suite.companyID, invoice.IssueDate).Return(&suite.openPeriod, nil).Once()
	suite.mockInvoiceRepo.On("SaveInvoiceIssuance", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(apperrors.ErrConflict).Once()

	_, err := suite.service.IssueInvoice(ctx, suite.companyID, invoice.InvoiceID, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrDocumentNotDraft)
}

// --- UpdateDraftInvoice / VoidDraftInvoice ---

func (suite *InvoiceServiceTestSuite) TestUpdateDraftInvoice_NotDraft() {
	ctx := context.Background()
	invoice := suite.newDraftInvoice()
	invoice.Status = domain.DocIssued

	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, suite.companyID, invoice.InvoiceID).Return(invoice, nil).Once()

	_, err := suite.service.UpdateDraftInvoice(ctx, suite.companyID, invoice.InvoiceID, dto.UpdateInvoiceRequest{}, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrDocumentNotDraft)
	suite.mockInvoiceRepo.AssertNotCalled(suite.T(), "UpdateDraftInvoice", mock.Anything, mock.Anything)
}

func (suite *InvoiceServiceTestSuite) TestVoidDraftInvoice_IssuedInBetween() {
	ctx := context.Background()
	invoiceID := uuid.NewString()

	suite.mockInvoiceRepo.On("VoidDraftInvoice", ctx, suite.companyID, invoiceID, suite.actorID, mock.AnythingOfType("time.Time")).Return(apperrors.ErrConflict).Once()

	err := suite.service.VoidDraftInvoice(ctx, suite.companyID, invoiceID, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrDocumentNotDraft)
}

// --- ListInvoices ---

func (suite *InvoiceServiceTestSuite) TestListInvoices_ForwardsFilters() {
	ctx := context.Background()
	statusFilter := "ISSUED"
	params := dto.ListDocumentsParams{
		Status:    &statusFilter,
		ContactID: &suite.customer.ContactID,
		Limit:     10,
	}
	invoices := []domain.Invoice{*suite.newDraftInvoice()}

	expectedStatus := domain.DocIssued
	suite.mockInvoiceRepo.On("ListInvoices", ctx, suite.companyID, 10, (*string)(nil), &expectedStatus, &suite.customer.ContactID).Return(invoices, "more", nil).Once()

	resp, err := suite.service.ListInvoices(ctx, suite.companyID, params)

	suite.Require().NoError(err)
	suite.Len(resp.Items, 1)
	suite.Equal("more", resp.NextPageToken)
	suite.mockInvoiceRepo.AssertExpectations(suite.T())
}

func TestInvoiceServiceTestSuite(t *testing.T) {
	suite.Run(t, new(InvoiceServiceTestSuite))
}
