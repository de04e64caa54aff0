package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/keabooks/kea_books_app/internal/apperrors"
	"github.com/keabooks/kea_books_app/internal/core/domain"
	portsrepo "github.com/keabooks/kea_books_app/internal/core/ports/repositories"
	portssvc "github.com/keabooks/kea_books_app/internal/core/ports/services"
	"github.com/keabooks/kea_books_app/internal/dto"
	"github.com/keabooks/kea_books_app/internal/middleware"
)

// BillService owns the accounts-payable document lifecycle, the mirror of
// InvoiceService: issuing a bill debits expenses and tax, credits the payable
// control.
type BillService struct {
	billRepo       portsrepo.BillRepositoryFacade
	contactRepo    portsrepo.ContactRepositoryFacade
	accountRepo    portsrepo.AccountRepositoryFacade
	taxCodeRepo    portsrepo.TaxCodeRepositoryFacade
	periodResolver portssvc.PeriodResolverSvc
}

var _ portssvc.BillSvcFacade = (*BillService)(nil)

// NewBillService creates a new BillService.
func NewBillService(
	billRepo portsrepo.BillRepositoryFacade,
	contactRepo portsrepo.ContactRepositoryFacade,
	accountRepo portsrepo.AccountRepositoryFacade,
	taxCodeRepo portsrepo.TaxCodeRepositoryFacade,
	periodResolver portssvc.PeriodResolverSvc,
) *BillService {
	return &BillService{
		billRepo:       billRepo,
		contactRepo:    contactRepo,
		accountRepo:    accountRepo,
		taxCodeRepo:    taxCodeRepo,
		periodResolver: periodResolver,
	}
}

func (s *BillService) GetBillByID(ctx context.Context, companyID string, billID string) (*domain.Bill, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	bill, err := s.billRepo.FindBillByID(ctx, companyID, billID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find bill", slog.String("error", err.Error()), slog.String("bill_id", billID))
		}
		return nil, err
	}
	return bill, nil
}

func (s *BillService) ListBills(ctx context.Context, companyID string, params dto.ListDocumentsParams) (*dto.ListBillsResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	var status *domain.DocumentStatus
	if params.Status != nil {
		v := domain.DocumentStatus(*params.Status)
		status = &v
	}
	var nextToken *string
	if params.NextToken != "" {
		nextToken = &params.NextToken
	}

	bills, newToken, err := s.billRepo.ListBills(ctx, companyID, params.Limit, nextToken, status, params.ContactID)
	if err != nil {
		logger.Error("Failed to list bills", slog.String("error", err.Error()), slog.String("company_id", companyID))
		return nil, err
	}

	resp := &dto.ListBillsResponse{Items: dto.ToBillResponses(bills)}
	if newToken != nil {
		resp.NextPageToken = *newToken
	}
	return resp, nil
}

// CreateBill records a new draft bill. Totals stay zero until issuance
// computes them.
func (s *BillService) CreateBill(ctx context.Context, companyID string, req dto.CreateBillRequest, actorID string) (*domain.Bill, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	contact, err := s.contactRepo.FindContactByID(ctx, companyID, req.ContactID)
	if err != nil {
		return nil, err
	}
	if !contact.ContactType.CanReceiveBills() {
		return nil, fmt.Errorf("%w: contact %s is %s", ErrWrongContactType, contact.ContactID, contact.ContactType)
	}

	issueDate, err := parseDateOnly(req.IssueDate)
	if err != nil {
		return nil, apperrors.NewValidationError(fmt.Sprintf("invalid issue date: %s", req.IssueDate))
	}
	dueDate, err := parseDateOnly(req.DueDate)
	if err != nil {
		return nil, apperrors.NewValidationError(fmt.Sprintf("invalid due date: %s", req.DueDate))
	}

	now := time.Now().UTC()
	bill := domain.Bill{
		BillID:      uuid.NewString(),
		CompanyID:   companyID,
		ContactID:   req.ContactID,
		Number:      req.Number,
		IssueDate:   issueDate,
		DueDate:     dueDate,
		Status:      domain.DocDraft,
		Total:       decimal.Zero,
		TaxTotal:    decimal.Zero,
		AmountPaid:  decimal.Zero,
		AuditFields: domain.NewAuditFields(actorID, now),
	}
	bill.Lines = buildDocumentLines(bill.BillID, req.Lines)

	if err := s.billRepo.SaveBill(ctx, bill); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			logger.Warn("Bill number already in use", slog.String("number", req.Number), slog.String("company_id", companyID))
			return nil, err
		}
		logger.Error("Failed to save bill", slog.String("error", err.Error()), slog.String("bill_id", bill.BillID))
		return nil, err
	}

	logger.Info("Draft bill created", slog.String("bill_id", bill.BillID), slog.String("number", bill.Number))
	return &bill, nil
}

// UpdateDraftBill replaces a draft bill's fields and lines.
func (s *BillService) UpdateDraftBill(ctx context.Context, companyID string, billID string, req dto.UpdateBillRequest, actorID string) (*domain.Bill, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	bill, err := s.billRepo.FindBillByID(ctx, companyID, billID)
	if err != nil {
		return nil, err
	}
	if bill.Status != domain.DocDraft {
		return nil, fmt.Errorf("%w: bill %s is %s", ErrDocumentNotDraft, billID, bill.Status)
	}

	if req.ContactID != nil {
		contact, err := s.contactRepo.FindContactByID(ctx, companyID, *req.ContactID)
		if err != nil {
			return nil, err
		}
		if !contact.ContactType.CanReceiveBills() {
			return nil, fmt.Errorf("%w: contact %s is %s", ErrWrongContactType, contact.ContactID, contact.ContactType)
		}
		bill.ContactID = *req.ContactID
	}
	if req.Number != nil {
		bill.Number = *req.Number
	}
	if req.IssueDate != nil {
		issueDate, err := parseDateOnly(*req.IssueDate)
		if err != nil {
			return nil, apperrors.NewValidationError(fmt.Sprintf("invalid issue date: %s", *req.IssueDate))
		}
		bill.IssueDate = issueDate
	}
	if req.DueDate != nil {
		dueDate, err := parseDateOnly(*req.DueDate)
		if err != nil {
			return nil, apperrors.NewValidationError(fmt.Sprintf("invalid due date: %s", *req.DueDate))
		}
		bill.DueDate = dueDate
	}
	if req.Lines != nil {
		bill.Lines = buildDocumentLines(bill.BillID, *req.Lines)
	}
	bill.Touch(actorID, time.Now().UTC())

	if err := s.billRepo.UpdateDraftBill(ctx, *bill); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, fmt.Errorf("%w: bill %s", ErrDocumentNotDraft, billID)
		}
		logger.Error("Failed to update draft bill", slog.String("error", err.Error()), slog.String("bill_id", billID))
		return nil, err
	}

	logger.Info("Draft bill updated", slog.String("bill_id", billID))
	return bill, nil
}

// VoidDraftBill discards a draft bill.
func (s *BillService) VoidDraftBill(ctx context.Context, companyID string, billID string, actorID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.billRepo.VoidDraftBill(ctx, companyID, billID, actorID, time.Now().UTC()); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return fmt.Errorf("%w: bill %s", ErrDocumentNotDraft, billID)
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to void draft bill", slog.String("error", err.Error()), slog.String("bill_id", billID))
		}
		return err
	}

	logger.Info("Draft bill voided", slog.String("bill_id", billID))
	return nil
}

// IssueBill computes document totals, builds the backing BILL transaction
// (debit expense for each line's taxable amount, debit tax control for the
// tax, credit payable control for the gross total), passes the period gate,
// and commits the issuance unit of work.
func (s *BillService) IssueBill(ctx context.Context, companyID string, billID string, actorID string) (*domain.Bill, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	bill, err := s.billRepo.FindBillByID(ctx, companyID, billID)
	if err != nil {
		return nil, err
	}
	if bill.Status != domain.DocDraft {
		return nil, fmt.Errorf("%w: bill %s is %s", ErrDocumentNotDraft, billID, bill.Status)
	}
	if len(bill.Lines) == 0 {
		return nil, fmt.Errorf("%w: bill %s", ErrNoLines, billID)
	}

	contact, err := s.contactRepo.FindContactByID(ctx, companyID, bill.ContactID)
	if err != nil {
		return nil, err
	}
	if !contact.ContactType.CanReceiveBills() {
		return nil, fmt.Errorf("%w: contact %s is %s", ErrWrongContactType, contact.ContactID, contact.ContactType)
	}

	breakdown, err := computeDocumentBreakdown(ctx, companyID, bill.Lines, s.accountRepo, s.taxCodeRepo)
	if err != nil {
		return nil, err
	}

	controlAccount, err := s.accountRepo.FindAccountByControlRole(ctx, companyID, domain.ControlPayable)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNoControlAccount, domain.ControlPayable)
		}
		return nil, err
	}

	period, err := s.periodResolver.ResolveOpenPeriod(ctx, companyID, bill.IssueDate)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	txn := domain.Transaction{
		TransactionID:   uuid.NewString(),
		CompanyID:       companyID,
		TransactionType: domain.TxnBill,
		TransactionDate: bill.IssueDate,
		Description:     fmt.Sprintf("Bill %s - %s", bill.Number, contact.Name),
		Status:          domain.StatusPosted,
		PostedAt:        &now,
		AuditFields:     domain.NewAuditFields(actorID, now),
	}

	for _, part := range breakdown.parts {
		txn.Lines = append(txn.Lines, domain.TransactionLine{
			LineID:        uuid.NewString(),
			TransactionID: txn.TransactionID,
			AccountID:     part.accountID,
			Amount:        part.taxable,
			Direction:     domain.Debit,
			DepartmentID:  part.departmentID,
			Notes:         part.description,
		})
	}
	var taxControl *domain.Account
	if breakdown.taxTotal.IsPositive() {
		taxControl, err = s.accountRepo.FindAccountByControlRole(ctx, companyID, domain.ControlTax)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: %s", ErrNoControlAccount, domain.ControlTax)
			}
			return nil, err
		}
		txn.Lines = append(txn.Lines, domain.TransactionLine{
			LineID:        uuid.NewString(),
			TransactionID: txn.TransactionID,
			AccountID:     taxControl.AccountID,
			Amount:        breakdown.taxTotal,
			Direction:     domain.Debit,
			Notes:         fmt.Sprintf("Tax on bill %s", bill.Number),
		})
	}
	txn.Lines = append(txn.Lines, domain.TransactionLine{
		LineID:        uuid.NewString(),
		TransactionID: txn.TransactionID,
		AccountID:     controlAccount.AccountID,
		Amount:        breakdown.total,
		Direction:     domain.Credit,
		Notes:         fmt.Sprintf("Bill %s", bill.Number),
	})

	entries := buildLedgerEntries(txn, now, actorID)
	taxLines := buildDocumentTaxLines(companyID, entries, taxControl, breakdown, now)

	issued := *bill
	issued.Status = domain.DocIssued
	issued.Total = breakdown.total
	issued.TaxTotal = breakdown.taxTotal
	issued.TransactionID = &txn.TransactionID
	issued.Touch(actorID, now)

	audit := domain.AuditEvent{
		EventID:    uuid.NewString(),
		CompanyID:  companyID,
		ActorID:    actorID,
		EventType:  domain.AuditDocIssued,
		EntityType: "BILL",
		EntityID:   billID,
		Summary:    fmt.Sprintf("Bill %s issued for %s into period %q", bill.Number, breakdown.total, period.Name),
		CreatedAt:  now,
	}

	if err := s.billRepo.SaveBillIssuance(ctx, issued, txn, now, entries, taxLines, audit); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, fmt.Errorf("%w: bill %s", ErrDocumentNotDraft, billID)
		}
		logger.Error("Failed to save bill issuance", slog.String("error", err.Error()), slog.String("bill_id", billID))
		return nil, err
	}

	logger.Info("Bill issued",
		slog.String("bill_id", billID),
		slog.String("transaction_id", txn.TransactionID),
		slog.String("total", breakdown.total.String()),
		slog.String("tax_total", breakdown.taxTotal.String()),
	)
	return &issued, nil
}
