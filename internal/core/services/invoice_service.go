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
	"github.com/keabooks/kea_books_app/internal/utils/accounting"
)

var (
	// ErrDocumentNotDraft indicates an edit or issuance attempt against a
	// document that is no longer a draft.
	ErrDocumentNotDraft = errors.New("document is not a draft")

	// ErrDocumentNotIssued indicates an allocation attempt against a document
	// that has not been issued.
	ErrDocumentNotIssued = errors.New("document is not issued")

	// ErrWrongContactType indicates the contact cannot appear on this document
	// side, e.g. an invoice raised against a pure supplier.
	ErrWrongContactType = errors.New("contact type does not allow this document")

	// ErrNoControlAccount indicates the company has no active account with the
	// control role the operation needs.
	ErrNoControlAccount = errors.New("no control account configured")
)

// InvoiceService owns the accounts-receivable document lifecycle. Issuing an
// invoice builds and posts the backing transaction through the same rules the
// posting engine enforces.
type InvoiceService struct {
	invoiceRepo    portsrepo.InvoiceRepositoryFacade
	contactRepo    portsrepo.ContactRepositoryFacade
	accountRepo    portsrepo.AccountRepositoryFacade
	taxCodeRepo    portsrepo.TaxCodeRepositoryFacade
	periodResolver portssvc.PeriodResolverSvc
}

var _ portssvc.InvoiceSvcFacade = (*InvoiceService)(nil)

// NewInvoiceService creates a new InvoiceService.
func NewInvoiceService(
	invoiceRepo portsrepo.InvoiceRepositoryFacade,
	contactRepo portsrepo.ContactRepositoryFacade,
	accountRepo portsrepo.AccountRepositoryFacade,
	taxCodeRepo portsrepo.TaxCodeRepositoryFacade,
	periodResolver portssvc.PeriodResolverSvc,
) *InvoiceService {
	return &InvoiceService{
		invoiceRepo:    invoiceRepo,
		contactRepo:    contactRepo,
		accountRepo:    accountRepo,
		taxCodeRepo:    taxCodeRepo,
		periodResolver: periodResolver,
	}
}

func (s *InvoiceService) GetInvoiceByID(ctx context.Context, companyID string, invoiceID string) (*domain.Invoice, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	invoice, err := s.invoiceRepo.FindInvoiceByID(ctx, companyID, invoiceID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find invoice", slog.String("error", err.Error()), slog.String("invoice_id", invoiceID))
		}
		return nil, err
	}
	return invoice, nil
}

func (s *InvoiceService) ListInvoices(ctx context.Context, companyID string, params dto.ListDocumentsParams) (*dto.ListInvoicesResponse, error) {
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

	invoices, newToken, err := s.invoiceRepo.ListInvoices(ctx, companyID, params.Limit, nextToken, status, params.ContactID)
	if err != nil {
		logger.Error("Failed to list invoices", slog.String("error", err.Error()), slog.String("company_id", companyID))
		return nil, err
	}

	resp := &dto.ListInvoicesResponse{Items: dto.ToInvoiceResponses(invoices)}
	if newToken != nil {
		resp.NextPageToken = *newToken
	}
	return resp, nil
}

// CreateInvoice persists a new draft invoice. Totals stay zero until issuance
// computes them.
func (s *InvoiceService) CreateInvoice(ctx context.Context, companyID string, req dto.CreateInvoiceRequest, actorID string) (*domain.Invoice, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	contact, err := s.contactRepo.FindContactByID(ctx, companyID, req.ContactID)
	if err != nil {
		return nil, err
	}
	if !contact.ContactType.CanReceiveInvoices() {
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
	invoice := domain.Invoice{
		InvoiceID:   uuid.NewString(),
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
	invoice.Lines = buildDocumentLines(invoice.InvoiceID, req.Lines)

	if err := s.invoiceRepo.SaveInvoice(ctx, invoice); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			logger.Warn("Invoice number already in use", slog.String("number", req.Number), slog.String("company_id", companyID))
			return nil, err
		}
		logger.Error("Failed to save invoice", slog.String("error", err.Error()), slog.String("invoice_id", invoice.InvoiceID))
		return nil, err
	}

	logger.Info("Draft invoice created", slog.String("invoice_id", invoice.InvoiceID), slog.String("number", invoice.Number))
	return &invoice, nil
}

// UpdateDraftInvoice replaces a draft invoice's fields and lines.
func (s *InvoiceService) UpdateDraftInvoice(ctx context.Context, companyID string, invoiceID string, req dto.UpdateInvoiceRequest, actorID string) (*domain.Invoice, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	invoice, err := s.invoiceRepo.FindInvoiceByID(ctx, companyID, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice.Status != domain.DocDraft {
		return nil, fmt.Errorf("%w: invoice %s is %s", ErrDocumentNotDraft, invoiceID, invoice.Status)
	}

	if req.ContactID != nil {
		contact, err := s.contactRepo.FindContactByID(ctx, companyID, *req.ContactID)
		if err != nil {
			return nil, err
		}
		if !contact.ContactType.CanReceiveInvoices() {
			return nil, fmt.Errorf("%w: contact %s is %s", ErrWrongContactType, contact.ContactID, contact.ContactType)
		}
		invoice.ContactID = *req.ContactID
	}
	if req.Number != nil {
		invoice.Number = *req.Number
	}
	if req.IssueDate != nil {
		issueDate, err := parseDateOnly(*req.IssueDate)
		if err != nil {
			return nil, apperrors.NewValidationError(fmt.Sprintf("invalid issue date: %s", *req.IssueDate))
		}
		invoice.IssueDate = issueDate
	}
	if req.DueDate != nil {
		dueDate, err := parseDateOnly(*req.DueDate)
		if err != nil {
			return nil, apperrors.NewValidationError(fmt.Sprintf("invalid due date: %s", *req.DueDate))
		}
		invoice.DueDate = dueDate
	}
	if req.Lines != nil {
		invoice.Lines = buildDocumentLines(invoice.InvoiceID, *req.Lines)
	}
	invoice.Touch(actorID, time.Now().UTC())

	if err := s.invoiceRepo.UpdateDraftInvoice(ctx, *invoice); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, fmt.Errorf("%w: invoice %s", ErrDocumentNotDraft, invoiceID)
		}
		logger.Error("Failed to update draft invoice", slog.String("error", err.Error()), slog.String("invoice_id", invoiceID))
		return nil, err
	}

	logger.Info("Draft invoice updated", slog.String("invoice_id", invoiceID))
	return invoice, nil
}

// VoidDraftInvoice discards a draft invoice.
func (s *InvoiceService) VoidDraftInvoice(ctx context.Context, companyID string, invoiceID string, actorID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.invoiceRepo.VoidDraftInvoice(ctx, companyID, invoiceID, actorID, time.Now().UTC()); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return fmt.Errorf("%w: invoice %s", ErrDocumentNotDraft, invoiceID)
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to void draft invoice", slog.String("error", err.Error()), slog.String("invoice_id", invoiceID))
		}
		return err
	}

	logger.Info("Draft invoice voided", slog.String("invoice_id", invoiceID))
	return nil
}

// IssueInvoice computes document totals, builds the backing INVOICE
// transaction (debit receivable control for the gross total, credit revenue
// for each line's taxable amount, credit tax control for the tax), passes the
// period gate, and commits the issuance unit of work.
func (s *InvoiceService) IssueInvoice(ctx context.Context, companyID string, invoiceID string, actorID string) (*domain.Invoice, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	invoice, err := s.invoiceRepo.FindInvoiceByID(ctx, companyID, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice.Status != domain.DocDraft {
		return nil, fmt.Errorf("%w: invoice %s is %s", ErrDocumentNotDraft, invoiceID, invoice.Status)
	}
	if len(invoice.Lines) == 0 {
		return nil, fmt.Errorf("%w: invoice %s", ErrNoLines, invoiceID)
	}

	contact, err := s.contactRepo.FindContactByID(ctx, companyID, invoice.ContactID)
	if err != nil {
		return nil, err
	}
	if !contact.ContactType.CanReceiveInvoices() {
		return nil, fmt.Errorf("%w: contact %s is %s", ErrWrongContactType, contact.ContactID, contact.ContactType)
	}

	breakdown, err := computeDocumentBreakdown(ctx, companyID, invoice.Lines, s.accountRepo, s.taxCodeRepo)
	if err != nil {
		return nil, err
	}

	controlAccount, err := s.accountRepo.FindAccountByControlRole(ctx, companyID, domain.ControlReceivable)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNoControlAccount, domain.ControlReceivable)
		}
		return nil, err
	}

	period, err := s.periodResolver.ResolveOpenPeriod(ctx, companyID, invoice.IssueDate)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	txn := domain.Transaction{
		TransactionID:   uuid.NewString(),
		CompanyID:       companyID,
		TransactionType: domain.TxnInvoice,
		TransactionDate: invoice.IssueDate,
		Description:     fmt.Sprintf("Invoice %s - %s", invoice.Number, contact.Name),
		Status:          domain.StatusPosted,
		PostedAt:        &now,
		AuditFields:     domain.NewAuditFields(actorID, now),
	}

	// Debit the receivable control for the gross total; credit revenue and
	// tax control for the parts.
	txn.Lines = append(txn.Lines, domain.TransactionLine{
		LineID:        uuid.NewString(),
		TransactionID: txn.TransactionID,
		AccountID:     controlAccount.AccountID,
		Amount:        breakdown.total,
		Direction:     domain.Debit,
		Notes:         fmt.Sprintf("Invoice %s", invoice.Number),
	})
	for _, part := range breakdown.parts {
		txn.Lines = append(txn.Lines, domain.TransactionLine{
			LineID:        uuid.NewString(),
			TransactionID: txn.TransactionID,
			AccountID:     part.accountID,
			Amount:        part.taxable,
			Direction:     domain.Credit,
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
			Direction:     domain.Credit,
			Notes:         fmt.Sprintf("Tax on invoice %s", invoice.Number),
		})
	}

	entries := buildLedgerEntries(txn, now, actorID)
	taxLines := buildDocumentTaxLines(companyID, entries, taxControl, breakdown, now)

	issued := *invoice
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
		EntityType: "INVOICE",
		EntityID:   invoiceID,
		Summary:    fmt.Sprintf("Invoice %s issued for %s into period %q", invoice.Number, breakdown.total, period.Name),
		CreatedAt:  now,
	}

	if err := s.invoiceRepo.SaveInvoiceIssuance(ctx, issued, txn, now, entries, taxLines, audit); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, fmt.Errorf("%w: invoice %s", ErrDocumentNotDraft, invoiceID)
		}
		logger.Error("Failed to save invoice issuance", slog.String("error", err.Error()), slog.String("invoice_id", invoiceID))
		return nil, err
	}

	logger.Info("Invoice issued",
		slog.String("invoice_id", invoiceID),
		slog.String("transaction_id", txn.TransactionID),
		slog.String("total", breakdown.total.String()),
		slog.String("tax_total", breakdown.taxTotal.String()),
	)
	return &issued, nil
}

// documentPart is one document line's computed contribution to the backing
// transaction: gross split into taxable and tax per its tax code.
type documentPart struct {
	accountID    string
	departmentID *string
	description  string
	taxCode      *domain.TaxCode
	gross        decimal.Decimal
	taxable      decimal.Decimal
	tax          decimal.Decimal
}

// documentBreakdown aggregates a document's parts with the gross and tax
// totals the backing transaction must carry.
type documentBreakdown struct {
	parts    []documentPart
	total    decimal.Decimal
	taxTotal decimal.Decimal
}

// computeDocumentBreakdown validates document lines and resolves each line's
// gross/taxable/tax split. Inclusive tax codes treat the line amount as
// gross; exclusive codes treat it as net and add tax on top. Shared by
// invoice and bill issuance.
func computeDocumentBreakdown(
	ctx context.Context,
	companyID string,
	lines []domain.DocumentLine,
	accountRepo portsrepo.AccountReader,
	taxCodeRepo portsrepo.TaxCodeReader,
) (*documentBreakdown, error) {
	accountIDs := make([]string, 0, len(lines))
	taxCodeIDs := make([]string, 0, len(lines))
	for _, line := range lines {
		accountIDs = append(accountIDs, line.AccountID)
		if line.TaxCodeID != nil {
			taxCodeIDs = append(taxCodeIDs, *line.TaxCodeID)
		}
	}
	accountIDs = uniqueStrings(accountIDs)
	taxCodeIDs = uniqueStrings(taxCodeIDs)

	accounts, err := accountRepo.FindAccountsByIDs(ctx, companyID, accountIDs)
	if err != nil {
		return nil, err
	}
	for _, accountID := range accountIDs {
		account, found := accounts[accountID]
		if !found {
			return nil, fmt.Errorf("account %s: %w", accountID, apperrors.ErrNotFound)
		}
		if !account.IsActive {
			return nil, fmt.Errorf("%w: account %s (%s)", ErrAccountInactive, account.Code, accountID)
		}
	}

	var taxCodes map[string]domain.TaxCode
	if len(taxCodeIDs) > 0 {
		taxCodes, err = taxCodeRepo.FindTaxCodesByIDs(ctx, companyID, taxCodeIDs)
		if err != nil {
			return nil, err
		}
	}

	breakdown := &documentBreakdown{
		parts:    make([]documentPart, 0, len(lines)),
		total:    decimal.Zero,
		taxTotal: decimal.Zero,
	}
	for i, line := range lines {
		if !line.Amount.IsPositive() || !accounting.HasValidScale(line.Amount) {
			return nil, fmt.Errorf("%w: line %d has amount %s", ErrInvalidAmount, i, line.Amount)
		}

		part := documentPart{
			accountID:    line.AccountID,
			departmentID: line.DepartmentID,
			description:  line.Description,
			gross:        line.Amount,
			taxable:      line.Amount,
			tax:          decimal.Zero,
		}
		if line.TaxCodeID != nil {
			taxCode, found := taxCodes[*line.TaxCodeID]
			if !found {
				return nil, fmt.Errorf("tax code %s: %w", *line.TaxCodeID, apperrors.ErrNotFound)
			}
			if taxCode.Inclusive {
				part.taxable, part.tax = accounting.TaxFromGross(line.Amount, taxCode.Rate)
			} else {
				part.taxable, part.tax = accounting.TaxFromNet(line.Amount, taxCode.Rate)
				part.gross = part.taxable.Add(part.tax)
			}
			code := taxCode
			part.taxCode = &code
		}

		breakdown.parts = append(breakdown.parts, part)
		breakdown.total = breakdown.total.Add(part.gross)
		breakdown.taxTotal = breakdown.taxTotal.Add(part.tax)
	}

	return breakdown, nil
}

// buildDocumentTaxLines snapshots each taxed document part onto the tax
// control entry of the backing transaction. Issuance computes tax on the
// document basis, so the snapshots are built here rather than by the posting
// engine's entry-amount derivation.
func buildDocumentTaxLines(
	companyID string,
	entries []domain.LedgerEntry,
	taxControl *domain.Account,
	breakdown *documentBreakdown,
	now time.Time,
) []domain.TaxLine {
	if taxControl == nil || !breakdown.taxTotal.IsPositive() {
		return nil
	}

	var taxEntryID string
	for _, entry := range entries {
		if entry.AccountID == taxControl.AccountID {
			taxEntryID = entry.EntryID
			break
		}
	}

	taxLines := make([]domain.TaxLine, 0, len(breakdown.parts))
	for _, part := range breakdown.parts {
		if part.taxCode == nil {
			continue
		}
		taxLines = append(taxLines, domain.TaxLine{
			TaxLineID:     uuid.NewString(),
			CompanyID:     companyID,
			EntryID:       taxEntryID,
			TaxCodeID:     part.taxCode.TaxCodeID,
			RateSnapshot:  part.taxCode.Rate,
			TaxableAmount: part.taxable,
			TaxAmount:     part.tax,
			ReportingBox:  part.taxCode.ReportingBox,
			Jurisdiction:  part.taxCode.Jurisdiction,
			CreatedAt:     now,
		})
	}
	return taxLines
}

// buildDocumentLines materializes request lines under a document, assigning
// fresh line IDs.
func buildDocumentLines(documentID string, reqs []dto.DocumentLineRequest) []domain.DocumentLine {
	lines := make([]domain.DocumentLine, 0, len(reqs))
	for _, req := range reqs {
		lines = append(lines, domain.DocumentLine{
			LineID:       uuid.NewString(),
			DocumentID:   documentID,
			AccountID:    req.AccountID,
			Description:  req.Description,
			Amount:       req.Amount,
			TaxCodeID:    req.TaxCodeID,
			DepartmentID: req.DepartmentID,
		})
	}
	return lines
}
