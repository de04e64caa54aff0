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
	// ErrExceedsUnallocated is returned when an allocation asks for more than
	// the receipt or payment has left unallocated.
	ErrExceedsUnallocated = errors.New("amount exceeds the transaction's unallocated balance")

	// ErrWrongTransactionType is returned when the source transaction is not a
	// receipt (for invoices) or payment (for bills).
	ErrWrongTransactionType = errors.New("transaction type does not admit allocation")
)

// ExceedsUnallocatedError carries the requested amount and the room that was
// actually available when the allocation was refused.
type ExceedsUnallocatedError struct {
	Requested decimal.Decimal
	Remaining decimal.Decimal
}

func (e *ExceedsUnallocatedError) Error() string {
	return fmt.Sprintf("amount %s exceeds the transaction's unallocated balance of %s", e.Requested, e.Remaining)
}

func (e *ExceedsUnallocatedError) Unwrap() error { return ErrExceedsUnallocated }

// AllocationService applies posted receipts to issued invoices and posted
// payments to issued bills. The allocatable total of a transaction is what it
// moved through the matching control account: the receivable credit of a
// receipt, the payable debit of a payment. Overpaying a document is allowed
// and leaves it with a negative balance (a customer or supplier credit); the
// hard bound is the source transaction's unallocated room, enforced under the
// transaction's row lock in the repository.
type AllocationService struct {
	allocationRepo  portsrepo.AllocationRepositoryFacade
	transactionRepo portsrepo.TransactionRepositoryFacade
	ledgerRepo      portsrepo.LedgerRepositoryFacade
	accountRepo     portsrepo.AccountRepositoryFacade
	invoiceRepo     portsrepo.InvoiceRepositoryFacade
	billRepo        portsrepo.BillRepositoryFacade
}

var _ portssvc.AllocationSvcFacade = (*AllocationService)(nil)

// NewAllocationService creates a new AllocationService.
func NewAllocationService(
	allocationRepo portsrepo.AllocationRepositoryFacade,
	transactionRepo portsrepo.TransactionRepositoryFacade,
	ledgerRepo portsrepo.LedgerRepositoryFacade,
	accountRepo portsrepo.AccountRepositoryFacade,
	invoiceRepo portsrepo.InvoiceRepositoryFacade,
	billRepo portsrepo.BillRepositoryFacade,
) *AllocationService {
	return &AllocationService{
		allocationRepo:  allocationRepo,
		transactionRepo: transactionRepo,
		ledgerRepo:      ledgerRepo,
		accountRepo:     accountRepo,
		invoiceRepo:     invoiceRepo,
		billRepo:        billRepo,
	}
}

func (s *AllocationService) AllocateReceipt(ctx context.Context, companyID string, receiptTransactionID string, req dto.CreateAllocationRequest, actorID string) (*domain.ReceivableAllocation, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.Amount.IsPositive() || !accounting.HasValidScale(req.Amount) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidAmount, req.Amount)
	}

	txn, err := s.transactionRepo.FindTransactionByID(ctx, companyID, receiptTransactionID)
	if err != nil {
		return nil, err
	}
	if txn.Status != domain.StatusPosted {
		return nil, fmt.Errorf("%w: transaction %s is %s", ErrNotPosted, receiptTransactionID, txn.Status)
	}
	if txn.TransactionType != domain.TxnReceipt {
		return nil, fmt.Errorf("%w: transaction %s is %s", ErrWrongTransactionType, receiptTransactionID, txn.TransactionType)
	}

	invoice, err := s.invoiceRepo.FindInvoiceByID(ctx, companyID, req.DocumentID)
	if err != nil {
		return nil, err
	}
	if invoice.Status != domain.DocIssued {
		return nil, fmt.Errorf("%w: invoice %s is %s", ErrDocumentNotIssued, invoice.InvoiceID, invoice.Status)
	}

	allocatable, err := s.controlTotal(ctx, companyID, receiptTransactionID, domain.ControlReceivable, false)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	alloc := domain.ReceivableAllocation{
		AllocationID:         uuid.NewString(),
		CompanyID:            companyID,
		ReceiptTransactionID: receiptTransactionID,
		InvoiceID:            invoice.InvoiceID,
		Amount:               req.Amount,
		CreatedAt:            now,
		CreatedBy:            actorID,
	}
	audit := domain.AuditEvent{
		EventID:    uuid.NewString(),
		CompanyID:  companyID,
		ActorID:    actorID,
		EventType:  domain.AuditAllocCreated,
		EntityType: "INVOICE",
		EntityID:   invoice.InvoiceID,
		Summary:    fmt.Sprintf("Allocated %s from receipt %s to invoice %s", req.Amount, receiptTransactionID, invoice.Number),
		CreatedAt:  now,
	}

	remaining, err := s.allocationRepo.SaveReceivableAllocation(ctx, alloc, allocatable, audit)
	if err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, &ExceedsUnallocatedError{Requested: req.Amount, Remaining: remaining}
		}
		logger.Error("Failed to save receivable allocation",
			slog.String("error", err.Error()),
			slog.String("transaction_id", receiptTransactionID),
			slog.String("invoice_id", invoice.InvoiceID),
		)
		return nil, err
	}

	logger.Info("Receipt allocated",
		slog.String("transaction_id", receiptTransactionID),
		slog.String("invoice_id", invoice.InvoiceID),
		slog.String("amount", req.Amount.String()),
		slog.String("remaining", remaining.String()),
	)
	return &alloc, nil
}

func (s *AllocationService) AllocatePayment(ctx context.Context, companyID string, paymentTransactionID string, req dto.CreateAllocationRequest, actorID string) (*domain.PayableAllocation, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.Amount.IsPositive() || !accounting.HasValidScale(req.Amount) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidAmount, req.Amount)
	}

	txn, err := s.transactionRepo.FindTransactionByID(ctx, companyID, paymentTransactionID)
	if err != nil {
		return nil, err
	}
	if txn.Status != domain.StatusPosted {
		return nil, fmt.Errorf("%w: transaction %s is %s", ErrNotPosted, paymentTransactionID, txn.Status)
	}
	if txn.TransactionType != domain.TxnPayment {
		return nil, fmt.Errorf("%w: transaction %s is %s", ErrWrongTransactionType, paymentTransactionID, txn.TransactionType)
	}

	bill, err := s.billRepo.FindBillByID(ctx, companyID, req.DocumentID)
	if err != nil {
		return nil, err
	}
	if bill.Status != domain.DocIssued {
		return nil, fmt.Errorf("%w: bill %s is %s", ErrDocumentNotIssued, bill.BillID, bill.Status)
	}

	allocatable, err := s.controlTotal(ctx, companyID, paymentTransactionID, domain.ControlPayable, true)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	alloc := domain.PayableAllocation{
		AllocationID:         uuid.NewString(),
		CompanyID:            companyID,
		PaymentTransactionID: paymentTransactionID,
		BillID:               bill.BillID,
		Amount:               req.Amount,
		CreatedAt:            now,
		CreatedBy:            actorID,
	}
	audit := domain.AuditEvent{
		EventID:    uuid.NewString(),
		CompanyID:  companyID,
		ActorID:    actorID,
		EventType:  domain.AuditAllocCreated,
		EntityType: "BILL",
		EntityID:   bill.BillID,
		Summary:    fmt.Sprintf("Allocated %s from payment %s to bill %s", req.Amount, paymentTransactionID, bill.Number),
		CreatedAt:  now,
	}

	remaining, err := s.allocationRepo.SavePayableAllocation(ctx, alloc, allocatable, audit)
	if err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, &ExceedsUnallocatedError{Requested: req.Amount, Remaining: remaining}
		}
		logger.Error("Failed to save payable allocation",
			slog.String("error", err.Error()),
			slog.String("transaction_id", paymentTransactionID),
			slog.String("bill_id", bill.BillID),
		)
		return nil, err
	}

	logger.Info("Payment allocated",
		slog.String("transaction_id", paymentTransactionID),
		slog.String("bill_id", bill.BillID),
		slog.String("amount", req.Amount.String()),
		slog.String("remaining", remaining.String()),
	)
	return &alloc, nil
}

func (s *AllocationService) GetReceiptAllocationState(ctx context.Context, companyID string, receiptTransactionID string) (*dto.AllocationStateResponse, error) {
	txn, err := s.transactionRepo.FindTransactionByID(ctx, companyID, receiptTransactionID)
	if err != nil {
		return nil, err
	}
	if txn.Status != domain.StatusPosted {
		return nil, fmt.Errorf("%w: transaction %s is %s", ErrNotPosted, receiptTransactionID, txn.Status)
	}
	if txn.TransactionType != domain.TxnReceipt {
		return nil, fmt.Errorf("%w: transaction %s is %s", ErrWrongTransactionType, receiptTransactionID, txn.TransactionType)
	}

	allocatable, err := s.controlTotal(ctx, companyID, receiptTransactionID, domain.ControlReceivable, false)
	if err != nil {
		return nil, err
	}
	allocated, err := s.allocationRepo.SumReceivableAllocationsByTransaction(ctx, companyID, receiptTransactionID)
	if err != nil {
		return nil, err
	}

	return &dto.AllocationStateResponse{
		TransactionID: receiptTransactionID,
		Allocatable:   allocatable,
		Allocated:     allocated,
		Remaining:     allocatable.Sub(allocated),
	}, nil
}

func (s *AllocationService) GetPaymentAllocationState(ctx context.Context, companyID string, paymentTransactionID string) (*dto.AllocationStateResponse, error) {
	txn, err := s.transactionRepo.FindTransactionByID(ctx, companyID, paymentTransactionID)
	if err != nil {
		return nil, err
	}
	if txn.Status != domain.StatusPosted {
		return nil, fmt.Errorf("%w: transaction %s is %s", ErrNotPosted, paymentTransactionID, txn.Status)
	}
	if txn.TransactionType != domain.TxnPayment {
		return nil, fmt.Errorf("%w: transaction %s is %s", ErrWrongTransactionType, paymentTransactionID, txn.TransactionType)
	}

	allocatable, err := s.controlTotal(ctx, companyID, paymentTransactionID, domain.ControlPayable, true)
	if err != nil {
		return nil, err
	}
	allocated, err := s.allocationRepo.SumPayableAllocationsByTransaction(ctx, companyID, paymentTransactionID)
	if err != nil {
		return nil, err
	}

	return &dto.AllocationStateResponse{
		TransactionID: paymentTransactionID,
		Allocatable:   allocatable,
		Allocated:     allocated,
		Remaining:     allocatable.Sub(allocated),
	}, nil
}

func (s *AllocationService) ListInvoiceAllocations(ctx context.Context, companyID string, invoiceID string) ([]domain.ReceivableAllocation, error) {
	if _, err := s.invoiceRepo.FindInvoiceByID(ctx, companyID, invoiceID); err != nil {
		return nil, err
	}
	return s.allocationRepo.ListReceivableAllocationsByInvoice(ctx, companyID, invoiceID)
}

func (s *AllocationService) ListBillAllocations(ctx context.Context, companyID string, billID string) ([]domain.PayableAllocation, error) {
	if _, err := s.billRepo.FindBillByID(ctx, companyID, billID); err != nil {
		return nil, err
	}
	return s.allocationRepo.ListPayableAllocationsByBill(ctx, companyID, billID)
}

func (s *AllocationService) SuggestReceiptAllocations(ctx context.Context, companyID string, req dto.SuggestAllocationsRequest) ([]domain.AllocationSuggestion, error) {
	if !req.Amount.IsPositive() || !accounting.HasValidScale(req.Amount) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidAmount, req.Amount)
	}

	invoices, err := s.invoiceRepo.FindOutstandingInvoicesByContact(ctx, companyID, req.ContactID)
	if err != nil {
		return nil, err
	}

	docs := make([]outstandingDocument, 0, len(invoices))
	for _, invoice := range invoices {
		docs = append(docs, outstandingDocument{
			documentID:  invoice.InvoiceID,
			number:      invoice.Number,
			dueDate:     invoice.DueDate,
			outstanding: invoice.Balance(),
		})
	}
	return buildAllocationSuggestions(req.Amount, docs), nil
}

func (s *AllocationService) SuggestPaymentAllocations(ctx context.Context, companyID string, req dto.SuggestAllocationsRequest) ([]domain.AllocationSuggestion, error) {
	if !req.Amount.IsPositive() || !accounting.HasValidScale(req.Amount) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidAmount, req.Amount)
	}

	bills, err := s.billRepo.FindOutstandingBillsByContact(ctx, companyID, req.ContactID)
	if err != nil {
		return nil, err
	}

	docs := make([]outstandingDocument, 0, len(bills))
	for _, bill := range bills {
		docs = append(docs, outstandingDocument{
			documentID:  bill.BillID,
			number:      bill.Number,
			dueDate:     bill.DueDate,
			outstanding: bill.Balance(),
		})
	}
	return buildAllocationSuggestions(req.Amount, docs), nil
}

// controlTotal computes a transaction's allocatable amount: the sum of its
// ledger entries on the company's control account for the given role, taken
// from the debit side for payments and the credit side for receipts.
func (s *AllocationService) controlTotal(ctx context.Context, companyID string, transactionID string, role domain.ControlRole, debitSide bool) (decimal.Decimal, error) {
	control, err := s.accountRepo.FindAccountByControlRole(ctx, companyID, role)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return decimal.Zero, fmt.Errorf("%w: %s", ErrNoControlAccount, role)
		}
		return decimal.Zero, err
	}

	entries, err := s.ledgerRepo.FindEntriesByTransactionID(ctx, companyID, transactionID)
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, entry := range entries {
		if entry.AccountID != control.AccountID {
			continue
		}
		if debitSide {
			total = total.Add(entry.AmountDr)
		} else {
			total = total.Add(entry.AmountCr)
		}
	}
	return total, nil
}

type outstandingDocument struct {
	documentID  string
	number      string
	dueDate     time.Time
	outstanding decimal.Decimal
}

// buildAllocationSuggestions spreads the available amount across outstanding
// documents, oldest due first, capping each suggestion at that document's
// balance. A document whose balance equals the available amount exactly wins
// outright and is returned as the single suggestion.
func buildAllocationSuggestions(available decimal.Decimal, docs []outstandingDocument) []domain.AllocationSuggestion {
	for _, doc := range docs {
		if doc.outstanding.Equal(available) {
			return []domain.AllocationSuggestion{{
				DocumentID:  doc.documentID,
				Number:      doc.number,
				DueDate:     doc.dueDate,
				Outstanding: doc.outstanding,
				Amount:      doc.outstanding,
				ExactMatch:  true,
			}}
		}
	}

	suggestions := make([]domain.AllocationSuggestion, 0, len(docs))
	remaining := available
	for _, doc := range docs {
		if !remaining.IsPositive() {
			break
		}
		if !doc.outstanding.IsPositive() {
			continue
		}
		amount := decimal.Min(remaining, doc.outstanding)
		suggestions = append(suggestions, domain.AllocationSuggestion{
			DocumentID:  doc.documentID,
			Number:      doc.number,
			DueDate:     doc.dueDate,
			Outstanding: doc.outstanding,
			Amount:      amount,
		})
		remaining = remaining.Sub(amount)
	}
	return suggestions
}
