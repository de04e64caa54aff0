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
	// ErrNoLines indicates a posting attempt against a transaction with no lines.
	ErrNoLines = errors.New("transaction has no lines")

	// ErrAlreadyPosted indicates the transaction was posted by a concurrent caller.
	ErrAlreadyPosted = errors.New("transaction is already posted")

	// ErrNotPosted indicates a reversal attempt against a non-posted transaction.
	ErrNotPosted = errors.New("transaction is not posted")

	// ErrAccountInactive indicates a line references a deactivated account.
	ErrAccountInactive = errors.New("account is inactive")

	// ErrInvalidAmount indicates a line amount that is not strictly positive
	// with at most two decimal places.
	ErrInvalidAmount = errors.New("line amount must be positive with at most two decimal places")

	// ErrUnbalanced indicates the transaction's debits and credits differ.
	ErrUnbalanced = errors.New("transaction debits and credits are not equal")

	// ErrAlreadyReversed indicates the transaction already has a reversal.
	ErrAlreadyReversed = errors.New("transaction has already been reversed")

	// ErrIsReversal indicates an attempt to reverse a reversal. Corrections of
	// a reversal are a fresh transaction.
	ErrIsReversal = errors.New("reversing transactions cannot be reversed")
)

// UnbalancedError carries both totals so callers can report the difference.
// It unwraps to ErrUnbalanced.
type UnbalancedError struct {
	Debits  decimal.Decimal
	Credits decimal.Decimal
}

func (e *UnbalancedError) Error() string {
	return fmt.Sprintf("transaction debits (%s) and credits (%s) are not equal", e.Debits, e.Credits)
}

func (e *UnbalancedError) Unwrap() error {
	return ErrUnbalanced
}

// PostingService is the posting engine: it validates drafts, flips them to
// POSTED while deriving immutable ledger entries and tax line snapshots, and
// corrects posted transactions by reversal.
type PostingService struct {
	transactionRepo portsrepo.TransactionRepositoryFacade
	postingRepo     portsrepo.PostingRepositoryFacade
	accountRepo     portsrepo.AccountRepositoryFacade
	periodResolver  portssvc.PeriodResolverSvc
	taxGenerator    portssvc.TaxLineGeneratorSvc
}

var _ portssvc.PostingSvcFacade = (*PostingService)(nil)

// NewPostingService creates a new PostingService.
func NewPostingService(
	transactionRepo portsrepo.TransactionRepositoryFacade,
	postingRepo portsrepo.PostingRepositoryFacade,
	accountRepo portsrepo.AccountRepositoryFacade,
	periodResolver portssvc.PeriodResolverSvc,
	taxGenerator portssvc.TaxLineGeneratorSvc,
) *PostingService {
	return &PostingService{
		transactionRepo: transactionRepo,
		postingRepo:     postingRepo,
		accountRepo:     accountRepo,
		periodResolver:  periodResolver,
		taxGenerator:    taxGenerator,
	}
}

// ValidateTransaction runs the posting preconditions against a draft without
// writing anything. The period gate is deliberately excluded: it is resolved
// at posting time so a validation result cannot go stale against a period
// being locked in between.
func (s *PostingService) ValidateTransaction(ctx context.Context, companyID string, transactionID string) error {
	txn, err := s.transactionRepo.FindTransactionByID(ctx, companyID, transactionID)
	if err != nil {
		return err
	}
	return s.validateForPosting(ctx, txn)
}

// validateForPosting checks, in order: lines present, draft status, accounts
// exist and are active, amounts strictly positive at 2dp, debits equal
// credits to the cent.
func (s *PostingService) validateForPosting(ctx context.Context, txn *domain.Transaction) error {
	if len(txn.Lines) == 0 {
		return fmt.Errorf("%w: transaction %s", ErrNoLines, txn.TransactionID)
	}
	if !txn.IsDraft() {
		return fmt.Errorf("%w: transaction %s is %s", ErrNotDraft, txn.TransactionID, txn.Status)
	}

	accountIDs := make([]string, 0, len(txn.Lines))
	for _, line := range txn.Lines {
		accountIDs = append(accountIDs, line.AccountID)
	}
	accountIDs = uniqueStrings(accountIDs)

	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, txn.CompanyID, accountIDs)
	if err != nil {
		return err
	}
	for _, accountID := range accountIDs {
		account, found := accounts[accountID]
		if !found {
			return fmt.Errorf("account %s: %w", accountID, apperrors.ErrNotFound)
		}
		if !account.IsActive {
			return fmt.Errorf("%w: account %s (%s)", ErrAccountInactive, account.Code, accountID)
		}
	}

	for i, line := range txn.Lines {
		if !line.Amount.IsPositive() || !accounting.HasValidScale(line.Amount) {
			return fmt.Errorf("%w: line %d has amount %s", ErrInvalidAmount, i, line.Amount)
		}
	}

	debits, credits := accounting.SumByDirection(txn.Lines)
	if !debits.Equal(credits) {
		return &UnbalancedError{Debits: debits, Credits: credits}
	}

	return nil
}

// PostTransaction validates the draft, resolves the period gate, derives
// ledger entries and tax lines, and commits the posting unit of work. The
// status flip is a compare-and-swap, so exactly one concurrent caller
// succeeds.
func (s *PostingService) PostTransaction(ctx context.Context, companyID string, transactionID string, actorID string) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	txn, err := s.transactionRepo.FindTransactionByID(ctx, companyID, transactionID)
	if err != nil {
		return nil, err
	}

	if err := s.validateForPosting(ctx, txn); err != nil {
		return nil, err
	}

	period, err := s.periodResolver.ResolveOpenPeriod(ctx, companyID, txn.TransactionDate)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	entries := buildLedgerEntries(*txn, now, actorID)

	taxLines, err := s.taxGenerator.BuildTaxLines(ctx, companyID, entries)
	if err != nil {
		return nil, err
	}

	audit := domain.AuditEvent{
		EventID:    uuid.NewString(),
		CompanyID:  companyID,
		ActorID:    actorID,
		EventType:  domain.AuditTxnPosted,
		EntityType: "TRANSACTION",
		EntityID:   transactionID,
		Summary:    fmt.Sprintf("Posted into period %q with %d entries", period.Name, len(entries)),
		CreatedAt:  now,
	}

	if err := s.postingRepo.SavePosting(ctx, companyID, transactionID, now, actorID, entries, taxLines, audit); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			logger.Warn("Concurrent posting detected", slog.String("transaction_id", transactionID))
			return nil, fmt.Errorf("%w: transaction %s", ErrAlreadyPosted, transactionID)
		}
		logger.Error("Failed to save posting", slog.String("error", err.Error()), slog.String("transaction_id", transactionID))
		return nil, err
	}

	txn.Status = domain.StatusPosted
	txn.PostedAt = &now
	txn.Touch(actorID, now)

	logger.Info("Transaction posted",
		slog.String("transaction_id", transactionID),
		slog.String("period", period.Name),
		slog.Int("entries", len(entries)),
		slog.Int("tax_lines", len(taxLines)),
	)
	return txn, nil
}

// ReverseTransaction posts a new transaction mirroring the original with
// inverted line directions and records the reversal link. One reversal is
// allowed per original; a reversal itself cannot be reversed.
func (s *PostingService) ReverseTransaction(ctx context.Context, companyID string, transactionID string, req dto.ReverseTransactionRequest, actorID string) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	original, err := s.transactionRepo.FindTransactionByID(ctx, companyID, transactionID)
	if err != nil {
		return nil, err
	}
	if original.Status != domain.StatusPosted {
		return nil, fmt.Errorf("%w: transaction %s is %s", ErrNotPosted, transactionID, original.Status)
	}

	if _, err := s.postingRepo.FindReversalLinkByReversing(ctx, companyID, transactionID); err == nil {
		return nil, fmt.Errorf("%w: transaction %s", ErrIsReversal, transactionID)
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}
	if link, err := s.postingRepo.FindReversalLinkByOriginal(ctx, companyID, transactionID); err == nil {
		return nil, fmt.Errorf("%w: transaction %s is reversed by %s", ErrAlreadyReversed, transactionID, link.ReversingTransactionID)
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	// The reversal lands on the original's date unless the caller redirects
	// it, typically into the current period when the original's is locked.
	reversalDate := original.TransactionDate
	if req.Date != nil {
		reversalDate, err = parseDateOnly(*req.Date)
		if err != nil {
			return nil, apperrors.NewValidationError(fmt.Sprintf("invalid reversal date: %s", *req.Date))
		}
	}

	period, err := s.periodResolver.ResolveOpenPeriod(ctx, companyID, reversalDate)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	reversing := domain.Transaction{
		TransactionID:   uuid.NewString(),
		CompanyID:       companyID,
		TransactionType: original.TransactionType,
		TransactionDate: reversalDate,
		Description:     fmt.Sprintf("Reversal of %s", original.Description),
		Status:          domain.StatusPosted,
		PostedAt:        &now,
		AuditFields:     domain.NewAuditFields(actorID, now),
	}

	lines := make([]domain.TransactionLine, 0, len(original.Lines))
	for _, line := range original.Lines {
		lines = append(lines, domain.TransactionLine{
			LineID:        uuid.NewString(),
			TransactionID: reversing.TransactionID,
			AccountID:     line.AccountID,
			Amount:        line.Amount,
			Direction:     line.Direction.Invert(),
			TaxCodeID:     line.TaxCodeID,
			DepartmentID:  line.DepartmentID,
			Notes:         line.Notes,
		})
	}
	reversing.Lines = lines

	entries := buildLedgerEntries(reversing, now, actorID)
	taxLines, err := s.taxGenerator.BuildTaxLines(ctx, companyID, entries)
	if err != nil {
		return nil, err
	}

	link := domain.ReversalLink{
		LinkID:                 uuid.NewString(),
		CompanyID:              companyID,
		OriginalTransactionID:  original.TransactionID,
		ReversingTransactionID: reversing.TransactionID,
		Reason:                 req.Reason,
		CreatedAt:              now,
		CreatedBy:              actorID,
	}
	audit := domain.AuditEvent{
		EventID:    uuid.NewString(),
		CompanyID:  companyID,
		ActorID:    actorID,
		EventType:  domain.AuditTxnReversed,
		EntityType: "TRANSACTION",
		EntityID:   original.TransactionID,
		Summary:    fmt.Sprintf("Reversed by %s into period %q", reversing.TransactionID, period.Name),
		CreatedAt:  now,
	}

	if err := s.postingRepo.SaveReversal(ctx, reversing, now, entries, taxLines, link, audit); err != nil {
		// The link's uniqueness on the original transaction catches a
		// concurrent reversal that slipped past the check above.
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: transaction %s", ErrAlreadyReversed, transactionID)
		}
		logger.Error("Failed to save reversal", slog.String("error", err.Error()), slog.String("transaction_id", transactionID))
		return nil, err
	}

	logger.Info("Transaction reversed",
		slog.String("original_transaction_id", original.TransactionID),
		slog.String("reversing_transaction_id", reversing.TransactionID),
		slog.String("period", period.Name),
	)
	return &reversing, nil
}

// buildLedgerEntries derives one immutable ledger entry per transaction line.
// Exactly one of AmountDr / AmountCr is set; the other stays zero.
func buildLedgerEntries(txn domain.Transaction, now time.Time, actorID string) []domain.LedgerEntry {
	entries := make([]domain.LedgerEntry, 0, len(txn.Lines))
	for _, line := range txn.Lines {
		entry := domain.LedgerEntry{
			EntryID:              uuid.NewString(),
			CompanyID:            txn.CompanyID,
			TransactionID:        txn.TransactionID,
			LineID:               line.LineID,
			AccountID:            line.AccountID,
			EntryDate:            txn.TransactionDate,
			TaxCodeID:            line.TaxCodeID,
			DepartmentID:         line.DepartmentID,
			ReconciliationStatus: domain.ReconUnreconciled,
			CreatedAt:            now,
			CreatedBy:            actorID,
		}
		if line.Direction == domain.Debit {
			entry.AmountDr = line.Amount
			entry.AmountCr = decimal.Zero
		} else {
			entry.AmountDr = decimal.Zero
			entry.AmountCr = line.Amount
		}
		entries = append(entries, entry)
	}
	return entries
}
