package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/keabooks/kea_books_app/internal/apperrors"
	"github.com/keabooks/kea_books_app/internal/core/domain"
	portsrepo "github.com/keabooks/kea_books_app/internal/core/ports/repositories"
	portssvc "github.com/keabooks/kea_books_app/internal/core/ports/services"
	"github.com/keabooks/kea_books_app/internal/dto"
	"github.com/keabooks/kea_books_app/internal/middleware"
)

// ErrNotDraft indicates an edit attempt against a transaction that is no
// longer a draft. Posted transactions are corrected via reversal.
var ErrNotDraft = errors.New("transaction is not a draft")

// TransactionService owns the draft transaction lifecycle. The flip to POSTED
// belongs to PostingService.
type TransactionService struct {
	transactionRepo portsrepo.TransactionRepositoryFacade
	postingRepo     portsrepo.PostingRepositoryFacade
}

var _ portssvc.TransactionSvcFacade = (*TransactionService)(nil)

// NewTransactionService creates a new TransactionService.
func NewTransactionService(transactionRepo portsrepo.TransactionRepositoryFacade, postingRepo portsrepo.PostingRepositoryFacade) *TransactionService {
	return &TransactionService{
		transactionRepo: transactionRepo,
		postingRepo:     postingRepo,
	}
}

// CreateDraft persists a new draft transaction. Drafts may be incomplete or
// unbalanced; the posting validations run when posting is requested.
func (s *TransactionService) CreateDraft(ctx context.Context, companyID string, req dto.CreateTransactionRequest, actorID string) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	date, err := parseDateOnly(req.TransactionDate)
	if err != nil {
		return nil, apperrors.NewValidationError(fmt.Sprintf("invalid transaction date: %s", req.TransactionDate))
	}

	now := time.Now().UTC()
	txn := domain.Transaction{
		TransactionID:   uuid.NewString(),
		CompanyID:       companyID,
		TransactionType: domain.TransactionType(req.TransactionType),
		TransactionDate: date,
		Description:     req.Description,
		Status:          domain.StatusDraft,
		AuditFields:     domain.NewAuditFields(actorID, now),
	}
	txn.Lines = buildTransactionLines(txn.TransactionID, req.Lines)

	if err := s.transactionRepo.SaveTransaction(ctx, txn); err != nil {
		logger.Error("Failed to save draft transaction", slog.String("error", err.Error()), slog.String("transaction_id", txn.TransactionID))
		return nil, err
	}

	logger.Info("Draft transaction created", slog.String("transaction_id", txn.TransactionID), slog.Int("lines", len(txn.Lines)))
	return &txn, nil
}

// UpdateDraft replaces a draft's date, description and lines. When the
// request carries lines the existing ones are replaced wholesale.
func (s *TransactionService) UpdateDraft(ctx context.Context, companyID string, transactionID string, req dto.UpdateTransactionRequest, actorID string) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	txn, err := s.transactionRepo.FindTransactionByID(ctx, companyID, transactionID)
	if err != nil {
		return nil, err
	}
	if !txn.IsDraft() {
		return nil, fmt.Errorf("%w: transaction %s is %s", ErrNotDraft, transactionID, txn.Status)
	}

	if req.TransactionDate != nil {
		date, err := parseDateOnly(*req.TransactionDate)
		if err != nil {
			return nil, apperrors.NewValidationError(fmt.Sprintf("invalid transaction date: %s", *req.TransactionDate))
		}
		txn.TransactionDate = date
	}
	if req.Description != nil {
		txn.Description = *req.Description
	}
	if req.Lines != nil {
		txn.Lines = buildTransactionLines(txn.TransactionID, *req.Lines)
	}
	txn.Touch(actorID, time.Now().UTC())

	if err := s.transactionRepo.UpdateDraftTransaction(ctx, *txn); err != nil {
		// The repository guards the update on status DRAFT; a conflict means
		// the transaction was posted or voided between our read and write.
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, fmt.Errorf("%w: transaction %s", ErrNotDraft, transactionID)
		}
		logger.Error("Failed to update draft transaction", slog.String("error", err.Error()), slog.String("transaction_id", transactionID))
		return nil, err
	}

	logger.Info("Draft transaction updated", slog.String("transaction_id", transactionID))
	return txn, nil
}

// VoidDraft discards a draft, flipping it to VOID.
func (s *TransactionService) VoidDraft(ctx context.Context, companyID string, transactionID string, actorID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.transactionRepo.VoidDraftTransaction(ctx, companyID, transactionID, actorID, time.Now().UTC()); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return fmt.Errorf("%w: transaction %s", ErrNotDraft, transactionID)
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to void draft transaction", slog.String("error", err.Error()), slog.String("transaction_id", transactionID))
		}
		return err
	}

	logger.Info("Draft transaction voided", slog.String("transaction_id", transactionID))
	return nil
}

// DeleteDraft removes a draft and its lines entirely.
func (s *TransactionService) DeleteDraft(ctx context.Context, companyID string, transactionID string, actorID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.transactionRepo.DeleteDraftTransaction(ctx, companyID, transactionID); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return fmt.Errorf("%w: transaction %s", ErrNotDraft, transactionID)
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to delete draft transaction", slog.String("error", err.Error()), slog.String("transaction_id", transactionID))
		}
		return err
	}

	logger.Info("Draft transaction deleted", slog.String("transaction_id", transactionID), slog.String("actor_id", actorID))
	return nil
}

// GetTransactionByID retrieves a transaction with its lines. For posted
// transactions the reversal linkage is resolved onto the response.
func (s *TransactionService) GetTransactionByID(ctx context.Context, companyID string, transactionID string) (*dto.TransactionResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	txn, err := s.transactionRepo.FindTransactionByID(ctx, companyID, transactionID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find transaction", slog.String("error", err.Error()), slog.String("transaction_id", transactionID))
		}
		return nil, err
	}

	resp := dto.ToTransactionResponse(*txn)
	if txn.Status == domain.StatusPosted {
		if link, err := s.postingRepo.FindReversalLinkByOriginal(ctx, companyID, transactionID); err == nil {
			resp.ReversedByTransactionID = &link.ReversingTransactionID
		} else if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		if link, err := s.postingRepo.FindReversalLinkByReversing(ctx, companyID, transactionID); err == nil {
			resp.ReversesTransactionID = &link.OriginalTransactionID
		} else if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
	}

	return &resp, nil
}

// ListTransactions retrieves a page of transaction headers, newest first.
func (s *TransactionService) ListTransactions(ctx context.Context, companyID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	var status *domain.TransactionStatus
	if params.Status != nil {
		v := domain.TransactionStatus(*params.Status)
		status = &v
	}
	var txnType *domain.TransactionType
	if params.TransactionType != nil {
		v := domain.TransactionType(*params.TransactionType)
		txnType = &v
	}
	var nextToken *string
	if params.NextToken != "" {
		nextToken = &params.NextToken
	}

	txns, newToken, err := s.transactionRepo.ListTransactions(ctx, companyID, params.Limit, nextToken, status, txnType)
	if err != nil {
		logger.Error("Failed to list transactions", slog.String("error", err.Error()), slog.String("company_id", companyID))
		return nil, err
	}

	resp := &dto.ListTransactionsResponse{Items: dto.ToTransactionResponses(txns)}
	if newToken != nil {
		resp.NextPageToken = *newToken
	}
	return resp, nil
}

// buildTransactionLines materializes request lines under a transaction,
// assigning fresh line IDs.
func buildTransactionLines(transactionID string, reqs []dto.CreateTransactionLineRequest) []domain.TransactionLine {
	lines := make([]domain.TransactionLine, 0, len(reqs))
	for _, req := range reqs {
		lines = append(lines, domain.TransactionLine{
			LineID:        uuid.NewString(),
			TransactionID: transactionID,
			AccountID:     req.AccountID,
			Amount:        req.Amount,
			Direction:     domain.Direction(req.Direction),
			TaxCodeID:     req.TaxCodeID,
			DepartmentID:  req.DepartmentID,
			Notes:         req.Notes,
		})
	}
	return lines
}

// parseDateOnly parses a 2006-01-02 value into a midnight UTC time.
func parseDateOnly(value string) (time.Time, error) {
	return time.Parse("2006-01-02", value)
}

// uniqueStrings returns values with duplicates removed, order preserved.
func uniqueStrings(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	unique := make([]string, 0, len(values))
	for _, value := range values {
		if _, dup := seen[value]; dup {
			continue
		}
		seen[value] = struct{}{}
		unique = append(unique, value)
	}
	return unique
}
