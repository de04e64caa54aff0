package services

import (
	"context"
	"errors"
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

// AccountService manages the chart of accounts.
type AccountService struct {
	accountRepo portsrepo.AccountRepositoryFacade
}

var _ portssvc.AccountSvcFacade = (*AccountService)(nil)

// NewAccountService creates a new AccountService.
func NewAccountService(accountRepo portsrepo.AccountRepositoryFacade) *AccountService {
	return &AccountService{accountRepo: accountRepo}
}

func (s *AccountService) CreateAccount(ctx context.Context, companyID string, req dto.CreateAccountRequest, actorID string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	now := time.Now().UTC()

	controlRole := domain.ControlNone
	if req.ControlRole != "" {
		controlRole = domain.ControlRole(req.ControlRole)
	}

	account := domain.Account{
		AccountID:   uuid.NewString(),
		CompanyID:   companyID,
		Code:        req.Code,
		Name:        req.Name,
		AccountType: domain.AccountType(req.AccountType),
		ControlRole: controlRole,
		Description: req.Description,
		IsActive:    true,
		AuditFields: domain.NewAuditFields(actorID, now),
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			logger.Warn("Account code already in use", slog.String("code", req.Code), slog.String("company_id", companyID))
			return nil, err
		}
		logger.Error("Failed to save account", slog.String("error", err.Error()), slog.String("account_id", account.AccountID))
		return nil, err
	}

	logger.Info("Account created", slog.String("account_id", account.AccountID), slog.String("code", account.Code))
	return &account, nil
}

func (s *AccountService) GetAccountByID(ctx context.Context, companyID string, accountID string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	account, err := s.accountRepo.FindAccountByID(ctx, companyID, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find account", slog.String("error", err.Error()), slog.String("account_id", accountID))
		}
		return nil, err
	}
	return account, nil
}

func (s *AccountService) ListAccounts(ctx context.Context, companyID string, limit int, offset int) ([]domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	accounts, err := s.accountRepo.ListAccounts(ctx, companyID, limit, offset)
	if err != nil {
		logger.Error("Failed to list accounts", slog.String("error", err.Error()), slog.String("company_id", companyID))
		return nil, err
	}
	return accounts, nil
}

func (s *AccountService) UpdateAccount(ctx context.Context, companyID string, accountID string, req dto.UpdateAccountRequest, actorID string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.accountRepo.FindAccountByID(ctx, companyID, accountID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		account.Name = *req.Name
	}
	if req.Description != nil {
		account.Description = *req.Description
	}
	if req.IsActive != nil {
		account.IsActive = *req.IsActive
	}
	account.Touch(actorID, time.Now().UTC())

	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		logger.Error("Failed to update account", slog.String("error", err.Error()), slog.String("account_id", accountID))
		return nil, err
	}

	logger.Info("Account updated", slog.String("account_id", accountID))
	return account, nil
}

func (s *AccountService) DeactivateAccount(ctx context.Context, companyID string, accountID string, actorID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.accountRepo.DeactivateAccount(ctx, companyID, accountID, actorID, time.Now().UTC()); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to deactivate account", slog.String("error", err.Error()), slog.String("account_id", accountID))
		}
		return err
	}

	logger.Info("Account deactivated", slog.String("account_id", accountID))
	return nil
}
