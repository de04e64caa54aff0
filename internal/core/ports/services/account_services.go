package services

import (
	"context"

	"github.com/keabooks/kea_books_app/internal/core/domain"
	"github.com/keabooks/kea_books_app/internal/dto"
)

// AccountReaderSvc defines read operations for account data
type AccountReaderSvc interface {
	// GetAccountByID retrieves a specific account by its ID.
	GetAccountByID(ctx context.Context, companyID string, accountID string) (*domain.Account, error)

	// ListAccounts retrieves a paginated list of accounts in a company.
	ListAccounts(ctx context.Context, companyID string, limit int, offset int) ([]domain.Account, error)
}

// AccountWriterSvc defines write operations for account data
type AccountWriterSvc interface {
	// CreateAccount persists a new account in the chart of accounts.
	CreateAccount(ctx context.Context, companyID string, req dto.CreateAccountRequest, actorID string) (*domain.Account, error)

	// UpdateAccount updates account details.
	UpdateAccount(ctx context.Context, companyID string, accountID string, req dto.UpdateAccountRequest, actorID string) (*domain.Account, error)

	// DeactivateAccount marks an account as inactive; existing postings are untouched.
	DeactivateAccount(ctx context.Context, companyID string, accountID string, actorID string) error
}

// AccountSvcFacade combines all account-related service interfaces
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
}
