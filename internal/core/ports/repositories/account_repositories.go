package repositories

import (
	"context"
	"time"

	"github.com/keabooks/kea_books_app/internal/core/domain"
)

// AccountReader defines read operations for account data
type AccountReader interface {
	// FindAccountByID retrieves a specific account within a company.
	FindAccountByID(ctx context.Context, companyID string, accountID string) (*domain.Account, error)

	// FindAccountByCode retrieves an account by its user-facing code within a company.
	FindAccountByCode(ctx context.Context, companyID string, code string) (*domain.Account, error)

	// FindAccountByControlRole retrieves the active account carrying the given
	// control role. Meaningful for the receivable, payable and tax roles,
	// which have at most one active holder per company.
	FindAccountByControlRole(ctx context.Context, companyID string, role domain.ControlRole) (*domain.Account, error)

	// FindAccountsByIDs retrieves multiple accounts by their IDs, keyed by account ID.
	FindAccountsByIDs(ctx context.Context, companyID string, accountIDs []string) (map[string]domain.Account, error)

	// ListAccounts retrieves a paginated list of accounts for a given company.
	ListAccounts(ctx context.Context, companyID string, limit int, offset int) ([]domain.Account, error)
}

// AccountWriter defines write operations for account data
type AccountWriter interface {
	// SaveAccount persists a new account.
	SaveAccount(ctx context.Context, account domain.Account) error

	// UpdateAccount updates an existing account's details.
	UpdateAccount(ctx context.Context, account domain.Account) error

	// DeactivateAccount marks an account as inactive.
	DeactivateAccount(ctx context.Context, companyID string, accountID string, actorID string, now time.Time) error
}

// AccountRepositoryFacade combines all account-related repository interfaces
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}

// AccountRepositoryWithTx extends AccountRepositoryFacade with transaction capabilities
type AccountRepositoryWithTx interface {
	AccountRepositoryFacade
	TransactionManager
}
