package repositories

import (
	"context"
	"time"

	"github.com/keabooks/kea_books_app/internal/core/domain"
)

// PeriodReader defines read operations for accounting period data
type PeriodReader interface {
	// FindPeriodByID retrieves a specific period within a company.
	FindPeriodByID(ctx context.Context, companyID string, periodID string) (*domain.Period, error)

	// FindPeriodCovering retrieves the period whose date range contains the
	// given date. Returns apperrors.ErrNotFound when no period covers it.
	FindPeriodCovering(ctx context.Context, companyID string, date time.Time) (*domain.Period, error)

	// ListPeriods retrieves a paginated list of periods for a given company,
	// ordered by start date.
	ListPeriods(ctx context.Context, companyID string, limit int, offset int) ([]domain.Period, error)
}

// PeriodWriter defines write operations for accounting period data
type PeriodWriter interface {
	// SavePeriods persists a batch of new periods in a single transaction.
	// Used by fiscal year creation.
	SavePeriods(ctx context.Context, periods []domain.Period) error

	// UpdatePeriodStatus transitions a period's status and records the audit
	// event in the same database transaction.
	UpdatePeriodStatus(ctx context.Context, companyID string, periodID string, status domain.PeriodStatus, actorID string, now time.Time, audit domain.AuditEvent) error
}

// PeriodRepositoryFacade combines all period-related repository interfaces
type PeriodRepositoryFacade interface {
	PeriodReader
	PeriodWriter
}
