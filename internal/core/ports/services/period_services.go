package services

import (
	"context"
	"time"

	"github.com/keabooks/kea_books_app/internal/core/domain"
	"github.com/keabooks/kea_books_app/internal/dto"
)

// PeriodResolverSvc is the gate the posting engine consults before writing.
type PeriodResolverSvc interface {
	// ResolveOpenPeriod returns the OPEN period covering date. It returns
	// services.ErrNoPeriod when no period covers the date and a
	// services.PeriodLockedError (wrapping ErrPeriodLocked) when the covering
	// period is LOCKED or CLOSED.
	ResolveOpenPeriod(ctx context.Context, companyID string, date time.Time) (*domain.Period, error)
}

// PeriodReaderSvc defines read operations for period data
type PeriodReaderSvc interface {
	// GetPeriodByID retrieves a specific period by its ID.
	GetPeriodByID(ctx context.Context, companyID string, periodID string) (*domain.Period, error)

	// ListPeriods retrieves a paginated list of periods in a company.
	ListPeriods(ctx context.Context, companyID string, limit int, offset int) ([]domain.Period, error)
}

// PeriodWriterSvc defines write operations for period data
type PeriodWriterSvc interface {
	// CreateFiscalYear creates twelve contiguous monthly OPEN periods
	// starting at the request's first day.
	CreateFiscalYear(ctx context.Context, companyID string, req dto.CreateFiscalYearRequest, actorID string) ([]domain.Period, error)

	// LockPeriod transitions OPEN -> LOCKED.
	LockPeriod(ctx context.Context, companyID string, periodID string, actorID string) (*domain.Period, error)

	// UnlockPeriod transitions LOCKED -> OPEN.
	UnlockPeriod(ctx context.Context, companyID string, periodID string, actorID string) (*domain.Period, error)

	// ClosePeriod transitions OPEN or LOCKED -> CLOSED. Terminal.
	ClosePeriod(ctx context.Context, companyID string, periodID string, actorID string) (*domain.Period, error)
}

// PeriodSvcFacade combines all period-related service interfaces
type PeriodSvcFacade interface {
	PeriodResolverSvc
	PeriodReaderSvc
	PeriodWriterSvc
}
