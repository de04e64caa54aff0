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

var (
	// ErrNoPeriod indicates that no accounting period covers the posting date.
	ErrNoPeriod = errors.New("no accounting period covers the date")

	// ErrPeriodLocked indicates that the covering period does not admit postings.
	ErrPeriodLocked = errors.New("accounting period does not admit postings")

	// ErrInvalidTransition indicates a disallowed period status change.
	ErrInvalidTransition = errors.New("invalid period status transition")
)

// PeriodLockedError reports which period rejected a posting and the status it
// was in. It unwraps to ErrPeriodLocked.
type PeriodLockedError struct {
	PeriodName string
	Status     domain.PeriodStatus
}

func (e *PeriodLockedError) Error() string {
	return fmt.Sprintf("period %q is %s and does not admit postings", e.PeriodName, e.Status)
}

func (e *PeriodLockedError) Unwrap() error {
	return ErrPeriodLocked
}

// defaultFiscalYearMonths is the period count generated when the request
// leaves Months unset.
const defaultFiscalYearMonths = 12

// PeriodService manages accounting periods and acts as the posting engine's
// period gate.
type PeriodService struct {
	periodRepo portsrepo.PeriodRepositoryFacade
}

var _ portssvc.PeriodSvcFacade = (*PeriodService)(nil)

// NewPeriodService creates a new PeriodService.
func NewPeriodService(periodRepo portsrepo.PeriodRepositoryFacade) *PeriodService {
	return &PeriodService{periodRepo: periodRepo}
}

// ResolveOpenPeriod returns the OPEN period covering date. The posting engine
// calls this immediately before committing a posting.
func (s *PeriodService) ResolveOpenPeriod(ctx context.Context, companyID string, date time.Time) (*domain.Period, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	period, err := s.periodRepo.FindPeriodCovering(ctx, companyID, date)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNoPeriod, date.Format("2006-01-02"))
		}
		logger.Error("Failed to resolve period", slog.String("error", err.Error()), slog.String("company_id", companyID))
		return nil, err
	}

	if period.Status != domain.PeriodOpen {
		return nil, &PeriodLockedError{PeriodName: period.Name, Status: period.Status}
	}

	return period, nil
}

func (s *PeriodService) GetPeriodByID(ctx context.Context, companyID string, periodID string) (*domain.Period, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	period, err := s.periodRepo.FindPeriodByID(ctx, companyID, periodID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find period", slog.String("error", err.Error()), slog.String("period_id", periodID))
		}
		return nil, err
	}
	return period, nil
}

func (s *PeriodService) ListPeriods(ctx context.Context, companyID string, limit int, offset int) ([]domain.Period, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	periods, err := s.periodRepo.ListPeriods(ctx, companyID, limit, offset)
	if err != nil {
		logger.Error("Failed to list periods", slog.String("error", err.Error()), slog.String("company_id", companyID))
		return nil, err
	}
	return periods, nil
}

// CreateFiscalYear generates consecutive monthly OPEN periods starting at the
// request's start date. The generated ranges are contiguous and gap-free; a
// date range already covered by an existing period is rejected.
func (s *PeriodService) CreateFiscalYear(ctx context.Context, companyID string, req dto.CreateFiscalYearRequest, actorID string) ([]domain.Period, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	start, err := parseDateOnly(req.StartDate)
	if err != nil {
		return nil, apperrors.NewValidationError(fmt.Sprintf("invalid start date: %s", req.StartDate))
	}

	months := req.Months
	if months == 0 {
		months = defaultFiscalYearMonths
	}

	lastEnd := start.AddDate(0, months, 0).AddDate(0, 0, -1)
	for _, probe := range []time.Time{start, lastEnd} {
		existing, err := s.periodRepo.FindPeriodCovering(ctx, companyID, probe)
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		if existing != nil {
			return nil, apperrors.NewConflictError(fmt.Sprintf("period %q already covers %s", existing.Name, probe.Format("2006-01-02")))
		}
	}

	now := time.Now().UTC()
	periods := make([]domain.Period, 0, months)
	for i := 0; i < months; i++ {
		periodStart := start.AddDate(0, i, 0)
		periodEnd := start.AddDate(0, i+1, 0).AddDate(0, 0, -1)
		periods = append(periods, domain.Period{
			PeriodID:    uuid.NewString(),
			CompanyID:   companyID,
			Name:        periodStart.Format("Jan 2006"),
			StartDate:   periodStart,
			EndDate:     periodEnd,
			Status:      domain.PeriodOpen,
			AuditFields: domain.NewAuditFields(actorID, now),
		})
	}

	if err := s.periodRepo.SavePeriods(ctx, periods); err != nil {
		logger.Error("Failed to save periods", slog.String("error", err.Error()), slog.String("company_id", companyID))
		return nil, err
	}

	logger.Info("Fiscal year created", slog.String("company_id", companyID), slog.Int("periods", len(periods)))
	return periods, nil
}

// LockPeriod transitions OPEN -> LOCKED.
func (s *PeriodService) LockPeriod(ctx context.Context, companyID string, periodID string, actorID string) (*domain.Period, error) {
	return s.transition(ctx, companyID, periodID, domain.PeriodLocked, domain.AuditPeriodLocked, actorID)
}

// UnlockPeriod transitions LOCKED -> OPEN.
func (s *PeriodService) UnlockPeriod(ctx context.Context, companyID string, periodID string, actorID string) (*domain.Period, error) {
	return s.transition(ctx, companyID, periodID, domain.PeriodOpen, domain.AuditPeriodUnlocked, actorID)
}

// ClosePeriod transitions OPEN or LOCKED -> CLOSED. Closed periods never reopen.
func (s *PeriodService) ClosePeriod(ctx context.Context, companyID string, periodID string, actorID string) (*domain.Period, error) {
	return s.transition(ctx, companyID, periodID, domain.PeriodClosed, domain.AuditPeriodClosed, actorID)
}

func (s *PeriodService) transition(ctx context.Context, companyID string, periodID string, target domain.PeriodStatus, eventType domain.AuditEventType, actorID string) (*domain.Period, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	period, err := s.periodRepo.FindPeriodByID(ctx, companyID, periodID)
	if err != nil {
		return nil, err
	}

	if !period.Status.CanTransitionTo(target) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, period.Status, target)
	}

	now := time.Now().UTC()
	audit := domain.AuditEvent{
		EventID:    uuid.NewString(),
		CompanyID:  companyID,
		ActorID:    actorID,
		EventType:  eventType,
		EntityType: "PERIOD",
		EntityID:   periodID,
		Summary:    fmt.Sprintf("Period %q %s -> %s", period.Name, period.Status, target),
		CreatedAt:  now,
	}

	if err := s.periodRepo.UpdatePeriodStatus(ctx, companyID, periodID, target, actorID, now, audit); err != nil {
		logger.Error("Failed to update period status", slog.String("error", err.Error()), slog.String("period_id", periodID))
		return nil, err
	}

	period.Status = target
	period.Touch(actorID, now)
	logger.Info("Period status changed", slog.String("period_id", periodID), slog.String("status", string(target)))
	return period, nil
}
