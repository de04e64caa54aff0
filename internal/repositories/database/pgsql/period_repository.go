package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/keabooks/kea_books_app/internal/apperrors"
	"github.com/keabooks/kea_books_app/internal/core/domain"
	portsrepo "github.com/keabooks/kea_books_app/internal/core/ports/repositories"
	"github.com/keabooks/kea_books_app/internal/models"
	"github.com/keabooks/kea_books_app/internal/utils/mapping"
)

type PgxPeriodRepository struct {
	BaseRepository
}

// newPgxPeriodRepository creates a new repository for accounting period data.
func newPgxPeriodRepository(pool *pgxpool.Pool) portsrepo.PeriodRepositoryFacade {
	return &PgxPeriodRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxPeriodRepository implements portsrepo.PeriodRepositoryFacade
var _ portsrepo.PeriodRepositoryFacade = (*PgxPeriodRepository)(nil)

const periodColumns = `period_id, company_id, name, start_date, end_date, status, created_at, created_by, last_updated_at, last_updated_by`

func scanPeriod(row pgx.Row) (models.Period, error) {
	var m models.Period
	err := row.Scan(
		&m.PeriodID,
		&m.CompanyID,
		&m.Name,
		&m.StartDate,
		&m.EndDate,
		&m.Status,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// SavePeriods inserts a batch of new periods in a single transaction.
func (r *PgxPeriodRepository) SavePeriods(ctx context.Context, periods []domain.Period) error {
	if len(periods) == 0 {
		return nil
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	query := `
		INSERT INTO periods (` + periodColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	batch := &pgx.Batch{}
	for _, period := range periods {
		m := mapping.ToModelPeriod(period)
		batch.Queue(query,
			m.PeriodID,
			m.CompanyID,
			m.Name,
			m.StartDate,
			m.EndDate,
			m.Status,
			m.CreatedAt,
			m.CreatedBy,
			m.LastUpdatedAt,
			m.LastUpdatedBy,
		)
	}

	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: overlapping or duplicate period", apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to execute period insert batch: %w", err)
	}

	return r.Commit(ctx, tx)
}

// FindPeriodByID retrieves a period by its ID within a company.
func (r *PgxPeriodRepository) FindPeriodByID(ctx context.Context, companyID string, periodID string) (*domain.Period, error) {
	query := `
		SELECT ` + periodColumns + `
		FROM periods
		WHERE company_id = $1 AND period_id = $2;
	`
	m, err := scanPeriod(r.Pool.QueryRow(ctx, query, companyID, periodID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find period by ID %s: %w", periodID, err)
	}

	d := mapping.ToDomainPeriod(m)
	return &d, nil
}

// FindPeriodCovering retrieves the period whose date range contains the given
// date, bounds inclusive.
func (r *PgxPeriodRepository) FindPeriodCovering(ctx context.Context, companyID string, date time.Time) (*domain.Period, error) {
	query := `
		SELECT ` + periodColumns + `
		FROM periods
		WHERE company_id = $1 AND start_date <= $2 AND end_date >= $2
		ORDER BY start_date
		LIMIT 1;
	`
	m, err := scanPeriod(r.Pool.QueryRow(ctx, query, companyID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find period covering %s: %w", date.Format("2006-01-02"), err)
	}

	d := mapping.ToDomainPeriod(m)
	return &d, nil
}

// ListPeriods retrieves a paginated list of periods ordered by start date.
func (r *PgxPeriodRepository) ListPeriods(ctx context.Context, companyID string, limit int, offset int) ([]domain.Period, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	query := `
		SELECT ` + periodColumns + `
		FROM periods
		WHERE company_id = $1
		ORDER BY start_date
		LIMIT $2 OFFSET $3;
	`
	rows, err := r.Pool.Query(ctx, query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query periods for company %s: %w", companyID, err)
	}
	defer rows.Close()

	periods := []models.Period{}
	for rows.Next() {
		m, err := scanPeriod(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan period row for company %s: %w", companyID, err)
		}
		periods = append(periods, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating period rows for company %s: %w", companyID, err)
	}

	return mapping.ToDomainPeriodSlice(periods), nil
}

// UpdatePeriodStatus transitions a period's status and records the audit event
// in the same database transaction. The service has already validated the
// transition against the period's current status.
func (r *PgxPeriodRepository) UpdatePeriodStatus(ctx context.Context, companyID string, periodID string, status domain.PeriodStatus, actorID string, now time.Time, audit domain.AuditEvent) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	query := `
		UPDATE periods
		SET status = $3, last_updated_at = $4, last_updated_by = $5
		WHERE company_id = $1 AND period_id = $2;
	`
	cmdTag, err := tx.Exec(ctx, query, companyID, periodID, string(status), now, actorID)
	if err != nil {
		return fmt.Errorf("failed to update period status for %s: %w", periodID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	if err := insertAuditEventTx(ctx, tx, audit); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}
