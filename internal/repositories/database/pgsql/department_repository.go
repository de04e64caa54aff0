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

type PgxDepartmentRepository struct {
	pool *pgxpool.Pool
}

// newPgxDepartmentRepository creates a new repository for department data.
func newPgxDepartmentRepository(pool *pgxpool.Pool) portsrepo.DepartmentRepositoryFacade {
	return &PgxDepartmentRepository{pool: pool}
}

// Ensure PgxDepartmentRepository implements portsrepo.DepartmentRepositoryFacade
var _ portsrepo.DepartmentRepositoryFacade = (*PgxDepartmentRepository)(nil)

const departmentColumns = `department_id, company_id, name, is_active, created_at, created_by, last_updated_at, last_updated_by`

func scanDepartment(row pgx.Row) (models.Department, error) {
	var m models.Department
	err := row.Scan(
		&m.DepartmentID,
		&m.CompanyID,
		&m.Name,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// SaveDepartment inserts a new department.
func (r *PgxDepartmentRepository) SaveDepartment(ctx context.Context, department domain.Department) error {
	m := mapping.ToModelDepartment(department)

	query := `
		INSERT INTO departments (` + departmentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := r.pool.Exec(ctx, query,
		m.DepartmentID,
		m.CompanyID,
		m.Name,
		m.IsActive,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: department %s already exists", apperrors.ErrDuplicate, m.DepartmentID)
		}
		return fmt.Errorf("failed to save department %s: %w", m.DepartmentID, err)
	}
	return nil
}

// FindDepartmentByID retrieves a department by its ID within a company.
func (r *PgxDepartmentRepository) FindDepartmentByID(ctx context.Context, companyID string, departmentID string) (*domain.Department, error) {
	query := `
		SELECT ` + departmentColumns + `
		FROM departments
		WHERE company_id = $1 AND department_id = $2;
	`
	m, err := scanDepartment(r.pool.QueryRow(ctx, query, companyID, departmentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find department by ID %s: %w", departmentID, err)
	}

	d := mapping.ToDomainDepartment(m)
	return &d, nil
}

// ListDepartments retrieves a paginated list of active departments for a company.
func (r *PgxDepartmentRepository) ListDepartments(ctx context.Context, companyID string, limit int, offset int) ([]domain.Department, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	query := `
		SELECT ` + departmentColumns + `
		FROM departments
		WHERE company_id = $1 AND is_active = TRUE
		ORDER BY name
		LIMIT $2 OFFSET $3;
	`
	rows, err := r.pool.Query(ctx, query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query departments for company %s: %w", companyID, err)
	}
	defer rows.Close()

	departments := []models.Department{}
	for rows.Next() {
		m, err := scanDepartment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan department row for company %s: %w", companyID, err)
		}
		departments = append(departments, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating department rows for company %s: %w", companyID, err)
	}

	return mapping.ToDomainDepartmentSlice(departments), nil
}

// UpdateDepartment updates an existing department's details.
func (r *PgxDepartmentRepository) UpdateDepartment(ctx context.Context, department domain.Department) error {
	m := mapping.ToModelDepartment(department)

	query := `
		UPDATE departments
		SET name = $3, is_active = $4, last_updated_at = $5, last_updated_by = $6
		WHERE company_id = $1 AND department_id = $2;
	`
	cmdTag, err := r.pool.Exec(ctx, query,
		m.CompanyID,
		m.DepartmentID,
		m.Name,
		m.IsActive,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to execute update department %s: %w", m.DepartmentID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeactivateDepartment marks a department as inactive.
func (r *PgxDepartmentRepository) DeactivateDepartment(ctx context.Context, companyID string, departmentID string, actorID string, now time.Time) error {
	query := `
		UPDATE departments
		SET is_active = FALSE, last_updated_at = $3, last_updated_by = $4
		WHERE company_id = $1 AND department_id = $2 AND is_active = TRUE;
	`
	cmdTag, err := r.pool.Exec(ctx, query, companyID, departmentID, now, actorID)
	if err != nil {
		return fmt.Errorf("failed to execute deactivate department %s: %w", departmentID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		if _, findErr := r.FindDepartmentByID(ctx, companyID, departmentID); errors.Is(findErr, apperrors.ErrNotFound) {
			return apperrors.ErrNotFound
		} else if findErr != nil {
			return fmt.Errorf("failed to check department status after deactivation attempt for %s: %w", departmentID, findErr)
		}
		return apperrors.ErrValidation
	}
	return nil
}
