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

type PgxTaxCodeRepository struct {
	pool *pgxpool.Pool
}

// newPgxTaxCodeRepository creates a new repository for tax code data.
func newPgxTaxCodeRepository(pool *pgxpool.Pool) portsrepo.TaxCodeRepositoryFacade {
	return &PgxTaxCodeRepository{pool: pool}
}

// Ensure PgxTaxCodeRepository implements portsrepo.TaxCodeRepositoryFacade
var _ portsrepo.TaxCodeRepositoryFacade = (*PgxTaxCodeRepository)(nil)

const taxCodeColumns = `tax_code_id, company_id, code, name, rate, reporting_box, jurisdiction, inclusive, is_active, created_at, created_by, last_updated_at, last_updated_by`

func scanTaxCode(row pgx.Row) (models.TaxCode, error) {
	var m models.TaxCode
	err := row.Scan(
		&m.TaxCodeID,
		&m.CompanyID,
		&m.Code,
		&m.Name,
		&m.Rate,
		&m.ReportingBox,
		&m.Jurisdiction,
		&m.Inclusive,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// SaveTaxCode inserts a new tax code.
func (r *PgxTaxCodeRepository) SaveTaxCode(ctx context.Context, taxCode domain.TaxCode) error {
	m := mapping.ToModelTaxCode(taxCode)

	query := `
		INSERT INTO tax_codes (` + taxCodeColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err := r.pool.Exec(ctx, query,
		m.TaxCodeID,
		m.CompanyID,
		m.Code,
		m.Name,
		m.Rate,
		m.ReportingBox,
		m.Jurisdiction,
		m.Inclusive,
		m.IsActive,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: tax code %s already exists", apperrors.ErrDuplicate, m.Code)
		}
		return fmt.Errorf("failed to save tax code %s: %w", m.TaxCodeID, err)
	}
	return nil
}

// FindTaxCodeByID retrieves a tax code by its ID within a company.
func (r *PgxTaxCodeRepository) FindTaxCodeByID(ctx context.Context, companyID string, taxCodeID string) (*domain.TaxCode, error) {
	query := `
		SELECT ` + taxCodeColumns + `
		FROM tax_codes
		WHERE company_id = $1 AND tax_code_id = $2;
	`
	m, err := scanTaxCode(r.pool.QueryRow(ctx, query, companyID, taxCodeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find tax code by ID %s: %w", taxCodeID, err)
	}

	d := mapping.ToDomainTaxCode(m)
	return &d, nil
}

// FindTaxCodesByIDs retrieves multiple tax codes by their IDs.
func (r *PgxTaxCodeRepository) FindTaxCodesByIDs(ctx context.Context, companyID string, taxCodeIDs []string) (map[string]domain.TaxCode, error) {
	if len(taxCodeIDs) == 0 {
		return map[string]domain.TaxCode{}, nil
	}

	query := `
		SELECT ` + taxCodeColumns + `
		FROM tax_codes
		WHERE company_id = $1 AND tax_code_id = ANY($2);
	`
	rows, err := r.pool.Query(ctx, query, companyID, taxCodeIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query tax codes by IDs: %w", err)
	}
	defer rows.Close()

	taxCodesMap := make(map[string]domain.TaxCode)
	for rows.Next() {
		m, err := scanTaxCode(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tax code row during batch fetch: %w", err)
		}
		taxCodesMap[m.TaxCodeID] = mapping.ToDomainTaxCode(m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tax code rows during batch fetch: %w", err)
	}

	return taxCodesMap, nil
}

// ListTaxCodes retrieves a paginated list of active tax codes for a company.
func (r *PgxTaxCodeRepository) ListTaxCodes(ctx context.Context, companyID string, limit int, offset int) ([]domain.TaxCode, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	query := `
		SELECT ` + taxCodeColumns + `
		FROM tax_codes
		WHERE company_id = $1 AND is_active = TRUE
		ORDER BY code
		LIMIT $2 OFFSET $3;
	`
	rows, err := r.pool.Query(ctx, query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query tax codes for company %s: %w", companyID, err)
	}
	defer rows.Close()

	taxCodes := []models.TaxCode{}
	for rows.Next() {
		m, err := scanTaxCode(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tax code row for company %s: %w", companyID, err)
		}
		taxCodes = append(taxCodes, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tax code rows for company %s: %w", companyID, err)
	}

	return mapping.ToDomainTaxCodeSlice(taxCodes), nil
}

// UpdateTaxCode updates an existing tax code's details. Tax lines already
// written keep their snapshots; only future postings see the change.
func (r *PgxTaxCodeRepository) UpdateTaxCode(ctx context.Context, taxCode domain.TaxCode) error {
	m := mapping.ToModelTaxCode(taxCode)

	query := `
		UPDATE tax_codes
		SET name = $3, rate = $4, reporting_box = $5, jurisdiction = $6, inclusive = $7, is_active = $8, last_updated_at = $9, last_updated_by = $10
		WHERE company_id = $1 AND tax_code_id = $2;
	`
	cmdTag, err := r.pool.Exec(ctx, query,
		m.CompanyID,
		m.TaxCodeID,
		m.Name,
		m.Rate,
		m.ReportingBox,
		m.Jurisdiction,
		m.Inclusive,
		m.IsActive,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to execute update tax code %s: %w", m.TaxCodeID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeactivateTaxCode marks a tax code as inactive.
func (r *PgxTaxCodeRepository) DeactivateTaxCode(ctx context.Context, companyID string, taxCodeID string, actorID string, now time.Time) error {
	query := `
		UPDATE tax_codes
		SET is_active = FALSE, last_updated_at = $3, last_updated_by = $4
		WHERE company_id = $1 AND tax_code_id = $2 AND is_active = TRUE;
	`
	cmdTag, err := r.pool.Exec(ctx, query, companyID, taxCodeID, now, actorID)
	if err != nil {
		return fmt.Errorf("failed to execute deactivate tax code %s: %w", taxCodeID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		if _, findErr := r.FindTaxCodeByID(ctx, companyID, taxCodeID); errors.Is(findErr, apperrors.ErrNotFound) {
			return apperrors.ErrNotFound
		} else if findErr != nil {
			return fmt.Errorf("failed to check tax code status after deactivation attempt for %s: %w", taxCodeID, findErr)
		}
		return apperrors.ErrValidation
	}
	return nil
}
