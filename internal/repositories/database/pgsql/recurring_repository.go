package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/keabooks/kea_books_app/internal/apperrors"
	"github.com/keabooks/kea_books_app/internal/core/domain"
	portsrepo "github.com/keabooks/kea_books_app/internal/core/ports/repositories"
	"github.com/keabooks/kea_books_app/internal/models"
	"github.com/keabooks/kea_books_app/internal/utils/mapping"
)

type PgxRecurringRepository struct {
	BaseRepository
}

// newPgxRecurringRepository creates a new repository for recurring template data.
func newPgxRecurringRepository(pool *pgxpool.Pool) portsrepo.RecurringRepositoryFacade {
	return &PgxRecurringRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxRecurringRepository implements portsrepo.RecurringRepositoryFacade
var _ portsrepo.RecurringRepositoryFacade = (*PgxRecurringRepository)(nil)

const recurringTemplateColumns = `template_id, company_id, name, transaction_type, description, frequency, next_run_date, is_active, created_at, created_by, last_updated_at, last_updated_by`

const templateLineColumns = `line_id, template_id, account_id, amount, direction, tax_code_id, department_id`

const insertTemplateLineQuery = `
	INSERT INTO template_lines (` + templateLineColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7);
`

func scanRecurringTemplate(row pgx.Row) (models.RecurringTemplate, error) {
	var m models.RecurringTemplate
	err := row.Scan(
		&m.TemplateID,
		&m.CompanyID,
		&m.Name,
		&m.TransactionType,
		&m.Description,
		&m.Frequency,
		&m.NextRunDate,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func scanTemplateLine(row pgx.Row) (models.TemplateLine, error) {
	var m models.TemplateLine
	err := row.Scan(
		&m.LineID,
		&m.TemplateID,
		&m.AccountID,
		&m.Amount,
		&m.Direction,
		&m.TaxCodeID,
		&m.DepartmentID,
	)
	return m, err
}

func queueTemplateLineInserts(batch *pgx.Batch, lines []domain.TemplateLine) {
	for _, line := range lines {
		ml := mapping.ToModelTemplateLine(line)
		batch.Queue(insertTemplateLineQuery,
			ml.LineID,
			ml.TemplateID,
			ml.AccountID,
			ml.Amount,
			ml.Direction,
			ml.TaxCodeID,
			ml.DepartmentID,
		)
	}
}

// findTemplateLinesByTemplateIDs loads lines for a set of templates, grouped
// by template ID.
func (r *PgxRecurringRepository) findTemplateLinesByTemplateIDs(ctx context.Context, templateIDs []string) (map[string][]domain.TemplateLine, error) {
	grouped := make(map[string][]domain.TemplateLine, len(templateIDs))
	if len(templateIDs) == 0 {
		return grouped, nil
	}

	query := `
		SELECT ` + templateLineColumns + `
		FROM template_lines
		WHERE template_id = ANY($1)
		ORDER BY template_id, line_id;
	`
	rows, err := r.Pool.Query(ctx, query, templateIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query template lines: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		m, err := scanTemplateLine(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan template line row: %w", err)
		}
		grouped[m.TemplateID] = append(grouped[m.TemplateID], mapping.ToDomainTemplateLine(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating template line rows: %w", err)
	}

	return grouped, nil
}

// SaveTemplate persists a new template and its lines atomically.
func (r *PgxRecurringRepository) SaveTemplate(ctx context.Context, template domain.RecurringTemplate) error {
	m := mapping.ToModelRecurringTemplate(template)

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	query := `
		INSERT INTO recurring_templates (` + recurringTemplateColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	if _, err := tx.Exec(ctx, query,
		m.TemplateID,
		m.CompanyID,
		m.Name,
		m.TransactionType,
		m.Description,
		m.Frequency,
		m.NextRunDate,
		m.IsActive,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	); err != nil {
		return fmt.Errorf("failed to save template %s: %w", m.TemplateID, err)
	}

	batch := &pgx.Batch{}
	queueTemplateLineInserts(batch, template.Lines)
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to insert lines for template %s: %w", m.TemplateID, err)
	}

	return r.Commit(ctx, tx)
}

// FindTemplateByID retrieves a template with its lines.
func (r *PgxRecurringRepository) FindTemplateByID(ctx context.Context, companyID string, templateID string) (*domain.RecurringTemplate, error) {
	query := `
		SELECT ` + recurringTemplateColumns + `
		FROM recurring_templates
		WHERE company_id = $1 AND template_id = $2;
	`
	m, err := scanRecurringTemplate(r.Pool.QueryRow(ctx, query, companyID, templateID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find template by ID %s: %w", templateID, err)
	}

	lines, err := r.findTemplateLinesByTemplateIDs(ctx, []string{templateID})
	if err != nil {
		return nil, err
	}

	d := mapping.ToDomainRecurringTemplate(m)
	d.Lines = lines[templateID]
	return &d, nil
}

// ListTemplates retrieves a paginated list of template headers for a company,
// ordered by name.
func (r *PgxRecurringRepository) ListTemplates(ctx context.Context, companyID string, limit int, offset int) ([]domain.RecurringTemplate, error) {
	query := `
		SELECT ` + recurringTemplateColumns + `
		FROM recurring_templates
		WHERE company_id = $1
		ORDER BY name
		LIMIT $2 OFFSET $3;
	`
	rows, err := r.Pool.Query(ctx, query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query templates for company %s: %w", companyID, err)
	}
	defer rows.Close()

	templates := []models.RecurringTemplate{}
	for rows.Next() {
		m, err := scanRecurringTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan template row for company %s: %w", companyID, err)
		}
		templates = append(templates, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating template rows for company %s: %w", companyID, err)
	}

	return mapping.ToDomainRecurringTemplateSlice(templates), nil
}

// ListDueTemplates retrieves active templates with NextRunDate on or before
// asOf, with lines, oldest due first.
func (r *PgxRecurringRepository) ListDueTemplates(ctx context.Context, companyID string, asOf time.Time) ([]domain.RecurringTemplate, error) {
	query := `
		SELECT ` + recurringTemplateColumns + `
		FROM recurring_templates
		WHERE company_id = $1 AND is_active = TRUE AND next_run_date <= $2
		ORDER BY next_run_date, name;
	`
	rows, err := r.Pool.Query(ctx, query, companyID, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to query due templates for company %s: %w", companyID, err)
	}
	defer rows.Close()

	headers := []models.RecurringTemplate{}
	ids := []string{}
	for rows.Next() {
		m, err := scanRecurringTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan due template row for company %s: %w", companyID, err)
		}
		headers = append(headers, m)
		ids = append(ids, m.TemplateID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating due template rows for company %s: %w", companyID, err)
	}

	linesByTemplate, err := r.findTemplateLinesByTemplateIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	templates := make([]domain.RecurringTemplate, len(headers))
	for i, m := range headers {
		d := mapping.ToDomainRecurringTemplate(m)
		d.Lines = linesByTemplate[m.TemplateID]
		templates[i] = d
	}
	return templates, nil
}

// UpdateTemplate replaces a template's fields and lines atomically.
func (r *PgxRecurringRepository) UpdateTemplate(ctx context.Context, template domain.RecurringTemplate) error {
	m := mapping.ToModelRecurringTemplate(template)

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	headerQuery := `
		UPDATE recurring_templates
		SET name = $3, description = $4, frequency = $5, next_run_date = $6, is_active = $7, last_updated_at = $8, last_updated_by = $9
		WHERE company_id = $1 AND template_id = $2;
	`
	cmdTag, err := tx.Exec(ctx, headerQuery,
		m.CompanyID,
		m.TemplateID,
		m.Name,
		m.Description,
		m.Frequency,
		m.NextRunDate,
		m.IsActive,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update template %s: %w", m.TemplateID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	if _, err := tx.Exec(ctx, `DELETE FROM template_lines WHERE template_id = $1;`, m.TemplateID); err != nil {
		return fmt.Errorf("failed to clear lines for template %s: %w", m.TemplateID, err)
	}
	batch := &pgx.Batch{}
	queueTemplateLineInserts(batch, template.Lines)
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to insert lines for template %s: %w", m.TemplateID, err)
	}

	return r.Commit(ctx, tx)
}

// DeactivateTemplate marks a template as inactive.
func (r *PgxRecurringRepository) DeactivateTemplate(ctx context.Context, companyID string, templateID string, actorID string, now time.Time) error {
	query := `
		UPDATE recurring_templates
		SET is_active = FALSE, last_updated_at = $3, last_updated_by = $4
		WHERE company_id = $1 AND template_id = $2 AND is_active = TRUE;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, companyID, templateID, now, actorID)
	if err != nil {
		return fmt.Errorf("failed to deactivate template %s: %w", templateID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		if _, findErr := r.FindTemplateByID(ctx, companyID, templateID); errors.Is(findErr, apperrors.ErrNotFound) {
			return apperrors.ErrNotFound
		} else if findErr != nil {
			return findErr
		}
		return fmt.Errorf("%w: template %s is already inactive", apperrors.ErrValidation, templateID)
	}
	return nil
}

// ClaimTemplateRun advances NextRunDate from fromDate to toDate with a
// compare-and-swap on the current value. Returns false when another runner
// already claimed this occurrence.
func (r *PgxRecurringRepository) ClaimTemplateRun(ctx context.Context, companyID string, templateID string, fromDate time.Time, toDate time.Time, actorID string, now time.Time) (bool, error) {
	query := `
		UPDATE recurring_templates
		SET next_run_date = $4, last_updated_at = $5, last_updated_by = $6
		WHERE company_id = $1 AND template_id = $2 AND next_run_date = $3 AND is_active = TRUE;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, companyID, templateID, fromDate, toDate, now, actorID)
	if err != nil {
		return false, fmt.Errorf("failed to claim run for template %s: %w", templateID, err)
	}
	return cmdTag.RowsAffected() == 1, nil
}

// RevertTemplateRun winds NextRunDate back from toDate to fromDate after a
// failed materialization, with the same compare-and-swap guard.
func (r *PgxRecurringRepository) RevertTemplateRun(ctx context.Context, companyID string, templateID string, fromDate time.Time, toDate time.Time, actorID string, now time.Time) (bool, error) {
	query := `
		UPDATE recurring_templates
		SET next_run_date = $3, last_updated_at = $5, last_updated_by = $6
		WHERE company_id = $1 AND template_id = $2 AND next_run_date = $4 AND is_active = TRUE;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, companyID, templateID, fromDate, toDate, now, actorID)
	if err != nil {
		return false, fmt.Errorf("failed to revert run for template %s: %w", templateID, err)
	}
	return cmdTag.RowsAffected() == 1, nil
}
