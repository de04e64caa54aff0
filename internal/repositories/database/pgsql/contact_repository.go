package pgsql

import (
	"context"
	"database/sql"
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

type PgxContactRepository struct {
	pool *pgxpool.Pool
}

// newPgxContactRepository creates a new repository for contact data.
func newPgxContactRepository(pool *pgxpool.Pool) portsrepo.ContactRepositoryFacade {
	return &PgxContactRepository{pool: pool}
}

// Ensure PgxContactRepository implements portsrepo.ContactRepositoryFacade
var _ portsrepo.ContactRepositoryFacade = (*PgxContactRepository)(nil)

const contactColumns = `contact_id, company_id, name, contact_type, email, is_active, created_at, created_by, last_updated_at, last_updated_by`

func scanContact(row pgx.Row) (models.Contact, error) {
	var m models.Contact
	var email sql.NullString
	err := row.Scan(
		&m.ContactID,
		&m.CompanyID,
		&m.Name,
		&m.ContactType,
		&email,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if email.Valid {
		m.Email = email.String
	}
	return m, err
}

// SaveContact inserts a new contact.
func (r *PgxContactRepository) SaveContact(ctx context.Context, contact domain.Contact) error {
	m := mapping.ToModelContact(contact)

	query := `
		INSERT INTO contacts (` + contactColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.pool.Exec(ctx, query,
		m.ContactID,
		m.CompanyID,
		m.Name,
		m.ContactType,
		m.Email,
		m.IsActive,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: contact %s already exists", apperrors.ErrDuplicate, m.ContactID)
		}
		return fmt.Errorf("failed to save contact %s: %w", m.ContactID, err)
	}
	return nil
}

// FindContactByID retrieves a contact by its ID within a company.
func (r *PgxContactRepository) FindContactByID(ctx context.Context, companyID string, contactID string) (*domain.Contact, error) {
	query := `
		SELECT ` + contactColumns + `
		FROM contacts
		WHERE company_id = $1 AND contact_id = $2;
	`
	m, err := scanContact(r.pool.QueryRow(ctx, query, companyID, contactID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find contact by ID %s: %w", contactID, err)
	}

	d := mapping.ToDomainContact(m)
	return &d, nil
}

// ListContacts retrieves a paginated list of active contacts for a company.
func (r *PgxContactRepository) ListContacts(ctx context.Context, companyID string, limit int, offset int) ([]domain.Contact, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	query := `
		SELECT ` + contactColumns + `
		FROM contacts
		WHERE company_id = $1 AND is_active = TRUE
		ORDER BY name
		LIMIT $2 OFFSET $3;
	`
	rows, err := r.pool.Query(ctx, query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query contacts for company %s: %w", companyID, err)
	}
	defer rows.Close()

	contacts := []models.Contact{}
	for rows.Next() {
		m, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contact row for company %s: %w", companyID, err)
		}
		contacts = append(contacts, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating contact rows for company %s: %w", companyID, err)
	}

	return mapping.ToDomainContactSlice(contacts), nil
}

// UpdateContact updates an existing contact's details.
func (r *PgxContactRepository) UpdateContact(ctx context.Context, contact domain.Contact) error {
	m := mapping.ToModelContact(contact)

	query := `
		UPDATE contacts
		SET name = $3, contact_type = $4, email = $5, is_active = $6, last_updated_at = $7, last_updated_by = $8
		WHERE company_id = $1 AND contact_id = $2;
	`
	cmdTag, err := r.pool.Exec(ctx, query,
		m.CompanyID,
		m.ContactID,
		m.Name,
		m.ContactType,
		m.Email,
		m.IsActive,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to execute update contact %s: %w", m.ContactID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeactivateContact marks a contact as inactive.
func (r *PgxContactRepository) DeactivateContact(ctx context.Context, companyID string, contactID string, actorID string, now time.Time) error {
	query := `
		UPDATE contacts
		SET is_active = FALSE, last_updated_at = $3, last_updated_by = $4
		WHERE company_id = $1 AND contact_id = $2 AND is_active = TRUE;
	`
	cmdTag, err := r.pool.Exec(ctx, query, companyID, contactID, now, actorID)
	if err != nil {
		return fmt.Errorf("failed to execute deactivate contact %s: %w", contactID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		if _, findErr := r.FindContactByID(ctx, companyID, contactID); errors.Is(findErr, apperrors.ErrNotFound) {
			return apperrors.ErrNotFound
		} else if findErr != nil {
			return fmt.Errorf("failed to check contact status after deactivation attempt for %s: %w", contactID, findErr)
		}
		return apperrors.ErrValidation
	}
	return nil
}
