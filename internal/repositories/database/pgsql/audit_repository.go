package pgsql

import (
	"context"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/keabooks/kea_books_app/internal/apperrors"
	"github.com/keabooks/kea_books_app/internal/core/domain"
	portsrepo "github.com/keabooks/kea_books_app/internal/core/ports/repositories"
	"github.com/keabooks/kea_books_app/internal/models"
	"github.com/keabooks/kea_books_app/internal/utils/mapping"
	"github.com/keabooks/kea_books_app/internal/utils/pagination"
)

type PgxAuditRepository struct {
	pool *pgxpool.Pool
}

// newPgxAuditRepository creates a new repository for audit event data.
func newPgxAuditRepository(pool *pgxpool.Pool) portsrepo.AuditRepositoryFacade {
	return &PgxAuditRepository{pool: pool}
}

// Ensure PgxAuditRepository implements portsrepo.AuditRepositoryFacade
var _ portsrepo.AuditRepositoryFacade = (*PgxAuditRepository)(nil)

const auditEventColumns = `event_id, company_id, actor_id, event_type, entity_type, entity_id, summary, created_at`

func scanAuditEvent(row pgx.Row) (models.AuditEvent, error) {
	var m models.AuditEvent
	err := row.Scan(
		&m.EventID,
		&m.CompanyID,
		&m.ActorID,
		&m.EventType,
		&m.EntityType,
		&m.EntityID,
		&m.Summary,
		&m.CreatedAt,
	)
	return m, err
}

// SaveEvent persists a single audit event. Events belonging to a posting,
// allocation or reconciliation are written by those units of work instead.
func (r *PgxAuditRepository) SaveEvent(ctx context.Context, event domain.AuditEvent) error {
	m := mapping.ToModelAuditEvent(event)
	query := `
		INSERT INTO audit_events (` + auditEventColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	if _, err := r.pool.Exec(ctx, query,
		m.EventID,
		m.CompanyID,
		m.ActorID,
		m.EventType,
		m.EntityType,
		m.EntityID,
		m.Summary,
		m.CreatedAt,
	); err != nil {
		return fmt.Errorf("failed to save audit event %s: %w", m.EventID, err)
	}
	return nil
}

// ListEventsByCompany retrieves a paginated list of events using date-based
// token pagination, newest first. Event type and entity type filters are
// optional.
func (r *PgxAuditRepository) ListEventsByCompany(ctx context.Context, companyID string, limit int, nextToken *string, eventType *domain.AuditEventType, entityType *string) ([]domain.AuditEvent, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	baseQuery := `
		SELECT ` + auditEventColumns + `
		FROM audit_events
	`
	filterClause := `WHERE company_id = $1`
	args := []interface{}{companyID}

	if eventType != nil {
		args = append(args, string(*eventType))
		filterClause += ` AND event_type = $` + strconv.Itoa(len(args))
	}
	if entityType != nil {
		args = append(args, *entityType)
		filterClause += ` AND entity_type = $` + strconv.Itoa(len(args))
	}

	orderByClause := `ORDER BY created_at DESC`

	if nextToken != nil && *nextToken != "" {
		lastCreatedAt, decodeErr := pagination.DecodeDateBasedToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		args = append(args, lastCreatedAt)
		filterClause += ` AND created_at < $` + strconv.Itoa(len(args))
	}

	args = append(args, fetchLimit)
	query := baseQuery + " " + filterClause + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)) + ";"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query audit events for company %s: %w", companyID, err)
	}
	defer rows.Close()

	events := make([]models.AuditEvent, 0, fetchLimit)
	for rows.Next() {
		m, err := scanAuditEvent(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan audit event row for company %s: %w", companyID, err)
		}
		events = append(events, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating audit event rows for company %s: %w", companyID, err)
	}

	var nextTokenVal *string
	results := events
	if len(events) > limit {
		token := pagination.EncodeDateBasedToken(events[limit-1].CreatedAt)
		nextTokenVal = &token
		results = events[:limit]
	}

	return mapping.ToDomainAuditEventSlice(results), nextTokenVal, nil
}

// ListEventsByEntity retrieves all events recorded against one entity, newest
// first.
func (r *PgxAuditRepository) ListEventsByEntity(ctx context.Context, companyID string, entityType string, entityID string) ([]domain.AuditEvent, error) {
	query := `
		SELECT ` + auditEventColumns + `
		FROM audit_events
		WHERE company_id = $1 AND entity_type = $2 AND entity_id = $3
		ORDER BY created_at DESC;
	`
	rows, err := r.pool.Query(ctx, query, companyID, entityType, entityID)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit events for entity %s: %w", entityID, err)
	}
	defer rows.Close()

	events := []models.AuditEvent{}
	for rows.Next() {
		m, err := scanAuditEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan audit event row for entity %s: %w", entityID, err)
		}
		events = append(events, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating audit event rows for entity %s: %w", entityID, err)
	}

	return mapping.ToDomainAuditEventSlice(events), nil
}
