package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/keabooks/kea_books_app/internal/apperrors"
	"github.com/keabooks/kea_books_app/internal/core/domain"
	portsrepo "github.com/keabooks/kea_books_app/internal/core/ports/repositories"
	"github.com/keabooks/kea_books_app/internal/models"
	"github.com/keabooks/kea_books_app/internal/utils/mapping"
	"github.com/keabooks/kea_books_app/internal/utils/pagination"
)

type PgxBankFeedRepository struct {
	BaseRepository
}

// newPgxBankFeedRepository creates a new repository for bank feed data.
func newPgxBankFeedRepository(pool *pgxpool.Pool) portsrepo.BankFeedRepositoryFacade {
	return &PgxBankFeedRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxBankFeedRepository implements portsrepo.BankFeedRepositoryFacade
var _ portsrepo.BankFeedRepositoryFacade = (*PgxBankFeedRepository)(nil)

const bankFeedItemColumns = `item_id, company_id, bank_account_id, item_date, amount, payee, reference, status, matched_entry_id, created_at, created_by, last_updated_at, last_updated_by`

func scanBankFeedItem(row pgx.Row) (models.BankFeedItem, error) {
	var m models.BankFeedItem
	err := row.Scan(
		&m.ItemID,
		&m.CompanyID,
		&m.BankAccountID,
		&m.ItemDate,
		&m.Amount,
		&m.Payee,
		&m.Reference,
		&m.Status,
		&m.MatchedEntryID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// SaveFeedItems persists a batch of new feed items in a single transaction.
func (r *PgxBankFeedRepository) SaveFeedItems(ctx context.Context, items []domain.BankFeedItem) error {
	if len(items) == 0 {
		return nil
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	query := `
		INSERT INTO bank_feed_items (` + bankFeedItemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	batch := &pgx.Batch{}
	for _, item := range items {
		m := mapping.ToModelBankFeedItem(item)
		batch.Queue(query,
			m.ItemID,
			m.CompanyID,
			m.BankAccountID,
			m.ItemDate,
			m.Amount,
			m.Payee,
			m.Reference,
			m.Status,
			m.MatchedEntryID,
			m.CreatedAt,
			m.CreatedBy,
			m.LastUpdatedAt,
			m.LastUpdatedBy,
		)
	}

	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to insert feed items: %w", err)
	}

	return r.Commit(ctx, tx)
}

// FindFeedItemByID retrieves a specific feed item within a company.
func (r *PgxBankFeedRepository) FindFeedItemByID(ctx context.Context, companyID string, itemID string) (*domain.BankFeedItem, error) {
	query := `
		SELECT ` + bankFeedItemColumns + `
		FROM bank_feed_items
		WHERE company_id = $1 AND item_id = $2;
	`
	m, err := scanBankFeedItem(r.Pool.QueryRow(ctx, query, companyID, itemID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find feed item by ID %s: %w", itemID, err)
	}

	d := mapping.ToDomainBankFeedItem(m)
	return &d, nil
}

// ListFeedItems retrieves a paginated list of feed items using token-based
// pagination, newest first. Bank account and status filters are optional.
func (r *PgxBankFeedRepository) ListFeedItems(ctx context.Context, companyID string, limit int, nextToken *string, bankAccountID *string, status *domain.FeedItemStatus) ([]domain.BankFeedItem, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	baseQuery := `
		SELECT ` + bankFeedItemColumns + `
		FROM bank_feed_items
	`
	filterClause := `WHERE company_id = $1`
	args := []interface{}{companyID}

	if bankAccountID != nil {
		args = append(args, *bankAccountID)
		filterClause += ` AND bank_account_id = $` + strconv.Itoa(len(args))
	}
	if status != nil {
		args = append(args, string(*status))
		filterClause += ` AND status = $` + strconv.Itoa(len(args))
	}

	orderByClause := `ORDER BY item_date DESC, created_at DESC`

	if nextToken != nil && *nextToken != "" {
		lastDate, lastCreatedAt, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		args = append(args, lastDate, lastCreatedAt)
		filterClause += ` AND (item_date, created_at) < ($` + strconv.Itoa(len(args)-1) + `, $` + strconv.Itoa(len(args)) + `)`
	}

	args = append(args, fetchLimit)
	query := baseQuery + " " + filterClause + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)) + ";"

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query feed items for company %s: %w", companyID, err)
	}
	defer rows.Close()

	items := make([]models.BankFeedItem, 0, fetchLimit)
	for rows.Next() {
		m, err := scanBankFeedItem(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan feed item row for company %s: %w", companyID, err)
		}
		items = append(items, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating feed item rows for company %s: %w", companyID, err)
	}

	var nextTokenVal *string
	results := items
	if len(items) > limit {
		last := items[limit-1]
		token := pagination.EncodeToken(last.ItemDate, last.CreatedAt)
		nextTokenVal = &token
		results = items[:limit]
	}

	return mapping.ToDomainBankFeedItemSlice(results), nextTokenVal, nil
}

// MatchEntryToFeedItem links an unmatched feed item with an unreconciled
// ledger entry, setting the entry to RECONCILED. Both flips are
// compare-and-swaps; if either side has moved on, nothing is written and
// ErrConflict is returned.
func (r *PgxBankFeedRepository) MatchEntryToFeedItem(ctx context.Context, companyID string, entryID string, itemID string, actorID string, now time.Time, audit domain.AuditEvent) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	itemQuery := `
		UPDATE bank_feed_items
		SET status = 'MATCHED', matched_entry_id = $3, last_updated_at = $4, last_updated_by = $5
		WHERE company_id = $1 AND item_id = $2 AND status = 'UNMATCHED';
	`
	cmdTag, err := tx.Exec(ctx, itemQuery, companyID, itemID, entryID, now, actorID)
	if err != nil {
		return fmt.Errorf("failed to match feed item %s: %w", itemID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		if _, findErr := r.FindFeedItemByID(ctx, companyID, itemID); errors.Is(findErr, apperrors.ErrNotFound) {
			return apperrors.ErrNotFound
		} else if findErr != nil {
			return findErr
		}
		// Exists but already matched.
		return apperrors.ErrConflict
	}

	entryQuery := `
		UPDATE ledger_entries
		SET reconciled = TRUE, reconciliation_status = 'RECONCILED', bank_feed_item_id = $3, reconciled_by = $4, reconciled_at = $5
		WHERE company_id = $1 AND entry_id = $2 AND reconciliation_status = 'UNRECONCILED';
	`
	cmdTag, err = tx.Exec(ctx, entryQuery, companyID, entryID, itemID, actorID, now)
	if err != nil {
		return fmt.Errorf("failed to reconcile ledger entry %s: %w", entryID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrConflict
	}

	if err := insertAuditEventTx(ctx, tx, audit); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// UnmatchFeedItem severs an existing link, returning the feed item to
// UNMATCHED and the entry to UNRECONCILED.
func (r *PgxBankFeedRepository) UnmatchFeedItem(ctx context.Context, companyID string, itemID string, actorID string, now time.Time, audit domain.AuditEvent) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	// Lock the item first so the linked entry cannot change underneath us.
	var matchedEntryID *string
	lockQuery := `
		SELECT matched_entry_id
		FROM bank_feed_items
		WHERE company_id = $1 AND item_id = $2
		FOR UPDATE;
	`
	if err := tx.QueryRow(ctx, lockQuery, companyID, itemID).Scan(&matchedEntryID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("failed to lock feed item %s: %w", itemID, err)
	}
	if matchedEntryID == nil {
		return apperrors.ErrConflict
	}

	itemQuery := `
		UPDATE bank_feed_items
		SET status = 'UNMATCHED', matched_entry_id = NULL, last_updated_at = $3, last_updated_by = $4
		WHERE company_id = $1 AND item_id = $2 AND status = 'MATCHED';
	`
	cmdTag, err := tx.Exec(ctx, itemQuery, companyID, itemID, now, actorID)
	if err != nil {
		return fmt.Errorf("failed to unmatch feed item %s: %w", itemID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrConflict
	}

	entryQuery := `
		UPDATE ledger_entries
		SET reconciled = FALSE, reconciliation_status = 'UNRECONCILED', bank_feed_item_id = NULL, reconciled_by = NULL, reconciled_at = NULL
		WHERE company_id = $1 AND entry_id = $2 AND reconciliation_status = 'RECONCILED';
	`
	cmdTag, err = tx.Exec(ctx, entryQuery, companyID, *matchedEntryID)
	if err != nil {
		return fmt.Errorf("failed to unreconcile ledger entry %s: %w", *matchedEntryID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrConflict
	}

	if err := insertAuditEventTx(ctx, tx, audit); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// ManualClearEntry sets an unreconciled entry to MANUAL_CLEARED without a
// feed item.
func (r *PgxBankFeedRepository) ManualClearEntry(ctx context.Context, companyID string, entryID string, actorID string, now time.Time, audit domain.AuditEvent) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	query := `
		UPDATE ledger_entries
		SET reconciled = TRUE, reconciliation_status = 'MANUAL_CLEARED', reconciled_by = $3, reconciled_at = $4
		WHERE company_id = $1 AND entry_id = $2 AND reconciliation_status = 'UNRECONCILED';
	`
	cmdTag, err := tx.Exec(ctx, query, companyID, entryID, actorID, now)
	if err != nil {
		return fmt.Errorf("failed to clear ledger entry %s: %w", entryID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		var exists bool
		checkQuery := `SELECT EXISTS (SELECT 1 FROM ledger_entries WHERE company_id = $1 AND entry_id = $2);`
		if checkErr := tx.QueryRow(ctx, checkQuery, companyID, entryID).Scan(&exists); checkErr != nil {
			return fmt.Errorf("failed to recheck ledger entry %s: %w", entryID, checkErr)
		}
		if !exists {
			return apperrors.ErrNotFound
		}
		// Exists but already reconciled or cleared.
		return apperrors.ErrConflict
	}

	if err := insertAuditEventTx(ctx, tx, audit); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}
