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

type PgxTransactionRepository struct {
	BaseRepository
}

// newPgxTransactionRepository creates a new repository for draft transaction data.
func newPgxTransactionRepository(pool *pgxpool.Pool) portsrepo.TransactionRepositoryFacade {
	return &PgxTransactionRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxTransactionRepository implements portsrepo.TransactionRepositoryFacade
var _ portsrepo.TransactionRepositoryFacade = (*PgxTransactionRepository)(nil)

const transactionColumns = `transaction_id, company_id, transaction_type, transaction_date, description, status, posted_at, created_at, created_by, last_updated_at, last_updated_by`

const transactionLineColumns = `line_id, transaction_id, account_id, amount, direction, tax_code_id, department_id, notes`

const insertTransactionQuery = `
	INSERT INTO transactions (` + transactionColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
`

const insertTransactionLineQuery = `
	INSERT INTO transaction_lines (` + transactionLineColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
`

func scanTransaction(row pgx.Row) (models.Transaction, error) {
	var m models.Transaction
	err := row.Scan(
		&m.TransactionID,
		&m.CompanyID,
		&m.TransactionType,
		&m.TransactionDate,
		&m.Description,
		&m.Status,
		&m.PostedAt,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func scanTransactionLine(row pgx.Row) (models.TransactionLine, error) {
	var m models.TransactionLine
	err := row.Scan(
		&m.LineID,
		&m.TransactionID,
		&m.AccountID,
		&m.Amount,
		&m.Direction,
		&m.TaxCodeID,
		&m.DepartmentID,
		&m.Notes,
	)
	return m, err
}

// queueTransactionInsert queues the header and line inserts for one
// transaction onto a batch. Shared with the posting and issuance repositories,
// which persist already-posted transactions inside their own units of work.
func queueTransactionInsert(batch *pgx.Batch, txn domain.Transaction) {
	m := mapping.ToModelTransaction(txn)
	batch.Queue(insertTransactionQuery,
		m.TransactionID,
		m.CompanyID,
		m.TransactionType,
		m.TransactionDate,
		m.Description,
		m.Status,
		m.PostedAt,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	for _, line := range txn.Lines {
		ml := mapping.ToModelTransactionLine(line)
		batch.Queue(insertTransactionLineQuery,
			ml.LineID,
			ml.TransactionID,
			ml.AccountID,
			ml.Amount,
			ml.Direction,
			ml.TaxCodeID,
			ml.DepartmentID,
			ml.Notes,
		)
	}
}

// SaveTransaction persists a new draft transaction and its lines atomically.
func (r *PgxTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	batch := &pgx.Batch{}
	queueTransactionInsert(batch, txn)

	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to insert transaction %s: %w", txn.TransactionID, err)
	}

	return r.Commit(ctx, tx)
}

// FindTransactionByID retrieves a transaction with its lines.
func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, companyID string, transactionID string) (*domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE company_id = $1 AND transaction_id = $2;
	`
	m, err := scanTransaction(r.Pool.QueryRow(ctx, query, companyID, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find transaction by ID %s: %w", transactionID, err)
	}

	lines, err := r.findLinesByTransactionID(ctx, transactionID)
	if err != nil {
		return nil, err
	}

	d := mapping.ToDomainTransaction(m)
	d.Lines = lines
	return &d, nil
}

func (r *PgxTransactionRepository) findLinesByTransactionID(ctx context.Context, transactionID string) ([]domain.TransactionLine, error) {
	query := `
		SELECT ` + transactionLineColumns + `
		FROM transaction_lines
		WHERE transaction_id = $1
		ORDER BY line_id;
	`
	rows, err := r.Pool.Query(ctx, query, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query lines for transaction %s: %w", transactionID, err)
	}
	defer rows.Close()

	lines := []models.TransactionLine{}
	for rows.Next() {
		ml, err := scanTransactionLine(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan line row for transaction %s: %w", transactionID, err)
		}
		lines = append(lines, ml)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating line rows for transaction %s: %w", transactionID, err)
	}

	return mapping.ToDomainTransactionLineSlice(lines), nil
}

// ListTransactions retrieves a paginated list of transaction headers using
// token-based pagination, newest first. Status and type filters are optional.
func (r *PgxTransactionRepository) ListTransactions(ctx context.Context, companyID string, limit int, nextToken *string, status *domain.TransactionStatus, txnType *domain.TransactionType) ([]domain.Transaction, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	// Fetch one extra row to know whether a next page exists.
	fetchLimit := limit + 1

	baseQuery := `
		SELECT ` + transactionColumns + `
		FROM transactions
	`
	filterClause := `WHERE company_id = $1`
	args := []interface{}{companyID}

	if status != nil {
		args = append(args, string(*status))
		filterClause += ` AND status = $` + strconv.Itoa(len(args))
	}
	if txnType != nil {
		args = append(args, string(*txnType))
		filterClause += ` AND transaction_type = $` + strconv.Itoa(len(args))
	}

	// Ordering must be stable for the cursor to work.
	orderByClause := `ORDER BY transaction_date DESC, created_at DESC`

	if nextToken != nil && *nextToken != "" {
		lastDate, lastCreatedAt, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		args = append(args, lastDate, lastCreatedAt)
		filterClause += ` AND (transaction_date, created_at) < ($` + strconv.Itoa(len(args)-1) + `, $` + strconv.Itoa(len(args)) + `)`
	}

	args = append(args, fetchLimit)
	query := baseQuery + " " + filterClause + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)) + ";"

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query transactions for company %s: %w", companyID, err)
	}
	defer rows.Close()

	transactions := make([]models.Transaction, 0, fetchLimit)
	for rows.Next() {
		m, err := scanTransaction(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan transaction row for company %s: %w", companyID, err)
		}
		transactions = append(transactions, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating transaction rows for company %s: %w", companyID, err)
	}

	var nextTokenVal *string
	results := transactions
	if len(transactions) > limit {
		last := transactions[limit-1]
		token := pagination.EncodeToken(last.TransactionDate, last.CreatedAt)
		nextTokenVal = &token
		results = transactions[:limit]
	}

	return mapping.ToDomainTransactionSlice(results), nextTokenVal, nil
}

// UpdateDraftTransaction replaces a draft's header fields and lines. The
// header update is a compare-and-swap on status DRAFT; when it misses because
// the transaction is posted or void, nothing changes and ErrConflict is
// returned.
func (r *PgxTransactionRepository) UpdateDraftTransaction(ctx context.Context, txn domain.Transaction) error {
	m := mapping.ToModelTransaction(txn)

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	headerQuery := `
		UPDATE transactions
		SET transaction_type = $3, transaction_date = $4, description = $5, last_updated_at = $6, last_updated_by = $7
		WHERE company_id = $1 AND transaction_id = $2 AND status = 'DRAFT';
	`
	cmdTag, err := tx.Exec(ctx, headerQuery,
		m.CompanyID,
		m.TransactionID,
		m.TransactionType,
		m.TransactionDate,
		m.Description,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update draft transaction %s: %w", m.TransactionID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		if _, findErr := r.FindTransactionByID(ctx, m.CompanyID, m.TransactionID); errors.Is(findErr, apperrors.ErrNotFound) {
			return apperrors.ErrNotFound
		} else if findErr != nil {
			return findErr
		}
		// Exists but is no longer a draft.
		return apperrors.ErrConflict
	}

	if _, err := tx.Exec(ctx, `DELETE FROM transaction_lines WHERE transaction_id = $1;`, m.TransactionID); err != nil {
		return fmt.Errorf("failed to clear lines for transaction %s: %w", m.TransactionID, err)
	}

	batch := &pgx.Batch{}
	for _, line := range txn.Lines {
		ml := mapping.ToModelTransactionLine(line)
		batch.Queue(insertTransactionLineQuery,
			ml.LineID,
			ml.TransactionID,
			ml.AccountID,
			ml.Amount,
			ml.Direction,
			ml.TaxCodeID,
			ml.DepartmentID,
			ml.Notes,
		)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to insert lines for transaction %s: %w", m.TransactionID, err)
	}

	return r.Commit(ctx, tx)
}

// VoidDraftTransaction flips a draft to VOID with a compare-and-swap on
// status DRAFT.
func (r *PgxTransactionRepository) VoidDraftTransaction(ctx context.Context, companyID string, transactionID string, actorID string, now time.Time) error {
	query := `
		UPDATE transactions
		SET status = 'VOID', last_updated_at = $3, last_updated_by = $4
		WHERE company_id = $1 AND transaction_id = $2 AND status = 'DRAFT';
	`
	cmdTag, err := r.Pool.Exec(ctx, query, companyID, transactionID, now, actorID)
	if err != nil {
		return fmt.Errorf("failed to void draft transaction %s: %w", transactionID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		if _, findErr := r.FindTransactionByID(ctx, companyID, transactionID); errors.Is(findErr, apperrors.ErrNotFound) {
			return apperrors.ErrNotFound
		} else if findErr != nil {
			return findErr
		}
		return apperrors.ErrConflict
	}
	return nil
}

// DeleteDraftTransaction removes a draft and its lines. Guarded on status
// DRAFT; posted transactions are never deleted.
func (r *PgxTransactionRepository) DeleteDraftTransaction(ctx context.Context, companyID string, transactionID string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if _, err := tx.Exec(ctx, `DELETE FROM transaction_lines WHERE transaction_id = $1;`, transactionID); err != nil {
		return fmt.Errorf("failed to delete lines for transaction %s: %w", transactionID, err)
	}

	headerQuery := `
		DELETE FROM transactions
		WHERE company_id = $1 AND transaction_id = $2 AND status = 'DRAFT';
	`
	cmdTag, err := tx.Exec(ctx, headerQuery, companyID, transactionID)
	if err != nil {
		return fmt.Errorf("failed to delete draft transaction %s: %w", transactionID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		if _, findErr := r.FindTransactionByID(ctx, companyID, transactionID); errors.Is(findErr, apperrors.ErrNotFound) {
			return apperrors.ErrNotFound
		} else if findErr != nil {
			return findErr
		}
		return apperrors.ErrConflict
	}

	return r.Commit(ctx, tx)
}
