package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/keabooks/kea_books_app/internal/apperrors"
	"github.com/keabooks/kea_books_app/internal/core/domain"
	portsrepo "github.com/keabooks/kea_books_app/internal/core/ports/repositories"
	"github.com/keabooks/kea_books_app/internal/models"
	"github.com/keabooks/kea_books_app/internal/utils/mapping"
	"github.com/keabooks/kea_books_app/internal/utils/pagination"
)

type PgxBillRepository struct {
	BaseRepository
}

// newPgxBillRepository creates a new repository for bill data.
func newPgxBillRepository(pool *pgxpool.Pool) portsrepo.BillRepositoryFacade {
	return &PgxBillRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxBillRepository implements portsrepo.BillRepositoryFacade
var _ portsrepo.BillRepositoryFacade = (*PgxBillRepository)(nil)

const billColumns = `bill_id, company_id, contact_id, number, issue_date, due_date, status, total, tax_total, amount_paid, transaction_id, created_at, created_by, last_updated_at, last_updated_by`

func scanBill(row pgx.Row) (models.Bill, error) {
	var m models.Bill
	err := row.Scan(
		&m.BillID,
		&m.CompanyID,
		&m.ContactID,
		&m.Number,
		&m.IssueDate,
		&m.DueDate,
		&m.Status,
		&m.Total,
		&m.TaxTotal,
		&m.AmountPaid,
		&m.TransactionID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// SaveBill persists a new draft bill and its lines atomically.
func (r *PgxBillRepository) SaveBill(ctx context.Context, bill domain.Bill) error {
	m := mapping.ToModelBill(bill)

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	query := `
		INSERT INTO bills (` + billColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
	`
	if _, err := tx.Exec(ctx, query,
		m.BillID,
		m.CompanyID,
		m.ContactID,
		m.Number,
		m.IssueDate,
		m.DueDate,
		m.Status,
		m.Total,
		m.TaxTotal,
		m.AmountPaid,
		m.TransactionID,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: bill number %s already exists", apperrors.ErrDuplicate, m.Number)
		}
		return fmt.Errorf("failed to save bill %s: %w", m.BillID, err)
	}

	batch := &pgx.Batch{}
	queueDocumentLineInserts(batch, bill.Lines)
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to insert lines for bill %s: %w", m.BillID, err)
	}

	return r.Commit(ctx, tx)
}

// FindBillByID retrieves a bill with its lines.
func (r *PgxBillRepository) FindBillByID(ctx context.Context, companyID string, billID string) (*domain.Bill, error) {
	query := `
		SELECT ` + billColumns + `
		FROM bills
		WHERE company_id = $1 AND bill_id = $2;
	`
	m, err := scanBill(r.Pool.QueryRow(ctx, query, companyID, billID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find bill by ID %s: %w", billID, err)
	}

	lines, err := findDocumentLines(ctx, r.Pool, billID)
	if err != nil {
		return nil, err
	}

	d := mapping.ToDomainBill(m)
	d.Lines = lines
	return &d, nil
}

// ListBills retrieves a paginated list of bill headers using token-based
// pagination, newest first. Status and contact filters are optional.
func (r *PgxBillRepository) ListBills(ctx context.Context, companyID string, limit int, nextToken *string, status *domain.DocumentStatus, contactID *string) ([]domain.Bill, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	baseQuery := `
		SELECT ` + billColumns + `
		FROM bills
	`
	filterClause := `WHERE company_id = $1`
	args := []interface{}{companyID}

	if status != nil {
		args = append(args, string(*status))
		filterClause += ` AND status = $` + strconv.Itoa(len(args))
	}
	if contactID != nil {
		args = append(args, *contactID)
		filterClause += ` AND contact_id = $` + strconv.Itoa(len(args))
	}

	orderByClause := `ORDER BY issue_date DESC, created_at DESC`

	if nextToken != nil && *nextToken != "" {
		lastDate, lastCreatedAt, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		args = append(args, lastDate, lastCreatedAt)
		filterClause += ` AND (issue_date, created_at) < ($` + strconv.Itoa(len(args)-1) + `, $` + strconv.Itoa(len(args)) + `)`
	}

	args = append(args, fetchLimit)
	query := baseQuery + " " + filterClause + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)) + ";"

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query bills for company %s: %w", companyID, err)
	}
	defer rows.Close()

	bills := make([]models.Bill, 0, fetchLimit)
	for rows.Next() {
		m, err := scanBill(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan bill row for company %s: %w", companyID, err)
		}
		bills = append(bills, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating bill rows for company %s: %w", companyID, err)
	}

	var nextTokenVal *string
	results := bills
	if len(bills) > limit {
		last := bills[limit-1]
		token := pagination.EncodeToken(last.IssueDate, last.CreatedAt)
		nextTokenVal = &token
		results = bills[:limit]
	}

	return mapping.ToDomainBillSlice(results), nextTokenVal, nil
}

// FindOutstandingBillsByContact retrieves the contact's issued bills with a
// positive balance, oldest due date first. Lines are omitted; the allocation
// suggester only needs the header totals.
func (r *PgxBillRepository) FindOutstandingBillsByContact(ctx context.Context, companyID string, contactID string) ([]domain.Bill, error) {
	query := `
		SELECT ` + billColumns + `
		FROM bills
		WHERE company_id = $1 AND contact_id = $2 AND status = 'ISSUED' AND total > amount_paid
		ORDER BY due_date, created_at;
	`
	rows, err := r.Pool.Query(ctx, query, companyID, contactID)
	if err != nil {
		return nil, fmt.Errorf("failed to query outstanding bills for contact %s: %w", contactID, err)
	}
	defer rows.Close()

	bills := []models.Bill{}
	for rows.Next() {
		m, err := scanBill(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan outstanding bill row for contact %s: %w", contactID, err)
		}
		bills = append(bills, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating outstanding bill rows for contact %s: %w", contactID, err)
	}

	return mapping.ToDomainBillSlice(bills), nil
}

// UpdateDraftBill replaces a draft bill's fields and lines. The header update
// is a compare-and-swap on status DRAFT.
func (r *PgxBillRepository) UpdateDraftBill(ctx context.Context, bill domain.Bill) error {
	m := mapping.ToModelBill(bill)

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	headerQuery := `
		UPDATE bills
		SET contact_id = $3, number = $4, issue_date = $5, due_date = $6, last_updated_at = $7, last_updated_by = $8
		WHERE company_id = $1 AND bill_id = $2 AND status = 'DRAFT';
	`
	cmdTag, err := tx.Exec(ctx, headerQuery,
		m.CompanyID,
		m.BillID,
		m.ContactID,
		m.Number,
		m.IssueDate,
		m.DueDate,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: bill number %s already exists", apperrors.ErrDuplicate, m.Number)
		}
		return fmt.Errorf("failed to update draft bill %s: %w", m.BillID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		if _, findErr := r.FindBillByID(ctx, m.CompanyID, m.BillID); errors.Is(findErr, apperrors.ErrNotFound) {
			return apperrors.ErrNotFound
		} else if findErr != nil {
			return findErr
		}
		// Exists but is no longer a draft.
		return apperrors.ErrConflict
	}

	if err := replaceDocumentLines(ctx, tx, m.BillID, bill.Lines); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// VoidDraftBill flips a draft bill to VOID with a compare-and-swap on status
// DRAFT.
func (r *PgxBillRepository) VoidDraftBill(ctx context.Context, companyID string, billID string, actorID string, now time.Time) error {
	query := `
		UPDATE bills
		SET status = 'VOID', last_updated_at = $3, last_updated_by = $4
		WHERE company_id = $1 AND bill_id = $2 AND status = 'DRAFT';
	`
	cmdTag, err := r.Pool.Exec(ctx, query, companyID, billID, now, actorID)
	if err != nil {
		return fmt.Errorf("failed to void draft bill %s: %w", billID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		if _, findErr := r.FindBillByID(ctx, companyID, billID); errors.Is(findErr, apperrors.ErrNotFound) {
			return apperrors.ErrNotFound
		} else if findErr != nil {
			return findErr
		}
		return apperrors.ErrConflict
	}
	return nil
}

// SaveBillIssuance persists the issuance unit of work atomically: the backing
// transaction already in POSTED state with its lines, the ledger entries and
// tax lines, the bill's flip DRAFT -> ISSUED and the audit event. The flip is
// a compare-and-swap on status DRAFT; when it misses, nothing is written and
// ErrConflict is returned.
func (r *PgxBillRepository) SaveBillIssuance(ctx context.Context, bill domain.Bill, txn domain.Transaction, postedAt time.Time, entries []domain.LedgerEntry, taxLines []domain.TaxLine, audit domain.AuditEvent) error {
	m := mapping.ToModelBill(bill)

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	flipQuery := `
		UPDATE bills
		SET status = 'ISSUED', total = $3, tax_total = $4, transaction_id = $5, last_updated_at = $6, last_updated_by = $7
		WHERE company_id = $1 AND bill_id = $2 AND status = 'DRAFT';
	`
	cmdTag, err := tx.Exec(ctx, flipQuery,
		m.CompanyID,
		m.BillID,
		m.Total,
		m.TaxTotal,
		m.TransactionID,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to flip bill %s to ISSUED: %w", m.BillID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrConflict
	}

	batch := &pgx.Batch{}
	queueTransactionInsert(batch, txn)
	queueLedgerEntryInserts(batch, entries)
	queueTaxLineInserts(batch, taxLines)

	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to insert issuance rows for bill %s: %w", m.BillID, err)
	}

	if err := insertAuditEventTx(ctx, tx, audit); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}
