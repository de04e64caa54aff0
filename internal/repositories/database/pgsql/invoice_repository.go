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

type PgxInvoiceRepository struct {
	BaseRepository
}

// newPgxInvoiceRepository creates a new repository for invoice data.
func newPgxInvoiceRepository(pool *pgxpool.Pool) portsrepo.InvoiceRepositoryFacade {
	return &PgxInvoiceRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxInvoiceRepository implements portsrepo.InvoiceRepositoryFacade
var _ portsrepo.InvoiceRepositoryFacade = (*PgxInvoiceRepository)(nil)

const invoiceColumns = `invoice_id, company_id, contact_id, number, issue_date, due_date, status, total, tax_total, amount_paid, transaction_id, created_at, created_by, last_updated_at, last_updated_by`

const documentLineColumns = `line_id, document_id, account_id, description, amount, tax_code_id, department_id`

const insertDocumentLineQuery = `
	INSERT INTO document_lines (` + documentLineColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7);
`

func scanInvoice(row pgx.Row) (models.Invoice, error) {
	var m models.Invoice
	err := row.Scan(
		&m.InvoiceID,
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

func scanDocumentLine(row pgx.Row) (models.DocumentLine, error) {
	var m models.DocumentLine
	err := row.Scan(
		&m.LineID,
		&m.DocumentID,
		&m.AccountID,
		&m.Description,
		&m.Amount,
		&m.TaxCodeID,
		&m.DepartmentID,
	)
	return m, err
}

// findDocumentLines loads the lines for one invoice or bill, ordered by line ID.
func findDocumentLines(ctx context.Context, pool *pgxpool.Pool, documentID string) ([]domain.DocumentLine, error) {
	query := `
		SELECT ` + documentLineColumns + `
		FROM document_lines
		WHERE document_id = $1
		ORDER BY line_id;
	`
	rows, err := pool.Query(ctx, query, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query lines for document %s: %w", documentID, err)
	}
	defer rows.Close()

	lines := []models.DocumentLine{}
	for rows.Next() {
		m, err := scanDocumentLine(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan line row for document %s: %w", documentID, err)
		}
		lines = append(lines, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating line rows for document %s: %w", documentID, err)
	}

	return mapping.ToDomainDocumentLineSlice(lines), nil
}

// queueDocumentLineInserts queues line inserts for one document onto a batch.
func queueDocumentLineInserts(batch *pgx.Batch, lines []domain.DocumentLine) {
	for _, line := range lines {
		ml := mapping.ToModelDocumentLine(line)
		batch.Queue(insertDocumentLineQuery,
			ml.LineID,
			ml.DocumentID,
			ml.AccountID,
			ml.Description,
			ml.Amount,
			ml.TaxCodeID,
			ml.DepartmentID,
		)
	}
}

// replaceDocumentLines clears and re-inserts a document's lines inside an
// open transaction.
func replaceDocumentLines(ctx context.Context, tx pgx.Tx, documentID string, lines []domain.DocumentLine) error {
	if _, err := tx.Exec(ctx, `DELETE FROM document_lines WHERE document_id = $1;`, documentID); err != nil {
		return fmt.Errorf("failed to clear lines for document %s: %w", documentID, err)
	}
	batch := &pgx.Batch{}
	queueDocumentLineInserts(batch, lines)
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to insert lines for document %s: %w", documentID, err)
	}
	return nil
}

// SaveInvoice persists a new draft invoice and its lines atomically.
func (r *PgxInvoiceRepository) SaveInvoice(ctx context.Context, invoice domain.Invoice) error {
	m := mapping.ToModelInvoice(invoice)

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	query := `
		INSERT INTO invoices (` + invoiceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
	`
	if _, err := tx.Exec(ctx, query,
		m.InvoiceID,
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
			return fmt.Errorf("%w: invoice number %s already exists", apperrors.ErrDuplicate, m.Number)
		}
		return fmt.Errorf("failed to save invoice %s: %w", m.InvoiceID, err)
	}

	batch := &pgx.Batch{}
	queueDocumentLineInserts(batch, invoice.Lines)
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to insert lines for invoice %s: %w", m.InvoiceID, err)
	}

	return r.Commit(ctx, tx)
}

// FindInvoiceByID retrieves an invoice with its lines.
func (r *PgxInvoiceRepository) FindInvoiceByID(ctx context.Context, companyID string, invoiceID string) (*domain.Invoice, error) {
	query := `
		SELECT ` + invoiceColumns + `
		FROM invoices
		WHERE company_id = $1 AND invoice_id = $2;
	`
	m, err := scanInvoice(r.Pool.QueryRow(ctx, query, companyID, invoiceID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find invoice by ID %s: %w", invoiceID, err)
	}

	lines, err := findDocumentLines(ctx, r.Pool, invoiceID)
	if err != nil {
		return nil, err
	}

	d := mapping.ToDomainInvoice(m)
	d.Lines = lines
	return &d, nil
}

// ListInvoices retrieves a paginated list of invoice headers using token-based
// pagination, newest first. Status and contact filters are optional.
func (r *PgxInvoiceRepository) ListInvoices(ctx context.Context, companyID string, limit int, nextToken *string, status *domain.DocumentStatus, contactID *string) ([]domain.Invoice, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	baseQuery := `
		SELECT ` + invoiceColumns + `
		FROM invoices
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
		return nil, nil, fmt.Errorf("failed to query invoices for company %s: %w", companyID, err)
	}
	defer rows.Close()

	invoices := make([]models.Invoice, 0, fetchLimit)
	for rows.Next() {
		m, err := scanInvoice(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan invoice row for company %s: %w", companyID, err)
		}
		invoices = append(invoices, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating invoice rows for company %s: %w", companyID, err)
	}

	var nextTokenVal *string
	results := invoices
	if len(invoices) > limit {
		last := invoices[limit-1]
		token := pagination.EncodeToken(last.IssueDate, last.CreatedAt)
		nextTokenVal = &token
		results = invoices[:limit]
	}

	return mapping.ToDomainInvoiceSlice(results), nextTokenVal, nil
}

// FindOutstandingInvoicesByContact retrieves the contact's issued invoices
// with a positive balance, oldest due date first. Lines are omitted; the
// allocation suggester only needs the header totals.
func (r *PgxInvoiceRepository) FindOutstandingInvoicesByContact(ctx context.Context, companyID string, contactID string) ([]domain.Invoice, error) {
	query := `
		SELECT ` + invoiceColumns + `
		FROM invoices
		WHERE company_id = $1 AND contact_id = $2 AND status = 'ISSUED' AND total > amount_paid
		ORDER BY due_date, created_at;
	`
	rows, err := r.Pool.Query(ctx, query, companyID, contactID)
	if err != nil {
		return nil, fmt.Errorf("failed to query outstanding invoices for contact %s: %w", contactID, err)
	}
	defer rows.Close()

	invoices := []models.Invoice{}
	for rows.Next() {
		m, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan outstanding invoice row for contact %s: %w", contactID, err)
		}
		invoices = append(invoices, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating outstanding invoice rows for contact %s: %w", contactID, err)
	}

	return mapping.ToDomainInvoiceSlice(invoices), nil
}

// UpdateDraftInvoice replaces a draft invoice's fields and lines. The header
// update is a compare-and-swap on status DRAFT.
func (r *PgxInvoiceRepository) UpdateDraftInvoice(ctx context.Context, invoice domain.Invoice) error {
	m := mapping.ToModelInvoice(invoice)

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	headerQuery := `
		UPDATE invoices
		SET contact_id = $3, number = $4, issue_date = $5, due_date = $6, last_updated_at = $7, last_updated_by = $8
		WHERE company_id = $1 AND invoice_id = $2 AND status = 'DRAFT';
	`
	cmdTag, err := tx.Exec(ctx, headerQuery,
		m.CompanyID,
		m.InvoiceID,
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
			return fmt.Errorf("%w: invoice number %s already exists", apperrors.ErrDuplicate, m.Number)
		}
		return fmt.Errorf("failed to update draft invoice %s: %w", m.InvoiceID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		if _, findErr := r.FindInvoiceByID(ctx, m.CompanyID, m.InvoiceID); errors.Is(findErr, apperrors.ErrNotFound) {
			return apperrors.ErrNotFound
		} else if findErr != nil {
			return findErr
		}
		// Exists but is no longer a draft.
		return apperrors.ErrConflict
	}

	if err := replaceDocumentLines(ctx, tx, m.InvoiceID, invoice.Lines); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// VoidDraftInvoice flips a draft invoice to VOID with a compare-and-swap on
// status DRAFT.
func (r *PgxInvoiceRepository) VoidDraftInvoice(ctx context.Context, companyID string, invoiceID string, actorID string, now time.Time) error {
	query := `
		UPDATE invoices
		SET status = 'VOID', last_updated_at = $3, last_updated_by = $4
		WHERE company_id = $1 AND invoice_id = $2 AND status = 'DRAFT';
	`
	cmdTag, err := r.Pool.Exec(ctx, query, companyID, invoiceID, now, actorID)
	if err != nil {
		return fmt.Errorf("failed to void draft invoice %s: %w", invoiceID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		if _, findErr := r.FindInvoiceByID(ctx, companyID, invoiceID); errors.Is(findErr, apperrors.ErrNotFound) {
			return apperrors.ErrNotFound
		} else if findErr != nil {
			return findErr
		}
		return apperrors.ErrConflict
	}
	return nil
}

// SaveInvoiceIssuance persists the issuance unit of work atomically: the
// backing transaction already in POSTED state with its lines, the ledger
// entries and tax lines, the invoice's flip DRAFT -> ISSUED and the audit
// event. The flip is a compare-and-swap on status DRAFT; when it misses,
// nothing is written and ErrConflict is returned.
func (r *PgxInvoiceRepository) SaveInvoiceIssuance(ctx context.Context, invoice domain.Invoice, txn domain.Transaction, postedAt time.Time, entries []domain.LedgerEntry, taxLines []domain.TaxLine, audit domain.AuditEvent) error {
	m := mapping.ToModelInvoice(invoice)

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	// Claim the flip first so a concurrent issuance fails before any ledger
	// rows are queued.
	flipQuery := `
		UPDATE invoices
		SET status = 'ISSUED', total = $3, tax_total = $4, transaction_id = $5, last_updated_at = $6, last_updated_by = $7
		WHERE company_id = $1 AND invoice_id = $2 AND status = 'DRAFT';
	`
	cmdTag, err := tx.Exec(ctx, flipQuery,
		m.CompanyID,
		m.InvoiceID,
		m.Total,
		m.TaxTotal,
		m.TransactionID,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to flip invoice %s to ISSUED: %w", m.InvoiceID, err)
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
		return fmt.Errorf("failed to insert issuance rows for invoice %s: %w", m.InvoiceID, err)
	}

	if err := insertAuditEventTx(ctx, tx, audit); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}
