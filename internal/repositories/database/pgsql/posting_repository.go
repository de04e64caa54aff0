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

type PgxPostingRepository struct {
	BaseRepository
}

// newPgxPostingRepository creates a new repository for posting units of work.
func newPgxPostingRepository(pool *pgxpool.Pool) portsrepo.PostingRepositoryFacade {
	return &PgxPostingRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxPostingRepository implements portsrepo.PostingRepositoryFacade
var _ portsrepo.PostingRepositoryFacade = (*PgxPostingRepository)(nil)

const ledgerEntryColumns = `entry_id, company_id, transaction_id, line_id, account_id, entry_date, amount_dr, amount_cr, tax_code_id, department_id, reconciled, reconciliation_status, bank_feed_item_id, reconciled_by, reconciled_at, created_at, created_by`

const insertLedgerEntryQuery = `
	INSERT INTO ledger_entries (` + ledgerEntryColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);
`

const taxLineColumns = `tax_line_id, company_id, entry_id, tax_code_id, rate_snapshot, taxable_amount, tax_amount, reporting_box, jurisdiction, created_at`

const insertTaxLineQuery = `
	INSERT INTO tax_lines (` + taxLineColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
`

// queueLedgerEntryInserts queues entry inserts onto a batch. Shared with the
// issuance repositories, which write entries inside their own units of work.
func queueLedgerEntryInserts(batch *pgx.Batch, entries []domain.LedgerEntry) {
	for _, entry := range entries {
		m := mapping.ToModelLedgerEntry(entry)
		batch.Queue(insertLedgerEntryQuery,
			m.EntryID,
			m.CompanyID,
			m.TransactionID,
			m.LineID,
			m.AccountID,
			m.EntryDate,
			m.AmountDr,
			m.AmountCr,
			m.TaxCodeID,
			m.DepartmentID,
			m.Reconciled,
			m.ReconciliationStatus,
			m.BankFeedItemID,
			m.ReconciledBy,
			m.ReconciledAt,
			m.CreatedAt,
			m.CreatedBy,
		)
	}
}

func queueTaxLineInserts(batch *pgx.Batch, taxLines []domain.TaxLine) {
	for _, taxLine := range taxLines {
		m := mapping.ToModelTaxLine(taxLine)
		batch.Queue(insertTaxLineQuery,
			m.TaxLineID,
			m.CompanyID,
			m.EntryID,
			m.TaxCodeID,
			m.RateSnapshot,
			m.TaxableAmount,
			m.TaxAmount,
			m.ReportingBox,
			m.Jurisdiction,
			m.CreatedAt,
		)
	}
}

// insertAuditEventTx inserts one audit event inside an open transaction.
// Used by every unit of work that records its event atomically.
func insertAuditEventTx(ctx context.Context, tx pgx.Tx, event domain.AuditEvent) error {
	m := mapping.ToModelAuditEvent(event)
	query := `
		INSERT INTO audit_events (event_id, company_id, actor_id, event_type, entity_type, entity_id, summary, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	if _, err := tx.Exec(ctx, query,
		m.EventID,
		m.CompanyID,
		m.ActorID,
		m.EventType,
		m.EntityType,
		m.EntityID,
		m.Summary,
		m.CreatedAt,
	); err != nil {
		return fmt.Errorf("failed to insert audit event %s: %w", m.EventID, err)
	}
	return nil
}

// SavePosting flips the transaction DRAFT -> POSTED and persists its ledger
// entries, tax lines and audit event in one database transaction. The flip is
// a compare-and-swap on status DRAFT: when it misses, nothing is written and
// ErrConflict is returned.
func (r *PgxPostingRepository) SavePosting(ctx context.Context, companyID string, transactionID string, postedAt time.Time, actorID string, entries []domain.LedgerEntry, taxLines []domain.TaxLine, audit domain.AuditEvent) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	flipQuery := `
		UPDATE transactions
		SET status = 'POSTED', posted_at = $3, last_updated_at = $3, last_updated_by = $4
		WHERE company_id = $1 AND transaction_id = $2 AND status = 'DRAFT';
	`
	cmdTag, err := tx.Exec(ctx, flipQuery, companyID, transactionID, postedAt, actorID)
	if err != nil {
		return fmt.Errorf("failed to flip transaction %s to POSTED: %w", transactionID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		// A concurrent posting already claimed the flip.
		return apperrors.ErrConflict
	}

	batch := &pgx.Batch{}
	queueLedgerEntryInserts(batch, entries)
	queueTaxLineInserts(batch, taxLines)

	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to insert ledger entries for transaction %s: %w", transactionID, err)
	}

	if err := insertAuditEventTx(ctx, tx, audit); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// SaveReversal persists a reversing transaction already in POSTED state, its
// lines, ledger entries, tax lines, the reversal link and the audit event, all
// in one database transaction. The link's uniqueness on the original
// transaction makes a second reversal fail with ErrDuplicate.
func (r *PgxPostingRepository) SaveReversal(ctx context.Context, reversing domain.Transaction, postedAt time.Time, entries []domain.LedgerEntry, taxLines []domain.TaxLine, link domain.ReversalLink, audit domain.AuditEvent) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	batch := &pgx.Batch{}
	queueTransactionInsert(batch, reversing)
	queueLedgerEntryInserts(batch, entries)
	queueTaxLineInserts(batch, taxLines)

	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to insert reversing transaction %s: %w", reversing.TransactionID, err)
	}

	// The link goes in on its own so a unique violation here is unambiguous.
	ml := mapping.ToModelReversalLink(link)
	linkQuery := `
		INSERT INTO reversal_links (link_id, company_id, original_transaction_id, reversing_transaction_id, reason, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	if _, err := tx.Exec(ctx, linkQuery,
		ml.LinkID,
		ml.CompanyID,
		ml.OriginalTransactionID,
		ml.ReversingTransactionID,
		ml.Reason,
		ml.CreatedAt,
		ml.CreatedBy,
	); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: transaction %s already reversed", apperrors.ErrDuplicate, ml.OriginalTransactionID)
		}
		return fmt.Errorf("failed to insert reversal link for transaction %s: %w", ml.OriginalTransactionID, err)
	}

	if err := insertAuditEventTx(ctx, tx, audit); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

func scanReversalLink(row pgx.Row) (models.ReversalLink, error) {
	var m models.ReversalLink
	err := row.Scan(
		&m.LinkID,
		&m.CompanyID,
		&m.OriginalTransactionID,
		&m.ReversingTransactionID,
		&m.Reason,
		&m.CreatedAt,
		&m.CreatedBy,
	)
	return m, err
}

const reversalLinkColumns = `link_id, company_id, original_transaction_id, reversing_transaction_id, reason, created_at, created_by`

// FindReversalLinkByOriginal retrieves the link where the given transaction is
// the original.
func (r *PgxPostingRepository) FindReversalLinkByOriginal(ctx context.Context, companyID string, originalTransactionID string) (*domain.ReversalLink, error) {
	query := `
		SELECT ` + reversalLinkColumns + `
		FROM reversal_links
		WHERE company_id = $1 AND original_transaction_id = $2;
	`
	m, err := scanReversalLink(r.Pool.QueryRow(ctx, query, companyID, originalTransactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find reversal link for original %s: %w", originalTransactionID, err)
	}

	d := mapping.ToDomainReversalLink(m)
	return &d, nil
}

// FindReversalLinkByReversing retrieves the link where the given transaction
// is the reversing side.
func (r *PgxPostingRepository) FindReversalLinkByReversing(ctx context.Context, companyID string, reversingTransactionID string) (*domain.ReversalLink, error) {
	query := `
		SELECT ` + reversalLinkColumns + `
		FROM reversal_links
		WHERE company_id = $1 AND reversing_transaction_id = $2;
	`
	m, err := scanReversalLink(r.Pool.QueryRow(ctx, query, companyID, reversingTransactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find reversal link for reversing %s: %w", reversingTransactionID, err)
	}

	d := mapping.ToDomainReversalLink(m)
	return &d, nil
}
