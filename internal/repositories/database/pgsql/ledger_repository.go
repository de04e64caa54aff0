package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/keabooks/kea_books_app/internal/apperrors"
	"github.com/keabooks/kea_books_app/internal/core/domain"
	portsrepo "github.com/keabooks/kea_books_app/internal/core/ports/repositories"
	"github.com/keabooks/kea_books_app/internal/models"
	"github.com/keabooks/kea_books_app/internal/utils/mapping"
	"github.com/keabooks/kea_books_app/internal/utils/pagination"
)

type PgxLedgerRepository struct {
	pool *pgxpool.Pool
}

// newPgxLedgerRepository creates a new read-only repository for ledger entries
// and tax lines. Writes happen only through the posting and issuance units of
// work; reconciliation sub-state changes go through the bank feed repository.
func newPgxLedgerRepository(pool *pgxpool.Pool) portsrepo.LedgerRepositoryFacade {
	return &PgxLedgerRepository{pool: pool}
}

// Ensure PgxLedgerRepository implements portsrepo.LedgerRepositoryFacade
var _ portsrepo.LedgerRepositoryFacade = (*PgxLedgerRepository)(nil)

func scanLedgerEntry(row pgx.Row) (models.LedgerEntry, error) {
	var m models.LedgerEntry
	err := row.Scan(
		&m.EntryID,
		&m.CompanyID,
		&m.TransactionID,
		&m.LineID,
		&m.AccountID,
		&m.EntryDate,
		&m.AmountDr,
		&m.AmountCr,
		&m.TaxCodeID,
		&m.DepartmentID,
		&m.Reconciled,
		&m.ReconciliationStatus,
		&m.BankFeedItemID,
		&m.ReconciledBy,
		&m.ReconciledAt,
		&m.CreatedAt,
		&m.CreatedBy,
	)
	return m, err
}

// FindEntryByID retrieves a single ledger entry.
func (r *PgxLedgerRepository) FindEntryByID(ctx context.Context, companyID string, entryID string) (*domain.LedgerEntry, error) {
	query := `
		SELECT ` + ledgerEntryColumns + `
		FROM ledger_entries
		WHERE company_id = $1 AND entry_id = $2;
	`
	m, err := scanLedgerEntry(r.pool.QueryRow(ctx, query, companyID, entryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find ledger entry by ID %s: %w", entryID, err)
	}

	d := mapping.ToDomainLedgerEntry(m)
	return &d, nil
}

// FindEntriesByTransactionID retrieves all entries produced by one transaction.
func (r *PgxLedgerRepository) FindEntriesByTransactionID(ctx context.Context, companyID string, transactionID string) ([]domain.LedgerEntry, error) {
	query := `
		SELECT ` + ledgerEntryColumns + `
		FROM ledger_entries
		WHERE company_id = $1 AND transaction_id = $2
		ORDER BY entry_id;
	`
	rows, err := r.pool.Query(ctx, query, companyID, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries for transaction %s: %w", transactionID, err)
	}
	defer rows.Close()

	entries := []models.LedgerEntry{}
	for rows.Next() {
		m, err := scanLedgerEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan entry row for transaction %s: %w", transactionID, err)
		}
		entries = append(entries, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating entry rows for transaction %s: %w", transactionID, err)
	}

	return mapping.ToDomainLedgerEntrySlice(entries), nil
}

// ListEntriesByAccount retrieves a paginated list of entries for an account
// using token-based pagination, newest first.
func (r *PgxLedgerRepository) ListEntriesByAccount(ctx context.Context, companyID string, accountID string, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	baseQuery := `
		SELECT ` + ledgerEntryColumns + `
		FROM ledger_entries
	`
	filterClause := `WHERE company_id = $1 AND account_id = $2`
	args := []interface{}{companyID, accountID}

	orderByClause := `ORDER BY entry_date DESC, created_at DESC`

	if nextToken != nil && *nextToken != "" {
		lastDate, lastCreatedAt, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		args = append(args, lastDate, lastCreatedAt)
		filterClause += ` AND (entry_date, created_at) < ($3, $4)`
	}

	args = append(args, fetchLimit)
	query := baseQuery + " " + filterClause + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)) + ";"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query entries for account %s: %w", accountID, err)
	}
	defer rows.Close()

	entries := make([]models.LedgerEntry, 0, fetchLimit)
	for rows.Next() {
		m, err := scanLedgerEntry(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan entry row for account %s: %w", accountID, err)
		}
		entries = append(entries, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating entry rows for account %s: %w", accountID, err)
	}

	var nextTokenVal *string
	results := entries
	if len(entries) > limit {
		last := entries[limit-1]
		token := pagination.EncodeToken(last.EntryDate, last.CreatedAt)
		nextTokenVal = &token
		results = entries[:limit]
	}

	return mapping.ToDomainLedgerEntrySlice(results), nextTokenVal, nil
}

// FindTaxLinesByEntryIDs retrieves tax lines for the given entries, keyed by
// entry ID.
func (r *PgxLedgerRepository) FindTaxLinesByEntryIDs(ctx context.Context, companyID string, entryIDs []string) (map[string][]domain.TaxLine, error) {
	if len(entryIDs) == 0 {
		return map[string][]domain.TaxLine{}, nil
	}

	query := `
		SELECT ` + taxLineColumns + `
		FROM tax_lines
		WHERE company_id = $1 AND entry_id = ANY($2)
		ORDER BY entry_id, tax_line_id;
	`
	rows, err := r.pool.Query(ctx, query, companyID, entryIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query tax lines by entry IDs: %w", err)
	}
	defer rows.Close()

	taxLinesMap := make(map[string][]domain.TaxLine)
	for rows.Next() {
		var m models.TaxLine
		if err := rows.Scan(
			&m.TaxLineID,
			&m.CompanyID,
			&m.EntryID,
			&m.TaxCodeID,
			&m.RateSnapshot,
			&m.TaxableAmount,
			&m.TaxAmount,
			&m.ReportingBox,
			&m.Jurisdiction,
			&m.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan tax line row: %w", err)
		}
		d := mapping.ToDomainTaxLine(m)
		taxLinesMap[d.EntryID] = append(taxLinesMap[d.EntryID], d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tax line rows: %w", err)
	}

	return taxLinesMap, nil
}

// FindMatchCandidates retrieves unreconciled entries on a bank control account
// whose amount equals the given magnitude on the given side, dated within
// windowDays of around. The parent transaction's description rides along for
// scoring; Score is left zero for the service to fill.
func (r *PgxLedgerRepository) FindMatchCandidates(ctx context.Context, companyID string, bankAccountID string, amount decimal.Decimal, debitSide bool, around time.Time, windowDays int) ([]domain.MatchCandidate, error) {
	sideColumn := "e.amount_cr"
	if debitSide {
		sideColumn = "e.amount_dr"
	}

	query := `
		SELECT e.entry_id, e.company_id, e.transaction_id, e.line_id, e.account_id, e.entry_date,
		       e.amount_dr, e.amount_cr, e.tax_code_id, e.department_id,
		       e.reconciled, e.reconciliation_status, e.bank_feed_item_id, e.reconciled_by, e.reconciled_at,
		       e.created_at, e.created_by, t.description
		FROM ledger_entries e
		JOIN transactions t ON e.transaction_id = t.transaction_id
		WHERE e.company_id = $1
			AND e.account_id = $2
			AND e.reconciliation_status = 'UNRECONCILED'
			AND ` + sideColumn + ` = $3
			AND e.entry_date BETWEEN $4 AND $5
		ORDER BY e.entry_date, e.created_at;
	`
	from := around.AddDate(0, 0, -windowDays)
	to := around.AddDate(0, 0, windowDays)

	rows, err := r.pool.Query(ctx, query, companyID, bankAccountID, amount, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query match candidates for account %s: %w", bankAccountID, err)
	}
	defer rows.Close()

	candidates := []domain.MatchCandidate{}
	for rows.Next() {
		var m models.LedgerEntry
		var description string
		if err := rows.Scan(
			&m.EntryID,
			&m.CompanyID,
			&m.TransactionID,
			&m.LineID,
			&m.AccountID,
			&m.EntryDate,
			&m.AmountDr,
			&m.AmountCr,
			&m.TaxCodeID,
			&m.DepartmentID,
			&m.Reconciled,
			&m.ReconciliationStatus,
			&m.BankFeedItemID,
			&m.ReconciledBy,
			&m.ReconciledAt,
			&m.CreatedAt,
			&m.CreatedBy,
			&description,
		); err != nil {
			return nil, fmt.Errorf("failed to scan match candidate row: %w", err)
		}
		candidates = append(candidates, domain.MatchCandidate{
			Entry:       mapping.ToDomainLedgerEntry(m),
			Description: description,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating match candidate rows: %w", err)
	}

	return candidates, nil
}
