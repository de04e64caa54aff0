package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/keabooks/kea_books_app/internal/core/domain"
	portsrepo "github.com/keabooks/kea_books_app/internal/core/ports/repositories"
)

// reportingRepository implements the ReportingRepository interface. Ledger
// entries exist only for posted transactions, so no status filter is needed;
// a reversal's entries net out against the original's in every aggregate.
type reportingRepository struct {
	BaseRepository
}

// newReportingRepository creates a new reporting repository
func newReportingRepository(db *pgxpool.Pool) portsrepo.ReportingRepository {
	return &reportingRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

// GetTrialBalanceData retrieves trial balance data as of a specific date
func (r *reportingRepository) GetTrialBalanceData(ctx context.Context, companyID string, asOf time.Time) ([]domain.TrialBalanceRow, error) {
	query := `
		SELECT
			a.account_id,
			a.code AS account_code,
			a.name AS account_name,
			a.account_type,
			SUM(e.amount_dr) AS total_debit,
			SUM(e.amount_cr) AS total_credit
		FROM ledger_entries e
		JOIN accounts a ON e.account_id = a.account_id
		WHERE e.entry_date <= $1
			AND e.company_id = $2
		GROUP BY a.account_id, a.code, a.name, a.account_type
		ORDER BY a.code
	`

	rows, err := r.Pool.Query(ctx, query, asOf, companyID)
	if err != nil {
		return nil, fmt.Errorf("error querying trial balance data: %w", err)
	}
	defer rows.Close()

	var result []domain.TrialBalanceRow
	for rows.Next() {
		var row domain.TrialBalanceRow
		var accountType string

		if err := rows.Scan(
			&row.AccountID,
			&row.AccountCode,
			&row.AccountName,
			&accountType,
			&row.Debit,
			&row.Credit,
		); err != nil {
			return nil, fmt.Errorf("error scanning trial balance row: %w", err)
		}

		row.AccountType = domain.AccountType(accountType)
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trial balance rows: %w", err)
	}

	if len(result) == 0 {
		// Return empty slice instead of nil
		return []domain.TrialBalanceRow{}, nil
	}

	return result, nil
}

// GetProfitAndLossData retrieves profit and loss data for a specific period
func (r *reportingRepository) GetProfitAndLossData(ctx context.Context, companyID string, from, to time.Time) ([]domain.AccountAmount, []domain.AccountAmount, error) {
	query := `
		SELECT
			a.account_type,
			a.account_id,
			a.code,
			a.name,
			SUM(e.amount_dr - e.amount_cr) AS net
		FROM ledger_entries e
		JOIN accounts a ON e.account_id = a.account_id
		WHERE e.entry_date BETWEEN $1 AND $2
			AND e.company_id = $3
			AND a.account_type IN ('REVENUE', 'EXPENSE')
		GROUP BY a.account_type, a.account_id, a.code, a.name
		ORDER BY a.code
	`

	rows, err := r.Pool.Query(ctx, query, from, to, companyID)
	if err != nil {
		return nil, nil, fmt.Errorf("error querying profit and loss data: %w", err)
	}
	defer rows.Close()

	var revenue []domain.AccountAmount
	var expenses []domain.AccountAmount

	for rows.Next() {
		var accountType, accountID, code, name string
		var netAmount decimal.Decimal

		if err := rows.Scan(&accountType, &accountID, &code, &name, &netAmount); err != nil {
			return nil, nil, fmt.Errorf("error scanning profit and loss row: %w", err)
		}

		accountAmount := domain.AccountAmount{
			AccountID: accountID,
			Code:      code,
			Name:      name,
			NetAmount: netAmount,
		}

		// Revenue accounts are credit-normal, so the debit-minus-credit net
		// comes back negative when revenue is earned. Invert for display.
		if accountType == string(domain.Revenue) {
			accountAmount.NetAmount = netAmount.Neg()
			revenue = append(revenue, accountAmount)
		} else if accountType == string(domain.Expense) {
			expenses = append(expenses, accountAmount)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating profit and loss rows: %w", err)
	}

	// Return empty slices instead of nil
	if revenue == nil {
		revenue = []domain.AccountAmount{}
	}
	if expenses == nil {
		expenses = []domain.AccountAmount{}
	}

	return revenue, expenses, nil
}

// GetBalanceSheetData retrieves balance sheet data as of a specific date
func (r *reportingRepository) GetBalanceSheetData(ctx context.Context, companyID string, asOf time.Time) ([]domain.AccountAmount, []domain.AccountAmount, []domain.AccountAmount, error) {
	query := `
		SELECT
			a.account_type,
			a.account_id,
			a.code,
			a.name,
			SUM(e.amount_dr - e.amount_cr) AS net
		FROM ledger_entries e
		JOIN accounts a ON e.account_id = a.account_id
		WHERE e.entry_date <= $1
			AND e.company_id = $2
			AND a.account_type IN ('ASSET', 'LIABILITY', 'EQUITY')
		GROUP BY a.account_type, a.account_id, a.code, a.name
		ORDER BY a.code
	`

	rows, err := r.Pool.Query(ctx, query, asOf, companyID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("error querying balance sheet data: %w", err)
	}
	defer rows.Close()

	var assets []domain.AccountAmount
	var liabilities []domain.AccountAmount
	var equity []domain.AccountAmount

	for rows.Next() {
		var accountType, accountID, code, name string
		var netAmount decimal.Decimal

		if err := rows.Scan(&accountType, &accountID, &code, &name, &netAmount); err != nil {
			return nil, nil, nil, fmt.Errorf("error scanning balance sheet row: %w", err)
		}

		accountAmount := domain.AccountAmount{
			AccountID: accountID,
			Code:      code,
			Name:      name,
			NetAmount: netAmount,
		}

		switch accountType {
		case string(domain.Asset):
			assets = append(assets, accountAmount)
		case string(domain.Liability):
			// Credit-normal; invert sign for display.
			accountAmount.NetAmount = netAmount.Neg()
			liabilities = append(liabilities, accountAmount)
		case string(domain.Equity):
			accountAmount.NetAmount = netAmount.Neg()
			equity = append(equity, accountAmount)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, nil, nil, fmt.Errorf("error iterating balance sheet rows: %w", err)
	}

	// Return empty slices instead of nil
	if assets == nil {
		assets = []domain.AccountAmount{}
	}
	if liabilities == nil {
		liabilities = []domain.AccountAmount{}
	}
	if equity == nil {
		equity = []domain.AccountAmount{}
	}

	return assets, liabilities, equity, nil
}

// GetTaxReturnData aggregates posted tax lines by reporting box over a date
// range. Rate snapshots were taken at posting time, so later tax code edits
// do not move these totals.
func (r *reportingRepository) GetTaxReturnData(ctx context.Context, companyID string, from, to time.Time) ([]domain.TaxReturnRow, error) {
	query := `
		SELECT
			tl.reporting_box,
			tl.jurisdiction,
			SUM(tl.taxable_amount) AS taxable_total,
			SUM(tl.tax_amount) AS tax_total
		FROM tax_lines tl
		JOIN ledger_entries e ON tl.entry_id = e.entry_id
		WHERE e.entry_date BETWEEN $1 AND $2
			AND tl.company_id = $3
		GROUP BY tl.reporting_box, tl.jurisdiction
		ORDER BY tl.reporting_box, tl.jurisdiction
	`

	rows, err := r.Pool.Query(ctx, query, from, to, companyID)
	if err != nil {
		return nil, fmt.Errorf("error querying tax return data: %w", err)
	}
	defer rows.Close()

	var result []domain.TaxReturnRow
	for rows.Next() {
		var row domain.TaxReturnRow
		if err := rows.Scan(
			&row.ReportingBox,
			&row.Jurisdiction,
			&row.TaxableTotal,
			&row.TaxTotal,
		); err != nil {
			return nil, fmt.Errorf("error scanning tax return row: %w", err)
		}
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tax return rows: %w", err)
	}

	if len(result) == 0 {
		// Return empty slice instead of nil
		return []domain.TaxReturnRow{}, nil
	}

	return result, nil
}
