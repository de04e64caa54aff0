package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/keabooks/kea_books_app/internal/apperrors"
	"github.com/keabooks/kea_books_app/internal/core/domain"
	portsrepo "github.com/keabooks/kea_books_app/internal/core/ports/repositories"
	"github.com/keabooks/kea_books_app/internal/models"
	"github.com/keabooks/kea_books_app/internal/utils/mapping"
)

type PgxAllocationRepository struct {
	BaseRepository
}

// newPgxAllocationRepository creates a new repository for allocation data.
func newPgxAllocationRepository(pool *pgxpool.Pool) portsrepo.AllocationRepositoryFacade {
	return &PgxAllocationRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxAllocationRepository implements portsrepo.AllocationRepositoryFacade
var _ portsrepo.AllocationRepositoryFacade = (*PgxAllocationRepository)(nil)

const receivableAllocationColumns = `allocation_id, company_id, receipt_transaction_id, invoice_id, amount, created_at, created_by`

const payableAllocationColumns = `allocation_id, company_id, payment_transaction_id, bill_id, amount, created_at, created_by`

func scanReceivableAllocation(row pgx.Row) (models.ReceivableAllocation, error) {
	var m models.ReceivableAllocation
	err := row.Scan(
		&m.AllocationID,
		&m.CompanyID,
		&m.ReceiptTransactionID,
		&m.InvoiceID,
		&m.Amount,
		&m.CreatedAt,
		&m.CreatedBy,
	)
	return m, err
}

func scanPayableAllocation(row pgx.Row) (models.PayableAllocation, error) {
	var m models.PayableAllocation
	err := row.Scan(
		&m.AllocationID,
		&m.CompanyID,
		&m.PaymentTransactionID,
		&m.BillID,
		&m.Amount,
		&m.CreatedAt,
		&m.CreatedBy,
	)
	return m, err
}

// ListReceivableAllocationsByInvoice retrieves all allocations applied to an
// invoice, oldest first.
func (r *PgxAllocationRepository) ListReceivableAllocationsByInvoice(ctx context.Context, companyID string, invoiceID string) ([]domain.ReceivableAllocation, error) {
	query := `
		SELECT ` + receivableAllocationColumns + `
		FROM receivable_allocations
		WHERE company_id = $1 AND invoice_id = $2
		ORDER BY created_at;
	`
	return r.queryReceivableAllocations(ctx, query, companyID, invoiceID)
}

// ListReceivableAllocationsByTransaction retrieves all allocations drawn from
// a receipt, oldest first.
func (r *PgxAllocationRepository) ListReceivableAllocationsByTransaction(ctx context.Context, companyID string, receiptTransactionID string) ([]domain.ReceivableAllocation, error) {
	query := `
		SELECT ` + receivableAllocationColumns + `
		FROM receivable_allocations
		WHERE company_id = $1 AND receipt_transaction_id = $2
		ORDER BY created_at;
	`
	return r.queryReceivableAllocations(ctx, query, companyID, receiptTransactionID)
}

func (r *PgxAllocationRepository) queryReceivableAllocations(ctx context.Context, query string, args ...interface{}) ([]domain.ReceivableAllocation, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query receivable allocations: %w", err)
	}
	defer rows.Close()

	allocs := []models.ReceivableAllocation{}
	for rows.Next() {
		m, err := scanReceivableAllocation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan receivable allocation row: %w", err)
		}
		allocs = append(allocs, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating receivable allocation rows: %w", err)
	}

	return mapping.ToDomainReceivableAllocationSlice(allocs), nil
}

// SumReceivableAllocationsByTransaction totals the allocations drawn from a receipt.
func (r *PgxAllocationRepository) SumReceivableAllocationsByTransaction(ctx context.Context, companyID string, receiptTransactionID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM receivable_allocations
		WHERE company_id = $1 AND receipt_transaction_id = $2;
	`
	var sum decimal.Decimal
	if err := r.Pool.QueryRow(ctx, query, companyID, receiptTransactionID).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum receivable allocations for receipt %s: %w", receiptTransactionID, err)
	}
	return sum, nil
}

// ListPayableAllocationsByBill retrieves all allocations applied to a bill,
// oldest first.
func (r *PgxAllocationRepository) ListPayableAllocationsByBill(ctx context.Context, companyID string, billID string) ([]domain.PayableAllocation, error) {
	query := `
		SELECT ` + payableAllocationColumns + `
		FROM payable_allocations
		WHERE company_id = $1 AND bill_id = $2
		ORDER BY created_at;
	`
	return r.queryPayableAllocations(ctx, query, companyID, billID)
}

// ListPayableAllocationsByTransaction retrieves all allocations drawn from a
// payment, oldest first.
func (r *PgxAllocationRepository) ListPayableAllocationsByTransaction(ctx context.Context, companyID string, paymentTransactionID string) ([]domain.PayableAllocation, error) {
	query := `
		SELECT ` + payableAllocationColumns + `
		FROM payable_allocations
		WHERE company_id = $1 AND payment_transaction_id = $2
		ORDER BY created_at;
	`
	return r.queryPayableAllocations(ctx, query, companyID, paymentTransactionID)
}

func (r *PgxAllocationRepository) queryPayableAllocations(ctx context.Context, query string, args ...interface{}) ([]domain.PayableAllocation, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query payable allocations: %w", err)
	}
	defer rows.Close()

	allocs := []models.PayableAllocation{}
	for rows.Next() {
		m, err := scanPayableAllocation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payable allocation row: %w", err)
		}
		allocs = append(allocs, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating payable allocation rows: %w", err)
	}

	return mapping.ToDomainPayableAllocationSlice(allocs), nil
}

// SumPayableAllocationsByTransaction totals the allocations drawn from a payment.
func (r *PgxAllocationRepository) SumPayableAllocationsByTransaction(ctx context.Context, companyID string, paymentTransactionID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM payable_allocations
		WHERE company_id = $1 AND payment_transaction_id = $2;
	`
	var sum decimal.Decimal
	if err := r.Pool.QueryRow(ctx, query, companyID, paymentTransactionID).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum payable allocations for payment %s: %w", paymentTransactionID, err)
	}
	return sum, nil
}

// SaveReceivableAllocation inserts the allocation under the receipt's row
// lock. The lock serializes concurrent allocations against the same receipt,
// so the re-read of the prior sum is authoritative and the unallocated room
// can never be oversubscribed. Returns the room remaining after this
// allocation, or the room that was available alongside ErrConflict when the
// allocation does not fit.
func (r *PgxAllocationRepository) SaveReceivableAllocation(ctx context.Context, alloc domain.ReceivableAllocation, allocatable decimal.Decimal, audit domain.AuditEvent) (decimal.Decimal, error) {
	m := mapping.ToModelReceivableAllocation(alloc)

	tx, err := r.Begin(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	defer r.Rollback(ctx, tx)

	if err := lockTransactionRow(ctx, tx, m.CompanyID, m.ReceiptTransactionID); err != nil {
		return decimal.Zero, err
	}

	var prior decimal.Decimal
	sumQuery := `
		SELECT COALESCE(SUM(amount), 0)
		FROM receivable_allocations
		WHERE company_id = $1 AND receipt_transaction_id = $2;
	`
	if err := tx.QueryRow(ctx, sumQuery, m.CompanyID, m.ReceiptTransactionID).Scan(&prior); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum prior allocations for receipt %s: %w", m.ReceiptTransactionID, err)
	}

	room := allocatable.Sub(prior)
	if m.Amount.GreaterThan(room) {
		return room, apperrors.ErrConflict
	}

	insertQuery := `
		INSERT INTO receivable_allocations (` + receivableAllocationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	if _, err := tx.Exec(ctx, insertQuery,
		m.AllocationID,
		m.CompanyID,
		m.ReceiptTransactionID,
		m.InvoiceID,
		m.Amount,
		m.CreatedAt,
		m.CreatedBy,
	); err != nil {
		return decimal.Zero, fmt.Errorf("failed to save receivable allocation %s: %w", m.AllocationID, err)
	}

	bumpQuery := `
		UPDATE invoices
		SET amount_paid = amount_paid + $3, last_updated_at = $4, last_updated_by = $5
		WHERE company_id = $1 AND invoice_id = $2;
	`
	cmdTag, err := tx.Exec(ctx, bumpQuery, m.CompanyID, m.InvoiceID, m.Amount, m.CreatedAt, m.CreatedBy)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to bump amount paid on invoice %s: %w", m.InvoiceID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return decimal.Zero, apperrors.ErrNotFound
	}

	if err := insertAuditEventTx(ctx, tx, audit); err != nil {
		return decimal.Zero, err
	}

	if err := r.Commit(ctx, tx); err != nil {
		return decimal.Zero, err
	}
	return room.Sub(m.Amount), nil
}

// SavePayableAllocation is the payable-side mirror of SaveReceivableAllocation.
func (r *PgxAllocationRepository) SavePayableAllocation(ctx context.Context, alloc domain.PayableAllocation, allocatable decimal.Decimal, audit domain.AuditEvent) (decimal.Decimal, error) {
	m := mapping.ToModelPayableAllocation(alloc)

	tx, err := r.Begin(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	defer r.Rollback(ctx, tx)

	if err := lockTransactionRow(ctx, tx, m.CompanyID, m.PaymentTransactionID); err != nil {
		return decimal.Zero, err
	}

	var prior decimal.Decimal
	sumQuery := `
		SELECT COALESCE(SUM(amount), 0)
		FROM payable_allocations
		WHERE company_id = $1 AND payment_transaction_id = $2;
	`
	if err := tx.QueryRow(ctx, sumQuery, m.CompanyID, m.PaymentTransactionID).Scan(&prior); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum prior allocations for payment %s: %w", m.PaymentTransactionID, err)
	}

	room := allocatable.Sub(prior)
	if m.Amount.GreaterThan(room) {
		return room, apperrors.ErrConflict
	}

	insertQuery := `
		INSERT INTO payable_allocations (` + payableAllocationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	if _, err := tx.Exec(ctx, insertQuery,
		m.AllocationID,
		m.CompanyID,
		m.PaymentTransactionID,
		m.BillID,
		m.Amount,
		m.CreatedAt,
		m.CreatedBy,
	); err != nil {
		return decimal.Zero, fmt.Errorf("failed to save payable allocation %s: %w", m.AllocationID, err)
	}

	bumpQuery := `
		UPDATE bills
		SET amount_paid = amount_paid + $3, last_updated_at = $4, last_updated_by = $5
		WHERE company_id = $1 AND bill_id = $2;
	`
	cmdTag, err := tx.Exec(ctx, bumpQuery, m.CompanyID, m.BillID, m.Amount, m.CreatedAt, m.CreatedBy)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to bump amount paid on bill %s: %w", m.BillID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return decimal.Zero, apperrors.ErrNotFound
	}

	if err := insertAuditEventTx(ctx, tx, audit); err != nil {
		return decimal.Zero, err
	}

	if err := r.Commit(ctx, tx); err != nil {
		return decimal.Zero, err
	}
	return room.Sub(m.Amount), nil
}

// lockTransactionRow takes the source transaction's row lock inside an open
// database transaction. Returns ErrNotFound when no such transaction exists.
func lockTransactionRow(ctx context.Context, tx pgx.Tx, companyID string, transactionID string) error {
	var id string
	query := `
		SELECT transaction_id
		FROM transactions
		WHERE company_id = $1 AND transaction_id = $2
		FOR UPDATE;
	`
	if err := tx.QueryRow(ctx, query, companyID, transactionID).Scan(&id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("failed to lock transaction %s: %w", transactionID, err)
	}
	return nil
}
