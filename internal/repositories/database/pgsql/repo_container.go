package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/keabooks/kea_books_app/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	companyRepo := newPgxCompanyRepository(dbPool)
	accountRepo := newPgxAccountRepository(dbPool)
	departmentRepo := newPgxDepartmentRepository(dbPool)
	contactRepo := newPgxContactRepository(dbPool)
	periodRepo := newPgxPeriodRepository(dbPool)
	taxCodeRepo := newPgxTaxCodeRepository(dbPool)
	transactionRepo := newPgxTransactionRepository(dbPool)
	postingRepo := newPgxPostingRepository(dbPool)
	ledgerRepo := newPgxLedgerRepository(dbPool)
	invoiceRepo := newPgxInvoiceRepository(dbPool)
	billRepo := newPgxBillRepository(dbPool)
	allocationRepo := newPgxAllocationRepository(dbPool)
	bankFeedRepo := newPgxBankFeedRepository(dbPool)
	recurringRepo := newPgxRecurringRepository(dbPool)
	auditRepo := newPgxAuditRepository(dbPool)
	reportingRepo := newReportingRepository(dbPool)

	return portsrepo.RepositoryProvider{
		CompanyRepo:     companyRepo,
		AccountRepo:     accountRepo,
		DepartmentRepo:  departmentRepo,
		ContactRepo:     contactRepo,
		PeriodRepo:      periodRepo,
		TaxCodeRepo:     taxCodeRepo,
		TransactionRepo: transactionRepo,
		PostingRepo:     postingRepo,
		LedgerRepo:      ledgerRepo,
		InvoiceRepo:     invoiceRepo,
		BillRepo:        billRepo,
		AllocationRepo:  allocationRepo,
		BankFeedRepo:    bankFeedRepo,
		RecurringRepo:   recurringRepo,
		AuditRepo:       auditRepo,
		ReportingRepo:   reportingRepo,
	}
}
