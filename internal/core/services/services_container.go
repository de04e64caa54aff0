package services

import (
	portsrepo "github.com/keabooks/kea_books_app/internal/core/ports/repositories"
	portssvc "github.com/keabooks/kea_books_app/internal/core/ports/services"
)

// NewServiceContainer wires all services with their repositories and with
// each other, in dependency order.
func NewServiceContainer(repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Master data services have no service-level dependencies.
	container.Company = NewCompanyService(repos.CompanyRepo)
	container.Account = NewAccountService(repos.AccountRepo)
	container.Department = NewDepartmentService(repos.DepartmentRepo)
	container.Contact = NewContactService(repos.ContactRepo)

	// The period resolver and tax line generator feed the posting engine, so
	// they come first. Keep the concrete types in hand for the extra
	// interfaces they satisfy.
	periodService := NewPeriodService(repos.PeriodRepo)
	container.Period = periodService

	taxCodeService := NewTaxCodeService(repos.TaxCodeRepo)
	container.TaxCode = taxCodeService

	container.Transaction = NewTransactionService(repos.TransactionRepo, repos.PostingRepo)
	container.Posting = NewPostingService(
		repos.TransactionRepo,
		repos.PostingRepo,
		repos.AccountRepo,
		periodService,
		taxCodeService,
	)

	// Document issuance posts through the same period gate.
	container.Invoice = NewInvoiceService(
		repos.InvoiceRepo,
		repos.ContactRepo,
		repos.AccountRepo,
		repos.TaxCodeRepo,
		periodService,
	)
	container.Bill = NewBillService(
		repos.BillRepo,
		repos.ContactRepo,
		repos.AccountRepo,
		repos.TaxCodeRepo,
		periodService,
	)

	container.Allocation = NewAllocationService(
		repos.AllocationRepo,
		repos.TransactionRepo,
		repos.LedgerRepo,
		repos.AccountRepo,
		repos.InvoiceRepo,
		repos.BillRepo,
	)
	container.Reconciliation = NewReconciliationService(
		repos.BankFeedRepo,
		repos.LedgerRepo,
		repos.AccountRepo,
	)

	// Recurring materialization posts through the posting engine.
	container.Recurring = NewRecurringService(
		repos.RecurringRepo,
		repos.TransactionRepo,
		container.Posting,
		repos.AuditRepo,
	)

	container.Audit = NewAuditService(repos.AuditRepo)
	container.Reporting = NewReportingService(
		repos.ReportingRepo,
		repos.PeriodRepo,
		repos.AccountRepo,
		repos.LedgerRepo,
	)

	return container
}
