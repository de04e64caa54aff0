package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	CompanyRepo     CompanyRepositoryFacade
	AccountRepo     AccountRepositoryFacade
	DepartmentRepo  DepartmentRepositoryFacade
	ContactRepo     ContactRepositoryFacade
	PeriodRepo      PeriodRepositoryFacade
	TaxCodeRepo     TaxCodeRepositoryFacade
	TransactionRepo TransactionRepositoryFacade
	PostingRepo     PostingRepositoryFacade
	LedgerRepo      LedgerRepositoryFacade
	InvoiceRepo     InvoiceRepositoryFacade
	BillRepo        BillRepositoryFacade
	AllocationRepo  AllocationRepositoryFacade
	BankFeedRepo    BankFeedRepositoryFacade
	RecurringRepo   RecurringRepositoryFacade
	AuditRepo       AuditRepositoryFacade
	ReportingRepo   ReportingRepository
}
