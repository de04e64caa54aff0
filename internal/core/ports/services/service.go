package services

// ServiceContainer holds instances of all the application services.
// This is the main entry point for accessing service functionality and
// is used throughout the application, particularly in the handlers.
type ServiceContainer struct {
	Company        CompanySvcFacade
	Account        AccountSvcFacade
	Department     DepartmentSvcFacade
	Contact        ContactSvcFacade
	Period         PeriodSvcFacade
	TaxCode        TaxSvcFacade
	Transaction    TransactionSvcFacade
	Posting        PostingSvcFacade
	Invoice        InvoiceSvcFacade
	Bill           BillSvcFacade
	Allocation     AllocationSvcFacade
	Reconciliation ReconciliationSvcFacade
	Recurring      RecurringSvcFacade
	Audit          AuditSvcFacade
	Reporting      ReportingSvcFacade
}
