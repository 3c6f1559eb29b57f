package services

// ServiceContainer holds all service facades, wired once at startup and
// passed to the HTTP layer.
type ServiceContainer struct {
	Tenant        TenantSvcFacade
	Auth          AuthSvcFacade
	Account       AccountSvcFacade
	InvoiceNumber InvoiceNumberSvcFacade
	Invoice       InvoiceSvcFacade
	Payment       PaymentSvcFacade
	Callback      CallbackSvcFacade
	Ledger        LedgerSvcFacade
}
