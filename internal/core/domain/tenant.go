package domain

// Tenant owns an independent set of chart-of-accounts, invoices, payments,
// journal entries and counters. Every ledger operation takes the tenant id as
// an explicit parameter; there is no ambient tenant context.
type Tenant struct {
	TenantID      string `json:"tenantID"` // Primary Key (UUID)
	Name          string `json:"name"`
	InvoicePrefix string `json:"invoicePrefix"` // Defaults to "INV"
	CurrencyCode  string `json:"currencyCode"`  // e.g. "KES"
	IsActive      bool   `json:"isActive"`
	AuditFields
}
