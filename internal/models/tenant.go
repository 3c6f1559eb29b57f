package models

// Tenant is the DB shape of a tenant row.
type Tenant struct {
	TenantID      string `db:"tenant_id"`
	Name          string `db:"name"`
	InvoicePrefix string `db:"invoice_prefix"`
	CurrencyCode  string `db:"currency_code"`
	IsActive      bool   `db:"is_active"`
	AuditFields
}
