package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus mirrors domain.InvoiceStatus at the persistence layer.
type InvoiceStatus string

// PaymentStatus mirrors domain.PaymentStatus at the persistence layer.
type PaymentStatus string

// Invoice is the DB shape of an invoice row.
type Invoice struct {
	InvoiceID     string          `db:"invoice_id"`
	TenantID      string          `db:"tenant_id"`
	InvoiceNumber string          `db:"invoice_number"`
	ContactID     string          `db:"contact_id"`
	Status        InvoiceStatus   `db:"status"`
	PaymentStatus PaymentStatus   `db:"payment_status"`
	Subtotal      decimal.Decimal `db:"subtotal"`
	TaxAmount     decimal.Decimal `db:"tax_amount"`
	Total         decimal.Decimal `db:"total"`
	DueDate       time.Time       `db:"due_date"`
	AuditFields
}

// InvoiceLine is the DB shape of a single invoice line row.
type InvoiceLine struct {
	LineID         string          `db:"line_id"`
	InvoiceID      string          `db:"invoice_id"`
	Description    string          `db:"description"`
	Quantity       decimal.Decimal `db:"quantity"`
	UnitPrice      decimal.Decimal `db:"unit_price"`
	TaxRate        decimal.Decimal `db:"tax_rate"`
	SalesAccountID string          `db:"sales_account_id"`
	LineTotal      decimal.Decimal `db:"line_total"`
}
