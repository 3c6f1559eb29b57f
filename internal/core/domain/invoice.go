package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus is the lifecycle state of an invoice. DRAFT -> SENT -> PAID;
// PAID is terminal and SENT never reverts to DRAFT.
type InvoiceStatus string

const (
	InvoiceDraft InvoiceStatus = "DRAFT"
	InvoiceSent  InvoiceStatus = "SENT"
	InvoicePaid  InvoiceStatus = "PAID"
)

// PaymentStatus is derived from the invoice's outstanding amount; it is never
// authoritative on its own.
type PaymentStatus string

const (
	PaymentUnpaid  PaymentStatus = "UNPAID"
	PaymentPartial PaymentStatus = "PARTIAL"
	PaymentPaid    PaymentStatus = "PAID"
)

// Invoice is the billing document aggregate. Subtotal, TaxAmount and Total
// are immutable once the invoice leaves DRAFT. The outstanding amount is
// always derived (Total minus the sum of allocations), never stored.
type Invoice struct {
	InvoiceID     string          `json:"invoiceID"` // Primary Key (UUID)
	TenantID      string          `json:"tenantID"`
	InvoiceNumber string          `json:"invoiceNumber"` // Assigned once at creation
	ContactID     string          `json:"contactID"`
	Status        InvoiceStatus   `json:"status"`
	PaymentStatus PaymentStatus   `json:"paymentStatus"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	TaxAmount     decimal.Decimal `json:"taxAmount"`
	Total         decimal.Decimal `json:"total"`
	DueDate       time.Time       `json:"dueDate"`
	AuditFields
	Lines []InvoiceLine `json:"lines,omitempty"` // Often loaded separately
}

// InvoiceLine is a single billable item on an invoice. LineTotal is net of
// tax; SalesAccountID designates the revenue account the line posts to.
type InvoiceLine struct {
	LineID         string          `json:"lineID"` // Primary Key (UUID)
	InvoiceID      string          `json:"invoiceID"`
	Description    string          `json:"description"`
	Quantity       decimal.Decimal `json:"quantity"`
	UnitPrice      decimal.Decimal `json:"unitPrice"`
	TaxRate        decimal.Decimal `json:"taxRate"` // Percentage, e.g. 16 for 16% VAT
	SalesAccountID string          `json:"salesAccountID"`
	LineTotal      decimal.Decimal `json:"lineTotal"`
}

// ComputeTotals recalculates line totals, subtotal, tax and total from the
// invoice lines. Only meaningful while the invoice is still a DRAFT.
func (inv *Invoice) ComputeTotals() {
	subtotal := decimal.Zero
	tax := decimal.Zero
	hundred := decimal.NewFromInt(100)
	for i := range inv.Lines {
		line := &inv.Lines[i]
		line.LineTotal = line.Quantity.Mul(line.UnitPrice)
		subtotal = subtotal.Add(line.LineTotal)
		if line.TaxRate.IsPositive() {
			tax = tax.Add(line.LineTotal.Mul(line.TaxRate).Div(hundred))
		}
	}
	inv.Subtotal = subtotal
	inv.TaxAmount = tax.Round(2)
	inv.Total = inv.Subtotal.Add(inv.TaxAmount)
}

// Outstanding returns the amount still owed given the sum of all allocations
// ever made against the invoice.
func (inv *Invoice) Outstanding(allocated decimal.Decimal) decimal.Decimal {
	return inv.Total.Sub(allocated)
}

// ApplyPaymentPolicy sets Status and PaymentStatus from the derived
// outstanding amount. Status only advances to PAID; a partial payment leaves
// the lifecycle status untouched.
func (inv *Invoice) ApplyPaymentPolicy(outstanding decimal.Decimal) {
	switch {
	case outstanding.LessThanOrEqual(decimal.Zero):
		inv.Status = InvoicePaid
		inv.PaymentStatus = PaymentPaid
	case outstanding.LessThan(inv.Total):
		inv.PaymentStatus = PaymentPartial
	default:
		inv.PaymentStatus = PaymentUnpaid
	}
}

// InvoiceNumbering carries the pieces needed to format an invoice number once
// the counter row has handed out a sequence value.
type InvoiceNumbering struct {
	Prefix string
	Year   int
}

// Format renders the document number, e.g. INV-2026-0042.
func (n InvoiceNumbering) Format(sequence int64) string {
	prefix := n.Prefix
	if prefix == "" {
		prefix = "INV"
	}
	return fmt.Sprintf("%s-%d-%04d", prefix, n.Year, sequence)
}
