package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SourceType identifies the kind of business document a journal entry was
// derived from.
type SourceType string

const (
	SourceInvoice SourceType = "INVOICE"
	SourcePayment SourceType = "PAYMENT"
)

// SourceRef is a typed back-reference from a journal entry to the document
// that produced it. Lookup only, not ownership.
type SourceRef struct {
	Type SourceType `json:"type"`
	ID   string     `json:"id"`
}

// InvoiceSource builds a SourceRef pointing at an invoice.
func InvoiceSource(invoiceID string) SourceRef {
	return SourceRef{Type: SourceInvoice, ID: invoiceID}
}

// PaymentSource builds a SourceRef pointing at a payment.
func PaymentSource(paymentID string) SourceRef {
	return SourceRef{Type: SourcePayment, ID: paymentID}
}

// JournalEntry represents a single, balanced financial event composed of
// multiple journal lines. Entries are immutable once persisted; corrections
// require reversing entries, never edits.
type JournalEntry struct {
	EntryID      string          `json:"entryID"` // Primary Key (UUID)
	TenantID     string          `json:"tenantID"`
	EntryDate    time.Time       `json:"entryDate"`
	Reference    string          `json:"reference"` // Source document number (invoice/payment)
	Description  string          `json:"description"`
	TotalDebits  decimal.Decimal `json:"totalDebits"`
	TotalCredits decimal.Decimal `json:"totalCredits"`
	Source       SourceRef       `json:"source"`
	AuditFields
	Lines []JournalLine `json:"lines,omitempty"` // Often loaded separately
}

// JournalLine is a single debit or credit within a journal entry, affecting
// one account. Exactly one of Debit/Credit is nonzero. Lines are exclusively
// owned by their parent entry.
type JournalLine struct {
	LineID    string          `json:"lineID"` // Primary Key (UUID)
	EntryID   string          `json:"entryID"`
	AccountID string          `json:"accountID"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
	AuditFields
}

// IsDebit reports whether the line is a debit line.
func (l JournalLine) IsDebit() bool {
	return l.Debit.IsPositive()
}

// DebitLine builds a debit journal line for the given account and amount.
func DebitLine(accountID string, amount decimal.Decimal) JournalLine {
	return JournalLine{AccountID: accountID, Debit: amount, Credit: decimal.Zero}
}

// CreditLine builds a credit journal line for the given account and amount.
func CreditLine(accountID string, amount decimal.Decimal) JournalLine {
	return JournalLine{AccountID: accountID, Debit: decimal.Zero, Credit: amount}
}
