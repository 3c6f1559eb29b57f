package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod identifies how a payment was received.
type PaymentMethod string

const (
	MethodCash  PaymentMethod = "CASH"
	MethodBank  PaymentMethod = "BANK"
	MethodMpesa PaymentMethod = "MPESA"
)

// TransactionStatus is the gateway-facing state of a payment. A payment
// transitions to COMPLETED exactly once, keyed by the external correlation id.
type TransactionStatus string

const (
	TxnPending   TransactionStatus = "PENDING"
	TxnCompleted TransactionStatus = "COMPLETED"
	TxnFailed    TransactionStatus = "FAILED"
)

// Payment represents money received from a contact. AccountID is the
// cash/bank/mpesa ledger account the payment debits. CheckoutRequestID is the
// M-Pesa STK correlation id used to deduplicate callback delivery.
type Payment struct {
	PaymentID         string            `json:"paymentID"` // Primary Key (UUID)
	TenantID          string            `json:"tenantID"`
	Amount            decimal.Decimal   `json:"amount"`
	Method            PaymentMethod     `json:"method"`
	TransactionStatus TransactionStatus `json:"transactionStatus"`
	CheckoutRequestID *string           `json:"checkoutRequestID,omitempty"`
	MpesaReceipt      string            `json:"mpesaReceipt,omitempty"`
	PhoneNumber       string            `json:"phoneNumber,omitempty"`
	AccountID         string            `json:"accountID"`
	InvoiceID         *string           `json:"invoiceID,omitempty"` // Optional link for auto-allocation
	PaymentDate       time.Time         `json:"paymentDate"`
	AuditFields
}

// PaymentAllocation applies part of a payment against one invoice. The
// amount never exceeds the invoice's outstanding balance at allocation time,
// and the sum of a payment's allocations never exceeds the payment amount.
type PaymentAllocation struct {
	AllocationID string          `json:"allocationID"` // Primary Key (UUID)
	PaymentID    string          `json:"paymentID"`
	InvoiceID    string          `json:"invoiceID"`
	Amount       decimal.Decimal `json:"amount"`
	AuditFields
}

// AllocationRequest is a caller-supplied instruction to apply an amount
// against an invoice. Amounts are clamped to the invoice's outstanding
// balance before any allocation row is created.
type AllocationRequest struct {
	InvoiceID string
	Amount    decimal.Decimal
}

// ClampAllocation caps a requested allocation amount at both the invoice's
// remaining outstanding balance and the payment's remaining unallocated
// amount. A non-positive result means nothing should be allocated.
func ClampAllocation(requested, outstanding, paymentRemaining decimal.Decimal) decimal.Decimal {
	amount := requested
	if amount.GreaterThan(outstanding) {
		amount = outstanding
	}
	if amount.GreaterThan(paymentRemaining) {
		amount = paymentRemaining
	}
	if amount.IsNegative() {
		return decimal.Zero
	}
	return amount
}
