package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod mirrors domain.PaymentMethod at the persistence layer.
type PaymentMethod string

// TransactionStatus mirrors domain.TransactionStatus at the persistence layer.
type TransactionStatus string

// Payment is the DB shape of a payment row.
type Payment struct {
	PaymentID         string            `db:"payment_id"`
	TenantID          string            `db:"tenant_id"`
	Amount            decimal.Decimal   `db:"amount"`
	Method            PaymentMethod     `db:"payment_method"`
	TransactionStatus TransactionStatus `db:"transaction_status"`
	CheckoutRequestID *string           `db:"checkout_request_id"`
	MpesaReceipt      string            `db:"mpesa_receipt"`
	PhoneNumber       string            `db:"phone_number"`
	AccountID         string            `db:"account_id"`
	InvoiceID         *string           `db:"invoice_id"`
	PaymentDate       time.Time         `db:"payment_date"`
	AuditFields
}

// PaymentAllocation is the DB shape of an allocation row.
type PaymentAllocation struct {
	AllocationID string          `db:"allocation_id"`
	PaymentID    string          `db:"payment_id"`
	InvoiceID    string          `db:"invoice_id"`
	Amount       decimal.Decimal `db:"amount"`
	AuditFields
}

// PaymentCallbackRecord is the DB shape of a gateway callback audit row.
type PaymentCallbackRecord struct {
	CallbackID        string    `db:"callback_id"`
	CheckoutRequestID string    `db:"checkout_request_id"`
	Kind              string    `db:"kind"`
	ResultCode        int       `db:"result_code"`
	RawPayload        []byte    `db:"raw_payload"`
	Matched           bool      `db:"matched"`
	NeedsReview       bool      `db:"needs_review"`
	ReceivedAt        time.Time `db:"received_at"`
}
