package domain

import "time"

// CallbackKind distinguishes the two M-Pesa delivery paths.
type CallbackKind string

const (
	CallbackSTK CallbackKind = "STK"
	CallbackC2B CallbackKind = "C2B"
)

// PaymentCallbackRecord is the audit trail of every gateway callback the
// system has seen. It backs the C2B double-delivery guard and the manual
// review queue for callbacks that could not be reconciled to a pending
// payment. It is never the primary idempotency mechanism; that lives on the
// payment row itself.
type PaymentCallbackRecord struct {
	CallbackID        string       `json:"callbackID"` // Primary Key (UUID)
	CheckoutRequestID string       `json:"checkoutRequestID"`
	Kind              CallbackKind `json:"kind"`
	ResultCode        int          `json:"resultCode"`
	RawPayload        []byte       `json:"-"` // Stored verbatim for reconciliation
	Matched           bool         `json:"matched"`
	NeedsReview       bool         `json:"needsReview"`
	ReceivedAt        time.Time    `json:"receivedAt"`
}
