package repositories

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vitabuhq/vitabu-backend/internal/core/domain"
)

// PaymentEntryBuilder builds the journal entry for a payment once the final
// allocated and unallocated amounts are known inside the transaction. The
// returned entry must carry its lines.
type PaymentEntryBuilder func(allocated, unallocated decimal.Decimal) (domain.JournalEntry, error)

// PaymentApplication is the result of applying a payment: the allocation rows
// created, the journal entry posted and the invoices whose status changed.
type PaymentApplication struct {
	Payment     domain.Payment
	Allocations []domain.PaymentAllocation
	Entry       domain.JournalEntry
	Invoices    []domain.Invoice
}

// PaymentReader defines read operations for payment data.
type PaymentReader interface {
	// FindPaymentByID retrieves a payment scoped to a tenant.
	FindPaymentByID(ctx context.Context, tenantID, paymentID string) (*domain.Payment, error)

	// FindPaymentByCheckoutRequestID retrieves a payment by its gateway
	// correlation id. Callbacks carry no tenant context, so this lookup is
	// keyed on the globally unique correlation id alone.
	FindPaymentByCheckoutRequestID(ctx context.Context, checkoutRequestID string) (*domain.Payment, error)

	// FindPendingByPhoneAmount is the bounded fallback search for callbacks
	// that raced the pending row's commit: PENDING M-Pesa payments with the
	// same phone number and amount created after the cutoff. Returns all
	// candidates so the caller can refuse ambiguous matches.
	FindPendingByPhoneAmount(ctx context.Context, phone string, amount decimal.Decimal, since time.Time) ([]domain.Payment, error)

	// FindAllocationsByPaymentID retrieves the allocation rows of a payment.
	FindAllocationsByPaymentID(ctx context.Context, paymentID string) ([]domain.PaymentAllocation, error)
}

// PaymentWriter defines write operations for payment data.
type PaymentWriter interface {
	// SavePendingPayment inserts a PENDING payment row keyed by the gateway
	// correlation id, created at STK push initiation time.
	SavePendingPayment(ctx context.Context, payment domain.Payment) error

	// ApplyPayment executes the whole allocate-and-post step in one
	// transaction: locks the target invoice rows, clamps each requested
	// amount to the invoice's outstanding balance, inserts allocation rows,
	// applies the invoice status policy, persists the journal entry built by
	// buildEntry, and transitions the payment row. When isNew is true the
	// payment is inserted as COMPLETED; otherwise the existing row is
	// compare-and-set from PENDING to COMPLETED and apperrors.ErrDuplicate is
	// returned (with nothing persisted) if another caller got there first.
	ApplyPayment(ctx context.Context, payment domain.Payment, isNew bool, requests []domain.AllocationRequest, buildEntry PaymentEntryBuilder) (*PaymentApplication, error)

	// MarkPaymentFailed compare-and-sets a PENDING payment to FAILED.
	// Returns apperrors.ErrDuplicate if the payment already left PENDING.
	MarkPaymentFailed(ctx context.Context, paymentID, resultDesc, updatedBy string) error
}

// PaymentRepositoryFacade combines all payment repository interfaces.
type PaymentRepositoryFacade interface {
	PaymentReader
	PaymentWriter
}

// CallbackRepositoryFacade stores the gateway callback audit trail.
type CallbackRepositoryFacade interface {
	// SaveCallback records a received callback payload.
	SaveCallback(ctx context.Context, record domain.PaymentCallbackRecord) error

	// HasProcessedSTK reports whether an STK callback with this correlation
	// id has already been recorded as matched. Used by the C2B audit path to
	// skip payloads the synchronous path already handled.
	HasProcessedSTK(ctx context.Context, checkoutRequestID string) (bool, error)
}
