package services

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/vitabuhq/vitabu-backend/internal/core/domain"
	"github.com/vitabuhq/vitabu-backend/internal/dto"
)

// PaymentResult is returned from payment processing: the payment in its
// final state, the allocations created and the journal entry posted.
type PaymentResult struct {
	Payment     domain.Payment
	Allocations []domain.PaymentAllocation
	Entry       domain.JournalEntry
}

// PaymentSvcFacade exposes payment recording, allocation and posting.
type PaymentSvcFacade interface {
	// CreatePayment records a manually entered payment as COMPLETED and
	// posts it immediately: allocations, invoice status updates and the
	// journal entry all commit in one transaction.
	CreatePayment(ctx context.Context, tenantID string, req dto.CreatePaymentRequest, creatorUserID string) (*PaymentResult, error)

	// InitiateStkPayment creates a PENDING payment keyed by the gateway's
	// correlation id and asks the gateway to prompt the payer's phone.
	InitiateStkPayment(ctx context.Context, tenantID string, req dto.StkPushRequest, creatorUserID string) (*domain.Payment, error)

	// CompletePayment compare-and-sets a PENDING payment to COMPLETED,
	// records the gateway receipt, then allocates and posts in the same
	// transaction. A payment that already left PENDING returns
	// apperrors.ErrDuplicate with nothing persisted.
	CompletePayment(ctx context.Context, payment domain.Payment, receipt string, allocations []domain.AllocationRequest, userID string) (*PaymentResult, error)

	// FailPayment compare-and-sets a PENDING payment to FAILED. No journal
	// entry is posted and no invoice state changes.
	FailPayment(ctx context.Context, paymentID, resultDesc, userID string) error

	// GetPayment retrieves a payment with its allocations.
	GetPayment(ctx context.Context, tenantID, paymentID string) (*domain.Payment, []domain.PaymentAllocation, error)
}

// StkPushParams is the outbound request to the M-Pesa gateway.
type StkPushParams struct {
	PhoneNumber string
	Amount      decimal.Decimal
	Reference   string
	Description string
}

// MpesaGateway is the external payment gateway collaborator. Token fetch,
// request shapes and HTTP retries live behind this boundary; the ledger only
// cares about the correlation id the gateway issues.
type MpesaGateway interface {
	// InitiateStkPush prompts the payer's phone and returns the gateway's
	// CheckoutRequestID for callback correlation.
	InitiateStkPush(ctx context.Context, params StkPushParams) (checkoutRequestID string, err error)
}
