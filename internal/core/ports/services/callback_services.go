package services

import (
	"context"

	"github.com/vitabuhq/vitabu-backend/internal/dto"
)

// CallbackSvcFacade ingests external payment-gateway callbacks idempotently.
type CallbackSvcFacade interface {
	// HandleStkCallback reconciles an STK push result against its pending
	// payment and, on success, posts the payment synchronously before the
	// acknowledgement is returned. Duplicate deliveries are no-ops returning
	// the identical acknowledgement.
	HandleStkCallback(ctx context.Context, envelope dto.StkCallbackEnvelope, rawPayload []byte) (dto.CallbackOutcome, error)

	// HandleC2BConfirmation records a C2B confirmation for audit. Payloads
	// the STK path already processed are detected and skipped.
	HandleC2BConfirmation(ctx context.Context, confirmation dto.C2BConfirmation, rawPayload []byte) (dto.CallbackOutcome, error)
}
