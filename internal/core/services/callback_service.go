package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vitabuhq/vitabu-backend/internal/apperrors"
	"github.com/vitabuhq/vitabu-backend/internal/core/domain"
	portsrepo "github.com/vitabuhq/vitabu-backend/internal/core/ports/repositories"
	portssvc "github.com/vitabuhq/vitabu-backend/internal/core/ports/services"
	"github.com/vitabuhq/vitabu-backend/internal/dto"
	"github.com/vitabuhq/vitabu-backend/internal/middleware"
)

// systemUserID stamps audit fields on rows written by gateway callbacks,
// which carry no authenticated operator.
const systemUserID = "system"

// callbackService reconciles M-Pesa callbacks against pending payments. The
// idempotency anchor is the payment row's PENDING to COMPLETED transition,
// not the callback audit trail.
type callbackService struct {
	paymentSvc     portssvc.PaymentSvcFacade
	paymentRepo    portsrepo.PaymentRepositoryFacade
	callbackRepo   portsrepo.CallbackRepositoryFacade
	fallbackWindow time.Duration
}

// NewCallbackService creates a new callback service. fallbackWindow bounds
// how far back the phone-and-amount fallback search may look.
func NewCallbackService(
	paymentSvc portssvc.PaymentSvcFacade,
	paymentRepo portsrepo.PaymentRepositoryFacade,
	callbackRepo portsrepo.CallbackRepositoryFacade,
	fallbackWindow time.Duration,
) portssvc.CallbackSvcFacade {
	if fallbackWindow <= 0 {
		fallbackWindow = 2 * time.Hour
	}
	return &callbackService{
		paymentSvc:     paymentSvc,
		paymentRepo:    paymentRepo,
		callbackRepo:   callbackRepo,
		fallbackWindow: fallbackWindow,
	}
}

var _ portssvc.CallbackSvcFacade = (*callbackService)(nil)

func (s *callbackService) HandleStkCallback(ctx context.Context, envelope dto.StkCallbackEnvelope, rawPayload []byte) (dto.CallbackOutcome, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	cb := envelope.Body.StkCallback

	record := domain.PaymentCallbackRecord{
		CallbackID:        uuid.NewString(),
		CheckoutRequestID: cb.CheckoutRequestID,
		Kind:              domain.CallbackSTK,
		ResultCode:        cb.ResultCode,
		RawPayload:        rawPayload,
		ReceivedAt:        time.Now(),
	}

	payment, needsReview, err := s.resolvePayment(ctx, cb)
	if err != nil {
		return dto.CallbackOutcome{}, err
	}
	if payment == nil {
		// No pending payment matches. Record for manual review and ack so
		// the gateway stops redelivering a payload we can never match.
		record.NeedsReview = true
		if err := s.callbackRepo.SaveCallback(ctx, record); err != nil {
			return dto.CallbackOutcome{}, fmt.Errorf("failed to record callback: %w", err)
		}
		logger.Warn("STK callback could not be matched", "checkoutRequestID", cb.CheckoutRequestID)
		return dto.CallbackOutcome{Ack: dto.AckAccepted(), NeedsReview: true}, nil
	}

	record.Matched = true
	record.NeedsReview = needsReview
	outcome := dto.CallbackOutcome{
		Ack:         dto.AckAccepted(),
		PaymentID:   payment.PaymentID,
		Matched:     true,
		NeedsReview: needsReview,
	}

	if payment.TransactionStatus != domain.TxnPending {
		// The first delivery already settled this payment. Same ack, no-op.
		outcome.AlreadyProcessed = true
		if err := s.callbackRepo.SaveCallback(ctx, record); err != nil {
			return dto.CallbackOutcome{}, fmt.Errorf("failed to record callback: %w", err)
		}
		logger.Info("Duplicate STK callback ignored", "checkoutRequestID", cb.CheckoutRequestID, "paymentID", payment.PaymentID)
		return outcome, nil
	}

	if cb.Succeeded() {
		meta, err := cb.Metadata()
		if err != nil {
			record.NeedsReview = true
			if saveErr := s.callbackRepo.SaveCallback(ctx, record); saveErr != nil {
				return dto.CallbackOutcome{}, fmt.Errorf("failed to record callback: %w", saveErr)
			}
			return dto.CallbackOutcome{}, fmt.Errorf("malformed success callback: %w", err)
		}

		result, err := s.paymentSvc.CompletePayment(ctx, *payment, meta.MpesaReceipt, nil, systemUserID)
		if err != nil {
			if errors.Is(err, apperrors.ErrDuplicate) {
				// A concurrent delivery won the compare-and-set.
				outcome.AlreadyProcessed = true
				if saveErr := s.callbackRepo.SaveCallback(ctx, record); saveErr != nil {
					return dto.CallbackOutcome{}, fmt.Errorf("failed to record callback: %w", saveErr)
				}
				return outcome, nil
			}
			return dto.CallbackOutcome{}, err
		}
		outcome.EntryID = result.Entry.EntryID
		logger.Info("STK payment completed",
			"paymentID", payment.PaymentID,
			"receipt", meta.MpesaReceipt,
			"entryID", result.Entry.EntryID,
		)
	} else {
		if err := s.paymentSvc.FailPayment(ctx, payment.PaymentID, cb.ResultDesc, systemUserID); err != nil {
			if errors.Is(err, apperrors.ErrDuplicate) {
				outcome.AlreadyProcessed = true
			} else {
				return dto.CallbackOutcome{}, err
			}
		}
		logger.Info("STK payment failed at gateway", "paymentID", payment.PaymentID, "resultDesc", cb.ResultDesc)
	}

	if err := s.callbackRepo.SaveCallback(ctx, record); err != nil {
		return dto.CallbackOutcome{}, fmt.Errorf("failed to record callback: %w", err)
	}
	return outcome, nil
}

// resolvePayment finds the pending payment a callback belongs to. Primary
// key is the checkout request id; the fallback searches recent PENDING
// payments by phone and amount and only accepts an unambiguous single match,
// which is flagged for review.
func (s *callbackService) resolvePayment(ctx context.Context, cb dto.StkCallback) (*domain.Payment, bool, error) {
	payment, err := s.paymentRepo.FindPaymentByCheckoutRequestID(ctx, cb.CheckoutRequestID)
	if err == nil {
		return payment, false, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, false, err
	}

	if !cb.Succeeded() {
		return nil, false, nil
	}
	meta, err := cb.Metadata()
	if err != nil || meta.PhoneNumber == "" {
		return nil, false, nil
	}

	since := time.Now().Add(-s.fallbackWindow)
	candidates, err := s.paymentRepo.FindPendingByPhoneAmount(ctx, meta.PhoneNumber, meta.Amount, since)
	if err != nil {
		return nil, false, err
	}
	if len(candidates) != 1 {
		return nil, false, nil
	}
	return &candidates[0], true, nil
}

func (s *callbackService) HandleC2BConfirmation(ctx context.Context, confirmation dto.C2BConfirmation, rawPayload []byte) (dto.CallbackOutcome, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	record := domain.PaymentCallbackRecord{
		CallbackID:        uuid.NewString(),
		CheckoutRequestID: confirmation.CheckoutRequestID,
		Kind:              domain.CallbackC2B,
		RawPayload:        rawPayload,
		ReceivedAt:        time.Now(),
	}

	if confirmation.CheckoutRequestID != "" {
		processed, err := s.callbackRepo.HasProcessedSTK(ctx, confirmation.CheckoutRequestID)
		if err != nil {
			return dto.CallbackOutcome{}, err
		}
		if processed {
			record.Matched = true
			if err := s.callbackRepo.SaveCallback(ctx, record); err != nil {
				return dto.CallbackOutcome{}, fmt.Errorf("failed to record callback: %w", err)
			}
			logger.Info("C2B confirmation already handled by STK path", "checkoutRequestID", confirmation.CheckoutRequestID)
			return dto.CallbackOutcome{Ack: dto.AckAccepted(), AlreadyProcessed: true, Matched: true}, nil
		}
	}

	// C2B payments arrive without an initiation on our side; they always go
	// to the manual reconciliation queue.
	record.NeedsReview = true
	if err := s.callbackRepo.SaveCallback(ctx, record); err != nil {
		return dto.CallbackOutcome{}, fmt.Errorf("failed to record callback: %w", err)
	}
	logger.Info("C2B confirmation recorded for review", "transID", confirmation.TransID, "amount", confirmation.TransAmount.String())
	return dto.CallbackOutcome{Ack: dto.AckAccepted(), NeedsReview: true}, nil
}
