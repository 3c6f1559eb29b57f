package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/vitabuhq/vitabu-backend/internal/core/ports/services"
	"github.com/vitabuhq/vitabu-backend/internal/dto"
	"github.com/vitabuhq/vitabu-backend/internal/middleware"
)

// mpesaHandler receives Daraja gateway callbacks. These endpoints are public
// (the gateway cannot send bearer tokens) and rate limited at the router.
type mpesaHandler struct {
	callbackService portssvc.CallbackSvcFacade
}

func newMpesaHandler(cs portssvc.CallbackSvcFacade) *mpesaHandler {
	return &mpesaHandler{callbackService: cs}
}

// stkCallback godoc
// @Summary M-Pesa STK push result callback
// @Description Reconciles the gateway result against the pending payment and acknowledges. Duplicate deliveries get the identical acknowledgement.
// @Tags mpesa
// @Accept  json
// @Produce  json
// @Success 200 {object} dto.CallbackAck
// @Failure 400 {object} dto.CallbackAck "Malformed payload"
// @Router /callbacks/mpesa/stk [post]
func (h *mpesaHandler) stkCallback(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	rawPayload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		logger.Error("Failed to read STK callback body", "error", err)
		c.JSON(http.StatusBadRequest, dto.CallbackAck{ResultCode: 1, ResultDesc: "Unreadable payload"})
		return
	}

	var envelope dto.StkCallbackEnvelope
	if err := json.Unmarshal(rawPayload, &envelope); err != nil {
		logger.Warn("Malformed STK callback payload", "error", err)
		c.JSON(http.StatusBadRequest, dto.CallbackAck{ResultCode: 1, ResultDesc: "Malformed payload"})
		return
	}

	outcome, err := h.callbackService.HandleStkCallback(c.Request.Context(), envelope, rawPayload)
	if err != nil {
		// A non-2xx response makes the gateway redeliver; processing is
		// idempotent so the retry is safe.
		logger.Error("Failed to process STK callback", "error", err,
			"checkout_request_id", envelope.Body.StkCallback.CheckoutRequestID)
		c.JSON(http.StatusInternalServerError, dto.CallbackAck{ResultCode: 1, ResultDesc: "Processing failed"})
		return
	}

	logger.Info("STK callback processed",
		"checkout_request_id", envelope.Body.StkCallback.CheckoutRequestID,
		"payment_id", outcome.PaymentID,
		"matched", outcome.Matched,
		"already_processed", outcome.AlreadyProcessed,
		"needs_review", outcome.NeedsReview)
	c.JSON(http.StatusOK, outcome.Ack)
}

// c2bConfirmation godoc
// @Summary M-Pesa C2B confirmation callback
// @Description Records the confirmation for audit; payloads already settled by the STK path are skipped
// @Tags mpesa
// @Accept  json
// @Produce  json
// @Success 200 {object} dto.CallbackAck
// @Failure 400 {object} dto.CallbackAck "Malformed payload"
// @Router /callbacks/mpesa/c2b/confirmation [post]
func (h *mpesaHandler) c2bConfirmation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	rawPayload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		logger.Error("Failed to read C2B confirmation body", "error", err)
		c.JSON(http.StatusBadRequest, dto.CallbackAck{ResultCode: 1, ResultDesc: "Unreadable payload"})
		return
	}

	var confirmation dto.C2BConfirmation
	if err := json.Unmarshal(rawPayload, &confirmation); err != nil {
		logger.Warn("Malformed C2B confirmation payload", "error", err)
		c.JSON(http.StatusBadRequest, dto.CallbackAck{ResultCode: 1, ResultDesc: "Malformed payload"})
		return
	}

	outcome, err := h.callbackService.HandleC2BConfirmation(c.Request.Context(), confirmation, rawPayload)
	if err != nil {
		logger.Error("Failed to record C2B confirmation", "error", err, "trans_id", confirmation.TransID)
		c.JSON(http.StatusInternalServerError, dto.CallbackAck{ResultCode: 1, ResultDesc: "Processing failed"})
		return
	}

	logger.Info("C2B confirmation processed", "trans_id", confirmation.TransID,
		"already_processed", outcome.AlreadyProcessed, "needs_review", outcome.NeedsReview)
	c.JSON(http.StatusOK, outcome.Ack)
}
