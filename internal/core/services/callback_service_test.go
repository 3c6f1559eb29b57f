package services_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/vitabuhq/vitabu-backend/internal/apperrors"
	"github.com/vitabuhq/vitabu-backend/internal/core/domain"
	portssvc "github.com/vitabuhq/vitabu-backend/internal/core/ports/services"
	"github.com/vitabuhq/vitabu-backend/internal/core/services"
	"github.com/vitabuhq/vitabu-backend/internal/dto"
)

type CallbackServiceTestSuite struct {
	suite.Suite
	mockPaymentSvc   *MockPaymentService
	mockPaymentRepo  *MockPaymentRepository
	mockCallbackRepo *MockCallbackRepository
	service          portssvc.CallbackSvcFacade
}

func (suite *CallbackServiceTestSuite) SetupTest() {
	suite.mockPaymentSvc = new(MockPaymentService)
	suite.mockPaymentRepo = new(MockPaymentRepository)
	suite.mockCallbackRepo = new(MockCallbackRepository)
	suite.service = services.NewCallbackService(
		suite.mockPaymentSvc,
		suite.mockPaymentRepo,
		suite.mockCallbackRepo,
		2*time.Hour,
	)
}

// successEnvelope builds a gateway success payload the way Daraja delivers it.
func successEnvelope(checkoutRequestID, receipt, phone string, amount float64) (dto.StkCallbackEnvelope, []byte) {
	raw := []byte(`{
		"Body": {
			"stkCallback": {
				"MerchantRequestID": "29115-34620561-1",
				"CheckoutRequestID": "` + checkoutRequestID + `",
				"ResultCode": 0,
				"ResultDesc": "The service request is processed successfully.",
				"CallbackMetadata": {
					"Item": [
						{"Name": "Amount", "Value": ` + decimal.NewFromFloat(amount).String() + `},
						{"Name": "MpesaReceiptNumber", "Value": "` + receipt + `"},
						{"Name": "TransactionDate", "Value": 20260301143045},
						{"Name": "PhoneNumber", "Value": ` + phone + `}
					]
				}
			}
		}
	}`)
	var envelope dto.StkCallbackEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		panic(err)
	}
	return envelope, raw
}

func failureEnvelope(checkoutRequestID string) (dto.StkCallbackEnvelope, []byte) {
	raw := []byte(`{
		"Body": {
			"stkCallback": {
				"MerchantRequestID": "29115-34620561-1",
				"CheckoutRequestID": "` + checkoutRequestID + `",
				"ResultCode": 1032,
				"ResultDesc": "Request cancelled by user"
			}
		}
	}`)
	var envelope dto.StkCallbackEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		panic(err)
	}
	return envelope, raw
}

func (suite *CallbackServiceTestSuite) pendingPayment(checkoutRequestID string) *domain.Payment {
	return &domain.Payment{
		PaymentID:         uuid.NewString(),
		TenantID:          uuid.NewString(),
		Amount:            decimal.NewFromInt(500),
		Method:            domain.MethodMpesa,
		TransactionStatus: domain.TxnPending,
		CheckoutRequestID: &checkoutRequestID,
		PhoneNumber:       "254712345678",
	}
}

func (suite *CallbackServiceTestSuite) TestHandleStkCallback_SuccessCompletesPayment() {
	checkoutRequestID := "ws_CO_123456"
	envelope, raw := successEnvelope(checkoutRequestID, "TGH7SK61SV", "254712345678", 500)
	payment := suite.pendingPayment(checkoutRequestID)
	entryID := uuid.NewString()

	suite.mockPaymentRepo.On("FindPaymentByCheckoutRequestID", mock.Anything, checkoutRequestID).
		Return(payment, nil)
	suite.mockPaymentSvc.On("CompletePayment", mock.Anything, *payment, "TGH7SK61SV", mock.Anything, "system").
		Return(&portssvc.PaymentResult{
			Payment: *payment,
			Entry:   domain.JournalEntry{EntryID: entryID},
		}, nil)
	suite.mockCallbackRepo.On("SaveCallback", mock.Anything, mock.MatchedBy(func(r domain.PaymentCallbackRecord) bool {
		return r.Matched && !r.NeedsReview && r.Kind == domain.CallbackSTK
	})).Return(nil)

	outcome, err := suite.service.HandleStkCallback(context.Background(), envelope, raw)

	suite.NoError(err)
	suite.Equal(dto.AckAccepted(), outcome.Ack)
	suite.True(outcome.Matched)
	suite.False(outcome.AlreadyProcessed)
	suite.Equal(payment.PaymentID, outcome.PaymentID)
	suite.Equal(entryID, outcome.EntryID)
}

func (suite *CallbackServiceTestSuite) TestHandleStkCallback_DuplicateDeliveryIsNoOp() {
	checkoutRequestID := "ws_CO_123456"
	envelope, raw := successEnvelope(checkoutRequestID, "TGH7SK61SV", "254712345678", 500)
	payment := suite.pendingPayment(checkoutRequestID)
	payment.TransactionStatus = domain.TxnCompleted

	suite.mockPaymentRepo.On("FindPaymentByCheckoutRequestID", mock.Anything, checkoutRequestID).
		Return(payment, nil)
	suite.mockCallbackRepo.On("SaveCallback", mock.Anything, mock.Anything).Return(nil)

	outcome, err := suite.service.HandleStkCallback(context.Background(), envelope, raw)

	suite.NoError(err)
	suite.Equal(dto.AckAccepted(), outcome.Ack)
	suite.True(outcome.AlreadyProcessed)
	suite.mockPaymentSvc.AssertNotCalled(suite.T(), "CompletePayment", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *CallbackServiceTestSuite) TestHandleStkCallback_ConcurrentCompletionLosesRace() {
	checkoutRequestID := "ws_CO_123456"
	envelope, raw := successEnvelope(checkoutRequestID, "TGH7SK61SV", "254712345678", 500)
	payment := suite.pendingPayment(checkoutRequestID)

	suite.mockPaymentRepo.On("FindPaymentByCheckoutRequestID", mock.Anything, checkoutRequestID).
		Return(payment, nil)
	suite.mockPaymentSvc.On("CompletePayment", mock.Anything, *payment, "TGH7SK61SV", mock.Anything, "system").
		Return(nil, apperrors.ErrDuplicate)
	suite.mockCallbackRepo.On("SaveCallback", mock.Anything, mock.Anything).Return(nil)

	outcome, err := suite.service.HandleStkCallback(context.Background(), envelope, raw)

	suite.NoError(err)
	suite.Equal(dto.AckAccepted(), outcome.Ack)
	suite.True(outcome.AlreadyProcessed)
}

func (suite *CallbackServiceTestSuite) TestHandleStkCallback_FailureMarksPaymentFailed() {
	checkoutRequestID := "ws_CO_123456"
	envelope, raw := failureEnvelope(checkoutRequestID)
	payment := suite.pendingPayment(checkoutRequestID)

	suite.mockPaymentRepo.On("FindPaymentByCheckoutRequestID", mock.Anything, checkoutRequestID).
		Return(payment, nil)
	suite.mockPaymentSvc.On("FailPayment", mock.Anything, payment.PaymentID, "Request cancelled by user", "system").
		Return(nil)
	suite.mockCallbackRepo.On("SaveCallback", mock.Anything, mock.Anything).Return(nil)

	outcome, err := suite.service.HandleStkCallback(context.Background(), envelope, raw)

	suite.NoError(err)
	suite.Equal(dto.AckAccepted(), outcome.Ack)
	suite.True(outcome.Matched)
	suite.mockPaymentSvc.AssertExpectations(suite.T())
}

func (suite *CallbackServiceTestSuite) TestHandleStkCallback_UnmatchedRecordsForReview() {
	checkoutRequestID := "ws_CO_unknown"
	envelope, raw := successEnvelope(checkoutRequestID, "TGH7SK61SV", "254712345678", 500)

	suite.mockPaymentRepo.On("FindPaymentByCheckoutRequestID", mock.Anything, checkoutRequestID).
		Return(nil, apperrors.ErrNotFound)
	suite.mockPaymentRepo.On("FindPendingByPhoneAmount", mock.Anything, "254712345678", mock.Anything, mock.Anything).
		Return([]domain.Payment{}, nil)
	suite.mockCallbackRepo.On("SaveCallback", mock.Anything, mock.MatchedBy(func(r domain.PaymentCallbackRecord) bool {
		return !r.Matched && r.NeedsReview
	})).Return(nil)

	outcome, err := suite.service.HandleStkCallback(context.Background(), envelope, raw)

	suite.NoError(err)
	suite.Equal(dto.AckAccepted(), outcome.Ack)
	suite.False(outcome.Matched)
	suite.True(outcome.NeedsReview)
	suite.mockPaymentSvc.AssertNotCalled(suite.T(), "CompletePayment", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *CallbackServiceTestSuite) TestHandleStkCallback_AmbiguousFallbackRefused() {
	checkoutRequestID := "ws_CO_unknown"
	envelope, raw := successEnvelope(checkoutRequestID, "TGH7SK61SV", "254712345678", 500)

	suite.mockPaymentRepo.On("FindPaymentByCheckoutRequestID", mock.Anything, checkoutRequestID).
		Return(nil, apperrors.ErrNotFound)
	suite.mockPaymentRepo.On("FindPendingByPhoneAmount", mock.Anything, "254712345678", mock.Anything, mock.Anything).
		Return([]domain.Payment{*suite.pendingPayment("a"), *suite.pendingPayment("b")}, nil)
	suite.mockCallbackRepo.On("SaveCallback", mock.Anything, mock.Anything).Return(nil)

	outcome, err := suite.service.HandleStkCallback(context.Background(), envelope, raw)

	suite.NoError(err)
	suite.True(outcome.NeedsReview)
	suite.False(outcome.Matched)
	suite.mockPaymentSvc.AssertNotCalled(suite.T(), "CompletePayment", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *CallbackServiceTestSuite) TestHandleStkCallback_SingleFallbackMatchFlaggedForReview() {
	checkoutRequestID := "ws_CO_unknown"
	envelope, raw := successEnvelope(checkoutRequestID, "TGH7SK61SV", "254712345678", 500)
	payment := suite.pendingPayment("ws_CO_other")

	suite.mockPaymentRepo.On("FindPaymentByCheckoutRequestID", mock.Anything, checkoutRequestID).
		Return(nil, apperrors.ErrNotFound)
	suite.mockPaymentRepo.On("FindPendingByPhoneAmount", mock.Anything, "254712345678", mock.Anything, mock.Anything).
		Return([]domain.Payment{*payment}, nil)
	suite.mockPaymentSvc.On("CompletePayment", mock.Anything, *payment, "TGH7SK61SV", mock.Anything, "system").
		Return(&portssvc.PaymentResult{Payment: *payment, Entry: domain.JournalEntry{EntryID: uuid.NewString()}}, nil)
	suite.mockCallbackRepo.On("SaveCallback", mock.Anything, mock.MatchedBy(func(r domain.PaymentCallbackRecord) bool {
		return r.Matched && r.NeedsReview
	})).Return(nil)

	outcome, err := suite.service.HandleStkCallback(context.Background(), envelope, raw)

	suite.NoError(err)
	suite.True(outcome.Matched)
	suite.True(outcome.NeedsReview)
	suite.Equal(payment.PaymentID, outcome.PaymentID)
}

func (suite *CallbackServiceTestSuite) TestHandleC2BConfirmation_SkipsAlreadyProcessedSTK() {
	confirmation := dto.C2BConfirmation{
		TransID:           "TGH7SK61SV",
		TransAmount:       decimal.NewFromInt(500),
		MSISDN:            "254712345678",
		CheckoutRequestID: "ws_CO_123456",
	}

	suite.mockCallbackRepo.On("HasProcessedSTK", mock.Anything, "ws_CO_123456").Return(true, nil)
	suite.mockCallbackRepo.On("SaveCallback", mock.Anything, mock.MatchedBy(func(r domain.PaymentCallbackRecord) bool {
		return r.Kind == domain.CallbackC2B && r.Matched
	})).Return(nil)

	outcome, err := suite.service.HandleC2BConfirmation(context.Background(), confirmation, []byte(`{}`))

	suite.NoError(err)
	suite.Equal(dto.AckAccepted(), outcome.Ack)
	suite.True(outcome.AlreadyProcessed)
}

func (suite *CallbackServiceTestSuite) TestHandleC2BConfirmation_RecordsUnknownForReview() {
	confirmation := dto.C2BConfirmation{
		TransID:     "TGH7SK61SV",
		TransAmount: decimal.NewFromInt(500),
		MSISDN:      "254712345678",
	}

	suite.mockCallbackRepo.On("SaveCallback", mock.Anything, mock.MatchedBy(func(r domain.PaymentCallbackRecord) bool {
		return r.Kind == domain.CallbackC2B && r.NeedsReview
	})).Return(nil)

	outcome, err := suite.service.HandleC2BConfirmation(context.Background(), confirmation, []byte(`{}`))

	suite.NoError(err)
	suite.True(outcome.NeedsReview)
	suite.mockCallbackRepo.AssertNotCalled(suite.T(), "HasProcessedSTK", mock.Anything, mock.Anything)
}

func TestCallbackServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CallbackServiceTestSuite))
}
