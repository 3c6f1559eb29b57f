package dto_test

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitabuhq/vitabu-backend/internal/dto"
)

const successPayload = `{
	"Body": {
		"stkCallback": {
			"MerchantRequestID": "29115-34620561-1",
			"CheckoutRequestID": "ws_CO_191220191020363925",
			"ResultCode": 0,
			"ResultDesc": "The service request is processed successfully.",
			"CallbackMetadata": {
				"Item": [
					{"Name": "Amount", "Value": 1096.00},
					{"Name": "MpesaReceiptNumber", "Value": "NLJ7RT61SV"},
					{"Name": "TransactionDate", "Value": 20260301143045},
					{"Name": "PhoneNumber", "Value": 254712345678}
				]
			}
		}
	}
}`

const failurePayload = `{
	"Body": {
		"stkCallback": {
			"MerchantRequestID": "29115-34620561-1",
			"CheckoutRequestID": "ws_CO_191220191020363925",
			"ResultCode": 1032,
			"ResultDesc": "Request cancelled by user"
		}
	}
}`

func TestStkCallbackSucceeded(t *testing.T) {
	var success, failure dto.StkCallbackEnvelope
	require.NoError(t, json.Unmarshal([]byte(successPayload), &success))
	require.NoError(t, json.Unmarshal([]byte(failurePayload), &failure))

	assert.True(t, success.Body.StkCallback.Succeeded())
	assert.False(t, failure.Body.StkCallback.Succeeded())
}

func TestStkCallbackMetadata(t *testing.T) {
	var envelope dto.StkCallbackEnvelope
	require.NoError(t, json.Unmarshal([]byte(successPayload), &envelope))

	meta, err := envelope.Body.StkCallback.Metadata()

	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(1096).Equal(meta.Amount))
	assert.Equal(t, "NLJ7RT61SV", meta.MpesaReceipt)
	assert.Equal(t, "254712345678", meta.PhoneNumber)
	assert.Equal(t, "20260301143045", meta.TransactionDate)
}

func TestStkCallbackMetadataMissingReceipt(t *testing.T) {
	var envelope dto.StkCallbackEnvelope
	require.NoError(t, json.Unmarshal([]byte(successPayload), &envelope))
	items := envelope.Body.StkCallback.CallbackMetadata.Item
	envelope.Body.StkCallback.CallbackMetadata.Item = items[:1]

	_, err := envelope.Body.StkCallback.Metadata()

	assert.ErrorContains(t, err, "MpesaReceiptNumber")
}

func TestAckAccepted(t *testing.T) {
	ack := dto.AckAccepted()
	assert.Equal(t, 0, ack.ResultCode)
	assert.Equal(t, "Accepted", ack.ResultDesc)
}
