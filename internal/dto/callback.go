package dto

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// StkCallbackEnvelope is the Daraja STK push result payload as delivered to
// the callback URL.
type StkCallbackEnvelope struct {
	Body struct {
		StkCallback StkCallback `json:"stkCallback"`
	} `json:"Body"`
}

// StkCallback is the inner callback object. ResultCode 0 means success.
type StkCallback struct {
	MerchantRequestID string `json:"MerchantRequestID"`
	CheckoutRequestID string `json:"CheckoutRequestID"`
	ResultCode        int    `json:"ResultCode"`
	ResultDesc        string `json:"ResultDesc"`
	CallbackMetadata  struct {
		Item []StkCallbackItem `json:"Item"`
	} `json:"CallbackMetadata"`
}

// StkCallbackItem is one name/value pair of the callback metadata. Values
// arrive as JSON numbers or strings depending on the field.
type StkCallbackItem struct {
	Name  string      `json:"Name"`
	Value interface{} `json:"Value"`
}

// Succeeded reports whether the gateway confirmed the payment.
func (c StkCallback) Succeeded() bool {
	return c.ResultCode == 0
}

// StkResult is the parsed callback metadata of a successful STK payment.
type StkResult struct {
	Amount          decimal.Decimal
	MpesaReceipt    string
	PhoneNumber     string
	TransactionDate string
}

// Metadata extracts the typed metadata items from a success callback.
// Failure callbacks carry no metadata; callers must check Succeeded first.
func (c StkCallback) Metadata() (StkResult, error) {
	var result StkResult
	for _, item := range c.CallbackMetadata.Item {
		switch item.Name {
		case "Amount":
			amount, err := toDecimal(item.Value)
			if err != nil {
				return StkResult{}, fmt.Errorf("invalid Amount in callback metadata: %w", err)
			}
			result.Amount = amount
		case "MpesaReceiptNumber":
			result.MpesaReceipt = toString(item.Value)
		case "PhoneNumber":
			result.PhoneNumber = toString(item.Value)
		case "TransactionDate":
			result.TransactionDate = toString(item.Value)
		}
	}
	if result.MpesaReceipt == "" {
		return StkResult{}, fmt.Errorf("callback metadata missing MpesaReceiptNumber")
	}
	return result, nil
}

func toDecimal(v interface{}) (decimal.Decimal, error) {
	switch val := v.(type) {
	case float64:
		return decimal.NewFromFloat(val), nil
	case string:
		return decimal.NewFromString(val)
	case json.Number:
		return decimal.NewFromString(val.String())
	default:
		return decimal.Zero, fmt.Errorf("unsupported value type %T", v)
	}
}

func toString(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return decimal.NewFromFloat(val).String()
	case json.Number:
		return val.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}

// CallbackAck is the acknowledgement returned to the gateway. Duplicate
// deliveries receive the identical acknowledgement.
type CallbackAck struct {
	ResultCode int    `json:"ResultCode"`
	ResultDesc string `json:"ResultDesc"`
}

// AckAccepted is the acknowledgement for a processed (or deliberately
// skipped) callback.
func AckAccepted() CallbackAck {
	return CallbackAck{ResultCode: 0, ResultDesc: "Accepted"}
}

// CallbackOutcome reports what the reconciliation did with a callback.
type CallbackOutcome struct {
	Ack              CallbackAck
	PaymentID        string
	EntryID          string
	AlreadyProcessed bool
	Matched          bool
	NeedsReview      bool
}

// C2BConfirmation is the Daraja C2B confirmation payload subset the audit
// task cares about.
type C2BConfirmation struct {
	TransID           string          `json:"TransID"`
	TransAmount       decimal.Decimal `json:"TransAmount"`
	MSISDN            string          `json:"MSISDN"`
	BillRefNumber     string          `json:"BillRefNumber"`
	CheckoutRequestID string          `json:"CheckoutRequestID,omitempty"` // Present on STK-shaped payloads
}
