package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/vitabuhq/vitabu-backend/internal/core/domain"
)

// AllocationRequest applies part of a payment against one invoice.
type AllocationRequest struct {
	InvoiceID string          `json:"invoiceID" binding:"required"`
	Amount    decimal.Decimal `json:"amount" binding:"required,dgt0"`
}

// CreatePaymentRequest records a manually entered (already received) payment.
// AccountID names the cash/bank ledger account the money landed in; when
// omitted the tenant's designated account for the method's category is used.
type CreatePaymentRequest struct {
	Amount      decimal.Decimal     `json:"amount" binding:"required,dgt0"`
	Method      string              `json:"method" binding:"required,oneof=CASH BANK MPESA"`
	AccountID   string              `json:"accountID"`
	InvoiceID   *string             `json:"invoiceID"`
	PaymentDate *time.Time          `json:"paymentDate"`
	Allocations []AllocationRequest `json:"allocations" binding:"omitempty,dive"`
}

// StkPushRequest initiates an M-Pesa STK push. The pending payment row is
// created before the gateway call returns to the client.
type StkPushRequest struct {
	PhoneNumber string          `json:"phoneNumber" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required,dgt0"`
	InvoiceID   *string         `json:"invoiceID"`
}

// AllocationResponse is the API shape of an allocation row.
type AllocationResponse struct {
	AllocationID string          `json:"allocationID"`
	InvoiceID    string          `json:"invoiceID"`
	Amount       decimal.Decimal `json:"amount"`
}

// PaymentResponse is the API shape of a payment.
type PaymentResponse struct {
	PaymentID         string               `json:"paymentID"`
	Amount            decimal.Decimal      `json:"amount"`
	Method            string               `json:"method"`
	TransactionStatus string               `json:"transactionStatus"`
	CheckoutRequestID *string              `json:"checkoutRequestID,omitempty"`
	MpesaReceipt      string               `json:"mpesaReceipt,omitempty"`
	AccountID         string               `json:"accountID"`
	InvoiceID         *string              `json:"invoiceID,omitempty"`
	PaymentDate       time.Time            `json:"paymentDate"`
	EntryID           string               `json:"entryID,omitempty"` // Journal entry posted for this payment
	Allocations       []AllocationResponse `json:"allocations,omitempty"`
}

// ToPaymentResponse converts a domain Payment to its API shape.
func ToPaymentResponse(p *domain.Payment) PaymentResponse {
	return PaymentResponse{
		PaymentID:         p.PaymentID,
		Amount:            p.Amount,
		Method:            string(p.Method),
		TransactionStatus: string(p.TransactionStatus),
		CheckoutRequestID: p.CheckoutRequestID,
		MpesaReceipt:      p.MpesaReceipt,
		AccountID:         p.AccountID,
		InvoiceID:         p.InvoiceID,
		PaymentDate:       p.PaymentDate,
	}
}

// ToAllocationResponses converts allocation rows to their API shape.
func ToAllocationResponses(allocs []domain.PaymentAllocation) []AllocationResponse {
	responses := make([]AllocationResponse, len(allocs))
	for i, a := range allocs {
		responses[i] = AllocationResponse{
			AllocationID: a.AllocationID,
			InvoiceID:    a.InvoiceID,
			Amount:       a.Amount,
		}
	}
	return responses
}
