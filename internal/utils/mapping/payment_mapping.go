package mapping

import (
	"github.com/vitabuhq/vitabu-backend/internal/core/domain"
	"github.com/vitabuhq/vitabu-backend/internal/models"
)

// ToModelPayment converts a domain Payment to its model shape.
func ToModelPayment(d domain.Payment) models.Payment {
	return models.Payment{
		PaymentID:         d.PaymentID,
		TenantID:          d.TenantID,
		Amount:            d.Amount,
		Method:            models.PaymentMethod(d.Method),
		TransactionStatus: models.TransactionStatus(d.TransactionStatus),
		CheckoutRequestID: d.CheckoutRequestID,
		MpesaReceipt:      d.MpesaReceipt,
		PhoneNumber:       d.PhoneNumber,
		AccountID:         d.AccountID,
		InvoiceID:         d.InvoiceID,
		PaymentDate:       d.PaymentDate,
		AuditFields:       ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainPayment converts a model Payment to its domain shape.
func ToDomainPayment(m models.Payment) domain.Payment {
	return domain.Payment{
		PaymentID:         m.PaymentID,
		TenantID:          m.TenantID,
		Amount:            m.Amount,
		Method:            domain.PaymentMethod(m.Method),
		TransactionStatus: domain.TransactionStatus(m.TransactionStatus),
		CheckoutRequestID: m.CheckoutRequestID,
		MpesaReceipt:      m.MpesaReceipt,
		PhoneNumber:       m.PhoneNumber,
		AccountID:         m.AccountID,
		InvoiceID:         m.InvoiceID,
		PaymentDate:       m.PaymentDate,
		AuditFields:       ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainAllocation converts a model PaymentAllocation to its domain shape.
func ToDomainAllocation(m models.PaymentAllocation) domain.PaymentAllocation {
	return domain.PaymentAllocation{
		AllocationID: m.AllocationID,
		PaymentID:    m.PaymentID,
		InvoiceID:    m.InvoiceID,
		Amount:       m.Amount,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainCallbackRecord converts a model callback row to its domain shape.
func ToDomainCallbackRecord(m models.PaymentCallbackRecord) domain.PaymentCallbackRecord {
	return domain.PaymentCallbackRecord{
		CallbackID:        m.CallbackID,
		CheckoutRequestID: m.CheckoutRequestID,
		Kind:              domain.CallbackKind(m.Kind),
		ResultCode:        m.ResultCode,
		RawPayload:        m.RawPayload,
		Matched:           m.Matched,
		NeedsReview:       m.NeedsReview,
		ReceivedAt:        m.ReceivedAt,
	}
}
