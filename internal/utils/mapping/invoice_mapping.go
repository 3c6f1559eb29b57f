package mapping

import (
	"github.com/vitabuhq/vitabu-backend/internal/core/domain"
	"github.com/vitabuhq/vitabu-backend/internal/models"
)

// ToModelInvoice converts a domain Invoice to its model shape.
func ToModelInvoice(d domain.Invoice) models.Invoice {
	return models.Invoice{
		InvoiceID:     d.InvoiceID,
		TenantID:      d.TenantID,
		InvoiceNumber: d.InvoiceNumber,
		ContactID:     d.ContactID,
		Status:        models.InvoiceStatus(d.Status),
		PaymentStatus: models.PaymentStatus(d.PaymentStatus),
		Subtotal:      d.Subtotal,
		TaxAmount:     d.TaxAmount,
		Total:         d.Total,
		DueDate:       d.DueDate,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainInvoice converts a model Invoice to its domain shape.
func ToDomainInvoice(m models.Invoice) domain.Invoice {
	return domain.Invoice{
		InvoiceID:     m.InvoiceID,
		TenantID:      m.TenantID,
		InvoiceNumber: m.InvoiceNumber,
		ContactID:     m.ContactID,
		Status:        domain.InvoiceStatus(m.Status),
		PaymentStatus: domain.PaymentStatus(m.PaymentStatus),
		Subtotal:      m.Subtotal,
		TaxAmount:     m.TaxAmount,
		Total:         m.Total,
		DueDate:       m.DueDate,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelInvoiceLine converts a domain InvoiceLine to its model shape.
func ToModelInvoiceLine(d domain.InvoiceLine) models.InvoiceLine {
	return models.InvoiceLine{
		LineID:         d.LineID,
		InvoiceID:      d.InvoiceID,
		Description:    d.Description,
		Quantity:       d.Quantity,
		UnitPrice:      d.UnitPrice,
		TaxRate:        d.TaxRate,
		SalesAccountID: d.SalesAccountID,
		LineTotal:      d.LineTotal,
	}
}

// ToDomainInvoiceLine converts a model InvoiceLine to its domain shape.
func ToDomainInvoiceLine(m models.InvoiceLine) domain.InvoiceLine {
	return domain.InvoiceLine{
		LineID:         m.LineID,
		InvoiceID:      m.InvoiceID,
		Description:    m.Description,
		Quantity:       m.Quantity,
		UnitPrice:      m.UnitPrice,
		TaxRate:        m.TaxRate,
		SalesAccountID: m.SalesAccountID,
		LineTotal:      m.LineTotal,
	}
}

// ToDomainInvoiceLineSlice converts a slice of model lines to domain lines.
func ToDomainInvoiceLineSlice(ms []models.InvoiceLine) []domain.InvoiceLine {
	lines := make([]domain.InvoiceLine, len(ms))
	for i, m := range ms {
		lines[i] = ToDomainInvoiceLine(m)
	}
	return lines
}
