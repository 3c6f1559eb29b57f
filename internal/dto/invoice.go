package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/vitabuhq/vitabu-backend/internal/core/domain"
)

// CreateInvoiceLineRequest is one billable line on a new invoice.
type CreateInvoiceLineRequest struct {
	Description    string          `json:"description" binding:"required"`
	Quantity       decimal.Decimal `json:"quantity" binding:"required,dgt0"`
	UnitPrice      decimal.Decimal `json:"unitPrice" binding:"required,dgt0"`
	TaxRate        decimal.Decimal `json:"taxRate"`
	SalesAccountID string          `json:"salesAccountID" binding:"required"`
}

// CreateInvoiceRequest is the payload for creating a draft invoice. Totals
// are computed server-side from the lines, never trusted from the client.
type CreateInvoiceRequest struct {
	ContactID string                     `json:"contactID" binding:"required"`
	DueDate   time.Time                  `json:"dueDate" binding:"required"`
	Lines     []CreateInvoiceLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// InvoiceLineResponse is the API shape of one invoice line.
type InvoiceLineResponse struct {
	LineID         string          `json:"lineID"`
	Description    string          `json:"description"`
	Quantity       decimal.Decimal `json:"quantity"`
	UnitPrice      decimal.Decimal `json:"unitPrice"`
	TaxRate        decimal.Decimal `json:"taxRate"`
	SalesAccountID string          `json:"salesAccountID"`
	LineTotal      decimal.Decimal `json:"lineTotal"`
}

// InvoiceResponse is the API shape of an invoice. Outstanding is derived at
// read time from the allocation rows.
type InvoiceResponse struct {
	InvoiceID     string                `json:"invoiceID"`
	InvoiceNumber string                `json:"invoiceNumber"`
	ContactID     string                `json:"contactID"`
	Status        string                `json:"status"`
	PaymentStatus string                `json:"paymentStatus"`
	Subtotal      decimal.Decimal       `json:"subtotal"`
	TaxAmount     decimal.Decimal       `json:"taxAmount"`
	Total         decimal.Decimal       `json:"total"`
	Outstanding   decimal.Decimal       `json:"outstanding"`
	DueDate       time.Time             `json:"dueDate"`
	CreatedAt     time.Time             `json:"createdAt"`
	Lines         []InvoiceLineResponse `json:"lines,omitempty"`
}

// ListInvoicesParams holds parameters for listing invoices.
type ListInvoicesParams struct {
	Limit     int     `form:"limit"`
	NextToken *string `form:"nextToken"`
}

// ListInvoicesResponse is the paginated invoice list.
type ListInvoicesResponse struct {
	Invoices  []InvoiceResponse `json:"invoices"`
	NextToken *string           `json:"nextToken,omitempty"`
}

// ToInvoiceResponse converts a domain Invoice to its API shape.
func ToInvoiceResponse(inv *domain.Invoice, outstanding decimal.Decimal) InvoiceResponse {
	resp := InvoiceResponse{
		InvoiceID:     inv.InvoiceID,
		InvoiceNumber: inv.InvoiceNumber,
		ContactID:     inv.ContactID,
		Status:        string(inv.Status),
		PaymentStatus: string(inv.PaymentStatus),
		Subtotal:      inv.Subtotal,
		TaxAmount:     inv.TaxAmount,
		Total:         inv.Total,
		Outstanding:   outstanding,
		DueDate:       inv.DueDate,
		CreatedAt:     inv.CreatedAt,
	}
	for _, line := range inv.Lines {
		resp.Lines = append(resp.Lines, InvoiceLineResponse{
			LineID:         line.LineID,
			Description:    line.Description,
			Quantity:       line.Quantity,
			UnitPrice:      line.UnitPrice,
			TaxRate:        line.TaxRate,
			SalesAccountID: line.SalesAccountID,
			LineTotal:      line.LineTotal,
		})
	}
	return resp
}
