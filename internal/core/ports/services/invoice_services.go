package services

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/vitabuhq/vitabu-backend/internal/core/domain"
	"github.com/vitabuhq/vitabu-backend/internal/dto"
)

// InvoiceNumberSvcFacade hands out per-tenant sequential document numbers.
type InvoiceNumberSvcFacade interface {
	// GenerateNextNumber allocates and formats the next invoice number for
	// the tenant's current year in its own short transaction. Numbers are
	// unique and monotonic per tenant-year under concurrent callers.
	GenerateNextNumber(ctx context.Context, tenantID string) (string, error)
}

// InvoiceSvcFacade exposes the invoice lifecycle.
type InvoiceSvcFacade interface {
	// CreateInvoice creates a DRAFT invoice; the document number is assigned
	// inside the same transaction as the insert.
	CreateInvoice(ctx context.Context, tenantID string, req dto.CreateInvoiceRequest, creatorUserID string) (*domain.Invoice, error)

	// SendInvoice transitions DRAFT -> SENT and posts the derived journal
	// entry atomically. Re-sending an already SENT invoice is an idempotent
	// no-op that returns the existing entry.
	SendInvoice(ctx context.Context, tenantID, invoiceID, userID string) (*domain.JournalEntry, error)

	// GetInvoice retrieves an invoice with its lines and derived outstanding
	// amount.
	GetInvoice(ctx context.Context, tenantID, invoiceID string) (*domain.Invoice, decimal.Decimal, error)

	// ListInvoices retrieves a paginated list of the tenant's invoices.
	ListInvoices(ctx context.Context, tenantID string, params dto.ListInvoicesParams) (*dto.ListInvoicesResponse, error)
}
