package repositories

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/vitabuhq/vitabu-backend/internal/core/domain"
)

// InvoiceReader defines read operations for invoice data.
type InvoiceReader interface {
	// FindInvoiceByID retrieves an invoice header scoped to a tenant.
	FindInvoiceByID(ctx context.Context, tenantID, invoiceID string) (*domain.Invoice, error)

	// FindLinesByInvoiceID retrieves all lines of one invoice.
	FindLinesByInvoiceID(ctx context.Context, invoiceID string) ([]domain.InvoiceLine, error)

	// AllocatedAmount returns the sum of all payment allocations ever made
	// against the invoice. The outstanding amount is derived from this.
	AllocatedAmount(ctx context.Context, tenantID, invoiceID string) (decimal.Decimal, error)

	// ListInvoices retrieves a paginated list of invoices for a tenant using
	// token-based pagination.
	ListInvoices(ctx context.Context, tenantID string, limit int, nextToken *string) ([]domain.Invoice, *string, error)
}

// InvoiceWriter defines write operations for invoice data.
type InvoiceWriter interface {
	// SaveInvoice inserts a draft invoice and its lines. The document number
	// is assigned inside the same transaction by locking and incrementing the
	// tenant-year counter row, so a failed insert rolls the sequence back.
	// Returns the assigned invoice number.
	SaveInvoice(ctx context.Context, invoice domain.Invoice, lines []domain.InvoiceLine, numbering domain.InvoiceNumbering) (string, error)

	// MarkInvoiceSent flips a DRAFT invoice to SENT and persists the given
	// balanced journal entry atomically. The invoice row is locked for the
	// duration; if the invoice is no longer a DRAFT or an entry already
	// exists for it, apperrors.ErrDuplicate is returned and nothing changes.
	// entry.Lines must be populated.
	MarkInvoiceSent(ctx context.Context, tenantID, invoiceID string, entry domain.JournalEntry) error
}

// InvoiceRepositoryFacade combines all invoice repository interfaces.
type InvoiceRepositoryFacade interface {
	InvoiceReader
	InvoiceWriter
}
