package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/vitabuhq/vitabu-backend/internal/apperrors"
	"github.com/vitabuhq/vitabu-backend/internal/core/domain"
	portsrepo "github.com/vitabuhq/vitabu-backend/internal/core/ports/repositories"
	"github.com/vitabuhq/vitabu-backend/internal/models"
	"github.com/vitabuhq/vitabu-backend/internal/utils/mapping"
	"github.com/vitabuhq/vitabu-backend/internal/utils/pagination"
)

const invoiceColumns = `invoice_id, tenant_id, invoice_number, contact_id, status, payment_status, subtotal, tax_amount, total, due_date, created_at, created_by, last_updated_at, last_updated_by`

type PgxInvoiceRepository struct {
	BaseRepository
	counterRepo portsrepo.CounterRepositoryFacade
	journalRepo portsrepo.JournalRepositoryFacade
}

// newPgxInvoiceRepository creates a new repository for invoice data. The
// counter and journal repositories participate in this repository's
// transactions for document numbering and posting.
func newPgxInvoiceRepository(pool *pgxpool.Pool, counterRepo portsrepo.CounterRepositoryFacade, journalRepo portsrepo.JournalRepositoryFacade) portsrepo.InvoiceRepositoryFacade {
	return &PgxInvoiceRepository{
		BaseRepository: BaseRepository{Pool: pool},
		counterRepo:    counterRepo,
		journalRepo:    journalRepo,
	}
}

var _ portsrepo.InvoiceRepositoryFacade = (*PgxInvoiceRepository)(nil)

func scanInvoice(row pgx.Row) (models.Invoice, error) {
	var m models.Invoice
	err := row.Scan(
		&m.InvoiceID,
		&m.TenantID,
		&m.InvoiceNumber,
		&m.ContactID,
		&m.Status,
		&m.PaymentStatus,
		&m.Subtotal,
		&m.TaxAmount,
		&m.Total,
		&m.DueDate,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// SaveInvoice inserts a draft invoice and its lines, claiming the document
// number from the tenant-year counter inside the same transaction. A failure
// anywhere rolls back the sequence increment with the invoice.
func (r *PgxInvoiceRepository) SaveInvoice(ctx context.Context, invoice domain.Invoice, lines []domain.InvoiceLine, numbering domain.InvoiceNumbering) (string, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return "", err
	}
	defer r.Rollback(ctx, tx)

	sequence, err := r.counterRepo.NextInvoiceSequence(ctx, tx, invoice.TenantID, numbering.Year)
	if err != nil {
		return "", err
	}
	number := numbering.Format(sequence)

	m := mapping.ToModelInvoice(invoice)
	m.InvoiceNumber = number

	invoiceQuery := `
		INSERT INTO invoices (` + invoiceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err = tx.Exec(ctx, invoiceQuery,
		m.InvoiceID,
		m.TenantID,
		m.InvoiceNumber,
		m.ContactID,
		m.Status,
		m.PaymentStatus,
		m.Subtotal,
		m.TaxAmount,
		m.Total,
		m.DueDate,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err, "") {
			return "", fmt.Errorf("invoice number %s: %w", number, apperrors.ErrDuplicate)
		}
		return "", apperrors.NewAppError(500, "failed to insert invoice "+m.InvoiceID, err)
	}

	batch := &pgx.Batch{}
	lineQuery := `
		INSERT INTO invoice_lines (line_id, invoice_id, description, quantity, unit_price, tax_rate, sales_account_id, line_total)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	for _, line := range lines {
		ml := mapping.ToModelInvoiceLine(line)
		batch.Queue(lineQuery,
			ml.LineID,
			ml.InvoiceID,
			ml.Description,
			ml.Quantity,
			ml.UnitPrice,
			ml.TaxRate,
			ml.SalesAccountID,
			ml.LineTotal,
		)
	}
	results := tx.SendBatch(ctx, batch)
	for range lines {
		if _, err := results.Exec(); err != nil {
			results.Close()
			return "", apperrors.NewAppError(500, "failed to insert invoice line for "+m.InvoiceID, err)
		}
	}
	if err := results.Close(); err != nil {
		return "", apperrors.NewAppError(500, "failed to close invoice line batch", err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return "", err
	}
	return number, nil
}

// MarkInvoiceSent flips DRAFT to SENT and posts the journal entry in one
// transaction. The invoice row is locked first so concurrent sends serialize;
// the loser observes a non-DRAFT status and gets apperrors.ErrDuplicate.
func (r *PgxInvoiceRepository) MarkInvoiceSent(ctx context.Context, tenantID, invoiceID string, entry domain.JournalEntry) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	var status models.InvoiceStatus
	lockQuery := `
		SELECT status FROM invoices
		WHERE tenant_id = $1 AND invoice_id = $2
		FOR UPDATE;
	`
	if err := tx.QueryRow(ctx, lockQuery, tenantID, invoiceID).Scan(&status); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrNotFound
		}
		return apperrors.NewAppError(500, "failed to lock invoice "+invoiceID, err)
	}
	if status != models.InvoiceStatus(domain.InvoiceDraft) {
		return fmt.Errorf("invoice %s is already %s: %w", invoiceID, status, apperrors.ErrDuplicate)
	}

	exists, err := r.journalRepo.SourceEntryExistsInTx(ctx, tx, tenantID, domain.InvoiceSource(invoiceID))
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("entry already posted for invoice %s: %w", invoiceID, apperrors.ErrDuplicate)
	}

	if err := r.journalRepo.SaveEntryInTx(ctx, tx, entry, entry.Lines); err != nil {
		return err
	}

	updateQuery := `
		UPDATE invoices
		SET status = $3, last_updated_at = $4, last_updated_by = $5
		WHERE tenant_id = $1 AND invoice_id = $2;
	`
	if _, err := tx.Exec(ctx, updateQuery, tenantID, invoiceID, domain.InvoiceSent, time.Now(), entry.CreatedBy); err != nil {
		return apperrors.NewAppError(500, "failed to update invoice status for "+invoiceID, err)
	}

	return r.Commit(ctx, tx)
}

func (r *PgxInvoiceRepository) FindInvoiceByID(ctx context.Context, tenantID, invoiceID string) (*domain.Invoice, error) {
	query := `
		SELECT ` + invoiceColumns + `
		FROM invoices
		WHERE tenant_id = $1 AND invoice_id = $2;
	`
	m, err := scanInvoice(r.Pool.QueryRow(ctx, query, tenantID, invoiceID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find invoice %s: %w", invoiceID, err)
	}
	invoice := mapping.ToDomainInvoice(m)
	return &invoice, nil
}

func (r *PgxInvoiceRepository) FindLinesByInvoiceID(ctx context.Context, invoiceID string) ([]domain.InvoiceLine, error) {
	query := `
		SELECT line_id, invoice_id, description, quantity, unit_price, tax_rate, sales_account_id, line_total
		FROM invoice_lines
		WHERE invoice_id = $1
		ORDER BY line_id;
	`
	rows, err := r.Pool.Query(ctx, query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to query invoice lines for %s: %w", invoiceID, err)
	}
	defer rows.Close()

	var ms []models.InvoiceLine
	for rows.Next() {
		var m models.InvoiceLine
		if err := rows.Scan(
			&m.LineID,
			&m.InvoiceID,
			&m.Description,
			&m.Quantity,
			&m.UnitPrice,
			&m.TaxRate,
			&m.SalesAccountID,
			&m.LineTotal,
		); err != nil {
			return nil, fmt.Errorf("failed to scan invoice line: %w", err)
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return mapping.ToDomainInvoiceLineSlice(ms), nil
}

func (r *PgxInvoiceRepository) AllocatedAmount(ctx context.Context, tenantID, invoiceID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(pa.amount), 0)
		FROM payment_allocations pa
		JOIN invoices i ON i.invoice_id = pa.invoice_id
		WHERE i.tenant_id = $1 AND pa.invoice_id = $2;
	`
	var allocated decimal.Decimal
	if err := r.Pool.QueryRow(ctx, query, tenantID, invoiceID).Scan(&allocated); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum allocations for invoice %s: %w", invoiceID, err)
	}
	return allocated, nil
}

func (r *PgxInvoiceRepository) ListInvoices(ctx context.Context, tenantID string, limit int, nextToken *string) ([]domain.Invoice, *string, error) {
	args := []interface{}{tenantID}
	query := `
		SELECT ` + invoiceColumns + `
		FROM invoices
		WHERE tenant_id = $1
	`
	if nextToken != nil && *nextToken != "" {
		createdAt, err := pagination.DecodeDateBasedToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		query += ` AND created_at < $2`
		args = append(args, createdAt)
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d;`, len(args)+1)
	args = append(args, limit+1)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	defer rows.Close()

	var invoices []domain.Invoice
	for rows.Next() {
		m, err := scanInvoice(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan invoice: %w", err)
		}
		invoices = append(invoices, mapping.ToDomainInvoice(m))
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	var token *string
	if len(invoices) > limit {
		invoices = invoices[:limit]
		t := pagination.EncodeDateBasedToken(invoices[limit-1].CreatedAt)
		token = &t
	}
	return invoices, token, nil
}
