package pgsql

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/vitabuhq/vitabu-backend/internal/apperrors"
	"github.com/vitabuhq/vitabu-backend/internal/core/domain"
	portsrepo "github.com/vitabuhq/vitabu-backend/internal/core/ports/repositories"
	"github.com/vitabuhq/vitabu-backend/internal/models"
	"github.com/vitabuhq/vitabu-backend/internal/utils/mapping"
)

const paymentColumns = `payment_id, tenant_id, amount, payment_method, transaction_status, checkout_request_id, mpesa_receipt, phone_number, account_id, invoice_id, payment_date, created_at, created_by, last_updated_at, last_updated_by`

type PgxPaymentRepository struct {
	BaseRepository
	journalRepo portsrepo.JournalRepositoryFacade
}

// newPgxPaymentRepository creates a new repository for payment data. The
// journal repository participates in the apply transaction for posting.
func newPgxPaymentRepository(pool *pgxpool.Pool, journalRepo portsrepo.JournalRepositoryFacade) portsrepo.PaymentRepositoryFacade {
	return &PgxPaymentRepository{
		BaseRepository: BaseRepository{Pool: pool},
		journalRepo:    journalRepo,
	}
}

var _ portsrepo.PaymentRepositoryFacade = (*PgxPaymentRepository)(nil)

func scanPayment(row pgx.Row) (models.Payment, error) {
	var m models.Payment
	err := row.Scan(
		&m.PaymentID,
		&m.TenantID,
		&m.Amount,
		&m.Method,
		&m.TransactionStatus,
		&m.CheckoutRequestID,
		&m.MpesaReceipt,
		&m.PhoneNumber,
		&m.AccountID,
		&m.InvoiceID,
		&m.PaymentDate,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func (r *PgxPaymentRepository) SavePendingPayment(ctx context.Context, payment domain.Payment) error {
	m := mapping.ToModelPayment(payment)
	query := `
		INSERT INTO payments (` + paymentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.PaymentID,
		m.TenantID,
		m.Amount,
		m.Method,
		m.TransactionStatus,
		m.CheckoutRequestID,
		m.MpesaReceipt,
		m.PhoneNumber,
		m.AccountID,
		m.InvoiceID,
		m.PaymentDate,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err, "") {
			return fmt.Errorf("payment for checkout request: %w", apperrors.ErrDuplicate)
		}
		return apperrors.NewAppError(500, "failed to insert pending payment "+m.PaymentID, err)
	}
	return nil
}

// ApplyPayment runs the whole allocate-and-post step atomically. Invoice
// rows are locked in invoice id order so two payments touching the same
// invoices cannot deadlock. The clamped allocation amounts and the final
// invoice statuses are all decided under those locks.
func (r *PgxPaymentRepository) ApplyPayment(ctx context.Context, payment domain.Payment, isNew bool, requests []domain.AllocationRequest, buildEntry portsrepo.PaymentEntryBuilder) (*portsrepo.PaymentApplication, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	if isNew {
		if err := r.insertCompletedPaymentInTx(ctx, tx, payment); err != nil {
			return nil, err
		}
	} else {
		if err := r.completePendingPaymentInTx(ctx, tx, payment); err != nil {
			return nil, err
		}
	}
	payment.TransactionStatus = domain.TxnCompleted

	invoices, err := r.lockInvoicesInTx(ctx, tx, payment.TenantID, requests)
	if err != nil {
		return nil, err
	}

	application := &portsrepo.PaymentApplication{Payment: payment}
	remaining := payment.Amount
	allocated := decimal.Zero

	for _, req := range requests {
		invoice, ok := invoices[req.InvoiceID]
		if !ok {
			return nil, fmt.Errorf("invoice %s: %w", req.InvoiceID, apperrors.ErrNotFound)
		}

		outstanding, err := r.outstandingInTx(ctx, tx, invoice)
		if err != nil {
			return nil, err
		}

		amount := domain.ClampAllocation(req.Amount, outstanding, remaining)
		if !amount.IsPositive() {
			continue
		}

		allocation := domain.PaymentAllocation{
			AllocationID: uuid.NewString(),
			PaymentID:    payment.PaymentID,
			InvoiceID:    invoice.InvoiceID,
			Amount:       amount,
			AuditFields:  payment.AuditFields,
		}
		if err := r.insertAllocationInTx(ctx, tx, allocation); err != nil {
			return nil, err
		}

		invoice.ApplyPaymentPolicy(outstanding.Sub(amount))
		if err := r.updateInvoiceStatusInTx(ctx, tx, invoice, payment.LastUpdatedBy); err != nil {
			return nil, err
		}

		remaining = remaining.Sub(amount)
		allocated = allocated.Add(amount)
		application.Allocations = append(application.Allocations, allocation)
		application.Invoices = append(application.Invoices, *invoice)
	}

	entry, err := buildEntry(allocated, payment.Amount.Sub(allocated))
	if err != nil {
		return nil, err
	}
	if err := r.journalRepo.SaveEntryInTx(ctx, tx, entry, entry.Lines); err != nil {
		return nil, err
	}
	application.Entry = entry

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return application, nil
}

func (r *PgxPaymentRepository) insertCompletedPaymentInTx(ctx context.Context, tx pgx.Tx, payment domain.Payment) error {
	m := mapping.ToModelPayment(payment)
	query := `
		INSERT INTO payments (` + paymentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
	`
	_, err := tx.Exec(ctx, query,
		m.PaymentID,
		m.TenantID,
		m.Amount,
		m.Method,
		m.TransactionStatus,
		m.CheckoutRequestID,
		m.MpesaReceipt,
		m.PhoneNumber,
		m.AccountID,
		m.InvoiceID,
		m.PaymentDate,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err, "") {
			return fmt.Errorf("payment %s: %w", payment.PaymentID, apperrors.ErrDuplicate)
		}
		return apperrors.NewAppError(500, "failed to insert payment "+m.PaymentID, err)
	}
	return nil
}

// completePendingPaymentInTx is the compare-and-set that makes callback
// processing idempotent: only the caller that flips PENDING to COMPLETED
// proceeds, every other delivery observes zero affected rows.
func (r *PgxPaymentRepository) completePendingPaymentInTx(ctx context.Context, tx pgx.Tx, payment domain.Payment) error {
	query := `
		UPDATE payments
		SET transaction_status = $2, mpesa_receipt = $3, payment_date = $4, last_updated_at = $5, last_updated_by = $6
		WHERE payment_id = $1 AND transaction_status = $7;
	`
	tag, err := tx.Exec(ctx, query,
		payment.PaymentID,
		domain.TxnCompleted,
		payment.MpesaReceipt,
		payment.PaymentDate,
		payment.LastUpdatedAt,
		payment.LastUpdatedBy,
		domain.TxnPending,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to complete payment "+payment.PaymentID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("payment %s already left PENDING: %w", payment.PaymentID, apperrors.ErrDuplicate)
	}
	return nil
}

func (r *PgxPaymentRepository) lockInvoicesInTx(ctx context.Context, tx pgx.Tx, tenantID string, requests []domain.AllocationRequest) (map[string]*domain.Invoice, error) {
	result := make(map[string]*domain.Invoice, len(requests))
	if len(requests) == 0 {
		return result, nil
	}

	ids := make([]string, 0, len(requests))
	seen := make(map[string]struct{}, len(requests))
	for _, req := range requests {
		if _, ok := seen[req.InvoiceID]; ok {
			continue
		}
		seen[req.InvoiceID] = struct{}{}
		ids = append(ids, req.InvoiceID)
	}
	sort.Strings(ids)

	query := `
		SELECT ` + invoiceColumns + `
		FROM invoices
		WHERE tenant_id = $1 AND invoice_id = ANY($2)
		ORDER BY invoice_id
		FOR UPDATE;
	`
	rows, err := tx.Query(ctx, query, tenantID, ids)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to lock invoices for allocation", err)
	}
	defer rows.Close()

	for rows.Next() {
		m, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan locked invoice: %w", err)
		}
		invoice := mapping.ToDomainInvoice(m)
		result[invoice.InvoiceID] = &invoice
	}
	return result, rows.Err()
}

func (r *PgxPaymentRepository) outstandingInTx(ctx context.Context, tx pgx.Tx, invoice *domain.Invoice) (decimal.Decimal, error) {
	var allocatedSoFar decimal.Decimal
	query := `SELECT COALESCE(SUM(amount), 0) FROM payment_allocations WHERE invoice_id = $1;`
	if err := tx.QueryRow(ctx, query, invoice.InvoiceID).Scan(&allocatedSoFar); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum allocations for invoice %s: %w", invoice.InvoiceID, err)
	}
	return invoice.Outstanding(allocatedSoFar), nil
}

func (r *PgxPaymentRepository) insertAllocationInTx(ctx context.Context, tx pgx.Tx, allocation domain.PaymentAllocation) error {
	query := `
		INSERT INTO payment_allocations (allocation_id, payment_id, invoice_id, amount, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := tx.Exec(ctx, query,
		allocation.AllocationID,
		allocation.PaymentID,
		allocation.InvoiceID,
		allocation.Amount,
		allocation.CreatedAt,
		allocation.CreatedBy,
		allocation.LastUpdatedAt,
		allocation.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert allocation "+allocation.AllocationID, err)
	}
	return nil
}

func (r *PgxPaymentRepository) updateInvoiceStatusInTx(ctx context.Context, tx pgx.Tx, invoice *domain.Invoice, updatedBy string) error {
	query := `
		UPDATE invoices
		SET status = $3, payment_status = $4, last_updated_at = $5, last_updated_by = $6
		WHERE tenant_id = $1 AND invoice_id = $2;
	`
	_, err := tx.Exec(ctx, query,
		invoice.TenantID,
		invoice.InvoiceID,
		invoice.Status,
		invoice.PaymentStatus,
		time.Now(),
		updatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update invoice status for "+invoice.InvoiceID, err)
	}
	return nil
}

func (r *PgxPaymentRepository) MarkPaymentFailed(ctx context.Context, paymentID, resultDesc, updatedBy string) error {
	query := `
		UPDATE payments
		SET transaction_status = $2, mpesa_receipt = $3, last_updated_at = $4, last_updated_by = $5
		WHERE payment_id = $1 AND transaction_status = $6;
	`
	tag, err := r.Pool.Exec(ctx, query,
		paymentID,
		domain.TxnFailed,
		resultDesc,
		time.Now(),
		updatedBy,
		domain.TxnPending,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to mark payment failed "+paymentID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("payment %s already left PENDING: %w", paymentID, apperrors.ErrDuplicate)
	}
	return nil
}

func (r *PgxPaymentRepository) FindPaymentByID(ctx context.Context, tenantID, paymentID string) (*domain.Payment, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE tenant_id = $1 AND payment_id = $2;
	`
	m, err := scanPayment(r.Pool.QueryRow(ctx, query, tenantID, paymentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find payment %s: %w", paymentID, err)
	}
	payment := mapping.ToDomainPayment(m)
	return &payment, nil
}

func (r *PgxPaymentRepository) FindPaymentByCheckoutRequestID(ctx context.Context, checkoutRequestID string) (*domain.Payment, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE checkout_request_id = $1;
	`
	m, err := scanPayment(r.Pool.QueryRow(ctx, query, checkoutRequestID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find payment by checkout request %s: %w", checkoutRequestID, err)
	}
	payment := mapping.ToDomainPayment(m)
	return &payment, nil
}

func (r *PgxPaymentRepository) FindPendingByPhoneAmount(ctx context.Context, phone string, amount decimal.Decimal, since time.Time) ([]domain.Payment, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE transaction_status = $1 AND payment_method = $2
		  AND phone_number = $3 AND amount = $4 AND created_at >= $5
		ORDER BY created_at DESC;
	`
	rows, err := r.Pool.Query(ctx, query, domain.TxnPending, domain.MethodMpesa, phone, amount, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending payments by phone and amount: %w", err)
	}
	defer rows.Close()

	var payments []domain.Payment
	for rows.Next() {
		m, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, mapping.ToDomainPayment(m))
	}
	return payments, rows.Err()
}

func (r *PgxPaymentRepository) FindAllocationsByPaymentID(ctx context.Context, paymentID string) ([]domain.PaymentAllocation, error) {
	query := `
		SELECT allocation_id, payment_id, invoice_id, amount, created_at, created_by, last_updated_at, last_updated_by
		FROM payment_allocations
		WHERE payment_id = $1
		ORDER BY created_at;
	`
	rows, err := r.Pool.Query(ctx, query, paymentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query allocations for payment %s: %w", paymentID, err)
	}
	defer rows.Close()

	var allocations []domain.PaymentAllocation
	for rows.Next() {
		var m models.PaymentAllocation
		if err := rows.Scan(
			&m.AllocationID,
			&m.PaymentID,
			&m.InvoiceID,
			&m.Amount,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		); err != nil {
			return nil, fmt.Errorf("failed to scan allocation: %w", err)
		}
		allocations = append(allocations, mapping.ToDomainAllocation(m))
	}
	return allocations, rows.Err()
}
