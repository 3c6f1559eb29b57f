package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vitabuhq/vitabu-backend/internal/core/domain"
	portsrepo "github.com/vitabuhq/vitabu-backend/internal/core/ports/repositories"
	portssvc "github.com/vitabuhq/vitabu-backend/internal/core/ports/services"
	"github.com/vitabuhq/vitabu-backend/internal/dto"
	"github.com/vitabuhq/vitabu-backend/internal/middleware"
	"github.com/vitabuhq/vitabu-backend/internal/utils/accounting"
)

var ErrGatewayUnavailable = errors.New("payment gateway request failed")

// paymentService records payments, allocates them against invoices and posts
// the resulting journal entries. All mutation flows through the repository's
// single apply transaction so partial application can never be observed.
type paymentService struct {
	paymentRepo portsrepo.PaymentRepositoryFacade
	invoiceRepo portsrepo.InvoiceRepositoryFacade
	accountSvc  portssvc.AccountSvcFacade
	gateway     portssvc.MpesaGateway
}

// NewPaymentService creates a new payment service.
func NewPaymentService(
	paymentRepo portsrepo.PaymentRepositoryFacade,
	invoiceRepo portsrepo.InvoiceRepositoryFacade,
	accountSvc portssvc.AccountSvcFacade,
	gateway portssvc.MpesaGateway,
) portssvc.PaymentSvcFacade {
	return &paymentService{
		paymentRepo: paymentRepo,
		invoiceRepo: invoiceRepo,
		accountSvc:  accountSvc,
		gateway:     gateway,
	}
}

var _ portssvc.PaymentSvcFacade = (*paymentService)(nil)

// categoryForMethod maps a payment method to the chart category of the asset
// account the money lands in when the caller did not name one.
func categoryForMethod(method domain.PaymentMethod) domain.AccountCategory {
	if method == domain.MethodMpesa {
		return domain.CategoryMpesa
	}
	return domain.CategoryBank
}

func (s *paymentService) CreatePayment(ctx context.Context, tenantID string, req dto.CreatePaymentRequest, creatorUserID string) (*portssvc.PaymentResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	method := domain.PaymentMethod(req.Method)
	accountID := req.AccountID
	if accountID == "" {
		account, err := s.accountSvc.GetPostingAccount(ctx, tenantID, categoryForMethod(method))
		if err != nil {
			return nil, err
		}
		accountID = account.AccountID
	}

	paymentDate := time.Now()
	if req.PaymentDate != nil {
		paymentDate = *req.PaymentDate
	}

	now := time.Now()
	payment := domain.Payment{
		PaymentID:         uuid.NewString(),
		TenantID:          tenantID,
		Amount:            req.Amount,
		Method:            method,
		TransactionStatus: domain.TxnCompleted,
		AccountID:         accountID,
		InvoiceID:         req.InvoiceID,
		PaymentDate:       paymentDate,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	requests := make([]domain.AllocationRequest, 0, len(req.Allocations))
	for _, a := range req.Allocations {
		requests = append(requests, domain.AllocationRequest{InvoiceID: a.InvoiceID, Amount: a.Amount})
	}

	result, err := s.apply(ctx, payment, true, requests, creatorUserID)
	if err != nil {
		logger.Error("Failed to apply payment", "error", err, "tenantID", tenantID)
		return nil, err
	}

	logger.Info("Payment recorded",
		"paymentID", result.Payment.PaymentID,
		"amount", result.Payment.Amount.String(),
		"entryID", result.Entry.EntryID,
	)
	return result, nil
}

func (s *paymentService) InitiateStkPayment(ctx context.Context, tenantID string, req dto.StkPushRequest, creatorUserID string) (*domain.Payment, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.accountSvc.GetPostingAccount(ctx, tenantID, domain.CategoryMpesa)
	if err != nil {
		return nil, err
	}

	reference := "ON-ACCOUNT"
	if req.InvoiceID != nil {
		invoice, err := s.invoiceRepo.FindInvoiceByID(ctx, tenantID, *req.InvoiceID)
		if err != nil {
			return nil, err
		}
		reference = invoice.InvoiceNumber
	}

	checkoutRequestID, err := s.gateway.InitiateStkPush(ctx, portssvc.StkPushParams{
		PhoneNumber: req.PhoneNumber,
		Amount:      req.Amount,
		Reference:   reference,
		Description: "Invoice payment",
	})
	if err != nil {
		logger.Error("STK push failed", "error", err, "tenantID", tenantID)
		return nil, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}

	now := time.Now()
	payment := domain.Payment{
		PaymentID:         uuid.NewString(),
		TenantID:          tenantID,
		Amount:            req.Amount,
		Method:            domain.MethodMpesa,
		TransactionStatus: domain.TxnPending,
		CheckoutRequestID: &checkoutRequestID,
		PhoneNumber:       req.PhoneNumber,
		AccountID:         account.AccountID,
		InvoiceID:         req.InvoiceID,
		PaymentDate:       now,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.paymentRepo.SavePendingPayment(ctx, payment); err != nil {
		logger.Error("Failed to save pending payment", "error", err, "checkoutRequestID", checkoutRequestID)
		return nil, fmt.Errorf("failed to save pending payment: %w", err)
	}

	logger.Info("STK push initiated", "paymentID", payment.PaymentID, "checkoutRequestID", checkoutRequestID)
	return &payment, nil
}

func (s *paymentService) CompletePayment(ctx context.Context, payment domain.Payment, receipt string, allocations []domain.AllocationRequest, userID string) (*portssvc.PaymentResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	payment.MpesaReceipt = receipt
	payment.PaymentDate = time.Now()
	payment.LastUpdatedAt = time.Now()
	payment.LastUpdatedBy = userID

	result, err := s.apply(ctx, payment, false, allocations, userID)
	if err != nil {
		return nil, err
	}

	logger.Info("Payment completed",
		"paymentID", result.Payment.PaymentID,
		"receipt", receipt,
		"entryID", result.Entry.EntryID,
	)
	return result, nil
}

func (s *paymentService) FailPayment(ctx context.Context, paymentID, resultDesc, userID string) error {
	return s.paymentRepo.MarkPaymentFailed(ctx, paymentID, resultDesc, userID)
}

func (s *paymentService) GetPayment(ctx context.Context, tenantID, paymentID string) (*domain.Payment, []domain.PaymentAllocation, error) {
	payment, err := s.paymentRepo.FindPaymentByID(ctx, tenantID, paymentID)
	if err != nil {
		return nil, nil, err
	}
	allocations, err := s.paymentRepo.FindAllocationsByPaymentID(ctx, paymentID)
	if err != nil {
		return nil, nil, err
	}
	return payment, allocations, nil
}

// apply runs the shared allocate-and-post flow. When no explicit allocations
// were given and the payment is linked to an invoice, the full amount is
// directed at that invoice; the repository clamps it to the outstanding
// balance. Whatever remains unallocated is credited to customer deposits.
func (s *paymentService) apply(ctx context.Context, payment domain.Payment, isNew bool, requests []domain.AllocationRequest, userID string) (*portssvc.PaymentResult, error) {
	if len(requests) == 0 && payment.InvoiceID != nil {
		requests = []domain.AllocationRequest{{InvoiceID: *payment.InvoiceID, Amount: payment.Amount}}
	}

	buildEntry := func(allocated, unallocated decimal.Decimal) (domain.JournalEntry, error) {
		return s.buildPaymentEntry(ctx, payment, allocated, unallocated, userID)
	}

	application, err := s.paymentRepo.ApplyPayment(ctx, payment, isNew, requests, buildEntry)
	if err != nil {
		return nil, err
	}
	return &portssvc.PaymentResult{
		Payment:     application.Payment,
		Allocations: application.Allocations,
		Entry:       application.Entry,
	}, nil
}

// buildPaymentEntry derives the journal entry for a received payment: debit
// the receiving asset account the full amount, credit AR for the allocated
// part, credit customer deposits for any unallocated remainder.
func (s *paymentService) buildPaymentEntry(ctx context.Context, payment domain.Payment, allocated, unallocated decimal.Decimal, userID string) (domain.JournalEntry, error) {
	lines := []domain.JournalLine{domain.DebitLine(payment.AccountID, payment.Amount)}

	if allocated.IsPositive() {
		arAccount, err := s.accountSvc.GetPostingAccount(ctx, payment.TenantID, domain.CategoryReceivable)
		if err != nil {
			return domain.JournalEntry{}, err
		}
		lines = append(lines, domain.CreditLine(arAccount.AccountID, allocated))
	}
	if unallocated.IsPositive() {
		depositsAccount, err := s.accountSvc.GetPostingAccount(ctx, payment.TenantID, domain.CategoryCustomerDeposits)
		if err != nil {
			return domain.JournalEntry{}, err
		}
		lines = append(lines, domain.CreditLine(depositsAccount.AccountID, unallocated))
	}

	total, err := accounting.ValidateEntryBalance(lines)
	if err != nil {
		return domain.JournalEntry{}, fmt.Errorf("derived payment entry is invalid: %w", err)
	}
	if !total.Equal(payment.Amount) {
		return domain.JournalEntry{}, fmt.Errorf("derived payment entry total %s does not match payment amount %s", total.String(), payment.Amount.String())
	}

	reference := payment.MpesaReceipt
	if reference == "" {
		reference = payment.PaymentID
	}

	now := time.Now()
	entry := domain.JournalEntry{
		EntryID:      uuid.NewString(),
		TenantID:     payment.TenantID,
		EntryDate:    now,
		Reference:    reference,
		Description:  fmt.Sprintf("Payment received via %s", payment.Method),
		TotalDebits:  total,
		TotalCredits: total,
		Source:       domain.PaymentSource(payment.PaymentID),
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	for i := range lines {
		lines[i].LineID = uuid.NewString()
		lines[i].EntryID = entry.EntryID
		lines[i].AuditFields = entry.AuditFields
	}
	entry.Lines = lines
	return entry, nil
}
