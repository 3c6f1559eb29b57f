package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vitabuhq/vitabu-backend/internal/apperrors"
	"github.com/vitabuhq/vitabu-backend/internal/core/domain"
	portsrepo "github.com/vitabuhq/vitabu-backend/internal/core/ports/repositories"
	portssvc "github.com/vitabuhq/vitabu-backend/internal/core/ports/services"
	"github.com/vitabuhq/vitabu-backend/internal/dto"
	"github.com/vitabuhq/vitabu-backend/internal/middleware"
	"github.com/vitabuhq/vitabu-backend/internal/utils/accounting"
)

var (
	ErrSalesAccountInvalid = errors.New("line sales account must be an active revenue account")
	ErrInvoiceNotDraft     = errors.New("invoice is not in draft status")
)

const defaultListLimit = 20

// invoiceService implements the invoice lifecycle: draft creation with
// server-side totals, and the atomic send-and-post transition.
type invoiceService struct {
	invoiceRepo portsrepo.InvoiceRepositoryFacade
	journalRepo portsrepo.JournalRepositoryFacade
	tenantRepo  portsrepo.TenantRepositoryFacade
	accountSvc  portssvc.AccountSvcFacade
}

// NewInvoiceService creates a new invoice service.
func NewInvoiceService(
	invoiceRepo portsrepo.InvoiceRepositoryFacade,
	journalRepo portsrepo.JournalRepositoryFacade,
	tenantRepo portsrepo.TenantRepositoryFacade,
	accountSvc portssvc.AccountSvcFacade,
) portssvc.InvoiceSvcFacade {
	return &invoiceService{
		invoiceRepo: invoiceRepo,
		journalRepo: journalRepo,
		tenantRepo:  tenantRepo,
		accountSvc:  accountSvc,
	}
}

var _ portssvc.InvoiceSvcFacade = (*invoiceService)(nil)

func (s *invoiceService) CreateInvoice(ctx context.Context, tenantID string, req dto.CreateInvoiceRequest, creatorUserID string) (*domain.Invoice, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	tenant, err := s.tenantRepo.FindTenantByID(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to load tenant: %w", err)
	}

	if err := s.validateSalesAccounts(ctx, tenantID, req.Lines); err != nil {
		return nil, err
	}

	now := time.Now()
	invoice := domain.Invoice{
		InvoiceID:     uuid.NewString(),
		TenantID:      tenantID,
		ContactID:     req.ContactID,
		Status:        domain.InvoiceDraft,
		PaymentStatus: domain.PaymentUnpaid,
		DueDate:       req.DueDate,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}
	for _, line := range req.Lines {
		invoice.Lines = append(invoice.Lines, domain.InvoiceLine{
			LineID:         uuid.NewString(),
			InvoiceID:      invoice.InvoiceID,
			Description:    line.Description,
			Quantity:       line.Quantity,
			UnitPrice:      line.UnitPrice,
			TaxRate:        line.TaxRate,
			SalesAccountID: line.SalesAccountID,
		})
	}
	invoice.ComputeTotals()

	numbering := domain.InvoiceNumbering{Prefix: tenant.InvoicePrefix, Year: now.Year()}
	number, err := s.invoiceRepo.SaveInvoice(ctx, invoice, invoice.Lines, numbering)
	if err != nil {
		logger.Error("Failed to save invoice", "error", err, "tenantID", tenantID)
		return nil, fmt.Errorf("failed to save invoice: %w", err)
	}
	invoice.InvoiceNumber = number

	logger.Info("Invoice created", "invoiceID", invoice.InvoiceID, "invoiceNumber", number, "total", invoice.Total.String())
	return &invoice, nil
}

// validateSalesAccounts checks that every line posts to an existing, active
// revenue account of the same tenant.
func (s *invoiceService) validateSalesAccounts(ctx context.Context, tenantID string, lines []dto.CreateInvoiceLineRequest) error {
	ids := make([]string, 0, len(lines))
	seen := make(map[string]struct{}, len(lines))
	for _, line := range lines {
		if _, ok := seen[line.SalesAccountID]; ok {
			continue
		}
		seen[line.SalesAccountID] = struct{}{}
		ids = append(ids, line.SalesAccountID)
	}

	accounts, err := s.accountSvc.GetAccountsByIDs(ctx, tenantID, ids)
	if err != nil {
		return fmt.Errorf("failed to load sales accounts: %w", err)
	}
	for _, id := range ids {
		account, ok := accounts[id]
		if !ok {
			return fmt.Errorf("%w: account %s not found", ErrSalesAccountInvalid, id)
		}
		if !account.IsActive || account.Type != domain.Revenue {
			return fmt.Errorf("%w: account %s", ErrSalesAccountInvalid, id)
		}
	}
	return nil
}

func (s *invoiceService) SendInvoice(ctx context.Context, tenantID, invoiceID, userID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	invoice, err := s.invoiceRepo.FindInvoiceByID(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}

	if invoice.Status != domain.InvoiceDraft {
		// Re-sending is a no-op returning the entry posted the first time.
		return s.entryForSource(ctx, tenantID, domain.InvoiceSource(invoiceID))
	}

	invoice.Lines, err = s.invoiceRepo.FindLinesByInvoiceID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	entry, err := s.buildInvoiceEntry(ctx, invoice, userID)
	if err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.MarkInvoiceSent(ctx, tenantID, invoiceID, *entry); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			// A concurrent send won the row lock race. Return its entry.
			logger.Info("Invoice already sent, returning existing entry", "invoiceID", invoiceID)
			return s.entryForSource(ctx, tenantID, domain.InvoiceSource(invoiceID))
		}
		logger.Error("Failed to post invoice", "error", err, "invoiceID", invoiceID)
		return nil, fmt.Errorf("failed to post invoice: %w", err)
	}

	logger.Info("Invoice sent and posted",
		"invoiceID", invoiceID,
		"entryID", entry.EntryID,
		"total", invoice.Total.String(),
	)
	return entry, nil
}

// buildInvoiceEntry derives the journal entry for a sent invoice: debit the
// AR control account for the gross total, credit each referenced sales
// account its net revenue, credit tax payable when any tax was charged.
func (s *invoiceService) buildInvoiceEntry(ctx context.Context, invoice *domain.Invoice, userID string) (*domain.JournalEntry, error) {
	arAccount, err := s.accountSvc.GetPostingAccount(ctx, invoice.TenantID, domain.CategoryReceivable)
	if err != nil {
		return nil, err
	}

	lines := []domain.JournalLine{domain.DebitLine(arAccount.AccountID, invoice.Total)}

	// Group net revenue per sales account, preserving line order.
	revenue := make(map[string]decimal.Decimal)
	var order []string
	for _, line := range invoice.Lines {
		if _, ok := revenue[line.SalesAccountID]; !ok {
			order = append(order, line.SalesAccountID)
		}
		revenue[line.SalesAccountID] = revenue[line.SalesAccountID].Add(line.LineTotal)
	}
	for _, accountID := range order {
		lines = append(lines, domain.CreditLine(accountID, revenue[accountID]))
	}

	if invoice.TaxAmount.IsPositive() {
		taxAccount, err := s.accountSvc.GetPostingAccount(ctx, invoice.TenantID, domain.CategoryTaxPayable)
		if err != nil {
			return nil, err
		}
		lines = append(lines, domain.CreditLine(taxAccount.AccountID, invoice.TaxAmount))
	}

	total, err := accounting.ValidateEntryBalance(lines)
	if err != nil {
		return nil, fmt.Errorf("derived invoice entry is invalid: %w", err)
	}
	if !total.Equal(invoice.Total) {
		return nil, fmt.Errorf("derived invoice entry total %s does not match invoice total %s", total.String(), invoice.Total.String())
	}

	now := time.Now()
	entry := domain.JournalEntry{
		EntryID:      uuid.NewString(),
		TenantID:     invoice.TenantID,
		EntryDate:    now,
		Reference:    invoice.InvoiceNumber,
		Description:  fmt.Sprintf("Invoice %s issued", invoice.InvoiceNumber),
		TotalDebits:  total,
		TotalCredits: total,
		Source:       domain.InvoiceSource(invoice.InvoiceID),
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
	return &entry, nil
}

func (s *invoiceService) entryForSource(ctx context.Context, tenantID string, source domain.SourceRef) (*domain.JournalEntry, error) {
	entry, err := s.journalRepo.FindEntryBySource(ctx, tenantID, source)
	if err != nil {
		return nil, err
	}
	entry.Lines, err = s.journalRepo.FindLinesByEntryID(ctx, entry.EntryID)
	if err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *invoiceService) GetInvoice(ctx context.Context, tenantID, invoiceID string) (*domain.Invoice, decimal.Decimal, error) {
	invoice, err := s.invoiceRepo.FindInvoiceByID(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, decimal.Zero, err
	}
	invoice.Lines, err = s.invoiceRepo.FindLinesByInvoiceID(ctx, invoiceID)
	if err != nil {
		return nil, decimal.Zero, err
	}
	allocated, err := s.invoiceRepo.AllocatedAmount(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, decimal.Zero, err
	}
	return invoice, invoice.Outstanding(allocated), nil
}

func (s *invoiceService) ListInvoices(ctx context.Context, tenantID string, params dto.ListInvoicesParams) (*dto.ListInvoicesResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	invoices, nextToken, err := s.invoiceRepo.ListInvoices(ctx, tenantID, limit, params.NextToken)
	if err != nil {
		return nil, err
	}

	resp := &dto.ListInvoicesResponse{NextToken: nextToken, Invoices: make([]dto.InvoiceResponse, 0, len(invoices))}
	for i := range invoices {
		allocated, err := s.invoiceRepo.AllocatedAmount(ctx, tenantID, invoices[i].InvoiceID)
		if err != nil {
			return nil, err
		}
		resp.Invoices = append(resp.Invoices, dto.ToInvoiceResponse(&invoices[i], invoices[i].Outstanding(allocated)))
	}
	return resp, nil
}
