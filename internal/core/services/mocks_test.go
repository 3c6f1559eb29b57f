package services_test

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/vitabuhq/vitabu-backend/internal/core/domain"
	portsrepo "github.com/vitabuhq/vitabu-backend/internal/core/ports/repositories"
	portssvc "github.com/vitabuhq/vitabu-backend/internal/core/ports/services"
	"github.com/vitabuhq/vitabu-backend/internal/dto"
)

// MockAccountRepository is a mock type for the AccountRepositoryFacade interface
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, tenantID, accountID string) (*domain.ChartOfAccount, error) {
	args := m.Called(ctx, tenantID, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ChartOfAccount), args.Error(1)
}

func (m *MockAccountRepository) FindAccountsByIDs(ctx context.Context, tenantID string, accountIDs []string) (map[string]domain.ChartOfAccount, error) {
	args := m.Called(ctx, tenantID, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.ChartOfAccount), args.Error(1)
}

func (m *MockAccountRepository) FindAccountByCategory(ctx context.Context, tenantID string, category domain.AccountCategory) (*domain.ChartOfAccount, error) {
	args := m.Called(ctx, tenantID, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ChartOfAccount), args.Error(1)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context, tenantID string) ([]domain.ChartOfAccount, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ChartOfAccount), args.Error(1)
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.ChartOfAccount) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) SetAccountActive(ctx context.Context, tenantID, accountID string, active bool, updatedBy string) error {
	args := m.Called(ctx, tenantID, accountID, active, updatedBy)
	return args.Error(0)
}

// MockJournalRepository is a mock type for the JournalRepositoryFacade interface
type MockJournalRepository struct {
	mock.Mock
}

func (m *MockJournalRepository) FindEntryByID(ctx context.Context, tenantID, entryID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, tenantID, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) FindEntryBySource(ctx context.Context, tenantID string, source domain.SourceRef) (*domain.JournalEntry, error) {
	args := m.Called(ctx, tenantID, source)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalLine, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalLine), args.Error(1)
}

func (m *MockJournalRepository) ListEntries(ctx context.Context, tenantID string, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	args := m.Called(ctx, tenantID, limit, nextToken)
	var entries []domain.JournalEntry
	if args.Get(0) != nil {
		entries = args.Get(0).([]domain.JournalEntry)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return entries, token, args.Error(2)
}

func (m *MockJournalRepository) TrialBalance(ctx context.Context, tenantID string) ([]domain.TrialBalanceRow, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TrialBalanceRow), args.Error(1)
}

func (m *MockJournalRepository) SaveEntryInTx(ctx context.Context, tx pgx.Tx, entry domain.JournalEntry, lines []domain.JournalLine) error {
	args := m.Called(ctx, tx, entry, lines)
	return args.Error(0)
}

func (m *MockJournalRepository) SourceEntryExistsInTx(ctx context.Context, tx pgx.Tx, tenantID string, source domain.SourceRef) (bool, error) {
	args := m.Called(ctx, tx, tenantID, source)
	return args.Bool(0), args.Error(1)
}

// MockInvoiceRepository is a mock type for the InvoiceRepositoryFacade interface
type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) FindInvoiceByID(ctx context.Context, tenantID, invoiceID string) (*domain.Invoice, error) {
	args := m.Called(ctx, tenantID, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindLinesByInvoiceID(ctx context.Context, invoiceID string) ([]domain.InvoiceLine, error) {
	args := m.Called(ctx, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.InvoiceLine), args.Error(1)
}

func (m *MockInvoiceRepository) AllocatedAmount(ctx context.Context, tenantID, invoiceID string) (decimal.Decimal, error) {
	args := m.Called(ctx, tenantID, invoiceID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockInvoiceRepository) ListInvoices(ctx context.Context, tenantID string, limit int, nextToken *string) ([]domain.Invoice, *string, error) {
	args := m.Called(ctx, tenantID, limit, nextToken)
	var invoices []domain.Invoice
	if args.Get(0) != nil {
		invoices = args.Get(0).([]domain.Invoice)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return invoices, token, args.Error(2)
}

func (m *MockInvoiceRepository) SaveInvoice(ctx context.Context, invoice domain.Invoice, lines []domain.InvoiceLine, numbering domain.InvoiceNumbering) (string, error) {
	args := m.Called(ctx, invoice, lines, numbering)
	return args.String(0), args.Error(1)
}

func (m *MockInvoiceRepository) MarkInvoiceSent(ctx context.Context, tenantID, invoiceID string, entry domain.JournalEntry) error {
	args := m.Called(ctx, tenantID, invoiceID, entry)
	return args.Error(0)
}

// MockPaymentRepository is a mock type for the PaymentRepositoryFacade
// interface. ApplyPayment runs the entry builder with the configured
// allocated/unallocated split so tests can assert the derived entry.
type MockPaymentRepository struct {
	mock.Mock
	applyAllocated   decimal.Decimal
	applyUnallocated decimal.Decimal
}

func (m *MockPaymentRepository) FindPaymentByID(ctx context.Context, tenantID, paymentID string) (*domain.Payment, error) {
	args := m.Called(ctx, tenantID, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindPaymentByCheckoutRequestID(ctx context.Context, checkoutRequestID string) (*domain.Payment, error) {
	args := m.Called(ctx, checkoutRequestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindPendingByPhoneAmount(ctx context.Context, phone string, amount decimal.Decimal, since time.Time) ([]domain.Payment, error) {
	args := m.Called(ctx, phone, amount, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindAllocationsByPaymentID(ctx context.Context, paymentID string) ([]domain.PaymentAllocation, error) {
	args := m.Called(ctx, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PaymentAllocation), args.Error(1)
}

func (m *MockPaymentRepository) SavePendingPayment(ctx context.Context, payment domain.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) ApplyPayment(ctx context.Context, payment domain.Payment, isNew bool, requests []domain.AllocationRequest, buildEntry portsrepo.PaymentEntryBuilder) (*portsrepo.PaymentApplication, error) {
	args := m.Called(ctx, payment, isNew, requests)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	application := args.Get(0).(*portsrepo.PaymentApplication)
	entry, err := buildEntry(m.applyAllocated, m.applyUnallocated)
	if err != nil {
		return nil, err
	}
	application.Entry = entry
	return application, args.Error(1)
}

func (m *MockPaymentRepository) MarkPaymentFailed(ctx context.Context, paymentID, resultDesc, updatedBy string) error {
	args := m.Called(ctx, paymentID, resultDesc, updatedBy)
	return args.Error(0)
}

// MockCallbackRepository is a mock type for the CallbackRepositoryFacade interface
type MockCallbackRepository struct {
	mock.Mock
}

func (m *MockCallbackRepository) SaveCallback(ctx context.Context, record domain.PaymentCallbackRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockCallbackRepository) HasProcessedSTK(ctx context.Context, checkoutRequestID string) (bool, error) {
	args := m.Called(ctx, checkoutRequestID)
	return args.Bool(0), args.Error(1)
}

// MockTenantRepository is a mock type for the TenantRepositoryFacade interface
type MockTenantRepository struct {
	mock.Mock
}

func (m *MockTenantRepository) SaveTenant(ctx context.Context, tenant domain.Tenant, accounts []domain.ChartOfAccount) error {
	args := m.Called(ctx, tenant, accounts)
	return args.Error(0)
}

func (m *MockTenantRepository) FindTenantByID(ctx context.Context, tenantID string) (*domain.Tenant, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Tenant), args.Error(1)
}

// MockAccountService is a mock type for the AccountSvcFacade interface
type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) CreateAccount(ctx context.Context, tenantID string, req dto.CreateAccountRequest, creatorUserID string) (*domain.ChartOfAccount, error) {
	args := m.Called(ctx, tenantID, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ChartOfAccount), args.Error(1)
}

func (m *MockAccountService) GetAccountByID(ctx context.Context, tenantID, accountID string) (*domain.ChartOfAccount, error) {
	args := m.Called(ctx, tenantID, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ChartOfAccount), args.Error(1)
}

func (m *MockAccountService) GetAccountsByIDs(ctx context.Context, tenantID string, accountIDs []string) (map[string]domain.ChartOfAccount, error) {
	args := m.Called(ctx, tenantID, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.ChartOfAccount), args.Error(1)
}

func (m *MockAccountService) GetPostingAccount(ctx context.Context, tenantID string, category domain.AccountCategory) (*domain.ChartOfAccount, error) {
	args := m.Called(ctx, tenantID, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ChartOfAccount), args.Error(1)
}

func (m *MockAccountService) ListAccounts(ctx context.Context, tenantID string) ([]domain.ChartOfAccount, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ChartOfAccount), args.Error(1)
}

func (m *MockAccountService) DeactivateAccount(ctx context.Context, tenantID, accountID, updatedBy string) error {
	args := m.Called(ctx, tenantID, accountID, updatedBy)
	return args.Error(0)
}

// MockPaymentService is a mock type for the PaymentSvcFacade interface
type MockPaymentService struct {
	mock.Mock
}

func (m *MockPaymentService) CreatePayment(ctx context.Context, tenantID string, req dto.CreatePaymentRequest, creatorUserID string) (*portssvc.PaymentResult, error) {
	args := m.Called(ctx, tenantID, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*portssvc.PaymentResult), args.Error(1)
}

func (m *MockPaymentService) InitiateStkPayment(ctx context.Context, tenantID string, req dto.StkPushRequest, creatorUserID string) (*domain.Payment, error) {
	args := m.Called(ctx, tenantID, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockPaymentService) CompletePayment(ctx context.Context, payment domain.Payment, receipt string, allocations []domain.AllocationRequest, userID string) (*portssvc.PaymentResult, error) {
	args := m.Called(ctx, payment, receipt, allocations, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*portssvc.PaymentResult), args.Error(1)
}

func (m *MockPaymentService) FailPayment(ctx context.Context, paymentID, resultDesc, userID string) error {
	args := m.Called(ctx, paymentID, resultDesc, userID)
	return args.Error(0)
}

func (m *MockPaymentService) GetPayment(ctx context.Context, tenantID, paymentID string) (*domain.Payment, []domain.PaymentAllocation, error) {
	args := m.Called(ctx, tenantID, paymentID)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var allocations []domain.PaymentAllocation
	if args.Get(1) != nil {
		allocations = args.Get(1).([]domain.PaymentAllocation)
	}
	return args.Get(0).(*domain.Payment), allocations, args.Error(2)
}

// MockMpesaGateway is a mock type for the MpesaGateway interface
type MockMpesaGateway struct {
	mock.Mock
}

func (m *MockMpesaGateway) InitiateStkPush(ctx context.Context, params portssvc.StkPushParams) (string, error) {
	args := m.Called(ctx, params)
	return args.String(0), args.Error(1)
}
