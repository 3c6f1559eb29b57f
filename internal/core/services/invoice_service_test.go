package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/vitabuhq/vitabu-backend/internal/apperrors"
	"github.com/vitabuhq/vitabu-backend/internal/core/domain"
	portssvc "github.com/vitabuhq/vitabu-backend/internal/core/ports/services"
	"github.com/vitabuhq/vitabu-backend/internal/core/services"
	"github.com/vitabuhq/vitabu-backend/internal/dto"
)

type InvoiceServiceTestSuite struct {
	suite.Suite
	mockInvoiceRepo *MockInvoiceRepository
	mockJournalRepo *MockJournalRepository
	mockTenantRepo  *MockTenantRepository
	mockAccountSvc  *MockAccountService
	service         portssvc.InvoiceSvcFacade

	tenantID  string
	userID    string
	arAccount *domain.ChartOfAccount
}

func (suite *InvoiceServiceTestSuite) SetupTest() {
	suite.mockInvoiceRepo = new(MockInvoiceRepository)
	suite.mockJournalRepo = new(MockJournalRepository)
	suite.mockTenantRepo = new(MockTenantRepository)
	suite.mockAccountSvc = new(MockAccountService)
	suite.service = services.NewInvoiceService(
		suite.mockInvoiceRepo,
		suite.mockJournalRepo,
		suite.mockTenantRepo,
		suite.mockAccountSvc,
	)

	suite.tenantID = uuid.NewString()
	suite.userID = uuid.NewString()
	suite.arAccount = &domain.ChartOfAccount{
		AccountID: uuid.NewString(),
		TenantID:  suite.tenantID,
		Code:      "1200",
		Name:      "Accounts Receivable",
		Type:      domain.Asset,
		Category:  domain.CategoryReceivable,
		IsActive:  true,
	}
}

func (suite *InvoiceServiceTestSuite) revenueAccount(id string) domain.ChartOfAccount {
	return domain.ChartOfAccount{
		AccountID: id,
		TenantID:  suite.tenantID,
		Code:      "4000",
		Name:      "Sales Revenue",
		Type:      domain.Revenue,
		Category:  domain.CategorySalesRevenue,
		IsActive:  true,
	}
}

func (suite *InvoiceServiceTestSuite) TestCreateInvoice_ComputesTotalsServerSide() {
	salesAccountID := uuid.NewString()
	req := dto.CreateInvoiceRequest{
		ContactID: uuid.NewString(),
		DueDate:   time.Now().Add(14 * 24 * time.Hour),
		Lines: []dto.CreateInvoiceLineRequest{
			{
				Description:    "Consulting",
				Quantity:       decimal.NewFromInt(2),
				UnitPrice:      decimal.NewFromInt(300),
				TaxRate:        decimal.NewFromInt(16),
				SalesAccountID: salesAccountID,
			},
			{
				Description:    "Hosting",
				Quantity:       decimal.NewFromInt(1),
				UnitPrice:      decimal.NewFromInt(400),
				SalesAccountID: salesAccountID,
			},
		},
	}

	suite.mockTenantRepo.On("FindTenantByID", mock.Anything, suite.tenantID).
		Return(&domain.Tenant{TenantID: suite.tenantID, InvoicePrefix: "INV"}, nil)
	suite.mockAccountSvc.On("GetAccountsByIDs", mock.Anything, suite.tenantID, []string{salesAccountID}).
		Return(map[string]domain.ChartOfAccount{salesAccountID: suite.revenueAccount(salesAccountID)}, nil)
	suite.mockInvoiceRepo.On("SaveInvoice", mock.Anything, mock.MatchedBy(func(inv domain.Invoice) bool {
		return inv.Subtotal.Equal(decimal.NewFromInt(1000)) &&
			inv.TaxAmount.Equal(decimal.NewFromInt(96)) &&
			inv.Total.Equal(decimal.NewFromInt(1096)) &&
			inv.Status == domain.InvoiceDraft &&
			inv.PaymentStatus == domain.PaymentUnpaid
	}), mock.Anything, domain.InvoiceNumbering{Prefix: "INV", Year: time.Now().Year()}).
		Return("INV-2026-0001", nil)

	invoice, err := suite.service.CreateInvoice(context.Background(), suite.tenantID, req, suite.userID)

	suite.NoError(err)
	suite.Equal("INV-2026-0001", invoice.InvoiceNumber)
	suite.True(invoice.Total.Equal(decimal.NewFromInt(1096)))
	suite.Len(invoice.Lines, 2)
	suite.True(invoice.Lines[0].LineTotal.Equal(decimal.NewFromInt(600)))
	suite.mockInvoiceRepo.AssertExpectations(suite.T())
}

func (suite *InvoiceServiceTestSuite) TestCreateInvoice_RejectsNonRevenueAccount() {
	salesAccountID := uuid.NewString()
	expenseAccount := suite.revenueAccount(salesAccountID)
	expenseAccount.Type = domain.Expense

	req := dto.CreateInvoiceRequest{
		ContactID: uuid.NewString(),
		DueDate:   time.Now(),
		Lines: []dto.CreateInvoiceLineRequest{
			{Description: "Item", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(10), SalesAccountID: salesAccountID},
		},
	}

	suite.mockTenantRepo.On("FindTenantByID", mock.Anything, suite.tenantID).
		Return(&domain.Tenant{TenantID: suite.tenantID, InvoicePrefix: "INV"}, nil)
	suite.mockAccountSvc.On("GetAccountsByIDs", mock.Anything, suite.tenantID, []string{salesAccountID}).
		Return(map[string]domain.ChartOfAccount{salesAccountID: expenseAccount}, nil)

	_, err := suite.service.CreateInvoice(context.Background(), suite.tenantID, req, suite.userID)

	suite.ErrorIs(err, services.ErrSalesAccountInvalid)
	suite.mockInvoiceRepo.AssertNotCalled(suite.T(), "SaveInvoice", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *InvoiceServiceTestSuite) TestCreateInvoice_RejectsUnknownAccount() {
	salesAccountID := uuid.NewString()
	req := dto.CreateInvoiceRequest{
		ContactID: uuid.NewString(),
		DueDate:   time.Now(),
		Lines: []dto.CreateInvoiceLineRequest{
			{Description: "Item", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(10), SalesAccountID: salesAccountID},
		},
	}

	suite.mockTenantRepo.On("FindTenantByID", mock.Anything, suite.tenantID).
		Return(&domain.Tenant{TenantID: suite.tenantID, InvoicePrefix: "INV"}, nil)
	suite.mockAccountSvc.On("GetAccountsByIDs", mock.Anything, suite.tenantID, []string{salesAccountID}).
		Return(map[string]domain.ChartOfAccount{}, nil)

	_, err := suite.service.CreateInvoice(context.Background(), suite.tenantID, req, suite.userID)

	suite.ErrorIs(err, services.ErrSalesAccountInvalid)
}

// sentInvoice builds a draft invoice with two lines posting to different
// revenue accounts, 1000 net plus 96 tax.
func (suite *InvoiceServiceTestSuite) draftInvoice(salesA, salesB string) *domain.Invoice {
	invoiceID := uuid.NewString()
	invoice := &domain.Invoice{
		InvoiceID:     invoiceID,
		TenantID:      suite.tenantID,
		InvoiceNumber: "INV-2026-0042",
		Status:        domain.InvoiceDraft,
		PaymentStatus: domain.PaymentUnpaid,
		Lines: []domain.InvoiceLine{
			{
				LineID:         uuid.NewString(),
				InvoiceID:      invoiceID,
				Quantity:       decimal.NewFromInt(2),
				UnitPrice:      decimal.NewFromInt(300),
				TaxRate:        decimal.NewFromInt(16),
				SalesAccountID: salesA,
			},
			{
				LineID:         uuid.NewString(),
				InvoiceID:      invoiceID,
				Quantity:       decimal.NewFromInt(1),
				UnitPrice:      decimal.NewFromInt(400),
				SalesAccountID: salesB,
			},
		},
	}
	invoice.ComputeTotals()
	return invoice
}

func (suite *InvoiceServiceTestSuite) TestSendInvoice_PostsBalancedEntry() {
	salesA := uuid.NewString()
	salesB := uuid.NewString()
	taxAccountID := uuid.NewString()
	invoice := suite.draftInvoice(salesA, salesB)

	suite.mockInvoiceRepo.On("FindInvoiceByID", mock.Anything, suite.tenantID, invoice.InvoiceID).
		Return(invoice, nil)
	suite.mockInvoiceRepo.On("FindLinesByInvoiceID", mock.Anything, invoice.InvoiceID).
		Return(invoice.Lines, nil)
	suite.mockAccountSvc.On("GetPostingAccount", mock.Anything, suite.tenantID, domain.CategoryReceivable).
		Return(suite.arAccount, nil)
	suite.mockAccountSvc.On("GetPostingAccount", mock.Anything, suite.tenantID, domain.CategoryTaxPayable).
		Return(&domain.ChartOfAccount{AccountID: taxAccountID, Type: domain.Liability, IsActive: true}, nil)

	var posted domain.JournalEntry
	suite.mockInvoiceRepo.On("MarkInvoiceSent", mock.Anything, suite.tenantID, invoice.InvoiceID, mock.MatchedBy(func(entry domain.JournalEntry) bool {
		posted = entry
		return entry.Source == domain.InvoiceSource(invoice.InvoiceID)
	})).Return(nil)

	entry, err := suite.service.SendInvoice(context.Background(), suite.tenantID, invoice.InvoiceID, suite.userID)

	suite.NoError(err)
	suite.True(entry.TotalDebits.Equal(entry.TotalCredits))
	suite.True(entry.TotalDebits.Equal(invoice.Total))
	suite.Equal(invoice.InvoiceNumber, entry.Reference)
	suite.Len(posted.Lines, 4)

	// AR debit for the gross total, then one credit per sales account in
	// line order, then the tax credit.
	suite.Equal(suite.arAccount.AccountID, posted.Lines[0].AccountID)
	suite.True(posted.Lines[0].Debit.Equal(invoice.Total))
	suite.Equal(salesA, posted.Lines[1].AccountID)
	suite.True(posted.Lines[1].Credit.Equal(decimal.NewFromInt(600)))
	suite.Equal(salesB, posted.Lines[2].AccountID)
	suite.True(posted.Lines[2].Credit.Equal(decimal.NewFromInt(400)))
	suite.Equal(taxAccountID, posted.Lines[3].AccountID)
	suite.True(posted.Lines[3].Credit.Equal(invoice.TaxAmount))
}

func (suite *InvoiceServiceTestSuite) TestSendInvoice_NoTaxLineWhenTaxFree() {
	salesA := uuid.NewString()
	invoiceID := uuid.NewString()
	invoice := &domain.Invoice{
		InvoiceID:     invoiceID,
		TenantID:      suite.tenantID,
		InvoiceNumber: "INV-2026-0007",
		Status:        domain.InvoiceDraft,
		Lines: []domain.InvoiceLine{
			{LineID: uuid.NewString(), InvoiceID: invoiceID, Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(500), SalesAccountID: salesA},
		},
	}
	invoice.ComputeTotals()

	suite.mockInvoiceRepo.On("FindInvoiceByID", mock.Anything, suite.tenantID, invoiceID).Return(invoice, nil)
	suite.mockInvoiceRepo.On("FindLinesByInvoiceID", mock.Anything, invoiceID).Return(invoice.Lines, nil)
	suite.mockAccountSvc.On("GetPostingAccount", mock.Anything, suite.tenantID, domain.CategoryReceivable).
		Return(suite.arAccount, nil)
	suite.mockInvoiceRepo.On("MarkInvoiceSent", mock.Anything, suite.tenantID, invoiceID, mock.Anything).Return(nil)

	entry, err := suite.service.SendInvoice(context.Background(), suite.tenantID, invoiceID, suite.userID)

	suite.NoError(err)
	suite.Len(entry.Lines, 2)
	suite.mockAccountSvc.AssertNotCalled(suite.T(), "GetPostingAccount", mock.Anything, suite.tenantID, domain.CategoryTaxPayable)
}

func (suite *InvoiceServiceTestSuite) TestSendInvoice_AlreadySentReturnsExistingEntry() {
	invoiceID := uuid.NewString()
	existingEntry := &domain.JournalEntry{
		EntryID:  uuid.NewString(),
		TenantID: suite.tenantID,
		Source:   domain.InvoiceSource(invoiceID),
	}

	suite.mockInvoiceRepo.On("FindInvoiceByID", mock.Anything, suite.tenantID, invoiceID).
		Return(&domain.Invoice{InvoiceID: invoiceID, TenantID: suite.tenantID, Status: domain.InvoiceSent}, nil)
	suite.mockJournalRepo.On("FindEntryBySource", mock.Anything, suite.tenantID, domain.InvoiceSource(invoiceID)).
		Return(existingEntry, nil)
	suite.mockJournalRepo.On("FindLinesByEntryID", mock.Anything, existingEntry.EntryID).
		Return([]domain.JournalLine{}, nil)

	entry, err := suite.service.SendInvoice(context.Background(), suite.tenantID, invoiceID, suite.userID)

	suite.NoError(err)
	suite.Equal(existingEntry.EntryID, entry.EntryID)
	suite.mockInvoiceRepo.AssertNotCalled(suite.T(), "MarkInvoiceSent", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *InvoiceServiceTestSuite) TestSendInvoice_ConcurrentSendReturnsExistingEntry() {
	salesA := uuid.NewString()
	invoice := suite.draftInvoice(salesA, salesA)
	existingEntry := &domain.JournalEntry{
		EntryID:  uuid.NewString(),
		TenantID: suite.tenantID,
		Source:   domain.InvoiceSource(invoice.InvoiceID),
	}

	suite.mockInvoiceRepo.On("FindInvoiceByID", mock.Anything, suite.tenantID, invoice.InvoiceID).Return(invoice, nil)
	suite.mockInvoiceRepo.On("FindLinesByInvoiceID", mock.Anything, invoice.InvoiceID).Return(invoice.Lines, nil)
	suite.mockAccountSvc.On("GetPostingAccount", mock.Anything, suite.tenantID, domain.CategoryReceivable).
		Return(suite.arAccount, nil)
	suite.mockAccountSvc.On("GetPostingAccount", mock.Anything, suite.tenantID, domain.CategoryTaxPayable).
		Return(&domain.ChartOfAccount{AccountID: uuid.NewString()}, nil)
	suite.mockInvoiceRepo.On("MarkInvoiceSent", mock.Anything, suite.tenantID, invoice.InvoiceID, mock.Anything).
		Return(apperrors.ErrDuplicate)
	suite.mockJournalRepo.On("FindEntryBySource", mock.Anything, suite.tenantID, domain.InvoiceSource(invoice.InvoiceID)).
		Return(existingEntry, nil)
	suite.mockJournalRepo.On("FindLinesByEntryID", mock.Anything, existingEntry.EntryID).
		Return([]domain.JournalLine{}, nil)

	entry, err := suite.service.SendInvoice(context.Background(), suite.tenantID, invoice.InvoiceID, suite.userID)

	suite.NoError(err)
	suite.Equal(existingEntry.EntryID, entry.EntryID)
}

func (suite *InvoiceServiceTestSuite) TestSendInvoice_MissingPostingAccount() {
	salesA := uuid.NewString()
	invoice := suite.draftInvoice(salesA, salesA)

	suite.mockInvoiceRepo.On("FindInvoiceByID", mock.Anything, suite.tenantID, invoice.InvoiceID).Return(invoice, nil)
	suite.mockInvoiceRepo.On("FindLinesByInvoiceID", mock.Anything, invoice.InvoiceID).Return(invoice.Lines, nil)
	suite.mockAccountSvc.On("GetPostingAccount", mock.Anything, suite.tenantID, domain.CategoryReceivable).
		Return(nil, services.ErrPostingAccountMissing)

	_, err := suite.service.SendInvoice(context.Background(), suite.tenantID, invoice.InvoiceID, suite.userID)

	suite.ErrorIs(err, services.ErrPostingAccountMissing)
	suite.mockInvoiceRepo.AssertNotCalled(suite.T(), "MarkInvoiceSent", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *InvoiceServiceTestSuite) TestGetInvoice_DerivesOutstanding() {
	invoiceID := uuid.NewString()
	invoice := &domain.Invoice{
		InvoiceID: invoiceID,
		TenantID:  suite.tenantID,
		Total:     decimal.NewFromInt(1000),
	}

	suite.mockInvoiceRepo.On("FindInvoiceByID", mock.Anything, suite.tenantID, invoiceID).Return(invoice, nil)
	suite.mockInvoiceRepo.On("FindLinesByInvoiceID", mock.Anything, invoiceID).Return([]domain.InvoiceLine{}, nil)
	suite.mockInvoiceRepo.On("AllocatedAmount", mock.Anything, suite.tenantID, invoiceID).
		Return(decimal.NewFromInt(400), nil)

	_, outstanding, err := suite.service.GetInvoice(context.Background(), suite.tenantID, invoiceID)

	suite.NoError(err)
	suite.True(outstanding.Equal(decimal.NewFromInt(600)))
}

func (suite *InvoiceServiceTestSuite) TestGetInvoice_NotFound() {
	invoiceID := uuid.NewString()
	suite.mockInvoiceRepo.On("FindInvoiceByID", mock.Anything, suite.tenantID, invoiceID).
		Return(nil, apperrors.ErrNotFound)

	_, _, err := suite.service.GetInvoice(context.Background(), suite.tenantID, invoiceID)

	assert.ErrorIs(suite.T(), err, apperrors.ErrNotFound)
}

func TestInvoiceServiceTestSuite(t *testing.T) {
	suite.Run(t, new(InvoiceServiceTestSuite))
}
