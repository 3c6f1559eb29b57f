package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/vitabuhq/vitabu-backend/internal/apperrors"
	"github.com/vitabuhq/vitabu-backend/internal/core/domain"
	portsrepo "github.com/vitabuhq/vitabu-backend/internal/core/ports/repositories"
	portssvc "github.com/vitabuhq/vitabu-backend/internal/core/ports/services"
	"github.com/vitabuhq/vitabu-backend/internal/core/services"
	"github.com/vitabuhq/vitabu-backend/internal/dto"
)

type PaymentServiceTestSuite struct {
	suite.Suite
	mockPaymentRepo *MockPaymentRepository
	mockInvoiceRepo *MockInvoiceRepository
	mockAccountSvc  *MockAccountService
	mockGateway     *MockMpesaGateway
	service         portssvc.PaymentSvcFacade

	tenantID        string
	userID          string
	mpesaAccount    *domain.ChartOfAccount
	arAccount       *domain.ChartOfAccount
	depositsAccount *domain.ChartOfAccount
}

func (suite *PaymentServiceTestSuite) SetupTest() {
	suite.mockPaymentRepo = new(MockPaymentRepository)
	suite.mockInvoiceRepo = new(MockInvoiceRepository)
	suite.mockAccountSvc = new(MockAccountService)
	suite.mockGateway = new(MockMpesaGateway)
	suite.service = services.NewPaymentService(
		suite.mockPaymentRepo,
		suite.mockInvoiceRepo,
		suite.mockAccountSvc,
		suite.mockGateway,
	)

	suite.tenantID = uuid.NewString()
	suite.userID = uuid.NewString()
	suite.mpesaAccount = &domain.ChartOfAccount{AccountID: uuid.NewString(), Type: domain.Asset, Category: domain.CategoryMpesa, IsActive: true}
	suite.arAccount = &domain.ChartOfAccount{AccountID: uuid.NewString(), Type: domain.Asset, Category: domain.CategoryReceivable, IsActive: true}
	suite.depositsAccount = &domain.ChartOfAccount{AccountID: uuid.NewString(), Type: domain.Liability, Category: domain.CategoryCustomerDeposits, IsActive: true}
}

func (suite *PaymentServiceTestSuite) TestCreatePayment_AutoAllocatesLinkedInvoice() {
	invoiceID := uuid.NewString()
	amount := decimal.NewFromInt(1000)
	req := dto.CreatePaymentRequest{
		Amount:    amount,
		Method:    "MPESA",
		InvoiceID: &invoiceID,
	}

	suite.mockPaymentRepo.applyAllocated = amount
	suite.mockPaymentRepo.applyUnallocated = decimal.Zero

	suite.mockAccountSvc.On("GetPostingAccount", mock.Anything, suite.tenantID, domain.CategoryMpesa).
		Return(suite.mpesaAccount, nil)
	suite.mockAccountSvc.On("GetPostingAccount", mock.Anything, suite.tenantID, domain.CategoryReceivable).
		Return(suite.arAccount, nil)
	suite.mockPaymentRepo.On("ApplyPayment", mock.Anything, mock.MatchedBy(func(p domain.Payment) bool {
		return p.TransactionStatus == domain.TxnCompleted && p.Amount.Equal(amount)
	}), true, []domain.AllocationRequest{{InvoiceID: invoiceID, Amount: amount}}).
		Return(&portsrepo.PaymentApplication{Payment: domain.Payment{PaymentID: uuid.NewString(), Amount: amount}}, nil)

	result, err := suite.service.CreatePayment(context.Background(), suite.tenantID, req, suite.userID)

	suite.NoError(err)
	suite.True(result.Entry.TotalDebits.Equal(amount))
	suite.True(result.Entry.TotalDebits.Equal(result.Entry.TotalCredits))
	suite.Len(result.Entry.Lines, 2)
	suite.Equal(suite.mpesaAccount.AccountID, result.Entry.Lines[0].AccountID)
	suite.True(result.Entry.Lines[0].Debit.Equal(amount))
	suite.Equal(suite.arAccount.AccountID, result.Entry.Lines[1].AccountID)
	suite.True(result.Entry.Lines[1].Credit.Equal(amount))
}

func (suite *PaymentServiceTestSuite) TestCreatePayment_SplitsUnallocatedToDeposits() {
	invoiceID := uuid.NewString()
	amount := decimal.NewFromInt(1000)
	req := dto.CreatePaymentRequest{
		Amount:    amount,
		Method:    "BANK",
		AccountID: uuid.NewString(),
		Allocations: []dto.AllocationRequest{
			{InvoiceID: invoiceID, Amount: decimal.NewFromInt(400)},
		},
	}

	// The repository clamps the allocation to the invoice's outstanding
	// balance; here 400 lands on the invoice and 600 stays on account.
	suite.mockPaymentRepo.applyAllocated = decimal.NewFromInt(400)
	suite.mockPaymentRepo.applyUnallocated = decimal.NewFromInt(600)

	suite.mockAccountSvc.On("GetPostingAccount", mock.Anything, suite.tenantID, domain.CategoryReceivable).
		Return(suite.arAccount, nil)
	suite.mockAccountSvc.On("GetPostingAccount", mock.Anything, suite.tenantID, domain.CategoryCustomerDeposits).
		Return(suite.depositsAccount, nil)
	suite.mockPaymentRepo.On("ApplyPayment", mock.Anything, mock.Anything, true,
		[]domain.AllocationRequest{{InvoiceID: invoiceID, Amount: decimal.NewFromInt(400)}}).
		Return(&portsrepo.PaymentApplication{Payment: domain.Payment{PaymentID: uuid.NewString(), Amount: amount}}, nil)

	result, err := suite.service.CreatePayment(context.Background(), suite.tenantID, req, suite.userID)

	suite.NoError(err)
	suite.Len(result.Entry.Lines, 3)
	suite.True(result.Entry.Lines[0].Debit.Equal(amount))
	suite.Equal(suite.arAccount.AccountID, result.Entry.Lines[1].AccountID)
	suite.True(result.Entry.Lines[1].Credit.Equal(decimal.NewFromInt(400)))
	suite.Equal(suite.depositsAccount.AccountID, result.Entry.Lines[2].AccountID)
	suite.True(result.Entry.Lines[2].Credit.Equal(decimal.NewFromInt(600)))
	// Explicit AccountID means no asset account lookup by category.
	suite.mockAccountSvc.AssertNotCalled(suite.T(), "GetPostingAccount", mock.Anything, suite.tenantID, domain.CategoryBank)
}

func (suite *PaymentServiceTestSuite) TestCreatePayment_MissingPostingAccount() {
	req := dto.CreatePaymentRequest{Amount: decimal.NewFromInt(100), Method: "CASH"}

	suite.mockAccountSvc.On("GetPostingAccount", mock.Anything, suite.tenantID, domain.CategoryBank).
		Return(nil, services.ErrPostingAccountMissing)

	_, err := suite.service.CreatePayment(context.Background(), suite.tenantID, req, suite.userID)

	suite.ErrorIs(err, services.ErrPostingAccountMissing)
	suite.mockPaymentRepo.AssertNotCalled(suite.T(), "ApplyPayment", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PaymentServiceTestSuite) TestInitiateStkPayment_SavesPendingKeyedByCheckoutID() {
	invoiceID := uuid.NewString()
	req := dto.StkPushRequest{
		PhoneNumber: "254712345678",
		Amount:      decimal.NewFromInt(500),
		InvoiceID:   &invoiceID,
	}

	suite.mockAccountSvc.On("GetPostingAccount", mock.Anything, suite.tenantID, domain.CategoryMpesa).
		Return(suite.mpesaAccount, nil)
	suite.mockInvoiceRepo.On("FindInvoiceByID", mock.Anything, suite.tenantID, invoiceID).
		Return(&domain.Invoice{InvoiceID: invoiceID, InvoiceNumber: "INV-2026-0042"}, nil)
	suite.mockGateway.On("InitiateStkPush", mock.Anything, mock.MatchedBy(func(p portssvc.StkPushParams) bool {
		return p.PhoneNumber == "254712345678" && p.Reference == "INV-2026-0042"
	})).Return("ws_CO_123456", nil)
	suite.mockPaymentRepo.On("SavePendingPayment", mock.Anything, mock.MatchedBy(func(p domain.Payment) bool {
		return p.TransactionStatus == domain.TxnPending &&
			p.CheckoutRequestID != nil && *p.CheckoutRequestID == "ws_CO_123456" &&
			p.Method == domain.MethodMpesa
	})).Return(nil)

	payment, err := suite.service.InitiateStkPayment(context.Background(), suite.tenantID, req, suite.userID)

	suite.NoError(err)
	suite.Equal(domain.TxnPending, payment.TransactionStatus)
	suite.Equal("ws_CO_123456", *payment.CheckoutRequestID)
	suite.mockPaymentRepo.AssertExpectations(suite.T())
}

func (suite *PaymentServiceTestSuite) TestInitiateStkPayment_GatewayFailure() {
	req := dto.StkPushRequest{PhoneNumber: "254712345678", Amount: decimal.NewFromInt(500)}

	suite.mockAccountSvc.On("GetPostingAccount", mock.Anything, suite.tenantID, domain.CategoryMpesa).
		Return(suite.mpesaAccount, nil)
	suite.mockGateway.On("InitiateStkPush", mock.Anything, mock.Anything).
		Return("", errors.New("connection refused"))

	_, err := suite.service.InitiateStkPayment(context.Background(), suite.tenantID, req, suite.userID)

	suite.ErrorIs(err, services.ErrGatewayUnavailable)
	suite.mockPaymentRepo.AssertNotCalled(suite.T(), "SavePendingPayment", mock.Anything, mock.Anything)
}

func (suite *PaymentServiceTestSuite) TestCompletePayment_AppliesExistingPending() {
	invoiceID := uuid.NewString()
	amount := decimal.NewFromInt(750)
	pending := domain.Payment{
		PaymentID:         uuid.NewString(),
		TenantID:          suite.tenantID,
		Amount:            amount,
		Method:            domain.MethodMpesa,
		TransactionStatus: domain.TxnPending,
		AccountID:         suite.mpesaAccount.AccountID,
		InvoiceID:         &invoiceID,
	}

	suite.mockPaymentRepo.applyAllocated = amount
	suite.mockPaymentRepo.applyUnallocated = decimal.Zero

	suite.mockAccountSvc.On("GetPostingAccount", mock.Anything, suite.tenantID, domain.CategoryReceivable).
		Return(suite.arAccount, nil)
	suite.mockPaymentRepo.On("ApplyPayment", mock.Anything, mock.MatchedBy(func(p domain.Payment) bool {
		return p.PaymentID == pending.PaymentID && p.MpesaReceipt == "TGH7SK61SV"
	}), false, []domain.AllocationRequest{{InvoiceID: invoiceID, Amount: amount}}).
		Return(&portsrepo.PaymentApplication{Payment: pending}, nil)

	result, err := suite.service.CompletePayment(context.Background(), pending, "TGH7SK61SV", nil, "system")

	suite.NoError(err)
	suite.Equal("TGH7SK61SV", result.Entry.Reference)
}

func (suite *PaymentServiceTestSuite) TestCompletePayment_DuplicateCompletion() {
	pending := domain.Payment{
		PaymentID:         uuid.NewString(),
		TenantID:          suite.tenantID,
		Amount:            decimal.NewFromInt(100),
		TransactionStatus: domain.TxnPending,
		AccountID:         suite.mpesaAccount.AccountID,
	}

	suite.mockPaymentRepo.On("ApplyPayment", mock.Anything, mock.Anything, false, mock.Anything).
		Return(nil, apperrors.ErrDuplicate)

	_, err := suite.service.CompletePayment(context.Background(), pending, "TGH7SK61SV", nil, "system")

	suite.ErrorIs(err, apperrors.ErrDuplicate)
}

func (suite *PaymentServiceTestSuite) TestFailPayment_Delegates() {
	paymentID := uuid.NewString()
	suite.mockPaymentRepo.On("MarkPaymentFailed", mock.Anything, paymentID, "Request cancelled by user", "system").
		Return(nil)

	err := suite.service.FailPayment(context.Background(), paymentID, "Request cancelled by user", "system")

	suite.NoError(err)
	suite.mockPaymentRepo.AssertExpectations(suite.T())
}

func TestPaymentServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PaymentServiceTestSuite))
}
