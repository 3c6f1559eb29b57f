package services

import (
	portsrepo "github.com/vitabuhq/vitabu-backend/internal/core/ports/repositories"
	portssvc "github.com/vitabuhq/vitabu-backend/internal/core/ports/services"
	"github.com/vitabuhq/vitabu-backend/pkg/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, gateway portssvc.MpesaGateway) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Tenant = NewTenantService(repos.TenantRepo)
	container.Auth = NewAuthService(repos.UserRepo, cfg.JWTSecret, cfg.JWTExpiryDuration, cfg.JWTIssuer)
	container.Account = NewAccountService(repos.AccountRepo)
	container.InvoiceNumber = NewInvoiceNumberService(repos.CounterRepo, repos.TenantRepo)
	container.Invoice = NewInvoiceService(repos.InvoiceRepo, repos.JournalRepo, repos.TenantRepo, container.Account)
	container.Payment = NewPaymentService(repos.PaymentRepo, repos.InvoiceRepo, container.Account, gateway)
	container.Callback = NewCallbackService(container.Payment, repos.PaymentRepo, repos.CallbackRepo, cfg.CallbackFallbackWindow)
	container.Ledger = NewLedgerService(repos.JournalRepo)

	return container
}

// Compile time checks that each service satisfies its facade.
var (
	_ portssvc.TenantSvcFacade        = (*tenantService)(nil)
	_ portssvc.AuthSvcFacade          = (*authService)(nil)
	_ portssvc.AccountSvcFacade       = (*accountService)(nil)
	_ portssvc.InvoiceNumberSvcFacade = (*invoiceNumberService)(nil)
	_ portssvc.InvoiceSvcFacade       = (*invoiceService)(nil)
	_ portssvc.PaymentSvcFacade       = (*paymentService)(nil)
	_ portssvc.CallbackSvcFacade      = (*callbackService)(nil)
	_ portssvc.LedgerSvcFacade        = (*ledgerService)(nil)
)
