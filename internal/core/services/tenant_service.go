package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vitabuhq/vitabu-backend/internal/core/domain"
	portsrepo "github.com/vitabuhq/vitabu-backend/internal/core/ports/repositories"
	portssvc "github.com/vitabuhq/vitabu-backend/internal/core/ports/services"
	"github.com/vitabuhq/vitabu-backend/internal/dto"
	"github.com/vitabuhq/vitabu-backend/internal/middleware"
)

// seedAccount is one row of the default chart a new tenant starts with.
type seedAccount struct {
	code     string
	name     string
	typ      domain.AccountType
	category domain.AccountCategory
}

// defaultChart covers every category automated posting needs, so a freshly
// provisioned tenant can invoice and receive payments immediately.
var defaultChart = []seedAccount{
	{"1000", "Bank", domain.Asset, domain.CategoryBank},
	{"1100", "M-Pesa", domain.Asset, domain.CategoryMpesa},
	{"1200", "Accounts Receivable", domain.Asset, domain.CategoryReceivable},
	{"2100", "Tax Payable", domain.Liability, domain.CategoryTaxPayable},
	{"2200", "Customer Deposits", domain.Liability, domain.CategoryCustomerDeposits},
	{"4000", "Sales Revenue", domain.Revenue, domain.CategorySalesRevenue},
}

// tenantService provisions tenants together with their default chart.
type tenantService struct {
	tenantRepo portsrepo.TenantRepositoryFacade
}

// NewTenantService creates a new tenant service.
func NewTenantService(tenantRepo portsrepo.TenantRepositoryFacade) portssvc.TenantSvcFacade {
	return &tenantService{tenantRepo: tenantRepo}
}

var _ portssvc.TenantSvcFacade = (*tenantService)(nil)

func (s *tenantService) CreateTenant(ctx context.Context, req dto.CreateTenantRequest, creatorUserID string) (*domain.Tenant, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	prefix := req.InvoicePrefix
	if prefix == "" {
		prefix = "INV"
	}

	now := time.Now()
	audit := domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     creatorUserID,
		LastUpdatedAt: now,
		LastUpdatedBy: creatorUserID,
	}
	tenant := domain.Tenant{
		TenantID:      uuid.NewString(),
		Name:          req.Name,
		InvoicePrefix: prefix,
		CurrencyCode:  req.CurrencyCode,
		IsActive:      true,
		AuditFields:   audit,
	}

	accounts := make([]domain.ChartOfAccount, 0, len(defaultChart))
	for _, seed := range defaultChart {
		accounts = append(accounts, domain.ChartOfAccount{
			AccountID:   uuid.NewString(),
			TenantID:    tenant.TenantID,
			Code:        seed.code,
			Name:        seed.name,
			Type:        seed.typ,
			Category:    seed.category,
			IsActive:    true,
			AuditFields: audit,
		})
	}

	if err := s.tenantRepo.SaveTenant(ctx, tenant, accounts); err != nil {
		logger.Error("Failed to provision tenant", "error", err, "name", req.Name)
		return nil, fmt.Errorf("failed to provision tenant: %w", err)
	}

	logger.Info("Tenant provisioned", "tenantID", tenant.TenantID, "name", tenant.Name)
	return &tenant, nil
}

func (s *tenantService) GetTenant(ctx context.Context, tenantID string) (*domain.Tenant, error) {
	return s.tenantRepo.FindTenantByID(ctx, tenantID)
}
