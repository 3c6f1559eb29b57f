package repositories

import (
	"context"

	"github.com/vitabuhq/vitabu-backend/internal/core/domain"
)

// TenantRepositoryFacade defines operations for tenant provisioning and lookup.
type TenantRepositoryFacade interface {
	// SaveTenant persists a tenant and its seeded chart of accounts in one
	// transaction.
	SaveTenant(ctx context.Context, tenant domain.Tenant, accounts []domain.ChartOfAccount) error

	// FindTenantByID retrieves a tenant.
	FindTenantByID(ctx context.Context, tenantID string) (*domain.Tenant, error)
}

// UserRepositoryFacade defines operations for operator accounts.
type UserRepositoryFacade interface {
	// SaveUser persists a new user with a bcrypt password hash.
	SaveUser(ctx context.Context, user domain.User, passwordHash string) error

	// FindUserByUsername retrieves a user and their password hash.
	FindUserByUsername(ctx context.Context, username string) (*domain.User, string, error)
}
