package services

import (
	"context"

	"github.com/vitabuhq/vitabu-backend/internal/core/domain"
	"github.com/vitabuhq/vitabu-backend/internal/dto"
)

// TenantSvcFacade exposes tenant provisioning and lookup.
type TenantSvcFacade interface {
	// CreateTenant provisions a tenant together with its default chart of
	// accounts in one transaction.
	CreateTenant(ctx context.Context, req dto.CreateTenantRequest, creatorUserID string) (*domain.Tenant, error)

	// GetTenant retrieves a tenant.
	GetTenant(ctx context.Context, tenantID string) (*domain.Tenant, error)
}

// AuthSvcFacade authenticates operator accounts and issues bearer tokens.
type AuthSvcFacade interface {
	// Login verifies credentials and returns a signed JWT.
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)

	// CreateUser registers a new operator account.
	CreateUser(ctx context.Context, req dto.CreateUserRequest, creatorUserID string) (*domain.User, error)
}
