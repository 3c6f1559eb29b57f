package services

import (
	"context"

	"github.com/vitabuhq/vitabu-backend/internal/core/domain"
	"github.com/vitabuhq/vitabu-backend/internal/dto"
)

// AccountSvcFacade exposes chart-of-accounts operations.
type AccountSvcFacade interface {
	// CreateAccount adds an account to a tenant's chart of accounts.
	CreateAccount(ctx context.Context, tenantID string, req dto.CreateAccountRequest, creatorUserID string) (*domain.ChartOfAccount, error)

	// GetAccountByID retrieves one account.
	GetAccountByID(ctx context.Context, tenantID, accountID string) (*domain.ChartOfAccount, error)

	// GetAccountsByIDs retrieves several accounts keyed by id.
	GetAccountsByIDs(ctx context.Context, tenantID string, accountIDs []string) (map[string]domain.ChartOfAccount, error)

	// GetPostingAccount resolves the tenant's designated account for a
	// posting role. Returns a configuration error if none is active.
	GetPostingAccount(ctx context.Context, tenantID string, category domain.AccountCategory) (*domain.ChartOfAccount, error)

	// ListAccounts returns the tenant's chart of accounts ordered by code.
	ListAccounts(ctx context.Context, tenantID string) ([]domain.ChartOfAccount, error)

	// DeactivateAccount disables an account for future posting. Accounts are
	// never deleted.
	DeactivateAccount(ctx context.Context, tenantID, accountID, updatedBy string) error
}
