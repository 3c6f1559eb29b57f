package repositories

import (
	"context"

	"github.com/vitabuhq/vitabu-backend/internal/core/domain"
)

// AccountReader defines read operations for chart-of-accounts data. Every
// method takes the tenant id explicitly; cross-tenant reads are impossible by
// construction.
type AccountReader interface {
	// FindAccountByID retrieves one account scoped to a tenant.
	FindAccountByID(ctx context.Context, tenantID, accountID string) (*domain.ChartOfAccount, error)

	// FindAccountsByIDs retrieves multiple accounts scoped to a tenant,
	// keyed by account id. Missing ids are simply absent from the map.
	FindAccountsByIDs(ctx context.Context, tenantID string, accountIDs []string) (map[string]domain.ChartOfAccount, error)

	// FindAccountByCategory retrieves the single active account a tenant has
	// designated for a posting role (AR control, tax payable, etc.).
	FindAccountByCategory(ctx context.Context, tenantID string, category domain.AccountCategory) (*domain.ChartOfAccount, error)

	// ListAccounts retrieves all accounts for a tenant ordered by code.
	ListAccounts(ctx context.Context, tenantID string) ([]domain.ChartOfAccount, error)
}

// AccountWriter defines write operations for chart-of-accounts data.
type AccountWriter interface {
	// SaveAccount persists a new account.
	SaveAccount(ctx context.Context, account domain.ChartOfAccount) error

	// SetAccountActive activates or deactivates an account. Accounts are
	// never deleted once referenced by a journal line.
	SetAccountActive(ctx context.Context, tenantID, accountID string, active bool, updatedBy string) error
}

// AccountRepositoryFacade combines all account repository interfaces.
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}
