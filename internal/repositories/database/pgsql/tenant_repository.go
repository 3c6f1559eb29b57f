package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vitabuhq/vitabu-backend/internal/apperrors"
	"github.com/vitabuhq/vitabu-backend/internal/core/domain"
	portsrepo "github.com/vitabuhq/vitabu-backend/internal/core/ports/repositories"
	"github.com/vitabuhq/vitabu-backend/internal/models"
	"github.com/vitabuhq/vitabu-backend/internal/utils/mapping"
)

type PgxTenantRepository struct {
	BaseRepository
}

// newPgxTenantRepository creates a new repository for tenant data.
func newPgxTenantRepository(pool *pgxpool.Pool) portsrepo.TenantRepositoryFacade {
	return &PgxTenantRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.TenantRepositoryFacade = (*PgxTenantRepository)(nil)

// SaveTenant persists the tenant row and its seeded chart of accounts in one
// transaction, so a tenant either exists with a complete chart or not at all.
func (r *PgxTenantRepository) SaveTenant(ctx context.Context, tenant domain.Tenant, accounts []domain.ChartOfAccount) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	m := mapping.ToModelTenant(tenant)
	tenantQuery := `
		INSERT INTO tenants (tenant_id, name, invoice_prefix, currency_code, is_active, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err = tx.Exec(ctx, tenantQuery,
		m.TenantID,
		m.Name,
		m.InvoicePrefix,
		m.CurrencyCode,
		m.IsActive,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err, "") {
			return fmt.Errorf("tenant %s: %w", tenant.Name, apperrors.ErrDuplicate)
		}
		return apperrors.NewAppError(500, "failed to insert tenant "+m.TenantID, err)
	}

	batch := &pgx.Batch{}
	accountQuery := `
		INSERT INTO chart_of_accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	for _, account := range accounts {
		ma := mapping.ToModelAccount(account)
		batch.Queue(accountQuery,
			ma.AccountID,
			ma.TenantID,
			ma.Code,
			ma.Name,
			ma.Type,
			ma.Category,
			ma.IsActive,
			ma.CreatedAt,
			ma.CreatedBy,
			ma.LastUpdatedAt,
			ma.LastUpdatedBy,
		)
	}
	results := tx.SendBatch(ctx, batch)
	for range accounts {
		if _, err := results.Exec(); err != nil {
			results.Close()
			return apperrors.NewAppError(500, "failed to seed chart of accounts for tenant "+m.TenantID, err)
		}
	}
	if err := results.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to close chart seeding batch", err)
	}

	return r.Commit(ctx, tx)
}

func (r *PgxTenantRepository) FindTenantByID(ctx context.Context, tenantID string) (*domain.Tenant, error) {
	query := `
		SELECT tenant_id, name, invoice_prefix, currency_code, is_active, created_at, created_by, last_updated_at, last_updated_by
		FROM tenants
		WHERE tenant_id = $1;
	`
	var m models.Tenant
	err := r.Pool.QueryRow(ctx, query, tenantID).Scan(
		&m.TenantID,
		&m.Name,
		&m.InvoicePrefix,
		&m.CurrencyCode,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find tenant %s: %w", tenantID, err)
	}
	tenant := mapping.ToDomainTenant(m)
	return &tenant, nil
}
