package pgsql

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vitabuhq/vitabu-backend/internal/apperrors"
	portsrepo "github.com/vitabuhq/vitabu-backend/internal/core/ports/repositories"
)

type PgxCounterRepository struct {
	BaseRepository
}

// newPgxCounterRepository creates a new repository for invoice counters.
func newPgxCounterRepository(pool *pgxpool.Pool) portsrepo.CounterRepositoryFacade {
	return &PgxCounterRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.CounterRepositoryFacade = (*PgxCounterRepository)(nil)

// NextInvoiceSequence increments the tenant-year counter row under its row
// lock. The row is created on first use; the insert races harmlessly because
// the UPDATE serializes every caller on the same row until commit.
func (r *PgxCounterRepository) NextInvoiceSequence(ctx context.Context, tx pgx.Tx, tenantID string, year int) (int64, error) {
	insertQuery := `
		INSERT INTO invoice_counters (tenant_id, year, sequence)
		VALUES ($1, $2, 0)
		ON CONFLICT (tenant_id, year) DO NOTHING;
	`
	if _, err := tx.Exec(ctx, insertQuery, tenantID, year); err != nil {
		return 0, apperrors.NewAppError(500, "failed to ensure invoice counter row", err)
	}

	var sequence int64
	updateQuery := `
		UPDATE invoice_counters
		SET sequence = sequence + 1
		WHERE tenant_id = $1 AND year = $2
		RETURNING sequence;
	`
	if err := tx.QueryRow(ctx, updateQuery, tenantID, year).Scan(&sequence); err != nil {
		return 0, apperrors.NewAppError(500, "failed to increment invoice counter", err)
	}
	return sequence, nil
}
