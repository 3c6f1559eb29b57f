package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// CounterRepositoryFacade hands out per-tenant, per-year invoice sequence
// values under an exclusive row lock. The lock-and-increment always happens
// inside the caller's transaction so document numbers roll back with the
// documents that claimed them.
type CounterRepositoryFacade interface {
	TransactionManager

	// NextInvoiceSequence creates the counter row for the tenant-year on
	// first use, then increments it under its row lock and returns the new
	// sequence value. The lock is held until the transaction ends.
	NextInvoiceSequence(ctx context.Context, tx pgx.Tx, tenantID string, year int) (int64, error)
}
