package pgsql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vitabuhq/vitabu-backend/internal/apperrors"
	"github.com/vitabuhq/vitabu-backend/internal/core/domain"
	portsrepo "github.com/vitabuhq/vitabu-backend/internal/core/ports/repositories"
)

type PgxCallbackRepository struct {
	BaseRepository
}

// newPgxCallbackRepository creates a new repository for the callback audit trail.
func newPgxCallbackRepository(pool *pgxpool.Pool) portsrepo.CallbackRepositoryFacade {
	return &PgxCallbackRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.CallbackRepositoryFacade = (*PgxCallbackRepository)(nil)

func (r *PgxCallbackRepository) SaveCallback(ctx context.Context, record domain.PaymentCallbackRecord) error {
	query := `
		INSERT INTO payment_callbacks (callback_id, checkout_request_id, kind, result_code, raw_payload, matched, needs_review, received_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := r.Pool.Exec(ctx, query,
		record.CallbackID,
		record.CheckoutRequestID,
		record.Kind,
		record.ResultCode,
		record.RawPayload,
		record.Matched,
		record.NeedsReview,
		record.ReceivedAt,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert callback record "+record.CallbackID, err)
	}
	return nil
}

func (r *PgxCallbackRepository) HasProcessedSTK(ctx context.Context, checkoutRequestID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM payment_callbacks
			WHERE checkout_request_id = $1 AND kind = $2 AND matched = TRUE
		);
	`
	var exists bool
	if err := r.Pool.QueryRow(ctx, query, checkoutRequestID, domain.CallbackSTK).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check processed STK callbacks for %s: %w", checkoutRequestID, err)
	}
	return exists, nil
}
