package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/vitabuhq/vitabu-backend/internal/core/ports/repositories"
)

// NewRepositoryProvider wires up all pgsql repositories. The journal and
// counter repositories are injected where other repositories compose them
// into their transactions.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	accountRepo := newPgxAccountRepository(dbPool)
	journalRepo := newPgxJournalRepository(dbPool)
	counterRepo := newPgxCounterRepository(dbPool)

	return portsrepo.RepositoryProvider{
		AccountRepo:  accountRepo,
		JournalRepo:  journalRepo,
		CounterRepo:  counterRepo,
		InvoiceRepo:  newPgxInvoiceRepository(dbPool, counterRepo, journalRepo),
		PaymentRepo:  newPgxPaymentRepository(dbPool, journalRepo),
		CallbackRepo: newPgxCallbackRepository(dbPool),
		TenantRepo:   newPgxTenantRepository(dbPool),
		UserRepo:     newPgxUserRepository(dbPool),
	}
}
