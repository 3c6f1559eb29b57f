package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/vitabuhq/vitabu-backend/internal/core/domain"
)

// JournalReader defines read operations for the append-only ledger store.
type JournalReader interface {
	// FindEntryByID retrieves a journal entry header scoped to a tenant.
	FindEntryByID(ctx context.Context, tenantID, entryID string) (*domain.JournalEntry, error)

	// FindEntryBySource retrieves the journal entry derived from a source
	// document, if any. Used as the at-most-once posting guard.
	FindEntryBySource(ctx context.Context, tenantID string, source domain.SourceRef) (*domain.JournalEntry, error)

	// FindLinesByEntryID retrieves all lines of one entry.
	FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalLine, error)

	// ListEntries retrieves a paginated list of entries for a tenant using
	// token-based pagination.
	ListEntries(ctx context.Context, tenantID string, limit int, nextToken *string) ([]domain.JournalEntry, *string, error)

	// TrialBalance aggregates posted debits and credits per account.
	TrialBalance(ctx context.Context, tenantID string) ([]domain.TrialBalanceRow, error)
}

// JournalWriter defines write operations for the ledger store. Entries are
// only ever written inside the transaction of the business operation that
// produced them, so the writer operates on an open pgx.Tx.
type JournalWriter interface {
	// SaveEntryInTx inserts a balanced entry and its lines. The entry must
	// already satisfy the balance invariant; the repository re-checks it and
	// refuses to persist an unbalanced entry.
	SaveEntryInTx(ctx context.Context, tx pgx.Tx, entry domain.JournalEntry, lines []domain.JournalLine) error

	// SourceEntryExistsInTx reports whether an entry already exists for the
	// given source document, evaluated inside the caller's transaction.
	SourceEntryExistsInTx(ctx context.Context, tx pgx.Tx, tenantID string, source domain.SourceRef) (bool, error)
}

// JournalRepositoryFacade combines all journal repository interfaces.
type JournalRepositoryFacade interface {
	JournalReader
	JournalWriter
}
