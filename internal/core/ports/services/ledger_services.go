package services

import (
	"context"

	"github.com/vitabuhq/vitabu-backend/internal/core/domain"
	"github.com/vitabuhq/vitabu-backend/internal/dto"
)

// LedgerSvcFacade exposes the read side of the ledger. All ledger writes go
// through invoice posting and payment processing; nothing else mutates it.
type LedgerSvcFacade interface {
	// GetEntry retrieves a journal entry with its lines.
	GetEntry(ctx context.Context, tenantID, entryID string) (*domain.JournalEntry, error)

	// GetEntryBySource retrieves the entry posted for a source document.
	GetEntryBySource(ctx context.Context, tenantID string, source domain.SourceRef) (*domain.JournalEntry, error)

	// ListEntries retrieves a paginated list of the tenant's entries.
	ListEntries(ctx context.Context, tenantID string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error)

	// TrialBalance aggregates the tenant's ledger per account and asserts
	// the grand totals match.
	TrialBalance(ctx context.Context, tenantID string) (*dto.TrialBalanceResponse, error)
}
