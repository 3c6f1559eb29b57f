package services

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/vitabuhq/vitabu-backend/internal/core/domain"
	portsrepo "github.com/vitabuhq/vitabu-backend/internal/core/ports/repositories"
	portssvc "github.com/vitabuhq/vitabu-backend/internal/core/ports/services"
	"github.com/vitabuhq/vitabu-backend/internal/dto"
)

// ledgerService is the read-only view over the journal store.
type ledgerService struct {
	journalRepo portsrepo.JournalRepositoryFacade
}

// NewLedgerService creates a new ledger service.
func NewLedgerService(journalRepo portsrepo.JournalRepositoryFacade) portssvc.LedgerSvcFacade {
	return &ledgerService{journalRepo: journalRepo}
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

func (s *ledgerService) GetEntry(ctx context.Context, tenantID, entryID string) (*domain.JournalEntry, error) {
	entry, err := s.journalRepo.FindEntryByID(ctx, tenantID, entryID)
	if err != nil {
		return nil, err
	}
	entry.Lines, err = s.journalRepo.FindLinesByEntryID(ctx, entry.EntryID)
	if err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *ledgerService) GetEntryBySource(ctx context.Context, tenantID string, source domain.SourceRef) (*domain.JournalEntry, error) {
	entry, err := s.journalRepo.FindEntryBySource(ctx, tenantID, source)
	if err != nil {
		return nil, err
	}
	entry.Lines, err = s.journalRepo.FindLinesByEntryID(ctx, entry.EntryID)
	if err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *ledgerService) ListEntries(ctx context.Context, tenantID string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	entries, nextToken, err := s.journalRepo.ListEntries(ctx, tenantID, limit, params.NextToken)
	if err != nil {
		return nil, err
	}

	resp := &dto.ListEntriesResponse{NextToken: nextToken, Entries: make([]dto.JournalEntryResponse, 0, len(entries))}
	for i := range entries {
		resp.Entries = append(resp.Entries, dto.ToJournalEntryResponse(&entries[i]))
	}
	return resp, nil
}

func (s *ledgerService) TrialBalance(ctx context.Context, tenantID string) (*dto.TrialBalanceResponse, error) {
	rows, err := s.journalRepo.TrialBalance(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	resp := &dto.TrialBalanceResponse{
		Rows:         make([]dto.TrialBalanceRowResponse, 0, len(rows)),
		TotalDebits:  decimal.Zero,
		TotalCredits: decimal.Zero,
	}
	for _, row := range rows {
		resp.Rows = append(resp.Rows, dto.TrialBalanceRowResponse{
			AccountID:    row.AccountID,
			Code:         row.Code,
			Name:         row.Name,
			Type:         string(row.Type),
			TotalDebits:  row.TotalDebits,
			TotalCredits: row.TotalCredits,
		})
		resp.TotalDebits = resp.TotalDebits.Add(row.TotalDebits)
		resp.TotalCredits = resp.TotalCredits.Add(row.TotalCredits)
	}
	resp.Balanced = resp.TotalDebits.Equal(resp.TotalCredits)
	return resp, nil
}
