package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/vitabuhq/vitabu-backend/internal/core/domain"
)

// JournalLineResponse is the API shape of one ledger line.
type JournalLineResponse struct {
	LineID    string          `json:"lineID"`
	AccountID string          `json:"accountID"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
}

// JournalEntryResponse is the API shape of a ledger entry.
type JournalEntryResponse struct {
	EntryID      string                `json:"entryID"`
	EntryDate    time.Time             `json:"entryDate"`
	Reference    string                `json:"reference"`
	Description  string                `json:"description"`
	TotalDebits  decimal.Decimal       `json:"totalDebits"`
	TotalCredits decimal.Decimal       `json:"totalCredits"`
	SourceType   string                `json:"sourceType"`
	SourceID     string                `json:"sourceID"`
	CreatedAt    time.Time             `json:"createdAt"`
	Lines        []JournalLineResponse `json:"lines,omitempty"`
}

// ListEntriesParams holds parameters for listing journal entries.
type ListEntriesParams struct {
	Limit     int     `form:"limit"`
	NextToken *string `form:"nextToken"`
}

// ListEntriesResponse is the paginated journal entry list.
type ListEntriesResponse struct {
	Entries   []JournalEntryResponse `json:"entries"`
	NextToken *string                `json:"nextToken,omitempty"`
}

// TrialBalanceRowResponse is one account row of the trial balance.
type TrialBalanceRowResponse struct {
	AccountID    string          `json:"accountID"`
	Code         string          `json:"code"`
	Name         string          `json:"name"`
	Type         string          `json:"type"`
	TotalDebits  decimal.Decimal `json:"totalDebits"`
	TotalCredits decimal.Decimal `json:"totalCredits"`
}

// TrialBalanceResponse is the full trial balance. Balanced is false only if
// the ledger itself is corrupt; it is asserted by tests and monitoring.
type TrialBalanceResponse struct {
	Rows         []TrialBalanceRowResponse `json:"rows"`
	TotalDebits  decimal.Decimal           `json:"totalDebits"`
	TotalCredits decimal.Decimal           `json:"totalCredits"`
	Balanced     bool                      `json:"balanced"`
}

// ToJournalEntryResponse converts a domain JournalEntry to its API shape.
func ToJournalEntryResponse(e *domain.JournalEntry) JournalEntryResponse {
	resp := JournalEntryResponse{
		EntryID:      e.EntryID,
		EntryDate:    e.EntryDate,
		Reference:    e.Reference,
		Description:  e.Description,
		TotalDebits:  e.TotalDebits,
		TotalCredits: e.TotalCredits,
		SourceType:   string(e.Source.Type),
		SourceID:     e.Source.ID,
		CreatedAt:    e.CreatedAt,
	}
	for _, line := range e.Lines {
		resp.Lines = append(resp.Lines, JournalLineResponse{
			LineID:    line.LineID,
			AccountID: line.AccountID,
			Debit:     line.Debit,
			Credit:    line.Credit,
		})
	}
	return resp
}
