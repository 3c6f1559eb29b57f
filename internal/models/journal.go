package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SourceType mirrors domain.SourceType at the persistence layer.
type SourceType string

// JournalEntry is the DB shape of a journal entry header row.
type JournalEntry struct {
	EntryID      string          `db:"entry_id"`
	TenantID     string          `db:"tenant_id"`
	EntryDate    time.Time       `db:"entry_date"`
	Reference    string          `db:"reference"`
	Description  string          `db:"description"`
	TotalDebits  decimal.Decimal `db:"total_debits"`
	TotalCredits decimal.Decimal `db:"total_credits"`
	SourceType   SourceType      `db:"source_type"`
	SourceID     string          `db:"source_id"`
	AuditFields
}

// JournalLine is the DB shape of a single debit or credit row.
type JournalLine struct {
	LineID    string          `db:"line_id"`
	EntryID   string          `db:"entry_id"`
	AccountID string          `db:"account_id"`
	Debit     decimal.Decimal `db:"debit"`
	Credit    decimal.Decimal `db:"credit"`
	AuditFields
}
