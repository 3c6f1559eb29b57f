package domain

import "github.com/shopspring/decimal"

// TrialBalanceRow aggregates posted debits and credits for one account.
// Account balances are always derived from journal lines, never stored.
type TrialBalanceRow struct {
	AccountID    string          `json:"accountID"`
	Code         string          `json:"code"`
	Name         string          `json:"name"`
	Type         AccountType     `json:"type"`
	TotalDebits  decimal.Decimal `json:"totalDebits"`
	TotalCredits decimal.Decimal `json:"totalCredits"`
}
