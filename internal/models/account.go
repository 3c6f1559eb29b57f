package models

// AccountType mirrors domain.AccountType at the persistence layer.
type AccountType string

// AccountCategory mirrors domain.AccountCategory at the persistence layer.
type AccountCategory string

// ChartOfAccount is the DB shape of one chart-of-accounts row.
type ChartOfAccount struct {
	AccountID string          `db:"account_id"`
	TenantID  string          `db:"tenant_id"`
	Code      string          `db:"code"`
	Name      string          `db:"name"`
	Type      AccountType     `db:"account_type"`
	Category  AccountCategory `db:"category"`
	IsActive  bool            `db:"is_active"`
	AuditFields
}
