package domain

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// AccountCategory marks the role an account plays in automated posting.
// Posting services look accounts up by category rather than by hardcoded code.
type AccountCategory string

const (
	CategoryBank             AccountCategory = "bank"
	CategoryMpesa            AccountCategory = "mpesa"
	CategoryReceivable       AccountCategory = "accounts_receivable"
	CategoryTaxPayable       AccountCategory = "tax_payable"
	CategoryCustomerDeposits AccountCategory = "customer_deposits"
	CategorySalesRevenue     AccountCategory = "sales_revenue"
	CategoryOther            AccountCategory = "other"
)

// ChartOfAccount represents one account in a tenant's chart of accounts.
// Accounts referenced by posted journal lines are never deleted, only
// deactivated.
type ChartOfAccount struct {
	AccountID string          `json:"accountID"` // Primary Key (UUID)
	TenantID  string          `json:"tenantID"`
	Code      string          `json:"code"` // Unique per tenant (e.g. "1200")
	Name      string          `json:"name"`
	Type      AccountType     `json:"type"`
	Category  AccountCategory `json:"category"`
	IsActive  bool            `json:"isActive"`
	AuditFields
}
