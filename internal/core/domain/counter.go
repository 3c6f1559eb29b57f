package domain

// InvoiceCounter is the per-tenant, per-year document numbering row. It is
// mutated only under an exclusive row lock inside the same transaction as the
// invoice insert, so a rolled-back invoice rolls the sequence back too.
type InvoiceCounter struct {
	TenantID string `json:"tenantID"`
	Year     int    `json:"year"`
	Sequence int64  `json:"sequence"`
}
