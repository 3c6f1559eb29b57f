package dto

import "github.com/vitabuhq/vitabu-backend/internal/core/domain"

// CreateTenantRequest provisions a new tenant with a seeded chart of accounts.
type CreateTenantRequest struct {
	Name          string `json:"name" binding:"required"`
	InvoicePrefix string `json:"invoicePrefix"`
	CurrencyCode  string `json:"currencyCode" binding:"required,len=3"`
}

// TenantResponse is the API shape of a tenant.
type TenantResponse struct {
	TenantID      string `json:"tenantID"`
	Name          string `json:"name"`
	InvoicePrefix string `json:"invoicePrefix"`
	CurrencyCode  string `json:"currencyCode"`
	IsActive      bool   `json:"isActive"`
}

// ToTenantResponse converts a domain Tenant to its API shape.
func ToTenantResponse(t *domain.Tenant) TenantResponse {
	return TenantResponse{
		TenantID:      t.TenantID,
		Name:          t.Name,
		InvoicePrefix: t.InvoicePrefix,
		CurrencyCode:  t.CurrencyCode,
		IsActive:      t.IsActive,
	}
}
