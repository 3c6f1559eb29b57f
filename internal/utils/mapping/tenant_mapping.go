package mapping

import (
	"github.com/vitabuhq/vitabu-backend/internal/core/domain"
	"github.com/vitabuhq/vitabu-backend/internal/models"
)

// ToModelTenant converts a domain Tenant to its model shape.
func ToModelTenant(d domain.Tenant) models.Tenant {
	return models.Tenant{
		TenantID:      d.TenantID,
		Name:          d.Name,
		InvoicePrefix: d.InvoicePrefix,
		CurrencyCode:  d.CurrencyCode,
		IsActive:      d.IsActive,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainTenant converts a model Tenant to its domain shape.
func ToDomainTenant(m models.Tenant) domain.Tenant {
	return domain.Tenant{
		TenantID:      m.TenantID,
		Name:          m.Name,
		InvoicePrefix: m.InvoicePrefix,
		CurrencyCode:  m.CurrencyCode,
		IsActive:      m.IsActive,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainUser converts a model User to its domain shape.
func ToDomainUser(m models.User) domain.User {
	return domain.User{
		UserID:      m.UserID,
		Username:    m.Username,
		Name:        m.Name,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}
