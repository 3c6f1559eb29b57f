package dto

import (
	"github.com/vitabuhq/vitabu-backend/internal/core/domain"
)

// CreateAccountRequest is the payload for adding a chart-of-accounts entry.
type CreateAccountRequest struct {
	Code     string `json:"code" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Type     string `json:"type" binding:"required,oneof=ASSET LIABILITY EQUITY REVENUE EXPENSE"`
	Category string `json:"category" binding:"omitempty,oneof=bank mpesa accounts_receivable tax_payable customer_deposits sales_revenue other"`
}

// AccountResponse is the API shape of a chart-of-accounts entry.
type AccountResponse struct {
	AccountID string `json:"accountID"`
	Code      string `json:"code"`
	Name      string `json:"name"`
	Type      string `json:"type"`
	Category  string `json:"category"`
	IsActive  bool   `json:"isActive"`
}

// ToAccountResponse converts a domain ChartOfAccount to its API shape.
func ToAccountResponse(a *domain.ChartOfAccount) AccountResponse {
	return AccountResponse{
		AccountID: a.AccountID,
		Code:      a.Code,
		Name:      a.Name,
		Type:      string(a.Type),
		Category:  string(a.Category),
		IsActive:  a.IsActive,
	}
}

// ToAccountResponses converts a slice of accounts to their API shape.
func ToAccountResponses(accounts []domain.ChartOfAccount) []AccountResponse {
	responses := make([]AccountResponse, len(accounts))
	for i := range accounts {
		responses[i] = ToAccountResponse(&accounts[i])
	}
	return responses
}
