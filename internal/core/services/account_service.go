package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vitabuhq/vitabu-backend/internal/apperrors"
	"github.com/vitabuhq/vitabu-backend/internal/core/domain"
	portsrepo "github.com/vitabuhq/vitabu-backend/internal/core/ports/repositories"
	portssvc "github.com/vitabuhq/vitabu-backend/internal/core/ports/services"
	"github.com/vitabuhq/vitabu-backend/internal/dto"
	"github.com/vitabuhq/vitabu-backend/internal/middleware"
)

var (
	// ErrPostingAccountMissing means the tenant's chart has no active account
	// for a category automated posting requires (AR control, tax payable...).
	// This is a configuration error, never silently substituted.
	ErrPostingAccountMissing = errors.New("no active account configured for posting category")

	ErrAccountInactive = errors.New("account is inactive")
)

// accountService manages a tenant's chart of accounts.
type accountService struct {
	accountRepo portsrepo.AccountRepositoryFacade
}

// NewAccountService creates a new account service.
func NewAccountService(accountRepo portsrepo.AccountRepositoryFacade) portssvc.AccountSvcFacade {
	return &accountService{accountRepo: accountRepo}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) CreateAccount(ctx context.Context, tenantID string, req dto.CreateAccountRequest, creatorUserID string) (*domain.ChartOfAccount, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	category := domain.AccountCategory(req.Category)
	if category == "" {
		category = domain.CategoryOther
	}

	now := time.Now()
	account := domain.ChartOfAccount{
		AccountID: uuid.NewString(),
		TenantID:  tenantID,
		Code:      req.Code,
		Name:      req.Name,
		Type:      domain.AccountType(req.Type),
		Category:  category,
		IsActive:  true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("account code %s already exists for tenant: %w", req.Code, apperrors.ErrDuplicate)
		}
		logger.Error("Failed to save account", "error", err, "tenantID", tenantID)
		return nil, fmt.Errorf("failed to save account: %w", err)
	}

	logger.Info("Account created", "accountID", account.AccountID, "code", account.Code, "tenantID", tenantID)
	return &account, nil
}

func (s *accountService) GetAccountByID(ctx context.Context, tenantID, accountID string) (*domain.ChartOfAccount, error) {
	return s.accountRepo.FindAccountByID(ctx, tenantID, accountID)
}

func (s *accountService) GetAccountsByIDs(ctx context.Context, tenantID string, accountIDs []string) (map[string]domain.ChartOfAccount, error) {
	return s.accountRepo.FindAccountsByIDs(ctx, tenantID, accountIDs)
}

func (s *accountService) GetPostingAccount(ctx context.Context, tenantID string, category domain.AccountCategory) (*domain.ChartOfAccount, error) {
	account, err := s.accountRepo.FindAccountByCategory(ctx, tenantID, category)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrPostingAccountMissing, category)
		}
		return nil, err
	}
	if !account.IsActive {
		return nil, fmt.Errorf("%w: %s", ErrPostingAccountMissing, category)
	}
	return account, nil
}

func (s *accountService) ListAccounts(ctx context.Context, tenantID string) ([]domain.ChartOfAccount, error) {
	return s.accountRepo.ListAccounts(ctx, tenantID)
}

func (s *accountService) DeactivateAccount(ctx context.Context, tenantID, accountID, updatedBy string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.accountRepo.SetAccountActive(ctx, tenantID, accountID, false, updatedBy); err != nil {
		return err
	}
	logger.Info("Account deactivated", "accountID", accountID, "tenantID", tenantID)
	return nil
}
