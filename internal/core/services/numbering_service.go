package services

import (
	"context"
	"fmt"
	"time"

	"github.com/vitabuhq/vitabu-backend/internal/core/domain"
	portsrepo "github.com/vitabuhq/vitabu-backend/internal/core/ports/repositories"
	portssvc "github.com/vitabuhq/vitabu-backend/internal/core/ports/services"
)

// invoiceNumberService allocates per-tenant sequential invoice numbers. The
// counter row is locked and incremented inside a transaction so two
// concurrent callers can never observe the same sequence value.
type invoiceNumberService struct {
	counterRepo portsrepo.CounterRepositoryFacade
	tenantRepo  portsrepo.TenantRepositoryFacade
}

// NewInvoiceNumberService creates a new invoice number service.
func NewInvoiceNumberService(counterRepo portsrepo.CounterRepositoryFacade, tenantRepo portsrepo.TenantRepositoryFacade) portssvc.InvoiceNumberSvcFacade {
	return &invoiceNumberService{counterRepo: counterRepo, tenantRepo: tenantRepo}
}

var _ portssvc.InvoiceNumberSvcFacade = (*invoiceNumberService)(nil)

func (s *invoiceNumberService) GenerateNextNumber(ctx context.Context, tenantID string) (string, error) {
	tenant, err := s.tenantRepo.FindTenantByID(ctx, tenantID)
	if err != nil {
		return "", fmt.Errorf("failed to load tenant for numbering: %w", err)
	}

	numbering := domain.InvoiceNumbering{Prefix: tenant.InvoicePrefix, Year: time.Now().Year()}

	tx, err := s.counterRepo.Begin(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to begin numbering transaction: %w", err)
	}
	defer func() { _ = s.counterRepo.Rollback(ctx, tx) }()

	sequence, err := s.counterRepo.NextInvoiceSequence(ctx, tx, tenantID, numbering.Year)
	if err != nil {
		return "", err
	}
	if err := s.counterRepo.Commit(ctx, tx); err != nil {
		return "", fmt.Errorf("failed to commit numbering transaction: %w", err)
	}

	return numbering.Format(sequence), nil
}
