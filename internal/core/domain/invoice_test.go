package domain_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/vitabuhq/vitabu-backend/internal/core/domain"
)

func TestComputeTotals(t *testing.T) {
	inv := domain.Invoice{
		Lines: []domain.InvoiceLine{
			{Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(300), TaxRate: decimal.NewFromInt(16)},
			{Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(400)},
		},
	}

	inv.ComputeTotals()

	assert.True(t, decimal.NewFromInt(600).Equal(inv.Lines[0].LineTotal))
	assert.True(t, decimal.NewFromInt(400).Equal(inv.Lines[1].LineTotal))
	assert.True(t, decimal.NewFromInt(1000).Equal(inv.Subtotal))
	assert.True(t, decimal.NewFromInt(96).Equal(inv.TaxAmount))
	assert.True(t, decimal.NewFromInt(1096).Equal(inv.Total))
}

func TestComputeTotalsRoundsTax(t *testing.T) {
	inv := domain.Invoice{
		Lines: []domain.InvoiceLine{
			// 3 * 33.33 = 99.99, 16% VAT = 15.9984 which rounds to 16.00
			{Quantity: decimal.NewFromInt(3), UnitPrice: decimal.RequireFromString("33.33"), TaxRate: decimal.NewFromInt(16)},
		},
	}

	inv.ComputeTotals()

	assert.True(t, decimal.RequireFromString("16.00").Equal(inv.TaxAmount))
	assert.True(t, decimal.RequireFromString("115.99").Equal(inv.Total))
}

func TestComputeTotalsEmptyInvoice(t *testing.T) {
	inv := domain.Invoice{}

	inv.ComputeTotals()

	assert.True(t, inv.Subtotal.IsZero())
	assert.True(t, inv.TaxAmount.IsZero())
	assert.True(t, inv.Total.IsZero())
}

func TestOutstanding(t *testing.T) {
	inv := domain.Invoice{Total: decimal.NewFromInt(1000)}

	assert.True(t, decimal.NewFromInt(600).Equal(inv.Outstanding(decimal.NewFromInt(400))))
	assert.True(t, inv.Outstanding(decimal.NewFromInt(1000)).IsZero())
}

func TestApplyPaymentPolicy(t *testing.T) {
	tests := []struct {
		name              string
		outstanding       decimal.Decimal
		wantStatus        domain.InvoiceStatus
		wantPaymentStatus domain.PaymentStatus
	}{
		{"fully paid", decimal.Zero, domain.InvoicePaid, domain.PaymentPaid},
		{"overpaid", decimal.NewFromInt(-50), domain.InvoicePaid, domain.PaymentPaid},
		{"partially paid", decimal.NewFromInt(400), domain.InvoiceSent, domain.PaymentPartial},
		{"untouched", decimal.NewFromInt(1000), domain.InvoiceSent, domain.PaymentUnpaid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := domain.Invoice{
				Status:        domain.InvoiceSent,
				PaymentStatus: domain.PaymentUnpaid,
				Total:         decimal.NewFromInt(1000),
			}

			inv.ApplyPaymentPolicy(tt.outstanding)

			assert.Equal(t, tt.wantStatus, inv.Status)
			assert.Equal(t, tt.wantPaymentStatus, inv.PaymentStatus)
		})
	}
}

func TestInvoiceNumberingFormat(t *testing.T) {
	numbering := domain.InvoiceNumbering{Prefix: "VTB", Year: 2026}
	assert.Equal(t, "VTB-2026-0042", numbering.Format(42))
	assert.Equal(t, "VTB-2026-10001", numbering.Format(10001))
}

func TestInvoiceNumberingDefaultPrefix(t *testing.T) {
	numbering := domain.InvoiceNumbering{Year: 2026}
	assert.Equal(t, "INV-2026-0001", numbering.Format(1))
}
