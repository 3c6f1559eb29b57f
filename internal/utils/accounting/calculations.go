package accounting

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/vitabuhq/vitabu-backend/internal/core/domain"
)

// ValidateLine checks the per-line invariant: exactly one of debit/credit is
// set, and the set side is strictly positive.
func ValidateLine(line domain.JournalLine) error {
	debitSet := line.Debit.IsPositive()
	creditSet := line.Credit.IsPositive()
	if line.Debit.IsNegative() || line.Credit.IsNegative() {
		return fmt.Errorf("journal line for account %s must not carry a negative amount", line.AccountID)
	}
	if debitSet == creditSet {
		return fmt.Errorf("journal line for account %s must have exactly one of debit/credit set", line.AccountID)
	}
	return nil
}

// ValidateEntryBalance checks the double-entry invariant for a set of lines:
// at least two lines, every line valid, and total debits equal total credits.
// It returns the shared total so callers can assert it against the source
// document amount.
func ValidateEntryBalance(lines []domain.JournalLine) (decimal.Decimal, error) {
	if len(lines) < 2 {
		return decimal.Zero, fmt.Errorf("journal entry must have at least two lines")
	}

	debits := decimal.Zero
	credits := decimal.Zero
	for _, line := range lines {
		if err := ValidateLine(line); err != nil {
			return decimal.Zero, err
		}
		debits = debits.Add(line.Debit)
		credits = credits.Add(line.Credit)
	}

	if !debits.Equal(credits) {
		return decimal.Zero, fmt.Errorf("journal entry does not balance: debits %s, credits %s", debits.String(), credits.String())
	}
	return debits, nil
}

// SignedDelta returns the balance effect of a line on its account given the
// account's type. Debits increase assets and expenses; credits increase
// liabilities, equity and revenue.
func SignedDelta(line domain.JournalLine, accountType domain.AccountType) (decimal.Decimal, error) {
	amount := line.Debit
	isDebit := true
	if line.Credit.IsPositive() {
		amount = line.Credit
		isDebit = false
	}

	switch accountType {
	case domain.Asset, domain.Expense:
		if !isDebit {
			amount = amount.Neg()
		}
	case domain.Liability, domain.Equity, domain.Revenue:
		if isDebit {
			amount = amount.Neg()
		}
	default:
		return decimal.Zero, fmt.Errorf("unknown account type '%s' for account %s", accountType, line.AccountID)
	}
	return amount, nil
}
