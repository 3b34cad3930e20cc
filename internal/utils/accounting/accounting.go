package accounting

import (
	"fmt"

	"github.com/munshibooks/munshi_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Tolerance is the currency-unit slack allowed when comparing debit and
// credit totals. Differences strictly below it count as balanced.
var Tolerance = decimal.RequireFromString("0.01")

// SignedAmount applies the normal-balance sign convention to a journal line:
// a line on the account type's natural side adds, the opposite side
// subtracts.
//
// DEBIT to ASSET/EXPENSE/COGS -> positive
// CREDIT to ASSET/EXPENSE/COGS -> negative
// CREDIT to LIABILITY/EQUITY/REVENUE/CONTRA_REVENUE -> positive
// DEBIT to LIABILITY/EQUITY/REVENUE/CONTRA_REVENUE -> negative
func SignedAmount(line domain.JournalLine, accountType domain.AccountType) (decimal.Decimal, error) {
	if !accountType.IsValid() {
		return decimal.Zero, fmt.Errorf("unknown account type %q for account %s", accountType, line.AccountID)
	}
	if line.Type == accountType.NormalBalance() {
		return line.Amount, nil
	}
	return line.Amount.Neg(), nil
}

// SumByType accumulates the debit and credit totals of a line set separately,
// without netting.
func SumByType(lines []domain.JournalLine) (debits, credits decimal.Decimal) {
	debits = decimal.Zero
	credits = decimal.Zero
	for _, line := range lines {
		if line.Type == domain.Debit {
			debits = debits.Add(line.Amount)
		} else {
			credits = credits.Add(line.Amount)
		}
	}
	return debits, credits
}

// IsBalanced reports whether debit and credit totals agree within Tolerance.
func IsBalanced(debits, credits decimal.Decimal) bool {
	return debits.Sub(credits).Abs().LessThan(Tolerance)
}
