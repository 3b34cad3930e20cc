package accounting_test

import (
	"testing"

	"github.com/munshibooks/munshi_backend/internal/core/domain"
	"github.com/munshibooks/munshi_backend/internal/utils/accounting"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func line(lineType domain.LineType, amount string) domain.JournalLine {
	return domain.JournalLine{
		LineID:    "line-1",
		AccountID: "1000",
		Type:      lineType,
		Amount:    decimal.RequireFromString(amount),
	}
}

func TestSignedAmountNormalSideAdds(t *testing.T) {
	cases := []struct {
		accountType domain.AccountType
		lineType    domain.LineType
		want        string
	}{
		{domain.Asset, domain.Debit, "100"},
		{domain.Asset, domain.Credit, "-100"},
		{domain.Expense, domain.Debit, "100"},
		{domain.COGS, domain.Debit, "100"},
		{domain.COGS, domain.Credit, "-100"},
		{domain.Liability, domain.Credit, "100"},
		{domain.Liability, domain.Debit, "-100"},
		{domain.Equity, domain.Credit, "100"},
		{domain.Revenue, domain.Credit, "100"},
		{domain.Revenue, domain.Debit, "-100"},
		{domain.ContraRevenue, domain.Credit, "100"},
		{domain.ContraRevenue, domain.Debit, "-100"},
	}

	for _, tc := range cases {
		got, err := accounting.SignedAmount(line(tc.lineType, "100"), tc.accountType)
		require.NoError(t, err, "type %s / %s", tc.accountType, tc.lineType)
		assert.True(t, got.Equal(decimal.RequireFromString(tc.want)),
			"type %s / %s: got %s want %s", tc.accountType, tc.lineType, got, tc.want)
	}
}

func TestSignedAmountUnknownType(t *testing.T) {
	_, err := accounting.SignedAmount(line(domain.Debit, "50"), domain.AccountType("GOODWILL"))
	assert.Error(t, err)
}

func TestSumByType(t *testing.T) {
	lines := []domain.JournalLine{
		line(domain.Debit, "100"),
		line(domain.Debit, "25.50"),
		line(domain.Credit, "125.50"),
	}
	debits, credits := accounting.SumByType(lines)
	assert.True(t, debits.Equal(decimal.RequireFromString("125.50")))
	assert.True(t, credits.Equal(decimal.RequireFromString("125.50")))
}

func TestIsBalancedTolerance(t *testing.T) {
	hundred := decimal.RequireFromString("100")

	assert.True(t, accounting.IsBalanced(hundred, hundred))
	// Sub-tolerance rounding noise still balances.
	assert.True(t, accounting.IsBalanced(hundred, decimal.RequireFromString("100.005")))
	// A difference of exactly 0.01 does not.
	assert.False(t, accounting.IsBalanced(hundred, decimal.RequireFromString("100.01")))
	assert.False(t, accounting.IsBalanced(hundred, decimal.RequireFromString("90")))
}
