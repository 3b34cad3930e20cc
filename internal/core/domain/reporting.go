package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountBalance is the output of the balance aggregator for a single
// account: its signed total under the normal-balance convention, where a
// positive value means the account grew on its natural side.
type AccountBalance struct {
	AccountID   string          `json:"accountID"`
	Name        string          `json:"name"`
	Type        AccountType     `json:"type"`
	SignedTotal decimal.Decimal `json:"signedTotal"`
}

// TrialBalanceRow holds the unnetted debit and credit totals of one account
// over the report period.
type TrialBalanceRow struct {
	AccountID    string          `json:"accountID"`
	AccountName  string          `json:"accountName"`
	AccountType  AccountType     `json:"accountType"`
	TotalDebits  decimal.Decimal `json:"totalDebits"`
	TotalCredits decimal.Decimal `json:"totalCredits"`
}

// TrialBalanceReport is the full trial balance with balancing diagnostics.
// An imbalance is data, not an error: the caller decides how to surface it.
type TrialBalanceReport struct {
	From         time.Time         `json:"from"`
	To           time.Time         `json:"to"`
	Rows         []TrialBalanceRow `json:"rows"`
	TotalDebits  decimal.Decimal   `json:"totalDebits"`
	TotalCredits decimal.Decimal   `json:"totalCredits"`
	Difference   decimal.Decimal   `json:"difference"`
	IsBalanced   bool              `json:"isBalanced"`
}

// BalanceSheetEntry reports one account's cumulative position as of the
// report date. Balance is the absolute value of the signed total.
type BalanceSheetEntry struct {
	AccountID     string          `json:"accountID"`
	Name          string          `json:"name"`
	Balance       decimal.Decimal `json:"balance"`
	NormalBalance LineType        `json:"normalBalance"`
}

// BalanceSheetReport is the cumulative net position of asset, liability and
// equity accounts as of a date.
type BalanceSheetReport struct {
	AsOf                      time.Time           `json:"asOf"`
	Assets                    []BalanceSheetEntry `json:"assets"`
	Liabilities               []BalanceSheetEntry `json:"liabilities"`
	Equity                    []BalanceSheetEntry `json:"equity"`
	TotalAssets               decimal.Decimal     `json:"totalAssets"`
	TotalLiabilities          decimal.Decimal     `json:"totalLiabilities"`
	TotalEquity               decimal.Decimal     `json:"totalEquity"`
	TotalLiabilitiesAndEquity decimal.Decimal     `json:"totalLiabilitiesAndEquity"`
	Difference                decimal.Decimal     `json:"difference"`
	IsBalanced                bool                `json:"isBalanced"`
}

// ProfitLossLine is one revenue or expense account's period total.
type ProfitLossLine struct {
	AccountID string          `json:"accountID"`
	Name      string          `json:"name"`
	Amount    decimal.Decimal `json:"amount"`
}

// ProfitLossReport is the period-bounded net of revenue and expense/COGS
// accounts.
type ProfitLossReport struct {
	From          time.Time        `json:"from"`
	To            time.Time        `json:"to"`
	Revenue       []ProfitLossLine `json:"revenue"`
	Expenses      []ProfitLossLine `json:"expenses"`
	TotalRevenue  decimal.Decimal  `json:"totalRevenue"`
	TotalExpenses decimal.Decimal  `json:"totalExpenses"`
	GrossProfit   decimal.Decimal  `json:"grossProfit"`
	NetProfit     decimal.Decimal  `json:"netProfit"`
}
