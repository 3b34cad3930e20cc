package dto

import (
	"github.com/munshibooks/munshi_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TrialBalanceRowResponse represents one row of the trial balance report.
type TrialBalanceRowResponse struct {
	AccountID    string          `json:"accountID"`
	AccountName  string          `json:"accountName"`
	AccountType  string          `json:"accountType"`
	TotalDebits  decimal.Decimal `json:"totalDebits"`
	TotalCredits decimal.Decimal `json:"totalCredits"`
}

// TrialBalanceResponse represents the trial balance report response.
type TrialBalanceResponse struct {
	From   string                    `json:"from"`
	To     string                    `json:"to"`
	Rows   []TrialBalanceRowResponse `json:"rows"`
	Totals struct {
		Debits     decimal.Decimal `json:"debits"`
		Credits    decimal.Decimal `json:"credits"`
		Difference decimal.Decimal `json:"difference"`
	} `json:"totals"`
	IsBalanced bool `json:"isBalanced"`
}

// BalanceSheetEntryResponse represents one account's position in the balance
// sheet response.
type BalanceSheetEntryResponse struct {
	AccountID     string          `json:"accountID"`
	Name          string          `json:"name"`
	Balance       decimal.Decimal `json:"balance"`
	NormalBalance string          `json:"normalBalance"`
}

// BalanceSheetResponse represents the balance sheet report response.
type BalanceSheetResponse struct {
	AsOf        string                      `json:"asOf"`
	Assets      []BalanceSheetEntryResponse `json:"assets"`
	Liabilities []BalanceSheetEntryResponse `json:"liabilities"`
	Equity      []BalanceSheetEntryResponse `json:"equity"`
	Summary     struct {
		TotalAssets               decimal.Decimal `json:"totalAssets"`
		TotalLiabilities          decimal.Decimal `json:"totalLiabilities"`
		TotalEquity               decimal.Decimal `json:"totalEquity"`
		TotalLiabilitiesAndEquity decimal.Decimal `json:"totalLiabilitiesAndEquity"`
		Difference                decimal.Decimal `json:"difference"`
	} `json:"summary"`
	IsBalanced bool `json:"isBalanced"`
}

// ProfitLossLineResponse represents one account's period total in the P&L.
type ProfitLossLineResponse struct {
	AccountID string          `json:"accountID"`
	Name      string          `json:"name"`
	Amount    decimal.Decimal `json:"amount"`
}

// ProfitLossResponse represents the profit and loss report response.
type ProfitLossResponse struct {
	From     string                   `json:"from"`
	To       string                   `json:"to"`
	Revenue  []ProfitLossLineResponse `json:"revenue"`
	Expenses []ProfitLossLineResponse `json:"expenses"`
	Summary  struct {
		TotalRevenue  decimal.Decimal `json:"totalRevenue"`
		TotalExpenses decimal.Decimal `json:"totalExpenses"`
		GrossProfit   decimal.Decimal `json:"grossProfit"`
		NetProfit     decimal.Decimal `json:"netProfit"`
	} `json:"summary"`
}

// ToTrialBalanceResponse converts a domain trial balance to its response
// shape.
func ToTrialBalanceResponse(report *domain.TrialBalanceReport) TrialBalanceResponse {
	resp := TrialBalanceResponse{
		From:       report.From.Format(ISODate),
		To:         report.To.Format(ISODate),
		Rows:       make([]TrialBalanceRowResponse, len(report.Rows)),
		IsBalanced: report.IsBalanced,
	}
	for i, row := range report.Rows {
		resp.Rows[i] = TrialBalanceRowResponse{
			AccountID:    row.AccountID,
			AccountName:  row.AccountName,
			AccountType:  string(row.AccountType),
			TotalDebits:  row.TotalDebits,
			TotalCredits: row.TotalCredits,
		}
	}
	resp.Totals.Debits = report.TotalDebits
	resp.Totals.Credits = report.TotalCredits
	resp.Totals.Difference = report.Difference
	return resp
}

func toBalanceSheetEntries(entries []domain.BalanceSheetEntry) []BalanceSheetEntryResponse {
	out := make([]BalanceSheetEntryResponse, len(entries))
	for i, e := range entries {
		out[i] = BalanceSheetEntryResponse{
			AccountID:     e.AccountID,
			Name:          e.Name,
			Balance:       e.Balance,
			NormalBalance: string(e.NormalBalance),
		}
	}
	return out
}

// ToBalanceSheetResponse converts a domain balance sheet to its response
// shape.
func ToBalanceSheetResponse(report *domain.BalanceSheetReport) BalanceSheetResponse {
	resp := BalanceSheetResponse{
		AsOf:        report.AsOf.Format(ISODate),
		Assets:      toBalanceSheetEntries(report.Assets),
		Liabilities: toBalanceSheetEntries(report.Liabilities),
		Equity:      toBalanceSheetEntries(report.Equity),
		IsBalanced:  report.IsBalanced,
	}
	resp.Summary.TotalAssets = report.TotalAssets
	resp.Summary.TotalLiabilities = report.TotalLiabilities
	resp.Summary.TotalEquity = report.TotalEquity
	resp.Summary.TotalLiabilitiesAndEquity = report.TotalLiabilitiesAndEquity
	resp.Summary.Difference = report.Difference
	return resp
}

func toProfitLossLines(lines []domain.ProfitLossLine) []ProfitLossLineResponse {
	out := make([]ProfitLossLineResponse, len(lines))
	for i, l := range lines {
		out[i] = ProfitLossLineResponse{AccountID: l.AccountID, Name: l.Name, Amount: l.Amount}
	}
	return out
}

// ToProfitLossResponse converts a domain P&L report to its response shape.
func ToProfitLossResponse(report *domain.ProfitLossReport) ProfitLossResponse {
	resp := ProfitLossResponse{
		From:     report.From.Format(ISODate),
		To:       report.To.Format(ISODate),
		Revenue:  toProfitLossLines(report.Revenue),
		Expenses: toProfitLossLines(report.Expenses),
	}
	resp.Summary.TotalRevenue = report.TotalRevenue
	resp.Summary.TotalExpenses = report.TotalExpenses
	resp.Summary.GrossProfit = report.GrossProfit
	resp.Summary.NetProfit = report.NetProfit
	return resp
}
