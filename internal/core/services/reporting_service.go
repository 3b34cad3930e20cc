package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/munshibooks/munshi_backend/internal/apperrors"
	"github.com/munshibooks/munshi_backend/internal/core/domain"
	portsrepo "github.com/munshibooks/munshi_backend/internal/core/ports/repositories"
	portssvc "github.com/munshibooks/munshi_backend/internal/core/ports/services"
	"github.com/munshibooks/munshi_backend/internal/middleware"
	"github.com/munshibooks/munshi_backend/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

// reportingService derives financial statements by replaying journal lines
// against the tenant's chart of accounts. It holds no report state; every
// call reads the ledger fresh.
type reportingService struct {
	journalRepo portsrepo.JournalEntryRepository
	directory   portsrepo.AccountDirectory
	aggregator  *BalanceAggregator
}

// NewReportingService creates a new reporting service.
func NewReportingService(journalRepo portsrepo.JournalEntryRepository, directory portsrepo.AccountDirectory) portssvc.ReportingSvcFacade {
	return &reportingService{
		journalRepo: journalRepo,
		directory:   directory,
		aggregator:  NewBalanceAggregator(),
	}
}

var _ portssvc.ReportingSvcFacade = (*reportingService)(nil)

// TrialBalance lists each account's unnetted debit and credit totals over
// [from, to], with the grand totals and their difference. Accounts with no
// activity in the window are omitted.
func (s *reportingService) TrialBalance(ctx context.Context, companyID string, from, to time.Time) (*domain.TrialBalanceReport, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	report := &domain.TrialBalanceReport{
		From:         from,
		To:           to,
		Rows:         []domain.TrialBalanceRow{},
		TotalDebits:  decimal.Zero,
		TotalCredits: decimal.Zero,
		Difference:   decimal.Zero,
		IsBalanced:   true,
	}

	accounts, empty, err := s.resolveCOA(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if empty {
		return report, nil
	}

	entries, err := s.journalRepo.FindEntriesInRange(ctx, companyID, from, to)
	if err != nil {
		logger.Error("Failed to load entries for trial balance",
			slog.String("company_id", companyID), slog.String("error", err.Error()))
		return nil, err
	}

	type totals struct {
		debits  decimal.Decimal
		credits decimal.Decimal
	}
	perAccount := make(map[string]totals, len(accounts))

	for _, entry := range entries {
		for _, line := range entry.Lines {
			if _, ok := accounts[line.AccountID]; !ok {
				continue
			}
			t := perAccount[line.AccountID]
			switch line.Type {
			case domain.Debit:
				t.debits = t.debits.Add(line.Amount)
			case domain.Credit:
				t.credits = t.credits.Add(line.Amount)
			default:
				continue
			}
			perAccount[line.AccountID] = t
		}
	}

	for accountID, t := range perAccount {
		acc := accounts[accountID]
		report.Rows = append(report.Rows, domain.TrialBalanceRow{
			AccountID:    acc.AccountID,
			AccountName:  acc.Name,
			AccountType:  acc.Type,
			TotalDebits:  t.debits,
			TotalCredits: t.credits,
		})
		report.TotalDebits = report.TotalDebits.Add(t.debits)
		report.TotalCredits = report.TotalCredits.Add(t.credits)
	}

	sort.Slice(report.Rows, func(i, j int) bool {
		pi, pj := domain.TypePrecedence[report.Rows[i].AccountType], domain.TypePrecedence[report.Rows[j].AccountType]
		if pi != pj {
			return pi < pj
		}
		return report.Rows[i].AccountName < report.Rows[j].AccountName
	})

	report.Difference = report.TotalDebits.Sub(report.TotalCredits).Abs()
	report.IsBalanced = accounting.IsBalanced(report.TotalDebits, report.TotalCredits)
	if !report.IsBalanced {
		logger.Warn("Trial balance does not balance",
			slog.String("company_id", companyID),
			slog.String("difference", report.Difference.String()))
	}
	return report, nil
}

// BalanceSheet reports the cumulative position of asset, liability and equity
// accounts over all entries dated on or before asOf. Balances are presented
// as absolute values alongside the account's natural side; zero-balance
// accounts are omitted.
func (s *reportingService) BalanceSheet(ctx context.Context, companyID string, asOf time.Time) (*domain.BalanceSheetReport, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	report := &domain.BalanceSheetReport{
		AsOf:                      asOf,
		Assets:                    []domain.BalanceSheetEntry{},
		Liabilities:               []domain.BalanceSheetEntry{},
		Equity:                    []domain.BalanceSheetEntry{},
		TotalAssets:               decimal.Zero,
		TotalLiabilities:          decimal.Zero,
		TotalEquity:               decimal.Zero,
		TotalLiabilitiesAndEquity: decimal.Zero,
		Difference:                decimal.Zero,
		IsBalanced:                true,
	}

	accounts, empty, err := s.resolveCOA(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if empty {
		return report, nil
	}

	entries, err := s.journalRepo.FindEntriesInRange(ctx, companyID, time.Time{}, asOf)
	if err != nil {
		logger.Error("Failed to load entries for balance sheet",
			slog.String("company_id", companyID), slog.String("error", err.Error()))
		return nil, err
	}

	balances := s.aggregator.Aggregate(entries, accounts)
	for _, balance := range balances {
		entry := domain.BalanceSheetEntry{
			AccountID:     balance.AccountID,
			Name:          balance.Name,
			Balance:       balance.SignedTotal.Abs(),
			NormalBalance: balance.Type.NormalBalance(),
		}
		switch balance.Type {
		case domain.Asset:
			report.TotalAssets = report.TotalAssets.Add(balance.SignedTotal)
			if !balance.SignedTotal.IsZero() {
				report.Assets = append(report.Assets, entry)
			}
		case domain.Liability:
			report.TotalLiabilities = report.TotalLiabilities.Add(balance.SignedTotal)
			if !balance.SignedTotal.IsZero() {
				report.Liabilities = append(report.Liabilities, entry)
			}
		case domain.Equity:
			report.TotalEquity = report.TotalEquity.Add(balance.SignedTotal)
			if !balance.SignedTotal.IsZero() {
				report.Equity = append(report.Equity, entry)
			}
		}
	}

	sortBalanceEntries(report.Assets)
	sortBalanceEntries(report.Liabilities)
	sortBalanceEntries(report.Equity)

	report.TotalLiabilitiesAndEquity = report.TotalLiabilities.Add(report.TotalEquity)
	report.Difference = report.TotalAssets.Sub(report.TotalLiabilitiesAndEquity)
	report.IsBalanced = report.Difference.Abs().LessThan(accounting.Tolerance)
	if !report.IsBalanced {
		logger.Warn("Balance sheet does not balance",
			slog.String("company_id", companyID),
			slog.String("difference", report.Difference.String()))
	}
	return report, nil
}

// ProfitLoss nets revenue against expenses over [from, to]. Contra-revenue
// accounts reduce the revenue side; COGS counts among the expenses.
// Accounts with a zero period total are omitted.
func (s *reportingService) ProfitLoss(ctx context.Context, companyID string, from, to time.Time) (*domain.ProfitLossReport, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	report := &domain.ProfitLossReport{
		From:          from,
		To:            to,
		Revenue:       []domain.ProfitLossLine{},
		Expenses:      []domain.ProfitLossLine{},
		TotalRevenue:  decimal.Zero,
		TotalExpenses: decimal.Zero,
		GrossProfit:   decimal.Zero,
		NetProfit:     decimal.Zero,
	}

	accounts, empty, err := s.resolveCOA(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if empty {
		return report, nil
	}

	entries, err := s.journalRepo.FindEntriesInRange(ctx, companyID, from, to)
	if err != nil {
		logger.Error("Failed to load entries for profit and loss",
			slog.String("company_id", companyID), slog.String("error", err.Error()))
		return nil, err
	}

	balances := s.aggregator.Aggregate(entries, accounts)
	for _, balance := range balances {
		line := domain.ProfitLossLine{
			AccountID: balance.AccountID,
			Name:      balance.Name,
			Amount:    balance.SignedTotal,
		}
		switch balance.Type {
		case domain.Revenue, domain.ContraRevenue:
			// Contra-revenue totals come out negative and pull the
			// revenue total down.
			report.TotalRevenue = report.TotalRevenue.Add(balance.SignedTotal)
			if !balance.SignedTotal.IsZero() {
				report.Revenue = append(report.Revenue, line)
			}
		case domain.Expense, domain.COGS:
			report.TotalExpenses = report.TotalExpenses.Add(balance.SignedTotal)
			if !balance.SignedTotal.IsZero() {
				report.Expenses = append(report.Expenses, line)
			}
		}
	}

	sortProfitLossLines(report.Revenue)
	sortProfitLossLines(report.Expenses)

	report.GrossProfit = grossProfitOf(report.TotalRevenue, report.TotalExpenses)
	report.NetProfit = report.TotalRevenue.Sub(report.TotalExpenses)
	return report, nil
}

// grossProfitOf returns the gross profit figure for the report summary.
// COGS accounts are not yet netted out here, so gross profit currently
// equals total revenue.
// TODO: subtract the COGS subtotal once account-level COGS tagging is
// reliable across tenants.
func grossProfitOf(totalRevenue, _ decimal.Decimal) decimal.Decimal {
	return totalRevenue
}

// resolveCOA loads the tenant's chart of accounts. A tenant that exists but
// has no accounts yields (nil, true, nil) so callers can return an empty,
// well-formed report; an unknown tenant fails with apperrors.ErrNotFound.
func (s *reportingService) resolveCOA(ctx context.Context, companyID string) (map[string]domain.Account, bool, error) {
	accounts, err := s.directory.ResolveAccounts(ctx, companyID)
	if err == nil {
		return accounts, false, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, false, err
	}

	exists, checkErr := s.directory.CompanyExists(ctx, companyID)
	if checkErr != nil {
		return nil, false, checkErr
	}
	if !exists {
		return nil, false, fmt.Errorf("company %s not found: %w", companyID, apperrors.ErrNotFound)
	}
	return nil, true, nil
}

func sortBalanceEntries(entries []domain.BalanceSheetEntry) {
	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].Balance.Equal(entries[j].Balance) {
			return entries[i].Balance.GreaterThan(entries[j].Balance)
		}
		return entries[i].Name < entries[j].Name
	})
}

func sortProfitLossLines(lines []domain.ProfitLossLine) {
	sort.Slice(lines, func(i, j int) bool {
		ai, aj := lines[i].Amount.Abs(), lines[j].Amount.Abs()
		if !ai.Equal(aj) {
			return ai.GreaterThan(aj)
		}
		return lines[i].Name < lines[j].Name
	})
}
