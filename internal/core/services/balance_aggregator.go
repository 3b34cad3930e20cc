package services

import (
	"github.com/munshibooks/munshi_backend/internal/core/domain"
	"github.com/munshibooks/munshi_backend/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

// BalanceAggregator folds journal entry lines into per-account signed totals
// under the normal-balance convention. It is a pure projection: the caller
// selects the entry window (cumulative as-of vs bounded period) and supplies
// the COA mapping.
type BalanceAggregator struct{}

// NewBalanceAggregator creates a balance aggregator.
func NewBalanceAggregator() *BalanceAggregator {
	return &BalanceAggregator{}
}

// Aggregate produces the signed total of every account in the directory.
// Accounts with no activity stay at zero. Lines whose account is missing
// from the directory, or whose account type is unknown, are skipped so that
// stale or deleted COA rows never fail a whole report.
func (a *BalanceAggregator) Aggregate(entries []domain.JournalEntry, accounts map[string]domain.Account) map[string]domain.AccountBalance {
	balances := make(map[string]domain.AccountBalance, len(accounts))
	for id, acc := range accounts {
		balances[id] = domain.AccountBalance{
			AccountID:   acc.AccountID,
			Name:        acc.Name,
			Type:        acc.Type,
			SignedTotal: decimal.Zero,
		}
	}

	for _, entry := range entries {
		for _, line := range entry.Lines {
			acc, ok := accounts[line.AccountID]
			if !ok {
				continue
			}
			signedAmount, err := accounting.SignedAmount(line, acc.Type)
			if err != nil {
				continue
			}
			balance := balances[line.AccountID]
			balance.SignedTotal = balance.SignedTotal.Add(signedAmount)
			balances[line.AccountID] = balance
		}
	}
	return balances
}
