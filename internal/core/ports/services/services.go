package services

import (
	"context"
	"time"

	"github.com/munshibooks/munshi_backend/internal/core/domain"
	"github.com/munshibooks/munshi_backend/internal/dto"
)

// JournalSvcFacade exposes journal entry creation, mutation and listing.
type JournalSvcFacade interface {
	CreateEntry(ctx context.Context, companyID string, req dto.CreateEntryRequest, actorID *string) (*domain.JournalEntry, error)
	UpdateEntry(ctx context.Context, companyID, entryID string, req dto.UpdateEntryRequest, actorID *string) (*domain.JournalEntry, error)
	GetEntry(ctx context.Context, companyID, entryID string) (*domain.JournalEntry, error)
	ListEntries(ctx context.Context, companyID string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error)
	ListAccountLines(ctx context.Context, companyID, accountID string, params dto.ListAccountLinesParams) (*dto.ListAccountLinesResponse, error)
}

// ReportingSvcFacade derives financial statements from the ledger. Reports
// never mutate entries and never fail on imbalance; the diagnostics fields
// carry that information instead.
type ReportingSvcFacade interface {
	TrialBalance(ctx context.Context, companyID string, from, to time.Time) (*domain.TrialBalanceReport, error)
	BalanceSheet(ctx context.Context, companyID string, asOf time.Time) (*domain.BalanceSheetReport, error)
	ProfitLoss(ctx context.Context, companyID string, from, to time.Time) (*domain.ProfitLossReport, error)
}

// AuditPublisher accepts audit events for asynchronous, best-effort delivery.
// Emit never blocks and never surfaces delivery failures to the caller.
type AuditPublisher interface {
	Emit(event domain.AuditEvent)
}

// ServiceContainer bundles the concrete services handed to the handlers.
type ServiceContainer struct {
	Journal   JournalSvcFacade
	Reporting ReportingSvcFacade
	Audit     AuditPublisher
}
