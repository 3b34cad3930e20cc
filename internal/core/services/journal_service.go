package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/munshibooks/munshi_backend/internal/apperrors"
	"github.com/munshibooks/munshi_backend/internal/core/domain"
	portsrepo "github.com/munshibooks/munshi_backend/internal/core/ports/repositories"
	portssvc "github.com/munshibooks/munshi_backend/internal/core/ports/services"
	"github.com/munshibooks/munshi_backend/internal/dto"
	"github.com/munshibooks/munshi_backend/internal/middleware"
	"github.com/munshibooks/munshi_backend/internal/utils/accounting"
	"github.com/munshibooks/munshi_backend/internal/utils/pagination"
	"github.com/shopspring/decimal"
)

var (
	// ErrEntryUnbalanced is returned in strict mode when debit and credit
	// totals disagree beyond the tolerance.
	ErrEntryUnbalanced = fmt.Errorf("%w: debit and credit totals do not match", apperrors.ErrValidation)
	// ErrEntryMinLines is returned when fewer than two lines are supplied.
	ErrEntryMinLines = fmt.Errorf("%w: entry must have at least two lines", apperrors.ErrValidation)
	// ErrAmountNotPositive is returned when any line amount is zero or negative.
	ErrAmountNotPositive = fmt.Errorf("%w: line amount must be positive", apperrors.ErrValidation)
	// ErrAccountUnknown is returned when a line references an account the
	// tenant's COA does not contain.
	ErrAccountUnknown = fmt.Errorf("%w: account not found in chart of accounts", apperrors.ErrValidation)
)

// journalService implements journal entry creation, mutation and listing.
type journalService struct {
	journalRepo portsrepo.JournalEntryRepository
	directory   portsrepo.AccountDirectory
	audit       portssvc.AuditPublisher
}

// NewJournalService creates a new journal service.
func NewJournalService(journalRepo portsrepo.JournalEntryRepository, directory portsrepo.AccountDirectory, audit portssvc.AuditPublisher) portssvc.JournalSvcFacade {
	return &journalService{
		journalRepo: journalRepo,
		directory:   directory,
		audit:       audit,
	}
}

var _ portssvc.JournalSvcFacade = (*journalService)(nil)

// CreateEntry validates and persists a new journal entry with its lines,
// then emits an audit event. The audit emission is fire-and-forget: its
// failure never unwinds the creation.
func (s *journalService) CreateEntry(ctx context.Context, companyID string, req dto.CreateEntryRequest, actorID *string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	entryDate, err := req.Date()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	lines := dto.ToDomainLines(req.Lines)
	if err := s.validateLines(ctx, companyID, lines, req.Strict()); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	entry := domain.JournalEntry{
		EntryID:          uuid.NewString(),
		CompanyID:        companyID,
		EntryDate:        entryDate,
		Description:      req.Description,
		CreatedBy:        actorID,
		SourceDocumentID: req.SourceDocumentID,
		IsAdjusting:      req.IsAdjusting,
		CreatedAt:        now,
		Lines:            lines,
	}
	for i := range entry.Lines {
		entry.Lines[i].LineID = uuid.NewString()
		entry.Lines[i].EntryID = entry.EntryID
	}

	if err := s.journalRepo.SaveEntry(ctx, entry); err != nil {
		logger.Error("Failed to save journal entry",
			slog.String("company_id", companyID), slog.String("error", err.Error()))
		return nil, err
	}

	s.audit.Emit(domain.AuditEvent{
		CompanyID:    companyID,
		ActorID:      actorID,
		ActivityKind: domain.ActivityJournal,
		ActorLabel:   actorLabel(actorID),
		Action:       domain.ActionEntryCreated,
		Details: map[string]any{
			"entryID":     entry.EntryID,
			"description": entry.Description,
			"entryDate":   entry.EntryDate.Format(dto.ISODate),
			"isAdjusting": entry.IsAdjusting,
			"lineCount":   len(entry.Lines),
		},
		OccurredAt: now,
	})

	logger.Info("Journal entry created",
		slog.String("entry_id", entry.EntryID),
		slog.String("company_id", companyID),
		slog.Int("line_count", len(entry.Lines)))
	return &entry, nil
}

// UpdateEntry applies partial field updates and, when a line set is
// supplied, replaces every existing line with the new set. EntryID and
// CreatedAt never change.
func (s *journalService) UpdateEntry(ctx context.Context, companyID, entryID string, req dto.UpdateEntryRequest, actorID *string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	entry, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if entry.CompanyID != companyID {
		// Obscure the entry's existence to other tenants.
		return nil, apperrors.ErrNotFound
	}

	if newDate, err := req.Date(); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	} else if newDate != nil {
		entry.EntryDate = *newDate
	}
	if req.Description != nil {
		entry.Description = *req.Description
	}
	if req.IsAdjusting != nil {
		entry.IsAdjusting = *req.IsAdjusting
	}

	replaceLines := req.Lines != nil
	if replaceLines {
		lines := dto.ToDomainLines(*req.Lines)
		if err := s.validateLines(ctx, companyID, lines, req.Strict()); err != nil {
			return nil, err
		}
		for i := range lines {
			lines[i].LineID = uuid.NewString()
			lines[i].EntryID = entry.EntryID
		}
		entry.Lines = lines
	}

	if err := s.journalRepo.UpdateEntry(ctx, *entry, replaceLines); err != nil {
		logger.Error("Failed to update journal entry",
			slog.String("entry_id", entryID), slog.String("error", err.Error()))
		return nil, err
	}

	s.audit.Emit(domain.AuditEvent{
		CompanyID:    companyID,
		ActorID:      actorID,
		ActivityKind: domain.ActivityJournal,
		ActorLabel:   actorLabel(actorID),
		Action:       domain.ActionEntryUpdated,
		Details: map[string]any{
			"entryID":       entry.EntryID,
			"description":   entry.Description,
			"entryDate":     entry.EntryDate.Format(dto.ISODate),
			"isAdjusting":   entry.IsAdjusting,
			"linesReplaced": replaceLines,
			"lineCount":     len(entry.Lines),
		},
		OccurredAt: time.Now().UTC(),
	})

	logger.Info("Journal entry updated",
		slog.String("entry_id", entry.EntryID),
		slog.Bool("lines_replaced", replaceLines))
	return entry, nil
}

// GetEntry retrieves an entry with its lines, scoped to the tenant.
func (s *journalService) GetEntry(ctx context.Context, companyID, entryID string) (*domain.JournalEntry, error) {
	entry, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if entry.CompanyID != companyID {
		return nil, apperrors.ErrNotFound
	}
	return entry, nil
}

// ListEntries returns one page of entries matching the filter, plus the
// total match count computed before pagination.
func (s *journalService) ListEntries(ctx context.Context, companyID string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	page := pagination.Normalize(params.Page, params.PageSize)
	filter := domain.EntryFilter{
		Search:    params.Search,
		From:      params.From,
		To:        params.To,
		EntryType: params.EntryType,
	}

	entries, total, err := s.journalRepo.ListEntries(ctx, companyID, filter, page)
	if err != nil {
		logger.Error("Failed to list journal entries",
			slog.String("company_id", companyID), slog.String("error", err.Error()))
		return nil, err
	}

	resp := &dto.ListEntriesResponse{
		Entries:  make([]dto.EntryResponse, len(entries)),
		Total:    total,
		Page:     page.Number,
		PageSize: page.Size,
	}
	for i := range entries {
		resp.Entries[i] = dto.ToEntryResponse(&entries[i])
	}
	return resp, nil
}

// ListAccountLines returns one page of a single account's line history.
func (s *journalService) ListAccountLines(ctx context.Context, companyID, accountID string, params dto.ListAccountLinesParams) (*dto.ListAccountLinesResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	page := pagination.Normalize(params.Page, params.PageSize)
	lines, total, err := s.journalRepo.ListLinesByAccount(ctx, companyID, accountID, params.From, params.To, page)
	if err != nil {
		logger.Error("Failed to list account lines",
			slog.String("company_id", companyID),
			slog.String("account_id", accountID),
			slog.String("error", err.Error()))
		return nil, err
	}

	return &dto.ListAccountLinesResponse{
		Lines:    dto.ToLineResponses(lines),
		Total:    total,
		Page:     page.Number,
		PageSize: page.Size,
	}, nil
}

// validateLines enforces the line-level invariants: at least two lines,
// positive amounts, every account resolvable in the tenant's COA, and, in
// strict mode, debit and credit totals agreeing within the tolerance.
func (s *journalService) validateLines(ctx context.Context, companyID string, lines []domain.JournalLine, strict bool) error {
	if len(lines) < 2 {
		return ErrEntryMinLines
	}
	for _, line := range lines {
		if line.Amount.LessThanOrEqual(decimal.Zero) {
			return fmt.Errorf("%w (account %s)", ErrAmountNotPositive, line.AccountID)
		}
	}

	accounts, err := s.directory.ResolveAccounts(ctx, companyID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: no accounts configured for company %s", apperrors.ErrValidation, companyID)
		}
		return err
	}
	for _, line := range lines {
		if _, ok := accounts[line.AccountID]; !ok {
			return fmt.Errorf("%w (account %s)", ErrAccountUnknown, line.AccountID)
		}
	}

	if strict {
		debits, credits := accounting.SumByType(lines)
		if !accounting.IsBalanced(debits, credits) {
			return fmt.Errorf("%w (debits %s, credits %s)", ErrEntryUnbalanced, debits, credits)
		}
	}
	return nil
}

func actorLabel(actorID *string) string {
	if actorID == nil {
		return "system"
	}
	return "accountant"
}
