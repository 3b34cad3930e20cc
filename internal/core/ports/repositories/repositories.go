package repositories

import (
	"context"
	"time"

	"github.com/munshibooks/munshi_backend/internal/core/domain"
	"github.com/munshibooks/munshi_backend/internal/utils/pagination"
)

// AccountDirectory reads the tenant's Chart of Accounts from the external
// store. The ledger core never writes accounts. No caching is guaranteed;
// callers own their refresh cadence.
type AccountDirectory interface {
	// ResolveAccounts returns the accountID -> Account mapping for a tenant.
	// It fails with apperrors.ErrNotFound when the tenant has no COA rows;
	// callers must treat that as "no accounts configured", not zero balances.
	ResolveAccounts(ctx context.Context, companyID string) (map[string]domain.Account, error)

	// CompanyExists reports whether the tenant record itself is present,
	// so callers can distinguish a missing tenant from an empty COA.
	CompanyExists(ctx context.Context, companyID string) (bool, error)
}

// JournalEntryRepository persists journal entries and their lines.
type JournalEntryRepository interface {
	// SaveEntry writes the entry row and all of its lines as one unit.
	// Nothing is visible to readers unless every write succeeds.
	SaveEntry(ctx context.Context, entry domain.JournalEntry) error

	// UpdateEntry rewrites the entry's mutable fields. When replaceLines is
	// set, every existing line is deleted and entry.Lines inserted in its
	// place within the same transaction.
	UpdateEntry(ctx context.Context, entry domain.JournalEntry, replaceLines bool) error

	// FindEntryByID returns the entry with its lines, or apperrors.ErrNotFound.
	FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// ListEntries returns one page of matching entries (with lines) plus the
	// total match count computed before pagination.
	ListEntries(ctx context.Context, companyID string, filter domain.EntryFilter, page pagination.Page) ([]domain.JournalEntry, int64, error)

	// FindEntriesInRange returns every entry (with lines) whose entry_date
	// falls in [from, to], both inclusive. A zero from means no lower bound.
	FindEntriesInRange(ctx context.Context, companyID string, from, to time.Time) ([]domain.JournalEntry, error)

	// ListLinesByAccount returns one page of a single account's line history
	// ordered by entry date descending, plus the total match count.
	ListLinesByAccount(ctx context.Context, companyID, accountID string, from, to *time.Time, page pagination.Page) ([]domain.JournalLine, int64, error)
}

// AuditLogRepository appends events to the external activity-log sink.
type AuditLogRepository interface {
	SaveEvent(ctx context.Context, event domain.AuditEvent) error
}

// RepositoryProvider bundles the concrete repositories handed to the service
// layer.
type RepositoryProvider struct {
	AccountDirectory AccountDirectory
	JournalRepo      JournalEntryRepository
	AuditRepo        AuditLogRepository
}
