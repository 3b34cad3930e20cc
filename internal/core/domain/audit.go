package domain

import "time"

// ActivityKind labels the subsystem an audit event originates from.
type ActivityKind string

const (
	ActivityJournal ActivityKind = "JOURNAL"
)

// Audit actions emitted by the journal entry store.
const (
	ActionEntryCreated = "JOURNAL_ENTRY_CREATED"
	ActionEntryUpdated = "JOURNAL_ENTRY_UPDATED"
)

// AuditEvent is handed to the external activity-log sink. Emission is
// best-effort: a failed write is logged and never unwinds the operation
// that produced the event.
type AuditEvent struct {
	CompanyID    string
	ActorID      *string // Nullable for automated processes
	ActivityKind ActivityKind
	ActorLabel   string
	Action       string
	Details      map[string]any
	OccurredAt   time.Time
}
