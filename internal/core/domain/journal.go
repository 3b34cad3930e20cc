package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LineType indicates whether a journal line is a Debit or a Credit.
type LineType string

const (
	Debit  LineType = "DEBIT"
	Credit LineType = "CREDIT"
)

// JournalEntry represents a single dated financial event composed of debit
// and credit lines. An entry is created atomically with its lines; later
// edits replace the whole line set, never a single line.
type JournalEntry struct {
	EntryID          string        `json:"entryID"`   // Primary Key (UUID)
	CompanyID        string        `json:"companyID"` // Tenant
	EntryDate        time.Time     `json:"entryDate"` // Date the event occurred
	Description      string        `json:"description"`
	CreatedBy        *string       `json:"createdBy,omitempty"`        // User or accountant reference, nullable for automated processes
	SourceDocumentID *string       `json:"sourceDocumentID,omitempty"` // Optional back-reference, no ownership
	IsAdjusting      bool          `json:"isAdjusting"`                // Period-end correction vs operational transaction
	CreatedAt        time.Time     `json:"createdAt"`
	Lines            []JournalLine `json:"lines,omitempty"`
}

// JournalLine is a single debit or credit against one account within an entry.
type JournalLine struct {
	LineID    string          `json:"lineID"`    // Primary Key (UUID)
	EntryID   string          `json:"entryID"`   // FK -> JournalEntry
	AccountID string          `json:"accountID"` // Reference into the COA, not owned
	Type      LineType        `json:"type"`      // DEBIT or CREDIT
	Amount    decimal.Decimal `json:"amount"`    // Positive value
}

// EntryTypeFilter restricts a listing to regular or adjusting entries.
type EntryTypeFilter string

const (
	EntryTypeAll       EntryTypeFilter = ""
	EntryTypeRegular   EntryTypeFilter = "regular"
	EntryTypeAdjusting EntryTypeFilter = "adjusting"
)

// EntryFilter carries the optional criteria for listing journal entries.
type EntryFilter struct {
	Search    string // Substring match on description
	From      *time.Time
	To        *time.Time // Inclusive
	EntryType EntryTypeFilter
}
