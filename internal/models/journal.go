package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalEntry mirrors the journal_entries row. The column semantics are an
// external contract shared with the reporting UI and the FBR pipeline.
type JournalEntry struct {
	EntryID          string
	CompanyID        string
	EntryDate        time.Time
	Description      string
	CreatedBy        *string
	SourceDocumentID *string
	IsAdjusting      bool
	CreatedAt        time.Time
}

// JournalEntryLine mirrors the journal_entry_lines row.
type JournalEntryLine struct {
	LineID    string
	EntryID   string
	AccountID string
	LineType  string // DEBIT or CREDIT
	Amount    decimal.Decimal
}
