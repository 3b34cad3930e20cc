package dto

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/munshibooks/munshi_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// validate is shared by all request DTOs; gin's binding covers field
// presence, this covers the cross-field and dive rules.
var validate = validator.New()

// ISODate is the date format accepted on the wire for entry and report dates.
const ISODate = "2006-01-02"

// Entry write modes. Strict enforces debits == credits before any write;
// draft preserves the legacy pass-through behavior for incomplete entries.
const (
	ModeStrict = "strict"
	ModeDraft  = "draft"
)

// EntryLineRequest is one debit or credit line of a create/update request.
type EntryLineRequest struct {
	AccountID string          `json:"accountID" validate:"required"`
	Type      domain.LineType `json:"type" validate:"required,oneof=DEBIT CREDIT"`
	Amount    decimal.Decimal `json:"amount" validate:"required"`
}

// CreateEntryRequest is the payload for creating a journal entry with its
// lines.
type CreateEntryRequest struct {
	EntryDate        string             `json:"entryDate" validate:"required,datetime=2006-01-02"`
	Description      string             `json:"description" validate:"required"`
	IsAdjusting      bool               `json:"isAdjusting"`
	SourceDocumentID *string            `json:"sourceDocumentID,omitempty"`
	Mode             string             `json:"mode,omitempty" validate:"omitempty,oneof=strict draft"`
	Lines            []EntryLineRequest `json:"lines" validate:"required,min=2,dive"`
}

// Validate runs the struct rules and returns the first violation.
func (r CreateEntryRequest) Validate() error {
	return validate.Struct(r)
}

// Date parses the entry date boundary.
func (r CreateEntryRequest) Date() (time.Time, error) {
	return time.Parse(ISODate, r.EntryDate)
}

// Strict reports whether the balance invariant must hold before persisting.
func (r CreateEntryRequest) Strict() bool {
	return r.Mode != ModeDraft
}

// UpdateEntryRequest carries partial field updates and, optionally, a full
// replacement line set. Nil fields are left untouched.
type UpdateEntryRequest struct {
	EntryDate   *string             `json:"entryDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Description *string             `json:"description,omitempty"`
	IsAdjusting *bool               `json:"isAdjusting,omitempty"`
	Mode        string              `json:"mode,omitempty" validate:"omitempty,oneof=strict draft"`
	Lines       *[]EntryLineRequest `json:"lines,omitempty" validate:"omitempty,min=2,dive"`
}

// Validate runs the struct rules and returns the first violation.
func (r UpdateEntryRequest) Validate() error {
	return validate.Struct(r)
}

// Date parses the replacement entry date, if any.
func (r UpdateEntryRequest) Date() (*time.Time, error) {
	if r.EntryDate == nil {
		return nil, nil
	}
	t, err := time.Parse(ISODate, *r.EntryDate)
	if err != nil {
		return nil, fmt.Errorf("invalid entryDate: %w", err)
	}
	return &t, nil
}

// Strict reports whether the balance invariant must hold before persisting.
func (r UpdateEntryRequest) Strict() bool {
	return r.Mode != ModeDraft
}

// ToDomainLines converts request lines into domain lines without IDs; the
// service assigns those.
func ToDomainLines(lines []EntryLineRequest) []domain.JournalLine {
	out := make([]domain.JournalLine, len(lines))
	for i, l := range lines {
		out[i] = domain.JournalLine{
			AccountID: l.AccountID,
			Type:      l.Type,
			Amount:    l.Amount,
		}
	}
	return out
}

// ListEntriesParams carries the listing filter and page request.
type ListEntriesParams struct {
	Search    string
	From      *time.Time
	To        *time.Time
	EntryType domain.EntryTypeFilter
	Page      int
	PageSize  int
}

// LineResponse mirrors a persisted journal line.
type LineResponse struct {
	LineID    string          `json:"lineID"`
	EntryID   string          `json:"entryID"`
	AccountID string          `json:"accountID"`
	Type      string          `json:"type"`
	Amount    decimal.Decimal `json:"amount"`
}

// EntryResponse mirrors a persisted journal entry with its lines.
type EntryResponse struct {
	EntryID          string         `json:"entryID"`
	CompanyID        string         `json:"companyID"`
	EntryDate        string         `json:"entryDate"`
	Description      string         `json:"description"`
	CreatedBy        *string        `json:"createdBy,omitempty"`
	SourceDocumentID *string        `json:"sourceDocumentID,omitempty"`
	IsAdjusting      bool           `json:"isAdjusting"`
	CreatedAt        time.Time      `json:"createdAt"`
	Lines            []LineResponse `json:"lines"`
}

// ListEntriesResponse is one page of entries plus the pre-pagination total.
type ListEntriesResponse struct {
	Entries  []EntryResponse `json:"entries"`
	Total    int64           `json:"total"`
	Page     int             `json:"page"`
	PageSize int             `json:"pageSize"`
}

// ListAccountLinesParams carries the account-ledger filter and page request.
type ListAccountLinesParams struct {
	From     *time.Time
	To       *time.Time
	Page     int
	PageSize int
}

// ListAccountLinesResponse is one page of a single account's line history.
type ListAccountLinesResponse struct {
	Lines    []LineResponse `json:"lines"`
	Total    int64          `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"pageSize"`
}

// ToLineResponse converts a domain line to its response shape.
func ToLineResponse(l domain.JournalLine) LineResponse {
	return LineResponse{
		LineID:    l.LineID,
		EntryID:   l.EntryID,
		AccountID: l.AccountID,
		Type:      string(l.Type),
		Amount:    l.Amount,
	}
}

// ToLineResponses converts a slice of domain lines.
func ToLineResponses(lines []domain.JournalLine) []LineResponse {
	out := make([]LineResponse, len(lines))
	for i, l := range lines {
		out[i] = ToLineResponse(l)
	}
	return out
}

// ToEntryResponse converts a domain entry to its response shape.
func ToEntryResponse(e *domain.JournalEntry) EntryResponse {
	return EntryResponse{
		EntryID:          e.EntryID,
		CompanyID:        e.CompanyID,
		EntryDate:        e.EntryDate.Format(ISODate),
		Description:      e.Description,
		CreatedBy:        e.CreatedBy,
		SourceDocumentID: e.SourceDocumentID,
		IsAdjusting:      e.IsAdjusting,
		CreatedAt:        e.CreatedAt,
		Lines:            ToLineResponses(e.Lines),
	}
}
