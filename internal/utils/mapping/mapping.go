package mapping

import (
	"github.com/munshibooks/munshi_backend/internal/core/domain"
	"github.com/munshibooks/munshi_backend/internal/models"
)

// ToModelEntry converts a domain JournalEntry to its row model.
func ToModelEntry(d domain.JournalEntry) models.JournalEntry {
	return models.JournalEntry{
		EntryID:          d.EntryID,
		CompanyID:        d.CompanyID,
		EntryDate:        d.EntryDate,
		Description:      d.Description,
		CreatedBy:        d.CreatedBy,
		SourceDocumentID: d.SourceDocumentID,
		IsAdjusting:      d.IsAdjusting,
		CreatedAt:        d.CreatedAt,
	}
}

// ToDomainEntry converts a row model to a domain JournalEntry (without lines).
func ToDomainEntry(m models.JournalEntry) domain.JournalEntry {
	return domain.JournalEntry{
		EntryID:          m.EntryID,
		CompanyID:        m.CompanyID,
		EntryDate:        m.EntryDate,
		Description:      m.Description,
		CreatedBy:        m.CreatedBy,
		SourceDocumentID: m.SourceDocumentID,
		IsAdjusting:      m.IsAdjusting,
		CreatedAt:        m.CreatedAt,
	}
}

// ToModelLine converts a domain JournalLine to its row model.
func ToModelLine(d domain.JournalLine) models.JournalEntryLine {
	return models.JournalEntryLine{
		LineID:    d.LineID,
		EntryID:   d.EntryID,
		AccountID: d.AccountID,
		LineType:  string(d.Type),
		Amount:    d.Amount,
	}
}

// ToDomainLine converts a row model to a domain JournalLine.
func ToDomainLine(m models.JournalEntryLine) domain.JournalLine {
	return domain.JournalLine{
		LineID:    m.LineID,
		EntryID:   m.EntryID,
		AccountID: m.AccountID,
		Type:      domain.LineType(m.LineType),
		Amount:    m.Amount,
	}
}

// ToDomainLineSlice converts a slice of line row models.
func ToDomainLineSlice(ms []models.JournalEntryLine) []domain.JournalLine {
	ds := make([]domain.JournalLine, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainLine(m)
	}
	return ds
}

// ToDomainAccount converts an account row model.
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID: m.AccountID,
		CompanyID: m.CompanyID,
		Name:      m.AccountName,
		Type:      domain.AccountType(m.AccountType),
	}
}
