package pgsql

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/munshibooks/munshi_backend/internal/apperrors"
	"github.com/munshibooks/munshi_backend/internal/core/domain"
	portsrepo "github.com/munshibooks/munshi_backend/internal/core/ports/repositories"
	"github.com/munshibooks/munshi_backend/internal/models"
	"github.com/munshibooks/munshi_backend/internal/utils/mapping"
	"github.com/munshibooks/munshi_backend/internal/utils/pagination"
)

// PgxJournalRepository persists journal entries and their lines.
type PgxJournalRepository struct {
	BaseRepository
}

func newPgxJournalRepository(pool *pgxpool.Pool) portsrepo.JournalEntryRepository {
	return &PgxJournalRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.JournalEntryRepository = (*PgxJournalRepository)(nil)

const entryColumns = `id, company_id, entry_date, description, created_by, source_document_id, is_adjusting_entry, created_at`

const lineColumns = `id, journal_entry_id, account_id, type, amount`

// SaveEntry writes the entry row and all of its lines inside one database
// transaction. Readers never observe the entry without its lines: a failure
// on the line batch rolls the entry row back.
func (r *PgxJournalRepository) SaveEntry(ctx context.Context, entry domain.JournalEntry) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	modelEntry := mapping.ToModelEntry(entry)
	entryQuery := `
		INSERT INTO journal_entries (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err = tx.Exec(ctx, entryQuery,
		modelEntry.EntryID,
		modelEntry.CompanyID,
		modelEntry.EntryDate,
		modelEntry.Description,
		modelEntry.CreatedBy,
		modelEntry.SourceDocumentID,
		modelEntry.IsAdjusting,
		modelEntry.CreatedAt,
	)
	if err != nil {
		// First write failed: nothing is visible, plain abort.
		return apperrors.NewPersistenceError("insert entry "+modelEntry.EntryID, err)
	}

	if err := insertLines(ctx, tx, entry.Lines); err != nil {
		// Second write failed after the entry row: the rollback is the
		// compensating cleanup, so report whether it worked.
		compensated := r.Rollback(ctx, tx) == nil
		return &apperrors.PersistenceError{
			Op:          "insert lines for entry " + modelEntry.EntryID,
			Compensated: compensated,
			Err:         err,
		}
	}

	return r.Commit(ctx, tx)
}

// UpdateEntry rewrites the entry's mutable fields and, when replaceLines is
// set, swaps the entire line set (delete all, then reinsert) in the same
// transaction. Single lines are never patched.
func (r *PgxJournalRepository) UpdateEntry(ctx context.Context, entry domain.JournalEntry, replaceLines bool) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	modelEntry := mapping.ToModelEntry(entry)
	updateQuery := `
		UPDATE journal_entries
		SET entry_date = $2,
		    description = $3,
		    is_adjusting_entry = $4,
		    source_document_id = $5
		WHERE id = $1;
	`
	cmdTag, err := tx.Exec(ctx, updateQuery,
		modelEntry.EntryID,
		modelEntry.EntryDate,
		modelEntry.Description,
		modelEntry.IsAdjusting,
		modelEntry.SourceDocumentID,
	)
	if err != nil {
		return apperrors.NewPersistenceError("update entry "+modelEntry.EntryID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	if replaceLines {
		if _, err := tx.Exec(ctx, `DELETE FROM journal_entry_lines WHERE journal_entry_id = $1;`, modelEntry.EntryID); err != nil {
			return apperrors.NewPersistenceError("delete lines for entry "+modelEntry.EntryID, err)
		}
		if err := insertLines(ctx, tx, entry.Lines); err != nil {
			compensated := r.Rollback(ctx, tx) == nil
			return &apperrors.PersistenceError{
				Op:          "reinsert lines for entry " + modelEntry.EntryID,
				Compensated: compensated,
				Err:         err,
			}
		}
	}

	return r.Commit(ctx, tx)
}

// insertLines queues every line insert into one batch on the transaction.
func insertLines(ctx context.Context, tx pgx.Tx, lines []domain.JournalLine) error {
	batch := &pgx.Batch{}
	lineQuery := `
		INSERT INTO journal_entry_lines (` + lineColumns + `)
		VALUES ($1, $2, $3, $4, $5);
	`
	for _, line := range lines {
		modelLine := mapping.ToModelLine(line)
		batch.Queue(lineQuery,
			modelLine.LineID,
			modelLine.EntryID,
			modelLine.AccountID,
			modelLine.LineType,
			modelLine.Amount,
		)
	}
	br := tx.SendBatch(ctx, batch)
	return br.Close()
}

// FindEntryByID retrieves an entry with its lines.
func (r *PgxJournalRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM journal_entries
		WHERE id = $1;
	`
	var m models.JournalEntry
	err := r.Pool.QueryRow(ctx, query, entryID).Scan(
		&m.EntryID,
		&m.CompanyID,
		&m.EntryDate,
		&m.Description,
		&m.CreatedBy,
		&m.SourceDocumentID,
		&m.IsAdjusting,
		&m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewPersistenceError("find entry "+entryID, err)
	}

	entry := mapping.ToDomainEntry(m)
	lines, err := r.findLinesByEntryIDs(ctx, []string{entryID})
	if err != nil {
		return nil, err
	}
	entry.Lines = lines[entryID]
	return &entry, nil
}

// ListEntries returns one page of entries matching the filter, with lines
// attached, plus the total match count computed before pagination.
func (r *PgxJournalRepository) ListEntries(ctx context.Context, companyID string, filter domain.EntryFilter, page pagination.Page) ([]domain.JournalEntry, int64, error) {
	whereClause, args := buildEntryFilter(companyID, filter)

	var total int64
	countQuery := `SELECT COUNT(*) FROM journal_entries ` + whereClause + `;`
	if err := r.Pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, apperrors.NewPersistenceError("count entries for company "+companyID, err)
	}

	listQuery := `
		SELECT ` + entryColumns + `
		FROM journal_entries ` + whereClause + `
		ORDER BY entry_date DESC, created_at DESC
		LIMIT $` + strconv.Itoa(len(args)+1) + ` OFFSET $` + strconv.Itoa(len(args)+2) + `;`
	args = append(args, page.Size, page.Offset())

	rows, err := r.Pool.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, apperrors.NewPersistenceError("query entries for company "+companyID, err)
	}
	defer rows.Close()

	entries, err := scanEntries(rows, companyID)
	if err != nil {
		return nil, 0, err
	}

	if err := r.attachLines(ctx, entries); err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

// FindEntriesInRange returns every entry with entry_date in [from, to], both
// inclusive, with lines attached. A zero from means no lower bound.
func (r *PgxJournalRepository) FindEntriesInRange(ctx context.Context, companyID string, from, to time.Time) ([]domain.JournalEntry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM journal_entries
		WHERE company_id = $1 AND entry_date <= $2
	`
	args := []interface{}{companyID, to}
	if !from.IsZero() {
		query += ` AND entry_date >= $3`
		args = append(args, from)
	}
	query += ` ORDER BY entry_date, created_at;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewPersistenceError("query entries in range for company "+companyID, err)
	}
	defer rows.Close()

	entries, err := scanEntries(rows, companyID)
	if err != nil {
		return nil, err
	}
	if err := r.attachLines(ctx, entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// ListLinesByAccount returns one page of a single account's line history,
// newest entry first, plus the total match count.
func (r *PgxJournalRepository) ListLinesByAccount(ctx context.Context, companyID, accountID string, from, to *time.Time, page pagination.Page) ([]domain.JournalLine, int64, error) {
	whereClause := `WHERE e.company_id = $1 AND l.account_id = $2`
	args := []interface{}{companyID, accountID}
	if from != nil {
		args = append(args, *from)
		whereClause += ` AND e.entry_date >= $` + strconv.Itoa(len(args))
	}
	if to != nil {
		args = append(args, *to)
		whereClause += ` AND e.entry_date <= $` + strconv.Itoa(len(args))
	}

	baseQuery := `
		FROM journal_entry_lines l
		JOIN journal_entries e ON l.journal_entry_id = e.id
		` + whereClause

	var total int64
	if err := r.Pool.QueryRow(ctx, `SELECT COUNT(*) `+baseQuery+`;`, args...).Scan(&total); err != nil {
		return nil, 0, apperrors.NewPersistenceError("count lines for account "+accountID, err)
	}

	listQuery := `
		SELECT l.id, l.journal_entry_id, l.account_id, l.type, l.amount ` + baseQuery + `
		ORDER BY e.entry_date DESC, e.created_at DESC, l.id
		LIMIT $` + strconv.Itoa(len(args)+1) + ` OFFSET $` + strconv.Itoa(len(args)+2) + `;`
	args = append(args, page.Size, page.Offset())

	rows, err := r.Pool.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, apperrors.NewPersistenceError("query lines for account "+accountID, err)
	}
	defer rows.Close()

	lines := []models.JournalEntryLine{}
	for rows.Next() {
		var l models.JournalEntryLine
		if err := rows.Scan(&l.LineID, &l.EntryID, &l.AccountID, &l.LineType, &l.Amount); err != nil {
			return nil, 0, apperrors.NewPersistenceError("scan line row for account "+accountID, err)
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, apperrors.NewPersistenceError("iterate line rows for account "+accountID, err)
	}

	return mapping.ToDomainLineSlice(lines), total, nil
}

// buildEntryFilter renders the WHERE clause for entry listings.
func buildEntryFilter(companyID string, filter domain.EntryFilter) (string, []interface{}) {
	whereClause := `WHERE company_id = $1`
	args := []interface{}{companyID}

	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		whereClause += ` AND description ILIKE $` + strconv.Itoa(len(args))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		whereClause += ` AND entry_date >= $` + strconv.Itoa(len(args))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		whereClause += ` AND entry_date <= $` + strconv.Itoa(len(args))
	}
	switch filter.EntryType {
	case domain.EntryTypeRegular:
		whereClause += ` AND is_adjusting_entry = FALSE`
	case domain.EntryTypeAdjusting:
		whereClause += ` AND is_adjusting_entry = TRUE`
	}
	return whereClause, args
}

func scanEntries(rows pgx.Rows, companyID string) ([]domain.JournalEntry, error) {
	entries := []domain.JournalEntry{}
	for rows.Next() {
		var m models.JournalEntry
		if err := rows.Scan(
			&m.EntryID,
			&m.CompanyID,
			&m.EntryDate,
			&m.Description,
			&m.CreatedBy,
			&m.SourceDocumentID,
			&m.IsAdjusting,
			&m.CreatedAt,
		); err != nil {
			return nil, apperrors.NewPersistenceError("scan entry row for company "+companyID, err)
		}
		entries = append(entries, mapping.ToDomainEntry(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewPersistenceError("iterate entry rows for company "+companyID, err)
	}
	return entries, nil
}

// attachLines fetches the lines of every entry in one query and attaches
// them in place.
func (r *PgxJournalRepository) attachLines(ctx context.Context, entries []domain.JournalEntry) error {
	if len(entries) == 0 {
		return nil
	}
	entryIDs := make([]string, len(entries))
	for i, e := range entries {
		entryIDs[i] = e.EntryID
	}
	linesByEntry, err := r.findLinesByEntryIDs(ctx, entryIDs)
	if err != nil {
		return err
	}
	for i := range entries {
		entries[i].Lines = linesByEntry[entries[i].EntryID]
	}
	return nil
}

func (r *PgxJournalRepository) findLinesByEntryIDs(ctx context.Context, entryIDs []string) (map[string][]domain.JournalLine, error) {
	query := `
		SELECT ` + lineColumns + `
		FROM journal_entry_lines
		WHERE journal_entry_id = ANY($1)
		ORDER BY journal_entry_id, id;
	`
	rows, err := r.Pool.Query(ctx, query, entryIDs)
	if err != nil {
		return nil, apperrors.NewPersistenceError("query lines for entries", err)
	}
	defer rows.Close()

	linesByEntry := make(map[string][]domain.JournalLine)
	for rows.Next() {
		var l models.JournalEntryLine
		if err := rows.Scan(&l.LineID, &l.EntryID, &l.AccountID, &l.LineType, &l.Amount); err != nil {
			return nil, apperrors.NewPersistenceError("scan line row", err)
		}
		domainLine := mapping.ToDomainLine(l)
		linesByEntry[domainLine.EntryID] = append(linesByEntry[domainLine.EntryID], domainLine)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewPersistenceError("iterate line rows", err)
	}

	// Entries without lines still get an empty slice.
	for _, id := range entryIDs {
		if _, ok := linesByEntry[id]; !ok {
			linesByEntry[id] = []domain.JournalLine{}
		}
	}
	return linesByEntry, nil
}
