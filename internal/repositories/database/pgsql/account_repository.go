package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/munshibooks/munshi_backend/internal/apperrors"
	"github.com/munshibooks/munshi_backend/internal/core/domain"
	portsrepo "github.com/munshibooks/munshi_backend/internal/core/ports/repositories"
	"github.com/munshibooks/munshi_backend/internal/models"
	"github.com/munshibooks/munshi_backend/internal/utils/mapping"
)

// PgxAccountDirectory reads the tenant's Chart of Accounts. The COA is owned
// by the external account administration collaborator; this adapter never
// writes to it.
type PgxAccountDirectory struct {
	BaseRepository
}

func newPgxAccountDirectory(pool *pgxpool.Pool) portsrepo.AccountDirectory {
	return &PgxAccountDirectory{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.AccountDirectory = (*PgxAccountDirectory)(nil)

// ResolveAccounts returns the accountID -> Account mapping for a tenant.
// A tenant without any COA rows yields apperrors.ErrNotFound.
func (r *PgxAccountDirectory) ResolveAccounts(ctx context.Context, companyID string) (map[string]domain.Account, error) {
	query := `
		SELECT account_id, company_id, account_name, account_type
		FROM accounts
		WHERE company_id = $1;
	`
	rows, err := r.Pool.Query(ctx, query, companyID)
	if err != nil {
		return nil, apperrors.NewPersistenceError("query accounts for company "+companyID, err)
	}
	defer rows.Close()

	accounts := make(map[string]domain.Account)
	for rows.Next() {
		var m models.Account
		if err := rows.Scan(&m.AccountID, &m.CompanyID, &m.AccountName, &m.AccountType); err != nil {
			return nil, apperrors.NewPersistenceError("scan account row for company "+companyID, err)
		}
		acc := mapping.ToDomainAccount(m)
		accounts[acc.AccountID] = acc
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewPersistenceError("iterate account rows for company "+companyID, err)
	}

	if len(accounts) == 0 {
		return nil, fmt.Errorf("no accounts configured for company %s: %w", companyID, apperrors.ErrNotFound)
	}
	return accounts, nil
}

// CompanyExists reports whether the tenant record is present.
func (r *PgxAccountDirectory) CompanyExists(ctx context.Context, companyID string) (bool, error) {
	var one int
	err := r.Pool.QueryRow(ctx, `SELECT 1 FROM companies WHERE company_id = $1;`, companyID).Scan(&one)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, apperrors.NewPersistenceError("query company "+companyID, err)
	}
	return true, nil
}
