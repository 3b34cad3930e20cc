package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"
	portsrepo "github.com/munshibooks/munshi_backend/internal/core/ports/repositories"
)

// NewRepositoryProvider wires every pgsql repository onto one pool.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountDirectory: newPgxAccountDirectory(dbPool),
		JournalRepo:      newPgxJournalRepository(dbPool),
		AuditRepo:        newPgxAuditLogRepository(dbPool),
	}
}
