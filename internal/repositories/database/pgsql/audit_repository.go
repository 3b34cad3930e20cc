package pgsql

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/munshibooks/munshi_backend/internal/apperrors"
	"github.com/munshibooks/munshi_backend/internal/core/domain"
	portsrepo "github.com/munshibooks/munshi_backend/internal/core/ports/repositories"
	"github.com/munshibooks/munshi_backend/internal/models"
)

// PgxAuditLogRepository appends activity rows for the external audit sink to
// pick up. The sink owns retention and delivery; this side only inserts.
type PgxAuditLogRepository struct {
	BaseRepository
}

func newPgxAuditLogRepository(pool *pgxpool.Pool) portsrepo.AuditLogRepository {
	return &PgxAuditLogRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.AuditLogRepository = (*PgxAuditLogRepository)(nil)

// SaveEvent appends one audit event.
func (r *PgxAuditLogRepository) SaveEvent(ctx context.Context, event domain.AuditEvent) error {
	details, err := json.Marshal(event.Details)
	if err != nil {
		return apperrors.NewPersistenceError("marshal audit details", err)
	}

	row := models.ActivityLog{
		ID:           uuid.NewString(),
		CompanyID:    event.CompanyID,
		ActorID:      event.ActorID,
		ActivityKind: string(event.ActivityKind),
		ActorLabel:   event.ActorLabel,
		Action:       event.Action,
		Details:      details,
		CreatedAt:    event.OccurredAt,
	}

	query := `
		INSERT INTO activity_logs (id, company_id, actor_id, activity_kind, actor_label, action, details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err = r.Pool.Exec(ctx, query,
		row.ID,
		row.CompanyID,
		row.ActorID,
		row.ActivityKind,
		row.ActorLabel,
		row.Action,
		row.Details,
		row.CreatedAt,
	)
	if err != nil {
		return apperrors.NewPersistenceError("insert activity log", err)
	}
	return nil
}
