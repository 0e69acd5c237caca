package repositories

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sponsorlink/backend/internal/models"
)

const defaultAuditLimit = 50

type AuditRepo struct {
	pool *pgxpool.Pool
}

func NewAuditRepo(pool *pgxpool.Pool) *AuditRepo {
	return &AuditRepo{pool: pool}
}

func (r *AuditRepo) Log(ctx context.Context, entry models.AuditLog) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO audit_log (actor_user_id, actor_type, action, entity_type, entity_id, meta)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, entry.ActorUserID, entry.ActorType, entry.Action, string(entry.EntityType), entry.EntityID, entry.Meta)
	return err
}

// AuditFilter selects audit entries. Zero fields do not filter.
type AuditFilter struct {
	EntityType  models.AuditEntity
	EntityID    *int64
	ActorUserID *int64
	// Limit <= 0 falls back to 50.
	Limit  int
	Offset int
}

func auditListQuery(f AuditFilter) (string, []any) {
	var w where
	if f.EntityType != "" {
		w.add("entity_type = $%d", string(f.EntityType))
	}
	if f.EntityID != nil {
		w.add("entity_id = $%d", *f.EntityID)
	}
	if f.ActorUserID != nil {
		w.add("actor_user_id = $%d", *f.ActorUserID)
	}
	limit := f.Limit
	if limit <= 0 {
		limit = defaultAuditLimit
	}

	query := `SELECT id, actor_user_id, actor_type, action, entity_type, entity_id, meta, created_at FROM audit_log` +
		w.String() + " ORDER BY created_at DESC, id DESC" + w.page(limit, f.Offset)
	return query, w.args
}

// List returns matching entries, newest first.
func (r *AuditRepo) List(ctx context.Context, f AuditFilter) ([]models.AuditLog, error) {
	query, args := auditListQuery(f)
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []models.AuditLog
	for rows.Next() {
		var l models.AuditLog
		var entity string
		if err := rows.Scan(&l.ID, &l.ActorUserID, &l.ActorType, &l.Action, &entity, &l.EntityID, &l.Meta, &l.CreatedAt); err != nil {
			return nil, err
		}
		l.EntityType = models.AuditEntity(entity)
		logs = append(logs, l)
	}
	return logs, rows.Err()
}
