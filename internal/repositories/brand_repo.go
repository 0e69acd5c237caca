package repositories

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sponsorlink/backend/internal/models"
)

type BrandRepo struct {
	pool *pgxpool.Pool
}

func NewBrandRepo(pool *pgxpool.Pool) *BrandRepo {
	return &BrandRepo{pool: pool}
}

func (r *BrandRepo) GetByID(ctx context.Context, id int64) (*models.Brand, error) {
	var b models.Brand
	err := r.pool.QueryRow(ctx, `
		SELECT id, user_id, name, is_flagged, created_at FROM brands WHERE id = $1
	`, id).Scan(&b.ID, &b.UserID, &b.Name, &b.IsFlagged, &b.CreatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return &b, nil
}

func (r *BrandRepo) GetByUserID(ctx context.Context, userID int64) (*models.Brand, error) {
	var b models.Brand
	err := r.pool.QueryRow(ctx, `
		SELECT id, user_id, name, is_flagged, created_at FROM brands WHERE user_id = $1
	`, userID).Scan(&b.ID, &b.UserID, &b.Name, &b.IsFlagged, &b.CreatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return &b, nil
}

func (r *BrandRepo) SetFlagged(ctx context.Context, id int64, flagged bool) error {
	tag, err := r.pool.Exec(ctx, `UPDATE brands SET is_flagged = $1 WHERE id = $2`, flagged, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *BrandRepo) CountFlagged(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM brands WHERE is_flagged`).Scan(&n)
	return n, err
}
