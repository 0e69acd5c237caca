package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sponsorlink/backend/internal/models"
)

type InfluencerRepo struct {
	pool *pgxpool.Pool
}

func NewInfluencerRepo(pool *pgxpool.Pool) *InfluencerRepo {
	return &InfluencerRepo{pool: pool}
}

const influencerColumns = `id, user_id, name, niche, channel_handle, reach, avg_views, reach_updated_at, is_flagged, created_at`

func scanInfluencer(row pgx.Row) (*models.Influencer, error) {
	var i models.Influencer
	err := row.Scan(&i.ID, &i.UserID, &i.Name, &i.Niche, &i.ChannelHandle, &i.Reach, &i.AvgViews,
		&i.ReachUpdatedAt, &i.IsFlagged, &i.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &i, nil
}

func (r *InfluencerRepo) GetByID(ctx context.Context, id int64) (*models.Influencer, error) {
	i, err := scanInfluencer(r.pool.QueryRow(ctx, `SELECT `+influencerColumns+` FROM influencers WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err)
	}
	return i, nil
}

func (r *InfluencerRepo) GetByUserID(ctx context.Context, userID int64) (*models.Influencer, error) {
	i, err := scanInfluencer(r.pool.QueryRow(ctx, `SELECT `+influencerColumns+` FROM influencers WHERE user_id = $1`, userID))
	if err != nil {
		return nil, notFound(err)
	}
	return i, nil
}

// ListWithChannel returns unflagged influencers that have a public channel handle.
func (r *InfluencerRepo) ListWithChannel(ctx context.Context) ([]models.Influencer, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+influencerColumns+`
		FROM influencers
		WHERE channel_handle IS NOT NULL AND channel_handle <> '' AND NOT is_flagged
		ORDER BY reach_updated_at NULLS FIRST
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Influencer
	for rows.Next() {
		i, err := scanInfluencer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *i)
	}
	return out, rows.Err()
}

func (r *InfluencerRepo) UpdateReach(ctx context.Context, id int64, reach, avgViews *int) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE influencers SET reach = $1, avg_views = $2, reach_updated_at = now() WHERE id = $3
	`, reach, avgViews, id)
	return err
}

func (r *InfluencerRepo) SetFlagged(ctx context.Context, id int64, flagged bool) error {
	tag, err := r.pool.Exec(ctx, `UPDATE influencers SET is_flagged = $1 WHERE id = $2`, flagged, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *InfluencerRepo) CountFlagged(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM influencers WHERE is_flagged`).Scan(&n)
	return n, err
}
