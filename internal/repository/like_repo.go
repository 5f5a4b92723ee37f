package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"miniblog/internal/domain"
)

type LikeRepository interface {
	Add(ctx context.Context, like domain.Like) error
	Remove(ctx context.Context, postID, userID string) error
	CountByPostID(ctx context.Context, postID string) (int, error)
}

type PgLikeRepository struct {
	pool *pgxpool.Pool
}

func NewPgLikeRepository(pool *pgxpool.Pool) *PgLikeRepository {
	return &PgLikeRepository{pool: pool}
}

func (r *PgLikeRepository) Add(ctx context.Context, like domain.Like) error {
	// ON CONFLICT hace el like idempotente por (post, usuario).
	const query = `
		INSERT INTO likes (post_id, user_id, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (post_id, user_id) DO NOTHING
	`
	_, err := r.pool.Exec(ctx, query,
		like.PostID,
		like.UserID,
		like.CreatedAt,
	)
	return err
}

func (r *PgLikeRepository) Remove(ctx context.Context, postID, userID string) error {
	const query = `DELETE FROM likes WHERE post_id = $1 AND user_id = $2`
	_, err := r.pool.Exec(ctx, query, postID, userID)
	return err
}

func (r *PgLikeRepository) CountByPostID(ctx context.Context, postID string) (int, error) {
	const query = `SELECT COUNT(*) FROM likes WHERE post_id = $1`
	var count int
	err := r.pool.QueryRow(ctx, query, postID).Scan(&count)
	return count, err
}
