package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"miniblog/internal/domain"
)

type CommentRepository interface {
	Create(ctx context.Context, comment domain.Comment) error
	ListByPostID(ctx context.Context, postID string) ([]domain.Comment, error)
}

type PgCommentRepository struct {
	pool *pgxpool.Pool
}

func NewPgCommentRepository(pool *pgxpool.Pool) *PgCommentRepository {
	return &PgCommentRepository{pool: pool}
}

func (r *PgCommentRepository) Create(ctx context.Context, comment domain.Comment) error {
	const query = `
		INSERT INTO comments (id, post_id, user_id, content, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.pool.Exec(ctx, query,
		comment.ID,
		comment.PostID,
		comment.UserID,
		comment.Content,
		comment.CreatedAt,
	)
	return err
}

func (r *PgCommentRepository) ListByPostID(ctx context.Context, postID string) ([]domain.Comment, error) {
	const query = `
		SELECT c.id, c.post_id, c.user_id, u.login, c.content, c.created_at
		FROM comments c
		JOIN users u ON u.id = c.user_id
		WHERE c.post_id = $1
		ORDER BY c.created_at ASC
	`
	rows, err := r.pool.Query(ctx, query, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []domain.Comment
	for rows.Next() {
		var c domain.Comment
		err = rows.Scan(
			&c.ID,
			&c.PostID,
			&c.UserID,
			&c.AuthorLogin,
			&c.Content,
			&c.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return comments, nil
}
