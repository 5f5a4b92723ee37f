package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"miniblog/internal/domain"
)

type PostRepository interface {
	Create(ctx context.Context, post domain.Post) error
	GetByID(ctx context.Context, id, viewerID string) (domain.Post, error)
	List(ctx context.Context, limit, offset int) ([]domain.Post, error)
	Delete(ctx context.Context, id string) error
}

type PgPostRepository struct {
	pool *pgxpool.Pool
}

func NewPgPostRepository(pool *pgxpool.Pool) *PgPostRepository {
	return &PgPostRepository{pool: pool}
}

func (r *PgPostRepository) Create(ctx context.Context, post domain.Post) error {
	const query = `
		INSERT INTO posts (id, user_id, title, content, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.pool.Exec(ctx, query,
		post.ID,
		post.UserID,
		post.Title,
		post.Content,
		post.CreatedAt,
	)
	return err
}

func (r *PgPostRepository) GetByID(ctx context.Context, id, viewerID string) (domain.Post, error) {
	const query = `
		SELECT p.id, p.user_id, u.login, p.title, p.content, p.created_at,
			(SELECT COUNT(*) FROM likes l WHERE l.post_id = p.id),
			EXISTS (SELECT 1 FROM likes l WHERE l.post_id = p.id AND l.user_id = $2)
		FROM posts p
		JOIN users u ON u.id = p.user_id
		WHERE p.id = $1
	`
	var p domain.Post
	err := r.pool.QueryRow(ctx, query, id, viewerID).Scan(
		&p.ID,
		&p.UserID,
		&p.AuthorLogin,
		&p.Title,
		&p.Content,
		&p.CreatedAt,
		&p.LikeCount,
		&p.LikedByMe,
	)
	if err != nil {
		return domain.Post{}, err
	}
	return p, nil
}

func (r *PgPostRepository) List(ctx context.Context, limit, offset int) ([]domain.Post, error) {
	const query = `
		SELECT p.id, p.user_id, u.login, p.title, p.content, p.created_at,
			(SELECT COUNT(*) FROM likes l WHERE l.post_id = p.id)
		FROM posts p
		JOIN users u ON u.id = p.user_id
		ORDER BY p.created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []domain.Post
	for rows.Next() {
		var p domain.Post
		err = rows.Scan(
			&p.ID,
			&p.UserID,
			&p.AuthorLogin,
			&p.Title,
			&p.Content,
			&p.CreatedAt,
			&p.LikeCount,
		)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return posts, nil
}

func (r *PgPostRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM posts WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id)
	return err
}
