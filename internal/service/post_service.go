package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"miniblog/internal/domain"
	"miniblog/internal/repository"
)

// PostService coordina reglas de negocio para posts.
type PostService struct {
	logger *zap.Logger
	posts  repository.PostRepository
}

func NewPostService(logger *zap.Logger, posts repository.PostRepository) *PostService {
	return &PostService{
		logger: logger,
		posts:  posts,
	}
}

var (
	ErrPostNotFound  = errors.New("post not found")
	ErrNotPostAuthor = errors.New("not post author")
)

const (
	defaultFeedLimit = 20
	maxFeedLimit     = 100
)

type CreatePostInput struct {
	UserID  string
	Title   string
	Content string
}

func (s *PostService) CreatePost(ctx context.Context, input CreatePostInput) (domain.Post, error) {
	if s.posts == nil {
		return domain.Post{}, errors.New("post service not configured")
	}

	title := strings.TrimSpace(input.Title)
	content := strings.TrimSpace(input.Content)
	if input.UserID == "" || title == "" || content == "" {
		return domain.Post{}, ErrInvalidInput
	}

	post := domain.Post{
		ID:        uuid.NewString(),
		UserID:    input.UserID,
		Title:     title,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.posts.Create(ctx, post); err != nil {
		return domain.Post{}, err
	}

	return post, nil
}

func (s *PostService) GetPost(ctx context.Context, id, viewerID string) (domain.Post, error) {
	if s.posts == nil {
		return domain.Post{}, errors.New("post service not configured")
	}
	post, err := s.posts.GetByID(ctx, id, viewerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Post{}, ErrPostNotFound
		}
		return domain.Post{}, err
	}
	return post, nil
}

// ListFeed devuelve los posts mas recientes primero, con limites acotados.
func (s *PostService) ListFeed(ctx context.Context, limit, offset int) ([]domain.Post, error) {
	if s.posts == nil {
		return nil, errors.New("post service not configured")
	}
	if limit <= 0 {
		limit = defaultFeedLimit
	}
	if limit > maxFeedLimit {
		limit = maxFeedLimit
	}
	if offset < 0 {
		offset = 0
	}
	return s.posts.List(ctx, limit, offset)
}

// DeletePost borra un post propio; solo el autor puede hacerlo.
func (s *PostService) DeletePost(ctx context.Context, postID, userID string) error {
	if s.posts == nil {
		return errors.New("post service not configured")
	}
	post, err := s.posts.GetByID(ctx, postID, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrPostNotFound
		}
		return err
	}
	if post.UserID != userID {
		return ErrNotPostAuthor
	}
	return s.posts.Delete(ctx, postID)
}
