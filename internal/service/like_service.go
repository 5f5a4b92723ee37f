package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"miniblog/internal/domain"
	"miniblog/internal/repository"
)

// LikeService coordina likes por (post, usuario).
type LikeService struct {
	logger *zap.Logger
	likes  repository.LikeRepository
	posts  repository.PostRepository
}

func NewLikeService(logger *zap.Logger, likes repository.LikeRepository, posts repository.PostRepository) *LikeService {
	return &LikeService{
		logger: logger,
		likes:  likes,
		posts:  posts,
	}
}

// Like registra un like; repetirlo sobre el mismo post es un no-op.
func (s *LikeService) Like(ctx context.Context, postID, userID string) (int, error) {
	if s.likes == nil || s.posts == nil {
		return 0, errors.New("like service not configured")
	}
	if postID == "" || userID == "" {
		return 0, ErrInvalidInput
	}

	if _, err := s.posts.GetByID(ctx, postID, userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrPostNotFound
		}
		return 0, err
	}

	like := domain.Like{
		PostID:    postID,
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.likes.Add(ctx, like); err != nil {
		return 0, err
	}

	return s.likes.CountByPostID(ctx, postID)
}

// Unlike quita un like; quitar uno inexistente tambien es un no-op.
func (s *LikeService) Unlike(ctx context.Context, postID, userID string) (int, error) {
	if s.likes == nil || s.posts == nil {
		return 0, errors.New("like service not configured")
	}
	if postID == "" || userID == "" {
		return 0, ErrInvalidInput
	}

	if _, err := s.posts.GetByID(ctx, postID, userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrPostNotFound
		}
		return 0, err
	}

	if err := s.likes.Remove(ctx, postID, userID); err != nil {
		return 0, err
	}

	return s.likes.CountByPostID(ctx, postID)
}
