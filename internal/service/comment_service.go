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
	"miniblog/internal/email"
	"miniblog/internal/repository"
)

// CommentService coordina comentarios y la notificacion al autor del post.
type CommentService struct {
	logger      *zap.Logger
	comments    repository.CommentRepository
	posts       repository.PostRepository
	users       repository.UserRepository
	emailSender email.Sender
}

func NewCommentService(
	logger *zap.Logger,
	comments repository.CommentRepository,
	posts repository.PostRepository,
	users repository.UserRepository,
	emailSender email.Sender,
) *CommentService {
	return &CommentService{
		logger:      logger,
		comments:    comments,
		posts:       posts,
		users:       users,
		emailSender: emailSender,
	}
}

type CreateCommentInput struct {
	PostID  string
	UserID  string
	Content string
}

func (s *CommentService) CreateComment(ctx context.Context, input CreateCommentInput) (domain.Comment, error) {
	if s.comments == nil || s.posts == nil {
		return domain.Comment{}, errors.New("comment service not configured")
	}

	content := strings.TrimSpace(input.Content)
	if input.PostID == "" || input.UserID == "" || content == "" {
		return domain.Comment{}, ErrInvalidInput
	}

	post, err := s.posts.GetByID(ctx, input.PostID, input.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Comment{}, ErrPostNotFound
		}
		return domain.Comment{}, err
	}

	comment := domain.Comment{
		ID:        uuid.NewString(),
		PostID:    post.ID,
		UserID:    input.UserID,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.comments.Create(ctx, comment); err != nil {
		return domain.Comment{}, err
	}

	s.notifyPostAuthor(ctx, post, comment)

	return comment, nil
}

func (s *CommentService) ListByPost(ctx context.Context, postID string) ([]domain.Comment, error) {
	if s.comments == nil {
		return nil, errors.New("comment service not configured")
	}
	return s.comments.ListByPostID(ctx, postID)
}

// notifyPostAuthor envia el aviso por correo sin bloquear la creacion:
// un fallo de correo se loguea y no se propaga al cliente.
func (s *CommentService) notifyPostAuthor(ctx context.Context, post domain.Post, comment domain.Comment) {
	if s.emailSender == nil || s.users == nil {
		return
	}
	if post.UserID == comment.UserID {
		return
	}

	author, err := s.users.GetByID(ctx, post.UserID)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("comment notification author lookup failed", zap.Error(err), zap.String("post_id", post.ID))
		}
		return
	}

	commenter, err := s.users.GetByID(ctx, comment.UserID)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("comment notification commenter lookup failed", zap.Error(err), zap.String("post_id", post.ID))
		}
		return
	}

	if err := s.emailSender.SendCommentNotification(ctx, author.Email, post.Title, commenter.Login); err != nil {
		if s.logger != nil {
			s.logger.Warn("send comment notification failed", zap.Error(err), zap.String("post_id", post.ID))
		}
	}
}
