package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"miniblog/internal/service"
)

// CommentHandler mantiene dependencias para endpoints de comentarios.
type CommentHandler struct {
	logger      *zap.Logger
	commentServ *service.CommentService
}

func NewCommentHandler(logger *zap.Logger, commentServ *service.CommentService) *CommentHandler {
	return &CommentHandler{
		logger:      logger,
		commentServ: commentServ,
	}
}

// CreateComment maneja POST /posts/:id/comments.
func (h *CommentHandler) CreateComment(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}

	var req struct {
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid create comment request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	comment, err := h.commentServ.CreateComment(c.Request.Context(), service.CreateCommentInput{
		PostID:  c.Param("id"),
		UserID:  claims.UserID,
		Content: req.Content,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		case errors.Is(err, service.ErrPostNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
			return
		default:
			h.logger.Error("create comment failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create comment"})
			return
		}
	}

	comment.AuthorLogin = claims.Login
	c.JSON(http.StatusCreated, gin.H{"comment": comment})
}

// ListComments maneja GET /posts/:id/comments.
func (h *CommentHandler) ListComments(c *gin.Context) {
	comments, err := h.commentServ.ListByPost(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.logger.Error("list comments failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list comments"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"comments": comments})
}
