package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"miniblog/internal/service"
)

// PostHandler mantiene dependencias para endpoints de posts y likes.
type PostHandler struct {
	logger   *zap.Logger
	postServ *service.PostService
	likeServ *service.LikeService
}

func NewPostHandler(logger *zap.Logger, postServ *service.PostService, likeServ *service.LikeService) *PostHandler {
	return &PostHandler{
		logger:   logger,
		postServ: postServ,
		likeServ: likeServ,
	}
}

// ListFeed maneja GET /posts.
func (h *PostHandler) ListFeed(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	posts, err := h.postServ.ListFeed(c.Request.Context(), limit, offset)
	if err != nil {
		h.logger.Error("list feed failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list posts"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

// GetPost maneja GET /posts/:id.
func (h *PostHandler) GetPost(c *gin.Context) {
	viewerID := ""
	if claims, ok := GetAuthClaims(c); ok {
		viewerID = claims.UserID
	}

	post, err := h.postServ.GetPost(c.Request.Context(), c.Param("id"), viewerID)
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
			return
		}
		h.logger.Error("get post failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not get post"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"post": post})
}

// CreatePost maneja POST /posts. El autor sale del token, nunca del body.
func (h *PostHandler) CreatePost(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}

	var req struct {
		Title   string `json:"title" binding:"required"`
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid create post request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	post, err := h.postServ.CreatePost(c.Request.Context(), service.CreatePostInput{
		UserID:  claims.UserID,
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		h.logger.Error("create post failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create post"})
		return
	}

	post.AuthorLogin = claims.Login
	c.JSON(http.StatusCreated, gin.H{"post": post})
}

// DeletePost maneja DELETE /posts/:id.
func (h *PostHandler) DeletePost(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}

	err := h.postServ.DeletePost(c.Request.Context(), c.Param("id"), claims.UserID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPostNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
			return
		case errors.Is(err, service.ErrNotPostAuthor):
			c.JSON(http.StatusForbidden, gin.H{"error": "not post author"})
			return
		default:
			h.logger.Error("delete post failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete post"})
			return
		}
	}

	c.Status(http.StatusNoContent)
}

// LikePost maneja POST /posts/:id/like.
func (h *PostHandler) LikePost(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}

	count, err := h.likeServ.Like(c.Request.Context(), c.Param("id"), claims.UserID)
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
			return
		}
		h.logger.Error("like post failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not like post"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"like_count": count})
}

// UnlikePost maneja DELETE /posts/:id/like.
func (h *PostHandler) UnlikePost(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}

	count, err := h.likeServ.Unlike(c.Request.Context(), c.Param("id"), claims.UserID)
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
			return
		}
		h.logger.Error("unlike post failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not unlike post"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"like_count": count})
}
