package http

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"miniblog/internal/domain"
	"miniblog/internal/service"
)

type mockCommentRepo struct {
	comments []domain.Comment
}

func (m *mockCommentRepo) Create(_ context.Context, comment domain.Comment) error {
	m.comments = append(m.comments, comment)
	return nil
}

func (m *mockCommentRepo) ListByPostID(_ context.Context, postID string) ([]domain.Comment, error) {
	var out []domain.Comment
	for _, c := range m.comments {
		if c.PostID == postID {
			out = append(out, c)
		}
	}
	return out, nil
}

type mockEmailSender struct {
	lastTo        string
	lastTitle     string
	lastCommenter string
	calls         int
}

func (m *mockEmailSender) SendCommentNotification(_ context.Context, toEmail string, postTitle string, commenterLogin string) error {
	m.calls++
	m.lastTo = toEmail
	m.lastTitle = postTitle
	m.lastCommenter = commenterLogin
	return nil
}

func setupCommentRouter(t *testing.T, jwtSvc *service.JWTService) (*gin.Engine, *mockCommentRepo, *mockEmailSender) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	users := newMockUserRepo()
	author := domain.User{ID: "author", Login: "alice", Email: "alice@x.com", CreatedAt: time.Now().UTC()}
	commenter := domain.User{ID: "commenter", Login: "bob", Email: "bob@x.com", CreatedAt: time.Now().UTC()}
	if err := users.Create(context.Background(), author); err != nil {
		t.Fatalf("seed author: %v", err)
	}
	if err := users.Create(context.Background(), commenter); err != nil {
		t.Fatalf("seed commenter: %v", err)
	}

	posts := newMockPostRepo()
	if err := posts.Create(context.Background(), domain.Post{
		ID: "p1", UserID: "author", Title: "Hello", Content: "first", CreatedAt: time.Now().UTC(),
	}); err != nil {
		t.Fatalf("seed post: %v", err)
	}

	comments := &mockCommentRepo{}
	sender := &mockEmailSender{}
	commentSvc := service.NewCommentService(zap.NewNop(), comments, posts, users, sender)
	h := NewCommentHandler(zap.NewNop(), commentSvc)

	r := gin.New()
	authRequired := JWTAuthMiddleware(jwtSvc)
	r.GET("/posts/:id/comments", h.ListComments)
	r.POST("/posts/:id/comments", authRequired, h.CreateComment)
	return r, comments, sender
}

func TestCommentHandlerCreateComment_Success(t *testing.T) {
	jwtSvc := newTestJWTService()
	r, comments, sender := setupCommentRouter(t, jwtSvc)
	token := issueAccessToken(t, jwtSvc, domain.User{ID: "commenter", Login: "bob"})

	rec := performRequest(r, http.MethodPost, "/posts/p1/comments", map[string]string{
		"content": "nice post",
	}, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", rec.Code)
	}

	var resp struct {
		Comment domain.Comment `json:"comment"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Comment.UserID != "commenter" || resp.Comment.PostID != "p1" {
		t.Fatalf("unexpected comment attribution: %+v", resp.Comment)
	}
	if len(comments.comments) != 1 {
		t.Fatalf("expected comment persisted")
	}
	if sender.calls != 1 || sender.lastTo != "alice@x.com" {
		t.Fatalf("expected author notification, got %d calls to %q", sender.calls, sender.lastTo)
	}
}

func TestCommentHandlerCreateComment_RequiresToken(t *testing.T) {
	r, comments, _ := setupCommentRouter(t, newTestJWTService())

	rec := performRequest(r, http.MethodPost, "/posts/p1/comments", map[string]string{
		"content": "nice post",
	}, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
	if len(comments.comments) != 0 {
		t.Fatalf("expected write never attempted")
	}
}

func TestCommentHandlerCreateComment_PostNotFound(t *testing.T) {
	jwtSvc := newTestJWTService()
	r, _, _ := setupCommentRouter(t, jwtSvc)
	token := issueAccessToken(t, jwtSvc, domain.User{ID: "commenter", Login: "bob"})

	rec := performRequest(r, http.MethodPost, "/posts/missing/comments", map[string]string{
		"content": "hello?",
	}, token)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
}

func TestCommentHandlerListComments_Public(t *testing.T) {
	jwtSvc := newTestJWTService()
	r, _, _ := setupCommentRouter(t, jwtSvc)
	token := issueAccessToken(t, jwtSvc, domain.User{ID: "commenter", Login: "bob"})

	if rec := performRequest(r, http.MethodPost, "/posts/p1/comments", map[string]string{
		"content": "nice post",
	}, token); rec.Code != http.StatusCreated {
		t.Fatalf("seed comment failed with %d", rec.Code)
	}

	rec := performRequest(r, http.MethodGet, "/posts/p1/comments", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 without token, got %d", rec.Code)
	}

	var resp struct {
		Comments []domain.Comment `json:"comments"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Comments) != 1 {
		t.Fatalf("expected 1 comment, got %d", len(resp.Comments))
	}
}
