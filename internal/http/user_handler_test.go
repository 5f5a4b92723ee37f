package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"miniblog/internal/domain"
	"miniblog/internal/repository"
	"miniblog/internal/service"
)

type mockUserRepo struct {
	usersByID    map[string]domain.User
	usersByLogin map[string]string
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{
		usersByID:    make(map[string]domain.User),
		usersByLogin: make(map[string]string),
	}
}

func (m *mockUserRepo) Create(_ context.Context, user domain.User) error {
	if _, exists := m.usersByLogin[user.Login]; exists {
		return repository.ErrDuplicate
	}
	m.usersByID[user.ID] = user
	m.usersByLogin[user.Login] = user.ID
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (domain.User, error) {
	user, ok := m.usersByID[id]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	return user, nil
}

func (m *mockUserRepo) GetByLogin(_ context.Context, login string) (domain.User, error) {
	id, ok := m.usersByLogin[login]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	return m.GetByID(context.Background(), id)
}

func newTestJWTService() *service.JWTService {
	return service.NewJWTServiceWithStore("secret", 15*time.Minute, 30*time.Minute, service.NewMemoryRefreshTokenStore())
}

func setupUserRouter(userSvc *service.UserService, jwtSvc *service.JWTService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewUserHandler(zap.NewNop(), userSvc, jwtSvc)
	r.POST("/users", h.Register)
	r.POST("/auth/login", h.Login)
	r.POST("/auth/refresh", h.RefreshToken)
	r.POST("/auth/logout", h.Logout)
	return r
}

func performRequest(r http.Handler, method, path string, body any, token string) *httptest.ResponseRecorder {
	var payload []byte
	if body != nil {
		payload, _ = json.Marshal(body)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestUserHandlerRegister_Success(t *testing.T) {
	repo := newMockUserRepo()
	svc := service.NewUserService(zap.NewNop(), repo, nil)
	r := setupUserRouter(svc, newTestJWTService())

	rec := performRequest(r, http.MethodPost, "/users", map[string]string{
		"login":    "alice",
		"password": "correcthorse",
		"email":    "a@x.com",
	}, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", rec.Code)
	}

	var resp struct {
		User map[string]any `json:"user"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.User["login"] != "alice" || resp.User["email"] != "a@x.com" {
		t.Fatalf("unexpected user body: %+v", resp.User)
	}
	for key := range resp.User {
		if key == "password" || key == "password_hash" {
			t.Fatalf("response must not expose credential material, got key %q", key)
		}
	}
}

func TestUserHandlerRegister_MissingField(t *testing.T) {
	repo := newMockUserRepo()
	svc := service.NewUserService(zap.NewNop(), repo, nil)
	r := setupUserRouter(svc, newTestJWTService())

	rec := performRequest(r, http.MethodPost, "/users", map[string]string{
		"login": "alice",
		"email": "a@x.com",
	}, "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
	if len(repo.usersByID) != 0 {
		t.Fatalf("expected no user persisted")
	}
}

func TestUserHandlerRegister_Conflict(t *testing.T) {
	repo := newMockUserRepo()
	svc := service.NewUserService(zap.NewNop(), repo, nil)
	r := setupUserRouter(svc, newTestJWTService())

	body := map[string]string{"login": "alice", "password": "pw", "email": "a@x.com"}
	if rec := performRequest(r, http.MethodPost, "/users", body, ""); rec.Code != http.StatusCreated {
		t.Fatalf("expected first register 201, got %d", rec.Code)
	}
	if rec := performRequest(r, http.MethodPost, "/users", body, ""); rec.Code != http.StatusConflict {
		t.Fatalf("expected duplicate register 409, got %d", rec.Code)
	}
}

func TestUserHandlerLogin_Success(t *testing.T) {
	repo := newMockUserRepo()
	svc := service.NewUserService(zap.NewNop(), repo, nil)
	jwtSvc := newTestJWTService()
	r := setupUserRouter(svc, jwtSvc)

	if rec := performRequest(r, http.MethodPost, "/users", map[string]string{
		"login": "alice", "password": "correcthorse", "email": "a@x.com",
	}, ""); rec.Code != http.StatusCreated {
		t.Fatalf("register failed with %d", rec.Code)
	}

	rec := performRequest(r, http.MethodPost, "/auth/login", map[string]string{
		"login": "alice", "password": "correcthorse",
	}, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var resp struct {
		User   domain.User       `json:"user"`
		Tokens service.TokenPair `json:"tokens"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Tokens.AccessToken == "" || resp.Tokens.RefreshToken == "" {
		t.Fatalf("expected tokens in response")
	}
	if resp.User.Login != "alice" {
		t.Fatalf("unexpected identity: %+v", resp.User)
	}

	claims, err := jwtSvc.ParseAccessToken(resp.Tokens.AccessToken)
	if err != nil {
		t.Fatalf("parse issued access token: %v", err)
	}
	if claims.UserID != resp.User.ID {
		t.Fatalf("expected token to carry the authenticated account id")
	}
}

func TestUserHandlerLogin_UniformFailure(t *testing.T) {
	repo := newMockUserRepo()
	svc := service.NewUserService(zap.NewNop(), repo, nil)
	r := setupUserRouter(svc, newTestJWTService())

	if rec := performRequest(r, http.MethodPost, "/users", map[string]string{
		"login": "alice", "password": "correcthorse", "email": "a@x.com",
	}, ""); rec.Code != http.StatusCreated {
		t.Fatalf("register failed with %d", rec.Code)
	}

	wrongPass := performRequest(r, http.MethodPost, "/auth/login", map[string]string{
		"login": "alice", "password": "wrong",
	}, "")
	unknownUser := performRequest(r, http.MethodPost, "/auth/login", map[string]string{
		"login": "nobody", "password": "whatever",
	}, "")

	if wrongPass.Code != http.StatusUnauthorized || unknownUser.Code != http.StatusUnauthorized {
		t.Fatalf("expected both failures to be 401, got %d and %d", wrongPass.Code, unknownUser.Code)
	}
	if wrongPass.Body.String() != unknownUser.Body.String() {
		t.Fatalf("expected indistinguishable bodies, got %q vs %q", wrongPass.Body.String(), unknownUser.Body.String())
	}
}

type mockLimiter struct {
	allow bool
}

func (m *mockLimiter) Allow(_ string) bool {
	return m.allow
}

func TestUserHandlerLogin_RateLimited(t *testing.T) {
	repo := newMockUserRepo()
	svc := service.NewUserService(zap.NewNop(), repo, &mockLimiter{allow: false})
	r := setupUserRouter(svc, newTestJWTService())

	rec := performRequest(r, http.MethodPost, "/auth/login", map[string]string{
		"login": "alice", "password": "correcthorse",
	}, "")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected status 429, got %d", rec.Code)
	}
}

func TestUserHandlerRefreshAndLogout(t *testing.T) {
	repo := newMockUserRepo()
	svc := service.NewUserService(zap.NewNop(), repo, nil)
	jwtSvc := newTestJWTService()
	r := setupUserRouter(svc, jwtSvc)

	if rec := performRequest(r, http.MethodPost, "/users", map[string]string{
		"login": "alice", "password": "correcthorse", "email": "a@x.com",
	}, ""); rec.Code != http.StatusCreated {
		t.Fatalf("register failed with %d", rec.Code)
	}
	login := performRequest(r, http.MethodPost, "/auth/login", map[string]string{
		"login": "alice", "password": "correcthorse",
	}, "")
	var resp struct {
		Tokens service.TokenPair `json:"tokens"`
	}
	if err := json.Unmarshal(login.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode login: %v", err)
	}

	refreshed := performRequest(r, http.MethodPost, "/auth/refresh", map[string]string{
		"refresh_token": resp.Tokens.RefreshToken,
	}, "")
	if refreshed.Code != http.StatusOK {
		t.Fatalf("expected refresh 200, got %d", refreshed.Code)
	}

	var refreshResp struct {
		Tokens service.TokenPair `json:"tokens"`
	}
	if err := json.Unmarshal(refreshed.Body.Bytes(), &refreshResp); err != nil {
		t.Fatalf("decode refresh: %v", err)
	}

	logout := performRequest(r, http.MethodPost, "/auth/logout", map[string]string{
		"refresh_token": refreshResp.Tokens.RefreshToken,
	}, "")
	if logout.Code != http.StatusNoContent {
		t.Fatalf("expected logout 204, got %d", logout.Code)
	}

	reused := performRequest(r, http.MethodPost, "/auth/refresh", map[string]string{
		"refresh_token": refreshResp.Tokens.RefreshToken,
	}, "")
	if reused.Code != http.StatusUnauthorized {
		t.Fatalf("expected revoked refresh to fail with 401, got %d", reused.Code)
	}
}
