package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"miniblog/internal/domain"
	"miniblog/internal/repository"
)

// UserService coordina registro y autenticación de cuentas.
type UserService struct {
	logger       *zap.Logger
	users        repository.UserRepository
	loginLimiter LoginRateLimiter
}

func NewUserService(logger *zap.Logger, users repository.UserRepository, loginLimiter LoginRateLimiter) *UserService {
	if loginLimiter == nil {
		loginLimiter = NewLoginRateLimiter(loginWindow, 10)
	}
	return &UserService{
		logger:       logger,
		users:        users,
		loginLimiter: loginLimiter,
	}
}

type RegisterInput struct {
	Login    string
	Password string
	Email    string
}

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrLoginTaken         = errors.New("login already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrRateLimited        = errors.New("rate limited")
)

const loginWindow = 1 * time.Minute

func (s *UserService) Register(ctx context.Context, input RegisterInput) (domain.User, error) {
	if s.users == nil {
		return domain.User{}, errors.New("user service not configured")
	}

	login := strings.TrimSpace(input.Login)
	password := input.Password
	emailAddr := normalizeEmail(input.Email)
	if login == "" || password == "" || emailAddr == "" {
		return domain.User{}, ErrInvalidInput
	}

	passwordHash, err := HashPassword(password)
	if err != nil {
		return domain.User{}, err
	}

	user := domain.User{
		ID:           uuid.NewString(),
		Login:        login,
		Email:        emailAddr,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return domain.User{}, ErrLoginTaken
		}
		return domain.User{}, err
	}

	return user, nil
}

// Authenticate valida credenciales. Login desconocido y password incorrecto
// devuelven el mismo error para no permitir enumerar cuentas.
func (s *UserService) Authenticate(ctx context.Context, login, password string) (domain.User, error) {
	if s.users == nil {
		return domain.User{}, errors.New("user service not configured")
	}

	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return domain.User{}, ErrInvalidCredentials
	}

	if s.loginLimiter != nil && !s.loginLimiter.Allow(login) {
		return domain.User{}, ErrRateLimited
	}

	user, err := s.users.GetByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrInvalidCredentials
		}
		return domain.User{}, err
	}
	if user.PasswordHash == "" {
		return domain.User{}, ErrInvalidCredentials
	}
	if !VerifyPassword(password, user.PasswordHash) {
		return domain.User{}, ErrInvalidCredentials
	}
	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// LoginRateLimiter limita intentos de login por clave.
type LoginRateLimiter interface {
	Allow(key string) bool
}

type loginRateLimiter struct {
	mu     sync.Mutex
	window time.Duration
	max    int
	hits   map[string][]time.Time
}

// NewLoginRateLimiter crea un rate limiter en memoria.
func NewLoginRateLimiter(window time.Duration, max int) LoginRateLimiter {
	if max <= 0 {
		max = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	return &loginRateLimiter{
		window: window,
		max:    max,
		hits:   make(map[string][]time.Time),
	}
}

func (l *loginRateLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := time.Now().UTC()
	cutoff := now.Add(-l.window)
	entries := l.hits[key]
	kept := entries[:0]
	for _, ts := range entries {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	if len(kept) >= l.max {
		l.hits[key] = kept
		return false
	}
	kept = append(kept, now)
	l.hits[key] = kept
	return true
}
