package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// RefreshTokenStore guarda jti junto con la cuenta dueña del refresh token.
// Un jti solo cuenta como vigente para la cuenta que lo emitio.
type RefreshTokenStore interface {
	Store(jti, userID string, ttl time.Duration) error
	Exists(jti, userID string) (bool, error)
	Revoke(jti string) error
}

type memoryRefreshToken struct {
	userID    string
	expiresAt time.Time
}

type memoryRefreshTokenStore struct {
	mu    sync.Mutex
	items map[string]memoryRefreshToken
}

func NewMemoryRefreshTokenStore() RefreshTokenStore {
	return &memoryRefreshTokenStore{
		items: make(map[string]memoryRefreshToken),
	}
}

func (s *memoryRefreshTokenStore) Store(jti, userID string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if strings.TrimSpace(jti) == "" {
		return nil
	}
	s.items[jti] = memoryRefreshToken{
		userID:    userID,
		expiresAt: time.Now().UTC().Add(ttl),
	}
	return nil
}

func (s *memoryRefreshTokenStore) Exists(jti, userID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[jti]
	if !ok {
		return false, nil
	}
	if time.Now().UTC().After(item.expiresAt) {
		delete(s.items, jti)
		return false, nil
	}
	return item.userID == userID, nil
}

func (s *memoryRefreshTokenStore) Revoke(jti string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, jti)
	return nil
}

type redisRefreshTokenStore struct {
	client *redis.Client
	prefix string
}

func NewRedisRefreshTokenStore(client *redis.Client) RefreshTokenStore {
	if client == nil {
		return nil
	}
	return &redisRefreshTokenStore{
		client: client,
		prefix: "auth:refresh:",
	}
}

func (s *redisRefreshTokenStore) Store(jti, userID string, ttl time.Duration) error {
	if strings.TrimSpace(jti) == "" {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	return s.client.Set(ctx, s.prefix+jti, userID, ttl).Err()
}

func (s *redisRefreshTokenStore) Exists(jti, userID string) (bool, error) {
	if strings.TrimSpace(jti) == "" {
		return false, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	owner, err := s.client.Get(ctx, s.prefix+jti).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	return owner == userID, nil
}

func (s *redisRefreshTokenStore) Revoke(jti string) error {
	if strings.TrimSpace(jti) == "" {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	return s.client.Del(ctx, s.prefix+jti).Err()
}
