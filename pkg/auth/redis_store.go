package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisTokenStore stores the access token under a single key so several CLI
// processes on a host share one session.
type RedisTokenStore struct {
	client redis.Cmdable
	cfg    Config
	now    func() time.Time
}

func NewRedisTokenStore(client redis.Cmdable, cfg Config) *RedisTokenStore {
	if client == nil {
		return nil
	}
	cfg.Defaults()
	return &RedisTokenStore{client: client, cfg: cfg, now: time.Now}
}

func (s *RedisTokenStore) Get(ctx context.Context) (string, error) {
	if s == nil {
		return "", fmt.Errorf("token store not configured")
	}
	val, err := s.client.Get(ctx, s.key()).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrTokenNotFound
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

// Set stores token. The key expires with the token unless Config.TTL is set;
// tokens without an exp claim are kept until removed.
func (s *RedisTokenStore) Set(ctx context.Context, token string) error {
	if s == nil {
		return fmt.Errorf("token store not configured")
	}
	if token == "" {
		return s.Remove(ctx)
	}
	return s.client.Set(ctx, s.key(), token, s.ttl(token)).Err()
}

func (s *RedisTokenStore) Remove(ctx context.Context) error {
	if s == nil {
		return fmt.Errorf("token store not configured")
	}
	return s.client.Del(ctx, s.key()).Err()
}

func (s *RedisTokenStore) ttl(token string) time.Duration {
	if s.cfg.TTL > 0 {
		return s.cfg.TTL
	}
	exp, ok := ExpiresAt(token)
	if !ok {
		return 0
	}
	ttl := exp.Sub(s.now())
	if ttl <= 0 {
		// already expired; keep it briefly so the next request reports TokenExpired
		ttl = time.Second
	}
	return ttl
}

func (s *RedisTokenStore) key() string {
	return s.cfg.Prefix + TokenKey
}
