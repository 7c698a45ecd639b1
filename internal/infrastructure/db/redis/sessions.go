package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/recibos/billing-system/internal/core/domain"
)

// SessionStore keeps session keys in Redis so every instance of the service
// resolves the same tokens. Expiry is enforced by the key TTL.
// Key format: session:<token>
type SessionStore struct {
	client *redis.Client
}

func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client}
}

func (s *SessionStore) Put(ctx context.Context, key string, identity domain.Identity, ttl time.Duration) error {
	payload, err := json.Marshal(identity)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	return s.client.Set(ctx, s.redisKey(key), payload, ttl).Err()
}

func (s *SessionStore) Get(ctx context.Context, key string) (*domain.Identity, error) {
	payload, err := s.client.Get(ctx, s.redisKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("session lookup: %w", err)
	}

	var identity domain.Identity
	if err := json.Unmarshal(payload, &identity); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &identity, nil
}

func (s *SessionStore) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.redisKey(key)).Err()
}

func (s *SessionStore) redisKey(key string) string {
	return "session:" + key
}
