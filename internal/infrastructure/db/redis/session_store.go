package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/costasur/portal-clientes/internal/core/ports"
)

const defaultPrefix = "portal:session:"

// SessionStore persists portal sessions in Redis as JSON documents with a TTL
// matching the session expiry, so abandoned sessions vanish on their own.
type SessionStore struct {
	client *redis.Client
	prefix string
}

func NewSessionStore(client *redis.Client, prefix string) *SessionStore {
	if prefix == "" {
		prefix = defaultPrefix
	}
	return &SessionStore{client: client, prefix: prefix}
}

var _ ports.SessionStore = (*SessionStore)(nil)

func (s *SessionStore) Create(ctx context.Context, sess *ports.Session) error {
	return s.write(ctx, sess)
}

// Get returns nil, nil when the session does not exist or already expired:
// absence is a signed-out state, not a storage failure.
func (s *SessionStore) Get(ctx context.Context, id string) (*ports.Session, error) {
	raw, err := s.client.Get(ctx, s.prefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("session get: %w", err)
	}

	var sess ports.Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return nil, fmt.Errorf("session decode: %w", err)
	}
	return &sess, nil
}

func (s *SessionStore) Update(ctx context.Context, sess *ports.Session) error {
	return s.write(ctx, sess)
}

func (s *SessionStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, s.prefix+id).Err(); err != nil {
		return fmt.Errorf("session delete: %w", err)
	}
	return nil
}

func (s *SessionStore) write(ctx context.Context, sess *ports.Session) error {
	ttl := time.Until(sess.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("session write: already expired")
	}
	raw, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("session encode: %w", err)
	}
	if err := s.client.Set(ctx, s.prefix+sess.ID, raw, ttl).Err(); err != nil {
		return fmt.Errorf("session write: %w", err)
	}
	return nil
}
