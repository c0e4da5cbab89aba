package redis

// Package redis provides the Redis-backed session store for the gateway.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	domainauth "github.com/campuslabs/nominate-gateway/internal/domain/auth"
)

const (
	sessionPrefix = "session:"
	// credPrefix is the primary credential key. legacyCredPrefix is the key
	// the previous gateway deployment wrote; it is read as a fallback and
	// deleted alongside the primary so the two can never diverge.
	credPrefix       = "cred:"
	legacyCredPrefix = "token:"
	ssoTokenPrefix   = "sso:"
)

// SessionStore is a Redis-based session store. TTL semantics follow the
// session's ExpiresAt; the session record and the credential keys are
// written and cleared together.
type SessionStore struct {
	client redis.UniversalClient
}

// NewSessionStore creates a new Redis-based session store.
func NewSessionStore(client redis.UniversalClient) *SessionStore {
	return &SessionStore{client: client}
}

// Save persists the session record and its primary credential key with a
// shared TTL. Writers clear-then-set so a crash mid-write cannot leave a
// stale credential paired with a fresh record.
func (s *SessionStore) Save(ctx context.Context, sess domainauth.Session) error {
	if sess.ID == "" {
		return errors.New("session ID cannot be empty")
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	ttl := time.Until(sess.ExpiresAt)
	if ttl <= 0 {
		return errors.New("session is expired")
	}

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, sessionPrefix+sess.ID, credPrefix+sess.ID, legacyCredPrefix+sess.ID)
	pipe.Set(ctx, sessionPrefix+sess.ID, data, ttl)
	pipe.Set(ctx, credPrefix+sess.ID, sess.Credential, ttl)
	if _, execErr := pipe.Exec(ctx); execErr != nil {
		return fmt.Errorf("save session: %w", execErr)
	}
	return nil
}

// Get retrieves a session record by ID.
func (s *SessionStore) Get(ctx context.Context, id string) (domainauth.Session, error) {
	if id == "" {
		return domainauth.Session{}, ErrNotFound
	}

	data, err := s.client.Get(ctx, sessionPrefix+id).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domainauth.Session{}, ErrNotFound
		}
		return domainauth.Session{}, fmt.Errorf("redis get: %w", err)
	}

	var sess domainauth.Session
	if unmarshalErr := json.Unmarshal([]byte(data), &sess); unmarshalErr != nil {
		return domainauth.Session{}, fmt.Errorf("unmarshal session: %w", unmarshalErr)
	}

	// Redis TTL should handle expiry, but be defensive.
	if !sess.ExpiresAt.IsZero() && time.Now().After(sess.ExpiresAt) {
		if clearErr := s.Clear(ctx, id); clearErr != nil {
			return domainauth.Session{}, fmt.Errorf("cleanup expired session: %w", clearErr)
		}
		return domainauth.Session{}, ErrNotFound
	}

	return sess, nil
}

// Credential returns the bearer credential for a session, reading the
// primary key first and falling back to the legacy key.
func (s *SessionStore) Credential(ctx context.Context, id string) (string, error) {
	if id == "" {
		return "", ErrNotFound
	}

	for _, key := range []string{credPrefix + id, legacyCredPrefix + id} {
		cred, err := s.client.Get(ctx, key).Result()
		if err == nil {
			return cred, nil
		}
		if !errors.Is(err, redis.Nil) {
			return "", fmt.Errorf("redis get credential: %w", err)
		}
	}
	return "", ErrNotFound
}

// Clear removes the session record and both credential keys in a single
// delete. Idempotent: clearing a missing session is a no-op.
func (s *SessionStore) Clear(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}

	err := s.client.Del(ctx,
		sessionPrefix+id,
		credPrefix+id,
		legacyCredPrefix+id,
	).Err()
	if err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// ConsumeLoginToken marks an external-login token digest as used. The first
// call per digest returns true; replays within the TTL return false.
func (s *SessionStore) ConsumeLoginToken(ctx context.Context, digest string, ttl time.Duration) (bool, error) {
	if digest == "" {
		return false, errors.New("token digest cannot be empty")
	}
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}

	ok, err := s.client.SetNX(ctx, ssoTokenPrefix+digest, "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis setnx: %w", err)
	}
	return ok, nil
}

// ErrNotFound is returned when a session or credential is not found.
type notFoundError struct{}

func (notFoundError) Error() string { return "session not found" }

var ErrNotFound error = notFoundError{}
