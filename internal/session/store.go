package session

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Store keeps sessions in Redis under session:<id> keys. The key TTL
// tracks the absolute deadline so abandoned sessions reap themselves.
type Store struct {
	client   *redis.Client
	prefix   string
	ttl      time.Duration
	lifetime time.Duration
	now      func() time.Time
}

// NewStore creates a Redis-backed session store. ttl is the sliding
// validity window, lifetime the absolute cap a session may be extended to.
func NewStore(client *redis.Client, ttl, lifetime time.Duration) *Store {
	if ttl <= 0 {
		ttl = time.Hour
	}
	if lifetime < ttl {
		lifetime = ttl
	}
	return &Store{
		client:   client,
		prefix:   "session:",
		ttl:      ttl,
		lifetime: lifetime,
		now:      time.Now,
	}
}

// Create opens a new session for subject and persists it.
func (s *Store) Create(ctx context.Context, subject string) (*Session, error) {
	now := s.now().UTC()
	sess := &Session{
		ID:           uuid.NewString(),
		Subject:      subject,
		IssuedAt:     now,
		ExpiresAt:    now.Add(s.ttl),
		Deadline:     now.Add(s.lifetime),
		RefreshToken: uuid.NewString(),
	}
	if err := s.save(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// Get loads a session by id. Returns ErrNotFound for unknown or reaped ids.
func (s *Store) Get(ctx context.Context, id string) (*Session, error) {
	raw, err := s.client.Get(ctx, s.prefix+id).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrNotFound
		}
		return nil, err
	}
	var sess Session
	if err := json.Unmarshal([]byte(raw), &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

// Refresh slides the session's expiry forward by the ttl, capped at the
// absolute deadline, and rotates the refresh handle. A session already
// past its deadline cannot be extended.
func (s *Store) Refresh(ctx context.Context, id string) (*Session, error) {
	sess, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	if !now.Before(sess.Deadline) {
		return nil, ErrRefreshDenied
	}
	next := now.Add(s.ttl)
	if next.After(sess.Deadline) {
		next = sess.Deadline
	}
	sess.ExpiresAt = next
	sess.RefreshToken = uuid.NewString()
	if err := s.save(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// Delete removes a session. Deleting an unknown id is not an error.
func (s *Store) Delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, s.prefix+id).Err()
}

func (s *Store) save(ctx context.Context, sess *Session) error {
	payload, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	ttl := sess.Deadline.Sub(s.now().UTC())
	if ttl <= 0 {
		ttl = time.Minute
	}
	return s.client.Set(ctx, s.prefix+sess.ID, payload, ttl).Err()
}
