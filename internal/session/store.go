// Package session implements server-side sessions backed by Redis. The
// browser only carries an opaque session id in an httpOnly cookie; all
// session state (and the session-scoped cart) lives under a TTL'd key.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// CookieName is the session cookie, matching the legacy front-end.
const CookieName = "sid"

var ErrNotFound = errors.New("session not found")

// Data is what a session remembers about the logged-in user.
type Data struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Admin    bool   `json:"admin"`
}

// Store is the session persistence contract. Handlers and middleware depend
// on this interface so tests can swap in an in-memory implementation.
type Store interface {
	Create(ctx context.Context, d Data) (string, error)
	Get(ctx context.Context, sid string) (*Data, error)
	Destroy(ctx context.Context, sid string) error
	TTL() time.Duration
}

type redisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisStore returns a Store with a fixed (non-sliding) TTL, mirroring
// the legacy 24-hour session expiry.
func NewRedisStore(rdb *redis.Client, ttl time.Duration) Store {
	return &redisStore{rdb: rdb, ttl: ttl}
}

func sessionKey(sid string) string { return "session:" + sid }

func (s *redisStore) Create(ctx context.Context, d Data) (string, error) {
	sid := uuid.NewString()
	b, err := json.Marshal(d)
	if err != nil {
		return "", err
	}
	if err := s.rdb.Set(ctx, sessionKey(sid), b, s.ttl).Err(); err != nil {
		return "", err
	}
	return sid, nil
}

func (s *redisStore) Get(ctx context.Context, sid string) (*Data, error) {
	b, err := s.rdb.Get(ctx, sessionKey(sid)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var d Data
	if err := json.Unmarshal(b, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *redisStore) Destroy(ctx context.Context, sid string) error {
	return s.rdb.Del(ctx, sessionKey(sid)).Err()
}

func (s *redisStore) TTL() time.Duration { return s.ttl }
