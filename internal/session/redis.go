package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/quizdeck/quizdeck-gateway/internal/config"
	"github.com/quizdeck/quizdeck-gateway/internal/model"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// RedisStore keeps session bundles in Redis so sessions survive process
// restarts and are shared across instances.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
	log zerolog.Logger
}

// NewRedisStore creates a RedisStore with the given session TTL.
func NewRedisStore(rdb *redis.Client, ttl time.Duration, log zerolog.Logger) *RedisStore {
	return &RedisStore{
		rdb: rdb,
		ttl: ttl,
		log: log.With().Str("component", "session").Logger(),
	}
}

// Create stores the session under a fresh opaque id.
func (s *RedisStore) Create(ctx context.Context, sess model.Session) (string, error) {
	raw, err := json.Marshal(sess)
	if err != nil {
		return "", fmt.Errorf("encode session: %w", err)
	}

	sid := uuid.New().String()
	if err := s.rdb.Set(ctx, config.StateKey.SessionKey(sid), raw, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}
	return sid, nil
}

// Get loads a session. A bundle that fails to parse is deleted and reported
// as not found, so a corrupted entry degrades to "logged out" rather than a
// server error.
func (s *RedisStore) Get(ctx context.Context, sid string) (*model.Session, error) {
	raw, err := s.rdb.Get(ctx, config.StateKey.SessionKey(sid)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load session: %w", err)
	}

	var sess model.Session
	if err := json.Unmarshal([]byte(raw), &sess); err != nil {
		s.log.Warn().Err(err).Str("sid", sid).Msg("Discarding unparseable session bundle")
		_ = s.rdb.Del(ctx, config.StateKey.SessionKey(sid)).Err()
		return nil, ErrNotFound
	}
	return &sess, nil
}

// Delete removes the session; deleting an absent session is not an error.
func (s *RedisStore) Delete(ctx context.Context, sid string) error {
	return s.rdb.Del(ctx, config.StateKey.SessionKey(sid)).Err()
}
