// Package session owns the browser session lifecycle: the token bundle and
// the identity derived from it. Sessions are created on login, read by the
// guard middleware on every request and destroyed on logout or when the
// stored bundle can no longer be parsed.
package session

import (
	"context"
	"errors"

	"github.com/quizdeck/quizdeck-gateway/internal/model"
)

// ErrNotFound is returned when no session exists for the given id, including
// when a stored bundle failed to parse (treated as logged out).
var ErrNotFound = errors.New("session not found")

// Store persists sessions keyed by an opaque session id. Implementations:
// RedisStore for multi-instance deployments, MemoryStore for dev and tests.
type Store interface {
	// Create stores the session and returns its new opaque id.
	Create(ctx context.Context, sess model.Session) (string, error)
	Get(ctx context.Context, sid string) (*model.Session, error)
	Delete(ctx context.Context, sid string) error
}
