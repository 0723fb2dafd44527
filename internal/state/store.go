// Package state holds small per-session flow values that must survive page
// reloads: the attempt cursor, cached question counts, wizard drafts and
// retained finish results. Values are plain strings; callers own the
// encoding.
package state

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no value exists for the given key.
var ErrNotFound = errors.New("state entry not found")

// Store is a keyed string store with a fixed TTL per entry.
type Store interface {
	Put(ctx context.Context, key, value string) error
	Get(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
}
