package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/quizdeck/quizdeck-gateway/internal/model"
)

// MemoryStore is a process-local Store for single-instance dev setups and
// tests. Sessions do not survive restarts.
type MemoryStore struct {
	mu   sync.Mutex
	ttl  time.Duration
	data map[string]memoryEntry
}

type memoryEntry struct {
	sess      model.Session
	expiresAt time.Time
}

// NewMemoryStore creates a MemoryStore with the given session TTL.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:  ttl,
		data: make(map[string]memoryEntry),
	}
}

func (s *MemoryStore) Create(_ context.Context, sess model.Session) (string, error) {
	sid := uuid.New().String()
	s.mu.Lock()
	s.data[sid] = memoryEntry{sess: sess, expiresAt: time.Now().Add(s.ttl)}
	s.mu.Unlock()
	return sid, nil
}

func (s *MemoryStore) Get(_ context.Context, sid string) (*model.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.data[sid]
	if !ok {
		return nil, ErrNotFound
	}
	if time.Now().After(entry.expiresAt) {
		delete(s.data, sid)
		return nil, ErrNotFound
	}
	sess := entry.sess
	return &sess, nil
}

func (s *MemoryStore) Delete(_ context.Context, sid string) error {
	s.mu.Lock()
	delete(s.data, sid)
	s.mu.Unlock()
	return nil
}
