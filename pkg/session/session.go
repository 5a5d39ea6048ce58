// Package session stores live dialog contexts between turns so a
// conversation can survive process restarts or be shared across replicas.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"rudder/pkg/dialog"
)

// ErrNotFound is returned when no context exists for a session id.
var ErrNotFound = errors.New("session not found")

// DefaultTTL bounds how long an idle conversation is retained.
const DefaultTTL = 30 * time.Minute

// Store holds dialog contexts keyed by session id.
type Store interface {
	// Save persists the context, refreshing its TTL.
	Save(ctx context.Context, c *dialog.Context) error
	// Load retrieves the context for a session id.
	Load(ctx context.Context, sessionID string) (*dialog.Context, error)
	// Delete removes a session's context.
	Delete(ctx context.Context, sessionID string) error
}

// MemoryStore is an in-process Store for single-instance deployments and
// tests. Entries expire lazily on access.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
}

type memoryEntry struct {
	context   *dialog.Context
	expiresAt time.Time
}

// NewMemoryStore creates an in-memory store. A non-positive ttl falls back to
// DefaultTTL.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
	}
}

// Save stores the context under its session id.
func (m *MemoryStore) Save(_ context.Context, c *dialog.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[c.SessionID] = memoryEntry{
		context:   c,
		expiresAt: time.Now().Add(m.ttl),
	}
	return nil
}

// Load retrieves a stored context.
func (m *MemoryStore) Load(_ context.Context, sessionID string) (*dialog.Context, error) {
	m.mu.RLock()
	entry, ok := m.entries[sessionID]
	m.mu.RUnlock()

	if !ok {
		return nil, ErrNotFound
	}
	if time.Now().After(entry.expiresAt) {
		m.mu.Lock()
		delete(m.entries, sessionID)
		m.mu.Unlock()
		return nil, ErrNotFound
	}
	return entry.context, nil
}

// Delete removes a session.
func (m *MemoryStore) Delete(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, sessionID)
	return nil
}
