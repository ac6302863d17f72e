package session

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/algotrace/pkg/observability"
)

// Store is the interface for session registries.
type Store interface {
	// Get retrieves a session by ID and records the access.
	// Returns ErrNotFound if the session doesn't exist or has expired.
	Get(ctx context.Context, id string) (*Session, error)

	// Put registers a session.
	Put(ctx context.Context, s *Session) error

	// Delete closes and removes a session.
	Delete(ctx context.Context, id string) error

	// Cleanup closes and removes expired sessions, returning how many.
	Cleanup(ctx context.Context) (int, error)

	// Len returns the number of registered sessions.
	Len() int
}

// MemoryStore is an in-process [Store].
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
	now      func() time.Time
	logger   *log.Logger
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates a store that expires sessions idle for longer
// than ttl. A ttl <= 0 keeps sessions until they are deleted.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		now:      time.Now,
		logger:   log.Default(),
	}
}

// SetLogger replaces the store's logger.
func (m *MemoryStore) SetLogger(l *log.Logger) {
	if l != nil {
		m.logger = l
	}
}

func (m *MemoryStore) Get(ctx context.Context, id string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}

	now := m.now()
	if s.Expired(now, m.ttl) {
		m.remove(ctx, id, s)
		return nil, ErrNotFound
	}
	s.Touch(now)
	return s, nil
}

func (m *MemoryStore) Put(ctx context.Context, s *Session) error {
	s.Touch(m.now())
	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	observability.Session().OnSessionCreated(ctx, s.Algorithm)
	m.logger.Debug("session created", "id", s.ID, "algorithm", s.Algorithm)
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return ErrNotFound
	}
	m.remove(ctx, id, s)
	return nil
}

func (m *MemoryStore) Cleanup(ctx context.Context) (int, error) {
	now := m.now()

	m.mu.RLock()
	var expired []*Session
	for _, s := range m.sessions {
		if s.Expired(now, m.ttl) {
			expired = append(expired, s)
		}
	}
	m.mu.RUnlock()

	n := 0
	for _, s := range expired {
		if m.remove(ctx, s.ID, s) {
			n++
		}
	}
	if n > 0 {
		m.logger.Debug("expired sessions removed", "count", n)
	}
	return n, ctx.Err()
}

func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Run calls Cleanup every interval until ctx is done, then closes all
// remaining sessions.
func (m *MemoryStore) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			m.closeAll()
			return
		case <-ticker.C:
			if _, err := m.Cleanup(ctx); err != nil && ctx.Err() == nil {
				m.logger.Warn("session cleanup failed", "error", err)
			}
		}
	}
}

// remove deletes s if it is still registered under id. It reports whether
// this call removed it.
func (m *MemoryStore) remove(ctx context.Context, id string, s *Session) bool {
	m.mu.Lock()
	cur, ok := m.sessions[id]
	if !ok || cur != s {
		m.mu.Unlock()
		return false
	}
	delete(m.sessions, id)
	m.mu.Unlock()

	s.Close()
	observability.Session().OnSessionClosed(ctx, s.Algorithm, m.now().Sub(s.CreatedAt))
	m.logger.Debug("session closed", "id", id, "algorithm", s.Algorithm)
	return true
}

func (m *MemoryStore) closeAll() {
	m.mu.RLock()
	all := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		all = append(all, s)
	}
	m.mu.RUnlock()
	for _, s := range all {
		m.remove(context.Background(), s.ID, s)
	}
}
