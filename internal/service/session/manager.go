package session

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/semiologia/semiologia-api/internal/domain/entity"
)

// Manager owns the active play sessions of this instance. Sessions are
// in-memory only; an abandoned one is reaped after the TTL.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*PlaySession
	cfg      *Config
	ttl      time.Duration
}

// NewManager creates a session manager. A nil config falls back to defaults.
func NewManager(cfg *Config, ttl time.Duration) *Manager {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &Manager{
		sessions: make(map[string]*PlaySession),
		cfg:      cfg,
		ttl:      ttl,
	}
}

// Start creates a session for the user over the given question set.
func (m *Manager) Start(userID, quizID, competitionID string, questions []entity.Question) (*PlaySession, error) {
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}

	s := newPlaySession(m.cfg, userID, quizID, competitionID, questions)

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	log.Printf("[SessionManager] session started id=%s user=%s quiz=%s questions=%d",
		s.ID, userID, quizID, len(questions))
	return s, nil
}

// Get returns a session by ID, scoped to its owner.
func (m *Manager) Get(sessionID, userID string) (*PlaySession, error) {
	m.mu.RLock()
	s, ok := m.sessions[sessionID]
	m.mu.RUnlock()

	if !ok || s.UserID != userID {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Remove drops a session, typically after its result was submitted.
func (m *Manager) Remove(sessionID string) {
	m.mu.Lock()
	delete(m.sessions, sessionID)
	m.mu.Unlock()
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// RunReaper periodically drops sessions idle beyond the TTL. Blocks until
// the context is cancelled; run it in its own goroutine.
func (m *Manager) RunReaper(ctx context.Context) {
	ticker := time.NewTicker(m.ttl / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.reap()
		}
	}
}

func (m *Manager) reap() {
	now := m.cfg.Clock()

	m.mu.Lock()
	defer m.mu.Unlock()
	for id, s := range m.sessions {
		if s.idleSince(now) > m.ttl {
			delete(m.sessions, id)
			log.Printf("[SessionManager] reaped idle session id=%s user=%s", id, s.UserID)
		}
	}
}
