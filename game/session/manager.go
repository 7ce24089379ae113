package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/chessd/chessd/game/rules"
)

var (
	// ErrGameNotFound is returned when the requested game id is not
	// registered.
	ErrGameNotFound = errors.New("game not found")
)

// Session is one live game: the rules-engine state plus the recorded move
// history in both notations. Histories are append-only and index-aligned,
// entry i of MovesSAN encodes the same move as entry i of MovesUCI.
type Session struct {
	ID             string
	Game           *rules.Game
	MovesUCI       []string
	MovesSAN       []string
	CreatedAt      time.Time
	LastAccessedAt time.Time
}

// Touch updates the last-accessed timestamp.
func (s *Session) Touch() {
	s.LastAccessedAt = time.Now()
}

// Manager is the in-memory session registry. All methods are safe for
// concurrent use.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewManager creates an empty registry.
func NewManager() *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
	}
}

// Create registers a new session around the given game and returns it. The
// id is a freshly minted UUID, never reused from a deleted session.
func (m *Manager) Create(game *rules.Game) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := uuid.NewString()
	for {
		if _, exists := m.sessions[id]; !exists {
			break
		}
		id = uuid.NewString()
	}

	now := time.Now()
	sess := &Session{
		ID:             id,
		Game:           game,
		MovesUCI:       []string{},
		MovesSAN:       []string{},
		CreatedAt:      now,
		LastAccessedAt: now,
	}
	m.sessions[id] = sess
	return sess
}

// Get returns the session for the given id.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sess, exists := m.sessions[id]
	if !exists {
		return nil, ErrGameNotFound
	}
	return sess, nil
}

// Delete removes the session for the given id. The id is never handed out
// again.
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.sessions[id]; !exists {
		return ErrGameNotFound
	}
	delete(m.sessions, id)
	return nil
}

// Count returns the number of registered sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
