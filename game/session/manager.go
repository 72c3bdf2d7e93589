package session

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/wricardo/skirmish/game/engine"
	"github.com/wricardo/skirmish/game/service"
)

var (
	ErrSessionNotFound      = errors.New("session not found")
	ErrSessionAlreadyExists = errors.New("session already exists")
	ErrInvalidSessionID     = errors.New("invalid session ID")
)

// Manager handles game session lifecycle
type Manager struct {
	sessions  map[string]*service.Session
	publisher service.EventPublisher
	mu        sync.RWMutex
}

// NewManager creates a new session manager. Every event raised by a
// session's game is forwarded to publisher, which may be nil.
func NewManager(publisher service.EventPublisher) *Manager {
	return &Manager{
		sessions:  make(map[string]*service.Session),
		publisher: publisher,
	}
}

// Create creates and starts a new session with the given ID and configuration
func (m *Manager) Create(id string, config *engine.GameConfig) (*service.Session, error) {
	if strings.ContainsAny(id, "/?# ") {
		return nil, ErrInvalidSessionID
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if id == "" {
		id = m.generateSessionID()
	} else if m.sessionExists(id) {
		return nil, ErrSessionAlreadyExists
	}

	game, err := engine.NewGame(config, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}
	if m.publisher != nil {
		sessionID := id
		publisher := m.publisher
		game.AddListener(engine.EventSink(func(ev engine.Event) {
			publisher.Publish(sessionID, ev)
		}))
	}
	if err := game.Start(); err != nil {
		game.Close()
		return nil, fmt.Errorf("failed to start game: %w", err)
	}

	now := time.Now()
	session := &service.Session{
		ID:             id,
		Game:           game,
		Config:         config,
		CreatedAt:      now,
		LastAccessedAt: now,
	}

	m.sessions[strings.ToLower(id)] = session

	log.WithFields(log.Fields{
		"session": id,
		"config":  config.Name,
		"game_id": game.GameID(),
	}).Debug("session created")

	return session, nil
}

// Get retrieves a session by ID (case-insensitive)
func (m *Manager) Get(id string) (*service.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	session, exists := m.sessions[strings.ToLower(id)]
	if !exists {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// GetOrCreate gets an existing session or creates a new one
func (m *Manager) GetOrCreate(id string, config *engine.GameConfig) (*service.Session, error) {
	session, err := m.Get(id)
	if err == nil {
		return session, nil
	}

	if errors.Is(err, ErrSessionNotFound) {
		session, err = m.Create(id, config)
		if errors.Is(err, ErrSessionAlreadyExists) {
			// Lost a race with another creator
			return m.Get(id)
		}
		return session, err
	}

	return nil, err
}

// List returns all active sessions
func (m *Manager) List() []*service.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*service.Session, 0, len(m.sessions))
	for _, session := range m.sessions {
		result = append(result, session)
	}

	return result
}

// Delete removes a session and stops its game
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	lowerID := strings.ToLower(id)
	session, exists := m.sessions[lowerID]
	if exists {
		delete(m.sessions, lowerID)
	}
	m.mu.Unlock()

	if !exists {
		return ErrSessionNotFound
	}

	session.Game.Close()
	log.WithField("session", session.ID).Debug("session deleted")
	return nil
}

// UpdateLastAccessed updates the last accessed time for a session
func (m *Manager) UpdateLastAccessed(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, exists := m.sessions[strings.ToLower(id)]
	if !exists {
		return ErrSessionNotFound
	}

	session.LastAccessedAt = time.Now()
	return nil
}

// CleanupExpiredSessions removes sessions that haven't been accessed in the given duration
func (m *Manager) CleanupExpiredSessions(maxAge time.Duration) int {
	m.mu.Lock()
	cutoff := time.Now().Add(-maxAge)
	var expired []*service.Session

	for id, session := range m.sessions {
		if session.LastAccessedAt.Before(cutoff) {
			delete(m.sessions, id)
			expired = append(expired, session)
		}
	}
	m.mu.Unlock()

	for _, session := range expired {
		session.Game.Close()
	}
	if len(expired) > 0 {
		log.WithField("removed", len(expired)).Info("expired sessions cleaned up")
	}

	return len(expired)
}

// Count returns the number of active sessions
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Close stops every session's game
func (m *Manager) Close() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*service.Session)
	m.mu.Unlock()

	for _, session := range sessions {
		session.Game.Close()
	}
}

// generateSessionID generates an unused random 4-character session ID.
// Callers hold the write lock.
func (m *Manager) generateSessionID() string {
	bytes := make([]byte, 2)
	for {
		rand.Read(bytes)
		id := hex.EncodeToString(bytes)
		if !m.sessionExists(id) {
			return id
		}
	}
}

// sessionExists checks if a session exists (case-insensitive)
func (m *Manager) sessionExists(id string) bool {
	_, exists := m.sessions[strings.ToLower(id)]
	return exists
}
