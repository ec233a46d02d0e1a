package session

import (
	"sync"
	"time"

	pkgerrors "github.com/cryptobooking/booking-client/pkg/errors"
	"github.com/google/uuid"
)

// Manager is the in-process registry of live sessions.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	now      func() time.Time
}

// NewManager returns an empty registry. A nil clock defaults to time.Now.
func NewManager(now func() time.Time) *Manager {
	if now == nil {
		now = time.Now
	}
	return &Manager{sessions: make(map[string]*Session), now: now}
}

// Create registers a new disconnected session.
func (m *Manager) Create() *Session {
	sess := New(uuid.NewString(), m.now())
	m.mu.Lock()
	m.sessions[sess.ID()] = sess
	m.mu.Unlock()
	return sess
}

// Get returns the session with id and marks it as seen.
func (m *Manager) Get(id string) (*Session, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid session id")
	}
	m.mu.RLock()
	sess, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "session not found")
	}
	sess.Touch(m.now())
	return sess, nil
}

// Delete removes the session and releases its wallet connection.
func (m *Manager) Delete(id string) bool {
	m.mu.Lock()
	sess, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if ok {
		release(sess.swapConnection(nil))
	}
	return ok
}

// Sweep deletes sessions not seen since idleSince and returns their ids.
func (m *Manager) Sweep(idleSince time.Time) []string {
	m.mu.Lock()
	var expired []*Session
	for id, sess := range m.sessions {
		if sess.LastSeen().Before(idleSince) {
			expired = append(expired, sess)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	ids := make([]string, 0, len(expired))
	for _, sess := range expired {
		release(sess.swapConnection(nil))
		ids = append(ids, sess.ID())
	}
	return ids
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
