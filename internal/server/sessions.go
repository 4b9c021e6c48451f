package server

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/skriptgen/skriptgen/internal/dialog"
)

// Session pairs one conversation with its controller. Handlers must hold mu
// for the whole turn so state transitions stay sequential per conversation.
type Session struct {
	ID         string
	Controller *dialog.Controller
	CreatedAt  time.Time
	LastActive time.Time

	mu sync.Mutex
}

// Lock serializes turns on this session.
func (s *Session) Lock() { s.mu.Lock() }

// Unlock releases the turn lock.
func (s *Session) Unlock() { s.mu.Unlock() }

// SessionStore maps session ids to live conversations. Lifecycle belongs to
// the transport layer; controllers never know their own session id.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	factory  func() *dialog.Controller
}

// NewSessionStore creates a store that builds controllers with factory.
func NewSessionStore(factory func() *dialog.Controller) *SessionStore {
	return &SessionStore{
		sessions: map[string]*Session{},
		factory:  factory,
	}
}

// Create starts a new conversation and returns its session.
func (st *SessionStore) Create() *Session {
	now := time.Now()
	sess := &Session{
		ID:         uuid.NewString(),
		Controller: st.factory(),
		CreatedAt:  now,
		LastActive: now,
	}

	st.mu.Lock()
	st.sessions[sess.ID] = sess
	st.mu.Unlock()
	return sess
}

// Get returns the session for id, if it exists.
func (st *SessionStore) Get(id string) (*Session, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	sess, ok := st.sessions[id]
	if ok {
		sess.LastActive = time.Now()
	}
	return sess, ok
}

// Delete removes a session.
func (st *SessionStore) Delete(id string) {
	st.mu.Lock()
	delete(st.sessions, id)
	st.mu.Unlock()
}

// Len returns the number of live sessions.
func (st *SessionStore) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}
