package runner

import (
	"sync"

	"github.com/kvit-s/patchkit/internal/patch"
)

// SessionStore tracks open apply sessions by ID. Safe for concurrent use;
// interactive frontends resolve hunks from UI goroutines while the runner
// owns planning.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*storedSession
}

type storedSession struct {
	session *patch.ApplySession
	path    string
}

// NewSessionStore creates an empty store.
func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]*storedSession)}
}

// Put registers a session under its ID, recording the target path.
func (s *SessionStore) Put(path string, session *patch.ApplySession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID()] = &storedSession{session: session, path: path}
}

// Get returns the session with the given ID, or nil.
func (s *SessionStore) Get(id string) *patch.ApplySession {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.sessions[id]; ok {
		return e.session
	}
	return nil
}

// PathOf returns the target path recorded for the session ID.
func (s *SessionStore) PathOf(id string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.sessions[id]; ok {
		return e.path
	}
	return ""
}

// ByPath returns the first open session targeting path, or nil.
func (s *SessionStore) ByPath(path string) *patch.ApplySession {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.sessions {
		if e.path == path {
			return e.session
		}
	}
	return nil
}

// Remove drops the session with the given ID.
func (s *SessionStore) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// Len returns the number of open sessions.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
