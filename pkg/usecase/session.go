package usecase

import (
	"sync"
	"time"

	"github.com/jari1882/simkb/pkg/domain/model"
	"github.com/jari1882/simkb/pkg/domain/types"
)

// sessionStore keeps conversation history in memory, keyed by session
// ID. A turn pair is committed only after the full exchange succeeds, so
// a failed turn leaves no trace in the history.
type sessionStore struct {
	mu       sync.Mutex
	sessions map[string]*model.Session
}

func newSessionStore() *sessionStore {
	return &sessionStore{
		sessions: make(map[string]*model.Session),
	}
}

// Snapshot returns a copy of the session's turns, creating the session
// if it does not exist yet.
func (s *sessionStore) Snapshot(id string) []model.Turn {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	if !ok {
		session = model.NewSession(id)
		s.sessions[id] = session
	}
	return append([]model.Turn(nil), session.Turns...)
}

// Commit appends a completed user/assistant exchange atomically.
func (s *sessionStore) Commit(id, userText, assistantText string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	if !ok {
		session = model.NewSession(id)
		s.sessions[id] = session
	}

	now := time.Now().UTC()
	session.Turns = append(session.Turns,
		model.Turn{Role: types.TurnUser, Text: userText, CreatedAt: now},
		model.Turn{Role: types.TurnAssistant, Text: assistantText, CreatedAt: now},
	)
	session.UpdatedAt = now
}

// Reset drops a session's history. Returns whether the session existed.
func (s *sessionStore) Reset(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	if !ok {
		return false
	}
	session.Turns = nil
	session.UpdatedAt = time.Now().UTC()
	return true
}
