package model

import (
	"time"

	"github.com/jari1882/simkb/pkg/domain/types"
)

// Turn is one utterance in a conversation.
type Turn struct {
	Role      types.TurnRole
	Text      string
	CreatedAt time.Time
}

// Session is a conversation's history. Turns are appended in pairs only
// after a full exchange succeeds, so the history never holds a user
// message without its answer.
type Session struct {
	ID        string
	Turns     []Turn
	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewSession(id string) *Session {
	now := time.Now().UTC()
	return &Session{
		ID:        id,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	clone := *s
	clone.Turns = append([]Turn(nil), s.Turns...)
	return &clone
}
