package model

import (
	"time"

	"github.com/jari1882/simkb/pkg/domain/types"
)

// Role is an evaluator persona from the team fixture. Goal and Backstory
// feed the navigator's role-perspective framing; Temperature is the
// persona's suggested sampling temperature.
type Role struct {
	ID          types.RoleID
	Name        string
	ShortName   string
	Goal        string
	Backstory   string
	Temperature float64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func NewRole(name, shortName string) *Role {
	return &Role{
		ID:        NewRoleID(),
		Name:      name,
		ShortName: shortName,
	}
}
