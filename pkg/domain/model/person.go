package model

import (
	"time"

	"github.com/jari1882/simkb/pkg/domain/types"
)

// Person and Employment exist so role holders can be attached to
// organizations. The loader does not populate them today; the schema is
// kept so the graph can grow without a migration.
type Person struct {
	ID        types.PersonID
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Employment struct {
	PersonID       types.PersonID
	OrganizationID types.OrganizationID
	RoleID         types.RoleID
	From           time.Time
	To             time.Time
}

func NewPerson(name string) *Person {
	return &Person{
		ID:   NewPersonID(),
		Name: name,
	}
}
