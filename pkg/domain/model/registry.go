package model

import (
	"time"

	"github.com/jari1882/simkb/pkg/domain/types"
)

// RegistryEntry maps a minted identifier to its entity kind. Repositories
// register every new entity here so any ID can be resolved without
// knowing its kind up front.
type RegistryEntry struct {
	ID        string
	Kind      types.EntityKind
	CreatedAt time.Time
}
