package interfaces

import (
	"context"

	"github.com/jari1882/simkb/pkg/domain/model"
)

type RegistryRepository interface {
	Register(ctx context.Context, entry *model.RegistryEntry) error
	Resolve(ctx context.Context, id string) (*model.RegistryEntry, error)
}
