package memory

import (
	"context"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/jari1882/simkb/pkg/domain/model"
	"github.com/jari1882/simkb/pkg/repository"
)

type registryRepository struct {
	mu      sync.RWMutex
	entries map[string]*model.RegistryEntry
}

func newRegistryRepository() *registryRepository {
	return &registryRepository{
		entries: make(map[string]*model.RegistryEntry),
	}
}

func (r *registryRepository) Register(ctx context.Context, entry *model.RegistryEntry) error {
	if entry.ID == "" {
		return goerr.New("registry entry without ID")
	}
	if !entry.Kind.IsValid() {
		return goerr.New("registry entry with invalid kind", goerr.V("kind", entry.Kind))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Re-registering the same ID keeps the original timestamp.
	if existing, ok := r.entries[entry.ID]; ok {
		entry.CreatedAt = existing.CreatedAt
	} else if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	stored := *entry
	r.entries[entry.ID] = &stored
	return nil
}

func (r *registryRepository) Resolve(ctx context.Context, id string) (*model.RegistryEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.entries[id]
	if !ok {
		return nil, goerr.Wrap(repository.ErrNotFound, "id not registered", goerr.V("id", id))
	}

	clone := *entry
	return &clone, nil
}
