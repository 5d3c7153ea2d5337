package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/jari1882/simkb/pkg/domain/model"
	"github.com/jari1882/simkb/pkg/domain/types"
	"github.com/jari1882/simkb/pkg/repository"
)

type roleRepository struct {
	mu       sync.RWMutex
	roles    map[types.RoleID]*model.Role
	registry *registryRepository
}

func newRoleRepository(registry *registryRepository) *roleRepository {
	return &roleRepository{
		roles:    make(map[types.RoleID]*model.Role),
		registry: registry,
	}
}

func (r *roleRepository) Upsert(ctx context.Context, role *model.Role) (*model.Role, error) {
	key := model.NormalizeName(role.ShortName)
	if key == "" {
		return nil, goerr.New("role short name is empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	for _, existing := range r.roles {
		if model.NormalizeName(existing.ShortName) == key {
			updated := *existing
			updated.Name = role.Name
			updated.Goal = role.Goal
			updated.Backstory = role.Backstory
			updated.Temperature = role.Temperature
			updated.UpdatedAt = now
			r.roles[updated.ID] = &updated
			clone := updated
			return &clone, nil
		}
	}

	stored := *role
	if stored.ID == "" {
		stored.ID = model.NewRoleID()
	}
	stored.CreatedAt = now
	stored.UpdatedAt = now
	r.roles[stored.ID] = &stored

	if err := r.registry.Register(ctx, &model.RegistryEntry{
		ID:   string(stored.ID),
		Kind: types.KindRole,
	}); err != nil {
		return nil, err
	}

	clone := stored
	return &clone, nil
}

func (r *roleRepository) Get(ctx context.Context, id types.RoleID) (*model.Role, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	role, ok := r.roles[id]
	if !ok {
		return nil, goerr.Wrap(repository.ErrNotFound, "role not found", goerr.V("id", id))
	}
	clone := *role
	return &clone, nil
}

func (r *roleRepository) List(ctx context.Context) ([]*model.Role, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	roles := make([]*model.Role, 0, len(r.roles))
	for _, role := range r.roles {
		clone := *role
		roles = append(roles, &clone)
	}
	sort.Slice(roles, func(i, j int) bool { return roles[i].ShortName < roles[j].ShortName })
	return roles, nil
}

func (r *roleRepository) FindByName(ctx context.Context, query string) ([]*model.Role, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matches := make([]*model.Role, 0)
	for _, role := range r.roles {
		if model.MatchesName(role.Name, query) || model.MatchesName(role.ShortName, query) {
			clone := *role
			matches = append(matches, &clone)
		}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].ShortName < matches[j].ShortName })
	return matches, nil
}

func (r *roleRepository) Count(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.roles), nil
}
