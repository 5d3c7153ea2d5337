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

type organizationRepository struct {
	mu       sync.RWMutex
	orgs     map[types.OrganizationID]*model.Organization
	registry *registryRepository
}

func newOrganizationRepository(registry *registryRepository) *organizationRepository {
	return &organizationRepository{
		orgs:     make(map[types.OrganizationID]*model.Organization),
		registry: registry,
	}
}

func (r *organizationRepository) Upsert(ctx context.Context, org *model.Organization) (*model.Organization, error) {
	key := model.NormalizeName(org.Name)
	if key == "" {
		return nil, goerr.New("organization name is empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	for _, existing := range r.orgs {
		if existing.Name == key {
			updated := *existing
			updated.DisplayName = org.DisplayName
			updated.UpdatedAt = now
			r.orgs[updated.ID] = &updated
			clone := updated
			return &clone, nil
		}
	}

	stored := *org
	stored.Name = key
	if stored.ID == "" {
		stored.ID = model.NewOrganizationID()
	}
	stored.CreatedAt = now
	stored.UpdatedAt = now
	r.orgs[stored.ID] = &stored

	if err := r.registry.Register(ctx, &model.RegistryEntry{
		ID:   string(stored.ID),
		Kind: types.KindOrganization,
	}); err != nil {
		return nil, err
	}

	clone := stored
	return &clone, nil
}

func (r *organizationRepository) Get(ctx context.Context, id types.OrganizationID) (*model.Organization, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	org, ok := r.orgs[id]
	if !ok {
		return nil, goerr.Wrap(repository.ErrNotFound, "organization not found", goerr.V("id", id))
	}
	clone := *org
	return &clone, nil
}

func (r *organizationRepository) List(ctx context.Context) ([]*model.Organization, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	orgs := make([]*model.Organization, 0, len(r.orgs))
	for _, org := range r.orgs {
		clone := *org
		orgs = append(orgs, &clone)
	}
	sort.Slice(orgs, func(i, j int) bool { return orgs[i].Name < orgs[j].Name })
	return orgs, nil
}

func (r *organizationRepository) FindByName(ctx context.Context, query string) ([]*model.Organization, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matches := make([]*model.Organization, 0)
	for _, org := range r.orgs {
		if model.MatchesName(org.DisplayName, query) || model.MatchesName(org.Name, query) {
			clone := *org
			matches = append(matches, &clone)
		}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].Name < matches[j].Name })
	return matches, nil
}

func (r *organizationRepository) Count(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.orgs), nil
}
