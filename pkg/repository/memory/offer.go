package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jari1882/simkb/pkg/domain/model"
	"github.com/jari1882/simkb/pkg/domain/types"
)

type offerRepository struct {
	mu       sync.RWMutex
	offers   map[types.OfferID]*model.Offer
	registry *registryRepository
}

func newOfferRepository(registry *registryRepository) *offerRepository {
	return &offerRepository{
		offers:   make(map[types.OfferID]*model.Offer),
		registry: registry,
	}
}

func (r *offerRepository) Upsert(ctx context.Context, offer *model.Offer) (*model.Offer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	for _, existing := range r.offers {
		if existing.OrganizationID == offer.OrganizationID &&
			existing.ProductID == offer.ProductID &&
			existing.Type == offer.Type &&
			existing.Year == offer.Year {
			updated := *existing
			updated.Value = offer.Value
			updated.UpdatedAt = now
			r.offers[updated.ID] = &updated
			clone := updated
			return &clone, nil
		}
	}

	stored := *offer
	if stored.ID == "" {
		stored.ID = model.NewOfferID()
	}
	stored.CreatedAt = now
	stored.UpdatedAt = now
	r.offers[stored.ID] = &stored

	if err := r.registry.Register(ctx, &model.RegistryEntry{
		ID:   string(stored.ID),
		Kind: types.KindOffer,
	}); err != nil {
		return nil, err
	}

	clone := stored
	return &clone, nil
}

func (r *offerRepository) ListByOrganization(ctx context.Context, orgID types.OrganizationID) ([]*model.Offer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	offers := make([]*model.Offer, 0)
	for _, offer := range r.offers {
		if offer.OrganizationID == orgID {
			clone := *offer
			offers = append(offers, &clone)
		}
	}
	sort.Slice(offers, func(i, j int) bool {
		if offers[i].Year != offers[j].Year {
			return offers[i].Year < offers[j].Year
		}
		return offers[i].Type < offers[j].Type
	})
	return offers, nil
}

func (r *offerRepository) Count(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.offers), nil
}
