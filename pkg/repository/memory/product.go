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

type productRepository struct {
	mu       sync.RWMutex
	products map[types.ProductID]*model.Product
	registry *registryRepository
}

func newProductRepository(registry *registryRepository) *productRepository {
	return &productRepository{
		products: make(map[types.ProductID]*model.Product),
		registry: registry,
	}
}

func (r *productRepository) Upsert(ctx context.Context, product *model.Product) (*model.Product, error) {
	if !product.Type.IsValid() {
		return nil, goerr.New("invalid product type", goerr.V("type", product.Type))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	key := model.NormalizeName(product.Name)
	for _, existing := range r.products {
		if model.NormalizeName(existing.Name) == key {
			updated := *existing
			updated.Description = product.Description
			updated.UpdatedAt = now
			r.products[updated.ID] = &updated
			clone := updated
			return &clone, nil
		}
	}

	stored := *product
	if stored.ID == "" {
		stored.ID = model.NewProductID()
	}
	stored.CreatedAt = now
	stored.UpdatedAt = now
	r.products[stored.ID] = &stored

	if err := r.registry.Register(ctx, &model.RegistryEntry{
		ID:   string(stored.ID),
		Kind: types.KindProduct,
	}); err != nil {
		return nil, err
	}

	clone := stored
	return &clone, nil
}

func (r *productRepository) Get(ctx context.Context, id types.ProductID) (*model.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, goerr.Wrap(repository.ErrNotFound, "product not found", goerr.V("id", id))
	}
	clone := *product
	return &clone, nil
}

func (r *productRepository) List(ctx context.Context) ([]*model.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	products := make([]*model.Product, 0, len(r.products))
	for _, product := range r.products {
		clone := *product
		products = append(products, &clone)
	}
	sort.Slice(products, func(i, j int) bool { return products[i].Name < products[j].Name })
	return products, nil
}

func (r *productRepository) FindByName(ctx context.Context, query string) ([]*model.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matches := make([]*model.Product, 0)
	for _, product := range r.products {
		if model.MatchesName(product.Name, query) {
			clone := *product
			matches = append(matches, &clone)
		}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].Name < matches[j].Name })
	return matches, nil
}

func (r *productRepository) Count(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.products), nil
}
