package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/jari1882/simkb/pkg/domain/model"
	"github.com/jari1882/simkb/pkg/domain/types"
	"github.com/jari1882/simkb/pkg/repository"
)

type productDoc struct {
	ID          types.ProductID `firestore:"ID"`
	Name        string          `firestore:"Name"`
	Type        string          `firestore:"Type"`
	Description string          `firestore:"Description"`
	CreatedAt   time.Time       `firestore:"CreatedAt"`
	UpdatedAt   time.Time       `firestore:"UpdatedAt"`
}

func fromProductDoc(d *productDoc) *model.Product {
	return &model.Product{
		ID:          d.ID,
		Name:        d.Name,
		Type:        types.ProductType(d.Type),
		Description: d.Description,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

type productRepository struct {
	client   *firestore.Client
	registry *registryRepository
	prefix   string
}

func newProductRepository(client *firestore.Client, registry *registryRepository) *productRepository {
	return &productRepository{client: client, registry: registry}
}

func (r *productRepository) collection() *firestore.CollectionRef {
	return collection(r.client, r.prefix, "products")
}

func (r *productRepository) Upsert(ctx context.Context, product *model.Product) (*model.Product, error) {
	if !product.Type.IsValid() {
		return nil, goerr.New("invalid product type", goerr.V("type", product.Type))
	}

	now := time.Now().UTC()

	iter := r.collection().Where("Name", "==", product.Name).Limit(1).Documents(ctx)
	defer iter.Stop()

	snap, err := iter.Next()
	if err == nil {
		var existing productDoc
		if err := snap.DataTo(&existing); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal product")
		}
		existing.Description = product.Description
		existing.UpdatedAt = now
		if _, err := snap.Ref.Set(ctx, &existing); err != nil {
			return nil, goerr.Wrap(err, "failed to update product", goerr.V("id", existing.ID))
		}
		return fromProductDoc(&existing), nil
	}
	if err != iterator.Done {
		return nil, goerr.Wrap(err, "failed to look up product", goerr.V("name", product.Name))
	}

	stored := productDoc{
		ID:          product.ID,
		Name:        product.Name,
		Type:        product.Type.String(),
		Description: product.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if stored.ID == "" {
		stored.ID = model.NewProductID()
	}
	if _, err := r.collection().Doc(string(stored.ID)).Set(ctx, &stored); err != nil {
		return nil, goerr.Wrap(err, "failed to create product", goerr.V("name", product.Name))
	}

	if err := r.registry.Register(ctx, &model.RegistryEntry{
		ID:   string(stored.ID),
		Kind: types.KindProduct,
	}); err != nil {
		return nil, err
	}

	return fromProductDoc(&stored), nil
}

func (r *productRepository) Get(ctx context.Context, id types.ProductID) (*model.Product, error) {
	snap, err := r.collection().Doc(string(id)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(repository.ErrNotFound, "product not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get product", goerr.V("id", id))
	}

	var d productDoc
	if err := snap.DataTo(&d); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal product", goerr.V("id", id))
	}
	return fromProductDoc(&d), nil
}

func (r *productRepository) List(ctx context.Context) ([]*model.Product, error) {
	iter := r.collection().OrderBy("Name", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	products := make([]*model.Product, 0)
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate products")
		}
		var d productDoc
		if err := snap.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal product")
		}
		products = append(products, fromProductDoc(&d))
	}
	return products, nil
}

func (r *productRepository) FindByName(ctx context.Context, query string) ([]*model.Product, error) {
	products, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	matches := make([]*model.Product, 0)
	for _, product := range products {
		if model.MatchesName(product.Name, query) {
			matches = append(matches, product)
		}
	}
	return matches, nil
}

func (r *productRepository) Count(ctx context.Context) (int, error) {
	snaps, err := r.collection().Documents(ctx).GetAll()
	if err != nil {
		return 0, goerr.Wrap(err, "failed to count products")
	}
	return len(snaps), nil
}
