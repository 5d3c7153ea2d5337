package interfaces

import (
	"context"

	"github.com/jari1882/simkb/pkg/domain/model"
	"github.com/jari1882/simkb/pkg/domain/types"
)

type ProductRepository interface {
	Upsert(ctx context.Context, product *model.Product) (*model.Product, error)
	Get(ctx context.Context, id types.ProductID) (*model.Product, error)
	List(ctx context.Context) ([]*model.Product, error)
	FindByName(ctx context.Context, query string) ([]*model.Product, error)
	Count(ctx context.Context) (int, error)
}
