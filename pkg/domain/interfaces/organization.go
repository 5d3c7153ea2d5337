package interfaces

import (
	"context"

	"github.com/jari1882/simkb/pkg/domain/model"
	"github.com/jari1882/simkb/pkg/domain/types"
)

type OrganizationRepository interface {
	// Upsert creates the organization or, when one with the same
	// normalized Name exists, updates it in place keeping its ID.
	Upsert(ctx context.Context, org *model.Organization) (*model.Organization, error)
	Get(ctx context.Context, id types.OrganizationID) (*model.Organization, error)
	List(ctx context.Context) ([]*model.Organization, error)
	// FindByName returns every organization whose name contains the
	// normalized query. Zero, one or many results are all normal.
	FindByName(ctx context.Context, query string) ([]*model.Organization, error)
	Count(ctx context.Context) (int, error)
}
