package interfaces

import (
	"context"

	"github.com/jari1882/simkb/pkg/domain/model"
	"github.com/jari1882/simkb/pkg/domain/types"
)

type OfferRepository interface {
	// Upsert keys on (OrganizationID, ProductID, Type, Year).
	Upsert(ctx context.Context, offer *model.Offer) (*model.Offer, error)
	ListByOrganization(ctx context.Context, orgID types.OrganizationID) ([]*model.Offer, error)
	Count(ctx context.Context) (int, error)
}
