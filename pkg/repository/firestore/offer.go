package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"

	"github.com/jari1882/simkb/pkg/domain/model"
	"github.com/jari1882/simkb/pkg/domain/types"
)

type offerDoc struct {
	ID             types.OfferID        `firestore:"ID"`
	OrganizationID types.OrganizationID `firestore:"OrganizationID"`
	ProductID      types.ProductID      `firestore:"ProductID"`
	Type           string               `firestore:"Type"`
	Value          float64              `firestore:"Value"`
	Year           int                  `firestore:"Year"`
	CreatedAt      time.Time            `firestore:"CreatedAt"`
	UpdatedAt      time.Time            `firestore:"UpdatedAt"`
}

func fromOfferDoc(d *offerDoc) *model.Offer {
	return &model.Offer{
		ID:             d.ID,
		OrganizationID: d.OrganizationID,
		ProductID:      d.ProductID,
		Type:           model.OfferType(d.Type),
		Value:          d.Value,
		Year:           d.Year,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}

type offerRepository struct {
	client   *firestore.Client
	registry *registryRepository
	prefix   string
}

func newOfferRepository(client *firestore.Client, registry *registryRepository) *offerRepository {
	return &offerRepository{client: client, registry: registry}
}

func (r *offerRepository) collection() *firestore.CollectionRef {
	return collection(r.client, r.prefix, "offers")
}

func (r *offerRepository) Upsert(ctx context.Context, offer *model.Offer) (*model.Offer, error) {
	now := time.Now().UTC()

	iter := r.collection().
		Where("OrganizationID", "==", string(offer.OrganizationID)).
		Where("ProductID", "==", string(offer.ProductID)).
		Where("Type", "==", string(offer.Type)).
		Where("Year", "==", offer.Year).
		Limit(1).
		Documents(ctx)
	defer iter.Stop()

	snap, err := iter.Next()
	if err == nil {
		var existing offerDoc
		if err := snap.DataTo(&existing); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal offer")
		}
		existing.Value = offer.Value
		existing.UpdatedAt = now
		if _, err := snap.Ref.Set(ctx, &existing); err != nil {
			return nil, goerr.Wrap(err, "failed to update offer", goerr.V("id", existing.ID))
		}
		return fromOfferDoc(&existing), nil
	}
	if err != iterator.Done {
		return nil, goerr.Wrap(err, "failed to look up offer")
	}

	stored := offerDoc{
		ID:             offer.ID,
		OrganizationID: offer.OrganizationID,
		ProductID:      offer.ProductID,
		Type:           string(offer.Type),
		Value:          offer.Value,
		Year:           offer.Year,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if stored.ID == "" {
		stored.ID = model.NewOfferID()
	}
	if _, err := r.collection().Doc(string(stored.ID)).Set(ctx, &stored); err != nil {
		return nil, goerr.Wrap(err, "failed to create offer")
	}

	if err := r.registry.Register(ctx, &model.RegistryEntry{
		ID:   string(stored.ID),
		Kind: types.KindOffer,
	}); err != nil {
		return nil, err
	}

	return fromOfferDoc(&stored), nil
}

func (r *offerRepository) ListByOrganization(ctx context.Context, orgID types.OrganizationID) ([]*model.Offer, error) {
	iter := r.collection().Where("OrganizationID", "==", string(orgID)).Documents(ctx)
	defer iter.Stop()

	offers := make([]*model.Offer, 0)
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate offers", goerr.V("orgID", orgID))
		}
		var d offerDoc
		if err := snap.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal offer")
		}
		offers = append(offers, fromOfferDoc(&d))
	}
	return offers, nil
}

func (r *offerRepository) Count(ctx context.Context) (int, error) {
	snaps, err := r.collection().Documents(ctx).GetAll()
	if err != nil {
		return 0, goerr.Wrap(err, "failed to count offers")
	}
	return len(snaps), nil
}
