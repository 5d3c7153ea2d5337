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

type organizationDoc struct {
	ID          types.OrganizationID `firestore:"ID"`
	Name        string               `firestore:"Name"`
	DisplayName string               `firestore:"DisplayName"`
	CreatedAt   time.Time            `firestore:"CreatedAt"`
	UpdatedAt   time.Time            `firestore:"UpdatedAt"`
}

func fromOrganizationDoc(d *organizationDoc) *model.Organization {
	return &model.Organization{
		ID:          d.ID,
		Name:        d.Name,
		DisplayName: d.DisplayName,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

type organizationRepository struct {
	client   *firestore.Client
	registry *registryRepository
	prefix   string
}

func newOrganizationRepository(client *firestore.Client, registry *registryRepository) *organizationRepository {
	return &organizationRepository{client: client, registry: registry}
}

func (r *organizationRepository) collection() *firestore.CollectionRef {
	return collection(r.client, r.prefix, "organizations")
}

func (r *organizationRepository) Upsert(ctx context.Context, org *model.Organization) (*model.Organization, error) {
	key := model.NormalizeName(org.Name)
	if key == "" {
		return nil, goerr.New("organization name is empty")
	}

	now := time.Now().UTC()

	iter := r.collection().Where("Name", "==", key).Limit(1).Documents(ctx)
	defer iter.Stop()

	snap, err := iter.Next()
	if err == nil {
		var existing organizationDoc
		if err := snap.DataTo(&existing); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal organization")
		}
		existing.DisplayName = org.DisplayName
		existing.UpdatedAt = now
		if _, err := snap.Ref.Set(ctx, &existing); err != nil {
			return nil, goerr.Wrap(err, "failed to update organization", goerr.V("id", existing.ID))
		}
		return fromOrganizationDoc(&existing), nil
	}
	if err != iterator.Done {
		return nil, goerr.Wrap(err, "failed to look up organization", goerr.V("name", key))
	}

	stored := organizationDoc{
		ID:          org.ID,
		Name:        key,
		DisplayName: org.DisplayName,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if stored.ID == "" {
		stored.ID = model.NewOrganizationID()
	}
	if _, err := r.collection().Doc(string(stored.ID)).Set(ctx, &stored); err != nil {
		return nil, goerr.Wrap(err, "failed to create organization", goerr.V("name", key))
	}

	if err := r.registry.Register(ctx, &model.RegistryEntry{
		ID:   string(stored.ID),
		Kind: types.KindOrganization,
	}); err != nil {
		return nil, err
	}

	return fromOrganizationDoc(&stored), nil
}

func (r *organizationRepository) Get(ctx context.Context, id types.OrganizationID) (*model.Organization, error) {
	snap, err := r.collection().Doc(string(id)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(repository.ErrNotFound, "organization not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get organization", goerr.V("id", id))
	}

	var d organizationDoc
	if err := snap.DataTo(&d); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal organization", goerr.V("id", id))
	}
	return fromOrganizationDoc(&d), nil
}

func (r *organizationRepository) List(ctx context.Context) ([]*model.Organization, error) {
	iter := r.collection().OrderBy("Name", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	orgs := make([]*model.Organization, 0)
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate organizations")
		}
		var d organizationDoc
		if err := snap.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal organization")
		}
		orgs = append(orgs, fromOrganizationDoc(&d))
	}
	return orgs, nil
}

// FindByName matches in memory after listing. Firestore has no substring
// query, and the carrier set is small.
func (r *organizationRepository) FindByName(ctx context.Context, query string) ([]*model.Organization, error) {
	orgs, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	matches := make([]*model.Organization, 0)
	for _, org := range orgs {
		if model.MatchesName(org.DisplayName, query) || model.MatchesName(org.Name, query) {
			matches = append(matches, org)
		}
	}
	return matches, nil
}

func (r *organizationRepository) Count(ctx context.Context) (int, error) {
	snaps, err := r.collection().Documents(ctx).GetAll()
	if err != nil {
		return 0, goerr.Wrap(err, "failed to count organizations")
	}
	return len(snaps), nil
}
