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

type roleDoc struct {
	ID          types.RoleID `firestore:"ID"`
	Name        string       `firestore:"Name"`
	ShortName   string       `firestore:"ShortName"`
	Goal        string       `firestore:"Goal"`
	Backstory   string       `firestore:"Backstory"`
	Temperature float64      `firestore:"Temperature"`
	CreatedAt   time.Time    `firestore:"CreatedAt"`
	UpdatedAt   time.Time    `firestore:"UpdatedAt"`
}

func fromRoleDoc(d *roleDoc) *model.Role {
	return &model.Role{
		ID:          d.ID,
		Name:        d.Name,
		ShortName:   d.ShortName,
		Goal:        d.Goal,
		Backstory:   d.Backstory,
		Temperature: d.Temperature,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

type roleRepository struct {
	client   *firestore.Client
	registry *registryRepository
	prefix   string
}

func newRoleRepository(client *firestore.Client, registry *registryRepository) *roleRepository {
	return &roleRepository{client: client, registry: registry}
}

func (r *roleRepository) collection() *firestore.CollectionRef {
	return collection(r.client, r.prefix, "roles")
}

func (r *roleRepository) Upsert(ctx context.Context, role *model.Role) (*model.Role, error) {
	if model.NormalizeName(role.ShortName) == "" {
		return nil, goerr.New("role short name is empty")
	}

	now := time.Now().UTC()

	iter := r.collection().Where("ShortName", "==", role.ShortName).Limit(1).Documents(ctx)
	defer iter.Stop()

	snap, err := iter.Next()
	if err == nil {
		var existing roleDoc
		if err := snap.DataTo(&existing); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal role")
		}
		existing.Name = role.Name
		existing.Goal = role.Goal
		existing.Backstory = role.Backstory
		existing.Temperature = role.Temperature
		existing.UpdatedAt = now
		if _, err := snap.Ref.Set(ctx, &existing); err != nil {
			return nil, goerr.Wrap(err, "failed to update role", goerr.V("id", existing.ID))
		}
		return fromRoleDoc(&existing), nil
	}
	if err != iterator.Done {
		return nil, goerr.Wrap(err, "failed to look up role", goerr.V("shortName", role.ShortName))
	}

	stored := roleDoc{
		ID:          role.ID,
		Name:        role.Name,
		ShortName:   role.ShortName,
		Goal:        role.Goal,
		Backstory:   role.Backstory,
		Temperature: role.Temperature,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if stored.ID == "" {
		stored.ID = model.NewRoleID()
	}
	if _, err := r.collection().Doc(string(stored.ID)).Set(ctx, &stored); err != nil {
		return nil, goerr.Wrap(err, "failed to create role", goerr.V("shortName", role.ShortName))
	}

	if err := r.registry.Register(ctx, &model.RegistryEntry{
		ID:   string(stored.ID),
		Kind: types.KindRole,
	}); err != nil {
		return nil, err
	}

	return fromRoleDoc(&stored), nil
}

func (r *roleRepository) Get(ctx context.Context, id types.RoleID) (*model.Role, error) {
	snap, err := r.collection().Doc(string(id)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(repository.ErrNotFound, "role not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get role", goerr.V("id", id))
	}

	var d roleDoc
	if err := snap.DataTo(&d); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal role", goerr.V("id", id))
	}
	return fromRoleDoc(&d), nil
}

func (r *roleRepository) List(ctx context.Context) ([]*model.Role, error) {
	iter := r.collection().OrderBy("ShortName", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	roles := make([]*model.Role, 0)
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate roles")
		}
		var d roleDoc
		if err := snap.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal role")
		}
		roles = append(roles, fromRoleDoc(&d))
	}
	return roles, nil
}

func (r *roleRepository) FindByName(ctx context.Context, query string) ([]*model.Role, error) {
	roles, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	matches := make([]*model.Role, 0)
	for _, role := range roles {
		if model.MatchesName(role.Name, query) || model.MatchesName(role.ShortName, query) {
			matches = append(matches, role)
		}
	}
	return matches, nil
}

func (r *roleRepository) Count(ctx context.Context) (int, error) {
	snaps, err := r.collection().Documents(ctx).GetAll()
	if err != nil {
		return 0, goerr.Wrap(err, "failed to count roles")
	}
	return len(snaps), nil
}
