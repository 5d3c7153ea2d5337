package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/jari1882/simkb/pkg/domain/model"
	"github.com/jari1882/simkb/pkg/domain/types"
	"github.com/jari1882/simkb/pkg/repository"
)

type registryDoc struct {
	ID        string    `firestore:"ID"`
	Kind      string    `firestore:"Kind"`
	CreatedAt time.Time `firestore:"CreatedAt"`
}

type registryRepository struct {
	client *firestore.Client
	prefix string
}

func newRegistryRepository(client *firestore.Client) *registryRepository {
	return &registryRepository{client: client}
}

func (r *registryRepository) collection() *firestore.CollectionRef {
	return collection(r.client, r.prefix, "registry")
}

func (r *registryRepository) Register(ctx context.Context, entry *model.RegistryEntry) error {
	if entry.ID == "" {
		return goerr.New("registry entry without ID")
	}
	if !entry.Kind.IsValid() {
		return goerr.New("registry entry with invalid kind", goerr.V("kind", entry.Kind))
	}

	createdAt := entry.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := r.collection().Doc(entry.ID).Create(ctx, &registryDoc{
		ID:        entry.ID,
		Kind:      entry.Kind.String(),
		CreatedAt: createdAt,
	})
	if err != nil {
		// Existing registration wins; registering twice is a no-op.
		if status.Code(err) == codes.AlreadyExists {
			return nil
		}
		return goerr.Wrap(err, "failed to register id", goerr.V("id", entry.ID))
	}
	return nil
}

func (r *registryRepository) Resolve(ctx context.Context, id string) (*model.RegistryEntry, error) {
	snap, err := r.collection().Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(repository.ErrNotFound, "id not registered", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to resolve id", goerr.V("id", id))
	}

	var d registryDoc
	if err := snap.DataTo(&d); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal registry entry", goerr.V("id", id))
	}

	return &model.RegistryEntry{
		ID:        d.ID,
		Kind:      types.EntityKind(d.Kind),
		CreatedAt: d.CreatedAt,
	}, nil
}
