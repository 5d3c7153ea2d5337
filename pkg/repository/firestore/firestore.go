// Package firestore is the persistent Repository backend. One top-level
// collection per entity; an optional prefix isolates deployments sharing
// a database.
package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"

	"github.com/jari1882/simkb/pkg/domain/interfaces"
)

type Firestore struct {
	client       *firestore.Client
	registry     *registryRepository
	organization *organizationRepository
	product      *productRepository
	role         *roleRepository
	document     *documentRepository
	offer        *offerRepository
	embedding    *embeddingRepository
}

var _ interfaces.Repository = &Firestore{}

type Option func(*Firestore)

func WithCollectionPrefix(prefix string) Option {
	return func(f *Firestore) {
		f.registry.prefix = prefix
		f.organization.prefix = prefix
		f.product.prefix = prefix
		f.role.prefix = prefix
		f.document.prefix = prefix
		f.offer.prefix = prefix
		f.embedding.prefix = prefix
	}
}

func New(ctx context.Context, projectID string, opts ...Option) (*Firestore, error) {
	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client", goerr.V("projectID", projectID))
	}

	registry := newRegistryRepository(client)
	f := &Firestore{
		client:       client,
		registry:     registry,
		organization: newOrganizationRepository(client, registry),
		product:      newProductRepository(client, registry),
		role:         newRoleRepository(client, registry),
		offer:        newOfferRepository(client, registry),
		embedding:    newEmbeddingRepository(client),
	}
	f.document = newDocumentRepository(client, registry, f.organization, f.product)

	for _, opt := range opts {
		opt(f)
	}

	return f, nil
}

func (f *Firestore) Organization() interfaces.OrganizationRepository { return f.organization }
func (f *Firestore) Product() interfaces.ProductRepository           { return f.product }
func (f *Firestore) Role() interfaces.RoleRepository                 { return f.role }
func (f *Firestore) Document() interfaces.DocumentRepository         { return f.document }
func (f *Firestore) Offer() interfaces.OfferRepository               { return f.offer }
func (f *Firestore) Embedding() interfaces.EmbeddingRepository       { return f.embedding }
func (f *Firestore) Registry() interfaces.RegistryRepository         { return f.registry }

func (f *Firestore) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}

func collection(client *firestore.Client, prefix, name string) *firestore.CollectionRef {
	if prefix != "" {
		name = prefix + "_" + name
	}
	return client.Collection(name)
}
