// Package memory is the in-memory Repository backend used for local
// serving and tests. All data is lost on close.
package memory

import (
	"github.com/jari1882/simkb/pkg/domain/interfaces"
)

type Memory struct {
	registry     *registryRepository
	organization *organizationRepository
	product      *productRepository
	role         *roleRepository
	document     *documentRepository
	offer        *offerRepository
	embedding    *embeddingRepository
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	registry := newRegistryRepository()
	org := newOrganizationRepository(registry)
	product := newProductRepository(registry)
	role := newRoleRepository(registry)
	doc := newDocumentRepository(registry, org, product)
	offer := newOfferRepository(registry)
	embedding := newEmbeddingRepository()

	return &Memory{
		registry:     registry,
		organization: org,
		product:      product,
		role:         role,
		document:     doc,
		offer:        offer,
		embedding:    embedding,
	}
}

func (m *Memory) Organization() interfaces.OrganizationRepository { return m.organization }
func (m *Memory) Product() interfaces.ProductRepository           { return m.product }
func (m *Memory) Role() interfaces.RoleRepository                 { return m.role }
func (m *Memory) Document() interfaces.DocumentRepository         { return m.document }
func (m *Memory) Offer() interfaces.OfferRepository               { return m.offer }
func (m *Memory) Embedding() interfaces.EmbeddingRepository       { return m.embedding }
func (m *Memory) Registry() interfaces.RegistryRepository         { return m.registry }

func (m *Memory) Close() error { return nil }
