package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/jari1882/simkb/pkg/domain/model"
	"github.com/jari1882/simkb/pkg/domain/types"
	"github.com/jari1882/simkb/pkg/repository"
)

type documentRepository struct {
	mu           sync.RWMutex
	docs         map[types.DocumentID]*model.Document
	orgLinks     map[types.DocumentID]map[types.OrganizationID]types.RelationType
	productLinks map[types.DocumentID]map[types.ProductID]struct{}

	registry *registryRepository
	orgs     *organizationRepository
	products *productRepository
}

func newDocumentRepository(registry *registryRepository, orgs *organizationRepository, products *productRepository) *documentRepository {
	return &documentRepository{
		docs:         make(map[types.DocumentID]*model.Document),
		orgLinks:     make(map[types.DocumentID]map[types.OrganizationID]types.RelationType),
		productLinks: make(map[types.DocumentID]map[types.ProductID]struct{}),
		registry:     registry,
		orgs:         orgs,
		products:     products,
	}
}

func (r *documentRepository) Upsert(ctx context.Context, doc *model.Document) (*model.Document, error) {
	if err := doc.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid document")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	key := model.NormalizeName(doc.Title)
	for _, existing := range r.docs {
		if model.NormalizeName(existing.Title) == key {
			updated := doc.Clone()
			updated.ID = existing.ID
			updated.CreatedAt = existing.CreatedAt
			updated.UpdatedAt = now
			r.docs[updated.ID] = updated
			return updated.Clone(), nil
		}
	}

	stored := doc.Clone()
	if stored.ID == "" {
		stored.ID = model.NewDocumentID()
	}
	stored.CreatedAt = now
	stored.UpdatedAt = now
	r.docs[stored.ID] = stored

	if err := r.registry.Register(ctx, &model.RegistryEntry{
		ID:   string(stored.ID),
		Kind: types.KindDocument,
	}); err != nil {
		return nil, err
	}

	return stored.Clone(), nil
}

func (r *documentRepository) Get(ctx context.Context, id types.DocumentID) (*model.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	doc, ok := r.docs[id]
	if !ok {
		return nil, goerr.Wrap(repository.ErrNotFound, "document not found", goerr.V("id", id))
	}
	return doc.Clone(), nil
}

func (r *documentRepository) List(ctx context.Context) ([]*model.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	docs := make([]*model.Document, 0, len(r.docs))
	for _, doc := range r.docs {
		docs = append(docs, doc.Clone())
	}
	sortDocuments(docs)
	return docs, nil
}

func (r *documentRepository) FindByTitle(ctx context.Context, query string) ([]*model.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matches := make([]*model.Document, 0)
	for _, doc := range r.docs {
		if model.MatchesName(doc.Title, query) {
			matches = append(matches, doc.Clone())
		}
	}
	sortDocuments(matches)
	return matches, nil
}

func (r *documentRepository) ListByType(ctx context.Context, docType types.DocumentType) ([]*model.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	docs := make([]*model.Document, 0)
	for _, doc := range r.docs {
		if doc.Type == docType {
			docs = append(docs, doc.Clone())
		}
	}
	sortDocuments(docs)
	return docs, nil
}

func (r *documentRepository) ListByOrganization(ctx context.Context, orgID types.OrganizationID) ([]*model.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	docs := make([]*model.Document, 0)
	for docID, links := range r.orgLinks {
		if _, ok := links[orgID]; !ok {
			continue
		}
		if doc, ok := r.docs[docID]; ok {
			docs = append(docs, doc.Clone())
		}
	}
	sortDocuments(docs)
	return docs, nil
}

func (r *documentRepository) LinkOrganization(ctx context.Context, docID types.DocumentID, orgID types.OrganizationID, relation types.RelationType) error {
	if !relation.IsValid() {
		return goerr.New("invalid relation type", goerr.V("relation", relation))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.docs[docID]; !ok {
		return goerr.Wrap(repository.ErrNotFound, "document not found", goerr.V("id", docID))
	}
	if r.orgLinks[docID] == nil {
		r.orgLinks[docID] = make(map[types.OrganizationID]types.RelationType)
	}
	r.orgLinks[docID][orgID] = relation
	return nil
}

func (r *documentRepository) LinkProduct(ctx context.Context, docID types.DocumentID, productID types.ProductID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.docs[docID]; !ok {
		return goerr.Wrap(repository.ErrNotFound, "document not found", goerr.V("id", docID))
	}
	if r.productLinks[docID] == nil {
		r.productLinks[docID] = make(map[types.ProductID]struct{})
	}
	r.productLinks[docID][productID] = struct{}{}
	return nil
}

func (r *documentRepository) LinkedOrganizations(ctx context.Context, docID types.DocumentID) ([]*model.Organization, error) {
	r.mu.RLock()
	links := r.orgLinks[docID]
	orgIDs := make([]types.OrganizationID, 0, len(links))
	for orgID := range links {
		orgIDs = append(orgIDs, orgID)
	}
	r.mu.RUnlock()

	orgs := make([]*model.Organization, 0, len(orgIDs))
	for _, orgID := range orgIDs {
		org, err := r.orgs.Get(ctx, orgID)
		if err != nil {
			return nil, goerr.Wrap(err, "linked organization missing", goerr.V("docID", docID))
		}
		orgs = append(orgs, org)
	}
	sort.Slice(orgs, func(i, j int) bool { return orgs[i].Name < orgs[j].Name })
	return orgs, nil
}

func (r *documentRepository) LinkedProducts(ctx context.Context, docID types.DocumentID) ([]*model.Product, error) {
	r.mu.RLock()
	links := r.productLinks[docID]
	productIDs := make([]types.ProductID, 0, len(links))
	for productID := range links {
		productIDs = append(productIDs, productID)
	}
	r.mu.RUnlock()

	products := make([]*model.Product, 0, len(productIDs))
	for _, productID := range productIDs {
		product, err := r.products.Get(ctx, productID)
		if err != nil {
			return nil, goerr.Wrap(err, "linked product missing", goerr.V("docID", docID))
		}
		products = append(products, product)
	}
	sort.Slice(products, func(i, j int) bool { return products[i].Name < products[j].Name })
	return products, nil
}

func (r *documentRepository) Count(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.docs), nil
}

func sortDocuments(docs []*model.Document) {
	sort.Slice(docs, func(i, j int) bool { return docs[i].Title < docs[j].Title })
}
