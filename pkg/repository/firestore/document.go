package firestore

import (
	"context"
	"fmt"
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

// documentDoc stores the content variants as nested maps; only the active
// variant is present.
type documentDoc struct {
	ID        types.DocumentID                `firestore:"ID"`
	Title     string                          `firestore:"Title"`
	TitleKey  string                          `firestore:"TitleKey"`
	Type      string                          `firestore:"Type"`
	FilePath  string                          `firestore:"FilePath"`
	Year      int                             `firestore:"Year"`
	Scorecard *model.ScorecardContent         `firestore:"Scorecard,omitempty"`
	Question  *model.QuestionScorecardContent `firestore:"Question,omitempty"`
	Research  *model.ResearchContent          `firestore:"Research,omitempty"`
	Prod      *model.ProductionContent        `firestore:"Production,omitempty"`
	CreatedAt time.Time                       `firestore:"CreatedAt"`
	UpdatedAt time.Time                       `firestore:"UpdatedAt"`
}

type documentLinkDoc struct {
	DocumentID     types.DocumentID     `firestore:"DocumentID"`
	OrganizationID types.OrganizationID `firestore:"OrganizationID"`
	Relation       string               `firestore:"Relation"`
}

type productLinkDoc struct {
	DocumentID types.DocumentID `firestore:"DocumentID"`
	ProductID  types.ProductID  `firestore:"ProductID"`
}

func toDocumentDoc(doc *model.Document) *documentDoc {
	return &documentDoc{
		ID:        doc.ID,
		Title:     doc.Title,
		TitleKey:  model.NormalizeName(doc.Title),
		Type:      doc.Type.String(),
		FilePath:  doc.FilePath,
		Year:      doc.Year,
		Scorecard: doc.Scorecard,
		Question:  doc.QuestionScorecard,
		Research:  doc.Research,
		Prod:      doc.Production,
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}
}

func fromDocumentDoc(d *documentDoc) *model.Document {
	return &model.Document{
		ID:                d.ID,
		Title:             d.Title,
		Type:              types.DocumentType(d.Type),
		FilePath:          d.FilePath,
		Year:              d.Year,
		Scorecard:         d.Scorecard,
		QuestionScorecard: d.Question,
		Research:          d.Research,
		Production:        d.Prod,
		CreatedAt:         d.CreatedAt,
		UpdatedAt:         d.UpdatedAt,
	}
}

func snapToDocument(snap *firestore.DocumentSnapshot) (*model.Document, error) {
	var d documentDoc
	if err := snap.DataTo(&d); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal document")
	}
	return fromDocumentDoc(&d), nil
}

type documentRepository struct {
	client   *firestore.Client
	registry *registryRepository
	orgs     *organizationRepository
	products *productRepository
	prefix   string
}

func newDocumentRepository(client *firestore.Client, registry *registryRepository, orgs *organizationRepository, products *productRepository) *documentRepository {
	return &documentRepository{client: client, registry: registry, orgs: orgs, products: products}
}

func (r *documentRepository) collection() *firestore.CollectionRef {
	return collection(r.client, r.prefix, "documents")
}

func (r *documentRepository) orgLinks() *firestore.CollectionRef {
	return collection(r.client, r.prefix, "document_org_links")
}

func (r *documentRepository) productLinks() *firestore.CollectionRef {
	return collection(r.client, r.prefix, "document_product_links")
}

func (r *documentRepository) Upsert(ctx context.Context, doc *model.Document) (*model.Document, error) {
	if err := doc.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid document")
	}

	now := time.Now().UTC()
	key := model.NormalizeName(doc.Title)

	iter := r.collection().Where("TitleKey", "==", key).Limit(1).Documents(ctx)
	defer iter.Stop()

	snap, err := iter.Next()
	if err == nil {
		var existing documentDoc
		if err := snap.DataTo(&existing); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal document")
		}
		updated := toDocumentDoc(doc)
		updated.ID = existing.ID
		updated.CreatedAt = existing.CreatedAt
		updated.UpdatedAt = now
		if _, err := snap.Ref.Set(ctx, updated); err != nil {
			return nil, goerr.Wrap(err, "failed to update document", goerr.V("id", existing.ID))
		}
		return fromDocumentDoc(updated), nil
	}
	if err != iterator.Done {
		return nil, goerr.Wrap(err, "failed to look up document", goerr.V("title", doc.Title))
	}

	stored := toDocumentDoc(doc)
	if stored.ID == "" {
		stored.ID = model.NewDocumentID()
	}
	stored.CreatedAt = now
	stored.UpdatedAt = now
	if _, err := r.collection().Doc(string(stored.ID)).Set(ctx, stored); err != nil {
		return nil, goerr.Wrap(err, "failed to create document", goerr.V("title", doc.Title))
	}

	if err := r.registry.Register(ctx, &model.RegistryEntry{
		ID:   string(stored.ID),
		Kind: types.KindDocument,
	}); err != nil {
		return nil, err
	}

	return fromDocumentDoc(stored), nil
}

func (r *documentRepository) Get(ctx context.Context, id types.DocumentID) (*model.Document, error) {
	snap, err := r.collection().Doc(string(id)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(repository.ErrNotFound, "document not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get document", goerr.V("id", id))
	}
	return snapToDocument(snap)
}

func (r *documentRepository) List(ctx context.Context) ([]*model.Document, error) {
	return r.queryDocuments(ctx, r.collection().OrderBy("TitleKey", firestore.Asc).Documents(ctx))
}

func (r *documentRepository) FindByTitle(ctx context.Context, query string) ([]*model.Document, error) {
	docs, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	matches := make([]*model.Document, 0)
	for _, doc := range docs {
		if model.MatchesName(doc.Title, query) {
			matches = append(matches, doc)
		}
	}
	return matches, nil
}

func (r *documentRepository) ListByType(ctx context.Context, docType types.DocumentType) ([]*model.Document, error) {
	iter := r.collection().Where("Type", "==", docType.String()).Documents(ctx)
	return r.queryDocuments(ctx, iter)
}

func (r *documentRepository) ListByOrganization(ctx context.Context, orgID types.OrganizationID) ([]*model.Document, error) {
	iter := r.orgLinks().Where("OrganizationID", "==", string(orgID)).Documents(ctx)
	defer iter.Stop()

	docs := make([]*model.Document, 0)
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate document links", goerr.V("orgID", orgID))
		}
		var link documentLinkDoc
		if err := snap.DataTo(&link); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal document link")
		}
		doc, err := r.Get(ctx, link.DocumentID)
		if err != nil {
			return nil, goerr.Wrap(err, "linked document missing", goerr.V("docID", link.DocumentID))
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func (r *documentRepository) LinkOrganization(ctx context.Context, docID types.DocumentID, orgID types.OrganizationID, relation types.RelationType) error {
	if !relation.IsValid() {
		return goerr.New("invalid relation type", goerr.V("relation", relation))
	}
	if _, err := r.Get(ctx, docID); err != nil {
		return err
	}

	linkID := fmt.Sprintf("%s__%s", docID, orgID)
	_, err := r.orgLinks().Doc(linkID).Set(ctx, &documentLinkDoc{
		DocumentID:     docID,
		OrganizationID: orgID,
		Relation:       relation.String(),
	})
	if err != nil {
		return goerr.Wrap(err, "failed to link organization",
			goerr.V("docID", docID), goerr.V("orgID", orgID))
	}
	return nil
}

func (r *documentRepository) LinkProduct(ctx context.Context, docID types.DocumentID, productID types.ProductID) error {
	if _, err := r.Get(ctx, docID); err != nil {
		return err
	}

	linkID := fmt.Sprintf("%s__%s", docID, productID)
	_, err := r.productLinks().Doc(linkID).Set(ctx, &productLinkDoc{
		DocumentID: docID,
		ProductID:  productID,
	})
	if err != nil {
		return goerr.Wrap(err, "failed to link product",
			goerr.V("docID", docID), goerr.V("productID", productID))
	}
	return nil
}

func (r *documentRepository) LinkedOrganizations(ctx context.Context, docID types.DocumentID) ([]*model.Organization, error) {
	iter := r.orgLinks().Where("DocumentID", "==", string(docID)).Documents(ctx)
	defer iter.Stop()

	orgs := make([]*model.Organization, 0)
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate organization links", goerr.V("docID", docID))
		}
		var link documentLinkDoc
		if err := snap.DataTo(&link); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal document link")
		}
		org, err := r.orgs.Get(ctx, link.OrganizationID)
		if err != nil {
			return nil, goerr.Wrap(err, "linked organization missing", goerr.V("docID", docID))
		}
		orgs = append(orgs, org)
	}
	return orgs, nil
}

func (r *documentRepository) LinkedProducts(ctx context.Context, docID types.DocumentID) ([]*model.Product, error) {
	iter := r.productLinks().Where("DocumentID", "==", string(docID)).Documents(ctx)
	defer iter.Stop()

	products := make([]*model.Product, 0)
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate product links", goerr.V("docID", docID))
		}
		var link productLinkDoc
		if err := snap.DataTo(&link); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal product link")
		}
		product, err := r.products.Get(ctx, link.ProductID)
		if err != nil {
			return nil, goerr.Wrap(err, "linked product missing", goerr.V("docID", docID))
		}
		products = append(products, product)
	}
	return products, nil
}

func (r *documentRepository) Count(ctx context.Context) (int, error) {
	snaps, err := r.collection().Documents(ctx).GetAll()
	if err != nil {
		return 0, goerr.Wrap(err, "failed to count documents")
	}
	return len(snaps), nil
}

func (r *documentRepository) queryDocuments(ctx context.Context, iter *firestore.DocumentIterator) ([]*model.Document, error) {
	defer iter.Stop()

	docs := make([]*model.Document, 0)
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate documents")
		}
		doc, err := snapToDocument(snap)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}
