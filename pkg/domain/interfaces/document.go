package interfaces

import (
	"context"

	"github.com/jari1882/simkb/pkg/domain/model"
	"github.com/jari1882/simkb/pkg/domain/types"
)

type DocumentRepository interface {
	// Upsert keys on Title. The stored content is replaced wholesale on
	// update; links are left untouched.
	Upsert(ctx context.Context, doc *model.Document) (*model.Document, error)
	Get(ctx context.Context, id types.DocumentID) (*model.Document, error)
	List(ctx context.Context) ([]*model.Document, error)
	FindByTitle(ctx context.Context, query string) ([]*model.Document, error)
	ListByType(ctx context.Context, docType types.DocumentType) ([]*model.Document, error)
	ListByOrganization(ctx context.Context, orgID types.OrganizationID) ([]*model.Document, error)

	// LinkOrganization is idempotent per (document, organization) pair.
	LinkOrganization(ctx context.Context, docID types.DocumentID, orgID types.OrganizationID, relation types.RelationType) error
	LinkProduct(ctx context.Context, docID types.DocumentID, productID types.ProductID) error
	LinkedOrganizations(ctx context.Context, docID types.DocumentID) ([]*model.Organization, error)
	LinkedProducts(ctx context.Context, docID types.DocumentID) ([]*model.Product, error)

	Count(ctx context.Context) (int, error)
}
