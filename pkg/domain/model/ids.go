package model

import (
	"github.com/google/uuid"

	"github.com/jari1882/simkb/pkg/domain/types"
)

// IDs carry a kind prefix so a bare identifier is self-describing in logs
// and in the registry.
func NewOrganizationID() types.OrganizationID {
	return types.OrganizationID("org_" + uuid.New().String())
}

func NewProductID() types.ProductID {
	return types.ProductID("prd_" + uuid.New().String())
}

func NewRoleID() types.RoleID {
	return types.RoleID("role_" + uuid.New().String())
}

func NewPersonID() types.PersonID {
	return types.PersonID("psn_" + uuid.New().String())
}

func NewDocumentID() types.DocumentID {
	return types.DocumentID("doc_" + uuid.New().String())
}

func NewOfferID() types.OfferID {
	return types.OfferID("off_" + uuid.New().String())
}
