package model

import (
	"time"

	"github.com/jari1882/simkb/pkg/domain/types"
)

// Product is one of the fixed product lines.
type Product struct {
	ID          types.ProductID
	Name        string
	Type        types.ProductType
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func NewProduct(productType types.ProductType, description string) *Product {
	return &Product{
		ID:          NewProductID(),
		Name:        productType.String(),
		Type:        productType,
		Description: description,
	}
}
