package model

import (
	"time"

	"github.com/jari1882/simkb/pkg/domain/types"
)

// OfferType labels what an offer row measures.
type OfferType string

const (
	OfferAggregateScore OfferType = "aggregate_score"
	OfferAggregateRank  OfferType = "aggregate_rank"
)

// Offer is a derived metric row linking a carrier to a product for a
// year. The loader produces these from scorecard aggregates so metric
// queries do not have to parse document content.
type Offer struct {
	ID             types.OfferID
	OrganizationID types.OrganizationID
	ProductID      types.ProductID
	Type           OfferType
	Value          float64
	Year           int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
