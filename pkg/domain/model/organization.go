package model

import (
	"time"

	"github.com/jari1882/simkb/pkg/domain/types"
)

// Organization is an insurance carrier. Name is the normalized natural
// key used for idempotent loads; DisplayName keeps the source spelling.
type Organization struct {
	ID          types.OrganizationID
	Name        string
	DisplayName string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func NewOrganization(displayName string) *Organization {
	return &Organization{
		ID:          NewOrganizationID(),
		Name:        NormalizeName(displayName),
		DisplayName: displayName,
	}
}
