package types

// EntityKind names a graph entity class in the identifier registry.
type EntityKind string

const (
	KindOrganization EntityKind = "organization"
	KindProduct      EntityKind = "product"
	KindRole         EntityKind = "role"
	KindPerson       EntityKind = "person"
	KindDocument     EntityKind = "document"
	KindOffer        EntityKind = "offer"
)

func AllEntityKinds() []EntityKind {
	return []EntityKind{
		KindOrganization,
		KindProduct,
		KindRole,
		KindPerson,
		KindDocument,
		KindOffer,
	}
}

func (k EntityKind) IsValid() bool {
	switch k {
	case KindOrganization, KindProduct, KindRole, KindPerson, KindDocument, KindOffer:
		return true
	}
	return false
}

func (k EntityKind) String() string {
	return string(k)
}
