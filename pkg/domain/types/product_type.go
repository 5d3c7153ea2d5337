package types

// ProductType is the fixed product line enumeration. The loader refuses
// product fixtures outside this set.
type ProductType string

const (
	ProductLife       ProductType = "Life"
	ProductAnnuity    ProductType = "Annuity"
	ProductABLTC      ProductType = "ABLTC"
	ProductDisability ProductType = "Disability"
)

func AllProductTypes() []ProductType {
	return []ProductType{ProductLife, ProductAnnuity, ProductABLTC, ProductDisability}
}

func (t ProductType) IsValid() bool {
	switch t {
	case ProductLife, ProductAnnuity, ProductABLTC, ProductDisability:
		return true
	}
	return false
}

func (t ProductType) String() string {
	return string(t)
}
