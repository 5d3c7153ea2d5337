package interfaces

// Repository is the Graph Store boundary. Implementations provide
// per-entity sub-repositories sharing one backing store.
type Repository interface {
	Organization() OrganizationRepository
	Product() ProductRepository
	Role() RoleRepository
	Document() DocumentRepository
	Offer() OfferRepository
	Embedding() EmbeddingRepository
	Registry() RegistryRepository
	Close() error
}
