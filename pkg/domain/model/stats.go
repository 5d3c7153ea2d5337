package model

// Stats summarizes what the knowledge base currently holds.
type Stats struct {
	Organizations int `json:"organizations"`
	Products      int `json:"products"`
	Roles         int `json:"roles"`
	Documents     int `json:"documents"`
	Offers        int `json:"offers"`
	Embeddings    int `json:"embeddings"`
}
