package model

import (
	"time"

	"github.com/jari1882/simkb/pkg/domain/types"
)

// EmbeddingDimension is the vector size produced by the embedding model
// (text-embedding-3-small and compatible providers).
const EmbeddingDimension = 1536

// Embedding is one indexed chunk of a document. ChunkIndex orders chunks
// within their document; ChunkText is kept verbatim so search results can
// quote the matching passage.
type Embedding struct {
	DocumentID types.DocumentID
	ChunkIndex int
	ChunkText  string
	Vector     []float32
	CreatedAt  time.Time
}

// ChunkMatch is a nearest-neighbor hit with its cosine similarity.
type ChunkMatch struct {
	Embedding  *Embedding
	Similarity float64
}

func (e *Embedding) Clone() *Embedding {
	if e == nil {
		return nil
	}
	clone := *e
	clone.Vector = append([]float32(nil), e.Vector...)
	return &clone
}
