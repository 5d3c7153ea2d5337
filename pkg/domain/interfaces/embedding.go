package interfaces

import (
	"context"

	"github.com/jari1882/simkb/pkg/domain/model"
	"github.com/jari1882/simkb/pkg/domain/types"
)

type EmbeddingRepository interface {
	// ReplaceForDocument drops every stored chunk of the document before
	// writing the new set, so reindexing never leaves stale chunks.
	ReplaceForDocument(ctx context.Context, docID types.DocumentID, chunks []*model.Embedding) error
	// ListByDocument returns chunks in ascending chunk order.
	ListByDocument(ctx context.Context, docID types.DocumentID) ([]*model.Embedding, error)
	// NearestNeighbors returns up to k chunks ordered by descending
	// cosine similarity to the query vector.
	NearestNeighbors(ctx context.Context, vector []float32, k int) ([]*model.ChunkMatch, error)
	Count(ctx context.Context) (int, error)
}
