package memory

import (
	"context"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/jari1882/simkb/pkg/domain/model"
	"github.com/jari1882/simkb/pkg/domain/types"
)

type embeddingRepository struct {
	mu     sync.RWMutex
	chunks map[types.DocumentID][]*model.Embedding
}

func newEmbeddingRepository() *embeddingRepository {
	return &embeddingRepository{
		chunks: make(map[types.DocumentID][]*model.Embedding),
	}
}

func (r *embeddingRepository) ReplaceForDocument(ctx context.Context, docID types.DocumentID, chunks []*model.Embedding) error {
	now := time.Now().UTC()
	stored := make([]*model.Embedding, 0, len(chunks))
	for _, chunk := range chunks {
		if chunk.DocumentID != docID {
			return goerr.New("chunk belongs to another document",
				goerr.V("docID", docID), goerr.V("chunkDocID", chunk.DocumentID))
		}
		clone := chunk.Clone()
		clone.CreatedAt = now
		stored = append(stored, clone)
	}
	sort.Slice(stored, func(i, j int) bool { return stored[i].ChunkIndex < stored[j].ChunkIndex })

	r.mu.Lock()
	defer r.mu.Unlock()
	if len(stored) == 0 {
		delete(r.chunks, docID)
		return nil
	}
	r.chunks[docID] = stored
	return nil
}

func (r *embeddingRepository) ListByDocument(ctx context.Context, docID types.DocumentID) ([]*model.Embedding, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored := r.chunks[docID]
	chunks := make([]*model.Embedding, 0, len(stored))
	for _, chunk := range stored {
		chunks = append(chunks, chunk.Clone())
	}
	return chunks, nil
}

// NearestNeighbors scans every stored chunk. Fine for the corpus sizes
// this backend serves; the Firestore backend uses an index instead.
func (r *embeddingRepository) NearestNeighbors(ctx context.Context, vector []float32, k int) ([]*model.ChunkMatch, error) {
	if k <= 0 {
		return []*model.ChunkMatch{}, nil
	}

	r.mu.RLock()
	matches := make([]*model.ChunkMatch, 0)
	for _, stored := range r.chunks {
		for _, chunk := range stored {
			matches = append(matches, &model.ChunkMatch{
				Embedding:  chunk.Clone(),
				Similarity: cosineSimilarity(vector, chunk.Vector),
			})
		}
	}
	r.mu.RUnlock()

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Similarity != matches[j].Similarity {
			return matches[i].Similarity > matches[j].Similarity
		}
		if matches[i].Embedding.DocumentID != matches[j].Embedding.DocumentID {
			return matches[i].Embedding.DocumentID < matches[j].Embedding.DocumentID
		}
		return matches[i].Embedding.ChunkIndex < matches[j].Embedding.ChunkIndex
	})

	if len(matches) > k {
		matches = matches[:k]
	}
	return matches, nil
}

func (r *embeddingRepository) Count(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	total := 0
	for _, stored := range r.chunks {
		total += len(stored)
	}
	return total, nil
}

// cosineSimilarity accumulates in float64 to keep long vectors stable.
// Zero-norm input yields 0, not NaN.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	denom := math.Sqrt(normA) * math.Sqrt(normB)
	if denom == 0 {
		return 0
	}
	return dot / denom
}
