// Package search embeds a query and ranks stored chunks by cosine
// similarity, attaching the parent document's context to each hit.
package search

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"

	"github.com/jari1882/simkb/pkg/domain/interfaces"
	"github.com/jari1882/simkb/pkg/domain/model"
	"github.com/jari1882/simkb/pkg/domain/types"
	"github.com/jari1882/simkb/pkg/utils/retry"
)

const (
	DefaultLimit           = 5
	DefaultSimilarityFloor = 0.5
)

// Retriever is the nearest-neighbor lookup the engine ranks over. Both
// repository backends satisfy it; tests swap in fakes.
type Retriever interface {
	NearestNeighbors(ctx context.Context, vector []float32, k int) ([]*model.ChunkMatch, error)
}

// Result is one search hit with its parent document's context attached.
type Result struct {
	DocumentID    types.DocumentID   `json:"document_id"`
	Title         string             `json:"title"`
	Type          types.DocumentType `json:"type"`
	ChunkIndex    int                `json:"chunk_index"`
	Chunk         string             `json:"chunk"`
	Similarity    float64            `json:"similarity"`
	Organizations []string           `json:"organizations,omitempty"`
	Products      []string           `json:"products,omitempty"`
}

type Engine struct {
	llm       gollem.LLMClient
	docs      interfaces.DocumentRepository
	retriever Retriever

	floor       float64
	maxAttempts int
	baseDelay   time.Duration
}

type Option func(*Engine)

func WithSimilarityFloor(floor float64) Option {
	return func(e *Engine) { e.floor = floor }
}

func WithRetriever(r Retriever) Option {
	return func(e *Engine) { e.retriever = r }
}

func WithRetry(attempts int, baseDelay time.Duration) Option {
	return func(e *Engine) {
		e.maxAttempts = attempts
		e.baseDelay = baseDelay
	}
}

func New(llm gollem.LLMClient, repo interfaces.Repository, opts ...Option) *Engine {
	e := &Engine{
		llm:         llm,
		docs:        repo.Document(),
		retriever:   repo.Embedding(),
		floor:       DefaultSimilarityFloor,
		maxAttempts: 3,
		baseDelay:   500 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Search returns up to limit results above the similarity floor, in
// descending similarity order. Fewer results than limit is normal.
func (e *Engine) Search(ctx context.Context, query string, limit int) ([]*Result, error) {
	if query == "" {
		return nil, goerr.New("search query is empty")
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	vector, err := e.embed(ctx, query)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to embed query")
	}

	matches, err := e.retriever.NearestNeighbors(ctx, vector, limit)
	if err != nil {
		return nil, goerr.Wrap(err, "nearest neighbor lookup failed")
	}

	// Cache parent lookups: several chunks often share a document.
	docCache := make(map[types.DocumentID]*model.Document)
	orgCache := make(map[types.DocumentID][]string)
	productCache := make(map[types.DocumentID][]string)

	results := make([]*Result, 0, len(matches))
	for _, match := range matches {
		if match.Similarity < e.floor {
			continue
		}

		docID := match.Embedding.DocumentID
		doc, ok := docCache[docID]
		if !ok {
			doc, err = e.docs.Get(ctx, docID)
			if err != nil {
				return nil, goerr.Wrap(err, "chunk references missing document", goerr.V("docID", docID))
			}
			docCache[docID] = doc

			orgs, err := e.docs.LinkedOrganizations(ctx, docID)
			if err != nil {
				return nil, err
			}
			for _, org := range orgs {
				orgCache[docID] = append(orgCache[docID], org.DisplayName)
			}

			products, err := e.docs.LinkedProducts(ctx, docID)
			if err != nil {
				return nil, err
			}
			for _, product := range products {
				productCache[docID] = append(productCache[docID], product.Name)
			}
		}

		results = append(results, &Result{
			DocumentID:    docID,
			Title:         doc.Title,
			Type:          doc.Type,
			ChunkIndex:    match.Embedding.ChunkIndex,
			Chunk:         match.Embedding.ChunkText,
			Similarity:    match.Similarity,
			Organizations: orgCache[docID],
			Products:      productCache[docID],
		})
	}
	return results, nil
}

func (e *Engine) embed(ctx context.Context, query string) ([]float32, error) {
	var embedded [][]float64
	err := retry.Do(ctx, e.maxAttempts, e.baseDelay, func(ctx context.Context) error {
		vectors, err := e.llm.GenerateEmbedding(ctx, model.EmbeddingDimension, []string{query})
		if err != nil {
			return err
		}
		if len(vectors) != 1 {
			return goerr.New("unexpected embedding count", goerr.V("count", len(vectors)))
		}
		embedded = vectors
		return nil
	})
	if err != nil {
		return nil, err
	}

	vector := make([]float32, len(embedded[0]))
	for i, v := range embedded[0] {
		vector[i] = float32(v)
	}
	return vector, nil
}
