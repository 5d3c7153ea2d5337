// Package index builds the semantic index: it chunks document content,
// embeds each chunk, and replaces the stored chunk set per document.
package index

import (
	"context"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"golang.org/x/sync/errgroup"

	"github.com/jari1882/simkb/pkg/domain/interfaces"
	"github.com/jari1882/simkb/pkg/domain/model"
	"github.com/jari1882/simkb/pkg/utils/logging"
	"github.com/jari1882/simkb/pkg/utils/retry"
)

type Indexer struct {
	repo interfaces.Repository
	llm  gollem.LLMClient

	chunkSize    int
	chunkOverlap int
	maxAttempts  int
	baseDelay    time.Duration
	concurrency  int
}

type Option func(*Indexer)

func WithChunking(size, overlap int) Option {
	return func(x *Indexer) {
		x.chunkSize = size
		x.chunkOverlap = overlap
	}
}

func WithRetry(attempts int, baseDelay time.Duration) Option {
	return func(x *Indexer) {
		x.maxAttempts = attempts
		x.baseDelay = baseDelay
	}
}

func WithConcurrency(n int) Option {
	return func(x *Indexer) {
		x.concurrency = n
	}
}

func New(repo interfaces.Repository, llm gollem.LLMClient, opts ...Option) *Indexer {
	x := &Indexer{
		repo:         repo,
		llm:          llm,
		chunkSize:    DefaultChunkSize,
		chunkOverlap: DefaultChunkOverlap,
		maxAttempts:  3,
		baseDelay:    500 * time.Millisecond,
		concurrency:  4,
	}
	for _, opt := range opts {
		opt(x)
	}
	return x
}

// Summary reports what an IndexAll pass did.
type Summary struct {
	Documents     int
	Chunks        int
	SkippedChunks int
}

// IndexAll reindexes every document. Documents run concurrently up to
// the configured limit; a chunk whose embedding fails after retries is
// skipped, not fatal.
func (x *Indexer) IndexAll(ctx context.Context) (*Summary, error) {
	docs, err := x.repo.Document().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list documents for indexing")
	}

	var mu sync.Mutex
	summary := &Summary{}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(x.concurrency)
	for _, doc := range docs {
		g.Go(func() error {
			chunks, skipped, err := x.IndexDocument(gctx, doc)
			if err != nil {
				return err
			}
			mu.Lock()
			summary.Documents++
			summary.Chunks += chunks
			summary.SkippedChunks += skipped
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	logging.From(ctx).Info("index pass completed",
		"documents", summary.Documents,
		"chunks", summary.Chunks,
		"skipped_chunks", summary.SkippedChunks,
	)
	return summary, nil
}

// IndexDocument chunks one document's content, embeds every chunk, and
// replaces the stored chunk set. Returns stored and skipped chunk counts.
func (x *Indexer) IndexDocument(ctx context.Context, doc *model.Document) (int, int, error) {
	text := doc.Content()
	if text == "" {
		logging.From(ctx).Warn("document has no content, skipping", "docID", doc.ID, "title", doc.Title)
		return 0, 0, nil
	}

	pieces := Chunk(text, x.chunkSize, x.chunkOverlap)
	embeddings := make([]*model.Embedding, 0, len(pieces))
	skipped := 0

	for i, piece := range pieces {
		vector, err := x.embed(ctx, piece)
		if err != nil {
			logging.From(ctx).Warn("embedding failed, skipping chunk",
				"docID", doc.ID, "chunkIndex", i, "error", err.Error())
			skipped++
			continue
		}
		embeddings = append(embeddings, &model.Embedding{
			DocumentID: doc.ID,
			ChunkIndex: i,
			ChunkText:  piece,
			Vector:     vector,
		})
	}

	if err := x.repo.Embedding().ReplaceForDocument(ctx, doc.ID, embeddings); err != nil {
		return 0, 0, goerr.Wrap(err, "failed to store chunks", goerr.V("docID", doc.ID))
	}
	return len(embeddings), skipped, nil
}

func (x *Indexer) embed(ctx context.Context, text string) ([]float32, error) {
	var result [][]float64
	err := retry.Do(ctx, x.maxAttempts, x.baseDelay, func(ctx context.Context) error {
		vectors, err := x.llm.GenerateEmbedding(ctx, model.EmbeddingDimension, []string{text})
		if err != nil {
			return err
		}
		if len(vectors) != 1 {
			return goerr.New("unexpected embedding count", goerr.V("count", len(vectors)))
		}
		result = vectors
		return nil
	})
	if err != nil {
		return nil, err
	}

	vector := make([]float32, len(result[0]))
	for i, v := range result[0] {
		vector[i] = float32(v)
	}
	return vector, nil
}
