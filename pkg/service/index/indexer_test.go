package index_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/m-mizutani/gollem"
	"github.com/m-mizutani/gt"

	"github.com/jari1882/simkb/pkg/domain/model"
	"github.com/jari1882/simkb/pkg/domain/types"
	"github.com/jari1882/simkb/pkg/repository/memory"
	"github.com/jari1882/simkb/pkg/service/index"
)

type mockLLMClient struct {
	generateEmbeddingFn func(ctx context.Context, dimension int, input []string) ([][]float64, error)
}

func (m *mockLLMClient) NewSession(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error) {
	return nil, nil
}

func (m *mockLLMClient) GenerateEmbedding(ctx context.Context, dimension int, input []string) ([][]float64, error) {
	if m.generateEmbeddingFn != nil {
		return m.generateEmbeddingFn(ctx, dimension, input)
	}
	vectors := make([][]float64, len(input))
	for i := range input {
		vec := make([]float64, dimension)
		vec[0] = 1
		vectors[i] = vec
	}
	return vectors, nil
}

func newResearchDoc(title, body string) *model.Document {
	doc := model.NewDocument(title, types.DocTypeResearch)
	doc.Research = &model.ResearchContent{
		Carrier: "Carrier A",
		Topic:   "market position",
		Body:    body,
	}
	return doc
}

func TestIndexDocument(t *testing.T) {
	ctx := context.Background()

	t.Run("stores one embedding per chunk", func(t *testing.T) {
		repo := memory.New()
		doc := gt.R1(repo.Document().Upsert(ctx, newResearchDoc("Carrier A - DR1: Market Position", strings.Repeat("Growth held steady. ", 200)))).NoError(t)

		var gotDimension int
		llm := &mockLLMClient{
			generateEmbeddingFn: func(ctx context.Context, dimension int, input []string) ([][]float64, error) {
				gotDimension = dimension
				return [][]float64{make([]float64, dimension)}, nil
			},
		}

		indexer := index.New(repo, llm, index.WithChunking(500, 50))
		stored, skipped, err := indexer.IndexDocument(ctx, doc)
		gt.NoError(t, err)
		gt.Value(t, skipped).Equal(0)
		gt.Value(t, stored > 1).Equal(true)
		gt.Value(t, gotDimension).Equal(model.EmbeddingDimension)

		chunks := gt.R1(repo.Embedding().ListByDocument(ctx, doc.ID)).NoError(t)
		gt.Array(t, chunks).Length(stored)
		for i, chunk := range chunks {
			gt.Value(t, chunk.ChunkIndex).Equal(i)
			gt.Value(t, chunk.DocumentID).Equal(doc.ID)
		}
	})

	t.Run("reindexing replaces the stored chunk set", func(t *testing.T) {
		repo := memory.New()
		doc := gt.R1(repo.Document().Upsert(ctx, newResearchDoc("Carrier A - DR1: Market Position", strings.Repeat("long body ", 300)))).NoError(t)

		indexer := index.New(repo, &mockLLMClient{}, index.WithChunking(500, 50))
		_, _, err := indexer.IndexDocument(ctx, doc)
		gt.NoError(t, err)
		before := gt.R1(repo.Embedding().Count(ctx)).NoError(t)

		doc.Research.Body = "short body"
		doc = gt.R1(repo.Document().Upsert(ctx, doc)).NoError(t)
		_, _, err = indexer.IndexDocument(ctx, doc)
		gt.NoError(t, err)

		after := gt.R1(repo.Embedding().Count(ctx)).NoError(t)
		gt.Value(t, before > 1).Equal(true)
		gt.Value(t, after).Equal(1)
	})

	t.Run("a chunk whose embedding fails is skipped, not fatal", func(t *testing.T) {
		repo := memory.New()
		doc := gt.R1(repo.Document().Upsert(ctx, newResearchDoc("Carrier A - DR1: Market Position", strings.Repeat("text ", 300)))).NoError(t)

		calls := 0
		llm := &mockLLMClient{
			generateEmbeddingFn: func(ctx context.Context, dimension int, input []string) ([][]float64, error) {
				calls++
				if calls == 1 {
					return nil, errors.New("provider unavailable")
				}
				return [][]float64{make([]float64, dimension)}, nil
			},
		}

		indexer := index.New(repo, llm,
			index.WithChunking(500, 50),
			index.WithRetry(1, time.Millisecond),
		)
		stored, skipped, err := indexer.IndexDocument(ctx, doc)
		gt.NoError(t, err)
		gt.Value(t, skipped).Equal(1)
		gt.Value(t, stored >= 1).Equal(true)
	})

	t.Run("document without content stores nothing", func(t *testing.T) {
		repo := memory.New()
		doc := model.NewDocument("Empty", types.DocTypeResearch)

		indexer := index.New(repo, &mockLLMClient{})
		stored, skipped, err := indexer.IndexDocument(ctx, doc)
		gt.NoError(t, err)
		gt.Value(t, stored).Equal(0)
		gt.Value(t, skipped).Equal(0)
	})
}

func TestIndexAll(t *testing.T) {
	ctx := context.Background()

	repo := memory.New()
	gt.R1(repo.Document().Upsert(ctx, newResearchDoc("Carrier A - DR1: Market Position", "body one"))).NoError(t)
	gt.R1(repo.Document().Upsert(ctx, newResearchDoc("Carrier B - DR1: Distribution", "body two"))).NoError(t)

	indexer := index.New(repo, &mockLLMClient{}, index.WithConcurrency(2))
	summary := gt.R1(indexer.IndexAll(ctx)).NoError(t)

	gt.Value(t, summary.Documents).Equal(2)
	gt.Value(t, summary.Chunks).Equal(2)
	gt.Value(t, summary.SkippedChunks).Equal(0)

	count := gt.R1(repo.Embedding().Count(ctx)).NoError(t)
	gt.Value(t, count).Equal(2)
}
