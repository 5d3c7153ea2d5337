package search_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gollem"
	"github.com/m-mizutani/gt"

	"github.com/jari1882/simkb/pkg/domain/model"
	"github.com/jari1882/simkb/pkg/domain/types"
	"github.com/jari1882/simkb/pkg/repository/memory"
	"github.com/jari1882/simkb/pkg/service/search"
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
	vec := make([]float64, dimension)
	vec[0] = 1
	return [][]float64{vec}, nil
}

// queryVector makes the mock return a fixed short vector so similarity
// against hand-written chunk vectors is predictable.
func queryVector(v []float64) *mockLLMClient {
	return &mockLLMClient{
		generateEmbeddingFn: func(ctx context.Context, dimension int, input []string) ([][]float64, error) {
			return [][]float64{v}, nil
		},
	}
}

func TestSearch(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*memory.Memory, types.DocumentID) {
		repo := memory.New()

		org := gt.R1(repo.Organization().Upsert(ctx, model.NewOrganization("Carrier A"))).NoError(t)

		doc := model.NewDocument("Carrier A - DR1: Market Position", types.DocTypeResearch)
		doc.Research = &model.ResearchContent{Carrier: "Carrier A", Topic: "market position", Sequence: 1, Body: "body"}
		stored := gt.R1(repo.Document().Upsert(ctx, doc)).NoError(t)
		gt.NoError(t, repo.Document().LinkOrganization(ctx, stored.ID, org.ID, types.RelationResearch))

		gt.NoError(t, repo.Embedding().ReplaceForDocument(ctx, stored.ID, []*model.Embedding{
			{DocumentID: stored.ID, ChunkIndex: 0, ChunkText: "close match", Vector: []float32{1, 0, 0}},
			{DocumentID: stored.ID, ChunkIndex: 1, ChunkText: "partial match", Vector: []float32{1, 1, 0}},
			{DocumentID: stored.ID, ChunkIndex: 2, ChunkText: "unrelated", Vector: []float32{0, 0, 1}},
		}))
		return repo, stored.ID
	}

	t.Run("returns hits above the floor in similarity order", func(t *testing.T) {
		repo, docID := setup(t)
		engine := search.New(queryVector([]float64{1, 0, 0}), repo)

		results := gt.R1(engine.Search(ctx, "market position", 10)).NoError(t)

		// cos(q, chunk2) = 0, below the 0.5 floor.
		gt.Array(t, results).Length(2)
		gt.Value(t, results[0].Chunk).Equal("close match")
		gt.Value(t, results[1].Chunk).Equal("partial match")
		gt.Value(t, results[0].Similarity > results[1].Similarity).Equal(true)
		gt.Value(t, results[0].DocumentID).Equal(docID)
	})

	t.Run("attaches parent document context", func(t *testing.T) {
		repo, _ := setup(t)
		engine := search.New(queryVector([]float64{1, 0, 0}), repo)

		results := gt.R1(engine.Search(ctx, "market position", 1)).NoError(t)
		gt.Array(t, results).Length(1)
		gt.Value(t, results[0].Title).Equal("Carrier A - DR1: Market Position")
		gt.Value(t, results[0].Type).Equal(types.DocTypeResearch)
		gt.Array(t, results[0].Organizations).Length(1)
		gt.Value(t, results[0].Organizations[0]).Equal("Carrier A")
	})

	t.Run("honors a custom similarity floor", func(t *testing.T) {
		repo, _ := setup(t)
		engine := search.New(queryVector([]float64{1, 0, 0}), repo, search.WithSimilarityFloor(0.9))

		results := gt.R1(engine.Search(ctx, "market position", 10)).NoError(t)
		gt.Array(t, results).Length(1)
		gt.Value(t, results[0].Chunk).Equal("close match")
	})

	t.Run("empty query is an error", func(t *testing.T) {
		repo, _ := setup(t)
		engine := search.New(queryVector([]float64{1, 0, 0}), repo)

		_, err := engine.Search(ctx, "", 5)
		gt.Error(t, err)
	})

	t.Run("empty index yields no results", func(t *testing.T) {
		repo := memory.New()
		engine := search.New(queryVector([]float64{1, 0, 0}), repo)

		results := gt.R1(engine.Search(ctx, "anything", 5)).NoError(t)
		gt.Array(t, results).Length(0)
	})
}
