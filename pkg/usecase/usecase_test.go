package usecase_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gollem"
	"github.com/m-mizutani/gt"

	"github.com/jari1882/simkb/pkg/domain/model"
	"github.com/jari1882/simkb/pkg/domain/types"
	"github.com/jari1882/simkb/pkg/repository/memory"
	"github.com/jari1882/simkb/pkg/usecase"
)

type mockLLMClient struct{}

func (m *mockLLMClient) NewSession(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error) {
	return nil, nil
}

func (m *mockLLMClient) GenerateEmbedding(ctx context.Context, dimension int, input []string) ([][]float64, error) {
	vec := make([]float64, dimension)
	vec[0] = 1
	return [][]float64{vec}, nil
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()

	gt.R1(repo.Organization().Upsert(ctx, model.NewOrganization("Carrier A"))).NoError(t)
	gt.R1(repo.Product().Upsert(ctx, model.NewProduct(types.ProductAnnuity, "Annuity Products"))).NoError(t)
	gt.R1(repo.Role().Upsert(ctx, model.NewRole("Chief Product Officer", "CPO"))).NoError(t)

	doc := model.NewDocument("Carrier A - DR1: Market Position", types.DocTypeResearch)
	doc.Research = &model.ResearchContent{Carrier: "Carrier A", Topic: "market position", Sequence: 1, Body: "body"}
	stored := gt.R1(repo.Document().Upsert(ctx, doc)).NoError(t)

	gt.NoError(t, repo.Embedding().ReplaceForDocument(ctx, stored.ID, []*model.Embedding{
		{DocumentID: stored.ID, ChunkIndex: 0, ChunkText: "body", Vector: []float32{1}},
	}))

	uc := usecase.New(repo, &mockLLMClient{})

	stats := gt.R1(uc.Stats(ctx)).NoError(t)
	gt.Value(t, stats.Organizations).Equal(1)
	gt.Value(t, stats.Products).Equal(1)
	gt.Value(t, stats.Roles).Equal(1)
	gt.Value(t, stats.Documents).Equal(1)
	gt.Value(t, stats.Offers).Equal(0)
	gt.Value(t, stats.Embeddings).Equal(1)
}

func TestReset(t *testing.T) {
	uc := usecase.New(memory.New(), &mockLLMClient{})

	// No history exists yet for the session.
	gt.Value(t, uc.Reset("unknown-session")).Equal(false)
}

func TestHelp(t *testing.T) {
	uc := usecase.New(memory.New(), &mockLLMClient{})

	help := uc.Help()
	gt.Value(t, help != "").Equal(true)
	gt.Value(t, len(help) > 50).Equal(true)
}
