package kb_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/m-mizutani/gollem"
	"github.com/m-mizutani/gt"

	"github.com/jari1882/simkb/pkg/agent/tool/kb"
	"github.com/jari1882/simkb/pkg/domain/interfaces"
	"github.com/jari1882/simkb/pkg/domain/model"
	"github.com/jari1882/simkb/pkg/domain/types"
	"github.com/jari1882/simkb/pkg/repository/memory"
	"github.com/jari1882/simkb/pkg/service/search"
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

// newTestRepo seeds two carriers with annuity scorecards for two years, a
// question scorecard, a role, and a production history document.
func newTestRepo(t *testing.T) interfaces.Repository {
	t.Helper()
	ctx := context.Background()
	repo := memory.New()

	orgA := gt.R1(repo.Organization().Upsert(ctx, model.NewOrganization("Carrier A"))).NoError(t)
	orgB := gt.R1(repo.Organization().Upsert(ctx, model.NewOrganization("Carrier B"))).NoError(t)
	product := gt.R1(repo.Product().Upsert(ctx, model.NewProduct(types.ProductAnnuity, "Annuity Products"))).NoError(t)

	role := model.NewRole("Chief Product Officer", "CPO")
	role.Goal = "Keep the shelf competitive"
	role.Backstory = "Veteran product lead"
	role.Temperature = 0.4
	gt.R1(repo.Role().Upsert(ctx, role)).NoError(t)

	for year, score := range map[int]float64{2025: 7.1, 2026: 7.2} {
		doc := model.NewDocument(fmt.Sprintf("Carrier A Annuity Scorecard %d", year), types.DocTypeCarrierScorecard)
		doc.Year = year
		doc.Scorecard = &model.ScorecardContent{
			Carrier:        "Carrier A",
			Product:        types.ProductAnnuity,
			Year:           year,
			AggregateScore: score,
			AggregateRank:  2,
			Questions: []model.QuestionScore{
				{Question: "Underwriting", Score: 8.1, Rank: 1, ScoreDelta: 0.2, RankDelta: 1, PriorScore: 7.9, PriorRank: 2},
			},
		}
		stored := gt.R1(repo.Document().Upsert(ctx, doc)).NoError(t)
		gt.NoError(t, repo.Document().LinkOrganization(ctx, stored.ID, orgA.ID, types.RelationScorecard))
		gt.NoError(t, repo.Document().LinkProduct(ctx, stored.ID, product.ID))
	}

	question := model.NewDocument("Underwriting - Annuity (2026)", types.DocTypeQuestionScorecard)
	question.Year = 2026
	question.QuestionScorecard = &model.QuestionScorecardContent{
		Question: "Underwriting",
		Product:  types.ProductAnnuity,
		Year:     2026,
		Results: []model.CarrierResult{
			{Carrier: "Carrier A", Score: 8.1, Rank: 1, PriorScore: 7.9, PriorRank: 2},
			{Carrier: "Carrier B", Score: 7.4, Rank: 2, PriorScore: 7.5, PriorRank: 1},
		},
	}
	gt.R1(repo.Document().Upsert(ctx, question)).NoError(t)

	production := model.NewDocument("Production History 2026", types.DocTypeProductionHistory)
	production.Year = 2026
	production.Production = &model.ProductionContent{
		Carriers: []model.CarrierProduction{
			{Carrier: "Carrier A", Product: types.ProductAnnuity, Records: []model.ProductionRecord{
				{Year: 2026, Premium: 1450000, Policies: 365},
			}},
			{Carrier: "Carrier B", Product: types.ProductLife, Records: []model.ProductionRecord{
				{Year: 2026, Premium: 800000, Policies: 120},
			}},
		},
	}
	stored := gt.R1(repo.Document().Upsert(ctx, production)).NoError(t)
	gt.NoError(t, repo.Document().LinkOrganization(ctx, stored.ID, orgA.ID, types.RelationProductionHistory))
	gt.NoError(t, repo.Document().LinkOrganization(ctx, stored.ID, orgB.ID, types.RelationProductionHistory))

	return repo
}

func newTools(t *testing.T, repo interfaces.Repository) []gollem.Tool {
	t.Helper()
	engine := search.New(&mockLLMClient{}, repo)
	return kb.New(repo, engine)
}

func findTool(tools []gollem.Tool, name string) gollem.Tool {
	for _, tl := range tools {
		if tl.Spec().Name == name {
			return tl
		}
	}
	return nil
}

func TestNew_ReturnsTenTools(t *testing.T) {
	repo := newTestRepo(t)
	gt.Array(t, newTools(t, repo)).Length(10)
}

func TestGetScorecardTool(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults to the latest year", func(t *testing.T) {
		repo := newTestRepo(t)
		result, err := findTool(newTools(t, repo), "get_scorecard").Run(ctx, map[string]any{
			"carrier_name": "carrier a",
			"product_type": "Annuity",
		})
		gt.NoError(t, err)
		gt.Value(t, result["year"]).Equal(2026)
		gt.Value(t, result["aggregate_score"]).Equal(7.2)

		questions := result["questions"].([]map[string]any)
		gt.Array(t, questions).Length(1)
		gt.Value(t, questions[0]["score"]).Equal(8.1)
		gt.Value(t, questions[0]["prior_score"]).Equal(7.9)
		gt.Value(t, questions[0]["rank"]).Equal(1)
		gt.Value(t, questions[0]["prior_rank"]).Equal(2)
	})

	t.Run("explicit year selects that scorecard", func(t *testing.T) {
		repo := newTestRepo(t)
		result, err := findTool(newTools(t, repo), "get_scorecard").Run(ctx, map[string]any{
			"carrier_name": "Carrier A",
			"product_type": "Annuity",
			"year":         float64(2025),
		})
		gt.NoError(t, err)
		gt.Value(t, result["year"]).Equal(2025)
		gt.Value(t, result["aggregate_score"]).Equal(7.1)
	})

	t.Run("unknown year is not_found", func(t *testing.T) {
		repo := newTestRepo(t)
		result, err := findTool(newTools(t, repo), "get_scorecard").Run(ctx, map[string]any{
			"carrier_name": "Carrier A",
			"product_type": "Annuity",
			"year":         float64(1999),
		})
		gt.NoError(t, err)
		gt.Value(t, result["result"]).Equal("not_found")
	})

	t.Run("unknown carrier is not_found", func(t *testing.T) {
		repo := newTestRepo(t)
		result, err := findTool(newTools(t, repo), "get_scorecard").Run(ctx, map[string]any{
			"carrier_name": "Carrier Z",
			"product_type": "Annuity",
		})
		gt.NoError(t, err)
		gt.Value(t, result["result"]).Equal("not_found")
		gt.Value(t, result["kind"]).Equal("organization")
	})

	t.Run("partial carrier matching both is ambiguous", func(t *testing.T) {
		repo := newTestRepo(t)
		result, err := findTool(newTools(t, repo), "get_scorecard").Run(ctx, map[string]any{
			"carrier_name": "carrier",
			"product_type": "Annuity",
		})
		gt.NoError(t, err)
		gt.Value(t, result["result"]).Equal("ambiguous")
		gt.Array(t, result["candidates"].([]string)).Length(2)
	})

	t.Run("invalid product is not_found", func(t *testing.T) {
		repo := newTestRepo(t)
		result, err := findTool(newTools(t, repo), "get_scorecard").Run(ctx, map[string]any{
			"carrier_name": "Carrier A",
			"product_type": "Crypto",
		})
		gt.NoError(t, err)
		gt.Value(t, result["result"]).Equal("not_found")
		gt.Value(t, result["kind"]).Equal("product")
	})
}

func TestGetQuestionScorecardTool(t *testing.T) {
	ctx := context.Background()

	t.Run("returns every carrier's standing", func(t *testing.T) {
		repo := newTestRepo(t)
		result, err := findTool(newTools(t, repo), "get_question_scorecard").Run(ctx, map[string]any{
			"question_name": "underwriting",
			"product_type":  "Annuity",
		})
		gt.NoError(t, err)
		gt.Value(t, result["question"]).Equal("Underwriting")

		results := result["results"].([]map[string]any)
		gt.Array(t, results).Length(2)
		gt.Value(t, results[0]["carrier"]).Equal("Carrier A")
		gt.Value(t, results[0]["rank"]).Equal(1)
		gt.Value(t, results[1]["prior_rank"]).Equal(1)
	})

	t.Run("unknown question is not_found", func(t *testing.T) {
		repo := newTestRepo(t)
		result, err := findTool(newTools(t, repo), "get_question_scorecard").Run(ctx, map[string]any{
			"question_name": "claims handling",
			"product_type":  "Annuity",
		})
		gt.NoError(t, err)
		gt.Value(t, result["result"]).Equal("not_found")
	})
}

func TestGetRolePerspectiveTool(t *testing.T) {
	ctx := context.Background()

	t.Run("matches by short name", func(t *testing.T) {
		repo := newTestRepo(t)
		result, err := findTool(newTools(t, repo), "get_role_perspective").Run(ctx, map[string]any{
			"role_name": "cpo",
		})
		gt.NoError(t, err)
		gt.Value(t, result["name"]).Equal("Chief Product Officer")
		gt.Value(t, result["goal"]).Equal("Keep the shelf competitive")
		gt.Value(t, result["temperature"]).Equal(0.4)
	})

	t.Run("unknown role is not_found", func(t *testing.T) {
		repo := newTestRepo(t)
		result, err := findTool(newTools(t, repo), "get_role_perspective").Run(ctx, map[string]any{
			"role_name": "CFO",
		})
		gt.NoError(t, err)
		gt.Value(t, result["result"]).Equal("not_found")
	})
}

func TestGetProductionHistoryTool(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the whole book without a filter", func(t *testing.T) {
		repo := newTestRepo(t)
		result, err := findTool(newTools(t, repo), "get_production_history").Run(ctx, map[string]any{})
		gt.NoError(t, err)
		gt.Value(t, result["year"]).Equal(2026)
		gt.Array(t, result["carriers"].([]map[string]any)).Length(2)
	})

	t.Run("filters to one carrier", func(t *testing.T) {
		repo := newTestRepo(t)
		result, err := findTool(newTools(t, repo), "get_production_history").Run(ctx, map[string]any{
			"carrier_name": "Carrier B",
		})
		gt.NoError(t, err)

		carriers := result["carriers"].([]map[string]any)
		gt.Array(t, carriers).Length(1)
		gt.Value(t, carriers[0]["carrier"]).Equal("Carrier B")
	})

	t.Run("filter without match is not_found", func(t *testing.T) {
		repo := newTestRepo(t)
		result, err := findTool(newTools(t, repo), "get_production_history").Run(ctx, map[string]any{
			"carrier_name": "Carrier Z",
		})
		gt.NoError(t, err)
		gt.Value(t, result["result"]).Equal("not_found")
	})
}

func TestGetDocumentContentTool(t *testing.T) {
	ctx := context.Background()

	t.Run("returns rendered content by exact title", func(t *testing.T) {
		repo := newTestRepo(t)
		result, err := findTool(newTools(t, repo), "get_document_content").Run(ctx, map[string]any{
			"title": "Production History 2026",
		})
		gt.NoError(t, err)
		gt.Value(t, result["truncated"]).Equal(false)
		content := result["content"].(string)
		gt.Value(t, strings.Contains(content, "Carrier A")).Equal(true)
	})

	t.Run("partial title matching several documents is ambiguous", func(t *testing.T) {
		repo := newTestRepo(t)
		result, err := findTool(newTools(t, repo), "get_document_content").Run(ctx, map[string]any{
			"title": "Annuity Scorecard",
		})
		gt.NoError(t, err)
		gt.Value(t, result["result"]).Equal("ambiguous")
	})

	t.Run("carrier narrows an ambiguous title", func(t *testing.T) {
		repo := newTestRepo(t)
		orgB := gt.R1(repo.Organization().FindByName(ctx, "Carrier B")).NoError(t)[0]

		doc := model.NewDocument("Carrier B Annuity Scorecard 2026", types.DocTypeCarrierScorecard)
		doc.Year = 2026
		doc.Scorecard = &model.ScorecardContent{
			Carrier:        "Carrier B",
			Product:        types.ProductAnnuity,
			Year:           2026,
			AggregateScore: 6.8,
			AggregateRank:  3,
			Questions: []model.QuestionScore{
				{Question: "Underwriting", Score: 7.4, Rank: 2, PriorScore: 7.5, PriorRank: 1},
			},
		}
		stored := gt.R1(repo.Document().Upsert(ctx, doc)).NoError(t)
		gt.NoError(t, repo.Document().LinkOrganization(ctx, stored.ID, orgB.ID, types.RelationScorecard))

		tools := newTools(t, repo)
		result, err := findTool(tools, "get_document_content").Run(ctx, map[string]any{
			"title": "Annuity Scorecard 2026",
		})
		gt.NoError(t, err)
		gt.Value(t, result["result"]).Equal("ambiguous")

		result, err = findTool(tools, "get_document_content").Run(ctx, map[string]any{
			"title":        "Annuity Scorecard 2026",
			"carrier_name": "carrier b",
		})
		gt.NoError(t, err)
		gt.Value(t, result["title"]).Equal("Carrier B Annuity Scorecard 2026")

		result, err = findTool(tools, "get_document_content").Run(ctx, map[string]any{
			"title":        "Annuity Scorecard 2026",
			"carrier_name": "Carrier X",
		})
		gt.NoError(t, err)
		gt.Value(t, result["result"]).Equal("not_found")
		gt.Value(t, result["kind"]).Equal("organization")
	})

	t.Run("truncates oversized content", func(t *testing.T) {
		ctx := context.Background()
		repo := memory.New()

		doc := model.NewDocument("Carrier A - DR2: Long Read", types.DocTypeResearch)
		doc.Research = &model.ResearchContent{Carrier: "Carrier A", Topic: "long read", Sequence: 2, Body: strings.Repeat("x", 9000)}
		gt.R1(repo.Document().Upsert(ctx, doc)).NoError(t)

		result, err := findTool(newTools(t, repo), "get_document_content").Run(ctx, map[string]any{
			"title": "Long Read",
		})
		gt.NoError(t, err)
		gt.Value(t, result["truncated"]).Equal(true)
		gt.Value(t, len(result["content"].(string))).Equal(8000)
	})
}

func TestListTools(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	tools := newTools(t, repo)

	orgs, err := findTool(tools, "list_organizations").Run(ctx, map[string]any{})
	gt.NoError(t, err)
	gt.Array(t, orgs["organizations"].([]map[string]any)).Length(2)

	products, err := findTool(tools, "list_products").Run(ctx, map[string]any{})
	gt.NoError(t, err)
	gt.Array(t, products["products"].([]map[string]any)).Length(1)

	roles, err := findTool(tools, "list_roles").Run(ctx, map[string]any{})
	gt.NoError(t, err)
	items := roles["roles"].([]map[string]any)
	gt.Array(t, items).Length(1)
	gt.Value(t, items[0]["short_name"]).Equal("CPO")
}
