package kb

import (
	"context"
	"fmt"

	"github.com/m-mizutani/gollem"

	"github.com/jari1882/simkb/pkg/agent/tool"
	"github.com/jari1882/simkb/pkg/domain/interfaces"
	"github.com/jari1882/simkb/pkg/domain/model"
	"github.com/jari1882/simkb/pkg/domain/types"
)

type getScorecardTool struct {
	repo interfaces.Repository
}

func (t *getScorecardTool) Spec() gollem.ToolSpec {
	return gollem.ToolSpec{
		Name:        "get_scorecard",
		Description: "Get a carrier's scorecard for a product. Returns current-period scores and ranks by default; prior-period values are labeled prior_score / prior_rank",
		Parameters: map[string]*gollem.Parameter{
			"carrier_name": {
				Type:        gollem.TypeString,
				Description: "Carrier name, exact or partial",
				Required:    true,
			},
			"product_type": {
				Type:        gollem.TypeString,
				Description: "Product line: Life, Annuity, ABLTC, or Disability",
				Required:    true,
			},
			"year": {
				Type:        gollem.TypeInteger,
				Description: "Scorecard year; defaults to the latest loaded year",
				Required:    false,
			},
		},
	}
}

func (t *getScorecardTool) Run(ctx context.Context, args map[string]any) (map[string]any, error) {
	name, _ := args["carrier_name"].(string)
	productArg, _ := args["product_type"].(string)

	productType := types.ProductType(productArg)
	if !productType.IsValid() {
		return notFound("product", productArg), nil
	}

	org, miss, err := resolveOrganization(ctx, t.repo, name)
	if err != nil {
		return nil, err
	}
	if miss != nil {
		return miss, nil
	}

	tool.Update(ctx, fmt.Sprintf("Reading %s %s scorecard", org.DisplayName, productType))

	docs, err := t.repo.Document().ListByOrganization(ctx, org.ID)
	if err != nil {
		return nil, err
	}

	// Keep carrier scorecards for the product; then resolve the year.
	candidates := make([]*model.Document, 0)
	for _, doc := range docs {
		if doc.Type == types.DocTypeCarrierScorecard && doc.Scorecard != nil && doc.Scorecard.Product == productType {
			candidates = append(candidates, doc)
		}
	}
	if len(candidates) == 0 {
		return notFound("scorecard", fmt.Sprintf("%s %s", org.DisplayName, productType)), nil
	}

	var selected *model.Document
	if year, err := extractInt(args, "year"); err == nil {
		for _, doc := range candidates {
			if doc.Year == year {
				selected = doc
				break
			}
		}
		if selected == nil {
			return notFound("scorecard", fmt.Sprintf("%s %s %d", org.DisplayName, productType, year)), nil
		}
	} else {
		for _, doc := range candidates {
			if selected == nil || doc.Year > selected.Year {
				selected = doc
			}
		}
	}

	sc := selected.Scorecard
	questions := make([]map[string]any, len(sc.Questions))
	for i, q := range sc.Questions {
		questions[i] = map[string]any{
			"question":    q.Question,
			"score":       q.Score,
			"rank":        q.Rank,
			"score_delta": q.ScoreDelta,
			"rank_delta":  q.RankDelta,
			"prior_score": q.PriorScore,
			"prior_rank":  q.PriorRank,
		}
	}

	return map[string]any{
		"carrier":         sc.Carrier,
		"product":         sc.Product.String(),
		"year":            sc.Year,
		"aggregate_score": sc.AggregateScore,
		"aggregate_rank":  sc.AggregateRank,
		"questions":       questions,
	}, nil
}

type getQuestionScorecardTool struct {
	repo interfaces.Repository
}

func (t *getQuestionScorecardTool) Spec() gollem.ToolSpec {
	return gollem.ToolSpec{
		Name:        "get_question_scorecard",
		Description: "Get one evaluation question's results across every carrier, for cross-carrier comparison",
		Parameters: map[string]*gollem.Parameter{
			"question_name": {
				Type:        gollem.TypeString,
				Description: "Evaluation question, exact or partial (e.g. underwriting, compensation)",
				Required:    true,
			},
			"product_type": {
				Type:        gollem.TypeString,
				Description: "Product line: Life, Annuity, ABLTC, or Disability",
				Required:    true,
			},
		},
	}
}

func (t *getQuestionScorecardTool) Run(ctx context.Context, args map[string]any) (map[string]any, error) {
	question, _ := args["question_name"].(string)
	productArg, _ := args["product_type"].(string)
	if question == "" {
		return nil, fmt.Errorf("question_name is required")
	}

	productType := types.ProductType(productArg)
	if !productType.IsValid() {
		return notFound("product", productArg), nil
	}

	tool.Update(ctx, fmt.Sprintf("Comparing carriers on %q", question))

	docs, err := t.repo.Document().ListByType(ctx, types.DocTypeQuestionScorecard)
	if err != nil {
		return nil, err
	}

	matches := make([]*model.Document, 0)
	for _, doc := range docs {
		if doc.QuestionScorecard == nil || doc.QuestionScorecard.Product != productType {
			continue
		}
		if model.MatchesName(doc.QuestionScorecard.Question, question) {
			matches = append(matches, doc)
		}
	}
	switch len(matches) {
	case 0:
		return notFound("question scorecard", question), nil
	case 1:
	default:
		candidates := make([]string, len(matches))
		for i, doc := range matches {
			candidates[i] = doc.QuestionScorecard.Question
		}
		return ambiguous("question scorecard", question, candidates), nil
	}

	qs := matches[0].QuestionScorecard
	results := make([]map[string]any, len(qs.Results))
	for i, r := range qs.Results {
		results[i] = map[string]any{
			"carrier":     r.Carrier,
			"score":       r.Score,
			"rank":        r.Rank,
			"score_delta": r.ScoreDelta,
			"rank_delta":  r.RankDelta,
			"prior_score": r.PriorScore,
			"prior_rank":  r.PriorRank,
		}
	}

	return map[string]any{
		"question": qs.Question,
		"product":  qs.Product.String(),
		"year":     qs.Year,
		"results":  results,
	}, nil
}
