package kb

import (
	"context"

	"github.com/m-mizutani/gollem"

	"github.com/jari1882/simkb/pkg/agent/tool"
	"github.com/jari1882/simkb/pkg/domain/interfaces"
	"github.com/jari1882/simkb/pkg/domain/model"
	"github.com/jari1882/simkb/pkg/domain/types"
)

type getProductionHistoryTool struct {
	repo interfaces.Repository
}

func (t *getProductionHistoryTool) Spec() gollem.ToolSpec {
	return gollem.ToolSpec{
		Name:        "get_production_history",
		Description: "Get year-by-year production (premium and policy counts). Optionally filter to one carrier",
		Parameters: map[string]*gollem.Parameter{
			"carrier_name": {
				Type:        gollem.TypeString,
				Description: "Carrier name to filter by, exact or partial",
				Required:    false,
			},
		},
	}
}

func (t *getProductionHistoryTool) Run(ctx context.Context, args map[string]any) (map[string]any, error) {
	tool.Update(ctx, "Reading production history")

	docs, err := t.repo.Document().ListByType(ctx, types.DocTypeProductionHistory)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return notFound("production history", ""), nil
	}

	// The loader stores one production history document per year; the
	// latest year wins.
	var doc *model.Document
	for _, candidate := range docs {
		if candidate.Production == nil {
			continue
		}
		if doc == nil || candidate.Year > doc.Year {
			doc = candidate
		}
	}
	if doc == nil {
		return notFound("production history", ""), nil
	}

	filter, _ := args["carrier_name"].(string)

	carriers := make([]map[string]any, 0, len(doc.Production.Carriers))
	for _, cp := range doc.Production.Carriers {
		if filter != "" && !model.MatchesName(cp.Carrier, filter) {
			continue
		}
		records := make([]map[string]any, len(cp.Records))
		for i, record := range cp.Records {
			records[i] = map[string]any{
				"year":     record.Year,
				"premium":  record.Premium,
				"policies": record.Policies,
			}
		}
		carriers = append(carriers, map[string]any{
			"carrier": cp.Carrier,
			"product": cp.Product.String(),
			"records": records,
		})
	}

	if filter != "" && len(carriers) == 0 {
		return notFound("production history", filter), nil
	}

	return map[string]any{
		"title":    doc.Title,
		"year":     doc.Year,
		"carriers": carriers,
	}, nil
}
