package kb

import (
	"context"
	"fmt"

	"github.com/m-mizutani/gollem"

	"github.com/jari1882/simkb/pkg/agent/tool"
	"github.com/jari1882/simkb/pkg/service/search"
)

type semanticSearchTool struct {
	engine *search.Engine
}

func (t *semanticSearchTool) Spec() gollem.ToolSpec {
	return gollem.ToolSpec{
		Name:        "semantic_search",
		Description: "Search document chunks by meaning. Use when no structured tool fits the question",
		Parameters: map[string]*gollem.Parameter{
			"query": {
				Type:        gollem.TypeString,
				Description: "Search query text",
				Required:    true,
			},
			"limit": {
				Type:        gollem.TypeInteger,
				Description: "Maximum number of results (default: 5)",
				Required:    false,
			},
		},
	}
}

func (t *semanticSearchTool) Run(ctx context.Context, args map[string]any) (map[string]any, error) {
	query, _ := args["query"].(string)
	if query == "" {
		return nil, fmt.Errorf("query is required")
	}

	limit := search.DefaultLimit
	if v, err := extractInt(args, "limit"); err == nil && v > 0 {
		limit = v
	}

	tool.Update(ctx, fmt.Sprintf("Searching: %s", query))

	results, err := t.engine.Search(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return notFound("search result", query), nil
	}

	items := make([]map[string]any, len(results))
	for i, result := range results {
		items[i] = map[string]any{
			"document_id":   string(result.DocumentID),
			"title":         result.Title,
			"type":          result.Type.String(),
			"chunk":         result.Chunk,
			"similarity":    result.Similarity,
			"organizations": result.Organizations,
			"products":      result.Products,
		}
	}
	return map[string]any{"results": items}, nil
}
