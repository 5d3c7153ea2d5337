// Package kb holds the navigator's tools. Every tool returns a
// structured payload; lookups that miss or match several candidates
// return not_found / ambiguous payloads instead of errors, so the agent
// can recover inside the same turn.
package kb

import (
	"context"
	"fmt"

	"github.com/m-mizutani/gollem"

	"github.com/jari1882/simkb/pkg/domain/interfaces"
	"github.com/jari1882/simkb/pkg/domain/model"
	"github.com/jari1882/simkb/pkg/service/search"
)

// New builds the full tool catalogue over the given repository and
// search engine.
func New(repo interfaces.Repository, engine *search.Engine) []gollem.Tool {
	return []gollem.Tool{
		&listOrganizationsTool{repo: repo},
		&listProductsTool{repo: repo},
		&listRolesTool{repo: repo},
		&getCarrierDocumentsTool{repo: repo},
		&getScorecardTool{repo: repo},
		&getQuestionScorecardTool{repo: repo},
		&getProductionHistoryTool{repo: repo},
		&getRolePerspectiveTool{repo: repo},
		&getDocumentContentTool{repo: repo},
		&semanticSearchTool{engine: engine},
	}
}

func notFound(kind, query string) map[string]any {
	return map[string]any{
		"result":  "not_found",
		"kind":    kind,
		"query":   query,
		"message": fmt.Sprintf("no %s matched %q", kind, query),
	}
}

func ambiguous(kind, query string, candidates []string) map[string]any {
	return map[string]any{
		"result":     "ambiguous",
		"kind":       kind,
		"query":      query,
		"candidates": candidates,
		"message":    fmt.Sprintf("%q matched %d %ss; ask the user to pick one", query, len(candidates), kind),
	}
}

// resolveOrganization fuzzy-matches one organization. The second return
// value is a negative payload when resolution fails; exactly one of the
// three returns is meaningful.
func resolveOrganization(ctx context.Context, repo interfaces.Repository, name string) (*model.Organization, map[string]any, error) {
	if name == "" {
		return nil, nil, fmt.Errorf("carrier_name is required")
	}

	orgs, err := repo.Organization().FindByName(ctx, name)
	if err != nil {
		return nil, nil, err
	}
	switch len(orgs) {
	case 0:
		return nil, notFound("organization", name), nil
	case 1:
		return orgs[0], nil, nil
	default:
		candidates := make([]string, len(orgs))
		for i, org := range orgs {
			candidates[i] = org.DisplayName
		}
		return nil, ambiguous("organization", name, candidates), nil
	}
}

func resolveRole(ctx context.Context, repo interfaces.Repository, name string) (*model.Role, map[string]any, error) {
	if name == "" {
		return nil, nil, fmt.Errorf("role_name is required")
	}

	roles, err := repo.Role().FindByName(ctx, name)
	if err != nil {
		return nil, nil, err
	}
	switch len(roles) {
	case 0:
		return nil, notFound("role", name), nil
	case 1:
		return roles[0], nil, nil
	default:
		candidates := make([]string, len(roles))
		for i, role := range roles {
			candidates[i] = role.Name
		}
		return nil, ambiguous("role", name, candidates), nil
	}
}

// extractInt extracts an int value from args, accepting int, int64, or float64.
func extractInt(args map[string]any, key string) (int, error) {
	v, ok := args[key]
	if !ok || v == nil {
		return 0, fmt.Errorf("%s is required", key)
	}
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		return int(n), nil
	default:
		return 0, fmt.Errorf("%s must be an integer, got %T", key, v)
	}
}
