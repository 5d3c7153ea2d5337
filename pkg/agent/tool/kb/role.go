package kb

import (
	"context"
	"fmt"

	"github.com/m-mizutani/gollem"

	"github.com/jari1882/simkb/pkg/agent/tool"
	"github.com/jari1882/simkb/pkg/domain/interfaces"
)

type getRolePerspectiveTool struct {
	repo interfaces.Repository
}

func (t *getRolePerspectiveTool) Spec() gollem.ToolSpec {
	return gollem.ToolSpec{
		Name:        "get_role_perspective",
		Description: "Get an evaluator role's persona (goal, backstory, temperature) for role-based competitive framing",
		Parameters: map[string]*gollem.Parameter{
			"role_name": {
				Type:        gollem.TypeString,
				Description: "Role name or short name, exact or partial (e.g. CPO)",
				Required:    true,
			},
		},
	}
}

func (t *getRolePerspectiveTool) Run(ctx context.Context, args map[string]any) (map[string]any, error) {
	name, _ := args["role_name"].(string)

	role, miss, err := resolveRole(ctx, t.repo, name)
	if err != nil {
		return nil, err
	}
	if miss != nil {
		return miss, nil
	}

	tool.Update(ctx, fmt.Sprintf("Adopting %s perspective", role.Name))

	return map[string]any{
		"id":          string(role.ID),
		"name":        role.Name,
		"short_name":  role.ShortName,
		"goal":        role.Goal,
		"backstory":   role.Backstory,
		"temperature": role.Temperature,
	}, nil
}
