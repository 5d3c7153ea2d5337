package kb

import (
	"context"

	"github.com/m-mizutani/gollem"

	"github.com/jari1882/simkb/pkg/agent/tool"
	"github.com/jari1882/simkb/pkg/domain/interfaces"
)

type listOrganizationsTool struct {
	repo interfaces.Repository
}

func (t *listOrganizationsTool) Spec() gollem.ToolSpec {
	return gollem.ToolSpec{
		Name:        "list_organizations",
		Description: "List every insurance carrier in the knowledge base",
		Parameters:  map[string]*gollem.Parameter{},
	}
}

func (t *listOrganizationsTool) Run(ctx context.Context, args map[string]any) (map[string]any, error) {
	tool.Update(ctx, "Listing carriers")

	orgs, err := t.repo.Organization().List(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]map[string]any, len(orgs))
	for i, org := range orgs {
		items[i] = map[string]any{
			"id":   string(org.ID),
			"name": org.DisplayName,
		}
	}
	return map[string]any{"organizations": items}, nil
}

type listProductsTool struct {
	repo interfaces.Repository
}

func (t *listProductsTool) Spec() gollem.ToolSpec {
	return gollem.ToolSpec{
		Name:        "list_products",
		Description: "List the product lines (Life, Annuity, ABLTC, Disability)",
		Parameters:  map[string]*gollem.Parameter{},
	}
}

func (t *listProductsTool) Run(ctx context.Context, args map[string]any) (map[string]any, error) {
	products, err := t.repo.Product().List(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]map[string]any, len(products))
	for i, product := range products {
		items[i] = map[string]any{
			"id":          string(product.ID),
			"name":        product.Name,
			"description": product.Description,
		}
	}
	return map[string]any{"products": items}, nil
}

type listRolesTool struct {
	repo interfaces.Repository
}

func (t *listRolesTool) Spec() gollem.ToolSpec {
	return gollem.ToolSpec{
		Name:        "list_roles",
		Description: "List the evaluator roles available for role-based perspectives",
		Parameters:  map[string]*gollem.Parameter{},
	}
}

func (t *listRolesTool) Run(ctx context.Context, args map[string]any) (map[string]any, error) {
	roles, err := t.repo.Role().List(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]map[string]any, len(roles))
	for i, role := range roles {
		items[i] = map[string]any{
			"id":         string(role.ID),
			"name":       role.Name,
			"short_name": role.ShortName,
			"goal":       role.Goal,
		}
	}
	return map[string]any{"roles": items}, nil
}
