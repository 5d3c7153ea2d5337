package kb

import (
	"context"
	"fmt"

	"github.com/m-mizutani/gollem"

	"github.com/jari1882/simkb/pkg/agent/tool"
	"github.com/jari1882/simkb/pkg/domain/interfaces"
	"github.com/jari1882/simkb/pkg/domain/types"
)

// maxContentChars caps get_document_content output so a single large
// document cannot blow up the model context.
const maxContentChars = 8000

type getCarrierDocumentsTool struct {
	repo interfaces.Repository
}

func (t *getCarrierDocumentsTool) Spec() gollem.ToolSpec {
	return gollem.ToolSpec{
		Name:        "get_carrier_documents",
		Description: "List every document linked to a carrier, with title and type",
		Parameters: map[string]*gollem.Parameter{
			"carrier_name": {
				Type:        gollem.TypeString,
				Description: "Carrier name, exact or partial",
				Required:    true,
			},
		},
	}
}

func (t *getCarrierDocumentsTool) Run(ctx context.Context, args map[string]any) (map[string]any, error) {
	name, _ := args["carrier_name"].(string)

	org, miss, err := resolveOrganization(ctx, t.repo, name)
	if err != nil {
		return nil, err
	}
	if miss != nil {
		return miss, nil
	}

	tool.Update(ctx, fmt.Sprintf("Listing documents for %s", org.DisplayName))

	docs, err := t.repo.Document().ListByOrganization(ctx, org.ID)
	if err != nil {
		return nil, err
	}

	items := make([]map[string]any, len(docs))
	for i, doc := range docs {
		items[i] = map[string]any{
			"id":    string(doc.ID),
			"title": doc.Title,
			"type":  doc.Type.String(),
			"year":  doc.Year,
		}
	}
	return map[string]any{
		"carrier":   org.DisplayName,
		"documents": items,
	}, nil
}

type getDocumentContentTool struct {
	repo interfaces.Repository
}

func (t *getDocumentContentTool) Spec() gollem.ToolSpec {
	return gollem.ToolSpec{
		Name:        "get_document_content",
		Description: "Get a document's full text content by title (truncated past 8000 characters)",
		Parameters: map[string]*gollem.Parameter{
			"title": {
				Type:        gollem.TypeString,
				Description: "Document title, exact or partial",
				Required:    true,
			},
			"carrier_name": {
				Type:        gollem.TypeString,
				Description: "Carrier name to narrow the match when the title is ambiguous",
			},
		},
	}
}

func (t *getDocumentContentTool) Run(ctx context.Context, args map[string]any) (map[string]any, error) {
	title, _ := args["title"].(string)
	if title == "" {
		return nil, fmt.Errorf("title is required")
	}

	docs, err := t.repo.Document().FindByTitle(ctx, title)
	if err != nil {
		return nil, err
	}

	// A carrier narrows the title match to that carrier's linked
	// documents before any ambiguity is reported.
	if carrier, _ := args["carrier_name"].(string); carrier != "" {
		org, miss, err := resolveOrganization(ctx, t.repo, carrier)
		if err != nil {
			return nil, err
		}
		if miss != nil {
			return miss, nil
		}
		linked, err := t.repo.Document().ListByOrganization(ctx, org.ID)
		if err != nil {
			return nil, err
		}
		linkedIDs := make(map[types.DocumentID]bool, len(linked))
		for _, doc := range linked {
			linkedIDs[doc.ID] = true
		}
		kept := docs[:0]
		for _, doc := range docs {
			if linkedIDs[doc.ID] {
				kept = append(kept, doc)
			}
		}
		docs = kept
	}

	switch len(docs) {
	case 0:
		return notFound("document", title), nil
	case 1:
	default:
		candidates := make([]string, len(docs))
		for i, doc := range docs {
			candidates[i] = doc.Title
		}
		return ambiguous("document", title, candidates), nil
	}

	doc := docs[0]
	content := doc.Content()
	truncated := false
	if len(content) > maxContentChars {
		content = content[:maxContentChars]
		truncated = true
	}

	return map[string]any{
		"id":        string(doc.ID),
		"title":     doc.Title,
		"type":      doc.Type.String(),
		"content":   content,
		"truncated": truncated,
	}, nil
}
