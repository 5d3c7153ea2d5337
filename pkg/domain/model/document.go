package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/jari1882/simkb/pkg/domain/types"
)

// Document is a knowledge base document. Exactly one content variant is
// set, and it must agree with Type. Title is the natural key for
// idempotent loads.
type Document struct {
	ID       types.DocumentID
	Title    string
	Type     types.DocumentType
	FilePath string
	Year     int

	Scorecard         *ScorecardContent
	QuestionScorecard *QuestionScorecardContent
	Research          *ResearchContent
	Production        *ProductionContent

	CreatedAt time.Time
	UpdatedAt time.Time
}

// DocumentLink is a typed edge from a document to an organization.
type DocumentLink struct {
	DocumentID     types.DocumentID
	OrganizationID types.OrganizationID
	Relation       types.RelationType
}

func NewDocument(title string, docType types.DocumentType) *Document {
	return &Document{
		ID:    NewDocumentID(),
		Title: title,
		Type:  docType,
	}
}

func (d *Document) Validate() error {
	if d.Title == "" {
		return goerr.New("document title is empty", goerr.V("id", d.ID))
	}
	if !d.Type.IsValid() {
		return goerr.New("invalid document type", goerr.V("id", d.ID), goerr.V("type", d.Type))
	}

	variants := 0
	if d.Scorecard != nil {
		variants++
	}
	if d.QuestionScorecard != nil {
		variants++
	}
	if d.Research != nil {
		variants++
	}
	if d.Production != nil {
		variants++
	}
	if variants != 1 {
		return goerr.New("document must carry exactly one content variant",
			goerr.V("id", d.ID), goerr.V("variants", variants))
	}

	switch d.Type {
	case types.DocTypeCarrierScorecard:
		if d.Scorecard == nil {
			return goerr.New("carrier scorecard document without scorecard content", goerr.V("id", d.ID))
		}
	case types.DocTypeQuestionScorecard:
		if d.QuestionScorecard == nil {
			return goerr.New("question scorecard document without question content", goerr.V("id", d.ID))
		}
	case types.DocTypeResearch:
		if d.Research == nil {
			return goerr.New("research document without research content", goerr.V("id", d.ID))
		}
	case types.DocTypeProductionHistory:
		if d.Production == nil {
			return goerr.New("production history document without production content", goerr.V("id", d.ID))
		}
	}

	return nil
}

// Content renders the active variant to plain text. This is the text the
// indexer chunks and embeds, and what get_document_content returns.
func (d *Document) Content() string {
	switch d.Type {
	case types.DocTypeCarrierScorecard:
		if d.Scorecard != nil {
			return d.Scorecard.Render(d.Title)
		}
	case types.DocTypeQuestionScorecard:
		if d.QuestionScorecard != nil {
			return d.QuestionScorecard.Render(d.Title)
		}
	case types.DocTypeResearch:
		if d.Research != nil {
			return d.Research.Render(d.Title)
		}
	case types.DocTypeProductionHistory:
		if d.Production != nil {
			return d.Production.Render(d.Title)
		}
	}
	return ""
}

func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	clone := *d
	if d.Scorecard != nil {
		sc := *d.Scorecard
		sc.Questions = append([]QuestionScore(nil), d.Scorecard.Questions...)
		clone.Scorecard = &sc
	}
	if d.QuestionScorecard != nil {
		qs := *d.QuestionScorecard
		qs.Results = append([]CarrierResult(nil), d.QuestionScorecard.Results...)
		clone.QuestionScorecard = &qs
	}
	if d.Research != nil {
		rc := *d.Research
		clone.Research = &rc
	}
	if d.Production != nil {
		pc := *d.Production
		pc.Carriers = make([]CarrierProduction, len(d.Production.Carriers))
		for i, cp := range d.Production.Carriers {
			cp.Records = append([]ProductionRecord(nil), cp.Records...)
			pc.Carriers[i] = cp
		}
		clone.Production = &pc
	}
	return &clone
}
