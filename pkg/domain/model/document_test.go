package model_test

import (
	"strings"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/jari1882/simkb/pkg/domain/model"
	"github.com/jari1882/simkb/pkg/domain/types"
)

func TestDocumentValidate(t *testing.T) {
	t.Run("valid document passes", func(t *testing.T) {
		doc := model.NewDocument("Carrier A - DR1: Market Position", types.DocTypeResearch)
		doc.Research = &model.ResearchContent{Carrier: "Carrier A", Topic: "market position", Sequence: 1, Body: "body"}
		gt.NoError(t, doc.Validate())
	})

	t.Run("no content variant fails", func(t *testing.T) {
		doc := model.NewDocument("Empty", types.DocTypeResearch)
		gt.Error(t, doc.Validate())
	})

	t.Run("two content variants fail", func(t *testing.T) {
		doc := model.NewDocument("Double", types.DocTypeResearch)
		doc.Research = &model.ResearchContent{Carrier: "Carrier A", Topic: "t", Body: "b"}
		doc.Production = &model.ProductionContent{}
		gt.Error(t, doc.Validate())
	})

	t.Run("variant mismatching the type fails", func(t *testing.T) {
		doc := model.NewDocument("Mismatch", types.DocTypeCarrierScorecard)
		doc.Research = &model.ResearchContent{Carrier: "Carrier A", Topic: "t", Body: "b"}
		gt.Error(t, doc.Validate())
	})

	t.Run("empty title fails", func(t *testing.T) {
		doc := model.NewDocument("", types.DocTypeResearch)
		doc.Research = &model.ResearchContent{Carrier: "Carrier A", Topic: "t", Body: "b"}
		gt.Error(t, doc.Validate())
	})
}

func TestDocumentContent(t *testing.T) {
	t.Run("scorecard renders current before prior", func(t *testing.T) {
		doc := model.NewDocument("Carrier A Annuity Scorecard 2026", types.DocTypeCarrierScorecard)
		doc.Scorecard = &model.ScorecardContent{
			Carrier: "Carrier A",
			Product: types.ProductAnnuity,
			Year:    2026,
			Questions: []model.QuestionScore{
				{Question: "Underwriting", Score: 8.1, Rank: 1, PriorScore: 7.9, PriorRank: 2},
			},
			AggregateScore: 7.2,
			AggregateRank:  2,
		}

		content := doc.Content()
		gt.Value(t, strings.Contains(content, "Underwriting")).Equal(true)
		gt.Value(t, strings.Index(content, "Current score 8.10") < strings.Index(content, "Prior year score 7.90")).Equal(true)
	})

	t.Run("clone is independent of the original", func(t *testing.T) {
		doc := model.NewDocument("Carrier A Annuity Scorecard 2026", types.DocTypeCarrierScorecard)
		doc.Scorecard = &model.ScorecardContent{
			Carrier:   "Carrier A",
			Product:   types.ProductAnnuity,
			Year:      2026,
			Questions: []model.QuestionScore{{Question: "Underwriting", Score: 8.1}},
		}

		clone := doc.Clone()
		clone.Scorecard.Questions[0].Score = 1.0
		gt.Value(t, doc.Scorecard.Questions[0].Score).Equal(8.1)
	})
}
