package model

import (
	"fmt"
	"strings"

	"github.com/jari1882/simkb/pkg/domain/types"
)

// QuestionScore holds one evaluation question's result for a carrier.
// Score and Rank are the current period; PriorScore and PriorRank are the
// previous period and are always labeled as such when rendered.
type QuestionScore struct {
	Question   string
	Score      float64
	Rank       int
	ScoreDelta float64
	RankDelta  int
	PriorScore float64
	PriorRank  int
}

// ScorecardContent is one carrier's scorecard for one product and year.
type ScorecardContent struct {
	Carrier        string
	Product        types.ProductType
	Year           int
	Questions      []QuestionScore
	AggregateScore float64
	AggregateRank  int
}

func (c *ScorecardContent) Render(title string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", title)
	fmt.Fprintf(&b, "Carrier: %s\nProduct: %s\nYear: %d\n", c.Carrier, c.Product, c.Year)
	fmt.Fprintf(&b, "Aggregate: score %.2f, rank %d\n\n", c.AggregateScore, c.AggregateRank)
	for _, q := range c.Questions {
		fmt.Fprintf(&b, "Question: %s\n", q.Question)
		fmt.Fprintf(&b, "  Current score %.2f (rank %d), change %+.2f (rank change %+d)\n",
			q.Score, q.Rank, q.ScoreDelta, q.RankDelta)
		fmt.Fprintf(&b, "  Prior year score %.2f (rank %d)\n", q.PriorScore, q.PriorRank)
	}
	return b.String()
}

// CarrierResult is one carrier's standing on a single evaluation question.
type CarrierResult struct {
	Carrier    string
	Score      float64
	Rank       int
	ScoreDelta float64
	RankDelta  int
	PriorScore float64
	PriorRank  int
}

// QuestionScorecardContent compares every carrier on one question.
type QuestionScorecardContent struct {
	Question string
	Product  types.ProductType
	Year     int
	Results  []CarrierResult
}

func (c *QuestionScorecardContent) Render(title string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", title)
	fmt.Fprintf(&b, "Question: %s\nProduct: %s\nYear: %d\n\n", c.Question, c.Product, c.Year)
	for _, r := range c.Results {
		fmt.Fprintf(&b, "%s: current score %.2f (rank %d), change %+.2f, prior score %.2f (rank %d)\n",
			r.Carrier, r.Score, r.Rank, r.ScoreDelta, r.PriorScore, r.PriorRank)
	}
	return b.String()
}

// ResearchContent is a deep-research markdown note about one carrier.
type ResearchContent struct {
	Carrier  string
	Topic    string
	Sequence int
	Body     string
}

func (c *ResearchContent) Render(title string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", title)
	fmt.Fprintf(&b, "Carrier: %s\nTopic: %s\n\n", c.Carrier, c.Topic)
	b.WriteString(c.Body)
	return b.String()
}

// ProductionRecord is one year of production for a carrier and product.
type ProductionRecord struct {
	Year     int
	Premium  float64
	Policies int
}

// CarrierProduction is a carrier's production series for one product.
type CarrierProduction struct {
	Carrier string
	Product types.ProductType
	Records []ProductionRecord
}

// ProductionContent is the production history spanning every carrier it
// mentions. A single document of this type covers the whole book.
type ProductionContent struct {
	Carriers []CarrierProduction
}

func (c *ProductionContent) Render(title string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", title)
	for _, cp := range c.Carriers {
		fmt.Fprintf(&b, "%s (%s):\n", cp.Carrier, cp.Product)
		for _, r := range cp.Records {
			fmt.Fprintf(&b, "  %d: premium %.2f, policies %d\n", r.Year, r.Premium, r.Policies)
		}
	}
	return b.String()
}
