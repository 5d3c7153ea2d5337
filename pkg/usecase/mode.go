package usecase

import (
	"strings"

	"github.com/jari1882/simkb/pkg/domain/types"
)

// Evaluation question topics that signal a cross-carrier comparison.
var questionTopicTerms = []string{
	"underwriting",
	"compensation",
	"communication",
	"product offering",
	"products that meet",
	"customer need",
}

// Relative-standing phrasings.
var comparativeTerms = []string{
	"relative to",
	"compared to",
	"compared with",
	"versus",
	" vs ",
	"other companies",
	"other carriers",
	"rank on",
	"ranking on",
	"stack up",
}

var productTerms = []string{
	"life",
	"annuity",
	"abltc",
	"long-term care",
	"disability",
}

var performanceTerms = []string{
	"performance",
	"perform",
	"business",
	"production",
	"scorecard",
}

// ClassifyMode derives the answer mode from the question text alone. It
// is evaluated fresh on every turn; nothing about the mode persists.
//
// A named evaluation topic plus relative-standing phrasing selects the
// role-based comparison mode. A product line plus performance phrasing
// selects the carrier performance mode. Everything else is general.
func ClassifyMode(text string) types.AnswerMode {
	lower := strings.ToLower(text)

	hasTopic := containsAny(lower, questionTopicTerms)
	if hasTopic && (containsAny(lower, comparativeTerms) || strings.Contains(lower, "how did")) {
		return types.ModeQuestionComparison
	}

	if containsAny(lower, productTerms) && containsAny(lower, performanceTerms) {
		return types.ModeCarrierPerformance
	}

	return types.ModeGeneral
}

// ToolPlan names the tools a mode leads with. The agent may still use
// any tool; the plan is rendered into the system prompt as guidance.
func ToolPlan(mode types.AnswerMode) []string {
	switch mode {
	case types.ModeCarrierPerformance:
		return []string{"get_scorecard", "get_production_history"}
	case types.ModeQuestionComparison:
		return []string{"get_role_perspective", "get_question_scorecard"}
	default:
		return nil
	}
}

func containsAny(s string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(s, term) {
			return true
		}
	}
	return false
}
