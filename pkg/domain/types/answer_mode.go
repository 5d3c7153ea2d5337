package types

// AnswerMode selects how the navigator frames a response. It is derived
// from each question independently and never persisted.
type AnswerMode string

const (
	// ModeGeneral is the fallback: free synthesis over any tools.
	ModeGeneral AnswerMode = "general"
	// ModeCarrierPerformance answers carrier+product performance questions
	// with a neutral analyst framing.
	ModeCarrierPerformance AnswerMode = "carrier_performance"
	// ModeQuestionComparison answers evaluation-question standing with a
	// role persona and cross-carrier comparison.
	ModeQuestionComparison AnswerMode = "question_comparison"
)

func (m AnswerMode) IsValid() bool {
	switch m {
	case ModeGeneral, ModeCarrierPerformance, ModeQuestionComparison:
		return true
	}
	return false
}

func (m AnswerMode) String() string {
	return string(m)
}
