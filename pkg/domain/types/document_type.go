package types

// DocumentType identifies how a document's content is structured and
// rendered. Every document has exactly one type.
type DocumentType string

const (
	DocTypeCarrierScorecard  DocumentType = "carrier_scorecard"
	DocTypeQuestionScorecard DocumentType = "question_scorecard"
	DocTypeResearch          DocumentType = "research"
	DocTypeProductionHistory DocumentType = "production_history"
)

func AllDocumentTypes() []DocumentType {
	return []DocumentType{
		DocTypeCarrierScorecard,
		DocTypeQuestionScorecard,
		DocTypeResearch,
		DocTypeProductionHistory,
	}
}

func (t DocumentType) IsValid() bool {
	switch t {
	case DocTypeCarrierScorecard, DocTypeQuestionScorecard, DocTypeResearch, DocTypeProductionHistory:
		return true
	}
	return false
}

func (t DocumentType) String() string {
	return string(t)
}
