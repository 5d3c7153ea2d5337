package types

// RelationType labels a document-to-organization link with the reason the
// document mentions the organization.
type RelationType string

const (
	RelationScorecard         RelationType = "scorecard"
	RelationResearch          RelationType = "research"
	RelationProductionHistory RelationType = "production_history"
)

func (t RelationType) IsValid() bool {
	switch t {
	case RelationScorecard, RelationResearch, RelationProductionHistory:
		return true
	}
	return false
}

func (t RelationType) String() string {
	return string(t)
}
