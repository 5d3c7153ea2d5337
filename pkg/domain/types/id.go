package types

// Entity identifiers are opaque strings minted once at creation and never
// reused. Constructors live in the model package.
type (
	OrganizationID string
	ProductID      string
	RoleID         string
	PersonID       string
	DocumentID     string
	OfferID        string
)

func (id OrganizationID) String() string { return string(id) }
func (id ProductID) String() string      { return string(id) }
func (id RoleID) String() string         { return string(id) }
func (id PersonID) String() string       { return string(id) }
func (id DocumentID) String() string     { return string(id) }
func (id OfferID) String() string        { return string(id) }

// TurnRole distinguishes who produced a conversation turn.
type TurnRole string

const (
	TurnUser      TurnRole = "user"
	TurnAssistant TurnRole = "assistant"
)
