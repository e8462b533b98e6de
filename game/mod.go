package game

type StateHash uint64

// State is the view of a game that drivers (agents, sessions) work with.
// Apply either applies the action completely or rejects it and leaves the
// state untouched.
type State interface {
	Player() PlayerID
	LegalActions() []Action
	Apply(Action) ([]Event, error)
	Hash() StateHash
	Winner() PlayerID
}

var _ State = (*GameState)(nil)
