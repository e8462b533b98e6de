package engine

import "tactics/game"

// MaxTurns is the default limit on player turns (each player's turn counts
// once) after which a game is abandoned without a winner.
const MaxTurns = 500

// Agent chooses the next action for the player whose turn it is. The state
// is a private copy the agent may inspect or play out freely.
type Agent interface {
	FindAction(state game.State) game.Action
}
