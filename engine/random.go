package engine

import (
	"golang.org/x/exp/rand"

	"tactics/game"
)

// RandomAgent picks uniformly among the legal actions. With the same seed it
// replays the same choices.
type RandomAgent struct {
	rng *rand.Rand
}

func NewRandomAgent(seed uint64) *RandomAgent {
	return &RandomAgent{rng: rand.New(rand.NewSource(seed))}
}

func (a *RandomAgent) FindAction(state game.State) game.Action {
	actions := state.LegalActions()
	if len(actions) == 0 {
		return game.Action{Type: game.EndTurnAction, Player: state.Player()}
	}
	return actions[a.rng.Intn(len(actions))]
}
