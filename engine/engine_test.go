package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tactics/experiments/metrics"
	"tactics/game"
	"tactics/game/scenario"
)

// attackAgent attacks whenever it can and otherwise ends the turn.
type attackAgent struct{}

func (attackAgent) FindAction(state game.State) game.Action {
	for _, a := range state.LegalActions() {
		if a.Type == game.MeleeAttackAction || a.Type == game.RangedAttackAction {
			return a
		}
	}
	return game.Action{Type: game.EndTurnAction, Player: state.Player()}
}

// illegalAgent always tries to move a unit that does not exist.
type illegalAgent struct{}

func (illegalAgent) FindAction(state game.State) game.Action {
	return game.Action{Type: game.MoveAction, Player: state.Player(), Unit: 99, Path: []game.Coord{{X: 0, Y: 0}}}
}

func duel(t *testing.T) *game.GameState {
	t.Helper()
	s := &scenario.Scenario{
		Name:    "duel",
		Width:   4,
		Height:  4,
		Terrain: game.TerrainPlains,
		Players: []game.PlayerID{1, 2},
		Units: []scenario.Placement{
			{Player: 1, Type: game.Warrior, X: 1, Y: 1},
			{Player: 2, Type: game.Archer, X: 2, Y: 1},
		},
	}
	gs, err := s.Build(game.NewStandardRules())
	require.NoError(t, err)
	return gs
}

func TestEngineRun_Winner(t *testing.T) {
	agents := map[game.PlayerID]Agent{1: attackAgent{}, 2: attackAgent{}}
	e, err := LocalEngine("duel", duel(t), agents)
	require.NoError(t, err)

	res, err := e.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, game.PlayerID(1), res.Winner, "Warrior kills the archer in one blow")
	assert.Equal(t, game.PlayerID(1), res.Game.StartingPlayer)
	assert.Equal(t, 1, res.Game.Turns)
	require.Len(t, res.Actions, 1)
	assert.Equal(t, game.MeleeAttackAction, res.Actions[0].Action)
	assert.Equal(t, 6, res.Actions[0].Damage)
	assert.Equal(t, 1, res.Actions[0].Killed)
	assert.Equal(t, 1, res.Counts.MeleeAttacks)
	assert.Equal(t, 1, res.Counts.Destroyed)
}

func TestEngineRun_IllegalActionsEndTheTurn(t *testing.T) {
	agents := map[game.PlayerID]Agent{1: illegalAgent{}, 2: illegalAgent{}}
	e, err := LocalEngine("duel", duel(t), agents, WithMaxTurns(3), WithCollector(metrics.NewCollector()))
	require.NoError(t, err)

	res, err := e.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, game.NoPlayer, res.Winner)
	assert.Equal(t, 3, res.Game.Turns)
	require.Len(t, res.Actions, 6, "Each turn records the rejected action and the forced end turn")
	for i, a := range res.Actions {
		assert.Equal(t, i/2+1, a.Turn, "The limit counts player turns")
		assert.Equal(t, game.PlayerID(i/2%2+1), a.Player)
	}
	assert.True(t, res.Actions[0].Rejected)
	assert.Equal(t, game.EndTurnAction, res.Actions[1].Action)
	assert.False(t, res.Actions[1].Rejected)
	assert.Equal(t, 3, res.Counts.Rejected)
	assert.Equal(t, 3, res.Counts.EndTurns)
}

func TestEngineRun_Cancelled(t *testing.T) {
	agents := map[game.PlayerID]Agent{1: attackAgent{}, 2: attackAgent{}}
	e, err := LocalEngine("duel", duel(t), agents)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = e.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestLocalEngine_MissingAgent(t *testing.T) {
	_, err := LocalEngine("duel", duel(t), map[game.PlayerID]Agent{1: attackAgent{}})
	require.Error(t, err)
}

func TestRandomAgent(t *testing.T) {
	play := func(seed uint64) []metrics.ActionMetric {
		gs, err := scenario.Skirmish().Build(game.NewStandardRules())
		require.NoError(t, err)
		agents := map[game.PlayerID]Agent{1: NewRandomAgent(seed), 2: NewRandomAgent(seed + 1)}
		e, err := LocalEngine("skirmish", gs, agents, WithMaxTurns(12))
		require.NoError(t, err)
		res, err := e.Run(context.Background())
		require.NoError(t, err)
		return res.Actions
	}

	first := play(7)
	require.NotEmpty(t, first)
	second := play(7)
	require.Equal(t, len(first), len(second), "Same seeds replay the same game")
	for i := range first {
		assert.Equal(t, first[i].Action, second[i].Action)
		assert.Equal(t, first[i].Player, second[i].Player)
		assert.Equal(t, first[i].Damage, second[i].Damage)
	}

	for _, a := range first {
		assert.False(t, a.Rejected, "Random agents only pick legal actions")
	}
}

func TestRandomPlayoutInvariants(t *testing.T) {
	gs, err := scenario.Skirmish().Build(game.NewStandardRules())
	require.NoError(t, err)
	a := NewRandomAgent(11)

	for i := 0; i < 2000 && gs.Winner() == game.NoPlayer; i++ {
		action := a.FindAction(gs.Copy())
		var mover *game.Unit
		if action.Type == game.RangedAttackAction {
			mover, _ = gs.Unit(action.Unit)
			require.False(t, mover.HasMoved, "Ranged attacks are never offered after moving")
		}
		_, err := gs.Apply(action)
		require.NoError(t, err)

		require.LessOrEqual(t, gs.Turn.MovedUnits, game.DefaultInitiative)
		for _, u := range gs.Units {
			require.GreaterOrEqual(t, u.HP, 0)
			tile, _ := gs.Grid.TileAt(u.Pos)
			if u.Alive() {
				require.Same(t, u, tile.Occupant)
			} else {
				require.NotSame(t, u, tile.Occupant, "Destroyed units are off the grid")
			}
		}
	}
}
