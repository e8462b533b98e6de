package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"tactics/experiments/metrics"
	"tactics/game"
	"tactics/gamemaster"
)

// Result summarizes a finished (or abandoned) game.
type Result struct {
	Winner  game.PlayerID
	Game    metrics.GameMetric
	Counts  metrics.Counts
	Actions []metrics.ActionMetric
}

type Engine struct {
	id        string
	state     *game.GameState
	agents    map[game.PlayerID]Agent
	maxTurns  int
	collector metrics.Collector
}

type Option func(*Engine)

// WithMaxTurns caps the game at turns player turns.
func WithMaxTurns(turns int) Option {
	return func(e *Engine) {
		e.maxTurns = turns
	}
}

func WithCollector(c metrics.Collector) Option {
	return func(e *Engine) {
		e.collector = c
	}
}

// LocalEngine pairs a game with one agent per player. The engine takes
// ownership of state.
func LocalEngine(id string, state *game.GameState, agents map[game.PlayerID]Agent, opts ...Option) (*Engine, error) {
	for _, p := range state.Players {
		if _, ok := agents[p]; !ok {
			return nil, fmt.Errorf("no agent for player %d", p)
		}
	}
	e := &Engine{
		id:        id,
		state:     state,
		agents:    agents,
		maxTurns:  MaxTurns,
		collector: metrics.NewCollector(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Run plays the game until a player wins or the turn limit is reached. Each
// action goes through a gamemaster session; an action the game rejects is
// recorded and replaced by ending the turn.
func (e *Engine) Run(ctx context.Context) (Result, error) {
	session := gamemaster.NewSession(e.id, e.state, gamemaster.WithCollector(e.collector))
	defer session.Close()

	state, err := session.Snapshot(ctx)
	if err != nil {
		return Result{}, err
	}

	gm := metrics.GameMetric{StartingPlayer: state.Player(), StartTime: time.Now()}
	var actions []metrics.ActionMetric

	log.Info().Str("game", e.id).Msgf("player %d is starting", state.Player())

	for state.Winner() == game.NoPlayer && state.Turn.Number <= e.maxTurns {
		player := state.Player()
		turn := state.Turn.Number

		start := time.Now()
		action := e.agents[player].FindAction(state)
		am := metrics.ActionMetric{
			Step:     len(actions) + 1,
			Turn:     turn,
			Player:   player,
			Action:   action.Type,
			Duration: time.Since(start),
		}

		events, err := session.Submit(ctx, action)
		var actionErr *gamemaster.ActionError
		if errors.As(err, &actionErr) {
			log.Warn().Str("game", e.id).Err(err).Msg("agent chose an illegal action, ending turn")
			am.Rejected = true
			actions = append(actions, am)

			am = metrics.ActionMetric{Step: len(actions) + 1, Turn: turn, Player: player, Action: game.EndTurnAction}
			events, err = session.Submit(ctx, game.Action{Type: game.EndTurnAction, Player: player})
		}
		if err != nil {
			return Result{}, fmt.Errorf("game %s: %w", e.id, err)
		}

		am.Damage, am.Killed = metrics.Tally(events)
		actions = append(actions, am)
		logEvents(e.id, events)

		state, err = session.Snapshot(ctx)
		if err != nil {
			return Result{}, fmt.Errorf("game %s: %w", e.id, err)
		}
	}

	gm.EndTime = time.Now()
	gm.Duration = gm.EndTime.Sub(gm.StartTime)
	gm.Winner = state.Winner()
	gm.Turns = min(state.Turn.Number, e.maxTurns)
	gm.TotalActions = len(actions)

	if gm.Winner != game.NoPlayer {
		log.Info().Str("game", e.id).Msgf("player %d wins after %d turns", gm.Winner, gm.Turns)
	} else {
		log.Info().Str("game", e.id).Msgf("stopped after %d turns (no winner)", e.maxTurns)
	}

	return Result{
		Winner:  gm.Winner,
		Game:    gm,
		Counts:  session.Metrics(),
		Actions: actions,
	}, nil
}

func logEvents(id string, events []game.Event) {
	for _, ev := range events {
		switch ev.Type {
		case game.TurnStarted:
			log.Debug().Str("game", id).Msgf("turn %d: player %d", ev.Turn, ev.Player)
		case game.UnitDestroyed:
			log.Debug().Str("game", id).Msgf("unit %d of player %d destroyed at %s", ev.Unit, ev.Player, ev.From)
		case game.PlayerDefeated:
			log.Info().Str("game", id).Msgf("player %d defeated", ev.Player)
		}
	}
}
