package experiments

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"tactics/engine"
	"tactics/experiments/metrics"
	"tactics/game"
	"tactics/game/scenario"
)

// Batch runs a number of random-vs-random games on one scenario.
type Batch struct {
	Scenario   *scenario.Scenario
	Rules      game.Rules
	Games      int
	MaxTurns   int
	Seed       uint64
	RecordsDir string // CSV output, skipped when empty
	SQLitePath string // database output, skipped when empty
}

type Summary struct {
	Games   int
	Wins    map[game.PlayerID]int
	Draws   int // games stopped at the turn limit
	Records []metrics.GameRecord
	Dir     string // folder the CSV files went to
}

// Run plays every game of the batch and stores the records.
func Run(ctx context.Context, b Batch) (Summary, error) {
	summary := Summary{Wins: map[game.PlayerID]int{}}

	firstID := 1
	var store *metrics.Store
	if b.SQLitePath != "" {
		var err error
		store, err = metrics.OpenStore(b.SQLitePath)
		if err != nil {
			return summary, err
		}
		defer store.Close()
		if firstID, err = store.NextGameID(); err != nil {
			return summary, err
		}
	}

	log.Info().Msgf("starting %d games of %s...", b.Games, b.Scenario.Name)

	var actionRecords []metrics.ActionRecord
	for i := 0; i < b.Games; i++ {
		id := firstID + i
		seed := b.Seed + uint64(i)

		res, err := runGame(ctx, b, id, seed)
		if err != nil {
			return summary, err
		}

		record := metrics.GameRecord{
			ID:         id,
			Scenario:   b.Scenario.Name,
			Seed:       int64(seed),
			Counts:     res.Counts,
			GameMetric: res.Game,
		}
		actions := make([]metrics.ActionRecord, len(res.Actions))
		for j, am := range res.Actions {
			actions[j] = metrics.ActionRecord{Game: id, ActionMetric: am}
		}

		if store != nil {
			if err := store.SaveGame(record, actions); err != nil {
				return summary, err
			}
		}
		summary.Records = append(summary.Records, record)
		actionRecords = append(actionRecords, actions...)
		summary.Games++
		if res.Winner == game.NoPlayer {
			summary.Draws++
		} else {
			summary.Wins[res.Winner]++
		}

		log.Info().Msgf("completed game %d of %d with winner: %d", i+1, b.Games, res.Winner)
	}

	if b.RecordsDir != "" {
		writer, err := metrics.NewWriter(b.RecordsDir)
		if err != nil {
			return summary, err
		}
		if err := writer.WriteGameRecords(summary.Records); err != nil {
			return summary, err
		}
		if err := writer.WriteActionRecords(actionRecords); err != nil {
			return summary, err
		}
		summary.Dir = writer.Dir()
		log.Info().Str("dir", summary.Dir).Msg("stored game records")
	}

	return summary, nil
}

func runGame(ctx context.Context, b Batch, id int, seed uint64) (engine.Result, error) {
	gs, err := b.Scenario.Build(b.Rules)
	if err != nil {
		return engine.Result{}, err
	}

	agents := make(map[game.PlayerID]engine.Agent, len(gs.Players))
	for j, p := range gs.Players {
		agents[p] = engine.NewRandomAgent(seed*uint64(len(gs.Players)) + uint64(j))
	}

	opts := []engine.Option{}
	if b.MaxTurns > 0 {
		opts = append(opts, engine.WithMaxTurns(b.MaxTurns))
	}
	e, err := engine.LocalEngine(fmt.Sprintf("%s-%d", b.Scenario.Name, id), gs, agents, opts...)
	if err != nil {
		return engine.Result{}, err
	}
	return e.Run(ctx)
}
