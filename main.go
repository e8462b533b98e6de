package main

import (
	"context"
	"flag"
	"os"
	"os/signal"

	"github.com/rs/zerolog/log"

	"tactics/config"
	"tactics/experiments"
	"tactics/game/scenario"
	"tactics/logging"
)

func main() {
	configDir := flag.String("config", ".", "Directory containing tactics.yaml")
	games := flag.Int("games", 0, "Number of games to play (overrides config)")
	seed := flag.Uint64("seed", 0, "Seed of the first game (overrides config)")
	maxTurns := flag.Int("turns", 0, "Player turn limit per game (overrides config)")
	flag.Parse()

	if err := config.Load(*configDir); err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "games":
			config.Set("games", *games)
		case "seed":
			config.Set("seed", *seed)
		case "turns":
			config.Set("maxTurns", *maxTurns)
		}
	})
	cfg, err := config.Get()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}
	logging.Setup(os.Stderr, cfg.LogLevel, cfg.PrettyLog)

	rules, err := scenario.LoadRules(cfg.RulesFile)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load rules")
	}
	s := scenario.Skirmish()
	if cfg.ScenarioFile != "" {
		if s, err = scenario.Load(cfg.ScenarioFile); err != nil {
			log.Fatal().Err(err).Msg("failed to load scenario")
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	summary, err := experiments.Run(ctx, experiments.Batch{
		Scenario:   s,
		Rules:      rules,
		Games:      cfg.Games,
		MaxTurns:   cfg.MaxTurns,
		Seed:       cfg.Seed,
		RecordsDir: cfg.Records.Dir,
		SQLitePath: cfg.Records.SQLite,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("batch failed")
	}

	for player, wins := range summary.Wins {
		log.Info().Msgf("player %d won %d of %d games", player, wins, summary.Games)
	}
	log.Info().Msgf("%d games hit the turn limit", summary.Draws)
}
