package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"tactics/meta"
)

type RecordsConfig struct {
	Dir    string `json:"dir" mapstructure:"dir"`       // CSV output, disabled when empty
	SQLite string `json:"sqlite" mapstructure:"sqlite"` // database file, disabled when empty
}

type Config struct {
	LogLevel     string        `json:"logLevel" mapstructure:"logLevel"`
	PrettyLog    bool          `json:"prettyLog" mapstructure:"prettyLog"`
	RulesFile    string        `json:"rulesFile" mapstructure:"rulesFile"`
	ScenarioFile string        `json:"scenarioFile" mapstructure:"scenarioFile"`
	Games        int           `json:"games" mapstructure:"games"`
	MaxTurns     int           `json:"maxTurns" mapstructure:"maxTurns"`
	Seed         uint64        `json:"seed" mapstructure:"seed"`
	Records      RecordsConfig `json:"records" mapstructure:"records"`
}

// Load reads tactics.yaml from configDir on top of the defaults. A missing
// file is not an error. Environment variables such as TACTICS_GAMES or
// TACTICS_RECORDS_DIR override both.
func Load(configDir string) error {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("prettyLog", true)
	viper.SetDefault("rulesFile", "")
	viper.SetDefault("scenarioFile", "")
	viper.SetDefault("games", meta.GAMES)
	viper.SetDefault("maxTurns", meta.MAX_TURNS)
	viper.SetDefault("seed", meta.SEED)

	viper.SetDefault("records.dir", "./records")
	viper.SetDefault("records.sqlite", "")

	viper.SetEnvPrefix(meta.APP_NAME)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetConfigName(meta.CONFIG_NAME)
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configDir)

	err := viper.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	if err != nil && !errors.As(err, &notFound) {
		return fmt.Errorf("error reading config file: %v", err)
	}

	return nil
}

// Get decodes the loaded configuration.
func Get() (Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("error decoding config: %v", err)
	}
	if cfg.Games < 0 {
		return Config{}, fmt.Errorf("games must not be negative, got %d", cfg.Games)
	}
	if cfg.MaxTurns <= 0 {
		return Config{}, fmt.Errorf("maxTurns must be positive, got %d", cfg.MaxTurns)
	}
	return cfg, nil
}

// Set overrides a single key, e.g. from a command line flag.
func Set(key string, value any) {
	viper.Set(key, value)
}
