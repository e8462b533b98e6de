package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_WithValidConfigFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	cfg := `
logLevel: debug
scenarioFile: ./scenarios/ford.toml
games: 50
seed: 99
records:
  sqlite: ./records.db
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tactics.yaml"), []byte(cfg), 0644))

	require.NoError(t, Load(dir))

	got, err := Get()
	require.NoError(t, err)
	assert.Equal(t, "debug", got.LogLevel)
	assert.Equal(t, "./scenarios/ford.toml", got.ScenarioFile)
	assert.Equal(t, 50, got.Games)
	assert.Equal(t, uint64(99), got.Seed)
	assert.Equal(t, "./records.db", got.Records.SQLite)
	assert.Equal(t, "./records", got.Records.Dir, "Nested defaults survive a partial section")
}

func TestLoad_DefaultValues(t *testing.T) {
	t.Cleanup(viper.Reset)

	require.NoError(t, Load(t.TempDir()), "A missing config file is fine")

	got, err := Get()
	require.NoError(t, err)
	assert.Equal(t, Config{
		LogLevel:  "info",
		PrettyLog: true,
		Games:     10,
		MaxTurns:  300,
		Seed:      1,
		Records:   RecordsConfig{Dir: "./records"},
	}, got)
}

func TestLoad_InvalidFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tactics.yaml"), []byte("games: [1, 2\n"), 0644))

	err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Cleanup(viper.Reset)
	t.Setenv("TACTICS_GAMES", "7")
	t.Setenv("TACTICS_RECORDS_DIR", "/tmp/out")

	require.NoError(t, Load(t.TempDir()))
	got, err := Get()
	require.NoError(t, err)
	assert.Equal(t, 7, got.Games)
	assert.Equal(t, "/tmp/out", got.Records.Dir)
}

func TestSet(t *testing.T) {
	t.Cleanup(viper.Reset)
	require.NoError(t, Load(t.TempDir()))

	Set("maxTurns", 0)
	_, err := Get()
	require.Error(t, err, "maxTurns must be positive")

	Set("maxTurns", 20)
	got, err := Get()
	require.NoError(t, err)
	assert.Equal(t, 20, got.MaxTurns)
}
