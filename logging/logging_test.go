package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, zerolog.WarnLevel, ParseLevel("WARN"))
	assert.Equal(t, zerolog.Disabled, ParseLevel("off"))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("verbose"), "Unknown levels fall back to info")
}

func TestSetup(t *testing.T) {
	prevLogger, prevLevel := log.Logger, zerolog.GlobalLevel()
	t.Cleanup(func() {
		log.Logger = prevLogger
		zerolog.SetGlobalLevel(prevLevel)
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		Setup(&buf, "warn", false)
		log.Info().Msg("hidden")
		log.Warn().Str("game", "g1").Msg("shown")

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry), "Only the warning is written, as one JSON line")
		assert.Equal(t, "shown", entry["message"])
		assert.Equal(t, "g1", entry["game"])
		assert.Contains(t, entry, "time")
	})

	t.Run("pretty", func(t *testing.T) {
		var buf bytes.Buffer
		Setup(&buf, "info", true)
		log.Info().Msg("hello")
		assert.Contains(t, buf.String(), "hello")
		assert.NotContains(t, buf.String(), `"message"`)
	})
}
