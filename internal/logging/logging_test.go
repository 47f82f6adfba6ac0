package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/funstats/pkg/funstats/internalerr"
)

func restoreLogger(t *testing.T) {
	prev, prevLevel := log.Logger, zerolog.GlobalLevel()
	t.Cleanup(func() {
		log.Logger = prev
		zerolog.SetGlobalLevel(prevLevel)
	})
}

func TestSetupJSONComponent(t *testing.T) {
	restoreLogger(t)
	var buf bytes.Buffer
	require.NoError(t, SetupWriter(Config{Level: "info", Format: FormatJSON}, &buf))

	logger := Component("loader")
	logger.Info().Int("documents", 3).Msg("loaded")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "loader", entry["component"])
	assert.Equal(t, "loaded", entry["message"])
	assert.EqualValues(t, 3, entry["documents"])
}

func TestSetupLevelFilters(t *testing.T) {
	restoreLogger(t)
	var buf bytes.Buffer
	require.NoError(t, SetupWriter(Config{Level: "warn", Format: FormatJSON}, &buf))

	log.Info().Msg("hidden")
	assert.Empty(t, buf.String())
	log.Warn().Msg("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestSetupRejectsBadConfig(t *testing.T) {
	restoreLogger(t)
	var buf bytes.Buffer
	assert.ErrorIs(t, SetupWriter(Config{Level: "loud"}, &buf), internalerr.ErrInvalidConfig)
	assert.ErrorIs(t, SetupWriter(Config{Format: "xml"}, &buf), internalerr.ErrInvalidConfig)
}
