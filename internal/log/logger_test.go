package log

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithComponent_JSON(t *testing.T) {
	var buf bytes.Buffer
	Configure(Config{Level: "debug", Output: &buf, JSON: true})
	t.Cleanup(func() { Configure(Config{}) })

	l := WithComponent("extract")
	l.Debug().Str("url", "http://cnn.com/").Msg("downloading webpage")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "extract", entry["component"])
	assert.Equal(t, "debug", entry["level"])
	assert.Equal(t, "downloading webpage", entry["message"])
}

func TestConfigure_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	Configure(Config{Level: "warn", Output: &buf, JSON: true})
	t.Cleanup(func() { Configure(Config{}) })

	l := Base()
	l.Info().Msg("hidden")
	assert.Zero(t, buf.Len())

	l.Warn().Msg("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestConfigure_BadLevelFallsBack(t *testing.T) {
	var buf bytes.Buffer
	Configure(Config{Level: "chatty", Output: &buf, JSON: true})
	t.Cleanup(func() { Configure(Config{}) })

	l := Base()
	l.Debug().Msg("hidden")
	l.Warn().Msg("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}
