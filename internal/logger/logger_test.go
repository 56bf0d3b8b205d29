package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"git.sr.ht/~jakintosh/todo/internal/logger"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Options{Level: zerolog.InfoLevel, Output: &buf})

	log.Debug().Msg("hidden")
	log.Info().Int64("id", 1).Msg("created")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "created", entry["message"])
	assert.Equal(t, "todo", entry["app"])
	assert.Equal(t, float64(1), entry["id"])
	assert.NotContains(t, buf.String(), "hidden")
}

func TestParseLevel(t *testing.T) {
	lvl, err := logger.ParseLevel("")
	require.NoError(t, err)
	assert.Equal(t, zerolog.InfoLevel, lvl)

	lvl, err = logger.ParseLevel("debug")
	require.NoError(t, err)
	assert.Equal(t, zerolog.DebugLevel, lvl)

	_, err = logger.ParseLevel("loud")
	assert.Error(t, err)
}

func TestContextRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Options{Level: zerolog.InfoLevel, Output: &buf})

	ctx := logger.WithContext(context.Background(), log)
	logger.FromContext(ctx).Info().Msg("from ctx")
	assert.Contains(t, buf.String(), "from ctx")

	// no logger in ctx: must not panic or write
	logger.FromContext(context.Background()).Info().Msg("dropped")
	assert.NotContains(t, buf.String(), "dropped")
}
