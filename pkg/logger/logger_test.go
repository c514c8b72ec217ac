package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &m), buf.String())
	return m
}

func TestNew_JSONFields(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "debug", Format: "json", Output: &buf})

	log.WithComponent("scan").WithUserID("").WithError(errors.New("boom")).Info().Msg("hello")

	m := decodeLine(t, &buf)
	assert.Equal(t, "hello", m["message"])
	assert.Equal(t, "scan", m["component"])
	assert.Equal(t, "anonymous", m["user_id"])
	assert.Equal(t, "boom", m["error"])
	assert.Equal(t, "info", m["level"])
}

func TestNew_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "warn", Format: "json", Output: &buf})

	log.Info().Msg("dropped")
	assert.Zero(t, buf.Len())

	log.WithRequestID("req-1").Warn().Msg("kept")
	assert.Equal(t, "req-1", decodeLine(t, &buf)["request_id"])
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zerolog.WarnLevel, parseLevel("warning"))
	assert.Equal(t, zerolog.InfoLevel, parseLevel("verbose"))
}

func TestPresets(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, NewDevelopment().GetLevel())
	assert.Equal(t, zerolog.InfoLevel, NewProduction().GetLevel())
}

func TestNop(t *testing.T) {
	assert.NotPanics(t, func() {
		NewNop().WithComponent("x").Error().Msg("nothing")
	})
}

func TestGlobal(t *testing.T) {
	prev := Global()
	t.Cleanup(func() { SetGlobal(prev) })

	l := NewNop()
	SetGlobal(l)
	assert.Same(t, l, Global())
}
