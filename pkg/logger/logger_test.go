package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, zerolog.WarnLevel, ParseLevel("warning"))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("???"))
}

func TestNew_JSONConServicio(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Env: "production", Level: "info", Service: "restobar-api", Out: &buf})

	l.Debug().Msg("no sale")
	c := l.Component("cash")
	c.Info().Str("shift_id", "s-1").Msg("turno abierto")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "restobar-api", line["service"])
	assert.Equal(t, "cash", line["component"])
	assert.Equal(t, "s-1", line["shift_id"])
	assert.Equal(t, "turno abierto", line["message"])
}
