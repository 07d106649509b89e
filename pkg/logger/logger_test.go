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
	assert.Equal(t, zerolog.WarnLevel, ParseLevel(" warn "))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel(""))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("nonsense"))
}

func TestNewWritesJSONWithService(t *testing.T) {
	var buf bytes.Buffer
	log := New("allocation", Config{Env: "production", Level: "info", Output: &buf})

	log.Debug().Msg("hidden")
	log.Info().Str("sku", "RED-CHAIR").Msg("allocated")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "allocation", entry["service"])
	assert.Equal(t, "RED-CHAIR", entry["sku"])
	assert.Equal(t, "allocated", entry["message"])
}
