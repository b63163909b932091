package config

import (
	"bytes"
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"API_BASE", "LOG_LEVEL", "HTTP_TIMEOUT", "DEBUG", "METRICS_ADDR"} {
		// Register restoration, then unset: envconfig treats an empty value as set.
		t.Setenv("ROADWATCH_"+k, "")
		require.NoError(t, os.Unsetenv("ROADWATCH_"+k))
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "", cfg.APIBase)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
	assert.False(t, cfg.Debug)
	assert.Equal(t, "", cfg.MetricsAddr)
	assert.Equal(t, zerolog.InfoLevel, cfg.Level())
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("ROADWATCH_API_BASE", "http://localhost:8000/")
	t.Setenv("ROADWATCH_HTTP_TIMEOUT", "5s")
	t.Setenv("ROADWATCH_LOG_LEVEL", "WARN")
	t.Setenv("ROADWATCH_METRICS_ADDR", ":9102")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8000", cfg.APIBase)
	assert.Equal(t, 5*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, ":9102", cfg.MetricsAddr)
	assert.Equal(t, zerolog.WarnLevel, cfg.Level())
}

func TestLoad_InvalidValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("ROADWATCH_HTTP_TIMEOUT", "soon")
	_, err := Load()
	require.Error(t, err)

	t.Setenv("ROADWATCH_HTTP_TIMEOUT", "0s")
	_, err = Load()
	require.Error(t, err)
}

func TestLevel_DebugWinsAndUnknownFallsBack(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, (&Config{LogLevel: "error", Debug: true}).Level())
	assert.Equal(t, zerolog.InfoLevel, (&Config{LogLevel: "chatty"}).Level())
	assert.Equal(t, zerolog.InfoLevel, (&Config{LogLevel: ""}).Level())
}

func TestInitLogger_PlainText(t *testing.T) {
	prev := log.Logger
	prevLevel := zerolog.GlobalLevel()
	t.Cleanup(func() {
		log.Logger = prev
		zerolog.SetGlobalLevel(prevLevel)
	})

	var buf bytes.Buffer
	initLogger(&buf)
	SetLogLevel(zerolog.InfoLevel)
	log.Debug().Msg("hidden")
	log.Info().Str("k", "v").Msg("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "k=v")
	assert.NotContains(t, out, "\x1b[")
}
