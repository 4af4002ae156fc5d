package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	// keep a developer's .env out of the test
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("OPENWEATHER_API_KEY", "ow-key")
	t.Setenv("OPENCAGE_API_KEY", "oc-key")
	t.Setenv("ANTHROPIC_API_KEY", "an-key")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, "opencage", cfg.Geocoder)
	assert.Equal(t, "anthropic", cfg.Responder)
	assert.Equal(t, "sqlite", cfg.StoreDriver)
	assert.Equal(t, "weather_chat.db", cfg.DatabasePath)
	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 100, cfg.RecordsMaxLimit)
	assert.Equal(t, "ow-key", cfg.OpenWeatherAPIKey)
}

func TestLoadEnvOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("RESPONDER", "ollama")
	t.Setenv("OLLAMA_URL", "http://ollama:11434")
	t.Setenv("HTTP_TIMEOUT", "3s")
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("RECORDS_MAX_LIMIT", "10")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "ollama", cfg.Responder)
	assert.Equal(t, "http://ollama:11434", cfg.OllamaURL)
	assert.Equal(t, 3*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "memory", cfg.StoreDriver)
	assert.Equal(t, 10, cfg.RecordsMaxLimit)
}

func TestLoadInvalid(t *testing.T) {
	tests := map[string]map[string]string{
		"bad duration":        {"HTTP_TIMEOUT": "soon"},
		"unknown geocoder":    {"GEOCODER": "bing"},
		"unknown responder":   {"RESPONDER": "gpt"},
		"google without key":  {"GEOCODER": "google"},
		"missing weather key": {"OPENWEATHER_API_KEY": ""},
		"bad port":            {"PORT": "http"},
	}
	for name, env := range tests {
		t.Run(name, func(t *testing.T) {
			setRequiredEnv(t)
			for k, v := range env {
				t.Setenv(k, v)
			}

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoadFile(t *testing.T) {
	setRequiredEnv(t)

	path := filepath.Join(t.TempDir(), "chat.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: "7070"
geocoder: google
google_geocoder_api_key: g-key
request_timeout: 45s
log_level: debug
`), 0o600))
	t.Setenv("CHAT_CONFIG_FILE", path)
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "7070", cfg.Port)
	assert.Equal(t, "google", cfg.Geocoder)
	assert.Equal(t, "g-key", cfg.GoogleAPIKey)
	assert.Equal(t, 45*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "warn", cfg.LogLevel, "environment wins over the file")
}
