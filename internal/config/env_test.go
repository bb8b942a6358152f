package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnv_AllFields(t *testing.T) {
	// Arrange
	envVars := map[string]string{
		"CONFIG": "/path/to/config.json",

		"BACKEND_URL":             "https://media.example.org",
		"BACKEND_REQUEST_TIMEOUT": "10s",
		"BACKEND_UPLOAD_TIMEOUT":  "30s",

		"REALTIME_RECONNECT_MIN_DELAY": "1s",
		"REALTIME_RECONNECT_MAX_DELAY": "30s",

		"SESSION_PATH": "/var/lib/mediasync/credential.json",
		"CACHE_PATH":   "/var/lib/mediasync/cache.db",

		"WORKERS_REFRESH_INTERVAL": "5m",
		"UPLOAD_MAX_IMAGE_BYTES":   "5242880",
	}
	for k, v := range envVars {
		t.Setenv(k, v)
	}

	// Act
	cfg := &ClientConfig{}
	err := parseEnv(cfg)

	// Assert
	require.NoError(t, err)

	assert.Equal(t, "/path/to/config.json", cfg.JSONFilePath)

	assert.Equal(t, "https://media.example.org", cfg.Backend.URL)
	assert.Equal(t, 10*time.Second, cfg.Backend.RequestTimeout)
	assert.Equal(t, 30*time.Second, cfg.Backend.UploadTimeout)

	assert.Equal(t, time.Second, cfg.Realtime.ReconnectMinDelay)
	assert.Equal(t, 30*time.Second, cfg.Realtime.ReconnectMaxDelay)

	assert.Equal(t, "/var/lib/mediasync/credential.json", cfg.Session.Path)
	assert.Equal(t, "/var/lib/mediasync/cache.db", cfg.Cache.Path)

	assert.Equal(t, 5*time.Minute, cfg.Workers.RefreshInterval)
	assert.Equal(t, int64(5242880), cfg.Upload.MaxImageBytes)
}

func TestParseEnv_PartialFields(t *testing.T) {
	// Arrange
	t.Setenv("BACKEND_URL", "http://localhost:8090")
	t.Setenv("WORKERS_REFRESH_INTERVAL", "1m")

	// Act
	cfg := &ClientConfig{}
	err := parseEnv(cfg)

	// Assert
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8090", cfg.Backend.URL)
	assert.Zero(t, cfg.Backend.RequestTimeout)
	assert.Equal(t, time.Minute, cfg.Workers.RefreshInterval)
	assert.Empty(t, cfg.Session.Path)
	assert.Empty(t, cfg.Cache.Path)
}

func TestParseEnv_InvalidDuration(t *testing.T) {
	t.Setenv("BACKEND_REQUEST_TIMEOUT", "not-a-duration")

	cfg := &ClientConfig{}
	err := parseEnv(cfg)

	require.Error(t, err)
}
