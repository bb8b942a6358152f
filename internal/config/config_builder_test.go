package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigBuilder_DefaultsOnly(t *testing.T) {
	cfg, err := newConfigBuilder().withDefaults().build()

	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8090", cfg.Backend.URL)
	assert.Equal(t, 10*time.Second, cfg.Backend.RequestTimeout)
	assert.Equal(t, 30*time.Second, cfg.Backend.UploadTimeout)
	assert.Equal(t, 5*time.Minute, cfg.Workers.RefreshInterval)
	assert.Equal(t, int64(5<<20), cfg.Upload.MaxImageBytes)
}

func TestConfigBuilder_EnvWinsOverDefaults(t *testing.T) {
	t.Setenv("BACKEND_URL", "https://media.example.org")
	t.Setenv("WORKERS_REFRESH_INTERVAL", "90s")

	cfg, err := newConfigBuilder().withEnv().withDefaults().build()

	require.NoError(t, err)
	assert.Equal(t, "https://media.example.org", cfg.Backend.URL)
	assert.Equal(t, 90*time.Second, cfg.Workers.RefreshInterval)
	// untouched fields fall through to defaults
	assert.Equal(t, 10*time.Second, cfg.Backend.RequestTimeout)
}

func TestConfigBuilder_ValidationFailure(t *testing.T) {
	t.Setenv("BACKEND_URL", "not a url")

	_, err := newConfigBuilder().withEnv().withDefaults().build()

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidBackendConfigs)
}

func TestValidate_RealtimeDelays(t *testing.T) {
	cfg := defaultConfig()
	cfg.Realtime.ReconnectMaxDelay = cfg.Realtime.ReconnectMinDelay - time.Millisecond

	err := cfg.validate()

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidRealtimeConfigs)
}

func TestValidate_UploadBelowRequestTimeout(t *testing.T) {
	cfg := defaultConfig()
	cfg.Backend.UploadTimeout = cfg.Backend.RequestTimeout - time.Second

	err := cfg.validate()

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidBackendConfigs)
}
