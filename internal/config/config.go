package config

import (
	"time"
)

// ClientConfig is the top-level configuration container for the mediasync
// client. It aggregates all sub-configurations and is populated by merging
// values from environment variables, command-line flags, an optional JSON
// file, and built-in defaults (in that priority order, first source wins
// for non-zero fields).
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env: direct environment variable name for scalar fields.
type ClientConfig struct {
	// Backend holds the address and timeouts of the hosted collection API.
	Backend Backend `envPrefix:"BACKEND_"`

	// Realtime holds reconnection tuning for the live update channel.
	Realtime Realtime `envPrefix:"REALTIME_"`

	// Session holds the location of the persisted credential entry.
	Session Session `envPrefix:"SESSION_"`

	// Cache holds the local snapshot cache settings.
	Cache Cache `envPrefix:"CACHE_"`

	// Workers holds background refresh job settings.
	Workers Workers `envPrefix:"WORKERS_"`

	// Upload holds attachment size ceilings enforced before submission.
	Upload Upload `envPrefix:"UPLOAD_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// When non-empty, the file is parsed and merged below env and flag
	// values. Populated via the CONFIG environment variable or the
	// -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// Backend holds network settings for the hosted collection API.
type Backend struct {
	// URL is the base URL of the backend (e.g. "https://media.example.org").
	// Env: BACKEND_URL
	URL string `env:"URL"`

	// RequestTimeout bounds every read call (list, get, auth, delete).
	// Env: BACKEND_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`

	// UploadTimeout bounds multipart create calls, which carry audio
	// files and therefore need more headroom than reads.
	// Env: BACKEND_UPLOAD_TIMEOUT
	UploadTimeout time.Duration `env:"UPLOAD_TIMEOUT"`
}

// Realtime holds tuning for the websocket live update channel. The channel
// reconnects silently; these values only bound how aggressively.
type Realtime struct {
	// ReconnectMinDelay is the initial backoff after a dropped connection.
	// Env: REALTIME_RECONNECT_MIN_DELAY
	ReconnectMinDelay time.Duration `env:"RECONNECT_MIN_DELAY"`

	// ReconnectMaxDelay caps the backoff growth.
	// Env: REALTIME_RECONNECT_MAX_DELAY
	ReconnectMaxDelay time.Duration `env:"RECONNECT_MAX_DELAY"`
}

// Session holds the location of the one persisted credential entry.
type Session struct {
	// Path is the file the credential entry `{token, identity, timestamp}`
	// is written to. Absence or parse failure of the file is treated as
	// "not authenticated", never as a fatal error.
	// Env: SESSION_PATH
	Path string `env:"PATH"`
}

// Cache holds settings for the local snapshot cache.
type Cache struct {
	// Path is the SQLite database file holding the last confirmed
	// collection snapshots. ":memory:" selects an ephemeral cache.
	// Env: CACHE_PATH
	Path string `env:"PATH"`
}

// Workers holds background refresh job settings.
type Workers struct {
	// RefreshInterval is the period of the full re-fetch backstop.
	// Env: WORKERS_REFRESH_INTERVAL
	RefreshInterval time.Duration `env:"REFRESH_INTERVAL"`
}

// Upload holds client-side attachment ceilings. Audio is unbounded up to
// the server limit; cover images are capped locally so oversized files
// fail before the bytes leave the machine.
type Upload struct {
	// MaxImageBytes is the cover image ceiling in bytes.
	// Env: UPLOAD_MAX_IMAGE_BYTES
	MaxImageBytes int64 `env:"MAX_IMAGE_BYTES"`
}

// GetClientConfig loads, merges, and validates the client configuration
// from all available sources in the following priority order (first source
// wins for non-zero fields):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON file (path resolved from sources 1 and 2)
//  4. Built-in defaults
//
// Returns a fully populated *ClientConfig or an error if any source fails
// to load or the final config fails validation.
func GetClientConfig() (*ClientConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags().
		withJSON().
		withDefaults().
		build()
}
