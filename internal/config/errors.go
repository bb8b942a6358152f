package config

import "errors"

// Validation errors returned by [ClientConfig.validate] when required
// configuration groups are incomplete or invalid.
var (
	// ErrInvalidBackendConfigs indicates invalid backend settings
	// (for example, missing URL or non-positive timeouts).
	ErrInvalidBackendConfigs = errors.New("invalid backend configuration")
	// ErrInvalidRealtimeConfigs indicates invalid realtime reconnection
	// settings (for example, min delay exceeding max delay).
	ErrInvalidRealtimeConfigs = errors.New("invalid realtime configuration")
	// ErrInvalidWorkerConfigs indicates invalid background refresh
	// settings (for example, zero refresh interval).
	ErrInvalidWorkerConfigs = errors.New("invalid worker configuration")
	// ErrInvalidUploadConfigs indicates invalid upload ceilings.
	ErrInvalidUploadConfigs = errors.New("invalid upload configuration")
)
