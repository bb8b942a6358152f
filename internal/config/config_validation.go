package config

import (
	"fmt"
	"net/url"
	"strings"
)

// validate checks the merged configuration for internal consistency.
// Defaults have already been merged in, so any remaining zero value is a
// genuine misconfiguration.
func (c *ClientConfig) validate() error {
	if err := c.validateBackend(); err != nil {
		return err
	}
	if err := c.validateRealtime(); err != nil {
		return err
	}
	if c.Workers.RefreshInterval <= 0 {
		return fmt.Errorf("%w: refresh interval must be positive", ErrInvalidWorkerConfigs)
	}
	if c.Upload.MaxImageBytes <= 0 {
		return fmt.Errorf("%w: max image bytes must be positive", ErrInvalidUploadConfigs)
	}
	return nil
}

func (c *ClientConfig) validateBackend() error {
	raw := strings.TrimSpace(c.Backend.URL)
	if raw == "" {
		return fmt.Errorf("%w: empty backend url", ErrInvalidBackendConfigs)
	}

	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: backend url must include scheme and host", ErrInvalidBackendConfigs)
	}

	if c.Backend.RequestTimeout <= 0 {
		return fmt.Errorf("%w: request timeout must be positive", ErrInvalidBackendConfigs)
	}
	if c.Backend.UploadTimeout < c.Backend.RequestTimeout {
		return fmt.Errorf("%w: upload timeout must not be lower than request timeout", ErrInvalidBackendConfigs)
	}
	return nil
}

func (c *ClientConfig) validateRealtime() error {
	if c.Realtime.ReconnectMinDelay <= 0 {
		return fmt.Errorf("%w: reconnect min delay must be positive", ErrInvalidRealtimeConfigs)
	}
	if c.Realtime.ReconnectMaxDelay < c.Realtime.ReconnectMinDelay {
		return fmt.Errorf("%w: reconnect max delay below min delay", ErrInvalidRealtimeConfigs)
	}
	return nil
}
