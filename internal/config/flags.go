package config

import (
	"flag"
	"time"
)

// ParseFlags parses all configuration flags from args (normally
// os.Args[1:]).
//
// Flags:
//
//	-backend-url backend base URL
//	-request-timeout read request timeout (e.g., "10s")
//	-upload-timeout multipart upload timeout (e.g., "30s")
//	-session-path persisted credential file path
//	-cache-path local snapshot cache file path
//	-refresh-interval periodic refresh interval (e.g., "5m")
//	-c/-config json file path with configs
func ParseFlags(args []string) *ClientConfig {
	fs := flag.NewFlagSet("mediasync", flag.ContinueOnError)

	var backendURL string
	var requestTimeout time.Duration
	var uploadTimeout time.Duration
	var sessionPath string
	var cachePath string
	var refreshInterval time.Duration
	var jsonConfigPath string

	fs.StringVar(&backendURL, "backend-url", "", "Backend base URL")
	fs.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 10s)")
	fs.DurationVar(&uploadTimeout, "upload-timeout", 0, "Upload timeout (e.g., 30s)")
	fs.StringVar(&sessionPath, "session-path", "", "Persisted credential file path")
	fs.StringVar(&cachePath, "cache-path", "", "Snapshot cache file path")
	fs.DurationVar(&refreshInterval, "refresh-interval", 0, "Periodic refresh interval (e.g., 5m)")
	fs.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	fs.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")

	// parse errors leave the affected flags at their zero value, which the
	// merge step treats as "not set"
	_ = fs.Parse(args)

	return &ClientConfig{
		Backend: Backend{
			URL:            backendURL,
			RequestTimeout: requestTimeout,
			UploadTimeout:  uploadTimeout,
		},
		Session: Session{
			Path: sessionPath,
		},
		Cache: Cache{
			Path: cachePath,
		},
		Workers: Workers{
			RefreshInterval: refreshInterval,
		},
		JSONFilePath: jsonConfigPath,
	}
}
