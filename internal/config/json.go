package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig mirrors [ClientConfig] with JSON tags and the
// [Duration] wrapper so duration fields accept human-readable strings like
// "30s" or "5m".
type StructuredJSONConfig struct {
	Backend struct {
		URL            string   `json:"url"`
		RequestTimeout Duration `json:"request_timeout"`
		UploadTimeout  Duration `json:"upload_timeout"`
	} `json:"backend,omitempty"`

	Realtime struct {
		ReconnectMinDelay Duration `json:"reconnect_min_delay"`
		ReconnectMaxDelay Duration `json:"reconnect_max_delay"`
	} `json:"realtime,omitempty"`

	Session struct {
		Path string `json:"path"`
	} `json:"session,omitempty"`

	Cache struct {
		Path string `json:"path"`
	} `json:"cache,omitempty"`

	Workers struct {
		RefreshInterval Duration `json:"refresh_interval"`
	} `json:"workers,omitempty"`

	Upload struct {
		MaxImageBytes int64 `json:"max_image_bytes"`
	} `json:"upload,omitempty"`
}

func parseJSON(jsonFilePath string) (*ClientConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &ClientConfig{
		Backend: Backend{
			URL:            jsonCfg.Backend.URL,
			RequestTimeout: time.Duration(jsonCfg.Backend.RequestTimeout),
			UploadTimeout:  time.Duration(jsonCfg.Backend.UploadTimeout),
		},
		Realtime: Realtime{
			ReconnectMinDelay: time.Duration(jsonCfg.Realtime.ReconnectMinDelay),
			ReconnectMaxDelay: time.Duration(jsonCfg.Realtime.ReconnectMaxDelay),
		},
		Session: Session{
			Path: jsonCfg.Session.Path,
		},
		Cache: Cache{
			Path: jsonCfg.Cache.Path,
		},
		Workers: Workers{
			RefreshInterval: time.Duration(jsonCfg.Workers.RefreshInterval),
		},
		Upload: Upload{
			MaxImageBytes: jsonCfg.Upload.MaxImageBytes,
		},
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON
// unmarshaling from strings like "1h", "30s".
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
