package search_cfg

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/mitchellh/mapstructure"
)

const (
	envPath     = "SEARCH_CFG"
	defaultPath = "./searchlab.json"
)

// Load reads the JSON config at path, SEARCH_CFG or ./searchlab.json.
// A missing file silently yields defaults. SEARCH_* variables override the result.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		if p := os.Getenv(envPath); p != "" {
			path = p
		} else {
			path = defaultPath
		}
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	default:
		var raw map[string]any
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
		if err := decode(raw, &cfg); err != nil {
			return nil, fmt.Errorf("decode config %s: %w", path, err)
		}
	}

	applyEnv(&cfg)
	return &cfg, nil
}

// decode merges raw over cfg; absent keys keep their defaults.
func decode(raw map[string]any, cfg *Config) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
		WeaklyTypedInput: true,
		Result:           cfg,
	})
	if err != nil {
		return err
	}
	return dec.Decode(raw)
}

// applyEnv overrides selected fields from SEARCH_* variables.
func applyEnv(cfg *Config) {
	set := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}
	set("SEARCH_HTTP_ADDRESS", &cfg.HTTPAddress)
	set("SEARCH_LOG_LEVEL", &cfg.Log.Level)
	set("SEARCH_DB_DSN", &cfg.DB.DSN)
	set("SEARCH_AUTH_SECRET", &cfg.Auth.Secret)
	set("SEARCH_NATS_URL", &cfg.NATS.URL)
	if v, ok := os.LookupEnv("SEARCH_AUTH_ENABLED"); ok {
		cfg.Auth.Enabled = strings.EqualFold(v, "true") || v == "1"
	}
}
