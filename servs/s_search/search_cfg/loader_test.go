package search_cfg_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rskv-p/searchlab/servs/s_search/search_cfg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := search_cfg.Load(filepath.Join(t.TempDir(), "missing.json"))
	require.NoError(t, err)
	assert.Equal(t, search_cfg.Default(), *cfg)
}

func TestLoad_MergesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "searchlab.json")
	body := `{
		"http_address": ":9000",
		"log": {"level": "debug"},
		"auth": {"enabled": true, "token_ttl": "30m"},
		"rate_limit": {"rps": "5"},
		"tree": {"m": 3},
		"cors_origins": "http://a,http://b"
	}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	cfg, err := search_cfg.Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.HTTPAddress)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Log.ToConsole)
	assert.True(t, cfg.Auth.Enabled)
	assert.Equal(t, 30*time.Minute, cfg.Auth.TokenTTL)
	assert.Equal(t, "admin", cfg.Auth.Admin)
	assert.Equal(t, 5.0, cfg.RateLimit.RPS)
	assert.Equal(t, 20, cfg.RateLimit.Burst)
	assert.Equal(t, 3, cfg.Tree.M)
	assert.Equal(t, 1000, cfg.Tree.Size)
	assert.Equal(t, []string{"http://a", "http://b"}, cfg.CORSOrigins)
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "env.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"http_address": ":9000"}`), 0o600))
	t.Setenv("SEARCH_CFG", path)
	t.Setenv("SEARCH_HTTP_ADDRESS", ":9100")
	t.Setenv("SEARCH_AUTH_ENABLED", "true")

	cfg, err := search_cfg.Load("")
	require.NoError(t, err)
	assert.Equal(t, ":9100", cfg.HTTPAddress)
	assert.True(t, cfg.Auth.Enabled)
}

func TestLoad_BadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"http_address":`), 0o600))
	_, err := search_cfg.Load(path)
	assert.Error(t, err)
}

func TestAuthConfig_Validate(t *testing.T) {
	a := search_cfg.Default().Auth
	assert.NoError(t, a.Validate())

	a.Enabled = true
	a.Password = "pw"
	assert.Error(t, a.Validate())
	a.Secret = ""
	assert.Error(t, a.Validate())

	a.Secret = "s3cret"
	assert.NoError(t, a.Validate())
	a.Password = ""
	assert.ErrorContains(t, a.Validate(), "password")
}
