package x_log_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rskv-p/searchlab/pkg/x_log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Missing(t *testing.T) {
	cfg, err := x_log.LoadConfig(filepath.Join(t.TempDir(), "none.json"))
	require.NoError(t, err)
	assert.Equal(t, x_log.DefaultConfig(), *cfg)
}

func TestLoadConfig_FillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "xlog.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"level":"debug","to_file":true}`), 0o600))

	cfg, err := x_log.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Level)
	assert.True(t, cfg.ToFile)
	assert.False(t, cfg.ToConsole)
	assert.Equal(t, "dark", cfg.Style)
	assert.Equal(t, 10, cfg.MaxSize)
}

func TestLoadConfig_Env(t *testing.T) {
	path := filepath.Join(t.TempDir(), "env.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"style":"light"}`), 0o600))
	t.Setenv("XLOG_CONFIG", path)

	cfg, err := x_log.LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "light", cfg.Style)
	assert.True(t, cfg.ToConsole)
}

func TestLoadConfig_BadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{`), 0o600))
	_, err := x_log.LoadConfig(path)
	assert.Error(t, err)
}
