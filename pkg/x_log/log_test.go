package x_log_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rskv-p/searchlab/pkg/x_log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit(t *testing.T) {
	x_log.Init()
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}

func TestInitWithConfig_Level(t *testing.T) {
	x_log.InitWithConfig(&x_log.Config{Level: "debug"}, "test")
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())

	x_log.InitWithConfig(&x_log.Config{Level: "bogus"}, "test")
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}

func TestNew_ModuleField(t *testing.T) {
	var buf bytes.Buffer
	logger := x_log.New("hash").Output(&buf)
	logger.Info().Str("key", "1234").Msg("inserted")

	assert.Contains(t, buf.String(), `"module":"hash"`)
	assert.Contains(t, buf.String(), `"key":"1234"`)
}

func TestContextLogger(t *testing.T) {
	var buf bytes.Buffer
	l := zerolog.New(&buf).With().Str("req", "r1").Logger()
	ctx := x_log.WithLogger(context.Background(), &l)

	x_log.From(ctx).Info().Msg("scoped")
	assert.Contains(t, buf.String(), `"req":"r1"`)

	assert.Equal(t, &log.Logger, x_log.From(context.Background()))
}

func TestFileLogging(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	x_log.InitWithConfig(&x_log.Config{Level: "info", ToFile: true, LogFile: path}, "file")
	x_log.Info().Msg("to file")
	require.NoError(t, x_log.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "to file")
	assert.Contains(t, string(data), `"module":"file"`)
}
