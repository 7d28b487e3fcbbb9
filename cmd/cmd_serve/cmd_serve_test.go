package cmd_serve_test

import (
	"context"
	"testing"
	"time"

	"github.com/nats-io/nuid"
	"github.com/rskv-p/searchlab/cmd/cmd_serve"
	"github.com/rskv-p/searchlab/servs/s_search/search_cfg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_StopsOnCancel(t *testing.T) {
	cfg := search_cfg.Default()
	cfg.HTTPAddress = "127.0.0.1:0"
	cfg.DB.DSN = "file:" + nuid.Next() + "?mode=memory&cache=shared"
	cfg.DB.LogLevel = "silent"
	cfg.NATS.Embedded = true
	cfg.Auth.Enabled = true
	cfg.Auth.Secret = nuid.Next()
	cfg.Auth.Password = "pw"

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- cmd_serve.Run(ctx, &cfg) }()

	time.Sleep(300 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("Run did not return")
	}
}

func TestRun_AuthNeedsPassword(t *testing.T) {
	cfg := search_cfg.Default()
	cfg.DB.DSN = "file:" + nuid.Next() + "?mode=memory&cache=shared"
	cfg.Auth.Enabled = true
	cfg.Auth.Secret = nuid.Next()

	err := cmd_serve.Run(context.Background(), &cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "password")
}

func TestRun_AuthRefusesDefaultSecret(t *testing.T) {
	for _, secret := range []string{"", search_cfg.DefaultSecret} {
		cfg := search_cfg.Default()
		cfg.DB.DSN = "file:" + nuid.Next() + "?mode=memory&cache=shared"
		cfg.Auth.Enabled = true
		cfg.Auth.Secret = secret
		cfg.Auth.Password = "pw"

		err := cmd_serve.Run(context.Background(), &cfg)
		require.Error(t, err, "secret %q", secret)
		assert.Contains(t, err.Error(), "secret")
	}
}
