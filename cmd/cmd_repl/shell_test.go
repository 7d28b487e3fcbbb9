package cmd_repl_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rskv-p/searchlab/cmd/cmd_repl"
	"github.com/rskv-p/searchlab/pkg/x_search"
	"github.com/rskv-p/searchlab/servs/s_search/search_cfg"
	"github.com/rskv-p/searchlab/servs/s_search/search_serv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newShell(kind search_serv.Kind) (*cmd_repl.Shell, *bytes.Buffer) {
	var out bytes.Buffer
	return cmd_repl.NewShell(search_serv.New(search_cfg.Default().Tree), kind, &out), &out
}

func TestShell_Binary(t *testing.T) {
	sh, out := newShell(search_serv.KindBinary)

	require.NoError(t, sh.Exec("create 4 2"))
	require.NoError(t, sh.Exec("insert 50"))
	require.NoError(t, sh.Exec("insert 10"))
	assert.Contains(t, out.String(), "inserted 10 at 2, sorted to [1]")

	out.Reset()
	require.NoError(t, sh.Exec("search 50"))
	assert.Contains(t, out.String(), "50 [2]")

	assert.ErrorIs(t, sh.Exec("insert 10"), x_search.ErrDuplicateKey)
	assert.ErrorIs(t, sh.Exec("create x"), x_search.ErrInvalidConfig)
	assert.Error(t, sh.Exec("frobnicate"))
	assert.Error(t, sh.Exec(`insert "unterminated`))
	assert.NoError(t, sh.Exec("   "))
}

func TestShell_Hash(t *testing.T) {
	sh, out := newShell(search_serv.KindLinear)

	require.NoError(t, sh.Exec("use hash"))
	assert.Equal(t, search_serv.KindHash, sh.Kind())
	require.NoError(t, sh.Exec("hash truncation 3,4"))
	require.NoError(t, sh.Exec("create 100 4"))
	require.NoError(t, sh.Exec("insert 1234"))
	assert.Contains(t, out.String(), "inserted 1234 at 35")

	assert.ErrorIs(t, sh.Exec("insert 9934"), x_search.ErrCollisionWithoutStrategy)
	require.NoError(t, sh.Exec("collision linear"))
	require.NoError(t, sh.Exec("insert 9934"))
	require.NoError(t, sh.Exec("delete 1234"))

	out.Reset()
	require.NoError(t, sh.Exec("state"))
	s := out.String()
	assert.Contains(t, s, "mode=open")
	assert.Contains(t, s, "9934")
	assert.Contains(t, s, "(deleted)")

	require.NoError(t, sh.Exec("hash folding 2 mul --rehash"))
	assert.ErrorIs(t, sh.Exec("sort"), x_search.ErrNotSupported)
}

func TestShell_TreeAndRun(t *testing.T) {
	sh, out := newShell(search_serv.KindDigital)

	in := strings.NewReader("create 4\ninsert p\ninsert ?\nnodes\nquit\ninsert r\n")
	require.NoError(t, sh.Run(in, false))

	s := out.String()
	assert.Contains(t, s, "inserted P at 1")
	assert.Contains(t, s, "error:")
	assert.Contains(t, s, "LEAF P")
	assert.NotContains(t, s, "inserted R")
}

func TestRenderState(t *testing.T) {
	assert.Equal(t, "not created", cmd_repl.RenderState(x_search.State{}))

	s := cmd_repl.RenderState(x_search.State{Size: 3, Digits: 2, Buckets: [][]string{{"11", ""}, {}, {"13", "23"}}})
	assert.Contains(t, s, "13 23")
	assert.Contains(t, s, "11")
}
