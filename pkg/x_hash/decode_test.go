package x_hash_test

import (
	"testing"

	"github.com/rskv-p/searchlab/pkg/x_hash"
	"github.com/rskv-p/searchlab/pkg/x_search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeFunction(t *testing.T) {
	f, err := x_hash.DecodeFunction(map[string]any{"type": "Truncation", "positions": "1,3"})
	require.NoError(t, err)
	assert.Equal(t, x_hash.Truncation, f.Kind)
	assert.Equal(t, []int{1, 3}, f.Positions)

	f, err = x_hash.DecodeFunction(map[string]any{"type": "folding", "group_size": "2"})
	require.NoError(t, err)
	assert.Equal(t, 2, f.GroupSize)
	assert.Equal(t, x_hash.FoldSum, f.Operation)

	_, err = x_hash.DecodeFunction(map[string]any{"type": "folding", "group_size": 2, "operation": "avg"})
	assert.ErrorIs(t, err, x_search.ErrInvalidConfig)

	_, err = x_hash.DecodeFunction(map[string]any{"type": "truncation"})
	assert.ErrorIs(t, err, x_search.ErrInvalidConfig)
}

func TestDecodeCollision(t *testing.T) {
	c, err := x_hash.DecodeCollision(map[string]any{"type": "chaining"})
	require.NoError(t, err)
	assert.True(t, c.Chaining())

	_, err = x_hash.DecodeCollision(map[string]any{"type": "double"})
	assert.ErrorIs(t, err, x_search.ErrInvalidConfig)

	c, err = x_hash.DecodeCollision(map[string]any{"type": "double", "second_hash_type": "mod"})
	require.NoError(t, err)
	r, err := c.Resolver()
	require.NoError(t, err)
	assert.Equal(t, x_hash.DoubleHash, r.Kind)
	assert.Equal(t, x_hash.Mod, r.Secondary.Kind)

	c, err = x_hash.DecodeCollision(map[string]any{"type": "quadratic"})
	require.NoError(t, err)
	assert.False(t, c.Chaining())

	_, err = x_hash.DecodeCollision(map[string]any{"type": "cuckoo"})
	assert.ErrorIs(t, err, x_search.ErrInvalidConfig)
}
