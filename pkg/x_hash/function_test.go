package x_hash_test

import (
	"testing"

	"github.com/rskv-p/searchlab/pkg/x_hash"
	"github.com/rskv-p/searchlab/pkg/x_search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hash(t *testing.T, f x_hash.Function, key string, digits, size int) int {
	t.Helper()
	h, err := f.Hash(key, digits, size)
	require.NoError(t, err)
	return h
}

func TestFunction_Mod(t *testing.T) {
	f := x_hash.NewMod()
	assert.Equal(t, 1234, hash(t, f, "1234", 4, 10))
	assert.Equal(t, 7, hash(t, f, "0007", 4, 10))

	_, err := f.Hash("12a4", 4, 10)
	assert.ErrorIs(t, err, x_search.ErrInvalidKey)
}

func TestFunction_Square(t *testing.T) {
	f := x_hash.NewSquare()
	// 1234^2 = 1522756, two middle digits from index 2
	assert.Equal(t, 22, hash(t, f, "1234", 4, 100))
	// short squares are kept whole
	assert.Equal(t, 9, hash(t, f, "0003", 4, 100))
	// size 1 keeps one middle digit of 144
	assert.Equal(t, 4, hash(t, f, "0012", 4, 1))
}

func TestFunction_Truncation(t *testing.T) {
	f, err := x_hash.NewTruncation(1, 3)
	require.NoError(t, err)
	assert.Equal(t, 13, hash(t, f, "1234", 4, 100))

	f, err = x_hash.NewTruncation(4, 1)
	require.NoError(t, err)
	assert.Equal(t, 41, hash(t, f, "1234", 4, 100))

	f, err = x_hash.NewTruncation(5)
	require.NoError(t, err)
	_, err = f.Hash("1234", 4, 100)
	assert.ErrorIs(t, err, x_search.ErrInvalidKey)

	_, err = x_hash.NewTruncation()
	assert.ErrorIs(t, err, x_search.ErrInvalidConfig)
	_, err = x_hash.NewTruncation(0)
	assert.ErrorIs(t, err, x_search.ErrInvalidConfig)
}

func TestFunction_Folding(t *testing.T) {
	sum, err := x_hash.NewFolding(2, x_hash.FoldSum)
	require.NoError(t, err)
	assert.Equal(t, 46, hash(t, sum, "1234", 4, 100))
	assert.Equal(t, 6, hash(t, sum, "1234", 4, 10))

	mul, err := x_hash.NewFolding(2, x_hash.FoldMul)
	require.NoError(t, err)
	assert.Equal(t, 408, hash(t, mul, "1234", 4, 1000))
	assert.Equal(t, 8, hash(t, mul, "1234", 4, 100))

	short, err := x_hash.NewFolding(3, x_hash.FoldSum)
	require.NoError(t, err)
	assert.Equal(t, 168, hash(t, short, "12345", 5, 1000))

	_, err = x_hash.NewFolding(2, "avg")
	assert.ErrorIs(t, err, x_search.ErrInvalidConfig)
	_, err = x_hash.NewFolding(0, x_hash.FoldSum)
	assert.ErrorIs(t, err, x_search.ErrInvalidConfig)
}

func TestFunction_UnknownKind(t *testing.T) {
	f := x_hash.Function{Kind: "crc"}
	assert.ErrorIs(t, f.Validate(), x_search.ErrInvalidConfig)
	_, err := f.Hash("1234", 4, 10)
	assert.ErrorIs(t, err, x_search.ErrInvalidConfig)
}
