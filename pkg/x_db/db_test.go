package x_db_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/rskv-p/searchlab/pkg/x_db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type note struct {
	ID   uint `gorm:"primaryKey"`
	Text string
}

func TestConfig_Validate(t *testing.T) {
	var c x_db.Config
	require.NoError(t, c.Validate())
	assert.Equal(t, x_db.DefaultConfig(), c)

	c = x_db.Config{Type: "Postgres"}
	assert.Error(t, c.Validate())

	c = x_db.Config{Type: "mysql", DSN: "x"}
	assert.Error(t, c.Validate())
}

func TestOpen_Sqlite(t *testing.T) {
	db, err := x_db.Open(x_db.Config{DSN: "file:xdbtest?mode=memory&cache=shared", LogLevel: "silent"})
	require.NoError(t, err)
	defer x_db.Close(db)

	require.NoError(t, db.AutoMigrate(&note{}))
	require.NoError(t, db.Create(&note{Text: "hello"}).Error)

	var got note
	require.NoError(t, db.First(&got).Error)
	assert.Equal(t, "hello", got.Text)
}

func TestLogger_Trace(t *testing.T) {
	var buf bytes.Buffer
	zl := zerolog.New(&buf)
	l := x_db.Logger(&zl, "warn")

	//---------------------
	// fast queries stay quiet at warn level
	//---------------------
	l.Trace(context.Background(), time.Now(), func() (string, int64) { return "SELECT 1", 1 }, nil)
	assert.Empty(t, buf.String())

	//---------------------
	// not-found is not an error
	//---------------------
	l.Trace(context.Background(), time.Now(), func() (string, int64) { return "SELECT 2", 0 }, gorm.ErrRecordNotFound)
	assert.Empty(t, buf.String())

	l.Trace(context.Background(), time.Now(), func() (string, int64) { return "SELECT 3", 0 }, errors.New("boom"))
	assert.Contains(t, buf.String(), "boom")

	buf.Reset()
	l.Trace(context.Background(), time.Now().Add(-time.Second), func() (string, int64) { return "SELECT 4", 0 }, nil)
	assert.Contains(t, buf.String(), "slow query")
}

func TestLogger_Tags(t *testing.T) {
	var buf bytes.Buffer
	zl := zerolog.New(&buf)
	l := x_db.Logger(&zl, "error")

	ctx := x_db.WithTags(context.Background(), "kind", "hash")
	ctx = x_db.WithTags(ctx, "op", "insert")
	assert.Equal(t, []string{"kind", "hash", "op", "insert"}, x_db.Tags(ctx))

	l.Trace(ctx, time.Now(), func() (string, int64) { return "INSERT 1", 0 }, errors.New("locked"))
	out := buf.String()
	assert.Contains(t, out, `"kind":"hash"`)
	assert.Contains(t, out, `"op":"insert"`)
	assert.Contains(t, out, `"sql":"INSERT 1"`)
	assert.Contains(t, out, "locked")

	assert.Nil(t, x_db.Tags(context.Background()))
}
