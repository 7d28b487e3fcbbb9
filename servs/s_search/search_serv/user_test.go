package search_serv_test

import (
	"errors"
	"testing"

	"github.com/rskv-p/searchlab/servs/s_search/search_serv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestEnsureAdmin(t *testing.T) {
	db := memDB(t)
	_, err := search_serv.NewJournal(db)
	require.NoError(t, err)

	require.NoError(t, search_serv.EnsureAdmin(db, "admin", "s3cret"))
	// second call keeps the first password
	require.NoError(t, search_serv.EnsureAdmin(db, "admin", "other"))

	u, err := search_serv.FindUserByUsername(db, "admin")
	require.NoError(t, err)
	assert.Equal(t, "admin", u.Role)
	assert.True(t, u.CheckPassword("s3cret"))
	assert.False(t, u.CheckPassword("other"))

	_, err = search_serv.FindUserByUsername(db, "ghost")
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	assert.Error(t, search_serv.CreateUser(db, "", "x", "user"))
	assert.Error(t, search_serv.CreateUser(db, "admin", "x", "user"))
}
