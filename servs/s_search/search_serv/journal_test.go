package search_serv_test

import (
	"testing"

	"github.com/nats-io/nuid"
	"github.com/rskv-p/searchlab/pkg/x_db"
	"github.com/rskv-p/searchlab/servs/s_search/search_serv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func memDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := x_db.Open(x_db.Config{DSN: "file:" + nuid.Next() + "?mode=memory&cache=shared", LogLevel: "silent"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = x_db.Close(db) })
	return db
}

func TestJournal_RecordsHookedEvents(t *testing.T) {
	j, err := search_serv.NewJournal(memDB(t))
	require.NoError(t, err)

	var failures []error
	svc := newService()
	svc.SetHooks(search_serv.Hooks{OnChange: j.Hook(func(err error) { failures = append(failures, err) })})

	_, err = svc.Create(search_serv.KindLinear, search_serv.CreateRequest{Size: 2, Digits: 3})
	require.NoError(t, err)
	_, err = svc.Insert(search_serv.KindLinear, "5")
	require.NoError(t, err)
	_, err = svc.Insert(search_serv.KindLinear, "5")
	require.Error(t, err)
	_, _, err = svc.Search(search_serv.KindLinear, "5")
	require.NoError(t, err)
	_, err = svc.Create(search_serv.KindDigital, search_serv.CreateRequest{Size: 4})
	require.NoError(t, err)
	require.Empty(t, failures)

	//---------------------
	// newest first, searches are not journaled
	//---------------------
	ops, err := j.History("", 0)
	require.NoError(t, err)
	require.Len(t, ops, 4)
	assert.Equal(t, "digital", ops[0].Kind)
	assert.Equal(t, "DuplicateKey", ops[1].ErrorKind)
	assert.Equal(t, "005", ops[2].Key)
	assert.Equal(t, "1", ops[2].Positions)
	assert.Equal(t, search_serv.OpCreate, ops[3].Op)
	assert.Greater(t, ops[0].Seq, ops[3].Seq)

	ops, err = j.History(string(search_serv.KindLinear), 2)
	require.NoError(t, err)
	require.Len(t, ops, 2)
	assert.Equal(t, search_serv.OpInsert, ops[1].Op)
}

func TestJournal_DuplicateEventID(t *testing.T) {
	j, err := search_serv.NewJournal(memDB(t))
	require.NoError(t, err)

	ev := search_serv.Event{ID: nuid.Next(), Kind: search_serv.KindHash, Op: search_serv.OpDelete, Positions: []int{3, 7}}
	require.NoError(t, j.Record(ev))
	assert.Error(t, j.Record(ev))

	ops, err := j.History("hash", 10)
	require.NoError(t, err)
	require.Len(t, ops, 1)
	assert.Equal(t, "3,7", ops[0].Positions)
}
