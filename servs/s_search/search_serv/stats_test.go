package search_serv_test

import (
	"testing"

	"github.com/rskv-p/searchlab/servs/s_search/search_serv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_Stats(t *testing.T) {
	svc := newService()
	_, err := svc.Create(search_serv.KindLinear, search_serv.CreateRequest{Size: 1, Digits: 2})
	require.NoError(t, err)
	_, err = svc.Insert(search_serv.KindLinear, "1")
	require.NoError(t, err)
	_, err = svc.Insert(search_serv.KindLinear, "2")
	require.Error(t, err)
	_, _, err = svc.Search(search_serv.KindLinear, "1")
	require.NoError(t, err)

	st := svc.Stats()
	require.Len(t, st.Operations, 3)
	assert.Equal(t, search_serv.OpCreate, st.Operations[0].Op)
	ins := st.Operations[1]
	assert.Equal(t, search_serv.OpInsert, ins.Op)
	assert.Equal(t, 2, ins.NumRequests)
	assert.Equal(t, 1, ins.NumErrors)
	assert.NotEmpty(t, ins.LastError)
	assert.LessOrEqual(t, ins.MinProcessingTime, ins.MaxProcessingTime)
	assert.Equal(t, ins.ProcessingTime/2, ins.AverageProcessingTime)

	svc.ResetStats()
	assert.Empty(t, svc.Stats().Operations)
}
