package search_serv_test

import (
	"encoding/json"
	"testing"
	"time"

	natsserver "github.com/nats-io/nats-server/v2/test"
	"github.com/nats-io/nats.go"
	"github.com/rskv-p/searchlab/servs/s_search/search_serv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBus_PublishAndServe(t *testing.T) {
	opts := natsserver.DefaultTestOptions
	opts.Port = -1
	ns := natsserver.RunServer(&opts)
	defer ns.Shutdown()

	bus, err := search_serv.Connect(ns.ClientURL(), "lab")
	require.NoError(t, err)
	defer bus.Close()

	nc, err := nats.Connect(ns.ClientURL())
	require.NoError(t, err)
	defer nc.Close()

	sub, err := nc.SubscribeSync("lab.linear-search.*")
	require.NoError(t, err)
	require.NoError(t, nc.Flush())

	svc := newService()
	svc.SetHooks(search_serv.Hooks{OnChange: bus.Hook()})
	require.NoError(t, bus.Serve(svc))

	//---------------------
	// events
	//---------------------
	_, err = svc.Create(search_serv.KindLinear, search_serv.CreateRequest{Size: 3, Digits: 4})
	require.NoError(t, err)

	msg, err := sub.NextMsg(2 * time.Second)
	require.NoError(t, err)
	assert.Equal(t, "lab.linear-search.create", msg.Subject)
	var ev search_serv.Event
	require.NoError(t, json.Unmarshal(msg.Data, &ev))
	assert.Equal(t, search_serv.KindLinear, ev.Kind)
	assert.Equal(t, search_serv.OpCreate, ev.Op)

	//---------------------
	// request / reply
	//---------------------
	var rep search_serv.Reply
	request := func(subject, body string) {
		t.Helper()
		m, err := nc.Request(subject, []byte(body), 2*time.Second)
		require.NoError(t, err)
		rep = search_serv.Reply{}
		require.NoError(t, json.Unmarshal(m.Data, &rep))
	}

	request("lab.rpc.linear-search.insert", `{"key":"7"}`)
	assert.Empty(t, rep.Error)
	assert.Equal(t, "0007", rep.Key)
	assert.Equal(t, 1, rep.Position)

	request("lab.rpc.linear-search.search", `{"key":"0007"}`)
	assert.Equal(t, []int{1}, rep.Positions)

	request("lab.rpc.linear-search.state", "")
	require.NotNil(t, rep.State)
	assert.Equal(t, 3, rep.State.Size)

	request("lab.rpc.linear-search.insert", `{"key":"7"}`)
	assert.Equal(t, "DuplicateKey", rep.ErrorKind)

	request("lab.rpc.heap.insert", `{"key":"7"}`)
	assert.NotEmpty(t, rep.Error)

	request("lab.rpc.linear-search.sort", "")
	assert.Equal(t, "NotSupported", rep.ErrorKind)

	request("lab.rpc.linear-search.delete", `{"key":"7"}`)
	assert.Equal(t, []int{1}, rep.Positions)
}

func TestBus_Embedded(t *testing.T) {
	bus, err := search_serv.NewEmbeddedBus(-1, "emb")
	require.NoError(t, err)
	defer bus.Close()

	assert.NotEmpty(t, bus.URL())
	require.NoError(t, bus.Publish(search_serv.Event{Kind: search_serv.KindHash, Op: search_serv.OpSetHash}))
}
