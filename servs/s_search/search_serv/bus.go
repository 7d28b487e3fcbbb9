package search_serv

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	"github.com/rskv-p/searchlab/pkg/x_log"
	"github.com/rskv-p/searchlab/pkg/x_search"
)

//---------------------
// NATS Bus
//---------------------

// Bus publishes events on <subject>.<kind>.<op> and answers requests on
// <subject>.rpc.<kind>.<op>.
type Bus struct {
	ns      *server.Server // set when embedded
	nc      *nats.Conn
	subject string
	sub     *nats.Subscription
	log     zerolog.Logger
}

// StartEmbedded runs an in-process NATS server on localhost. Port -1 picks a free port.
func StartEmbedded(port int) (*server.Server, error) {
	ns, err := server.NewServer(&server.Options{
		Host:   "127.0.0.1",
		Port:   port,
		NoSigs: true,
		NoLog:  true,
	})
	if err != nil {
		return nil, fmt.Errorf("nats-server init: %w", err)
	}
	go ns.Start()
	if !ns.ReadyForConnections(5 * time.Second) {
		ns.Shutdown()
		return nil, fmt.Errorf("nats-server not ready")
	}
	return ns, nil
}

// Connect dials url and returns a bus publishing under subject.
func Connect(url, subject string) (*Bus, error) {
	nc, err := nats.Connect(url, nats.Name("searchlab"), nats.MaxReconnects(-1))
	if err != nil {
		return nil, fmt.Errorf("nats client connect: %w", err)
	}
	return &Bus{nc: nc, subject: subject, log: x_log.New("bus")}, nil
}

// NewEmbeddedBus starts an embedded server and connects to it.
func NewEmbeddedBus(port int, subject string) (*Bus, error) {
	ns, err := StartEmbedded(port)
	if err != nil {
		return nil, err
	}
	b, err := Connect(ns.ClientURL(), subject)
	if err != nil {
		ns.Shutdown()
		return nil, err
	}
	b.ns = ns
	return b, nil
}

// URL is the address clients can use to reach the bus.
func (b *Bus) URL() string {
	return b.nc.ConnectedUrl()
}

// Publish sends ev as JSON.
func (b *Bus) Publish(ev Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return b.nc.Publish(b.subject+"."+string(ev.Kind)+"."+ev.Op, data)
}

// Hook publishes every event, logging failures.
func (b *Bus) Hook() HookFunc {
	return func(ev Event) {
		if err := b.Publish(ev); err != nil {
			b.log.Warn().Err(err).Str("op", ev.Op).Msg("publish failed")
		}
	}
}

//---------------------
// Request / Reply
//---------------------

// Request is the payload of a bus request.
type Request struct {
	Key string `json:"key"`
}

// Reply is the answer to a bus request.
type Reply struct {
	Key       string          `json:"key,omitempty"`
	Position  int             `json:"position,omitempty"`
	Positions []int           `json:"positions"`
	State     *x_search.State `json:"state,omitempty"`
	Error     string          `json:"error,omitempty"`
	ErrorKind string          `json:"error_kind,omitempty"`
}

// Serve answers insert, search, delete and state requests against svc.
func (b *Bus) Serve(svc *Service) error {
	prefix := b.subject + ".rpc."
	sub, err := b.nc.Subscribe(prefix+">", func(m *nats.Msg) {
		rep := b.handle(svc, strings.TrimPrefix(m.Subject, prefix), m.Data)
		data, _ := json.Marshal(rep)
		if err := m.Respond(data); err != nil {
			b.log.Warn().Err(err).Str("subject", m.Subject).Msg("respond failed")
		}
	})
	if err != nil {
		return err
	}
	b.sub = sub
	return b.nc.Flush()
}

func (b *Bus) handle(svc *Service, route string, data []byte) Reply {
	fail := func(err error) Reply {
		return Reply{Positions: []int{}, Error: err.Error(), ErrorKind: x_search.Kind(err)}
	}
	parts := strings.Split(route, ".")
	if len(parts) != 2 {
		return fail(fmt.Errorf("%w: route %q", ErrUnknownKind, route))
	}
	kind, err := ParseKind(parts[0])
	if err != nil {
		return fail(err)
	}
	var req Request
	if len(data) > 0 {
		if err := json.Unmarshal(data, &req); err != nil {
			return fail(err)
		}
	}

	switch parts[1] {
	case OpInsert:
		res, err := svc.Insert(kind, req.Key)
		if err != nil {
			return fail(err)
		}
		return Reply{Key: res.Key, Position: res.Position, Positions: res.Sorted}
	case OpSearch:
		key, pos, err := svc.Search(kind, req.Key)
		if err != nil {
			return fail(err)
		}
		return Reply{Key: key, Positions: pos}
	case OpDelete:
		key, pos, err := svc.Delete(kind, req.Key)
		if err != nil {
			return fail(err)
		}
		return Reply{Key: key, Positions: pos}
	case "state":
		st, err := svc.State(kind)
		if err != nil {
			return fail(err)
		}
		return Reply{Positions: []int{}, State: &st}
	default:
		return fail(fmt.Errorf("%w: op %q", x_search.ErrNotSupported, parts[1]))
	}
}

// Close drops the subscription, the connection and any embedded server.
func (b *Bus) Close() {
	if b.sub != nil {
		_ = b.sub.Unsubscribe()
	}
	if b.nc != nil {
		b.nc.Close()
	}
	if b.ns != nil {
		b.ns.Shutdown()
	}
}
