package search_serv

import (
	"time"

	"github.com/nats-io/nuid"
	"github.com/rskv-p/searchlab/pkg/x_search"
)

// Operation names carried by events.
const (
	OpCreate    = "create"
	OpInsert    = "insert"
	OpSearch    = "search"
	OpDelete    = "delete"
	OpSetHash   = "set-hash"
	OpCollision = "set-collision"
)

// Event describes one completed operation.
type Event struct {
	ID        string        `json:"id"`
	Kind      Kind          `json:"kind"`
	Op        string        `json:"op"`
	Key       string        `json:"key,omitempty"`
	Positions []int         `json:"positions,omitempty"`
	Error     string        `json:"error,omitempty"`
	ErrorKind string        `json:"error_kind,omitempty"`
	At        time.Time     `json:"at"`
	Took      time.Duration `json:"took"`
}

func newEvent(kind Kind, op, key string, pos []int, err error) Event {
	ev := Event{
		ID:        nuid.Next(),
		Kind:      kind,
		Op:        op,
		Key:       key,
		Positions: pos,
		At:        time.Now().UTC(),
	}
	if err != nil {
		ev.Error = err.Error()
		ev.ErrorKind = x_search.Kind(err)
	}
	return ev
}

// Mutating reports whether the operation may change a structure.
func (e Event) Mutating() bool {
	return e.Op != OpSearch
}

// HookFunc receives events after an operation completes.
type HookFunc func(ev Event)

// Hooks for operation events
type Hooks struct {
	OnChange HookFunc // create, insert, delete, configuration
	OnSearch HookFunc
}

// Fanout calls every non-nil hook in order.
func Fanout(fns ...HookFunc) HookFunc {
	return func(ev Event) {
		for _, fn := range fns {
			if fn != nil {
				fn(ev)
			}
		}
	}
}
