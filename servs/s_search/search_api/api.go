// servs/s_search/search_api/api.go
package search_api

import (
	"github.com/rskv-p/searchlab/pkg/x_search"
	"github.com/rskv-p/searchlab/servs/s_search/search_serv"
)

// CreateRequest sizes a structure. Hash is only read by bucket-hash.
type CreateRequest struct {
	Size       int            `json:"size"`
	Digits     int            `json:"digits"`
	M          int            `json:"m,omitempty"`
	BucketSize int            `json:"bucket_size,omitempty"`
	Hash       map[string]any `json:"hash,omitempty"`
	Encoding   string         `json:"encoding,omitempty"`
	Alphabet   string         `json:"alphabet,omitempty"`
}

// InsertRequest carries a numeric value or, for trees, a letter.
type InsertRequest struct {
	Value  string `json:"value,omitempty"`
	Letter string `json:"letter,omitempty"`
}

func (r InsertRequest) key() string {
	if r.Value != "" {
		return r.Value
	}
	return r.Letter
}

// Response is the body of every successful structure call.
type Response struct {
	Message        string          `json:"message"`
	Value          string          `json:"value,omitempty"`
	Position       int             `json:"position,omitempty"`
	SortedPosition []int           `json:"sorted_position,omitempty"`
	State          *x_search.State `json:"state,omitempty"`
}

// LookupResponse answers search and delete. Positions is always rendered,
// as [] when the key is absent.
type LookupResponse struct {
	Message   string `json:"message"`
	Value     string `json:"value,omitempty"`
	Positions []int  `json:"positions"`
}

func lookupResponse(found, missing, key string, pos []int) LookupResponse {
	if len(pos) == 0 {
		return LookupResponse{Message: missing, Value: key, Positions: []int{}}
	}
	return LookupResponse{Message: found, Value: key, Positions: pos}
}

// ErrorResponse is the body of every failed call.
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

// HealthResponse reports liveness.
type HealthResponse struct {
	Status    string             `json:"status"`
	Kinds     []search_serv.Kind `json:"kinds"`
	WSClients int                `json:"ws_clients"`
}

// OutgoingEvent is pushed to websocket clients.
type OutgoingEvent struct {
	Type  string            `json:"type"` // always "operation"
	Event search_serv.Event `json:"event"`
}
