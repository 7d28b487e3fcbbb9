package search_api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rskv-p/searchlab/pkg/x_hash"
	"github.com/rskv-p/searchlab/pkg/x_search"
	"github.com/rskv-p/searchlab/servs/s_search/search_serv"
)

//---------------------
// Replies
//---------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, ErrorResponse{Error: err.Error(), Kind: x_search.Kind(err)})
}

// statusOf maps an error kind to an HTTP status.
func statusOf(err error) int {
	switch {
	case errors.Is(err, search_serv.ErrUnknownKind):
		return http.StatusNotFound
	case errors.Is(err, x_search.ErrInvalidConfig),
		errors.Is(err, x_search.ErrInvalidKey),
		errors.Is(err, x_search.ErrInvalidLetter),
		errors.Is(err, x_search.ErrNotInitialized):
		return http.StatusBadRequest
	case errors.Is(err, x_search.ErrDuplicateKey),
		errors.Is(err, x_search.ErrFull),
		errors.Is(err, x_search.ErrCollisionWithoutStrategy),
		errors.Is(err, x_search.ErrDepthExceeded):
		return http.StatusConflict
	case errors.Is(err, x_search.ErrNotSupported):
		return http.StatusMethodNotAllowed
	default:
		return http.StatusInternalServerError
	}
}

func fail(w http.ResponseWriter, err error) {
	writeError(w, statusOf(err), err)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid JSON"))
		return false
	}
	return true
}

//---------------------
// Structures
//---------------------

// handleCreate allocates the structure.
func handleCreate(svc *search_serv.Service, kind search_serv.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body CreateRequest
		if !decodeBody(w, r, &body) {
			return
		}
		req := search_serv.CreateRequest{
			Size:       body.Size,
			Digits:     body.Digits,
			M:          body.M,
			BucketSize: body.BucketSize,
			Encoding:   body.Encoding,
			Alphabet:   body.Alphabet,
		}
		if body.Hash != nil {
			fn, err := x_hash.DecodeFunction(body.Hash)
			if err != nil {
				fail(w, err)
				return
			}
			req.Hash = &fn
		}
		st, err := svc.Create(kind, req)
		if err != nil {
			fail(w, err)
			return
		}
		writeJSON(w, http.StatusOK, Response{Message: string(kind) + " created", State: &st})
	}
}

func handleState(svc *search_serv.Service, kind search_serv.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, err := svc.State(kind)
		if err != nil {
			fail(w, err)
			return
		}
		writeJSON(w, http.StatusOK, st)
	}
}

// handleInsert reports the slot used and, for sorted stores, where the key
// ended up.
func handleInsert(svc *search_serv.Service, kind search_serv.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body InsertRequest
		if !decodeBody(w, r, &body) {
			return
		}
		res, err := svc.Insert(kind, body.key())
		if err != nil {
			fail(w, err)
			return
		}
		resp := Response{Message: "inserted", Value: res.Key, Position: res.Position}
		if kind == search_serv.KindBinary {
			resp.SortedPosition = res.Sorted
		}
		writeJSON(w, http.StatusCreated, resp)
	}
}

func handleSearch(svc *search_serv.Service, kind search_serv.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key, pos, err := svc.Search(kind, chi.URLParam(r, "value"))
		if err != nil {
			fail(w, err)
			return
		}
		writeJSON(w, http.StatusOK, lookupResponse("found", "not found", key, pos))
	}
}

func handleDelete(svc *search_serv.Service, kind search_serv.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key, pos, err := svc.Delete(kind, chi.URLParam(r, "value"))
		if err != nil {
			fail(w, err)
			return
		}
		writeJSON(w, http.StatusOK, lookupResponse("deleted", "not found", key, pos))
	}
}

func handleSort(svc *search_serv.Service, kind search_serv.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Sort(kind); err != nil {
			fail(w, err)
			return
		}
		st, _ := svc.State(kind)
		writeJSON(w, http.StatusOK, Response{Message: "sorted", State: &st})
	}
}

func handleNodes(svc *search_serv.Service, kind search_serv.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, err := svc.Nodes(kind)
		if err != nil {
			fail(w, err)
			return
		}
		writeJSON(w, http.StatusOK, view)
	}
}

//---------------------
// Hash Configuration
//---------------------

// handleSetHash replaces the hash table. {"rehash": true} keeps the keys.
func handleSetHash(svc *search_serv.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		if !decodeBody(w, r, &body) {
			return
		}
		rehash, _ := body["rehash"].(bool)
		delete(body, "rehash")
		fn, err := x_hash.DecodeFunction(body)
		if err != nil {
			fail(w, err)
			return
		}
		if err := svc.SetHashFunction(fn, rehash); err != nil {
			fail(w, err)
			return
		}
		writeJSON(w, http.StatusOK, Response{Message: "hash function set to " + fn.String()})
	}
}

func handleSetCollision(svc *search_serv.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		if !decodeBody(w, r, &body) {
			return
		}
		cfg, err := x_hash.DecodeCollision(body)
		if err != nil {
			fail(w, err)
			return
		}
		if err := svc.SetCollision(cfg); err != nil {
			fail(w, err)
			return
		}
		writeJSON(w, http.StatusOK, Response{Message: "collision strategy set to " + cfg.Type})
	}
}

//---------------------
// Service
//---------------------

func handleHealth(hub *Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := HealthResponse{Status: "ok", Kinds: search_serv.Kinds}
		if hub != nil {
			resp.WSClients = hub.Count()
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// handleHistory lists journaled operations, newest first.
func handleHistory(j *search_serv.Journal) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if j == nil {
			writeError(w, http.StatusServiceUnavailable, errors.New("journal disabled"))
			return
		}
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		ops, err := j.History(r.URL.Query().Get("kind"), limit)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, ops)
	}
}

func handleStats(svc *search_serv.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, svc.Stats())
	}
}

func handleResetStats(svc *search_serv.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		svc.ResetStats()
		w.WriteHeader(http.StatusNoContent)
	}
}
