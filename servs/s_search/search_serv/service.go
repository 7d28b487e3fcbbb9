package search_serv

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rskv-p/searchlab/pkg/x_hash"
	"github.com/rskv-p/searchlab/pkg/x_log"
	"github.com/rskv-p/searchlab/pkg/x_search"
	"github.com/rskv-p/searchlab/pkg/x_slot"
	"github.com/rskv-p/searchlab/pkg/x_tree"
	"github.com/rskv-p/searchlab/servs/s_search/search_cfg"
)

// instance is one structure guarded by its own lock.
type instance struct {
	mu sync.Mutex
	s  x_search.Structure // nil until configured
}

// Service owns one structure per kind and serializes access to each.
type Service struct {
	tree  search_cfg.TreeConfig
	items map[Kind]*instance
	log   zerolog.Logger

	hooksMu sync.RWMutex
	hooks   Hooks

	stats *statsBook
}

// New returns a service with empty linear and binary stores. Other kinds
// are configured by Create or SetHashFunction.
func New(tree search_cfg.TreeConfig) *Service {
	s := &Service{
		tree:  tree,
		items: make(map[Kind]*instance, len(Kinds)),
		log:   x_log.New("search"),
		stats: newStatsBook(),
	}
	for _, k := range Kinds {
		s.items[k] = &instance{}
	}
	s.items[KindLinear].s = x_slot.NewLinear()
	s.items[KindBinary].s = x_slot.NewBinary()
	return s
}

// SetHooks replaces the event hooks.
func (s *Service) SetHooks(h Hooks) {
	s.hooksMu.Lock()
	s.hooks = h
	s.hooksMu.Unlock()
}

func (s *Service) emit(start time.Time, ev Event) {
	ev.Took = time.Since(start)
	s.stats.record(ev)

	s.hooksMu.RLock()
	h := s.hooks
	s.hooksMu.RUnlock()

	l := s.log.Debug()
	if ev.Error != "" {
		l = s.log.Info().Str("err", ev.Error)
	}
	l.Str("kind", string(ev.Kind)).Str("op", ev.Op).Str("key", ev.Key).Ints("positions", ev.Positions).Msg("operation")

	if ev.Mutating() {
		if h.OnChange != nil {
			h.OnChange(ev)
		}
	} else if h.OnSearch != nil {
		h.OnSearch(ev)
	}
}

func (s *Service) item(kind Kind) (*instance, error) {
	it, ok := s.items[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	return it, nil
}

//---------------------
// Create
//---------------------

// CreateRequest sizes a structure. Zero tree fields take configured defaults.
type CreateRequest struct {
	Size       int              `json:"size"`
	Digits     int              `json:"digits"`
	M          int              `json:"m,omitempty"`
	BucketSize int              `json:"bucket_size,omitempty"`
	Hash       *x_hash.Function `json:"hash,omitempty"`
	Encoding   string           `json:"encoding,omitempty"`
	Alphabet   string           `json:"alphabet,omitempty"`
}

// Create (re)allocates the structure of the given kind.
func (s *Service) Create(kind Kind, req CreateRequest) (x_search.State, error) {
	start := time.Now()
	it, err := s.item(kind)
	if err != nil {
		return x_search.State{}, err
	}
	it.mu.Lock()
	st, err := s.create(kind, it, req)
	it.mu.Unlock()

	s.emit(start, newEvent(kind, OpCreate, "", nil, err))
	return st, err
}

func (s *Service) create(kind Kind, it *instance, req CreateRequest) (x_search.State, error) {
	switch kind {
	case KindLinear, KindBinary:
		store := it.s.(*x_slot.Store)
		if err := store.Create(req.Size, req.Digits); err != nil {
			return x_search.State{}, err
		}
		return store.State(), nil

	case KindHash:
		t, ok := it.s.(*x_hash.Table)
		if !ok {
			return x_search.State{}, ErrHashNotSet
		}
		if err := t.Create(req.Size, req.Digits); err != nil {
			return x_search.State{}, err
		}
		return t.State(), nil

	case KindBucket:
		fn := x_hash.NewMod()
		if req.Hash != nil {
			fn = *req.Hash
		}
		b, err := x_hash.NewBucketTable(fn, req.BucketSize)
		if err != nil {
			return x_search.State{}, err
		}
		if err := b.Create(req.Size, req.Digits); err != nil {
			return x_search.State{}, err
		}
		it.s = b
		return b.State(), nil

	default:
		t, err := s.newTree(kind, req)
		if err != nil {
			return x_search.State{}, err
		}
		size, digits := req.Size, req.Digits
		if size == 0 {
			size = s.tree.Size
		}
		if digits == 0 {
			digits = t.Codec().DefaultWidth()
		}
		if err := t.Create(size, digits); err != nil {
			return x_search.State{}, err
		}
		it.s = t
		return t.State(), nil
	}
}

func (s *Service) newTree(kind Kind, req CreateRequest) (*x_tree.Tree, error) {
	enc, alpha := req.Encoding, req.Alphabet
	if enc == "" {
		enc = s.tree.Encoding
	}
	if alpha == "" {
		alpha = s.tree.Alphabet
	}
	codec, err := x_tree.NewCodec(x_tree.Encoding(enc), x_tree.Alphabet(alpha))
	if err != nil {
		return nil, err
	}
	switch kind {
	case KindDigital:
		return x_tree.NewDigital(codec), nil
	case KindSimple:
		return x_tree.NewSimpleResidue(codec), nil
	default:
		m := req.M
		if m == 0 {
			m = s.tree.M
		}
		return x_tree.NewMultipleResidue(codec, m)
	}
}

//---------------------
// Hash Configuration
//---------------------

// SetHashFunction installs a fresh, uncreated hash table using fn.
// With rehash set and a created table, fn replaces the function in place
// and live keys are rehashed.
func (s *Service) SetHashFunction(fn x_hash.Function, rehash bool) error {
	start := time.Now()
	it := s.items[KindHash]
	it.mu.Lock()
	err := func() error {
		if t, ok := it.s.(*x_hash.Table); ok && rehash && t.State().Initialized() {
			return t.SetFunction(fn)
		}
		t, err := x_hash.New(fn)
		if err != nil {
			return err
		}
		it.s = t
		return nil
	}()
	it.mu.Unlock()

	s.emit(start, newEvent(KindHash, OpSetHash, fn.String(), nil, err))
	return err
}

// SetCollision selects chaining or an open addressing resolver.
func (s *Service) SetCollision(cfg x_hash.CollisionConfig) error {
	start := time.Now()
	it := s.items[KindHash]
	it.mu.Lock()
	err := func() error {
		t, ok := it.s.(*x_hash.Table)
		if !ok {
			return ErrHashNotSet
		}
		if cfg.Chaining() {
			return t.SetChaining()
		}
		r, err := cfg.Resolver()
		if err != nil {
			return err
		}
		return t.SetResolver(r)
	}()
	it.mu.Unlock()

	s.emit(start, newEvent(KindHash, OpCollision, cfg.Type, nil, err))
	return err
}

//---------------------
// Operations
//---------------------

// InsertResult reports where a key landed.
// Position is the slot used by the insert; Sorted is where search finds it
// afterwards, which differs only for re-sorting stores.
type InsertResult struct {
	Key      string `json:"value"`
	Position int    `json:"position"`
	Sorted   []int  `json:"sorted_position"`
}

// Insert adds a key. Numeric keys are zero-padded to the configured width.
func (s *Service) Insert(kind Kind, raw string) (InsertResult, error) {
	start := time.Now()
	it, err := s.item(kind)
	if err != nil {
		return InsertResult{}, err
	}
	it.mu.Lock()
	res, err := func() (InsertResult, error) {
		if it.s == nil {
			return InsertResult{Key: raw}, s.notReady(kind)
		}
		st := it.s.State()
		if !st.Initialized() {
			return InsertResult{Key: raw}, x_search.ErrNotInitialized
		}
		key, err := s.normalizeStrict(it, raw, st.Digits)
		if err != nil {
			return InsertResult{Key: raw}, err
		}
		pos, err := it.s.Insert(key)
		if err != nil {
			return InsertResult{Key: key}, err
		}
		return InsertResult{Key: key, Position: pos, Sorted: it.s.Search(key)}, nil
	}()
	it.mu.Unlock()

	var pos []int
	if err == nil {
		pos = []int{res.Position}
	}
	s.emit(start, newEvent(kind, OpInsert, res.Key, pos, err))
	return res, err
}

func (s *Service) notReady(kind Kind) error {
	if kind == KindHash {
		return ErrHashNotSet
	}
	return x_search.ErrNotInitialized
}

// Search returns the positions of key. Unconfigured structures and
// malformed keys yield no positions.
func (s *Service) Search(kind Kind, raw string) (string, []int, error) {
	start := time.Now()
	it, err := s.item(kind)
	if err != nil {
		return raw, nil, err
	}
	it.mu.Lock()
	key, pos := s.lookup(it, raw)
	it.mu.Unlock()

	s.emit(start, newEvent(kind, OpSearch, key, pos, nil))
	return key, pos, nil
}

func (s *Service) lookup(it *instance, raw string) (string, []int) {
	if it.s == nil {
		return raw, x_search.Positions()
	}
	key := s.normalize(it, raw)
	return key, it.s.Search(key)
}

// normalizeStrict pads numeric keys and upper-cases tree letters.
func (s *Service) normalizeStrict(it *instance, raw string, digits int) (string, error) {
	if t, ok := it.s.(*x_tree.Tree); ok {
		return t.Codec().Normalize(raw)
	}
	return x_search.NormalizeKey(raw, digits)
}

// normalize is normalizeStrict for lookups: malformed keys come back unchanged.
func (s *Service) normalize(it *instance, raw string) string {
	st := it.s.State()
	if !st.Initialized() {
		return raw
	}
	if key, err := s.normalizeStrict(it, raw, st.Digits); err == nil {
		return key
	}
	return raw
}

// Delete removes key and returns the positions it occupied.
func (s *Service) Delete(kind Kind, raw string) (string, []int, error) {
	start := time.Now()
	it, err := s.item(kind)
	if err != nil {
		return raw, nil, err
	}
	it.mu.Lock()
	key, pos, err := func() (string, []int, error) {
		if it.s == nil {
			return raw, x_search.Positions(), nil
		}
		key := s.normalize(it, raw)
		pos, err := it.s.Delete(key)
		return key, pos, err
	}()
	it.mu.Unlock()

	s.emit(start, newEvent(kind, OpDelete, key, pos, err))
	return key, pos, err
}

// State returns a snapshot of the structure; unconfigured kinds report size 0.
func (s *Service) State(kind Kind) (x_search.State, error) {
	it, err := s.item(kind)
	if err != nil {
		return x_search.State{}, err
	}
	it.mu.Lock()
	defer it.mu.Unlock()
	if it.s == nil {
		return x_search.State{Data: []*string{}}, nil
	}
	return it.s.State(), nil
}

// Sort runs the structure's sort; hash tables and trees refuse.
func (s *Service) Sort(kind Kind) error {
	it, err := s.item(kind)
	if err != nil {
		return err
	}
	it.mu.Lock()
	defer it.mu.Unlock()
	if it.s == nil {
		return s.notReady(kind)
	}
	return it.s.Sort()
}
