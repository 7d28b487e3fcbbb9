// file:searchlab/pkg/x_hash/table.go
package x_hash

import (
	"fmt"
	"slices"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/rskv-p/searchlab/pkg/x_search"
)

//---------------------
// Mode
//---------------------

// Mode is the collision handling state of a Table.
type Mode string

const (
	ModeNone     Mode = "none"
	ModeOpen     Mode = "open"
	ModeChaining Mode = "chaining"
)

//---------------------
// Table
//---------------------

// Table is a fixed-size hash table.
// In none and open mode keys live in a flat slot array ("" is empty) and
// deleted open-mode slots are tracked in tombs. In chaining mode each slot
// is an unbounded bucket.
type Table struct {
	fn       Function
	resolver *Resolver
	mode     Mode

	size    int
	digits  int
	slots   []string
	tombs   *roaring.Bitmap
	buckets [][]string
}

var _ x_search.Structure = (*Table)(nil)

// New returns an uncreated table in none mode.
func New(fn Function) (*Table, error) {
	if err := fn.Validate(); err != nil {
		return nil, err
	}
	return &Table{fn: fn, mode: ModeNone, tombs: roaring.New()}, nil
}

func (t *Table) Mode() Mode          { return t.mode }
func (t *Table) Function() Function  { return t.fn }
func (t *Table) Resolver() *Resolver { return t.resolver }
func (t *Table) created() bool       { return t.size > 0 }
func (t *Table) isTomb(i int) bool   { return t.tombs.Contains(uint32(i)) }

func (t *Table) index(key string) (int, error) {
	h, err := t.fn.Hash(key, t.digits, t.size)
	if err != nil {
		return 0, err
	}
	return h % t.size, nil
}

// Create allocates storage shaped by the current mode.
func (t *Table) Create(size, digits int) error {
	if err := x_search.CheckNumericConfig(size, digits); err != nil {
		return err
	}
	t.size, t.digits = size, digits
	t.alloc()
	return nil
}

func (t *Table) alloc() {
	t.tombs.Clear()
	if t.mode == ModeChaining {
		t.slots = nil
		t.buckets = make([][]string, t.size)
		return
	}
	t.buckets = nil
	t.slots = make([]string, t.size)
}

// SetResolver switches a flat table to open addressing.
// A chaining table cannot go back to a flat layout.
func (t *Table) SetResolver(r Resolver) error {
	if err := r.Validate(); err != nil {
		return err
	}
	if t.mode == ModeChaining {
		return fmt.Errorf("%w: table already uses chaining", x_search.ErrNotSupported)
	}
	t.resolver = &r
	t.mode = ModeOpen
	return nil
}

// SetChaining migrates every live key into per-slot buckets.
// If any key fails to hash the table is left as it was.
func (t *Table) SetChaining() error {
	if t.mode == ModeChaining {
		return nil
	}
	var buckets [][]string
	if t.created() {
		buckets = make([][]string, t.size)
		for _, k := range t.Keys() {
			i, err := t.index(k)
			if err != nil {
				return fmt.Errorf("migrate %s: %w", k, err)
			}
			buckets[i] = append(buckets[i], k)
		}
	}
	t.mode = ModeChaining
	t.resolver = nil
	if buckets != nil {
		t.tombs.Clear()
		t.slots = nil
		t.buckets = buckets
	}
	return nil
}

// SetFunction replaces the hash function and rehashes live keys.
// On failure the table is left as it was.
func (t *Table) SetFunction(fn Function) error {
	if err := fn.Validate(); err != nil {
		return err
	}
	if !t.created() {
		t.fn = fn
		return nil
	}
	keys := t.Keys()
	prev := *t
	prev.tombs = t.tombs.Clone()
	t.fn = fn
	t.tombs = roaring.New()
	t.alloc()
	for _, k := range keys {
		if _, err := t.Insert(k); err != nil {
			*t = prev
			return fmt.Errorf("rehash %s: %w", k, err)
		}
	}
	return nil
}

// Keys returns the live keys in slot order.
func (t *Table) Keys() []string {
	var keys []string
	for _, b := range t.buckets {
		keys = append(keys, b...)
	}
	for _, v := range t.slots {
		if v != "" {
			keys = append(keys, v)
		}
	}
	return keys
}

//---------------------
// Operations
//---------------------

// Insert stores key and returns its 1-based slot or bucket.
func (t *Table) Insert(key string) (int, error) {
	if !t.created() {
		return 0, x_search.ErrNotInitialized
	}
	if err := x_search.ValidateKey(key, t.digits); err != nil {
		return 0, err
	}
	i, err := t.index(key)
	if err != nil {
		return 0, err
	}
	switch t.mode {
	case ModeChaining:
		if slices.Contains(t.buckets[i], key) {
			return 0, fmt.Errorf("%w: %s", x_search.ErrDuplicateKey, key)
		}
		t.buckets[i] = append(t.buckets[i], key)
		return i + 1, nil
	case ModeOpen:
		return t.insertOpen(key, i)
	default:
		switch t.slots[i] {
		case "":
			t.slots[i] = key
			return i + 1, nil
		case key:
			return 0, fmt.Errorf("%w: %s", x_search.ErrDuplicateKey, key)
		default:
			return 0, fmt.Errorf("%w: slot %d holds %s", x_search.ErrCollisionWithoutStrategy, i+1, t.slots[i])
		}
	}
}

// insertOpen walks the probe sequence until a never-used slot, remembering
// the first reusable slot, so a key past a tombstone is still seen as a duplicate.
func (t *Table) insertOpen(key string, initial int) (int, error) {
	free := -1
probe:
	for attempt := 0; attempt < t.size; attempt++ {
		p, err := t.resolver.Next(key, initial, attempt, t.size, t.digits)
		if err != nil {
			return 0, err
		}
		switch {
		case t.slots[p] == key:
			return 0, fmt.Errorf("%w: %s", x_search.ErrDuplicateKey, key)
		case t.slots[p] == "" && t.isTomb(p):
			if free < 0 {
				free = p
			}
		case t.slots[p] == "":
			if free < 0 {
				free = p
			}
			break probe
		}
	}
	if free < 0 {
		return 0, fmt.Errorf("%w: no probe slot for %s", x_search.ErrFull, key)
	}
	t.slots[free] = key
	t.tombs.Remove(uint32(free))
	return free + 1, nil
}

// Search returns the 1-based slots holding key.
func (t *Table) Search(key string) []int {
	if !t.created() || x_search.ValidateKey(key, t.digits) != nil {
		return x_search.Positions()
	}
	i, err := t.index(key)
	if err != nil {
		return x_search.Positions()
	}
	switch t.mode {
	case ModeChaining:
		if slices.Contains(t.buckets[i], key) {
			return []int{i + 1}
		}
	case ModeOpen:
		return t.probe(key, i)
	default:
		if t.slots[i] == key {
			return []int{i + 1}
		}
	}
	return x_search.Positions()
}

// probe collects matches along the probe sequence up to the first empty
// slot. Tombstones do not stop the walk.
func (t *Table) probe(key string, initial int) []int {
	pos := x_search.Positions()
	for attempt := 0; attempt < t.size; attempt++ {
		p, err := t.resolver.Next(key, initial, attempt, t.size, t.digits)
		if err != nil {
			break
		}
		if t.slots[p] == "" && !t.isTomb(p) {
			break
		}
		if t.slots[p] == key && !slices.Contains(pos, p+1) {
			pos = append(pos, p+1)
		}
	}
	return pos
}

// Delete removes key and returns the slots it occupied.
func (t *Table) Delete(key string) ([]int, error) {
	pos := t.Search(key)
	for _, p := range pos {
		i := p - 1
		switch t.mode {
		case ModeChaining:
			t.buckets[i] = slices.DeleteFunc(t.buckets[i], func(v string) bool { return v == key })
		case ModeOpen:
			t.slots[i] = ""
			t.tombs.Add(uint32(i))
		default:
			t.slots[i] = ""
		}
	}
	return pos, nil
}

// Sort has no meaning for hashed storage.
func (t *Table) Sort() error {
	return fmt.Errorf("%w: hash tables are not sortable", x_search.ErrNotSupported)
}

// State returns a snapshot of the table.
func (t *Table) State() x_search.State {
	st := x_search.State{Size: t.size, Digits: t.digits, Mode: string(t.mode)}
	if t.mode == ModeChaining {
		st.Buckets = make([][]string, len(t.buckets))
		for i, b := range t.buckets {
			st.Buckets[i] = append([]string{}, b...)
		}
		st.Data = make([]*string, len(t.buckets))
		return st
	}
	st.Data = x_search.Slots(t.slots)
	for _, v := range t.tombs.ToArray() {
		st.Tombstones = append(st.Tombstones, int(v)+1)
	}
	return st
}
