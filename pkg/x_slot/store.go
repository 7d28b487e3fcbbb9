// file:searchlab/pkg/x_slot/store.go
package x_slot

import (
	"fmt"
	"sort"

	"github.com/rskv-p/searchlab/pkg/x_search"
)

//---------------------
// Algorithm
//---------------------

// Algorithm selects how a Store searches its slots.
type Algorithm int

const (
	Linear Algorithm = iota
	Binary
)

func (a Algorithm) String() string {
	switch a {
	case Linear:
		return "linear"
	case Binary:
		return "binary"
	default:
		return fmt.Sprintf("algorithm(%d)", int(a))
	}
}

//---------------------
// Store
//---------------------

// Store is a fixed-capacity slot array kept sorted with empty slots trailing.
// An empty slot holds "".
type Store struct {
	alg    Algorithm
	digits int
	slots  []string
}

var _ x_search.Structure = (*Store)(nil)

// New returns an uncreated store using the given search algorithm.
func New(alg Algorithm) *Store {
	return &Store{alg: alg}
}

func NewLinear() *Store { return New(Linear) }
func NewBinary() *Store { return New(Binary) }

// Algorithm reports the search algorithm.
func (s *Store) Algorithm() Algorithm { return s.alg }

// Create allocates size empty slots for keys of exactly digits characters.
// Any previous content is discarded.
func (s *Store) Create(size, digits int) error {
	if err := x_search.CheckNumericConfig(size, digits); err != nil {
		return err
	}
	s.digits = digits
	s.slots = make([]string, size)
	return nil
}

func (s *Store) created() bool { return s.slots != nil }

// Insert places key in the first empty slot and re-sorts.
// The returned position is the 1-based slot used before sorting.
func (s *Store) Insert(key string) (int, error) {
	if !s.created() {
		return 0, x_search.ErrNotInitialized
	}
	if err := x_search.ValidateKey(key, s.digits); err != nil {
		return 0, err
	}
	free := -1
	for i, v := range s.slots {
		if v == key {
			return 0, fmt.Errorf("%w: %s", x_search.ErrDuplicateKey, key)
		}
		if v == "" && free < 0 {
			free = i
		}
	}
	if free < 0 {
		return 0, fmt.Errorf("%w: %d slots in use", x_search.ErrFull, len(s.slots))
	}
	s.slots[free] = key
	s.compact()
	return free + 1, nil
}

// Search returns the 1-based positions holding key.
// An uncreated store or a malformed key yields no positions.
func (s *Store) Search(key string) []int {
	if !s.created() || x_search.ValidateKey(key, s.digits) != nil {
		return x_search.Positions()
	}
	if s.alg == Binary {
		return s.searchBinary(key)
	}
	return s.searchLinear(key)
}

// Delete empties every slot holding key and re-sorts.
func (s *Store) Delete(key string) ([]int, error) {
	pos := s.Search(key)
	if len(pos) == 0 {
		return pos, nil
	}
	for _, p := range pos {
		s.slots[p-1] = ""
	}
	s.compact()
	return pos, nil
}

// Sort moves occupied slots to the front in ascending order.
func (s *Store) Sort() error {
	if !s.created() {
		return x_search.ErrNotInitialized
	}
	s.compact()
	return nil
}

// State returns a snapshot of the slots.
func (s *Store) State() x_search.State {
	return x_search.State{
		Size:   len(s.slots),
		Digits: s.digits,
		Mode:   s.alg.String(),
		Data:   x_search.Slots(s.slots),
	}
}

//---------------------
// Internals
//---------------------

// compact sorts occupied slots ascending and moves empties to the end.
// Keys share one width, so string order is numeric order.
func (s *Store) compact() {
	n := 0
	for _, v := range s.slots {
		if v != "" {
			s.slots[n] = v
			n++
		}
	}
	for i := n; i < len(s.slots); i++ {
		s.slots[i] = ""
	}
	sort.Strings(s.slots[:n])
}

// used returns the occupied prefix of the sorted slots.
func (s *Store) used() []string {
	n := 0
	for n < len(s.slots) && s.slots[n] != "" {
		n++
	}
	return s.slots[:n]
}
