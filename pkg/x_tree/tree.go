// file:searchlab/pkg/x_tree/tree.go
package x_tree

import (
	"fmt"

	"github.com/rskv-p/searchlab/pkg/x_search"
)

//---------------------
// Variant
//---------------------

// Variant is the trie shape.
type Variant int

const (
	Digital Variant = iota
	SimpleResidue
	MultipleResidue
)

func (v Variant) String() string {
	switch v {
	case Digital:
		return "digital"
	case SimpleResidue:
		return "simple-residue"
	case MultipleResidue:
		return "multiple-residue"
	default:
		return fmt.Sprintf("variant(%d)", int(v))
	}
}

// DefaultSize is the storage capacity used when create gives none.
const DefaultSize = 1000

//---------------------
// Tree
//---------------------

// Tree is a letter-keyed trie over binary codes, backed by a fixed
// storage array holding each key's code.
type Tree struct {
	variant Variant
	m       int
	codec   Codec

	digits int
	slots  []string
	arena  arena
	root   NodeID
}

var _ x_search.Structure = (*Tree)(nil)

// NewDigital returns a binary trie whose root holds the first key.
func NewDigital(codec Codec) *Tree {
	return &Tree{variant: Digital, m: 1, codec: codec, root: Nil}
}

// NewSimpleResidue returns a binary trie that splits leaves on collision.
func NewSimpleResidue(codec Codec) *Tree {
	return &Tree{variant: SimpleResidue, m: 1, codec: codec, root: Nil}
}

// NewMultipleResidue returns a 2^m-way trie branching on m-bit chunks.
func NewMultipleResidue(codec Codec, m int) (*Tree, error) {
	if m < 1 || m > MaxChunkBits {
		return nil, fmt.Errorf("%w: m must be in 1..%d, got %d", x_search.ErrInvalidConfig, MaxChunkBits, m)
	}
	return &Tree{variant: MultipleResidue, m: m, codec: codec, root: Nil}, nil
}

func (t *Tree) Variant() Variant { return t.variant }
func (t *Tree) Codec() Codec     { return t.codec }
func (t *Tree) M() int           { return t.m }
func (t *Tree) Digits() int      { return t.digits }
func (t *Tree) Root() NodeID     { return t.root }
func (t *Tree) fanout() int      { return 1 << t.m }
func (t *Tree) created() bool    { return t.slots != nil }

// Create allocates size storage slots for codes of digits bits and
// resets the trie.
func (t *Tree) Create(size, digits int) error {
	if err := x_search.CheckConfig(size, digits); err != nil {
		return err
	}
	if digits > 31 {
		return fmt.Errorf("%w: digits must be at most 31, got %d", x_search.ErrInvalidConfig, digits)
	}
	t.digits = digits
	t.slots = make([]string, size)
	t.arena.reset()
	t.root = Nil
	if t.variant != Digital {
		t.root = t.arena.alloc(t.fanout())
	}
	return nil
}

// Node returns a copy of the node with the given id.
func (t *Tree) Node(id NodeID) (Node, bool) {
	if id < 0 || int(id) >= len(t.arena.nodes) || t.arena.nodes[id].Children == nil {
		return Node{}, false
	}
	n := t.arena.nodes[id]
	n.Children = append([]NodeID(nil), n.Children...)
	return n, true
}

// Len returns the number of live nodes, internal ones included.
func (t *Tree) Len() int { return t.arena.live() }

//---------------------
// Operations
//---------------------

// Insert adds letter and returns its 1-based storage slot.
func (t *Tree) Insert(letter string) (int, error) {
	if !t.created() {
		return 0, x_search.ErrNotInitialized
	}
	norm, err := t.codec.Normalize(letter)
	if err != nil {
		return 0, err
	}
	code, err := t.codec.Encode(norm, t.digits)
	if err != nil {
		return 0, err
	}
	if id := t.find(code); id != Nil {
		return 0, fmt.Errorf("%w: %s", x_search.ErrDuplicateKey, norm)
	}
	slot := -1
	for i, v := range t.slots {
		if v == "" {
			slot = i
			break
		}
	}
	if slot < 0 {
		return 0, fmt.Errorf("%w: %d slots in use", x_search.ErrFull, len(t.slots))
	}
	if t.variant == Digital {
		err = t.insertDigital(norm, code, slot)
	} else {
		err = t.insertResidue(norm, code, slot)
	}
	if err != nil {
		return 0, err
	}
	t.slots[slot] = code
	return slot + 1, nil
}

// Search returns the 1-based storage slot of letter.
func (t *Tree) Search(letter string) []int {
	if !t.created() {
		return x_search.Positions()
	}
	code, err := t.codec.Encode(letter, t.digits)
	if err != nil {
		return x_search.Positions()
	}
	id := t.find(code)
	if id == Nil {
		return x_search.Positions()
	}
	return []int{t.arena.at(id).Slot + 1}
}

// Delete removes letter from storage and from the trie.
func (t *Tree) Delete(letter string) ([]int, error) {
	pos := t.Search(letter)
	if len(pos) == 0 {
		return pos, nil
	}
	code := t.slots[pos[0]-1]
	t.slots[pos[0]-1] = ""
	if t.variant == Digital {
		t.deleteDigital(code)
	} else {
		t.deleteResidue(code)
	}
	return pos, nil
}

// Sort is meaningless for a trie.
func (t *Tree) Sort() error {
	return fmt.Errorf("%w: trees are not sortable", x_search.ErrNotSupported)
}

// State returns the storage array of binary codes.
func (t *Tree) State() x_search.State {
	return x_search.State{
		Size:   len(t.slots),
		Digits: t.digits,
		Mode:   t.variant.String(),
		Data:   x_search.Slots(t.slots),
	}
}

func (t *Tree) find(code string) NodeID {
	if t.variant == Digital {
		return t.findDigital(code)
	}
	return t.findResidue(code)
}

func (t *Tree) leaf(letter, code string, slot int) NodeID {
	id := t.arena.alloc(t.fanout())
	n := t.arena.at(id)
	n.Letter, n.Code, n.Slot = letter, code, slot
	return id
}

// step is one edge on a root-to-node path.
type step struct {
	parent NodeID
	child  int
}
