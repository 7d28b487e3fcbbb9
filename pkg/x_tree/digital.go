// file:searchlab/pkg/x_tree/digital.go
package x_tree

import (
	"fmt"

	"github.com/rskv-p/searchlab/pkg/x_search"
)

//---------------------
// Digital Tree
//---------------------

// insertDigital hangs a new leaf at the first empty child on the bit path.
func (t *Tree) insertDigital(letter, code string, slot int) error {
	if t.root == Nil {
		t.root = t.leaf(letter, code, slot)
		return nil
	}
	n := t.root
	for _, bit := range chunks(code, 1) {
		child := t.arena.at(n).Children[bit]
		if child == Nil {
			id := t.leaf(letter, code, slot)
			t.arena.at(n).Children[bit] = id
			return nil
		}
		n = child
	}
	return fmt.Errorf("%w: bit path of %s exhausted", x_search.ErrDepthExceeded, letter)
}

// findDigital checks the root and every node on the bit path.
func (t *Tree) findDigital(code string) NodeID {
	id, _ := t.pathDigital(code)
	return id
}

func (t *Tree) pathDigital(code string) (NodeID, []step) {
	n := t.root
	if n == Nil {
		return Nil, nil
	}
	if t.arena.at(n).Code == code {
		return n, nil
	}
	var path []step
	for _, bit := range chunks(code, 1) {
		path = append(path, step{n, bit})
		n = t.arena.at(n).Children[bit]
		if n == Nil {
			return Nil, nil
		}
		if t.arena.at(n).Code == code {
			return n, path
		}
	}
	return Nil, nil
}

// deleteDigital removes the node holding code. A node with descendants
// takes over the content of one descendant leaf, which is then dropped.
// Any descendant shares the node's path prefix, so search stays correct.
func (t *Tree) deleteDigital(code string) {
	id, path := t.pathDigital(code)
	if id == Nil {
		return
	}
	n := t.arena.at(id)
	if n.firstChild() < 0 {
		t.detach(id, path)
		return
	}
	leaf, lpath := id, []step(nil)
	for {
		c := t.arena.at(leaf).firstChild()
		if c < 0 {
			break
		}
		lpath = append(lpath, step{leaf, c})
		leaf = t.arena.at(leaf).Children[c]
	}
	src := t.arena.at(leaf)
	dst := t.arena.at(id)
	dst.Letter, dst.Code, dst.Slot = src.Letter, src.Code, src.Slot
	last := lpath[len(lpath)-1]
	t.arena.at(last.parent).Children[last.child] = Nil
	t.arena.release(leaf)
}

// detach unlinks id from its parent, or clears the root.
func (t *Tree) detach(id NodeID, path []step) {
	if len(path) == 0 {
		t.root = Nil
	} else {
		last := path[len(path)-1]
		t.arena.at(last.parent).Children[last.child] = Nil
	}
	t.arena.release(id)
}
