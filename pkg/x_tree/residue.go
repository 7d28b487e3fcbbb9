// file:searchlab/pkg/x_tree/residue.go
package x_tree

import (
	"fmt"

	"github.com/rskv-p/searchlab/pkg/x_search"
)

//---------------------
// Residue Trees
//---------------------

// insertResidue descends chunk by chunk from the keyless root. Reaching a
// leaf before the last chunk splits it: an internal node replaces the leaf,
// the leaf moves under its own next chunk, and insertion continues there.
func (t *Tree) insertResidue(letter, code string, slot int) error {
	ch := chunks(code, t.m)
	n := t.root
	for depth := 0; ; depth++ {
		if depth >= len(ch) {
			return fmt.Errorf("%w: %s has no free slot after %d chunks", x_search.ErrDepthExceeded, letter, len(ch))
		}
		c := ch[depth]
		child := t.arena.at(n).Children[c]
		switch {
		case child == Nil:
			id := t.leaf(letter, code, slot)
			t.arena.at(n).Children[c] = id
			return nil
		case t.arena.at(child).HasKey():
			if depth+1 >= len(ch) {
				return fmt.Errorf("%w: %s collides with %s at the last chunk",
					x_search.ErrDepthExceeded, letter, t.arena.at(child).Letter)
			}
			existing := chunks(t.arena.at(child).Code, t.m)[depth+1]
			mid := t.arena.alloc(t.fanout())
			t.arena.at(mid).Children[existing] = child
			t.arena.at(n).Children[c] = mid
			n = mid
		default:
			n = child
		}
	}
}

// findResidue stops at the first leaf on the path.
func (t *Tree) findResidue(code string) NodeID {
	id, _ := t.pathResidue(code)
	return id
}

func (t *Tree) pathResidue(code string) (NodeID, []step) {
	n := t.root
	if n == Nil {
		return Nil, nil
	}
	var path []step
	for _, c := range chunks(code, t.m) {
		path = append(path, step{n, c})
		n = t.arena.at(n).Children[c]
		if n == Nil {
			return Nil, nil
		}
		if t.arena.at(n).HasKey() {
			if t.arena.at(n).Code == code {
				return n, path
			}
			return Nil, nil
		}
	}
	return Nil, nil
}

// deleteResidue unlinks the leaf and prunes keyless childless ancestors.
// The root is never pruned.
func (t *Tree) deleteResidue(code string) {
	id, path := t.pathResidue(code)
	if id == Nil {
		return
	}
	t.detach(id, path)
	for i := len(path) - 1; i > 0; i-- {
		n := path[i].parent
		if !t.arena.at(n).empty() {
			return
		}
		up := path[i-1]
		t.arena.at(up.parent).Children[up.child] = Nil
		t.arena.release(n)
	}
}
