// file:searchlab/pkg/x_tree/dump.go
package x_tree

import (
	"fmt"
	"io"
	"strings"
)

//---------------------
// Traversal
//---------------------

// WalkFunc visits a node. edge is the label of the branch leading to it,
// "" for the root. Returning false skips the node's children.
type WalkFunc func(id NodeID, n Node, depth int, edge string) bool

// Walk visits nodes depth-first, children in slot order.
func (t *Tree) Walk(fn WalkFunc) {
	if t.root == Nil {
		return
	}
	t.walk(t.root, 0, "", fn)
}

func (t *Tree) walk(id NodeID, depth int, edge string, fn WalkFunc) {
	n, _ := t.Node(id)
	if !fn(id, n, depth, edge) {
		return
	}
	for i, c := range n.Children {
		if c != Nil {
			t.walk(c, depth+1, edgeLabel(i, t.m), fn)
		}
	}
}

//---------------------
// Tree Dump (Debug)
//---------------------

// Dump writes a visual tree representation to w.
func (t *Tree) Dump(w io.Writer) {
	if t.root == Nil {
		fmt.Fprintln(w, "EMPTY")
		return
	}
	t.Walk(func(id NodeID, n Node, depth int, edge string) bool {
		if edge != "" {
			edge += " "
		}
		if n.HasKey() {
			fmt.Fprintf(w, "%s%sLEAF %s code=%s slot=%d\n", dumpPre(depth), edge, n.Letter, n.Code, n.Slot+1)
		} else {
			fmt.Fprintf(w, "%s%sNODE\n", dumpPre(depth), edge)
		}
		return true
	})
}

func dumpPre(depth int) string {
	if depth == 0 {
		return "-- "
	}
	var b strings.Builder
	for i := 0; i < depth; i++ {
		b.WriteString("  ")
	}
	b.WriteString("|__ ")
	return b.String()
}
