package search_serv

import (
	"bytes"
	"fmt"
	"slices"

	"github.com/rskv-p/searchlab/pkg/x_search"
	"github.com/rskv-p/searchlab/pkg/x_tree"
)

// NodeView is a tree node flattened for clients that draw the tree.
type NodeView struct {
	ID       x_tree.NodeID   `json:"id"`
	Depth    int             `json:"depth"`
	Edge     string          `json:"edge"`
	Letter   string          `json:"letter,omitempty"`
	Code     string          `json:"code,omitempty"`
	Slot     int             `json:"slot,omitempty"` // 1-based, 0 for internal nodes
	Children []x_tree.NodeID `json:"children"`
}

// TreeView is a depth-first listing of a tree, root first.
type TreeView struct {
	Variant string     `json:"variant"`
	M       int        `json:"m"`
	Root    int        `json:"root"`
	Nodes   []NodeView `json:"nodes"`
	Dump    string     `json:"dump"`
}

// Nodes returns the node listing of a tree kind.
func (s *Service) Nodes(kind Kind) (TreeView, error) {
	if !kind.IsTree() {
		return TreeView{}, fmt.Errorf("%w: %s has no nodes", x_search.ErrNotSupported, kind)
	}
	it, err := s.item(kind)
	if err != nil {
		return TreeView{}, err
	}
	it.mu.Lock()
	defer it.mu.Unlock()

	t, ok := it.s.(*x_tree.Tree)
	if !ok {
		return TreeView{Variant: string(kind), Root: int(x_tree.Nil), Nodes: []NodeView{}}, nil
	}
	view := TreeView{Variant: t.Variant().String(), M: t.M(), Root: int(t.Root()), Nodes: []NodeView{}}
	t.Walk(func(id x_tree.NodeID, n x_tree.Node, depth int, edge string) bool {
		nv := NodeView{ID: id, Depth: depth, Edge: edge, Letter: n.Letter, Code: n.Code, Children: slices.Clone(n.Children)}
		if n.HasKey() {
			nv.Slot = n.Slot + 1
		}
		view.Nodes = append(view.Nodes, nv)
		return true
	})
	var buf bytes.Buffer
	t.Dump(&buf)
	view.Dump = buf.String()
	return view, nil
}
