// file:searchlab/pkg/x_tree/node.go
package x_tree

//---------------------
// Node Arena
//---------------------

// NodeID addresses a node in the tree arena.
type NodeID int32

// Nil marks an empty child slot.
const Nil NodeID = -1

// Node is a trie node. Internal nodes have no Letter.
type Node struct {
	Letter   string   `json:"letter,omitempty"`
	Code     string   `json:"code,omitempty"`
	Slot     int      `json:"slot"` // 0-based storage slot, -1 for internal nodes
	Children []NodeID `json:"children"`
}

// HasKey reports whether the node stores a letter.
func (n *Node) HasKey() bool { return n.Letter != "" }

// empty reports an internal node with no children.
func (n *Node) empty() bool {
	if n.HasKey() {
		return false
	}
	for _, c := range n.Children {
		if c != Nil {
			return false
		}
	}
	return true
}

// firstChild returns the lowest occupied child slot, or -1.
func (n *Node) firstChild() int {
	for i, c := range n.Children {
		if c != Nil {
			return i
		}
	}
	return -1
}

// arena owns all nodes of a tree; freed ids are reused.
type arena struct {
	nodes []Node
	free  []NodeID
}

func (a *arena) reset() {
	a.nodes = a.nodes[:0]
	a.free = a.free[:0]
}

func (a *arena) alloc(fanout int) NodeID {
	children := make([]NodeID, fanout)
	for i := range children {
		children[i] = Nil
	}
	n := Node{Slot: -1, Children: children}
	if k := len(a.free); k > 0 {
		id := a.free[k-1]
		a.free = a.free[:k-1]
		a.nodes[id] = n
		return id
	}
	a.nodes = append(a.nodes, n)
	return NodeID(len(a.nodes) - 1)
}

func (a *arena) release(id NodeID) {
	a.nodes[id] = Node{Slot: -1}
	a.free = append(a.free, id)
}

func (a *arena) at(id NodeID) *Node {
	return &a.nodes[id]
}

// live returns the number of allocated nodes.
func (a *arena) live() int {
	return len(a.nodes) - len(a.free)
}
