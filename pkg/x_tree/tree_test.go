package x_tree_test

import (
	"bytes"
	"testing"

	"github.com/rskv-p/searchlab/pkg/x_search"
	"github.com/rskv-p/searchlab/pkg/x_tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func insert(t *testing.T, tr *x_tree.Tree, letter string) int {
	t.Helper()
	p, err := tr.Insert(letter)
	require.NoError(t, err)
	return p
}

func child(t *testing.T, tr *x_tree.Tree, id x_tree.NodeID, i int) (x_tree.NodeID, x_tree.Node) {
	t.Helper()
	n, ok := tr.Node(id)
	require.True(t, ok)
	c := n.Children[i]
	require.NotEqual(t, x_tree.Nil, c, "child %d of node %d is empty", i, id)
	cn, ok := tr.Node(c)
	require.True(t, ok)
	return c, cn
}

func newTrees(t *testing.T) []*x_tree.Tree {
	t.Helper()
	multi, err := x_tree.NewMultipleResidue(x_tree.DefaultCodec(), 2)
	require.NoError(t, err)
	return []*x_tree.Tree{
		x_tree.NewDigital(x_tree.DefaultCodec()),
		x_tree.NewSimpleResidue(x_tree.DefaultCodec()),
		multi,
	}
}

func TestTree_Contract(t *testing.T) {
	for _, tr := range newTrees(t) {
		t.Run(tr.Variant().String(), func(t *testing.T) {
			//---------------------
			// before create
			//---------------------
			_, err := tr.Insert("A")
			assert.ErrorIs(t, err, x_search.ErrNotInitialized)
			assert.Equal(t, []int{}, tr.Search("A"))
			pos, err := tr.Delete("A")
			require.NoError(t, err)
			assert.Empty(t, pos)

			assert.ErrorIs(t, tr.Create(0, 5), x_search.ErrInvalidConfig)
			require.NoError(t, tr.Create(4, 5))

			//---------------------
			// insert, duplicates, full
			//---------------------
			letters := []string{"P", "R", "U", "E"}
			for i, l := range letters {
				assert.Equal(t, i+1, insert(t, tr, l))
			}
			for i, l := range letters {
				assert.Equal(t, []int{i + 1}, tr.Search(l), l)
			}
			assert.Empty(t, tr.Search("A"))
			assert.Empty(t, tr.Search("?"))

			before := tr.State()
			_, err = tr.Insert("p")
			assert.ErrorIs(t, err, x_search.ErrDuplicateKey)
			assert.Equal(t, before, tr.State())

			_, err = tr.Insert("A")
			assert.ErrorIs(t, err, x_search.ErrFull)
			_, err = tr.Insert("7")
			assert.ErrorIs(t, err, x_search.ErrInvalidLetter)

			//---------------------
			// delete every key in turn
			//---------------------
			for i, l := range letters {
				pos, err := tr.Delete(l)
				require.NoError(t, err)
				assert.Equal(t, []int{i + 1}, pos)
				assert.Empty(t, tr.Search(l))
				for _, rest := range letters[i+1:] {
					assert.NotEmpty(t, tr.Search(rest), rest)
				}
			}
			assert.Equal(t, []*string{nil, nil, nil, nil}, tr.State().Data)
			assert.ErrorIs(t, tr.Sort(), x_search.ErrNotSupported)
		})
	}
}

func TestTree_CodeTooWide(t *testing.T) {
	tr := x_tree.NewSimpleResidue(x_tree.DefaultCodec())
	require.NoError(t, tr.Create(10, 3))
	_, err := tr.Insert("Z")
	assert.ErrorIs(t, err, x_search.ErrInvalidKey)
	assert.Equal(t, 1, insert(t, tr, "G"))
}

func TestNewMultipleResidue_InvalidM(t *testing.T) {
	_, err := x_tree.NewMultipleResidue(x_tree.DefaultCodec(), 0)
	assert.ErrorIs(t, err, x_search.ErrInvalidConfig)
	_, err = x_tree.NewMultipleResidue(x_tree.DefaultCodec(), 9)
	assert.ErrorIs(t, err, x_search.ErrInvalidConfig)
}

func TestDigital_Shape(t *testing.T) {
	tr := x_tree.NewDigital(x_tree.DefaultCodec())
	require.NoError(t, tr.Create(10, 5))

	// P=10000 R=10010 U=10101 E=00101
	insert(t, tr, "P")
	insert(t, tr, "R")
	insert(t, tr, "U")
	insert(t, tr, "E")

	root, ok := tr.Node(tr.Root())
	require.True(t, ok)
	assert.Equal(t, "P", root.Letter)
	r, rn := child(t, tr, tr.Root(), 1)
	assert.Equal(t, "R", rn.Letter)
	_, un := child(t, tr, r, 0)
	assert.Equal(t, "U", un.Letter)
	_, en := child(t, tr, tr.Root(), 0)
	assert.Equal(t, "E", en.Letter)
	assert.Equal(t, 4, tr.Len())
}

func TestDigital_DeleteLiftsDescendant(t *testing.T) {
	tr := x_tree.NewDigital(x_tree.DefaultCodec())
	require.NoError(t, tr.Create(10, 5))
	insert(t, tr, "P")
	insert(t, tr, "R")
	insert(t, tr, "U")
	insert(t, tr, "E")

	//---------------------
	// R has U below it: U moves up into R's node
	//---------------------
	_, err := tr.Delete("R")
	require.NoError(t, err)
	assert.Equal(t, 3, tr.Len())
	_, n := child(t, tr, tr.Root(), 1)
	assert.Equal(t, "U", n.Letter)
	assert.Equal(t, []int{3}, tr.Search("U"))
	assert.Empty(t, tr.Search("R"))

	//---------------------
	// the root takes its first descendant leaf
	//---------------------
	_, err = tr.Delete("P")
	require.NoError(t, err)
	root, _ := tr.Node(tr.Root())
	assert.Equal(t, "E", root.Letter)
	assert.Equal(t, []int{4}, tr.Search("E"))
	assert.Equal(t, []int{3}, tr.Search("U"))

	//---------------------
	// a freed slot and node are reused
	//---------------------
	assert.Equal(t, 1, insert(t, tr, "P"))
	assert.Equal(t, []int{1}, tr.Search("P"))
	assert.Equal(t, 3, tr.Len())
}

func TestSimpleResidue_SplitOnCommonPrefix(t *testing.T) {
	tr := x_tree.NewSimpleResidue(x_tree.DefaultCodec())
	require.NoError(t, tr.Create(10, 5))

	// P=10000 and R=10010 share the prefix 100
	insert(t, tr, "P")
	root, _ := tr.Node(tr.Root())
	assert.False(t, root.HasKey())
	_, leaf := child(t, tr, tr.Root(), 1)
	assert.Equal(t, "P", leaf.Letter)

	insert(t, tr, "R")
	i1, n1 := child(t, tr, tr.Root(), 1)
	assert.False(t, n1.HasKey())
	i2, n2 := child(t, tr, i1, 0)
	assert.False(t, n2.HasKey())
	i3, n3 := child(t, tr, i2, 0)
	assert.False(t, n3.HasKey())

	_, p := child(t, tr, i3, 0)
	_, r := child(t, tr, i3, 1)
	assert.Equal(t, "P", p.Letter)
	assert.Equal(t, "R", r.Letter)
	assert.Equal(t, 6, tr.Len())

	assert.Equal(t, []int{1}, tr.Search("P"))
	assert.Equal(t, []int{2}, tr.Search("R"))

	//---------------------
	// deleting both prunes every internal node but the root
	//---------------------
	_, err := tr.Delete("R")
	require.NoError(t, err)
	assert.Equal(t, 5, tr.Len())
	_, err = tr.Delete("P")
	require.NoError(t, err)
	assert.Equal(t, 1, tr.Len())
	root, _ = tr.Node(tr.Root())
	assert.Equal(t, []x_tree.NodeID{x_tree.Nil, x_tree.Nil}, root.Children)
}

func TestMultipleResidue_ChunkSplit(t *testing.T) {
	tr, err := x_tree.NewMultipleResidue(x_tree.DefaultCodec(), 2)
	require.NoError(t, err)
	require.NoError(t, tr.Create(10, 5))

	// A=00|00|1 and B=00|01|0 collide on the first chunk only
	insert(t, tr, "A")
	insert(t, tr, "B")

	root, _ := tr.Node(tr.Root())
	assert.Len(t, root.Children, 4)
	mid, n := child(t, tr, tr.Root(), 0)
	assert.False(t, n.HasKey())
	assert.Len(t, n.Children, 4)
	_, a := child(t, tr, mid, 0)
	_, b := child(t, tr, mid, 1)
	assert.Equal(t, "A", a.Letter)
	assert.Equal(t, "B", b.Letter)
	assert.Equal(t, 4, tr.Len())

	assert.Equal(t, []int{1}, tr.Search("A"))
	assert.Equal(t, []int{2}, tr.Search("B"))

	_, err = tr.Delete("A")
	require.NoError(t, err)
	_, err = tr.Delete("B")
	require.NoError(t, err)
	assert.Equal(t, 1, tr.Len())
}

func TestTree_Dump(t *testing.T) {
	tr := x_tree.NewSimpleResidue(x_tree.DefaultCodec())
	var buf bytes.Buffer
	tr.Dump(&buf)
	assert.Equal(t, "EMPTY\n", buf.String())

	require.NoError(t, tr.Create(10, 5))
	insert(t, tr, "P")
	insert(t, tr, "R")
	buf.Reset()
	tr.Dump(&buf)
	out := buf.String()
	assert.Contains(t, out, "-- NODE\n")
	assert.Contains(t, out, "  |__ 1 NODE\n")
	assert.Contains(t, out, "        |__ 0 LEAF P code=10000 slot=1\n")
	assert.Contains(t, out, "        |__ 1 LEAF R code=10010 slot=2\n")

	var edges []string
	tr.Walk(func(id x_tree.NodeID, n x_tree.Node, depth int, edge string) bool {
		edges = append(edges, edge)
		return true
	})
	assert.Equal(t, []string{"", "1", "0", "0", "0", "1"}, edges)
}
