// file:searchlab/pkg/x_tree/util.go
package x_tree

import (
	"fmt"
	"strconv"
)

//---------------------
// Chunk Helpers
//---------------------

// MaxChunkBits bounds m for the multiple residue tree.
const MaxChunkBits = 8

// chunks splits a binary code into branch selectors of m bits.
// A shorter trailing chunk is parsed as-is.
func chunks(code string, m int) []int {
	out := make([]int, 0, (len(code)+m-1)/m)
	for i := 0; i < len(code); i += m {
		end := min(i+m, len(code))
		v, _ := strconv.ParseUint(code[i:end], 2, 32)
		out = append(out, int(v))
	}
	return out
}

// edgeLabel renders a child index as an m-bit string.
func edgeLabel(i, m int) string {
	return fmt.Sprintf("%0*b", m, i)
}
