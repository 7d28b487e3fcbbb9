// file:searchlab/pkg/x_slot/search.go
package x_slot

import (
	"sort"

	"github.com/rskv-p/searchlab/pkg/x_search"
)

// searchLinear scans every slot.
func (s *Store) searchLinear(key string) []int {
	pos := x_search.Positions()
	for i, v := range s.slots {
		if v == key {
			pos = append(pos, i+1)
		}
	}
	return pos
}

// searchBinary bisects the occupied prefix, then widens to equal neighbours.
// Positions are indices into the occupied prefix, which match slot indices
// while the store stays compacted.
func (s *Store) searchBinary(key string) []int {
	dense := s.used()
	i := sort.SearchStrings(dense, key)
	if i >= len(dense) || dense[i] != key {
		return x_search.Positions()
	}
	lo, hi := i, i
	for lo > 0 && dense[lo-1] == key {
		lo--
	}
	for hi+1 < len(dense) && dense[hi+1] == key {
		hi++
	}
	pos := make([]int, 0, hi-lo+1)
	for j := lo; j <= hi; j++ {
		pos = append(pos, j+1)
	}
	return pos
}
