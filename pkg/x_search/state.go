// file:searchlab/pkg/x_search/state.go
package x_search

//---------------------
// Structure Contract
//---------------------

// Structure is the operation set shared by every search structure.
type Structure interface {
	Insert(key string) (int, error)
	Search(key string) []int
	Delete(key string) ([]int, error)
	Sort() error
	State() State
}

// State is a read-only snapshot of a structure.
// Empty slots are nil in Data. Buckets is set only for bucketed layouts.
type State struct {
	Size       int        `json:"size"`
	Digits     int        `json:"digits"`
	Mode       string     `json:"mode,omitempty"`
	Data       []*string  `json:"data"`
	Buckets    [][]string `json:"buckets,omitempty"`
	Tombstones []int      `json:"tombstones,omitempty"`
}

// Initialized reports whether the snapshot comes from a created structure.
func (s State) Initialized() bool {
	return s.Size > 0
}

// Slots converts a slot array using "" for empty into State.Data form.
func Slots(data []string) []*string {
	out := make([]*string, len(data))
	for i, v := range data {
		if v != "" {
			v := v
			out[i] = &v
		}
	}
	return out
}

// Positions returns an empty non-nil slice so callers render [].
func Positions(p ...int) []int {
	if p == nil {
		return []int{}
	}
	return p
}
