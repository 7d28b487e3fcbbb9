// file:searchlab/pkg/x_hash/bucket.go
package x_hash

import (
	"fmt"

	"github.com/rskv-p/searchlab/pkg/x_search"
)

// BucketTable hashes keys into size buckets of bucketSize fixed slots.
// Positions are 1-based bucket numbers.
type BucketTable struct {
	fn         Function
	bucketSize int
	digits     int
	buckets    [][]string
}

var _ x_search.Structure = (*BucketTable)(nil)

// NewBucketTable returns an uncreated bucket table.
func NewBucketTable(fn Function, bucketSize int) (*BucketTable, error) {
	if err := fn.Validate(); err != nil {
		return nil, err
	}
	if bucketSize <= 0 {
		return nil, fmt.Errorf("%w: bucket_size must be positive, got %d", x_search.ErrInvalidConfig, bucketSize)
	}
	return &BucketTable{fn: fn, bucketSize: bucketSize}, nil
}

func (b *BucketTable) BucketSize() int { return b.bucketSize }

// Create allocates size empty buckets.
func (b *BucketTable) Create(size, digits int) error {
	if err := x_search.CheckNumericConfig(size, digits); err != nil {
		return err
	}
	b.digits = digits
	b.buckets = make([][]string, size)
	for i := range b.buckets {
		b.buckets[i] = make([]string, b.bucketSize)
	}
	return nil
}

func (b *BucketTable) bucket(key string) (int, error) {
	h, err := b.fn.Hash(key, b.digits, len(b.buckets))
	if err != nil {
		return 0, err
	}
	return h % len(b.buckets), nil
}

// Insert puts key into the first free slot of its bucket.
func (b *BucketTable) Insert(key string) (int, error) {
	if b.buckets == nil {
		return 0, x_search.ErrNotInitialized
	}
	if err := x_search.ValidateKey(key, b.digits); err != nil {
		return 0, err
	}
	i, err := b.bucket(key)
	if err != nil {
		return 0, err
	}
	free := -1
	for j, v := range b.buckets[i] {
		if v == key {
			return 0, fmt.Errorf("%w: %s", x_search.ErrDuplicateKey, key)
		}
		if v == "" && free < 0 {
			free = j
		}
	}
	if free < 0 {
		return 0, fmt.Errorf("%w: bucket %d holds %d keys", x_search.ErrFull, i+1, b.bucketSize)
	}
	b.buckets[i][free] = key
	return i + 1, nil
}

// Search scans only the bucket of key.
func (b *BucketTable) Search(key string) []int {
	if b.buckets == nil || x_search.ValidateKey(key, b.digits) != nil {
		return x_search.Positions()
	}
	i, err := b.bucket(key)
	if err != nil {
		return x_search.Positions()
	}
	for _, v := range b.buckets[i] {
		if v == key {
			return []int{i + 1}
		}
	}
	return x_search.Positions()
}

// Delete frees the slot holding key.
func (b *BucketTable) Delete(key string) ([]int, error) {
	pos := b.Search(key)
	for _, p := range pos {
		for j, v := range b.buckets[p-1] {
			if v == key {
				b.buckets[p-1][j] = ""
			}
		}
	}
	return pos, nil
}

func (b *BucketTable) Sort() error {
	return fmt.Errorf("%w: bucket tables are not sortable", x_search.ErrNotSupported)
}

// State returns every bucket with "" for free slots.
func (b *BucketTable) State() x_search.State {
	st := x_search.State{Size: len(b.buckets), Digits: b.digits, Mode: "buckets"}
	st.Data = make([]*string, len(b.buckets))
	st.Buckets = make([][]string, len(b.buckets))
	for i, bk := range b.buckets {
		st.Buckets[i] = append([]string{}, bk...)
	}
	return st
}
