// file:searchlab/pkg/x_search/errors.go
package x_search

import "errors"

//---------------------
// Error Kinds
//---------------------

var (
	ErrNotInitialized           = errors.New("search: structure not initialized")
	ErrInvalidConfig            = errors.New("search: invalid config")
	ErrInvalidKey               = errors.New("search: invalid key")
	ErrInvalidLetter            = errors.New("search: invalid letter")
	ErrDuplicateKey             = errors.New("search: duplicate key")
	ErrFull                     = errors.New("search: no free slot")
	ErrCollisionWithoutStrategy = errors.New("search: collision without strategy")
	ErrDepthExceeded            = errors.New("search: depth exceeded")
	ErrNotSupported             = errors.New("search: operation not supported")
)

// kinds keeps the order used by Kind when an error wraps several sentinels.
var kinds = []struct {
	err  error
	name string
}{
	{ErrNotInitialized, "NotInitialized"},
	{ErrInvalidConfig, "InvalidConfig"},
	{ErrInvalidKey, "InvalidKey"},
	{ErrInvalidLetter, "InvalidLetter"},
	{ErrDuplicateKey, "DuplicateKey"},
	{ErrFull, "Full"},
	{ErrCollisionWithoutStrategy, "CollisionWithoutStrategy"},
	{ErrDepthExceeded, "DepthExceeded"},
	{ErrNotSupported, "NotSupported"},
}

// Kind returns the name of the error kind wrapped by err, or "" if none.
func Kind(err error) string {
	if err == nil {
		return ""
	}
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.name
		}
	}
	return ""
}
