package search_serv

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rskv-p/searchlab/pkg/x_search"
)

// Kind names one of the structures owned by the service.
type Kind string

const (
	KindLinear   Kind = "linear-search"
	KindBinary   Kind = "binary-search"
	KindHash     Kind = "hash"
	KindBucket   Kind = "bucket-hash"
	KindDigital  Kind = "digital"
	KindSimple   Kind = "simple-residue"
	KindMultiple Kind = "multiple-residue"
)

// Kinds lists every structure kind.
var Kinds = []Kind{KindLinear, KindBinary, KindHash, KindBucket, KindDigital, KindSimple, KindMultiple}

// Errors
var (
	ErrUnknownKind = errors.New("search: unknown structure kind")
	ErrHashNotSet  = fmt.Errorf("%w: define the hash function first", x_search.ErrNotInitialized)
)

// ParseKind accepts a kind name, case-insensitively.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Kinds {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// IsTree reports whether the kind is keyed by letters.
func (k Kind) IsTree() bool {
	return k == KindDigital || k == KindSimple || k == KindMultiple
}
