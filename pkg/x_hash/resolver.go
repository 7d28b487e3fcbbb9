// file:searchlab/pkg/x_hash/resolver.go
package x_hash

import (
	"fmt"
	"strconv"

	"github.com/rskv-p/searchlab/pkg/x_search"
)

// ResolverKind names a probe sequence generator.
type ResolverKind string

const (
	LinearProbe    ResolverKind = "linear"
	QuadraticProbe ResolverKind = "quadratic"
	DoubleHash     ResolverKind = "double"
)

// Resolver generates the open addressing probe sequence.
type Resolver struct {
	Kind      ResolverKind
	Secondary *Function
}

func NewLinearProbe() Resolver    { return Resolver{Kind: LinearProbe} }
func NewQuadraticProbe() Resolver { return Resolver{Kind: QuadraticProbe} }

// NewDoubleHash returns a resolver chaining the secondary function.
func NewDoubleHash(secondary Function) (Resolver, error) {
	r := Resolver{Kind: DoubleHash, Secondary: &secondary}
	return r, r.Validate()
}

// Validate checks the resolver kind and its secondary function.
func (r Resolver) Validate() error {
	switch r.Kind {
	case LinearProbe, QuadraticProbe:
		return nil
	case DoubleHash:
		if r.Secondary == nil {
			return fmt.Errorf("%w: double hashing needs a secondary function", x_search.ErrInvalidConfig)
		}
		return r.Secondary.Validate()
	default:
		return fmt.Errorf("%w: collision type %q", x_search.ErrInvalidConfig, r.Kind)
	}
}

func (r Resolver) String() string {
	if r.Kind == DoubleHash && r.Secondary != nil {
		return "double(" + r.Secondary.String() + ")"
	}
	return string(r.Kind)
}

// Next returns the 0-based slot for the given attempt, starting from initial.
func (r Resolver) Next(key string, initial, attempt, size, digits int) (int, error) {
	if size <= 0 {
		return 0, fmt.Errorf("%w: size must be positive", x_search.ErrInvalidConfig)
	}
	switch r.Kind {
	case LinearProbe:
		return (initial + attempt) % size, nil
	case QuadraticProbe:
		return (initial + attempt*attempt) % size, nil
	case DoubleHash:
		return r.double(initial, attempt, size, digits)
	default:
		return 0, r.Validate()
	}
}

// double applies the secondary function attempt times.
// cur is 1-based; each step hashes cur+1.
func (r Resolver) double(initial, attempt, size, digits int) (int, error) {
	if attempt == 0 {
		return initial, nil
	}
	if r.Secondary == nil {
		return 0, r.Validate()
	}
	cur := initial + 1
	for i := 0; i < attempt; i++ {
		h, err := r.Secondary.Hash(strconv.Itoa(cur+1), digits, size)
		if err != nil {
			// the probe input is internal, so a failure is the secondary's fault
			return 0, fmt.Errorf("%w: secondary %s cannot hash %d: %v",
				x_search.ErrInvalidConfig, r.Secondary, cur+1, err)
		}
		cur = h%size + 1
	}
	return cur - 1, nil
}
