// file:searchlab/pkg/x_hash/function.go
package x_hash

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/rskv-p/searchlab/pkg/x_search"
)

//---------------------
// Function Kinds
//---------------------

// FunctionKind names a hash function variant.
type FunctionKind string

const (
	Mod        FunctionKind = "mod"
	Square     FunctionKind = "square"
	Truncation FunctionKind = "truncation"
	Folding    FunctionKind = "folding"
)

// FoldOp combines folded digit groups.
type FoldOp string

const (
	FoldSum FoldOp = "sum"
	FoldMul FoldOp = "mul"
)

//---------------------
// Function
//---------------------

// Function maps a digit string to a non-negative integer.
// Callers reduce the result modulo the table size.
type Function struct {
	Kind      FunctionKind `mapstructure:"type" json:"type"`
	Positions []int        `mapstructure:"positions" json:"positions,omitempty"`
	GroupSize int          `mapstructure:"group_size" json:"group_size,omitempty"`
	Operation FoldOp       `mapstructure:"operation" json:"operation,omitempty"`
}

// NewMod returns the identity hash.
func NewMod() Function { return Function{Kind: Mod} }

// NewSquare returns the mid-square hash.
func NewSquare() Function { return Function{Kind: Square} }

// NewTruncation returns a hash taking the digits at the given 1-based positions.
func NewTruncation(positions ...int) (Function, error) {
	f := Function{Kind: Truncation, Positions: positions}
	return f, f.Validate()
}

// NewFolding returns a hash that splits the key into groups and combines them.
func NewFolding(groupSize int, op FoldOp) (Function, error) {
	f := Function{Kind: Folding, GroupSize: groupSize, Operation: op}
	return f, f.Validate()
}

// Validate checks the parameters required by the variant.
func (f Function) Validate() error {
	switch f.Kind {
	case Mod, Square:
		return nil
	case Truncation:
		if len(f.Positions) == 0 {
			return fmt.Errorf("%w: truncation needs positions", x_search.ErrInvalidConfig)
		}
		if len(f.Positions) > x_search.MaxDigits {
			return fmt.Errorf("%w: at most %d truncation positions", x_search.ErrInvalidConfig, x_search.MaxDigits)
		}
		for _, p := range f.Positions {
			if p < 1 {
				return fmt.Errorf("%w: truncation position %d", x_search.ErrInvalidConfig, p)
			}
		}
		return nil
	case Folding:
		if f.GroupSize <= 0 {
			return fmt.Errorf("%w: folding needs a positive group_size", x_search.ErrInvalidConfig)
		}
		if f.Operation != FoldSum && f.Operation != FoldMul {
			return fmt.Errorf("%w: folding operation %q", x_search.ErrInvalidConfig, f.Operation)
		}
		return nil
	default:
		return fmt.Errorf("%w: hash type %q", x_search.ErrInvalidConfig, f.Kind)
	}
}

func (f Function) String() string {
	switch f.Kind {
	case Truncation:
		return fmt.Sprintf("truncation%v", f.Positions)
	case Folding:
		return fmt.Sprintf("folding(%d,%s)", f.GroupSize, f.Operation)
	default:
		return string(f.Kind)
	}
}

// Hash maps key to an integer for a table of size slots.
// digits is the configured key width; key itself may be any digit string.
func (f Function) Hash(key string, digits, size int) (int, error) {
	if !x_search.IsDigits(key) {
		return 0, fmt.Errorf("%w: %q is not numeric", x_search.ErrInvalidKey, key)
	}
	if size <= 0 {
		return 0, fmt.Errorf("%w: size must be positive", x_search.ErrInvalidConfig)
	}
	switch f.Kind {
	case Mod:
		return parseInt(key)
	case Square:
		return f.square(key, size)
	case Truncation:
		return f.truncate(key)
	case Folding:
		return f.fold(key, size)
	default:
		return 0, f.Validate()
	}
}

//---------------------
// Variants
//---------------------

func (f Function) square(key string, size int) (int, error) {
	n, ok := new(big.Int).SetString(key, 10)
	if !ok {
		return 0, fmt.Errorf("%w: %q", x_search.ErrInvalidKey, key)
	}
	s := n.Mul(n, n).String()
	d := width(size)
	if len(s) <= d {
		return parseInt(s)
	}
	start := (len(s) - d) / 2
	return parseInt(s[start : start+d])
}

func (f Function) truncate(key string) (int, error) {
	var b strings.Builder
	for _, p := range f.Positions {
		if p < 1 || p > len(key) {
			return 0, fmt.Errorf("%w: position %d outside %q", x_search.ErrInvalidKey, p, key)
		}
		b.WriteByte(key[p-1])
	}
	return parseInt(b.String())
}

func (f Function) fold(key string, size int) (int, error) {
	if f.GroupSize <= 0 {
		return 0, f.Validate()
	}
	total := big.NewInt(0)
	if f.Operation == FoldMul {
		total.SetInt64(1)
	}
	for i := 0; i < len(key); i += f.GroupSize {
		end := i + f.GroupSize
		if end > len(key) {
			end = len(key)
		}
		g, _ := new(big.Int).SetString(key[i:end], 10)
		switch f.Operation {
		case FoldSum:
			total.Add(total, g)
		case FoldMul:
			total.Mul(total, g)
		default:
			return 0, f.Validate()
		}
	}
	s := total.String()
	d := width(size)
	if len(s) <= d {
		return parseInt(s)
	}
	return parseInt(s[len(s)-d:])
}

//---------------------
// Helpers
//---------------------

// width is the number of decimal digits of size-1.
func width(size int) int {
	return len(strconv.Itoa(size - 1))
}

func parseInt(s string) (int, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q out of range", x_search.ErrInvalidKey, s)
	}
	return int(n), nil
}
