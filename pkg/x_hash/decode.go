// file:searchlab/pkg/x_hash/decode.go
package x_hash

import (
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/rskv-p/searchlab/pkg/x_search"
)

//---------------------
// Config Decoding
//---------------------

// CollisionConfig selects a collision strategy.
// Type is linear, quadratic, double or chaining; double needs SecondHashType.
type CollisionConfig struct {
	Type            string `mapstructure:"type" json:"type"`
	SecondHashType  string `mapstructure:"second_hash_type" json:"second_hash_type,omitempty"`
	SecondPositions []int  `mapstructure:"second_positions" json:"second_positions,omitempty"`
	SecondGroupSize int    `mapstructure:"second_group_size" json:"second_group_size,omitempty"`
	SecondOperation string `mapstructure:"second_operation" json:"second_operation,omitempty"`
}

// Chaining reports whether the config asks for chained buckets.
func (c CollisionConfig) Chaining() bool {
	return strings.EqualFold(c.Type, string(ModeChaining))
}

// Resolver builds the open addressing resolver described by c.
func (c CollisionConfig) Resolver() (Resolver, error) {
	switch ResolverKind(strings.ToLower(c.Type)) {
	case LinearProbe:
		return NewLinearProbe(), nil
	case QuadraticProbe:
		return NewQuadraticProbe(), nil
	case DoubleHash:
		if c.SecondHashType == "" {
			return Resolver{}, fmt.Errorf("%w: second_hash_type is required for double hashing", x_search.ErrInvalidConfig)
		}
		fn := Function{
			Kind:      FunctionKind(strings.ToLower(c.SecondHashType)),
			Positions: c.SecondPositions,
			GroupSize: c.SecondGroupSize,
			Operation: FoldOp(strings.ToLower(c.SecondOperation)),
		}
		if fn.Kind == Folding && fn.Operation == "" {
			fn.Operation = FoldSum
		}
		return NewDoubleHash(fn)
	default:
		return Resolver{}, fmt.Errorf("%w: collision type %q", x_search.ErrInvalidConfig, c.Type)
	}
}

func decode(raw map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToSliceHookFunc(","),
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(raw); err != nil {
		return fmt.Errorf("%w: %v", x_search.ErrInvalidConfig, err)
	}
	return nil
}

// DecodeFunction builds a Function from loosely typed input such as
// {"type": "truncation", "positions": "1,3"}. Folding defaults to sum.
func DecodeFunction(raw map[string]any) (Function, error) {
	var f Function
	if err := decode(raw, &f); err != nil {
		return Function{}, err
	}
	f.Kind = FunctionKind(strings.ToLower(string(f.Kind)))
	f.Operation = FoldOp(strings.ToLower(string(f.Operation)))
	if f.Kind == Folding && f.Operation == "" {
		f.Operation = FoldSum
	}
	return f, f.Validate()
}

// DecodeCollision builds a CollisionConfig from loosely typed input.
func DecodeCollision(raw map[string]any) (CollisionConfig, error) {
	var c CollisionConfig
	if err := decode(raw, &c); err != nil {
		return CollisionConfig{}, err
	}
	if c.Chaining() {
		return c, nil
	}
	_, err := c.Resolver()
	return c, err
}
