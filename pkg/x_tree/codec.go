// file:searchlab/pkg/x_tree/codec.go
package x_tree

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/rskv-p/searchlab/pkg/x_search"
)

//---------------------
// Letter Encoding
//---------------------

// Encoding selects how a letter becomes an integer code.
type Encoding string

const (
	ABC   Encoding = "ABC"   // 1-based position in the alphabet
	ASCII Encoding = "ASCII" // code point
)

// Alphabet is the accepted letter set.
type Alphabet string

const (
	English Alphabet = "en"
	Spanish Alphabet = "es"
)

var letters = map[Alphabet][]rune{
	English: []rune("ABCDEFGHIJKLMNOPQRSTUVWXYZ"),
	Spanish: []rune("ABCDEFGHIJKLMNÑOPQRSTUVWXYZ"),
}

// Codec converts single letters to fixed-width binary strings and back.
type Codec struct {
	Encoding Encoding
	Alphabet Alphabet
}

// NewCodec validates the encoding and alphabet names.
func NewCodec(enc Encoding, alpha Alphabet) (Codec, error) {
	c := Codec{Encoding: Encoding(strings.ToUpper(string(enc))), Alphabet: Alphabet(strings.ToLower(string(alpha)))}
	if c.Encoding != ABC && c.Encoding != ASCII {
		return Codec{}, fmt.Errorf("%w: encoding %q", x_search.ErrInvalidConfig, enc)
	}
	if _, ok := letters[c.Alphabet]; !ok {
		return Codec{}, fmt.Errorf("%w: alphabet %q", x_search.ErrInvalidConfig, alpha)
	}
	return c, nil
}

// DefaultCodec is ABC over the English alphabet.
func DefaultCodec() Codec {
	return Codec{Encoding: ABC, Alphabet: English}
}

// DefaultWidth is the bit width used when create gives none.
func (c Codec) DefaultWidth() int {
	if c.Encoding == ASCII {
		return 8
	}
	return 5
}

// Normalize returns the upper-case form of a single alphabet letter.
func (c Codec) Normalize(s string) (string, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if utf8.RuneCountInString(s) != 1 {
		return "", fmt.Errorf("%w: %q is not a single letter", x_search.ErrInvalidLetter, s)
	}
	if c.index([]rune(s)[0]) < 0 {
		return "", fmt.Errorf("%w: %q is not in alphabet %s", x_search.ErrInvalidLetter, s, c.Alphabet)
	}
	return s, nil
}

func (c Codec) index(r rune) int {
	for i, l := range letters[c.Alphabet] {
		if l == r {
			return i
		}
	}
	return -1
}

// Encode returns the zero-padded binary code of letter.
func (c Codec) Encode(letter string, width int) (string, error) {
	norm, err := c.Normalize(letter)
	if err != nil {
		return "", err
	}
	r := []rune(norm)[0]
	v := int64(r)
	if c.Encoding == ABC {
		v = int64(c.index(r) + 1)
	}
	bits := strconv.FormatInt(v, 2)
	if len(bits) > width {
		return "", fmt.Errorf("%w: %s needs %d bits, width is %d", x_search.ErrInvalidKey, norm, len(bits), width)
	}
	return strings.Repeat("0", width-len(bits)) + bits, nil
}

// Decode maps a binary code back to its letter.
func (c Codec) Decode(code string) (string, error) {
	v, err := strconv.ParseInt(code, 2, 32)
	if err != nil {
		return "", fmt.Errorf("%w: %q is not binary", x_search.ErrInvalidKey, code)
	}
	if c.Encoding == ABC {
		alpha := letters[c.Alphabet]
		if v < 1 || int(v) > len(alpha) {
			return "", fmt.Errorf("%w: no letter at position %d", x_search.ErrInvalidKey, v)
		}
		return string(alpha[v-1]), nil
	}
	if c.index(rune(v)) < 0 {
		return "", fmt.Errorf("%w: code %d is not in alphabet %s", x_search.ErrInvalidKey, v, c.Alphabet)
	}
	return string(rune(v)), nil
}
