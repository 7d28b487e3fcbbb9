// file:searchlab/pkg/x_search/key.go
package x_search

import (
	"fmt"
	"strings"
)

// MaxDigits bounds numeric key width so every key fits an int64.
const MaxDigits = 18

// CheckConfig validates capacity and key width given to create.
func CheckConfig(size, digits int) error {
	if size <= 0 {
		return fmt.Errorf("%w: size must be positive, got %d", ErrInvalidConfig, size)
	}
	if digits <= 0 {
		return fmt.Errorf("%w: digits must be positive, got %d", ErrInvalidConfig, digits)
	}
	return nil
}

// CheckNumericConfig is CheckConfig plus the MaxDigits bound.
func CheckNumericConfig(size, digits int) error {
	if err := CheckConfig(size, digits); err != nil {
		return err
	}
	if digits > MaxDigits {
		return fmt.Errorf("%w: digits must be at most %d, got %d", ErrInvalidConfig, MaxDigits, digits)
	}
	return nil
}

// IsDigits reports whether s is a non-empty string of ASCII digits.
func IsDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// ValidateKey checks that key is exactly digits long and numeric.
func ValidateKey(key string, digits int) error {
	if len(key) != digits {
		return fmt.Errorf("%w: %q must have %d digits", ErrInvalidKey, key, digits)
	}
	if !IsDigits(key) {
		return fmt.Errorf("%w: %q is not numeric", ErrInvalidKey, key)
	}
	return nil
}

// NormalizeKey left-pads a numeric key with zeros up to digits.
// Keys longer than digits are rejected.
func NormalizeKey(raw string, digits int) (string, error) {
	raw = strings.TrimSpace(raw)
	if !IsDigits(raw) {
		return "", fmt.Errorf("%w: %q is not numeric", ErrInvalidKey, raw)
	}
	if len(raw) > digits {
		return "", fmt.Errorf("%w: %q has more than %d digits", ErrInvalidKey, raw, digits)
	}
	return strings.Repeat("0", digits-len(raw)) + raw, nil
}
