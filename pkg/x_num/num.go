// file: phfwd/pkg/x_num/num.go
package x_num

import (
	"errors"
	"fmt"
)

//---------------------
// Alphabet
//---------------------

const (
	// Alphabet lists the symbols in sort order.
	Alphabet = "0123456789*#"
	// Radix is the number of distinct symbols.
	Radix = len(Alphabet)

	starIndex = 10
	hashIndex = 11
)

var (
	ErrInvalidNumber = errors.New("invalid phone number")
	ErrSameNumber    = errors.New("numbers are identical")
)

// IsDigit reports whether c belongs to the alphabet.
func IsDigit(c byte) bool {
	return (c >= '0' && c <= '9') || c == '*' || c == '#'
}

// Index maps a symbol to its position in the alphabet.
func Index(c byte) (int, bool) {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0'), true
	case c == '*':
		return starIndex, true
	case c == '#':
		return hashIndex, true
	}
	return 0, false
}

// Symbol is the inverse of Index. It panics on an out-of-range index.
func Symbol(i int) byte {
	return Alphabet[i]
}

//---------------------
// Validation
//---------------------

// IsNumber reports whether s is a non-empty string over the alphabet.
func IsNumber(s string) bool {
	if len(s) == 0 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !IsDigit(s[i]) {
			return false
		}
	}
	return true
}

// CheckPair reports whether a and b are both numbers and differ.
func CheckPair(a, b string) bool {
	return CheckPairErr(a, b) == nil
}

// CheckPairErr is CheckPair with the reason attached.
func CheckPairErr(a, b string) error {
	if !IsNumber(a) {
		return fmt.Errorf("%w: %q", ErrInvalidNumber, a)
	}
	if !IsNumber(b) {
		return fmt.Errorf("%w: %q", ErrInvalidNumber, b)
	}
	if a == b {
		return fmt.Errorf("%w: %q", ErrSameNumber, a)
	}
	return nil
}

//---------------------
// Ordering
//---------------------

// Compare orders numbers symbol by symbol with 0-9 < * < #.
// A proper prefix sorts before any of its extensions.
func Compare(a, b string) int {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] == b[i] {
			continue
		}
		ai, _ := Index(a[i])
		bi, _ := Index(b[i])
		if ai < bi {
			return -1
		}
		return 1
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	}
	return 0
}

// IsPrefix reports whether prefix is a prefix of num (num included).
func IsPrefix(num, prefix string) bool {
	return len(prefix) <= len(num) && num[:len(prefix)] == prefix
}
