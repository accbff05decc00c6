// Package ref converts between textual cell addresses ("A1", "AB12") and
// zero-based (row, column) coordinates, and expands ranges into their
// member addresses.
package ref

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidReference indicates address text that is not <letters><digits>.
var ErrInvalidReference = errors.New("invalid reference")

// Address is the canonical <COLUMN><ROW> form of a cell position, e.g. "B7".
type Address string

// Encode builds the address for a zero-based row and column.
// Column 0 is "A", 25 is "Z", 26 is "AA".
func Encode(row, col int) Address {
	return Address(ColumnName(col) + strconv.Itoa(row+1))
}

// ColumnName returns the letter run for a zero-based column index.
func ColumnName(col int) string {
	var buf [16]byte
	i := len(buf)
	for n := col + 1; n > 0; n = (n - 1) / 26 {
		i--
		buf[i] = byte('A' + (n-1)%26)
	}
	return string(buf[i:])
}

// Decode parses address text into zero-based row and column indices.
func Decode(text string) (row, col int, err error) {
	split := 0
	for split < len(text) && text[split] >= 'A' && text[split] <= 'Z' {
		split++
	}
	letters, digits := text[:split], text[split:]
	if letters == "" || digits == "" {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidReference, text)
	}
	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return 0, 0, fmt.Errorf("%w: %q", ErrInvalidReference, text)
		}
	}

	n, err := strconv.Atoi(digits)
	if err != nil || n < 1 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidReference, text)
	}

	col = 0
	for i := 0; i < len(letters); i++ {
		if col > (math.MaxInt-26)/26 {
			return 0, 0, fmt.Errorf("%w: %q: column overflow", ErrInvalidReference, text)
		}
		col = col*26 + int(letters[i]-'A'+1)
	}

	return n - 1, col - 1, nil
}

// Parse validates text and returns it in canonical form. Leading zeros in
// the row part are dropped, so "A01" parses to "A1".
func Parse(text string) (Address, error) {
	row, col, err := Decode(text)
	if err != nil {
		return "", err
	}
	return Encode(row, col), nil
}

// MustParse is like Parse but panics on invalid input. Intended for
// literals in tests and fixtures.
func MustParse(text string) Address {
	a, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return a
}

// Coordinates returns the zero-based row and column of a.
func (a Address) Coordinates() (row, col int, err error) {
	return Decode(string(a))
}

// Valid reports whether a decodes.
func (a Address) Valid() bool {
	_, _, err := Decode(string(a))
	return err == nil
}

func (a Address) String() string {
	return string(a)
}

// Compare orders addresses row-major: by row, then by column. Invalid
// addresses sort after valid ones, by text.
func Compare(a, b Address) int {
	ar, ac, aerr := Decode(string(a))
	br, bc, berr := Decode(string(b))
	switch {
	case aerr != nil && berr != nil:
		return strings.Compare(string(a), string(b))
	case aerr != nil:
		return 1
	case berr != nil:
		return -1
	}
	if ar != br {
		return ar - br
	}
	return ac - bc
}
