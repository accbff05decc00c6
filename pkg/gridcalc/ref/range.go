package ref

import (
	"errors"
	"fmt"
	"strings"
)

// MaxRangeSize caps how many members a range may expand to.
const MaxRangeSize = 1 << 20

// ErrRangeTooLarge indicates a range with more than MaxRangeSize members.
var ErrRangeTooLarge = errors.New("range too large")

// Range is an inclusive rectangle normalized so Start is top-left and End
// is bottom-right.
type Range struct {
	StartRow, StartCol int
	EndRow, EndCol     int
}

// NewRange normalizes two corner addresses into a Range.
func NewRange(a, b Address) (Range, error) {
	ar, ac, err := Decode(string(a))
	if err != nil {
		return Range{}, err
	}
	br, bc, err := Decode(string(b))
	if err != nil {
		return Range{}, err
	}
	return Range{
		StartRow: min(ar, br),
		StartCol: min(ac, bc),
		EndRow:   max(ar, br),
		EndCol:   max(ac, bc),
	}, nil
}

// ParseRange parses "A1:B5" or a single address "A1" (a range of one).
func ParseRange(text string) (Range, error) {
	parts := strings.Split(text, ":")
	switch len(parts) {
	case 1:
		return NewRange(Address(parts[0]), Address(parts[0]))
	case 2:
		return NewRange(Address(parts[0]), Address(parts[1]))
	default:
		return Range{}, fmt.Errorf("%w: %q: too many range separators", ErrInvalidReference, text)
	}
}

// Addresses lists the members row-major: rows outer, columns inner.
func (r Range) Addresses() []Address {
	out := make([]Address, 0, r.Size())
	for row := r.StartRow; row <= r.EndRow; row++ {
		for col := r.StartCol; col <= r.EndCol; col++ {
			out = append(out, Encode(row, col))
		}
	}
	return out
}

// Contains reports whether the zero-based coordinate lies inside r.
func (r Range) Contains(row, col int) bool {
	return row >= r.StartRow && row <= r.EndRow && col >= r.StartCol && col <= r.EndCol
}

// TooLarge reports whether r has more than MaxRangeSize members.
func (r Range) TooLarge() bool {
	rows, cols := r.EndRow-r.StartRow+1, r.EndCol-r.StartCol+1
	return rows > MaxRangeSize || cols > MaxRangeSize || rows*cols > MaxRangeSize
}

// Size is the number of cells in r.
func (r Range) Size() int {
	return (r.EndRow - r.StartRow + 1) * (r.EndCol - r.StartCol + 1)
}

func (r Range) String() string {
	start, end := Encode(r.StartRow, r.StartCol), Encode(r.EndRow, r.EndCol)
	if start == end {
		return string(start)
	}
	return string(start) + ":" + string(end)
}

// ExpandRange returns every address in the rectangle spanned by a and b,
// row-major, regardless of which corners a and b are.
func ExpandRange(a, b Address) ([]Address, error) {
	r, err := NewRange(a, b)
	if err != nil {
		return nil, err
	}
	if r.TooLarge() {
		return nil, fmt.Errorf("%w: %s", ErrRangeTooLarge, r)
	}
	return r.Addresses(), nil
}
