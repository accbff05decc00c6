package models

import (
	"slices"

	"github.com/ukaji3/gridcalc/pkg/gridcalc/ref"
)

// Style holds presentation attributes. The engine passes it through
// untouched except for explicit style application.
type Style struct {
	Bold            bool   `json:"bold" yaml:"bold"`
	Italic          bool   `json:"italic" yaml:"italic"`
	FontSize        int    `json:"font_size" yaml:"font_size"`
	Color           string `json:"color" yaml:"color"`
	BackgroundColor string `json:"background_color" yaml:"background_color"`
}

// DefaultStyle is the style of a cell that was never styled.
func DefaultStyle() Style {
	return Style{
		FontSize:        14,
		Color:           "#000000",
		BackgroundColor: "#ffffff",
	}
}

// IsDefault reports whether s equals DefaultStyle.
func (s Style) IsDefault() bool {
	return s == DefaultStyle()
}

// Cell is one entry of a Data snapshot. Dependencies and Dependents are
// sorted address sets; they are replaced, never modified in place, so a
// copied Cell never aliases another snapshot's edges.
type Cell struct {
	Value        Value         `json:"value"`
	Formula      string        `json:"formula,omitempty"`
	Style        Style         `json:"style"`
	Dependencies []ref.Address `json:"dependencies,omitempty"`
	Dependents   []ref.Address `json:"dependents,omitempty"`
}

// NewCell returns an empty cell with the default style.
func NewCell() Cell {
	return Cell{Style: DefaultStyle()}
}

// HasFormula reports whether the cell was entered as a formula.
func (c Cell) HasFormula() bool {
	return c.Formula != ""
}

// AddAddress returns a new sorted set with a added. set is not modified.
func AddAddress(set []ref.Address, a ref.Address) []ref.Address {
	i, found := slices.BinarySearchFunc(set, a, ref.Compare)
	if found {
		return set
	}
	out := make([]ref.Address, 0, len(set)+1)
	out = append(out, set[:i]...)
	out = append(out, a)
	return append(out, set[i:]...)
}

// RemoveAddress returns a new set without a. set is not modified.
func RemoveAddress(set []ref.Address, a ref.Address) []ref.Address {
	i, found := slices.BinarySearchFunc(set, a, ref.Compare)
	if !found {
		return set
	}
	out := make([]ref.Address, 0, len(set)-1)
	out = append(out, set[:i]...)
	return append(out, set[i+1:]...)
}

// NewAddressSet sorts and deduplicates addrs into a fresh set.
func NewAddressSet(addrs []ref.Address) []ref.Address {
	out := slices.Clone(addrs)
	slices.SortFunc(out, ref.Compare)
	return slices.Compact(out)
}

// ContainsAddress reports whether a is in the sorted set.
func ContainsAddress(set []ref.Address, a ref.Address) bool {
	_, found := slices.BinarySearchFunc(set, a, ref.Compare)
	return found
}
