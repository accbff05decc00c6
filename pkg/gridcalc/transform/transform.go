// Package transform implements bulk data-quality operations over a
// selection of cells. Transforms rewrite values directly: they neither
// consult nor update dependency edges and never re-evaluate formulas.
package transform

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ukaji3/gridcalc/pkg/gridcalc/models"
	"github.com/ukaji3/gridcalc/pkg/gridcalc/ref"
)

var (
	// ErrUnknownTransform indicates a transform name outside the supported set.
	ErrUnknownTransform = errors.New("unknown transform")
	// ErrArguments indicates the wrong number of transform arguments.
	ErrArguments = errors.New("wrong number of arguments")
)

// Name identifies a transform.
type Name string

const (
	Trim             Name = "TRIM"
	Upper            Name = "UPPER"
	Lower            Name = "LOWER"
	RemoveDuplicates Name = "REMOVE_DUPLICATES"
	FindAndReplace   Name = "FIND_AND_REPLACE"
)

// Names lists every transform in toolbar order.
var Names = []Name{Trim, Upper, Lower, RemoveDuplicates, FindAndReplace}

// ParseName resolves a transform name, ignoring case.
func ParseName(s string) (Name, error) {
	n := Name(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range Names {
		if n == known {
			return n, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownTransform, s)
}

// Arity is the number of extra arguments the transform takes.
func (n Name) Arity() int {
	if n == FindAndReplace {
		return 2
	}
	return 0
}

// Apply dispatches to the named transform.
func Apply(name Name, data models.Data, selection []ref.Address, args ...string) (models.Data, error) {
	if len(args) != name.Arity() {
		return nil, fmt.Errorf("%w: %s takes %d, got %d", ErrArguments, name, name.Arity(), len(args))
	}
	switch name {
	case Trim:
		return TrimValues(data, selection), nil
	case Upper:
		return UpperValues(data, selection), nil
	case Lower:
		return LowerValues(data, selection), nil
	case RemoveDuplicates:
		return RemoveDuplicateValues(data, selection), nil
	case FindAndReplace:
		return FindAndReplaceValues(data, selection, args[0], args[1]), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownTransform, string(name))
	}
}

// mapValues rewrites the value of every present cell in selection.
func mapValues(data models.Data, selection []ref.Address, fn func(models.Value) (models.Value, bool)) models.Data {
	out := data.Clone()
	for _, a := range selection {
		cell, ok := out[a]
		if !ok {
			continue
		}
		if v, changed := fn(cell.Value); changed {
			cell.Value = v
			out[a] = cell
		}
	}
	return out
}

// TrimValues converts each non-empty value to text and strips leading and
// trailing whitespace.
func TrimValues(data models.Data, selection []ref.Address) models.Data {
	return mapValues(data, selection, func(v models.Value) (models.Value, bool) {
		if v.IsEmpty() {
			return v, false
		}
		return models.String(strings.TrimSpace(v.String())), true
	})
}

// UpperValues upper-cases string values; other values are left alone.
func UpperValues(data models.Data, selection []ref.Address) models.Data {
	caser := cases.Upper(language.Und)
	return mapValues(data, selection, func(v models.Value) (models.Value, bool) {
		if !v.IsString() {
			return v, false
		}
		return models.String(caser.String(v.Text)), true
	})
}

// LowerValues lower-cases string values; other values are left alone.
func LowerValues(data models.Data, selection []ref.Address) models.Data {
	caser := cases.Lower(language.Und)
	return mapValues(data, selection, func(v models.Value) (models.Value, bool) {
		if !v.IsString() {
			return v, false
		}
		return models.String(caser.String(v.Text)), true
	})
}

// RemoveDuplicateValues keeps the first cell of the selection holding each
// distinct value and drops later repeats from the snapshot. Numbers and
// their textual form are distinct values. Empty cells are never duplicates,
// so cells holding only edges or styles survive. Absent cells and cells
// outside the selection are kept.
//
// Dropping a cell keeps the edge sets symmetric: it is removed from the
// dependents of the cells its formula read, and a cell other formulas
// still read is left behind empty with only its dependents.
func RemoveDuplicateValues(data models.Data, selection []ref.Address) models.Data {
	out := data.Clone()
	seen := make(map[models.Value]struct{})
	for _, a := range selection {
		cell, ok := data[a]
		if !ok || cell.Value.IsEmpty() {
			continue
		}
		v := cell.Value
		if _, dup := seen[v]; dup {
			drop(out, a)
			continue
		}
		seen[v] = struct{}{}
	}
	return out
}

func drop(data models.Data, a ref.Address) {
	cell := data[a]
	for _, dep := range cell.Dependencies {
		if c, ok := data[dep]; ok {
			c.Dependents = models.RemoveAddress(c.Dependents, a)
			data[dep] = c
		}
	}
	if len(cell.Dependents) == 0 {
		delete(data, a)
		return
	}
	kept := models.NewCell()
	kept.Dependents = cell.Dependents
	data[a] = kept
}

// FindAndReplaceValues replaces every occurrence of find in string values.
// An empty find string leaves the data unchanged.
func FindAndReplaceValues(data models.Data, selection []ref.Address, find, replace string) models.Data {
	if find == "" {
		return data.Clone()
	}
	return mapValues(data, selection, func(v models.Value) (models.Value, bool) {
		if !v.IsString() || !strings.Contains(v.Text, find) {
			return v, false
		}
		return models.String(strings.ReplaceAll(v.Text, find, replace)), true
	})
}
