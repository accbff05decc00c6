package models

import (
	"slices"

	"github.com/tiendc/go-deepcopy"
	"github.com/ukaji3/gridcalc/pkg/gridcalc/ref"
)

// Data is a sparse snapshot of cells keyed by address. Absent addresses
// are implicitly empty. Operations treat a Data as immutable and return a
// new one; use Clone before writing.
type Data map[ref.Address]Cell

// Get returns the cell at a, or an empty default cell when absent.
func (d Data) Get(a ref.Address) Cell {
	if c, ok := d[a]; ok {
		return c
	}
	return NewCell()
}

// Value returns the value of the cell at a.
func (d Data) Value(a ref.Address) Value {
	return d[a].Value
}

// Clone copies the mapping. Cells are values and their edge sets are
// never mutated in place, so the copy shares nothing writable with d.
func (d Data) Clone() Data {
	out := make(Data, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// DeepCopy copies d including every edge slice, for handing a snapshot to
// code that may mutate it.
func (d Data) DeepCopy() (Data, error) {
	var out Data
	if err := deepcopy.Copy(&out, d); err != nil {
		return nil, err
	}
	if out == nil {
		out = Data{}
	}
	return out, nil
}

// Addresses lists the populated addresses row-major.
func (d Data) Addresses() []ref.Address {
	out := make([]ref.Address, 0, len(d))
	for a := range d {
		out = append(out, a)
	}
	slices.SortFunc(out, ref.Compare)
	return out
}

// Bounds returns the smallest range covering every populated, valid
// address. ok is false when d has none.
func (d Data) Bounds() (r ref.Range, ok bool) {
	for a := range d {
		row, col, err := a.Coordinates()
		if err != nil {
			continue
		}
		if !ok {
			r = ref.Range{StartRow: row, StartCol: col, EndRow: row, EndCol: col}
			ok = true
			continue
		}
		r.StartRow = min(r.StartRow, row)
		r.StartCol = min(r.StartCol, col)
		r.EndRow = max(r.EndRow, row)
		r.EndCol = max(r.EndCol, col)
	}
	return r, ok
}
