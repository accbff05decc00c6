package models

import "github.com/ukaji3/gridcalc/pkg/gridcalc/ref"

// Area represents 1-based cell coordinate bounds.
type Area struct {
	// R1 is the start row (1-based).
	R1 int `json:"r1" yaml:"r1"`
	// C1 is the start column (1-based).
	C1 int `json:"c1" yaml:"c1"`
	// R2 is the end row (1-based, inclusive).
	R2 int `json:"r2" yaml:"r2"`
	// C2 is the end column (1-based, inclusive).
	C2 int `json:"c2" yaml:"c2"`
}

// AreaFromRange converts zero-based range bounds to an Area.
func AreaFromRange(r ref.Range) Area {
	return Area{
		R1: r.StartRow + 1,
		C1: r.StartCol + 1,
		R2: r.EndRow + 1,
		C2: r.EndCol + 1,
	}
}

// Range converts the Area back to zero-based bounds.
func (a Area) Range() ref.Range {
	return ref.Range{
		StartRow: a.R1 - 1,
		StartCol: a.C1 - 1,
		EndRow:   a.R2 - 1,
		EndCol:   a.C2 - 1,
	}
}

// AreaView is the part of a rendered sheet inside one area.
type AreaView struct {
	SheetName       string    `json:"sheet_name" yaml:"sheet_name"`
	Version         uint64    `json:"version" yaml:"version"`
	Area            Area      `json:"area" yaml:"area"`
	Rows            []CellRow `json:"rows,omitempty" yaml:"rows,omitempty"`
	TableCandidates []string  `json:"table_candidates,omitempty" yaml:"table_candidates,omitempty"`
}
