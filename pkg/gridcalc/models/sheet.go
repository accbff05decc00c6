package models

// CellRow represents a single rendered row of cells.
type CellRow struct {
	// R is the row index (1-based).
	R int `json:"r" yaml:"r"`
	// C maps column letters to the displayed value.
	C map[string]Value `json:"c" yaml:"c"`
	// F maps column letters to formula source (optional).
	F map[string]string `json:"f,omitempty" yaml:"f,omitempty"`
	// S maps column letters to non-default styles (optional).
	S map[string]Style `json:"s,omitempty" yaml:"s,omitempty"`
}

// SheetData represents the rendered state of one snapshot.
type SheetData struct {
	// Name is the sheet name used on export.
	Name string `json:"name" yaml:"name"`
	// Version is the snapshot version the view was rendered from.
	Version uint64 `json:"version" yaml:"version"`
	// Rows contains non-empty rows in ascending order.
	Rows []CellRow `json:"rows,omitempty" yaml:"rows,omitempty"`
	// UsedRange bounds every populated cell.
	UsedRange *Area `json:"used_range,omitempty" yaml:"used_range,omitempty"`
	// TableCandidates contains cell ranges likely representing tables.
	TableCandidates []string `json:"table_candidates,omitempty" yaml:"table_candidates,omitempty"`
}
