// Package output renders cell snapshots into row-grouped views and
// serializes them as JSON or YAML.
package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ukaji3/gridcalc/pkg/gridcalc/models"
	"github.com/ukaji3/gridcalc/pkg/gridcalc/ref"
	"github.com/ukaji3/gridcalc/pkg/gridcalc/selection"
)

// ErrUnknownFormat indicates an output format other than json or yaml.
var ErrUnknownFormat = errors.New("unknown output format")

// Render groups the populated cells of data into rows. Cells that carry
// only dependency edges are omitted; formulas and non-default styles are
// listed beside the values.
func Render(data models.Data, name string, version uint64) models.SheetData {
	sheet := models.SheetData{Name: name, Version: version}

	used := models.Data{}
	var current *models.CellRow
	for _, a := range data.Addresses() {
		cell := data[a]
		if cell.Value.IsEmpty() && !cell.HasFormula() && cell.Style.IsDefault() {
			continue
		}
		row, col, err := a.Coordinates()
		if err != nil {
			continue
		}
		used[a] = cell

		if current == nil || current.R != row+1 {
			sheet.Rows = append(sheet.Rows, models.CellRow{R: row + 1, C: map[string]models.Value{}})
			current = &sheet.Rows[len(sheet.Rows)-1]
		}

		letters := ref.ColumnName(col)
		if !cell.Value.IsEmpty() {
			current.C[letters] = cell.Value
		}
		if cell.HasFormula() {
			if current.F == nil {
				current.F = map[string]string{}
			}
			current.F[letters] = cell.Formula
		}
		if !cell.Style.IsDefault() {
			if current.S == nil {
				current.S = map[string]models.Style{}
			}
			current.S[letters] = cell.Style
		}
	}

	if bounds, ok := used.Bounds(); ok {
		area := models.AreaFromRange(bounds)
		sheet.UsedRange = &area
	}
	sheet.TableCandidates = selection.DetectTables(used, selection.DefaultTableParams())
	return sheet
}

// Clip returns the part of sheet inside area.
func Clip(sheet models.SheetData, area models.Area) models.AreaView {
	view := models.AreaView{
		SheetName: sheet.Name,
		Version:   sheet.Version,
		Area:      area,
	}

	for _, row := range sheet.Rows {
		if row.R < area.R1 || row.R > area.R2 {
			continue
		}
		clipped := models.CellRow{R: row.R, C: map[string]models.Value{}}
		for letters, v := range row.C {
			if inColumns(letters, area) {
				clipped.C[letters] = v
			}
		}
		for letters, f := range row.F {
			if inColumns(letters, area) {
				if clipped.F == nil {
					clipped.F = map[string]string{}
				}
				clipped.F[letters] = f
			}
		}
		for letters, s := range row.S {
			if inColumns(letters, area) {
				if clipped.S == nil {
					clipped.S = map[string]models.Style{}
				}
				clipped.S[letters] = s
			}
		}
		if len(clipped.C) > 0 || len(clipped.F) > 0 || len(clipped.S) > 0 {
			view.Rows = append(view.Rows, clipped)
		}
	}

	r := area.Range()
	for _, candidate := range sheet.TableCandidates {
		tr, err := ref.ParseRange(candidate)
		if err != nil {
			continue
		}
		if tr.StartRow <= r.EndRow && r.StartRow <= tr.EndRow && tr.StartCol <= r.EndCol && r.StartCol <= tr.EndCol {
			view.TableCandidates = append(view.TableCandidates, candidate)
		}
	}
	return view
}

func inColumns(letters string, area models.Area) bool {
	_, col, err := ref.Decode(letters + "1")
	if err != nil {
		return false
	}
	return col+1 >= area.C1 && col+1 <= area.C2
}

// ToJSON serializes v to JSON.
func ToJSON(v any, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(v, "", "  ")
	}
	return json.Marshal(v)
}

// ToYAML serializes v to YAML.
func ToYAML(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Marshal serializes v in the named format, "json" or "yaml". pretty only
// affects JSON.
func Marshal(v any, format string, pretty bool) ([]byte, error) {
	switch strings.ToLower(format) {
	case "json", "":
		return ToJSON(v, pretty)
	case "yaml", "yml":
		return ToYAML(v)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}
