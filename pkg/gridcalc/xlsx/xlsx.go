// Package xlsx reads and writes cell values and styles as xlsx workbooks.
// Only one sheet is exchanged. Formulas and dependency edges are not
// written, and imported cells are plain literals.
package xlsx

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/xuri/excelize/v2"

	"github.com/ukaji3/gridcalc/pkg/gridcalc/models"
	"github.com/ukaji3/gridcalc/pkg/gridcalc/ref"
)

// DefaultSheetName names the sheet written when Options.SheetName is empty.
const DefaultSheetName = "Sheet1"

// Options configures import and export.
type Options struct {
	// SheetName selects the sheet to exchange.
	// If empty, import reads the first sheet and export writes DefaultSheetName.
	SheetName string
	// IncludeStyles specifies whether cell styles are exchanged.
	// If nil, defaults to true.
	IncludeStyles *bool
}

// ShouldIncludeStyles returns whether to exchange cell styles.
func (o Options) ShouldIncludeStyles() bool {
	if o.IncludeStyles != nil {
		return *o.IncludeStyles
	}
	return true
}

// Import reads one sheet of the workbook at path. It returns the cells and
// the name of the sheet that was read.
func Import(path string, opts Options) (models.Data, string, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, "", fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, "", err
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	defer f.Close()

	return readSheet(f, opts)
}

// Read is Import for a workbook held in r.
func Read(r io.Reader, opts Options) (models.Data, string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	defer f.Close()

	return readSheet(f, opts)
}

func readSheet(f *excelize.File, opts Options) (models.Data, string, error) {
	sheetName := opts.SheetName
	if sheetName == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, "", NewCodecError("", "open", ErrInvalidFormat)
		}
		sheetName = sheets[0]
	}

	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, "", NewCodecError(sheetName, "read", err)
	}

	includeStyles := opts.ShouldIncludeStyles()
	data := models.Data{}
	for rowIdx, row := range rows {
		for colIdx, text := range row {
			addr := ref.Encode(rowIdx, colIdx)
			cell := models.NewCell()
			if text != "" {
				typ, err := f.GetCellType(sheetName, string(addr))
				if err != nil {
					return nil, "", NewCodecError(sheetName, "read", err)
				}
				cell.Value = parseValue(text, typ)
			}
			if includeStyles {
				style, err := cellStyle(f, sheetName, string(addr))
				if err != nil {
					return nil, "", NewCodecError(sheetName, "style", err)
				}
				cell.Style = style
			}

			if cell.Value.IsEmpty() && cell.Style.IsDefault() {
				continue
			}
			data[addr] = cell
		}
	}

	return data, sheetName, nil
}

// parseValue converts raw cell text to a value. Text cells keep their text
// unchanged; other cells are read as numbers where possible. The error
// marker written by Export reads back as an error value.
func parseValue(s string, typ excelize.CellType) models.Value {
	if s == models.ErrorMarker {
		return models.ErrorValue()
	}
	switch typ {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeFormula:
		return models.String(s)
	default:
		return models.ParseNumber(s)
	}
}

func cellStyle(f *excelize.File, sheetName, cell string) (models.Style, error) {
	idx, err := f.GetCellStyle(sheetName, cell)
	if err != nil {
		return models.Style{}, err
	}
	if idx == 0 {
		return models.DefaultStyle(), nil
	}
	s, err := f.GetStyle(idx)
	if err != nil {
		return models.Style{}, err
	}
	return fromExcelStyle(s), nil
}

// Export writes data as a single-sheet workbook at path.
func Export(data models.Data, path string, opts Options) error {
	f, sheetName, err := build(data, opts)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return NewCodecError(sheetName, "save", err)
	}
	return nil
}

// Write is Export to w.
func Write(w io.Writer, data models.Data, opts Options) error {
	f, sheetName, err := build(data, opts)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return NewCodecError(sheetName, "save", err)
	}
	return nil
}

func build(data models.Data, opts Options) (*excelize.File, string, error) {
	sheetName := opts.SheetName
	if sheetName == "" {
		sheetName = DefaultSheetName
	}

	f := excelize.NewFile()
	if sheetName != DefaultSheetName {
		if err := f.SetSheetName(DefaultSheetName, sheetName); err != nil {
			f.Close()
			return nil, "", NewCodecError(sheetName, "write", err)
		}
	}

	includeStyles := opts.ShouldIncludeStyles()
	styleIDs := make(map[models.Style]int)
	for _, addr := range data.Addresses() {
		cell := data[addr]
		name := string(addr)

		if !cell.Value.IsEmpty() {
			if err := f.SetCellValue(sheetName, name, cell.Value.Interface()); err != nil {
				f.Close()
				return nil, "", NewCodecError(sheetName, "write", err)
			}
		}

		if !includeStyles || cell.Style.IsDefault() {
			continue
		}
		id, ok := styleIDs[cell.Style]
		if !ok {
			var err error
			id, err = f.NewStyle(toExcelStyle(cell.Style))
			if err != nil {
				f.Close()
				return nil, "", NewCodecError(sheetName, "style", err)
			}
			styleIDs[cell.Style] = id
		}
		if err := f.SetCellStyle(sheetName, name, name, id); err != nil {
			f.Close()
			return nil, "", NewCodecError(sheetName, "style", err)
		}
	}

	return f, sheetName, nil
}
