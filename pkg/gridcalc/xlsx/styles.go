package xlsx

import (
	"math"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ukaji3/gridcalc/pkg/gridcalc/models"
)

// fromExcelStyle converts an excelize style to a cell style. Attributes the
// workbook leaves unset keep their default.
func fromExcelStyle(s *excelize.Style) models.Style {
	out := models.DefaultStyle()
	if s == nil {
		return out
	}
	if s.Font != nil {
		out.Bold = s.Font.Bold
		out.Italic = s.Font.Italic
		if s.Font.Size > 0 {
			out.FontSize = int(math.Round(s.Font.Size))
		}
		if c, ok := normalizeColor(s.Font.Color); ok {
			out.Color = c
		}
	}
	if s.Fill.Type == "pattern" && s.Fill.Pattern == 1 && len(s.Fill.Color) > 0 {
		if c, ok := normalizeColor(s.Fill.Color[0]); ok {
			out.BackgroundColor = c
		}
	}
	return out
}

// toExcelStyle converts a cell style to an excelize style definition.
// Unset or malformed attributes are left to the workbook default.
func toExcelStyle(s models.Style) *excelize.Style {
	out := &excelize.Style{
		Font: &excelize.Font{
			Bold:   s.Bold,
			Italic: s.Italic,
		},
	}
	if s.FontSize > 0 {
		out.Font.Size = float64(s.FontSize)
	}
	if c, ok := normalizeColor(s.Color); ok {
		out.Font.Color = strings.TrimPrefix(c, "#")
	}
	if c, ok := normalizeColor(s.BackgroundColor); ok {
		out.Fill = excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{strings.TrimPrefix(c, "#")}}
	}
	return out
}

// normalizeColor turns RGB or ARGB hex, with or without '#', into
// lower-case "#rrggbb".
func normalizeColor(c string) (string, bool) {
	c = strings.TrimPrefix(strings.TrimSpace(c), "#")
	if len(c) == 8 {
		c = c[2:]
	}
	if len(c) != 6 {
		return "", false
	}
	for _, r := range c {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return "", false
		}
	}
	return "#" + strings.ToLower(c), true
}
