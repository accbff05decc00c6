package selection

import (
	"github.com/ukaji3/gridcalc/pkg/gridcalc/models"
	"github.com/ukaji3/gridcalc/pkg/gridcalc/ref"
)

// TableDetectionParams holds parameters for table detection.
type TableDetectionParams struct {
	DensityMin       float64
	MinNonemptyCells int
}

// DefaultTableParams returns default table detection parameters.
func DefaultTableParams() TableDetectionParams {
	return TableDetectionParams{
		DensityMin:       0.04,
		MinNonemptyCells: 3,
	}
}

// DetectTables returns the ranges (e.g. "A1:D10") of the snapshot that
// likely hold a table. A cell counts when it has a value or a formula;
// cells that exist only to carry edges or styling do not.
func DetectTables(data models.Data, params TableDetectionParams) []string {
	filled := make(models.Data)
	for a, c := range data {
		if !c.Value.IsEmpty() || c.HasFormula() {
			filled[a] = c
		}
	}

	bounds, ok := filled.Bounds()
	if !ok {
		return nil
	}

	nonEmpty := countInside(filled, bounds)
	if nonEmpty < params.MinNonemptyCells {
		return nil
	}

	density := float64(nonEmpty) / float64(bounds.Size())
	if density < params.DensityMin {
		return nil
	}

	return []string{bounds.String()}
}

// countInside counts valid addresses of data that fall within r.
func countInside(data models.Data, r ref.Range) int {
	count := 0
	for a := range data {
		row, col, err := a.Coordinates()
		if err != nil {
			continue
		}
		if r.Contains(row, col) {
			count++
		}
	}
	return count
}
