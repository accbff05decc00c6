package metrics

import (
	"bytes"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ukaji3/gridcalc/pkg/gridcalc"
	"github.com/ukaji3/gridcalc/pkg/gridcalc/ref"
)

var _ gridcalc.Recorder = (*Recorder)(nil)

func TestRecordCommit(t *testing.T) {
	r := New()
	r.RecordCommit("formula", 3, time.Millisecond)
	r.RecordCommit("formula", 0, time.Millisecond)
	r.RecordCommit("error", 0, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.commitsTotal.WithLabelValues("formula")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.commitsTotal.WithLabelValues("error")))
	assert.Equal(t, 1, testutil.CollectAndCount(r.commitDuration))
}

func TestRecorderWithEngine(t *testing.T) {
	r := New()
	e := gridcalc.New(gridcalc.Options{Recorder: r})

	_, err := e.CommitEdit("A1", "1")
	require.NoError(t, err)
	_, err = e.CommitEdit("B1", "=SUM(A1)")
	require.NoError(t, err)
	_, err = e.ApplyTransform("UPPER", []ref.Address{"A1", "A2"})
	require.NoError(t, err)
	_, err = e.ApplyStyle([]ref.Address{"A1"}, gridcalc.StyleItalic, "")
	require.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(r.commitsTotal.WithLabelValues("literal")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.commitsTotal.WithLabelValues("formula")))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.transformCells.WithLabelValues("UPPER")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.styleCells.WithLabelValues("italic")))
}

func TestWriteText(t *testing.T) {
	r := New()
	r.RecordTransform("TRIM", 4)

	var buf bytes.Buffer
	require.NoError(t, r.WriteText(&buf))
	assert.Contains(t, buf.String(), `gridcalc_transform_cells_total{transform="TRIM"} 4`)
	assert.Contains(t, buf.String(), "# TYPE gridcalc_transform_cells_total counter")
}

func TestFamilies(t *testing.T) {
	r := New()
	r.RecordStyle("bold", 2)

	families, err := r.Families()
	require.NoError(t, err)

	var found bool
	for _, mf := range families {
		if mf.GetName() != "gridcalc_style_cells_total" {
			continue
		}
		found = true
		require.Len(t, mf.GetMetric(), 1)
		assert.Equal(t, 2.0, mf.GetMetric()[0].GetCounter().GetValue())
	}
	assert.True(t, found)
}
