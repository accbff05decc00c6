package script

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ukaji3/gridcalc/pkg/gridcalc"
	"github.com/ukaji3/gridcalc/pkg/gridcalc/models"
	"github.com/ukaji3/gridcalc/pkg/gridcalc/ref"
)

const budget = `
name: budget
steps:
  - op: commit
    cell: A1
    input: " 5 "
  - op: commit
    cell: A2
    input: "7"
  - op: transform
    name: trim
    range: A1
  - op: aggregate
    function: sum
    range: A1:A2
    target: A3
  - op: style
    range: A1:A3
    property: bold
  - op: style
    range: A3
    property: background_color
    value: "#ffee00"
  - op: commit
    cell: A2
    input: "10"
  - op: expect
    cell: A3
    input: "15"
`

func TestRunBudget(t *testing.T) {
	s, err := Parse(strings.NewReader(budget))
	require.NoError(t, err)
	assert.Equal(t, "budget", s.Name)
	require.Len(t, s.Steps, 8)

	e := gridcalc.New(gridcalc.DefaultOptions())
	snap, err := Run(e, s)
	require.NoError(t, err)

	assert.Equal(t, uint64(7), snap.Version)
	assert.Equal(t, "=SUM(A1:A2)", snap.Data["A3"].Formula)
	assert.Equal(t, models.Number(15), snap.Data["A3"].Value)
	assert.True(t, snap.Data["A1"].Style.Bold)
	assert.Equal(t, "#ffee00", snap.Data["A3"].Style.BackgroundColor)
}

func TestRunStopsAtFailedExpectation(t *testing.T) {
	s, err := Parse(strings.NewReader(`
steps:
  - op: commit
    cell: B1
    input: "=SUM(A1)"
  - op: expect
    cell: B1
    input: "1"
  - op: commit
    cell: C1
    input: "never"
`))
	require.NoError(t, err)

	e := gridcalc.New(gridcalc.DefaultOptions())
	snap, err := Run(e, s)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrExpectation)

	var stepErr *StepError
	require.True(t, errors.As(err, &stepErr))
	assert.Equal(t, 1, stepErr.Index)
	assert.Equal(t, OpExpect, stepErr.Op)
	assert.NotContains(t, snap.Data, ref.Address("C1"))
}

func TestRunReportsEngineErrors(t *testing.T) {
	s := &Script{Steps: []Step{{Op: OpStyle, Range: "A1", Property: "fontSize", Value: "-3"}}}

	_, err := Run(gridcalc.New(gridcalc.DefaultOptions()), s)
	assert.ErrorIs(t, err, gridcalc.ErrInvalidStyle)
}

func TestParseRejectsInvalidScripts(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"no steps", "name: empty\n"},
		{"unknown op", "steps:\n  - op: delete\n    cell: A1\n"},
		{"commit without cell", "steps:\n  - op: commit\n    input: x\n"},
		{"bad address", "steps:\n  - op: commit\n    cell: A0\n"},
		{"bad range", "steps:\n  - op: transform\n    name: trim\n    range: A1:?\n"},
		{"aggregate without target", "steps:\n  - op: aggregate\n    function: sum\n    range: A1\n"},
		{"unknown key", "steps:\n  - op: commit\n    cell: A1\n    colour: red\n"},
		{"not yaml", "steps: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.text))
			assert.ErrorIs(t, err, ErrInvalidScript)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "script.yaml")
	require.NoError(t, os.WriteFile(path, []byte(budget), 0o644))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, s.Steps, 8)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
