package output

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/ukaji3/gridcalc/pkg/gridcalc/models"
	"github.com/ukaji3/gridcalc/pkg/gridcalc/ref"
)

func sample() models.Data {
	bold := models.DefaultStyle()
	bold.Bold = true
	return models.Data{
		"A1": {Value: models.String("item"), Style: bold},
		"B1": {Value: models.String("qty"), Style: models.DefaultStyle()},
		"A2": {Value: models.String("apple"), Style: models.DefaultStyle()},
		"B2": {Value: models.Number(3), Style: models.DefaultStyle(), Dependents: []ref.Address{"B3"}},
		"B3": {Value: models.Number(3), Formula: "=SUM(B2)", Style: models.DefaultStyle(), Dependencies: []ref.Address{"B2"}},
		"Z50": {Style: models.DefaultStyle(), Dependents: []ref.Address{"B3"}},
	}
}

func TestRender(t *testing.T) {
	sheet := Render(sample(), "Sheet1", 7)

	assert.Equal(t, "Sheet1", sheet.Name)
	assert.Equal(t, uint64(7), sheet.Version)
	require.Len(t, sheet.Rows, 3)

	assert.Equal(t, 1, sheet.Rows[0].R)
	assert.Equal(t, models.String("item"), sheet.Rows[0].C["A"])
	assert.True(t, sheet.Rows[0].S["A"].Bold)
	assert.NotContains(t, sheet.Rows[0].S, "B")

	assert.Equal(t, 3, sheet.Rows[2].R)
	assert.Equal(t, "=SUM(B2)", sheet.Rows[2].F["B"])
	assert.Equal(t, models.Number(3), sheet.Rows[2].C["B"])

	require.NotNil(t, sheet.UsedRange)
	assert.Equal(t, models.Area{R1: 1, C1: 1, R2: 3, C2: 2}, *sheet.UsedRange)
	assert.Equal(t, []string{"A1:B3"}, sheet.TableCandidates)
}

func TestRenderEmpty(t *testing.T) {
	sheet := Render(models.Data{}, "Sheet1", 0)
	assert.Empty(t, sheet.Rows)
	assert.Nil(t, sheet.UsedRange)
	assert.Empty(t, sheet.TableCandidates)
}

func TestClip(t *testing.T) {
	sheet := Render(sample(), "Sheet1", 1)

	view := Clip(sheet, models.Area{R1: 2, C1: 2, R2: 3, C2: 2})
	require.Len(t, view.Rows, 2)
	assert.Equal(t, map[string]models.Value{"B": models.Number(3)}, view.Rows[0].C)
	assert.Equal(t, "=SUM(B2)", view.Rows[1].F["B"])
	assert.Equal(t, []string{"A1:B3"}, view.TableCandidates)

	outside := Clip(sheet, models.Area{R1: 10, C1: 10, R2: 12, C2: 12})
	assert.Empty(t, outside.Rows)
	assert.Empty(t, outside.TableCandidates)
}

func TestToJSON(t *testing.T) {
	sheet := Render(sample(), "Sheet1", 2)

	data, err := ToJSON(sheet, false)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "\n")

	var decoded models.SheetData
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, sheet.Rows[1].C, decoded.Rows[1].C)

	pretty, err := ToJSON(sheet, true)
	require.NoError(t, err)
	assert.Contains(t, string(pretty), "\n  \"name\": \"Sheet1\"")
}

func TestToYAML(t *testing.T) {
	sheet := Render(sample(), "Sheet1", 3)

	data, err := ToYAML(sheet)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal(data, &decoded))
	assert.Equal(t, "Sheet1", decoded["name"])
	assert.Equal(t, 3, decoded["version"])
	assert.True(t, strings.Contains(string(data), "item"))
}

func TestMarshal(t *testing.T) {
	sheet := Render(models.Data{}, "S", 0)

	_, err := Marshal(sheet, "json", false)
	require.NoError(t, err)
	_, err = Marshal(sheet, "YAML", false)
	require.NoError(t, err)
	_, err = Marshal(sheet, "csv", false)
	assert.ErrorIs(t, err, ErrUnknownFormat)
}
