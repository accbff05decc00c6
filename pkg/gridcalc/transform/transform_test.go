package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukaji3/gridcalc/pkg/gridcalc/deps"
	"github.com/ukaji3/gridcalc/pkg/gridcalc/models"
	"github.com/ukaji3/gridcalc/pkg/gridcalc/ref"
)

func cells(values map[ref.Address]models.Value) models.Data {
	data := models.Data{}
	for a, v := range values {
		c := models.NewCell()
		c.Value = v
		data[a] = c
	}
	return data
}

func TestTrimValues(t *testing.T) {
	data := cells(map[ref.Address]models.Value{
		"A1": models.String(" x "),
		"A2": models.Number(3),
		"A3": models.String("  outside  "),
	})

	out := TrimValues(data, []ref.Address{"A1", "A2", "B9"})

	assert.Equal(t, models.String("x"), out["A1"].Value)
	assert.Equal(t, models.String("3"), out["A2"].Value)
	assert.Equal(t, models.String("  outside  "), out["A3"].Value)
	_, created := out["B9"]
	assert.False(t, created)
	assert.Equal(t, models.String(" x "), data["A1"].Value)
}

func TestCaseConversion(t *testing.T) {
	data := cells(map[ref.Address]models.Value{
		"A1": models.String("Hello"),
		"A2": models.Number(1.5),
		"A3": models.ErrorValue(),
	})
	sel := []ref.Address{"A1", "A2", "A3"}

	up := UpperValues(data, sel)
	assert.Equal(t, models.String("HELLO"), up["A1"].Value)
	assert.Equal(t, models.Number(1.5), up["A2"].Value)
	assert.Equal(t, models.ErrorValue(), up["A3"].Value)

	low := LowerValues(up, sel)
	assert.Equal(t, models.String("hello"), low["A1"].Value)
}

func TestRemoveDuplicateValues(t *testing.T) {
	data := cells(map[ref.Address]models.Value{
		"A1": models.Number(1),
		"A2": models.Number(1),
		"A3": models.Number(2),
		"B1": models.Number(1),
	})

	out := RemoveDuplicateValues(data, []ref.Address{"A1", "A2", "A3"})

	assert.Len(t, out, 3)
	assert.Contains(t, out, ref.Address("A1"))
	assert.Contains(t, out, ref.Address("A3"))
	assert.NotContains(t, out, ref.Address("A2"))
	assert.Contains(t, out, ref.Address("B1"))
	assert.Len(t, data, 4)
}

func TestRemoveDuplicateValuesDistinguishesKinds(t *testing.T) {
	data := cells(map[ref.Address]models.Value{
		"A1": models.Number(1),
		"A2": models.String("1"),
	})

	out := RemoveDuplicateValues(data, []ref.Address{"A1", "A2"})
	assert.Len(t, out, 2)
}

func TestRemoveDuplicateValuesKeepsEmptyCells(t *testing.T) {
	data := models.Data{
		"A1": {Value: models.Empty(), Dependents: []ref.Address{"B1"}},
		"A2": {Value: models.Empty(), Dependents: []ref.Address{"B1"}},
		"A3": {Value: models.Empty(), Dependents: []ref.Address{"B1"}},
	}

	out := RemoveDuplicateValues(data, []ref.Address{"A1", "A2", "A3"})
	assert.Len(t, out, 3)
	assert.Equal(t, []ref.Address{"B1"}, out["A3"].Dependents)
}

func TestRemoveDuplicateValuesKeepsEdgesSymmetric(t *testing.T) {
	data := models.Data{
		"A1": {Value: models.Number(1), Dependents: []ref.Address{"B1"}},
		"A2": {Value: models.Number(1), Dependents: []ref.Address{"B1"}},
		"B1": {Value: models.Number(2), Formula: "=SUM(A1:A2)", Dependencies: []ref.Address{"A1", "A2"}},
		"C1": {Value: models.Number(1), Dependents: []ref.Address{"C3"}},
		"C2": {Value: models.Number(1)},
		"C3": {Value: models.Number(1), Formula: "=SUM(C1)", Dependencies: []ref.Address{"C1"}},
	}

	out := RemoveDuplicateValues(data, []ref.Address{"A1", "A2"})
	require.Contains(t, out, ref.Address("A2"))
	assert.True(t, out["A2"].Value.IsEmpty())
	assert.Equal(t, []ref.Address{"B1"}, out["A2"].Dependents)
	assert.Empty(t, deps.CheckSymmetry(out))

	out = RemoveDuplicateValues(data, []ref.Address{"C2", "C3"})
	assert.NotContains(t, out, ref.Address("C3"))
	assert.Empty(t, out["C1"].Dependents)
	assert.Equal(t, []ref.Address{"C3"}, data["C1"].Dependents)
	assert.Empty(t, deps.CheckSymmetry(out))
}

func TestFindAndReplaceValues(t *testing.T) {
	data := cells(map[ref.Address]models.Value{
		"A1": models.String("a-b-c"),
		"A2": models.Number(11),
	})
	sel := []ref.Address{"A1", "A2"}

	out := FindAndReplaceValues(data, sel, "-", "+")
	assert.Equal(t, models.String("a+b+c"), out["A1"].Value)
	assert.Equal(t, models.Number(11), out["A2"].Value)

	same := FindAndReplaceValues(data, sel, "", "x")
	assert.Equal(t, data, same)
}

func TestApply(t *testing.T) {
	data := cells(map[ref.Address]models.Value{"A1": models.String("ab")})
	sel := []ref.Address{"A1"}

	out, err := Apply(FindAndReplace, data, sel, "a", "z")
	require.NoError(t, err)
	assert.Equal(t, models.String("zb"), out["A1"].Value)

	_, err = Apply(FindAndReplace, data, sel, "a")
	assert.ErrorIs(t, err, ErrArguments)

	_, err = Apply(Upper, data, sel, "extra")
	assert.ErrorIs(t, err, ErrArguments)

	_, err = Apply(Name("REVERSE"), data, sel)
	assert.ErrorIs(t, err, ErrUnknownTransform)
}

func TestParseName(t *testing.T) {
	n, err := ParseName(" remove_duplicates ")
	require.NoError(t, err)
	assert.Equal(t, RemoveDuplicates, n)

	_, err = ParseName("SORT")
	assert.ErrorIs(t, err, ErrUnknownTransform)
}
