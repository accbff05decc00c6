// Package deps maintains the forward (dependencies) and reverse
// (dependents) edges between formula cells and the cells they read.
//
// References are found by scanning the formula text for address-shaped
// tokens, independently of how the evaluator parses the formula. A token
// pair joined by ':' is expanded to every member of the rectangle, so the
// scan covers every cell the evaluator can read.
package deps

import (
	"regexp"
	"strings"

	"github.com/ukaji3/gridcalc/pkg/gridcalc/models"
	"github.com/ukaji3/gridcalc/pkg/gridcalc/ref"
)

var referencePattern = regexp.MustCompile(`([A-Z]+[0-9]+)(?::([A-Z]+[0-9]+))?`)

// ExtractReferences returns the sorted, deduplicated set of addresses the
// formula text mentions. Tokens that do not decode (e.g. "A0") are skipped.
func ExtractReferences(formulaText string) []ref.Address {
	var found []ref.Address
	for _, m := range referencePattern.FindAllStringSubmatch(strings.ToUpper(formulaText), -1) {
		start, end := ref.Address(m[1]), ref.Address(m[2])
		if end == "" {
			if a, err := ref.Parse(string(start)); err == nil {
				found = append(found, a)
			}
			continue
		}
		members, err := ref.ExpandRange(start, end)
		if err != nil {
			// fall back to whichever endpoint is usable
			for _, e := range []ref.Address{start, end} {
				if a, err := ref.Parse(string(e)); err == nil {
					found = append(found, a)
				}
			}
			continue
		}
		found = append(found, members...)
	}
	return models.NewAddressSet(found)
}

// UpdateDependencies rewires the edges of id for formulaText and returns
// the new snapshot. The old edges of id are torn down first, so calling it
// twice with the same arguments yields the same edge set. Non-formula text
// is scanned the same way; callers pass "" to clear a cell's edges.
func UpdateDependencies(id ref.Address, formulaText string, data models.Data) models.Data {
	out := data.Clone()

	for _, dep := range out.Get(id).Dependencies {
		if c, ok := out[dep]; ok {
			c.Dependents = models.RemoveAddress(c.Dependents, id)
			out[dep] = c
		}
	}

	refs := ExtractReferences(formulaText)
	for _, dep := range refs {
		c := out.Get(dep)
		c.Dependents = models.AddAddress(c.Dependents, id)
		out[dep] = c
	}

	cell := out.Get(id)
	cell.Dependencies = refs
	out[id] = cell
	return out
}

// Dependents returns the addresses whose formulas read a.
func Dependents(data models.Data, a ref.Address) []ref.Address {
	return data[a].Dependents
}

// CheckSymmetry reports every edge that is not mirrored on the other side:
// X in dependents of Y iff Y in dependencies of X. It returns nil for a
// consistent snapshot.
func CheckSymmetry(data models.Data) []Edge {
	var broken []Edge
	for _, a := range data.Addresses() {
		cell := data[a]
		for _, dep := range cell.Dependencies {
			if !models.ContainsAddress(data[dep].Dependents, a) {
				broken = append(broken, Edge{From: a, To: dep})
			}
		}
		for _, reader := range cell.Dependents {
			if !models.ContainsAddress(data[reader].Dependencies, a) {
				broken = append(broken, Edge{From: reader, To: a})
			}
		}
	}
	return broken
}

// Edge is a dependency edge: From's formula reads To.
type Edge struct {
	From ref.Address
	To   ref.Address
}
