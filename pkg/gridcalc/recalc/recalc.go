// Package recalc refreshes formula cells downstream of a changed cell.
package recalc

import (
	"github.com/ukaji3/gridcalc/pkg/gridcalc/formula"
	"github.com/ukaji3/gridcalc/pkg/gridcalc/models"
	"github.com/ukaji3/gridcalc/pkg/gridcalc/ref"
)

// Trace records what one propagation pass did.
type Trace struct {
	// Visited lists every cell reached from the changed cell, including it.
	Visited []ref.Address
	// Evaluated lists the formula cells re-evaluated, in evaluation order.
	Evaluated []ref.Address
}

// Propagate re-evaluates every formula cell transitively reachable from
// changed through dependents edges and returns the new snapshot.
func Propagate(changed ref.Address, data models.Data) models.Data {
	out, _ := PropagateTrace(changed, data)
	return out
}

// PropagateTrace is Propagate that also reports the traversal.
//
// Each reachable cell is visited once. Cells are evaluated in reverse
// depth-first postorder, so in an acyclic graph every cell is evaluated
// after all the cells it reads that changed in this pass, and exactly once.
// On a cycle the visited set still stops the traversal; the values then
// reflect whatever order the walk produced. The changed cell itself is not
// re-evaluated and cells without a formula keep their value.
func PropagateTrace(changed ref.Address, data models.Data) (models.Data, Trace) {
	out := data.Clone()
	order := postorder(changed, data)

	trace := Trace{Visited: make([]ref.Address, 0, len(order))}
	for i := len(order) - 1; i >= 0; i-- {
		a := order[i]
		trace.Visited = append(trace.Visited, a)
		if a == changed {
			continue
		}
		cell, ok := out[a]
		if !ok || !cell.HasFormula() {
			continue
		}
		cell.Value = formula.Evaluate(cell.Formula, out)
		out[a] = cell
		trace.Evaluated = append(trace.Evaluated, a)
	}
	return out, trace
}

// frame is one level of the explicit DFS stack.
type frame struct {
	addr ref.Address
	next int
}

// postorder walks dependents edges from start iteratively and returns the
// reachable cells in postorder.
func postorder(start ref.Address, data models.Data) []ref.Address {
	visited := map[ref.Address]struct{}{start: {}}
	stack := []frame{{addr: start}}
	var order []ref.Address

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		dependents := data[top.addr].Dependents
		if top.next < len(dependents) {
			d := dependents[top.next]
			top.next++
			if _, seen := visited[d]; seen {
				continue
			}
			visited[d] = struct{}{}
			stack = append(stack, frame{addr: d})
			continue
		}
		order = append(order, top.addr)
		stack = stack[:len(stack)-1]
	}
	return order
}
