package formula

import (
	"fmt"
	"strings"
)

// Function is the closed set of aggregate functions a formula may call.
type Function uint8

const (
	Sum Function = iota + 1
	Average
	Max
	Min
	Count
)

// Functions lists every supported function in toolbar order.
var Functions = []Function{Sum, Average, Max, Min, Count}

var functionNames = map[Function]string{
	Sum:     "SUM",
	Average: "AVERAGE",
	Max:     "MAX",
	Min:     "MIN",
	Count:   "COUNT",
}

func (f Function) String() string {
	if name, ok := functionNames[f]; ok {
		return name
	}
	return fmt.Sprintf("Function(%d)", uint8(f))
}

// ParseFunction resolves a function name, ignoring case.
func ParseFunction(name string) (Function, bool) {
	upper := strings.ToUpper(name)
	for f, n := range functionNames {
		if n == upper {
			return f, true
		}
	}
	return 0, false
}

// Apply folds the numeric operands. Every function yields 0 over an empty
// operand list. ok is false only for a Function outside the enumeration.
func (f Function) Apply(values []float64) (result float64, ok bool) {
	switch f {
	case Sum:
		return sum(values), true
	case Average:
		if len(values) == 0 {
			return 0, true
		}
		return sum(values) / float64(len(values)), true
	case Max:
		if len(values) == 0 {
			return 0, true
		}
		m := values[0]
		for _, v := range values[1:] {
			m = max(m, v)
		}
		return m, true
	case Min:
		if len(values) == 0 {
			return 0, true
		}
		m := values[0]
		for _, v := range values[1:] {
			m = min(m, v)
		}
		return m, true
	case Count:
		return float64(len(values)), true
	default:
		return 0, false
	}
}

func sum(values []float64) float64 {
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total
}
