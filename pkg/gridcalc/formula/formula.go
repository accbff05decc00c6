// Package formula evaluates single-call aggregate formulas of the form
// =FUNC(A1:B5) against a cell snapshot.
//
// Evaluation is total: Evaluate always yields a value, substituting the
// error marker for anything that does not compile. Compile exposes the
// underlying error for callers that want to report it.
package formula

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/xuri/efp"

	"github.com/ukaji3/gridcalc/pkg/gridcalc/models"
	"github.com/ukaji3/gridcalc/pkg/gridcalc/ref"
)

var (
	// ErrMalformed indicates text that does not have the FUNC(arg) shape.
	ErrMalformed = errors.New("malformed formula")
	// ErrUnknownFunction indicates a function name outside the supported set.
	ErrUnknownFunction = errors.New("unknown function")
)

// EvaluationError describes why a formula could not be compiled.
type EvaluationError struct {
	Formula string
	Reason  string
	Err     error
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("formula %q: %s: %v", e.Formula, e.Reason, e.Err)
}

func (e *EvaluationError) Unwrap() error {
	return e.Err
}

var callPattern = regexp.MustCompile(`^([A-Z]+)\((.*)\)$`)

// Call is a compiled formula: one function over one range.
type Call struct {
	Function Function
	Range    ref.Range
}

// IsFormula reports whether text is formula input.
func IsFormula(text string) bool {
	return strings.HasPrefix(text, "=")
}

// Compile parses formula text. The function name and references are
// case-insensitive and whitespace around the body is ignored.
func Compile(text string) (*Call, error) {
	if !IsFormula(text) {
		return nil, &EvaluationError{Formula: text, Reason: "missing leading '='", Err: ErrMalformed}
	}

	body := strings.ToUpper(strings.TrimSpace(text[1:]))
	m := callPattern.FindStringSubmatch(body)
	if m == nil {
		return nil, &EvaluationError{Formula: text, Reason: "expected FUNC(range)", Err: ErrMalformed}
	}

	fn, ok := ParseFunction(m[1])
	if !ok {
		return nil, &EvaluationError{Formula: text, Reason: m[1], Err: ErrUnknownFunction}
	}

	operand, err := rangeOperand(body)
	if err != nil {
		return nil, &EvaluationError{Formula: text, Reason: "bad argument", Err: err}
	}

	r, err := ref.ParseRange(operand)
	if err != nil {
		return nil, &EvaluationError{Formula: text, Reason: "bad reference", Err: err}
	}
	if r.TooLarge() {
		return nil, &EvaluationError{Formula: text, Reason: r.String(), Err: ref.ErrRangeTooLarge}
	}

	return &Call{Function: fn, Range: r}, nil
}

// rangeOperand tokenizes the call and returns its single range argument.
// The token stream must be exactly function-start, one range operand,
// function-stop.
func rangeOperand(body string) (string, error) {
	ps := efp.ExcelParser()
	var tokens []efp.Token
	for _, tok := range ps.Parse(body) {
		if tok.TType == efp.TokenTypeWhitespace {
			continue
		}
		tokens = append(tokens, tok)
	}

	if len(tokens) != 3 ||
		tokens[0].TType != efp.TokenTypeFunction || tokens[0].TSubType != efp.TokenSubTypeStart ||
		tokens[2].TType != efp.TokenTypeFunction || tokens[2].TSubType != efp.TokenSubTypeStop {
		return "", fmt.Errorf("%w: expected a single argument", ErrMalformed)
	}

	arg := tokens[1]
	if arg.TType != efp.TokenTypeOperand || arg.TSubType != efp.TokenSubTypeRange {
		return "", fmt.Errorf("%w: argument %q is not a cell or range", ErrMalformed, arg.TValue)
	}
	return strings.TrimSpace(arg.TValue), nil
}

// Operands resolves the numeric operand sequence of the call. Members are
// read row-major; empty and non-numeric values are skipped.
func (c *Call) Operands(data models.Data) []float64 {
	var values []float64
	for _, a := range c.Range.Addresses() {
		cell, ok := data[a]
		if !ok {
			continue
		}
		if v, ok := cell.Value.Numeric(); ok {
			values = append(values, v)
		}
	}
	return values
}

// Eval computes the call against data.
func (c *Call) Eval(data models.Data) models.Value {
	result, ok := c.Function.Apply(c.Operands(data))
	if !ok {
		return models.ErrorValue()
	}
	return models.Number(result)
}

// Evaluate computes the value of text against data. Text without a leading
// '=' is returned unchanged as a string value; any formula that fails to
// compile yields the error marker.
func Evaluate(text string, data models.Data) models.Value {
	if !IsFormula(text) {
		return models.String(text)
	}
	call, err := Compile(text)
	if err != nil {
		return models.ErrorValue()
	}
	return call.Eval(data)
}
