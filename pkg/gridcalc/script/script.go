// Package script replays YAML edit scripts against an engine. A script is
// the headless form of a session: each step is one commit, transform,
// style or aggregate action, optionally interleaved with expectations on
// cell contents.
//
// Example:
//
//	name: budget
//	steps:
//	  - op: commit
//	    cell: A1
//	    input: "5"
//	  - op: aggregate
//	    function: sum
//	    range: A1:A3
//	    target: A4
//	  - op: expect
//	    cell: A4
//	    input: "5"
package script

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/ukaji3/gridcalc/pkg/gridcalc"
	"github.com/ukaji3/gridcalc/pkg/gridcalc/formula"
	"github.com/ukaji3/gridcalc/pkg/gridcalc/ref"
	"github.com/ukaji3/gridcalc/pkg/gridcalc/selection"
)

var (
	// ErrInvalidScript indicates a script that does not decode or validate.
	ErrInvalidScript = errors.New("invalid script")
	// ErrExpectation indicates an expect step whose cell text differs.
	ErrExpectation = errors.New("expectation failed")
)

// Op names a step kind.
type Op string

const (
	OpCommit    Op = "commit"
	OpTransform Op = "transform"
	OpStyle     Op = "style"
	OpAggregate Op = "aggregate"
	OpExpect    Op = "expect"
)

// Step is one scripted action.
type Step struct {
	Op       Op       `yaml:"op" validate:"required,oneof=commit transform style aggregate expect"`
	Cell     string   `yaml:"cell,omitempty" validate:"required_if=Op commit,required_if=Op expect,address"`
	Input    string   `yaml:"input,omitempty"`
	Range    string   `yaml:"range,omitempty" validate:"required_if=Op transform,required_if=Op style,required_if=Op aggregate,selection"`
	Name     string   `yaml:"name,omitempty" validate:"required_if=Op transform"`
	Args     []string `yaml:"args,omitempty"`
	Property string   `yaml:"property,omitempty" validate:"required_if=Op style"`
	Value    string   `yaml:"value,omitempty"`
	Function string   `yaml:"function,omitempty" validate:"required_if=Op aggregate"`
	Target   string   `yaml:"target,omitempty" validate:"required_if=Op aggregate,address"`
}

// Script is a named list of steps.
type Script struct {
	Name  string `yaml:"name"`
	Steps []Step `yaml:"steps" validate:"required,min=1,dive"`
}

// StepError reports the step that failed.
type StepError struct {
	Index int
	Op    Op
	Err   error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (%s): %v", e.Index+1, e.Op, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// scriptValidate is the validator instance for scripts.
var scriptValidate *validator.Validate

func init() {
	scriptValidate = validator.New()
	_ = scriptValidate.RegisterValidation("address", validateAddress)
	_ = scriptValidate.RegisterValidation("selection", validateSelection)
}

// validateAddress accepts a cell address or the empty string.
func validateAddress(fl validator.FieldLevel) bool {
	if fl.Field().String() == "" {
		return true
	}
	_, err := ref.Parse(strings.ToUpper(strings.TrimSpace(fl.Field().String())))
	return err == nil
}

// validateSelection accepts a selection expression or the empty string.
func validateSelection(fl validator.FieldLevel) bool {
	if fl.Field().String() == "" {
		return true
	}
	_, err := selection.Parse(fl.Field().String())
	return err == nil
}

// Parse decodes and validates a script. Unknown keys are rejected.
func Parse(r io.Reader) (*Script, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var s Script
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidScript, err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Load reads and parses the script file at path.
func Load(path string) (*Script, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

// Validate checks field constraints on every step.
func (s *Script) Validate() error {
	if err := scriptValidate.Struct(s); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidScript, err)
	}
	return nil
}

// Run executes the steps in order against e and stops at the first
// failure. Steps before the failure stay applied.
func Run(e *gridcalc.Engine, s *Script) (gridcalc.Snapshot, error) {
	for i, step := range s.Steps {
		if err := runStep(e, step); err != nil {
			return e.Snapshot(), &StepError{Index: i, Op: step.Op, Err: err}
		}
	}
	return e.Snapshot(), nil
}

func runStep(e *gridcalc.Engine, step Step) error {
	switch step.Op {
	case OpCommit:
		_, err := e.CommitEdit(step.Cell, step.Input)
		return err

	case OpTransform:
		sel, err := selection.Parse(step.Range)
		if err != nil {
			return err
		}
		_, err = e.ApplyTransform(step.Name, sel, step.Args...)
		return err

	case OpStyle:
		sel, err := selection.Parse(step.Range)
		if err != nil {
			return err
		}
		property, err := gridcalc.ParseStyleProperty(step.Property)
		if err != nil {
			return err
		}
		_, err = e.ApplyStyle(sel, property, step.Value)
		return err

	case OpAggregate:
		sel, err := selection.Parse(step.Range)
		if err != nil {
			return err
		}
		fn, ok := formula.ParseFunction(step.Function)
		if !ok {
			return fmt.Errorf("%w: %q", formula.ErrUnknownFunction, step.Function)
		}
		_, err = e.ApplyAggregate(fn, sel, step.Target)
		return err

	case OpExpect:
		a, err := ref.Parse(strings.ToUpper(strings.TrimSpace(step.Cell)))
		if err != nil {
			return err
		}
		got := e.Data().Value(a).String()
		if got != step.Input {
			return fmt.Errorf("%w: %s = %q, want %q", ErrExpectation, a, got, step.Input)
		}
		return nil

	default:
		return fmt.Errorf("%w: unknown op %q", ErrInvalidScript, step.Op)
	}
}
