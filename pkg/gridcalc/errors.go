package gridcalc

import (
	"errors"
	"fmt"
)

// ErrEmptySelection indicates an operation that needs at least one cell.
var ErrEmptySelection = errors.New("empty selection")

// ErrInvalidStyle indicates a style property or value that cannot be applied.
var ErrInvalidStyle = errors.New("invalid style")

// OperationError represents a rejected engine operation. The snapshot is
// unchanged when one is returned.
type OperationError struct {
	Op     string // "commit", "transform", "style", "aggregate", "load", "display"
	Target string
	Err    error
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Op, e.Target, e.Err)
}

func (e *OperationError) Unwrap() error {
	return e.Err
}

// NewOperationError creates a new OperationError.
func NewOperationError(op, target string, err error) *OperationError {
	return &OperationError{
		Op:     op,
		Target: target,
		Err:    err,
	}
}
