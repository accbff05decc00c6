package xlsx

import (
	"errors"
	"fmt"
)

// ErrFileNotFound indicates the input file does not exist.
var ErrFileNotFound = errors.New("file not found")

// ErrInvalidFormat indicates the input file is not a valid xlsx format.
var ErrInvalidFormat = errors.New("invalid xlsx format")

// CodecError represents an error while reading or writing a sheet.
type CodecError struct {
	SheetName string
	Op        string // "open", "read", "style", "write", "save"
	Err       error
}

func (e *CodecError) Error() string {
	return fmt.Sprintf("xlsx %s error in sheet %q: %v", e.Op, e.SheetName, e.Err)
}

func (e *CodecError) Unwrap() error {
	return e.Err
}

// NewCodecError creates a new CodecError.
func NewCodecError(sheetName, op string, err error) *CodecError {
	return &CodecError{
		SheetName: sheetName,
		Op:        op,
		Err:       err,
	}
}
