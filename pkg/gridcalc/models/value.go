// Package models defines the cell data structures shared by the engine,
// the file codec and the rendered output.
package models

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrorMarker is the sentinel displayed in place of a failed evaluation.
const ErrorMarker = "#ERROR!"

// Kind discriminates the scalar stored in a Value.
type Kind uint8

const (
	KindEmpty Kind = iota
	KindNumber
	KindString
	KindError
)

func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindError:
		return "error"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Value is the displayed or computed scalar of a cell. The zero Value is
// empty. Values are comparable and usable as map keys.
type Value struct {
	Kind Kind
	Num  float64
	Text string
}

// Empty returns the empty value.
func Empty() Value { return Value{} }

// Number wraps a float.
func Number(f float64) Value { return Value{Kind: KindNumber, Num: f} }

// String wraps text.
func String(s string) Value { return Value{Kind: KindString, Text: s} }

// ErrorValue returns the error marker value.
func ErrorValue() Value { return Value{Kind: KindError, Text: ErrorMarker} }

// ParseNumber reads the text of a cell stored as a number: "" becomes
// empty, integer or decimal text becomes a number, anything else a string.
func ParseNumber(s string) Value {
	if s == "" {
		return Empty()
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return Number(float64(i))
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
		return Number(f)
	}
	return String(s)
}

func (v Value) IsEmpty() bool  { return v.Kind == KindEmpty }
func (v Value) IsNumber() bool { return v.Kind == KindNumber }
func (v Value) IsString() bool { return v.Kind == KindString }
func (v Value) IsError() bool  { return v.Kind == KindError }

// Numeric returns the operand a formula reads from v. Numbers are used
// directly; strings count when their trimmed text is a finite number.
// Empty values and error markers are not numeric.
func (v Value) Numeric() (float64, bool) {
	switch v.Kind {
	case KindNumber:
		return v.Num, true
	case KindString:
		s := strings.TrimSpace(v.Text)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// String renders v as display text.
func (v Value) String() string {
	switch v.Kind {
	case KindNumber:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case KindString, KindError:
		return v.Text
	default:
		return ""
	}
}

// Interface returns v as a plain Go value: float64, string or nil.
func (v Value) Interface() interface{} {
	switch v.Kind {
	case KindNumber:
		return v.Num
	case KindString, KindError:
		return v.Text
	default:
		return nil
	}
}

// MarshalJSON encodes numbers as JSON numbers, text and error markers as
// strings and empty values as null.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Interface())
}

// UnmarshalJSON is the inverse of MarshalJSON. The error marker string
// decodes back to an error value.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch x := raw.(type) {
	case nil:
		*v = Empty()
	case float64:
		*v = Number(x)
	case string:
		if x == ErrorMarker {
			*v = ErrorValue()
		} else {
			*v = String(x)
		}
	default:
		return fmt.Errorf("unsupported cell value %s", string(data))
	}
	return nil
}

// MarshalYAML mirrors MarshalJSON for gopkg.in/yaml.v3.
func (v Value) MarshalYAML() (interface{}, error) {
	return v.Interface(), nil
}
