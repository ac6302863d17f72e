package trace

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Well-known frame fields shared by several algorithm families.
const (
	FieldArray     = "arr"
	FieldComparing = "comparing"
	FieldSwapped   = "swapped"
	FieldFound     = "found"
	FieldNode      = "node"
	FieldCurrent   = "current"
	FieldAction    = "action"
	FieldUnderflow = "underflow"
)

// Frame is one instant of algorithm state. Frames are immutable once built.
type Frame map[string]any

// Has reports whether the field is present and not null.
func (f Frame) Has(key string) bool {
	v, ok := f[key]
	return ok && v != nil
}

// Value returns the raw field value.
func (f Frame) Value(key string) (any, bool) {
	v, ok := f[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// Float returns a numeric field.
func (f Frame) Float(key string) (float64, bool) {
	v, ok := f.Value(key)
	if !ok {
		return 0, false
	}
	return toFloat(v)
}

// Int returns a numeric field truncated to an int.
func (f Frame) Int(key string) (int, bool) {
	n, ok := f.Float(key)
	if !ok {
		return 0, false
	}
	return int(n), true
}

// Bool returns a boolean field. Absent fields are false.
func (f Frame) Bool(key string) bool {
	v, ok := f.Value(key)
	if !ok {
		return false
	}
	b, ok := v.(bool)
	return ok && b
}

// String returns a field formatted for display. Numbers are printed without
// a trailing fraction when they are integral.
func (f Frame) String(key string) (string, bool) {
	v, ok := f.Value(key)
	if !ok {
		return "", false
	}
	return Format(v), true
}

// List returns an array field.
func (f Frame) List(key string) ([]any, bool) {
	v, ok := f.Value(key)
	if !ok {
		return nil, false
	}
	l, ok := v.([]any)
	return l, ok
}

// Ints returns an array field whose elements are all numeric.
func (f Frame) Ints(key string) ([]int, bool) {
	l, ok := f.List(key)
	if !ok {
		return nil, false
	}
	out := make([]int, 0, len(l))
	for _, e := range l {
		n, ok := toFloat(e)
		if !ok {
			return nil, false
		}
		out = append(out, int(n))
	}
	return out, true
}

// Floats returns an array field whose elements are all numeric.
func (f Frame) Floats(key string) ([]float64, bool) {
	l, ok := f.List(key)
	if !ok {
		return nil, false
	}
	out := make([]float64, 0, len(l))
	for _, e := range l {
		n, ok := toFloat(e)
		if !ok {
			return nil, false
		}
		out = append(out, n)
	}
	return out, true
}

// Strings returns an array field with every element formatted for display.
// Null elements become empty strings.
func (f Frame) Strings(key string) ([]string, bool) {
	l, ok := f.List(key)
	if !ok {
		return nil, false
	}
	out := make([]string, len(l))
	for i, e := range l {
		if e != nil {
			out[i] = Format(e)
		}
	}
	return out, true
}

// Object returns a nested object field.
func (f Frame) Object(key string) (Frame, bool) {
	v, ok := f.Value(key)
	if !ok {
		return nil, false
	}
	m, ok := v.(map[string]any)
	return Frame(m), ok
}

// With returns a copy of f with key set to v.
func (f Frame) With(key string, v any) Frame {
	out := make(Frame, len(f)+1)
	for k, val := range f {
		out[k] = val
	}
	out[key] = v
	return out
}

// Format renders a decoded JSON value for narration and labels.
func Format(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case float64:
		return formatFloat(x)
	case int:
		return strconv.Itoa(x)
	case json.Number:
		return x.String()
	case []any:
		parts := make([]string, len(x))
		for i, e := range x {
			parts[i] = Format(e)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		b, err := json.Marshal(x)
		if err != nil {
			return "?"
		}
		return string(b)
	}
}

func formatFloat(x float64) string {
	if x == math.Trunc(x) && math.Abs(x) < 1e15 {
		return strconv.FormatInt(int64(x), 10)
	}
	return strconv.FormatFloat(x, 'g', -1, 64)
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case json.Number:
		n, err := x.Float64()
		return n, err == nil
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		return n, err == nil
	}
	return 0, false
}
