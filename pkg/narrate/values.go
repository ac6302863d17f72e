package narrate

import (
	"github.com/matzehuels/algotrace/pkg/trace"
)

// values resolves the array a frame refers to: its own "arr", else the
// previous frame's, else the instance input.
func values(cur, prev trace.Frame, initial []float64) []any {
	if arr, ok := cur.List(trace.FieldArray); ok {
		return arr
	}
	if arr, ok := prev.List(trace.FieldArray); ok {
		return arr
	}
	out := make([]any, len(initial))
	for i, v := range initial {
		out[i] = v
	}
	return out
}

// at formats arr[i], or "?" when i is out of range.
func at(arr []any, i int) string {
	if i < 0 || i >= len(arr) {
		return "?"
	}
	return trace.Format(arr[i])
}

// num returns arr[i] as a number.
func num(arr []any, i int) (float64, bool) {
	if i < 0 || i >= len(arr) {
		return 0, false
	}
	f := trace.Frame{"v": arr[i]}
	return f.Float("v")
}

// pair returns the two indexes under comparison.
func pair(f trace.Frame) (i, j int, ok bool) {
	c, ok := f.Ints(trace.FieldComparing)
	if !ok || len(c) == 0 {
		return 0, 0, false
	}
	if len(c) == 1 {
		return c[0], c[0], true
	}
	return c[0], c[1], true
}
