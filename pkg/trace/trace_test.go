package trace

import (
	"testing"

	"github.com/matzehuels/algotrace/pkg/errors"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		key       string
		wantLen   int
		wantCode  errors.Code
		wantFirst string
	}{
		{
			name:      "object frames",
			body:      `{"arr":[{"arr":[3,5],"comparing":[0,1],"swapped":true},{"arr":[3,5]}]}`,
			key:       "arr",
			wantLen:   2,
			wantFirst: "arr",
		},
		{
			name:      "scalar frames",
			body:      `{"arr":["4","2",5]}`,
			key:       "arr",
			wantLen:   3,
			wantFirst: FieldNode,
		},
		{
			name:    "empty array",
			body:    `{"steps":[]}`,
			key:     "steps",
			wantLen: 0,
		},
		{
			name:    "null frames",
			body:    `{"steps":null}`,
			key:     "steps",
			wantLen: 0,
		},
		{
			name:     "missing key",
			body:     `{"arr":[]}`,
			key:      "steps",
			wantCode: errors.ErrCodeMalformedTrace,
		},
		{
			name:     "not an array",
			body:     `{"arr":{"a":1}}`,
			key:      "arr",
			wantCode: errors.ErrCodeMalformedTrace,
		},
		{
			name:     "invalid json",
			body:     `{"arr":[`,
			key:      "arr",
			wantCode: errors.ErrCodeMalformedTrace,
		},
		{
			name:     "nested array frame",
			body:     `{"arr":[[1,2]]}`,
			key:      "arr",
			wantCode: errors.ErrCodeMalformedTrace,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, err := Decode([]byte(tt.body), tt.key)
			if tt.wantCode != "" {
				if !errors.Is(err, tt.wantCode) {
					t.Fatalf("Decode() error = %v, want code %v", err, tt.wantCode)
				}
				return
			}
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if tr.Len() != tt.wantLen {
				t.Errorf("Len() = %d, want %d", tr.Len(), tt.wantLen)
			}
			if tt.wantFirst != "" {
				f, _ := tr.At(0)
				if !f.Has(tt.wantFirst) {
					t.Errorf("frame 0 = %v, want field %q", f, tt.wantFirst)
				}
			}
		})
	}
}

func TestDecodeResult(t *testing.T) {
	tr, err := Decode([]byte(`{"steps":[{"explanation":"dp[2] = 1"}],"result":3}`), "steps")
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if Format(tr.Result) != "3" {
		t.Errorf("Result = %v, want 3", tr.Result)
	}
}

func TestAt(t *testing.T) {
	tr := Trace{Frames: []Frame{{"a": 1.0}}}
	if _, ok := tr.At(-1); ok {
		t.Error("At(-1) ok = true, want false")
	}
	if _, ok := tr.At(1); ok {
		t.Error("At(1) ok = true, want false")
	}
	if f, ok := tr.At(0); !ok || !f.Has("a") {
		t.Errorf("At(0) = %v, %v", f, ok)
	}
}

func TestFrameAccessors(t *testing.T) {
	f := Frame{
		"arr":       []any{5.0, 3.0, 8.0},
		"comparing": []any{0.0, 1.0},
		"swapped":   true,
		"mid":       2.0,
		"current":   "B",
		"stack":     []any{"A", nil},
		"pointer":   map[string]any{"current": 4.0},
		"missing":   nil,
	}

	if got, ok := f.Ints("comparing"); !ok || len(got) != 2 || got[1] != 1 {
		t.Errorf("Ints(comparing) = %v, %v", got, ok)
	}
	if got, ok := f.Floats("arr"); !ok || got[2] != 8 {
		t.Errorf("Floats(arr) = %v, %v", got, ok)
	}
	if !f.Bool("swapped") {
		t.Error("Bool(swapped) = false, want true")
	}
	if f.Bool("absent") {
		t.Error("Bool(absent) = true, want false")
	}
	if got, ok := f.Int("mid"); !ok || got != 2 {
		t.Errorf("Int(mid) = %v, %v", got, ok)
	}
	if got, ok := f.String("current"); !ok || got != "B" {
		t.Errorf("String(current) = %v, %v", got, ok)
	}
	if got, ok := f.Strings("stack"); !ok || got[0] != "A" || got[1] != "" {
		t.Errorf("Strings(stack) = %v, %v", got, ok)
	}
	if p, ok := f.Object("pointer"); !ok || !p.Has("current") {
		t.Errorf("Object(pointer) = %v, %v", p, ok)
	}
	if f.Has("missing") {
		t.Error("Has(missing) = true, want false for null")
	}
	if _, ok := f.Ints("current"); ok {
		t.Error("Ints(current) ok = true, want false")
	}
}

func TestWith(t *testing.T) {
	f := Frame{"a": 1.0}
	g := f.With("b", 2.0)
	if f.Has("b") {
		t.Error("With mutated the receiver")
	}
	if !g.Has("a") || !g.Has("b") {
		t.Errorf("With() = %v", g)
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{5.0, "5"},
		{2.5, "2.5"},
		{-3.0, "-3"},
		{"A", "A"},
		{true, "true"},
		{nil, "null"},
		{[]any{1.0, "B", nil}, "[1, B, null]"},
	}
	for _, tt := range tests {
		if got := Format(tt.in); got != tt.want {
			t.Errorf("Format(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
