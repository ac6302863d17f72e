package validate

import (
	"testing"

	"github.com/matzehuels/algotrace/pkg/algo"
	"github.com/matzehuels/algotrace/pkg/errors"
)

func fieldOf(err error) string {
	if e, ok := err.(*errors.Error); ok {
		return e.Field
	}
	return ""
}

func TestValidateArray(t *testing.T) {
	tests := []struct {
		name      string
		algorithm string
		in        Input
		want      []float64
		code      errors.Code
		field     string
	}{
		{name: "commas", algorithm: "bubble", in: Input{Array: "5,3,8,4,2"}, want: []float64{5, 3, 8, 4, 2}},
		{name: "spaces and brackets", algorithm: "merge", in: Input{Array: "[5, 3  8]"}, want: []float64{5, 3, 8}},
		{name: "decimals", algorithm: "heap", in: Input{Array: "1.5,-2"}, want: []float64{1.5, -2}},
		{name: "malformed token", algorithm: "bubble", in: Input{Array: "5,3,a,2"}, code: errors.ErrCodeInvalidNumber, field: "a"},
		{name: "NaN element", algorithm: "bubble", in: Input{Array: "5,NaN,2"}, code: errors.ErrCodeInvalidNumber, field: "NaN"},
		{name: "infinite element", algorithm: "insertion", in: Input{Array: "1, Inf"}, code: errors.ErrCodeInvalidNumber, field: "Inf"},
		{name: "overflowing element", algorithm: "selection", in: Input{Array: "1e400"}, code: errors.ErrCodeInvalidNumber},
		{name: "empty", algorithm: "quick", in: Input{Array: "  "}, code: errors.ErrCodeEmptyInput},
		{name: "search needs target", algorithm: "binary-search", in: Input{Array: "1,2"}, code: errors.ErrCodeInvalidParameter},
		{name: "search target not a number", algorithm: "binary-search", in: Input{Array: "1,2", Target: "x"}, code: errors.ErrCodeInvalidNumber},
		{name: "search target NaN", algorithm: "binary-search", in: Input{Array: "1,2", Target: "NaN"}, code: errors.ErrCodeInvalidNumber, field: "target"},
		{name: "search target infinity", algorithm: "binary-search", in: Input{Array: "1,2", Target: "-infinity"}, code: errors.ErrCodeInvalidNumber},
		{name: "unknown algorithm", algorithm: "bogo", in: Input{Array: "1"}, code: errors.ErrCodeUnknownAlgorithm},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Validate(tt.algorithm, tt.in)
			if tt.code != "" {
				if !errors.Is(err, tt.code) {
					t.Fatalf("Validate() error = %v, want %v", err, tt.code)
				}
				if tt.field != "" && fieldOf(err) != tt.field {
					t.Errorf("Field = %q, want %q", fieldOf(err), tt.field)
				}
				if got.Kind != "" {
					t.Errorf("Validate() returned partial instance %+v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Validate() error = %v", err)
			}
			if got.Kind != algo.KindArray || got.Algorithm != tt.algorithm {
				t.Errorf("Validate() = %s/%s", got.Algorithm, got.Kind)
			}
			if len(got.Array) != len(tt.want) {
				t.Fatalf("Array = %v, want %v", got.Array, tt.want)
			}
			for i := range tt.want {
				if got.Array[i] != tt.want[i] {
					t.Errorf("Array = %v, want %v", got.Array, tt.want)
				}
			}
		})
	}
}

func TestValidateSearchTarget(t *testing.T) {
	got, err := Validate("binary-search", Input{Array: "1,3,5", Target: "5"})
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if got.Target == nil || *got.Target != 5 {
		t.Errorf("Target = %v, want 5", got.Target)
	}
}

func TestValidateGraph(t *testing.T) {
	tests := []struct {
		name  string
		in    Input
		order []string
		code  errors.Code
		field string
	}{
		{
			name:  "json keeps declaration order",
			in:    Input{Graph: `{"C":["A"],"A":["B","C"],"B":[]}`, Root: "C"},
			order: []string{"C", "A", "B"},
		},
		{
			name:  "line form",
			in:    Input{Graph: "A: B, C\nB:\nC: A", Root: "A", Target: "C"},
			order: []string{"A", "B", "C"},
		},
		{
			name:  "semicolons and numeric ids",
			in:    Input{Graph: "1: 2; 2: 1", Root: "1"},
			order: []string{"1", "2"},
		},
		{
			name:  "dangling neighbor",
			in:    Input{Graph: `{"A":["B"]}`, Root: "A"},
			code:  errors.ErrCodeDanglingReference,
			field: "B",
		},
		{
			name:  "missing root",
			in:    Input{Graph: `{"A":[]}`, Root: "Z"},
			code:  errors.ErrCodeUnknownNode,
			field: "Z",
		},
		{
			name: "root required",
			in:   Input{Graph: `{"A":[]}`},
			code: errors.ErrCodeInvalidParameter,
		},
		{
			name:  "missing target",
			in:    Input{Graph: `{"A":[]}`, Root: "A", Target: "Q"},
			code:  errors.ErrCodeUnknownNode,
			field: "Q",
		},
		{
			name:  "duplicate node",
			in:    Input{Graph: "A: B\nB:\nA:", Root: "A"},
			code:  errors.ErrCodeInvalidInput,
			field: "A",
		},
		{
			name: "empty graph",
			in:   Input{Graph: ""},
			code: errors.ErrCodeEmptyInput,
		},
		{
			name: "unclosed json",
			in:   Input{Graph: `{"A":["B"]`, Root: "A"},
			code: errors.ErrCodeInvalidInput,
		},
		{
			name: "dangling checked before root",
			in:   Input{Graph: `{"A":["B"]}`, Root: "Z"},
			code: errors.ErrCodeDanglingReference,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Validate("bfs", tt.in)
			if tt.code != "" {
				if !errors.Is(err, tt.code) {
					t.Fatalf("Validate() error = %v, want %v", err, tt.code)
				}
				if tt.field != "" && fieldOf(err) != tt.field {
					t.Errorf("Field = %q, want %q", fieldOf(err), tt.field)
				}
				return
			}
			if err != nil {
				t.Fatalf("Validate() error = %v", err)
			}
			ids := got.Graph.IDs()
			if len(ids) != len(tt.order) {
				t.Fatalf("IDs() = %v, want %v", ids, tt.order)
			}
			for i := range ids {
				if ids[i] != tt.order[i] {
					t.Errorf("IDs() = %v, want %v", ids, tt.order)
				}
			}
		})
	}
}

func TestValidateWeighted(t *testing.T) {
	tests := []struct {
		name      string
		algorithm string
		in        Input
		code      errors.Code
		field     string
	}{
		{name: "line form", algorithm: "dijkstra", in: Input{Graph: "S: A:2, B:4\nA: B:1\nB:", Start: "S", End: "B"}},
		{name: "json form", algorithm: "dijkstra", in: Input{Graph: `{"S":{"A":2,"B":"4"},"A":{"B":1},"B":{}}`, Start: "S", End: "B"}},
		{name: "astar heuristic", algorithm: "astar", in: Input{Graph: "S: A:2\nA:", Start: "S", End: "A", Heuristic: "S:3, A=0"}},
		{name: "bad weight", algorithm: "dijkstra", in: Input{Graph: "S: A:x\nA:", Start: "S", End: "A"}, code: errors.ErrCodeInvalidWeight, field: "A"},
		{name: "missing weight", algorithm: "dijkstra", in: Input{Graph: "S: A\nA:", Start: "S", End: "A"}, code: errors.ErrCodeInvalidWeight},
		{name: "dangling", algorithm: "dijkstra", in: Input{Graph: "S: Q:1", Start: "S", End: "S"}, code: errors.ErrCodeDanglingReference, field: "Q"},
		{name: "missing end", algorithm: "dijkstra", in: Input{Graph: "S:", Start: "S", End: "E"}, code: errors.ErrCodeUnknownNode, field: "E"},
		{name: "end checked before weights", algorithm: "dijkstra", in: Input{Graph: "S: A:x\nA:", Start: "S", End: "E"}, code: errors.ErrCodeUnknownNode},
		{name: "heuristic unknown node", algorithm: "astar", in: Input{Graph: "S:", Start: "S", End: "S", Heuristic: "Z:1"}, code: errors.ErrCodeUnknownNode, field: "Z"},
		{name: "heuristic not a number", algorithm: "astar", in: Input{Graph: "S:", Start: "S", End: "S", Heuristic: `{"S":"far"}`}, code: errors.ErrCodeInvalidWeight, field: "S"},
		{name: "heuristic NaN", algorithm: "astar", in: Input{Graph: "S: A:2\nA:", Start: "S", End: "A", Heuristic: "A:NaN"}, code: errors.ErrCodeInvalidWeight, field: "A"},
		{name: "weight infinite", algorithm: "dijkstra", in: Input{Graph: "S: A:Inf\nA:", Start: "S", End: "A"}, code: errors.ErrCodeInvalidWeight, field: "A"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Validate(tt.algorithm, tt.in)
			if tt.code != "" {
				if !errors.Is(err, tt.code) {
					t.Fatalf("Validate() error = %v, want %v", err, tt.code)
				}
				if tt.field != "" && fieldOf(err) != tt.field {
					t.Errorf("Field = %q, want %q", fieldOf(err), tt.field)
				}
				return
			}
			if err != nil {
				t.Fatalf("Validate() error = %v", err)
			}
			if !got.Graph.Weighted {
				t.Error("Graph.Weighted = false")
			}
			if edges := got.Graph.Edges("S"); len(edges) == 0 || edges[0].Weight != 2 {
				t.Errorf("Edges(S) = %v", edges)
			}
		})
	}
}

func TestValidateWeightedOrder(t *testing.T) {
	got, err := Validate("dijkstra", Input{Graph: `{"S":{"B":4,"A":2},"A":{},"B":{}}`, Start: "S", End: "A"})
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	edges := got.Graph.Edges("S")
	if edges[0].To != "B" || edges[1].To != "A" {
		t.Errorf("Edges(S) = %v, want B then A", edges)
	}
}

func TestValidateTree(t *testing.T) {
	tests := []struct {
		name  string
		in    Input
		root  string
		code  errors.Code
		field string
	}{
		{name: "json", in: Input{Tree: `{"1":[2,3],"2":[null,null],"3":[null,null]}`}, root: "1"},
		{name: "line form with dashes", in: Input{Tree: "1: 2, 3\n2: -, -\n3:"}, root: "1"},
		{name: "right child only", in: Input{Tree: "1: -, 2\n2:"}, root: "1"},
		{name: "matching declared root", in: Input{Tree: "1: 2\n2:", Root: "1"}, root: "1"},
		{name: "mutual cycle is ambiguous", in: Input{Tree: `{"A":["B"],"B":["A"]}`}, code: errors.ErrCodeAmbiguousRoot},
		{name: "forest", in: Input{Tree: "A:\nB:"}, code: errors.ErrCodeAmbiguousRoot},
		{name: "dangling child", in: Input{Tree: "1: 2, 9\n2:"}, code: errors.ErrCodeDanglingReference, field: "9"},
		{name: "shared child", in: Input{Tree: "1: 2, 3\n2: 4\n3: 4\n4:"}, code: errors.ErrCodeInvalidTree, field: "4"},
		{name: "three children", in: Input{Tree: "1: 2, 3, 4\n2:\n3:\n4:"}, code: errors.ErrCodeInvalidTree},
		{name: "same child twice", in: Input{Tree: "1: 2, 2\n2:"}, code: errors.ErrCodeInvalidTree},
		{name: "declared root is a child", in: Input{Tree: "1: 2\n2:", Root: "2"}, code: errors.ErrCodeAmbiguousRoot},
		{name: "empty", in: Input{Tree: ""}, code: errors.ErrCodeEmptyInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Validate("inorder", tt.in)
			if tt.code != "" {
				if !errors.Is(err, tt.code) {
					t.Fatalf("Validate() error = %v, want %v", err, tt.code)
				}
				if tt.field != "" && fieldOf(err) != tt.field {
					t.Errorf("Field = %q, want %q", fieldOf(err), tt.field)
				}
				return
			}
			if err != nil {
				t.Fatalf("Validate() error = %v", err)
			}
			if got.Root != tt.root {
				t.Errorf("Root = %q, want %q", got.Root, tt.root)
			}
		})
	}
}

func TestValidateList(t *testing.T) {
	tests := []struct {
		name      string
		algorithm string
		in        Input
		code      errors.Code
	}{
		{name: "push", algorithm: "stack-push", in: Input{List: "1,2", Values: "3"}},
		{name: "push onto empty stack", algorithm: "stack-push", in: Input{Values: "3,4"}},
		{name: "push nothing", algorithm: "stack-push", in: Input{List: "1"}, code: errors.ErrCodeInvalidParameter},
		{name: "pop", algorithm: "stack-pop", in: Input{List: "1,2", Count: "3"}},
		{name: "pop zero", algorithm: "stack-pop", in: Input{List: "1,2", Count: "0"}, code: errors.ErrCodeInvalidParameter},
		{name: "pop empty stack", algorithm: "stack-pop", in: Input{Count: "1"}, code: errors.ErrCodeInvalidParameter},
		{name: "pop count not a number", algorithm: "stack-pop", in: Input{List: "1", Count: "two"}, code: errors.ErrCodeInvalidNumber},
		{name: "dequeue", algorithm: "queue-dequeue", in: Input{List: "1,2", Count: "1"}},
		{name: "insert at end", algorithm: "singly-insert", in: Input{List: "1,2", Value: "9", Index: "2"}},
		{name: "insert past end", algorithm: "doubly-insert", in: Input{List: "1,2", Value: "9", Index: "3"}, code: errors.ErrCodeInvalidParameter},
		{name: "insert negative", algorithm: "doubly-insert", in: Input{List: "1", Value: "9", Index: "-1"}, code: errors.ErrCodeInvalidParameter},
		{name: "insert needs value", algorithm: "singly-insert", in: Input{List: "1", Index: "0"}, code: errors.ErrCodeInvalidParameter},
		{name: "delete", algorithm: "doubly-delete", in: Input{List: "1,2,3", Index: "2"}},
		{name: "delete out of range", algorithm: "doubly-delete", in: Input{List: "1,2,3", Index: "3"}, code: errors.ErrCodeInvalidParameter},
		{name: "delete from empty", algorithm: "doubly-delete", in: Input{Index: "0"}, code: errors.ErrCodeInvalidParameter},
		{name: "reverse", algorithm: "singly-reverse", in: Input{List: "1,2,3"}},
		{name: "reverse empty", algorithm: "doubly-reverse", in: Input{}, code: errors.ErrCodeInvalidParameter},
		{name: "bad list token", algorithm: "singly-reverse", in: Input{List: "1,x"}, code: errors.ErrCodeInvalidNumber},
		{name: "NaN list value", algorithm: "queue-dequeue", in: Input{List: "1,NaN", Count: "1"}, code: errors.ErrCodeInvalidNumber},
		{name: "infinite push value", algorithm: "stack-push", in: Input{List: "1", Values: "Inf"}, code: errors.ErrCodeInvalidNumber},
		{name: "NaN insert value", algorithm: "singly-insert", in: Input{List: "1", Value: "NaN", Index: "0"}, code: errors.ErrCodeInvalidNumber},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Validate(tt.algorithm, tt.in)
			if tt.code == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("Validate() error = %v, want %v", err, tt.code)
			}
		})
	}
}

func TestValidateDP(t *testing.T) {
	tests := []struct {
		name      string
		algorithm string
		in        Input
		code      errors.Code
	}{
		{name: "fibonacci", algorithm: "fibonacci", in: Input{N: "10"}},
		{name: "fibonacci zero", algorithm: "fibonacci", in: Input{N: "0"}},
		{name: "fibonacci too large", algorithm: "fibonacci", in: Input{N: "41"}, code: errors.ErrCodeInvalidParameter},
		{name: "fibonacci negative", algorithm: "fibonacci", in: Input{N: "-1"}, code: errors.ErrCodeInvalidParameter},
		{name: "fibonacci missing", algorithm: "fibonacci", in: Input{}, code: errors.ErrCodeInvalidParameter},
		{name: "coin change", algorithm: "coin-change", in: Input{Coins: "1,2,5", Amount: "11"}},
		{name: "no coins", algorithm: "coin-change", in: Input{Amount: "3"}, code: errors.ErrCodeEmptyInput},
		{name: "NaN coin", algorithm: "coin-change", in: Input{Coins: "1,NaN", Amount: "3"}, code: errors.ErrCodeInvalidNumber},
		{name: "infinite coin", algorithm: "coin-change", in: Input{Coins: "Inf", Amount: "3"}, code: errors.ErrCodeInvalidNumber},
		{name: "zero coin", algorithm: "coin-change", in: Input{Coins: "0,2", Amount: "3"}, code: errors.ErrCodeInvalidParameter},
		{name: "negative amount", algorithm: "coin-change", in: Input{Coins: "1", Amount: "-3"}, code: errors.ErrCodeInvalidParameter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Validate(tt.algorithm, tt.in)
			if tt.code == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("Validate() error = %v, want %v", err, tt.code)
			}
		})
	}
}

func TestFormatValidationErrorNamesField(t *testing.T) {
	err := checkParams(coinParams{Coins: []float64{1, -2}, Amount: 1})
	if fieldOf(err) != "coins" {
		t.Errorf("Field = %q, want coins", fieldOf(err))
	}
	err = checkParams(fibonacciParams{N: MaxFibonacci + 1})
	if fieldOf(err) != "n" {
		t.Errorf("Field = %q, want n", fieldOf(err))
	}
}

func TestStructure(t *testing.T) {
	tests := []struct {
		name      string
		algorithm string
		in        Input
		code      errors.Code
	}{
		{name: "graph without root", algorithm: "bfs", in: Input{Graph: "A: B, C\nB:\nC:"}},
		{name: "weighted without endpoints", algorithm: "dijkstra", in: Input{Graph: "S: A:2\nA:"}},
		{name: "given root must exist", algorithm: "dfs", in: Input{Graph: "A: B\nB:", Root: "Z"}, code: errors.ErrCodeUnknownNode},
		{name: "given end must exist", algorithm: "astar", in: Input{Graph: "S: A:2\nA:", End: "Z"}, code: errors.ErrCodeUnknownNode},
		{name: "weights still checked", algorithm: "dijkstra", in: Input{Graph: "S: A:x\nA:"}, code: errors.ErrCodeInvalidWeight},
		{name: "dangling still checked", algorithm: "bfs", in: Input{Graph: "A: Q"}, code: errors.ErrCodeDanglingReference},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Structure(tt.algorithm, tt.in)
			if tt.code != "" {
				if !errors.Is(err, tt.code) {
					t.Errorf("Structure() error = %v, want %v", err, tt.code)
				}
				return
			}
			if err != nil {
				t.Fatalf("Structure() error = %v", err)
			}
			if got.Graph == nil || len(got.Nodes()) == 0 {
				t.Errorf("Structure() = %+v, want graph nodes", got)
			}
		})
	}

	if _, err := Validate("bfs", Input{Graph: "A: B\nB:"}); !errors.Is(err, errors.ErrCodeInvalidParameter) {
		t.Errorf("Validate() without root error = %v, want %v", err, errors.ErrCodeInvalidParameter)
	}
}
