package instance

import (
	"testing"

	"github.com/matzehuels/algotrace/pkg/errors"
)

func TestTreeRoot(t *testing.T) {
	tests := []struct {
		name     string
		nodes    []TreeNode
		want     string
		wantCode errors.Code
	}{
		{
			name:  "three nodes",
			nodes: []TreeNode{{ID: "1", Left: "2", Right: "3"}, {ID: "2"}, {ID: "3"}},
			want:  "1",
		},
		{
			name:  "root declared last",
			nodes: []TreeNode{{ID: "2"}, {ID: "3"}, {ID: "1", Left: "2", Right: "3"}},
			want:  "1",
		},
		{
			name:     "mutual cycle",
			nodes:    []TreeNode{{ID: "A", Left: "B"}, {ID: "B", Left: "A"}},
			wantCode: errors.ErrCodeAmbiguousRoot,
		},
		{
			name:     "forest",
			nodes:    []TreeNode{{ID: "A"}, {ID: "B"}},
			wantCode: errors.ErrCodeAmbiguousRoot,
		},
		{
			name:     "empty",
			wantCode: errors.ErrCodeEmptyInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewTree(tt.nodes).Root()
			if tt.wantCode != "" {
				if !errors.Is(err, tt.wantCode) {
					t.Fatalf("Root() error = %v, want %v", err, tt.wantCode)
				}
				return
			}
			if err != nil {
				t.Fatalf("Root() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Root() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTreeCheck(t *testing.T) {
	tests := []struct {
		name      string
		nodes     []TreeNode
		wantCode  errors.Code
		wantField string
	}{
		{
			name:  "valid",
			nodes: []TreeNode{{ID: "1", Left: "2", Right: "3"}, {ID: "2", Right: "4"}, {ID: "3"}, {ID: "4"}},
		},
		{
			name:      "shared child",
			nodes:     []TreeNode{{ID: "1", Left: "2", Right: "3"}, {ID: "2", Left: "4"}, {ID: "3", Left: "4"}, {ID: "4"}},
			wantCode:  errors.ErrCodeInvalidTree,
			wantField: "4",
		},
		{
			name:      "detached cycle",
			nodes:     []TreeNode{{ID: "R"}, {ID: "A", Left: "B"}, {ID: "B", Left: "A"}},
			wantCode:  errors.ErrCodeInvalidTree,
			wantField: "A",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTree(tt.nodes).Check()
			if tt.wantCode == "" {
				if err != nil {
					t.Fatalf("Check() error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantCode) {
				t.Fatalf("Check() error = %v, want %v", err, tt.wantCode)
			}
			if e, ok := err.(*errors.Error); ok && e.Field != tt.wantField {
				t.Errorf("Field = %v, want %v", e.Field, tt.wantField)
			}
		})
	}
}

func TestTreeWalkDepth(t *testing.T) {
	tr := NewTree([]TreeNode{{ID: "1", Left: "2", Right: "3"}, {ID: "2", Left: "4"}, {ID: "3"}, {ID: "4"}})
	depths := map[string]int{}
	var order []string
	if err := tr.Walk("1", func(id string, d int) {
		depths[id] = d
		order = append(order, id)
	}); err != nil {
		t.Fatalf("Walk() error = %v", err)
	}
	want := []string{"1", "2", "4", "3"}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("Walk() order = %v, want %v", order, want)
		}
	}
	if depths["4"] != 2 {
		t.Errorf("depth(4) = %d, want 2", depths["4"])
	}
}

func TestGraphLookup(t *testing.T) {
	g := NewGraph([]Node{
		{ID: "A", Edges: []Edge{{To: "B"}, {To: "C"}}},
		{ID: "B"},
		{ID: "C", Edges: []Edge{{To: "A"}}},
	}, false)

	if !g.Has("C") || g.Has("D") {
		t.Error("Has() mismatch")
	}
	if got := g.Edges("A"); len(got) != 2 || got[1].To != "C" {
		t.Errorf("Edges(A) = %v", got)
	}
	if got := g.EdgeList(); len(got) != 3 {
		t.Errorf("EdgeList() = %v, want 3 edges", got)
	}

	// A graph decoded from JSON has no index.
	decoded := &Graph{Nodes: g.Nodes}
	if !decoded.Has("B") {
		t.Error("Has(B) on unindexed graph = false")
	}
}
