package layout

import (
	"math"
	"sort"

	"github.com/matzehuels/algotrace/pkg/algo"
	"github.com/matzehuels/algotrace/pkg/errors"
	"github.com/matzehuels/algotrace/pkg/instance"
)

// Point is a position in renderer coordinates. Y grows downward.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Map assigns a point to every node identifier.
type Map map[string]Point

// IDs returns the identifiers in m sorted lexically.
func (m Map) IDs() []string {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Bounds returns the smallest rectangle containing every point. An empty map
// returns zero points.
func (m Map) Bounds() (lo, hi Point) {
	first := true
	for _, p := range m {
		if first {
			lo, hi = p, p
			first = false
			continue
		}
		lo.X = math.Min(lo.X, p.X)
		lo.Y = math.Min(lo.Y, p.Y)
		hi.X = math.Max(hi.X, p.X)
		hi.Y = math.Max(hi.Y, p.Y)
	}
	return lo, hi
}

// ForInstance computes the layout for a graph or tree instance. Other kinds
// have no node coordinates and return a nil map.
func ForInstance(in instance.Instance) (Map, error) {
	switch in.Kind {
	case algo.KindGraph:
		if in.Graph == nil {
			return nil, errors.New(errors.ErrCodeInvalidInput, "graph instance has no graph")
		}
		return TraversalCircle.Place(in.Graph.IDs()), nil
	case algo.KindWeighted:
		if in.Graph == nil {
			return nil, errors.New(errors.ErrCodeInvalidInput, "graph instance has no graph")
		}
		return PathCircle.Place(in.Graph.IDs()), nil
	case algo.KindTree:
		if in.Tree == nil {
			return nil, errors.New(errors.ErrCodeInvalidInput, "tree instance has no tree")
		}
		return DefaultTree.Place(in.Tree)
	}
	return nil, nil
}
