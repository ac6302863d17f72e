package instance

import (
	"github.com/matzehuels/algotrace/pkg/algo"
)

// Instance is a validated problem instance.
//
// This is a discriminated union type - check Kind to determine which fields
// are populated.
type Instance struct {
	Algorithm string    `json:"algorithm"`
	Kind      algo.Kind `json:"kind"`

	// KindArray
	Array  []float64 `json:"array,omitempty"`
	Target *float64  `json:"target,omitempty"`

	// KindGraph and KindWeighted
	Graph      *Graph             `json:"graph,omitempty"`
	Root       string             `json:"root,omitempty"`
	TargetNode string             `json:"target_node,omitempty"`
	Start      string             `json:"start,omitempty"`
	End        string             `json:"end,omitempty"`
	Heuristic  map[string]float64 `json:"heuristic,omitempty"`

	// KindTree
	Tree *Tree `json:"tree,omitempty"`

	// KindList
	List   []float64 `json:"list,omitempty"`
	Values []float64 `json:"values,omitempty"`
	Value  *float64  `json:"value,omitempty"`
	Index  *int      `json:"index,omitempty"`
	Count  int       `json:"count,omitempty"`

	// KindDP
	N      int       `json:"n,omitempty"`
	Coins  []float64 `json:"coins,omitempty"`
	Amount int       `json:"amount,omitempty"`
}

// Nodes returns the declared node identifiers of a graph or tree instance in
// declaration order, or nil for other kinds.
func (in Instance) Nodes() []string {
	switch {
	case in.Graph != nil:
		return in.Graph.IDs()
	case in.Tree != nil:
		return in.Tree.IDs()
	}
	return nil
}

// Size reports the number of elements in the instance: array length, node
// count or list length.
func (in Instance) Size() int {
	switch in.Kind {
	case algo.KindArray:
		return len(in.Array)
	case algo.KindGraph, algo.KindWeighted:
		if in.Graph != nil {
			return in.Graph.Len()
		}
	case algo.KindTree:
		if in.Tree != nil {
			return in.Tree.Len()
		}
	case algo.KindList:
		return len(in.List)
	case algo.KindDP:
		if len(in.Coins) > 0 {
			return len(in.Coins)
		}
		return in.N
	}
	return 0
}
