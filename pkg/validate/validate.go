package validate

import (
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/matzehuels/algotrace/pkg/algo"
	"github.com/matzehuels/algotrace/pkg/errors"
	"github.com/matzehuels/algotrace/pkg/instance"
)

// Input is the raw, textual description of a problem instance as typed by a
// user, passed on the command line or posted to the API. Only the fields
// relevant to the chosen algorithm are read.
type Input struct {
	Array     string `json:"array,omitempty" yaml:"array,omitempty" toml:"array,omitempty"`
	Target    string `json:"target,omitempty" yaml:"target,omitempty" toml:"target,omitempty"`
	Graph     string `json:"graph,omitempty" yaml:"graph,omitempty" toml:"graph,omitempty"`
	Root      string `json:"root,omitempty" yaml:"root,omitempty" toml:"root,omitempty"`
	Start     string `json:"start,omitempty" yaml:"start,omitempty" toml:"start,omitempty"`
	End       string `json:"end,omitempty" yaml:"end,omitempty" toml:"end,omitempty"`
	Heuristic string `json:"heuristic,omitempty" yaml:"heuristic,omitempty" toml:"heuristic,omitempty"`
	Tree      string `json:"tree,omitempty" yaml:"tree,omitempty" toml:"tree,omitempty"`
	List      string `json:"list,omitempty" yaml:"list,omitempty" toml:"list,omitempty"`
	Values    string `json:"values,omitempty" yaml:"values,omitempty" toml:"values,omitempty"`
	Value     string `json:"value,omitempty" yaml:"value,omitempty" toml:"value,omitempty"`
	Index     string `json:"index,omitempty" yaml:"index,omitempty" toml:"index,omitempty"`
	Count     string `json:"count,omitempty" yaml:"count,omitempty" toml:"count,omitempty"`
	N         string `json:"n,omitempty" yaml:"n,omitempty" toml:"n,omitempty"`
	Coins     string `json:"coins,omitempty" yaml:"coins,omitempty" toml:"coins,omitempty"`
	Amount    string `json:"amount,omitempty" yaml:"amount,omitempty" toml:"amount,omitempty"`
}

// MaxFibonacci bounds the Fibonacci input so traces stay watchable.
const MaxFibonacci = 40

// validate is a singleton validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return strings.ToLower(f.Name)
		}
		return name
	})
}

// Validate builds the problem instance for algorithm from in.
func Validate(algorithm string, in Input) (instance.Instance, error) {
	return build(algorithm, in, true)
}

// Structure is Validate without the traversal endpoints: a graph needs no
// root, start or end. Endpoints that are given must still name declared
// nodes. Layouts are computed from the result.
func Structure(algorithm string, in Input) (instance.Instance, error) {
	return build(algorithm, in, false)
}

func build(algorithm string, in Input, endpoints bool) (instance.Instance, error) {
	a, err := algo.Lookup(algorithm)
	if err != nil {
		return instance.Instance{}, err
	}

	var inst instance.Instance
	switch a.Kind {
	case algo.KindArray:
		inst, err = validateArray(a, in)
	case algo.KindGraph:
		inst, err = validateGraph(a, in, endpoints)
	case algo.KindWeighted:
		inst, err = validateWeighted(a, in, endpoints)
	case algo.KindTree:
		inst, err = validateTree(a, in)
	case algo.KindList:
		inst, err = validateList(a, in)
	case algo.KindDP:
		inst, err = validateDP(a, in)
	default:
		return instance.Instance{}, errors.New(errors.ErrCodeUnsupported, "algorithm %q has unsupported kind %q", a.Name, a.Kind)
	}
	if err != nil {
		return instance.Instance{}, err
	}

	inst.Algorithm = a.Name
	inst.Kind = a.Kind
	return inst, nil
}

// =============================================================================
// Arrays
// =============================================================================

func validateArray(a algo.Algorithm, in Input) (instance.Instance, error) {
	arr, err := nonEmptyNumbers("array", in.Array)
	if err != nil {
		return instance.Instance{}, err
	}

	inst := instance.Instance{Array: arr}
	if a.Family == algo.FamilySearch {
		if strings.TrimSpace(in.Target) == "" {
			return instance.Instance{}, errors.New(errors.ErrCodeInvalidParameter, "target value is required").WithField("target")
		}
		t, err := parseNumber("target", in.Target)
		if err != nil {
			return instance.Instance{}, err
		}
		inst.Target = &t
	}
	return inst, nil
}

func nonEmptyNumbers(name, text string) ([]float64, error) {
	nums, err := parseNumbers(name, text)
	if err != nil {
		return nil, err
	}
	if len(nums) == 0 {
		return nil, errors.New(errors.ErrCodeEmptyInput, "%s must contain at least one number", name).WithField(name)
	}
	return nums, nil
}

// =============================================================================
// Graphs
// =============================================================================

// declared checks identifiers and duplicate declarations, returning the set
// of declared nodes.
func declared(entries []entry) (map[string]bool, error) {
	if len(entries) == 0 {
		return nil, errors.New(errors.ErrCodeEmptyInput, "graph must declare at least one node")
	}
	nodes := make(map[string]bool, len(entries))
	for _, e := range entries {
		if err := errors.ValidateNodeID(e.id); err != nil {
			return nil, err
		}
		if nodes[e.id] {
			return nil, errors.New(errors.ErrCodeInvalidInput, "node %q is declared twice", e.id).WithField(e.id)
		}
		nodes[e.id] = true
	}
	return nodes, nil
}

func checkReferences(entries []entry, nodes map[string]bool, what string) error {
	for _, e := range entries {
		for _, r := range e.refs {
			if r.id == "" {
				continue
			}
			if !nodes[r.id] {
				return errors.New(errors.ErrCodeDanglingReference, "%s %q is not defined as a node", what, r.id).WithField(r.id)
			}
		}
	}
	return nil
}

// endpoint checks a traversal endpoint. An empty id is accepted unless
// required is set.
func endpoint(nodes map[string]bool, role, id string, required bool) error {
	if id == "" && !required {
		return nil
	}
	return requireNode(nodes, role, id)
}

func requireNode(nodes map[string]bool, role, id string) error {
	if id == "" {
		return errors.New(errors.ErrCodeInvalidParameter, "%s node is required", role).WithField(role)
	}
	if !nodes[id] {
		return errors.New(errors.ErrCodeUnknownNode, "%s node %q does not exist", role, id).WithField(id)
	}
	return nil
}

func validateGraph(_ algo.Algorithm, in Input, endpoints bool) (instance.Instance, error) {
	entries, err := parseEntries(in.Graph, false)
	if err != nil {
		return instance.Instance{}, err
	}
	nodes, err := declared(entries)
	if err != nil {
		return instance.Instance{}, err
	}
	if err := checkReferences(entries, nodes, "neighbor"); err != nil {
		return instance.Instance{}, err
	}

	root := strings.TrimSpace(in.Root)
	if err := endpoint(nodes, "root", root, endpoints); err != nil {
		return instance.Instance{}, err
	}
	target := strings.TrimSpace(in.Target)
	if target != "" && !nodes[target] {
		return instance.Instance{}, errors.New(errors.ErrCodeUnknownNode, "target node %q does not exist", target).WithField(target)
	}

	gn := make([]instance.Node, len(entries))
	for i, e := range entries {
		gn[i] = instance.Node{ID: e.id}
		for _, r := range e.refs {
			if r.id != "" {
				gn[i].Edges = append(gn[i].Edges, instance.Edge{To: r.id})
			}
		}
	}

	return instance.Instance{
		Graph:      instance.NewGraph(gn, false),
		Root:       root,
		TargetNode: target,
	}, nil
}

func validateWeighted(a algo.Algorithm, in Input, endpoints bool) (instance.Instance, error) {
	entries, err := parseEntries(in.Graph, true)
	if err != nil {
		return instance.Instance{}, err
	}
	nodes, err := declared(entries)
	if err != nil {
		return instance.Instance{}, err
	}
	if err := checkReferences(entries, nodes, "neighbor"); err != nil {
		return instance.Instance{}, err
	}

	start, end := strings.TrimSpace(in.Start), strings.TrimSpace(in.End)
	if err := endpoint(nodes, "start", start, endpoints); err != nil {
		return instance.Instance{}, err
	}
	if err := endpoint(nodes, "end", end, endpoints); err != nil {
		return instance.Instance{}, err
	}

	var hrefs []ref
	if a.Name == "astar" {
		hrefs, err = parseHeuristic(in.Heuristic)
		if err != nil {
			return instance.Instance{}, err
		}
		for _, h := range hrefs {
			if !nodes[h.id] {
				return instance.Instance{}, errors.New(errors.ErrCodeUnknownNode, "heuristic node %q does not exist", h.id).WithField(h.id)
			}
		}
	}

	gn := make([]instance.Node, len(entries))
	for i, e := range entries {
		gn[i] = instance.Node{ID: e.id}
		for _, r := range e.refs {
			if r.id == "" {
				continue
			}
			w, err := parseWeight(e.id, r)
			if err != nil {
				return instance.Instance{}, err
			}
			gn[i].Edges = append(gn[i].Edges, instance.Edge{To: r.id, Weight: w})
		}
	}

	inst := instance.Instance{
		Graph: instance.NewGraph(gn, true),
		Start: start,
		End:   end,
	}

	if len(hrefs) > 0 {
		inst.Heuristic = make(map[string]float64, len(hrefs))
		for _, h := range hrefs {
			v, err := parseNumber(fmt.Sprintf("heuristic for %q", h.id), h.weight)
			if err != nil {
				return instance.Instance{}, errors.New(errors.ErrCodeInvalidWeight, "heuristic for %q is not a number: %q", h.id, h.weight).WithField(h.id)
			}
			inst.Heuristic[h.id] = v
		}
	}
	return inst, nil
}

func parseWeight(from string, r ref) (float64, error) {
	if r.weight == "" {
		return 0, errors.New(errors.ErrCodeInvalidWeight, "edge %s -> %s has no weight", from, r.id).WithField(r.id)
	}
	w, err := parseNumber("weight", r.weight)
	if err != nil || math.IsNaN(w) || math.IsInf(w, 0) {
		return 0, errors.New(errors.ErrCodeInvalidWeight, "edge %s -> %s has invalid weight %q", from, r.id, r.weight).WithField(r.id)
	}
	return w, nil
}

// =============================================================================
// Trees
// =============================================================================

func validateTree(_ algo.Algorithm, in Input) (instance.Instance, error) {
	entries, err := parseEntries(in.Tree, false)
	if err != nil {
		return instance.Instance{}, err
	}
	if len(entries) == 0 {
		return instance.Instance{}, errors.New(errors.ErrCodeEmptyInput, "tree cannot be empty")
	}

	for i := range entries {
		if len(entries[i].refs) > 2 {
			return instance.Instance{}, errors.New(errors.ErrCodeInvalidTree, "node %q has %d children, a binary tree allows 2", entries[i].id, len(entries[i].refs)).WithField(entries[i].id)
		}
		for j := range entries[i].refs {
			if absent(entries[i].refs[j].id) {
				entries[i].refs[j].id = ""
			}
		}
	}

	nodes, err := declared(entries)
	if err != nil {
		return instance.Instance{}, err
	}
	if err := checkReferences(entries, nodes, "child"); err != nil {
		return instance.Instance{}, err
	}

	tn := make([]instance.TreeNode, len(entries))
	for i, e := range entries {
		tn[i] = instance.TreeNode{ID: e.id}
		if len(e.refs) > 0 {
			tn[i].Left = e.refs[0].id
		}
		if len(e.refs) > 1 {
			tn[i].Right = e.refs[1].id
		}
		if tn[i].Left != "" && tn[i].Left == tn[i].Right {
			return instance.Instance{}, errors.New(errors.ErrCodeInvalidTree, "node %q uses %q as both children", e.id, tn[i].Left).WithField(tn[i].Left)
		}
	}

	tree := instance.NewTree(tn)
	root, err := tree.Check()
	if err != nil {
		return instance.Instance{}, err
	}
	if r := strings.TrimSpace(in.Root); r != "" && r != root {
		if !nodes[r] {
			return instance.Instance{}, errors.New(errors.ErrCodeUnknownNode, "root node %q does not exist", r).WithField(r)
		}
		return instance.Instance{}, errors.New(errors.ErrCodeAmbiguousRoot, "declared root %q is a child; the root is %q", r, root).WithField(r)
	}

	return instance.Instance{Tree: tree, Root: root}, nil
}
