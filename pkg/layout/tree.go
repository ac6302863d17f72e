package layout

import (
	"sort"
	"strings"

	"github.com/matzehuels/algotrace/pkg/errors"
	"github.com/matzehuels/algotrace/pkg/instance"
)

// Tree places binary tree nodes top-down from an anchor.
type Tree struct {
	X, Y float64 // root anchor
	Gap  float64 // horizontal offset of the root's children
	Step float64 // vertical distance between depths
}

// DefaultTree matches the canvas used by the traversal views.
var DefaultTree = Tree{X: 400, Y: 60, Gap: 160, Step: 80}

// Place lays out t from its discovered root.
func (o Tree) Place(t *instance.Tree) (Map, error) {
	root, err := t.Root()
	if err != nil {
		return nil, err
	}
	return o.PlaceFrom(t, root)
}

// PlaceFrom lays out the subtree reachable from root. Every declared node
// must be reached exactly once.
func (o Tree) PlaceFrom(t *instance.Tree, root string) (Map, error) {
	if !t.Has(root) {
		return nil, errors.New(errors.ErrCodeUnknownNode, "root node %q does not exist", root).WithField(root)
	}

	m := make(Map, t.Len())
	visited := make(map[string]bool, t.Len())

	var place func(id string, p Point, gap float64) error
	place = func(id string, p Point, gap float64) error {
		if !t.Has(id) {
			return errors.New(errors.ErrCodeDanglingReference, "child %q is not defined as a node", id).WithField(id)
		}
		if visited[id] {
			return errors.New(errors.ErrCodeInvalidTree, "node %q is reached twice: input is not a tree", id).WithField(id)
		}
		visited[id] = true
		m[id] = p

		left, right := t.Children(id)
		if left != "" {
			if err := place(left, Point{X: p.X - gap, Y: p.Y + o.Step}, gap/2); err != nil {
				return err
			}
		}
		if right != "" {
			if err := place(right, Point{X: p.X + gap, Y: p.Y + o.Step}, gap/2); err != nil {
				return err
			}
		}
		return nil
	}

	if err := place(root, Point{X: o.X, Y: o.Y}, o.Gap); err != nil {
		return nil, err
	}

	if len(m) != t.Len() {
		var missing []string
		for _, id := range t.IDs() {
			if !visited[id] {
				missing = append(missing, id)
			}
		}
		sort.Strings(missing)
		return nil, errors.New(errors.ErrCodeInvalidTree, "nodes unreachable from root %q: %s", root, strings.Join(missing, ", ")).WithField(missing[0])
	}
	return m, nil
}
