package instance

import (
	"sort"
	"strings"

	"github.com/matzehuels/algotrace/pkg/errors"
)

// TreeNode is a binary tree node. Empty Left or Right means the child is
// absent.
type TreeNode struct {
	ID    string `json:"id"`
	Left  string `json:"left,omitempty"`
	Right string `json:"right,omitempty"`
}

// Tree is a binary-tree adjacency structure in declaration order.
type Tree struct {
	Nodes []TreeNode `json:"nodes"`

	index map[string]int
}

// NewTree builds a tree from nodes in declaration order.
func NewTree(nodes []TreeNode) *Tree {
	t := &Tree{Nodes: nodes}
	t.reindex()
	return t
}

func (t *Tree) reindex() {
	t.index = make(map[string]int, len(t.Nodes))
	for i, n := range t.Nodes {
		t.index[n.ID] = i
	}
}

// lookup falls back to a scan for values decoded from JSON, which carry no
// index.
func (t *Tree) lookup(id string) (int, bool) {
	if t.index != nil {
		i, ok := t.index[id]
		return i, ok
	}
	for i, n := range t.Nodes {
		if n.ID == id {
			return i, true
		}
	}
	return 0, false
}

// Len returns the number of declared nodes.
func (t *Tree) Len() int { return len(t.Nodes) }

// IDs returns node identifiers in declaration order.
func (t *Tree) IDs() []string {
	ids := make([]string, len(t.Nodes))
	for i, n := range t.Nodes {
		ids[i] = n.ID
	}
	return ids
}

// Has reports whether id is a declared node.
func (t *Tree) Has(id string) bool {
	_, ok := t.lookup(id)
	return ok
}

// Children returns the left and right child of id. Absent children are "".
func (t *Tree) Children(id string) (left, right string) {
	i, ok := t.lookup(id)
	if !ok {
		return "", ""
	}
	return t.Nodes[i].Left, t.Nodes[i].Right
}

// Root returns the single node that is no other node's child.
//
// Zero candidates (every node is somebody's child, so the structure is
// cyclic) and several candidates (a forest) both return AMBIGUOUS_ROOT.
func (t *Tree) Root() (string, error) {
	if t.Len() == 0 {
		return "", errors.New(errors.ErrCodeEmptyInput, "tree cannot be empty")
	}

	children := make(map[string]bool, len(t.Nodes))
	for _, n := range t.Nodes {
		if n.Left != "" {
			children[n.Left] = true
		}
		if n.Right != "" {
			children[n.Right] = true
		}
	}

	var roots []string
	for _, n := range t.Nodes {
		if !children[n.ID] {
			roots = append(roots, n.ID)
		}
	}

	switch len(roots) {
	case 1:
		return roots[0], nil
	case 0:
		return "", errors.New(errors.ErrCodeAmbiguousRoot, "tree has no root: every node is a child of another node")
	default:
		return "", errors.New(errors.ErrCodeAmbiguousRoot, "tree has %d root candidates: %s", len(roots), strings.Join(roots, ", "))
	}
}

// Walk visits every node reachable from root in pre-order (node, left,
// right), passing its depth. Revisiting a node is reported as INVALID_TREE.
func (t *Tree) Walk(root string, fn func(id string, depth int)) error {
	visited := make(map[string]bool, len(t.Nodes))
	var walk func(id string, depth int) error
	walk = func(id string, depth int) error {
		if visited[id] {
			return errors.New(errors.ErrCodeInvalidTree, "node %q is reached twice: input is not a tree", id).WithField(id)
		}
		visited[id] = true
		fn(id, depth)
		l, r := t.Children(id)
		if l != "" {
			if err := walk(l, depth+1); err != nil {
				return err
			}
		}
		if r != "" {
			if err := walk(r, depth+1); err != nil {
				return err
			}
		}
		return nil
	}
	return walk(root, 0)
}

// Check verifies that the tree has a unique root, that no node is reached
// twice from it, and that every declared node is reachable.
func (t *Tree) Check() (root string, err error) {
	root, err = t.Root()
	if err != nil {
		return "", err
	}

	seen := make(map[string]bool, len(t.Nodes))
	if err := t.Walk(root, func(id string, _ int) { seen[id] = true }); err != nil {
		return "", err
	}

	if len(seen) != len(t.Nodes) {
		var missing []string
		for _, n := range t.Nodes {
			if !seen[n.ID] {
				missing = append(missing, n.ID)
			}
		}
		sort.Strings(missing)
		return "", errors.New(errors.ErrCodeInvalidTree, "nodes unreachable from root %q: %s", root, strings.Join(missing, ", ")).WithField(missing[0])
	}
	return root, nil
}
