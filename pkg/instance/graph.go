package instance

// Edge is a directed reference from one node to a neighbor. Weight is zero
// for unweighted graphs.
type Edge struct {
	To     string  `json:"to"`
	Weight float64 `json:"weight,omitempty"`
}

// Node is a declared graph node with its outgoing edges in declaration order.
type Node struct {
	ID    string `json:"id"`
	Edges []Edge `json:"edges"`
}

// Graph is an adjacency structure that preserves declaration order.
type Graph struct {
	Nodes    []Node `json:"nodes"`
	Weighted bool   `json:"weighted,omitempty"`

	index map[string]int
}

// NewGraph builds a graph from nodes in declaration order.
func NewGraph(nodes []Node, weighted bool) *Graph {
	g := &Graph{Nodes: nodes, Weighted: weighted}
	g.reindex()
	return g
}

func (g *Graph) reindex() {
	g.index = make(map[string]int, len(g.Nodes))
	for i, n := range g.Nodes {
		g.index[n.ID] = i
	}
}

// lookup falls back to a scan for values decoded from JSON, which carry no
// index.
func (g *Graph) lookup(id string) (int, bool) {
	if g.index != nil {
		i, ok := g.index[id]
		return i, ok
	}
	for i, n := range g.Nodes {
		if n.ID == id {
			return i, true
		}
	}
	return 0, false
}

// Len returns the number of declared nodes.
func (g *Graph) Len() int { return len(g.Nodes) }

// IDs returns node identifiers in declaration order.
func (g *Graph) IDs() []string {
	ids := make([]string, len(g.Nodes))
	for i, n := range g.Nodes {
		ids[i] = n.ID
	}
	return ids
}

// Has reports whether id is a declared node.
func (g *Graph) Has(id string) bool {
	_, ok := g.lookup(id)
	return ok
}

// Edges returns the outgoing edges of id.
func (g *Graph) Edges(id string) []Edge {
	i, ok := g.lookup(id)
	if !ok {
		return nil
	}
	return g.Nodes[i].Edges
}

// EdgeList returns every edge as (from, edge) pairs in declaration order.
func (g *Graph) EdgeList() [][2]string {
	var out [][2]string
	for _, n := range g.Nodes {
		for _, e := range n.Edges {
			out = append(out, [2]string{n.ID, e.To})
		}
	}
	return out
}
