package instance

import (
	"bytes"
	"encoding/json"

	"github.com/matzehuels/algotrace/pkg/errors"
)

// field is one key/value pair of an ordered JSON object.
type field struct {
	key string
	val any
}

// object is a JSON object that marshals its keys in insertion order.
type object []field

func (o object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(f.key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(f.val)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Payload builds the trace service request body for the instance, using the
// wire shape the service expects for in.Algorithm.
func Payload(in Instance) ([]byte, error) {
	body, err := payload(in)
	if err != nil {
		return nil, err
	}
	return json.Marshal(body)
}

func payload(in Instance) (object, error) {
	switch in.Algorithm {
	case "bubble", "insertion", "selection", "quick", "merge", "heap":
		arr, err := encodedArray(in.Array)
		if err != nil {
			return nil, err
		}
		return object{{"arr", arr}}, nil

	case "binary-search":
		arr, err := encodedArray(in.Array)
		if err != nil {
			return nil, err
		}
		if in.Target == nil {
			return nil, errors.New(errors.ErrCodeInvalidParameter, "binary search needs a target value").WithField("target")
		}
		return object{{"arr", arr}, {"num", *in.Target}}, nil

	case "bfs", "dfs":
		if in.Graph == nil {
			return nil, missing("graph")
		}
		return object{
			{"adjList", adjacencyList(in.Graph)},
			{"root", in.Root},
			{"num", in.TargetNode},
		}, nil

	case "dijkstra":
		if in.Graph == nil {
			return nil, missing("graph")
		}
		return object{
			{"adj", weightedAdjacency(in.Graph)},
			{"start", in.Start},
			{"end", in.End},
		}, nil

	case "astar":
		if in.Graph == nil {
			return nil, missing("graph")
		}
		return object{
			{"adj", weightedAdjacency(in.Graph)},
			{"start", in.Start},
			{"end", in.End},
			{"heuristic", heuristics(in.Graph, in.Heuristic)},
		}, nil

	case "inorder", "postorder":
		if in.Tree == nil {
			return nil, missing("tree")
		}
		return object{{"adj", treeAdjacency(in.Tree)}}, nil

	case "stack-push":
		return object{{"stack", list(in.List)}, {"push", list(in.Values)}}, nil
	case "stack-pop":
		return object{{"stack", list(in.List)}, {"pop", in.Count}}, nil
	case "queue-dequeue":
		return object{{"queue", list(in.List)}, {"dequeue", make([]int, in.Count)}}, nil

	case "singly-insert", "doubly-insert":
		if in.Value == nil || in.Index == nil {
			return nil, errors.New(errors.ErrCodeInvalidParameter, "insertion needs a value and an index")
		}
		return object{{"arr", list(in.List)}, {"value", *in.Value}, {"index", *in.Index}}, nil
	case "doubly-delete":
		if in.Index == nil {
			return nil, missing("index")
		}
		return object{{"arr", list(in.List)}, {"index", *in.Index}}, nil
	case "singly-reverse", "doubly-reverse":
		return object{{"arr", list(in.List)}}, nil

	case "fibonacci":
		return object{{"n", in.N}}, nil
	case "coin-change":
		return object{{"coins", list(in.Coins)}, {"amount", in.Amount}}, nil
	}
	return nil, errors.New(errors.ErrCodeUnknownAlgorithm, "no request shape for algorithm %q", in.Algorithm).WithField(in.Algorithm)
}

func missing(name string) error {
	return errors.New(errors.ErrCodeInvalidParameter, "instance has no %s", name).WithField(name)
}

// encodedArray renders the array as a JSON string, which is how the sorting
// and searching endpoints receive it.
func encodedArray(a []float64) (string, error) {
	b, err := json.Marshal(list(a))
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "encode array")
	}
	return string(b), nil
}

func list(a []float64) []float64 {
	if a == nil {
		return []float64{}
	}
	return a
}

func adjacencyList(g *Graph) object {
	adj := make(object, 0, g.Len())
	for _, n := range g.Nodes {
		neighbors := make([]string, len(n.Edges))
		for i, e := range n.Edges {
			neighbors[i] = e.To
		}
		adj = append(adj, field{n.ID, neighbors})
	}
	return adj
}

func weightedAdjacency(g *Graph) object {
	adj := make(object, 0, g.Len())
	for _, n := range g.Nodes {
		weights := make(object, 0, len(n.Edges))
		for _, e := range n.Edges {
			weights = append(weights, field{e.To, e.Weight})
		}
		adj = append(adj, field{n.ID, weights})
	}
	return adj
}

func heuristics(g *Graph, h map[string]float64) object {
	out := make(object, 0, g.Len())
	for _, n := range g.Nodes {
		out = append(out, field{n.ID, h[n.ID]})
	}
	return out
}

func treeAdjacency(t *Tree) object {
	adj := make(object, 0, t.Len())
	for _, n := range t.Nodes {
		adj = append(adj, field{n.ID, [2]*string{optional(n.Left), optional(n.Right)}})
	}
	return adj
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
