package pipeline

import (
	"encoding/json"

	"github.com/matzehuels/algotrace/pkg/errors"
	"github.com/matzehuels/algotrace/pkg/layout"
	"github.com/matzehuels/algotrace/pkg/render/nodelink"
)

// layoutDocument is the JSON export of a layout.
type layoutDocument struct {
	Algorithm string      `json:"algorithm"`
	Nodes     []string    `json:"nodes"`
	Positions layout.Map  `json:"positions"`
	Edges     [][2]string `json:"edges,omitempty"`
}

// Render exports the layout of res in format.
func Render(res *Result, format string, opts nodelink.Options) ([]byte, error) {
	if err := ValidateFormat(format); err != nil {
		return nil, err
	}
	if res.Layout == nil {
		return nil, errors.New(errors.ErrCodeUnsupported, "%s instances have no node layout", res.Instance.Algorithm)
	}

	switch format {
	case FormatDOT:
		return []byte(nodelink.ToDOT(res.Instance, res.Layout, opts)), nil
	case FormatSVG:
		return nodelink.RenderSVG(nodelink.ToDOT(res.Instance, res.Layout, opts))
	default:
		return marshalLayout(res)
	}
}

func marshalLayout(res *Result) ([]byte, error) {
	doc := layoutDocument{
		Algorithm: res.Instance.Algorithm,
		Nodes:     res.Instance.Nodes(),
		Positions: res.Layout,
	}
	switch {
	case res.Instance.Graph != nil:
		doc.Edges = res.Instance.Graph.EdgeList()
	case res.Instance.Tree != nil:
		for _, n := range res.Instance.Tree.Nodes {
			for _, c := range []string{n.Left, n.Right} {
				if c != "" {
					doc.Edges = append(doc.Edges, [2]string{n.ID, c})
				}
			}
		}
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode layout")
	}
	return append(data, '\n'), nil
}
