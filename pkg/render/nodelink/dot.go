package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/algotrace/pkg/errors"
	"github.com/matzehuels/algotrace/pkg/instance"
	"github.com/matzehuels/algotrace/pkg/layout"
	"github.com/matzehuels/algotrace/pkg/trace"
)

// pointsPerInch converts layout units, which are screen pixels, to the
// inches Graphviz expects for pinned positions.
const pointsPerInch = 72.0

// Options configures node-link diagram export.
type Options struct {
	// Detailed labels tree edges with their side.
	Detailed bool
	// Highlight fills the listed nodes, for example the visited set of a
	// traversal frame.
	Highlight []string
}

// ToDOT converts a graph or tree instance with its layout to DOT. Nodes
// missing from positions are left for Graphviz to place.
func ToDOT(in instance.Instance, positions layout.Map, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=white, fontsize=14, width=0.5, fixedsize=true];\n")
	buf.WriteString("  edge [fontsize=11];\n")
	buf.WriteString("\n")

	marked := make(map[string]bool, len(opts.Highlight))
	for _, id := range opts.Highlight {
		marked[id] = true
	}

	for _, id := range in.Nodes() {
		attrs := []string{fmt.Sprintf("label=%q", id)}
		if p, ok := positions[id]; ok {
			attrs = append(attrs, fmt.Sprintf("pos=%q", pinned(p)))
		}
		if marked[id] {
			attrs = append(attrs, "fillcolor=\"#f6c35b\"")
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", id, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	switch {
	case in.Graph != nil:
		for _, n := range in.Graph.Nodes {
			for _, e := range n.Edges {
				if in.Graph.Weighted {
					fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", n.ID, e.To, trace.Format(e.Weight))
				} else {
					fmt.Fprintf(&buf, "  %q -> %q;\n", n.ID, e.To)
				}
			}
		}
	case in.Tree != nil:
		for _, n := range in.Tree.Nodes {
			writeChild(&buf, n.ID, n.Left, "L", opts.Detailed)
			writeChild(&buf, n.ID, n.Right, "R", opts.Detailed)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func writeChild(buf *bytes.Buffer, parent, child, side string, detailed bool) {
	if child == "" {
		return
	}
	if detailed {
		fmt.Fprintf(buf, "  %q -> %q [label=%q];\n", parent, child, side)
		return
	}
	fmt.Fprintf(buf, "  %q -> %q;\n", parent, child)
}

// pinned formats p as a fixed Graphviz position. Graphviz's y axis points
// up, the layout's points down.
func pinned(p layout.Point) string {
	x := strconv.FormatFloat(p.X/pointsPerInch, 'f', 3, 64)
	y := 0.0
	if p.Y != 0 {
		y = -p.Y / pointsPerInch
	}
	return x + "," + strconv.FormatFloat(y, 'f', 3, 64) + "!"
}

// RenderSVG renders DOT produced by [ToDOT] to SVG.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "init graphviz")
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render SVG")
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's fixed-size root element with one
// that scales to its container.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
