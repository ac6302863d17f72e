// Package nodelink exports laid-out graph and tree instances as node-link
// diagrams.
//
// # Overview
//
// [ToDOT] writes Graphviz DOT source in which every node carries the
// position computed by the layout engine, pinned with the "!" suffix, so
// an external renderer draws exactly the picture the player shows.
// [RenderSVG] runs the neato engine in-process with positions kept.
//
// # Usage
//
//	positions, err := layout.ForInstance(inst)
//	dot := nodelink.ToDOT(inst, positions, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(dot)
//
// Weighted graphs label each edge with its weight. Tree edges are labelled
// "L" and "R" when [Options].Detailed is set.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering.
package nodelink
