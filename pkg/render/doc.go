// Package render groups the layout exporters.
//
// The [nodelink] subpackage draws graph and tree instances as node-link
// diagrams. Nodes are pinned to the coordinates computed by the layout
// package, so the exported drawing matches what the player shows.
//
//	dot := nodelink.ToDOT(inst, positions, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(dot)
package render
