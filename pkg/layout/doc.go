// Package layout assigns 2-D coordinates to graph and tree instances.
//
// Layouts are pure: the same instance always yields the same [Map], and
// nothing about the current playback frame (visited nodes, the node under
// the cursor) influences placement. Those are overlays applied by renderers.
//
// # Circular layout
//
// [Circle.Place] puts node i of N at angle 2*pi*i/N on a circle, following
// declaration order. N = 0 yields an empty map.
//
// # Tree layout
//
// [Tree] anchors the root and places each child one vertical step below its
// parent, offset horizontally by a gap that halves at every depth. Placement
// keeps an explicit visited set: reaching a node twice, or finishing with
// declared nodes left unplaced, is a structural error rather than a silently
// incomplete map.
package layout
