// Package instance defines the Problem Instance handed to the trace service.
//
// An [Instance] is the validated, typed input for one algorithm run. It is a
// discriminated union keyed by [Instance.Kind]: array algorithms populate
// Array (and Target for searches), graph algorithms populate Graph with Root
// or Start/End, tree traversals populate Tree, list-like structures populate
// List with the operation parameters, and dynamic programming populates N or
// Coins/Amount.
//
// Graphs and trees preserve declaration order. Order matters twice: the
// circular layout places node i at angle 2*pi*i/N, and request payloads list
// adjacency keys in the order the user declared them.
//
// Instances are constructed by package validate; nothing in this package
// parses text. [Tree.Root] and [Tree.Check] are shared by the validator and
// the tree layout so that both agree on what a well-formed tree is.
package instance
