// Package validate turns textual instance descriptions into typed problem
// instances.
//
// [Validate] is the only way an [instance.Instance] is built from user input.
// It either returns a complete instance or a single *errors.Error; it never
// hands a partially constructed instance downstream. Checks run in a fixed
// order and the first failure wins:
//
//  1. numbers parse and arrays have at least one element (INVALID_NUMBER,
//     EMPTY_INPUT)
//  2. every neighbor or child reference names a declared node
//     (DANGLING_REFERENCE, naming the identifier)
//  3. root, start, end and target identifiers exist, and trees have exactly
//     one root (UNKNOWN_NODE, AMBIGUOUS_ROOT, INVALID_TREE)
//  4. edge weights and heuristics parse as numbers (INVALID_WEIGHT)
//
// Operation parameters (pop counts, list indexes, DP bounds) are checked last
// with struct tags via go-playground/validator and reported as
// INVALID_PARAMETER.
//
// # Input formats
//
// Arrays and lists are comma or space separated numbers, optionally wrapped
// in brackets: "5,3,8,4,2" or "[5, 3, 8]".
//
// Graphs are either a JSON object or one declaration per line (or per ';'):
//
//	{"A":["B","C"],"B":[],"C":["A"]}
//	A: B, C
//	B:
//	C: A
//
// Weighted graphs attach weights with ':' in the line form, or use nested
// objects in JSON:
//
//	S: A:2, B:4
//	{"S":{"A":2,"B":4}}
//
// Trees list the left and right child of each node; "-", "null" or an empty
// slot mean absent:
//
//	{"1":["2","3"],"2":[null,null],"3":[null,null]}
//	1: 2, 3
//	2: -, -
//
// Declaration order is preserved in every format.
package validate
