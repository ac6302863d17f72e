// Package trace defines the Snapshot Sequence data model.
//
// A [Trace] is the ordered, finite list of [Frame] values that the external
// trace service computes for one problem instance. Frames are loosely typed:
// their field vocabulary depends on the algorithm family, unknown fields are
// carried along untouched, and absent fields mean "not applicable". The typed
// accessors on [Frame] ([Frame.Int], [Frame.Ints], [Frame.Bool], ...) return
// a second ok value instead of failing, so consumers never need to guard
// against missing or oddly typed fields themselves.
//
// # Decoding
//
// Service responses wrap the frames in an object keyed by "arr" or "steps":
//
//	tr, err := trace.Decode(body, "steps")
//
// Scalar elements (tree traversals return bare node identifiers) are
// normalized to single-field frames keyed by [FieldNode]. A missing key or a
// non-array value is reported as MALFORMED_TRACE.
//
// Traces and frames are never mutated after decoding. Code that needs a
// modified frame builds a new one with [Frame.With].
package trace
