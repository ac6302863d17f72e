// Package narrate turns trace frames into one-sentence explanations.
//
// Each algorithm family owns a small set of templates keyed off which fields
// are present or changed on a frame. [For] picks the narrator for an
// instance; the instance supplies context a frame does not carry, such as
// the binary search target or the original array when a frame omits it.
//
//	n := narrate.For(inst)
//	text := n.Narrate(frame, prev) // prev is nil for the first frame
//
// Narration never fails. A frame shape a family does not recognize yields
// [Fallback], and an empty trace is described by [Empty].
package narrate

import (
	"github.com/charmbracelet/log"

	"github.com/matzehuels/algotrace/pkg/algo"
	"github.com/matzehuels/algotrace/pkg/instance"
	"github.com/matzehuels/algotrace/pkg/trace"
)

// Neutral sentences.
const (
	Fallback = "Algorithm step in progress..."
	Empty    = "Nothing to animate: the algorithm produced no steps."
	Ready    = "Click Play to start."
)

// stepFunc narrates one frame given the previous one.
type stepFunc func(cur, prev trace.Frame) string

// Narrator describes the frames of one algorithm run.
type Narrator struct {
	algorithm string
	intro     string
	step      stepFunc
	summary   func(trace.Trace) string
	logger    *log.Logger
}

// WithLogger sets the logger that receives recovered template panics at
// debug level and returns n.
func (n *Narrator) WithLogger(l *log.Logger) *Narrator {
	n.logger = l
	return n
}

func (n *Narrator) recovered(op string, r any) {
	if n.logger != nil {
		n.logger.Debug("narration template panicked", "algorithm", n.algorithm, "op", op, "panic", r)
	}
}

// Algorithm returns the algorithm name the narrator was built for.
func (n *Narrator) Algorithm() string { return n.algorithm }

// Intro returns the sentence shown while the trace is being fetched.
func (n *Narrator) Intro() string {
	if n.intro == "" {
		return Ready
	}
	return n.intro
}

// Narrate describes cur. prev is the previously published frame, or nil.
// The result is never empty.
func (n *Narrator) Narrate(cur, prev trace.Frame) (text string) {
	defer func() {
		if r := recover(); r != nil {
			n.recovered("narrate", r)
			text = Fallback
		}
		if text == "" {
			text = Fallback
		}
	}()
	if n.step == nil || len(cur) == 0 {
		return Fallback
	}
	return n.step(cur, prev)
}

// Summary describes a finished run. It returns "" when the family has no
// completion sentence beyond the last frame's narration.
func (n *Narrator) Summary(t trace.Trace) (text string) {
	defer func() {
		if r := recover(); r != nil {
			n.recovered("summary", r)
			text = ""
		}
	}()
	if t.Empty() {
		return Empty
	}
	if n.summary == nil {
		return ""
	}
	return n.summary(t)
}

// For returns the narrator for inst.Algorithm. Unknown algorithms get a
// narrator that always returns Fallback.
func For(inst instance.Instance) *Narrator {
	build, ok := builders[inst.Algorithm]
	if !ok {
		return &Narrator{algorithm: inst.Algorithm}
	}
	n := build(inst)
	n.algorithm = inst.Algorithm
	if n.intro == "" {
		if a, err := algo.Lookup(inst.Algorithm); err == nil {
			n.intro = "Starting " + a.Title + "..."
		}
	}
	return n
}

var builders = map[string]func(instance.Instance) *Narrator{
	"bubble":         bubble,
	"insertion":      insertion,
	"selection":      selection,
	"quick":          quick,
	"merge":          merge,
	"heap":           heap,
	"binary-search":  binarySearch,
	"bfs":            bfs,
	"dfs":            dfs,
	"dijkstra":       shortestPath,
	"astar":          shortestPath,
	"inorder":        traversal,
	"postorder":      traversal,
	"stack-push":     stackPush,
	"stack-pop":      stackPop,
	"queue-dequeue":  queueDequeue,
	"singly-insert":  listInsert,
	"doubly-insert":  listInsert,
	"singly-reverse": listReverse,
	"doubly-reverse": listReverse,
	"doubly-delete":  listDelete,
	"fibonacci":      dynamic,
	"coin-change":    dynamic,
}
