// Package playback replays a fetched trace as a timed animation under user
// control.
//
// # State Machine
//
// A [Controller] moves through six phases:
//
//	Idle ──play──▶ Loading ──ok──▶ Playing ◀──play──▶ Paused
//	                  │               │
//	                  ├──empty────────┴──last frame──▶ Completed
//	                  └──fail──▶ Error
//
// [Controller.Replay] returns to Idle from every phase and discards the
// fetched trace. Completed and Error are terminal until Replay.
//
// # Ordering
//
// Frames are published to the [Renderer] strictly in sequence order, each
// exactly once. A frame is fully rendered before the next tick is
// scheduled, and at most one tick is outstanding at a time. Every session
// carries a generation number; Replay and Close bump it, so a fetch response
// or timer that belongs to an earlier generation is dropped.
//
// # Suspension Points
//
// [Controller.Play] blocks while the trace is fetched from the [Fetcher],
// bounded by [Options.Timeout]. Ticks run on the [Clock], which defaults to
// the wall clock; tests substitute a manual one.
//
// # Renderers
//
// Render is called with the controller's publication lock held. A renderer
// must not call back into the controller synchronously; interactive front
// ends forward user input from their own goroutine.
package playback
