package playback

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/algotrace/pkg/algo"
	"github.com/matzehuels/algotrace/pkg/errors"
	"github.com/matzehuels/algotrace/pkg/instance"
	"github.com/matzehuels/algotrace/pkg/narrate"
	"github.com/matzehuels/algotrace/pkg/observability"
	"github.com/matzehuels/algotrace/pkg/trace"
)

// DefaultTimeout bounds a single trace fetch.
const DefaultTimeout = 10 * time.Second

var (
	// ErrStaleSession is returned by Play when the session was replayed or
	// closed while its trace was loading. The response was discarded.
	ErrStaleSession = errors.New(errors.ErrCodeStaleSession, "session was reset while the trace was loading")

	// ErrTerminal is returned by Play from Completed or Error.
	ErrTerminal = errors.New(errors.ErrCodeUnsupported, "session has finished, replay to start over")

	// ErrClosed is returned by every operation after Close.
	ErrClosed = errors.New(errors.ErrCodeSessionNotFound, "session is closed")
)

// Options configures a [Controller]. Zero values select defaults.
type Options struct {
	// Interval overrides the per-algorithm tick interval.
	Interval time.Duration
	// Speed scales the tick interval; 2 plays twice as fast. Values <= 0 mean 1.
	Speed float64
	// Timeout bounds the trace fetch. Defaults to DefaultTimeout.
	Timeout time.Duration

	Renderer Renderer
	Clock    Clock
	Logger   *log.Logger

	// NarratorFor builds the narrator for an instance. Defaults to narrate.For.
	NarratorFor func(instance.Instance) Narrator
}

// Controller owns one playback session. All methods are safe for
// concurrent use.
type Controller struct {
	fetcher     Fetcher
	renderer    Renderer
	clock       Clock
	logger      *log.Logger
	timeout     time.Duration
	interval    time.Duration
	speed       float64
	narratorFor func(instance.Instance) Narrator

	mu        sync.Mutex
	phase     Phase
	algorithm string
	narrator  Narrator
	period    time.Duration
	seq       trace.Trace
	index     int
	prev      trace.Frame
	narration string
	err       error
	gen       uint64
	token     uint64
	timer     Timer
	cancel    context.CancelFunc
	closed    bool

	// pubMu orders publications. It is acquired before mu is released so
	// updates reach the renderer in the order their state was computed.
	pubMu sync.Mutex
}

// New creates an Idle controller that fetches traces with f.
func New(f Fetcher, opts Options) *Controller {
	c := &Controller{
		fetcher:     f,
		renderer:    opts.Renderer,
		clock:       opts.Clock,
		logger:      opts.Logger,
		timeout:     opts.Timeout,
		interval:    opts.Interval,
		speed:       opts.Speed,
		narratorFor: opts.NarratorFor,
		index:       -1,
		narration:   narrate.Ready,
	}
	if c.renderer == nil {
		c.renderer = discard{}
	}
	if c.clock == nil {
		c.clock = WallClock{}
	}
	if c.logger == nil {
		c.logger = log.Default()
	}
	if c.timeout <= 0 {
		c.timeout = DefaultTimeout
	}
	if c.speed <= 0 {
		c.speed = 1
	}
	if c.narratorFor == nil {
		c.narratorFor = func(in instance.Instance) Narrator { return narrate.For(in).WithLogger(c.logger) }
	}
	return c
}

// =============================================================================
// Operations
// =============================================================================

// Play starts or resumes playback.
//
// From Idle it fetches the trace for inst, blocking until the response
// arrives or the timeout expires, then publishes the first frame. From
// Paused it resumes at the stored index without fetching; inst is ignored.
// Play while Loading or Playing does nothing.
func (c *Controller) Play(ctx context.Context, inst instance.Instance) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}

	switch c.phase {
	case Loading, Playing:
		c.mu.Unlock()
		return nil
	case Completed, Error:
		c.mu.Unlock()
		return ErrTerminal
	case Paused:
		c.setPhaseLocked(Playing)
		c.scheduleLocked()
		c.publishUnlock(c.updateLocked(EventResumed))
		return nil
	}

	return c.load(ctx, inst)
}

// load runs the Idle → Loading → Playing path. It is called with mu held
// and returns with it released.
func (c *Controller) load(ctx context.Context, inst instance.Instance) error {
	c.gen++
	gen := c.gen
	c.algorithm = inst.Algorithm
	c.narrator = c.narratorFor(inst)
	c.period = c.intervalFor(inst.Algorithm)

	fctx, cancel := context.WithTimeout(ctx, c.timeout)
	c.cancel = cancel
	c.narration = c.narrator.Intro()
	c.setPhaseLocked(Loading)
	c.publishUnlock(c.updateLocked(EventLoading))

	hooks := observability.Playback()
	hooks.OnFetchStart(ctx, inst.Algorithm)
	start := time.Now()
	t, err := c.fetcher.Fetch(fctx, inst)
	elapsed := time.Since(start)
	deadline := fctx.Err() == context.DeadlineExceeded
	cancel()

	c.mu.Lock()
	if c.gen != gen || c.closed {
		c.mu.Unlock()
		hooks.OnStale(ctx, inst.Algorithm)
		c.logger.Debug("dropped stale trace", "algorithm", inst.Algorithm, "generation", gen)
		return ErrStaleSession
	}
	c.cancel = nil

	if err != nil {
		if ctx.Err() != nil && !deadline {
			// The caller gave up; nothing was shown, so the session is Idle again.
			c.resetLocked()
			c.publishUnlock(c.updateLocked(EventReset))
			return ctx.Err()
		}
		err = classify(err, deadline, c.timeout)
		hooks.OnFetchComplete(ctx, inst.Algorithm, 0, elapsed, err)
		c.logger.Warn("trace fetch failed", "algorithm", inst.Algorithm, "error", err, "duration", elapsed)
		return c.failUnlock(err)
	}

	hooks.OnFetchComplete(ctx, inst.Algorithm, t.Len(), elapsed, nil)
	c.logger.Debug("fetched trace", "algorithm", inst.Algorithm, "frames", t.Len(), "duration", elapsed)

	c.seq = t
	c.index = 0
	if t.Empty() {
		c.narration = c.narrator.Summary(t)
		c.setPhaseLocked(Completed)
		c.publishUnlock(c.updateLocked(EventCompleted))
		return nil
	}

	c.setPhaseLocked(Playing)
	c.advanceUnlock(gen)
	return nil
}

// Pause suspends a playing session. It does nothing in any other phase.
func (c *Controller) Pause() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.phase != Playing {
		c.mu.Unlock()
		return nil
	}
	c.stopLocked()
	c.setPhaseLocked(Paused)
	c.publishUnlock(c.updateLocked(EventPaused))
	return nil
}

// Replay discards the session from any phase and returns to Idle. A pending
// fetch is cancelled and its response ignored; a pending tick never fires.
func (c *Controller) Replay() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	c.gen++
	c.resetLocked()
	c.publishUnlock(c.updateLocked(EventReset))
	return nil
}

// Close ends the session for good. It is safe to call more than once.
func (c *Controller) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	c.gen++
	c.resetLocked()
	return nil
}

// Snapshot returns the current session state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		Algorithm:  c.algorithm,
		Phase:      c.phase,
		Index:      c.index,
		Total:      c.seq.Len(),
		Frame:      c.prev,
		Narration:  c.narration,
		Err:        c.err,
		Generation: c.gen,
	}
}

// Phase returns the current lifecycle phase.
func (c *Controller) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// =============================================================================
// Ticks
// =============================================================================

// scheduleLocked arms the single outstanding tick.
func (c *Controller) scheduleLocked() {
	if c.timer != nil {
		c.timer.Stop()
	}
	c.token++
	gen, token := c.gen, c.token
	c.timer = c.clock.AfterFunc(c.period, func() { c.fire(gen, token) })
}

// stopLocked cancels the pending tick. A timer that already fired but has
// not yet taken the lock is invalidated by the token bump.
func (c *Controller) stopLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.token++
}

func (c *Controller) fire(gen, token uint64) {
	c.mu.Lock()
	if c.gen != gen || c.token != token || c.phase != Playing {
		c.mu.Unlock()
		return
	}
	c.timer = nil
	c.advanceUnlock(gen)
}

// advanceUnlock publishes the frame at the current index, then schedules
// the next tick if the session is still playing. It is called with mu held
// and returns with it released.
func (c *Controller) advanceUnlock(gen uint64) {
	i := c.index
	f := c.seq.Frames[i]
	c.narration = c.narrator.Narrate(f, c.prev)
	c.prev = f
	c.index = i + 1
	observability.Playback().OnFrame(context.Background(), c.algorithm, i)

	updates := []Update{c.updateLocked(EventFrame)}

	done := c.index == c.seq.Len() || f.Bool(trace.FieldUnderflow)
	if done {
		if s := c.narrator.Summary(c.seq); s != "" {
			c.narration = s
		}
		c.setPhaseLocked(Completed)
		updates = append(updates, c.updateLocked(EventCompleted))
	}
	c.publishUnlock(updates...)
	if done {
		return
	}

	c.mu.Lock()
	if c.gen == gen && c.phase == Playing && c.timer == nil {
		c.scheduleLocked()
	}
	c.mu.Unlock()
}

// =============================================================================
// State helpers
// =============================================================================

func (c *Controller) setPhaseLocked(to Phase) {
	from := c.phase
	if !CanTransition(from, to) {
		c.logger.Error("illegal playback transition", "algorithm", c.algorithm, "from", from, "to", to)
		return
	}
	c.phase = to
	if from != to {
		c.logger.Debug("playback transition", "algorithm", c.algorithm, "from", from, "to", to)
		observability.Playback().OnTransition(context.Background(), c.algorithm, from.String(), to.String())
	}
}

// resetLocked discards the session: pending fetch, pending tick and trace.
func (c *Controller) resetLocked() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.stopLocked()
	c.seq = trace.Trace{}
	c.index = -1
	c.prev = nil
	c.err = nil
	c.narration = narrate.Ready
	c.setPhaseLocked(Idle)
}

func (c *Controller) failUnlock(err error) error {
	c.err = err
	c.narration = errors.UserMessage(err)
	c.setPhaseLocked(Error)
	c.publishUnlock(c.updateLocked(EventError))
	return err
}

func (c *Controller) updateLocked(ev Event) Update {
	u := Update{
		Event:      ev,
		Phase:      c.phase,
		Index:      c.index - 1,
		Total:      c.seq.Len(),
		Frame:      c.prev,
		Narration:  c.narration,
		Generation: c.gen,
	}
	if c.index < 0 {
		u.Index = -1
	}
	if c.err != nil {
		u.Error = errors.UserMessage(c.err)
		u.Code = errors.GetCode(c.err)
	}
	return u
}

// publishUnlock hands updates to the renderer in order. It is called with
// mu held and returns with it released.
func (c *Controller) publishUnlock(updates ...Update) {
	c.pubMu.Lock()
	c.mu.Unlock()
	defer c.pubMu.Unlock()
	for _, u := range updates {
		c.renderer.Render(u)
	}
}

func (c *Controller) intervalFor(name string) time.Duration {
	d := c.interval
	if d <= 0 {
		if a, err := algo.Lookup(name); err == nil {
			d = a.Interval
		} else {
			d = time.Second
		}
	}
	return time.Duration(float64(d) / c.speed)
}

// classify turns a fetch failure into a transport *errors.Error.
func classify(err error, deadline bool, timeout time.Duration) error {
	if deadline {
		return errors.Wrap(errors.ErrCodeTimeout, err, "trace service did not respond within %s", timeout)
	}
	if errors.GetCode(err) != "" {
		return err
	}
	return errors.Wrap(errors.ErrCodeNetwork, err, "trace request failed")
}
