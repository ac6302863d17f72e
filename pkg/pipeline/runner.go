package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/algotrace/pkg/instance"
	"github.com/matzehuels/algotrace/pkg/layout"
	"github.com/matzehuels/algotrace/pkg/playback"
	"github.com/matzehuels/algotrace/pkg/session"
	"github.com/matzehuels/algotrace/pkg/validate"
)

// Runner builds controllers and sessions from raw input.
//
// The Runner holds no per-run state. Multiple goroutines can safely use
// the same Runner with different options.
type Runner struct {
	Fetcher  playback.Fetcher
	Playback func(algorithm string) playback.Options
	Logger   *log.Logger
}

// NewRunner creates a runner that fetches traces with f.
// If playbackFor is nil, controllers use the catalog defaults.
func NewRunner(f playback.Fetcher, playbackFor func(string) playback.Options, logger *log.Logger) *Runner {
	if playbackFor == nil {
		playbackFor = func(string) playback.Options { return playback.Options{} }
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Fetcher:  f,
		Playback: playbackFor,
		Logger:   logger,
	}
}

// Prepare runs the validate and layout stages.
func (r *Runner) Prepare(opts Options) (*Result, error) {
	return r.prepare(opts, validate.Validate)
}

// Layout runs the same stages as Prepare but accepts graphs without a root,
// start or end node.
func (r *Runner) Layout(opts Options) (*Result, error) {
	return r.prepare(opts, validate.Structure)
}

func (r *Runner) prepare(opts Options, check func(string, validate.Input) (instance.Instance, error)) (*Result, error) {
	if err := opts.validateAndSetDefaults(); err != nil {
		return nil, err
	}
	logger := r.logger(opts)

	result := &Result{}

	// Stage 1: Validate
	start := time.Now()
	inst, err := check(opts.Algorithm, opts.Input)
	if err != nil {
		logger.Debug("input rejected", "algorithm", opts.Algorithm, "error", err)
		return nil, err
	}
	result.Instance = inst
	result.Stats.ValidateTime = time.Since(start)
	result.Stats.Size = inst.Size()

	logger.Debug("validated input",
		"algorithm", inst.Algorithm,
		"size", result.Stats.Size,
		"duration", result.Stats.ValidateTime)

	// Stage 2: Layout
	start = time.Now()
	positions, err := layout.ForInstance(inst)
	if err != nil {
		return nil, err
	}
	result.Layout = positions
	result.Stats.LayoutTime = time.Since(start)

	if positions != nil {
		logger.Debug("computed layout",
			"nodes", len(positions),
			"duration", result.Stats.LayoutTime)
	}
	return result, nil
}

// NewController prepares opts and returns an Idle controller publishing to
// renderer. Call Play with the result's instance to start.
func (r *Runner) NewController(opts Options, renderer playback.Renderer) (*playback.Controller, *Result, error) {
	res, err := r.Prepare(opts)
	if err != nil {
		return nil, nil, err
	}
	popts := r.playbackOptions(opts, res)
	popts.Renderer = renderer
	return playback.New(r.Fetcher, popts), res, nil
}

// NewSession prepares opts and registers an Idle session in store.
func (r *Runner) NewSession(ctx context.Context, store session.Store, opts Options) (*session.Session, error) {
	res, err := r.Prepare(opts)
	if err != nil {
		return nil, err
	}
	sess := session.New(res.Instance, res.Layout, r.Fetcher, r.playbackOptions(opts, res))
	if err := store.Put(ctx, sess); err != nil {
		sess.Close()
		return nil, err
	}
	r.logger(opts).Info("session created", "id", sess.ID, "algorithm", sess.Algorithm)
	return sess, nil
}

func (r *Runner) playbackOptions(opts Options, res *Result) playback.Options {
	popts := r.Playback(res.Instance.Algorithm)
	if opts.Speed > 0 {
		popts.Speed = opts.Speed
	}
	if popts.Logger == nil {
		popts.Logger = r.Logger
	}
	return popts
}

// logger prefers the per-run logger when one was supplied.
func (r *Runner) logger(opts Options) *log.Logger {
	if opts.Logger != nil {
		return opts.Logger
	}
	return r.Logger
}
