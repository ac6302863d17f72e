package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/algotrace/pkg/pipeline"
	"github.com/matzehuels/algotrace/pkg/playback"
	"github.com/matzehuels/algotrace/pkg/session"
)

// playerBuffer is large enough that the player never drops updates while
// the terminal redraws.
const playerBuffer = 1024

// playCommand creates the play command.
func (c *CLI) playCommand() *cobra.Command {
	var (
		input   inputFlags
		speed   float64
		noTUI   bool
		noCache bool
		refresh bool
	)

	cmd := &cobra.Command{
		Use:   "play <algorithm>",
		Short: "Fetch a trace and play it back step by step",
		Long: `Fetch the execution trace of an algorithm from the trace service and
play it back frame by frame, narrating every step.

Keys: space or p to play and pause, r to replay, q to quit.

Use --no-tui to print the narration to stdout instead.`,
		Example: `  algotrace play bubble --array "5, 3, 8, 4, 2"
  algotrace play bfs --graph "A: B, C; B: D; C:; D:" --root A
  algotrace play dijkstra --file graph.yaml --speed 2 --no-tui`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := input.resolve(cmd)
			if err != nil {
				return err
			}
			opts := pipeline.Options{Algorithm: args[0], Input: in, Speed: speed, Logger: c.Logger}
			if noTUI {
				return c.runPlayText(cmd.Context(), cmd.OutOrStdout(), opts, noCache, refresh)
			}
			return c.runPlayTUI(cmd.Context(), opts, noCache, refresh)
		},
	}

	input.register(cmd)
	cmd.Flags().Float64Var(&speed, "speed", 0, "playback speed multiplier (default: config playback.speed)")
	cmd.Flags().BoolVar(&noTUI, "no-tui", false, "print narration lines instead of the interactive player")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the trace cache")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "ignore cached traces and fetch again")

	return cmd
}

// runPlayTUI runs the interactive player until the user quits.
func (c *CLI) runPlayTUI(ctx context.Context, opts pipeline.Options, noCache, refresh bool) error {
	runner, closeRunner, err := c.newRunner(noCache, refresh)
	if err != nil {
		return err
	}
	defer closeRunner()

	hub := session.NewHub(playerBuffer)
	defer hub.Close()
	updates, unsubscribe := hub.Subscribe()
	defer unsubscribe()

	ctrl, res, err := runner.NewController(opts, hub)
	if err != nil {
		return err
	}
	defer ctrl.Close()

	p := tea.NewProgram(newPlayerModel(ctx, ctrl, res.Instance, updates), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("run player: %w", err)
	}
	return nil
}

// runPlayText plays the trace to completion, writing one line per update.
func (c *CLI) runPlayText(ctx context.Context, w io.Writer, opts pipeline.Options, noCache, refresh bool) error {
	runner, closeRunner, err := c.newRunner(noCache, refresh)
	if err != nil {
		return err
	}
	defer closeRunner()

	printer := newNarrationPrinter(w)
	printer.spinner = newFetchSpinner(ctx, os.Stderr, "Fetching trace...")
	ctrl, res, err := runner.NewController(opts, printer)
	if err != nil {
		return err
	}
	defer ctrl.Close()

	return playToEnd(ctx, ctrl, res, printer)
}

func playToEnd(ctx context.Context, ctrl *playback.Controller, res *pipeline.Result, printer *narrationPrinter) error {
	if err := ctrl.Play(ctx, res.Instance); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}

	select {
	case <-printer.done:
		if snap := ctrl.Snapshot(); snap.Err != nil {
			return snap.Err
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// =============================================================================
// Narration printer
// =============================================================================

// narrationPrinter writes updates as plain lines. done is closed once a
// terminal update has been written. When spinner is set it runs on stderr
// while the trace loads.
type narrationPrinter struct {
	mu      sync.Mutex
	w       io.Writer
	done    chan struct{}
	once    sync.Once
	spinner *fetchSpinner
}

func newNarrationPrinter(w io.Writer) *narrationPrinter {
	return &narrationPrinter{w: w, done: make(chan struct{})}
}

func (p *narrationPrinter) Render(u playback.Update) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if u.Event == playback.EventLoading {
		if p.spinner != nil {
			p.spinner.Start()
		} else {
			fmt.Fprintln(p.w, StyleDim.Render(iconInfo+" Loading trace..."))
		}
		return
	}
	if p.spinner != nil {
		p.spinner.Stop()
	}

	switch u.Event {
	case playback.EventFrame:
		counter := StyleNumber.Render(fmt.Sprintf("%3d/%d", u.Index+1, u.Total))
		fmt.Fprintf(p.w, "%s  %s\n", counter, u.Narration)
	case playback.EventPaused:
		fmt.Fprintln(p.w, StyleDim.Render("paused"))
	case playback.EventCompleted:
		fmt.Fprintln(p.w, styleIconSuccess.Render(iconSuccess)+" "+u.Narration)
		p.finish()
	case playback.EventError:
		fmt.Fprintln(p.w, styleIconError.Render(iconError)+" "+u.Error)
		p.finish()
	}
}

func (p *narrationPrinter) finish() {
	p.once.Do(func() { close(p.done) })
}
