// Package cli implements the algotrace command-line interface.
//
// This package provides commands for validating problem instances, playing
// back algorithm traces in an interactive terminal player, exporting graph
// and tree layouts, and serving sessions over HTTP. The CLI is built using
// cobra and supports verbose logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - play: Fetch a trace and play it back step by step
//   - validate: Check an instance and print it in normalized form
//   - layout: Export node positions as JSON, DOT or SVG
//   - algorithms: List the algorithm catalog
//   - serve: Run the HTTP and websocket API
//   - cache: Manage the trace cache
//
// # Configuration
//
// Settings are read from $XDG_CONFIG_HOME/algotrace/config.toml, or the file
// named by --config, and can be overridden with ALGOTRACE_* environment
// variables.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging.
package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// The logger writes to w and filters messages at the specified level.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// opProgress tracks the start time of an operation and logs completion with elapsed duration.
// It is safe for sequential use by a single goroutine; concurrent calls to done will race.
type opProgress struct {
	logger *log.Logger
	start  time.Time
}

// newProgress creates a progress tracker that captures the current time as start.
func newProgress(l *log.Logger) *opProgress {
	return &opProgress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// Example output: "Laid out 6 nodes (2ms)"
func (p *opProgress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}
