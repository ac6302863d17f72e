// Package pipeline prepares playback sessions for the CLI and the HTTP API.
//
// The pipeline has three stages, run in order:
//
//  1. Validate: parse raw input into a problem instance
//  2. Layout: compute node coordinates for graph and tree instances
//  3. Play: build a playback controller (or a registered session) that
//     fetches the trace for the instance
//
// Layouts can also be exported on their own with [Render].
//
// # Usage
//
//	runner := pipeline.NewRunner(client, cfg.PlaybackOptions, logger)
//	ctrl, res, err := runner.NewController(pipeline.Options{
//	    Algorithm: "bfs",
//	    Input:     validate.Input{Graph: "A: B, C\nB:\nC:", Root: "A"},
//	}, renderer)
//	if err != nil {
//	    return err
//	}
//	err = ctrl.Play(ctx, res.Instance)
package pipeline

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/algotrace/pkg/errors"
	"github.com/matzehuels/algotrace/pkg/instance"
	"github.com/matzehuels/algotrace/pkg/layout"
	"github.com/matzehuels/algotrace/pkg/validate"
)

// Output formats for [Render].
const (
	FormatSVG  = "svg"
	FormatDOT  = "dot"
	FormatJSON = "json"
)

// ValidFormats is the set of layout export formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatDOT:  true,
	FormatJSON: true,
}

// Options describes one pipeline run.
type Options struct {
	Algorithm string         `json:"algorithm"`
	Input     validate.Input `json:"input"`

	// Speed multiplies the playback rate. Zero keeps the configured speed.
	Speed float64 `json:"speed,omitempty"`

	// Logger overrides the runner's logger for this run.
	Logger *log.Logger `json:"-"`
}

// Result holds the prepared instance.
type Result struct {
	Instance instance.Instance `json:"instance"`
	Layout   layout.Map        `json:"layout,omitempty"`
	Stats    Stats             `json:"stats"`
}

// Stats records pipeline timings.
type Stats struct {
	ValidateTime time.Duration `json:"validate_time"`
	LayoutTime   time.Duration `json:"layout_time"`
	Size         int           `json:"size"`
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidParameter, "invalid format: %q (must be one of: svg, dot, json)", format).
			WithField("format")
	}
	return nil
}

func (o *Options) validateAndSetDefaults() error {
	if o.Algorithm == "" {
		return errors.New(errors.ErrCodeInvalidInput, "algorithm is required").WithField("algorithm")
	}
	if o.Speed < 0 {
		return errors.New(errors.ErrCodeInvalidParameter, "speed must be positive").WithField("speed")
	}
	return nil
}
