package playback

import (
	"context"

	"github.com/matzehuels/algotrace/pkg/errors"
	"github.com/matzehuels/algotrace/pkg/instance"
	"github.com/matzehuels/algotrace/pkg/trace"
)

// Update is one publication to the renderer.
type Update struct {
	Event      Event       `json:"event"`
	Phase      Phase       `json:"phase"`
	Index      int         `json:"index"`
	Total      int         `json:"total"`
	Frame      trace.Frame `json:"frame,omitempty"`
	Narration  string      `json:"narration"`
	Error      string      `json:"error,omitempty"`
	Code       errors.Code `json:"code,omitempty"`
	Generation uint64      `json:"generation"`
}

// Snapshot is a read-only view of the session state.
//
// Index follows the session convention: -1 before a trace is loaded,
// otherwise the number of frames already shown, so Frame is
// Trace[Index-1] once Index > 0.
type Snapshot struct {
	Algorithm  string      `json:"algorithm"`
	Phase      Phase       `json:"phase"`
	Index      int         `json:"index"`
	Total      int         `json:"total"`
	Frame      trace.Frame `json:"frame,omitempty"`
	Narration  string      `json:"narration"`
	Err        error       `json:"-"`
	Generation uint64      `json:"generation"`
}

// Renderer receives published updates.
type Renderer interface {
	Render(Update)
}

// RendererFunc adapts a function to [Renderer].
type RendererFunc func(Update)

func (f RendererFunc) Render(u Update) { f(u) }

type discard struct{}

func (discard) Render(Update) {}

// Fetcher obtains the trace for an instance from the trace service.
type Fetcher interface {
	Fetch(ctx context.Context, inst instance.Instance) (trace.Trace, error)
}

// FetcherFunc adapts a function to [Fetcher].
type FetcherFunc func(ctx context.Context, inst instance.Instance) (trace.Trace, error)

func (f FetcherFunc) Fetch(ctx context.Context, inst instance.Instance) (trace.Trace, error) {
	return f(ctx, inst)
}

// Narrator describes frames. [narrate.Narrator] satisfies it.
type Narrator interface {
	Intro() string
	Narrate(cur, prev trace.Frame) string
	Summary(t trace.Trace) string
}
