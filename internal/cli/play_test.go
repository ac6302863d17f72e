package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/algotrace/pkg/algo"
	"github.com/matzehuels/algotrace/pkg/errors"
	"github.com/matzehuels/algotrace/pkg/instance"
	"github.com/matzehuels/algotrace/pkg/pipeline"
	"github.com/matzehuels/algotrace/pkg/playback"
	"github.com/matzehuels/algotrace/pkg/trace"
)

func bubbleInstance() instance.Instance {
	return instance.Instance{Algorithm: "bubble", Kind: algo.KindArray, Array: []float64{5, 3}}
}

func bubbleFrames() []trace.Frame {
	return []trace.Frame{
		{"arr": []any{5.0, 3.0}, "comparing": []any{0.0, 1.0}},
		{"arr": []any{3.0, 5.0}, "comparing": []any{0.0, 1.0}, "swapped": true},
	}
}

func fetcherOf(frames []trace.Frame, err error) playback.Fetcher {
	return playback.FetcherFunc(func(context.Context, instance.Instance) (trace.Trace, error) {
		if err != nil {
			return trace.Trace{}, err
		}
		return trace.Trace{Algorithm: "bubble", Frames: frames}, nil
	})
}

func TestPlayToEnd(t *testing.T) {
	var buf bytes.Buffer
	printer := newNarrationPrinter(&buf)
	ctrl := playback.New(fetcherOf(bubbleFrames(), nil), playback.Options{
		Interval: time.Millisecond,
		Renderer: printer,
		Logger:   log.New(io.Discard),
	})
	res := &pipeline.Result{Instance: bubbleInstance()}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, playToEnd(ctx, ctrl, res, printer))

	out := buf.String()
	assert.Contains(t, out, "Loading trace")
	assert.Contains(t, out, "1/2")
	assert.Contains(t, out, "2/2")
	assert.Contains(t, out, iconSuccess)
	assert.Equal(t, playback.Completed, ctrl.Phase())
}

func TestPlayToEndFetchError(t *testing.T) {
	var buf bytes.Buffer
	printer := newNarrationPrinter(&buf)
	fetchErr := errors.New(errors.ErrCodeNetwork, "connection refused")
	ctrl := playback.New(fetcherOf(nil, fetchErr), playback.Options{
		Renderer: printer,
		Logger:   log.New(io.Discard),
	})

	err := playToEnd(context.Background(), ctrl, &pipeline.Result{Instance: bubbleInstance()}, printer)
	require.Error(t, err)
	assert.True(t, errors.IsTransport(err))
	assert.Contains(t, buf.String(), iconError)
	assert.Equal(t, playback.Error, ctrl.Phase())
}

func TestNarrationPrinterFinishOnce(t *testing.T) {
	var buf bytes.Buffer
	p := newNarrationPrinter(&buf)

	p.Render(playback.Update{Event: playback.EventCompleted, Narration: "done"})
	p.Render(playback.Update{Event: playback.EventCompleted, Narration: "done"})

	select {
	case <-p.done:
	default:
		t.Fatal("done should be closed after completion")
	}
	assert.Equal(t, 2, strings.Count(buf.String(), "done"))
}

func TestNarrationPrinterSpinsWhileLoading(t *testing.T) {
	var out, status bytes.Buffer
	p := newNarrationPrinter(&out)
	p.spinner = newTestSpinner(context.Background(), &status)

	p.Render(playback.Update{Event: playback.EventLoading, Phase: playback.Loading})
	time.Sleep(20 * time.Millisecond)
	p.Render(playback.Update{Event: playback.EventFrame, Phase: playback.Playing, Index: 0, Total: 2, Narration: "compare 5 and 3"})

	assert.Contains(t, status.String(), "Fetching trace...")
	assert.True(t, strings.HasSuffix(status.String(), "\r"), "status line should be cleared")
	assert.NotContains(t, out.String(), "Loading trace...")
	assert.Contains(t, out.String(), "compare 5 and 3")
}
