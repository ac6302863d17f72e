package pipeline

import (
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/algotrace/pkg/errors"
	"github.com/matzehuels/algotrace/pkg/instance"
	"github.com/matzehuels/algotrace/pkg/playback"
	"github.com/matzehuels/algotrace/pkg/render/nodelink"
	"github.com/matzehuels/algotrace/pkg/session"
	"github.com/matzehuels/algotrace/pkg/trace"
	"github.com/matzehuels/algotrace/pkg/validate"
)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"dot", false},
		{"json", false},
		{"png", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func echoFetcher() playback.Fetcher {
	return playback.FetcherFunc(func(_ context.Context, in instance.Instance) (trace.Trace, error) {
		return trace.Trace{Algorithm: in.Algorithm, Frames: []trace.Frame{{"arr": []any{1.0}}}}, nil
	})
}

func newTestRunner(pb func(string) playback.Options) *Runner {
	return NewRunner(echoFetcher(), pb, log.New(io.Discard))
}

func TestPrepare(t *testing.T) {
	r := newTestRunner(nil)

	res, err := r.Prepare(Options{Algorithm: "bfs", Input: validate.Input{Graph: "A: B, C\nB:\nC:", Root: "A"}})
	require.NoError(t, err)
	assert.Equal(t, "bfs", res.Instance.Algorithm)
	assert.Equal(t, 3, res.Stats.Size)
	assert.Len(t, res.Layout, 3)

	res, err = r.Prepare(Options{Algorithm: "bubble", Input: validate.Input{Array: "3,1,2"}})
	require.NoError(t, err)
	assert.Nil(t, res.Layout, "arrays have no node layout")
}

func TestLayoutWithoutEndpoints(t *testing.T) {
	r := newTestRunner(nil)
	opts := Options{Algorithm: "bfs", Input: validate.Input{Graph: "A: B, C\nB:\nC:"}}

	_, err := r.Prepare(opts)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidParameter), "err = %v", err)

	res, err := r.Layout(opts)
	require.NoError(t, err)
	assert.Len(t, res.Layout, 3)
	assert.Empty(t, res.Instance.Root)

	res, err = r.Layout(Options{Algorithm: "dijkstra", Input: validate.Input{Graph: "S: A:2\nA:"}})
	require.NoError(t, err)
	assert.Len(t, res.Layout, 2)
}

func TestPrepareErrors(t *testing.T) {
	r := newTestRunner(nil)
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"missing algorithm", Options{}, errors.ErrCodeInvalidInput},
		{"unknown algorithm", Options{Algorithm: "bogo"}, errors.ErrCodeUnknownAlgorithm},
		{"negative speed", Options{Algorithm: "bubble", Speed: -1}, errors.ErrCodeInvalidParameter},
		{"bad input", Options{Algorithm: "bubble", Input: validate.Input{Array: "1,x"}}, errors.ErrCodeInvalidNumber},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Prepare(tt.opts)
			assert.Equal(t, tt.code, errors.GetCode(err), "err = %v", err)
		})
	}
}

func TestNewControllerPlays(t *testing.T) {
	var got []playback.Update
	r := newTestRunner(nil)

	ctrl, res, err := r.NewController(Options{Algorithm: "bubble", Input: validate.Input{Array: "2,1"}},
		playback.RendererFunc(func(u playback.Update) { got = append(got, u) }))
	require.NoError(t, err)
	require.NoError(t, ctrl.Play(context.Background(), res.Instance))
	defer ctrl.Close()

	assert.Equal(t, playback.Completed, ctrl.Phase())
	require.Len(t, got, 3)
	assert.Equal(t, playback.EventFrame, got[1].Event)
}

func TestPlaybackOptionsApplied(t *testing.T) {
	var asked string
	r := newTestRunner(func(a string) playback.Options {
		asked = a
		return playback.Options{Interval: time.Second, Speed: 1}
	})

	popts := r.playbackOptions(Options{Speed: 4}, &Result{Instance: instance.Instance{Algorithm: "quick"}})
	assert.Equal(t, "quick", asked)
	assert.Equal(t, 4.0, popts.Speed)
	assert.Equal(t, time.Second, popts.Interval)
	assert.Same(t, r.Logger, popts.Logger)

	popts = r.playbackOptions(Options{}, &Result{Instance: instance.Instance{Algorithm: "quick"}})
	assert.Equal(t, 1.0, popts.Speed, "zero speed keeps the configured one")
}

func TestNewSession(t *testing.T) {
	ctx := context.Background()
	store := session.NewMemoryStore(time.Minute)
	store.SetLogger(log.New(io.Discard))
	r := newTestRunner(nil)

	sess, err := r.NewSession(ctx, store, Options{Algorithm: "inorder", Input: validate.Input{Tree: "1: 2, 3\n2:\n3:"}})
	require.NoError(t, err)
	assert.Equal(t, 1, store.Len())
	assert.Len(t, sess.Layout, 3)

	got, err := store.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Same(t, sess, got)

	_, err = r.NewSession(ctx, store, Options{Algorithm: "inorder", Input: validate.Input{Tree: "1: 2\n2: 1"}})
	assert.Error(t, err)
	assert.Equal(t, 1, store.Len(), "rejected input registers nothing")
}

func TestRender(t *testing.T) {
	r := newTestRunner(nil)
	res, err := r.Prepare(Options{Algorithm: "dijkstra", Input: validate.Input{Graph: "A: B:2\nB: C:1\nC:", Start: "A", End: "C"}})
	require.NoError(t, err)

	dot, err := Render(res, FormatDOT, nodelink.Options{})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(dot), "digraph G {"))
	assert.Contains(t, string(dot), `"A" -> "B" [label="2"];`)

	data, err := Render(res, FormatJSON, nodelink.Options{})
	require.NoError(t, err)
	var doc struct {
		Algorithm string                        `json:"algorithm"`
		Nodes     []string                      `json:"nodes"`
		Positions map[string]map[string]float64 `json:"positions"`
		Edges     [][2]string                   `json:"edges"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "dijkstra", doc.Algorithm)
	assert.Equal(t, []string{"A", "B", "C"}, doc.Nodes)
	assert.Len(t, doc.Positions, 3)
	assert.Equal(t, [][2]string{{"A", "B"}, {"B", "C"}}, doc.Edges)

	_, err = Render(res, "png", nodelink.Options{})
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidParameter))

	arr, err := r.Prepare(Options{Algorithm: "bubble", Input: validate.Input{Array: "1"}})
	require.NoError(t, err)
	_, err = Render(arr, FormatDOT, nodelink.Options{})
	assert.True(t, errors.Is(err, errors.ErrCodeUnsupported))
}
