package cli

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/algotrace/pkg/algo"
	"github.com/matzehuels/algotrace/pkg/instance"
	"github.com/matzehuels/algotrace/pkg/playback"
	"github.com/matzehuels/algotrace/pkg/session"
	"github.com/matzehuels/algotrace/pkg/trace"
)

func keyPress(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newTestPlayer(t *testing.T) (playerModel, *playback.Controller) {
	t.Helper()
	hub := session.NewHub(playerBuffer)
	t.Cleanup(hub.Close)
	updates, cancel := hub.Subscribe()
	t.Cleanup(cancel)

	ctrl := playback.New(fetcherOf(bubbleFrames(), nil), playback.Options{
		Interval: time.Hour,
		Renderer: hub,
		Logger:   log.New(io.Discard),
	})
	t.Cleanup(func() { ctrl.Close() })
	return newPlayerModel(context.Background(), ctrl, bubbleInstance(), updates), ctrl
}

// receive feeds the next published update into the model.
func receive(t *testing.T, m playerModel) playerModel {
	t.Helper()
	msg := waitForUpdate(m.updates)()
	next, cmd := m.Update(msg)
	require.NotNil(t, cmd)
	return next.(playerModel)
}

func TestPlayerPlaysAndPauses(t *testing.T) {
	m, ctrl := newTestPlayer(t)
	assert.Equal(t, "Bubble Sort", m.title)

	msg := m.play()()
	assert.Equal(t, controlMsg{}, msg)
	assert.Equal(t, playback.Playing, ctrl.Phase())

	m = receive(t, m) // loading
	assert.Equal(t, playback.Loading, m.last.Phase)
	m = receive(t, m) // first frame
	assert.Equal(t, playback.EventFrame, m.last.Event)
	assert.Contains(t, m.View(), "1/2")

	_, cmd := m.Update(keyPress("p"))
	require.NotNil(t, cmd)
	assert.Equal(t, controlMsg{}, cmd())
	assert.Equal(t, playback.Paused, ctrl.Phase())
}

func TestPlayerReplayAndQuit(t *testing.T) {
	m, ctrl := newTestPlayer(t)
	require.NoError(t, ctrl.Play(context.Background(), m.inst))

	_, cmd := m.Update(keyPress("r"))
	require.NotNil(t, cmd)
	assert.Equal(t, controlMsg{}, cmd())
	assert.Equal(t, playback.Playing, ctrl.Phase())

	_, cmd = m.Update(keyPress("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
	assert.Error(t, ctrl.Play(context.Background(), m.inst))
}

func TestPlayerNotices(t *testing.T) {
	m, _ := newTestPlayer(t)

	next, _ := m.Update(controlMsg{err: playback.ErrTerminal})
	assert.Contains(t, next.(playerModel).notice, "replay")

	next, _ = m.Update(controlMsg{err: playback.ErrStaleSession})
	assert.Empty(t, next.(playerModel).notice)

	next, cmd := m.Update(feedClosedMsg{})
	assert.Equal(t, m.title, next.(playerModel).title)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestRenderFrame(t *testing.T) {
	t.Run("array", func(t *testing.T) {
		out := renderFrame(trace.Frame{"arr": []any{5.0, 3.0, 8.0}, "comparing": []any{0.0, 1.0}}, bubbleInstance())
		assert.Contains(t, out, "5")
		assert.Contains(t, out, "3")
		assert.Contains(t, out, "8")
	})

	t.Run("traversal", func(t *testing.T) {
		inst := instance.Instance{
			Algorithm: "bfs",
			Kind:      algo.KindGraph,
			Graph:     instance.NewGraph([]instance.Node{{ID: "A"}, {ID: "B"}}, false),
		}
		out := renderFrame(trace.Frame{"current": "B"}, inst)
		assert.Contains(t, out, "A")
		assert.Contains(t, out, "B")
	})

	t.Run("fields", func(t *testing.T) {
		out := renderFrame(trace.Frame{"stack": []any{1.0, 2.0}, "action": "push"}, instance.Instance{})
		assert.Less(t, strings.Index(out, "action"), strings.Index(out, "stack"))
		assert.Contains(t, out, "[1, 2]")
	})
}
