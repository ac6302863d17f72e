package cli

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/algotrace/pkg/algo"
	"github.com/matzehuels/algotrace/pkg/errors"
	"github.com/matzehuels/algotrace/pkg/instance"
	"github.com/matzehuels/algotrace/pkg/playback"
	"github.com/matzehuels/algotrace/pkg/trace"
)

// Player styles
var (
	cellStyle     = lipgloss.NewStyle().Padding(0, 1).Border(lipgloss.RoundedBorder()).BorderForeground(colorDim)
	cellCompare   = cellStyle.BorderForeground(colorYellow).Foreground(colorYellow)
	cellSwapped   = cellStyle.BorderForeground(colorRed).Foreground(colorRed)
	cellFound     = cellStyle.BorderForeground(colorGreen).Foreground(colorGreen)
	nodeStyle     = lipgloss.NewStyle().Foreground(colorWhite)
	nodeCurrent   = lipgloss.NewStyle().Foreground(colorCyan).Bold(true).Underline(true)
	narrationText = lipgloss.NewStyle().Foreground(colorWhite).Italic(true)
	phaseStyles   = map[playback.Phase]lipgloss.Style{
		playback.Idle:      lipgloss.NewStyle().Foreground(colorGray),
		playback.Loading:   lipgloss.NewStyle().Foreground(colorCyan),
		playback.Playing:   lipgloss.NewStyle().Foreground(colorGreen).Bold(true),
		playback.Paused:    lipgloss.NewStyle().Foreground(colorYellow),
		playback.Completed: lipgloss.NewStyle().Foreground(colorBlue).Bold(true),
		playback.Error:     lipgloss.NewStyle().Foreground(colorRed).Bold(true),
	}
)

// =============================================================================
// Key bindings
// =============================================================================

type playerKeys struct {
	Toggle key.Binding
	Replay key.Binding
	Quit   key.Binding
}

var defaultPlayerKeys = playerKeys{
	Toggle: key.NewBinding(
		key.WithKeys(" ", "p"),
		key.WithHelp("space/p", "play/pause"),
	),
	Replay: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "replay"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c", "esc"),
		key.WithHelp("q", "quit"),
	),
}

func (k playerKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Replay, k.Quit}
}

func (k playerKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// =============================================================================
// PlayerModel - interactive playback
// =============================================================================

// updateMsg carries one controller publication into the event loop.
type updateMsg playback.Update

// feedClosedMsg reports that the update subscription ended.
type feedClosedMsg struct{}

// controlMsg carries the result of a controller operation.
type controlMsg struct{ err error }

// playerModel drives a controller from the keyboard. Controller calls run
// inside commands so a blocking fetch never stalls the event loop.
type playerModel struct {
	ctx     context.Context
	ctrl    *playback.Controller
	inst    instance.Instance
	title   string
	updates <-chan playback.Update

	keys     playerKeys
	help     help.Model
	spinner  spinner.Model
	progress progress.Model

	last   playback.Update
	notice string
}

func newPlayerModel(ctx context.Context, ctrl *playback.Controller, inst instance.Instance, updates <-chan playback.Update) playerModel {
	title := inst.Algorithm
	if a, err := algo.Lookup(inst.Algorithm); err == nil {
		title = a.Title
	}
	return playerModel{
		ctx:      ctx,
		ctrl:     ctrl,
		inst:     inst,
		title:    title,
		updates:  updates,
		keys:     defaultPlayerKeys,
		help:     help.New(),
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(styleIconSpinner)),
		progress: progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		last:     playback.Update{Phase: playback.Idle, Index: -1},
	}
}

func (m playerModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, waitForUpdate(m.updates), m.play())
}

func waitForUpdate(ch <-chan playback.Update) tea.Cmd {
	return func() tea.Msg {
		u, ok := <-ch
		if !ok {
			return feedClosedMsg{}
		}
		return updateMsg(u)
	}
}

func (m playerModel) play() tea.Cmd {
	return func() tea.Msg { return controlMsg{m.ctrl.Play(m.ctx, m.inst)} }
}

func (m playerModel) pause() tea.Cmd {
	return func() tea.Msg { return controlMsg{m.ctrl.Pause()} }
}

func (m playerModel) replay() tea.Cmd {
	return func() tea.Msg {
		if err := m.ctrl.Replay(); err != nil {
			return controlMsg{err}
		}
		return controlMsg{m.ctrl.Play(m.ctx, m.inst)}
	}
}

func (m playerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.ctrl.Close()
			return m, tea.Quit
		case key.Matches(msg, m.keys.Toggle):
			m.notice = ""
			if m.ctrl.Phase() == playback.Playing {
				return m, m.pause()
			}
			return m, m.play()
		case key.Matches(msg, m.keys.Replay):
			m.notice = ""
			return m, m.replay()
		}

	case updateMsg:
		m.last = playback.Update(msg)
		return m, waitForUpdate(m.updates)

	case feedClosedMsg:
		return m, tea.Quit

	case controlMsg:
		switch {
		case msg.err == nil, errors.Is(msg.err, errors.ErrCodeStaleSession):
		case errors.Is(msg.err, errors.ErrCodeUnsupported):
			m.notice = "Finished. Press r to replay."
		case errors.IsTransport(msg.err):
			// Shown through the Error update.
		default:
			m.notice = errors.UserMessage(msg.err)
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		if w := msg.Width - 10; w > 10 && w < 80 {
			m.progress.Width = w
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m playerModel) View() string {
	var b strings.Builder
	u := m.last

	b.WriteString(StyleTitle.Render(m.title))
	b.WriteString("  ")
	b.WriteString(phaseStyles[u.Phase].Render(u.Phase.String()))
	if u.Phase == playback.Loading {
		b.WriteString(" " + m.spinner.View())
	}
	b.WriteString("\n\n")

	if u.Frame != nil {
		b.WriteString(renderFrame(u.Frame, m.inst))
		b.WriteString("\n\n")
	}

	narration := u.Narration
	if u.Error != "" {
		narration = u.Error
	}
	if narration != "" {
		b.WriteString(narrationText.Render(narration))
		b.WriteString("\n\n")
	}

	if u.Total > 0 {
		b.WriteString(m.progress.ViewAs(float64(u.Index+1) / float64(u.Total)))
		b.WriteString(StyleDim.Render(fmt.Sprintf("  %d/%d", u.Index+1, u.Total)))
		b.WriteString("\n\n")
	}

	if m.notice != "" {
		b.WriteString(StyleWarning.Render(m.notice))
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(m.keys))
	b.WriteString("\n")
	return b.String()
}

// =============================================================================
// Frame rendering
// =============================================================================

// renderFrame draws array frames as a row of cells with the compared
// elements highlighted, traversal frames as the node list with the current
// node marked, and any other frame as its sorted fields.
func renderFrame(f trace.Frame, inst instance.Instance) string {
	if values, ok := f.Strings(trace.FieldArray); ok {
		return renderCells(f, values)
	}
	if current, ok := currentNode(f); ok && len(inst.Nodes()) > 0 {
		return renderNodes(inst.Nodes(), current)
	}
	return renderFields(f)
}

func renderCells(f trace.Frame, values []string) string {
	marked := map[int]bool{}
	if idx, ok := f.Ints(trace.FieldComparing); ok {
		for _, i := range idx {
			marked[i] = true
		}
	}
	style := cellCompare
	switch {
	case f.Bool(trace.FieldSwapped):
		style = cellSwapped
	case f.Bool(trace.FieldFound):
		style = cellFound
	}

	cells := make([]string, len(values))
	for i, v := range values {
		if marked[i] {
			cells[i] = style.Render(v)
		} else {
			cells[i] = cellStyle.Render(v)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cells...)
}

func currentNode(f trace.Frame) (string, bool) {
	for _, k := range []string{trace.FieldCurrent, trace.FieldNode} {
		if s, ok := f.String(k); ok {
			return s, true
		}
	}
	return "", false
}

func renderNodes(ids []string, current string) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		if id == current {
			parts[i] = nodeCurrent.Render(id)
		} else {
			parts[i] = nodeStyle.Render(id)
		}
	}
	return strings.Join(parts, StyleDim.Render(" · "))
}

func renderFields(f trace.Frame) string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(14)
	lines := make([]string, len(keys))
	for i, k := range keys {
		lines[i] = keyStyle.Render(k) + " " + StyleValue.Render(trace.Format(f[k]))
	}
	return strings.Join(lines, "\n")
}
