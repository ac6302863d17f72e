package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
)

// fetchSpinner animates a status line on w while a trace is being fetched
// outside the interactive player. It uses the same frames as the player's
// spinner.
type fetchSpinner struct {
	ctx     context.Context
	w       io.Writer
	message string
	style   spinner.Spinner

	mu      sync.Mutex
	stop    chan struct{}
	stopped chan struct{}
}

// newFetchSpinner creates a stopped spinner. The animation also ends when ctx
// is cancelled.
func newFetchSpinner(ctx context.Context, w io.Writer, message string) *fetchSpinner {
	return &fetchSpinner{ctx: ctx, w: w, message: message, style: spinner.Dot}
}

// Start begins the animation. Calling Start on a running spinner does nothing.
func (s *fetchSpinner) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stop != nil {
		return
	}
	s.stop = make(chan struct{})
	s.stopped = make(chan struct{})
	go s.run(s.stop, s.stopped)
}

func (s *fetchSpinner) run(stop, stopped chan struct{}) {
	defer close(stopped)
	ticker := time.NewTicker(s.style.FPS)
	defer ticker.Stop()

	for i := 0; ; i++ {
		select {
		case <-s.ctx.Done():
			return
		case <-stop:
			return
		case <-ticker.C:
		}
		frame := s.style.Frames[i%len(s.style.Frames)]
		fmt.Fprintf(s.w, "\r%s%s", styleIconSpinner.Render(frame), StyleDim.Render(s.message))
	}
}

// Stop ends the animation and clears the line. Stop may be called on a
// spinner that never started, and more than once.
func (s *fetchSpinner) Stop() {
	s.mu.Lock()
	stop, stopped := s.stop, s.stopped
	s.stop, s.stopped = nil, nil
	s.mu.Unlock()

	if stop == nil {
		return
	}
	close(stop)
	<-stopped
	width := lipgloss.Width(s.style.Frames[0]) + lipgloss.Width(s.message)
	fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", width))
}
