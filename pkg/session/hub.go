package session

import (
	"sync"

	"github.com/matzehuels/algotrace/pkg/playback"
)

// DefaultBuffer is the per-subscriber update buffer.
const DefaultBuffer = 64

// Hub broadcasts controller updates to subscribers. A subscriber whose
// buffer is full is disconnected rather than allowed to block playback.
type Hub struct {
	mu      sync.Mutex
	buffer  int
	subs    map[chan playback.Update]struct{}
	closed  bool
	dropped int
}

var _ playback.Renderer = (*Hub)(nil)

// NewHub creates a hub with the given per-subscriber buffer size.
func NewHub(buffer int) *Hub {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	return &Hub{buffer: buffer, subs: make(map[chan playback.Update]struct{})}
}

// Subscribe registers a subscriber. The returned channel is closed when the
// subscriber is cancelled, falls behind, or the hub closes.
func (h *Hub) Subscribe() (<-chan playback.Update, func()) {
	ch := make(chan playback.Update, h.buffer)

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			h.removeLocked(ch)
			h.mu.Unlock()
		})
	}
}

// Render delivers u to every subscriber without blocking.
func (h *Hub) Render(u playback.Update) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs {
		select {
		case ch <- u:
		default:
			h.removeLocked(ch)
			h.dropped++
		}
	}
}

// Len returns the number of connected subscribers.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Dropped returns how many subscribers were disconnected for falling behind.
func (h *Hub) Dropped() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.dropped
}

// Close disconnects every subscriber. Later updates are discarded.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for ch := range h.subs {
		h.removeLocked(ch)
	}
}

func (h *Hub) removeLocked(ch chan playback.Update) {
	if _, ok := h.subs[ch]; !ok {
		return
	}
	delete(h.subs, ch)
	close(ch)
}
