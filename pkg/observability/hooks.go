// Package observability provides hooks for metrics and tracing.
//
// Libraries in this module emit events through small hook interfaces instead
// of depending on a metrics backend. The defaults are no-ops; the serve
// command registers the Prometheus implementation from [NewPrometheus].
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    m := observability.NewPrometheus(prometheus.DefaultRegisterer)
//	    observability.SetPlaybackHooks(m)
//	    observability.SetCacheHooks(m)
//	    observability.SetHTTPHooks(m)
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Playback().OnFetchStart(ctx, algorithm)
//	// ... fetch the trace ...
//	observability.Playback().OnFetchComplete(ctx, algorithm, frames, duration, err)
//
// Phases are passed as strings so this package stays free of imports from the
// packages it observes.
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Playback Hooks
// =============================================================================

// PlaybackHooks receives events from playback controllers.
type PlaybackHooks interface {
	// Fetch events
	OnFetchStart(ctx context.Context, algorithm string)
	OnFetchComplete(ctx context.Context, algorithm string, frames int, duration time.Duration, err error)

	// OnTransition records a lifecycle phase change.
	OnTransition(ctx context.Context, algorithm, from, to string)

	// OnFrame records a published frame.
	OnFrame(ctx context.Context, algorithm string, index int)

	// OnStale records a fetch response dropped because the session moved on.
	OnStale(ctx context.Context, algorithm string)
}

// =============================================================================
// Session Hooks
// =============================================================================

// SessionHooks receives events from the session registry.
type SessionHooks interface {
	OnSessionCreated(ctx context.Context, algorithm string)
	OnSessionClosed(ctx context.Context, algorithm string, lifetime time.Duration)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from HTTP client operations.
type HTTPHooks interface {
	// OnRequest records an outgoing HTTP request.
	OnRequest(ctx context.Context, method, host, path string)

	// OnResponse records an HTTP response.
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)

	// OnError records an HTTP error (network failure, timeout).
	OnError(ctx context.Context, method, host, path string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPlaybackHooks is a no-op implementation of PlaybackHooks.
type NoopPlaybackHooks struct{}

func (NoopPlaybackHooks) OnFetchStart(context.Context, string)                              {}
func (NoopPlaybackHooks) OnFetchComplete(context.Context, string, int, time.Duration, error) {}
func (NoopPlaybackHooks) OnTransition(context.Context, string, string, string)              {}
func (NoopPlaybackHooks) OnFrame(context.Context, string, int)                              {}
func (NoopPlaybackHooks) OnStale(context.Context, string)                                   {}

// NoopSessionHooks is a no-op implementation of SessionHooks.
type NoopSessionHooks struct{}

func (NoopSessionHooks) OnSessionCreated(context.Context, string)               {}
func (NoopSessionHooks) OnSessionClosed(context.Context, string, time.Duration) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	playbackHooks PlaybackHooks = NoopPlaybackHooks{}
	sessionHooks  SessionHooks  = NoopSessionHooks{}
	cacheHooks    CacheHooks    = NoopCacheHooks{}
	httpHooks     HTTPHooks     = NoopHTTPHooks{}
	hooksMu       sync.RWMutex
)

// SetPlaybackHooks registers custom playback hooks.
// This should be called once at application startup before any session starts.
func SetPlaybackHooks(h PlaybackHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		playbackHooks = h
	}
}

// SetSessionHooks registers custom session hooks.
func SetSessionHooks(h SessionHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		sessionHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks.
// This should be called once at application startup before any HTTP operations.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Playback returns the registered playback hooks.
func Playback() PlaybackHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return playbackHooks
}

// Session returns the registered session hooks.
func Session() SessionHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return sessionHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	playbackHooks = NoopPlaybackHooks{}
	sessionHooks = NoopSessionHooks{}
	cacheHooks = NoopCacheHooks{}
	httpHooks = NoopHTTPHooks{}
}
