package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	// Playback hooks
	p := NoopPlaybackHooks{}
	p.OnFetchStart(ctx, "bubble")
	p.OnFetchComplete(ctx, "bubble", 12, time.Second, nil)
	p.OnTransition(ctx, "bubble", "idle", "loading")
	p.OnFrame(ctx, "bubble", 0)
	p.OnStale(ctx, "bubble")

	// Session hooks
	s := NoopSessionHooks{}
	s.OnSessionCreated(ctx, "bfs")
	s.OnSessionClosed(ctx, "bfs", time.Minute)

	// Cache hooks
	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "trace")
	c.OnCacheMiss(ctx, "trace")
	c.OnCacheSet(ctx, "trace", 1024)

	// HTTP hooks
	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "POST", "localhost:3000", "/sortingalgo/bubblesort")
	h.OnResponse(ctx, "POST", "localhost:3000", "/sortingalgo/bubblesort", 200, time.Second)
	h.OnError(ctx, "POST", "localhost:3000", "/sortingalgo/bubblesort", nil)
}

func TestGlobalHooksRegistry(t *testing.T) {
	// Reset to known state
	Reset()

	// Verify defaults are noop
	if _, ok := Playback().(NoopPlaybackHooks); !ok {
		t.Error("Playback() should return NoopPlaybackHooks by default")
	}
	if _, ok := Session().(NoopSessionHooks); !ok {
		t.Error("Session() should return NoopSessionHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	// Set custom hooks
	customPlayback := &testPlaybackHooks{}
	SetPlaybackHooks(customPlayback)
	if Playback() != customPlayback {
		t.Error("SetPlaybackHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	// Reset and verify
	Reset()
	if _, ok := Playback().(NoopPlaybackHooks); !ok {
		t.Error("Reset() should restore NoopPlaybackHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testPlaybackHooks{}
	SetPlaybackHooks(custom)

	// Setting nil should be ignored
	SetPlaybackHooks(nil)

	if Playback() != custom {
		t.Error("SetPlaybackHooks(nil) should be ignored")
	}

	Reset()
}

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	return m.Counter.GetValue()
}

func TestPrometheusHooks(t *testing.T) {
	p := NewPrometheus(prometheus.NewRegistry())
	ctx := context.Background()

	p.OnFetchComplete(ctx, "bubble", 10, time.Second, nil)
	p.OnFetchComplete(ctx, "bubble", 0, time.Second, errors.New("boom"))
	p.OnFetchComplete(ctx, "bubble", 10, time.Second, nil)
	p.OnFrame(ctx, "bubble", 0)
	p.OnFrame(ctx, "bubble", 1)
	p.OnCacheHit(ctx, "trace")
	p.OnResponse(ctx, "POST", "svc", "/x", 200, time.Millisecond)

	if got := counterValue(t, p.FetchesTotal.WithLabelValues("bubble", "success")); got != 2 {
		t.Errorf("fetch success = %v, want 2", got)
	}
	if got := counterValue(t, p.FetchesTotal.WithLabelValues("bubble", "error")); got != 1 {
		t.Errorf("fetch error = %v, want 1", got)
	}
	if got := counterValue(t, p.FramesPublished.WithLabelValues("bubble")); got != 2 {
		t.Errorf("frames = %v, want 2", got)
	}
	if got := counterValue(t, p.CacheEvents.WithLabelValues("trace", "hit")); got != 1 {
		t.Errorf("cache hits = %v, want 1", got)
	}
	if got := counterValue(t, p.HTTPRequests.WithLabelValues("POST", "svc", "200")); got != 1 {
		t.Errorf("requests = %v, want 1", got)
	}
}

func TestPrometheusSessionGauge(t *testing.T) {
	p := NewPrometheus(prometheus.NewRegistry())
	ctx := context.Background()

	p.OnSessionCreated(ctx, "dfs")
	p.OnSessionCreated(ctx, "dfs")
	p.OnSessionClosed(ctx, "dfs", time.Second)

	var m dto.Metric
	if err := p.SessionsActive.Write(&m); err != nil {
		t.Fatal(err)
	}
	if got := m.Gauge.GetValue(); got != 1 {
		t.Errorf("active sessions = %v, want 1", got)
	}
}

// Test implementations
type testPlaybackHooks struct{ NoopPlaybackHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testHTTPHooks struct{ NoopHTTPHooks }
