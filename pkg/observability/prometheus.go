package observability

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus implements every hook interface on top of Prometheus collectors.
type Prometheus struct {
	FetchesTotal    *prometheus.CounterVec
	FetchDuration   *prometheus.HistogramVec
	FramesPublished *prometheus.CounterVec
	Transitions     *prometheus.CounterVec
	StaleResponses  *prometheus.CounterVec

	SessionsActive  prometheus.Gauge
	SessionsTotal   *prometheus.CounterVec
	SessionLifetime prometheus.Histogram

	CacheEvents     *prometheus.CounterVec
	CacheWriteBytes prometheus.Histogram

	HTTPRequests    *prometheus.CounterVec
	HTTPDuration    *prometheus.HistogramVec
	HTTPErrorsTotal *prometheus.CounterVec
}

// NewPrometheus registers the algotrace collectors with reg.
func NewPrometheus(reg prometheus.Registerer) *Prometheus {
	f := promauto.With(reg)
	return &Prometheus{
		FetchesTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "algotrace_trace_fetches_total",
			Help: "Trace fetches by algorithm and outcome",
		}, []string{"algorithm", "status"}),
		FetchDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "algotrace_trace_fetch_duration_seconds",
			Help:    "Trace fetch latency in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"algorithm"}),
		FramesPublished: f.NewCounterVec(prometheus.CounterOpts{
			Name: "algotrace_frames_published_total",
			Help: "Frames published to renderers",
		}, []string{"algorithm"}),
		Transitions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "algotrace_playback_transitions_total",
			Help: "Playback phase transitions",
		}, []string{"algorithm", "from", "to"}),
		StaleResponses: f.NewCounterVec(prometheus.CounterOpts{
			Name: "algotrace_stale_responses_total",
			Help: "Fetch responses dropped after the session was reset",
		}, []string{"algorithm"}),
		SessionsActive: f.NewGauge(prometheus.GaugeOpts{
			Name: "algotrace_sessions_active",
			Help: "Playback sessions currently registered",
		}),
		SessionsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "algotrace_sessions_total",
			Help: "Playback sessions created",
		}, []string{"algorithm"}),
		SessionLifetime: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "algotrace_session_lifetime_seconds",
			Help:    "Time between session creation and close",
			Buckets: []float64{1, 10, 60, 300, 900, 3600},
		}),
		CacheEvents: f.NewCounterVec(prometheus.CounterOpts{
			Name: "algotrace_cache_events_total",
			Help: "Cache hits, misses and writes",
		}, []string{"key_type", "event"}),
		CacheWriteBytes: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "algotrace_cache_write_bytes",
			Help:    "Size of cache writes in bytes",
			Buckets: []float64{100, 1000, 10000, 100000, 1000000},
		}),
		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "algotrace_upstream_requests_total",
			Help: "Requests to the trace service",
		}, []string{"method", "host", "status"}),
		HTTPDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "algotrace_upstream_request_duration_seconds",
			Help:    "Trace service latency in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "host"}),
		HTTPErrorsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "algotrace_upstream_errors_total",
			Help: "Trace service transport failures",
		}, []string{"method", "host"}),
	}
}

func (p *Prometheus) OnFetchStart(context.Context, string) {}

func (p *Prometheus) OnFetchComplete(_ context.Context, algorithm string, _ int, d time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	p.FetchesTotal.WithLabelValues(algorithm, status).Inc()
	p.FetchDuration.WithLabelValues(algorithm).Observe(d.Seconds())
}

func (p *Prometheus) OnTransition(_ context.Context, algorithm, from, to string) {
	p.Transitions.WithLabelValues(algorithm, from, to).Inc()
}

func (p *Prometheus) OnFrame(_ context.Context, algorithm string, _ int) {
	p.FramesPublished.WithLabelValues(algorithm).Inc()
}

func (p *Prometheus) OnStale(_ context.Context, algorithm string) {
	p.StaleResponses.WithLabelValues(algorithm).Inc()
}

func (p *Prometheus) OnSessionCreated(_ context.Context, algorithm string) {
	p.SessionsActive.Inc()
	p.SessionsTotal.WithLabelValues(algorithm).Inc()
}

func (p *Prometheus) OnSessionClosed(_ context.Context, _ string, lifetime time.Duration) {
	p.SessionsActive.Dec()
	p.SessionLifetime.Observe(lifetime.Seconds())
}

func (p *Prometheus) OnCacheHit(_ context.Context, keyType string) {
	p.CacheEvents.WithLabelValues(keyType, "hit").Inc()
}

func (p *Prometheus) OnCacheMiss(_ context.Context, keyType string) {
	p.CacheEvents.WithLabelValues(keyType, "miss").Inc()
}

func (p *Prometheus) OnCacheSet(_ context.Context, keyType string, size int) {
	p.CacheEvents.WithLabelValues(keyType, "set").Inc()
	p.CacheWriteBytes.Observe(float64(size))
}

func (p *Prometheus) OnRequest(context.Context, string, string, string) {}

func (p *Prometheus) OnResponse(_ context.Context, method, host, _ string, statusCode int, d time.Duration) {
	p.HTTPRequests.WithLabelValues(method, host, strconv.Itoa(statusCode)).Inc()
	p.HTTPDuration.WithLabelValues(method, host).Observe(d.Seconds())
}

func (p *Prometheus) OnError(_ context.Context, method, host, _ string, _ error) {
	p.HTTPErrorsTotal.WithLabelValues(method, host).Inc()
}

var (
	_ PlaybackHooks = (*Prometheus)(nil)
	_ SessionHooks  = (*Prometheus)(nil)
	_ CacheHooks    = (*Prometheus)(nil)
	_ HTTPHooks     = (*Prometheus)(nil)
)
