// Package traceclient fetches traces from the external trace service.
//
// Each algorithm has its own endpoint under the service base URL. The
// client POSTs the instance payload as JSON, decodes the frame array named
// by the catalog and caches the raw response body keyed by algorithm and
// payload. A [Client] satisfies playback.Fetcher.
package traceclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/algotrace/pkg/algo"
	"github.com/matzehuels/algotrace/pkg/buildinfo"
	"github.com/matzehuels/algotrace/pkg/cache"
	"github.com/matzehuels/algotrace/pkg/errors"
	"github.com/matzehuels/algotrace/pkg/httputil"
	"github.com/matzehuels/algotrace/pkg/instance"
	"github.com/matzehuels/algotrace/pkg/observability"
	"github.com/matzehuels/algotrace/pkg/trace"
)

// DefaultBaseURL is where the trace service listens by default.
const DefaultBaseURL = "http://localhost:3000"

const (
	httpTimeout  = 30 * time.Second
	maxBodyBytes = 32 << 20
	keyType      = "trace"
)

// Options configures a [Client]. Zero values select defaults.
type Options struct {
	BaseURL    string
	HTTPClient *http.Client
	Cache      cache.Cache
	TTL        time.Duration
	Retry      httputil.Policy
	Headers    map[string]string
	Logger     *log.Logger

	// Refresh skips cache reads; fresh responses are still written.
	Refresh bool
}

// Client talks to the trace service.
type Client struct {
	base    *url.URL
	http    *http.Client
	cache   cache.Cache
	ttl     time.Duration
	retry   httputil.Policy
	headers map[string]string
	logger  *log.Logger
	refresh bool
}

// New creates a Client. It fails only when BaseURL does not parse.
func New(opts Options) (*Client, error) {
	raw := opts.BaseURL
	if raw == "" {
		raw = DefaultBaseURL
	}
	base, err := url.Parse(strings.TrimRight(raw, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "invalid trace service URL %q", raw).WithField("base_url")
	}

	c := &Client{
		base:    base,
		http:    opts.HTTPClient,
		cache:   opts.Cache,
		ttl:     opts.TTL,
		retry:   opts.Retry,
		headers: opts.Headers,
		logger:  opts.Logger,
		refresh: opts.Refresh,
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: httpTimeout}
	}
	if c.cache == nil {
		c.cache = cache.NewNullCache()
	}
	if c.ttl <= 0 {
		c.ttl = cache.DefaultTTL
	}
	if c.retry.Attempts <= 0 {
		c.retry = httputil.DefaultPolicy
	}
	if c.logger == nil {
		c.logger = log.Default()
	}
	return c, nil
}

// BaseURL returns the service base URL.
func (c *Client) BaseURL() string { return c.base.String() }

// Fetch returns the trace for inst.
func (c *Client) Fetch(ctx context.Context, inst instance.Instance) (trace.Trace, error) {
	a, err := algo.Lookup(inst.Algorithm)
	if err != nil {
		return trace.Trace{}, err
	}
	payload, err := instance.Payload(inst)
	if err != nil {
		return trace.Trace{}, err
	}
	key := cache.TraceKey(a.Name, payload)

	if !c.refresh {
		if t, ok := c.cached(ctx, key, a); ok {
			return t, nil
		}
	}

	var body []byte
	err = c.retry.Do(ctx, func() error {
		b, err := c.post(ctx, a.Endpoint, payload)
		body = b
		return err
	})
	if err != nil {
		return trace.Trace{}, err
	}

	t, err := trace.Decode(body, a.FramesKey)
	if err != nil {
		return trace.Trace{}, err
	}
	t.Algorithm = a.Name

	if err := c.cache.Set(ctx, key, body, c.ttl); err != nil {
		c.logger.Warn("cache write failed", "algorithm", a.Name, "error", err)
	} else {
		observability.Cache().OnCacheSet(ctx, keyType, len(body))
	}
	return t, nil
}

func (c *Client) cached(ctx context.Context, key string, a algo.Algorithm) (trace.Trace, bool) {
	data, hit, err := c.cache.Get(ctx, key)
	if err != nil {
		c.logger.Warn("cache read failed", "algorithm", a.Name, "error", err)
		return trace.Trace{}, false
	}
	if !hit {
		observability.Cache().OnCacheMiss(ctx, keyType)
		return trace.Trace{}, false
	}

	t, err := trace.Decode(data, a.FramesKey)
	if err != nil {
		_ = c.cache.Delete(ctx, key)
		observability.Cache().OnCacheMiss(ctx, keyType)
		return trace.Trace{}, false
	}
	observability.Cache().OnCacheHit(ctx, keyType)
	c.logger.Debug("trace cache hit", "algorithm", a.Name, "frames", t.Len())
	t.Algorithm = a.Name
	return t, true
}

func (c *Client) post(ctx context.Context, endpoint string, payload []byte) ([]byte, error) {
	u := c.base.JoinPath(endpoint)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(payload))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "build request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", buildinfo.UserAgent())
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	hooks := observability.HTTP()
	hooks.OnRequest(ctx, req.Method, u.Host, u.Path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, u.Host, u.Path, err)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, httputil.Retryable(errors.Wrap(errors.ErrCodeNetwork, err, "POST %s", u.Path))
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, req.Method, u.Host, u.Path, resp.StatusCode, time.Since(start))

	if err := checkStatus(resp.StatusCode, u.Path); err != nil {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, err
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, httputil.Retryable(errors.Wrap(errors.ErrCodeNetwork, err, "read response"))
	}
	return body, nil
}

func checkStatus(code int, path string) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusNotFound:
		return errors.New(errors.ErrCodeNetwork, "trace service has no endpoint %s", path)
	case code >= 500:
		return httputil.Retryable(errors.New(errors.ErrCodeNetwork, "trace service error: status %d", code))
	default:
		return errors.New(errors.ErrCodeNetwork, "trace service rejected the request: %s", statusText(code))
	}
}

func statusText(code int) string {
	return fmt.Sprintf("%d %s", code, http.StatusText(code))
}
