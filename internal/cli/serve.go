package cli

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/matzehuels/algotrace/pkg/observability"
	"github.com/matzehuels/algotrace/pkg/server"
	"github.com/matzehuels/algotrace/pkg/session"
)

// serveCommand creates the serve command running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP and websocket API",
		Long: `Serve validation, layout and playback sessions over HTTP.

Sessions live in memory and expire after server.session_ttl without
activity. Prometheus metrics are exposed on /metrics.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = c.cfg.Server.Addr
			}
			return c.runServe(cmd.Context(), addr, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default: config server.addr)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the trace cache")

	return cmd
}

// janitorInterval is how often expired sessions are swept.
func janitorInterval(ttl time.Duration) time.Duration {
	if d := ttl / 4; d > time.Second {
		return d
	}
	return time.Second
}

func (c *CLI) runServe(ctx context.Context, addr string, noCache bool) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := observability.NewPrometheus(reg)
	observability.SetPlaybackHooks(metrics)
	observability.SetSessionHooks(metrics)
	observability.SetCacheHooks(metrics)
	observability.SetHTTPHooks(metrics)
	defer observability.Reset()

	runner, closeRunner, err := c.newRunner(noCache, false)
	if err != nil {
		return err
	}
	defer closeRunner()

	ttl := c.cfg.Server.SessionTTL
	store := session.NewMemoryStore(ttl)
	store.SetLogger(c.Logger)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go store.Run(ctx, janitorInterval(ttl))

	srv := server.New(server.Options{
		Runner:   runner,
		Store:    store,
		Gatherer: reg,
		Logger:   c.Logger,
	})
	c.Logger.Info("starting server", "addr", addr, "service", c.cfg.Service.BaseURL, "session_ttl", ttl)
	return srv.ListenAndServe(ctx, addr)
}
