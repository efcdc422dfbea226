package riskwatch

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Sowmya0137/riskwatch/internal/analyzer"
	"github.com/Sowmya0137/riskwatch/internal/config"
	"github.com/Sowmya0137/riskwatch/internal/hub"
	"github.com/Sowmya0137/riskwatch/internal/monitor"
	"github.com/Sowmya0137/riskwatch/internal/observability"
	"github.com/Sowmya0137/riskwatch/internal/server"
	"github.com/Sowmya0137/riskwatch/internal/transport"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	flagListen        string
	flagNATSURL       string
	flagMonitorURL    string
	flagStatsInterval time.Duration
	flagSendTimeout   time.Duration
	flagCacheSize     int
)

func init() {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and live feed",
		Long: `Serve POST /analyze, the /ws live feed, /stats and /metrics.

Every analysis is broadcast to connected websocket clients (and to NATS when
configured). A stats_update is also broadcast every --stats-interval.`,
		RunE: runServe,
	}
	rootCmd.AddCommand(cmd)

	cmd.Flags().StringVar(&flagListen, "listen", "", "listen address (default :5000)")
	cmd.Flags().StringVar(&flagNATSURL, "nats-url", "", "also publish the feed to this NATS server")
	cmd.Flags().StringVar(&flagMonitorURL, "monitor-url", "", "poll this URL for JSON and analyze its text field")
	cmd.Flags().DurationVar(&flagStatsInterval, "stats-interval", 0, "broadcast stats this often (default 30s)")
	cmd.Flags().DurationVar(&flagSendTimeout, "send-timeout", 0, "per-subscriber delivery timeout (default 5s)")
	cmd.Flags().IntVar(&flagCacheSize, "cache-size", 0, "assessment cache entries (default 1024)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	s, err := loadSettings()
	if err != nil {
		return err
	}
	s.Listen = pickString(flagListen, s.Listen)
	s.NATSURL = pickString(flagNATSURL, s.NATSURL)
	s.MonitorURL = pickString(flagMonitorURL, s.MonitorURL)
	s.StatsInterval = pickDuration(flagStatsInterval, s.StatsInterval)
	s.SendTimeout = pickDuration(flagSendTimeout, s.SendTimeout)
	s.CacheSize = pickInt(flagCacheSize, s.CacheSize)

	format := s.LogFormat
	if flagJSON {
		format = "json"
	}
	log, err := newLogger(os.Stderr, s.LogLevel, format)
	if err != nil {
		return err
	}
	gin.SetMode(gin.ReleaseMode)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := observability.NewMetrics(reg)

	h := hub.New(hub.Config{
		SendTimeout:       s.SendTimeout,
		AlertThreshold:    s.AlertThreshold,
		CriticalThreshold: s.CriticalThreshold,
	}, log, metrics)
	a, err := buildAnalyzer(s, h, metrics, log)
	if err != nil {
		return err
	}

	if s.NATSURL != "" {
		nc, err := transport.DialNATS(s.NATSURL, log)
		if err != nil {
			return err
		}
		defer func() { _ = nc.Drain() }()
		h.Register(transport.NewNATSSubscriber(nc, s.NATSSubjectPrefix))
	}

	srv := server.New(server.Options{
		Analyzer:       a,
		Hub:            h,
		Gatherer:       reg,
		AllowedOrigins: s.AllowedOrigins,
		Logger:         log,
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error { return srv.ListenAndServe(ctx, s.Listen) })
	if s.StatsInterval > 0 {
		g.Go(func() error {
			broadcastStats(ctx, h, a, s.StatsInterval)
			return nil
		})
	}
	if s.MonitorURL != "" {
		p := monitor.New(monitorConfig(s), a, nil, log, metrics)
		g.Go(func() error { return p.Run(ctx) })
	}

	log.Info("riskwatch serving",
		"version", version, "listen", s.Listen, "profile", s.Profile,
		"monitor", s.MonitorURL != "", "nats", s.NATSURL != "")
	return g.Wait()
}

func monitorConfig(s config.Settings) monitor.Config {
	return monitor.Config{
		URL:       s.MonitorURL,
		Interval:  s.MonitorInterval,
		Timeout:   s.MonitorTimeout,
		TextField: s.MonitorTextField,
	}
}

// broadcastStats pushes the current aggregate on every tick so idle
// dashboards stay fresh.
func broadcastStats(ctx context.Context, h *hub.Hub, a *analyzer.Analyzer, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if h.ConnectionCount() > 0 {
				a.PublishStats(ctx)
			}
		}
	}
}
