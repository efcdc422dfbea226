// Package server exposes the analyzer and the live feed over HTTP.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/Sowmya0137/riskwatch/internal/analyzer"
	"github.com/Sowmya0137/riskwatch/internal/hub"
	"github.com/Sowmya0137/riskwatch/internal/transport"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	Banner = "RiskWatch backend running"

	shutdownTimeout = 10 * time.Second

	// DefaultMaxBodyBytes bounds POST /analyze bodies.
	DefaultMaxBodyBytes = 2 << 20
)

// Options wires a Server. Analyzer and Hub are required.
type Options struct {
	Analyzer *analyzer.Analyzer
	Hub      *hub.Hub
	// Gatherer backs /metrics. Nil uses the default registry.
	Gatherer       prometheus.Gatherer
	AllowedOrigins []string
	// PingInterval for websocket keepalive. Zero uses the transport default.
	PingInterval time.Duration
	// MaxBodyBytes caps request bodies. Zero uses DefaultMaxBodyBytes.
	MaxBodyBytes int64
	Logger       *slog.Logger
}

// Server owns the gin engine.
type Server struct {
	analyzer     *analyzer.Analyzer
	hub          *hub.Hub
	origins      []string
	upgrader     websocket.Upgrader
	pingInterval time.Duration
	log          *slog.Logger
	engine       *gin.Engine
}

func New(opts Options) *Server {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	ping := opts.PingInterval
	if ping <= 0 {
		ping = transport.DefaultPingInterval
	}
	maxBody := opts.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = DefaultMaxBodyBytes
	}
	gatherer := opts.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	s := &Server{
		analyzer:     opts.Analyzer,
		hub:          opts.Hub,
		origins:      opts.AllowedOrigins,
		upgrader:     transport.NewUpgrader(opts.AllowedOrigins),
		pingInterval: ping,
		log:          log.With("component", "server"),
	}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(s.log), corsMiddleware(s.origins), limitBody(maxBody))
	r.GET("/", s.handleIndex)
	r.GET("/healthz", s.handleHealth)
	r.POST("/analyze", s.handleAnalyze)
	r.GET("/stats", s.handleStats)
	r.GET("/ws", s.handleWS)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	s.engine = r
	return s
}

// Handler returns the HTTP handler for all routes.
func (s *Server) Handler() http.Handler { return s.engine }

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully and closes every live subscriber.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		s.log.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.log.Info("shutting down")
	// Hijacked websocket connections are not tracked by Shutdown.
	s.hub.Close()
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return err
	}
	return nil
}
