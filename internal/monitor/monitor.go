// Package monitor polls an external JSON endpoint and feeds the text it
// finds into the analyzer.
package monitor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/Sowmya0137/riskwatch/internal/analyzer"
	"github.com/Sowmya0137/riskwatch/internal/observability"
	"golang.org/x/time/rate"
)

const (
	DefaultInterval  = 5 * time.Second
	DefaultTimeout   = 10 * time.Second
	DefaultTextField = "text"

	// ContentType tags assessments produced by the poller.
	ContentType = "monitor"

	maxBody = 4 << 20
)

// Analyzer is the part of *analyzer.Analyzer the poller uses.
type Analyzer interface {
	Analyze(ctx context.Context, req analyzer.Request) (analyzer.Result, error)
}

type Config struct {
	URL       string
	Interval  time.Duration
	Timeout   time.Duration
	TextField string
	// Profile is passed through to the analyzer; empty uses its default.
	Profile string
}

// Poller is started with Run and stops when its context ends.
type Poller struct {
	cfg      Config
	client   *http.Client
	limiter  *rate.Limiter
	analyzer Analyzer
	metrics  *observability.Metrics
	log      *slog.Logger
}

// New returns a poller. client may be nil.
func New(cfg Config, a Analyzer, client *http.Client, logger *slog.Logger, metrics *observability.Metrics) *Poller {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.TextField == "" {
		cfg.TextField = DefaultTextField
	}
	if client == nil {
		client = &http.Client{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Poller{
		cfg:      cfg,
		client:   client,
		limiter:  rate.NewLimiter(rate.Every(cfg.Interval), 1),
		analyzer: a,
		metrics:  metrics,
		log:      logger.With("component", "monitor", "url", cfg.URL),
	}
}

// Run polls until ctx is canceled. Poll failures are logged and the loop
// keeps going; Run itself only returns nil.
func (p *Poller) Run(ctx context.Context) error {
	p.log.Info("monitor started", "interval", p.cfg.Interval)
	for {
		if err := p.limiter.Wait(ctx); err != nil {
			p.log.Info("monitor stopped")
			return nil
		}
		n, err := p.Poll(ctx)
		if err != nil {
			if ctx.Err() != nil {
				p.log.Info("monitor stopped")
				return nil
			}
			p.log.Warn("poll failed", "error", err)
			continue
		}
		p.log.Debug("poll complete", "analyzed", n)
	}
}

// Poll fetches the endpoint once and analyzes every text it carries. It
// returns how many texts were analyzed.
func (p *Poller) Poll(ctx context.Context) (int, error) {
	n, err := p.poll(ctx)
	p.metrics.ObservePoll(err)
	return n, err
}

func (p *Poller) poll(ctx context.Context) (int, error) {
	reqCtx, cancel := context.WithTimeout(ctx, p.cfg.Timeout)
	defer cancel()
	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, p.cfg.URL, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := p.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return 0, fmt.Errorf("unexpected status %s", resp.Status)
	}

	var data any
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBody)).Decode(&data); err != nil {
		return 0, fmt.Errorf("decode response: %w", err)
	}
	p.log.Info("monitor data received", "data", data)

	// Texts already fetched are analyzed and broadcast even if shutdown
	// starts midway.
	actx := context.WithoutCancel(ctx)
	n := 0
	var errs []error
	for _, text := range ExtractTexts(data, p.cfg.TextField) {
		if _, err := p.analyzer.Analyze(actx, analyzer.Request{
			Text:        text,
			ContentType: ContentType,
			Profile:     p.cfg.Profile,
		}); err != nil {
			errs = append(errs, err)
			continue
		}
		n++
	}
	return n, errors.Join(errs...)
}

// ExtractTexts returns the string values of field in data. data may be an
// object or an array of objects; anything else yields nothing.
func ExtractTexts(data any, field string) []string {
	switch v := data.(type) {
	case map[string]any:
		if s, ok := v[field].(string); ok && s != "" {
			return []string{s}
		}
	case []any:
		var out []string
		for _, item := range v {
			out = append(out, ExtractTexts(item, field)...)
		}
		return out
	}
	return nil
}
