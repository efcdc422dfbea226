// Package analyzer wires detection, evaluation, caching, aggregation and
// broadcasting into the single call the transports use.
package analyzer

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Sowmya0137/riskwatch/internal/cache"
	"github.com/Sowmya0137/riskwatch/internal/detectors"
	"github.com/Sowmya0137/riskwatch/internal/hub"
	"github.com/Sowmya0137/riskwatch/internal/observability"
	"github.com/Sowmya0137/riskwatch/internal/risk"
	"github.com/Sowmya0137/riskwatch/internal/stats"
	"github.com/Sowmya0137/riskwatch/internal/types"
	"golang.org/x/sync/singleflight"
)

// Request is one text to analyze.
type Request struct {
	Text        string
	ContentType string
	// Profile selects the evaluator; empty uses the registry default.
	Profile string
}

// Result is the outcome of Analyze.
type Result struct {
	Assessment types.RiskAssessment
	// Detections is nil when the assessment came from the cache.
	Detections types.DetectionResult
	Cached     bool
}

// Options configures an Analyzer. Only Registry is required.
type Options struct {
	Detectors *detectors.Set
	Registry  *risk.Registry
	Cache     *cache.DB
	Stats     *stats.Aggregator
	Hub       *hub.Hub
	Metrics   *observability.Metrics
	Logger    *slog.Logger
}

// Analyzer is safe for concurrent use.
type Analyzer struct {
	detectors *detectors.Set
	registry  *risk.Registry
	cache     *cache.DB
	stats     *stats.Aggregator
	hub       *hub.Hub
	metrics   *observability.Metrics
	log       *slog.Logger
	now       func() time.Time

	// flight collapses concurrent misses for the same key into one run.
	flight singleflight.Group

	// statsMu orders stats_update broadcasts so total_scans never goes
	// backwards for a subscriber.
	statsMu sync.Mutex
}

func New(opts Options) *Analyzer {
	a := &Analyzer{
		detectors: opts.Detectors,
		registry:  opts.Registry,
		cache:     opts.Cache,
		stats:     opts.Stats,
		hub:       opts.Hub,
		metrics:   opts.Metrics,
		log:       opts.Logger,
		now:       time.Now,
	}
	if a.detectors == nil {
		a.detectors = detectors.Default()
	}
	if a.stats == nil {
		a.stats = stats.New()
	}
	if a.log == nil {
		a.log = slog.Default()
	}
	a.log = a.log.With("component", "analyzer")
	return a
}

// Analyze scores req.Text and broadcasts the outcome. The only error is an
// unknown profile.
func (a *Analyzer) Analyze(ctx context.Context, req Request) (Result, error) {
	ev, err := a.registry.Get(req.Profile)
	if err != nil {
		return Result{}, err
	}

	var res Result
	key := cache.KeyFor(ev.Profile(), req.Text)
	if cached, ok := a.cache.Get(key); ok {
		a.metrics.ObserveCache(true)
		res = Result{Assessment: cached, Cached: true}
	} else {
		if a.cache != nil {
			a.metrics.ObserveCache(false)
		}
		res = a.evaluate(ev, key, req.Text)
	}
	res.Assessment.Timestamp = a.now()
	res.Assessment.ContentType = strings.TrimSpace(req.ContentType)

	as := res.Assessment
	a.metrics.ObserveAnalysis(as.Profile, string(as.Level), as.Score)
	a.log.Debug("text analyzed",
		"profile", as.Profile, "score", as.Score, "level", as.Level,
		"categories", len(as.DetectedCategories), "cached", res.Cached)

	a.stats.Record(as)
	a.publish(ctx, as)
	return res, nil
}

func (a *Analyzer) evaluate(ev *risk.Evaluator, key cache.Key, text string) Result {
	if a.cache == nil {
		det := a.detectors.Run(text)
		return Result{Assessment: ev.Evaluate(det), Detections: det}
	}
	v, _, _ := a.flight.Do(strconv.FormatUint(uint64(key), 16), func() (any, error) {
		det := a.detectors.Run(text)
		r := Result{Assessment: ev.Evaluate(det), Detections: det}
		a.cache.Put(key, r.Assessment)
		return r, nil
	})
	r := v.(Result)
	r.Assessment.DetectedCategories = append([]types.Category(nil), r.Assessment.DetectedCategories...)
	r.Assessment.Recommendations = append([]string(nil), r.Assessment.Recommendations...)
	return r
}

func (a *Analyzer) publish(ctx context.Context, as types.RiskAssessment) {
	if a.hub == nil {
		return
	}
	a.hub.PublishRiskUpdate(ctx, as)
	if _, sent := a.hub.PublishAlert(ctx, as); sent {
		a.log.Info("critical alert broadcast", "score", as.Score, "level", as.Level)
	}
	a.PublishStats(ctx)
}

// PublishStats broadcasts the current aggregate. The snapshot is taken
// under the same lock as the broadcast, so concurrent callers publish
// snapshots in the order they were taken.
func (a *Analyzer) PublishStats(ctx context.Context) hub.Result {
	if a.hub == nil {
		return hub.Result{}
	}
	a.statsMu.Lock()
	defer a.statsMu.Unlock()
	return a.hub.PublishStats(ctx, a.stats.Snapshot())
}

// Stats returns the current aggregate counters.
func (a *Analyzer) Stats() types.Stats { return a.stats.Snapshot() }

// Profiles lists the available evaluator profiles.
func (a *Analyzer) Profiles() []string { return a.registry.Names() }
