// Package hub fans risk messages out to a dynamic set of subscribers.
//
// The subscriber set is owned by a Hub and only reachable through its
// methods. A broadcast snapshots the set, delivers to every subscriber
// concurrently under a per-send timeout, and removes the subscribers that
// failed once the sweep is over. Delivery errors are logged and never
// returned to publishers.
package hub

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/Sowmya0137/riskwatch/internal/observability"
	"github.com/Sowmya0137/riskwatch/internal/types"
)

// Subscriber is a live recipient. Deliver should honor ctx; the hub stops
// waiting at the deadline either way. If a Subscriber also implements
// io.Closer, the hub closes it once when dropping it after a failure.
type Subscriber interface {
	ID() string
	Deliver(ctx context.Context, msg Message) error
}

// Config tunes delivery and alert filtering.
type Config struct {
	// SendTimeout bounds each delivery attempt.
	SendTimeout time.Duration
	// AlertThreshold is the minimum score that raises a critical_alert.
	AlertThreshold int
	// CriticalThreshold is the minimum score whose alert severity is CRITICAL.
	CriticalThreshold int
}

const (
	DefaultSendTimeout       = 5 * time.Second
	DefaultAlertThreshold    = 70
	DefaultCriticalThreshold = 90
)

func (c Config) withDefaults() Config {
	if c.SendTimeout <= 0 {
		c.SendTimeout = DefaultSendTimeout
	}
	if c.AlertThreshold <= 0 {
		c.AlertThreshold = DefaultAlertThreshold
	}
	if c.CriticalThreshold <= 0 {
		c.CriticalThreshold = DefaultCriticalThreshold
	}
	return c
}

// Result summarizes one broadcast.
type Result struct {
	Attempted int
	Failed    int
}

// Hub is safe for concurrent use.
type Hub struct {
	cfg     Config
	log     *slog.Logger
	metrics *observability.Metrics
	now     func() time.Time

	mu   sync.RWMutex
	subs map[string]Subscriber
}

// New creates an empty hub. logger and metrics may be nil.
func New(cfg Config, logger *slog.Logger, metrics *observability.Metrics) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		cfg:     cfg.withDefaults(),
		log:     logger.With("component", "hub"),
		metrics: metrics,
		now:     time.Now,
		subs:    make(map[string]Subscriber),
	}
}

// Register adds s. Registering an ID that is already present is a no-op
// and returns false.
func (h *Hub) Register(s Subscriber) bool {
	if s == nil {
		return false
	}
	h.mu.Lock()
	if _, ok := h.subs[s.ID()]; ok {
		h.mu.Unlock()
		return false
	}
	h.subs[s.ID()] = s
	n := len(h.subs)
	h.mu.Unlock()

	h.metrics.SetConnections(n)
	h.log.Info("subscriber connected", "subscriber", s.ID(), "connections", n)
	return true
}

// Unregister removes s if present and reports whether it was. The caller
// keeps ownership of s and is responsible for closing it.
func (h *Hub) Unregister(s Subscriber) bool {
	if s == nil {
		return false
	}
	_, n, ok := h.remove(s.ID())
	if !ok {
		return false
	}
	h.metrics.SetConnections(n)
	h.log.Info("subscriber disconnected", "subscriber", s.ID(), "connections", n)
	return true
}

func (h *Hub) remove(id string) (Subscriber, int, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	s, ok := h.subs[id]
	if ok {
		delete(h.subs, id)
	}
	return s, len(h.subs), ok
}

// ConnectionCount returns the number of registered subscribers.
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// PublishRiskUpdate broadcasts a risk_update built from a.
func (h *Hub) PublishRiskUpdate(ctx context.Context, a types.RiskAssessment) Result {
	return h.Broadcast(ctx, NewRiskUpdate(a, h.now()))
}

// PublishAlert broadcasts a critical_alert when a.Score reaches the alert
// threshold. Below it nothing is sent and ok is false.
func (h *Hub) PublishAlert(ctx context.Context, a types.RiskAssessment) (res Result, ok bool) {
	if a.Score < h.cfg.AlertThreshold {
		return Result{}, false
	}
	severity := types.LevelHigh
	if a.Score >= h.cfg.CriticalThreshold {
		severity = types.LevelCritical
	}
	reason := a.Reason
	if reason == "" {
		reason = defaultReason
	}
	return h.Broadcast(ctx, CriticalAlert{
		Timestamp:      h.now(),
		Type:           TypeCriticalAlert,
		Severity:       severity,
		RiskScore:      a.Score,
		Reason:         reason,
		ActionRequired: true,
	}), true
}

// PublishStats broadcasts a stats_update carrying s unchanged.
func (h *Hub) PublishStats(ctx context.Context, s types.Stats) Result {
	return h.Broadcast(ctx, NewStatsUpdate(s, h.now()))
}

type failure struct {
	sub Subscriber
	err error
}

// Broadcast delivers msg to every subscriber registered when it starts.
// It returns once every delivery finished or timed out. Canceling ctx does
// not abort deliveries: each one is bounded by SendTimeout only, so a
// publisher going away never counts against healthy subscribers.
func (h *Hub) Broadcast(ctx context.Context, msg Message) Result {
	if ctx == nil {
		ctx = context.Background()
	}
	subs := h.snapshot()
	if len(subs) == 0 {
		return Result{}
	}
	start := time.Now()
	msgType := msg.MessageType()
	base := context.WithoutCancel(ctx)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		failures []failure
	)
	for _, s := range subs {
		wg.Add(1)
		go func(s Subscriber) {
			defer wg.Done()
			sendCtx, cancel := context.WithTimeout(base, h.cfg.SendTimeout)
			defer cancel()
			err := deliver(sendCtx, s, msg)
			h.metrics.ObserveDelivery(msgType, err)
			if err != nil {
				mu.Lock()
				failures = append(failures, failure{sub: s, err: err})
				mu.Unlock()
			}
		}(s)
	}
	wg.Wait()

	for _, f := range failures {
		h.drop(f.sub, msgType, f.err)
	}
	h.metrics.ObserveBroadcast(msgType, time.Since(start).Seconds())
	return Result{Attempted: len(subs), Failed: len(failures)}
}

func (h *Hub) snapshot() []Subscriber {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]Subscriber, 0, len(h.subs))
	for _, s := range h.subs {
		out = append(out, s)
	}
	return out
}

// drop removes a failed subscriber. Only the call that actually removes it
// closes it, so concurrent broadcasts cannot close a subscriber twice.
func (h *Hub) drop(s Subscriber, msgType string, cause error) {
	cur, n, ok := h.remove(s.ID())
	if !ok {
		return
	}
	h.metrics.ObserveDrop()
	h.metrics.SetConnections(n)
	h.log.Warn("dropping subscriber after failed delivery",
		"subscriber", s.ID(), "type", msgType, "error", cause, "connections", n)
	closeSubscriber(h.log, cur)
}

// Close removes and closes every subscriber. The hub stays usable.
func (h *Hub) Close() {
	h.mu.Lock()
	subs := h.subs
	h.subs = make(map[string]Subscriber)
	h.mu.Unlock()

	h.metrics.SetConnections(0)
	for _, s := range subs {
		closeSubscriber(h.log, s)
	}
}

func closeSubscriber(log *slog.Logger, s Subscriber) {
	c, ok := s.(io.Closer)
	if !ok {
		return
	}
	if err := c.Close(); err != nil {
		log.Debug("subscriber close", "subscriber", s.ID(), "error", err)
	}
}

// ErrPanic wraps a panic raised inside a subscriber's Deliver.
var ErrPanic = errors.New("subscriber panicked")

// deliver runs s.Deliver and gives up at ctx's deadline even if the
// subscriber ignores ctx.
func deliver(ctx context.Context, s Subscriber, msg Message) error {
	done := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- fmt.Errorf("%w: %v", ErrPanic, r)
			}
		}()
		done <- s.Deliver(ctx, msg)
	}()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
