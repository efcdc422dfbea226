package hub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Sowmya0137/riskwatch/internal/observability"
	"github.com/Sowmya0137/riskwatch/internal/risk"
	"github.com/Sowmya0137/riskwatch/internal/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSub struct {
	id     string
	fail   error
	block  bool
	panics bool

	mu       sync.Mutex
	received []Message
	attempts int
	closed   int32
}

func (f *fakeSub) ID() string { return f.id }

func (f *fakeSub) Deliver(ctx context.Context, msg Message) error {
	f.mu.Lock()
	f.attempts++
	f.mu.Unlock()
	if f.panics {
		panic("boom")
	}
	if f.block {
		<-ctx.Done()
		return ctx.Err()
	}
	if f.fail != nil {
		return f.fail
	}
	f.mu.Lock()
	f.received = append(f.received, msg)
	f.mu.Unlock()
	return nil
}

func (f *fakeSub) Close() error {
	atomic.AddInt32(&f.closed, 1)
	return nil
}

func (f *fakeSub) messages() []Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Message, len(f.received))
	copy(out, f.received)
	return out
}

func (f *fakeSub) attemptCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.attempts
}

// stubborn ignores its context entirely.
type stubborn struct {
	id      string
	release chan struct{}
}

func (s *stubborn) ID() string { return s.id }
func (s *stubborn) Deliver(context.Context, Message) error {
	<-s.release
	return nil
}

func newTestHub(cfg Config) *Hub {
	return New(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)), nil)
}

func assessment(score int) types.RiskAssessment {
	return types.RiskAssessment{
		Score:  score,
		Level:  risk.Default().Level(score),
		Reason: "test",
	}
}

func TestRegister_Idempotent(t *testing.T) {
	h := newTestHub(Config{})
	s := &fakeSub{id: "a"}
	assert.True(t, h.Register(s))
	assert.False(t, h.Register(s))
	assert.Equal(t, 1, h.ConnectionCount())
	assert.False(t, h.Register(nil))
}

func TestUnregister_Idempotent(t *testing.T) {
	h := newTestHub(Config{})
	s := &fakeSub{id: "a"}
	assert.False(t, h.Unregister(s), "non-member")
	h.Register(s)
	assert.True(t, h.Unregister(s))
	assert.False(t, h.Unregister(s))
	assert.Equal(t, 0, h.ConnectionCount())
	assert.Equal(t, int32(0), atomic.LoadInt32(&s.closed), "caller owns unregistered subscribers")
}

func TestBroadcast_FanOut(t *testing.T) {
	h := newTestHub(Config{})
	subs := make([]*fakeSub, 5)
	for i := range subs {
		subs[i] = &fakeSub{id: fmt.Sprintf("s%d", i)}
		h.Register(subs[i])
	}
	res := h.PublishRiskUpdate(context.Background(), assessment(40))
	assert.Equal(t, Result{Attempted: 5}, res)
	for _, s := range subs {
		assert.Equal(t, 1, s.attemptCount())
		require.Len(t, s.messages(), 1)
		assert.Equal(t, TypeRiskUpdate, s.messages()[0].MessageType())
	}
	assert.Equal(t, 5, h.ConnectionCount())
}

func TestBroadcast_FaultIsolation(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := observability.NewMetrics(reg)
	h := New(Config{}, slog.New(slog.NewTextHandler(io.Discard, nil)), m)

	s1 := &fakeSub{id: "s1"}
	s2 := &fakeSub{id: "s2", fail: errors.New("connection reset")}
	s3 := &fakeSub{id: "s3"}
	for _, s := range []*fakeSub{s1, s2, s3} {
		h.Register(s)
	}
	before := h.ConnectionCount()

	res := h.PublishRiskUpdate(context.Background(), assessment(85))
	assert.Equal(t, Result{Attempted: 3, Failed: 1}, res)
	assert.Len(t, s1.messages(), 1)
	assert.Len(t, s3.messages(), 1)
	assert.Equal(t, before-1, h.ConnectionCount())
	assert.Equal(t, int32(1), atomic.LoadInt32(&s2.closed))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.SubscribersDroppedTotal))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.ConnectionsActive))

	h.PublishRiskUpdate(context.Background(), assessment(10))
	assert.Equal(t, 1, s2.attemptCount(), "removed subscriber gets nothing more")
	assert.Len(t, s1.messages(), 2)
}

func TestBroadcast_PanickingSubscriberIsDropped(t *testing.T) {
	h := newTestHub(Config{})
	ok := &fakeSub{id: "ok"}
	bad := &fakeSub{id: "bad", panics: true}
	h.Register(ok)
	h.Register(bad)

	res := h.PublishStats(context.Background(), types.Stats{TotalScans: 1})
	assert.Equal(t, 1, res.Failed)
	assert.Equal(t, 1, h.ConnectionCount())
	assert.Len(t, ok.messages(), 1)
}

func TestBroadcast_SlowSubscriberBounded(t *testing.T) {
	h := newTestHub(Config{SendTimeout: 50 * time.Millisecond})
	fast := &fakeSub{id: "fast"}
	slow := &fakeSub{id: "slow", block: true}
	stuck := &stubborn{id: "stuck", release: make(chan struct{})}
	defer close(stuck.release)
	h.Register(fast)
	h.Register(slow)
	h.Register(stuck)

	start := time.Now()
	res := h.PublishRiskUpdate(context.Background(), assessment(20))
	assert.Less(t, time.Since(start), 2*time.Second)
	assert.Equal(t, 2, res.Failed)
	assert.Len(t, fast.messages(), 1)
	assert.Equal(t, 1, h.ConnectionCount())
}

func TestBroadcast_CanceledPublisherKeepsSubscribers(t *testing.T) {
	h := newTestHub(Config{SendTimeout: time.Second})
	a, b := &fakeSub{id: "a"}, &fakeSub{id: "b"}
	h.Register(a)
	h.Register(b)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res := h.PublishRiskUpdate(ctx, assessment(50))
	assert.Equal(t, Result{Attempted: 2}, res)
	assert.Equal(t, 2, h.ConnectionCount())
	assert.Len(t, a.messages(), 1)
	assert.Len(t, b.messages(), 1)
	assert.Equal(t, int32(0), atomic.LoadInt32(&a.closed))
}

func TestBroadcast_CanceledPublisherStillBounded(t *testing.T) {
	h := newTestHub(Config{SendTimeout: 50 * time.Millisecond})
	slow := &fakeSub{id: "slow", block: true}
	h.Register(slow)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	start := time.Now()
	res := h.PublishStats(ctx, types.Stats{})
	assert.Less(t, time.Since(start), 2*time.Second)
	assert.Equal(t, 1, res.Failed, "the subscriber's own deadline still drops it")
	assert.Equal(t, 0, h.ConnectionCount())
}

func TestPublishAlert_Threshold(t *testing.T) {
	h := newTestHub(Config{})
	s := &fakeSub{id: "a"}
	h.Register(s)

	_, sent := h.PublishAlert(context.Background(), assessment(69))
	assert.False(t, sent)
	assert.Empty(t, s.messages())

	_, sent = h.PublishAlert(context.Background(), assessment(70))
	require.True(t, sent)
	_, sent = h.PublishAlert(context.Background(), assessment(89))
	require.True(t, sent)
	_, sent = h.PublishAlert(context.Background(), assessment(90))
	require.True(t, sent)

	msgs := s.messages()
	require.Len(t, msgs, 3)
	want := []types.Level{types.LevelHigh, types.LevelHigh, types.LevelCritical}
	for i, m := range msgs {
		alert, ok := m.(CriticalAlert)
		require.True(t, ok)
		assert.Equal(t, want[i], alert.Severity)
		assert.True(t, alert.ActionRequired)
		assert.Equal(t, TypeCriticalAlert, alert.Type)
	}
}

func TestPublishStats_PassesCountersThrough(t *testing.T) {
	h := newTestHub(Config{})
	s := &fakeSub{id: "a"}
	h.Register(s)
	last := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	h.PublishStats(context.Background(), types.Stats{
		TotalScans: 10, AverageRiskScore: 42.5, HighRiskCount: 3, LastScanTime: last,
	})
	msgs := s.messages()
	require.Len(t, msgs, 1)
	u := msgs[0].(StatsUpdate)
	assert.Equal(t, 10, u.TotalScans)
	assert.Equal(t, 42.5, u.AverageRiskScore)
	assert.Equal(t, 3, u.HighRiskCount)
	require.NotNil(t, u.LastScanTime)
	assert.True(t, last.Equal(*u.LastScanTime))
}

func TestRiskUpdate_JSONShape(t *testing.T) {
	a := risk.Default().Evaluate(types.DetectionResult{
		types.CatAadhaar:    {"1234 5678 9012"},
		types.CatEmail:      {"a@b.com"},
		types.CatBankDetail: {"123456789012"},
		types.CatMalware:    {"trojan"},
	})
	a.ContentType = "email"
	b, err := json.Marshal(NewRiskUpdate(a, time.Unix(0, 0).UTC()))
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	for _, k := range []string{"timestamp", "type", "risk_score", "risk_level", "reason", "content_type", "detected_risks", "recommendations"} {
		assert.Contains(t, m, k)
	}
	assert.Equal(t, "risk_update", m["type"])
	assert.Equal(t, float64(85), m["risk_score"])
	assert.Equal(t, "CRITICAL", m["risk_level"])
	assert.Equal(t, "email", m["content_type"])
	recs := m["recommendations"].([]any)
	assert.Equal(t, "CRITICAL: Contact security team immediately", recs[0])
	assert.Equal(t, "Run antivirus scan immediately", recs[1])
}

func TestStatsUpdate_NullLastScan(t *testing.T) {
	b, err := json.Marshal(NewStatsUpdate(types.Stats{}, time.Unix(0, 0)))
	require.NoError(t, err)
	assert.Contains(t, string(b), `"last_scan_time":null`)
}

func TestRiskUpdate_Defaults(t *testing.T) {
	u := NewRiskUpdate(types.RiskAssessment{}, time.Now())
	assert.Equal(t, "Unknown risk", u.Reason)
	assert.Equal(t, "Unknown", u.ContentType)
	assert.NotNil(t, u.DetectedRisks)
}

func TestConcurrentChurn(t *testing.T) {
	h := newTestHub(Config{SendTimeout: 100 * time.Millisecond})
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			s := &fakeSub{id: fmt.Sprintf("c%d", i)}
			if i%3 == 0 {
				s.fail = errors.New("gone")
			}
			h.Register(s)
			if i%2 == 0 {
				h.Unregister(s)
			}
		}(i)
		go func() {
			defer wg.Done()
			h.PublishRiskUpdate(context.Background(), assessment(75))
		}()
	}
	wg.Wait()
	h.PublishRiskUpdate(context.Background(), assessment(75))
	assert.LessOrEqual(t, h.ConnectionCount(), 20)
}

func TestClose_ClosesAll(t *testing.T) {
	h := newTestHub(Config{})
	a, b := &fakeSub{id: "a"}, &fakeSub{id: "b"}
	h.Register(a)
	h.Register(b)
	h.Close()
	assert.Equal(t, 0, h.ConnectionCount())
	assert.Equal(t, int32(1), atomic.LoadInt32(&a.closed))
	assert.Equal(t, int32(1), atomic.LoadInt32(&b.closed))
	assert.Equal(t, Result{}, h.PublishRiskUpdate(context.Background(), assessment(1)))
}
