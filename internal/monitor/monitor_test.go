package monitor

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Sowmya0137/riskwatch/internal/analyzer"
	"github.com/Sowmya0137/riskwatch/internal/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAnalyzer struct {
	mu   sync.Mutex
	reqs []analyzer.Request
}

func (f *fakeAnalyzer) Analyze(_ context.Context, req analyzer.Request) (analyzer.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reqs = append(f.reqs, req)
	return analyzer.Result{}, nil
}

func (f *fakeAnalyzer) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.reqs)
}

func quietLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestExtractTexts(t *testing.T) {
	cases := []struct {
		name string
		data any
		want []string
	}{
		{"object", map[string]any{"text": "hi"}, []string{"hi"}},
		{"missing", map[string]any{"body": "hi"}, nil},
		{"non-string", map[string]any{"text": 4.0}, nil},
		{"array", []any{map[string]any{"text": "a"}, "junk", map[string]any{"text": "b"}}, []string{"a", "b"}},
		{"scalar", "text", nil},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, ExtractTexts(c.data, "text"))
		})
	}
}

func TestPoll_FeedsAnalyzer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[{"message":"x","body":"I hate this"},{"body":"fine"}]`)
	}))
	defer srv.Close()

	fa := &fakeAnalyzer{}
	m := observability.NewMetrics(prometheus.NewRegistry())
	p := New(Config{URL: srv.URL, TextField: "body", Profile: "pii"}, fa, srv.Client(), quietLogger(), m)
	n, err := p.Poll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	require.Len(t, fa.reqs, 2)
	assert.Equal(t, "I hate this", fa.reqs[0].Text)
	assert.Equal(t, ContentType, fa.reqs[0].ContentType)
	assert.Equal(t, "pii", fa.reqs[0].Profile)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PollsTotal.WithLabelValues("ok")))
}

func TestPoll_Errors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/bad-json" {
			_, _ = io.WriteString(w, "{nope")
			return
		}
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	m := observability.NewMetrics(prometheus.NewRegistry())
	p := New(Config{URL: srv.URL}, &fakeAnalyzer{}, nil, quietLogger(), m)
	_, err := p.Poll(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")

	p = New(Config{URL: srv.URL + "/bad-json"}, &fakeAnalyzer{}, nil, quietLogger(), m)
	_, err = p.Poll(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode response")
	assert.Equal(t, 2.0, testutil.ToFloat64(m.PollsTotal.WithLabelValues("error")))
}

func TestRun_StopsOnCancel(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		_, _ = io.WriteString(w, `{"text":"hello"}`)
	}))
	defer srv.Close()

	fa := &fakeAnalyzer{}
	p := New(Config{URL: srv.URL, Interval: 20 * time.Millisecond}, fa, nil, quietLogger(), nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	assert.Eventually(t, func() bool { return fa.count() >= 2 }, 2*time.Second, 5*time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop")
	}
	assert.GreaterOrEqual(t, atomic.LoadInt32(&hits), int32(2))
}
