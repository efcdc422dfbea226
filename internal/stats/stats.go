// Package stats keeps running totals over evaluated assessments.
package stats

import (
	"sync"

	"github.com/Sowmya0137/riskwatch/internal/types"
)

// Aggregator is safe for concurrent use.
type Aggregator struct {
	mu       sync.Mutex
	total    int
	scoreSum int64
	high     int
	last     types.Stats
}

func New() *Aggregator { return &Aggregator{} }

// IsHighRisk reports whether a counts toward HighRiskCount.
func IsHighRisk(a types.RiskAssessment) bool {
	return a.Level == types.LevelHigh || a.Level == types.LevelCritical
}

// Record adds one assessment and returns the updated snapshot.
func (g *Aggregator) Record(a types.RiskAssessment) types.Stats {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.total++
	g.scoreSum += int64(a.Score)
	if IsHighRisk(a) {
		g.high++
	}
	g.last = types.Stats{
		TotalScans:       g.total,
		AverageRiskScore: float64(g.scoreSum) / float64(g.total),
		HighRiskCount:    g.high,
		LastScanTime:     a.Timestamp,
	}
	return g.last
}

// Snapshot returns the current totals.
func (g *Aggregator) Snapshot() types.Stats {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.last
}
