package riskwatch

import (
	"log/slog"

	"github.com/Sowmya0137/riskwatch/internal/analyzer"
	"github.com/Sowmya0137/riskwatch/internal/cache"
	"github.com/Sowmya0137/riskwatch/internal/config"
	"github.com/Sowmya0137/riskwatch/internal/detectors"
	"github.com/Sowmya0137/riskwatch/internal/hub"
	"github.com/Sowmya0137/riskwatch/internal/observability"
	"github.com/Sowmya0137/riskwatch/internal/risk"
)

func detectorSet(s config.Settings) *detectors.Set {
	return detectors.New(detectors.Options{
		BannedTerms: s.BannedTerms,
		Enable:      detectors.SplitList(s.Enable),
		Disable:     detectors.SplitList(s.Disable),
	})
}

// buildAnalyzer wires the pipeline from settings. h, m and a zero cache
// size are all allowed.
func buildAnalyzer(s config.Settings, h *hub.Hub, m *observability.Metrics, log *slog.Logger) (*analyzer.Analyzer, error) {
	reg, err := risk.NewRegistry(s.Profile, s.Profiles)
	if err != nil {
		return nil, err
	}
	db, err := cache.New(s.CacheSize)
	if err != nil {
		return nil, err
	}
	return analyzer.New(analyzer.Options{
		Detectors: detectorSet(s),
		Registry:  reg,
		Cache:     db,
		Hub:       h,
		Metrics:   m,
		Logger:    log,
	}), nil
}
