package hub

import (
	"time"

	"github.com/Sowmya0137/riskwatch/internal/risk"
	"github.com/Sowmya0137/riskwatch/internal/types"
)

const (
	TypeRiskUpdate    = "risk_update"
	TypeCriticalAlert = "critical_alert"
	TypeStatsUpdate   = "stats_update"
)

// Message is anything the hub can broadcast. Implementations are plain
// records that marshal to JSON with fixed field names.
type Message interface {
	MessageType() string
}

// RiskUpdate carries one assessment.
type RiskUpdate struct {
	Timestamp       time.Time   `json:"timestamp"`
	Type            string      `json:"type"`
	RiskScore       int         `json:"risk_score"`
	RiskLevel       types.Level `json:"risk_level"`
	Reason          string      `json:"reason"`
	ContentType     string      `json:"content_type"`
	DetectedRisks   []string    `json:"detected_risks"`
	Recommendations []string    `json:"recommendations"`
}

func (RiskUpdate) MessageType() string { return TypeRiskUpdate }

// CriticalAlert is emitted for assessments at or above the alert threshold.
type CriticalAlert struct {
	Timestamp      time.Time   `json:"timestamp"`
	Type           string      `json:"type"`
	Severity       types.Level `json:"severity"`
	RiskScore      int         `json:"risk_score"`
	Reason         string      `json:"reason"`
	ActionRequired bool        `json:"action_required"`
}

func (CriticalAlert) MessageType() string { return TypeCriticalAlert }

// StatsUpdate carries aggregate counters computed elsewhere.
type StatsUpdate struct {
	Timestamp        time.Time  `json:"timestamp"`
	Type             string     `json:"type"`
	TotalScans       int        `json:"total_scans"`
	AverageRiskScore float64    `json:"average_risk_score"`
	HighRiskCount    int        `json:"high_risk_count"`
	LastScanTime     *time.Time `json:"last_scan_time"`
}

func (StatsUpdate) MessageType() string { return TypeStatsUpdate }

const (
	defaultReason      = "Unknown risk"
	defaultContentType = "Unknown"
)

// NewRiskUpdate builds the risk_update record for a.
func NewRiskUpdate(a types.RiskAssessment, now time.Time) RiskUpdate {
	reason := a.Reason
	if reason == "" {
		reason = defaultReason
	}
	ct := a.ContentType
	if ct == "" {
		ct = defaultContentType
	}
	detected := make([]string, len(a.DetectedCategories))
	for i, c := range a.DetectedCategories {
		detected[i] = string(c)
	}
	return RiskUpdate{
		Timestamp:       now,
		Type:            TypeRiskUpdate,
		RiskScore:       a.Score,
		RiskLevel:       a.Level,
		Reason:          reason,
		ContentType:     ct,
		DetectedRisks:   detected,
		Recommendations: risk.Texts(a.Recommendations),
	}
}

// NewStatsUpdate builds the stats_update record for s. A zero LastScanTime
// is sent as null.
func NewStatsUpdate(s types.Stats, now time.Time) StatsUpdate {
	u := StatsUpdate{
		Timestamp:        now,
		Type:             TypeStatsUpdate,
		TotalScans:       s.TotalScans,
		AverageRiskScore: s.AverageRiskScore,
		HighRiskCount:    s.HighRiskCount,
	}
	if !s.LastScanTime.IsZero() {
		t := s.LastScanTime
		u.LastScanTime = &t
	}
	return u
}
