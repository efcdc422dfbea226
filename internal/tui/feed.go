package tui

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gorilla/websocket"
)

// Source yields raw feed frames. Next blocks until a frame arrives or the
// feed ends.
type Source interface {
	Next() ([]byte, error)
	Close() error
}

// DialFunc opens a new Source; the model calls it on start and on reconnect.
type DialFunc func() (Source, error)

type wsSource struct {
	conn *websocket.Conn
}

func (s *wsSource) Next() ([]byte, error) {
	for {
		kind, data, err := s.conn.ReadMessage()
		if err != nil {
			return nil, err
		}
		if kind == websocket.TextMessage {
			return data, nil
		}
	}
}

func (s *wsSource) Close() error { return s.conn.Close() }

// WebSocketDialer returns a DialFunc connecting to a server's /ws feed.
func WebSocketDialer(url string, timeout time.Duration) DialFunc {
	return func() (Source, error) {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
		if err != nil {
			return nil, fmt.Errorf("dial %s: %w", url, err)
		}
		return &wsSource{conn: conn}, nil
	}
}

// Event is one decoded feed frame. Fields not carried by a frame's type
// stay zero.
type Event struct {
	Type            string     `json:"type"`
	Timestamp       time.Time  `json:"timestamp"`
	RiskScore       int        `json:"risk_score"`
	RiskLevel       string     `json:"risk_level"`
	Severity        string     `json:"severity"`
	Reason          string     `json:"reason"`
	ContentType     string     `json:"content_type"`
	DetectedRisks   []string   `json:"detected_risks"`
	Recommendations []string   `json:"recommendations"`
	TotalScans      int        `json:"total_scans"`
	AverageScore    float64    `json:"average_risk_score"`
	HighRiskCount   int        `json:"high_risk_count"`
	LastScanTime    *time.Time `json:"last_scan_time"`

	Raw []byte `json:"-"`
}

// ParseEvent decodes a frame and keeps the raw bytes for copying.
func ParseEvent(b []byte) (Event, error) {
	var e Event
	if err := json.Unmarshal(b, &e); err != nil {
		return e, fmt.Errorf("decode frame: %w", err)
	}
	if e.Type == "" {
		return e, fmt.Errorf("decode frame: missing type")
	}
	e.Raw = append([]byte(nil), b...)
	return e, nil
}

// Level is the risk level for updates and the severity for alerts.
func (e Event) Level() string {
	if e.Severity != "" {
		return e.Severity
	}
	return e.RiskLevel
}
