package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Sowmya0137/riskwatch/internal/analyzer"
	"github.com/Sowmya0137/riskwatch/internal/hub"
	"github.com/Sowmya0137/riskwatch/internal/risk"
	"github.com/Sowmya0137/riskwatch/internal/transport"
	"github.com/gin-gonic/gin"
)

// AnalyzeRequest is the POST /analyze body.
type AnalyzeRequest struct {
	Text        string `json:"text"`
	ContentType string `json:"content_type"`
	Profile     string `json:"profile"`
}

// AnalyzeResponse keeps the fields the browser extension reads
// (analyzed_text, score, status) and adds the full assessment.
type AnalyzeResponse struct {
	AnalyzedText    string   `json:"analyzed_text"`
	Score           int      `json:"score"`
	Status          string   `json:"status"`
	RiskLevel       string   `json:"risk_level"`
	Profile         string   `json:"profile"`
	Reason          string   `json:"reason"`
	DetectedRisks   []string `json:"detected_risks"`
	Recommendations []string `json:"recommendations"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleIndex(c *gin.Context) {
	c.String(http.StatusOK, Banner)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "ok",
		"connections": s.hub.ConnectionCount(),
		"profiles":    s.analyzer.Profiles(),
	})
}

func (s *Server) handleAnalyze(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, errorResponse{
				Error: fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit),
			})
			return
		}
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid JSON body: " + err.Error()})
		return
	}
	// The broadcast must finish even if the client hangs up mid-request.
	res, err := s.analyzer.Analyze(context.WithoutCancel(c.Request.Context()), analyzer.Request{
		Text:        req.Text,
		ContentType: req.ContentType,
		Profile:     req.Profile,
	})
	if err != nil {
		if errors.Is(err, risk.ErrUnknownProfile) {
			c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		s.log.Error("analyze failed", "error", err)
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "analysis failed"})
		return
	}
	a := res.Assessment
	detected := make([]string, len(a.DetectedCategories))
	for i, cat := range a.DetectedCategories {
		detected[i] = string(cat)
	}
	c.JSON(http.StatusOK, AnalyzeResponse{
		AnalyzedText:    req.Text,
		Score:           a.Score,
		Status:          string(a.Level),
		RiskLevel:       string(a.Level),
		Profile:         a.Profile,
		Reason:          a.Reason,
		DetectedRisks:   detected,
		Recommendations: risk.Texts(a.Recommendations),
	})
}

func (s *Server) handleStats(c *gin.Context) {
	st := s.analyzer.Stats()
	c.JSON(http.StatusOK, hub.NewStatsUpdate(st, time.Now()))
}

// handleWS registers the connection with the hub for as long as the peer
// stays connected. The first frame is the current stats snapshot.
func (s *Server) handleWS(c *gin.Context) {
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", "error", err, "remote", c.ClientIP())
		return
	}
	sub := transport.NewWSSubscriber(conn)
	s.hub.Register(sub)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hello, helloCancel := context.WithTimeout(ctx, transport.DefaultWriteWait)
	err = sub.Deliver(hello, hub.NewStatsUpdate(s.analyzer.Stats(), time.Now()))
	helloCancel()
	if err != nil {
		s.log.Debug("initial stats not delivered", "subscriber", sub.ID(), "error", err)
	}

	go sub.PingLoop(ctx, s.pingInterval)
	err = sub.ReadLoop(2 * s.pingInterval)
	s.log.Debug("websocket read loop ended", "subscriber", sub.ID(), "error", err)

	s.hub.Unregister(sub)
	_ = sub.Close()
}
