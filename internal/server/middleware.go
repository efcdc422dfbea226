package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/Sowmya0137/riskwatch/internal/transport"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func requestLogger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
			"remote", c.ClientIP())
	}
}

// corsMiddleware answers preflight requests and sets the allow headers for
// origins on the allow list so browser extensions can call the API. An
// empty list or "*" allows every origin; requests from other origins get 403.
func corsMiddleware(allowed []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{"Content-Type"},
		MaxAge:       12 * time.Hour,
	}
	if allowsAll(allowed) {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOriginFunc = func(origin string) bool {
			return transport.OriginAllowed(allowed, origin)
		}
	}
	return cors.New(cfg)
}

func allowsAll(allowed []string) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, a := range allowed {
		if a == "*" {
			return true
		}
	}
	return false
}

// limitBody caps request bodies; handlers see *http.MaxBytesError past n.
func limitBody(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		}
		c.Next()
	}
}
