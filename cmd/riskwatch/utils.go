package riskwatch

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/Sowmya0137/riskwatch/internal/config"
)

// loadSettings resolves configuration with precedence CLI > local > global.
// An explicit --config file replaces the local lookup.
func loadSettings() (config.Settings, error) {
	var files []config.FileConfig
	if flagConfig != "" {
		c, err := config.LoadFile(flagConfig)
		if err != nil {
			return config.Settings{}, err
		}
		files = append(files, c)
	} else if c, err := config.LoadLocal("."); err == nil {
		files = append(files, c)
	}
	if c, err := config.LoadGlobal(); err == nil {
		files = append(files, c)
	}
	s, err := config.Resolve(files...)
	if err != nil {
		return s, err
	}
	s.Profile = pickString(flagProfile, s.Profile)
	s.LogLevel = pickString(flagLogLevel, s.LogLevel)
	return s, nil
}

func pickString(cli, resolved string) string {
	if cli != "" {
		return cli
	}
	return resolved
}

func pickInt(cli, resolved int) int {
	if cli != 0 {
		return cli
	}
	return resolved
}

func pickDuration(cli, resolved time.Duration) time.Duration {
	if cli != 0 {
		return cli
	}
	return resolved
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
}

// newLogger builds the process logger. format is "json" or "text".
func newLogger(w io.Writer, level, format string) (*slog.Logger, error) {
	lvl, err := parseLevel(level)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: lvl}
	if strings.EqualFold(format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}

func strPtr(s string) *string { return &s }
func optStrPtr(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
func intPtr(v int) *int { return &v }
func durPtr(d time.Duration) *string {
	s := d.String()
	return &s
}
