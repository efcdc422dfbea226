package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Sowmya0137/riskwatch/internal/types"
)

func writeTemp(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return p
}

func TestLoadFile_Basic(t *testing.T) {
	dir := t.TempDir()
	p := writeTemp(t, dir, "riskwatch.yaml", `listen: ":8080"
profile: pii
send_timeout: 2s
alert_threshold: 65
banned_terms: [hate, attack, kill]
monitor:
  url: http://example.test/feed
  interval: 1m
nats:
  url: nats://localhost:4222
profiles:
  strict:
    weights:
      Malware: 100
    bands:
      - min: 1
        level: CRITICAL
    floor: LOW
`)
	cfg, err := LoadFile(p)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Listen == nil || *cfg.Listen != ":8080" {
		t.Fatalf("expected listen=:8080, got %#v", cfg.Listen)
	}
	if cfg.AlertThreshold == nil || *cfg.AlertThreshold != 65 {
		t.Fatalf("expected alert_threshold=65, got %#v", cfg.AlertThreshold)
	}
	if len(cfg.BannedTerms) != 3 {
		t.Fatalf("expected 3 banned terms, got %v", cfg.BannedTerms)
	}
	if cfg.Monitor == nil || cfg.Monitor.URL == nil || *cfg.Monitor.URL != "http://example.test/feed" {
		t.Fatalf("expected monitor url, got %#v", cfg.Monitor)
	}
	strict, ok := cfg.Profiles["strict"]
	if !ok {
		t.Fatal("expected strict profile")
	}
	if strict.Weights[types.CatMalware] != 100 {
		t.Fatalf("expected Malware weight 100, got %v", strict.Weights)
	}
	if len(strict.Bands) != 1 || strict.Bands[0].Level != types.LevelCritical {
		t.Fatalf("unexpected bands %#v", strict.Bands)
	}
}

func TestLoadFile_Invalid(t *testing.T) {
	dir := t.TempDir()
	p := writeTemp(t, dir, "riskwatch.yaml", "listen: [unclosed\n")
	if _, err := LoadFile(p); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLoadLocal_PrefersDotfile(t *testing.T) {
	dir := t.TempDir()
	// place both, expect the dotfile to be picked first by search order
	writeTemp(t, dir, "riskwatch.yaml", "cache_size: 1\n")
	writeTemp(t, dir, ".riskwatch.yaml", "cache_size: 7\n")
	cfg, err := LoadLocal(dir)
	if err != nil {
		t.Fatalf("LoadLocal: %v", err)
	}
	if cfg.CacheSize == nil || *cfg.CacheSize != 7 {
		t.Fatalf("expected cache_size=7 from .riskwatch.yaml, got %#v", cfg.CacheSize)
	}
}

func TestLoadLocal_NoConfig(t *testing.T) {
	dir := t.TempDir()
	if _, err := LoadLocal(dir); err == nil {
		t.Fatal("expected error when no local config exists")
	}
}

func TestLoadGlobal_XDG_Config(t *testing.T) {
	dir := t.TempDir()
	cfgDir := filepath.Join(dir, "riskwatch")
	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeTemp(t, cfgDir, "config.yml", "cache_size: 9\n")
	t.Setenv("XDG_CONFIG_HOME", dir)
	cfg, err := LoadGlobal()
	if err != nil {
		t.Fatalf("LoadGlobal: %v", err)
	}
	if cfg.CacheSize == nil || *cfg.CacheSize != 9 {
		t.Fatalf("expected cache_size=9 from global config, got %#v", cfg.CacheSize)
	}
}

func TestLoadGlobal_NoConfig(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("HOME", "")
	if _, err := LoadGlobal(); err == nil {
		t.Fatal("expected error when no global config dir exists")
	}
}

func TestResolve_Precedence(t *testing.T) {
	dir := t.TempDir()
	local, err := LoadFile(writeTemp(t, dir, "local.yml", "listen: \":7000\"\nstats_interval: 10s\n"))
	if err != nil {
		t.Fatal(err)
	}
	global, err := LoadFile(writeTemp(t, dir, "global.yml", "listen: \":9000\"\nprofile: pii\nsend_timeout: 1s\n"))
	if err != nil {
		t.Fatal(err)
	}
	s, err := Resolve(local, global)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if s.Listen != ":7000" {
		t.Fatalf("local should win for listen, got %s", s.Listen)
	}
	if s.Profile != "pii" {
		t.Fatalf("global should fill profile, got %s", s.Profile)
	}
	if s.SendTimeout != time.Second || s.StatsInterval != 10*time.Second {
		t.Fatalf("unexpected durations %v %v", s.SendTimeout, s.StatsInterval)
	}
	if s.AlertThreshold != 70 || s.MonitorTextField != "text" {
		t.Fatalf("defaults not kept: %+v", s)
	}
}

func TestResolve_BadDuration(t *testing.T) {
	bad := "soon"
	if _, err := Resolve(FileConfig{SendTimeout: &bad}); err == nil {
		t.Fatal("expected error for invalid duration")
	}
}
