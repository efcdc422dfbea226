package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Sowmya0137/riskwatch/internal/risk"
	"gopkg.in/yaml.v3"
)

// FileConfig is the on-disk YAML configuration shape for RiskWatch. Pointer
// fields distinguish "unset" from zero values so files can be layered.
type FileConfig struct {
	Listen         *string  `yaml:"listen"`
	Profile        *string  `yaml:"profile"`
	Enable         *string  `yaml:"enable"`
	Disable        *string  `yaml:"disable"`
	BannedTerms    []string `yaml:"banned_terms"`
	CacheSize      *int     `yaml:"cache_size"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	LogLevel       *string  `yaml:"log_level"`
	LogFormat      *string  `yaml:"log_format"`

	// Hub delivery and alerting
	SendTimeout       *string `yaml:"send_timeout"`
	AlertThreshold    *int    `yaml:"alert_threshold"`
	CriticalThreshold *int    `yaml:"critical_threshold"`
	StatsInterval     *string `yaml:"stats_interval"`

	// Profiles overrides or adds evaluator profiles by name.
	Profiles map[string]risk.Profile `yaml:"profiles"`

	Monitor *MonitorConfig `yaml:"monitor"`
	NATS    *NATSConfig    `yaml:"nats"`
}

// MonitorConfig configures the external polling loop.
type MonitorConfig struct {
	// URL is polled for JSON. Empty disables the monitor.
	URL      *string `yaml:"url"`
	Interval *string `yaml:"interval"`
	Timeout  *string `yaml:"timeout"`
	// TextField names the JSON field fed to the analyzer. Defaults to "text".
	TextField *string `yaml:"text_field"`
}

// NATSConfig configures the optional NATS subscriber.
type NATSConfig struct {
	URL           *string `yaml:"url"`
	SubjectPrefix *string `yaml:"subject_prefix"`
}

// LoadFile reads a YAML config file from the provided path.
func LoadFile(path string) (FileConfig, error) {
	var cfg FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// LocalNames are the file names LoadLocal looks for, in order.
var LocalNames = []string{".riskwatch.yml", ".riskwatch.yaml", "riskwatch.yml", "riskwatch.yaml"}

// LoadLocal searches for a config file in dir.
func LoadLocal(dir string) (FileConfig, error) {
	var cfg FileConfig
	for _, name := range LocalNames {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			return LoadFile(p)
		}
	}
	return cfg, errors.New("no local config")
}

// LoadGlobal loads the global config file from XDG base directory or ~/.config.
func LoadGlobal() (FileConfig, error) {
	var cfg FileConfig
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, _ := os.UserHomeDir()
		if home != "" {
			base = filepath.Join(home, ".config")
		}
	}
	if base == "" {
		return cfg, errors.New("no config dir")
	}
	p := filepath.Join(base, "riskwatch", "config.yml")
	if _, err := os.Stat(p); err == nil {
		return LoadFile(p)
	}
	return cfg, errors.New("no global config")
}

// Settings is the fully resolved configuration.
type Settings struct {
	Listen         string
	Profile        string
	Enable         string
	Disable        string
	BannedTerms    []string
	CacheSize      int
	AllowedOrigins []string
	LogLevel       string
	LogFormat      string

	SendTimeout       time.Duration
	AlertThreshold    int
	CriticalThreshold int
	StatsInterval     time.Duration

	Profiles map[string]risk.Profile

	MonitorURL       string
	MonitorInterval  time.Duration
	MonitorTimeout   time.Duration
	MonitorTextField string

	NATSURL           string
	NATSSubjectPrefix string
}

// Defaults returns the settings used when nothing is configured.
func Defaults() Settings {
	return Settings{
		Listen:            ":5000",
		Profile:           risk.ProfileKeyword,
		CacheSize:         1024,
		AllowedOrigins:    []string{"*"},
		LogLevel:          "info",
		LogFormat:         "text",
		SendTimeout:       5 * time.Second,
		AlertThreshold:    70,
		CriticalThreshold: 90,
		StatsInterval:     30 * time.Second,
		MonitorInterval:   5 * time.Second,
		MonitorTimeout:    10 * time.Second,
		MonitorTextField:  "text",
		NATSSubjectPrefix: "riskwatch",
	}
}

// Resolve layers files over Defaults. Earlier files win, so pass the local
// config before the global one.
func Resolve(files ...FileConfig) (Settings, error) {
	s := Defaults()
	// apply lowest precedence first
	for i := len(files) - 1; i >= 0; i-- {
		if err := s.apply(files[i]); err != nil {
			return s, err
		}
	}
	return s, nil
}

func (s *Settings) apply(fc FileConfig) error {
	setString(&s.Listen, fc.Listen)
	setString(&s.Profile, fc.Profile)
	setString(&s.Enable, fc.Enable)
	setString(&s.Disable, fc.Disable)
	setString(&s.LogLevel, fc.LogLevel)
	setString(&s.LogFormat, fc.LogFormat)
	if len(fc.BannedTerms) > 0 {
		s.BannedTerms = fc.BannedTerms
	}
	if len(fc.AllowedOrigins) > 0 {
		s.AllowedOrigins = fc.AllowedOrigins
	}
	if fc.CacheSize != nil {
		s.CacheSize = *fc.CacheSize
	}
	if fc.AlertThreshold != nil {
		s.AlertThreshold = *fc.AlertThreshold
	}
	if fc.CriticalThreshold != nil {
		s.CriticalThreshold = *fc.CriticalThreshold
	}
	if err := setDuration(&s.SendTimeout, fc.SendTimeout, "send_timeout"); err != nil {
		return err
	}
	if err := setDuration(&s.StatsInterval, fc.StatsInterval, "stats_interval"); err != nil {
		return err
	}
	if len(fc.Profiles) > 0 {
		if s.Profiles == nil {
			s.Profiles = map[string]risk.Profile{}
		}
		for name, p := range fc.Profiles {
			s.Profiles[name] = p
		}
	}
	if m := fc.Monitor; m != nil {
		setString(&s.MonitorURL, m.URL)
		setString(&s.MonitorTextField, m.TextField)
		if err := setDuration(&s.MonitorInterval, m.Interval, "monitor.interval"); err != nil {
			return err
		}
		if err := setDuration(&s.MonitorTimeout, m.Timeout, "monitor.timeout"); err != nil {
			return err
		}
	}
	if n := fc.NATS; n != nil {
		setString(&s.NATSURL, n.URL)
		setString(&s.NATSSubjectPrefix, n.SubjectPrefix)
	}
	return nil
}

func setString(dst *string, v *string) {
	if v != nil && *v != "" {
		*dst = *v
	}
}

func setDuration(dst *time.Duration, v *string, key string) error {
	if v == nil || *v == "" {
		return nil
	}
	d, err := time.ParseDuration(*v)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", key, *v, err)
	}
	*dst = d
	return nil
}
