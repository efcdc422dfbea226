package riskwatch

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/Sowmya0137/riskwatch/internal/config"
	"github.com/Sowmya0137/riskwatch/internal/detectors"
	"github.com/Sowmya0137/riskwatch/internal/risk"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	cfgPreset     string
	cfgOutput     string
	cfgEnable     string
	cfgDisable    string
	cfgListen     string
	cfgBanned     string
	cfgMonitorURL string
	cfgNATSURL    string
	cfgForce      bool
)

func init() {
	cfgCmd := &cobra.Command{Use: "config", Short: "Configuration helpers"}
	rootCmd.AddCommand(cfgCmd)

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Generate a .riskwatch.yml with selected detectors and options",
		RunE:  runConfigInit,
	}
	cfgCmd.AddCommand(initCmd)

	initCmd.Flags().StringVar(&cfgPreset, "preset", "standard", "detector preset: pii | threats | standard")
	initCmd.Flags().StringVar(&cfgOutput, "output", ".riskwatch.yml", "output file path")
	initCmd.Flags().StringVar(&cfgEnable, "enable", "", "comma-separated detector IDs to enable (overrides preset if set)")
	initCmd.Flags().StringVar(&cfgDisable, "disable", "", "comma-separated detector IDs to disable")
	initCmd.Flags().StringVar(&cfgListen, "listen", ":5000", "server listen address")
	initCmd.Flags().StringVar(&cfgBanned, "banned-terms", "", "comma-separated banned terms (default: hate,attack)")
	initCmd.Flags().StringVar(&cfgMonitorURL, "monitor-url", "", "URL to poll for text")
	initCmd.Flags().StringVar(&cfgNATSURL, "nats-url", "", "NATS server to publish the feed to")
	initCmd.Flags().BoolVar(&cfgForce, "force", false, "overwrite an existing file")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the resolved configuration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := loadSettings()
			if err != nil {
				return err
			}
			b, err := yaml.Marshal(settingsFile(s))
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(b)
			return err
		},
	}
	cfgCmd.AddCommand(showCmd)
}

var presets = map[string][]string{
	"pii":     {"aadhaar", "phone", "email", "bank", "password", "creditcard"},
	"threats": {"banned", "malware", "phishing", "links", "explicit", "injection", "exfil"},
}

func presetEnable(preset string) (string, error) {
	switch p := strings.ToLower(preset); p {
	case "standard", "":
		ids := detectors.IDs()
		sort.Strings(ids)
		return strings.Join(ids, ","), nil
	default:
		ids, ok := presets[p]
		if !ok {
			return "", fmt.Errorf("unknown preset %q", preset)
		}
		return strings.Join(ids, ","), nil
	}
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	enable := strings.TrimSpace(cfgEnable)
	if enable == "" {
		var err error
		if enable, err = presetEnable(cfgPreset); err != nil {
			return err
		}
	}
	if !cfgForce {
		if _, err := os.Stat(cfgOutput); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", cfgOutput)
		}
	}

	d := config.Defaults()
	fc := config.FileConfig{
		Listen:            strPtr(cfgListen),
		Profile:           strPtr(pickString(flagProfile, risk.ProfileKeyword)),
		Enable:            strPtr(enable),
		Disable:           optStrPtr(cfgDisable),
		BannedTerms:       detectors.SplitList(cfgBanned),
		CacheSize:         intPtr(d.CacheSize),
		SendTimeout:       durPtr(d.SendTimeout),
		AlertThreshold:    intPtr(d.AlertThreshold),
		CriticalThreshold: intPtr(d.CriticalThreshold),
		StatsInterval:     durPtr(d.StatsInterval),
	}
	if url := optStrPtr(cfgMonitorURL); url != nil {
		fc.Monitor = &config.MonitorConfig{URL: url, Interval: durPtr(d.MonitorInterval)}
	}
	if url := optStrPtr(cfgNATSURL); url != nil {
		fc.NATS = &config.NATSConfig{URL: url}
	}

	b, err := yaml.Marshal(&fc)
	if err != nil {
		return err
	}
	if err := os.WriteFile(cfgOutput, b, 0o644); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Wrote", cfgOutput)
	return nil
}

// settingsFile turns resolved settings back into the file shape so they
// can be printed or written.
func settingsFile(s config.Settings) config.FileConfig {
	fc := config.FileConfig{
		Listen:            strPtr(s.Listen),
		Profile:           strPtr(s.Profile),
		Enable:            optStrPtr(s.Enable),
		Disable:           optStrPtr(s.Disable),
		BannedTerms:       s.BannedTerms,
		CacheSize:         intPtr(s.CacheSize),
		AllowedOrigins:    s.AllowedOrigins,
		LogLevel:          strPtr(s.LogLevel),
		LogFormat:         strPtr(s.LogFormat),
		SendTimeout:       durPtr(s.SendTimeout),
		AlertThreshold:    intPtr(s.AlertThreshold),
		CriticalThreshold: intPtr(s.CriticalThreshold),
		StatsInterval:     durPtr(s.StatsInterval),
		Profiles:          s.Profiles,
		NATS:              &config.NATSConfig{URL: optStrPtr(s.NATSURL), SubjectPrefix: strPtr(s.NATSSubjectPrefix)},
		Monitor: &config.MonitorConfig{
			URL:       optStrPtr(s.MonitorURL),
			Interval:  durPtr(s.MonitorInterval),
			Timeout:   durPtr(s.MonitorTimeout),
			TextField: strPtr(s.MonitorTextField),
		},
	}
	return fc
}
