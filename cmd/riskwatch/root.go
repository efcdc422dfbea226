package riskwatch

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	flagJSON     bool
	flagNoColor  bool
	flagConfig   string
	flagLogLevel string
	flagProfile  string

	version = "0.1.0"
)

// rootCmd is the base Cobra command for the RiskWatch CLI.
var rootCmd = &cobra.Command{
	Use:           "riskwatch",
	Short:         "Score text for risk and stream the results live",
	Long:          "RiskWatch detects personal data and threat indicators in text, scores them, and pushes every assessment to live subscribers.",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the RiskWatch CLI. It should be called by the main package.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(2)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "emit JSON")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "disable colorized output")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file (default: ./.riskwatch.yml, then $XDG_CONFIG_HOME/riskwatch/config.yml)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level: debug|info|warn|error")
	rootCmd.PersistentFlags().StringVar(&flagProfile, "profile", "", "evaluator profile (pii, keyword or a configured name)")
	_ = rootCmd.RegisterFlagCompletionFunc("profile", completeProfiles)
}
