package riskwatch

import (
	"github.com/Sowmya0137/riskwatch/internal/detectors"
	"github.com/Sowmya0137/riskwatch/internal/report"
	"github.com/Sowmya0137/riskwatch/internal/risk"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "detectors",
		Short: "List enabled detectors and their weights in the active profile",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := loadSettings()
			if err != nil {
				return err
			}
			rows, err := detectorRows(s.Profile, s.Profiles, detectorSet(s).Entries())
			if err != nil {
				return err
			}
			if flagJSON {
				return report.PrintJSON(cmd.OutOrStdout(), rows)
			}
			report.PrintDetectors(cmd.OutOrStdout(), rows)
			return nil
		},
	}
	rootCmd.AddCommand(cmd)
}

// detectorRows pairs each enabled detector with its weight in the named
// profile.
func detectorRows(profile string, overrides map[string]risk.Profile, entries []detectors.Entry) ([]report.DetectorRow, error) {
	reg, err := risk.NewRegistry(profile, overrides)
	if err != nil {
		return nil, err
	}
	ev, err := reg.Get("")
	if err != nil {
		return nil, err
	}
	rows := make([]report.DetectorRow, 0, len(entries))
	for _, e := range entries {
		flat, per := ev.Weight(e.Category)
		rows = append(rows, report.DetectorRow{ID: e.ID, Category: e.Category, Weight: flat, PerMatch: per})
	}
	return rows, nil
}
