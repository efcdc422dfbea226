package riskwatch

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Sowmya0137/riskwatch/internal/detectors"
	"github.com/Sowmya0137/riskwatch/internal/report"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "test-detector <id>",
		Short: "Run a single detector against text on stdin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			data, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return err
			}
			matches, cat, ok := detectors.RunFunction(id, string(data))
			if !ok {
				fmt.Fprintf(os.Stderr, "unknown detector id: %s\n", id)
				fmt.Fprintf(os.Stderr, "available: %s\n", strings.Join(detectors.IDs(), ", "))
				os.Exit(2)
			}
			out := cmd.OutOrStdout()
			if flagJSON {
				if matches == nil {
					matches = []string{}
				}
				return report.PrintJSON(out, map[string]any{"id": id, "category": cat, "matches": matches})
			}
			if len(matches) == 0 {
				fmt.Fprintf(out, "%s: no matches\n", id)
				return nil
			}
			fmt.Fprintf(out, "%s (%s): %d match(es)\n", id, cat, len(matches))
			for _, m := range matches {
				fmt.Fprintf(out, "  %s\n", m)
			}
			return nil
		},
	}
	cmd.Long = "Available detectors: " + strings.Join(detectors.IDs(), ", ")
	rootCmd.AddCommand(cmd)
}
