package riskwatch

import (
	"fmt"
	"time"

	"github.com/Sowmya0137/riskwatch/internal/tui"
	"github.com/spf13/cobra"
)

var (
	flagWatchURL    string
	flagDialTimeout time.Duration
	flagWatchFrames int
)

func init() {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Follow a server's live feed in the terminal",
		Long: `Connect to a RiskWatch server's /ws endpoint and show risk updates,
critical alerts and stats as they arrive.

With --json the raw frames are written to stdout, one per line, instead of
opening the interactive view.`,
		RunE: runWatch,
	}
	rootCmd.AddCommand(cmd)

	cmd.Flags().StringVar(&flagWatchURL, "url", "ws://localhost:5000/ws", "websocket feed URL")
	cmd.Flags().DurationVar(&flagDialTimeout, "dial-timeout", 5*time.Second, "connection timeout")
	cmd.Flags().IntVar(&flagWatchFrames, "count", 0, "with --json, stop after this many frames (0 = forever)")
}

func runWatch(cmd *cobra.Command, _ []string) error {
	dial := tui.WebSocketDialer(flagWatchURL, flagDialTimeout)
	if !flagJSON {
		return tui.Run(flagWatchURL, dial)
	}
	src, err := dial()
	if err != nil {
		return err
	}
	defer func() { _ = src.Close() }()
	return streamFrames(cmd, src, flagWatchFrames)
}

// streamFrames copies frames from src to stdout until src ends or limit
// frames were written.
func streamFrames(cmd *cobra.Command, src tui.Source, limit int) error {
	out := cmd.OutOrStdout()
	for n := 0; limit <= 0 || n < limit; n++ {
		b, err := src.Next()
		if err != nil {
			return fmt.Errorf("feed closed: %w", err)
		}
		if _, err := fmt.Fprintln(out, string(b)); err != nil {
			return err
		}
	}
	return nil
}
