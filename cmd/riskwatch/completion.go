package riskwatch

import (
	"fmt"
	"io"
	"sort"

	"github.com/Sowmya0137/riskwatch/internal/risk"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:       "completion [bash|zsh|fish|powershell]",
		Short:     "Generate shell completion scripts",
		Long:      "Print a completion script for riskwatch. Completes subcommands, flags and profile names for --profile.",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeCompletion(cmd.OutOrStdout(), args[0])
		},
		Example: `  riskwatch completion bash > /etc/bash_completion.d/riskwatch
  riskwatch completion zsh > "${fpath[1]}/_riskwatch"
  riskwatch completion fish > ~/.config/fish/completions/riskwatch.fish
  riskwatch completion powershell | Out-String | Invoke-Expression`,
	}
	rootCmd.AddCommand(cmd)
}

func writeCompletion(w io.Writer, shell string) error {
	switch shell {
	case "bash":
		return rootCmd.GenBashCompletionV2(w, true)
	case "zsh":
		return rootCmd.GenZshCompletion(w)
	case "fish":
		return rootCmd.GenFishCompletion(w, true)
	case "powershell":
		return rootCmd.GenPowerShellCompletionWithDesc(w)
	}
	return fmt.Errorf("unsupported shell: %s", shell)
}

// completeProfiles offers the built-in and configured profile names.
func completeProfiles(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	s, err := loadSettings()
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	names := []string{risk.ProfileKeyword, risk.ProfilePII}
	for name := range s.Profiles {
		if name != risk.ProfileKeyword && name != risk.ProfilePII {
			names = append(names, name)
		}
	}
	sort.Strings(names[2:])
	return names, cobra.ShellCompDirectiveNoFileComp
}
