package main

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/forest6511/totpctl/pkg/vault"
)

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate completion script for your shell",
	Long: `To load completions:

Bash:
  $ source <(totpctl completion bash)

  # To load for each session (Linux):
  $ totpctl completion bash > ~/.local/share/bash-completion/completions/totpctl

  # To load for each session (macOS with Homebrew):
  $ totpctl completion bash > $(brew --prefix)/etc/bash_completion.d/totpctl

Zsh:
  # Ensure completion is enabled:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # Generate completion:
  $ totpctl completion zsh > ~/.zsh/completions/_totpctl
  # (create ~/.zsh/completions if needed, add to fpath in .zshrc)

Fish:
  $ totpctl completion fish > ~/.config/fish/completions/totpctl.fish

PowerShell:
  PS> totpctl completion powershell >> $PROFILE

Dynamic completion (record labels):
  Set TOTPCTL_COMPLETION_ENABLED=1 to enable label completion. Labels
  are only offered for plain vaults; an encrypted vault would need a
  passphrase prompt in the middle of tab completion.
`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "bash":
			return cmd.Root().GenBashCompletion(os.Stdout)
		case "zsh":
			return cmd.Root().GenZshCompletion(os.Stdout)
		case "fish":
			return cmd.Root().GenFishCompletion(os.Stdout, true)
		case "powershell":
			return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
		}
		return nil
	},
}

func init() {
	// Register dynamic completion functions for commands
	registerCompletionFunctions()
}

// isDynamicCompletionEnabled checks if dynamic completion is opt-in
// enabled. It is disabled by default so tab completion never touches
// the vault unasked.
func isDynamicCompletionEnabled() bool {
	return os.Getenv("TOTPCTL_COMPLETION_ENABLED") == "1"
}

// completeLabels provides record label completion (opt-in only).
// Completion must never prompt, so labels are only read from plain
// vaults.
func completeLabels(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if !isDynamicCompletionEnabled() {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	format, err := vault.DetectFormat(vaultPath)
	if err != nil || format == vault.FormatEncrypted {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	v, _, err := vault.LoadFile(vaultPath, nil)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	var labels []string
	lowerPrefix := strings.ToLower(toComplete)
	for _, r := range v.Records() {
		if strings.HasPrefix(strings.ToLower(r.Label), lowerPrefix) {
			labels = append(labels, r.Label)
		}
	}
	return labels, cobra.ShellCompDirectiveNoFileComp
}

// registerCompletionFunctions registers ValidArgsFunction for commands
// that take a label or pattern argument.
func registerCompletionFunctions() {
	codeCmd.ValidArgsFunction = completeLabels
	listCmd.ValidArgsFunction = completeLabels
	viewCmd.ValidArgsFunction = completeLabels
	editCmd.ValidArgsFunction = completeLabels
	renameCmd.ValidArgsFunction = completeLabels
	removeCmd.ValidArgsFunction = completeLabels
}
