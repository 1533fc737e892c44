package cli

import (
	"sort"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tscproj/pkg/pipeline"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for tscproj.

To load completions:

Bash:
  $ source <(tscproj completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ tscproj completion bash > /etc/bash_completion.d/tscproj
  # macOS:
  $ tscproj completion bash > $(brew --prefix)/etc/bash_completion.d/tscproj

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ tscproj completion zsh > "${fpath[1]}/_tscproj"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ tscproj completion fish | source

  # To load completions for each session, execute once:
  $ tscproj completion fish > ~/.config/fish/completions/tscproj.fish

PowerShell:
  PS> tscproj completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> tscproj completion powershell > tscproj.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(stdout)
			}
			return nil
		},
	}

	return cmd
}

// projectArgs completes a leading <project> argument with project files
// and containers.
func projectArgs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) == 0 {
		return []string{"tscproj", "cmproj"}, cobra.ShellCompDirectiveFilterFileExt
	}
	return nil, cobra.ShellCompDirectiveNoFileComp
}

// batchArgs completes the operation argument of batch.
func batchArgs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) == 1 {
		ops := make([]string, 0, len(pipeline.ValidOperations))
		for op := range pipeline.ValidOperations {
			ops = append(ops, op)
		}
		sort.Strings(ops)
		return ops, cobra.ShellCompDirectiveNoFileComp
	}
	if len(args) == 0 {
		return nil, cobra.ShellCompDirectiveDefault
	}
	return nil, cobra.ShellCompDirectiveNoFileComp
}
