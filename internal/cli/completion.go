package cli

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/glyphorbit/pkg/arrange"
	"github.com/matzehuels/glyphorbit/pkg/pipeline"
)

// completionCommand prints a shell completion script.
func (c *CLI) completionCommand() *cobra.Command {
	var noDesc bool

	generators := map[string]func(root *cobra.Command, w io.Writer) error{
		"bash": func(root *cobra.Command, w io.Writer) error {
			return root.GenBashCompletionV2(w, !noDesc)
		},
		"zsh": func(root *cobra.Command, w io.Writer) error {
			if noDesc {
				return root.GenZshCompletionNoDesc(w)
			}
			return root.GenZshCompletion(w)
		},
		"fish": func(root *cobra.Command, w io.Writer) error {
			return root.GenFishCompletion(w, !noDesc)
		},
		"powershell": func(root *cobra.Command, w io.Writer) error {
			if noDesc {
				return root.GenPowerShellCompletion(w)
			}
			return root.GenPowerShellCompletionWithDesc(w)
		},
	}

	cmd := &cobra.Command{
		Use:   "completion <bash|zsh|fish|powershell>",
		Short: "Print a shell completion script",
		Long: `Completion prints a completion script for the given shell. Shape names and
output formats complete too.`,
		Example: `  source <(glyphorbit completion bash)
  glyphorbit completion zsh > "${fpath[1]}/_glyphorbit"
  glyphorbit completion fish > ~/.config/fish/completions/glyphorbit.fish`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return generators[args[0]](cmd.Root(), cmd.OutOrStdout())
		},
	}
	cmd.Flags().BoolVar(&noDesc, "no-descriptions", false, "omit completion descriptions")
	return cmd
}

// completeShapes offers the shape names for --shape.
func completeShapes(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return arrange.ShapeNames, cobra.ShellCompDirectiveNoFileComp
}

// completeFormats offers the output formats for --format.
func completeFormats(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return pipeline.FormatNames(), cobra.ShellCompDirectiveNoFileComp
}
