package cmd

import (
	"github.com/spf13/cobra"
)

// NewRootCommand assembles the vibegpt CLI.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "vibegpt",
		Short: "Compare trait-steered and baseline chat responses side by side",
		Long: `vibegpt runs two parallel conversations with the same character against a
remote inference endpoint: a control conversation steered by the character's
trait vectors and an unsteered baseline. Each prompt is answered by both,
streamed token by token into side-by-side panes.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(NewPlayCmd())
	rootCmd.AddCommand(NewResetCmd())
	rootCmd.AddCommand(NewHistoryCmd())
	rootCmd.AddCommand(NewCharactersCmd())
	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}
