package cmd

import (
	"github.com/spf13/cobra"

	"github.com/axekit/axe/internal/config"
	"github.com/axekit/axe/internal/depend"
)

func init() {
	var order, plain bool
	cmd := &cobra.Command{
		Use:   "complete <item>...",
		Short: "Add the missing transitive dependencies of items",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			deps := config.Get().DependencyMap()
			if !order {
				printItems(cmd.OutOrStdout(), "completed", depend.Complete(args, deps), plain)
				return nil
			}
			out, err := depend.CompleteAndOrder(args, deps)
			if err != nil {
				return err
			}
			printItems(cmd.OutOrStdout(), "completed, "+depend.Descending.String(), out, plain)
			return nil
		},
	}
	cmd.Flags().BoolVar(&order, "order", false, "also order the result for linking")
	cmd.Flags().BoolVar(&plain, "plain", false, "print items space separated")
	rootCmd.AddCommand(cmd)
}
