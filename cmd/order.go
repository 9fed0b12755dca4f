package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/axekit/axe/internal/config"
	"github.com/axekit/axe/internal/depend"
	"github.com/axekit/axe/internal/ui/console"
)

func init() {
	var desc, plain bool
	cmd := &cobra.Command{
		Use:   "order <item>...",
		Short: "Order items so dependencies come first (or last with --desc)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := depend.Ascending
			if desc {
				dir = depend.Descending
			}
			out, err := depend.Order(args, config.Get().DependencyMap(), dir)
			if err != nil {
				return err
			}
			printItems(cmd.OutOrStdout(), dir.String(), out, plain)
			return nil
		},
	}
	cmd.Flags().BoolVar(&desc, "desc", false, "put dependents before their dependencies")
	cmd.Flags().BoolVar(&plain, "plain", false, "print items space separated")
	rootCmd.AddCommand(cmd)
}

func printItems(w io.Writer, title string, items []string, plain bool) {
	if plain {
		fmt.Fprintln(w, strings.Join(items, " "))
		return
	}
	fmt.Fprint(w, console.RenderOrder(title, items))
}
