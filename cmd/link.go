package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/axekit/axe/internal/builder"
	"github.com/axekit/axe/internal/config"
)

var linkCmd = &cobra.Command{
	Use:   "link <library>...",
	Short: "Print linker flags for libraries and all their dependencies",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		order, err := builder.New(config.Get(), nil).LinkOrder(args)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), strings.Join(builder.LinkFlags(order), " "))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(linkCmd)
}
