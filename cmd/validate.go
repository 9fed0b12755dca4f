package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/axekit/axe/internal/builder"
	"github.com/axekit/axe/internal/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate merged configuration and check the dependency graph for cycles",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Get()
		if _, err := builder.New(cfg, nil).Plan(cfg.LibraryNames()); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Configuration is valid (%d libraries)\n", len(cfg.Libraries))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
