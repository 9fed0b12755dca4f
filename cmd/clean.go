package cmd

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/axekit/axe/internal/builder"
	"github.com/axekit/axe/internal/config"
	"github.com/axekit/axe/internal/fsutil"
	"github.com/axekit/axe/internal/state"
)

func init() {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "clean <library>...",
		Short: "Remove build output of libraries so the next build starts over",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := configDir()
			unlock, err := fsutil.Lock(filepath.Join(dir, "build.lock"))
			if err != nil {
				var le *fsutil.LockError
				if errors.As(err, &le) {
					return fmt.Errorf("a build is running (remove %s if it is stale)", le.Path)
				}
				return err
			}
			defer unlock()

			st, err := state.NewManager(dir)
			if err != nil {
				return err
			}
			return builder.New(config.Get(), st).Clean(args, dryRun)
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print what would be removed")
	rootCmd.AddCommand(cmd)
}
