package cmd

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/axekit/axe/internal/builder"
	"github.com/axekit/axe/internal/config"
	"github.com/axekit/axe/internal/fsutil"
	"github.com/axekit/axe/internal/logging"
	"github.com/axekit/axe/internal/state"
	"github.com/axekit/axe/internal/ui/console"
)

var buildChoices = []console.Choice{
	{Key: "b", Label: "build"},
	{Key: "d", Label: "dry run, only print the steps"},
	{Key: "a", Label: "abort"},
}

func init() {
	var dryRun, yes, force bool
	var exclude []string
	cmd := &cobra.Command{
		Use:   "build [library...]",
		Short: "Build libraries and their dependencies in order (all libraries when none given)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Get()
			names := args
			if len(names) == 0 {
				names = cfg.LibraryNames()
			}
			if len(names) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Nothing to build")
				return nil
			}

			dir := configDir()
			unlock, err := fsutil.Lock(filepath.Join(dir, "build.lock"))
			if err != nil {
				var le *fsutil.LockError
				if errors.As(err, &le) {
					return fmt.Errorf("another build is running (remove %s if it is stale)", le.Path)
				}
				return err
			}
			defer unlock()

			st, err := state.NewManager(dir)
			if err != nil {
				return err
			}
			b := builder.New(cfg, st)
			plan, err := b.Plan(names)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), console.RenderPlan(cfg, st, plan))
			if len(plan.Libraries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Nothing to build")
				return nil
			}

			if !yes && !dryRun {
				p := &console.Prompter{}
				answer, err := p.InputChoice("Proceed to build?", buildChoices)
				if err != nil {
					return err
				}
				switch answer {
				case "a":
					return nil
				case "d":
					dryRun = true
				}
			}

			var runner builder.Runner = builder.NewSudoRunner()
			if dryRun {
				runner = &builder.DryRunner{}
			}
			defer runner.Close()

			logging.Title("axe build " + fmt.Sprint(names))
			rep := console.NewBuildReporter(cmd.OutOrStdout())
			_, err = b.Build(cmd.Context(), names, runner, builder.Options{
				Force:   force,
				DryRun:  dryRun,
				Exclude: exclude,
			}, rep.OnEvent)
			fmt.Fprint(cmd.OutOrStdout(), rep.Summary())
			return err
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the steps without running them")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	cmd.Flags().BoolVar(&force, "force", false, "rebuild libraries whose sources did not change")
	cmd.Flags().StringSliceVar(&exclude, "exclude", nil, "extra path fragments ignored when checking sources for changes")
	rootCmd.AddCommand(cmd)
}
