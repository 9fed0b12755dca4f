package cmd

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/axekit/axe/internal/config"
	"github.com/axekit/axe/internal/jenkins"
	"github.com/axekit/axe/internal/logging"
	"github.com/axekit/axe/internal/ui/console"
)

func jenkinsClient() (*jenkins.Client, error) {
	j := config.Get().Jenkins
	if j == nil || j.URL == "" {
		return nil, errors.New("jenkins.url is not configured")
	}
	return jenkins.NewClient(j.URL, j.User, j.Token), nil
}

// parseParams turns KEY=VALUE arguments into build parameters. No
// arguments means a build without parameters.
func parseParams(args []string) (url.Values, error) {
	if len(args) == 0 {
		return nil, nil
	}
	params := url.Values{}
	for _, a := range args {
		k, v, ok := strings.Cut(a, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("build parameter must be KEY=VALUE, got %q", a)
		}
		params.Add(k, v)
	}
	return params, nil
}

func init() {
	jenkinsCmd := &cobra.Command{
		Use:   "jenkins",
		Short: "Trigger and inspect remote Jenkins jobs",
	}

	var timeout time.Duration
	var yes bool
	buildCmd := &cobra.Command{
		Use:   "build <job> [KEY=VALUE...]",
		Short: "Queue a build and wait until it starts",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := jenkinsClient()
			if err != nil {
				return err
			}
			params, err := parseParams(args[1:])
			if err != nil {
				return err
			}
			building, err := c.IsBuilding(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if building {
				p := &console.Prompter{AssumeYes: yes}
				ok, err := p.InputYesNo(args[0]+" is already queued or building. Queue another build?", false)
				if err != nil {
					return err
				}
				if !ok {
					return nil
				}
			}
			n, err := c.RequestBuild(cmd.Context(), args[0], params, timeout)
			if err != nil {
				return err
			}
			logging.Success(fmt.Sprintf("%s #%d started", args[0], n))
			return nil
		},
	}
	buildCmd.Flags().DurationVar(&timeout, "timeout", time.Minute, "how long to wait for the queued build to start")
	buildCmd.Flags().BoolVarP(&yes, "yes", "y", false, "queue even when the job is already building")

	statusCmd := &cobra.Command{
		Use:   "status <job>",
		Short: "Report whether a job is queued or building",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := jenkinsClient()
			if err != nil {
				return err
			}
			building, err := c.IsBuilding(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if building {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: building\n", args[0])
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: idle\n", args[0])
			}
			return nil
		},
	}

	jenkinsCmd.AddCommand(buildCmd, statusCmd)
	rootCmd.AddCommand(jenkinsCmd)
}
