package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/axekit/axe/internal/cmake"
	"github.com/axekit/axe/internal/executil"
	"github.com/axekit/axe/internal/logging"
	"github.com/axekit/axe/internal/netutil"
	"github.com/axekit/axe/internal/pyinstaller"
	"github.com/axekit/axe/internal/state"
	"github.com/axekit/axe/internal/ui/console"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check build tools and show environment details",
	RunE: func(cmd *cobra.Command, args []string) error {
		var rows [][2]string
		missing := 0
		for _, t := range []*executil.Tool{cmake.Tool, pyinstaller.Tool, executil.NewTool("git")} {
			version, err := t.Output(cmd.Context(), "--version")
			if err != nil {
				missing++
				rows = append(rows, [2]string{t.Name, "missing"})
				continue
			}
			rows = append(rows, [2]string{t.Name, firstLine(version)})
		}
		dir := configDir()
		rows = append(rows,
			[2]string{"config dir", dir},
			[2]string{"log file", orDash(logging.Path())},
			[2]string{"local ip", netutil.LocalIP()},
			[2]string{"adapter ip", netutil.FirstAdapterIP()},
		)
		if st, err := state.NewManager(dir); err == nil {
			rows = append(rows, [2]string{"built libraries", fmt.Sprint(len(st.Names()))})
		}
		fmt.Fprint(cmd.OutOrStdout(), console.RenderKeyValue("axe doctor", rows))
		if missing > 0 {
			logging.Warn(fmt.Sprintf("%d tool(s) missing; libraries needing them cannot be built", missing))
		}
		return nil
	},
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = strings.TrimSpace(s[:i])
	}
	return orDash(s)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}
