// Package executil runs shell commands and external tools.
package executil

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"sort"
	"strings"

	"github.com/axekit/axe/internal/config"
	"github.com/axekit/axe/internal/logging"
)

// ExitError reports a command that ran but exited non-zero.
type ExitError struct {
	Cmd    string
	Code   int
	Output string
}

func (e *ExitError) Error() string {
	if e.Output == "" {
		return fmt.Sprintf("command %q exited with code %d", e.Cmd, e.Code)
	}
	return fmt.Sprintf("command %q exited with code %d: %s", e.Cmd, e.Code, strings.TrimSpace(e.Output))
}

// SudoWrap runs cmd through sudo unless already root. nonInteractive adds -n
// so sudo fails instead of prompting.
func SudoWrap(cmd string, nonInteractive bool) string {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		return cmd
	}
	esc := strings.ReplaceAll(cmd, "'", "'\"'\"'")
	if nonInteractive {
		return fmt.Sprintf("sudo -n bash -ceu '%s'", esc)
	}
	return fmt.Sprintf("sudo bash -ceu '%s'", esc)
}

// Command builds the shell invocation for c: bash -ceu on unix, cmd /C on
// windows.
func Command(ctx context.Context, c config.Command) *exec.Cmd {
	final := c.Command
	if c.RequireRoot {
		final = SudoWrap(final, false)
	}
	var cmd *exec.Cmd
	if runtime.GOOS == "windows" {
		cmd = exec.CommandContext(ctx, "cmd", "/C", final)
	} else {
		cmd = exec.CommandContext(ctx, "bash", "-ceu", final)
	}
	cmd.Dir = c.Dir
	if len(c.Env) > 0 {
		keys := make([]string, 0, len(c.Env))
		for k := range c.Env {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		cmd.Env = os.Environ()
		for _, k := range keys {
			cmd.Env = append(cmd.Env, k+"="+c.Env[k])
		}
	}
	return cmd
}

// Run echoes the command and runs it. Its output goes to the console and
// the log file through logging.Writer.
func Run(ctx context.Context, c config.Command) error {
	logging.Info(">>> " + c.Command)
	cmd := Command(ctx, c)
	cmd.Stdin = os.Stdin
	cmd.Stdout = logging.Writer()
	cmd.Stderr = logging.Writer()
	if err := cmd.Run(); err != nil {
		return wrap(ctx, c, err, "")
	}
	return nil
}

// Output runs the command and returns its combined stdout and stderr.
func Output(ctx context.Context, c config.Command) (string, error) {
	cmd := Command(ctx, c)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return string(b), wrap(ctx, c, err, string(b))
	}
	return string(b), nil
}

func wrap(ctx context.Context, c config.Command, err error, output string) error {
	if ctx.Err() != nil {
		return fmt.Errorf("command %q: %w", c.Command, ctx.Err())
	}
	var ee *exec.ExitError
	if errors.As(err, &ee) {
		return &ExitError{Cmd: c.Command, Code: ee.ExitCode(), Output: output}
	}
	return fmt.Errorf("command %q: %w", c.Command, err)
}
