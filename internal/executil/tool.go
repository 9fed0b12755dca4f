package executil

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"sync"

	"github.com/axekit/axe/internal/config"
)

// ToolMissingError means an external tool could not be started.
type ToolMissingError struct {
	Tool string
	Err  error
}

func (e *ToolMissingError) Error() string {
	return fmt.Sprintf("command line tool %s is not installed: %v", e.Tool, e.Err)
}

func (e *ToolMissingError) Unwrap() error { return e.Err }

// Tool is an external command line program such as cmake or pyinstaller.
type Tool struct {
	Name string

	mu      sync.Mutex
	checked bool
}

func NewTool(name string) *Tool { return &Tool{Name: name} }

// CheckExistence runs "<tool> --version" once. Only a successful check is
// remembered.
func (t *Tool) CheckExistence(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.checked {
		return nil
	}
	if err := exec.CommandContext(ctx, t.Name, "--version").Run(); err != nil {
		return &ToolMissingError{Tool: t.Name, Err: err}
	}
	t.checked = true
	return nil
}

// Command is the shell command running the tool with args.
func (t *Tool) Command(args ...string) config.Command {
	parts := append([]string{t.Name}, args...)
	return config.Command{Command: strings.Join(parts, " ")}
}

// Output checks the tool exists and returns the combined output of a run.
func (t *Tool) Output(ctx context.Context, args ...string) (string, error) {
	if err := t.CheckExistence(ctx); err != nil {
		return "", err
	}
	return Output(ctx, t.Command(args...))
}
