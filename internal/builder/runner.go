package builder

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/axekit/axe/internal/config"
	"github.com/axekit/axe/internal/executil"
	"github.com/axekit/axe/internal/logging"
)

// Runner executes the steps of a build.
type Runner interface {
	Run(ctx context.Context, lib, step string, cmd config.Command) error
	Close() error
}

// SudoRunner runs steps through the shell. Steps requiring root share one
// sudo authentication that is kept alive until Close.
type SudoRunner struct {
	keepOnce  sync.Once
	closeOnce sync.Once
	stopCh    chan struct{}
	mu        sync.Mutex
	authed    bool
	closed    bool
}

func NewSudoRunner() *SudoRunner { return &SudoRunner{} }

// ensureKeepAliveStarted is called with mu held.
func (r *SudoRunner) ensureKeepAliveStarted() {
	if r.closed {
		return
	}
	r.keepOnce.Do(func() {
		r.stopCh = make(chan struct{})
		go func() {
			t := time.NewTicker(60 * time.Second)
			defer t.Stop()
			for {
				select {
				case <-r.stopCh:
					return
				case <-t.C:
					_ = exec.Command("sudo", "-n", "-v").Run()
				}
			}
		}()
	})
}

func (r *SudoRunner) ensureRootAccess(ctx context.Context) bool {
	if os.Geteuid() == 0 {
		return true
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.authed {
		return true
	}
	vcmd := exec.CommandContext(ctx, "sudo", "-v")
	vcmd.Stdin = os.Stdin
	vcmd.Stdout = os.Stdout
	vcmd.Stderr = os.Stderr
	if err := vcmd.Run(); err != nil {
		return false
	}
	r.authed = true
	r.ensureKeepAliveStarted()
	return true
}

func (r *SudoRunner) Run(ctx context.Context, lib, step string, cmd config.Command) error {
	if cmd.RequireRoot {
		if !r.ensureRootAccess(ctx) {
			return fmt.Errorf("sudo auth not granted for %s [%s]", lib, step)
		}
		cmd.Command = executil.SudoWrap(cmd.Command, true)
		cmd.RequireRoot = false
	}
	if err := executil.Run(ctx, cmd); err != nil {
		return fmt.Errorf("command failed for %s [%s]: %w", lib, step, err)
	}
	return nil
}

// Close stops the sudo keep-alive. Calling it again is a no-op.
func (r *SudoRunner) Close() error {
	r.closeOnce.Do(func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.closed = true
		if r.stopCh != nil {
			close(r.stopCh)
		}
	})
	return nil
}

// Call is a step recorded by DryRunner.
type Call struct {
	Library string
	Step    string
	Cmd     config.Command
}

// DryRunner prints and records steps without running them.
type DryRunner struct {
	mu    sync.Mutex
	Calls []Call
}

func (r *DryRunner) Run(_ context.Context, lib, step string, cmd config.Command) error {
	r.mu.Lock()
	r.Calls = append(r.Calls, Call{Library: lib, Step: step, Cmd: cmd})
	r.mu.Unlock()
	line := cmd.Command
	if cmd.Dir != "" {
		line = "(cd " + cmd.Dir + ") " + line
	}
	logging.Gray(fmt.Sprintf("%s [%s]: %s", lib, step, line))
	return nil
}

func (r *DryRunner) Close() error { return nil }
