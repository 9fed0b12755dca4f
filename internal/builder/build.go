package builder

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/axekit/axe/internal/config"
	"github.com/axekit/axe/internal/fsutil"
	"github.com/axekit/axe/internal/hashutil"
	"github.com/axekit/axe/internal/logging"
	"github.com/axekit/axe/internal/state"
)

type Phase int

const (
	PhaseStart Phase = iota
	PhaseSkip
	PhaseStep
	PhaseDone
	PhaseFail
)

func (p Phase) String() string {
	switch p {
	case PhaseStart:
		return "start"
	case PhaseSkip:
		return "up-to-date"
	case PhaseStep:
		return "step"
	case PhaseDone:
		return "built"
	case PhaseFail:
		return "failed"
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

// Event reports build progress to the caller.
type Event struct {
	Library string
	Phase   Phase
	Step    string
	Err     error
	Elapsed time.Duration
}

// DefaultExcludes are skipped when digesting a source tree.
var DefaultExcludes = []string{".git/", "build/", "install/", "dist/", "__pycache__/"}

type Options struct {
	// Force rebuilds libraries whose sources did not change.
	Force bool
	// DryRun skips tool checks, directory creation and state updates.
	DryRun bool
	GOOS   string
	// Exclude adds digest excludes to DefaultExcludes.
	Exclude []string
	Now     func() time.Time
}

func (o Options) goos() string {
	if o.GOOS == "" {
		return runtime.GOOS
	}
	return o.GOOS
}

func (o Options) now() time.Time {
	if o.Now == nil {
		return time.Now()
	}
	return o.Now()
}

// Report summarizes a finished build.
type Report struct {
	Built    []string
	Skipped  []string
	External []string
}

// Build builds names and their dependencies one at a time in plan order.
// The first failing step stops the build.
func (b *Builder) Build(ctx context.Context, names []string, runner Runner, opts Options, onEvent func(Event)) (Report, error) {
	emit := func(e Event) {
		if onEvent != nil {
			onEvent(e)
		}
	}
	plan, err := b.Plan(names)
	if err != nil {
		return Report{}, err
	}
	rep := Report{External: plan.External}
	timer := logging.NewStepTimer()
	excludes := append(append([]string{}, DefaultExcludes...), opts.Exclude...)
	var binDirs []string

	for _, name := range plan.Libraries {
		lib, _ := b.cfg.Library(name)
		emit(Event{Library: name, Phase: PhaseStart})
		started := opts.now()

		steps, tool, err := Steps(lib, opts.goos())
		if err != nil {
			emit(Event{Library: name, Phase: PhaseFail, Err: err})
			return rep, err
		}
		digest := ""
		if src := resolveDirs(lib).SourceDir; src != "" && fsutil.IsDir(src) {
			digest, err = hashutil.DirDigest(src, hashutil.SHA256, excludes...)
			if err != nil {
				err = fmt.Errorf("digest sources of %s: %w", name, err)
				emit(Event{Library: name, Phase: PhaseFail, Err: err})
				return rep, err
			}
		}
		types := buildTypes(lib)
		if !opts.Force && digest != "" && b.state != nil && b.state.UpToDate(name, digest, types) {
			logging.Info("up-to-date: " + name)
			rep.Skipped = append(rep.Skipped, name)
			emit(Event{Library: name, Phase: PhaseSkip})
			continue
		}

		if tool != nil && !opts.DryRun {
			if err := tool.CheckExistence(ctx); err != nil {
				emit(Event{Library: name, Phase: PhaseFail, Err: err})
				return rep, err
			}
		}

		logging.SubTitle("build " + name)
		if step, err := b.runSteps(ctx, lib, steps, runner, opts, binDirs, emit, timer); err != nil {
			emit(Event{Library: name, Phase: PhaseFail, Step: step, Err: err})
			return rep, err
		}
		if dir := binDir(lib); dir != "" {
			binDirs = append(binDirs, dir)
		}

		if !opts.DryRun && b.state != nil && digest != "" {
			ls := state.LibraryState{SourceHash: digest, BuiltAt: opts.now().Format(time.RFC3339), BuildTypes: types}
			if err := b.state.Set(name, ls); err != nil {
				return rep, fmt.Errorf("save state of %s: %w", name, err)
			}
		}
		logging.Success("built: " + name)
		rep.Built = append(rep.Built, name)
		emit(Event{Library: name, Phase: PhaseDone, Elapsed: opts.now().Sub(started)})
	}
	timer.Done()
	return rep, nil
}

// runSteps runs the steps of lib and publishes the result. Programs
// installed by libraries built earlier are on PATH meanwhile. It returns
// the name of the failing step.
func (b *Builder) runSteps(ctx context.Context, lib config.Library, steps []Step, runner Runner, opts Options, binDirs []string, emit func(Event), timer *logging.StepTimer) (string, error) {
	if len(binDirs) > 0 {
		restore := fsutil.PrependPath(binDirs...)
		defer restore()
	}
	for _, s := range steps {
		if !opts.DryRun && s.Cmd.Dir != "" {
			if err := fsutil.MakeDir(s.Cmd.Dir); err != nil {
				return s.Name, err
			}
		}
		if err := runner.Run(ctx, lib.Name, s.Name, s.Cmd); err != nil {
			return s.Name, err
		}
		emit(Event{Library: lib.Name, Phase: PhaseStep, Step: s.Name})
		timer.Step()
	}
	if lib.Publish == nil {
		return "", nil
	}
	if err := publish(lib, opts.DryRun); err != nil {
		return "publish", err
	}
	emit(Event{Library: lib.Name, Phase: PhaseStep, Step: "publish"})
	return "", nil
}
