package builder

import (
	"fmt"
	"path/filepath"

	"github.com/axekit/axe/internal/cmake"
	"github.com/axekit/axe/internal/config"
	"github.com/axekit/axe/internal/executil"
	"github.com/axekit/axe/internal/fsutil"
	"github.com/axekit/axe/internal/pyinstaller"
	"github.com/axekit/axe/internal/strutil"
)

// Step is one command of a library build.
type Step struct {
	Name string
	Cmd  config.Command
}

// resolveDirs expands ~ and makes the directories of lib absolute. The
// configuration is left untouched.
func resolveDirs(lib config.Library) config.Library {
	abs := func(p string) string {
		if p == "" {
			return ""
		}
		p = fsutil.ExpandHome(p)
		if a, err := filepath.Abs(p); err == nil {
			return a
		}
		return p
	}
	lib.SourceDir = abs(lib.SourceDir)
	if lib.CMake != nil {
		c := *lib.CMake
		c.BuildDir = abs(c.BuildDir)
		c.InstallDir = abs(c.InstallDir)
		lib.CMake = &c
	}
	lib.Build.Dir = abs(lib.Build.Dir)
	if lib.Publish != nil {
		p := *lib.Publish
		p.Dir = abs(p.Dir)
		p.From = abs(p.From)
		lib.Publish = &p
	}
	return lib
}

// Steps lists the commands building lib on goos and the tool they need, if
// any.
func Steps(lib config.Library, goos string) ([]Step, *executil.Tool, error) {
	lib = resolveDirs(lib)
	switch lib.Kind {
	case config.KindCMake:
		var steps []Step
		for _, s := range cmake.FromConfig(lib).Steps(goos) {
			steps = append(steps, Step{Name: s.Name, Cmd: s.Command()})
		}
		return steps, cmake.Tool, nil
	case config.KindPyInstaller:
		cmd := pyinstaller.FromConfig(lib).Command(goos)
		cmd.Dir = lib.SourceDir
		return []Step{{Name: "pyinstaller", Cmd: cmd}}, pyinstaller.Tool, nil
	case config.KindCommand:
		cmd := lib.Build
		cmd.Command = strutil.Format(cmd.Command, "{", "}", map[string]string{
			"name":       lib.Name,
			"source_dir": lib.SourceDir,
		})
		if cmd.Dir == "" {
			cmd.Dir = lib.SourceDir
		}
		return []Step{{Name: "build", Cmd: cmd}}, nil, nil
	}
	return nil, nil, fmt.Errorf("library %s: unknown kind %q", lib.Name, lib.Kind)
}

// buildTypes is what a successful build of lib produces, for state.
func buildTypes(lib config.Library) []string {
	if lib.Kind != config.KindCMake {
		return nil
	}
	return cmake.FromConfig(lib).BuildTypes
}
