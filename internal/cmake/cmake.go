// Package cmake turns CMake build parameters into the shell steps that
// configure, build and install a project.
package cmake

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/axekit/axe/internal/config"
	"github.com/axekit/axe/internal/executil"
)

var Tool = executil.NewTool("cmake")

type Params struct {
	BuildDir string
	// SourceDir holds the top CMakeLists.txt. A relative path is relative to
	// the build directory.
	SourceDir    string
	InstallDir   string
	BuildTypes   []string
	ExtraOptions string
	X64          bool
	VSVersion    int
	// Jobs is the make job count; values below 2 build serially.
	Jobs int
}

// DefaultJobs leaves two cores free.
func DefaultJobs() int { return runtime.NumCPU() - 2 }

// FromConfig fills Params from a library's cmake section.
func FromConfig(lib config.Library) Params {
	p := Params{
		SourceDir:  lib.SourceDir,
		BuildDir:   filepath.Join(lib.SourceDir, "build"),
		InstallDir: filepath.Join(lib.SourceDir, "install"),
		BuildTypes: []string{"Release"},
		X64:        true,
		VSVersion:  12,
		Jobs:       DefaultJobs(),
	}
	c := lib.CMake
	if c == nil {
		return p
	}
	if c.BuildDir != "" {
		p.BuildDir = c.BuildDir
	}
	if c.InstallDir != "" {
		p.InstallDir = c.InstallDir
	}
	if len(c.BuildTypes) > 0 {
		p.BuildTypes = c.BuildTypes
	}
	p.ExtraOptions = c.ExtraOptions
	p.X64 = c.X64
	if c.VSVersion != 0 {
		p.VSVersion = c.VSVersion
	}
	if c.Jobs != 0 {
		p.Jobs = c.Jobs
	}
	return p
}

func (p Params) Generator(goos string) string {
	if goos != "windows" {
		return "Unix Makefiles"
	}
	g := fmt.Sprintf("Visual Studio %d", p.VSVersion)
	if p.X64 {
		g += " Win64"
	}
	return g
}

// MSBuild is the MSBuild executable shipped with the configured Visual
// Studio version.
func (p Params) MSBuild() string {
	return fmt.Sprintf(`"C:\Program Files (x86)\MSBuild\%d.0\Bin\MSBuild.exe"`, p.VSVersion)
}

func (p Params) jobsFlag() string {
	if p.Jobs >= 2 {
		return fmt.Sprintf("-j%d", p.Jobs)
	}
	return ""
}

// Step is one command and the directory it runs in.
type Step struct {
	Name string
	Dir  string
	Cmd  string
}

// Command converts the step for executil.
func (s Step) Command() config.Command {
	return config.Command{Command: s.Cmd, Dir: s.Dir}
}

// Steps lists the commands for goos. Unix builds every build type in its
// own directory with make; windows generates one Visual Studio solution and
// builds the INSTALL project once per build type.
func (p Params) Steps(goos string) []Step {
	if goos == "windows" {
		return p.windowsSteps()
	}
	var steps []Step
	for _, bt := range p.BuildTypes {
		dir := filepath.Join(p.BuildDir, bt)
		steps = append(steps,
			Step{Name: "configure " + bt, Dir: dir, Cmd: join(
				fmt.Sprintf(`cmake -G "%s" %s -DCMAKE_INSTALL_PREFIX="%s" -DCMAKE_BUILD_TYPE=%s`,
					p.Generator(goos), executil.QuoteArg(goos, p.SourceDir), p.InstallDir, bt),
				p.ExtraOptions)},
			Step{Name: "build " + bt, Dir: dir, Cmd: join("make VERBOSE=1", p.jobsFlag())},
			Step{Name: "install " + bt, Dir: dir, Cmd: "make install"},
		)
	}
	return steps
}

func (p Params) windowsSteps() []Step {
	steps := []Step{{
		Name: "configure",
		Dir:  p.BuildDir,
		Cmd: join(fmt.Sprintf(`cmake -G "%s" %s -DCMAKE_INSTALL_PREFIX="%s"`,
			p.Generator("windows"), executil.QuoteArg("windows", p.SourceDir), p.InstallDir),
			p.ExtraOptions),
	}}
	for _, bt := range p.BuildTypes {
		steps = append(steps, Step{
			Name: "build " + bt,
			Dir:  p.BuildDir,
			// building the INSTALL target with /t:INSTALL fails; /t:build on INSTALL.vcxproj installs
			Cmd: fmt.Sprintf("%s INSTALL.vcxproj /t:build /p:Configuration=%s /p:BuildInParallel=true /m", p.MSBuild(), bt),
		})
	}
	return steps
}

func join(parts ...string) string {
	var out []string
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return strings.Join(out, " ")
}
