// Package pyinstaller builds the command line that freezes a Python
// program into an executable.
package pyinstaller

import (
	"path/filepath"
	"strings"

	"github.com/axekit/axe/internal/config"
	"github.com/axekit/axe/internal/executil"
)

var Tool = executil.NewTool("pyinstaller")

type Data struct {
	Src string
	// Dst is the directory inside the bundle.
	Dst string
}

type Options struct {
	Main    string
	Name    string
	OneFile bool
	Debug   bool
	Datas   []Data
	Paths   []string
	// NoConsole hides the console window of GUI programs.
	NoConsole bool
	// Extra is appended verbatim.
	Extra string
}

func FromConfig(lib config.Library) Options {
	p := lib.PyInstaller
	if p == nil {
		return Options{Name: lib.Name, OneFile: true}
	}
	o := Options{
		Main:      p.Main,
		Name:      p.Name,
		OneFile:   p.OneFile,
		Debug:     p.Debug,
		Paths:     p.Paths,
		NoConsole: p.NoConsole,
		Extra:     p.Extra,
	}
	if o.Name == "" {
		o.Name = lib.Name
	}
	for _, d := range p.Datas {
		o.Datas = append(o.Datas, Data{Src: d.Src, Dst: d.Dst})
	}
	return o
}

// Args renders the pyinstaller arguments for goos.
func (o Options) Args(goos string) []string {
	args := []string{o.Main, "--name", o.Name}
	if o.OneFile {
		args = append(args, "--onefile")
	} else {
		args = append(args, "--onedir")
	}
	if o.Debug {
		args = append(args, "--debug")
	}
	sep := ":"
	if goos == "windows" {
		sep = ";"
	}
	for _, d := range o.Datas {
		args = append(args, "--add-data", d.Src+sep+d.Dst)
	}
	for _, p := range o.Paths {
		args = append(args, "--paths", strings.ReplaceAll(p, `\`, "/"))
	}
	if o.NoConsole {
		args = append(args, "--noconsole")
	}
	if e := strings.TrimSpace(o.Extra); e != "" {
		args = append(args, e)
	}
	return args
}

// Command is the full shell command for goos.
func (o Options) Command(goos string) config.Command {
	return Tool.Command(o.Args(goos)...)
}

// DistDir is where pyinstaller leaves the frozen program when run in
// sourceDir. One-dir builds get a folder named after the program.
func (o Options) DistDir(sourceDir string) string {
	if o.OneFile {
		return filepath.Join(sourceDir, "dist")
	}
	return filepath.Join(sourceDir, "dist", o.Name)
}

// WorkDirs are the directories a pyinstaller run leaves behind in
// sourceDir besides the spec file.
func WorkDirs(sourceDir string) []string {
	return []string{filepath.Join(sourceDir, "build"), filepath.Join(sourceDir, "dist")}
}
