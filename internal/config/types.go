package config

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/axekit/axe/internal/collection"
	"github.com/axekit/axe/internal/depend"
)

const (
	KindCMake       = "cmake"
	KindPyInstaller = "pyinstaller"
	KindCommand     = "command"
)

type Library struct {
	Name        string       `yaml:"name" json:"name"`
	Kind        string       `yaml:"kind" json:"kind"`
	SourceDir   string       `yaml:"source_dir" json:"source_dir,omitempty"`
	DependsOn   []string     `yaml:"depends_on" json:"depends_on,omitempty"`
	Build       Command      `yaml:"build" json:"build,omitzero"`
	CMake       *CMake       `yaml:"cmake" json:"cmake,omitempty"`
	PyInstaller *PyInstaller `yaml:"pyinstaller" json:"pyinstaller,omitempty"`
	Publish     *Publish     `yaml:"publish" json:"publish,omitempty"`
}

// Publish copies build output to Dir after a successful build. From
// defaults to the install dir of cmake libraries, the pyinstaller dist
// dir or the source dir.
type Publish struct {
	Dir     string   `yaml:"dir" json:"dir"`
	From    string   `yaml:"from" json:"from,omitempty"`
	Exclude []string `yaml:"exclude" json:"exclude,omitempty"`
	Clean   bool     `yaml:"clean" json:"clean,omitempty"`
}

type CMake struct {
	BuildDir     string   `yaml:"build_dir" json:"build_dir,omitempty"`
	InstallDir   string   `yaml:"install_dir" json:"install_dir,omitempty"`
	BuildTypes   []string `yaml:"build_types" json:"build_types,omitempty"`
	ExtraOptions string   `yaml:"extra_options" json:"extra_options,omitempty"`
	X64          bool     `yaml:"x64" json:"x64,omitempty"`
	VSVersion    int      `yaml:"vs_version" json:"vs_version,omitempty"`
	Jobs         int      `yaml:"jobs" json:"jobs,omitempty"`
}

type DataFile struct {
	Src string `yaml:"src" json:"src"`
	Dst string `yaml:"dst" json:"dst"`
}

type PyInstaller struct {
	Main      string     `yaml:"main" json:"main"`
	Name      string     `yaml:"name" json:"name,omitempty"`
	OneFile   bool       `yaml:"one_file" json:"one_file,omitempty"`
	Debug     bool       `yaml:"debug" json:"debug,omitempty"`
	Datas     []DataFile `yaml:"datas" json:"datas,omitempty"`
	Paths     []string   `yaml:"paths" json:"paths,omitempty"`
	NoConsole bool       `yaml:"no_console" json:"no_console,omitempty"`
	Extra     string     `yaml:"extra" json:"extra,omitempty"`
}

type MySQL struct {
	Host     string `yaml:"host" json:"host,omitempty"`
	Port     int    `yaml:"port" json:"port,omitempty"`
	User     string `yaml:"user" json:"user,omitempty"`
	Password string `yaml:"password" json:"password,omitempty"`
	Charset  string `yaml:"charset" json:"charset,omitempty"`
	Database string `yaml:"database" json:"database,omitempty"`
}

type Jenkins struct {
	URL   string `yaml:"url" json:"url"`
	User  string `yaml:"user" json:"user,omitempty"`
	Token string `yaml:"token" json:"token,omitempty"`
}

type Log struct {
	Dir     string `yaml:"dir" json:"dir,omitempty"`
	Level   string `yaml:"level" json:"level,omitempty"`
	File    *bool  `yaml:"file" json:"file,omitempty"`
	Console *bool  `yaml:"console" json:"console,omitempty"`
}

type Config struct {
	Libraries    []Library           `yaml:"libraries" json:"libraries,omitempty"`
	Dependencies map[string][]string `yaml:"dependencies" json:"dependencies,omitempty"`
	MySQL        *MySQL              `yaml:"mysql" json:"mysql,omitempty"`
	Jenkins      *Jenkins            `yaml:"jenkins" json:"jenkins,omitempty"`
	Log          Log                 `yaml:"log" json:"log,omitzero"`
}

// Library looks up a configured library by name.
func (c Config) Library(name string) (Library, bool) {
	for _, l := range c.Libraries {
		if l.Name == name {
			return l, true
		}
	}
	return Library{}, false
}

// DependencyMap combines every library's depends_on with the hand-written
// dependencies table. Lists keep first-seen order without duplicates.
func (c Config) DependencyMap() depend.Map {
	m := depend.Map{}
	for _, l := range c.Libraries {
		if len(l.DependsOn) > 0 {
			m[l.Name] = append(m[l.Name], l.DependsOn...)
		}
	}
	for name, deps := range c.Dependencies {
		if len(deps) > 0 {
			m[name] = append(m[name], deps...)
		}
	}
	for name, deps := range m {
		m[name] = collection.Unique(deps)
	}
	return m
}

// LibraryNames returns configured library names in file order.
func (c Config) LibraryNames() []string {
	out := make([]string, 0, len(c.Libraries))
	for _, l := range c.Libraries {
		out = append(out, l.Name)
	}
	return out
}

type Command struct {
	Command     string            `yaml:"command" json:"command"`
	RequireRoot bool              `yaml:"require_root" json:"require_root,omitempty"`
	Dir         string            `yaml:"dir" json:"dir,omitempty"`
	Env         map[string]string `yaml:"env" json:"env,omitempty"`
}

func (c *Command) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		*c = Command{Command: value.Value}
		return nil
	case yaml.MappingNode:
		var aux struct {
			Command     string            `yaml:"command"`
			RequireRoot *bool             `yaml:"require_root"`
			Dir         string            `yaml:"dir"`
			Env         map[string]string `yaml:"env"`
		}
		if err := value.Decode(&aux); err != nil {
			return err
		}
		*c = Command{Command: aux.Command, Dir: aux.Dir, Env: aux.Env}
		if aux.RequireRoot != nil {
			c.RequireRoot = *aux.RequireRoot
		}
		return nil
	default:
		return fmt.Errorf("invalid command node kind: %d", value.Kind)
	}
}
