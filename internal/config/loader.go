package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

var current Config

func Get() Config { return current }

// ListYAML returns the *.yaml and *.yml files directly inside dir.
func ListYAML(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	return sortedYAML(files), nil
}

// LoadDefaultsAndFiles parses defaultsYAML and overlays every YAML file in
// sorted order. Libraries may be defined only once across all sources;
// settings sections are merged field by field, later files winning.
func LoadDefaultsAndFiles(defaultsYAML []byte, files []string) (Config, error) {
	var base Config
	if len(defaultsYAML) > 0 {
		if err := yaml.Unmarshal(defaultsYAML, &base); err != nil {
			return Config{}, fmt.Errorf("defaults: %w", err)
		}
	}
	merged := base
	seen := map[string]string{}
	for _, l := range base.Libraries {
		seen[l.Name] = "defaults"
	}
	for _, f := range sortedYAML(files) {
		b, err := os.ReadFile(f)
		if err != nil {
			return Config{}, err
		}
		var part Config
		if err := yaml.Unmarshal(b, &part); err != nil {
			return Config{}, fmt.Errorf("%s: %w", f, err)
		}
		if err := checkLibDuplicatesWithFiles(seen, part, f); err != nil {
			return Config{}, err
		}
		merged = mergeConfig(merged, part)
	}
	if err := validateNoDuplicates(merged); err != nil {
		return Config{}, err
	}
	current = merged
	return merged, nil
}

func validateNoDuplicates(cfg Config) error {
	seen := map[string]struct{}{}
	for _, l := range cfg.Libraries {
		if _, ok := seen[l.Name]; ok {
			return fmt.Errorf("duplicate library name: %s", l.Name)
		}
		seen[l.Name] = struct{}{}
	}
	return nil
}

// Validate checks what the JSON Schema cannot express: kind specific
// sections and references between libraries.
func Validate(cfg Config) error {
	var errs []error
	for _, l := range cfg.Libraries {
		switch l.Kind {
		case KindCMake:
			if l.SourceDir == "" {
				errs = append(errs, fmt.Errorf("library %s: source_dir is required for kind cmake", l.Name))
			}
		case KindPyInstaller:
			if l.PyInstaller == nil || l.PyInstaller.Main == "" {
				errs = append(errs, fmt.Errorf("library %s: pyinstaller.main is required for kind pyinstaller", l.Name))
			}
		case KindCommand:
			if strings.TrimSpace(l.Build.Command) == "" {
				errs = append(errs, fmt.Errorf("library %s: build command is required for kind command", l.Name))
			}
		default:
			errs = append(errs, fmt.Errorf("library %s: unknown kind %q", l.Name, l.Kind))
		}
		for _, d := range l.DependsOn {
			if d == l.Name {
				errs = append(errs, fmt.Errorf("library %s depends on itself", l.Name))
			}
		}
	}
	return errors.Join(errs...)
}

func sortedYAML(files []string) []string {
	out := make([]string, 0, len(files))
	for _, f := range files {
		lf := strings.ToLower(f)
		if strings.HasSuffix(lf, ".yaml") || strings.HasSuffix(lf, ".yml") {
			out = append(out, f)
		}
	}
	sort.Strings(out)
	return out
}

func mergeConfig(base, overlay Config) Config {
	out := base
	out.Libraries = make([]Library, 0, len(base.Libraries)+len(overlay.Libraries))
	out.Libraries = append(out.Libraries, base.Libraries...)
	out.Libraries = append(out.Libraries, overlay.Libraries...)

	if len(overlay.Dependencies) > 0 {
		deps := make(map[string][]string, len(base.Dependencies)+len(overlay.Dependencies))
		for k, v := range base.Dependencies {
			deps[k] = v
		}
		for k, v := range overlay.Dependencies {
			deps[k] = append(append([]string(nil), deps[k]...), v...)
		}
		out.Dependencies = deps
	}

	out.MySQL = mergeMySQL(base.MySQL, overlay.MySQL)
	if overlay.Jenkins != nil {
		j := Jenkins{}
		if base.Jenkins != nil {
			j = *base.Jenkins
		}
		j.URL = pick(j.URL, overlay.Jenkins.URL)
		j.User = pick(j.User, overlay.Jenkins.User)
		j.Token = pick(j.Token, overlay.Jenkins.Token)
		out.Jenkins = &j
	}
	out.Log = mergeLog(base.Log, overlay.Log)
	return out
}

func mergeMySQL(a, b *MySQL) *MySQL {
	if b == nil {
		return a
	}
	out := MySQL{}
	if a != nil {
		out = *a
	}
	out.Host = pick(out.Host, b.Host)
	out.User = pick(out.User, b.User)
	out.Password = pick(out.Password, b.Password)
	out.Charset = pick(out.Charset, b.Charset)
	out.Database = pick(out.Database, b.Database)
	if b.Port != 0 {
		out.Port = b.Port
	}
	return &out
}

func mergeLog(a, b Log) Log {
	out := a
	out.Dir = pick(out.Dir, b.Dir)
	out.Level = pick(out.Level, b.Level)
	if b.File != nil {
		out.File = b.File
	}
	if b.Console != nil {
		out.Console = b.Console
	}
	return out
}

func pick(a, b string) string {
	if b != "" {
		return b
	}
	return a
}

func checkLibDuplicatesWithFiles(seen map[string]string, part Config, file string) error {
	local := map[string]struct{}{}
	for _, l := range part.Libraries {
		if _, ok := local[l.Name]; ok {
			return fmt.Errorf("duplicate library '%s' found in %s", l.Name, file)
		}
		local[l.Name] = struct{}{}
	}
	for _, l := range part.Libraries {
		if prev, ok := seen[l.Name]; ok {
			return fmt.Errorf("duplicate library '%s' found in %s and %s", l.Name, prev, file)
		}
	}
	for _, l := range part.Libraries {
		seen[l.Name] = file
	}
	return nil
}
