package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func writeYAML(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestLoadDefaultsAndFiles_MergeOK(t *testing.T) {
	dir := t.TempDir()
	f1 := filepath.Join(dir, "a.yaml")
	f2 := filepath.Join(dir, "b.yaml")
	writeYAML(t, f1, `
libraries:
  - name: zlib
    kind: cmake
    source_dir: /src/zlib
    cmake:
      build_types: [Release]
dependencies:
  mariadb: [m]
`)
	writeYAML(t, f2, `
libraries:
  - name: mariadb
    kind: command
    source_dir: /src/mariadb
    depends_on: [zlib]
    build: "make -C {source_dir}"
dependencies:
  mariadb: [dl]
mysql:
  host: db.local
`)
	cfg, err := LoadDefaultsAndFiles(nil, []string{f2, f1, filepath.Join(dir, "notes.txt")})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got := cfg.LibraryNames(); !reflect.DeepEqual(got, []string{"zlib", "mariadb"}) {
		t.Fatalf("libraries = %v, want files merged in sorted order", got)
	}
	if got := cfg.Dependencies["mariadb"]; !reflect.DeepEqual(got, []string{"m", "dl"}) {
		t.Fatalf("dependencies[mariadb] = %v", got)
	}
	lib, ok := cfg.Library("mariadb")
	if !ok || lib.Build.Command != "make -C {source_dir}" {
		t.Fatalf("scalar build command not decoded: %+v", lib.Build)
	}
	if cfg.MySQL == nil || cfg.MySQL.Host != "db.local" {
		t.Fatalf("mysql section lost: %+v", cfg.MySQL)
	}
	if Get().MySQL == nil {
		t.Fatalf("Get() does not return the last loaded config")
	}
}

func TestLoadDefaultsAndFiles_DuplicateAcrossFiles_ErrorMentionsFiles(t *testing.T) {
	dir := t.TempDir()
	f1 := filepath.Join(dir, "a.yaml")
	f2 := filepath.Join(dir, "b.yaml")
	writeYAML(t, f1, `
libraries:
  - name: lua
    kind: command
    build: make
`)
	writeYAML(t, f2, `
libraries:
  - name: lua
    kind: command
    build: make all
`)
	_, err := LoadDefaultsAndFiles(nil, []string{f1, f2})
	if err == nil {
		t.Fatalf("expected duplicate error")
	}
	if !strings.Contains(err.Error(), "a.yaml") || !strings.Contains(err.Error(), "b.yaml") {
		t.Fatalf("error should mention both files, got: %v", err)
	}
}

func TestLoadDefaultsAndFiles_DuplicateWithinFile(t *testing.T) {
	dir := t.TempDir()
	f := filepath.Join(dir, "u.yaml")
	writeYAML(t, f, `
libraries:
  - name: lua
    kind: command
    build: make
  - name: lua
    kind: command
    build: make
`)
	_, err := LoadDefaultsAndFiles(nil, []string{f})
	if err == nil || !strings.Contains(err.Error(), "u.yaml") {
		t.Fatalf("expected duplicate error naming u.yaml, got: %v", err)
	}
}

func TestLoadDefaultsAndFiles_DuplicateWithDefaults_ErrorMentionsDefaults(t *testing.T) {
	dir := t.TempDir()
	f := filepath.Join(dir, "u.yaml")
	writeYAML(t, f, `
libraries:
  - name: tool
    kind: command
    build: make
`)
	defaults := []byte(`
libraries:
  - name: tool
    kind: command
    build: make
`)
	_, err := LoadDefaultsAndFiles(defaults, []string{f})
	if err == nil {
		t.Fatalf("expected duplicate error")
	}
	if !strings.Contains(err.Error(), "defaults") || !strings.Contains(err.Error(), "u.yaml") {
		t.Fatalf("error should mention defaults and user file, got: %v", err)
	}
}

func TestLoadDefaultsAndFiles_OverlaySettings(t *testing.T) {
	dir := t.TempDir()
	f := filepath.Join(dir, "user.yaml")
	writeYAML(t, f, `
log:
  level: debug
  console: false
mysql:
  password: secret
jenkins:
  url: http://ci.local/
`)
	defaults := []byte(`
log:
  level: info
  file: true
  console: true
mysql:
  port: 3306
  charset: utf8mb4
`)

	cfg, err := LoadDefaultsAndFiles(defaults, []string{f})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if cfg.Log.Level != "debug" {
		t.Fatalf("level not overridden: %s", cfg.Log.Level)
	}
	if cfg.Log.File == nil || !*cfg.Log.File {
		t.Fatalf("file sink lost from defaults")
	}
	if cfg.Log.Console == nil || *cfg.Log.Console {
		t.Fatalf("console sink not overridden")
	}
	if cfg.MySQL.Port != 3306 || cfg.MySQL.Charset != "utf8mb4" || cfg.MySQL.Password != "secret" {
		t.Fatalf("mysql not merged: %+v", *cfg.MySQL)
	}
	if cfg.Jenkins == nil || cfg.Jenkins.URL != "http://ci.local/" {
		t.Fatalf("jenkins not loaded: %+v", cfg.Jenkins)
	}
}

func TestLoadDefaultsAndFiles_DefaultsOnly(t *testing.T) {
	defaults := []byte(`
log:
  level: warn
`)
	cfg, err := LoadDefaultsAndFiles(defaults, nil)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if cfg.Log.Level != "warn" {
		t.Fatalf("defaults not loaded correctly")
	}
}

func TestCommand_MappingForm(t *testing.T) {
	dir := t.TempDir()
	f := filepath.Join(dir, "a.yaml")
	writeYAML(t, f, `
libraries:
  - name: openssl
    kind: command
    build:
      command: ./config && make install
      require_root: true
      dir: /src/openssl
      env:
        CC: gcc
`)
	cfg, err := LoadDefaultsAndFiles(nil, []string{f})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	b := cfg.Libraries[0].Build
	if !b.RequireRoot || b.Dir != "/src/openssl" || b.Env["CC"] != "gcc" {
		t.Fatalf("mapping form not decoded: %+v", b)
	}
}

func TestPublishSection(t *testing.T) {
	f := filepath.Join(t.TempDir(), "a.yaml")
	writeYAML(t, f, `
libraries:
  - name: lua
    kind: command
    build: make
    publish:
      dir: /opt/lua
      exclude: [".o", "doc/"]
      clean: true
`)
	cfg, err := LoadDefaultsAndFiles(nil, []string{f})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	p := cfg.Libraries[0].Publish
	if p == nil || p.Dir != "/opt/lua" || !p.Clean || !reflect.DeepEqual(p.Exclude, []string{".o", "doc/"}) {
		t.Fatalf("publish not decoded: %+v", p)
	}
	if err := ValidateAgainstSchema(cfg); err != nil {
		t.Fatalf("schema: %v", err)
	}
}

func TestListYAML(t *testing.T) {
	dir := t.TempDir()
	for _, n := range []string{"b.yml", "a.yaml", "readme.md"} {
		writeYAML(t, filepath.Join(dir, n), "")
	}
	if err := os.Mkdir(filepath.Join(dir, "sub.yaml"), 0o755); err != nil {
		t.Fatal(err)
	}
	files, err := ListYAML(dir)
	if err != nil {
		t.Fatalf("ListYAML: %v", err)
	}
	want := []string{filepath.Join(dir, "a.yaml"), filepath.Join(dir, "b.yml")}
	if !reflect.DeepEqual(files, want) {
		t.Fatalf("ListYAML = %v, want %v", files, want)
	}
}

func TestDependencyMap(t *testing.T) {
	cfg := Config{
		Libraries: []Library{
			{Name: "mariadb", DependsOn: []string{"zlib", "axe", "zlib"}},
			{Name: "zlib"},
		},
		Dependencies: map[string][]string{
			"mariadb": {"axe", "m"},
			"lua":     {"dl"},
			"empty":   nil,
		},
	}
	got := cfg.DependencyMap()
	want := map[string][]string{
		"mariadb": {"zlib", "axe", "m"},
		"lua":     {"dl"},
	}
	if len(got) != len(want) {
		t.Fatalf("DependencyMap = %v, want %v", got, want)
	}
	for k, v := range want {
		if !reflect.DeepEqual(got[k], v) {
			t.Errorf("DependencyMap[%s] = %v, want %v", k, got[k], v)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		lib     Library
		wantErr string
	}{
		{"cmake ok", Library{Name: "zlib", Kind: KindCMake, SourceDir: "/src"}, ""},
		{"cmake without source", Library{Name: "zlib", Kind: KindCMake}, "source_dir"},
		{"pyinstaller without main", Library{Name: "tool", Kind: KindPyInstaller}, "pyinstaller.main"},
		{"command without build", Library{Name: "lua", Kind: KindCommand}, "build command"},
		{"unknown kind", Library{Name: "x", Kind: "scons"}, "unknown kind"},
		{"self dependency", Library{Name: "x", Kind: KindCommand, Build: Command{Command: "make"}, DependsOn: []string{"x"}}, "depends on itself"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(Config{Libraries: []Library{tt.lib}})
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error = %v, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}
