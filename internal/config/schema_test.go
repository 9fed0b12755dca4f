package config

import (
	"strings"
	"testing"
)

func TestValidateAgainstSchema_Valid(t *testing.T) {
	yes := true
	cfg := Config{
		Libraries: []Library{
			{
				Name:      "zlib",
				Kind:      KindCMake,
				SourceDir: "/src/zlib",
				CMake:     &CMake{BuildTypes: []string{"Debug", "Release"}, X64: true, VSVersion: 14},
			},
			{
				Name:        "tool",
				Kind:        KindPyInstaller,
				DependsOn:   []string{"zlib"},
				PyInstaller: &PyInstaller{Main: "main.py", Datas: []DataFile{{Src: "res", Dst: "res"}}},
				Publish:     &Publish{Dir: "/opt/tool", Exclude: []string{".pdb"}, Clean: true},
			},
			{
				Name:  "lua",
				Kind:  KindCommand,
				Build: Command{Command: "make linux", Env: map[string]string{"CC": "gcc"}},
			},
		},
		Dependencies: map[string][]string{"tool": {"python3"}},
		MySQL:        &MySQL{Host: "localhost", Port: 3306},
		Jenkins:      &Jenkins{URL: "https://ci.example.com/"},
		Log:          Log{Level: "info", File: &yes},
	}
	if err := ValidateAgainstSchema(cfg); err != nil {
		t.Fatalf("expected valid schema, got error: %v", err)
	}
}

func TestValidateAgainstSchema_Invalid(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"bad kind", Config{Libraries: []Library{{Name: "zlib", Kind: "scons"}}}},
		{"bad build type", Config{Libraries: []Library{{Name: "zlib", Kind: KindCMake, CMake: &CMake{BuildTypes: []string{"Fast"}}}}}},
		{"bad name", Config{Libraries: []Library{{Name: "has space", Kind: KindCommand}}}},
		{"bad port", Config{MySQL: &MySQL{Port: 70000}}},
		{"bad level", Config{Log: Log{Level: "trace"}}},
		{"publish without dir", Config{Libraries: []Library{{Name: "lua", Kind: KindCommand, Publish: &Publish{From: "bin"}}}}},
		{"bad jenkins url", Config{Jenkins: &Jenkins{URL: "ci.local"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAgainstSchema(tt.cfg)
			if err == nil {
				t.Fatalf("expected schema error")
			}
			if !strings.HasPrefix(err.Error(), "schema validation failed") {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}
