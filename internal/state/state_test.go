package state

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestManager_SetGet(t *testing.T) {
	tmpDir := t.TempDir()
	m, err := NewManager(tmpDir)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}

	ls := LibraryState{
		SourceHash: "abc123",
		BuiltAt:    time.Now().Format(time.RFC3339),
		BuildTypes: []string{"Release"},
	}
	if err := m.Set("zlib", ls); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, ok := m.Get("zlib")
	if !ok {
		t.Fatal("Get: not found")
	}
	if got.SourceHash != ls.SourceHash {
		t.Errorf("SourceHash = %q, want %q", got.SourceHash, ls.SourceHash)
	}
}

func TestManager_Persistence(t *testing.T) {
	tmpDir := t.TempDir()
	m1, err := NewManager(tmpDir)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}

	if err := m1.Set("lua", LibraryState{SourceHash: "h1", BuiltAt: time.Now().Format(time.RFC3339)}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := m1.Set("axe", LibraryState{SourceHash: "h2"}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := m1.Remove("axe"); err != nil {
		t.Fatalf("Remove: %v", err)
	}

	m2, err := NewManager(tmpDir)
	if err != nil {
		t.Fatalf("NewManager (reload): %v", err)
	}
	got, ok := m2.Get("lua")
	if !ok {
		t.Fatal("Get after reload: not found")
	}
	if got.SourceHash != "h1" {
		t.Errorf("SourceHash = %q, want %q", got.SourceHash, "h1")
	}
	if names := m2.Names(); len(names) != 1 || names[0] != "lua" {
		t.Errorf("Names() = %v, want [lua]", names)
	}
}

func TestManager_CorruptFile(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(tmpDir, "state.json"), []byte("{"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := NewManager(tmpDir); err == nil {
		t.Fatal("expected error for corrupt state file")
	}
}

func TestManager_UpToDate(t *testing.T) {
	m, err := NewManager(t.TempDir())
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	if err := m.Set("mariadb", LibraryState{SourceHash: "h", BuildTypes: []string{"Debug", "Release"}}); err != nil {
		t.Fatalf("Set: %v", err)
	}

	tests := []struct {
		name       string
		lib        string
		hash       string
		buildTypes []string
		want       bool
	}{
		{"same hash and types", "mariadb", "h", []string{"Release"}, true},
		{"no types requested", "mariadb", "h", nil, true},
		{"changed sources", "mariadb", "h2", []string{"Release"}, false},
		{"new build type", "mariadb", "h", []string{"RelWithDebInfo"}, false},
		{"never built", "zlib", "h", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := m.UpToDate(tt.lib, tt.hash, tt.buildTypes); got != tt.want {
				t.Errorf("UpToDate(%q, %q, %v) = %v, want %v", tt.lib, tt.hash, tt.buildTypes, got, tt.want)
			}
		})
	}
}
