package assets

import (
	_ "embed"
	"errors"
	"os"
	"path/filepath"
)

//go:embed defaults.yaml
var defaults []byte

//go:embed axe.yaml
var exampleConfig []byte

// ConfigFileName is the file written into an empty config directory.
const ConfigFileName = "axe.yaml"

// Defaults is the built-in settings layer the user's files are merged over.
func Defaults() []byte { return defaults }

// WriteDefaultConfigIfMissing writes an example axe.yaml to targetDir if it
// does not exist.
func WriteDefaultConfigIfMissing(targetDir string) error {
	if targetDir == "" {
		return errors.New("empty targetDir")
	}
	if err := os.MkdirAll(targetDir, 0o755); err != nil {
		return err
	}
	p := filepath.Join(targetDir, ConfigFileName)
	if _, err := os.Stat(p); err == nil {
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return os.WriteFile(p, exampleConfig, 0o644)
}
