package builder

import (
	"fmt"
	"path/filepath"

	"github.com/axekit/axe/internal/cmake"
	"github.com/axekit/axe/internal/config"
	"github.com/axekit/axe/internal/fsutil"
	"github.com/axekit/axe/internal/logging"
	"github.com/axekit/axe/internal/pyinstaller"
)

// publishDirs resolves where the published output of lib comes from and
// where it goes.
func publishDirs(lib config.Library) (from, to string) {
	lib = resolveDirs(lib)
	to = lib.Publish.Dir
	switch {
	case lib.Publish.From != "":
		from = lib.Publish.From
	case lib.Kind == config.KindCMake:
		from = cmake.FromConfig(lib).InstallDir
	case lib.Kind == config.KindPyInstaller:
		from = pyinstaller.FromConfig(lib).DistDir(lib.SourceDir)
	default:
		from = lib.SourceDir
	}
	return from, to
}

// publish copies the output of lib into its publish dir. A dry run only
// reports what the copy would add.
func publish(lib config.Library, dryRun bool) error {
	from, to := publishDirs(lib)
	if !fsutil.IsDir(from) {
		if dryRun {
			logging.Gray(fmt.Sprintf("%s [publish]: %s -> %s", lib.Name, from, to))
			return nil
		}
		return fmt.Errorf("publish %s: %s is not a directory", lib.Name, from)
	}
	excludes := lib.Publish.Exclude
	dirs, files, err := fsutil.DirDiff(from, to, excludes...)
	if err != nil {
		return fmt.Errorf("publish %s: %w", lib.Name, err)
	}
	logging.Info(fmt.Sprintf("publish %s: %s -> %s (%d new dirs, %d new files)", lib.Name, from, to, len(dirs), len(files)))
	for _, p := range append(dirs, files...) {
		if rel, err := filepath.Rel(from, p); err == nil {
			p = rel
		}
		logging.Debug("  + " + p)
	}
	if dryRun {
		return nil
	}
	if lib.Publish.Clean {
		if err := fsutil.RemakeDir(to); err != nil {
			return fmt.Errorf("publish %s: %w", lib.Name, err)
		}
	}
	if err := fsutil.CopyDir(from, to, excludes...); err != nil {
		return fmt.Errorf("publish %s: %w", lib.Name, err)
	}
	return nil
}

// binDir is the directory holding programs installed by lib, or "" when
// it has none.
func binDir(lib config.Library) string {
	if lib.Kind != config.KindCMake {
		return ""
	}
	dir := filepath.Join(cmake.FromConfig(resolveDirs(lib)).InstallDir, "bin")
	if !fsutil.IsDir(dir) {
		return ""
	}
	return dir
}
