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

// CleanPaths lists what a clean of lib removes. Patterns may hold globs.
func CleanPaths(lib config.Library) []string {
	lib = resolveDirs(lib)
	switch lib.Kind {
	case config.KindCMake:
		return []string{cmake.FromConfig(lib).BuildDir}
	case config.KindPyInstaller:
		return append(pyinstaller.WorkDirs(lib.SourceDir), filepath.Join(lib.SourceDir, "*.spec"))
	}
	return nil
}

// Clean removes the build output of names and forgets their state, so the
// next build runs every step. Dependencies are left alone.
func (b *Builder) Clean(names []string, dryRun bool) error {
	for _, name := range names {
		lib, ok := b.cfg.Library(name)
		if !ok {
			return fmt.Errorf("library %s is not configured", name)
		}
		for _, p := range CleanPaths(lib) {
			if dryRun {
				logging.Gray(fmt.Sprintf("%s [clean]: %s", name, p))
				continue
			}
			logging.Info("remove " + p)
			if err := fsutil.RemoveDir(p); err != nil {
				return fmt.Errorf("clean %s: %w", name, err)
			}
			if err := fsutil.RemoveFile(p); err != nil {
				return fmt.Errorf("clean %s: %w", name, err)
			}
		}
		if dryRun || b.state == nil {
			continue
		}
		if _, ok := b.state.Get(name); ok {
			if err := b.state.Remove(name); err != nil {
				return fmt.Errorf("clean %s: %w", name, err)
			}
		}
	}
	return nil
}
