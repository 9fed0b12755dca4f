// Package fsutil provides the file system helpers of the build: PATH
// changes, cleaning, copying with excludes, tree walks and lock files.
package fsutil

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// PrependPath puts dirs in front of PATH until restore is called.
func PrependPath(dirs ...string) (restore func()) {
	old, had := os.LookupEnv("PATH")
	add := strings.Join(dirs, string(os.PathListSeparator))
	if old == "" {
		_ = os.Setenv("PATH", add)
	} else {
		_ = os.Setenv("PATH", add+string(os.PathListSeparator)+old)
	}
	return func() {
		if had {
			_ = os.Setenv("PATH", old)
		} else {
			_ = os.Unsetenv("PATH")
		}
	}
}

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") && !strings.HasPrefix(path, `~\`) {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}

// MakeDir creates dir with its parents. An empty dir is a no-op.
func MakeDir(dir string) error {
	if dir == "" {
		return nil
	}
	return os.MkdirAll(filepath.Clean(dir), 0o755)
}

// RemakeDir empties dir, creating it when missing.
func RemakeDir(dir string) error {
	if err := RemoveDir(dir); err != nil {
		return err
	}
	return MakeDir(dir)
}

// EnsureFileDir makes sure the parent directory of path exists.
func EnsureFileDir(path string) error {
	return MakeDir(filepath.Dir(path))
}

// RemoveFile removes a file or symlink. pattern may contain glob wildcards,
// in which case every match that is not a directory is removed. Missing
// files are not an error.
func RemoveFile(pattern string) error {
	paths := []string{pattern}
	if hasGlob(pattern) {
		m, err := filepath.Glob(pattern)
		if err != nil {
			return err
		}
		paths = m
	}
	for _, p := range paths {
		fi, err := os.Lstat(p)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return err
		}
		if fi.IsDir() {
			continue
		}
		if err := removeWritable(p); err != nil {
			return err
		}
	}
	return nil
}

// RemoveDir removes a directory tree, including read-only entries. Glob
// patterns remove every matching directory.
func RemoveDir(pattern string) error {
	paths := []string{pattern}
	if hasGlob(pattern) {
		m, err := filepath.Glob(pattern)
		if err != nil {
			return err
		}
		paths = m
	}
	for _, p := range paths {
		fi, err := os.Lstat(p)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return err
		}
		if !fi.IsDir() {
			continue
		}
		if err := os.RemoveAll(p); err != nil {
			// read-only entries, retry after making everything writable
			_ = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
				if err == nil {
					_ = os.Chmod(path, 0o755)
				}
				return nil
			})
			if err := os.RemoveAll(p); err != nil {
				return err
			}
		}
	}
	return nil
}

func removeWritable(p string) error {
	err := os.Remove(p)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if chErr := os.Chmod(p, 0o644); chErr != nil {
		return err
	}
	return os.Remove(p)
}

func hasGlob(p string) bool { return strings.ContainsAny(p, "*?[") }

// copyFile copies src to dst. Symlinks are recreated, not followed, and
// the file mode is preserved.
func copyFile(src, dst string) error {
	fi, err := os.Lstat(src)
	if err != nil {
		return err
	}
	if fi.Mode()&fs.ModeSymlink != 0 {
		target, err := os.Readlink(src)
		if err != nil {
			return err
		}
		_ = os.Remove(dst)
		return os.Symlink(target, dst)
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, fi.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Chmod(dst, fi.Mode().Perm())
}

// CopyDir copies the contents of srcDir into dstDir, creating it when
// missing. A path relative to srcDir is skipped when it contains any of the
// excludes as a substring; directory paths are checked with a trailing
// slash, so "build/" excludes only directories named build.
func CopyDir(srcDir, dstDir string, excludes ...string) error {
	return copyDir(srcDir, dstDir, "", excludes)
}

func copyDir(srcDir, dstDir, rel string, excludes []string) error {
	if err := MakeDir(dstDir); err != nil {
		return err
	}
	entries, err := os.ReadDir(srcDir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		src := filepath.Join(srcDir, e.Name())
		dst := filepath.Join(dstDir, e.Name())
		check := rel + e.Name()
		if e.IsDir() {
			check += "/"
		}
		if matchAny(check, excludes) {
			continue
		}
		if e.IsDir() {
			if err := copyDir(src, dst, check, excludes); err != nil {
				return err
			}
			continue
		}
		if err := copyFile(src, dst); err != nil {
			return err
		}
	}
	return nil
}

func matchAny(path string, patterns []string) bool {
	for _, p := range patterns {
		if p != "" && strings.Contains(path, p) {
			return true
		}
	}
	return false
}

// WalkFiles calls fn for every regular file or symlink below dir in lexical
// order.
func WalkFiles(dir string, fn func(path string, d fs.DirEntry) error) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		return fn(path, d)
	})
}

// DirDiff lists what srcDir has and dstDir lacks. A missing directory is
// reported once, without its contents. Excludes work as in CopyDir. Swap the
// arguments for the opposite direction.
func DirDiff(srcDir, dstDir string, excludes ...string) (dirs, files []string, err error) {
	err = dirDiff(srcDir, dstDir, "", excludes, &dirs, &files)
	return dirs, files, err
}

func dirDiff(srcDir, dstDir, rel string, excludes []string, dirs, files *[]string) error {
	entries, err := os.ReadDir(srcDir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		src := filepath.Join(srcDir, e.Name())
		dst := filepath.Join(dstDir, e.Name())
		check := rel + e.Name()
		if e.IsDir() {
			check += "/"
			if IsDir(dst) {
				if err := dirDiff(src, dst, check, excludes, dirs, files); err != nil {
					return err
				}
			} else if !matchAny(check, excludes) {
				*dirs = append(*dirs, src)
			}
			continue
		}
		if !e.Type().IsRegular() {
			continue
		}
		if !IsFile(dst) && !matchAny(check, excludes) {
			*files = append(*files, src)
		}
	}
	return nil
}

// IsDir reports whether p exists and is a directory.
func IsDir(p string) bool {
	fi, err := os.Stat(p)
	return err == nil && fi.IsDir()
}

// IsFile reports whether p exists and is a regular file.
func IsFile(p string) bool {
	fi, err := os.Stat(p)
	return err == nil && fi.Mode().IsRegular()
}

// LockError is returned when a lock file is already held.
type LockError struct {
	Path string
}

func (e *LockError) Error() string {
	return fmt.Sprintf("failed to get lock from file %s", e.Path)
}

// Lock takes an exclusive lock by creating path. unlock removes it again.
func Lock(path string) (unlock func() error, err error) {
	if err := EnsureFileDir(path); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return nil, &LockError{Path: path}
		}
		return nil, err
	}
	_, _ = fmt.Fprintf(f, "%d\n", os.Getpid())
	return func() error {
		f.Close()
		return os.Remove(path)
	}, nil
}
