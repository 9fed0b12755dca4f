package fsutil

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, EnsureFileDir(path))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func read(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(b)
}

func TestPrependPath(t *testing.T) {
	t.Setenv("PATH", "/usr/bin")
	sep := string(os.PathListSeparator)

	restore := PrependPath("/opt/a", "/opt/b")
	assert.Equal(t, "/opt/a"+sep+"/opt/b"+sep+"/usr/bin", os.Getenv("PATH"))
	restore()
	assert.Equal(t, "/usr/bin", os.Getenv("PATH"))

	t.Setenv("PATH", "")
	restore = PrependPath("/opt/c")
	assert.Equal(t, "/opt/c", os.Getenv("PATH"))
	restore()
	assert.Equal(t, "", os.Getenv("PATH"))
}

func TestRemoveFileGlob(t *testing.T) {
	dir := t.TempDir()
	write(t, filepath.Join(dir, "a.o"), "a")
	write(t, filepath.Join(dir, "b.o"), "b")
	write(t, filepath.Join(dir, "c.c"), "c")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "d.o"), 0o755))

	require.NoError(t, RemoveFile(filepath.Join(dir, "*.o")))
	assert.NoFileExists(t, filepath.Join(dir, "a.o"))
	assert.NoFileExists(t, filepath.Join(dir, "b.o"))
	assert.FileExists(t, filepath.Join(dir, "c.c"))
	assert.DirExists(t, filepath.Join(dir, "d.o"), "directories are left to RemoveDir")

	assert.NoError(t, RemoveFile(filepath.Join(dir, "missing")))
}

func TestRemoveDirAndRemake(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "build")
	write(t, filepath.Join(dir, "x", "y.txt"), "y")
	if runtime.GOOS != "windows" {
		require.NoError(t, os.Chmod(filepath.Join(dir, "x"), 0o555))
	}

	require.NoError(t, RemakeDir(dir))
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)

	require.NoError(t, RemoveDir(dir))
	assert.NoDirExists(t, dir)
	assert.NoError(t, RemoveDir(dir))
}

func TestCopyDirKeepsModeAndSymlinks(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}
	src := t.TempDir()
	write(t, filepath.Join(src, "bin", "run.sh"), "echo hi")
	require.NoError(t, os.Chmod(filepath.Join(src, "bin", "run.sh"), 0o755))
	write(t, filepath.Join(src, "lib", "libz.so.1"), "elf")
	require.NoError(t, os.Symlink("libz.so.1", filepath.Join(src, "lib", "libz.so")))

	dst := filepath.Join(t.TempDir(), "out")
	require.NoError(t, CopyDir(src, dst))

	assert.Equal(t, "echo hi", read(t, filepath.Join(dst, "bin", "run.sh")))
	fi, err := os.Stat(filepath.Join(dst, "bin", "run.sh"))
	require.NoError(t, err)
	assert.Equal(t, fs.FileMode(0o755), fi.Mode().Perm())

	target, err := os.Readlink(filepath.Join(dst, "lib", "libz.so"))
	require.NoError(t, err)
	assert.Equal(t, "libz.so.1", target)
}

func TestCopyDirExcludes(t *testing.T) {
	src := t.TempDir()
	write(t, filepath.Join(src, "main.c"), "m")
	write(t, filepath.Join(src, "build", "main.o"), "o")
	write(t, filepath.Join(src, "docs", "build.txt"), "b")
	write(t, filepath.Join(src, ".git", "HEAD"), "ref")

	dst := filepath.Join(t.TempDir(), "copy")
	require.NoError(t, CopyDir(src, dst, "build/", ".git"))

	assert.FileExists(t, filepath.Join(dst, "main.c"))
	assert.FileExists(t, filepath.Join(dst, "docs", "build.txt"), "build/ only excludes directories")
	assert.NoDirExists(t, filepath.Join(dst, "build"))
	assert.NoDirExists(t, filepath.Join(dst, ".git"))
}

func TestWalkAndDirDiff(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()
	write(t, filepath.Join(src, "same", "f.txt"), "f")
	write(t, filepath.Join(dst, "same", "f.txt"), "f")
	write(t, filepath.Join(src, "same", "new.txt"), "n")
	write(t, filepath.Join(src, "extra", "deep", "g.txt"), "g")
	write(t, filepath.Join(src, "tmp", "t.txt"), "t")

	var files []string
	require.NoError(t, WalkFiles(src, func(path string, _ fs.DirEntry) error {
		rel, _ := filepath.Rel(src, path)
		files = append(files, filepath.ToSlash(rel))
		return nil
	}))
	assert.Equal(t, []string{"extra/deep/g.txt", "same/f.txt", "same/new.txt", "tmp/t.txt"}, files)

	diffDirs, diffFiles, err := DirDiff(src, dst, "tmp/")
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(src, "extra")}, diffDirs)
	assert.Equal(t, []string{filepath.Join(src, "same", "new.txt")}, diffFiles)
}

func TestLock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "locks", "build.lock")

	unlock, err := Lock(path)
	require.NoError(t, err)

	_, err = Lock(path)
	var le *LockError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, path, le.Path)

	require.NoError(t, unlock())
	unlock, err = Lock(path)
	require.NoError(t, err)
	require.NoError(t, unlock())
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "src", "zlib"), ExpandHome("~/src/zlib"))
	assert.Equal(t, home, ExpandHome("~"))
	assert.Equal(t, "/opt/~x", ExpandHome("/opt/~x"))
	assert.Equal(t, "~user/x", ExpandHome("~user/x"))
}
