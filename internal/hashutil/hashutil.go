// Package hashutil computes content digests of files and directory
// trees.
package hashutil

import (
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/axekit/axe/internal/fsutil"
)

// Algo selects the digest algorithm.
type Algo string

const (
	MD5    Algo = "md5"
	SHA256 Algo = "sha256"
)

func (a Algo) new() (hash.Hash, error) {
	switch a {
	case MD5, "":
		return md5.New(), nil
	case SHA256:
		return sha256.New(), nil
	}
	return nil, fmt.Errorf("unknown hash algorithm %q", string(a))
}

// File hashes the contents of a single file.
func File(path string, algo Algo) (string, error) {
	h, err := algo.new()
	if err != nil {
		return "", err
	}
	if err := feedFile(h, path); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func feedFile(h hash.Hash, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = io.Copy(h, f)
	return err
}

// ContentDigest hashes the contents of every file under dir, visited in
// lexical order, into a single digest. Names are not part of the digest.
func ContentDigest(dir string, algo Algo) (string, error) {
	h, err := algo.new()
	if err != nil {
		return "", err
	}
	err = fsutil.WalkFiles(dir, func(path string, _ fs.DirEntry) error {
		return feedFile(h, path)
	})
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// DirDigest is a digest over relative paths and contents of the files under
// dir, so renames change it too. Paths containing any of the exclude
// substrings are skipped (build output inside a source tree, .git, ...).
func DirDigest(dir string, algo Algo, exclude ...string) (string, error) {
	h, err := algo.new()
	if err != nil {
		return "", err
	}
	err = fsutil.WalkFiles(dir, func(path string, _ fs.DirEntry) error {
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		for _, ex := range exclude {
			if ex != "" && strings.Contains(rel, ex) {
				return nil
			}
		}
		_, _ = io.WriteString(h, rel)
		_, _ = h.Write([]byte{0})
		return feedFile(h, path)
	})
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
