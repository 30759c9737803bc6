// Package adapter contains infrastructure adapters for the solmut CLI:
// filesystem access, the Solidity parser, the compiler and the test runner.
package adapter

import (
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"path/filepath"

	m "solmut.dev/pkg/solmut/internal/model"
)

// FilepathWalkFunc mirrors the callback shape used by filepath.Walk so the
// domain layer does not import the standard-library type directly.
type FilepathWalkFunc func(path string, info os.FileInfo, err error) error

// SourceFSAdapter abstracts filesystem operations the domain layer relies on
// when scanning and rewriting user projects, so workflow logic can be tested
// without touching the disk.
type SourceFSAdapter interface {
	// Walk traverses the provided root path recursively.
	Walk(root m.Path, fn FilepathWalkFunc) error

	// ReadFile loads a file from disk and returns its contents.
	ReadFile(path m.Path) ([]byte, error)

	// WriteFile writes content to a file with the given permissions.
	WriteFile(path m.Path, content []byte, perm os.FileMode) error

	// MkdirAll creates a directory and any missing parents.
	MkdirAll(path m.Path, perm os.FileMode) error

	// FileInfo returns metadata for a path.
	FileInfo(path m.Path) (os.FileInfo, error)

	// HashFile returns a stable fingerprint (SHA-256) for the file at path.
	HashFile(path m.Path) (string, error)

	// FindProjectRoot searches for a foundry.toml walking up the directory tree.
	FindProjectRoot(startPath m.Path) (m.Path, error)

	// AbsPath resolves a path to its absolute form.
	AbsPath(path m.Path) (m.Path, error)

	// RelPath returns the relative path from base to target.
	RelPath(base, target m.Path) (m.Path, error)

	// JoinPath joins path elements into a single path.
	JoinPath(elem ...string) m.Path
}

// LocalSourceFSAdapter is the os-backed SourceFSAdapter implementation.
type LocalSourceFSAdapter struct{}

// NewLocalSourceFSAdapter constructs a LocalSourceFSAdapter.
func NewLocalSourceFSAdapter() *LocalSourceFSAdapter {
	return &LocalSourceFSAdapter{}
}

// Walk iterates over files under root, descending into subdirectories but
// skipping dependency and VCS trees.
func (a *LocalSourceFSAdapter) Walk(root m.Path, fn FilepathWalkFunc) error {
	return filepath.Walk(string(root), func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return fn(path, info, err)
		}

		if info.IsDir() {
			base := filepath.Base(path)
			if base == ".git" || base == "lib" || base == "node_modules" || base == "out" || base == "cache" {
				return filepath.SkipDir
			}
		}

		return fn(path, info, nil)
	})
}

// ReadFile loads file contents from disk.
func (a *LocalSourceFSAdapter) ReadFile(path m.Path) ([]byte, error) {
	return os.ReadFile(string(path))
}

// WriteFile writes content to a file with the given permissions.
func (a *LocalSourceFSAdapter) WriteFile(path m.Path, content []byte, perm os.FileMode) error {
	return os.WriteFile(string(path), content, perm)
}

// MkdirAll creates a directory and any missing parents.
func (a *LocalSourceFSAdapter) MkdirAll(path m.Path, perm os.FileMode) error {
	return os.MkdirAll(string(path), perm)
}

// FileInfo returns os.FileInfo metadata for the given path.
func (a *LocalSourceFSAdapter) FileInfo(path m.Path) (os.FileInfo, error) {
	return os.Stat(string(path))
}

// HashFile returns the SHA-256 hash of the file at the provided path.
func (a *LocalSourceFSAdapter) HashFile(path m.Path) (string, error) {
	f, err := os.Open(string(path))
	if err != nil {
		return "", err
	}

	defer func() {
		_ = f.Close()
	}()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}

	return fmt.Sprintf("%x", h.Sum(nil)), nil
}

// FindProjectRoot searches for a foundry.toml walking up the directory tree.
func (a *LocalSourceFSAdapter) FindProjectRoot(startPath m.Path) (m.Path, error) {
	dir := string(startPath)

	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		dir = filepath.Dir(dir)
	}

	for {
		manifest := filepath.Join(dir, "foundry.toml")
		if _, err := os.Stat(manifest); err == nil {
			return m.Path(dir), nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("foundry.toml not found in any parent directory of %s", startPath)
		}

		dir = parent
	}
}

// AbsPath resolves a path to its absolute form.
func (a *LocalSourceFSAdapter) AbsPath(path m.Path) (m.Path, error) {
	abs, err := filepath.Abs(string(path))
	if err != nil {
		return "", err
	}

	return m.Path(abs), nil
}

// RelPath returns the relative path from base to target.
func (a *LocalSourceFSAdapter) RelPath(base, target m.Path) (m.Path, error) {
	rel, err := filepath.Rel(string(base), string(target))
	if err != nil {
		return "", err
	}

	return m.Path(rel), nil
}

// JoinPath joins path elements into a single path.
func (a *LocalSourceFSAdapter) JoinPath(elem ...string) m.Path {
	return m.Path(filepath.Join(elem...))
}
