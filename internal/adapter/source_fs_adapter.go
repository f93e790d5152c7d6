// Package adapter contains infrastructure adapters for the Varmint CLI.
package adapter

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	m "github.com/varmint-dev/varmint/internal/model"
)

// SourceFSAdapter abstracts filesystem-specific operations that the domain
// layer relies on. It intentionally hides direct `os` access so the workflow
// logic can be tested without touching the disk.
type SourceFSAdapter interface {
	// Discover returns the mutation-eligible Go files under root, as paths
	// relative to root. Test files, vendored code and files matching any of
	// the exclude regexes are filtered out.
	Discover(ctx context.Context, root m.Path, exclude ...string) ([]m.Path, error)

	// ReadFile loads a file from disk and returns its contents.
	ReadFile(ctx context.Context, path m.Path) ([]byte, error)

	// WriteFile writes content to a file with the given permissions.
	WriteFile(ctx context.Context, path m.Path, content []byte, perm os.FileMode) error

	// RemoveFile removes a single file.
	RemoveFile(ctx context.Context, path m.Path) error

	// CloneTree duplicates the tree at src into dst. Regular files are
	// hard-linked where the filesystem allows it and copied otherwise; src is
	// never opened for writing.
	CloneTree(ctx context.Context, src, dst m.Path) error

	// CreateTempDir creates a temporary directory for one tree slot.
	CreateTempDir(ctx context.Context, pattern string) (m.Path, error)

	// RemoveAll removes a directory and all its contents.
	RemoveAll(ctx context.Context, path m.Path) error

	// FindProjectRoot searches for a go.mod file walking up the directory tree.
	FindProjectRoot(ctx context.Context, startPath m.Path) (m.Path, error)

	// JoinPath joins path elements into a single path.
	JoinPath(elem ...m.Path) m.Path
}

// LocalSourceFSAdapter is the concrete implementation backed by os and
// path/filepath.
type LocalSourceFSAdapter struct{}

// NewLocalSourceFSAdapter constructs a LocalSourceFSAdapter.
func NewLocalSourceFSAdapter() *LocalSourceFSAdapter {
	return &LocalSourceFSAdapter{}
}

// skipDirs are directory names never descended into during discovery or clone.
var skipDirs = map[string]bool{
	".git":         true,
	"vendor":       true,
	"node_modules": true,
	"testdata":     true,
}

// Discover walks root collecting relative paths of non-test Go files.
func (a *LocalSourceFSAdapter) Discover(ctx context.Context, root m.Path, exclude ...string) ([]m.Path, error) {
	patterns := make([]*regexp.Regexp, 0, len(exclude))

	for _, expr := range exclude {
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", expr, err)
		}

		patterns = append(patterns, re)
	}

	var paths []m.Path

	rootStr := string(root)

	err := filepath.Walk(rootStr, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if info.IsDir() {
			if skipDirs[filepath.Base(path)] && path != rootStr {
				return filepath.SkipDir
			}

			return nil
		}

		if filepath.Ext(path) != ".go" || strings.HasSuffix(path, "_test.go") {
			return nil
		}

		rel, err := filepath.Rel(rootStr, path)
		if err != nil {
			return err
		}

		for _, re := range patterns {
			if re.MatchString(rel) {
				return nil
			}
		}

		paths = append(paths, m.Path(rel))

		return nil
	})
	if err != nil {
		return nil, err
	}

	return paths, nil
}

// ReadFile loads file contents from disk.
func (a *LocalSourceFSAdapter) ReadFile(_ context.Context, path m.Path) ([]byte, error) {
	return os.ReadFile(string(path))
}

// WriteFile writes content to a file with the given permissions.
func (a *LocalSourceFSAdapter) WriteFile(_ context.Context, path m.Path, content []byte, perm os.FileMode) error {
	return os.WriteFile(string(path), content, perm)
}

// RemoveFile removes a single file.
func (a *LocalSourceFSAdapter) RemoveFile(_ context.Context, path m.Path) error {
	return os.Remove(string(path))
}

// CloneTree duplicates src into dst, hard-linking regular files where
// possible. Callers that rewrite a file inside the clone must remove it first
// so the write never reaches the shared inode.
func (a *LocalSourceFSAdapter) CloneTree(ctx context.Context, src, dst m.Path) error {
	srcStr := string(src)

	return filepath.Walk(srcStr, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		relPath, err := filepath.Rel(srcStr, path)
		if err != nil {
			return err
		}

		if info.IsDir() {
			if skipDirs[filepath.Base(path)] && path != srcStr {
				return filepath.SkipDir
			}

			return os.MkdirAll(filepath.Join(string(dst), relPath), info.Mode())
		}

		if !info.Mode().IsRegular() {
			return nil
		}

		targetPath := filepath.Join(string(dst), relPath)
		if linkErr := os.Link(path, targetPath); linkErr == nil {
			return nil
		}

		return a.copyFile(path, targetPath, info.Mode())
	})
}

// copyFile copies a single file.
func (a *LocalSourceFSAdapter) copyFile(src, dst string, mode os.FileMode) error {
	// #nosec G304 - src is an internal project file path, not user input
	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}

	defer func() { _ = sourceFile.Close() }()

	if err := os.MkdirAll(filepath.Dir(dst), 0o750); err != nil {
		return err
	}

	// #nosec G304 - dst is an internal destination path, not user input
	destFile, err := os.Create(dst)
	if err != nil {
		return err
	}

	defer func() { _ = destFile.Close() }()

	if _, err := io.Copy(destFile, sourceFile); err != nil {
		return err
	}

	return os.Chmod(dst, mode)
}

// CreateTempDir creates a temporary directory for one tree slot.
func (a *LocalSourceFSAdapter) CreateTempDir(_ context.Context, pattern string) (m.Path, error) {
	tmpDir, err := os.MkdirTemp("", pattern)
	if err != nil {
		return "", err
	}

	return m.Path(tmpDir), nil
}

// RemoveAll removes a directory and all its contents.
func (a *LocalSourceFSAdapter) RemoveAll(_ context.Context, path m.Path) error {
	return os.RemoveAll(string(path))
}

// FindProjectRoot searches for a go.mod file walking up the directory tree.
func (a *LocalSourceFSAdapter) FindProjectRoot(_ context.Context, startPath m.Path) (m.Path, error) {
	dir := string(startPath)

	if info, err := os.Stat(dir); err != nil {
		return "", err
	} else if !info.IsDir() {
		dir = filepath.Dir(dir)
	}

	for {
		goModPath := filepath.Join(dir, "go.mod")
		if _, err := os.Stat(goModPath); err == nil {
			return m.Path(dir), nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("go.mod not found in any parent directory of %s", startPath)
		}

		dir = parent
	}
}

// JoinPath joins path elements into a single path.
func (a *LocalSourceFSAdapter) JoinPath(elem ...m.Path) m.Path {
	parts := make([]string, 0, len(elem))
	for _, e := range elem {
		parts = append(parts, string(e))
	}

	return m.Path(filepath.Join(parts...))
}
