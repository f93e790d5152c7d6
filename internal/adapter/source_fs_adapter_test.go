package adapter

import (
	"context"
	"os"
	"path/filepath"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "github.com/varmint-dev/varmint/internal/model"
)

func writeFixture(t *testing.T, root string, files map[string]string) {
	t.Helper()

	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}
}

func TestLocalSourceFSAdapterDiscover(t *testing.T) {
	fs := NewLocalSourceFSAdapter()
	ctx := context.Background()

	root := t.TempDir()
	writeFixture(t, root, map[string]string{
		"main.go":             "package main\n",
		"main_test.go":        "package main\n",
		"pkg/util.go":         "package pkg\n",
		"vendor/dep/dep.go":   "package dep\n",
		"testdata/fixture.go": "package fixture\n",
		"README.md":           "readme\n",
	})

	t.Run("collects relative non-test go files", func(t *testing.T) {
		paths, err := fs.Discover(ctx, m.Path(root))
		require.NoError(t, err)
		assert.ElementsMatch(t, []m.Path{"main.go", m.Path(filepath.Join("pkg", "util.go"))}, paths)
	})

	t.Run("exclude patterns filter by relative path", func(t *testing.T) {
		paths, err := fs.Discover(ctx, m.Path(root), `^pkg/`)
		require.NoError(t, err)
		assert.ElementsMatch(t, []m.Path{"main.go"}, paths)
	})

	t.Run("invalid pattern errors", func(t *testing.T) {
		_, err := fs.Discover(ctx, m.Path(root), `([`)
		require.Error(t, err)
	})
}

func TestLocalSourceFSAdapterCloneTree(t *testing.T) {
	fs := NewLocalSourceFSAdapter()
	ctx := context.Background()

	src := t.TempDir()
	writeFixture(t, src, map[string]string{
		"go.mod":      "module fixture\n",
		"main.go":     "package main\n",
		"pkg/util.go": "package pkg\n",
	})

	dst := t.TempDir()
	require.NoError(t, fs.CloneTree(ctx, m.Path(src), m.Path(dst)))

	t.Run("clone mirrors the tree", func(t *testing.T) {
		for _, name := range []string{"go.mod", "main.go", filepath.Join("pkg", "util.go")} {
			original, err := os.ReadFile(filepath.Join(src, name))
			require.NoError(t, err)

			cloned, err := os.ReadFile(filepath.Join(dst, name))
			require.NoError(t, err)

			assert.Equal(t, original, cloned)
		}
	})

	t.Run("regular files share inodes", func(t *testing.T) {
		var srcStat, dstStat syscall.Stat_t
		require.NoError(t, syscall.Stat(filepath.Join(src, "main.go"), &srcStat))
		require.NoError(t, syscall.Stat(filepath.Join(dst, "main.go"), &dstStat))

		assert.Equal(t, srcStat.Ino, dstStat.Ino)
	})

	t.Run("remove then write leaves source intact", func(t *testing.T) {
		target := m.Path(filepath.Join(dst, "main.go"))
		require.NoError(t, fs.RemoveFile(ctx, target))
		require.NoError(t, fs.WriteFile(ctx, target, []byte("package mutated\n"), 0o600))

		original, err := os.ReadFile(filepath.Join(src, "main.go"))
		require.NoError(t, err)
		assert.Equal(t, "package main\n", string(original))
	})
}

func TestLocalSourceFSAdapterFindProjectRoot(t *testing.T) {
	fs := NewLocalSourceFSAdapter()
	ctx := context.Background()

	root := t.TempDir()
	writeFixture(t, root, map[string]string{
		"go.mod":       "module fixture\n",
		"sub/inner.go": "package sub\n",
	})

	t.Run("finds go.mod from nested directory", func(t *testing.T) {
		found, err := fs.FindProjectRoot(ctx, m.Path(filepath.Join(root, "sub")))
		require.NoError(t, err)
		assert.Equal(t, m.Path(root), found)
	})

	t.Run("accepts a file as the start", func(t *testing.T) {
		found, err := fs.FindProjectRoot(ctx, m.Path(filepath.Join(root, "sub", "inner.go")))
		require.NoError(t, err)
		assert.Equal(t, m.Path(root), found)
	})

	t.Run("errors without a go.mod anywhere", func(t *testing.T) {
		_, err := fs.FindProjectRoot(ctx, m.Path(t.TempDir()))
		require.Error(t, err)
	})
}

func TestLocalSourceFSAdapterJoinPath(t *testing.T) {
	fs := NewLocalSourceFSAdapter()

	assert.Equal(t, m.Path(filepath.Join("a", "b", "c.go")), fs.JoinPath("a", "b", "c.go"))
}
