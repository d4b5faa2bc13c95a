package fsutil_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Nivl/gini/internal/fsutil"
	"github.com/Nivl/gini/internal/testhelper"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSafeWrite(t *testing.T) {
	t.Parallel()

	t.Run("should create the file", func(t *testing.T) {
		t.Parallel()

		fs := afero.NewMemMapFs()
		require.NoError(t, fs.MkdirAll("/repo", 0o755))

		err := fsutil.SafeWrite(fs, "/repo/HEAD", []byte("ref: refs/heads/main\n"), 0o644)
		require.NoError(t, err)

		data, err := afero.ReadFile(fs, "/repo/HEAD")
		require.NoError(t, err)
		assert.Equal(t, "ref: refs/heads/main\n", string(data))

		// no temp file should be left behind
		entries, err := afero.ReadDir(fs, "/repo")
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "HEAD", entries[0].Name())
	})

	t.Run("should overwrite an existing file", func(t *testing.T) {
		t.Parallel()

		dir, cleanup := testhelper.TempDir(t)
		t.Cleanup(cleanup)
		fs := afero.NewOsFs()

		p := filepath.Join(dir, "main")
		require.NoError(t, afero.WriteFile(fs, p, []byte("old"), 0o644))
		require.NoError(t, fsutil.SafeWrite(fs, p, []byte("new"), 0o444))

		data, err := afero.ReadFile(fs, p)
		require.NoError(t, err)
		assert.Equal(t, "new", string(data))

		info, err := fs.Stat(p)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o444), info.Mode().Perm())
	})

	t.Run("should fail if the directory doesn't exist", func(t *testing.T) {
		t.Parallel()

		dir, cleanup := testhelper.TempDir(t)
		t.Cleanup(cleanup)

		err := fsutil.SafeWrite(afero.NewOsFs(), filepath.Join(dir, "nope", "file"), []byte("data"), 0o644)
		require.Error(t, err)
		assert.True(t, errors.Is(err, os.ErrNotExist))
	})
}

func TestCopyDir(t *testing.T) {
	t.Parallel()

	t.Run("should copy everything", func(t *testing.T) {
		t.Parallel()

		fs := afero.NewMemMapFs()
		files := map[string]string{
			"README.md":        "readme",
			"src/main.go":      "package main",
			"src/lib/lib.go":   "package lib",
			"empty/":           "",
			"src/lib/data.bin": "\x00\x01\x02",
		}
		testhelper.WriteTree(t, fs, "/src", files)

		require.NoError(t, fsutil.CopyDir(fs, "/src", "/dst", fsutil.CopyOptions{}))
		assert.Equal(t, testhelper.ReadTree(t, fs, "/src"), testhelper.ReadTree(t, fs, "/dst"))
	})

	t.Run("should skip entries", func(t *testing.T) {
		t.Parallel()

		fs := afero.NewMemMapFs()
		testhelper.WriteTree(t, fs, "/src", map[string]string{
			"README.md":     "readme",
			".gini/HEAD":    "ref: refs/heads/main",
			"src/.gini/obj": "nested",
		})

		err := fsutil.CopyDir(fs, "/src", "/dst", fsutil.CopyOptions{
			Skip: func(relPath string, info os.FileInfo) bool {
				return relPath == ".gini"
			},
		})
		require.NoError(t, err)
		assert.Equal(t, map[string]string{
			"README.md":     "readme",
			"src/":          "",
			"src/.gini/":    "",
			"src/.gini/obj": "nested",
		}, testhelper.ReadTree(t, fs, "/dst"))
	})

	t.Run("should report symlinks", func(t *testing.T) {
		t.Parallel()

		dir, cleanup := testhelper.TempDir(t)
		t.Cleanup(cleanup)
		fs := afero.NewOsFs()

		src := filepath.Join(dir, "src")
		testhelper.WriteTree(t, fs, src, map[string]string{
			"file": "content",
		})
		if err := os.Symlink(filepath.Join(src, "file"), filepath.Join(src, "link")); err != nil {
			t.Skipf("symlinks not supported: %s", err.Error())
		}

		unsupported := []string{}
		err := fsutil.CopyDir(fs, src, filepath.Join(dir, "dst"), fsutil.CopyOptions{
			OnUnsupported: func(relPath string, info os.FileInfo) {
				unsupported = append(unsupported, relPath)
			},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"link"}, unsupported)
		assert.Equal(t, map[string]string{
			"file": "content",
		}, testhelper.ReadTree(t, fs, filepath.Join(dir, "dst")))
	})

	t.Run("should fail if the source is a file", func(t *testing.T) {
		t.Parallel()

		fs := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fs, "/file", []byte("content"), 0o644))

		err := fsutil.CopyDir(fs, "/file", "/dst", fsutil.CopyOptions{})
		require.Error(t, err)
		assert.ErrorIs(t, err, fsutil.ErrNotDirectory)
	})
}

func TestWipe(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	testhelper.WriteTree(t, fs, "/repo", map[string]string{
		"README.md":   "readme",
		"src/main.go": "package main",
		".gini/HEAD":  "ref: refs/heads/main",
		".git/HEAD":   "ref: refs/heads/master",
	})

	err := fsutil.Wipe(fs, "/repo", func(name string) bool {
		return name == ".gini" || name == ".git"
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		".gini/":     "",
		".gini/HEAD": "ref: refs/heads/main",
		".git/":      "",
		".git/HEAD":  "ref: refs/heads/master",
	}, testhelper.ReadTree(t, fs, "/repo"))
}
