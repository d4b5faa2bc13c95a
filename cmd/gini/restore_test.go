package main

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/Nivl/gini"
	"github.com/Nivl/gini/ginternals"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestHistory creates a project with 2 checkpoints, and local
// changes on top of them
func newTestHistory(t *testing.T) (dir, c1, c2 string) {
	t.Helper()

	dir = newTestProject(t, map[string]string{"a.txt": "v1"})
	c1 = checkpoint(t, dir, "C1")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("v2"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.txt"), []byte("b"), 0o644))
	c2 = checkpoint(t, dir, "C2")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("v3"), 0o644))
	return dir, c1, c2
}

func backupNames(t *testing.T, dir string) []string {
	t.Helper()

	entries, err := os.ReadDir(filepath.Join(dir, ".gini", "backups"))
	require.NoError(t, err)
	names := []string{}
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestRestore(t *testing.T) {
	t.Parallel()

	t.Run("should restore a checkpoint from its hash", func(t *testing.T) {
		t.Parallel()

		dir, c1, _ := newTestHistory(t)
		res := runCmd(t, dir, "", "restore", "--yes", c1)
		require.NoError(t, res.err)
		assert.Contains(t, res.out, "Restoring to checkpoint "+c1)
		assert.Contains(t, res.out, "Successfully restored project state.")

		assert.Equal(t, "v1", readFile(t, filepath.Join(dir, "a.txt")))
		_, err := os.Stat(filepath.Join(dir, "b.txt"))
		assert.ErrorIs(t, err, os.ErrNotExist)

		backups := backupNames(t, dir)
		require.Len(t, backups, 1)
		assert.Equal(t, "v3", readFile(t, filepath.Join(dir, ".gini", "backups", backups[0], "a.txt")))
		assert.Contains(t, res.out, "Previous files saved in backup "+backups[0])

		res = runCmd(t, dir, "", "log")
		require.NoError(t, res.err)
		assert.Contains(t, res.out, "checkpoint "+c1)
	})

	t.Run("should restore a checkpoint from a short hash", func(t *testing.T) {
		t.Parallel()

		dir, c1, _ := newTestHistory(t)
		res := runCmd(t, dir, "yes\n", "r", c1[:8])
		require.NoError(t, res.err)
		assert.Contains(t, res.out, "Type 'yes' to continue")
		assert.Equal(t, "v1", readFile(t, filepath.Join(dir, "a.txt")))
	})

	t.Run("should restore the selected checkpoint", func(t *testing.T) {
		t.Parallel()

		dir, c1, c2 := newTestHistory(t)
		res := runCmd(t, dir, "2\nyes\n", "restore")
		require.NoError(t, res.err)
		assert.Contains(t, res.out, "  1. "+c2[:7]+" - C2\n")
		assert.Contains(t, res.out, "  2. "+c1[:7]+" - C1\n")
		assert.Contains(t, res.out, "Enter checkpoint number to restore (1-2):")
		assert.Equal(t, "v1", readFile(t, filepath.Join(dir, "a.txt")))
	})

	t.Run("should not restore if not confirmed", func(t *testing.T) {
		t.Parallel()

		dir, _, _ := newTestHistory(t)
		res := runCmd(t, dir, "1\nno\n", "restore")
		require.NoError(t, res.err)
		assert.Contains(t, res.out, "Restore cancelled.")
		assert.Equal(t, "v3", readFile(t, filepath.Join(dir, "a.txt")))
		_, err := os.Stat(filepath.Join(dir, ".gini", "backups"))
		if err == nil {
			assert.Empty(t, backupNames(t, dir))
		}
	})

	t.Run("no checkpoints should not fail", func(t *testing.T) {
		t.Parallel()

		dir := newTestProject(t, map[string]string{"a.txt": "a"})
		res := runCmd(t, dir, "", "restore")
		require.NoError(t, res.err)
		assert.Equal(t, "gini: No checkpoints found to restore.\n", res.out)
	})

	t.Run("invalid input", func(t *testing.T) {
		t.Parallel()

		testCases := []struct {
			desc          string
			in            string
			args          []string
			expectedError error
		}{
			{
				desc:          "selection out of range",
				in:            "3\n",
				args:          []string{"restore"},
				expectedError: errInvalidSelection,
			},
			{
				desc:          "selection not a number",
				in:            "first\n",
				args:          []string{"restore"},
				expectedError: errInvalidSelection,
			},
			{
				desc:          "no selection",
				in:            "",
				args:          []string{"restore"},
				expectedError: errNoAnswer,
			},
			{
				desc:          "no confirmation",
				in:            "1\n",
				args:          []string{"restore"},
				expectedError: errNoAnswer,
			},
			{
				desc:          "invalid hash",
				args:          []string{"restore", "--yes", "../../HEAD"},
				expectedError: gini.ErrInvalidCommit,
			},
			{
				desc:          "hash too short",
				args:          []string{"restore", "--yes", "abc"},
				expectedError: ginternals.ErrInvalidOid,
			},
			{
				desc:          "unknown checkpoint",
				args:          []string{"restore", "--yes", "0123456789012345678901234567890123456789"},
				expectedError: gini.ErrCommitNotFound,
			},
			{
				desc: "too many arguments",
				args: []string{"restore", "--yes", "a", "b"},
			},
		}
		for i, tc := range testCases {
			tc := tc
			t.Run(fmt.Sprintf("%d/%s", i, tc.desc), func(t *testing.T) {
				t.Parallel()

				dir, _, _ := newTestHistory(t)
				res := runCmd(t, dir, tc.in, tc.args...)
				require.Error(t, res.err)
				if tc.expectedError != nil {
					assert.ErrorIs(t, res.err, tc.expectedError)
				}
				assert.Equal(t, "v3", readFile(t, filepath.Join(dir, "a.txt")))
			})
		}
	})

	t.Run("detached HEAD should not touch the files", func(t *testing.T) {
		t.Parallel()

		dir, c1, c2 := newTestHistory(t)
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".gini", "HEAD"), []byte(c2+"\n"), 0o644))

		res := runCmd(t, dir, "", "restore", "--yes", c1)
		require.Error(t, res.err)
		assert.ErrorIs(t, res.err, ginternals.ErrDetachedHead)
		assert.Equal(t, "v3", readFile(t, filepath.Join(dir, "a.txt")))
	})

	t.Run("a failure after the backup should name the backup", func(t *testing.T) {
		t.Parallel()

		dir, c1, _ := newTestHistory(t)
		// a.txt from C1 is the blob "v1", which we corrupt so it can
		// only fail once the files are removed
		blob := filepath.Join(dir, ".gini", "objects", ginternals.NewOidFromContent([]byte("v1")).String())
		require.NoError(t, os.Chmod(blob, 0o644))
		require.NoError(t, os.WriteFile(blob, []byte("tampered"), 0o644))

		res := runCmd(t, dir, "", "restore", "--yes", c1)
		require.Error(t, res.err)
		rErr, ok := gini.IsRestoreError(res.err)
		require.True(t, ok, "expected a RestoreError, got %v", res.err)
		assert.Contains(t, res.errOut, "gini backup "+rErr.Backup.Name)

		res = runCmd(t, dir, "", "backup", "--yes", rErr.Backup.Name)
		require.NoError(t, res.err)
		assert.Equal(t, "v3", readFile(t, filepath.Join(dir, "a.txt")))
		assert.Equal(t, "b", readFile(t, filepath.Join(dir, "b.txt")))
	})
}
