// Package testhelper contains helpers to simplify tests
package testhelper

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// TempDir creates a temp dir and returns a cleanup method.
// The returned path has its symlinks resolved so it can be compared
// with the paths computed by a repository
func TempDir(t *testing.T) (out string, cleanup func()) {
	t.Helper()

	out, err := os.MkdirTemp("", strings.ReplaceAll(t.Name(), "/", "_")+"_")
	require.NoError(t, err)
	cleanup = func() {
		require.NoError(t, os.RemoveAll(out))
	}

	resolved, err := filepath.EvalSymlinks(out)
	if err != nil {
		cleanup()
		require.NoError(t, err)
	}
	return resolved, cleanup
}
