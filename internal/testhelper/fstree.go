package testhelper

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

// WriteTree creates the given files in root.
// The keys are slash separated paths relative to root, and the values
// the content of the files. A key ending with a "/" creates an empty
// directory.
func WriteTree(t *testing.T, fs afero.Fs, root string, files map[string]string) {
	t.Helper()

	for p, content := range files {
		fullPath := filepath.Join(root, filepath.FromSlash(p))
		if strings.HasSuffix(p, "/") {
			require.NoError(t, fs.MkdirAll(fullPath, 0o755))
			continue
		}
		require.NoError(t, fs.MkdirAll(filepath.Dir(fullPath), 0o755))
		require.NoError(t, afero.WriteFile(fs, fullPath, []byte(content), 0o644))
	}
}

// ReadTree returns the content of root using the same format as
// WriteTree. Every directory is listed with a trailing "/".
// The entries of root listed in skip are ignored.
func ReadTree(t *testing.T, fs afero.Fs, root string, skip ...string) map[string]string {
	t.Helper()

	out := map[string]string{}
	err := afero.Walk(fs, root, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if p == root {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		for _, s := range skip {
			if rel == s {
				if info.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
		}

		if info.IsDir() {
			out[rel+"/"] = ""
			return nil
		}
		data, err := afero.ReadFile(fs, p)
		if err != nil {
			return err
		}
		out[rel] = string(data)
		return nil
	})
	require.NoError(t, err)
	return out
}
