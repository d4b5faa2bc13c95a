package pathutil

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
)

// ErrNoRepo is an error returned when no repo are found
var ErrNoRepo = errors.New("not a gini repository (or any of the parent directories)")

// MaxLookUpDepth is the maximum number of parent directories that
// will be checked when looking for a repository
const MaxLookUpDepth = 100

// WorkingTreeFromPath returns the absolute path to the root of a repo
// containing the provided directory.
// The lookup stops after MaxLookUpDepth parents
func WorkingTreeFromPath(fs afero.Fs, p, dotGiniDirName string) (path string, err error) {
	p, err = filepath.Abs(p)
	if err != nil {
		return "", fmt.Errorf("could not get absolute path of %s: %w", p, err)
	}

	prev := ""
	for depth := 0; p != prev && depth <= MaxLookUpDepth; depth++ {
		info, err := fs.Stat(filepath.Join(p, dotGiniDirName))
		if err == nil && info.IsDir() {
			return p, nil
		}

		prev = p
		p = filepath.Dir(p)
	}
	return "", ErrNoRepo
}
