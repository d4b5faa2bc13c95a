package pathutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/pflag"
)

// ErrIsNotDirectory is an error returned when a path
// is expected to points to a directory but isn't
var ErrIsNotDirectory = errors.New("path is not a directory")

// PathValue represents a Flag value to be parsed by spf13/pflag.
// It holds the path of an existing directory
type PathValue struct {
	fs           afero.Fs
	defaultValue string
	userValue    string
	valueSet     bool
}

// NewDirPathFlagWithDefault return a new Flag Value that should hold
// a valid path to a directory of the OS filesystem
func NewDirPathFlagWithDefault(defaultPath string) pflag.Value {
	return NewDirPathFlag(afero.NewOsFs(), defaultPath)
}

// NewDirPathFlag return a new Flag Value that should hold a valid path
// to a directory of fs
func NewDirPathFlag(fs afero.Fs, defaultPath string) *PathValue {
	return &PathValue{
		fs:           fs,
		defaultValue: defaultPath,
	}
}

// we make sure the struct implements the interface
var _ pflag.Value = (*PathValue)(nil)

// String returns the flag's value
func (v *PathValue) String() string {
	if v.valueSet {
		return v.userValue
	}
	return v.defaultValue
}

// Set sets the flag's value.
// When called multiple times:
// - If the value is a relative path it will be append to the previous value
// - If the value is an absolute path: it will overwrite the previous value
func (v *PathValue) Set(value string) error {
	if value == "" {
		return nil
	}

	if !filepath.IsAbs(value) {
		value = filepath.Join(v.String(), value)
	}
	value = filepath.Clean(value)

	info, err := v.fs.Stat(value)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("invalid path %s: %w", value, os.ErrNotExist)
		}
		return fmt.Errorf("could not check path %s: %w", value, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("invalid path %s: %w", value, ErrIsNotDirectory)
	}

	v.valueSet = true
	v.userValue = value
	return nil
}

// Type returns the unique type of the Value
func (v *PathValue) Type() string {
	return "path"
}
