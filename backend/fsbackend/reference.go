package fsbackend

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Nivl/gini/ginternals"
	"github.com/Nivl/gini/internal/fsutil"
	"github.com/spf13/afero"
)

// maxRefSize is the maximum amount of bytes we read from a reference
// file. A valid reference is way smaller than that
const maxRefSize = 1024

// Reference returns a stored reference from its name
// ErrRefNotFound is returned if the reference doesn't exists
func (b *Backend) Reference(name string) (*ginternals.Reference, error) {
	finder := func(name string) ([]byte, error) {
		data, err := b.readReference(name)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf(`ref "%s": %w`, name, ginternals.ErrRefNotFound)
			}
			return nil, fmt.Errorf("could not read reference content: %w", err)
		}
		return data, nil
	}
	return ginternals.ResolveReference(name, finder)
}

func (b *Backend) readReference(name string) ([]byte, error) {
	p := b.systemPath(name)
	info, err := b.fs.Stat(p)
	if err != nil {
		return nil, err
	}
	if info.IsDir() || info.Size() > maxRefSize {
		return nil, fmt.Errorf("%s is not a reference: %w", name, ginternals.ErrRefInvalid)
	}
	return afero.ReadFile(b.fs, p)
}

// systemPath returns a path from a ref name
// Ex.: On windows refs/heads/main would return refs\heads\main
func (b *Backend) systemPath(name string) string {
	return filepath.Join(b.Path(), filepath.FromSlash(name))
}

// WriteReference writes the given reference on disk. If the
// reference already exists it will be overwritten.
// The reference is updated atomically
func (b *Backend) WriteReference(ref *ginternals.Reference) error {
	if !ginternals.IsRefNameValid(ref.Name()) {
		return ginternals.ErrRefNameInvalid
	}

	data, err := ref.Bytes()
	if err != nil {
		return err
	}

	refPath := b.systemPath(ref.Name())
	// Since we can have `/` in the ref name, we need to create
	// the path on the FS
	if err = b.fs.MkdirAll(filepath.Dir(refPath), 0o755); err != nil {
		return fmt.Errorf("could not persist reference to disk: %w", err)
	}
	if err = fsutil.SafeWrite(b.fs, refPath, data, 0o644); err != nil {
		return fmt.Errorf("could not persist reference to disk: %w", err)
	}
	return nil
}

// WriteReferenceSafe writes the given reference on disk.
// ErrRefExists is returned if the reference already exists
func (b *Backend) WriteReferenceSafe(ref *ginternals.Reference) error {
	if !ginternals.IsRefNameValid(ref.Name()) {
		return ginternals.ErrRefNameInvalid
	}

	_, err := b.fs.Stat(b.systemPath(ref.Name()))
	if !errors.Is(err, os.ErrNotExist) {
		if err != nil {
			return fmt.Errorf("could not check if reference exists on disk: %w", err)
		}
		return ginternals.ErrRefExists
	}
	return b.WriteReference(ref)
}
