// Package fsutil contains methods to work with files and directories
// on top of an afero.Fs
package fsutil

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Nivl/gini/internal/errutil"
	"github.com/spf13/afero"
)

// SafeWrite writes data to path atomically: tempfile -> fsync -> rename.
// The tempfile is created in the same directory as path to ensure the
// rename is atomic (same filesystem).
// Readers will either see the previous content or the new content,
// never a partial write.
func SafeWrite(fs afero.Fs, path string, data []byte, perm os.FileMode) (err error) {
	f, err := afero.TempFile(fs, filepath.Dir(path), ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmp := f.Name()

	// Clean up on any error
	defer func() {
		if err != nil {
			fs.Remove(tmp) //nolint:errcheck // best effort, we already have an error to return
		}
	}()

	if _, err = f.Write(data); err != nil {
		f.Close() //nolint:errcheck // we already have an error to return
		return fmt.Errorf("write temp file: %w", err)
	}
	if err = f.Sync(); err != nil {
		f.Close() //nolint:errcheck // we already have an error to return
		return fmt.Errorf("fsync temp file: %w", err)
	}
	if err = f.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err = fs.Chmod(tmp, perm); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err = fs.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename temp to target: %w", err)
	}
	return nil
}

// CopyOptions represents the options available to CopyDir
type CopyOptions struct {
	// Skip returns whether an entry should not be copied.
	// relPath is relative to the source directory
	Skip func(relPath string, info os.FileInfo) bool
	// OnUnsupported is called with every entry that is neither
	// a directory nor a regular file (symlinks, sockets, devices, ...).
	// Those entries are never copied.
	OnUnsupported func(relPath string, info os.FileInfo)
}

// CopyDir recursively copies the content of src into dst.
// dst is created if it doesn't exist, and existing files are
// overwritten. The permissions of the files and directories are kept.
// The copy is not transactional: on error, dst may be partially
// filled.
func CopyDir(fs afero.Fs, src, dst string, opts CopyOptions) error {
	info, err := fs.Stat(src)
	if err != nil {
		return fmt.Errorf("could not stat %s: %w", src, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s: %w", src, ErrNotDirectory)
	}
	return copyDir(fs, src, dst, "", info.Mode().Perm(), opts)
}

// ErrNotDirectory is returned when a path is expected to be a
// directory
var ErrNotDirectory = errors.New("not a directory")

func copyDir(fs afero.Fs, src, dst, relPath string, perm os.FileMode, opts CopyOptions) error {
	if err := fs.MkdirAll(dst, perm|0o700); err != nil {
		return fmt.Errorf("could not create %s: %w", dst, err)
	}

	entries, err := afero.ReadDir(fs, src)
	if err != nil {
		return fmt.Errorf("could not read %s: %w", src, err)
	}
	for _, e := range entries {
		entryRelPath := filepath.Join(relPath, e.Name())
		if opts.Skip != nil && opts.Skip(entryRelPath, e) {
			continue
		}

		srcPath := filepath.Join(src, e.Name())
		dstPath := filepath.Join(dst, e.Name())
		switch {
		case e.IsDir():
			if err := copyDir(fs, srcPath, dstPath, entryRelPath, e.Mode().Perm(), opts); err != nil {
				return err
			}
		case e.Mode().IsRegular():
			if err := CopyFile(fs, srcPath, dstPath, e.Mode().Perm()); err != nil {
				return err
			}
		default:
			if opts.OnUnsupported != nil {
				opts.OnUnsupported(entryRelPath, e)
			}
		}
	}
	return nil
}

// CopyFile copies the file at src to dst, with the given permissions.
// dst is truncated if it already exists
func CopyFile(fs afero.Fs, src, dst string, perm os.FileMode) (err error) {
	in, err := fs.Open(src)
	if err != nil {
		return fmt.Errorf("could not open %s: %w", src, err)
	}
	defer in.Close() //nolint:errcheck // read only

	out, err := fs.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return fmt.Errorf("could not create %s: %w", dst, err)
	}
	defer errutil.Close(out, &err)

	if _, err = io.Copy(out, in); err != nil {
		return fmt.Errorf("could not copy %s to %s: %w", src, dst, err)
	}
	return nil
}

// Wipe removes every entry of dir, except the ones for which keep
// returns true. dir itself is not removed
func Wipe(fs afero.Fs, dir string, keep func(name string) bool) error {
	entries, err := afero.ReadDir(fs, dir)
	if err != nil {
		return fmt.Errorf("could not read %s: %w", dir, err)
	}
	for _, e := range entries {
		if keep != nil && keep(e.Name()) {
			continue
		}
		p := filepath.Join(dir, e.Name())
		if err := fs.RemoveAll(p); err != nil {
			return fmt.Errorf("could not remove %s: %w", p, err)
		}
	}
	return nil
}
