package fsbackend

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/Nivl/gini/ginternals"
	"github.com/Nivl/gini/ginternals/object"
	"github.com/Nivl/gini/internal/errutil"
	"github.com/Nivl/gini/internal/fsutil"
	"github.com/spf13/afero"
	"golang.org/x/xerrors"
)

// objectPath returns the absolute path of an object
// Ex. path of fcfe68a0e44e04bd7fd564fc0b75f1ae457e18b3 is:
// .gini/objects/fcfe68a0e44e04bd7fd564fc0b75f1ae457e18b3
func (b *Backend) objectPath(oid ginternals.Oid) string {
	return filepath.Join(b.config.ObjectDirPath, oid.String())
}

// Object returns the object that has given oid.
// ErrObjectNotFound is returned if the object doesn't exist, and an
// error matching object.ErrObjectCorrupt is returned if its content
// doesn't hash to oid.
// This method can be called concurrently
func (b *Backend) Object(oid ginternals.Oid, typ object.Type) (*object.Object, error) {
	if !typ.IsValid() {
		return nil, xerrors.Errorf("type %d: %w", typ, object.ErrObjectUnknown)
	}
	if data, found := b.cache.Get(oid); found {
		return object.New(typ, data), nil
	}

	data, err := b.readObject(oid)
	if err != nil {
		return nil, err
	}
	if ginternals.NewOidFromContent(data) != oid {
		return nil, xerrors.Errorf("object %s: %w", oid.String(), object.ErrObjectCorrupt)
	}
	b.cache.Add(oid, data)
	return object.New(typ, data), nil
}

// readObject returns the raw content of an object
func (b *Backend) readObject(oid ginternals.Oid) (data []byte, err error) {
	p := b.objectPath(oid)
	f, err := b.fs.Open(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, xerrors.Errorf("object %s: %w", oid.String(), ginternals.ErrObjectNotFound)
		}
		return nil, xerrors.Errorf("could not open object %s at path %s: %w", oid.String(), p, err)
	}
	defer errutil.Close(f, &err)

	info, err := f.Stat()
	if err != nil {
		return nil, xerrors.Errorf("could not stat object %s at path %s: %w", oid.String(), p, err)
	}
	if info.IsDir() {
		return nil, xerrors.Errorf("object %s is a directory: %w", oid.String(), object.ErrObjectCorrupt)
	}
	data, err = afero.ReadAll(f)
	if err != nil {
		return nil, xerrors.Errorf("could not read object %s at path %s: %w", oid.String(), p, err)
	}
	return data, nil
}

// HasObject returns whether an object exists in the odb
// This method can be called concurrently
func (b *Backend) HasObject(oid ginternals.Oid) (bool, error) {
	if _, found := b.cache.Get(oid); found {
		return true, nil
	}
	_, err := b.fs.Stat(b.objectPath(oid))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, xerrors.Errorf("could not check object %s: %w", oid.String(), err)
}

// WriteObject adds an object to the odb.
// Writing an object that already exists is a no-op.
// ErrObjectTooLarge is returned if the object is bigger than the
// configured limit.
// This method can be called concurrently
func (b *Backend) WriteObject(o *object.Object) (ginternals.Oid, error) {
	if limit := b.config.MaxObjectSize(); int64(o.Size()) > limit {
		return ginternals.NullOid, xerrors.Errorf("object is %d bytes, limit is %d: %w", o.Size(), limit, ginternals.ErrObjectTooLarge)
	}

	oid := o.ID()
	b.objectMu.Lock(oid)
	defer b.objectMu.Unlock(oid)

	exists, err := b.HasObject(oid)
	if err != nil {
		return ginternals.NullOid, err
	}
	if exists {
		return oid, nil
	}

	// We need to make sure the dest dir exists
	if err = b.fs.MkdirAll(b.config.ObjectDirPath, 0o755); err != nil {
		return ginternals.NullOid, xerrors.Errorf("could not create the destination directory %s: %w", b.config.ObjectDirPath, err)
	}
	p := b.objectPath(oid)
	if err = fsutil.SafeWrite(b.fs, p, o.Bytes(), 0o444); err != nil {
		return ginternals.NullOid, xerrors.Errorf("could not persist object %s at path %s: %w", oid.String(), p, err)
	}
	b.cache.Add(oid, o.Bytes())
	return oid, nil
}
