package fsbackend_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Nivl/gini/ginternals"
	"github.com/Nivl/gini/ginternals/object"
	"github.com/Nivl/gini/internal/testhelper"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteObject(t *testing.T) {
	t.Parallel()

	t.Run("add a new blob", func(t *testing.T) {
		t.Parallel()

		dir, cleanup := testhelper.TempDir(t)
		t.Cleanup(cleanup)

		fs := afero.NewOsFs()
		b := newBackend(t, fs, dir)
		require.NoError(t, b.Init())

		o := object.New(object.TypeBlob, []byte("data"))
		oid, err := b.WriteObject(o)
		require.NoError(t, err)
		assert.Equal(t, "a17c9aaa61e80a1bf71d0d850af4e5baa9800bbd", oid.String())

		// make sure the blob was persisted as is
		p := filepath.Join(dir, ".gini", "objects", oid.String())
		data, err := afero.ReadFile(fs, p)
		require.NoError(t, err)
		assert.Equal(t, "data", string(data))

		info, err := fs.Stat(p)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o444), info.Mode(), "objects should be read only")

		// no temp files should be left behind
		entries, err := afero.ReadDir(fs, filepath.Join(dir, ".gini", "objects"))
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})

	t.Run("writing the same object twice should not trigger a rewrite", func(t *testing.T) {
		t.Parallel()

		fs := afero.NewMemMapFs()
		root := filepath.FromSlash("/project")
		b := newBackend(t, fs, root)
		require.NoError(t, b.Init())

		o := object.New(object.TypeBlob, []byte("data"))
		oid, err := b.WriteObject(o)
		require.NoError(t, err)

		p := filepath.Join(root, ".gini", "objects", oid.String())
		originalInfo, err := fs.Stat(p)
		require.NoError(t, err)

		oid2, err := b.WriteObject(object.New(object.TypeBlob, []byte("data")))
		require.NoError(t, err)
		assert.Equal(t, oid, oid2)

		info, err := fs.Stat(p)
		require.NoError(t, err)
		assert.Equal(t, originalInfo.ModTime(), info.ModTime())

		entries, err := afero.ReadDir(fs, filepath.Join(root, ".gini", "objects"))
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})

	t.Run("objects over the limit should be rejected", func(t *testing.T) {
		t.Parallel()

		fs := afero.NewMemMapFs()
		root := filepath.FromSlash("/project")
		testhelper.WriteTree(t, fs, root, map[string]string{
			".gini/config": "[core]\nmaxobjectsize = 4\n",
		})
		b := newBackend(t, fs, root)

		_, err := b.WriteObject(object.New(object.TypeBlob, []byte("12345")))
		require.Error(t, err)
		assert.ErrorIs(t, err, ginternals.ErrObjectTooLarge)

		_, err = b.WriteObject(object.New(object.TypeBlob, []byte("1234")))
		require.NoError(t, err)
	})
}

func TestObject(t *testing.T) {
	t.Parallel()

	t.Run("existing object should be returned", func(t *testing.T) {
		t.Parallel()

		fs := afero.NewMemMapFs()
		b := newBackend(t, fs, filepath.FromSlash("/project"))
		require.NoError(t, b.Init())

		oid, err := b.WriteObject(object.New(object.TypeBlob, []byte("package gini")))
		require.NoError(t, err)

		// a new backend has an empty cache
		b2 := newBackend(t, fs, filepath.FromSlash("/project"))
		o, err := b2.Object(oid, object.TypeBlob)
		require.NoError(t, err)
		assert.Equal(t, oid, o.ID())
		assert.Equal(t, object.TypeBlob, o.Type())
		assert.Equal(t, "package gini", string(o.Bytes()))
	})

	t.Run("un-existing object should fail", func(t *testing.T) {
		t.Parallel()

		b := newBackend(t, afero.NewMemMapFs(), filepath.FromSlash("/project"))
		require.NoError(t, b.Init())

		oid, err := ginternals.NewOidFromStr("2dcdadc2a420225783794fbffd51e2e137a69646")
		require.NoError(t, err)

		o, err := b.Object(oid, object.TypeBlob)
		require.Error(t, err)
		assert.Nil(t, o)
		assert.ErrorIs(t, err, ginternals.ErrObjectNotFound)
	})

	t.Run("corrupted object should fail", func(t *testing.T) {
		t.Parallel()

		fs := afero.NewMemMapFs()
		root := filepath.FromSlash("/project")
		b := newBackend(t, fs, root)
		require.NoError(t, b.Init())

		oid, err := b.WriteObject(object.New(object.TypeBlob, []byte("data")))
		require.NoError(t, err)
		p := filepath.Join(root, ".gini", "objects", oid.String())
		require.NoError(t, fs.Chmod(p, 0o644))
		require.NoError(t, afero.WriteFile(fs, p, []byte("tampered"), 0o644))

		b2 := newBackend(t, fs, root)
		_, err = b2.Object(oid, object.TypeBlob)
		require.Error(t, err)
		assert.ErrorIs(t, err, object.ErrObjectCorrupt)
		assert.ErrorIs(t, err, object.ErrObjectInvalid)
	})

	t.Run("invalid type should fail", func(t *testing.T) {
		t.Parallel()

		b := newBackend(t, afero.NewMemMapFs(), filepath.FromSlash("/project"))
		_, err := b.Object(ginternals.NullOid, object.Type(42))
		require.Error(t, err)
		assert.ErrorIs(t, err, object.ErrObjectUnknown)
	})
}

func TestHasObject(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	root := filepath.FromSlash("/project")
	b := newBackend(t, fs, root)
	require.NoError(t, b.Init())

	oid, err := b.WriteObject(object.New(object.TypeBlob, []byte("data")))
	require.NoError(t, err)

	t.Run("existing object should exist", func(t *testing.T) {
		t.Parallel()

		// a new backend has an empty cache
		exists, err := newBackend(t, fs, root).HasObject(oid)
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("non-existing object should not exist", func(t *testing.T) {
		t.Parallel()

		fakeOid, err := ginternals.NewOidFromStr("2dcdadc2a420225783794fbffd51e2e137a69646")
		require.NoError(t, err)

		exists, err := b.HasObject(fakeOid)
		require.NoError(t, err)
		assert.False(t, exists)
	})
}
