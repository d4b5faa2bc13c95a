package gini

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/Nivl/gini/backend"
	"github.com/Nivl/gini/ginternals"
	"github.com/Nivl/gini/ginternals/object"
	"github.com/Nivl/gini/internal/errutil"
	"github.com/Nivl/gini/internal/gitpath"
	"github.com/spf13/afero"
)

// List of errors returned when building or walking trees
var (
	// ErrFileTooLarge is returned when a file of the working tree is
	// bigger than the maximum size of an object
	ErrFileTooLarge = errors.New("file too large")
	// ErrTreeTooDeep is returned when a tree contains more nested
	// trees than we allow
	ErrTreeTooDeep = fmt.Errorf("tree is too deep: %w", object.ErrTreeInvalid)
)

// maxTreeDepth is the maximum number of nested directories we build
// or restore
const maxTreeDepth = 256

// TreeBuilder is used to build trees
type TreeBuilder struct {
	Backend backend.Backend
	entries map[string]object.TreeEntry
}

// NewTreeBuilder create a new empty tree builder
func (r *Repository) NewTreeBuilder() *TreeBuilder {
	return &TreeBuilder{
		Backend: r.dotGini,
	}
}

// Insert inserts a new object in a tree.
// The object must already be in the odb
func (tb *TreeBuilder) Insert(name string, oid ginternals.Oid, typ object.Type) error {
	if typ != object.TypeBlob && typ != object.TypeTree {
		return fmt.Errorf("unexpected object %s: %w", typ, object.ErrObjectInvalid)
	}
	if err := object.ValidateEntryName(name); err != nil {
		return err
	}

	exists, err := tb.Backend.HasObject(oid)
	if err != nil {
		return fmt.Errorf("cannot verify object: %w", err)
	}
	if !exists {
		return fmt.Errorf("cannot verify object %s: %w", oid.String(), ginternals.ErrObjectNotFound)
	}

	if tb.entries == nil {
		tb.entries = map[string]object.TreeEntry{}
	}
	tb.entries[name] = object.TreeEntry{
		Name: name,
		ID:   oid,
		Type: typ,
	}
	return nil
}

// Write creates and persists a new Tree object
func (tb *TreeBuilder) Write() (*object.Tree, error) {
	entries := make([]object.TreeEntry, 0, len(tb.entries))
	for _, e := range tb.entries {
		entries = append(entries, e)
	}

	// NewTree takes care of sorting the entries
	t := object.NewTree(entries)
	if _, err := tb.Backend.WriteObject(t.ToObject()); err != nil {
		return nil, fmt.Errorf("could not write the object to the odb: %w", err)
	}
	return t, nil
}

// snapshotter contains what's needed to turn a directory into a tree
type snapshotter struct {
	r        *Repository
	excludes map[string]struct{}
	maxSize  int64
}

// WriteTreeFromDir stores the content of the work tree in the odb and
// returns the resulting tree.
// The repository metadata and the configured excludes are skipped at
// every level, so are symlinks and special files.
// ErrFileTooLarge is returned if a file is bigger than the configured
// limit, and nothing is read from it
func (r *Repository) WriteTreeFromDir() (*object.Tree, error) {
	s := &snapshotter{
		r:        r,
		excludes: map[string]struct{}{},
		maxSize:  r.Config.MaxObjectSize(),
	}
	for _, e := range r.Config.Excludes() {
		s.excludes[e] = struct{}{}
	}
	return s.writeDir(r.Config.WorkTreePath, 0)
}

func (s *snapshotter) skip(dir, name string) bool {
	if gitpath.IsMetadata(name) {
		return true
	}
	if _, ok := s.excludes[name]; ok {
		return true
	}
	return filepath.Join(dir, name) == filepath.Clean(s.r.Config.GiniDirPath)
}

func (s *snapshotter) writeDir(dir string, depth int) (*object.Tree, error) {
	if depth > maxTreeDepth {
		return nil, fmt.Errorf("%s: %w", dir, ErrTreeTooDeep)
	}

	infos, err := afero.ReadDir(s.r.wt, dir)
	if err != nil {
		return nil, fmt.Errorf("could not read %s: %w", dir, err)
	}

	tb := s.r.NewTreeBuilder()
	for _, info := range infos {
		p := filepath.Join(dir, info.Name())
		if s.skip(dir, info.Name()) {
			s.r.logger.Debug("skipping excluded entry", slog.String("path", p))
			continue
		}

		switch {
		case info.IsDir():
			t, err := s.writeDir(p, depth+1)
			if err != nil {
				return nil, err
			}
			if err = tb.Insert(info.Name(), t.ID(), object.TypeTree); err != nil {
				return nil, fmt.Errorf("could not add %s: %w", p, err)
			}
		case info.Mode().IsRegular():
			if info.Size() > s.maxSize {
				return nil, fmt.Errorf("%s is %d bytes, limit is %d: %w", p, info.Size(), s.maxSize, ErrFileTooLarge)
			}
			oid, err := s.writeFile(p)
			if err != nil {
				return nil, err
			}
			if err = tb.Insert(info.Name(), oid, object.TypeBlob); err != nil {
				return nil, fmt.Errorf("could not add %s: %w", p, err)
			}
		default:
			s.r.logger.Warn("skipping unsupported file type",
				slog.String("path", p),
				slog.String("mode", info.Mode().String()))
		}
	}

	t, err := tb.Write()
	if err != nil {
		return nil, fmt.Errorf("could not write tree of %s: %w", dir, err)
	}
	return t, nil
}

func (s *snapshotter) writeFile(p string) (oid ginternals.Oid, err error) {
	f, err := s.r.wt.Open(p)
	if err != nil {
		return ginternals.NullOid, fmt.Errorf("could not open %s: %w", p, err)
	}
	defer errutil.Close(f, &err)

	data, err := afero.ReadAll(f)
	if err != nil {
		return ginternals.NullOid, fmt.Errorf("could not read %s: %w", p, err)
	}
	oid, err = s.r.dotGini.WriteObject(object.New(object.TypeBlob, data))
	if err != nil {
		return ginternals.NullOid, fmt.Errorf("could not store %s: %w", p, err)
	}
	return oid, nil
}
