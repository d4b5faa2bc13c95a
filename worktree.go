package gini

import (
	"fmt"
	"path/filepath"

	"github.com/Nivl/gini/ginternals"
	"github.com/Nivl/gini/ginternals/object"
	"github.com/spf13/afero"
)

// Permissions of the files and directories created when restoring
// a tree. Permissions are not part of a snapshot
const (
	restoredFilePerm = 0o644
	restoredDirPerm  = 0o755
)

// ValidateTree makes sure the tree and all its sub-trees can be
// restored: every tree must be readable and well-formed, and every
// blob must exist.
// Nothing is written
func (r *Repository) ValidateTree(oid ginternals.Oid) error {
	return r.validateTree(oid, 0)
}

func (r *Repository) validateTree(oid ginternals.Oid, depth int) error {
	if depth > maxTreeDepth {
		return fmt.Errorf("tree %s: %w", oid.String(), ErrTreeTooDeep)
	}

	t, err := r.Tree(oid)
	if err != nil {
		return err
	}
	for _, e := range t.Entries() {
		// The metadata of the repository would be overwritten
		if depth == 0 && r.isRootMetadata(e.Name) {
			return fmt.Errorf("tree %s contains %q: %w", oid.String(), e.Name, object.ErrTreeInvalid)
		}
		switch e.Type {
		case object.TypeTree:
			if err = r.validateTree(e.ID, depth+1); err != nil {
				return err
			}
		case object.TypeBlob:
			exists, err := r.dotGini.HasObject(e.ID)
			if err != nil {
				return fmt.Errorf("could not check blob %s: %w", e.ID.String(), err)
			}
			if !exists {
				return fmt.Errorf("blob %s of %q: %w", e.ID.String(), e.Name, ginternals.ErrObjectNotFound)
			}
		default:
			return fmt.Errorf("entry %q has type %s: %w", e.Name, e.Type, object.ErrTreeInvalid)
		}
	}
	return nil
}

// CheckoutTree writes the content of a tree into dir. Directories are
// created when needed and existing files are overwritten. Nothing is
// removed.
func (r *Repository) CheckoutTree(oid ginternals.Oid, dir string) error {
	return r.checkoutTree(oid, dir, 0)
}

func (r *Repository) checkoutTree(oid ginternals.Oid, dir string, depth int) error {
	if depth > maxTreeDepth {
		return fmt.Errorf("tree %s: %w", oid.String(), ErrTreeTooDeep)
	}

	t, err := r.Tree(oid)
	if err != nil {
		return err
	}
	if err = r.wt.MkdirAll(dir, restoredDirPerm); err != nil {
		return fmt.Errorf("could not create %s: %w", dir, err)
	}
	for _, e := range t.Entries() {
		p := filepath.Join(dir, e.Name)
		switch e.Type {
		case object.TypeTree:
			if err = r.checkoutTree(e.ID, p, depth+1); err != nil {
				return err
			}
		case object.TypeBlob:
			b, err := r.Blob(e.ID)
			if err != nil {
				return fmt.Errorf("could not get content of %s: %w", p, err)
			}
			if err = afero.WriteFile(r.wt, p, b.Bytes(), restoredFilePerm); err != nil {
				return fmt.Errorf("could not write %s: %w", p, err)
			}
		default:
			return fmt.Errorf("entry %q has type %s: %w", e.Name, e.Type, object.ErrTreeInvalid)
		}
	}
	return nil
}
