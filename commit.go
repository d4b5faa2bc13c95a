package gini

import (
	"errors"
	"fmt"

	"github.com/Nivl/gini/backend"
	"github.com/Nivl/gini/ginternals"
	"github.com/Nivl/gini/ginternals/object"
)

// List of errors returned when working with commits
var (
	// ErrCommitNotFound is returned when a commit doesn't exist
	ErrCommitNotFound = errors.New("commit not found")
	// ErrInvalidCommit is returned when a commit id is not valid
	ErrInvalidCommit = errors.New("invalid commit id")
)

// NewCommit creates, stores, and returns a new commit.
// The tree and the parent, if any, must already be in the odb.
// HEAD is not updated
func (r *Repository) NewCommit(treeID ginternals.Oid, author object.Signature, opts *object.CommitOptions) (*object.Commit, error) {
	if opts == nil {
		opts = &object.CommitOptions{}
	}
	if _, err := r.Tree(treeID); err != nil {
		return nil, fmt.Errorf("invalid tree %s: %w", treeID.String(), err)
	}
	if !opts.ParentID.IsZero() {
		if _, err := r.Commit(opts.ParentID); err != nil {
			return nil, fmt.Errorf("invalid parent %s: %w", opts.ParentID.String(), err)
		}
	}

	c := object.NewCommit(treeID, author, opts)
	if _, err := r.dotGini.WriteObject(c.ToObject()); err != nil {
		return nil, fmt.Errorf("could not write the object to the odb: %w", err)
	}
	return c, nil
}

// Commit returns the commit matching the given ID.
// ErrCommitNotFound is returned if the commit doesn't exist
func (r *Repository) Commit(oid ginternals.Oid) (*object.Commit, error) {
	o, err := r.dotGini.Object(oid, object.TypeCommit)
	if err != nil {
		if errors.Is(err, ginternals.ErrObjectNotFound) {
			return nil, fmt.Errorf("%s: %w: %w", oid.String(), ErrCommitNotFound, err)
		}
		return nil, fmt.Errorf("could not get commit %s: %w", oid.String(), err)
	}
	c, err := o.AsCommit()
	if err != nil {
		return nil, fmt.Errorf("could not parse commit %s: %w", oid.String(), err)
	}
	return c, nil
}

// Tree returns the tree matching the given ID
func (r *Repository) Tree(oid ginternals.Oid) (*object.Tree, error) {
	o, err := r.dotGini.Object(oid, object.TypeTree)
	if err != nil {
		return nil, fmt.Errorf("could not get tree %s: %w", oid.String(), err)
	}
	t, err := o.AsTree()
	if err != nil {
		return nil, fmt.Errorf("could not parse tree %s: %w", oid.String(), err)
	}
	return t, nil
}

// Blob returns the blob matching the given ID
func (r *Repository) Blob(oid ginternals.Oid) (*object.Blob, error) {
	o, err := r.dotGini.Object(oid, object.TypeBlob)
	if err != nil {
		return nil, fmt.Errorf("could not get blob %s: %w", oid.String(), err)
	}
	return o.AsBlob(), nil
}

// ResolveTree returns the ID of the tree of the given commit
func (r *Repository) ResolveTree(commitID ginternals.Oid) (ginternals.Oid, error) {
	c, err := r.Commit(commitID)
	if err != nil {
		return ginternals.NullOid, err
	}
	return c.TreeID(), nil
}

// CommitWalkFunc represents a function that will be applied on every
// commit of an history. Returning backend.WalkStop stops the walk
// without error
type CommitWalkFunc = func(c *object.Commit) error

// WalkHistory runs the provided method on the given commit and all
// its ancestors, from the newest to the oldest.
// The walk fails if one of the commits is missing or cannot be parsed
func (r *Repository) WalkHistory(from ginternals.Oid, f CommitWalkFunc) error {
	seen := map[ginternals.Oid]struct{}{}
	for oid := from; !oid.IsZero(); {
		if _, ok := seen[oid]; ok {
			return fmt.Errorf("commit %s is its own ancestor: %w", oid.String(), ErrRepositoryCorrupt)
		}
		seen[oid] = struct{}{}

		c, err := r.Commit(oid)
		if err != nil {
			return err
		}
		if err = f(c); err != nil {
			if err == backend.WalkStop { //nolint:errorlint,goerr113 // it's a fake error so no need to use Error.Is()
				return nil
			}
			return err
		}
		oid = c.ParentID()
	}
	return nil
}

// Log returns all the commits reachable from HEAD, newest first.
// An empty slice is returned if there are no commits
func (r *Repository) Log() ([]*object.Commit, error) {
	head, ok, err := r.Head()
	if err != nil {
		return nil, err
	}
	commits := []*object.Commit{}
	if !ok {
		return commits, nil
	}
	err = r.WalkHistory(head, func(c *object.Commit) error {
		commits = append(commits, c)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("could not walk the history: %w", err)
	}
	return commits, nil
}
