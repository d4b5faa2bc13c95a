package gini

import (
	"fmt"
	"log/slog"

	"github.com/Nivl/gini/ginternals"
)

// headReference returns HEAD. Any error is a sign of a corrupted
// repository since HEAD is created with the repository, and can only
// target a branch or a commit
func (r *Repository) headReference() (*ginternals.Reference, error) {
	ref, err := r.dotGini.Reference(ginternals.Head)
	if err != nil {
		return nil, fmt.Errorf("could not read HEAD: %w: %w", ErrRepositoryCorrupt, err)
	}
	if ref.Type() == ginternals.SymbolicReference && !ginternals.IsLocalBranch(ref.SymbolicTarget()) {
		return nil, fmt.Errorf("HEAD targets %q which is not a branch: %w", ref.SymbolicTarget(), ErrRepositoryCorrupt)
	}
	return ref, nil
}

// Head returns the ID of the commit targeted by HEAD.
// ok is false when the repository has no commits yet
func (r *Repository) Head() (oid ginternals.Oid, ok bool, err error) {
	ref, err := r.headReference()
	if err != nil {
		return ginternals.NullOid, false, err
	}
	if ref.Target().IsZero() {
		// A detached HEAD always targets a commit
		if ref.Type() == ginternals.OidReference {
			return ginternals.NullOid, false, fmt.Errorf("HEAD targets a null commit: %w", ErrRepositoryCorrupt)
		}
		return ginternals.NullOid, false, nil
	}
	return ref.Target(), true, nil
}

// IsHeadDetached returns whether HEAD targets a commit directly
// instead of a branch
func (r *Repository) IsHeadDetached() (bool, error) {
	ref, err := r.headReference()
	if err != nil {
		return false, err
	}
	return ref.Type() == ginternals.OidReference, nil
}

// AdvanceHead moves the branch targeted by HEAD to the given commit.
// ErrDetachedHead is returned, and nothing is changed, if HEAD is not
// targeting a branch.
// The commit is not checked
func (r *Repository) AdvanceHead(oid ginternals.Oid) error {
	ref, err := r.headReference()
	if err != nil {
		return err
	}
	if ref.Type() != ginternals.SymbolicReference {
		return fmt.Errorf("HEAD targets %s: %w", ref.Target().String(), ginternals.ErrDetachedHead)
	}

	branch := ginternals.NewReference(ref.SymbolicTarget(), oid)
	if err = r.dotGini.WriteReference(branch); err != nil {
		return fmt.Errorf("could not update %s: %w", ref.SymbolicTarget(), err)
	}
	r.logger.Info("HEAD advanced",
		slog.String("branch", ginternals.LocalBranchShortName(ref.SymbolicTarget())),
		slog.String("commit", oid.String()))
	return nil
}
