package gini

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/Nivl/gini/ginternals"
)

// RestoreError is returned when a restore failed after the work tree
// got backed up. The work tree may be in a partial state, and can be
// recovered using the backup
type RestoreError struct {
	// Backup is the backup made before the work tree got modified
	Backup *Backup
	Err    error
}

func (e *RestoreError) Error() string {
	return fmt.Sprintf("restore failed, the work tree can be recovered from backup %s: %s", e.Backup.Name, e.Err.Error())
}

// Unwrap returns the error that made the restore fail
func (e *RestoreError) Unwrap() error {
	return e.Err
}

// Restore replaces the content of the work tree with the snapshot of
// the given commit, and moves HEAD to it.
//
// Everything that can be checked is checked before the work tree is
// touched: the commit id, the commit, its whole tree, and HEAD.
// The work tree is then backed up, cleaned, and filled with the
// content of the snapshot. The repository metadata is never touched.
//
// If anything fails after the backup was made, a *RestoreError
// containing the backup is returned.
// The backup is returned on success
func (r *Repository) Restore(target string) (*Backup, error) {
	oid, err := ginternals.NewOidFromStr(target)
	if err != nil {
		return nil, fmt.Errorf("%q: %w: %w", target, ErrInvalidCommit, err)
	}
	return r.RestoreCommit(oid)
}

// RestoreCommit is the same as Restore, using a commit ID
func (r *Repository) RestoreCommit(oid ginternals.Oid) (*Backup, error) {
	exists, err := r.dotGini.HasObject(oid)
	if err != nil {
		return nil, fmt.Errorf("could not check commit %s: %w", oid.String(), err)
	}
	if !exists {
		return nil, fmt.Errorf("%s: %w", oid.String(), ErrCommitNotFound)
	}

	treeID, err := r.ResolveTree(oid)
	if err != nil {
		return nil, err
	}
	if err = r.ValidateTree(treeID); err != nil {
		return nil, fmt.Errorf("commit %s cannot be restored: %w", oid.String(), err)
	}
	detached, err := r.IsHeadDetached()
	if err != nil {
		return nil, err
	}
	if detached {
		return nil, fmt.Errorf("cannot restore: %w", ginternals.ErrDetachedHead)
	}

	if err = r.begin(StateRestoringBackedUp); err != nil {
		return nil, err
	}
	defer r.end()

	backup, err := r.createBackup()
	if err != nil {
		return nil, err
	}
	r.logger.Info("restoring commit",
		slog.String("commit", oid.String()),
		slog.String("backup", backup.Name))

	if err = r.wipeWorkTree(); err != nil {
		return nil, &RestoreError{Backup: backup, Err: err}
	}
	r.transition(StateRestoringCleaned)

	if err = r.CheckoutTree(treeID, r.Config.WorkTreePath); err != nil {
		return nil, &RestoreError{Backup: backup, Err: err}
	}
	if err = r.AdvanceHead(oid); err != nil {
		return nil, &RestoreError{Backup: backup, Err: err}
	}
	r.logger.Info("commit restored", slog.String("commit", oid.String()))
	return backup, nil
}

// IsRestoreError returns the RestoreError contained in err, if any
func IsRestoreError(err error) (*RestoreError, bool) {
	var rErr *RestoreError
	if errors.As(err, &rErr) {
		return rErr, true
	}
	return nil, false
}
