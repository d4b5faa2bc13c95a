package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/Nivl/gini"
	"github.com/Nivl/gini/ginternals"
	"github.com/Nivl/gini/ginternals/object"
	"github.com/Nivl/gini/internal/errutil"
	"github.com/spf13/cobra"
)

// minPrefixLength is the minimum number of chars needed to look for a
// checkpoint using the beginning of its hash
const minPrefixLength = 4

var errAmbiguousPrefix = errors.New("short hash is ambiguous")

type restoreCmdFlags struct {
	yes bool
}

func newRestoreCmd(cfg *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "restore [CHECKPOINT]",
		Aliases: []string{"r"},
		Short:   "Restore the project to a previous checkpoint",
		Long:    "Restore the project to a previous checkpoint.\n\nThe current files are backed up in .gini/backups before being overwritten. When no checkpoint is provided, the list of checkpoints is displayed to pick one from.",
		Args:    cobra.MaximumNArgs(1),
	}

	flags := restoreCmdFlags{}
	cmd.Flags().BoolVarP(&flags.yes, "yes", "y", false, "Do not ask for a confirmation before overwriting the files.")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		target := ""
		if len(args) > 0 {
			target = args[0]
		}
		return restoreCmd(cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr(), cfg, flags, target)
	}

	return cmd
}

func restoreCmd(in io.Reader, out, errOut io.Writer, cfg *globalFlags, flags restoreCmdFlags, target string) (err error) {
	r, err := loadRepository(cfg)
	if err != nil {
		return err
	}
	defer errutil.Close(r, &err)

	p := newPrinter(out)
	pr := newPrompter(in, p)

	var oid ginternals.Oid
	switch target {
	case "":
		commits, err := r.Log()
		if err != nil {
			return err
		}
		if len(commits) == 0 {
			p.Printf("No checkpoints found to restore.")
			return nil
		}
		p.Printf("%s", p.Heading("Available checkpoints:"))
		for i, c := range commits {
			p.Println(fmt.Sprintf("  %d. %s - %s", i+1, p.Digest(c.ID().Short()), c.Summary()))
		}
		i, err := pr.Select("checkpoint", len(commits))
		if err != nil {
			return err
		}
		oid = commits[i].ID()
	default:
		oid, err = resolveCommit(r, target)
		if err != nil {
			return err
		}
	}

	if !flags.yes {
		ok, err := pr.Confirm()
		if err != nil {
			return err
		}
		if !ok {
			p.Printf("Restore cancelled.")
			return nil
		}
	}

	p.Printf("Restoring to checkpoint %s...", p.Digest(oid.String()))
	backup, err := r.RestoreCommit(oid)
	if err != nil {
		if rErr, ok := gini.IsRestoreError(err); ok {
			newPrinter(errOut).Printf("%s your files were saved in %s, run `gini backup %s` to get them back",
				p.Warning("restore failed:"), rErr.Backup.Name, rErr.Backup.Name)
		}
		return err
	}
	p.Printf("Previous files saved in backup %s", backup.Name)
	p.Printf("%s", p.Success("Successfully restored project state."))
	return nil
}

// resolveCommit returns the ID of the checkpoint matching target.
// target is either a full hash, or the beginning of the hash of one
// of the checkpoints of the history
func resolveCommit(r *gini.Repository, target string) (ginternals.Oid, error) {
	prefix := strings.ToLower(target)
	isHex := strings.Trim(prefix, "0123456789abcdef") == ""
	if !isHex || len(target) >= ginternals.OidHexSize || len(target) < minPrefixLength {
		oid, err := ginternals.NewOidFromStr(target)
		if err != nil {
			return ginternals.NullOid, fmt.Errorf("%q: %w: %w", target, gini.ErrInvalidCommit, err)
		}
		return oid, nil
	}

	commits, err := r.Log()
	if err != nil {
		return ginternals.NullOid, err
	}
	var matches []*object.Commit
	for _, c := range commits {
		if strings.HasPrefix(c.ID().String(), prefix) {
			matches = append(matches, c)
		}
	}
	switch len(matches) {
	case 0:
		return ginternals.NullOid, fmt.Errorf("%q: %w", target, gini.ErrCommitNotFound)
	case 1:
		return matches[0].ID(), nil
	default:
		return ginternals.NullOid, fmt.Errorf("%q matches %d checkpoints: %w", target, len(matches), errAmbiguousPrefix)
	}
}
