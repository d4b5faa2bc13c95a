package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/Nivl/gini"
	"github.com/Nivl/gini/internal/errutil"
	"github.com/spf13/cobra"
)

// backupDateFormat is the format used to display the creation date of
// a backup
const backupDateFormat = "2006-01-02 15:04:05"

type backupCmdFlags struct {
	list bool
	yes  bool
}

func newBackupCmd(cfg *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "backup [NAME]",
		Aliases: []string{"b"},
		Short:   "Restore the files from a backup",
		Long:    "Restore the files from a backup.\n\nA backup of the files is made every time a checkpoint is restored. When no backup is provided, the list of backups is displayed to pick one from.",
		Args:    cobra.MaximumNArgs(1),
	}

	flags := backupCmdFlags{}
	cmd.Flags().BoolVarP(&flags.list, "list", "l", false, "Only list the backups, newest first.")
	cmd.Flags().BoolVarP(&flags.yes, "yes", "y", false, "Do not ask for a confirmation before overwriting the files.")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		name := ""
		if len(args) > 0 {
			name = args[0]
		}
		return backupCmd(cmd.InOrStdin(), cmd.OutOrStdout(), cfg, flags, name)
	}

	return cmd
}

func backupCmd(in io.Reader, out io.Writer, cfg *globalFlags, flags backupCmdFlags, name string) (err error) {
	if flags.list && name != "" {
		return errors.New("option --list cannot be used with a backup name")
	}

	r, err := loadRepository(cfg)
	if err != nil {
		return err
	}
	defer errutil.Close(r, &err)

	p := newPrinter(out)
	pr := newPrompter(in, p)

	var backup *gini.Backup
	switch name {
	case "":
		backups, err := r.ListBackups()
		if err != nil {
			return err
		}
		if len(backups) == 0 {
			p.Printf("No backups found.")
			return nil
		}
		p.Printf("%s", p.Heading("Available backups:"))
		for i, b := range backups {
			p.Println(fmt.Sprintf("  %d. %s %s", i+1, b.Name, p.Faint("(created: "+b.CreatedAt.Format(backupDateFormat)+")")))
		}
		if flags.list {
			return nil
		}
		i, err := pr.Select("backup", len(backups))
		if err != nil {
			return err
		}
		backup = &backups[i]
	default:
		backup, err = r.Backup(name)
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

	p.Printf("Restoring from backup %s...", backup.Name)
	if err = r.RestoreFromBackup(backup.Name); err != nil {
		return err
	}
	p.Printf("%s", p.Success("Successfully restored from backup."))
	return nil
}
