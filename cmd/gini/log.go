package main

import (
	"io"
	"strings"

	"github.com/Nivl/gini/ginternals/object"
	"github.com/Nivl/gini/internal/errutil"
	"github.com/spf13/cobra"
)

// logDateFormat is the format used to display the date of a checkpoint
const logDateFormat = "Mon Jan 2 15:04:05 2006 -0700"

func newLogCmd(cfg *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "log",
		Aliases: []string{"l"},
		Short:   "List all the checkpoints of the project, newest first",
		Args:    cobra.NoArgs,
	}

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return logCmd(cmd.OutOrStdout(), cfg)
	}

	return cmd
}

func logCmd(out io.Writer, cfg *globalFlags) (err error) {
	r, err := loadRepository(cfg)
	if err != nil {
		return err
	}
	defer errutil.Close(r, &err)

	commits, err := r.Log()
	if err != nil {
		return err
	}

	p := newPrinter(out)
	if len(commits) == 0 {
		p.Printf("No checkpoints yet.")
		return nil
	}
	for _, c := range commits {
		printCommit(p, c)
	}
	return nil
}

func printCommit(p *printer, c *object.Commit) {
	p.Println(p.Digest("checkpoint " + c.ID().String()))
	p.Println("Author: " + c.Author().Name + " <" + c.Author().Email + ">")
	p.Println("Date:   " + c.Author().Time.Format(logDateFormat))
	p.Println()
	for _, line := range strings.Split(strings.TrimRight(c.Message(), "\n"), "\n") {
		p.Println("\t" + line)
	}
	p.Println()
}
