package main

import (
	"io"

	"github.com/Nivl/gini/internal/errutil"
	"github.com/spf13/cobra"
)

func newCheckpointCmd(cfg *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "checkpoint",
		Aliases: []string{"c"},
		Short:   "Create a new checkpoint with a message",
		Args:    cobra.NoArgs,
	}

	message := cmd.Flags().StringP("message", "m", "", "Message describing the checkpoint.")
	cmd.MarkFlagRequired("message") //nolint:errcheck // it only fails if the flag doesn't exist

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return checkpointCmd(cmd.OutOrStdout(), cfg, *message)
	}

	return cmd
}

func checkpointCmd(out io.Writer, cfg *globalFlags, message string) (err error) {
	r, err := loadRepository(cfg)
	if err != nil {
		return err
	}
	defer errutil.Close(r, &err)

	c, err := r.Checkpoint(message, author(r))
	if err != nil {
		return err
	}

	p := newPrinter(out)
	p.Printf("Checkpoint created with hash: %s", p.Digest(c.ID().String()))
	return nil
}
