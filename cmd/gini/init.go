package main

import (
	"io"

	"github.com/Nivl/gini"
	"github.com/spf13/cobra"
)

func newInitCmd(cfg *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new gini repository",
		Args:  cobra.NoArgs,
	}

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return initCmd(cmd.OutOrStdout(), cfg)
	}

	return cmd
}

func initCmd(out io.Writer, cfg *globalFlags) error {
	c, err := loadConfig(cfg, true)
	if err != nil {
		return err
	}
	r, err := gini.InitRepositoryWithOptions(c.WorkTreePath, gini.Options{
		Config: c,
		Logger: cfg.logger,
	})
	if err != nil {
		return err
	}
	newPrinter(out).Printf("Initialized empty .gini project in %s", r.WorkTreePath())
	return r.Close()
}
