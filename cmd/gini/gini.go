package main

import (
	"io"
	"log/slog"

	"github.com/Nivl/gini/env"
	"github.com/Nivl/gini/internal/pathutil"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type globalFlags struct {
	env     *env.Env
	C       pflag.Value // simpler version of git's -C: https://git-scm.com/docs/git#Documentation/git.txt--Cltpathgt
	verbose bool
	logger  *slog.Logger
}

func newRootCmd(cwd string, e *env.Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "gini",
		Short:         "local checkpoints of a project",
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	cfg := &globalFlags{
		env: e,
		C:   pathutil.NewDirPathFlagWithDefault(cwd),
	}
	cmd.PersistentFlags().VarP(cfg.C, "C", "C", "Run as if gini was started in the provided path instead of the current working directory.")
	cmd.PersistentFlags().BoolVarP(&cfg.verbose, "verbose", "v", false, "Log what gini is doing on stderr.")
	cmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		cfg.logger = newLogger(cmd.ErrOrStderr(), cfg.verbose)
	}

	// porcelain
	cmd.AddCommand(newInitCmd(cfg))
	cmd.AddCommand(newCheckpointCmd(cfg))
	cmd.AddCommand(newLogCmd(cfg))
	cmd.AddCommand(newRestoreCmd(cfg))
	cmd.AddCommand(newBackupCmd(cfg))

	// plumbing
	cmd.AddCommand(newCatFileCmd(cfg))
	cmd.AddCommand(newHashObjectCmd(cfg))

	return cmd
}

// newLogger returns a logger writing text records to out.
// Only warnings are reported unless verbose is set
func newLogger(out io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{
		Level: level,
	}))
}
