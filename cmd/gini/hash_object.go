package main

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/Nivl/gini/ginternals/object"
	"github.com/Nivl/gini/internal/errutil"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"golang.org/x/xerrors"
)

type hashObjectParams struct {
	typ      string
	write    bool
	filePath string
}

func newHashObjectCmd(cfg *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hash-object FILE",
		Short: "Compute object ID and optionally store the file in the repository",
		Args:  cobra.ExactArgs(1),
	}

	typ := cmd.Flags().StringP("type", "t", "blob", "Specify the type")
	write := cmd.Flags().BoolP("w", "w", false, "Actually write the object into the object database.")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return hashObjectCmd(cmd.OutOrStdout(), cfg, hashObjectParams{
			typ:      *typ,
			write:    *write,
			filePath: args[0],
		})
	}

	return cmd
}

func hashObjectCmd(out io.Writer, cfg *globalFlags, p hashObjectParams) (err error) {
	filePath := p.filePath
	if !filepath.IsAbs(filePath) {
		filePath = filepath.Join(cfg.C.String(), filePath)
	}
	content, err := afero.ReadFile(afero.NewOsFs(), filePath)
	if err != nil {
		return err
	}

	typ, err := object.NewTypeFromString(p.typ)
	if err != nil {
		return xerrors.Errorf("unsupported object type %s: %w", p.typ, err)
	}
	o := object.New(typ, content)
	switch typ {
	case object.TypeCommit:
		if _, err = o.AsCommit(); err != nil {
			return xerrors.Errorf("invalid commit file: %w", err)
		}
	case object.TypeTree:
		if _, err = o.AsTree(); err != nil {
			return xerrors.Errorf("invalid tree file: %w", err)
		}
	case object.TypeBlob:
	}

	if p.write {
		r, loadErr := loadRepository(cfg)
		if loadErr != nil {
			return loadErr
		}
		defer errutil.Close(r, &err)

		// objects are stored without their type
		if _, err = r.NewBlob(content); err != nil {
			return err
		}
	}

	fmt.Fprintln(out, o.ID().String())
	return nil
}
