package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/Nivl/gini"
	"github.com/Nivl/gini/ginternals"
	"github.com/Nivl/gini/ginternals/object"
	"github.com/Nivl/gini/internal/errutil"
	"github.com/spf13/cobra"
	"golang.org/x/xerrors"
)

var errBadFile = errors.New("bad file")

func newCatFileCmd(cfg *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cat-file [TYPE] OBJECT",
		Short: "Provide content or size information for repository objects",
		Args:  cobra.RangeArgs(1, 2),
	}

	sizeOnly := cmd.Flags().BoolP("s", "s", false, "Instead of the content, show the object size identified by <object>.")
	prettyPrint := cmd.Flags().BoolP("p", "p", false, "Pretty-print the contents of <object> based on its content.")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		p := catFileParams{
			sizeOnly:    *sizeOnly,
			prettyPrint: *prettyPrint,
			objectName:  args[0],
		}
		if len(args) == 2 {
			p.typ = args[0]
			p.objectName = args[1]
		}
		return catFileCmd(cmd.OutOrStdout(), cfg, p)
	}
	return cmd
}

type catFileParams struct {
	sizeOnly    bool
	prettyPrint bool
	objectName  string
	typ         string
}

func catFileCmd(out io.Writer, cfg *globalFlags, p catFileParams) (err error) {
	// Validate options
	if p.typ != "" && (p.sizeOnly || p.prettyPrint) {
		return errors.New("type not supported with options -s, -p")
	}
	if p.typ == "" && !p.sizeOnly && !p.prettyPrint {
		return errors.New("type and object required")
	}
	if p.sizeOnly && p.prettyPrint {
		return errors.New("option -p not supported with option -s")
	}

	// run the command
	r, err := loadRepository(cfg)
	if err != nil {
		return err
	}
	defer errutil.Close(r, &err)

	oid, err := objectID(r, p.objectName)
	if err != nil {
		return err
	}

	o, err := r.Object(oid)
	if err != nil {
		return err
	}

	switch {
	case p.sizeOnly:
		fmt.Fprintln(out, strconv.Itoa(o.Size()))
	case p.prettyPrint:
		prettyPrintObject(out, o)
	default:
		typ, err := object.NewTypeFromString(p.typ)
		if err != nil {
			return xerrors.Errorf("%s: %w", p.typ, err)
		}
		// objects are stored without their type, so we make sure the
		// content can be read as the requested type
		switch typ {
		case object.TypeCommit:
			_, err = object.New(typ, o.Bytes()).AsCommit()
		case object.TypeTree:
			_, err = object.New(typ, o.Bytes()).AsTree()
		case object.TypeBlob:
		}
		if err != nil {
			return fmt.Errorf("%s: %w: %w", p.objectName, errBadFile, err)
		}
		fmt.Fprint(out, string(o.Bytes()))
	}
	return nil
}

// objectID returns the ID of the object named name. name is either
// HEAD or a full hash
func objectID(r *gini.Repository, name string) (ginternals.Oid, error) {
	if name == ginternals.Head {
		oid, ok, err := r.Head()
		if err != nil {
			return ginternals.NullOid, err
		}
		if !ok {
			return ginternals.NullOid, xerrors.Errorf("%s: %w", name, gini.ErrCommitNotFound)
		}
		return oid, nil
	}
	oid, err := ginternals.NewOidFromStr(name)
	if err != nil {
		return ginternals.NullOid, xerrors.Errorf("not a valid object name %s: %w", name, err)
	}
	return oid, nil
}

// prettyPrintObject prints o as a commit or a tree if its content can be
// read as one, and as a blob otherwise
func prettyPrintObject(out io.Writer, o *object.Object) {
	if c, err := object.New(object.TypeCommit, o.Bytes()).AsCommit(); err == nil {
		fmt.Fprintf(out, "tree %s\n", c.TreeID().String())
		if c.HasParent() {
			fmt.Fprintf(out, "parent %s\n", c.ParentID().String())
		}
		fmt.Fprintf(out, "author %s\n", c.Author().String())
		fmt.Fprintln(out, "")
		fmt.Fprint(out, c.Message())
		return
	}
	if tree, err := object.New(object.TypeTree, o.Bytes()).AsTree(); err == nil {
		for _, e := range tree.Entries() {
			fmt.Fprintf(out, "%s %s\t%s\n", e.Type.String(), e.ID.String(), e.Name)
		}
		return
	}
	fmt.Fprint(out, string(o.Bytes()))
}
