package object

import (
	"bytes"
	"fmt"
	"os"
	"sort"
	"strings"
	"unicode"

	"github.com/Nivl/gini/ginternals"
	"golang.org/x/xerrors"
)

// Tree represents a tree object: the content of a directory
type Tree struct {
	rawObject *Object
	// we don't use pointers to make sure entries are immutable
	entries []TreeEntry
}

// TreeEntry represents an entry inside a tree
type TreeEntry struct {
	// Name is the name of the file or directory. It's never a path
	Name string
	ID   ginternals.Oid
	// Type is either TypeBlob (file) or TypeTree (directory)
	Type Type
}

// ValidateEntryName returns an error if the given file or directory
// name cannot be stored in a tree.
// A name must be a single path segment, and cannot contain any white
// spaces since they are used as separators in the encoded tree.
func ValidateEntryName(name string) error {
	if name == "" || name == "." || name == ".." {
		return xerrors.Errorf("%q: %w", name, ErrEntryNameInvalid)
	}
	for _, c := range name {
		if c == '/' || c == os.PathSeparator || c == 0 || unicode.IsSpace(c) {
			return xerrors.Errorf("%q: %w", name, ErrEntryNameInvalid)
		}
	}
	return nil
}

// NewTree returns a new tree with the given entries.
// The entries are sorted by name
func NewTree(entries []TreeEntry) *Tree {
	t := &Tree{
		entries: make([]TreeEntry, len(entries)),
	}
	copy(t.entries, entries)
	sort.Slice(t.entries, func(i, j int) bool {
		return t.entries[i].Name < t.entries[j].Name
	})
	t.rawObject = t.ToObject()
	return t
}

// NewTreeFromObject returns a new tree from an object
//
// A tree has following format:
//
// {type} {sha}  {name}
//
// Note:
// - a Tree may have multiple entries, one per line
// - an empty tree has no content
func NewTreeFromObject(o *Object) (*Tree, error) {
	if o.Type() != TypeTree {
		return nil, xerrors.Errorf("type %s is not a tree: %w", o.typ, ErrObjectInvalid)
	}

	entries := []TreeEntry{}
	objData := o.Bytes()
	if len(objData) > 0 {
		objData = bytes.TrimSuffix(objData, []byte{'\n'})
		seen := make(map[string]struct{})
		// the variable i is only use for error messages, not for
		// actual processing
		for i, line := range strings.Split(string(objData), "\n") {
			fields := strings.Fields(line)
			if len(fields) != 3 {
				return nil, xerrors.Errorf("entry %d has %d fields: %w", i+1, len(fields), ErrTreeInvalid)
			}

			entry := TreeEntry{}
			typ, err := NewTypeFromString(fields[0])
			if err != nil || (typ != TypeBlob && typ != TypeTree) {
				return nil, xerrors.Errorf("entry %d has an invalid type %q: %w", i+1, fields[0], ErrTreeInvalid)
			}
			entry.Type = typ

			entry.ID, err = ginternals.NewOidFromStr(fields[1])
			if err != nil {
				return nil, xerrors.Errorf("invalid SHA for entry %d (%s): %w", i+1, err.Error(), ErrTreeInvalid)
			}

			entry.Name = fields[2]
			if err = ValidateEntryName(entry.Name); err != nil {
				return nil, xerrors.Errorf("entry %d: %s: %w", i+1, err.Error(), ErrTreeInvalid)
			}
			if _, ok := seen[entry.Name]; ok {
				return nil, xerrors.Errorf("entry %q is duplicated: %w", entry.Name, ErrTreeInvalid)
			}
			seen[entry.Name] = struct{}{}

			entries = append(entries, entry)
		}
	}
	return &Tree{
		rawObject: o,
		entries:   entries,
	}, nil
}

// Entries returns a copy of tree entries
func (t *Tree) Entries() []TreeEntry {
	out := make([]TreeEntry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Entry returns the entry with the given name
func (t *Tree) Entry(name string) (TreeEntry, bool) {
	for _, e := range t.entries {
		if e.Name == name {
			return e, true
		}
	}
	return TreeEntry{}, false
}

// ID returns the object's ID
func (t *Tree) ID() ginternals.Oid {
	return t.rawObject.ID()
}

// ToObject returns an Object representing the tree
func (t *Tree) ToObject() *Object {
	if t.rawObject != nil {
		return t.rawObject
	}

	// Quick reminder that the Write* methods on bytes.Buffer never fails,
	// the error returned is always nil
	buf := new(bytes.Buffer)

	// The format of an tree entry is:
	// {type} {sha}  {name}
	// and entries are separated by a new line
	for i, e := range t.entries {
		if i > 0 {
			buf.WriteByte('\n')
		}
		fmt.Fprintf(buf, "%s %s  %s", e.Type, e.ID, e.Name)
	}

	return New(TypeTree, buf.Bytes())
}
