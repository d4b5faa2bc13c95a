// Package object contains methods and objects to work with gini objects
package object

import (
	"errors"
	"fmt"

	"github.com/Nivl/gini/ginternals"
)

var (
	// ErrObjectUnknown represents an error thrown when encountering an
	// unknown object type
	ErrObjectUnknown = errors.New("invalid object type")

	// ErrObjectInvalid represents an error thrown when an object contains
	// unexpected data or when the wrong object is provided to a method.
	// Every decoding error of this package matches it
	ErrObjectInvalid = errors.New("invalid object")

	// ErrTreeInvalid represents an error thrown when parsing an invalid
	// tree object
	ErrTreeInvalid = fmt.Errorf("invalid tree: %w", ErrObjectInvalid)

	// ErrCommitInvalid represents an error thrown when parsing an invalid
	// commit object
	ErrCommitInvalid = fmt.Errorf("invalid commit: %w", ErrObjectInvalid)

	// ErrObjectCorrupt represents an error thrown when the content of
	// a stored object doesn't match its ID anymore
	ErrObjectCorrupt = fmt.Errorf("object content doesn't match its id: %w", ErrObjectInvalid)

	// ErrEntryNameInvalid represents an error thrown when a file or
	// directory name cannot be stored in a tree
	ErrEntryNameInvalid = errors.New("entry name cannot be stored in a tree")
)

// Type represents the type of an object.
// The type is not persisted with the object, it's the role the object
// has in the graph: the commit says its tree is a tree, the tree says
// which of its entries are blobs and which are trees.
type Type int8

// List of all the possible object types
const (
	TypeCommit Type = 1
	TypeTree   Type = 2
	TypeBlob   Type = 3
)

func (t Type) String() string {
	switch t {
	case TypeCommit:
		return "commit"
	case TypeTree:
		return "tree"
	case TypeBlob:
		return "blob"
	default:
		panic(fmt.Sprintf("unknown object type %d", t))
	}
}

// IsValid check id the object type is an existing type
func (t Type) IsValid() bool {
	switch t {
	case TypeCommit,
		TypeTree,
		TypeBlob:
		return true
	default:
		return false
	}
}

// NewTypeFromString returns an Type from its string
// representation
func NewTypeFromString(t string) (Type, error) {
	switch t {
	case "commit":
		return TypeCommit, nil
	case "tree":
		return TypeTree, nil
	case "blob":
		return TypeBlob, nil
	default:
		return 0, ErrObjectUnknown
	}
}

// Object represents a gini object. An object is an immutable chunk of
// bytes addressed by the SHA-1 of those exact bytes.
// Object are stored flat in .gini/objects/{sha}
type Object struct {
	id      ginternals.Oid
	typ     Type
	content []byte
}

// New creates a new object of the given type
func New(typ Type, content []byte) *Object {
	return &Object{
		id:      ginternals.NewOidFromContent(content),
		typ:     typ,
		content: content,
	}
}

// ID returns the ID of the object.
func (o *Object) ID() ginternals.Oid {
	return o.id
}

// Size returns the size of the object
func (o *Object) Size() int {
	return len(o.content)
}

// Type returns the Type for this object
func (o *Object) Type() Type {
	return o.typ
}

// Bytes returns the object's contents
func (o *Object) Bytes() []byte {
	return o.content
}

// AsBlob parses the object as Blob
func (o *Object) AsBlob() *Blob {
	return NewBlob(o)
}

// AsTree parses the object as Tree
func (o *Object) AsTree() (*Tree, error) {
	return NewTreeFromObject(o)
}

// AsCommit parses the object as Commit
func (o *Object) AsCommit() (*Commit, error) {
	return NewCommitFromObject(o)
}
