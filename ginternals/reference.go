package ginternals

import (
	"bytes"
	"errors"
	"strings"

	"golang.org/x/xerrors"
)

// Common ref names
const (
	// Head is a reference to the current branch, or to a commit if
	// we're detached
	Head = "HEAD"
	// Main correspond to the default branch name if none was
	// specified
	Main = "main"
)

// symbolicPrefix is what a symbolic reference starts with on disk
const symbolicPrefix = "ref: "

var (
	// ErrRefNotFound is an error thrown when trying to act on a
	// reference that doesn't exists
	ErrRefNotFound = errors.New("reference not found")

	// ErrRefExists is an error thrown when trying to act on a
	// reference that should not exist, but does
	ErrRefExists = errors.New("reference already exists")

	// ErrRefNameInvalid is an error thrown when the name of a reference
	// is not valid
	ErrRefNameInvalid = errors.New("reference name is not valid")

	// ErrRefInvalid is an error thrown when a reference is not valid
	ErrRefInvalid = errors.New("reference is not valid")

	// ErrUnknownRefType is an error thrown when the type of a reference
	// is unknown
	ErrUnknownRefType = errors.New("unknown reference type")

	// ErrDetachedHead is an error thrown when trying to move HEAD
	// while it targets a commit directly instead of a branch
	ErrDetachedHead = errors.New("detached HEAD not supported for updates")
)

// ReferenceType represents the type of a reference
type ReferenceType int8

const (
	// OidReference represents a reference that targets an Oid
	OidReference ReferenceType = 1
	// SymbolicReference represents a reference that targets another
	// reference
	SymbolicReference ReferenceType = 2
)

// Reference represents a reference to a commit, either direct
// (a branch, a detached HEAD) or symbolic (HEAD pointing to a branch)
type Reference struct {
	name   string
	target string
	id     Oid
	typ    ReferenceType
}

// RefContent represents a method that returns the content of reference
// This is used so we can do the process here, without depending
// on a specific backend or having circular dependencies.
// The method is expected to return an error matching ErrRefNotFound
// if the reference doesn't exist.
type RefContent func(name string) ([]byte, error)

// ResolveReference resolves symbolic references.
//
// A symbolic reference targeting a reference that doesn't exist yet
// is not an error: it's what HEAD looks like on a repository without
// any commits. In that case the returned reference is symbolic and its
// Target() is NullOid.
func ResolveReference(name string, finder RefContent) (*Reference, error) {
	return resolveRefs(name, finder, map[string]struct{}{})
}

// resolveRefs resolves references recursively
func resolveRefs(name string, finder RefContent, visited map[string]struct{}) (*Reference, error) {
	// we need to protect ourselves against circular references
	// Ex: refs/heads/main is a ref to refs/heads/a which is a ref to
	// refs/heads/main
	if _, ok := visited[name]; ok {
		return nil, xerrors.Errorf("circular symbolic reference: %w", ErrRefInvalid)
	}
	visited[name] = struct{}{}

	if !IsRefNameValid(name) {
		return nil, xerrors.Errorf(`ref "%s": %w`, name, ErrRefNameInvalid)
	}

	data, err := finder(name)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimSpace(data)

	// if the reference is symbolic, we need to follow to get the target
	if bytes.HasPrefix(data, []byte(symbolicPrefix)) {
		symbolicTarget := string(data[len(symbolicPrefix):])
		// A symbolic ref is only allowed to target something in refs/,
		// we don't want to write a commit anywhere else in the repo
		if !strings.HasPrefix(symbolicTarget, refsDirName+"/") {
			return nil, xerrors.Errorf(`ref "%s" targets "%s": %w`, name, symbolicTarget, ErrRefInvalid)
		}
		ref, err := resolveRefs(symbolicTarget, finder, visited)
		if err != nil {
			if errors.Is(err, ErrRefNotFound) {
				return NewSymbolicReference(name, symbolicTarget), nil
			}
			return nil, err
		}
		return &Reference{
			typ:    SymbolicReference,
			name:   name,
			id:     ref.id,
			target: symbolicTarget,
		}, nil
	}

	oid, err := NewOidFromChars(data)
	if err != nil {
		return nil, xerrors.Errorf(`ref "%s" contains %q: %w`, name, data, ErrRefInvalid)
	}
	return &Reference{
		typ:  OidReference,
		name: name,
		id:   oid,
	}, nil
}

// NewReference return a new Reference object that targets
// an object
func NewReference(name string, target Oid) *Reference {
	return &Reference{
		typ:  OidReference,
		name: name,
		id:   target,
	}
}

// NewSymbolicReference return a new Reference object that targets
// another reference.
// Example HEAD targeting refs/heads/main
func NewSymbolicReference(name, target string) *Reference {
	return &Reference{
		typ:    SymbolicReference,
		name:   name,
		target: target,
	}
}

// Name returns the full name fo the reference:
// example: refs/heads/main
func (ref *Reference) Name() string {
	return ref.name
}

// Target returns the ID targeted by a reference.
// NullOid is returned for a symbolic reference that targets a
// reference that doesn't exist yet
func (ref *Reference) Target() Oid {
	return ref.id
}

// Type returns the type of a reference
func (ref *Reference) Type() ReferenceType {
	return ref.typ
}

// SymbolicTarget returns the symbolic target of a reference
func (ref *Reference) SymbolicTarget() string {
	return ref.target
}

// Bytes returns the content of the reference as it should be
// persisted
func (ref *Reference) Bytes() ([]byte, error) {
	switch ref.typ {
	case SymbolicReference:
		return []byte(symbolicPrefix + ref.target), nil
	case OidReference:
		return []byte(ref.id.String()), nil
	default:
		return nil, xerrors.Errorf("reference type %d: %w", ref.typ, ErrUnknownRefType)
	}
}

// IsRefNameValid returns whether the name of a reference is valid or not
// https://stackoverflow.com/a/12093994/382879
func IsRefNameValid(name string) bool {
	// the reference name cannot:
	// - be empty
	// - start by a "/"
	// - end by a "/"
	// - end by .
	if name == "" || name[0] == '/' || name[len(name)-1] == '/' || name[len(name)-1] == '.' {
		return false
	}

	// the reference name cannot contain:
	// - *
	// - ?
	// - ~
	// - :
	// - ^
	// - @{
	// - \
	// - ..
	// - [
	// - a space
	// - an ASCII char below 32 or a DEL (ASCII 127)
	for i, c := range name {
		if c < 32 || c == 127 {
			return false
		}
		if c == '*' || c == '?' || c == '~' || c == '^' {
			return false
		}
		if c == ' ' || c == '[' || c == '\\' || c == ':' {
			return false
		}
		if i < len(name)-1 {
			substr := name[i : i+2]
			if substr == "@{" || substr == ".." {
				return false
			}
		}
	}

	segments := strings.Split(name, "/")
	for _, s := range segments {
		// no segment cannot:
		// - be empty
		// - start by a dot
		// - end by a dot
		// - end by ".lock"
		if s == "" || s[0] == '.' || s[len(s)-1] == '.' || strings.HasSuffix(s, ".lock") {
			return false
		}
	}

	return true
}
