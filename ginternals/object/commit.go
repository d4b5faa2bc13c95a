package object

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Nivl/gini/ginternals"
	"github.com/Nivl/gini/internal/readutil"
	"github.com/pkg/errors"
)

// ErrSignatureInvalid is an error thrown when the signature of a commit
// couldn't be parsed
var ErrSignatureInvalid = fmt.Errorf("commit signature is invalid: %w", ErrObjectInvalid)

// Signature represents the author and time of a commit
type Signature struct {
	Time  time.Time
	Name  string
	Email string
}

// String returns a stringified version of the Signature
func (s Signature) String() string {
	return fmt.Sprintf("%s <%s> %d %s", s.Name, s.Email, s.Time.Unix(), s.Time.Format("-0700"))
}

// IsZero returns whether the signature has Zero value
func (s Signature) IsZero() bool {
	return s.Time.IsZero() && s.Name == "" && s.Email == ""
}

// NewSignature generates a signature at the current date and time
func NewSignature(name, email string) Signature {
	return Signature{
		Name:  name,
		Email: email,
		Time:  time.Now(),
	}
}

// NewSignatureFromBytes returns a signature from an array of byte
//
// A signature has the following format:
// User Name <user.email@domain.tld> timestamp timezone
// Ex:
// Melvin Laplanche <melvin.wont.reply@gmail.com> 1566115917 -0700
func NewSignatureFromBytes(b []byte) (Signature, error) {
	sig := Signature{}

	// First we get he name which will have the following format
	// "User Name " (with the extra space)
	data := readutil.ReadTo(b, '<')
	if len(data) == 0 {
		if len(b) == 0 {
			return sig, errors.Wrap(ErrSignatureInvalid, "couldn't retrieve the name")
		}
		return sig, errors.Wrap(ErrSignatureInvalid, "signature stopped after the name")
	}
	sig.Name = strings.TrimSpace(string(data))
	offset := len(data) + 1 // +1 to skip the "<"
	if offset >= len(b) {
		return sig, errors.Wrap(ErrSignatureInvalid, "couldn't retrieve the email")
	}

	// Now we get the email, which is between "<" and ">"
	data = readutil.ReadTo(b[offset:], '>')
	if data == nil {
		return sig, errors.Wrap(ErrSignatureInvalid, "couldn't retrieve the email")
	}
	sig.Email = string(data)
	// +2 to skip the "> "
	offset += len(data) + 2
	if offset >= len(b) {
		return sig, errors.Wrap(ErrSignatureInvalid, "signature stopped after the email")
	}

	// Next is the timestamp and the timezone
	timestamp := readutil.ReadTo(b[offset:], ' ')
	offset += len(timestamp) + 1 // +1 to skip the " "
	if offset >= len(b) {
		return sig, errors.Wrap(ErrSignatureInvalid, "signature stopped after the timestamp")
	}

	t, err := strconv.ParseInt(string(timestamp), 10, 64)
	if err != nil {
		return sig, errors.Wrapf(ErrSignatureInvalid, "invalid timestamp %s: %s", timestamp, err.Error())
	}
	sig.Time = time.Unix(t, 0)

	// To get and set the timezone we can just parse the time with an empty
	// date and copy it over to the signature
	timezone := b[offset:]
	tz, err := time.Parse("-0700", string(timezone))
	if err != nil {
		return sig, errors.Wrapf(ErrSignatureInvalid, "invalid timezone format %s: %s", timezone, err.Error())
	}
	sig.Time = sig.Time.In(tz.Location())
	return sig, nil
}

// CommitOptions represents all the optional data available to create a commit
type CommitOptions struct {
	Message string
	// ParentID is the previous commit in the history.
	// NullOid for the very first commit of a repository
	ParentID ginternals.Oid
}

// Commit represents a commit object (a checkpoint)
type Commit struct {
	rawObject *Object

	author  Signature
	message string

	parentID ginternals.Oid
	treeID   ginternals.Oid
}

// NewCommit creates a new Commit object
// Any provided Oids won't be check
func NewCommit(treeID ginternals.Oid, author Signature, opts *CommitOptions) *Commit {
	c := &Commit{
		treeID:   treeID,
		author:   author,
		message:  opts.Message,
		parentID: opts.ParentID,
	}
	c.rawObject = c.ToObject()
	return c
}

// NewCommitFromObject creates a commit from a raw object
//
// A commit has following format:
//
// tree {sha}
// parent {sha}
// author {author_name} <{author_email}> {author_date_seconds} {author_date_timezone}
// {a blank line}
// {commit message}
//
// Note:
// - A commit has 0 or 1 parent line
//   The very first commit of a repo has no parents
func NewCommitFromObject(o *Object) (*Commit, error) {
	if o.typ != TypeCommit {
		return nil, fmt.Errorf("type %s is not a commit: %w", o.typ, ErrObjectInvalid)
	}
	ci := &Commit{
		rawObject: o,
	}
	hasParent := false
	offset := 0
	objData := o.Bytes()
	for {
		if offset >= len(objData) {
			// we reached the end without finding the blank line, meaning
			// the commit has no message
			break
		}
		line := readutil.ReadTo(objData[offset:], '\n')
		if line == nil {
			// last line, without a trailing \n
			line = objData[offset:]
		}
		offset += len(line) + 1 // +1 to count the \n

		// If we didn't find anything then something is wrong
		if len(line) == 0 && offset == 1 {
			return nil, fmt.Errorf("could not find commit first line: %w", ErrCommitInvalid)
		}

		// if we got an empty line, it means everything from now to the end
		// will be the commit message
		if len(line) == 0 {
			if offset < len(objData) {
				ci.message = string(objData[offset:])
			}
			break
		}

		// Otherwise we're getting a key/value pair, separated by a space
		kv := bytes.SplitN(line, []byte{' '}, 2)
		if len(kv) != 2 {
			return nil, fmt.Errorf("invalid header %q: %w", line, ErrCommitInvalid)
		}
		var err error
		switch string(kv[0]) {
		case "tree":
			if !ci.treeID.IsZero() {
				return nil, fmt.Errorf("commit has more than one tree: %w", ErrCommitInvalid)
			}
			ci.treeID, err = ginternals.NewOidFromChars(kv[1])
			if err != nil {
				return nil, fmt.Errorf("could not parse tree id %q: %w", kv[1], ErrCommitInvalid)
			}
		case "parent":
			if hasParent {
				return nil, fmt.Errorf("commit has more than one parent: %w", ErrCommitInvalid)
			}
			ci.parentID, err = ginternals.NewOidFromChars(kv[1])
			if err != nil {
				return nil, fmt.Errorf("could not parse parent id %q: %w", kv[1], ErrCommitInvalid)
			}
			hasParent = true
		case "author":
			ci.author, err = NewSignatureFromBytes(kv[1])
			if err != nil {
				return nil, fmt.Errorf("could not parse author signature [%s]: %w", string(kv[1]), err)
			}
		}
	}

	// validate the commit
	if ci.treeID.IsZero() {
		return nil, fmt.Errorf("commit has no tree: %w", ErrCommitInvalid)
	}
	if ci.author.IsZero() {
		return nil, fmt.Errorf("commit has no author: %w", ErrCommitInvalid)
	}

	return ci, nil
}

// ID returns the SHA of the commit object
func (c *Commit) ID() ginternals.Oid {
	return c.rawObject.ID()
}

// Author returns the Signature of the person that made the checkpoint
func (c *Commit) Author() Signature {
	return c.author
}

// Message returns the commit's message
func (c *Commit) Message() string {
	return c.message
}

// Summary returns the first line of the commit's message
func (c *Commit) Summary() string {
	if i := strings.IndexByte(c.message, '\n'); i >= 0 {
		return c.message[:i]
	}
	return c.message
}

// ParentID returns the SHA of the parent commit.
// NullOid is returned for the first commit of a repository
func (c *Commit) ParentID() ginternals.Oid {
	return c.parentID
}

// HasParent returns whether the commit has a parent
func (c *Commit) HasParent() bool {
	return !c.parentID.IsZero()
}

// TreeID returns the SHA of the commit's tree
func (c *Commit) TreeID() ginternals.Oid {
	return c.treeID
}

// ToObject returns the underlying Object
func (c *Commit) ToObject() *Object {
	if c.rawObject != nil {
		return c.rawObject
	}

	// Quick reminder that the Write* methods on bytes.Buffer never fails,
	// the error returned is always nil
	buf := new(bytes.Buffer)
	buf.WriteString("tree ")
	buf.WriteString(c.treeID.String())
	buf.WriteByte('\n')

	if c.HasParent() {
		buf.WriteString("parent ")
		buf.WriteString(c.parentID.String())
		buf.WriteByte('\n')
	}

	buf.WriteString("author ")
	buf.WriteString(c.Author().String())
	buf.WriteByte('\n')

	buf.WriteByte('\n')

	buf.WriteString(c.message)
	return New(TypeCommit, buf.Bytes())
}
