package gini

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/Nivl/gini/ginternals/object"
)

// MaxMessageLength is the maximum number of characters of a
// checkpoint message
const MaxMessageLength = 1000

// List of errors returned when creating a checkpoint
var (
	ErrMessageEmpty   = errors.New("checkpoint message cannot be empty")
	ErrMessageTooLong = fmt.Errorf("checkpoint message cannot exceed %d characters", MaxMessageLength)
)

// ValidateMessage returns an error if the message cannot be used for a
// checkpoint
func ValidateMessage(message string) error {
	if strings.TrimSpace(message) == "" {
		return ErrMessageEmpty
	}
	if utf8.RuneCountInString(message) > MaxMessageLength {
		return ErrMessageTooLong
	}
	return nil
}

// validateAuthor makes sure the author can be encoded in a commit
// and decoded back
func validateAuthor(author object.Signature) error {
	for _, v := range []string{author.Name, author.Email} {
		if strings.ContainsAny(v, "<>\n") {
			return fmt.Errorf("%q: %w", v, object.ErrSignatureInvalid)
		}
	}
	return nil
}

// Checkpoint takes a snapshot of the work tree and stores it as a new
// commit on top of HEAD, then moves HEAD to it.
// If the author has no time, the current time is used.
//
// The steps are strictly ordered (tree, commit, HEAD) so HEAD never
// targets an object that doesn't exist
func (r *Repository) Checkpoint(message string, author object.Signature) (*object.Commit, error) {
	if err := ValidateMessage(message); err != nil {
		return nil, err
	}
	if err := validateAuthor(author); err != nil {
		return nil, err
	}
	if author.Time.IsZero() {
		author.Time = r.now()
	}

	if err := r.begin(StateCheckpointing); err != nil {
		return nil, err
	}
	defer r.end()

	tree, err := r.WriteTreeFromDir()
	if err != nil {
		return nil, fmt.Errorf("could not snapshot the work tree: %w", err)
	}

	parent, _, err := r.Head()
	if err != nil {
		return nil, err
	}

	c, err := r.NewCommit(tree.ID(), author, &object.CommitOptions{
		Message:  message,
		ParentID: parent,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create the commit: %w", err)
	}

	if err = r.AdvanceHead(c.ID()); err != nil {
		return nil, err
	}
	r.logger.Info("checkpoint created",
		slog.String("commit", c.ID().String()),
		slog.String("tree", tree.ID().String()))
	return c, nil
}
