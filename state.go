package gini

import (
	"fmt"
	"log/slog"
)

// State represents what a repository is currently doing.
//
// A checkpoint goes Idle -> Checkpointing -> Idle.
// A restore goes Idle -> RestoringBackedUp -> RestoringCleaned -> Idle,
// the working tree is only modified once a backup has been made.
// Restoring a backup goes Idle -> RestoringBackup -> Idle
type State int8

// List of all the states of a repository
const (
	StateIdle State = iota
	StateCheckpointing
	StateRestoringBackedUp
	StateRestoringCleaned
	StateRestoringBackup
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateCheckpointing:
		return "checkpointing"
	case StateRestoringBackedUp:
		return "restoring (backed up)"
	case StateRestoringCleaned:
		return "restoring (cleaned)"
	case StateRestoringBackup:
		return "restoring backup"
	default:
		return fmt.Sprintf("unknown state %d", s)
	}
}

// State returns the current state of the repository
func (r *Repository) State() State {
	r.stateMu.Lock()
	defer r.stateMu.Unlock()
	return r.state
}

// begin moves the repository from Idle to the given state.
// ErrOperationInProgress is returned if the repository is not Idle
func (r *Repository) begin(s State) error {
	r.stateMu.Lock()
	defer r.stateMu.Unlock()

	if r.state != StateIdle {
		return fmt.Errorf("repository is %s: %w", r.state, ErrOperationInProgress)
	}
	r.state = s
	r.logger.Info("state changed", slog.String("state", s.String()))
	return nil
}

// transition moves the repository to the given state
func (r *Repository) transition(s State) {
	r.stateMu.Lock()
	defer r.stateMu.Unlock()

	r.state = s
	r.logger.Info("state changed", slog.String("state", s.String()))
}

// end moves the repository back to Idle
func (r *Repository) end() {
	r.transition(StateIdle)
}
