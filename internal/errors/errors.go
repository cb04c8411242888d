// Package errors defines application-specific error types and sentinel errors.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions.
var (
	ErrBacklog      = errors.New("staged buffer not yet drained")
	ErrContended    = errors.New("handoff guard contended")
	ErrGuardTimeout = errors.New("handoff guard acquisition timed out")
	ErrSinkClosed   = errors.New("output sink is closed")
	ErrNotRecording = errors.New("recording is disabled")
)

// BacklogError reports that the staged slot was still occupied when the
// producer tried to stage a fresh buffer. Excess counts how many samples the
// active buffer holds beyond the flush threshold at the time of the attempt.
type BacklogError struct {
	Excess int
}

func (e *BacklogError) Error() string {
	return fmt.Sprintf("handoff backlog: staged buffer not taken (excess=%d)", e.Excess)
}

func (e *BacklogError) Unwrap() error {
	return ErrBacklog
}

// StorageError represents an output artifact operation failure.
type StorageError struct {
	Operation string
	Path      string
	Err       error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error: operation=%s path=%s: %v",
		e.Operation, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// ConsistencyError reports a handoff slot found in a state the protocol does
// not allow outside of normal staging. It indicates a protocol bug and is
// surfaced loudly, but recording continues.
type ConsistencyError struct {
	Slot    string
	Details string
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("consistency violation: slot=%s: %s", e.Slot, e.Details)
}

// IsTransient reports whether an error is a non-fatal handoff condition that
// the producer recovers from by letting the active buffer keep growing.
func IsTransient(err error) bool {
	return errors.Is(err, ErrBacklog) || errors.Is(err, ErrContended)
}
