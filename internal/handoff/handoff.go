// Package handoff implements the single-slot producer/consumer rendezvous.
package handoff

import (
	"time"

	"github.com/FoveHMD/UnityDataCollector/internal/buffer"
	"github.com/FoveHMD/UnityDataCollector/internal/errors"
)

// Channel is the synchronized slot holding at most one buffer that is ready
// to be written. The guard is held only for the pointer swap, never for
// formatting or I/O, which keeps producer-side stalls bounded regardless of
// how much data the writer is flushing.
type Channel struct {
	// guard is a capacity-1 semaphore. A channel is used instead of a
	// sync.Mutex because every acquisition in the protocol is
	// timeout-bounded.
	guard chan struct{}

	// wake carries the binary "work available" signal to the writer.
	wake chan struct{}

	// threshold is the configured flush threshold, used to compute the
	// excess reported on backlog.
	threshold int

	staged *buffer.SampleBuffer
}

// New creates an empty handoff channel for the given flush threshold.
func New(threshold int) *Channel {
	return &Channel{
		guard:     make(chan struct{}, 1),
		wake:      make(chan struct{}, 1),
		threshold: threshold,
	}
}

// TryStage attempts to place buf into the staged slot within timeout.
//
// It fails with errors.ErrContended when the guard cannot be acquired in
// time, and with a *errors.BacklogError when a previously staged buffer has
// not been taken yet. Neither failure is fatal: the caller keeps its active
// buffer growing and retries on a later tick. The previously staged buffer
// is never overwritten.
func (c *Channel) TryStage(buf *buffer.SampleBuffer, timeout time.Duration) error {
	if !c.acquire(timeout) {
		return errors.ErrContended
	}
	defer c.release()

	if c.staged != nil {
		return &errors.BacklogError{Excess: buf.Len() - c.threshold}
	}

	c.staged = buf
	c.signal()
	return nil
}

// TakeStaged removes and returns the staged buffer, or nil when the slot is
// empty. Failure to acquire the guard within timeout is reported as
// errors.ErrGuardTimeout; it means the producer is holding the guard far
// longer than the protocol allows.
func (c *Channel) TakeStaged(timeout time.Duration) (*buffer.SampleBuffer, error) {
	if !c.acquire(timeout) {
		return nil, errors.ErrGuardTimeout
	}
	defer c.release()

	buf := c.staged
	c.staged = nil
	return buf, nil
}

// ForceDrain moves active into the staged slot bypassing threshold checks
// and wakes the writer. Shutdown only.
//
// The reported stale flag is the protocol's consistency check: it is true
// when the slot was still occupied, in which case the stale samples are kept
// ahead of the active ones so nothing is lost or reordered. Acquisition is
// bounded by timeout; an expired timeout is surfaced as ErrGuardTimeout and
// the active buffer stays with the caller.
func (c *Channel) ForceDrain(active *buffer.SampleBuffer, timeout time.Duration) (stale bool, err error) {
	if !c.acquire(timeout) {
		return false, errors.ErrGuardTimeout
	}
	defer c.release()

	if c.staged != nil {
		stale = true
		c.staged.AppendAll(active)
	} else {
		c.staged = active
	}

	c.signal()
	return stale, nil
}

// AwaitWake blocks until the wake signal fires or timeout elapses, returning
// true on a signal. A non-positive timeout waits indefinitely.
func (c *Channel) AwaitWake(timeout time.Duration) bool {
	if timeout <= 0 {
		<-c.wake
		return true
	}

	t := time.NewTimer(timeout)
	defer t.Stop()

	select {
	case <-c.wake:
		return true
	case <-t.C:
		return false
	}
}

// Wake fires the wake signal without staging anything. Used at shutdown to
// make sure a waiting writer observes the shutdown flag promptly.
func (c *Channel) Wake() {
	c.signal()
}

func (c *Channel) signal() {
	select {
	case c.wake <- struct{}{}:
	default:
	}
}

// acquire takes the guard, waiting at most timeout. The fast path avoids a
// timer allocation when the guard is free.
func (c *Channel) acquire(timeout time.Duration) bool {
	select {
	case c.guard <- struct{}{}:
		return true
	default:
	}

	if timeout <= 0 {
		return false
	}

	t := time.NewTimer(timeout)
	defer t.Stop()

	select {
	case c.guard <- struct{}{}:
		return true
	case <-t.C:
		return false
	}
}

func (c *Channel) release() {
	<-c.guard
}
