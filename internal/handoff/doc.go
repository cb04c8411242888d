// Package handoff provides the bounded single-slot rendezvous between the
// recording producer and the file writer.
//
// The channel holds at most one staged buffer. Staging while a previous
// buffer is outstanding is rejected rather than queued: the rejection is the
// backpressure signal that tells the producer the writer has fallen behind.
// An unbounded queue here would hide that signal and defeat the design.
//
// # Protocol
//
// Producer side, once per tick at the flush threshold:
//
//	err := ch.TryStage(full, stageTimeout)
//	switch {
//	case err == nil:
//	    // slot taken; continue filling a fresh buffer
//	case errors.Is(err, errors.ErrBacklog):
//	    // writer behind; keep growing the active buffer
//	case errors.Is(err, errors.ErrContended):
//	    // guard busy; expected to self-resolve next tick
//	}
//
// Consumer side, on its own goroutine:
//
//	ch.AwaitWake(pollInterval)
//	buf, err := ch.TakeStaged(takeTimeout)
//
// Ordering follows from the single slot: a buffer cannot overtake another
// because a second stage is rejected until the first is taken.
//
// # Locking
//
// The guard is a capacity-1 channel semaphore so every acquisition can be
// timeout-bounded; it is held only for the pointer swap. ForceDrain, used
// once at shutdown, is the only caller that passes a generous timeout.
package handoff
