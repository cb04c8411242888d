// Package buffer provides the append-only sample accumulation list used by
// the recording pipeline.
//
// Unlike a general-purpose queue, a SampleBuffer is swapped wholesale rather
// than drained incrementally: the producer fills the active buffer, and at
// the flush threshold the whole buffer changes hands through the handoff
// channel while a fresh one takes its place.
//
// # Ownership
//
// SampleBuffer is deliberately lock-free. Safety comes from the pipeline's
// ownership rules:
//
//   - exactly one buffer is "active" and owned by the producer
//   - at most one buffer is "staged" in the handoff slot
//   - the active and staged buffers are never the same object
//   - a staged buffer is never appended to again
//
// # Usage
//
//	active := buffer.New(threshold + 1)
//	active.Append(s)
//	if active.Len() >= threshold {
//	    // hand active to the writer, keep filling a fresh buffer
//	    active = buffer.New(threshold + 1)
//	}
//
// The capacity hint of threshold+1 keeps the common path allocation-free:
// the buffer only grows past its reservation when the writer falls behind
// and staging is rejected.
package buffer
