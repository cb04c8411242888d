// Package buffer implements sample accumulation for the recording pipeline.
package buffer

import (
	"time"

	"github.com/FoveHMD/UnityDataCollector/pkg/sample"
)

// SampleBuffer is the append-only accumulation list for gaze samples.
// It has no internal locking: safety comes from ownership. Exactly one
// buffer is active (owned by the producer) at a time, and a buffer that has
// been handed off is never appended to again by its previous owner.
type SampleBuffer struct {
	samples         []sample.Sample
	firstAppendTime time.Time
	lastAppendTime  time.Time
}

// New creates a buffer pre-reserved to capacityHint to avoid reallocation
// on the common append path. The recorder sizes this to flush threshold + 1.
func New(capacityHint int) *SampleBuffer {
	if capacityHint < 0 {
		capacityHint = 0
	}
	return &SampleBuffer{
		samples: make([]sample.Sample, 0, capacityHint),
	}
}

// Append adds one sample. Amortized O(1); insertion order is temporal order.
func (b *SampleBuffer) Append(s sample.Sample) {
	b.samples = append(b.samples, s)

	now := time.Now()
	if b.firstAppendTime.IsZero() {
		b.firstAppendTime = now
	}
	b.lastAppendTime = now
}

// AppendAll moves every sample from other into b, preserving order.
// Used only by the shutdown drain when stale staged data must be kept
// ahead of the final samples.
func (b *SampleBuffer) AppendAll(other *SampleBuffer) {
	if other == nil || len(other.samples) == 0 {
		return
	}
	b.samples = append(b.samples, other.samples...)
	if b.firstAppendTime.IsZero() {
		b.firstAppendTime = other.firstAppendTime
	}
	if other.lastAppendTime.After(b.lastAppendTime) {
		b.lastAppendTime = other.lastAppendTime
	}
}

// Len returns the number of buffered samples.
func (b *SampleBuffer) Len() int {
	return len(b.samples)
}

// IsEmpty returns true if the buffer contains no samples.
func (b *SampleBuffer) IsEmpty() bool {
	return len(b.samples) == 0
}

// Samples returns the buffered samples in insertion order. The slice is the
// buffer's backing store; callers only read it after ownership has been
// handed off.
func (b *SampleBuffer) Samples() []sample.Sample {
	return b.samples
}

// Age returns how long ago the first sample was appended, or zero for an
// empty buffer.
func (b *SampleBuffer) Age(now time.Time) time.Duration {
	if b.firstAppendTime.IsZero() {
		return 0
	}
	return now.Sub(b.firstAppendTime)
}

// Stats returns current buffer statistics.
func (b *SampleBuffer) Stats() sample.BufferStats {
	return sample.BufferStats{
		SampleCount:     len(b.samples),
		FirstAppendTime: b.firstAppendTime,
		LastAppendTime:  b.lastAppendTime,
	}
}
