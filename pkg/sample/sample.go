// Package sample defines the core data types for gaze telemetry recording.
//
// This package contains the public API for per-frame gaze samples as
// delivered by an eye-tracking source: one timestamped record holding a
// convergence-independent ray per eye.
package sample

import (
	"fmt"
	"time"
)

// Vec3 is a three-component vector in tracker space.
type Vec3 struct {
	X float64
	Y float64
	Z float64
}

// Ray is a gaze ray with an origin and a (not necessarily normalized)
// direction.
type Ray struct {
	Origin    Vec3
	Direction Vec3
}

// Sample is one per-frame gaze record. Samples are immutable once created;
// the producer builds one per tick and nothing mutates it afterwards.
type Sample struct {
	// Timestamp is the capture time in seconds relative to the start of
	// the recording session.
	Timestamp float64

	// Left and Right are the per-eye gaze rays for this frame.
	Left  Ray
	Right Ray
}

// FieldCount is the number of vector components a Sample flattens to,
// excluding the timestamp: two rays, each with origin and direction vec3.
const FieldCount = 12

// Fields returns the sample's vector components in column order:
// left origin, left direction, right origin, right direction.
func (s Sample) Fields() [FieldCount]float64 {
	return [FieldCount]float64{
		s.Left.Origin.X, s.Left.Origin.Y, s.Left.Origin.Z,
		s.Left.Direction.X, s.Left.Direction.Y, s.Left.Direction.Z,
		s.Right.Origin.X, s.Right.Origin.Y, s.Right.Origin.Z,
		s.Right.Direction.X, s.Right.Direction.Y, s.Right.Direction.Z,
	}
}

// String returns a compact representation for log output.
func (s Sample) String() string {
	return fmt.Sprintf("sample{t=%.4f left=(%.3f,%.3f,%.3f) right=(%.3f,%.3f,%.3f)}",
		s.Timestamp,
		s.Left.Direction.X, s.Left.Direction.Y, s.Left.Direction.Z,
		s.Right.Direction.X, s.Right.Direction.Y, s.Right.Direction.Z,
	)
}

// BufferStats contains statistics about buffered samples.
type BufferStats struct {
	SampleCount     int
	FirstAppendTime time.Time
	LastAppendTime  time.Time
}
