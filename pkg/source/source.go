// Package source defines the contract between the recording pipeline and
// whatever produces gaze samples.
//
// The pipeline makes no assumption about the sensor beyond this interface:
// a source yields exactly one sample per tick when asked, synchronously and
// without blocking.
package source

import "github.com/FoveHMD/UnityDataCollector/pkg/sample"

// Source supplies one gaze sample per recording tick.
// Implementations must not block; the producer tick runs on the host loop.
type Source interface {
	// Next returns the sample for the current tick.
	Next() sample.Sample
}

// Func adapts a plain function to the Source interface.
type Func func() sample.Sample

// Next calls f.
func (f Func) Next() sample.Sample { return f() }
