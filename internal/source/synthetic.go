// Package source provides the built-in synthetic gaze source used when the
// collector runs without a headset attached.
package source

import (
	"math"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/FoveHMD/UnityDataCollector/pkg/sample"
	"github.com/FoveHMD/UnityDataCollector/pkg/source"
)

// Ensure implementation satisfies interface at compile time.
var _ source.Source = (*Synthetic)(nil)

// interpupillary distance of the synthetic head, in meters.
const ipd = 0.063

// Synthetic produces a smooth, slightly noisy scan path: a slow horizontal
// sweep with a faster vertical component, the kind of signal a fixation
// filter downstream would expect. Not safe for concurrent use; the producer
// tick is the only caller.
type Synthetic struct {
	start  time.Time
	rng    *rand.Rand
	logger *zap.Logger
}

// NewSynthetic creates a synthetic source. A zero seed derives one from the
// clock.
func NewSynthetic(seed int64, logger *zap.Logger) *Synthetic {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	logger.Info("synthetic gaze source ready", zap.Int64("seed", seed))

	return &Synthetic{
		start:  time.Now(),
		rng:    rand.New(rand.NewSource(seed)),
		logger: logger,
	}
}

// Next returns the sample for the current tick. Timestamps are seconds since
// the source was created, from the monotonic clock.
func (s *Synthetic) Next() sample.Sample {
	t := time.Since(s.start).Seconds()

	yaw := 0.35*math.Sin(0.4*t) + s.noise()
	pitch := 0.15*math.Sin(1.1*t) + s.noise()

	return sample.Sample{
		Timestamp: t,
		Left:      eyeRay(-ipd/2, yaw, pitch),
		Right:     eyeRay(ipd/2, yaw, pitch),
	}
}

// noise is a small tremor term, a fraction of a degree.
func (s *Synthetic) noise() float64 {
	return (s.rng.Float64() - 0.5) * 0.002
}

// eyeRay builds a unit gaze ray for one eye at horizontal offset x.
func eyeRay(x, yaw, pitch float64) sample.Ray {
	return sample.Ray{
		Origin: sample.Vec3{X: x},
		Direction: sample.Vec3{
			X: math.Sin(yaw) * math.Cos(pitch),
			Y: math.Sin(pitch),
			Z: math.Cos(yaw) * math.Cos(pitch),
		},
	}
}
