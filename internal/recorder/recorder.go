// Package recorder implements the producer side of the recording pipeline.
package recorder

import (
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/FoveHMD/UnityDataCollector/internal/buffer"
	apperrors "github.com/FoveHMD/UnityDataCollector/internal/errors"
	"github.com/FoveHMD/UnityDataCollector/internal/handoff"
	"github.com/FoveHMD/UnityDataCollector/pkg/source"
)

// Default timing bounds. The stage timeout is the only point where the
// producer may block, so it stays in the tens-of-milliseconds range; the
// drain timeout only applies once, at shutdown.
const (
	DefaultStageTimeout = 20 * time.Millisecond
	DefaultDrainTimeout = 2 * time.Second
	DefaultBacklogSlack = 1
)

// MetricsCollector defines metrics operations for the producer loop.
type MetricsCollector interface {
	IncSamplesRecorded()
	SetActiveBufferLen(n int)
	IncBuffersStaged()
	IncStageBacklog()
	IncStageContended()
	IncForcedDrains()
}

// Config contains producer loop configuration.
type Config struct {
	// FlushThreshold is the sample count at which the active buffer is
	// handed to the writer.
	FlushThreshold int

	// StageTimeout bounds guard acquisition on the tick path.
	StageTimeout time.Duration

	// DrainTimeout bounds guard acquisition for the shutdown drain.
	DrainTimeout time.Duration

	// BacklogSlack is how many samples past the threshold are tolerated
	// before a backlog is reported. One tick's worth by default.
	BacklogSlack int

	// MaxBufferAge, when positive, stages a below-threshold buffer whose
	// oldest sample exceeds this age. Zero disables age-based staging.
	MaxBufferAge time.Duration
}

// Recorder runs the producer state machine once per external tick. It owns
// the active buffer exclusively; the handoff channel is the only shared
// state it touches.
type Recorder struct {
	cfg     Config
	state   *State
	src     source.Source
	channel *handoff.Channel
	active  *buffer.SampleBuffer
	logger  *zap.Logger
	metrics MetricsCollector
}

// New creates a recorder with a fresh active buffer. Zero-valued timing
// fields fall back to the package defaults.
func New(
	cfg Config,
	state *State,
	src source.Source,
	channel *handoff.Channel,
	logger *zap.Logger,
	metrics MetricsCollector,
) *Recorder {
	if cfg.StageTimeout <= 0 {
		cfg.StageTimeout = DefaultStageTimeout
	}
	if cfg.DrainTimeout <= 0 {
		cfg.DrainTimeout = DefaultDrainTimeout
	}
	if cfg.BacklogSlack <= 0 {
		cfg.BacklogSlack = DefaultBacklogSlack
	}

	return &Recorder{
		cfg:     cfg,
		state:   state,
		src:     src,
		channel: channel,
		active:  buffer.New(cfg.FlushThreshold + 1),
		logger:  logger,
		metrics: metrics,
	}
}

// OnTick is invoked by the host loop once per visual frame. It never blocks
// beyond the bounded stage timeout and never fails on transient contention.
func (r *Recorder) OnTick() {
	if r.state.ShutdownRequested() || !r.state.Recording() {
		return
	}

	r.active.Append(r.src.Next())

	if r.metrics != nil {
		r.metrics.IncSamplesRecorded()
		r.metrics.SetActiveBufferLen(r.active.Len())
	}

	if r.shouldStage() {
		r.stage()
	}
}

func (r *Recorder) shouldStage() bool {
	if r.active.Len() >= r.cfg.FlushThreshold {
		return true
	}
	if r.cfg.MaxBufferAge > 0 && !r.active.IsEmpty() &&
		r.active.Age(time.Now()) >= r.cfg.MaxBufferAge {
		return true
	}
	return false
}

// stage attempts the best-effort handoff. On success the full buffer
// belongs to the channel and a fresh one becomes active; on any transient
// failure the active buffer simply keeps growing.
func (r *Recorder) stage() {
	full := r.active

	err := r.channel.TryStage(full, r.cfg.StageTimeout)
	if err == nil {
		r.active = buffer.New(r.cfg.FlushThreshold + 1)
		if r.metrics != nil {
			r.metrics.IncBuffersStaged()
			r.metrics.SetActiveBufferLen(0)
		}
		return
	}

	var backlog *apperrors.BacklogError
	switch {
	case errors.As(err, &backlog):
		if r.metrics != nil {
			r.metrics.IncStageBacklog()
		}
		if backlog.Excess > r.cfg.BacklogSlack {
			r.logger.Warn("writer falling behind, active buffer growing past threshold",
				zap.Int("excess", backlog.Excess),
				zap.Int("buffered", full.Len()),
				zap.Int("threshold", r.cfg.FlushThreshold),
			)
		}
	case errors.Is(err, apperrors.ErrContended):
		// Expected to self-resolve on the next tick.
		if r.metrics != nil {
			r.metrics.IncStageContended()
		}
	default:
		r.logger.Error("unexpected stage failure", zap.Error(err))
	}
}

// Drain forces the current active buffer into the handoff slot regardless of
// the threshold and wakes the writer. Called once by the shutdown sequence,
// after capture has stopped and before the shutdown flag is published, so the
// writer cannot observe the flag with the final buffer still in transit. The
// wake fires even if the guard cannot be acquired.
func (r *Recorder) Drain() error {
	full := r.active

	stale, err := r.channel.ForceDrain(full, r.cfg.DrainTimeout)
	if err != nil {
		r.logger.Error("forced drain could not acquire handoff guard",
			zap.Error(err),
			zap.Int("buffered", full.Len()),
		)
		r.channel.Wake()
		return err
	}

	r.active = buffer.New(0)

	if stale {
		cerr := &apperrors.ConsistencyError{
			Slot:    "staged",
			Details: "occupied during forced drain; stale samples merged ahead of final buffer",
		}
		r.logger.Error("handoff slot inconsistency at shutdown", zap.Error(cerr))
	}

	if r.metrics != nil {
		r.metrics.IncForcedDrains()
		r.metrics.SetActiveBufferLen(0)
	}

	return nil
}
