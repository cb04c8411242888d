// Package writer implements the consumer side of the recording pipeline.
package writer

import (
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/FoveHMD/UnityDataCollector/internal/format"
	"github.com/FoveHMD/UnityDataCollector/internal/handoff"
	"github.com/FoveHMD/UnityDataCollector/internal/recorder"
	"github.com/FoveHMD/UnityDataCollector/pkg/sink"
)

// Default timing bounds for the consumer loop.
const (
	DefaultTakeTimeout  = 50 * time.Millisecond
	DefaultPollInterval = 250 * time.Millisecond

	// finalDrainAttempts bounds guard retries during the guaranteed last
	// drain; each attempt waits the full take timeout.
	finalDrainAttempts = 5
)

// MetricsCollector defines metrics operations for the consumer loop.
type MetricsCollector interface {
	IncBuffersWritten(status string)
	AddLinesWritten(n int)
	IncTakeTimeouts()
}

// Config contains consumer loop configuration.
type Config struct {
	// TakeTimeout bounds guard acquisition when pulling a staged buffer.
	TakeTimeout time.Duration

	// PollInterval bounds the wait on the wake signal so the shutdown
	// flag is observed even when no signal arrives.
	PollInterval time.Duration
}

// Writer drains staged buffers, formats them, and appends to the sink. It
// owns the output file exclusively and runs on its own goroutine, scheduled
// independently of the producer tick.
type Writer struct {
	cfg     Config
	fmtCfg  format.Config
	channel *handoff.Channel
	out     sink.Sink
	state   *recorder.State
	logger  *zap.Logger
	metrics MetricsCollector

	running atomic.Bool
	done    chan struct{}
}

// New creates a writer. Zero-valued timing fields fall back to the package
// defaults.
func New(
	cfg Config,
	fmtCfg format.Config,
	channel *handoff.Channel,
	out sink.Sink,
	state *recorder.State,
	logger *zap.Logger,
	metrics MetricsCollector,
) *Writer {
	if cfg.TakeTimeout <= 0 {
		cfg.TakeTimeout = DefaultTakeTimeout
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}

	return &Writer{
		cfg:     cfg,
		fmtCfg:  fmtCfg,
		channel: channel,
		out:     out,
		state:   state,
		logger:  logger,
		metrics: metrics,
		done:    make(chan struct{}),
	}
}

// Run blocks on the wake signal and persists whatever is staged. It exits
// only after shutdown has been observed and one final drain has been
// performed; the termination check deliberately follows the drain, never
// precedes it.
func (w *Writer) Run() {
	defer close(w.done)
	w.running.Store(true)
	defer w.running.Store(false)

	w.logger.Info("writer started",
		zap.Duration("take_timeout", w.cfg.TakeTimeout),
		zap.Duration("poll_interval", w.cfg.PollInterval),
	)

	for {
		w.channel.AwaitWake(w.cfg.PollInterval)
		w.drainOnce()

		if w.state.ShutdownRequested() {
			w.finalDrain()
			w.logger.Info("writer stopped")
			return
		}
	}
}

// Done is closed when Run returns. The shutdown sequence waits on it with a
// bounded timeout rather than joining unconditionally.
func (w *Writer) Done() <-chan struct{} {
	return w.done
}

// Running reports whether the consumer loop is active.
func (w *Writer) Running() bool {
	return w.running.Load()
}

// drainOnce pulls the staged buffer, if any, and persists it. Guard
// timeouts are logged and skipped; the loop comes back around.
func (w *Writer) drainOnce() {
	buf, err := w.channel.TakeStaged(w.cfg.TakeTimeout)
	if err != nil {
		w.logger.Warn("could not acquire handoff guard", zap.Error(err))
		if w.metrics != nil {
			w.metrics.IncTakeTimeouts()
		}
		return
	}
	if buf == nil || buf.IsEmpty() {
		return
	}

	w.persist(buf.Len(), format.Format(buf.Samples(), w.fmtCfg))
}

// finalDrain is the guaranteed last drain of the shutdown protocol. A guard
// timeout here would strand the forced-drain buffer, so acquisition is
// retried a bounded number of times instead of giving up on the first miss.
func (w *Writer) finalDrain() {
	for attempt := 1; ; attempt++ {
		buf, err := w.channel.TakeStaged(w.cfg.TakeTimeout)
		if err == nil {
			if buf != nil && !buf.IsEmpty() {
				w.persist(buf.Len(), format.Format(buf.Samples(), w.fmtCfg))
			}
			return
		}

		w.logger.Warn("final drain could not acquire handoff guard",
			zap.Error(err),
			zap.Int("attempt", attempt),
		)
		if w.metrics != nil {
			w.metrics.IncTakeTimeouts()
		}
		if attempt >= finalDrainAttempts {
			w.logger.Error("abandoning final drain after repeated guard timeouts")
			return
		}
	}
}

// persist appends one formatted chunk. A failed append is fatal to further
// recording but not to the process: the shutdown flag is set and the host
// keeps running.
func (w *Writer) persist(samples int, chunk string) {
	if err := w.out.Append(chunk); err != nil {
		w.logger.Error("output append failed, disabling recording",
			zap.Error(err),
			zap.Int("samples", samples),
		)
		if w.metrics != nil {
			w.metrics.IncBuffersWritten("error")
		}
		w.state.RequestShutdown()
		return
	}

	if w.metrics != nil {
		w.metrics.IncBuffersWritten("success")
		w.metrics.AddLinesWritten(samples)
	}

	w.logger.Debug("buffer written",
		zap.Int("samples", samples),
		zap.Int("bytes", len(chunk)),
	)
}
