package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the recording pipeline.
type Metrics struct {
	// Producer metrics
	SamplesRecorded prometheus.Counter
	ActiveBufferLen prometheus.Gauge
	BuffersStaged   prometheus.Counter
	StageBacklog    prometheus.Counter
	StageContention prometheus.Counter
	ForcedDrains    prometheus.Counter

	// Consumer metrics
	BuffersWritten *prometheus.CounterVec
	LinesWritten   prometheus.Counter
	TakeTimeouts   prometheus.Counter
	WriteDuration  prometheus.Histogram

	// Storage metrics
	BytesWritten  prometheus.Counter
	StorageErrors *prometheus.CounterVec
}

// NewMetrics creates and registers all Prometheus metrics.
func NewMetrics(registry *prometheus.Registry) *Metrics {
	factory := promauto.With(registry)

	return &Metrics{
		SamplesRecorded: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "gaze_samples_recorded_total",
				Help: "Total number of gaze samples appended to the active buffer",
			},
		),
		ActiveBufferLen: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "gaze_active_buffer_samples",
				Help: "Current number of samples in the active buffer",
			},
		),
		BuffersStaged: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "gaze_buffers_staged_total",
				Help: "Total number of buffers handed to the writer",
			},
		),
		StageBacklog: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "gaze_stage_backlog_total",
				Help: "Total number of stage attempts rejected because the staged slot was occupied",
			},
		),
		StageContention: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "gaze_stage_contention_total",
				Help: "Total number of stage attempts that timed out acquiring the handoff guard",
			},
		),
		ForcedDrains: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "gaze_forced_drains_total",
				Help: "Total number of shutdown drains forced past the flush threshold",
			},
		),
		BuffersWritten: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gaze_buffers_written_total",
				Help: "Total number of staged buffers persisted to the output file",
			},
			[]string{"status"},
		),
		LinesWritten: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "gaze_lines_written_total",
				Help: "Total number of CSV data lines written, excluding the header",
			},
		),
		TakeTimeouts: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "gaze_take_timeouts_total",
				Help: "Total number of writer-side guard acquisition timeouts",
			},
		),
		WriteDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "gaze_write_duration_seconds",
				Help:    "Duration of output file append operations",
				Buckets: prometheus.DefBuckets,
			},
		),
		BytesWritten: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "gaze_bytes_written_total",
				Help: "Total number of bytes appended to the output file",
			},
		),
		StorageErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gaze_storage_errors_total",
				Help: "Total number of output file errors",
			},
			[]string{"operation"},
		),
	}
}

// IncSamplesRecorded increments the samples recorded counter.
func (m *Metrics) IncSamplesRecorded() {
	m.SamplesRecorded.Inc()
}

// SetActiveBufferLen sets the active buffer occupancy gauge.
func (m *Metrics) SetActiveBufferLen(n int) {
	m.ActiveBufferLen.Set(float64(n))
}

// IncBuffersStaged increments the buffers staged counter.
func (m *Metrics) IncBuffersStaged() {
	m.BuffersStaged.Inc()
}

// IncStageBacklog increments the backlog rejection counter.
func (m *Metrics) IncStageBacklog() {
	m.StageBacklog.Inc()
}

// IncStageContended increments the guard contention counter.
func (m *Metrics) IncStageContended() {
	m.StageContention.Inc()
}

// IncForcedDrains increments the forced drain counter.
func (m *Metrics) IncForcedDrains() {
	m.ForcedDrains.Inc()
}

// IncBuffersWritten increments the buffers written counter.
func (m *Metrics) IncBuffersWritten(status string) {
	m.BuffersWritten.WithLabelValues(status).Inc()
}

// AddLinesWritten adds to the lines written counter.
func (m *Metrics) AddLinesWritten(n int) {
	m.LinesWritten.Add(float64(n))
}

// IncTakeTimeouts increments the writer guard timeout counter.
func (m *Metrics) IncTakeTimeouts() {
	m.TakeTimeouts.Inc()
}

// ObserveWriteDuration observes one append duration.
func (m *Metrics) ObserveWriteDuration(seconds float64) {
	m.WriteDuration.Observe(seconds)
}

// AddBytesWritten adds to the bytes written counter.
func (m *Metrics) AddBytesWritten(n int) {
	m.BytesWritten.Add(float64(n))
}

// IncStorageErrors increments the storage error counter.
func (m *Metrics) IncStorageErrors(operation string) {
	m.StorageErrors.WithLabelValues(operation).Inc()
}
