// Package dto contains the typed configuration structures.
package dto

import "time"

// ApplicationConfig is the root configuration structure
type ApplicationConfig struct {
	Application   ApplicationInfo     `mapstructure:"application"`
	Recording     RecordingConfig     `mapstructure:"recording"`
	Output        OutputConfig        `mapstructure:"output"`
	Format        FormatConfig        `mapstructure:"format"`
	Observability ObservabilityConfig `mapstructure:"observability"`
	Shutdown      ShutdownConfig      `mapstructure:"shutdown"`
}

// ApplicationInfo contains application metadata
type ApplicationInfo struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// RecordingConfig contains producer loop settings
type RecordingConfig struct {
	FlushThreshold int  `mapstructure:"flush_threshold"`
	StageTimeoutMS int  `mapstructure:"stage_timeout_ms"`
	TakeTimeoutMS  int  `mapstructure:"take_timeout_ms"`
	DrainTimeoutMS int  `mapstructure:"drain_timeout_ms"`
	BacklogSlack   int  `mapstructure:"backlog_slack"`
	TickIntervalMS int  `mapstructure:"tick_interval_ms"`
	MaxBufferAgeMS int  `mapstructure:"max_buffer_age_ms"`
	StartEnabled   bool `mapstructure:"start_enabled"`
}

// StageTimeout returns the stage timeout as a duration.
func (c RecordingConfig) StageTimeout() time.Duration {
	return time.Duration(c.StageTimeoutMS) * time.Millisecond
}

// TakeTimeout returns the take timeout as a duration.
func (c RecordingConfig) TakeTimeout() time.Duration {
	return time.Duration(c.TakeTimeoutMS) * time.Millisecond
}

// DrainTimeout returns the shutdown drain timeout as a duration.
func (c RecordingConfig) DrainTimeout() time.Duration {
	return time.Duration(c.DrainTimeoutMS) * time.Millisecond
}

// TickInterval returns the host tick interval as a duration.
func (c RecordingConfig) TickInterval() time.Duration {
	return time.Duration(c.TickIntervalMS) * time.Millisecond
}

// MaxBufferAge returns the age-based flush bound as a duration.
func (c RecordingConfig) MaxBufferAge() time.Duration {
	return time.Duration(c.MaxBufferAgeMS) * time.Millisecond
}

// OutputConfig contains output artifact settings
type OutputConfig struct {
	Directory         string `mapstructure:"directory"`
	FileBaseName      string `mapstructure:"file_base_name"`
	OverwriteExisting bool   `mapstructure:"overwrite_existing"`
	SyncOnWrite       bool   `mapstructure:"sync_on_write"`
}

// FormatConfig contains CSV precision settings
type FormatConfig struct {
	TimePrecision        int  `mapstructure:"time_precision"`
	VectorPrecision      int  `mapstructure:"vector_precision"`
	ForcePrecisionDigits bool `mapstructure:"force_precision_digits"`
}

// ObservabilityConfig contains logging, metrics and health settings
type ObservabilityConfig struct {
	Logging LoggingConfig `mapstructure:"logging"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Health  HealthConfig  `mapstructure:"health"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// MetricsConfig contains Prometheus exposition settings
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port"`
	Path    string `mapstructure:"path"`
}

// HealthConfig contains health endpoint settings
type HealthConfig struct {
	Port          int    `mapstructure:"port"`
	LivenessPath  string `mapstructure:"liveness_path"`
	ReadinessPath string `mapstructure:"readiness_path"`
}

// ShutdownConfig contains graceful shutdown settings
type ShutdownConfig struct {
	GracePeriodSeconds int `mapstructure:"grace_period_seconds"`
}

// GracePeriod returns the shutdown grace period as a duration.
func (c ShutdownConfig) GracePeriod() time.Duration {
	return time.Duration(c.GracePeriodSeconds) * time.Second
}
