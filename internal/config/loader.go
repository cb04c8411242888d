// Package config loads and validates application configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/FoveHMD/UnityDataCollector/internal/config/dto"
)

// maxPrecision bounds the configurable decimal digit counts; float64 carries
// no more significant decimal digits than this.
const maxPrecision = 17

// Loader handles configuration loading and validation
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a new configuration loader
func NewLoader() *Loader {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return &Loader{v: v}
}

// Load loads configuration from file and environment variables
func (l *Loader) Load(path string) (*dto.ApplicationConfig, error) {
	l.setDefaults()

	if path != "" {
		l.v.SetConfigFile(path)
		if err := l.v.ReadInConfig(); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	// Expand ${...} references in config values
	for _, key := range l.v.AllKeys() {
		value := l.v.GetString(key)
		if strings.Contains(value, "${") {
			l.v.Set(key, os.ExpandEnv(value))
		}
	}

	var config dto.ApplicationConfig
	if err := l.v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := l.Validate(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func (l *Loader) setDefaults() {
	// Application defaults
	l.v.SetDefault("application.name", "gaze-data-collector")
	l.v.SetDefault("application.version", "1.0.0")
	l.v.SetDefault("application.environment", "development")

	// Recording defaults
	l.v.SetDefault("recording.flush_threshold", 1000)
	l.v.SetDefault("recording.stage_timeout_ms", 20)
	l.v.SetDefault("recording.take_timeout_ms", 50)
	l.v.SetDefault("recording.drain_timeout_ms", 2000)
	l.v.SetDefault("recording.backlog_slack", 1)
	l.v.SetDefault("recording.tick_interval_ms", 10)
	l.v.SetDefault("recording.max_buffer_age_ms", 0)
	l.v.SetDefault("recording.start_enabled", true)

	// Output defaults
	l.v.SetDefault("output.directory", "data")
	l.v.SetDefault("output.file_base_name", "gaze_recording")
	l.v.SetDefault("output.overwrite_existing", false)
	l.v.SetDefault("output.sync_on_write", false)

	// Format defaults
	l.v.SetDefault("format.time_precision", 10)
	l.v.SetDefault("format.vector_precision", 3)
	l.v.SetDefault("format.force_precision_digits", true)

	// Observability defaults
	l.v.SetDefault("observability.logging.level", "info")
	l.v.SetDefault("observability.logging.format", "json")
	l.v.SetDefault("observability.logging.output", "stdout")
	l.v.SetDefault("observability.metrics.enabled", true)
	l.v.SetDefault("observability.metrics.port", 9090)
	l.v.SetDefault("observability.metrics.path", "/metrics")
	l.v.SetDefault("observability.health.port", 8080)
	l.v.SetDefault("observability.health.liveness_path", "/health/live")
	l.v.SetDefault("observability.health.readiness_path", "/health/ready")

	// Shutdown defaults
	l.v.SetDefault("shutdown.grace_period_seconds", 10)
}

// Validate validates the configuration
func (l *Loader) Validate(config *dto.ApplicationConfig) error {
	// Recording validation
	if config.Recording.FlushThreshold < 1 {
		return errors.New("recording.flush_threshold must be at least 1")
	}
	if config.Recording.StageTimeoutMS < 1 {
		return errors.New("recording.stage_timeout_ms must be at least 1")
	}
	if config.Recording.TakeTimeoutMS < 1 {
		return errors.New("recording.take_timeout_ms must be at least 1")
	}
	if config.Recording.TickIntervalMS < 1 {
		return errors.New("recording.tick_interval_ms must be at least 1")
	}
	if config.Recording.BacklogSlack < 0 {
		return errors.New("recording.backlog_slack must not be negative")
	}

	// Output validation
	if config.Output.FileBaseName == "" {
		return errors.New("output.file_base_name is required")
	}
	if strings.ContainsAny(config.Output.FileBaseName, `/\`) {
		return fmt.Errorf("output.file_base_name must not contain path separators: %q", config.Output.FileBaseName)
	}

	// Format validation
	if config.Format.TimePrecision < 0 || config.Format.TimePrecision > maxPrecision {
		return fmt.Errorf("format.time_precision must be between 0 and %d", maxPrecision)
	}
	if config.Format.VectorPrecision < 0 || config.Format.VectorPrecision > maxPrecision {
		return fmt.Errorf("format.vector_precision must be between 0 and %d", maxPrecision)
	}

	// Port validation
	if config.Observability.Metrics.Port < 1 || config.Observability.Metrics.Port > 65535 {
		return fmt.Errorf("invalid metrics port: %d", config.Observability.Metrics.Port)
	}
	if config.Observability.Health.Port < 1 || config.Observability.Health.Port > 65535 {
		return fmt.Errorf("invalid health port: %d", config.Observability.Health.Port)
	}

	return nil
}
