// Package observability provides logging and metrics for the pipeline.
package observability

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level  string
	Format string
	Output string
}

// NewLogger creates a structured zap logger based on configuration.
func NewLogger(config LoggingConfig) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = parseLogLevel(config.Level)

	switch strings.ToLower(config.Format) {
	case "console", "text":
		cfg.Encoding = "console"
		cfg.EncoderConfig = zap.NewDevelopmentEncoderConfig()
	default:
		cfg.Encoding = "json"
	}

	switch strings.ToLower(config.Output) {
	case "stderr":
		cfg.OutputPaths = []string{"stderr"}
	default:
		cfg.OutputPaths = []string{"stdout"}
	}

	return cfg.Build()
}

// parseLogLevel parses the log level string, defaulting to info.
func parseLogLevel(level string) zap.AtomicLevel {
	switch strings.ToLower(level) {
	case "debug":
		return zap.NewAtomicLevelAt(zapcore.DebugLevel)
	case "info":
		return zap.NewAtomicLevelAt(zapcore.InfoLevel)
	case "warn", "warning":
		return zap.NewAtomicLevelAt(zapcore.WarnLevel)
	case "error":
		return zap.NewAtomicLevelAt(zapcore.ErrorLevel)
	default:
		return zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}
}
