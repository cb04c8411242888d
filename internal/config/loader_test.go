package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/FoveHMD/UnityDataCollector/internal/config/dto"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "application.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	loader := NewLoader()
	cfg, err := loader.Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Recording.FlushThreshold != 1000 {
		t.Errorf("FlushThreshold = %d, want 1000", cfg.Recording.FlushThreshold)
	}
	if cfg.Recording.StageTimeoutMS != 20 {
		t.Errorf("StageTimeoutMS = %d, want 20", cfg.Recording.StageTimeoutMS)
	}
	if cfg.Output.FileBaseName != "gaze_recording" {
		t.Errorf("FileBaseName = %s, want gaze_recording", cfg.Output.FileBaseName)
	}
	if cfg.Output.OverwriteExisting {
		t.Error("OverwriteExisting default must be false")
	}
	if cfg.Format.TimePrecision != 10 {
		t.Errorf("TimePrecision = %d, want 10", cfg.Format.TimePrecision)
	}
	if cfg.Format.VectorPrecision != 3 {
		t.Errorf("VectorPrecision = %d, want 3", cfg.Format.VectorPrecision)
	}
	if !cfg.Format.ForcePrecisionDigits {
		t.Error("ForcePrecisionDigits default must be true")
	}
	if cfg.Observability.Logging.Level != "info" {
		t.Errorf("Logging.Level = %s, want info", cfg.Observability.Logging.Level)
	}
}

func TestLoad_FromFile(t *testing.T) {
	path := writeConfig(t, `
recording:
  flush_threshold: 50
  tick_interval_ms: 7
output:
  file_base_name: session
  overwrite_existing: true
format:
  vector_precision: 6
`)

	loader := NewLoader()
	cfg, err := loader.Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Recording.FlushThreshold != 50 {
		t.Errorf("FlushThreshold = %d, want 50", cfg.Recording.FlushThreshold)
	}
	if cfg.Recording.TickIntervalMS != 7 {
		t.Errorf("TickIntervalMS = %d, want 7", cfg.Recording.TickIntervalMS)
	}
	if cfg.Output.FileBaseName != "session" {
		t.Errorf("FileBaseName = %s, want session", cfg.Output.FileBaseName)
	}
	if !cfg.Output.OverwriteExisting {
		t.Error("OverwriteExisting = false, want true")
	}
	if cfg.Format.VectorPrecision != 6 {
		t.Errorf("VectorPrecision = %d, want 6", cfg.Format.VectorPrecision)
	}
	// Untouched keys keep their defaults.
	if cfg.Recording.StageTimeoutMS != 20 {
		t.Errorf("StageTimeoutMS = %d, want default 20", cfg.Recording.StageTimeoutMS)
	}
}

func TestLoad_EnvExpansion(t *testing.T) {
	t.Setenv("SESSION_NAME", "subject42")

	path := writeConfig(t, `
output:
  file_base_name: ${SESSION_NAME}
`)

	loader := NewLoader()
	cfg, err := loader.Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Output.FileBaseName != "subject42" {
		t.Errorf("FileBaseName = %s, want subject42", cfg.Output.FileBaseName)
	}
}

func TestLoad_MalformedFile(t *testing.T) {
	path := writeConfig(t, "recording: [not a map")

	loader := NewLoader()
	if _, err := loader.Load(path); err == nil {
		t.Fatal("expected error for malformed YAML")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*dto.ApplicationConfig)
		wantErr string
	}{
		{
			name:    "valid defaults",
			mutate:  func(c *dto.ApplicationConfig) {},
			wantErr: "",
		},
		{
			name:    "zero flush threshold",
			mutate:  func(c *dto.ApplicationConfig) { c.Recording.FlushThreshold = 0 },
			wantErr: "flush_threshold",
		},
		{
			name:    "zero stage timeout",
			mutate:  func(c *dto.ApplicationConfig) { c.Recording.StageTimeoutMS = 0 },
			wantErr: "stage_timeout_ms",
		},
		{
			name:    "zero take timeout",
			mutate:  func(c *dto.ApplicationConfig) { c.Recording.TakeTimeoutMS = 0 },
			wantErr: "take_timeout_ms",
		},
		{
			name:    "zero tick interval",
			mutate:  func(c *dto.ApplicationConfig) { c.Recording.TickIntervalMS = 0 },
			wantErr: "tick_interval_ms",
		},
		{
			name:    "negative backlog slack",
			mutate:  func(c *dto.ApplicationConfig) { c.Recording.BacklogSlack = -1 },
			wantErr: "backlog_slack",
		},
		{
			name:    "empty base name",
			mutate:  func(c *dto.ApplicationConfig) { c.Output.FileBaseName = "" },
			wantErr: "file_base_name",
		},
		{
			name:    "base name with separator",
			mutate:  func(c *dto.ApplicationConfig) { c.Output.FileBaseName = "a/b" },
			wantErr: "path separators",
		},
		{
			name:    "excessive time precision",
			mutate:  func(c *dto.ApplicationConfig) { c.Format.TimePrecision = 30 },
			wantErr: "time_precision",
		},
		{
			name:    "negative vector precision",
			mutate:  func(c *dto.ApplicationConfig) { c.Format.VectorPrecision = -1 },
			wantErr: "vector_precision",
		},
		{
			name:    "invalid metrics port",
			mutate:  func(c *dto.ApplicationConfig) { c.Observability.Metrics.Port = 0 },
			wantErr: "metrics port",
		},
		{
			name:    "invalid health port",
			mutate:  func(c *dto.ApplicationConfig) { c.Observability.Health.Port = 70000 },
			wantErr: "health port",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loader := NewLoader()
			cfg, err := loader.Load("")
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}

			tt.mutate(cfg)
			err = loader.Validate(cfg)

			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() = nil, want error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestDurationHelpers(t *testing.T) {
	cfg := dto.RecordingConfig{
		StageTimeoutMS: 20,
		TakeTimeoutMS:  50,
		DrainTimeoutMS: 2000,
		TickIntervalMS: 10,
		MaxBufferAgeMS: 500,
	}

	if got := cfg.StageTimeout().Milliseconds(); got != 20 {
		t.Errorf("StageTimeout() = %dms, want 20", got)
	}
	if got := cfg.TakeTimeout().Milliseconds(); got != 50 {
		t.Errorf("TakeTimeout() = %dms, want 50", got)
	}
	if got := cfg.DrainTimeout().Milliseconds(); got != 2000 {
		t.Errorf("DrainTimeout() = %dms, want 2000", got)
	}
	if got := cfg.TickInterval().Milliseconds(); got != 10 {
		t.Errorf("TickInterval() = %dms, want 10", got)
	}
	if got := cfg.MaxBufferAge().Milliseconds(); got != 500 {
		t.Errorf("MaxBufferAge() = %dms, want 500", got)
	}

	shutdown := dto.ShutdownConfig{GracePeriodSeconds: 10}
	if got := shutdown.GracePeriod().Seconds(); got != 10 {
		t.Errorf("GracePeriod() = %vs, want 10", got)
	}
}
