package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/FoveHMD/UnityDataCollector/internal/config"
	"github.com/FoveHMD/UnityDataCollector/internal/format"
	"github.com/FoveHMD/UnityDataCollector/internal/handoff"
	"github.com/FoveHMD/UnityDataCollector/internal/observability"
	"github.com/FoveHMD/UnityDataCollector/internal/output"
	"github.com/FoveHMD/UnityDataCollector/internal/recorder"
	"github.com/FoveHMD/UnityDataCollector/internal/server"
	"github.com/FoveHMD/UnityDataCollector/internal/source"
	"github.com/FoveHMD/UnityDataCollector/internal/writer"
)

// Version information (set during build)
var (
	version   = "dev"
	commit    = "none"
	buildTime = "unknown"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("application error: %v", err)
	}
}

func run() error {
	configPath := flag.String("config", getEnv("CONFIG_PATH", "config/application.yaml"), "path to configuration file")
	seed := flag.Int64("seed", 0, "synthetic source seed (0 = derive from clock)")
	flag.Parse()

	loader := config.NewLoader()
	cfg, err := loader.Load(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := observability.NewLogger(observability.LoggingConfig{
		Level:  cfg.Observability.Logging.Level,
		Format: cfg.Observability.Logging.Format,
		Output: cfg.Observability.Logging.Output,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()

	logger.Info("starting gaze data collector",
		zap.String("version", version),
		zap.String("commit", commit),
		zap.String("build_time", buildTime),
		zap.String("environment", cfg.Application.Environment),
	)

	registry := prometheus.NewRegistry()
	metrics := observability.NewMetrics(registry)

	// A pipeline that cannot persist must disable itself up front rather
	// than run with no output.
	out, err := output.NewFileSink(output.Config{
		Directory:   cfg.Output.Directory,
		BaseName:    cfg.Output.FileBaseName,
		Overwrite:   cfg.Output.OverwriteExisting,
		SyncOnWrite: cfg.Output.SyncOnWrite,
	}, format.Header(), logger, metrics)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	state := recorder.NewState()
	state.SetRecording(cfg.Recording.StartEnabled)

	channel := handoff.New(cfg.Recording.FlushThreshold)
	src := source.NewSynthetic(*seed, logger)

	rec := recorder.New(recorder.Config{
		FlushThreshold: cfg.Recording.FlushThreshold,
		StageTimeout:   cfg.Recording.StageTimeout(),
		DrainTimeout:   cfg.Recording.DrainTimeout(),
		BacklogSlack:   cfg.Recording.BacklogSlack,
		MaxBufferAge:   cfg.Recording.MaxBufferAge(),
	}, state, src, channel, logger, metrics)

	wr := writer.New(writer.Config{
		TakeTimeout: cfg.Recording.TakeTimeout(),
	}, format.Config{
		TimePrecision:   cfg.Format.TimePrecision,
		VectorPrecision: cfg.Format.VectorPrecision,
		ForceDigits:     cfg.Format.ForcePrecisionDigits,
	}, channel, out, state, logger, metrics)

	go wr.Run()

	healthChecker := &pipelineHealth{state: state, writer: wr, outputPath: out.Path()}
	httpServer := server.NewServer(
		cfg.Observability.Health.Port,
		cfg.Observability.Metrics.Port,
		healthChecker,
		registry,
		logger,
	)
	if err := httpServer.Start(); err != nil {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	// Host tick loop: one recorder tick per interval, standing in for the
	// per-frame callback of an embedding application.
	tickCtx, stopTicks := context.WithCancel(context.Background())
	ticksDone := make(chan struct{})
	go func() {
		defer close(ticksDone)
		ticker := time.NewTicker(cfg.Recording.TickInterval())
		defer ticker.Stop()
		for {
			select {
			case <-tickCtx.Done():
				return
			case <-ticker.C:
				rec.OnTick()
			}
		}
	}()

	logger.Info("recording pipeline started",
		zap.Int("flush_threshold", cfg.Recording.FlushThreshold),
		zap.Duration("tick_interval", cfg.Recording.TickInterval()),
		zap.String("output", out.Path()),
		zap.Bool("recording", state.Recording()),
	)

	// SIGHUP toggles recording; SIGINT/SIGTERM shut down.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM)

	for {
		sig := <-sigChan
		if sig == syscall.SIGHUP {
			enabled := state.ToggleRecording()
			logger.Info("recording toggled", zap.Bool("enabled", enabled))
			continue
		}
		logger.Info("received termination signal", zap.String("signal", sig.String()))
		break
	}

	// Shutdown protocol: stop capturing, quiesce the tick loop, force the
	// active buffer into the handoff slot, and only then publish the
	// shutdown flag. The flag must not become visible before the forced
	// stage: a writer whose poll expires in between would run its final
	// drain against an empty slot and exit with the last buffer stranded.
	state.SetRecording(false)
	stopTicks()
	<-ticksDone

	if err := rec.Drain(); err != nil {
		logger.Error("shutdown drain failed", zap.Error(err))
	}

	state.RequestShutdown()
	channel.Wake()

	select {
	case <-wr.Done():
		logger.Info("writer drained and stopped")
	case <-time.After(cfg.Shutdown.GracePeriod()):
		// Cooperative cancellation only; never kill the goroutine.
		logger.Error("writer did not finish within grace period, proceeding with shutdown",
			zap.Duration("grace_period", cfg.Shutdown.GracePeriod()),
		)
	}

	if err := out.Close(); err != nil {
		logger.Error("failed to close output file", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", zap.Error(err))
	}

	logger.Info("application stopped successfully")
	return nil
}

// pipelineHealth reports pipeline health to the HTTP server.
type pipelineHealth struct {
	state      *recorder.State
	writer     *writer.Writer
	outputPath string
}

// Liveness only fails if the process should be restarted.
func (h *pipelineHealth) Liveness() bool {
	return true
}

// Readiness means the pipeline can currently persist samples.
func (h *pipelineHealth) Readiness(ctx context.Context) bool {
	return h.writer.Running() && !h.state.ShutdownRequested()
}

// GetStatus returns per-component status details.
func (h *pipelineHealth) GetStatus() map[string]string {
	status := map[string]string{
		"output":    h.outputPath,
		"recording": fmt.Sprintf("%t", h.state.Recording()),
		"writer":    "stopped",
	}
	if h.writer.Running() {
		status["writer"] = "running"
	}
	if h.state.ShutdownRequested() {
		status["writer"] = "draining"
	}
	return status
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
