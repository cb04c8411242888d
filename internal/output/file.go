// Package output implements the durable CSV artifact the pipeline writes to.
package output

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"

	apperrors "github.com/FoveHMD/UnityDataCollector/internal/errors"
	"github.com/FoveHMD/UnityDataCollector/pkg/sink"
)

// Ensure implementation satisfies interface at compile time.
var _ sink.Sink = (*FileSink)(nil)

// maxNameAttempts bounds the search for a collision-free file name.
const maxNameAttempts = 10000

// MetricsCollector defines metrics operations for the output sink.
type MetricsCollector interface {
	ObserveWriteDuration(seconds float64)
	AddBytesWritten(n int)
	IncStorageErrors(operation string)
}

// Config contains output artifact configuration.
type Config struct {
	// Directory is created if absent.
	Directory string

	// BaseName is the artifact name without extension; ".csv" is appended.
	BaseName string

	// Overwrite replaces an existing artifact. When false, a numeric
	// suffix is appended until an unused path is found (name.csv,
	// name_1.csv, name_2.csv, ...).
	Overwrite bool

	// SyncOnWrite fsyncs after every append. Durability over throughput;
	// the write path is off the producer's tick, so the cost is bounded
	// to the writer goroutine.
	SyncOnWrite bool
}

// FileSink is an append-only CSV file. The header is written exactly once at
// creation; every later write appends whole formatted lines.
type FileSink struct {
	path        string
	file        *os.File
	syncOnWrite bool
	logger      *zap.Logger
	metrics     MetricsCollector

	mu     sync.Mutex
	closed bool
}

// NewFileSink resolves the output path, creates the file, and writes the
// header. Any failure here is fatal to the recording subsystem: a pipeline
// that cannot persist must disable itself rather than run silently.
func NewFileSink(cfg Config, header string, logger *zap.Logger, metrics MetricsCollector) (*FileSink, error) {
	dir := cfg.Directory
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, &apperrors.StorageError{Operation: "mkdir", Path: dir, Err: err}
	}

	path, err := resolvePath(dir, cfg.BaseName, cfg.Overwrite)
	if err != nil {
		return nil, err
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		if metrics != nil {
			metrics.IncStorageErrors("create")
		}
		return nil, &apperrors.StorageError{Operation: "create", Path: path, Err: err}
	}

	if _, err := file.WriteString(header); err != nil {
		file.Close()
		if metrics != nil {
			metrics.IncStorageErrors("header")
		}
		return nil, &apperrors.StorageError{Operation: "header", Path: path, Err: err}
	}

	logger.Info("output file created",
		zap.String("path", path),
		zap.Bool("overwrite", cfg.Overwrite),
		zap.Bool("sync_on_write", cfg.SyncOnWrite),
	)

	return &FileSink{
		path:        path,
		file:        file,
		syncOnWrite: cfg.SyncOnWrite,
		logger:      logger,
		metrics:     metrics,
	}, nil
}

// Append writes one formatted chunk. Chunks contain only whole lines, so a
// successful append never leaves a partial line in the artifact.
func (s *FileSink) Append(chunk string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return apperrors.ErrSinkClosed
	}
	if chunk == "" {
		return nil
	}

	start := time.Now()

	n, err := s.file.WriteString(chunk)
	if err != nil {
		if s.metrics != nil {
			s.metrics.IncStorageErrors("write")
		}
		return &apperrors.StorageError{Operation: "write", Path: s.path, Err: err}
	}

	if s.syncOnWrite {
		if err := s.file.Sync(); err != nil {
			if s.metrics != nil {
				s.metrics.IncStorageErrors("sync")
			}
			return &apperrors.StorageError{Operation: "sync", Path: s.path, Err: err}
		}
	}

	if s.metrics != nil {
		s.metrics.AddBytesWritten(n)
		s.metrics.ObserveWriteDuration(time.Since(start).Seconds())
	}

	return nil
}

// Path returns the resolved artifact path.
func (s *FileSink) Path() string {
	return s.path
}

// Close flushes and closes the artifact. Safe to call more than once.
func (s *FileSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	s.logger.Info("closing output file", zap.String("path", s.path))

	if err := s.file.Sync(); err != nil {
		s.file.Close()
		return &apperrors.StorageError{Operation: "sync", Path: s.path, Err: err}
	}
	if err := s.file.Close(); err != nil {
		return &apperrors.StorageError{Operation: "close", Path: s.path, Err: err}
	}
	return nil
}

// resolvePath returns the path to create. With overwrite disabled, an
// existing name.csv is skipped in favor of name_1.csv, name_2.csv and so on.
func resolvePath(dir, baseName string, overwrite bool) (string, error) {
	path := filepath.Join(dir, baseName+".csv")
	if overwrite {
		return path, nil
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return path, nil
	}

	for i := 1; i < maxNameAttempts; i++ {
		candidate := filepath.Join(dir, fmt.Sprintf("%s_%d.csv", baseName, i))
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			return candidate, nil
		}
	}

	return "", &apperrors.StorageError{
		Operation: "resolve",
		Path:      path,
		Err:       fmt.Errorf("no free file name after %d attempts", maxNameAttempts),
	}
}
