package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestSentinelErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrBacklog", ErrBacklog},
		{"ErrContended", ErrContended},
		{"ErrGuardTimeout", ErrGuardTimeout},
		{"ErrSinkClosed", ErrSinkClosed},
		{"ErrNotRecording", ErrNotRecording},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err == nil {
				t.Errorf("%s should not be nil", tt.name)
			}
			if tt.err.Error() == "" {
				t.Errorf("%s should have an error message", tt.name)
			}
		})
	}
}

func TestBacklogError(t *testing.T) {
	backlogErr := &BacklogError{Excess: 3}

	if !strings.Contains(backlogErr.Error(), "excess=3") {
		t.Errorf("Error() = %q, want excess count", backlogErr.Error())
	}

	if !errors.Is(backlogErr, ErrBacklog) {
		t.Error("BacklogError should match ErrBacklog")
	}

	var target *BacklogError
	if !errors.As(error(backlogErr), &target) {
		t.Error("errors.As should extract BacklogError")
	}
	if target.Excess != 3 {
		t.Errorf("Excess = %d, want 3", target.Excess)
	}
}

func TestStorageError(t *testing.T) {
	baseErr := errors.New("disk full")
	storageErr := &StorageError{
		Operation: "append",
		Path:      "/data/gaze_recording.csv",
		Err:       baseErr,
	}

	if storageErr.Error() == "" {
		t.Error("StorageError should have an error message")
	}

	if !errors.Is(storageErr, baseErr) {
		t.Error("StorageError should wrap base error")
	}
}

func TestConsistencyError(t *testing.T) {
	err := &ConsistencyError{
		Slot:    "staged",
		Details: "occupied at shutdown drain",
	}

	msg := err.Error()
	if !strings.Contains(msg, "staged") {
		t.Errorf("Error() = %q, want slot name", msg)
	}
	if !strings.Contains(msg, "occupied at shutdown drain") {
		t.Errorf("Error() = %q, want details", msg)
	}
}

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "nil error",
			err:  nil,
			want: false,
		},
		{
			name: "backlog sentinel is transient",
			err:  ErrBacklog,
			want: true,
		},
		{
			name: "backlog error is transient",
			err:  &BacklogError{Excess: 1},
			want: true,
		},
		{
			name: "contention is transient",
			err:  ErrContended,
			want: true,
		},
		{
			name: "guard timeout is not transient",
			err:  ErrGuardTimeout,
			want: false,
		},
		{
			name: "storage error is not transient",
			err:  &StorageError{Operation: "append", Path: "/tmp/out.csv", Err: errors.New("failed")},
			want: false,
		},
		{
			name: "generic error is not transient",
			err:  errors.New("generic error"),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsTransient(tt.err); got != tt.want {
				t.Errorf("IsTransient() = %v, want %v", got, tt.want)
			}
		})
	}
}
