package recorder

import "sync/atomic"

// State holds the process-wide recording flags shared by the producer and
// writer loops. It is passed explicitly to both rather than living as an
// ambient global, so the pipeline is testable without a host runtime.
type State struct {
	recording atomic.Bool
	shutdown  atomic.Bool
}

// NewState returns a State with recording disabled.
func NewState() *State {
	return &State{}
}

// SetRecording enables or disables sample capture.
func (s *State) SetRecording(enabled bool) {
	s.recording.Store(enabled)
}

// ToggleRecording flips the recording flag and returns the new value.
func (s *State) ToggleRecording() bool {
	for {
		old := s.recording.Load()
		if s.recording.CompareAndSwap(old, !old) {
			return !old
		}
	}
}

// Recording reports whether sample capture is enabled.
func (s *State) Recording() bool {
	return s.recording.Load()
}

// RequestShutdown stops the producer from accepting new samples and tells
// the writer to finish. It is never cleared.
func (s *State) RequestShutdown() {
	s.shutdown.Store(true)
}

// ShutdownRequested reports whether shutdown has been requested.
func (s *State) ShutdownRequested() bool {
	return s.shutdown.Load()
}
