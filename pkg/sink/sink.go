// Package sink defines the interface for persisting formatted recording
// output.
package sink

// Sink appends formatted text chunks to a durable output artifact.
// A chunk always contains whole lines; implementations never split lines.
type Sink interface {
	// Append writes one formatted chunk to the artifact.
	Append(chunk string) error

	// Path returns the resolved location of the artifact.
	Path() string

	// Close flushes and releases the artifact.
	Close() error
}
