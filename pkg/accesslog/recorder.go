package accesslog

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Record describes one proxied request after the response has been fully
// written downstream.
type Record struct {
	// ID uniquely identifies this record.
	ID string

	// RequestID is the correlation ID the middleware assigned to the request.
	RequestID string

	// Provider is the name of the backend that served the request.
	// Empty when routing failed before a provider was chosen.
	Provider string

	// Model is the native model name sent upstream.
	Model string

	// TaggedModel is the model name as the client sent it.
	TaggedModel string

	// Method and Path describe the inbound request line.
	Method string
	Path   string

	// Status is the HTTP status written downstream.
	Status int

	// Streamed reports whether the response was relayed unit by unit.
	Streamed bool

	// Chunks is the number of streaming units forwarded.
	Chunks int

	// Duration is the end-to-end request duration.
	Duration time.Duration

	// StartedAt is when the proxy accepted the request.
	StartedAt time.Time
}

// NewRecord creates a record with a fresh ID and the given start time.
func NewRecord(startedAt time.Time) *Record {
	return &Record{
		ID:        uuid.New().String(),
		StartedAt: startedAt,
	}
}

// Recorder persists access records.
type Recorder interface {
	// Record persists one record. Implementations must not block the
	// caller longer than a local write takes.
	Record(ctx context.Context, rec *Record) error

	// Close releases underlying resources.
	Close() error
}

// NopRecorder discards all records. Used when the access log is disabled.
type NopRecorder struct{}

// Record discards the record.
func (NopRecorder) Record(context.Context, *Record) error { return nil }

// Close is a no-op.
func (NopRecorder) Close() error { return nil }
