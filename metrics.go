package keypad

import (
	"go.uber.org/atomic"
)

// Metrics tracks serial I/O statistics for one session.
type Metrics struct {
	// Read Operations
	ReadOperations atomic.Int64 // Total bounded read attempts
	EmptyReads     atomic.Int64 // Reads that timed out with zero bytes
	ReadErrors     atomic.Int64 // Transport or decode failures on read
	BytesRead      atomic.Int64 // Total bytes read
	Responses      atomic.Int64 // Non-empty responses decoded

	// Write Operations
	WriteOperations atomic.Int64 // Total command writes
	WriteErrors     atomic.Int64 // Transport failures on write
	BytesWritten    atomic.Int64 // Total bytes written
}

// MetricsSnapshot is a point-in-time copy of the session counters.
type MetricsSnapshot struct {
	ReadOperations int64
	EmptyReads     int64
	ReadErrors     int64
	BytesRead      int64
	Responses      int64

	WriteOperations int64
	WriteErrors     int64
	BytesWritten    int64
}

// Snapshot returns a consistent-enough copy of the counters. Counters are
// read individually, so a snapshot taken during active I/O may be skewed by
// in-flight operations.
func (m *Metrics) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		ReadOperations:  m.ReadOperations.Load(),
		EmptyReads:      m.EmptyReads.Load(),
		ReadErrors:      m.ReadErrors.Load(),
		BytesRead:       m.BytesRead.Load(),
		Responses:       m.Responses.Load(),
		WriteOperations: m.WriteOperations.Load(),
		WriteErrors:     m.WriteErrors.Load(),
		BytesWritten:    m.BytesWritten.Load(),
	}
}
