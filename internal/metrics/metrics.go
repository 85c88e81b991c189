// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Generation pipeline metrics
	IncGeneration(outcome string) // outcome: "success", "degraded", "failed", "invalid"
	ObserveGenerationDuration(duration time.Duration)

	// Auth metrics
	IncSignup(outcome string) // outcome: "success", "duplicate", "invalid"
	IncLogin(outcome string)  // outcome: "success", "failed"

	// Rate limiting metrics
	IncRateLimited()
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
