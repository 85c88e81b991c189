package metrics

import (
	"sync"
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	Generations               map[string]uint64
	GenerationDurationCount   uint64
	GenerationDurationTotalNs int64
	Signups                   map[string]uint64
	Logins                    map[string]uint64
	RateLimited               uint64
}

// InMemoryRecorder stores metrics in memory for tests.
type InMemoryRecorder struct {
	mu                        sync.Mutex
	generations               map[string]uint64
	signups                   map[string]uint64
	logins                    map[string]uint64
	generationDurationCount   uint64
	generationDurationTotalNs int64
	rateLimited               uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{
		generations: make(map[string]uint64),
		signups:     make(map[string]uint64),
		logins:      make(map[string]uint64),
	}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	return Snapshot{
		Generations:               copyCounts(m.generations),
		GenerationDurationCount:   atomic.LoadUint64(&m.generationDurationCount),
		GenerationDurationTotalNs: atomic.LoadInt64(&m.generationDurationTotalNs),
		Signups:                   copyCounts(m.signups),
		Logins:                    copyCounts(m.logins),
		RateLimited:               atomic.LoadUint64(&m.rateLimited),
	}
}

// IncGeneration increments the counter for a generation outcome.
func (m *InMemoryRecorder) IncGeneration(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.generations[outcome]++
}

// ObserveGenerationDuration records how long a generation took.
func (m *InMemoryRecorder) ObserveGenerationDuration(duration time.Duration) {
	atomic.AddUint64(&m.generationDurationCount, 1)
	atomic.AddInt64(&m.generationDurationTotalNs, duration.Nanoseconds())
}

// IncSignup increments the counter for a signup outcome.
func (m *InMemoryRecorder) IncSignup(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.signups[outcome]++
}

// IncLogin increments the counter for a login outcome.
func (m *InMemoryRecorder) IncLogin(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logins[outcome]++
}

// IncRateLimited increments the rejected-request counter.
func (m *InMemoryRecorder) IncRateLimited() {
	atomic.AddUint64(&m.rateLimited, 1)
}

func copyCounts(src map[string]uint64) map[string]uint64 {
	dst := make(map[string]uint64, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
