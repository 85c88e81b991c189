package handler

import (
	"fmt"
	"net/http"
	"sort"

	"github.com/postdost/postdost/internal/metrics"
)

// MetricsHandler exposes in-memory metrics.
type MetricsHandler struct {
	snapshotter metrics.Snapshotter
}

// NewMetricsHandler creates a new MetricsHandler.
func NewMetricsHandler(snapshotter metrics.Snapshotter) *MetricsHandler {
	return &MetricsHandler{snapshotter: snapshotter}
}

// Metrics returns metrics in Prometheus exposition format.
func (h *MetricsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	if h.snapshotter == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	snap := h.snapshotter.Snapshot()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	writeLabeledCounts(w, "postdost_generations_total", snap.Generations)
	writeMetric(w, "postdost_generation_duration_seconds_count %d\n", snap.GenerationDurationCount)
	writeMetric(w, "postdost_generation_duration_seconds_sum %.6f\n", float64(snap.GenerationDurationTotalNs)/1e9)

	writeLabeledCounts(w, "postdost_signups_total", snap.Signups)
	writeLabeledCounts(w, "postdost_logins_total", snap.Logins)

	writeMetric(w, "postdost_rate_limited_total %d\n", snap.RateLimited)
}

// writeLabeledCounts emits one line per outcome, sorted for stable output.
func writeLabeledCounts(w http.ResponseWriter, name string, counts map[string]uint64) {
	outcomes := make([]string, 0, len(counts))
	for outcome := range counts {
		outcomes = append(outcomes, outcome)
	}
	sort.Strings(outcomes)

	for _, outcome := range outcomes {
		writeMetric(w, name+"{outcome=%q} %d\n", outcome, counts[outcome])
	}
}

func writeMetric(w http.ResponseWriter, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
