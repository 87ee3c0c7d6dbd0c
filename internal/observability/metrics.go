package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	exportsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ministrylog",
		Subsystem: "export",
		Name:      "artifacts_total",
		Help:      "Weekly report exports by format and outcome.",
	}, []string{"format", "outcome"})
	exportDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "ministrylog",
		Subsystem: "export",
		Name:      "duration_seconds",
		Help:      "Time spent rendering one weekly report.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"format"})
	droppedEntries = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "ministrylog",
		Subsystem: "aggregate",
		Name:      "dropped_entries_total",
		Help:      "Activity entries excluded from the grid (outside the week or unknown time slot).",
	})
	clipboardWrites = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ministrylog",
		Subsystem: "clipboard",
		Name:      "writes_total",
		Help:      "Clipboard payload writes by outcome.",
	}, []string{"outcome"})
)

func init() {
	prometheus.MustRegister(exportsTotal, exportDuration, droppedEntries, clipboardWrites)
}

// RecordExport counts one export attempt and its rendering time.
func RecordExport(format string, started time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	exportsTotal.WithLabelValues(format, outcome).Inc()
	exportDuration.WithLabelValues(format).Observe(time.Since(started).Seconds())
}

// RecordDroppedEntries adds entries the aggregator filtered out.
func RecordDroppedEntries(n int) {
	if n <= 0 {
		return
	}
	droppedEntries.Add(float64(n))
}

// RecordClipboardWrite counts one clipboard write attempt.
func RecordClipboardWrite(ok bool) {
	outcome := "ok"
	if !ok {
		outcome = "error"
	}
	clipboardWrites.WithLabelValues(outcome).Inc()
}
