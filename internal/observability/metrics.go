package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "cdrdecode"

var (
	registerOnce sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests.",
		},
		[]string{"component", "method", "path", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"component", "method", "path", "status"},
	)
	filesProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "files_total",
			Help:      "CDR files processed by outcome.",
		},
		[]string{"status"},
	)
	bytesDecoded = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "bytes_total",
			Help:      "Decompressed CDR bytes scanned.",
		},
	)
	stageDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "stage_duration_seconds",
			Help:      "Per-file stage duration in seconds.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		},
		[]string{"stage"},
	)
	recordsDecoded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "decode",
			Name:      "records_total",
			Help:      "Decoded records by record type.",
		},
		[]string{"record_type"},
	)
	recordsSkipped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "decode",
			Name:      "skipped_records_total",
			Help:      "Root records skipped because their type has no layout.",
		},
	)
	fieldErrors = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "decode",
			Name:      "field_errors_total",
			Help:      "Fields that decoded to an error value.",
		},
	)
	structuralFaults = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "decode",
			Name:      "structural_faults_total",
			Help:      "Structural faults recovered inside records.",
		},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			httpRequests, httpDuration,
			filesProcessed, bytesDecoded, stageDuration,
			recordsDecoded, recordsSkipped, fieldErrors, structuralFaults,
		)
	})
}

func RecordHTTPRequest(component, method, path string, status int, duration time.Duration) {
	RegisterMetrics()
	statusLabel := strconv.Itoa(status)
	httpRequests.WithLabelValues(component, method, path, statusLabel).Inc()
	httpDuration.WithLabelValues(component, method, path, statusLabel).Observe(duration.Seconds())
}

// RecordFile counts one processed file and its decompressed size.
func RecordFile(ok bool, bytes int) {
	RegisterMetrics()
	status := "ok"
	if !ok {
		status = "failed"
	}
	filesProcessed.WithLabelValues(status).Inc()
	bytesDecoded.Add(float64(bytes))
}

func RecordStage(stage string, duration time.Duration) {
	RegisterMetrics()
	stageDuration.WithLabelValues(stage).Observe(duration.Seconds())
}

func RecordRecords(recordType string, n int) {
	RegisterMetrics()
	recordsDecoded.WithLabelValues(recordType).Add(float64(n))
}

func RecordDecodeIssues(skipped, fieldErrs, faults int) {
	RegisterMetrics()
	recordsSkipped.Add(float64(skipped))
	fieldErrors.Add(float64(fieldErrs))
	structuralFaults.Add(float64(faults))
}
