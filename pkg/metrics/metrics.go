package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request latency (seconds)
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "path", "status"},
	)

	// End-to-end parse latency (milliseconds)
	ParseDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "email_parse_duration_ms",
			Help:    "Email parse duration in milliseconds",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 12), // 0.1ms to ~200ms
		},
	)

	// Per-extractor latency (milliseconds)
	ExtractorDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "extractor_duration_ms",
			Help:    "Single extractor duration in milliseconds",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 12),
		},
		[]string{"extractor"},
	)

	// Parsed email count by resulting reply type
	EmailParsedCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "email_parsed_count",
			Help: "Total number of emails parsed",
		},
		[]string{"reply_type"},
	)

	// Time candidates extracted per email
	TimeCandidateCount = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "time_candidates_extracted",
			Help:    "Number of time candidates extracted per email",
			Buckets: prometheus.LinearBuckets(0, 2, 10),
		},
	)
)

// RecordHTTPRequestDuration records one HTTP request.
func RecordHTTPRequestDuration(method, path, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// RecordParseDuration records one full parse.
func RecordParseDuration(duration time.Duration) {
	ParseDuration.Observe(float64(duration.Microseconds()) / 1000.0)
}

// RecordExtractorDuration records one extractor run.
func RecordExtractorDuration(extractor string, duration time.Duration) {
	ExtractorDuration.WithLabelValues(extractor).Observe(float64(duration.Microseconds()) / 1000.0)
}

// IncrementEmailParsed counts one parsed email by reply type.
func IncrementEmailParsed(replyType string) {
	EmailParsedCount.WithLabelValues(replyType).Inc()
}

// ObserveTimeCandidates records the candidate count for one email.
func ObserveTimeCandidates(n int) {
	TimeCandidateCount.Observe(float64(n))
}
