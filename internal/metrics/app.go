package metrics

import (
	"time"

	"github.com/domainworth/domainworth/internal/observability"
)

// Application-level metrics following Prometheus conventions
var (
	// Governed call metrics
	GovernedCallsTotal     = "app_governed_calls_total"
	GovernedRetriesTotal   = "app_governed_retries_total"
	GovernedCallsExhausted = "app_governed_calls_exhausted_total"

	// Report metrics
	ReportsTotal   = "app_reports_total"
	ReportDuration = "app_report_duration_ms"

	// Server lifecycle metrics
	ServerStartTime = "app_server_start_time_seconds"
	ServerUptime    = "app_server_uptime_seconds"
)

// RecordGovernedCall records one governed invocation outcome per endpoint.
func RecordGovernedCall(endpoint string, success bool) {
	status := "success"
	if !success {
		status = "failure"
	}

	if observability.TelemetrySystem != nil {
		_ = observability.TelemetrySystem.Counter(
			GovernedCallsTotal,
			1,
			map[string]string{
				"endpoint": endpoint,
				"status":   status,
			},
		)
	}
}

// RecordGovernedRetry records one retry of a governed call.
func RecordGovernedRetry(endpoint string) {
	if observability.TelemetrySystem != nil {
		_ = observability.TelemetrySystem.Counter(
			GovernedRetriesTotal,
			1,
			map[string]string{"endpoint": endpoint},
		)
	}
}

// RecordRetriesExhausted records a governed call that gave up.
func RecordRetriesExhausted(endpoint string) {
	if observability.TelemetrySystem != nil {
		_ = observability.TelemetrySystem.Counter(
			GovernedCallsExhausted,
			1,
			map[string]string{"endpoint": endpoint},
		)
	}
}

// SetServerStartTime records the server start time (Unix timestamp)
func SetServerStartTime(timestamp int64) {
	if observability.TelemetrySystem != nil {
		_ = observability.TelemetrySystem.Gauge(
			ServerStartTime,
			float64(timestamp),
			nil,
		)
	}
}

// SetServerUptime records the server uptime in seconds
func SetServerUptime(seconds int64) {
	if observability.TelemetrySystem != nil {
		_ = observability.TelemetrySystem.Gauge(
			ServerUptime,
			float64(seconds),
			nil,
		)
	}
}

// RecordReport records one finished appraisal report.
func RecordReport(success bool, duration time.Duration) {
	status := "success"
	if !success {
		status = "failure"
	}

	if observability.TelemetrySystem != nil {
		_ = observability.TelemetrySystem.Counter(
			ReportsTotal,
			1,
			map[string]string{"status": status},
		)
		_ = observability.TelemetrySystem.Histogram(
			ReportDuration,
			duration,
			map[string]string{"status": status},
		)
	}
}
