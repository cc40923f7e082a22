// Package metrics exposes the Prometheus instruments of the habit service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "habitify_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "habitify_api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "habitify_api_active_requests",
			Help: "Number of requests currently being served",
		},
	)

	// Habit state machine
	StatusTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "habitify_status_transitions_total",
			Help: "Habit status changes made by users",
		},
		[]string{"status"},
	)

	HabitsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "habitify_habits_created_total",
			Help: "Habits created",
		},
	)

	HabitsDeleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "habitify_habits_deleted_total",
			Help: "Habits hard deleted",
		},
	)

	// Rollover
	RolloverRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "habitify_rollover_runs_total",
			Help: "Rollover runs by trigger and outcome",
		},
		[]string{"trigger", "result"},
	)

	RolloverDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "habitify_rollover_duration_seconds",
			Help:    "Duration of rollover transactions in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	RolloverRows = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "habitify_rollover_rows_total",
			Help: "Rows changed by rollover, per step",
		},
		[]string{"step"},
	)

	RolloverLastSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "habitify_rollover_last_success_timestamp_seconds",
			Help: "Unix time of the last successful rollover",
		},
	)

	// Store
	TransactionErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "habitify_transaction_errors_total",
			Help: "Transactions that failed and were rolled back",
		},
		[]string{"operation"},
	)
)

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest increments or decrements the active request gauge
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordStatusTransition counts a user-driven status change
func RecordStatusTransition(status string) {
	StatusTransitions.WithLabelValues(status).Inc()
}

// RecordTransactionError counts a rolled back transaction
func RecordTransactionError(operation string) {
	TransactionErrors.WithLabelValues(operation).Inc()
}

// RecordRollover records one rollover attempt. Row counts are only added on success.
func RecordRollover(trigger string, duration time.Duration, failed, streaks, reopened, opened int64, err error) {
	RolloverDuration.Observe(duration.Seconds())
	if err != nil {
		RolloverRuns.WithLabelValues(trigger, "error").Inc()
		return
	}
	RolloverRuns.WithLabelValues(trigger, "success").Inc()
	RolloverRows.WithLabelValues("yesterday_failed").Add(float64(failed))
	RolloverRows.WithLabelValues("streaks_reset").Add(float64(streaks))
	RolloverRows.WithLabelValues("habits_reopened").Add(float64(reopened))
	RolloverRows.WithLabelValues("new_todos_created").Add(float64(opened))
	RolloverLastSuccess.SetToCurrentTime()
}
