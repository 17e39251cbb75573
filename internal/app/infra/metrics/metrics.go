package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal HTTP 请求计数
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "grabsync_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration HTTP 请求耗时
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "grabsync_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	// WebhookOutcomes webhook 处理结果计数（ok / duplicate / error）
	WebhookOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "grabsync_webhook_outcomes_total",
			Help: "Total number of Grab webhook deliveries by outcome",
		},
		[]string{"outcome"},
	)

	// SyncJobsTotal 同步任务结果计数（success / failed / skipped）
	SyncJobsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "grabsync_sync_jobs_total",
			Help: "Total number of processed Ginee sync jobs by result",
		},
		[]string{"result", "trigger"},
	)

	// SyncAttemptsTotal 下游调用尝试次数计数
	SyncAttemptsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "grabsync_sync_attempts_total",
			Help: "Total number of outbound Ginee sync attempts",
		},
	)
)

// RecordWebhookOutcome 记录 webhook 处理结果
func RecordWebhookOutcome(outcome string) {
	WebhookOutcomes.WithLabelValues(outcome).Inc()
}

// RecordSyncJob 记录同步任务结果
func RecordSyncJob(result, trigger string, attempts int) {
	SyncJobsTotal.WithLabelValues(result, trigger).Inc()
	if attempts > 0 {
		SyncAttemptsTotal.Add(float64(attempts))
	}
}
