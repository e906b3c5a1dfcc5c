// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// サービス層とミドルウェアから利用する。
type MetricsCollector interface {
	RecordTaskCreated(userID string)
	RecordValidationFailure(field string)
	RecordUserProvisioned()
	RecordHTTPStatus(statusCode int)
	RecordTaskCreateLatency(duration time.Duration)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	tasksCreated      prometheus.Counter
	validationFail    *prometheus.CounterVec
	usersProvisioned  prometheus.Counter
	httpStatus        *prometheus.CounterVec
	taskCreateLatency prometheus.Histogram
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		tasksCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "taskboard_tasks_created_total",
			Help: "作成されたタスクの合計数",
		}),
		validationFail: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "taskboard_task_validation_fail_total",
			Help: "タスク入力の検証エラーの合計数（フィールド別）",
		}, []string{"field"}),
		usersProvisioned: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "taskboard_users_provisioned_total",
			Help: "初回サインインでプロビジョニングされたユーザーの合計数",
		}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "taskboard_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		taskCreateLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "taskboard_task_create_latency_seconds",
			Help:    "タスク作成処理のレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		c.tasksCreated,
		c.validationFail,
		c.usersProvisioned,
		c.httpStatus,
		c.taskCreateLatency,
	)

	return c
}

// RecordTaskCreated はタスク作成成功を記録する。
func (c *Collector) RecordTaskCreated(userID string) {
	c.tasksCreated.Inc()
}

// RecordValidationFailure は検証エラーをフィールド別に記録する。
func (c *Collector) RecordValidationFailure(field string) {
	c.validationFail.WithLabelValues(field).Inc()
}

// RecordUserProvisioned は新規ユーザーのプロビジョニングを記録する。
func (c *Collector) RecordUserProvisioned() {
	c.usersProvisioned.Inc()
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordTaskCreateLatency はタスク作成処理のレイテンシを記録する。
func (c *Collector) RecordTaskCreateLatency(duration time.Duration) {
	c.taskCreateLatency.Observe(duration.Seconds())
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// SetupMetricsRoute は/metricsエンドポイントを提供するHTTPハンドラーを返す。
// Prometheusスクレイプに対応する。
func SetupMetricsRoute(gatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(gatherer))
	return mux
}
