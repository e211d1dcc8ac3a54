package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsCollector 指标收集器
type MetricsCollector struct {
	// HTTP 指标
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// 业务指标
	membershipClassifications *prometheus.CounterVec
	couponRedemptions         *prometheus.CounterVec
	redemptionTasksDropped    prometheus.Counter
}

// NewMetricsCollector 创建指标收集器，reg 为 nil 时注册到默认 Registry
func NewMetricsCollector(reg prometheus.Registerer) *MetricsCollector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &MetricsCollector{
		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status"},
		),

		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),

		membershipClassifications: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "membership_classifications_total",
				Help: "Total number of point balances classified, by resulting tier",
			},
			[]string{"tier"},
		),

		couponRedemptions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "coupon_redemptions_total",
				Help: "Total number of coupon redemption attempts, by discount kind and result",
			},
			[]string{"kind", "result"},
		),

		redemptionTasksDropped: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "redemption_tasks_dropped_total",
				Help: "Redemption records that could not be persisted after all retries",
			},
		),
	}
}

// RecordHTTPRequest 记录 HTTP 请求
func (m *MetricsCollector) RecordHTTPRequest(method, endpoint, status string, duration time.Duration) {
	m.httpRequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	m.httpRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordClassification 记录一次等级计算
func (m *MetricsCollector) RecordClassification(tier string) {
	m.membershipClassifications.WithLabelValues(tier).Inc()
}

// RecordRedemption 记录一次核销结果
func (m *MetricsCollector) RecordRedemption(kind, result string) {
	m.couponRedemptions.WithLabelValues(kind, result).Inc()
}

// RecordDroppedTask 记录一条进入死信的核销记录
func (m *MetricsCollector) RecordDroppedTask() {
	m.redemptionTasksDropped.Inc()
}
