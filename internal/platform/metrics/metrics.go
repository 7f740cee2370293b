package metrics

import (
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// Prometheus 的 registry 不允许重复注册同名指标，否则直接 panic
	once sync.Once

	// HTTPRequestsTotal 按 method / 路由模板 / 状态码累计请求数。
	// route 用 pattern（/url/user/:id），不要用真实 path，否则 label 基数无限。
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_request_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency distributions.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	HTTPInflightRequests = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_inflight_requests",
			Help: "Current number of in-flight HTTP requests.",
		},
	)

	// CacheOperations layer 取 l1 / l2，result 取 hit / hit_negative / miss / error
	CacheOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_operations_total",
			Help: "URL cache lookups by layer and result.",
		},
		[]string{"layer", "result"},
	)

	URLRedirects = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "url_redirects_total",
			Help: "Successful short code redirects.",
		},
	)

	URLShortened = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "url_shortened_total",
			Help: "Shorten calls, split by whether an existing code was reused.",
		},
		[]string{"reused"},
	)

	CodeCollisions = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "url_code_collisions_total",
			Help: "Candidate codes rejected because they were already issued.",
		},
	)
)

// Init 注册指标，只执行一次
func Init() {
	once.Do(func() {
		prometheus.MustRegister(
			HTTPRequestsTotal,
			HTTPRequestDurationSeconds,
			HTTPInflightRequests,
			CacheOperations,
			URLRedirects,
			URLShortened,
			CodeCollisions,
		)
	})
}

// Recorder 把领域事件计入 Prometheus，实现 shortener.Recorder
type Recorder struct{}

func (Recorder) CodeCollision() { CodeCollisions.Inc() }

func (Recorder) Shortened(reused bool) {
	URLShortened.WithLabelValues(strconv.FormatBool(reused)).Inc()
}
