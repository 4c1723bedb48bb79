// Package metrics 匯出 Prometheus 指標
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// UpstreamRequestsTotal 上游食譜 API 呼叫次數
	UpstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leftover_chef_upstream_requests_total",
			Help: "Total number of recipe source API calls by endpoint and outcome",
		},
		[]string{"endpoint", "outcome"},
	)

	// UpstreamRequestDuration 上游呼叫耗時
	UpstreamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "leftover_chef_upstream_request_duration_seconds",
			Help:    "Latency of recipe source API calls",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 20},
		},
		[]string{"endpoint"},
	)

	// BreakerState 斷路器狀態（0=closed, 1=half-open, 2=open）
	BreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "leftover_chef_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	// CacheLookupsTotal 快取查詢結果
	CacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leftover_chef_cache_lookups_total",
			Help: "Cache lookups by kind and result",
		},
		[]string{"kind", "result"},
	)

	// SearchesTotal 搜尋次數，依聚合模式分類
	SearchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leftover_chef_searches_total",
			Help: "Recipe searches by aggregation mode",
		},
		[]string{"mode"},
	)

	// SearchDuration 搜尋耗時
	SearchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "leftover_chef_search_duration_seconds",
			Help:    "End-to-end recipe search latency",
			Buckets: prometheus.DefBuckets,
		},
	)

	// HTTPRequestsTotal HTTP 請求數
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leftover_chef_http_requests_total",
			Help: "HTTP requests by method, route and status",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDuration HTTP 請求耗時
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "leftover_chef_http_request_duration_seconds",
			Help:    "HTTP request latency by route",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

// RecordUpstream 記錄一次上游呼叫
func RecordUpstream(endpoint string, d time.Duration, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	UpstreamRequestsTotal.WithLabelValues(endpoint, outcome).Inc()
	UpstreamRequestDuration.WithLabelValues(endpoint).Observe(d.Seconds())
}

// RecordCache 記錄快取命中或未命中
func RecordCache(kind string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	CacheLookupsTotal.WithLabelValues(kind, result).Inc()
}

// RecordSearch 記錄搜尋模式與耗時
func RecordSearch(mode string, d time.Duration) {
	SearchesTotal.WithLabelValues(mode).Inc()
	SearchDuration.Observe(d.Seconds())
}

// RecordHTTP 記錄一次 HTTP 請求；route 使用路由樣板避免高基數
func RecordHTTP(method, route string, status int, d time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}
