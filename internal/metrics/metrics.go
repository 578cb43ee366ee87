// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hitoshi/skygazer/internal/model"
)

// MetricsCollector はメトリクス収集のインターフェース。
// ハンドラー層とキャッシュ層から利用する。
type MetricsCollector interface {
	RecordUpstreamRequest(api string, err error)
	RecordUpstreamLatency(api string, duration time.Duration)
	RecordCardRendered()
	RecordCacheHit()
	RecordCacheMiss()
}

// Collector はPrometheusメトリクスを収集する実装。
// cache.Observerインターフェースも満たす。
type Collector struct {
	upstreamRequests *prometheus.CounterVec
	upstreamLatency  *prometheus.HistogramVec
	cardsRendered    prometheus.Counter
	cacheHits        prometheus.Counter
	cacheMisses      prometheus.Counter
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		upstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "skygazer_upstream_requests_total",
			Help: "上流API呼び出しのAPI別・結果別の合計数",
		}, []string{"api", "outcome"}),
		upstreamLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "skygazer_upstream_latency_seconds",
			Help:    "上流API呼び出しのレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}, []string{"api"}),
		cardsRendered: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "skygazer_cards_rendered_total",
			Help: "生成されたシェアカードの合計数",
		}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "skygazer_cache_hits_total",
			Help: "結果キャッシュのヒット合計数",
		}),
		cacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "skygazer_cache_misses_total",
			Help: "結果キャッシュのミス合計数",
		}),
	}

	reg.MustRegister(
		c.upstreamRequests,
		c.upstreamLatency,
		c.cardsRendered,
		c.cacheHits,
		c.cacheMisses,
	)

	return c
}

// RecordUpstreamRequest は上流API呼び出しの結果を記録する。
// errがFetchErrorの場合はその種別を、nilの場合はsuccessを結果ラベルに使う。
func (c *Collector) RecordUpstreamRequest(api string, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
		if fe, ok := model.AsFetchError(err); ok {
			outcome = string(fe.Kind)
		}
	}
	c.upstreamRequests.WithLabelValues(api, outcome).Inc()
}

// RecordUpstreamLatency は上流API呼び出しのレイテンシを記録する。
func (c *Collector) RecordUpstreamLatency(api string, duration time.Duration) {
	c.upstreamLatency.WithLabelValues(api).Observe(duration.Seconds())
}

// RecordCardRendered はシェアカードの生成を記録する。
func (c *Collector) RecordCardRendered() {
	c.cardsRendered.Inc()
}

// RecordCacheHit は結果キャッシュのヒットを記録する。
func (c *Collector) RecordCacheHit() {
	c.cacheHits.Inc()
}

// RecordCacheMiss は結果キャッシュのミスを記録する。
func (c *Collector) RecordCacheMiss() {
	c.cacheMisses.Inc()
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
